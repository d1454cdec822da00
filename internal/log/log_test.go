package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestDebugSuppressedByDefault(t *testing.T) {
	t.Setenv("SCHOOLCAL_DEBUG", "")
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("hidden")
	Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug lines should be gated off by default, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("info lines should pass, got %q", out)
	}
}

func TestDebugEnabledByEnv(t *testing.T) {
	t.Setenv("SCHOOLCAL_DEBUG", "1")
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("SCHOOLCAL_DEBUG should enable debug lines, got %q", buf.String())
	}
}
