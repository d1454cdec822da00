package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/schoolcal/internal/schedule"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCalendar viewState = iota
	viewEvents
	viewStats
	viewSettings
)

var viewNames = []string{"Calendar", "Events", "Stats", "Settings"}

// --- Messages ---

type calendarDataMsg struct {
	events []schedule.Event
}

type eventsDataMsg struct {
	events []schedule.Event
}

type statsDataMsg struct {
	counts map[string][]schedule.Occurrence // day key -> occurrences
}

type eventSavedMsg struct{}

type eventDeletedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

// minuteTickMsg drives the live time indicator. One is in flight at a time;
// the calendar re-arms it when it lands.
type minuteTickMsg time.Time

type exportDoneMsg struct {
	path string
}

type importDoneMsg struct {
	count   int
	skipped int
}

// --- Helpers ---

var weekdayShort = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// formatClock prints a time-of-day honoring the clock_format setting.
func formatClock(t time.Time, format string) string {
	if format == "12h" {
		return t.Format("3:04pm")
	}
	return t.Format("15:04")
}

func formatSpan(occ schedule.Occurrence, format string) string {
	return fmt.Sprintf("%s-%s", formatClock(occ.Start, format), formatClock(occ.End, format))
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	return string(r[:w-1]) + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
