package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/schoolcal/internal/schedule"
)

func testOccurrence(id, title string, h1, h2 int) schedule.Occurrence {
	day := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.Local)
	start := day.Add(time.Duration(h1) * time.Hour)
	end := day.Add(time.Duration(h2) * time.Hour)
	return schedule.Occurrence{
		Event: schedule.Event{
			ID:        id,
			Title:     title,
			StartDate: start,
			EndDate:   end,
			Variant:   schedule.VariantPrimary,
		},
		Day:   day,
		Start: start,
		End:   end,
	}
}

func TestToCSV(t *testing.T) {
	occs := []schedule.Occurrence{
		testOccurrence("1", "Math", 9, 10),
		testOccurrence("2", "History", 11, 12),
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ToCSV(occs, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" {
		t.Fatalf("missing header row: %v", rows[0])
	}
	if rows[1][1] != "Math" || rows[2][1] != "History" {
		t.Fatalf("unexpected titles: %v / %v", rows[1], rows[2])
	}
	if rows[1][2] != "2024-03-04" {
		t.Fatalf("day column = %q", rows[1][2])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "ID,") {
		t.Fatal("empty export should still write the header")
	}
}

func TestToJSON(t *testing.T) {
	occs := []schedule.Occurrence{testOccurrence("1", "Math", 9, 10)}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := ToJSON(occs, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Count       int `json:"count"`
		Occurrences []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Day   string `json:"day"`
		} `json:"occurrences"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || len(out.Occurrences) != 1 {
		t.Fatalf("unexpected export: %+v", out)
	}
	if out.Occurrences[0].Title != "Math" || out.Occurrences[0].Day != "2024-03-04" {
		t.Fatalf("unexpected occurrence: %+v", out.Occurrences[0])
	}
}

func TestFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	raw := `[
		{"id": "a", "title": "Math", "startDate": "2024-03-04T09:00:00Z", "endDate": "2024-03-04T10:00:00Z"},
		{"id": "b", "title": "Bad", "startDate": "garbage", "endDate": "2024-03-04T10:00:00Z"},
		{"id": "c", "title": "Gym", "startDate": "2024-03-05", "endDate": "2024-03-05", "variant": "success"}
	]`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := FromJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Events) != 2 {
		t.Fatalf("expected 2 valid events, got %d", len(res.Events))
	}
	if res.Skipped != 1 {
		t.Fatalf("expected 1 skipped record, got %d", res.Skipped)
	}
	if res.Events[0].ID != "a" || res.Events[1].ID != "c" {
		t.Fatalf("wrong events kept: %s, %s", res.Events[0].ID, res.Events[1].ID)
	}
	if res.Events[1].Variant != schedule.VariantSuccess {
		t.Fatalf("variant lost on import: %s", res.Events[1].Variant)
	}
}

func TestFromJSONBadFile(t *testing.T) {
	if _, err := FromJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file should error")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{not an array}"), 0o644)
	if _, err := FromJSON(path); err == nil {
		t.Fatal("non-array payload should error")
	}
}
