package store

import (
	"strconv"
	"testing"
	"time"

	"github.com/sadopc/schoolcal/internal/schedule"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testEvent is a helper for a one-hour class on 2024-03-04.
func testEvent(title string) schedule.Event {
	start := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.Local)
	return schedule.Event{
		Title:     title,
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		Variant:   schedule.VariantPrimary,
		Metadata:  map[string]any{"type": "event"},
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/schoolcal.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Events
// ============================================================

func TestCreateAndGetEvent(t *testing.T) {
	s := newTestStore(t)
	ev, err := s.CreateEvent(testEvent("Math"))
	if err != nil {
		t.Fatal(err)
	}
	if ev.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if ev.Title != "Math" || ev.Variant != schedule.VariantPrimary {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.EndDate.Sub(ev.StartDate) != time.Hour {
		t.Fatalf("span should round-trip, got %v", ev.EndDate.Sub(ev.StartDate))
	}
	if ev.Metadata["type"] != "event" {
		t.Fatalf("metadata should round-trip, got %v", ev.Metadata)
	}
}

func TestCreateRecurringEventRoundTrip(t *testing.T) {
	s := newTestStore(t)
	in := testEvent("Gym")
	in.IsRecurring = true
	in.RecurrenceType = schedule.RecurBiweekly
	in.RecurringDays = []int{1, 4}
	in.MonthlyDate = 15
	in.Metadata = map[string]any{"allDay": true}

	ev, err := s.CreateEvent(in)
	if err != nil {
		t.Fatal(err)
	}
	if !ev.IsRecurring || ev.RecurrenceType != schedule.RecurBiweekly {
		t.Fatalf("recurrence fields lost: %+v", ev)
	}
	if len(ev.RecurringDays) != 2 || ev.RecurringDays[0] != 1 || ev.RecurringDays[1] != 4 {
		t.Fatalf("recurringDays = %v", ev.RecurringDays)
	}
	if ev.Interval() != 2 {
		t.Fatalf("biweekly interval = %d", ev.Interval())
	}
	if !ev.AllDay() {
		t.Fatal("allDay metadata flag lost")
	}
}

func TestGetEventNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetEvent(999); err == nil {
		t.Fatal("expected error for missing event")
	}
}

func TestListEventsOrdered(t *testing.T) {
	s := newTestStore(t)
	late := testEvent("Late")
	late.StartDate = late.StartDate.Add(5 * time.Hour)
	late.EndDate = late.StartDate.Add(time.Hour)
	s.CreateEvent(late)
	s.CreateEvent(testEvent("Early"))

	events, err := s.ListEvents(EventFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Title != "Early" || events[1].Title != "Late" {
		t.Fatalf("events should be ordered by start: %s, %s", events[0].Title, events[1].Title)
	}
}

func TestListEventsFiltered(t *testing.T) {
	s := newTestStore(t)
	s.CreateEvent(testEvent("InRange"))
	old := testEvent("TooOld")
	old.StartDate = old.StartDate.AddDate(-1, 0, 0)
	old.EndDate = old.StartDate.Add(time.Hour)
	s.CreateEvent(old)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	events, err := s.ListEvents(EventFilter{From: &from})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Title != "InRange" {
		t.Fatalf("filter should drop old events, got %d", len(events))
	}

	events, _ = s.ListEvents(EventFilter{Limit: 1})
	if len(events) != 1 {
		t.Fatalf("limit should cap results, got %d", len(events))
	}
}

func TestListEventsEmpty(t *testing.T) {
	s := newTestStore(t)
	events, err := s.ListEvents(EventFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if events != nil {
		t.Fatalf("expected nil slice, got %d items", len(events))
	}
}

func TestUpdateEvent(t *testing.T) {
	s := newTestStore(t)
	ev, _ := s.CreateEvent(testEvent("Old"))

	ev.Title = "New"
	ev.Variant = schedule.VariantDanger
	id := mustID(t, ev.ID)
	if err := s.UpdateEvent(id, ev); err != nil {
		t.Fatal(err)
	}

	updated, _ := s.GetEvent(id)
	if updated.Title != "New" || updated.Variant != schedule.VariantDanger {
		t.Fatalf("update failed: %+v", updated)
	}
}

func TestDeleteEvent(t *testing.T) {
	s := newTestStore(t)
	ev, _ := s.CreateEvent(testEvent("Gone"))
	id := mustID(t, ev.ID)

	if err := s.DeleteEvent(id); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetEvent(id); err == nil {
		t.Fatal("deleted event should not be found")
	}
}

func mustID(t *testing.T, s string) int64 {
	t.Helper()
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		t.Fatalf("bad id %q: %v", s, err)
	}
	return id
}

// ============================================================
// Settings
// ============================================================

func TestSettings(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetSetting("default_view")
	if err != nil {
		t.Fatal(err)
	}
	if v != "week" {
		t.Fatalf("default_view = %q, want week", v)
	}

	if err := s.SetSetting("default_view", "day"); err != nil {
		t.Fatal(err)
	}
	v, _ = s.GetSetting("default_view")
	if v != "day" {
		t.Fatalf("after set, default_view = %q", v)
	}

	if _, err := s.GetSetting("nope"); err == nil {
		t.Fatal("missing key should error")
	}
}

func TestGetIntSetting(t *testing.T) {
	s := newTestStore(t)
	if got := s.GetIntSetting("month_preview", 9); got != 2 {
		t.Fatalf("month_preview = %d, want 2", got)
	}
	if got := s.GetIntSetting("missing", 7); got != 7 {
		t.Fatalf("missing key should fall back, got %d", got)
	}
	s.SetSetting("weird", "not-a-number")
	if got := s.GetIntSetting("weird", 3); got != 3 {
		t.Fatalf("non-numeric value should fall back, got %d", got)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) < 4 {
		t.Fatalf("expected seeded defaults, got %d", len(settings))
	}
}
