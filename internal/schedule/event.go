package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// Variant is the display category of an event.
type Variant string

const (
	VariantDefault Variant = "default"
	VariantPrimary Variant = "primary"
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantDanger  Variant = "danger"
)

// ParseVariant maps a raw string onto the fixed palette. Unknown values
// fall back to the default variant.
func ParseVariant(s string) Variant {
	switch Variant(s) {
	case VariantPrimary, VariantSuccess, VariantWarning, VariantDanger:
		return Variant(s)
	default:
		return VariantDefault
	}
}

// RecurrenceType describes how an event repeats.
type RecurrenceType string

const (
	RecurOnce     RecurrenceType = "ONCE"
	RecurWeekly   RecurrenceType = "WEEKLY"
	RecurBiweekly RecurrenceType = "BIWEEKLY"
	RecurMonthly  RecurrenceType = "MONTHLY"
	RecurYearly   RecurrenceType = "YEARLY"
)

// Metadata keys the engine reads. Everything else in the bag is opaque
// domain data (bill/assignment/todo flags and the like).
const (
	metaAllDay   = "allDay"
	metaHideTime = "hideTime"
)

// Event is one calendar event as handed to the engine. StartDate/EndDate
// define the base occurrence; the recurrence fields describe how it repeats.
type Event struct {
	ID          string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Variant     Variant

	IsRecurring        bool
	RecurrenceType     RecurrenceType
	RecurrenceInterval int         // multiplier on the base period, >= 1
	RecurringDays      []int       // 0=Sunday..6=Saturday, for WEEKLY/BIWEEKLY
	MonthlyDate        int         // 1-31, for MONTHLY
	YearlyMonth        int         // 0-11, for YEARLY
	YearlyDate         int         // 1-31, for YEARLY
	Metadata           map[string]any
}

// AllDay reports whether the event carries the all-day metadata flag.
func (e Event) AllDay() bool { return metaBool(e.Metadata, metaAllDay) }

// HideTime reports whether time labels should be suppressed for the event.
// It never affects geometry.
func (e Event) HideTime() bool { return metaBool(e.Metadata, metaHideTime) }

// Duration is the span of the base occurrence. Zero or negative spans
// collapse to an instant.
func (e Event) Duration() time.Duration {
	d := e.EndDate.Sub(e.StartDate)
	if d < 0 {
		return 0
	}
	return d
}

// Interval returns the effective recurrence multiplier: the explicit
// interval when set above one, otherwise the type's base period
// (WEEKLY 1, BIWEEKLY 2).
func (e Event) Interval() int {
	if e.RecurrenceInterval > 1 {
		return e.RecurrenceInterval
	}
	if e.RecurrenceType == RecurBiweekly {
		return 2
	}
	return 1
}

func metaBool(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// Occurrence is one concrete calendar-day materialization of an Event.
// Start/End are rebased onto the day; occurrences are recomputed per render
// pass and never persisted.
type Occurrence struct {
	Event
	Day   time.Time // midnight of the day this occurrence belongs to
	Start time.Time
	End   time.Time
}

// rawRecord mirrors the JSON shape of one event record at the data boundary.
type rawRecord struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	StartDate          string         `json:"startDate"`
	EndDate            string         `json:"endDate"`
	Variant            string         `json:"variant"`
	IsRecurring        bool           `json:"isRecurring"`
	RecurrenceType     string         `json:"recurrenceType"`
	RecurrenceInterval int            `json:"recurrenceInterval"`
	RecurringDays      []int          `json:"recurringDays"`
	MonthlyDate        int            `json:"monthlyDate"`
	YearlyMonth        int            `json:"yearlyMonth"`
	YearlyDate         int            `json:"yearlyDate"`
	Metadata           map[string]any `json:"metadata"`
}

// ParseRecord validates one raw JSON event record into a typed Event.
// Out-of-range recurrence numbers are clamped; an unparseable start or end
// date is the only hard failure, since the expander cannot place such an
// event on any day.
func ParseRecord(data []byte) (Event, error) {
	var r rawRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return Event{}, fmt.Errorf("decode event record: %w", err)
	}
	if r.ID == "" {
		return Event{}, fmt.Errorf("event record missing id")
	}

	start, err := parseDate(r.StartDate)
	if err != nil {
		return Event{}, fmt.Errorf("event %s: start date %q: %w", r.ID, r.StartDate, err)
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return Event{}, fmt.Errorf("event %s: end date %q: %w", r.ID, r.EndDate, err)
	}

	ev := Event{
		ID:                 r.ID,
		Title:              r.Title,
		Description:        r.Description,
		StartDate:          start,
		EndDate:            end,
		Variant:            ParseVariant(r.Variant),
		IsRecurring:        r.IsRecurring,
		RecurrenceType:     parseRecurrenceType(r.RecurrenceType),
		RecurrenceInterval: clampInt(r.RecurrenceInterval, 1, 999),
		MonthlyDate:        clampInt(r.MonthlyDate, 1, 31),
		YearlyMonth:        clampInt(r.YearlyMonth, 0, 11),
		YearlyDate:         clampInt(r.YearlyDate, 1, 31),
		Metadata:           r.Metadata,
	}
	for _, d := range r.RecurringDays {
		if d >= 0 && d <= 6 {
			ev.RecurringDays = append(ev.RecurringDays, d)
		}
	}
	if ev.Metadata == nil {
		ev.Metadata = map[string]any{}
	}
	return ev, nil
}

func parseRecurrenceType(s string) RecurrenceType {
	switch RecurrenceType(s) {
	case RecurWeekly, RecurBiweekly, RecurMonthly, RecurYearly:
		return RecurrenceType(s)
	default:
		return RecurOnce
	}
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
