package schedule

import (
	"sort"
	"time"

	applog "github.com/sadopc/schoolcal/internal/log"
)

// Planner materializes per-day occurrences from a snapshot of events.
// It holds no mutable state beyond the slice it was given; every query
// recomputes from scratch.
type Planner struct {
	events []Event
}

// NewPlanner snapshots the given event list. Events with an unusable base
// date are dropped here so expansion never sees them.
func NewPlanner(events []Event) *Planner {
	kept := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.StartDate.IsZero() {
			applog.Warn("skipping event with unusable start date", "id", ev.ID, "title", ev.Title)
			continue
		}
		kept = append(kept, ev)
	}
	return &Planner{events: kept}
}

// Events returns the planner's event snapshot.
func (p *Planner) Events() []Event { return p.events }

// OccurrencesForDay expands every event against the given day and returns
// the materialized occurrences sorted by start time, ties broken by the
// order events were supplied in.
func (p *Planner) OccurrencesForDay(day time.Time) []Occurrence {
	day = Midnight(day)
	var occs []Occurrence
	for _, ev := range p.events {
		if occ, ok := OccursOn(ev, day); ok {
			occs = append(occs, occ)
		}
	}
	sort.SliceStable(occs, func(i, j int) bool {
		return occs[i].Start.Before(occs[j].Start)
	})
	return occs
}

// Midnight truncates t to the start of its calendar day in local time.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// OccursOn decides whether ev has an occurrence on the given day (a local
// midnight) and, if so, returns it with start/end rebased onto that day.
func OccursOn(ev Event, day time.Time) (Occurrence, bool) {
	day = Midnight(day)

	// No retroactive recurrence: nothing before the base start's date.
	if day.Before(Midnight(ev.StartDate)) {
		return Occurrence{}, false
	}

	if !ev.IsRecurring || ev.RecurrenceType == RecurOnce {
		return onceOn(ev, day)
	}

	var hit bool
	switch ev.RecurrenceType {
	case RecurWeekly, RecurBiweekly:
		hit = weeklyOn(ev, day)
	case RecurMonthly:
		hit = monthlyOn(ev, day)
	case RecurYearly:
		hit = yearlyOn(ev, day)
	}
	if !hit {
		return Occurrence{}, false
	}
	return rebase(ev, day), true
}

// onceOn handles a non-recurring event, which occupies every calendar day
// its [start, end) interval intersects. The occurrence is clamped to the
// day's window so layout stays per-day.
func onceOn(ev Event, day time.Time) (Occurrence, bool) {
	next := day.AddDate(0, 0, 1)
	end := ev.EndDate
	if !end.After(ev.StartDate) {
		// Zero or negative duration collapses to an instant.
		end = ev.StartDate
		if !sameDay(ev.StartDate, day) {
			return Occurrence{}, false
		}
	} else if !(ev.StartDate.Before(next) && end.After(day)) {
		return Occurrence{}, false
	}

	occ := Occurrence{Event: ev, Day: day, Start: ev.StartDate, End: end}
	if ev.AllDay() {
		occ.Start, occ.End = allDaySpan(day)
		return occ, true
	}
	if occ.Start.Before(day) {
		occ.Start = day
	}
	if occ.End.After(next) {
		occ.End = next
	}
	return occ, true
}

func weeklyOn(ev Event, day time.Time) bool {
	days := ev.RecurringDays
	if len(days) == 0 {
		// Fall back to the base start's weekday.
		days = []int{int(ev.StartDate.Weekday())}
	}
	match := false
	for _, d := range days {
		if int(day.Weekday()) == d {
			match = true
			break
		}
	}
	if !match {
		return false
	}
	weeks := weeksBetween(ev.StartDate, day)
	return weeks%ev.Interval() == 0
}

// weeksBetween counts whole weeks between the week containing a and the
// week containing b. Weeks start on Sunday, matching the weekday indexing.
// The anchors are compared as calendar dates in UTC: subtracting the local
// midnights directly would count wall-clock hours, and a DST transition
// between them leaves the span an hour short of a full week.
func weeksBetween(a, b time.Time) int {
	wa := Midnight(a).AddDate(0, 0, -int(a.Weekday()))
	wb := Midnight(b).AddDate(0, 0, -int(b.Weekday()))
	ua := time.Date(wa.Year(), wa.Month(), wa.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(wb.Year(), wb.Month(), wb.Day(), 0, 0, 0, 0, time.UTC)
	days := int(ub.Sub(ua).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days / 7
}

func monthlyOn(ev Event, day time.Time) bool {
	want := clampInt(ev.MonthlyDate, 1, daysInMonth(day.Year(), day.Month()))
	if day.Day() != want {
		return false
	}
	months := (day.Year()-ev.StartDate.Year())*12 + int(day.Month()) - int(ev.StartDate.Month())
	if months < 0 {
		months = -months
	}
	return months%ev.Interval() == 0
}

func yearlyOn(ev Event, day time.Time) bool {
	if int(day.Month())-1 != ev.YearlyMonth {
		return false
	}
	want := clampInt(ev.YearlyDate, 1, daysInMonth(day.Year(), day.Month()))
	if day.Day() != want {
		return false
	}
	years := day.Year() - ev.StartDate.Year()
	if years < 0 {
		years = -years
	}
	return years%ev.Interval() == 0
}

// rebase produces an occurrence on day carrying the base event's
// time-of-day and duration.
func rebase(ev Event, day time.Time) Occurrence {
	occ := Occurrence{Event: ev, Day: day}
	if ev.AllDay() {
		occ.Start, occ.End = allDaySpan(day)
		return occ
	}
	s := ev.StartDate
	occ.Start = time.Date(day.Year(), day.Month(), day.Day(),
		s.Hour(), s.Minute(), s.Second(), 0, day.Location())
	occ.End = occ.Start.Add(ev.Duration())
	return occ
}

func allDaySpan(day time.Time) (time.Time, time.Time) {
	start := day
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location())
	return start, end
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
