package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sadopc/schoolcal/internal/schedule"
)

// EventFilter is used to filter events in queries.
type EventFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

func (s *Store) CreateEvent(ev schedule.Event) (schedule.Event, error) {
	days, meta, err := encodeEventBlobs(ev)
	if err != nil {
		return schedule.Event{}, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO events (title, description, start_date, end_date, variant,
		   is_recurring, recurrence_type, recurrence_interval, recurring_days,
		   monthly_date, yearly_month, yearly_date, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Title, ev.Description,
		ev.StartDate.UTC().Format(time.RFC3339), ev.EndDate.UTC().Format(time.RFC3339),
		string(ev.Variant), boolToInt(ev.IsRecurring), string(ev.RecurrenceType),
		ev.Interval(), days, ev.MonthlyDate, ev.YearlyMonth, ev.YearlyDate, meta,
		now, now,
	)
	if err != nil {
		return schedule.Event{}, fmt.Errorf("insert event: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetEvent(id)
}

func (s *Store) UpdateEvent(id int64, ev schedule.Event) error {
	days, meta, err := encodeEventBlobs(ev)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`UPDATE events SET title = ?, description = ?, start_date = ?, end_date = ?,
		   variant = ?, is_recurring = ?, recurrence_type = ?, recurrence_interval = ?,
		   recurring_days = ?, monthly_date = ?, yearly_month = ?, yearly_date = ?,
		   metadata = ?, updated_at = ?
		 WHERE id = ?`,
		ev.Title, ev.Description,
		ev.StartDate.UTC().Format(time.RFC3339), ev.EndDate.UTC().Format(time.RFC3339),
		string(ev.Variant), boolToInt(ev.IsRecurring), string(ev.RecurrenceType),
		ev.Interval(), days, ev.MonthlyDate, ev.YearlyMonth, ev.YearlyDate, meta,
		now, id,
	)
	if err != nil {
		return fmt.Errorf("update event %d: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteEvent(id int64) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	return nil
}

func (s *Store) GetEvent(id int64) (schedule.Event, error) {
	row := s.db.QueryRow(eventSelect+` WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if err != nil {
		return schedule.Event{}, fmt.Errorf("get event %d: %w", id, err)
	}
	return ev, nil
}

func (s *Store) ListEvents(f EventFilter) ([]schedule.Event, error) {
	query := eventSelect + ` WHERE 1=1`
	var args []any

	if f.From != nil {
		query += ` AND start_date >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND start_date < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY start_date, id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []schedule.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

const eventSelect = `SELECT id, title, description, start_date, end_date, variant,
	is_recurring, recurrence_type, recurrence_interval, recurring_days,
	monthly_date, yearly_month, yearly_date, metadata FROM events`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (schedule.Event, error) {
	var (
		ev                  schedule.Event
		id                  int64
		startStr, endStr    string
		variant, recurType  string
		recurring           int
		daysJSON, metaJSON  string
	)
	err := row.Scan(&id, &ev.Title, &ev.Description, &startStr, &endStr, &variant,
		&recurring, &recurType, &ev.RecurrenceInterval, &daysJSON,
		&ev.MonthlyDate, &ev.YearlyMonth, &ev.YearlyDate, &metaJSON)
	if err != nil {
		return schedule.Event{}, err
	}

	ev.ID = strconv.FormatInt(id, 10)
	ev.Variant = schedule.ParseVariant(variant)
	ev.IsRecurring = recurring == 1
	switch schedule.RecurrenceType(recurType) {
	case schedule.RecurWeekly, schedule.RecurBiweekly, schedule.RecurMonthly, schedule.RecurYearly:
		ev.RecurrenceType = schedule.RecurrenceType(recurType)
	default:
		ev.RecurrenceType = schedule.RecurOnce
	}

	if t, err := time.Parse(time.RFC3339, startStr); err == nil {
		ev.StartDate = t.Local()
	}
	if t, err := time.Parse(time.RFC3339, endStr); err == nil {
		ev.EndDate = t.Local()
	}

	if err := json.Unmarshal([]byte(daysJSON), &ev.RecurringDays); err != nil {
		ev.RecurringDays = nil
	}
	if err := json.Unmarshal([]byte(metaJSON), &ev.Metadata); err != nil || ev.Metadata == nil {
		ev.Metadata = map[string]any{}
	}
	return ev, nil
}

func encodeEventBlobs(ev schedule.Event) (days, meta string, err error) {
	rd := ev.RecurringDays
	if rd == nil {
		rd = []int{}
	}
	b, err := json.Marshal(rd)
	if err != nil {
		return "", "", fmt.Errorf("encode recurring days: %w", err)
	}
	md := ev.Metadata
	if md == nil {
		md = map[string]any{}
	}
	m, err := json.Marshal(md)
	if err != nil {
		return "", "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), string(m), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
