package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/schoolcal/internal/export"
	applog "github.com/sadopc/schoolcal/internal/log"
	"github.com/sadopc/schoolcal/internal/schedule"
	"github.com/sadopc/schoolcal/internal/store"
)

const eventTimeLayout = "2006-01-02 15:04"

var variantNames = []string{"default", "primary", "success", "warning", "danger"}

type eventsModel struct {
	store  *store.Store
	width  int
	height int

	events []schedule.Event
	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "event", "edit_event", "import"

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formStart       *string
	formEnd         *string
	formVariant     *string
	formRecurrence  *string
	formInterval    *string
	formDays        *[]int
	formMonthlyDate *string
	formAllDay      *bool
	formPath        *string

	editingID int64
}

func newEventsModel(s *store.Store) eventsModel {
	title, desc, start, end := "", "", "", ""
	variant, recur, interval, monthly := "default", "ONCE", "1", "1"
	path := ""
	days := []int{}
	allDay := false
	return eventsModel{
		store:           s,
		formTitle:       &title,
		formDescription: &desc,
		formStart:       &start,
		formEnd:         &end,
		formVariant:     &variant,
		formRecurrence:  &recur,
		formInterval:    &interval,
		formDays:        &days,
		formMonthlyDate: &monthly,
		formAllDay:      &allDay,
		formPath:        &path,
	}
}

func (e *eventsModel) setSize(w, h int) {
	e.width = w
	e.height = h
}

func (e eventsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		events, err := e.store.ListEvents(store.EventFilter{})
		if err != nil {
			applog.Error("loading events", err)
		}
		return eventsDataMsg{events: events}
	}
}

func (e eventsModel) update(msg tea.Msg) (eventsModel, tea.Cmd) {
	if e.formActive && e.form != nil {
		return e.updateForm(msg)
	}

	switch msg := msg.(type) {
	case eventsDataMsg:
		e.events = msg.events
		if e.cursor >= len(e.events) {
			e.cursor = max(0, len(e.events)-1)
		}
		return e, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if e.cursor > 0 {
				e.cursor--
			}
		case key.Matches(msg, keys.Down):
			if e.cursor < len(e.events)-1 {
				e.cursor++
			}
		case key.Matches(msg, keys.New):
			return e.showEventForm(nil)
		case key.Matches(msg, keys.Enter):
			if len(e.events) > 0 {
				ev := e.events[e.cursor]
				return e.showEventForm(&ev)
			}
		case key.Matches(msg, keys.Delete):
			if len(e.events) > 0 {
				return e.deleteSelected()
			}
		case key.Matches(msg, keys.Import):
			return e.showImportForm()
		}
	}
	return e, nil
}

func (e eventsModel) deleteSelected() (eventsModel, tea.Cmd) {
	ev := e.events[e.cursor]
	id, err := strconv.ParseInt(ev.ID, 10, 64)
	if err != nil {
		return e, nil
	}
	if err := e.store.DeleteEvent(id); err != nil {
		return e, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
		}
	}
	return e, tea.Batch(e.refresh(), func() tea.Msg { return eventDeletedMsg{} })
}

func (e eventsModel) showEventForm(ev *schedule.Event) (eventsModel, tea.Cmd) {
	if ev != nil {
		*e.formTitle = ev.Title
		*e.formDescription = ev.Description
		*e.formStart = ev.StartDate.Format(eventTimeLayout)
		*e.formEnd = ev.EndDate.Format(eventTimeLayout)
		*e.formVariant = string(ev.Variant)
		*e.formRecurrence = string(ev.RecurrenceType)
		if !ev.IsRecurring {
			*e.formRecurrence = string(schedule.RecurOnce)
		}
		*e.formInterval = strconv.Itoa(ev.Interval())
		*e.formDays = append([]int(nil), ev.RecurringDays...)
		*e.formMonthlyDate = strconv.Itoa(ev.MonthlyDate)
		*e.formAllDay = ev.AllDay()
		e.formType = "edit_event"
		e.editingID, _ = strconv.ParseInt(ev.ID, 10, 64)
	} else {
		*e.formTitle = ""
		*e.formDescription = ""
		*e.formStart = time.Now().Format("2006-01-02") + " 09:00"
		*e.formEnd = time.Now().Format("2006-01-02") + " 10:00"
		*e.formVariant = "default"
		*e.formRecurrence = string(schedule.RecurOnce)
		*e.formInterval = "1"
		*e.formDays = []int{}
		*e.formMonthlyDate = "1"
		*e.formAllDay = false
		e.formType = "event"
	}

	variantOptions := make([]huh.Option[string], len(variantNames))
	for i, v := range variantNames {
		variantOptions[i] = huh.NewOption(v, v)
	}
	recurOptions := []huh.Option[string]{
		huh.NewOption("Once", string(schedule.RecurOnce)),
		huh.NewOption("Weekly", string(schedule.RecurWeekly)),
		huh.NewOption("Biweekly", string(schedule.RecurBiweekly)),
		huh.NewOption("Monthly", string(schedule.RecurMonthly)),
		huh.NewOption("Yearly", string(schedule.RecurYearly)),
	}
	dayOptions := make([]huh.Option[int], 7)
	for i, name := range weekdayShort {
		dayOptions[i] = huh.NewOption(name, i)
	}

	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(e.formTitle),
			huh.NewInput().Title("Description").Value(e.formDescription),
			huh.NewInput().Title("Start (YYYY-MM-DD HH:MM)").Value(e.formStart),
			huh.NewInput().Title("End (YYYY-MM-DD HH:MM)").Value(e.formEnd),
			huh.NewSelect[string]().Title("Variant").Options(variantOptions...).Value(e.formVariant),
			huh.NewConfirm().Title("All day").Value(e.formAllDay),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Repeats").Options(recurOptions...).Value(e.formRecurrence),
			huh.NewInput().Title("Interval").Value(e.formInterval),
			huh.NewMultiSelect[int]().Title("Weekdays (weekly/biweekly)").Options(dayOptions...).Value(e.formDays),
			huh.NewInput().Title("Day of month (monthly)").Value(e.formMonthlyDate),
		).Title("Recurrence"),
	).WithShowHelp(true).WithShowErrors(true)

	e.formActive = true
	return e, e.form.Init()
}

func (e eventsModel) showImportForm() (eventsModel, tea.Cmd) {
	*e.formPath = ""
	e.formType = "import"

	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("JSON file to import").Value(e.formPath),
		),
	).WithShowHelp(true).WithShowErrors(true)

	e.formActive = true
	return e, e.form.Init()
}

func (e eventsModel) updateForm(msg tea.Msg) (eventsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			e.formActive = false
			e.form = nil
			return e, nil
		}
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}

	if e.form.State == huh.StateCompleted {
		e.formActive = false
		switch e.formType {
		case "event", "edit_event":
			return e.saveForm()
		case "import":
			return e.runImport()
		}
	}

	return e, cmd
}

func (e eventsModel) saveForm() (eventsModel, tea.Cmd) {
	if *e.formTitle == "" {
		return e, e.refresh()
	}
	ev, err := e.eventFromForm()
	if err != nil {
		return e, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Invalid event: %v", err), isError: true}
		}
	}

	if e.formType == "edit_event" {
		err = e.store.UpdateEvent(e.editingID, ev)
	} else {
		_, err = e.store.CreateEvent(ev)
	}
	if err != nil {
		return e, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
	}
	return e, tea.Batch(e.refresh(), func() tea.Msg { return eventSavedMsg{} })
}

// eventFromForm assembles a schedule.Event from the form fields, clamping
// the numeric recurrence values the same way the parse boundary does.
func (e eventsModel) eventFromForm() (schedule.Event, error) {
	start, err := time.ParseInLocation(eventTimeLayout, strings.TrimSpace(*e.formStart), time.Local)
	if err != nil {
		return schedule.Event{}, fmt.Errorf("start: %w", err)
	}
	end, err := time.ParseInLocation(eventTimeLayout, strings.TrimSpace(*e.formEnd), time.Local)
	if err != nil {
		return schedule.Event{}, fmt.Errorf("end: %w", err)
	}

	recurType := schedule.RecurrenceType(*e.formRecurrence)
	interval, err := strconv.Atoi(strings.TrimSpace(*e.formInterval))
	if err != nil || interval < 1 {
		interval = 1
	}
	monthly, err := strconv.Atoi(strings.TrimSpace(*e.formMonthlyDate))
	if err != nil {
		monthly = 1
	}
	if monthly < 1 {
		monthly = 1
	}
	if monthly > 31 {
		monthly = 31
	}

	ev := schedule.Event{
		Title:              *e.formTitle,
		Description:        *e.formDescription,
		StartDate:          start,
		EndDate:            end,
		Variant:            schedule.ParseVariant(*e.formVariant),
		IsRecurring:        recurType != schedule.RecurOnce,
		RecurrenceType:     recurType,
		RecurrenceInterval: interval,
		RecurringDays:      append([]int(nil), *e.formDays...),
		MonthlyDate:        monthly,
		YearlyMonth:        int(start.Month()) - 1,
		YearlyDate:         start.Day(),
		Metadata:           map[string]any{},
	}
	if *e.formAllDay {
		ev.Metadata["allDay"] = true
	}
	return ev, nil
}

func (e eventsModel) runImport() (eventsModel, tea.Cmd) {
	path := strings.TrimSpace(*e.formPath)
	if path == "" {
		return e, nil
	}
	res, err := export.FromJSON(path)
	if err != nil {
		return e, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}
	}
	for _, ev := range res.Events {
		if _, err := e.store.CreateEvent(ev); err != nil {
			return e, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Import save error: %v", err), isError: true}
			}
		}
	}
	count, skipped := len(res.Events), res.Skipped
	return e, tea.Batch(e.refresh(), func() tea.Msg {
		return importDoneMsg{count: count, skipped: skipped}
	})
}

func (e eventsModel) view() string {
	w := e.width - 4

	if e.formActive && e.form != nil {
		title := titleStyle.Render("New Event")
		switch e.formType {
		case "edit_event":
			title = titleStyle.Render("Edit Event")
		case "import":
			title = titleStyle.Render("Import Events")
		}
		formView := e.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Events")
	if len(e.events) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No events yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-28s %-18s %-10s", "", "Title", "Start", "Repeats"))
	rows = append(rows, header)

	visible := min(len(e.events), max(e.height-8, 3))
	first := 0
	if e.cursor >= visible {
		first = e.cursor - visible + 1
	}
	for i := first; i < first+visible && i < len(e.events); i++ {
		ev := e.events[i]
		cursor := "  "
		style := normalItemStyle
		if i == e.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		dot := lipgloss.NewStyle().Foreground(variantColor(ev.Variant)).Render("●")
		repeats := "once"
		if ev.IsRecurring {
			repeats = strings.ToLower(string(ev.RecurrenceType))
		}
		row := fmt.Sprintf("%s%s %-28s %-18s %-10s",
			cursor, dot,
			truncate(ev.Title, 28),
			ev.StartDate.Format(eventTimeLayout),
			repeats,
		)
		rows = append(rows, style.Render(row))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  x: delete  i: import"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
