package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	applog "github.com/sadopc/schoolcal/internal/log"
	"github.com/sadopc/schoolcal/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	defaultView  *string
	monthPreview *string
	clockFormat  *string
	dayGridRows  *string
}

func newSettingsModel(s *store.Store) settingsModel {
	dv, mp, cf, gr := "", "", "", ""
	return settingsModel{
		store:        s,
		defaultView:  &dv,
		monthPreview: &mp,
		clockFormat:  &cf,
		dayGridRows:  &gr,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings()
		if err != nil {
			applog.Error("loading settings", err)
		}
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.defaultView = s.getVal("default_view", "week")
	*s.monthPreview = s.getVal("month_preview", "2")
	*s.clockFormat = s.getVal("clock_format", "24h")
	*s.dayGridRows = s.getVal("day_grid_rows", "48")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default view").
				Options(
					huh.NewOption("Day", "day"),
					huh.NewOption("Week", "week"),
					huh.NewOption("Month", "month"),
				).Value(s.defaultView),
			huh.NewSelect[string]().Title("Clock format").
				Options(
					huh.NewOption("24-hour", "24h"),
					huh.NewOption("12-hour", "12h"),
				).Value(s.clockFormat),
			huh.NewInput().Title("Month cell preview (events)").Value(s.monthPreview),
			huh.NewInput().Title("Day grid rows").Value(s.dayGridRows),
		).Title("Calendar"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		return s, s.refresh()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.store.SetSetting("default_view", *s.defaultView)
	s.store.SetSetting("clock_format", *s.clockFormat)
	if n, err := strconv.Atoi(*s.monthPreview); err == nil && n >= 0 {
		s.store.SetSetting("month_preview", strconv.Itoa(n))
	}
	if n, err := strconv.Atoi(*s.dayGridRows); err == nil && n >= 12 {
		s.store.SetSetting("day_grid_rows", strconv.Itoa(n))
	}
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(setting.Value)
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
