package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	applog "github.com/sadopc/schoolcal/internal/log"
	"github.com/sadopc/schoolcal/internal/schedule"
	"github.com/sadopc/schoolcal/internal/store"
)

// statsModel charts how busy each day of a week is, split by variant.
type statsModel struct {
	store  *store.Store
	width  int
	height int

	offset int // weeks back from the current week (0 = current)
	counts map[string][]schedule.Occurrence

	chart barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *statsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r statsModel) weekStart() time.Time {
	return startOfWeek(time.Now()).AddDate(0, 0, -7*r.offset)
}

func (r statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		events, err := r.store.ListEvents(store.EventFilter{})
		if err != nil {
			applog.Error("loading events", err)
		}
		planner := schedule.NewPlanner(events)

		counts := make(map[string][]schedule.Occurrence, 7)
		start := r.weekStart()
		for i := 0; i < 7; i++ {
			day := start.AddDate(0, 0, i)
			counts[dayKey(day)] = planner.OccurrencesForDay(day)
		}
		return statsDataMsg{counts: counts}
	}
}

func (r statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		r.counts = msg.counts
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *statsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	start := r.weekStart()
	var bars []barchart.BarData
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		occs := r.counts[dayKey(day)]

		// One stacked bar segment per variant present that day.
		perVariant := map[schedule.Variant]int{}
		for _, occ := range occs {
			perVariant[occ.Variant]++
		}

		var values []barchart.BarValue
		for _, name := range variantNames {
			v := schedule.Variant(name)
			if n := perVariant[v]; n > 0 {
				values = append(values, barchart.BarValue{
					Name:  name,
					Value: float64(n),
					Style: lipgloss.NewStyle().Foreground(variantColor(v)),
				})
			}
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  day.Format("Mon 02"),
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r statsModel) view() string {
	w := r.width - 4

	start := r.weekStart()
	end := start.AddDate(0, 0, 6)
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s", start.Format("Jan 02"), end.Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Events per day"), "  ", dateLabel,
	)

	total := 0
	for _, occs := range r.counts {
		total += len(occs)
	}
	summary := mutedStyle.Render(fmt.Sprintf("%d occurrences this week", total))
	hint := mutedStyle.Render("←/→: change week")

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		r.chart.View(),
		"",
		summary,
		hint,
	)
	return panelStyle.Width(w).Render(strings.TrimRight(content, "\n"))
}
