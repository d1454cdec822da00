package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	applog "github.com/sadopc/schoolcal/internal/log"
	"github.com/sadopc/schoolcal/internal/schedule"
	"github.com/sadopc/schoolcal/internal/store"
)

type granularity int

const (
	granDay granularity = iota
	granWeek
	granMonth
)

const timeGutterWidth = 6

// calendarModel is the calendar view controller: it owns the anchor date,
// the active granularity, the navigation direction and the live "now"
// position, and derives everything else from the schedule engine per render.
type calendarModel struct {
	store  *store.Store
	width  int
	height int

	gran      granularity
	anchor    time.Time // midnight of the reference day
	direction int       // -1/0/+1, feeds the header transition hint only
	now       time.Time

	planner      *schedule.Planner
	clockFormat  string
	monthPreview int
	gridRows     int // raster resolution cap for the hour grid
}

func newCalendarModel(s *store.Store) calendarModel {
	now := time.Now()
	m := calendarModel{
		store:        s,
		anchor:       schedule.Midnight(now),
		now:          now,
		planner:      schedule.NewPlanner(nil),
		clockFormat:  "24h",
		monthPreview: 2,
		gridRows:     48,
	}
	m.applySettings()
	return m
}

// applySettings pulls view preferences from the settings table.
func (c *calendarModel) applySettings() {
	if v, err := c.store.GetSetting("default_view"); err == nil {
		switch v {
		case "day":
			c.gran = granDay
		case "month":
			c.gran = granMonth
		default:
			c.gran = granWeek
		}
	}
	if v, err := c.store.GetSetting("clock_format"); err == nil {
		c.clockFormat = v
	}
	c.monthPreview = c.store.GetIntSetting("month_preview", 2)
	c.gridRows = c.store.GetIntSetting("day_grid_rows", 48)
}

// rasterRows picks the hour-grid resolution: the configured row count,
// reduced to what fits on screen.
func (c calendarModel) rasterRows(available int) int {
	rows := min(available, c.gridRows)
	if rows < 4 {
		rows = 4
	}
	return rows
}

func (c calendarModel) Init() tea.Cmd {
	return tea.Batch(c.loadEvents(), minuteTick())
}

// minuteTick arms the live-time indicator timer. Exactly one tick is in
// flight at a time: the update loop re-arms it only when the previous one
// lands, and bubbletea drops it when the program exits.
func minuteTick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return minuteTickMsg(t)
	})
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c calendarModel) loadEvents() tea.Cmd {
	return func() tea.Msg {
		events, err := c.store.ListEvents(store.EventFilter{})
		if err != nil {
			applog.Error("loading events", err)
		}
		return calendarDataMsg{events: events}
	}
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarDataMsg:
		c.planner = schedule.NewPlanner(msg.events)
		c.applySettings()
		return c, nil

	case minuteTickMsg:
		// Only the clock moves here; expansion and grouping re-run on
		// navigation or data refresh, not on the tick.
		c.now = time.Time(msg)
		return c, minuteTick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Day):
			c.gran = granDay
		case key.Matches(msg, keys.Week):
			c.gran = granWeek
		case key.Matches(msg, keys.Month):
			c.gran = granMonth
		case key.Matches(msg, keys.Right):
			c.navigate(1)
		case key.Matches(msg, keys.Left):
			c.navigate(-1)
		case key.Matches(msg, keys.Today):
			c.anchor = schedule.Midnight(c.now)
			c.direction = 0
		}
	}
	return c, nil
}

// navigate shifts the anchor by one day, week or month. The direction flag
// only drives the header hint, never layout.
func (c *calendarModel) navigate(dir int) {
	c.direction = dir
	switch c.gran {
	case granDay:
		c.anchor = c.anchor.AddDate(0, 0, dir)
	case granWeek:
		c.anchor = c.anchor.AddDate(0, 0, 7*dir)
	case granMonth:
		c.anchor = c.anchor.AddDate(0, dir, 0)
	}
}

// visibleDays lists the midnights the current granularity displays.
func (c calendarModel) visibleDays() []time.Time {
	switch c.gran {
	case granDay:
		return []time.Time{c.anchor}
	case granWeek:
		start := startOfWeek(c.anchor)
		days := make([]time.Time, 7)
		for i := range days {
			days[i] = start.AddDate(0, 0, i)
		}
		return days
	default:
		first := time.Date(c.anchor.Year(), c.anchor.Month(), 1, 0, 0, 0, 0, c.anchor.Location())
		start := startOfWeek(first)
		end := startOfWeek(first.AddDate(0, 1, -1)).AddDate(0, 0, 7)
		var days []time.Time
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
		return days
	}
}

// monthOccurrences expands every day of the anchor month, for export.
func (c calendarModel) monthOccurrences() []schedule.Occurrence {
	first := time.Date(c.anchor.Year(), c.anchor.Month(), 1, 0, 0, 0, 0, c.anchor.Location())
	var occs []schedule.Occurrence
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		occs = append(occs, c.planner.OccurrencesForDay(d)...)
	}
	return occs
}

func startOfWeek(t time.Time) time.Time {
	t = schedule.Midnight(t)
	return t.AddDate(0, 0, -int(t.Weekday()))
}

func (c calendarModel) isToday(day time.Time) bool {
	return schedule.Midnight(c.now).Equal(day)
}

// --- Rendering ---

func (c calendarModel) view() string {
	if c.width < 30 || c.height < 8 {
		return "Terminal too small"
	}
	header := c.renderCalendarHeader()
	body := ""
	bodyHeight := c.height - lipgloss.Height(header)
	switch c.gran {
	case granDay:
		body = c.renderDayView(bodyHeight)
	case granWeek:
		body = c.renderWeekView(bodyHeight)
	case granMonth:
		body = c.renderMonthView(bodyHeight)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (c calendarModel) renderCalendarHeader() string {
	var label string
	switch c.gran {
	case granDay:
		label = c.anchor.Format("Monday, January 2 2006")
	case granWeek:
		start := startOfWeek(c.anchor)
		end := start.AddDate(0, 0, 6)
		label = fmt.Sprintf("%s – %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	case granMonth:
		label = c.anchor.Format("January 2006")
	}

	// Direction hint from the last navigation, for the transition cue.
	hint := " "
	switch c.direction {
	case -1:
		hint = "‹"
	case 1:
		hint = "›"
	}

	granNames := []string{"Day", "Week", "Month"}
	var tabs []string
	for i, name := range granNames {
		if granularity(i) == c.gran {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := titleStyle.Render(label) + " " + mutedStyle.Render(hint)
	gap := c.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")
	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow))
}

func (c calendarModel) renderDayView(height int) string {
	occs := c.planner.OccurrencesForDay(c.anchor)
	banners, timed := splitBanners(occs)

	var sections []string
	for _, occ := range banners {
		label := " " + truncate(occ.Title, c.width-4) + " "
		sections = append(sections, bannerStyle.Width(c.width-2).Render(label))
	}

	gridRows := c.rasterRows(height - len(banners))
	colWidth := c.width - timeGutterWidth - 2
	column := c.renderDayColumn(c.anchor, timed, colWidth, gridRows, true)

	lines := make([]string, gridRows)
	for row := 0; row < gridRows; row++ {
		gutter := c.hourLabel(row, gridRows)
		if c.isToday(c.anchor) && row == nowRow(c.now, gridRows) {
			gutter = nowIndicatorStyle.Render(fmt.Sprintf("%-*s", timeGutterWidth, "►"+formatClock(c.now, c.clockFormat)))
		}
		lines[row] = gutter + column[row]
	}
	sections = append(sections, strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (c calendarModel) renderWeekView(height int) string {
	days := c.visibleDays()
	colWidth := (c.width - timeGutterWidth) / 7
	if colWidth < 4 {
		colWidth = 4
	}

	// Banners stay out of the hour grid entirely: grouping an all-day span
	// with the timed events would shrink every lane that day.
	dayBanners := make([][]schedule.Occurrence, 7)
	dayTimed := make([][]schedule.Occurrence, 7)
	hasBanners := false
	for i, day := range days {
		dayBanners[i], dayTimed[i] = splitBanners(c.planner.OccurrencesForDay(day))
		if len(dayBanners[i]) > 0 {
			hasBanners = true
		}
	}

	gridHeight := height - 1
	if hasBanners {
		gridHeight--
	}
	gridRows := c.rasterRows(gridHeight)

	headers := make([]string, 0, 8)
	headers = append(headers, strings.Repeat(" ", timeGutterWidth))
	bannerCells := make([]string, 0, 8)
	bannerCells = append(bannerCells, strings.Repeat(" ", timeGutterWidth))
	columns := make([][]string, 7)
	for i, day := range days {
		style := dayHeaderStyle
		if c.isToday(day) {
			style = todayHeaderStyle
		}
		headers = append(headers, style.Width(colWidth).Render(day.Format("Mon 2")))

		cell := strings.Repeat(" ", colWidth)
		if banners := dayBanners[i]; len(banners) > 0 {
			label := banners[0].Title
			if len(banners) > 1 {
				label = fmt.Sprintf("%s +%d", label, len(banners)-1)
			}
			cell = bannerStyle.Width(colWidth).Render(truncate(label, colWidth))
		}
		bannerCells = append(bannerCells, cell)

		columns[i] = c.renderDayColumn(day, dayTimed[i], colWidth, gridRows, true)
	}

	lines := make([]string, 0, gridRows+2)
	lines = append(lines, strings.Join(headers, ""))
	if hasBanners {
		lines = append(lines, strings.Join(bannerCells, ""))
	}
	for row := 0; row < gridRows; row++ {
		gutter := c.hourLabel(row, gridRows)
		if row == nowRow(c.now, gridRows) && containsToday(days, c.now) {
			gutter = nowIndicatorStyle.Render(fmt.Sprintf("%-*s", timeGutterWidth, "►"+formatClock(c.now, c.clockFormat)))
		}
		parts := make([]string, 0, 8)
		parts = append(parts, gutter)
		for i := range columns {
			parts = append(parts, columns[i][row])
		}
		lines = append(lines, strings.Join(parts, ""))
	}
	return strings.Join(lines, "\n")
}

func (c calendarModel) renderMonthView(height int) string {
	days := c.visibleDays()
	weeks := len(days) / 7
	cellWidth := c.width / 7
	if cellWidth < 6 {
		cellWidth = 6
	}
	cellHeight := (height - 1) / max(weeks, 1)
	if cellHeight < 2 {
		cellHeight = 2
	}

	var headerCells []string
	for _, name := range weekdayShort {
		headerCells = append(headerCells, dayHeaderStyle.Width(cellWidth).Render(name))
	}
	rows := []string{strings.Join(headerCells, "")}

	for w := 0; w < weeks; w++ {
		var cells []string
		for i := 0; i < 7; i++ {
			day := days[w*7+i]
			cells = append(cells, c.renderMonthCell(day, cellWidth, cellHeight))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (c calendarModel) renderMonthCell(day time.Time, w, h int) string {
	numStyle := normalItemStyle
	if day.Month() != c.anchor.Month() {
		numStyle = mutedStyle
	}
	if c.isToday(day) {
		numStyle = selectedItemStyle
	}

	lines := []string{numStyle.Render(fmt.Sprintf("%2d", day.Day()))}

	occs := c.planner.OccurrencesForDay(day)
	cell := schedule.MonthPreview(occs, min(c.monthPreview, h-1))
	for _, occ := range cell.Visible {
		style := lipgloss.NewStyle().Foreground(variantColor(occ.Variant))
		lines = append(lines, style.Render(truncate(occ.Title, w-1)))
	}
	if cell.Overflow > 0 && len(lines) < h {
		lines = append(lines, overflowStyle.Render(fmt.Sprintf("+%d more", cell.Overflow)))
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().Width(w).Height(h).Render(strings.Join(lines[:h], "\n"))
}

// renderDayColumn rasterizes one day's occurrences into a column of
// fixed-width lines, using the engine's layout boxes: the column height is
// the 24-hour span, lane fractions map to character offsets.
func (c calendarModel) renderDayColumn(day time.Time, occs []schedule.Occurrence, width, rows int, skipBanners bool) []string {
	type seg struct {
		col, w int
		text   string
	}
	rowSegs := make([][]seg, rows)

	groups := schedule.Group(occs)
	for _, group := range groups {
		for idx, occ := range group {
			box := schedule.Position(occ, group, idx, float64(rows))

			top := int(box.Top)
			h := int(box.Height + 0.5)
			if h < 1 {
				h = 1
			}
			if box.IsBanner {
				if skipBanners {
					continue
				}
				top, h = 0, 1
			}
			if top >= rows {
				top = rows - 1
			}

			col := int(box.Left / 100 * float64(width))
			laneW := int(box.Width/100*float64(width) + 0.5)
			if laneW < 1 {
				laneW = 1
			}
			if col+laneW > width {
				laneW = width - col
			}

			style := variantStyle(occ.Variant)
			if box.IsBanner {
				style = bannerStyle
			}
			for r := top; r < top+h && r < rows; r++ {
				label := ""
				if r == top {
					label = occ.Title
					if box.ShowTime && !box.IsBanner && laneW > len(occ.Title)+6 {
						label += " " + formatClock(occ.Start, c.clockFormat)
					}
				}
				text := style.Width(laneW).Render(truncate(label, laneW))
				rowSegs[r] = append(rowSegs[r], seg{col: col, w: laneW, text: text})
			}
		}
	}

	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		segs := rowSegs[r]
		sort.Slice(segs, func(i, j int) bool { return segs[i].col < segs[j].col })

		var b strings.Builder
		cursor := 0
		for _, sg := range segs {
			col := sg.col
			if col < cursor {
				// Rare cross-group collision within one raster row; nudge right.
				col = cursor
			}
			if col+sg.w > width {
				break
			}
			b.WriteString(strings.Repeat(" ", col-cursor))
			b.WriteString(sg.text)
			cursor = col + sg.w
		}
		if cursor < width {
			b.WriteString(strings.Repeat(" ", width-cursor))
		}
		lines[r] = b.String()
	}
	return lines
}

// hourLabel emits a gutter label on the first raster row of each hour.
func (c calendarModel) hourLabel(row, rows int) string {
	h := row * 24 / rows
	if row > 0 && (row-1)*24/rows == h {
		return strings.Repeat(" ", timeGutterWidth)
	}
	t := time.Date(2000, 1, 1, h, 0, 0, 0, time.UTC)
	return hourLabelStyle.Render(fmt.Sprintf("%-*s", timeGutterWidth, formatClock(t, c.clockFormat)))
}

// nowRow maps the live clock onto a raster row with the same vertical
// formula events use.
func nowRow(now time.Time, rows int) int {
	r := int(schedule.NowOffset(now, float64(rows)))
	if r >= rows {
		r = rows - 1
	}
	return r
}

func containsToday(days []time.Time, now time.Time) bool {
	today := schedule.Midnight(now)
	for _, d := range days {
		if d.Equal(today) {
			return true
		}
	}
	return false
}

func splitBanners(occs []schedule.Occurrence) (banners, timed []schedule.Occurrence) {
	for _, occ := range occs {
		if occ.AllDay() {
			banners = append(banners, occ)
		} else {
			timed = append(timed, occ)
		}
	}
	return banners, timed
}
