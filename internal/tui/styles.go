package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/schoolcal/internal/schedule"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorSecondary = lipgloss.Color("#2EC4B6")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// variantColors maps the event display palette onto terminal colors. The
// mapping is a package constant, never mutated at runtime.
var variantColors = map[schedule.Variant]lipgloss.Color{
	schedule.VariantDefault: colorSubtle,
	schedule.VariantPrimary: colorPrimary,
	schedule.VariantSuccess: colorSuccess,
	schedule.VariantWarning: colorWarning,
	schedule.VariantDanger:  colorError,
}

func variantColor(v schedule.Variant) lipgloss.Color {
	if c, ok := variantColors[v]; ok {
		return c
	}
	return variantColors[schedule.VariantDefault]
}

func variantStyle(v schedule.Variant) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1B26")).Background(variantColor(v))
}

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// Calendar grid
	hourLabelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	dayHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg).
			Align(lipgloss.Center)

	todayHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary).
				Align(lipgloss.Center)

	nowIndicatorStyle = lipgloss.NewStyle().
				Foreground(colorError)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1A1B26")).
			Background(colorSecondary)

	overflowStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)
