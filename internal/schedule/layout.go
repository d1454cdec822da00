package schedule

import "time"

const (
	// MinEventHeight is the smallest rendered height for an occurrence, so
	// instants and very short events stay visible.
	MinEventHeight = 1.0

	// BannerHeight is the fixed height of an all-day banner row.
	BannerHeight = 1.0

	zIndexBase = 10
	// ZIndexOverlay is the reserved floor for modal/overlay layers; event
	// boxes always stay below it.
	ZIndexOverlay = 100
)

// LayoutBox is the geometry for one occurrence within a 24-hour day column.
// Top and Height are in the caller's column units; Left and Width are
// percentages of the column width.
type LayoutBox struct {
	Top      float64
	Height   float64
	Left     float64
	Width    float64
	ZIndex   int
	IsBanner bool
	ShowTime bool
}

// Position computes the layout box for occ given its overlap group, its
// index within the group, and the pixel height of a full 24-hour column.
// All-day occurrences bypass the hour math and render in the banner strip.
func Position(occ Occurrence, group OverlapGroup, indexInGroup int, columnHeight float64) LayoutBox {
	box := LayoutBox{ShowTime: !occ.HideTime()}

	n := len(group)
	if n < 1 {
		n = 1
	}
	if indexInGroup < 0 {
		indexInGroup = 0
	}
	if indexInGroup >= n {
		indexInGroup = n - 1
	}
	box.Width = 100.0 / float64(n)
	box.Left = float64(indexInGroup) * box.Width
	z := zIndexBase + n
	if z >= ZIndexOverlay {
		z = ZIndexOverlay - 1
	}
	box.ZIndex = z

	if occ.AllDay() {
		box.IsBanner = true
		box.Height = BannerHeight
		return box
	}

	startOfDay := Midnight(occ.Start)
	startHours := occ.Start.Sub(startOfDay).Hours()
	durHours := occ.End.Sub(occ.Start).Hours()
	if durHours < 0 {
		durHours = 0
	}

	box.Top = startHours / 24 * columnHeight
	box.Height = durHours / 24 * columnHeight
	if box.Height < MinEventHeight {
		box.Height = MinEventHeight
	}
	return box
}

// Layout groups siblings and positions occ in one call, for callers that
// have a day's occurrence list but no precomputed groups.
func Layout(occ Occurrence, siblings []Occurrence, columnHeight float64) LayoutBox {
	groups := Group(siblings)
	g, idx := GroupOf(groups, occ)
	return Position(occ, g, idx, columnHeight)
}

// NowOffset is the vertical offset of the live time indicator, using the
// same formula as event geometry.
func NowOffset(now time.Time, columnHeight float64) float64 {
	return now.Sub(Midnight(now)).Hours() / 24 * columnHeight
}

// MonthCell is the month-view summary for one day: a capped preview plus
// the count that did not fit.
type MonthCell struct {
	Visible  []Occurrence
	Overflow int
}

// MonthPreview summarizes a day's occurrences for a month cell. No overlap
// geometry applies at month granularity.
func MonthPreview(occs []Occurrence, maxVisible int) MonthCell {
	if maxVisible < 0 {
		maxVisible = 0
	}
	cell := MonthCell{}
	if len(occs) <= maxVisible {
		cell.Visible = occs
		return cell
	}
	cell.Visible = occs[:maxVisible]
	cell.Overflow = len(occs) - maxVisible
	return cell
}
