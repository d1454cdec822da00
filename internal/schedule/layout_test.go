package schedule

import (
	"math"
	"testing"
	"time"
)

const colHeight = 2400.0 // 100 units per hour keeps the expectations readable

func TestPositionVertical(t *testing.T) {
	occ := occAt("a", 9, 30, 11, 0)
	box := Position(occ, OverlapGroup{occ}, 0, colHeight)

	wantTop := 9.5 / 24 * colHeight
	wantHeight := 1.5 / 24 * colHeight
	if math.Abs(box.Top-wantTop) > 1e-9 {
		t.Fatalf("top = %v, want %v", box.Top, wantTop)
	}
	if math.Abs(box.Height-wantHeight) > 1e-9 {
		t.Fatalf("height = %v, want %v", box.Height, wantHeight)
	}
}

func TestPositionMinimumHeight(t *testing.T) {
	occ := occAt("tiny", 9, 0, 9, 0)
	box := Position(occ, OverlapGroup{occ}, 0, colHeight)
	if box.Height != MinEventHeight {
		t.Fatalf("instant occurrence should get the minimum height, got %v", box.Height)
	}
}

func TestPositionFullWidthSingleton(t *testing.T) {
	occ := occAt("solo", 9, 0, 10, 0)
	box := Position(occ, OverlapGroup{occ}, 0, colHeight)
	if box.Left != 0 || box.Width != 100 {
		t.Fatalf("singleton should get the full column: left=%v width=%v", box.Left, box.Width)
	}
}

func TestPositionLaneDivision(t *testing.T) {
	a := occAt("a", 9, 0, 10, 0)
	b := occAt("b", 9, 30, 10, 30)
	group := OverlapGroup{a, b}

	boxA := Position(a, group, 0, colHeight)
	boxB := Position(b, group, 1, colHeight)

	if boxA.Width != 50 || boxB.Width != 50 {
		t.Fatalf("lanes should split the width evenly: %v, %v", boxA.Width, boxB.Width)
	}
	if boxA.Left != 0 || boxB.Left != 50 {
		t.Fatalf("lanes should tile left to right: %v, %v", boxA.Left, boxB.Left)
	}
}

func TestPositionWidthLaw(t *testing.T) {
	// For any group size the widths sum to 100% and lanes never overlap.
	for k := 1; k <= 6; k++ {
		group := make(OverlapGroup, k)
		for i := range group {
			group[i] = occAt("x", 9, 0, 10, 0)
		}
		sum := 0.0
		prevRight := 0.0
		for i := range group {
			box := Position(group[i], group, i, colHeight)
			sum += box.Width
			if i > 0 && box.Left < prevRight-1e-9 {
				t.Fatalf("k=%d: lane %d overlaps its neighbor", k, i)
			}
			prevRight = box.Left + box.Width
		}
		if math.Abs(sum-100) > 1e-9 {
			t.Fatalf("k=%d: widths sum to %v, want 100", k, sum)
		}
	}
}

func TestPositionZIndex(t *testing.T) {
	a := occAt("a", 9, 0, 10, 0)
	small := Position(a, OverlapGroup{a}, 0, colHeight)
	big := Position(a, OverlapGroup{a, a, a}, 0, colHeight)

	if big.ZIndex <= small.ZIndex {
		t.Fatalf("denser groups should layer above sparser ones: %d vs %d", big.ZIndex, small.ZIndex)
	}
	if big.ZIndex >= ZIndexOverlay {
		t.Fatalf("event boxes must stay below the overlay range, got %d", big.ZIndex)
	}
}

func TestPositionBanner(t *testing.T) {
	occ := occAt("all", 0, 0, 23, 59)
	occ.Metadata = map[string]any{"allDay": true}
	box := Position(occ, OverlapGroup{occ}, 0, colHeight)

	if !box.IsBanner {
		t.Fatal("all-day occurrence should be flagged as a banner")
	}
	if box.Height != BannerHeight {
		t.Fatalf("banner height should be fixed, got %v", box.Height)
	}
}

func TestPositionHideTimeFlag(t *testing.T) {
	occ := occAt("q", 9, 0, 10, 0)
	withTime := Position(occ, OverlapGroup{occ}, 0, colHeight)

	occ.Metadata = map[string]any{"hideTime": true}
	noTime := Position(occ, OverlapGroup{occ}, 0, colHeight)

	if !withTime.ShowTime || noTime.ShowTime {
		t.Fatal("hideTime flag should only toggle the time label")
	}
	// Geometry is unchanged by the flag.
	if withTime.Top != noTime.Top || withTime.Height != noTime.Height {
		t.Fatal("hideTime must not change geometry")
	}
}

func TestLayoutEndToEnd(t *testing.T) {
	// Two same-day events thirty minutes apart split one column in half.
	a := occAt("1", 9, 0, 10, 0)
	b := occAt("2", 9, 30, 10, 30)
	siblings := []Occurrence{a, b}

	boxA := Layout(a, siblings, colHeight)
	boxB := Layout(b, siblings, colHeight)

	if boxA.Width != 50 || boxB.Width != 50 {
		t.Fatalf("expected 50%% lanes, got %v and %v", boxA.Width, boxB.Width)
	}
	if boxA.Left != 0 {
		t.Fatalf("first by start time should take the left lane, got %v", boxA.Left)
	}
	if boxB.Left != 50 {
		t.Fatalf("second should take the right lane, got %v", boxB.Left)
	}
}

func TestNowOffset(t *testing.T) {
	noon := date(2024, time.March, 4, 12, 0)
	if got := NowOffset(noon, colHeight); math.Abs(got-colHeight/2) > 1e-9 {
		t.Fatalf("noon should sit at half the column, got %v", got)
	}
	midnight := date(2024, time.March, 4, 0, 0)
	if got := NowOffset(midnight, colHeight); got != 0 {
		t.Fatalf("midnight offset should be 0, got %v", got)
	}
}

func TestMonthPreview(t *testing.T) {
	occs := []Occurrence{
		occAt("a", 9, 0, 10, 0),
		occAt("b", 11, 0, 12, 0),
		occAt("c", 13, 0, 14, 0),
	}

	cell := MonthPreview(occs, 1)
	if len(cell.Visible) != 1 || cell.Visible[0].ID != "a" {
		t.Fatalf("preview should keep the first occurrence, got %d visible", len(cell.Visible))
	}
	if cell.Overflow != 2 {
		t.Fatalf("overflow should be 2, got %d", cell.Overflow)
	}

	cell = MonthPreview(occs, 5)
	if len(cell.Visible) != 3 || cell.Overflow != 0 {
		t.Fatal("cap above the list length should show everything")
	}

	cell = MonthPreview(nil, 2)
	if len(cell.Visible) != 0 || cell.Overflow != 0 {
		t.Fatal("empty day should produce an empty cell")
	}
}
