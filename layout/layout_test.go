package layout

import (
	"testing"

	"github.com/goterm/ftui/frame"
)

func sum(xs []int) int {
	t := 0
	for _, x := range xs {
		t += x
	}
	return t
}

func TestSolveFixedAndMinSplitEvenly(t *testing.T) {
	out, overflow := Solve([]Constraint{Len(10), Minimum(0), Minimum(0)}, 30, 0)
	if overflow {
		t.Fatal("did not expect overflow")
	}
	if out[0] != 10 || out[1] != 10 || out[2] != 10 {
		t.Errorf("expected [10 10 10], got %v", out)
	}
}

func TestSolvePercentageThenRatio(t *testing.T) {
	out, _ := Solve([]Constraint{Pct(50), RatioOf(1, 2)}, 100, 0)
	if sum(out) != 100 {
		t.Errorf("expected widths to sum to available length, got %v (sum %d)", out, sum(out))
	}
	if out[0] != 50 {
		t.Errorf("expected 50%% of 100 to be 50, got %d", out[0])
	}
}

func TestSolveSumAlwaysMatchesAvailableWithGaps(t *testing.T) {
	out, _ := Solve([]Constraint{Len(7), Pct(33), Minimum(1)}, 50, 2)
	total := sum(out) + 2*2
	if total != 50 {
		t.Errorf("expected total incl. gaps to equal 50, got %d (lengths %v)", total, out)
	}
}

func TestSolveEqualPercentagesTailAbsorbsResidual(t *testing.T) {
	out, overflow := Solve([]Constraint{Pct(50), Pct(50)}, 11, 0)
	if overflow {
		t.Fatal("did not expect overflow")
	}
	if out[0] != 5 || out[1] != 6 {
		t.Errorf("expected [5 6] (tail absorbs the residual), got %v", out)
	}
}

func TestSolveOverflowTruncatesFromEnd(t *testing.T) {
	out, overflow := Solve([]Constraint{Len(20), Len(20), Len(20)}, 30, 0)
	if !overflow {
		t.Fatal("expected overflow signal when constraints exceed available length")
	}
	if out[len(out)-1] != 0 {
		t.Errorf("expected the last item truncated to 0, got %v", out)
	}
}

func TestSolveNoNegativeLengths(t *testing.T) {
	out, _ := Solve([]Constraint{Len(100), Minimum(5)}, 10, 0)
	for _, v := range out {
		if v < 0 {
			t.Errorf("expected no negative lengths, got %v", out)
		}
	}
}

func TestSplitFlexHorizontalPositionsSequentially(t *testing.T) {
	area := frame.Rect{X: 0, Y: 0, W: 20, H: 5}
	rects, _ := SplitFlex(area, Horizontal, []Constraint{Len(5), Len(5), Minimum(0)}, 1)
	if rects[0].X != 0 || rects[1].X != 6 || rects[2].X != 12 {
		t.Errorf("expected sequential X offsets accounting for gap, got %+v", rects)
	}
}

func TestSplitGridCellSpanUnionsCells(t *testing.T) {
	area := frame.Rect{X: 0, Y: 0, W: 30, H: 10}
	rows := []Constraint{Len(5), Len(5)}
	cols := []Constraint{Len(10), Len(10), Len(10)}
	rects := SplitGrid(area, rows, cols, 0, 0, []GridCell{
		{Row: 0, Col: 0, RowSpan: 2, ColSpan: 1},
		{Row: 0, Col: 1, RowSpan: 1, ColSpan: 2},
	})
	if rects[0].W != 10 || rects[0].H != 10 {
		t.Errorf("expected row-spanning cell to cover full height, got %+v", rects[0])
	}
	if rects[1].W != 20 || rects[1].H != 5 {
		t.Errorf("expected col-spanning cell to cover two columns, got %+v", rects[1])
	}
}
