package layout

import "github.com/goterm/ftui/frame"

// SplitFlex divides area along direction using constraints and gap,
// returning one sub-rect per constraint in order. Overflow truncates
// trailing items to zero-width/height per Solve; the bool return mirrors
// Solve's overflow signal.
func SplitFlex(area frame.Rect, direction Direction, constraints []Constraint, gap int) ([]frame.Rect, bool) {
	avail := area.W
	if direction == Vertical {
		avail = area.H
	}
	lengths, overflow := Solve(constraints, avail, gap)

	out := make([]frame.Rect, len(lengths))
	pos := 0
	for i, l := range lengths {
		if direction == Horizontal {
			out[i] = frame.Rect{X: area.X + pos, Y: area.Y, W: l, H: area.H}
		} else {
			out[i] = frame.Rect{X: area.X, Y: area.Y + pos, W: area.W, H: l}
		}
		pos += l
		if l > 0 && i < len(lengths)-1 {
			pos += gap
		}
	}
	return out, overflow
}

// GridCell places a child at the union of [row, row+rowSpan) x
// [col, col+colSpan) in a Grid layout.
type GridCell struct {
	Row, Col, RowSpan, ColSpan int
}

// SplitGrid resolves independent row and column constraint lists against
// area, then returns the rect for each requested GridCell as the union of
// the cells it spans.
func SplitGrid(area frame.Rect, rows, cols []Constraint, rowGap, colGap int, cells []GridCell) []frame.Rect {
	rowLens, _ := Solve(rows, area.H, rowGap)
	colLens, _ := Solve(cols, area.W, colGap)

	rowStart := make([]int, len(rowLens)+1)
	for i, l := range rowLens {
		rowStart[i+1] = rowStart[i] + l
		if l > 0 && i < len(rowLens)-1 {
			rowStart[i+1] += rowGap
		}
	}
	colStart := make([]int, len(colLens)+1)
	for i, l := range colLens {
		colStart[i+1] = colStart[i] + l
		if l > 0 && i < len(colLens)-1 {
			colStart[i+1] += colGap
		}
	}

	out := make([]frame.Rect, len(cells))
	for i, c := range cells {
		r0, r1 := clampIdx(c.Row, len(rowLens)), clampIdx(c.Row+c.RowSpan, len(rowLens))
		c0, c1 := clampIdx(c.Col, len(colLens)), clampIdx(c.Col+c.ColSpan, len(colLens))
		out[i] = frame.Rect{
			X: area.X + colStart[c0],
			Y: area.Y + rowStart[r0],
			W: colStart[c1] - colStart[c0],
			H: rowStart[r1] - rowStart[r0],
		}
	}
	return out
}

func clampIdx(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
