// Package patch computes a minimal run-length cell delta between two grid
// snapshots (C7): the last step before a renderer turns changed cells into
// wire output (CSI positioning + SGR + glyphs).
package patch

import "github.com/goterm/ftui/cell"

// Run is a contiguous span of changed cells on one row.
type Run struct {
	Row      int
	ColStart int
	Cells    []cell.Cell
}

// Patch is the ordered set of runs produced by Diff, row-major, left to
// right within a row.
type Patch struct {
	Runs []Run
}

// Diff compares prev against next (both row-major, same dimensions) and
// returns the minimal set of runs such that applying them to prev
// reproduces next. Adjacent changed cells on the same row collapse into one
// run; the diff never starts a run on a continuation cell (a wide pair
// always changes and diffs as a unit, since its primary cell's content
// differs whenever the pair does).
func Diff(prev, next [][]cell.Cell) Patch {
	var p Patch
	rows := len(next)
	for row := 0; row < rows && row < len(prev); row++ {
		p.Runs = append(p.Runs, diffRow(row, prev[row], next[row])...)
	}
	return p
}

func diffRow(row int, prev, next []cell.Cell) []Run {
	var runs []Run
	cols := len(next)
	col := 0
	for col < cols {
		if col >= len(prev) || prev[col] != next[col] {
			start := col
			var cells []cell.Cell
			for col < cols && (col >= len(prev) || prev[col] != next[col]) {
				cells = append(cells, next[col])
				col++
			}
			// A run must never open on a lone continuation cell: back its
			// start up to the wide pair's primary column so the renderer
			// always sees the pair together.
			if start > 0 && next[start].IsContinuation() {
				start--
				cells = append([]cell.Cell{next[start]}, cells...)
			}
			runs = append(runs, Run{Row: row, ColStart: start, Cells: cells})
			continue
		}
		col++
	}
	return runs
}

// Apply mutates grid in place so that it matches the state Diff produced
// the patch from. Used by property tests asserting apply(diff(A, B), A) == B.
func Apply(grid [][]cell.Cell, p Patch) {
	for _, run := range p.Runs {
		if run.Row < 0 || run.Row >= len(grid) {
			continue
		}
		row := grid[run.Row]
		for i, c := range run.Cells {
			col := run.ColStart + i
			if col < 0 || col >= len(row) {
				continue
			}
			row[col] = c
		}
	}
}
