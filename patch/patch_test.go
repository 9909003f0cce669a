package patch

import (
	"testing"

	"github.com/goterm/ftui/cell"
)

func row(s string) []cell.Cell {
	out := make([]cell.Cell, len(s))
	for i, r := range s {
		out[i] = cell.Empty.WithRune(r)
	}
	return out
}

func grid(rows ...[]cell.Cell) [][]cell.Cell { return rows }

func TestDiffNoChangesProducesNoRuns(t *testing.T) {
	a := grid(row("hello"))
	p := Diff(a, a)
	if len(p.Runs) != 0 {
		t.Fatalf("expected no runs for identical grids, got %+v", p.Runs)
	}
}

func TestDiffCollapsesAdjacentChangesIntoOneRun(t *testing.T) {
	prev := grid(row("hello"))
	next := grid(row("haalo"))
	p := Diff(prev, next)
	if len(p.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d: %+v", len(p.Runs), p.Runs)
	}
	r := p.Runs[0]
	if r.ColStart != 1 || len(r.Cells) != 2 {
		t.Errorf("expected two-cell run at col 1, got %+v", r)
	}
}

func TestDiffSeparatesNonAdjacentChanges(t *testing.T) {
	prev := grid(row("aaaaa"))
	next := grid(row("abaaa"))
	next[4] = cell.Empty.WithRune('z')
	p := Diff(prev, next)
	if len(p.Runs) != 2 {
		t.Fatalf("expected 2 disjoint runs, got %d: %+v", len(p.Runs), p.Runs)
	}
}

func TestDiffNeverOpensRunOnContinuationCell(t *testing.T) {
	prev := grid(row("aaaa"))
	wide := cell.Empty.WithRune('字').WithAttrs(func(a cell.Attrs) cell.Attrs { return a.WithWidth(cell.WidthWide) })
	next := grid([]cell.Cell{prev[0][0], wide, cell.ContinuationOf(wide), prev[0][0]})
	p := Diff(prev, next)
	if len(p.Runs) != 1 {
		t.Fatalf("expected 1 run, got %+v", p.Runs)
	}
	r := p.Runs[0]
	if r.ColStart != 1 {
		t.Errorf("expected run to start at the wide cell's primary column (1), got %d", r.ColStart)
	}
	if next[r.ColStart].IsContinuation() {
		t.Errorf("run must not open on a continuation cell")
	}
}

func TestApplyReproducesNext(t *testing.T) {
	prev := grid(row("hello"))
	next := grid(row("world"))
	p := Diff(prev, next)
	Apply(prev, p)
	for i := range next[0] {
		if prev[0][i] != next[0][i] {
			t.Fatalf("apply(diff(prev,next), prev) != next at col %d", i)
		}
	}
}
