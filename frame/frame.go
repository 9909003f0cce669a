// Package frame implements the double-buffered presentation surface (C8):
// a Buffer widgets render into, with scissor and opacity stacks, a
// frame-scoped grapheme pool, and per-row dirty span tracking feeding
// patch.Diff.
package frame

import (
	"github.com/goterm/ftui/cell"
	"github.com/goterm/ftui/patch"
)

// Rect is an axis-aligned area in buffer coordinates, half-open on both axes.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Intersect returns the overlapping area of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// span is a contiguous run of touched columns on one row, used to build
// patch-sized dirty ranges without rescanning the whole buffer.
type span struct{ start, end int } // half-open

// Buffer is the cell grid a frame's widgets render into. It owns a scissor
// stack (clips writes), an opacity stack (alpha-blends background writes),
// a grapheme pool for multi-codepoint clusters, and per-row dirty spans.
type Buffer struct {
	rows, cols int
	cells      []cell.Cell // row-major, rows*cols

	scissors []Rect
	opacity  []float64

	pool  *cell.GraphemePool
	dirty [][]span
}

// New returns a Buffer of the given size, fully blank, with the scissor
// stack seeded to the whole area and the opacity stack seeded to 1.0.
func New(rows, cols int) *Buffer {
	b := &Buffer{
		rows: rows, cols: cols,
		cells: make([]cell.Cell, rows*cols),
		pool:  cell.NewGraphemePool(),
		dirty: make([][]span, rows),
	}
	for i := range b.cells {
		b.cells[i] = cell.Empty
	}
	b.scissors = []Rect{{X: 0, Y: 0, W: cols, H: rows}}
	b.opacity = []float64{1}
	return b
}

func (b *Buffer) Rows() int { return b.rows }
func (b *Buffer) Cols() int { return b.cols }

// PushScissor clips subsequent writes to r intersected with the current
// scissor. PopScissor restores the prior clip. The initial (whole-area)
// entry can never be popped.
func (b *Buffer) PushScissor(r Rect) {
	top := b.scissors[len(b.scissors)-1]
	b.scissors = append(b.scissors, top.Intersect(r))
}

func (b *Buffer) PopScissor() {
	if len(b.scissors) > 1 {
		b.scissors = b.scissors[:len(b.scissors)-1]
	}
}

func (b *Buffer) currentScissor() Rect { return b.scissors[len(b.scissors)-1] }

// PushOpacity multiplies alpha onto the current composed opacity.
func (b *Buffer) PushOpacity(alpha float64) {
	top := b.opacity[len(b.opacity)-1]
	b.opacity = append(b.opacity, top*alpha)
}

func (b *Buffer) PopOpacity() {
	if len(b.opacity) > 1 {
		b.opacity = b.opacity[:len(b.opacity)-1]
	}
}

func (b *Buffer) currentOpacity() float64 { return b.opacity[len(b.opacity)-1] }

func (b *Buffer) index(x, y int) int { return y*b.cols + x }

// At returns the cell at (x, y), or the zero Cell if out of bounds.
func (b *Buffer) At(x, y int) cell.Cell {
	if x < 0 || x >= b.cols || y < 0 || y >= b.rows {
		return cell.Cell{}
	}
	return b.cells[b.index(x, y)]
}

// SetCell writes c at (x, y), clipped by the scissor stack and alpha-blended
// by the opacity stack. Text content is never partially written: glyph and
// fg are set atomically when the write lands; only the background channel
// is alpha-composed against the existing cell (§4.5).
func (b *Buffer) SetCell(x, y int, c cell.Cell) {
	if !b.currentScissor().Contains(x, y) {
		return
	}
	alpha := b.currentOpacity()
	if alpha <= 0 {
		return
	}
	idx := b.index(x, y)
	if alpha < 1 {
		dst := cell.UnpackRGBA(b.cells[idx].BgRGBA)
		src := cell.UnpackRGBA(c.BgRGBA)
		src.A = uint8(float64(src.A) * alpha)
		c.BgRGBA = cell.Over(src, dst).Pack()
	}
	b.cells[idx] = c
	b.markDirty(y, x, x+1)
}

// SetGrapheme interns cluster into the buffer's pool and writes the
// resulting cell, for multi-codepoint glyphs assembled by a widget.
func (b *Buffer) SetGrapheme(x, y int, cluster string, fg, bg uint32, attrs cell.Attrs) {
	id := b.pool.Intern(cluster)
	b.SetCell(x, y, cell.Cell{FgRGBA: fg, BgRGBA: bg, Attrs: attrs}.WithGrapheme(id))
}

// Grapheme resolves a cell's content to its display string, following the
// pool for grapheme-tagged cells.
func (b *Buffer) Grapheme(c cell.Cell) string {
	if r, ok := c.Rune(); ok {
		return string(r)
	}
	if id, ok := c.GraphemeID(); ok {
		return b.pool.Lookup(id)
	}
	return ""
}

func (b *Buffer) markDirty(row, start, end int) {
	spans := b.dirty[row]
	for i, s := range spans {
		if start <= s.end && end >= s.start {
			merged := span{start: min(start, s.start), end: max(end, s.end)}
			spans[i] = merged
			b.dirty[row] = coalesce(spans, i)
			return
		}
	}
	b.dirty[row] = append(spans, span{start, end})
}

// coalesce merges spans[at] with any neighbor it now overlaps, keeping the
// per-row span list non-overlapping.
func coalesce(spans []span, at int) []span {
	changed := true
	for changed {
		changed = false
		for i := range spans {
			if i == at {
				continue
			}
			if spans[i].start <= spans[at].end && spans[at].start <= spans[i].end {
				spans[at].start = min(spans[at].start, spans[i].start)
				spans[at].end = max(spans[at].end, spans[i].end)
				spans = append(spans[:i], spans[i+1:]...)
				if i < at {
					at--
				}
				changed = true
				break
			}
		}
	}
	return spans
}

// Reset clears all cells, dirty spans, and the grapheme pool, and resets
// the scissor/opacity stacks to their initial full-area/opaque state. Call
// between frames before the next render pass.
func (b *Buffer) Reset() {
	for i := range b.cells {
		b.cells[i] = cell.Empty
	}
	for i := range b.dirty {
		b.dirty[i] = nil
	}
	b.pool.Reset()
	b.scissors = b.scissors[:1]
	b.opacity = b.opacity[:1]
}

// Snapshot returns a deep, row-major copy of the buffer's cells for use as
// one side of patch.Diff.
func (b *Buffer) Snapshot() [][]cell.Cell {
	out := make([][]cell.Cell, b.rows)
	for y := 0; y < b.rows; y++ {
		row := make([]cell.Cell, b.cols)
		copy(row, b.cells[y*b.cols:(y+1)*b.cols])
		out[y] = row
	}
	return out
}

// DirtyRows reports which rows have at least one dirty span, for renderers
// that want to skip untouched rows before falling back to patch.Diff for
// the exact column ranges.
func (b *Buffer) DirtyRows() []int {
	var rows []int
	for y, spans := range b.dirty {
		if len(spans) > 0 {
			rows = append(rows, y)
		}
	}
	return rows
}

// Frame pairs a Buffer with the double-buffering bookkeeping: the buffer
// currently being rendered into, and the previously presented snapshot a
// patch.Diff is computed against at Present.
type Frame struct {
	Buffer   *Buffer
	previous [][]cell.Cell
}

// NewFrame returns a Frame wrapping a fresh Buffer of the given size.
func NewFrame(rows, cols int) *Frame {
	return &Frame{Buffer: New(rows, cols)}
}

// Present snapshots the buffer, diffs it against the last-presented
// snapshot (an implicitly blank buffer on the first call), and readies the
// buffer for the next frame.
func (f *Frame) Present() patch.Patch {
	next := f.Buffer.Snapshot()
	prev := f.previous
	if prev == nil {
		prev = blankSnapshot(f.Buffer.Rows(), f.Buffer.Cols())
	}
	p := patch.Diff(prev, next)
	f.previous = next
	f.Buffer.Reset()
	return p
}

func blankSnapshot(rows, cols int) [][]cell.Cell {
	out := make([][]cell.Cell, rows)
	for y := range out {
		row := make([]cell.Cell, cols)
		for x := range row {
			row[x] = cell.Empty
		}
		out[y] = row
	}
	return out
}

// Previous returns the last snapshot handed back by Present, or nil before
// the first Present.
func (f *Frame) Previous() [][]cell.Cell { return f.previous }
