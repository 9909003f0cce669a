package grid

import "github.com/goterm/ftui/cell"

// Line is one scrollback line: its cell content plus whether it was a
// soft (wrapped) or hard (explicit newline) line break.
type Line struct {
	Cells    []cell.Cell
	Wrapped  bool
}

// Scrollback is a fixed-capacity ring buffer of Lines scrolled off the top
// of the primary grid. Appending beyond capacity drops the oldest line.
// Implementations must be safe to swap at runtime (NoopScrollback is used
// for the alternate screen, which never accumulates scrollback).
type Scrollback interface {
	Push(line Line)
	Len() int
	Line(index int) (Line, bool) // 0 = oldest
	Clear()
	SetMaxLines(n int)
	MaxLines() int
}

// NoopScrollback discards everything pushed to it. Used while the alt
// screen (DEC mode 1049/1047) is active, per §4.4/Glossary "Alt screen".
type NoopScrollback struct{}

func (NoopScrollback) Push(Line)             {}
func (NoopScrollback) Len() int               { return 0 }
func (NoopScrollback) Line(int) (Line, bool)  { return Line{}, false }
func (NoopScrollback) Clear()                 {}
func (NoopScrollback) SetMaxLines(int)        {}
func (NoopScrollback) MaxLines() int          { return 0 }

var _ Scrollback = NoopScrollback{}

// RingScrollback is the default in-memory scrollback implementation: a ring
// buffer with a configurable capacity (default 10k lines per §4.4).
type RingScrollback struct {
	lines    []Line
	start    int // index of the oldest line within lines
	count    int
	maxLines int
}

const DefaultScrollbackCapacity = 10000

// NewRingScrollback returns a ring buffer capped at maxLines (clamped to >= 0).
func NewRingScrollback(maxLines int) *RingScrollback {
	if maxLines < 0 {
		maxLines = 0
	}
	return &RingScrollback{
		lines:    make([]Line, maxLines),
		maxLines: maxLines,
	}
}

func (s *RingScrollback) Push(line Line) {
	if s.maxLines == 0 {
		return
	}
	if s.count < s.maxLines {
		idx := (s.start + s.count) % s.maxLines
		s.lines[idx] = line
		s.count++
		return
	}
	// Full: overwrite the oldest slot and advance start.
	s.lines[s.start] = line
	s.start = (s.start + 1) % s.maxLines
}

func (s *RingScrollback) Len() int { return s.count }

func (s *RingScrollback) Line(index int) (Line, bool) {
	if index < 0 || index >= s.count {
		return Line{}, false
	}
	return s.lines[(s.start+index)%s.maxLines], true
}

func (s *RingScrollback) Clear() {
	s.start = 0
	s.count = 0
}

func (s *RingScrollback) SetMaxLines(n int) {
	if n < 0 {
		n = 0
	}
	if n == s.maxLines {
		return
	}
	// Rebuild, keeping the most recent min(n, count) lines.
	keep := s.count
	if keep > n {
		keep = n
	}
	newLines := make([]Line, n)
	for i := 0; i < keep; i++ {
		l, _ := s.Line(s.count - keep + i)
		newLines[i] = l
	}
	s.lines = newLines
	s.maxLines = n
	s.start = 0
	s.count = keep
}

func (s *RingScrollback) MaxLines() int { return s.maxLines }

// Window describes a deterministic, bounded render range into scrollback
// plus the live grid, per §4.4's ScrollbackWindow contract.
type Window struct {
	TotalLines        int
	ViewportStart     int
	ViewportEnd       int
	RenderStart       int
	RenderEnd         int
}

// ComputeWindow derives a Window from the scrollback's current length, a
// viewport height, a scroll offset measured from the bottom (0 = pinned to
// the live tail), and a symmetric overscan in lines. The render range is
// clamped to [0, totalLines] and overscan is only as wide as room permits,
// kept symmetric when both sides have room.
func ComputeWindow(totalLines, viewportHeight, scrollOffsetFromBottom, overscanLines int) Window {
	if viewportHeight < 0 {
		viewportHeight = 0
	}
	if scrollOffsetFromBottom < 0 {
		scrollOffsetFromBottom = 0
	}
	maxOffset := totalLines - viewportHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if scrollOffsetFromBottom > maxOffset {
		scrollOffsetFromBottom = maxOffset
	}

	viewportEnd := totalLines - scrollOffsetFromBottom
	viewportStart := viewportEnd - viewportHeight
	if viewportStart < 0 {
		viewportStart = 0
	}

	renderStart := viewportStart - overscanLines
	renderEnd := viewportEnd + overscanLines
	if renderStart < 0 {
		// Give the unused overscan budget to the bottom side, keeping the
		// total overscan symmetric only when both sides have room.
		renderEnd += -renderStart
		renderStart = 0
	}
	if renderEnd > totalLines {
		overflow := renderEnd - totalLines
		renderStart -= overflow
		if renderStart < 0 {
			renderStart = 0
		}
		renderEnd = totalLines
	}

	return Window{
		TotalLines:    totalLines,
		ViewportStart: viewportStart,
		ViewportEnd:   viewportEnd,
		RenderStart:   renderStart,
		RenderEnd:     renderEnd,
	}
}
