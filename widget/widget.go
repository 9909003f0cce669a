// Package widget implements the render dispatch and composition primitives
// of C10: Widget/StatefulWidget, Panel/Block/Group/Columns/Flex, and the
// Backdrop adapter that lets C15 effects paint into cell backgrounds only.
package widget

import (
	"github.com/goterm/ftui/frame"
	"github.com/goterm/ftui/layout"
	"github.com/goterm/ftui/style"
)

// Widget renders its content into area of buf. Implementations must not
// panic on a zero-size area (§4.7); clamp internally instead.
type Widget interface {
	Render(area frame.Rect, buf *frame.Buffer)
}

// StatefulWidget renders with access to mutable external state. Focus and
// hit-testing stay the caller's responsibility: State carries whatever the
// widget needs, not a generic "focused" flag.
type StatefulWidget[S any] interface {
	Render(area frame.Rect, buf *frame.Buffer, state *S)
}

// WidgetFunc adapts a plain function to Widget.
type WidgetFunc func(area frame.Rect, buf *frame.Buffer)

func (f WidgetFunc) Render(area frame.Rect, buf *frame.Buffer) { f(area, buf) }

// Group renders children in order over the same area.
type Group struct {
	Children []Widget
}

func (g Group) Render(area frame.Rect, buf *frame.Buffer) {
	if area.Empty() {
		return
	}
	for _, c := range g.Children {
		c.Render(area, buf)
	}
}

// Block draws a border and an optional title, no padding.
type Block struct {
	Border style.Border
	Style  style.Style
	Title  string
}

func (b Block) Render(area frame.Rect, buf *frame.Buffer) {
	if area.Empty() {
		return
	}
	style.DrawBorder(buf, area, b.Border, b.Style)
	if b.Title != "" {
		style.DrawText(buf, area.X+1, area.Y, truncate(b.Title, area.W-2), b.Style)
	}
}

// Inner returns the area remaining inside a Block's border.
func (b Block) Inner(area frame.Rect) frame.Rect {
	return shrink(area, b.Border.Thickness())
}

// Panel is a Block with padding and a single child rendered inside it.
type Panel struct {
	Block
	Padding int
	Child   Widget
}

func (p Panel) Render(area frame.Rect, buf *frame.Buffer) {
	if area.Empty() {
		return
	}
	p.Block.Render(area, buf)
	inner := shrink(p.Block.Inner(area), p.Padding)
	if p.Child != nil {
		p.Child.Render(inner, buf)
	}
}

// Columns renders children side by side using Fixed/Min/Percentage/Ratio
// constraints via layout.SplitFlex.
type Columns struct {
	Constraints []layout.Constraint
	Gap         int
	Children    []Widget
}

func (c Columns) Render(area frame.Rect, buf *frame.Buffer) {
	if area.Empty() || len(c.Children) == 0 {
		return
	}
	rects, _ := layout.SplitFlex(area, layout.Horizontal, c.Constraints, c.Gap)
	for i, child := range c.Children {
		if i >= len(rects) {
			break
		}
		child.Render(rects[i], buf)
	}
}

// Flex is Columns generalized to either axis.
type Flex struct {
	Direction   layout.Direction
	Constraints []layout.Constraint
	Gap         int
	Children    []Widget
}

func (f Flex) Render(area frame.Rect, buf *frame.Buffer) {
	if area.Empty() || len(f.Children) == 0 {
		return
	}
	rects, _ := layout.SplitFlex(area, f.Direction, f.Constraints, f.Gap)
	for i, child := range f.Children {
		if i >= len(rects) {
			break
		}
		child.Render(rects[i], buf)
	}
}

// Layout renders children into an explicit set of rects, one per child, in
// order; extra rects or children beyond the shorter length are ignored.
type Layout struct {
	Areas    []frame.Rect
	Children []Widget
}

func (l Layout) Render(area frame.Rect, buf *frame.Buffer) {
	for i, child := range l.Children {
		if i >= len(l.Areas) {
			break
		}
		r := l.Areas[i].Intersect(area)
		if r.Empty() {
			continue
		}
		child.Render(r, buf)
	}
}

func shrink(r frame.Rect, n int) frame.Rect {
	r.X += n
	r.Y += n
	r.W -= 2 * n
	r.H -= 2 * n
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

// BackdropFx paints a frame's background cells for the given area and
// phase. Implementations (fx.StackedFx and friends) never touch glyph
// content — only FgRGBA/BgRGBA via frame.Buffer.SetCell's bg-only blend.
type BackdropFx interface {
	Paint(area frame.Rect, buf *frame.Buffer, phase float64)
}

// Backdrop renders an FX layer into cell backgrounds only, advancing by a
// caller-supplied phase (no hidden clock, matching C15's pure-function
// contract).
type Backdrop struct {
	Fx    BackdropFx
	Phase float64
}

func (b Backdrop) Render(area frame.Rect, buf *frame.Buffer) {
	if area.Empty() || b.Fx == nil {
		return
	}
	b.Fx.Paint(area, buf, b.Phase)
}

// WithBackdrop composes a Backdrop and a child widget over the same area,
// backdrop first so the child's glyphs paint on top.
type WithBackdrop struct {
	Backdrop Backdrop
	Child    Widget
}

func (w WithBackdrop) Render(area frame.Rect, buf *frame.Buffer) {
	if area.Empty() {
		return
	}
	w.Backdrop.Render(area, buf)
	if w.Child != nil {
		w.Child.Render(area, buf)
	}
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
