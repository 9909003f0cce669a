// Package fx implements the visual effects compositor (C15): a stack of
// background-only BackdropFx layers with blend modes, optional scrim
// overlays for legibility, and WCAG contrast helpers. StackedFx's Paint
// method satisfies widget.BackdropFx structurally, so it plugs into a
// widget.Backdrop without either package importing the other.
package fx

import (
	"github.com/goterm/ftui/budget"
	"github.com/goterm/ftui/cell"
	"github.com/goterm/ftui/frame"
)

// Context carries the per-frame inputs an Effect needs. It has no internal
// clock: callers own Phase and advance it themselves (§4.12), matching the
// rest of this module's pure-function effect contract.
type Context struct {
	Width, Height int
	Phase         float64
	Quality       budget.FxQuality
}

func (c Context) Len() int { return c.Width * c.Height }

func (c Context) Empty() bool { return c.Width <= 0 || c.Height <= 0 }

// Effect is a background-only effect rendering into a caller-owned,
// row-major RGBA buffer. Implementations must tolerate zero width/height
// without panicking and should reuse internal state rather than allocate
// on every Render.
type Effect interface {
	Name() string
	Resize(width, height int)
	Render(ctx Context, out []cell.RGBA)
}

// BlendMode controls how a stacked layer composes with the layers below it.
type BlendMode int

const (
	// Over is standard source-over-dest alpha blending.
	Over BlendMode = iota
	// Additive adds the layer's color onto the base, alpha takes the max.
	Additive
	// Multiply multiplies the layer's color into the base.
	Multiply
	// Screen lightens the base using an inverse-multiply of the layer.
	Screen
)

// Blend composites top (the layer) over bottom (the accumulated color so
// far). Both colors carry alpha in [0, 255].
func (m BlendMode) Blend(top, bottom cell.RGBA) cell.RGBA {
	switch m {
	case Additive:
		return blendAdditive(top, bottom)
	case Multiply:
		return blendMultiply(top, bottom)
	case Screen:
		return blendScreen(top, bottom)
	default:
		return cell.Over(top, bottom)
	}
}

func blendAdditive(top, bottom cell.RGBA) cell.RGBA {
	ta := float64(top.A) / 255
	r := clampU8(float64(bottom.R) + float64(top.R)*ta)
	g := clampU8(float64(bottom.G) + float64(top.G)*ta)
	b := clampU8(float64(bottom.B) + float64(top.B)*ta)
	return cell.RGBA{R: r, G: g, B: b, A: maxU8(bottom.A, top.A)}
}

func blendMultiply(top, bottom cell.RGBA) cell.RGBA {
	ta := float64(top.A) / 255
	mr := float64(top.R) * float64(bottom.R) / 255
	mg := float64(top.G) * float64(bottom.G) / 255
	mb := float64(top.B) * float64(bottom.B) / 255
	r := clampU8(float64(bottom.R)*(1-ta) + mr*ta)
	g := clampU8(float64(bottom.G)*(1-ta) + mg*ta)
	b := clampU8(float64(bottom.B)*(1-ta) + mb*ta)
	return cell.RGBA{R: r, G: g, B: b, A: maxU8(bottom.A, top.A)}
}

func blendScreen(top, bottom cell.RGBA) cell.RGBA {
	ta := float64(top.A) / 255
	sr := 255 - (255-float64(top.R))*(255-float64(bottom.R))/255
	sg := 255 - (255-float64(top.G))*(255-float64(bottom.G))/255
	sb := 255 - (255-float64(top.B))*(255-float64(bottom.B))/255
	r := clampU8(float64(bottom.R)*(1-ta) + sr*ta)
	g := clampU8(float64(bottom.G)*(1-ta) + sg*ta)
	b := clampU8(float64(bottom.B)*(1-ta) + sb*ta)
	return cell.RGBA{R: r, G: g, B: b, A: maxU8(bottom.A, top.A)}
}

func clampU8(v float64) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}

func maxU8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// scaleAlpha scales c's alpha channel by opacity, leaving RGB untouched.
func scaleAlpha(c cell.RGBA, opacity float64) cell.RGBA {
	c.A = uint8(float64(c.A) * clampUnit(opacity))
	return c
}

// Layer is one entry in a StackedFx: an Effect plus the opacity and blend
// mode it composites with.
type Layer struct {
	Effect  Effect
	Opacity float64
	Blend   BlendMode
}

// NewLayer wraps fx at full opacity with Over blending.
func NewLayer(e Effect) Layer { return Layer{Effect: e, Opacity: 1, Blend: Over} }

// WithOpacity returns a copy of l clamped to the given opacity.
func (l Layer) WithOpacity(opacity float64) Layer {
	l.Opacity = clampUnit(opacity)
	return l
}

// WithBlend returns a copy of l using the given blend mode.
func (l Layer) WithBlend(mode BlendMode) Layer {
	l.Blend = mode
	return l
}

// StackedFx composites multiple Effect layers bottom-to-top (layer 0 is
// the base): each layer renders into its own reusable scratch buffer, then
// a single final pass composites every layer into the output. Buffers are
// grow-only and owned exclusively by this StackedFx.
type StackedFx struct {
	layers  []Layer
	scratch [][]cell.RGBA
	lastW   int
	lastH   int
	quality budget.FxQuality
}

// NewStackedFx returns an empty compositor at FxFull quality.
func NewStackedFx() *StackedFx {
	return &StackedFx{quality: budget.FxFull}
}

// Push adds a layer to the top of the stack.
func (s *StackedFx) Push(l Layer) {
	s.layers = append(s.layers, l)
	s.scratch = append(s.scratch, nil)
}

// PushEffect adds e as a layer at full opacity with Over blending.
func (s *StackedFx) PushEffect(e Effect) { s.Push(NewLayer(e)) }

// Pop removes and returns the top layer, if any.
func (s *StackedFx) Pop() (Layer, bool) {
	n := len(s.layers)
	if n == 0 {
		return Layer{}, false
	}
	l := s.layers[n-1]
	s.layers = s.layers[:n-1]
	s.scratch = s.scratch[:n-1]
	return l, true
}

// Clear removes all layers and releases scratch buffers.
func (s *StackedFx) Clear() {
	s.layers = nil
	s.scratch = nil
	s.lastW, s.lastH = 0, 0
}

// Len returns the number of layers in the stack.
func (s *StackedFx) Len() int { return len(s.layers) }

// Name identifies the compositor, not any individual layer.
func (s *StackedFx) Name() string { return "stacked" }

// SetQuality sets the base FxQuality used by Paint before any render-area
// clamp is applied.
func (s *StackedFx) SetQuality(q budget.FxQuality) { s.quality = q }

// EffectiveQuality applies the area clamp (C14) to the stack's base
// quality for a render of areaCells cells.
func (s *StackedFx) EffectiveQuality(areaCells int) budget.FxQuality {
	return budget.ClampForArea(s.quality, areaCells)
}

// Resize notifies every layer's effect of a new area, skipping the call
// entirely when the size hasn't changed.
func (s *StackedFx) Resize(width, height int) {
	if width == s.lastW && height == s.lastH {
		return
	}
	s.lastW, s.lastH = width, height
	for _, l := range s.layers {
		l.Effect.Resize(width, height)
	}
}

func (s *StackedFx) ensureScratch(length int) {
	for i := range s.scratch {
		if len(s.scratch[i]) < length {
			s.scratch[i] = make([]cell.RGBA, length)
		}
	}
}

// Render composites every layer into out (row-major, ctx.Len() entries).
// Disabled quality, an empty area, or an empty stack all render nothing.
func (s *StackedFx) Render(ctx Context, out []cell.RGBA) {
	if len(s.layers) == 0 || !ctx.Quality.IsEnabled() || ctx.Empty() {
		return
	}
	n := ctx.Len()
	s.ensureScratch(n)

	for i, l := range s.layers {
		if l.Opacity <= 0 {
			continue
		}
		buf := s.scratch[i][:n]
		for j := range buf {
			buf[j] = cell.RGBA{}
		}
		l.Effect.Render(ctx, buf)
	}

	for i := 0; i < n; i++ {
		color := cell.RGBA{}
		for li, l := range s.layers {
			if l.Opacity <= 0 {
				continue
			}
			layerColor := scaleAlpha(s.scratch[li][i], l.Opacity)
			color = l.Blend.Blend(layerColor, color)
		}
		out[i] = color
	}
}

// Paint satisfies widget.BackdropFx: it renders the stack into a scratch
// RGBA buffer sized to area, area-clamps quality (C14), then writes each
// cell's background only, leaving glyph content, fg, and attrs untouched
// (§4.5's bg-only blend contract).
func (s *StackedFx) Paint(area frame.Rect, buf *frame.Buffer, phase float64) {
	if area.Empty() {
		return
	}
	ctx := Context{
		Width:   area.W,
		Height:  area.H,
		Phase:   phase,
		Quality: s.EffectiveQuality(area.W * area.H),
	}
	s.Resize(ctx.Width, ctx.Height)
	out := make([]cell.RGBA, ctx.Len())
	s.Render(ctx, out)

	for dy := 0; dy < area.H; dy++ {
		for dx := 0; dx < area.W; dx++ {
			idx := dy*area.W + dx
			if out[idx].A == 0 {
				continue
			}
			x, y := area.X+dx, area.Y+dy
			existing := buf.At(x, y)
			bg := cell.Over(out[idx], cell.UnpackRGBA(existing.BgRGBA)).ResolveOpaque()
			existing.BgRGBA = bg.Pack()
			buf.SetCell(x, y, existing)
		}
	}
}
