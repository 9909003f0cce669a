package fx

import (
	"math"

	"github.com/goterm/ftui/cell"
)

// Legibility-safe bounds for a bounded ScrimOpacity.
const (
	ScrimOpacityMin = 0.05
	ScrimOpacityMax = 0.85
)

// ClampScrimOpacity clamps opacity into the legibility-safe band.
func ClampScrimOpacity(opacity float64) float64 {
	if opacity < ScrimOpacityMin {
		return ScrimOpacityMin
	}
	if opacity > ScrimOpacityMax {
		return ScrimOpacityMax
	}
	return opacity
}

// ScrimClamp selects how a ScrimOpacity resolves.
type ScrimClamp int

const (
	// Bounded clamps into the legibility-safe [0.05, 0.85] band.
	Bounded ScrimClamp = iota
	// Unbounded only clamps to [0, 1], allowing explicit extremes.
	Unbounded
)

// ScrimOpacity is an opacity value paired with its clamp mode.
type ScrimOpacity struct {
	Value float64
	Clamp ScrimClamp
}

// BoundedOpacity builds a ScrimOpacity clamped to the safe band on resolve.
func BoundedOpacity(value float64) ScrimOpacity { return ScrimOpacity{Value: value, Clamp: Bounded} }

// RawOpacity builds a ScrimOpacity clamped only to [0, 1] on resolve.
func RawOpacity(value float64) ScrimOpacity { return ScrimOpacity{Value: value, Clamp: Unbounded} }

// Resolve returns the opacity after applying this value's clamp mode.
func (o ScrimOpacity) Resolve() float64 {
	if o.Clamp == Bounded {
		return ClampScrimOpacity(o.Value)
	}
	return clampUnit(o.Value)
}

// ScrimKind selects the overlay shape a Scrim applies.
type ScrimKind int

const (
	ScrimOff ScrimKind = iota
	ScrimUniform
	ScrimVerticalFade
	ScrimVignette
)

// Scrim is an optional overlay that improves foreground legibility over a
// moving backdrop. The zero value is ScrimOff: no overlay.
type Scrim struct {
	Kind ScrimKind

	Opacity ScrimOpacity // ScrimUniform

	TopOpacity    ScrimOpacity // ScrimVerticalFade
	BottomOpacity ScrimOpacity // ScrimVerticalFade

	Strength ScrimOpacity // ScrimVignette

	// Color overrides the theme overlay color when non-nil.
	Color *cell.RGBA
}

// UniformScrim is a flat overlay at a bounded opacity using the theme
// overlay color.
func UniformScrim(opacity float64) Scrim {
	return Scrim{Kind: ScrimUniform, Opacity: BoundedOpacity(opacity)}
}

// UniformScrimRaw is a flat overlay at an unbounded opacity (explicit
// extremes, including fully transparent, allowed).
func UniformScrimRaw(opacity float64) Scrim {
	return Scrim{Kind: ScrimUniform, Opacity: RawOpacity(opacity)}
}

// UniformScrimColor is a flat overlay at a bounded opacity using a custom
// color instead of the theme overlay.
func UniformScrimColor(color cell.RGBA, opacity float64) Scrim {
	c := color
	return Scrim{Kind: ScrimUniform, Opacity: BoundedOpacity(opacity), Color: &c}
}

// VerticalFadeScrim lerps opacity from topOpacity at row 0 to
// bottomOpacity at the last row, using the theme overlay color.
func VerticalFadeScrim(topOpacity, bottomOpacity float64) Scrim {
	return Scrim{
		Kind:          ScrimVerticalFade,
		TopOpacity:    BoundedOpacity(topOpacity),
		BottomOpacity: BoundedOpacity(bottomOpacity),
	}
}

// VignetteScrim darkens edges more than the center, peaking at strength
// in the corners.
func VignetteScrim(strength float64) Scrim {
	return Scrim{Kind: ScrimVignette, Strength: BoundedOpacity(strength)}
}

// TextPanelDefault is a preset tuned for text-heavy panels: a gentle
// top-to-bottom fade from 12% to 35% opacity.
func TextPanelDefault() Scrim { return VerticalFadeScrim(0.12, 0.35) }

func (s Scrim) colorOrTheme(themeOverlay cell.RGBA) cell.RGBA {
	if s.Color != nil {
		return *s.Color
	}
	return themeOverlay
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// OverlayAt returns the scrim color to composite at cell (x, y) within a
// w x h area, falling back to themeOverlay when the scrim has no explicit
// color of its own.
func (s Scrim) OverlayAt(themeOverlay cell.RGBA, x, y, w, h int) cell.RGBA {
	switch s.Kind {
	case ScrimUniform:
		return scaleAlpha(s.colorOrTheme(themeOverlay), s.Opacity.Resolve())

	case ScrimVerticalFade:
		top := s.TopOpacity.Resolve()
		bottom := s.BottomOpacity.Resolve()
		t := 1.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		opacity := clampUnit(lerp(top, bottom, t))
		return scaleAlpha(s.colorOrTheme(themeOverlay), opacity)

	case ScrimVignette:
		strength := s.Strength.Resolve()
		if w <= 1 || h <= 1 {
			return scaleAlpha(s.colorOrTheme(themeOverlay), strength)
		}
		cx := (float64(w) - 1) * 0.5
		cy := (float64(h) - 1) * 0.5
		dx := (float64(x) - cx) / cx
		dy := (float64(y) - cy) / cy
		r := math.Sqrt(dx*dx + dy*dy)
		if r > 1 {
			r = 1
		}
		t := r * r * (3 - 2*r)
		return scaleAlpha(s.colorOrTheme(themeOverlay), strength*t)

	default:
		return cell.RGBA{}
	}
}
