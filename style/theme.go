package style

import "math"

// TableTheme collects the per-section styles and layout knobs a table
// widget resolves cells against, plus an optional set of phase-driven
// effects layered on top.
type TableTheme struct {
	Border      Style
	Header      Style
	Row         Style
	RowAlt      Style
	RowSelected Style
	RowHover    Style
	Divider     Style

	Padding    int
	ColumnGap  int
	RowHeight  int

	Effects []EffectRule
}

// BlendMode controls how an effect's resolved style composes with the base
// style it's layered over.
type BlendMode int

const (
	Replace BlendMode = iota
	Additive
	Multiply
	Screen
)

// StyleMask gates which channels an effect is allowed to override.
type StyleMask struct {
	Fg, Bg, Attrs bool
}

// EffectRule pairs a TableEffect with its composition priority (ascending:
// lower runs first) and the style mask it's allowed to touch.
type EffectRule struct {
	Effect   TableEffect
	Priority int
	Blend    BlendMode
	Mask     StyleMask
}

// TableEffect evaluates to a color pair for a given phase. phase is a
// caller-supplied value with no hidden clock (§4.8); callers normalize it
// themselves (e.g. frame_index / frames_per_cycle).
type TableEffect interface {
	Eval(phase float64) (fg, bg RGBPair)
}

// RGBPair is the fg/bg color pair a TableEffect resolves to at a phase.
type RGBPair struct {
	R, G, B float64 // 0-1 range, blended in float before packing
}

func lerp(a, b RGBPair, t float64) RGBPair {
	return RGBPair{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

// normalizedPhase wraps phase into [0, 1) via Euclidean remainder so
// negative phases behave the same as positive ones (§4.8 determinism note).
func normalizedPhase(phase float64) float64 {
	p := math.Mod(phase, 1)
	if p < 0 {
		p += 1
	}
	return p
}

// pulseCurve is 0.5 - 0.5*cos(2*pi*t), the shared Pulse/BreathingGlow base.
func pulseCurve(t float64) float64 {
	return 0.5 - 0.5*math.Cos(2*math.Pi*t)
}

// Pulse alternates fg/bg between two color pairs at speed cycles per unit
// phase, offset by phaseOffset.
type Pulse struct {
	FgA, FgB     RGBPair
	BgA, BgB     RGBPair
	Speed        float64
	PhaseOffset  float64
}

func (p Pulse) Eval(phase float64) (fg, bg RGBPair) {
	t := normalizedPhase(phase*p.Speed + p.PhaseOffset)
	curve := pulseCurve(t)
	return lerp(p.FgA, p.FgB, curve), lerp(p.BgA, p.BgB, curve)
}

// BreathingGlow is Pulse with an added monotonic skew (asymmetry in
// [-0.9, 0.9]) that biases the curve toward a faster rise or fall.
type BreathingGlow struct {
	Fg, Bg      RGBPair
	Intensity   float64
	Speed       float64
	PhaseOffset float64
	Asymmetry   float64
}

func (b BreathingGlow) Eval(phase float64) (fg, bg RGBPair) {
	t := normalizedPhase(phase*b.Speed + b.PhaseOffset)
	skewed := skew(t, b.Asymmetry)
	curve := pulseCurve(skewed) * b.Intensity
	glow := RGBPair{R: b.Fg.R * curve, G: b.Fg.G * curve, B: b.Fg.B * curve}
	return lerp(b.Fg, glow, curve), b.Bg
}

// skew applies a monotonic warp to t based on asymmetry, steepening the
// rise (asymmetry > 0) or the fall (asymmetry < 0) while keeping
// skew(0)=0 and skew(1)=1.
func skew(t, asymmetry float64) float64 {
	a := asymmetry
	if a <= -1 {
		a = -0.999
	}
	if a >= 1 {
		a = 0.999
	}
	return t - a*t*(1-t)
}

// GradientSweep animates a position along gradient and samples it, cycling
// at speed with phaseOffset.
type GradientSweep struct {
	Gradient    []RGBPair
	Speed       float64
	PhaseOffset float64
}

func (g GradientSweep) Eval(phase float64) (fg, bg RGBPair) {
	if len(g.Gradient) == 0 {
		return
	}
	if len(g.Gradient) == 1 {
		return g.Gradient[0], g.Gradient[0]
	}
	t := normalizedPhase(phase*g.Speed + g.PhaseOffset)
	pos := t * float64(len(g.Gradient)-1)
	i := int(pos)
	if i >= len(g.Gradient)-1 {
		return g.Gradient[len(g.Gradient)-1], g.Gradient[len(g.Gradient)-1]
	}
	c := lerp(g.Gradient[i], g.Gradient[i+1], pos-float64(i))
	return c, c
}

// ResolveEffects composes base against every rule in ascending priority
// (ties broken by list order), applying each rule's blend mode and mask,
// and returns the final style.
func ResolveEffects(base Style, phase float64, rules []EffectRule) Style {
	ordered := append([]EffectRule(nil), rules...)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Priority < ordered[j-1].Priority; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	out := base
	for _, rule := range ordered {
		fg, bg := rule.Effect.Eval(phase)
		out = applyRule(out, fg, bg, rule.Blend, rule.Mask)
	}
	return out
}

func applyRule(base Style, fg, bg RGBPair, blend BlendMode, mask StyleMask) Style {
	if mask.Fg {
		base.Fg = packChannel(base.Fg, fg, blend)
	}
	if mask.Bg {
		base.Bg = packChannel(base.Bg, bg, blend)
	}
	return base
}

func packChannel(existing *uint32, c RGBPair, blend BlendMode) *uint32 {
	r, g, b := clamp01(c.R), clamp01(c.G), clamp01(c.B)
	if existing != nil && blend != Replace {
		er, eg, eb := unpackFloat(*existing)
		switch blend {
		case Additive:
			r, g, b = clamp01(er+r), clamp01(eg+g), clamp01(eb+b)
		case Multiply:
			r, g, b = er*r, eg*g, eb*b
		case Screen:
			r, g, b = 1-(1-er)*(1-r), 1-(1-eg)*(1-g), 1-(1-eb)*(1-b)
		}
	}
	v := packFloat(r, g, b)
	return &v
}

func unpackFloat(v uint32) (r, g, b float64) {
	return float64(byte(v>>24)) / 255, float64(byte(v>>16)) / 255, float64(byte(v>>8)) / 255
}

func packFloat(r, g, b float64) uint32 {
	return uint32(byte(r*255))<<24 | uint32(byte(g*255))<<16 | uint32(byte(b*255))<<8 | 0xFF
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
