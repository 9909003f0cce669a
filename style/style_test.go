package style

import (
	"testing"

	"github.com/goterm/ftui/cell"
)

func TestMergeOverridesOnlySetFields(t *testing.T) {
	base := WithFg(cell.Opaque(1, 2, 3).Pack())
	over := WithBg(cell.Opaque(4, 5, 6).Pack())
	merged := base.Merge(over)
	if merged.Fg == nil || *merged.Fg != *base.Fg {
		t.Errorf("expected base fg to survive merge, got %+v", merged)
	}
	if merged.Bg == nil || *merged.Bg != *over.Bg {
		t.Errorf("expected over bg to win merge, got %+v", merged)
	}
}

func TestDowngradeIdempotentWithinProfile(t *testing.T) {
	c := cell.Opaque(123, 45, 200)
	once := Downgrade(c, Ansi256)
	twice := Downgrade(once, Ansi256)
	if once != twice {
		t.Errorf("expected downgrade to be idempotent, got %+v then %+v", once, twice)
	}
}

func TestDowngradeTrueColorPassesThrough(t *testing.T) {
	c := cell.Opaque(10, 20, 30)
	if got := Downgrade(c, TrueColor); got != c {
		t.Errorf("expected TrueColor downgrade to be a no-op, got %+v", got)
	}
}

func TestPulseInterpolatesBetweenEndpoints(t *testing.T) {
	p := Pulse{
		FgA: RGBPair{R: 0}, FgB: RGBPair{R: 1},
		BgA: RGBPair{}, BgB: RGBPair{},
		Speed: 1,
	}
	fgAt0, _ := p.Eval(0)
	if fgAt0.R != 0 {
		t.Errorf("expected curve(0)=0 at phase 0, got %v", fgAt0.R)
	}
	fgAtHalf, _ := p.Eval(0.5)
	if fgAtHalf.R < 0.9 {
		t.Errorf("expected curve near peak at phase 0.5, got %v", fgAtHalf.R)
	}
}

func TestResolveEffectsOrdersByPriority(t *testing.T) {
	base := WithFg(0)
	rules := []EffectRule{
		{Effect: constEffect{RGBPair{R: 1}}, Priority: 2, Blend: Replace, Mask: StyleMask{Fg: true}},
		{Effect: constEffect{RGBPair{R: 0.5}}, Priority: 1, Blend: Replace, Mask: StyleMask{Fg: true}},
	}
	out := ResolveEffects(base, 0, rules)
	r, _, _ := unpackFloat(*out.Fg)
	if r < 0.99 {
		t.Errorf("expected the higher-priority rule (2) to win last, got r=%v", r)
	}
}

type constEffect struct{ v RGBPair }

func (c constEffect) Eval(float64) (fg, bg RGBPair) { return c.v, c.v }
