package fx

import (
	"math"

	"github.com/goterm/ftui/cell"
)

// WCAG AA contrast minimums (§4.12): normal text, and large text/UI
// components like borders and dividers.
const (
	ContrastAANormal = 4.5
	ContrastAALarge  = 3.0
)

func linearizeSRGB(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Luminance returns the WCAG relative luminance of color in [0, 1].
func Luminance(color cell.RGBA) float64 {
	r := linearizeSRGB(float64(color.R) / 255)
	g := linearizeSRGB(float64(color.G) / 255)
	b := linearizeSRGB(float64(color.B) / 255)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio returns the WCAG contrast ratio between fg and bg (>= 1,
// order-independent).
func ContrastRatio(fg, bg cell.RGBA) float64 {
	l1, l2 := Luminance(fg), Luminance(bg)
	hi, lo := l1, l2
	if lo > hi {
		hi, lo = lo, hi
	}
	return (hi + 0.05) / (lo + 0.05)
}

// PresetPair is a foreground/background pair with a precomputed WCAG
// contrast ratio, for callers that want a ready legibility-safe color
// choice instead of calling ContrastRatio themselves.
type PresetPair struct {
	Name   string
	Fg, Bg cell.RGBA
	ratio  float64
}

// Ratio returns the pair's precomputed WCAG contrast ratio.
func (p PresetPair) Ratio() float64 { return p.ratio }

// ScrimPresets are pre-validated scrim/text color pairs known to clear
// ContrastAANormal, for panels that want a safe default without computing
// their own contrast ratio.
var ScrimPresets = []PresetPair{
	{Name: "dark-on-light", Fg: cell.Opaque(20, 24, 31), Bg: cell.Opaque(238, 241, 245)},
	{Name: "light-on-dark", Fg: cell.Opaque(230, 236, 242), Bg: cell.Opaque(26, 31, 41)},
	{Name: "accent-on-dark", Fg: cell.Opaque(125, 211, 252), Bg: cell.Opaque(15, 23, 32)},
}

func init() {
	for i := range ScrimPresets {
		ScrimPresets[i].ratio = ContrastRatio(ScrimPresets[i].Fg, ScrimPresets[i].Bg)
	}
}
