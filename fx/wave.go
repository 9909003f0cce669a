package fx

import (
	"math"

	"github.com/goterm/ftui/budget"
	"github.com/goterm/ftui/cell"
)

// WaveFx is a deterministic procedural backdrop: a sum of sine/cosine
// terms evaluated per-cell from normalized coordinates and Context.Phase,
// with no internal clock or randomness, gradient-mapped between Low and
// High. Minimal quality drops to a cheaper 3-term wave.
type WaveFx struct {
	Low, High cell.RGBA
}

// NewWaveFx builds a WaveFx gradient-mapped between low and high.
func NewWaveFx(low, high cell.RGBA) *WaveFx { return &WaveFx{Low: low, High: high} }

func (w *WaveFx) Name() string { return "wave" }

func (w *WaveFx) Resize(int, int) {}

func (w *WaveFx) Render(ctx Context, out []cell.RGBA) {
	if ctx.Empty() || ctx.Quality == budget.Off {
		return
	}
	hDen := floatOrOne(ctx.Height - 1)
	wDen := floatOrOne(ctx.Width - 1)
	cheap := ctx.Quality == budget.Minimal
	for y := 0; y < ctx.Height; y++ {
		ny := float64(y) / hDen
		for x := 0; x < ctx.Width; x++ {
			nx := float64(x) / wDen
			var v float64
			if cheap {
				v = waveLow(nx, ny, ctx.Phase)
			} else {
				v = wave(nx, ny, ctx.Phase)
			}
			out[y*ctx.Width+x] = lerpColor(w.Low, w.High, v)
		}
	}
}

func floatOrOne(n int) float64 {
	if n <= 0 {
		return 1
	}
	return float64(n)
}

// wave is the full 6-term plasma wave, normalized to [0, 1].
func wave(nx, ny, phase float64) float64 {
	x, y := nx*6, ny*6
	v1 := math.Sin(x*1.5 + phase)
	v2 := math.Sin(y*1.8 + phase*0.8)
	v3 := math.Sin((x+y)*1.2 + phase*0.6)
	v4 := math.Sin(math.Sqrt(x*x+y*y)*2 - phase*1.2)
	v5 := math.Cos(math.Sqrt(math.Pow(x-3, 2)+math.Pow(y-3, 2))*1.8 + phase)
	v6 := math.Sin(math.Sin(x*2)*math.Cos(y*2) + phase*0.5)
	value := (v1 + v2 + v3 + v4 + v5 + v6) / 6
	return (value + 1) / 2
}

// waveLow is a cheaper 3-term wave for Minimal quality.
func waveLow(nx, ny, phase float64) float64 {
	x, y := nx*6, ny*6
	v1 := math.Sin(x*1.5 + phase)
	v2 := math.Sin(y*1.8 + phase*0.8)
	v3 := math.Sin((x+y)*1.2 + phase*0.6)
	value := (v1 + v2 + v3) / 3
	return (value + 1) / 2
}

func lerpColor(a, b cell.RGBA, t float64) cell.RGBA {
	t = clampUnit(t)
	return cell.RGBA{
		R: lerp8(a.R, b.R, t),
		G: lerp8(a.G, b.G, t),
		B: lerp8(a.B, b.B, t),
		A: 255,
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
