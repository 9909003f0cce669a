package cell

// RGBA is a packed, non-premultiplied 8-bit-per-channel color. Alpha is only
// meaningful on background colors during compositing (frame.Buffer); it is
// resolved to opaque (A=255) before a Cell is emitted to the grid or to the
// wire protocol.
type RGBA struct {
	R, G, B, A uint8
}

// Opaque returns the color with full alpha.
func Opaque(r, g, b uint8) RGBA { return RGBA{r, g, b, 255} }

func (c RGBA) Pack() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

func UnpackRGBA(v uint32) RGBA {
	return RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
}

// ResolveOpaque returns c with A forced to 255; used before a composited
// background leaves the render pipeline (frame.Buffer never emits a cell
// with a translucent background).
func (c RGBA) ResolveOpaque() RGBA {
	c.A = 255
	return c
}

// Over composites src over dst using standard premultiplied-capable
// source-over alpha blending (straight, not premultiplied, inputs).
func Over(src, dst RGBA) RGBA {
	if src.A == 255 {
		return src
	}
	if src.A == 0 {
		return dst
	}
	sa := float64(src.A) / 255
	da := 1 - sa
	return RGBA{
		R: blend8(src.R, dst.R, sa, da),
		G: blend8(src.G, dst.G, sa, da),
		B: blend8(src.B, dst.B, sa, da),
		A: 255,
	}
}

func blend8(s, d uint8, sa, da float64) uint8 {
	v := float64(s)*sa + float64(d)*da
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}

// Palette16 is the standard 16-color ANSI palette (indices 0-15).
var Palette16 = [16]RGBA{
	Opaque(0, 0, 0), Opaque(205, 49, 49), Opaque(13, 188, 121), Opaque(229, 229, 16),
	Opaque(36, 114, 200), Opaque(188, 63, 188), Opaque(17, 168, 205), Opaque(229, 229, 229),
	Opaque(102, 102, 102), Opaque(241, 76, 76), Opaque(35, 209, 139), Opaque(245, 245, 67),
	Opaque(59, 142, 234), Opaque(214, 112, 214), Opaque(41, 184, 219), Opaque(255, 255, 255),
}

// Palette256 is the full 256-color xterm palette: Palette16 + a 6x6x6 color
// cube (16-231) + a 24-step grayscale ramp (232-255).
var Palette256 [256]RGBA

func init() {
	copy(Palette256[:16], Palette16[:])
	i := 16
	steps := [6]uint8{0, 95, 135, 175, 215, 255}
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				Palette256[i] = Opaque(steps[r], steps[g], steps[b])
				i++
			}
		}
	}
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		Palette256[232+j] = Opaque(gray, gray, gray)
	}
}
