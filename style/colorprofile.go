package style

import (
	"os"

	cp "github.com/charmbracelet/colorprofile"

	"github.com/goterm/ftui/cell"
)

// ColorProfile selects how aggressively colors are downgraded for the host
// terminal's capability.
type ColorProfile int

const (
	TrueColor ColorProfile = iota
	Ansi256
	Ansi16
)

// DetectProfile sniffs $TERM/$COLORTERM via colorprofile, mapping its
// richer capability enum down to the three profiles this engine resolves
// against.
func DetectProfile() ColorProfile {
	switch cp.Detect(os.Stdout, os.Environ()) {
	case cp.TrueColor:
		return TrueColor
	case cp.ANSI256:
		return Ansi256
	default:
		return Ansi16
	}
}

// Downgrade lossily maps c into profile. TrueColor passes through
// unchanged; TrueColor/Ansi256→Ansi256 snaps to the 6x6x6 cube + grayscale
// ramp; anything→Ansi16 resolves to the nearest of the 16 named colors via
// a perceptual (squared-Euclidean in RGB) nearest-match. Idempotent: a
// color already produced for profile p downgrades to itself under p.
func Downgrade(c cell.RGBA, profile ColorProfile) cell.RGBA {
	switch profile {
	case TrueColor:
		return c
	case Ansi256:
		return cell.Palette256[nearest256(c)]
	default:
		return cell.Palette16[nearest16(c)]
	}
}

func nearest256(c cell.RGBA) int {
	best, bestDist := 0, -1
	for i, p := range cell.Palette256 {
		d := dist2(c, p)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func nearest16(c cell.RGBA) int {
	best, bestDist := 0, -1
	for i, p := range cell.Palette16 {
		d := dist2(c, p)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func dist2(a, b cell.RGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
