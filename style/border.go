package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/goterm/ftui/cell"
	"github.com/goterm/ftui/frame"
)

// Border is a glyph set for Block/Panel borders, borrowed from lipgloss's
// preset tables (this repo supplies its own layout/rendering, not
// lipgloss's — see DESIGN.md).
type Border struct {
	glyphs lipgloss.Border
}

func NewBorder(b lipgloss.Border) Border { return Border{glyphs: b} }

var (
	RoundedBorder = NewBorder(lipgloss.RoundedBorder())
	NormalBorder  = NewBorder(lipgloss.NormalBorder())
	ThickBorder   = NewBorder(lipgloss.ThickBorder())
	DoubleBorder  = NewBorder(lipgloss.DoubleBorder())
)

// Thickness is the number of cells a border consumes on each edge (always
// 1 for the glyph sets this engine uses).
func (Border) Thickness() int { return 1 }

// DrawBorder paints a rectangular border using b's glyphs and s's colors,
// clipped by buf's current scissor (all writes route through SetCell).
func DrawBorder(buf *frame.Buffer, area frame.Rect, b Border, s Style) {
	if area.W < 2 || area.H < 2 {
		return
	}
	fg, bg := resolveColors(s)
	set := func(x, y int, glyph string) {
		c := cell.Empty.WithRune([]rune(glyph)[0])
		c.FgRGBA, c.BgRGBA = fg, bg
		buf.SetCell(x, y, c)
	}
	x0, y0, x1, y1 := area.X, area.Y, area.X+area.W-1, area.Y+area.H-1
	set(x0, y0, b.glyphs.TopLeft)
	set(x1, y0, b.glyphs.TopRight)
	set(x0, y1, b.glyphs.BottomLeft)
	set(x1, y1, b.glyphs.BottomRight)
	for x := x0 + 1; x < x1; x++ {
		set(x, y0, b.glyphs.Top)
		set(x, y1, b.glyphs.Bottom)
	}
	for y := y0 + 1; y < y1; y++ {
		set(x0, y, b.glyphs.Left)
		set(x1, y, b.glyphs.Right)
	}
}

// DrawText writes s starting at (x, y) on a single row, styled by st,
// clipped by buf's scissor.
func DrawText(buf *frame.Buffer, x, y int, s string, st Style) {
	fg, bg := resolveColors(st)
	col := x
	for _, r := range s {
		width := cell.RuneWidth(r)
		c := cell.Empty.WithRune(r)
		c.FgRGBA, c.BgRGBA = fg, bg
		c.Attrs = c.Attrs.WithWidth(width)
		if st.Attrs != nil {
			c.Attrs = c.Attrs.WithFlags(*st.Attrs)
		}
		buf.SetCell(col, y, c)
		col += int(width)
	}
}

func resolveColors(s Style) (fg, bg uint32) {
	if s.Fg != nil {
		fg = *s.Fg
	}
	if s.Bg != nil {
		bg = *s.Bg
	}
	return
}
