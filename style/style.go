// Package style implements the Style/Theme resolver (C11): field-wise
// style composition, ColorProfile downgrade, table themes with phase-driven
// effects, and border glyph presets borrowed from lipgloss.
package style

import "github.com/goterm/ftui/cell"

// Style is a set of optional overrides; a nil/zero-value field means
// "inherit" rather than "blank". Composition applies field by field.
type Style struct {
	Fg              *uint32
	Bg              *uint32
	UnderlineColor  *uint32
	Attrs           *cell.AttrFlags
}

// Merge returns a copy of s with every set field of over applied on top.
func (s Style) Merge(over Style) Style {
	out := s
	if over.Fg != nil {
		out.Fg = over.Fg
	}
	if over.Bg != nil {
		out.Bg = over.Bg
	}
	if over.UnderlineColor != nil {
		out.UnderlineColor = over.UnderlineColor
	}
	if over.Attrs != nil {
		out.Attrs = over.Attrs
	}
	return out
}

func u32(v uint32) *uint32          { return &v }
func flags(f cell.AttrFlags) *cell.AttrFlags { return &f }

func WithFg(rgba uint32) Style    { return Style{Fg: u32(rgba)} }
func WithBg(rgba uint32) Style    { return Style{Bg: u32(rgba)} }
func WithAttrs(f cell.AttrFlags) Style { return Style{Attrs: flags(f)} }

// Apply resolves s against a base Cell, overriding its fg, bg and attr flags
// where s sets them, for use by a renderer writing a styled cell.
func (s Style) Apply(base cell.Cell) cell.Cell {
	if s.Fg != nil {
		base.FgRGBA = *s.Fg
	}
	if s.Bg != nil {
		base.BgRGBA = *s.Bg
	}
	if s.Attrs != nil {
		base.Attrs = base.Attrs.WithFlags(*s.Attrs)
	}
	return base
}
