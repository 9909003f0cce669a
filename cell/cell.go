// Package cell defines the atomic unit of the grid and the frame buffer: a
// packed 16-byte Cell, its color representation, and the frame-scoped
// grapheme pool used for multi-codepoint clusters.
package cell

// AttrFlags is a bitmask of style attributes carried inline in Cell.Attrs.
type AttrFlags uint32

const (
	Bold AttrFlags = 1 << iota
	Dim
	Italic
	Underline
	DoubleUnderline
	CurlyUnderline
	Blink
	Reverse
	Hidden
	Strikethrough

	attrFlagsMask = (1 << 10) - 1
)

// Width classifies how many grid columns a cell occupies.
type Width uint8

const (
	WidthCombining Width = 0
	WidthNormal    Width = 1
	WidthWide      Width = 2
)

// Attrs packs style flags, cell width, hyperlink id, and an effects style-bits
// tag into a single uint32:
//
//	bits 0-9:   AttrFlags
//	bits 10-11: Width
//	bits 16-23: link id (0 = no link)
//	bits 24-31: style-bits tag (read by visual effects)
type Attrs uint32

const (
	widthShift     = 10
	widthMask      = 0x3
	linkIDShift    = 16
	linkIDMask     = 0xFF
	styleBitsShift = 24
	styleBitsMask  = 0xFF
)

func PackAttrs(flags AttrFlags, width Width, linkID uint8, styleBits uint8) Attrs {
	return Attrs(uint32(flags)&attrFlagsMask |
		(uint32(width)&widthMask)<<widthShift |
		uint32(linkID)<<linkIDShift |
		uint32(styleBits)<<styleBitsShift)
}

func (a Attrs) Flags() AttrFlags { return AttrFlags(uint32(a) & attrFlagsMask) }

func (a Attrs) HasFlag(f AttrFlags) bool { return uint32(a)&uint32(f) != 0 }

func (a Attrs) WithFlags(f AttrFlags) Attrs {
	return Attrs(uint32(a)&^attrFlagsMask | uint32(f)&attrFlagsMask)
}

func (a Attrs) Width() Width { return Width((uint32(a) >> widthShift) & widthMask) }

func (a Attrs) WithWidth(w Width) Attrs {
	return Attrs(uint32(a)&^(widthMask<<widthShift) | (uint32(w)&widthMask)<<widthShift)
}

func (a Attrs) LinkID() uint8 { return uint8((uint32(a) >> linkIDShift) & linkIDMask) }

func (a Attrs) WithLinkID(id uint8) Attrs {
	return Attrs(uint32(a)&^(linkIDMask<<linkIDShift) | uint32(id)<<linkIDShift)
}

func (a Attrs) StyleBits() uint8 { return uint8((uint32(a) >> styleBitsShift) & styleBitsMask) }

func (a Attrs) WithStyleBits(bits uint8) Attrs {
	return Attrs(uint32(a)&^(styleBitsMask<<styleBitsShift) | uint32(bits)<<styleBitsShift)
}

// contentGraphemeTag marks Content as a grapheme-pool index rather than an
// inline codepoint. Valid Unicode scalar values top out at 0x10FFFF, so the
// high byte is free to use as a discriminant.
const contentGraphemeTag = 1 << 24

// Cell is the atom of the grid and the frame buffer, packed to 16 bytes:
// fg/bg RGBA (4 bytes each), content (codepoint or grapheme-pool index,
// 4 bytes), and attrs (flags + width + link id + style-bits tag, 4 bytes).
type Cell struct {
	FgRGBA  uint32
	BgRGBA  uint32
	Content uint32
	Attrs   Attrs
}

// Empty is the blank cell: a space on default colors, width 1.
var Empty = Cell{Content: uint32(' '), Attrs: PackAttrs(0, WidthNormal, 0, 0)}

// Rune returns the inline codepoint, or 0 if Content addresses the grapheme pool.
func (c Cell) Rune() (r rune, ok bool) {
	if c.Content&contentGraphemeTag != 0 {
		return 0, false
	}
	return rune(c.Content), true
}

// GraphemeID returns the 24-bit grapheme-pool index, or 0 if Content is an
// inline codepoint.
func (c Cell) GraphemeID() (id uint32, ok bool) {
	if c.Content&contentGraphemeTag == 0 {
		return 0, false
	}
	return c.Content &^ contentGraphemeTag, true
}

// WithRune returns a copy of c holding an inline codepoint.
func (c Cell) WithRune(r rune) Cell {
	c.Content = uint32(r)
	return c
}

// WithGrapheme returns a copy of c addressing grapheme pool index id (must fit in 24 bits).
func (c Cell) WithGrapheme(id uint32) Cell {
	c.Content = contentGraphemeTag | (id &^ contentGraphemeTag)
	return c
}

// WithAttrs returns a copy of c with f applied to its Attrs.
func (c Cell) WithAttrs(f func(Attrs) Attrs) Cell {
	c.Attrs = f(c.Attrs)
	return c
}

// IsWide reports whether this cell is the primary half of a wide character.
func (c Cell) IsWide() bool { return c.Attrs.Width() == WidthWide }

// IsContinuation reports whether this cell is a wide-pair's trailing sentinel.
// Continuation cells carry no content of their own and are never addressed
// as primary cells by a write.
func (c Cell) IsContinuation() bool { return c.Attrs.Width() == WidthCombining && c.Content == 0 }

// ContinuationOf returns the sentinel cell written at (x+1) of a wide pair.
func ContinuationOf(primary Cell) Cell {
	return Cell{
		FgRGBA:  primary.FgRGBA,
		BgRGBA:  primary.BgRGBA,
		Content: 0,
		Attrs:   primary.Attrs.WithWidth(WidthCombining),
	}
}

// ToBytes returns the canonical 16-byte row-major encoding used by frame
// hashing (diag.FrameHash): little-endian bg, fg, content, attrs.
func (c Cell) ToBytes() [16]byte {
	var out [16]byte
	putU32(out[0:4], c.BgRGBA)
	putU32(out[4:8], c.FgRGBA)
	putU32(out[8:12], c.Content)
	putU32(out[12:16], uint32(c.Attrs))
	return out
}

func putU32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}
