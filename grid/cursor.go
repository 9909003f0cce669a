package grid

import "github.com/goterm/ftui/cell"

// CursorShape selects how the cursor is rendered; the shape itself carries
// no blink timing (that is a host/renderer concern).
type CursorShape int

const (
	CursorShapeBlock CursorShape = iota
	CursorShapeUnderline
	CursorShapeBar
)

// Cursor tracks position and rendering style, 0-based coordinates.
type Cursor struct {
	Row, Col int
	Shape    CursorShape
	Blinking bool
	Visible  bool
}

// NewCursor returns a cursor at the origin, visible, blinking block.
func NewCursor() Cursor {
	return Cursor{Shape: CursorShapeBlock, Blinking: true, Visible: true}
}

// Charset selects a character-set variant for a G-set slot.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetDECSpecial
)

// CharsetIndex selects one of the four G0-G3 slots.
type CharsetIndex int

const (
	G0 CharsetIndex = iota
	G1
	G2
	G3
)

// SavedCursor captures everything DECSC/DECRC (and the alt-screen switch)
// must restore: position, pen attributes, origin mode, and charset state.
type SavedCursor struct {
	Row, Col     int
	Pen          cell.Attrs
	FgRGBA       uint32
	BgRGBA       uint32
	OriginMode   bool
	CharsetSlot  CharsetIndex
	Charsets     [4]Charset
}
