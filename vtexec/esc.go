package vtexec

import (
	"go.uber.org/zap"

	"github.com/goterm/ftui/grid"
	"github.com/goterm/ftui/vtparse"
)

// escDispatch routes a two/three-byte ESC sequence (no CSI introducer),
// keyed on intermediates and final per §4.2.
func (e *Executor) escDispatch(a vtparse.Action) {
	if len(a.Intermediates) == 1 {
		e.escCharsetDesignate(a.Intermediates[0], a.Final)
		return
	}
	switch a.Final {
	case '7': // DECSC
		e.current.SaveCursor()
	case '8': // DECRC
		e.current.RestoreCursor()
	case 'D': // IND
		e.indexDown()
	case 'M': // RI
		e.indexUp()
	case 'E': // NEL
		e.indexDown()
		e.cursorToCol(0)
	case 'c': // RIS
		e.reset()
	case 'H': // HTS
		c := e.current.Cursor()
		e.current.SetTab(c.Col)
	default:
		e.log.Debug("unhandled ESC final", zap.String("final", string(a.Final)))
	}
}

// escCharsetDesignate handles ESC ( / ) / * / + <final>, designating a
// charset into one of the four G-set slots.
func (e *Executor) escCharsetDesignate(intermediate byte, final byte) {
	var slot grid.CharsetIndex
	switch intermediate {
	case '(':
		slot = grid.G0
	case ')':
		slot = grid.G1
	case '*':
		slot = grid.G2
	case '+':
		slot = grid.G3
	default:
		return
	}
	cs := grid.CharsetASCII
	if final == '0' {
		cs = grid.CharsetDECSpecial
	}
	e.current.SetCharset(slot, cs)
}

// indexDown moves the cursor down one line (IND), scrolling within the
// region if already on its bottom line.
func (e *Executor) indexDown() {
	g := e.current
	c := g.Cursor()
	_, bottom := g.ScrollRegion()
	if c.Row == bottom {
		g.ScrollUp(1, true)
		return
	}
	c.Row++
	g.SetCursor(c)
}

// indexUp moves the cursor up one line (RI), scrolling within the region if
// already on its top line.
func (e *Executor) indexUp() {
	g := e.current
	c := g.Cursor()
	top, _ := g.ScrollRegion()
	if c.Row == top {
		g.ScrollDown(1, true)
		return
	}
	c.Row--
	g.SetCursor(c)
}

// reset restores power-on state (RIS): clears both grids, resets modes,
// scroll region, tab stops, and returns to the primary screen.
func (e *Executor) reset() {
	e.current = e.primary
	for _, g := range [2]*grid.Grid{e.primary, e.alt} {
		g.EraseRows(0, g.Rows())
		g.SetScrollRegion(0, g.Rows()-1)
		g.ClearAllTabs()
		for c := 0; c < g.Cols(); c += 8 {
			g.SetTab(c)
		}
		g.SetPen(0, 0, 0)
		g.SetCursor(grid.Cursor{Visible: true, Shape: grid.CursorShapeBlock, Blinking: true})
	}
	e.titleStack = nil
	e.activeLink = 0
	e.nextLinkID = 0
	e.linkURLs = make(map[uint8]string)
}
