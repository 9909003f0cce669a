package vtexec

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/goterm/ftui/grid"
	"github.com/goterm/ftui/vtparse"
)

// csiDispatch routes a CSI final byte (keyed on private marker, intermediates,
// and final per §4.2) to the matching cursor/erase/mode/SGR handler.
func (e *Executor) csiDispatch(a vtparse.Action) {
	if len(a.Intermediates) > 0 {
		// Intermediates select DEC-specific variants (e.g. CSI ... $ p); none
		// of those are handled beyond the bare final below.
		e.log.Debug("unhandled CSI with intermediates", zap.ByteString("intermediates", a.Intermediates), zap.String("final", string(a.Final)))
		return
	}
	switch a.Final {
	case 'A':
		e.moveCursorRelative(-p1(a, 1), 0)
	case 'B':
		e.moveCursorRelative(p1(a, 1), 0)
	case 'C':
		e.moveCursorRelative(0, p1(a, 1))
	case 'D':
		e.moveCursorRelative(0, -p1(a, 1))
	case 'E': // CNL
		e.cursorToCol(0)
		e.moveCursorRelative(p1(a, 1), 0)
	case 'F': // CPL
		e.cursorToCol(0)
		e.moveCursorRelative(-p1(a, 1), 0)
	case 'G', '`': // CHA / HPA
		e.cursorToCol(p1(a, 1) - 1)
	case 'd': // VPA
		e.cursorToRow(p1(a, 1) - 1)
	case 'H', 'f': // CUP / HVP
		row, col := p1at(a, 0, 1), p1at(a, 1, 1)
		e.cursorTo(row-1, col-1)
	case 'J': // ED
		e.eraseDisplay(p1(a, 0))
	case 'K': // EL
		e.eraseLine(p1(a, 0))
	case 'L': // IL
		c := e.current.Cursor()
		e.current.InsertLines(c.Row, p1(a, 1))
	case 'M': // DL
		c := e.current.Cursor()
		e.current.DeleteLines(c.Row, p1(a, 1))
	case 'P': // DCH
		c := e.current.Cursor()
		e.current.DeleteChars(c.Row, c.Col, p1(a, 1))
	case '@': // ICH
		c := e.current.Cursor()
		e.current.InsertBlanks(c.Row, c.Col, p1(a, 1))
	case 'S': // SU
		e.current.ScrollUp(p1(a, 1), true)
	case 'T': // SD
		e.current.ScrollDown(p1(a, 1), true)
	case 'X': // ECH
		c := e.current.Cursor()
		e.current.EraseRegion(c.Row, c.Col, c.Col+p1(a, 1))
	case 'g': // TBC
		e.tabClear(p1(a, 0))
	case 'r': // DECSTBM
		top, bottom := p1at(a, 0, 1), p1at(a, 1, e.current.Rows())
		e.current.SetScrollRegion(top-1, bottom-1)
		e.cursorTo(0, 0)
	case 'h':
		e.setMode(a, true)
	case 'l':
		e.setMode(a, false)
	case 'm':
		e.sgr(a.Params)
	case 's':
		e.current.SaveCursor()
	case 'u':
		e.current.RestoreCursor()
	case 'n':
		e.deviceStatusReport(p1(a, 0))
	case 'c':
		e.deviceAttributes(a)
	default:
		e.log.Debug("unhandled CSI final", zap.String("final", string(a.Final)), zap.Any("params", a.Params))
	}
}

// p1 returns the first top-level param, or def if absent or zero (most CSI
// counts treat 0 as "1" per ECMA-48's "default parameter value" convention).
func p1(a vtparse.Action, def int) int {
	return p1at(a, 0, def)
}

func p1at(a vtparse.Action, idx, def int) int {
	if idx >= len(a.Params) || len(a.Params[idx]) == 0 || a.Params[idx][0] == 0 {
		return def
	}
	return a.Params[idx][0]
}

func (e *Executor) cursorToCol(col int) {
	c := e.current.Cursor()
	c.Col = col
	e.current.SetCursor(c)
}

func (e *Executor) cursorToRow(row int) {
	c := e.current.Cursor()
	c.Row = row
	e.current.SetCursor(c)
}

// cursorTo sets the cursor to (row, col). In origin mode, row is relative to
// the top of the scroll region (DECOM); otherwise it is grid-absolute.
func (e *Executor) cursorTo(row, col int) {
	if e.current.Modes().HasDec(grid.DecModeOriginMode) {
		top, _ := e.current.ScrollRegion()
		row += top
	}
	c := e.current.Cursor()
	e.current.SetCursor(grid.Cursor{Row: row, Col: col, Visible: c.Visible, Shape: c.Shape, Blinking: c.Blinking})
}

// eraseDisplay implements ED. mode 0=cursor..end, 1=start..cursor, 2/3=all.
// The DECSCA protection bit (Open Question 1) is intentionally ignored: the
// engine never tracks per-cell protection state.
func (e *Executor) eraseDisplay(mode int) {
	g := e.current
	c := g.Cursor()
	switch mode {
	case 0:
		g.EraseRegion(c.Row, c.Col, -1)
		g.EraseRows(c.Row+1, g.Rows())
	case 1:
		g.EraseRows(0, c.Row)
		g.EraseRegion(c.Row, 0, c.Col+1)
	case 2, 3:
		g.EraseRows(0, g.Rows())
	}
}

// eraseLine implements EL. mode 0=cursor..end, 1=start..cursor, 2=whole line.
func (e *Executor) eraseLine(mode int) {
	g := e.current
	c := g.Cursor()
	switch mode {
	case 0:
		g.EraseRegion(c.Row, c.Col, -1)
	case 1:
		g.EraseRegion(c.Row, 0, c.Col+1)
	case 2:
		g.EraseRegion(c.Row, 0, -1)
	}
}

func (e *Executor) tabClear(mode int) {
	c := e.current.Cursor()
	switch mode {
	case 0:
		e.current.ClearTab(c.Col)
	case 3:
		e.current.ClearAllTabs()
	}
}

// setMode applies CSI ? Pn h/l (DEC private) or CSI Pn h/l (ANSI) for every
// param in the sequence.
func (e *Executor) setMode(a vtparse.Action, on bool) {
	for _, group := range a.Params {
		if len(group) == 0 {
			continue
		}
		n := group[0]
		if a.Private == '?' {
			e.setDecMode(n, on)
		} else {
			e.setAnsiMode(n, on)
		}
	}
}

func (e *Executor) setDecMode(n int, on bool) {
	m := e.current.Modes()
	switch n {
	case 1:
		m.SetDec(grid.DecModeCursorKeys, on)
	case 6:
		m.SetDec(grid.DecModeOriginMode, on)
		e.cursorTo(0, 0)
	case 7:
		m.SetDec(grid.DecModeAutowrap, on)
	case 9:
		m.SetDec(grid.DecModeMouseX10, on)
	case 1000:
		m.SetDec(grid.DecModeMouseNormal, on)
	case 1002:
		m.SetDec(grid.DecModeMouseButton, on)
	case 1004:
		m.SetDec(grid.DecModeFocusEvents, on)
	case 1006:
		m.SetDec(grid.DecModeMouseSGR, on)
	case 1047:
		e.swapAltScreen(on, false)
		m.SetDec(grid.DecModeAltScreen1047, on)
	case 1048:
		if on {
			e.current.SaveCursor()
		} else {
			e.current.RestoreCursor()
		}
		m.SetDec(grid.DecModeSaveCursor1048, on)
	case 1049:
		if on {
			e.current.SaveCursor()
		}
		e.swapAltScreen(on, true)
		if !on {
			e.current.RestoreCursor()
		}
		m.SetDec(grid.DecModeAltScreen1049, on)
	case 2004:
		m.SetDec(grid.DecModeBracketedPaste, on)
	}
}

func (e *Executor) setAnsiMode(n int, on bool) {
	m := e.current.Modes()
	switch n {
	case 4:
		m.SetAnsi(grid.AnsiModeInsert, on)
	case 12:
		m.SetAnsi(grid.AnsiModeSendReceive, on)
	case 20:
		m.SetAnsi(grid.AnsiModeLineFeedNewline, on)
	}
}

// swapAltScreen switches the executor's current grid between primary and
// alt. clearOnEnter additionally blanks the alt screen on entry (mode 1049's
// documented behavior; 1047 does not clear).
func (e *Executor) swapAltScreen(enter, clearOnEnter bool) {
	if enter {
		if clearOnEnter {
			e.alt.EraseRows(0, e.alt.Rows())
		}
		e.current = e.alt
	} else {
		e.current = e.primary
	}
}

func (e *Executor) deviceStatusReport(n int) {
	switch n {
	case 5: // DSR: status
		e.reply.Reply([]byte("\x1b[0n"))
	case 6: // CPR: cursor position report
		c := e.current.Cursor()
		e.reply.Reply([]byte("\x1b[" + strconv.Itoa(c.Row+1) + ";" + strconv.Itoa(c.Col+1) + "R"))
	}
}

func (e *Executor) deviceAttributes(a vtparse.Action) {
	switch a.Private {
	case 0:
		e.reply.Reply([]byte("\x1b[?62;1;2;6c")) // DA1: VT220-class, expandable
	case '>':
		e.reply.Reply([]byte("\x1b[>0;10;1c")) // DA2
	case '=':
		e.reply.Reply([]byte("\x1bP!|00000000\x1b\\")) // DA3 (DECRPTUI)
	}
}
