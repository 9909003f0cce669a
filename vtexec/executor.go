// Package vtexec applies vtparse's action stream to a grid.Grid: cursor
// movement, erase/insert/delete, SGR, modes, and the DSR/DA/CPR reply
// contract (C5).
package vtexec

import (
	"go.uber.org/zap"

	"github.com/goterm/ftui/cell"
	"github.com/goterm/ftui/grid"
	"github.com/goterm/ftui/vtparse"
)

// Option configures an Executor at construction time, mirroring the
// teacher's functional-options idiom (`Option func(*Terminal)`).
type Option func(*Executor)

func WithReplyEngine(r ReplyEngine) Option { return func(e *Executor) { e.reply = r } }
func WithBell(b BellSink) Option           { return func(e *Executor) { e.bell = b } }
func WithTitle(t TitleSink) Option         { return func(e *Executor) { e.title = t } }
func WithClipboard(c ClipboardSink) Option { return func(e *Executor) { e.clipboard = c } }
func WithGraphics(g GraphicsSink) Option   { return func(e *Executor) { e.graphics = g } }
func WithLogger(l *zap.Logger) Option      { return func(e *Executor) { e.log = l } }

// Executor owns the primary and alternate grids and applies parser actions
// to whichever is current. Mode 1049/1047 swap `current` between them.
type Executor struct {
	primary, alt *grid.Grid
	current      *grid.Grid

	reply     ReplyEngine
	bell      BellSink
	title     TitleSink
	clipboard ClipboardSink
	graphics  GraphicsSink
	log       *zap.Logger

	titleStack []string

	activeLink  uint8
	linkURLs    map[uint8]string
	nextLinkID  uint8

	dcsParams []int
	dcsFinal  byte
	dcsBuf    []byte
	dcsActive bool
}

// New constructs an Executor over primary/alt grids of the given size. The
// alt grid always uses NoopScrollback (Glossary: "Alt screen — scrollback
// is not updated while active").
func New(rows, cols int, scrollback grid.Scrollback, opts ...Option) *Executor {
	primary := grid.New(rows, cols, scrollback)
	alt := grid.New(rows, cols, grid.NoopScrollback{})
	e := &Executor{
		primary:   primary,
		alt:       alt,
		current:   primary,
		reply:     NoopReply{},
		bell:      NoopBell{},
		title:     NoopTitle{},
		clipboard: NoopClipboard{},
		graphics:  NoopGraphics{},
		log:       zap.NewNop(),
		linkURLs:  make(map[uint8]string),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Executor) Grid() *grid.Grid { return e.current }

func (e *Executor) Resize(rows, cols int) {
	e.primary.Resize(rows, cols)
	e.alt.Resize(rows, cols)
}

// Apply processes a stream of parser actions in order.
func (e *Executor) Apply(actions []vtparse.Action) {
	for _, a := range actions {
		e.applyOne(a)
	}
}

func (e *Executor) applyOne(a vtparse.Action) {
	switch a.Kind {
	case vtparse.ActionPrint:
		e.print(a.Rune)
	case vtparse.ActionExecute:
		e.execute(a.Byte)
	case vtparse.ActionEscDispatch:
		e.escDispatch(a)
	case vtparse.ActionCsiDispatch:
		e.csiDispatch(a)
	case vtparse.ActionOscDispatch:
		e.oscDispatch(a.OscCommand, a.OscPayload)
	case vtparse.ActionDcsHook:
		e.dcsHook(a)
	case vtparse.ActionDcsPut:
		if e.dcsActive && len(e.dcsBuf) < vtparse.OscPayloadCap {
			e.dcsBuf = append(e.dcsBuf, a.Byte)
		}
	case vtparse.ActionDcsUnhook:
		e.dcsUnhook()
	}
}

// print writes r at the cursor. The active hyperlink id (if any) already
// lives in the grid's pen (see oscHyperlink), so WriteRune tags it for free.
func (e *Executor) print(r rune) {
	width := cell.RuneWidth(r)
	if width == cell.WidthCombining {
		e.current.MergeCombining(r)
		return
	}
	e.current.WriteRune(r, width)
}

func (e *Executor) execute(b byte) {
	switch b {
	case '\a': // BEL
		e.bell.Ring()
	case '\b': // BS
		e.moveCursorRelative(0, -1)
	case '\t': // HT
		c := e.current.Cursor()
		e.current.SetCursor(grid.Cursor{Row: c.Row, Col: e.current.NextTabStop(c.Col), Visible: c.Visible, Shape: c.Shape, Blinking: c.Blinking})
	case '\n', '\v', '\f': // LF/VT/FF
		e.lineFeed()
	case '\r': // CR
		c := e.current.Cursor()
		e.current.SetCursor(grid.Cursor{Row: c.Row, Col: 0, Visible: c.Visible, Shape: c.Shape, Blinking: c.Blinking})
	default:
		e.log.Debug("unhandled control code", zap.Int("byte", int(b)))
	}
}

func (e *Executor) lineFeed() {
	g := e.current
	c := g.Cursor()
	_, bottom := g.ScrollRegion()
	if c.Row == bottom {
		g.ScrollUp(1, true)
	} else if c.Row < g.Rows()-1 {
		c.Row++
		g.SetCursor(c)
	}
}

// moveCursorRelative moves the cursor by (dRow, dCol), clamped to the grid
// (or, in origin mode, to the scroll region) by Grid.SetCursor.
func (e *Executor) moveCursorRelative(dRow, dCol int) {
	g := e.current
	c := g.Cursor()
	c.Row += dRow
	c.Col += dCol
	if c.Col < 0 {
		c.Col = 0
	}
	g.SetCursor(c)
}
