// Package grid implements the 2D cell matrix (C2), its scrollback ring
// buffer (C3), and its mode/cursor state machines (C6): everything the
// parser's executor mutates in place as it applies actions.
package grid

import "github.com/goterm/ftui/cell"

// Grid is a rows x cols matrix of cells with scroll region, tab stops, wrap
// state, cursor, modes, and an attached scrollback. A Grid exclusively owns
// its cell matrix, cursor, modes, and scroll region (no other package
// mutates them directly).
type Grid struct {
	rows, cols int
	cells      [][]cell.Cell
	wrapped    []bool
	tabStops   []bool

	cursor      Cursor
	saved       SavedCursor
	modes       Modes
	charsetSlot CharsetIndex
	charsets    [4]Charset

	scrollTop, scrollBottom int // inclusive scroll region, 0-based

	// pen is the template applied to newly written cells (current SGR state).
	pen cell.Attrs
	penFg, penBg uint32

	scrollback Scrollback

	// pool backs combining-mark merges (MergeCombining); the frame layer
	// owns the pool used for presentation, this one only ever grows by a
	// handful of entries for clusters assembled at the live cursor.
	pool *cell.GraphemePool
}

// New returns a Grid of the given size with default tab stops every 8
// columns, autowrap enabled, and the given scrollback sink (use
// NoopScrollback for the alternate screen).
func New(rows, cols int, scrollback Scrollback) *Grid {
	if scrollback == nil {
		scrollback = NoopScrollback{}
	}
	g := &Grid{
		rows:         rows,
		cols:         cols,
		cells:        make([][]cell.Cell, rows),
		wrapped:      make([]bool, rows),
		tabStops:     make([]bool, cols),
		cursor:       NewCursor(),
		modes:        NewModes(),
		scrollBottom: rows - 1,
		scrollback:   scrollback,
		pool:         cell.NewGraphemePool(),
	}
	for i := range g.cells {
		g.cells[i] = newBlankRow(cols)
	}
	for c := 0; c < cols; c += 8 {
		g.tabStops[c] = true
	}
	return g
}

func newBlankRow(cols int) []cell.Cell {
	row := make([]cell.Cell, cols)
	for i := range row {
		row[i] = cell.Empty
	}
	return row
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) Cursor() Cursor      { return g.cursor }
func (g *Grid) SetCursor(c Cursor)  { g.cursor = g.clampCursor(c) }
func (g *Grid) Modes() *Modes       { return &g.modes }

func (g *Grid) ScrollRegion() (top, bottom int) { return g.scrollTop, g.scrollBottom }

// SetScrollRegion sets the inclusive scroll band, clamped to the grid.
func (g *Grid) SetScrollRegion(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom > g.rows-1 {
		bottom = g.rows - 1
	}
	if top > bottom {
		top, bottom = 0, g.rows-1
	}
	g.scrollTop, g.scrollBottom = top, bottom
}

func (g *Grid) clampCursor(c Cursor) Cursor {
	if c.Row < 0 {
		c.Row = 0
	}
	maxRow := g.rows - 1
	if g.modes.HasDec(DecModeOriginMode) {
		if c.Row < g.scrollTop {
			c.Row = g.scrollTop
		}
		if c.Row > g.scrollBottom {
			c.Row = g.scrollBottom
		}
	} else if c.Row > maxRow {
		c.Row = maxRow
	}
	if c.Col < 0 {
		c.Col = 0
	}
	if c.Col > g.cols {
		c.Col = g.cols
	}
	return c
}

// CellAt returns the cell at (row, col), or the zero Cell if out of bounds.
func (g *Grid) CellAt(row, col int) cell.Cell {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return cell.Cell{}
	}
	return g.cells[row][col]
}

// Pen returns the current SGR pen applied to new writes.
func (g *Grid) Pen() (fg, bg uint32, attrs cell.Attrs) { return g.penFg, g.penBg, g.pen }

// SetPen replaces the SGR pen applied to subsequent writes.
func (g *Grid) SetPen(fg, bg uint32, attrs cell.Attrs) {
	g.penFg, g.penBg, g.pen = fg, bg, attrs
}

func (g *Grid) blankCell() cell.Cell {
	return cell.Cell{FgRGBA: g.penFg, BgRGBA: g.penBg, Content: uint32(' '), Attrs: g.pen.WithWidth(cell.WidthNormal)}
}

// WriteRune writes r at the cursor position using the current pen,
// handling pending-wrap, autowrap, and wide-character atomic pair writes.
// width must be 1 or 2 (combining marks are merged by the caller before
// reaching the grid; see vtexec).
func (g *Grid) WriteRune(r rune, width cell.Width) {
	if g.rows == 0 || g.cols == 0 {
		return
	}
	if g.cursor.Col >= g.cols {
		g.wrapIfNeeded()
	}
	if width == cell.WidthWide && g.cursor.Col == g.cols-1 {
		// A wide cell can't split across the wrap boundary: blank the
		// trailing column and wrap before placing it.
		g.cells[g.cursor.Row][g.cursor.Col] = g.blankCell()
		g.cursor.Col = g.cols
		g.wrapIfNeeded()
	}

	row, col := g.cursor.Row, g.cursor.Col
	primary := cell.Cell{
		FgRGBA: g.penFg, BgRGBA: g.penBg,
		Attrs: g.pen.WithWidth(width),
	}.WithRune(r)
	g.cells[row][col] = primary

	if width == cell.WidthWide && col+1 < g.cols {
		g.cells[row][col+1] = cell.ContinuationOf(primary)
	}

	g.cursor.Col += int(width) // combining marks (width 0) never advance
	if g.cursor.Col >= g.cols && g.modes.HasDec(DecModeAutowrap) {
		// leave Col == cols as the pending-wrap sentinel (§3 invariant)
	} else if g.cursor.Col > g.cols {
		g.cursor.Col = g.cols
	}
}

// wrapIfNeeded advances to column 0 of the next row, scrolling within the
// region if the cursor is on the bottom line. No-op if autowrap is off or
// the cursor is not in the pending-wrap position.
func (g *Grid) wrapIfNeeded() {
	if g.cursor.Col < g.cols {
		return
	}
	if !g.modes.HasDec(DecModeAutowrap) {
		g.cursor.Col = g.cols - 1
		return
	}
	g.wrapped[g.cursor.Row] = true
	g.cursor.Col = 0
	if g.cursor.Row == g.scrollBottom {
		g.ScrollUp(1, true)
	} else if g.cursor.Row < g.rows-1 {
		g.cursor.Row++
	}
}

// MergeCombining folds a combining mark into the cell immediately left of
// the cursor, growing it into (or extending) a grapheme-pool cluster.
// No-op if there is no addressable cell to merge into (start of line, or
// the previous write left the pending-wrap sentinel engaged).
func (g *Grid) MergeCombining(r rune) {
	col := g.cursor.Col - 1
	if g.cursor.Col >= g.cols {
		col = g.cols - 1
	}
	row := g.cursor.Row
	if col < 0 || row < 0 || row >= g.rows {
		return
	}
	c := g.cells[row][col]
	var base string
	if br, ok := c.Rune(); ok {
		base = string(br)
	} else if id, ok := c.GraphemeID(); ok {
		base = g.pool.Lookup(id)
	} else {
		return
	}
	id := g.pool.Intern(base + string(r))
	g.cells[row][col] = c.WithGrapheme(id)
}

// ScrollUp moves lines [top+n, bottom] to [top, bottom-n] and blanks the
// trailing n lines with the current pen. withinRegion restricts top/bottom
// to the grid's scroll region; otherwise the full screen is used. Displaced
// lines are appended to scrollback iff the region scrolled is the full
// screen and the alt-screen scrollback sink is not installed
// (NoopScrollback silently discards in that case).
func (g *Grid) ScrollUp(n int, withinRegion bool) {
	top, bottom := 0, g.rows-1
	if withinRegion {
		top, bottom = g.scrollTop, g.scrollBottom
	}
	g.scrollUpRegion(top, bottom, n, top == 0 && bottom == g.rows-1)
}

func (g *Grid) scrollUpRegion(top, bottom, n int, toScrollback bool) {
	if n <= 0 || top >= bottom || top < 0 || bottom >= g.rows {
		return
	}
	if n > bottom-top+1 {
		n = bottom - top + 1
	}
	if toScrollback {
		for i := 0; i < n; i++ {
			g.scrollback.Push(Line{Cells: append([]cell.Cell(nil), g.cells[top+i]...), Wrapped: g.wrapped[top+i]})
		}
	}
	for row := top; row <= bottom-n; row++ {
		g.cells[row] = g.cells[row+n]
		g.wrapped[row] = g.wrapped[row+n]
	}
	for row := bottom - n + 1; row <= bottom; row++ {
		g.cells[row] = newBlankRowWith(g.blankCell(), g.cols)
		g.wrapped[row] = false
	}
}

// ScrollDown moves lines [top, bottom-n] to [top+n, bottom] and blanks the
// leading n lines.
func (g *Grid) ScrollDown(n int, withinRegion bool) {
	top, bottom := 0, g.rows-1
	if withinRegion {
		top, bottom = g.scrollTop, g.scrollBottom
	}
	if n <= 0 || top >= bottom || top < 0 || bottom >= g.rows {
		return
	}
	if n > bottom-top+1 {
		n = bottom - top + 1
	}
	for row := bottom; row >= top+n; row-- {
		g.cells[row] = g.cells[row-n]
		g.wrapped[row] = g.wrapped[row-n]
	}
	for row := top; row < top+n; row++ {
		g.cells[row] = newBlankRowWith(g.blankCell(), g.cols)
		g.wrapped[row] = false
	}
}

func newBlankRowWith(blank cell.Cell, cols int) []cell.Cell {
	row := make([]cell.Cell, cols)
	for i := range row {
		row[i] = blank
	}
	return row
}

// InsertLines inserts n blank lines at row within the scroll region, per §4.3.
func (g *Grid) InsertLines(row, n int) {
	if row < g.scrollTop || row > g.scrollBottom || n <= 0 {
		return
	}
	saved := g.scrollTop
	g.scrollTop = row
	g.ScrollDown(n, true)
	g.scrollTop = saved
}

// DeleteLines removes n lines at row within the scroll region.
func (g *Grid) DeleteLines(row, n int) {
	if row < g.scrollTop || row > g.scrollBottom || n <= 0 {
		return
	}
	g.scrollUpRegion(row, g.scrollBottom, n, false)
}

// EraseRegion blanks cells in [row, colStart) .. [row, colEnd) using the
// current pen. Pass colEnd == -1 for "to end of line".
func (g *Grid) EraseRegion(row, colStart, colEnd int) {
	if row < 0 || row >= g.rows {
		return
	}
	if colStart < 0 {
		colStart = 0
	}
	if colEnd < 0 || colEnd > g.cols {
		colEnd = g.cols
	}
	blank := g.blankCell()
	for c := colStart; c < colEnd; c++ {
		g.cells[row][c] = blank
	}
}

// EraseRows blanks entire rows [rowStart, rowEnd).
func (g *Grid) EraseRows(rowStart, rowEnd int) {
	for r := rowStart; r < rowEnd; r++ {
		g.EraseRegion(r, 0, g.cols)
		g.wrapped[r] = false
	}
}

// InsertBlanks shifts cells at and after col right by n, discarding overflow.
func (g *Grid) InsertBlanks(row, col, n int) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols || n <= 0 {
		return
	}
	blank := g.blankCell()
	for c := g.cols - 1; c >= col+n; c-- {
		g.cells[row][c] = g.cells[row][c-n]
	}
	for c := col; c < col+n && c < g.cols; c++ {
		g.cells[row][c] = blank
	}
}

// DeleteChars shifts cells after col+n left by n, blanking the tail.
func (g *Grid) DeleteChars(row, col, n int) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols || n <= 0 {
		return
	}
	blank := g.blankCell()
	for c := col; c < g.cols-n; c++ {
		g.cells[row][c] = g.cells[row][c+n]
	}
	for c := g.cols - n; c < g.cols; c++ {
		if c >= 0 {
			g.cells[row][c] = blank
		}
	}
}

// SetTab sets a tab stop at col.
func (g *Grid) SetTab(col int) {
	if col >= 0 && col < g.cols {
		g.tabStops[col] = true
	}
}

// ClearTab clears the tab stop at col.
func (g *Grid) ClearTab(col int) {
	if col >= 0 && col < g.cols {
		g.tabStops[col] = false
	}
}

// ClearAllTabs clears every tab stop.
func (g *Grid) ClearAllTabs() {
	for i := range g.tabStops {
		g.tabStops[i] = false
	}
}

// NextTabStop returns the next tab stop strictly after col, or cols-1.
func (g *Grid) NextTabStop(col int) int {
	for c := col + 1; c < g.cols; c++ {
		if g.tabStops[c] {
			return c
		}
	}
	if g.cols > 0 {
		return g.cols - 1
	}
	return 0
}

// PrevTabStop returns the previous tab stop strictly before col, or 0.
func (g *Grid) PrevTabStop(col int) int {
	for c := col - 1; c >= 0; c-- {
		if g.tabStops[c] {
			return c
		}
	}
	return 0
}

// SaveCursor stores the cursor, pen, origin mode, and charset state for a
// later RestoreCursor (DECSC/DECRC and alt-screen switches).
func (g *Grid) SaveCursor() {
	g.saved = SavedCursor{
		Row: g.cursor.Row, Col: g.cursor.Col,
		Pen: g.pen, FgRGBA: g.penFg, BgRGBA: g.penBg,
		OriginMode:  g.modes.HasDec(DecModeOriginMode),
		CharsetSlot: g.charsetSlot,
		Charsets:    g.charsets,
	}
}

// RestoreCursor restores state captured by the most recent SaveCursor; a
// grid that was never saved restores to the origin.
func (g *Grid) RestoreCursor() {
	s := g.saved
	g.cursor = g.clampCursor(Cursor{Row: s.Row, Col: s.Col, Shape: g.cursor.Shape, Blinking: g.cursor.Blinking, Visible: g.cursor.Visible})
	g.pen, g.penFg, g.penBg = s.Pen, s.FgRGBA, s.BgRGBA
	g.modes.SetDec(DecModeOriginMode, s.OriginMode)
	g.charsetSlot = s.CharsetSlot
	g.charsets = s.Charsets
}

func (g *Grid) CharsetSlot() CharsetIndex          { return g.charsetSlot }
func (g *Grid) SetCharsetSlot(idx CharsetIndex)    { g.charsetSlot = idx }
func (g *Grid) Charset(idx CharsetIndex) Charset    { return g.charsets[idx] }
func (g *Grid) SetCharset(idx CharsetIndex, cs Charset) { g.charsets[idx] = cs }

// IsWrapped reports whether row ended via a soft wrap rather than an
// explicit line break.
func (g *Grid) IsWrapped(row int) bool {
	if row < 0 || row >= g.rows {
		return false
	}
	return g.wrapped[row]
}

// Scrollback exposes the grid's attached scrollback sink.
func (g *Grid) Scrollback() Scrollback { return g.scrollback }

// SetScrollback swaps the scrollback sink (e.g. to NoopScrollback when
// entering the alternate screen, per the Glossary's "Alt screen" entry).
func (g *Grid) SetScrollback(s Scrollback) {
	if s == nil {
		s = NoopScrollback{}
	}
	g.scrollback = s
}

// Resize changes the grid's dimensions, anchoring content to the bottom-left
// corner: shrinking rows scrolls excess lines into scrollback (unless the
// sink is NoopScrollback); growing rows adds blank lines at the bottom.
// Columns grow/shrink in place, padding or truncating each row.
func (g *Grid) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	if rows < g.rows {
		excess := g.rows - rows
		for i := 0; i < excess; i++ {
			g.scrollback.Push(Line{Cells: append([]cell.Cell(nil), g.cells[i]...), Wrapped: g.wrapped[i]})
		}
		g.cells = g.cells[excess:]
		g.wrapped = g.wrapped[excess:]
	}
	newCells := make([][]cell.Cell, rows)
	newWrapped := make([]bool, rows)
	copy(newWrapped, g.wrapped)
	for i := 0; i < rows; i++ {
		if i < len(g.cells) {
			newCells[i] = resizeRow(g.cells[i], cols)
		} else {
			newCells[i] = newBlankRow(cols)
		}
	}
	g.cells = newCells
	g.wrapped = newWrapped

	newTabStops := make([]bool, cols)
	copy(newTabStops, g.tabStops)
	for c := len(g.tabStops); c < cols; c += 8 {
		newTabStops[c] = true
	}
	g.tabStops = newTabStops

	g.rows, g.cols = rows, cols
	if g.scrollBottom >= rows {
		g.scrollBottom = rows - 1
	}
	if g.scrollTop > g.scrollBottom {
		g.scrollTop = 0
	}
	g.cursor = g.clampCursor(g.cursor)
}

func resizeRow(row []cell.Cell, cols int) []cell.Cell {
	out := make([]cell.Cell, cols)
	n := len(row)
	if n > cols {
		n = cols
	}
	copy(out, row[:n])
	for i := n; i < cols; i++ {
		out[i] = cell.Empty
	}
	return out
}

// Snapshot returns a deep copy of the visible cell matrix, row-major, for
// use as the "previous frame" side of a patch.Diff.
func (g *Grid) Snapshot() [][]cell.Cell {
	out := make([][]cell.Cell, g.rows)
	for i := range g.cells {
		out[i] = append([]cell.Cell(nil), g.cells[i]...)
	}
	return out
}
