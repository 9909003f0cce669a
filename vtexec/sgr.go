package vtexec

import "github.com/goterm/ftui/cell"

// sgr applies CSI ... m parameters to the grid's pen, left to right. Each
// top-level group may carry colon-separated sub-params (38:2:r:g:b) or the
// legacy semicolon-separated form (38;2;r;g;b) already flattened by the
// parser into successive top-level groups (§4.2).
func (e *Executor) sgr(params [][]int) {
	fg, bg, attrs := e.current.Pen()
	if len(params) == 0 {
		fg, bg, attrs = 0, 0, 0
		e.current.SetPen(fg, bg, attrs)
		return
	}
	for i := 0; i < len(params); i++ {
		group := params[i]
		n := 0
		if len(group) > 0 {
			n = group[0]
		}
		switch {
		case n == 0:
			// SGR reset clears style/color but not the active hyperlink: OSC 8
			// association is a separate channel from SGR state.
			link := attrs.LinkID()
			fg, bg, attrs = 0, 0, cell.Attrs(0).WithLinkID(link)
		case n == 1:
			attrs = attrs.WithFlags(attrs.Flags() | cell.Bold)
		case n == 2:
			attrs = attrs.WithFlags(attrs.Flags() | cell.Dim)
		case n == 3:
			attrs = attrs.WithFlags(attrs.Flags() | cell.Italic)
		case n == 4:
			attrs = attrs.WithFlags(attrs.Flags() | cell.Underline)
		case n == 5, n == 6:
			attrs = attrs.WithFlags(attrs.Flags() | cell.Blink)
		case n == 7:
			attrs = attrs.WithFlags(attrs.Flags() | cell.Reverse)
		case n == 8:
			attrs = attrs.WithFlags(attrs.Flags() | cell.Hidden)
		case n == 9:
			attrs = attrs.WithFlags(attrs.Flags() | cell.Strikethrough)
		case n == 21:
			attrs = attrs.WithFlags(attrs.Flags() | cell.DoubleUnderline)
		case n == 22:
			attrs = attrs.WithFlags(attrs.Flags() &^ (cell.Bold | cell.Dim))
		case n == 23:
			attrs = attrs.WithFlags(attrs.Flags() &^ cell.Italic)
		case n == 24:
			attrs = attrs.WithFlags(attrs.Flags() &^ (cell.Underline | cell.DoubleUnderline | cell.CurlyUnderline))
		case n == 25:
			attrs = attrs.WithFlags(attrs.Flags() &^ cell.Blink)
		case n == 27:
			attrs = attrs.WithFlags(attrs.Flags() &^ cell.Reverse)
		case n == 28:
			attrs = attrs.WithFlags(attrs.Flags() &^ cell.Hidden)
		case n == 29:
			attrs = attrs.WithFlags(attrs.Flags() &^ cell.Strikethrough)
		case n >= 30 && n <= 37:
			fg = cell.Palette16[n-30].Pack()
		case n == 38:
			var consumed int
			fg, consumed = e.sgrExtendedColor(group, params[i+1:])
			i += consumed
		case n == 39:
			fg = 0
		case n >= 40 && n <= 47:
			bg = cell.Palette16[n-40].Pack()
		case n == 48:
			var consumed int
			bg, consumed = e.sgrExtendedColor(group, params[i+1:])
			i += consumed
		case n == 49:
			bg = 0
		case n >= 90 && n <= 97:
			fg = cell.Palette16[8+n-90].Pack()
		case n >= 100 && n <= 107:
			bg = cell.Palette16[8+n-100].Pack()
		case n == 58: // underline color (rarely honored, treated as accepted no-op)
		case n == 59:
		}
	}
	e.current.SetPen(fg, bg, attrs)
}

// sgrExtendedColor resolves SGR 38/48's indexed (5;n) or direct-RGB (2;r;g;b)
// forms. It accepts both colon-grouped sub-params (single group, len>1) and
// legacy semicolon-separated params (consumed from rest); returns the
// packed color and how many extra top-level groups it consumed (0 for the
// colon form, 2 or 4 for the semicolon form).
func (e *Executor) sgrExtendedColor(group []int, rest [][]int) (packed uint32, consumed int) {
	if len(group) > 1 {
		// Colon form: 38:2:r:g:b or 38:5:n already grouped together.
		switch group[1] {
		case 2:
			if len(group) >= 5 {
				return cell.RGBA{R: byte(group[2]), G: byte(group[3]), B: byte(group[4]), A: 255}.Pack(), 0
			}
		case 5:
			if len(group) >= 3 {
				return cell.Palette256[byte(group[2])].Pack(), 0
			}
		}
		return 0, 0
	}
	if len(rest) == 0 {
		return 0, 0
	}
	mode := first(rest[0])
	switch mode {
	case 2:
		if len(rest) >= 4 {
			r, g, b := first(rest[1]), first(rest[2]), first(rest[3])
			return cell.RGBA{R: byte(r), G: byte(g), B: byte(b), A: 255}.Pack(), 4
		}
	case 5:
		if len(rest) >= 2 {
			return cell.Palette256[byte(first(rest[1]))].Pack(), 2
		}
	}
	return 0, 0
}

func first(group []int) int {
	if len(group) == 0 {
		return 0
	}
	return group[0]
}
