package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/goterm/ftui/cell"
	"github.com/goterm/ftui/patch"
)

// present encodes a patch.Patch as the wire bytes a host terminal expects:
// one CSI cursor-position move per run, then each run's cells with SGR
// truecolor/attribute changes emitted only where they differ from the
// previous cell written, closing with an SGR reset so a partial write never
// bleeds style into whatever the host terminal draws next.
//
// x/ansi supplies the cursor-position and reset primitives (§ DOMAIN STACK:
// charmbracelet/x/ansi -> session); no pack example exposes a cell-attrs ->
// SGR encoder, so that piece is hand-rolled here (DESIGN.md).
func present(p patch.Patch) []byte {
	var b strings.Builder
	var have bool
	var prev cell.Cell

	for _, run := range p.Runs {
		b.WriteString(ansi.SetCursorPosition(run.ColStart+1, run.Row+1))
		have = false
		for _, c := range run.Cells {
			if c.IsContinuation() {
				continue
			}
			if !have || c.Attrs != prev.Attrs || c.FgRGBA != prev.FgRGBA || c.BgRGBA != prev.BgRGBA {
				b.WriteString(sgrFor(c))
				prev = c
				have = true
			}
			writeGlyph(&b, c)
		}
	}
	if have {
		b.WriteString(ansi.ResetStyle)
	}
	return []byte(b.String())
}

// writeGlyph appends the printable content of c: its inline rune, or a
// single placeholder space for a grapheme-pool reference (the buffer's pool
// lives with the frame.Buffer that produced the patch, not with the patch
// itself, so the presenter can't resolve it without that buffer in hand).
func writeGlyph(b *strings.Builder, c cell.Cell) {
	if r, ok := c.Rune(); ok {
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
		return
	}
	b.WriteByte(' ')
}

func sgrFor(c cell.Cell) string {
	var parts []string
	parts = append(parts, "0")

	flags := c.Attrs.Flags()
	if flags&cell.Bold != 0 {
		parts = append(parts, "1")
	}
	if flags&cell.Dim != 0 {
		parts = append(parts, "2")
	}
	if flags&cell.Italic != 0 {
		parts = append(parts, "3")
	}
	if flags&cell.Underline != 0 {
		parts = append(parts, "4")
	}
	if flags&cell.Blink != 0 {
		parts = append(parts, "5")
	}
	if flags&cell.Reverse != 0 {
		parts = append(parts, "7")
	}
	if flags&cell.Hidden != 0 {
		parts = append(parts, "8")
	}
	if flags&cell.Strikethrough != 0 {
		parts = append(parts, "9")
	}
	if flags&cell.DoubleUnderline != 0 {
		parts = append(parts, "21")
	}

	fg := cell.UnpackRGBA(c.FgRGBA)
	if fg.A > 0 {
		parts = append(parts, fmt.Sprintf("38;2;%d;%d;%d", fg.R, fg.G, fg.B))
	}
	bg := cell.UnpackRGBA(c.BgRGBA)
	if bg.A > 0 {
		parts = append(parts, fmt.Sprintf("48;2;%d;%d;%d", bg.R, bg.G, bg.B))
	}

	return "\x1b[" + strings.Join(parts, ";") + "m"
}
