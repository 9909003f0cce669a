package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goterm/ftui/cell"
	"github.com/goterm/ftui/patch"
)

func TestSgrForTruecolorBold(t *testing.T) {
	c := cell.Cell{
		FgRGBA: cell.Opaque(255, 0, 0).Pack(),
		Attrs:  cell.PackAttrs(cell.Bold, cell.WidthNormal, 0, 0),
	}
	assert.Equal(t, "\x1b[0;1;38;2;255;0;0m", sgrFor(c))
}

func TestSgrForPlainCellIsBareReset(t *testing.T) {
	assert.Equal(t, "\x1b[0m", sgrFor(cell.Empty))
}

func TestSgrForBackgroundOnly(t *testing.T) {
	c := cell.Cell{BgRGBA: cell.Opaque(0, 0, 255).Pack()}
	assert.Equal(t, "\x1b[0;48;2;0;0;255m", sgrFor(c))
}

func TestPresentEmitsCursorMoveGlyphsAndTrailingReset(t *testing.T) {
	run := patch.Run{
		Row: 2, ColStart: 3,
		Cells: []cell.Cell{
			{Content: uint32('h'), Attrs: cell.PackAttrs(0, cell.WidthNormal, 0, 0)},
			{Content: uint32('i'), Attrs: cell.PackAttrs(0, cell.WidthNormal, 0, 0)},
		},
	}
	out := string(present(patch.Patch{Runs: []patch.Run{run}}))

	// Style codes aren't re-emitted for the second cell: identical Attrs.
	assert.Equal(t, "\x1b[3;4H\x1b[0mhi\x1b[0m", out)
}

func TestPresentSkipsContinuationCells(t *testing.T) {
	primary := cell.Cell{Content: uint32('W'), Attrs: cell.PackAttrs(0, cell.WidthWide, 0, 0)}
	cont := cell.ContinuationOf(primary)
	run := patch.Run{Row: 0, ColStart: 0, Cells: []cell.Cell{primary, cont}}
	out := string(present(patch.Patch{Runs: []patch.Run{run}}))
	assert.Equal(t, "\x1b[1;1H\x1b[0mW\x1b[0m", out)
}

func TestPresentEmptyPatchProducesNoOutput(t *testing.T) {
	assert.Empty(t, present(patch.Patch{}))
}
