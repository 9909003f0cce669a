package replay

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goterm/ftui/cell"
	"github.com/goterm/ftui/diag"
)

func sampleFrame(idx int) Frame {
	geom := diag.GeometrySnapshot{Cols: 2, Rows: 1}
	cells := []cell.Cell{cell.Empty, cell.Empty}
	return Frame{
		RunID: "run-1", FrameIdx: idx, Geometry: geom, Cells: cells,
		FrameHash: diag.FrameHash(cells, geom),
	}
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleFrame(0)))
	require.NoError(t, Write(&buf, sampleFrame(1)))

	frames, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 0, frames[0].FrameIdx)
	assert.Equal(t, 1, frames[1].FrameIdx)
	assert.Equal(t, "run-1", frames[0].RunID)
}

func TestReadSkipsBlankLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleFrame(0)))
	buf.WriteString("\n\n")
	require.NoError(t, Write(&buf, sampleFrame(1)))

	frames, err := Read(&buf)
	require.NoError(t, err)
	assert.Len(t, frames, 2)
}

func TestReadRejectsMalformedLine(t *testing.T) {
	_, err := Read(strings.NewReader("not json\n"))
	assert.Error(t, err)
}

func TestFrameHashFallsBackToRecompute(t *testing.T) {
	f := sampleFrame(0)
	f.FrameHash = ""
	assert.Equal(t, diag.FrameHash(f.Cells, f.Geometry), f.Hash())
}

func TestFrameHashPrefersRecordedValue(t *testing.T) {
	f := sampleFrame(0)
	f.FrameHash = "fnv1a64:deadbeefdeadbeef"
	assert.Equal(t, "fnv1a64:deadbeefdeadbeef", f.Hash())
}

func TestToGoldenActualsPreservesGeometryAndCells(t *testing.T) {
	frames := []Frame{sampleFrame(0), sampleFrame(1)}
	actuals := ToGoldenActuals(frames)
	require.Len(t, actuals, 2)
	assert.Equal(t, frames[0].Geometry, actuals[0].Geometry)
	assert.Equal(t, frames[0].Cells, actuals[0].Cells)
}

func TestToFrameRecordsCarriesTimingFields(t *testing.T) {
	f := sampleFrame(0)
	f.ElapsedUs = 1500
	f.DirtyCells = 4
	f.PatchCount = 1
	f.BytesUploaded = 32

	records := ToFrameRecords([]Frame{f})
	require.Len(t, records, 1)
	assert.Equal(t, int64(1500000), records[0].Elapsed.Nanoseconds())
	assert.Equal(t, uint32(4), records[0].DirtyCells)
}
