package diag

import (
	"fmt"

	"github.com/goterm/ftui/cell"
)

// FrameGoldenActual is a borrowed frame payload submitted for golden
// checksum verification.
type FrameGoldenActual struct {
	Geometry GeometrySnapshot
	Cells    []cell.Cell
}

// FrameRegionSummary is a compact, deterministic diagnostic for the
// rendered region of a frame, attached to a mismatch so a failing CI run
// can tell roughly what changed without shipping the whole cell buffer.
type FrameRegionSummary struct {
	Cols           uint16
	Rows           uint16
	TotalCells     int
	NonEmptyCells  int
	GlyphCells     int
	StyledCells    int
	LinkedCells    int
	ActiveMinCol   *uint16
	ActiveMaxCol   *uint16
	ActiveMinRow   *uint16
	ActiveMaxRow   *uint16
}

// SummarizeFrameRegion builds a FrameRegionSummary over cells laid out
// row-major at geom's width.
func SummarizeFrameRegion(cells []cell.Cell, geom GeometrySnapshot) FrameRegionSummary {
	summary := FrameRegionSummary{
		Cols:       geom.Cols,
		Rows:       geom.Rows,
		TotalCells: len(cells),
	}
	cols := int(geom.Cols)
	for idx, c := range cells {
		if c != cell.Empty {
			summary.NonEmptyCells++
			if cols > 0 {
				x := uint16(idx % cols)
				y := uint16(idx / cols)
				summary.ActiveMinCol = minU16Ptr(summary.ActiveMinCol, x)
				summary.ActiveMaxCol = maxU16Ptr(summary.ActiveMaxCol, x)
				summary.ActiveMinRow = minU16Ptr(summary.ActiveMinRow, y)
				summary.ActiveMaxRow = maxU16Ptr(summary.ActiveMaxRow, y)
			}
		}
		if _, ok := c.Rune(); ok {
			if r, _ := c.Rune(); r != 0 && r != ' ' {
				summary.GlyphCells++
			}
		} else if _, ok := c.GraphemeID(); ok {
			summary.GlyphCells++
		}
		if c.Attrs.Flags() != 0 {
			summary.StyledCells++
		}
		if c.Attrs.LinkID() != 0 {
			summary.LinkedCells++
		}
	}
	return summary
}

func minU16Ptr(cur *uint16, v uint16) *uint16 {
	if cur == nil || v < *cur {
		return &v
	}
	return cur
}

func maxU16Ptr(cur *uint16, v uint16) *uint16 {
	if cur == nil || v > *cur {
		return &v
	}
	return cur
}

// FrameGoldenMismatch is the structured, actionable payload returned when a
// rendered frame sequence diverges from its expected golden hashes.
type FrameGoldenMismatch struct {
	FrameIdx            int
	ExpectedHash        string
	ActualHash          string
	RegionSummary       FrameRegionSummary
	ReproductionTraceID string
	ExpectedFrameCount  int
	ActualFrameCount    int
}

func (m *FrameGoldenMismatch) Error() string {
	return fmt.Sprintf(
		"golden frame mismatch: frame_idx=%d expected_hash=%s actual_hash=%s reproduction_trace_id=%s expected_frames=%d actual_frames=%d",
		m.FrameIdx, m.ExpectedHash, m.ActualHash, m.ReproductionTraceID, m.ExpectedFrameCount, m.ActualFrameCount,
	)
}

func reproductionTraceID(runID string, frameIdx int) string {
	return fmt.Sprintf("%s#frame-%d", runID, frameIdx)
}

// VerifyGoldenFrameHashes checks actualFrames against expectedHashes in
// order, returning the first mismatch (including a frame-count mismatch at
// the tail) as a *FrameGoldenMismatch, or nil if every frame matches and
// counts agree.
func VerifyGoldenFrameHashes(runID string, expectedHashes []string, actualFrames []FrameGoldenActual) error {
	minLen := len(expectedHashes)
	if len(actualFrames) < minLen {
		minLen = len(actualFrames)
	}
	for frameIdx := 0; frameIdx < minLen; frameIdx++ {
		actual := actualFrames[frameIdx]
		actualHash := FrameHash(actual.Cells, actual.Geometry)
		if actualHash != expectedHashes[frameIdx] {
			return &FrameGoldenMismatch{
				FrameIdx:             frameIdx,
				ExpectedHash:         expectedHashes[frameIdx],
				ActualHash:           actualHash,
				RegionSummary:        SummarizeFrameRegion(actual.Cells, actual.Geometry),
				ReproductionTraceID:  reproductionTraceID(runID, frameIdx),
				ExpectedFrameCount:   len(expectedHashes),
				ActualFrameCount:     len(actualFrames),
			}
		}
	}

	if len(expectedHashes) > len(actualFrames) {
		frameIdx := len(actualFrames)
		return &FrameGoldenMismatch{
			FrameIdx:            frameIdx,
			ExpectedHash:        expectedHashes[frameIdx],
			ActualHash:          "missing",
			ReproductionTraceID: reproductionTraceID(runID, frameIdx),
			ExpectedFrameCount:  len(expectedHashes),
			ActualFrameCount:    len(actualFrames),
		}
	}

	if len(actualFrames) > len(expectedHashes) {
		frameIdx := len(expectedHashes)
		actual := actualFrames[frameIdx]
		return &FrameGoldenMismatch{
			FrameIdx:             frameIdx,
			ExpectedHash:         "missing",
			ActualHash:           FrameHash(actual.Cells, actual.Geometry),
			RegionSummary:        SummarizeFrameRegion(actual.Cells, actual.Geometry),
			ReproductionTraceID:  reproductionTraceID(runID, frameIdx),
			ExpectedFrameCount:   len(expectedHashes),
			ActualFrameCount:     len(actualFrames),
		}
	}

	return nil
}
