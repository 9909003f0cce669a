package diag

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/goterm/ftui/cell"
	"github.com/goterm/ftui/grid"
)

func geom() GeometrySnapshot {
	return GeometrySnapshot{Cols: 80, Rows: 24, PixelWidth: 640, PixelHeight: 384, CellWidthPx: 8, CellHeightPx: 16, Dpr: 1, Zoom: 1}
}

func TestFrameHashIsDeterministic(t *testing.T) {
	cells := []cell.Cell{cell.Empty, cell.Empty.WithRune('x')}
	a := FrameHash(cells, geom())
	b := FrameHash(cells, geom())
	if a != b {
		t.Errorf("expected stable hash, got %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "fnv1a64:") {
		t.Errorf("expected fnv1a64: prefix, got %s", a)
	}
}

func TestFrameHashChangesWithCellsOrGeometry(t *testing.T) {
	base := geom()
	cells := []cell.Cell{cell.Empty, cell.Empty}
	h1 := FrameHash(cells, base)

	changedCells := []cell.Cell{cell.Empty, cell.Empty.WithRune('a')}
	h2 := FrameHash(changedCells, base)
	if h1 == h2 {
		t.Error("expected hash to change when a cell changes")
	}

	changedGeom := base
	changedGeom.Zoom = 1.25
	h3 := FrameHash(cells, changedGeom)
	if h1 == h3 {
		t.Error("expected hash to change when zoom changes (S6)")
	}
}

func TestInteractionHashDiffersFromBaseAndCanonicalizesDisabledShaping(t *testing.T) {
	cells := []cell.Cell{cell.Empty}
	g := geom()
	base := FrameHash(cells, g)
	interactionHash := FrameHashWithInteraction(cells, g, InteractionSnapshot{})
	if base == interactionHash {
		t.Error("expected interaction hash to differ from base frame hash")
	}

	disabledShaping := FrameHashWithInteraction(cells, g, InteractionSnapshot{TextShapingEnabled: false, TextShapingEngine: 7})
	if interactionHash != disabledShaping {
		t.Error("expected disabled shaping engine id to canonicalize to the zero-value snapshot's hash")
	}

	enabledShaping := FrameHashWithInteraction(cells, g, InteractionSnapshot{TextShapingEnabled: true, TextShapingEngine: 7})
	if enabledShaping == interactionHash {
		t.Error("expected enabled shaping with a nonzero engine to change the hash")
	}
}

func TestVerifyGoldenFrameHashesAcceptsMatchingSequence(t *testing.T) {
	g := geom()
	frame0 := []cell.Cell{cell.Empty, cell.Empty}
	frame1 := []cell.Cell{cell.Empty, cell.Empty.WithRune('y')}
	expected := []string{FrameHash(frame0, g), FrameHash(frame1, g)}
	actual := []FrameGoldenActual{{Geometry: g, Cells: frame0}, {Geometry: g, Cells: frame1}}
	if err := VerifyGoldenFrameHashes("run-pass", expected, actual); err != nil {
		t.Errorf("expected no mismatch, got %v", err)
	}
}

func TestVerifyGoldenFrameHashesReportsMismatch(t *testing.T) {
	g := geom()
	frame0 := []cell.Cell{cell.Empty}
	frame1ok := []cell.Cell{cell.Empty.WithRune('a')}
	frame1bad := []cell.Cell{cell.Empty.WithRune('b')}
	expected := []string{FrameHash(frame0, g), FrameHash(frame1ok, g)}
	actual := []FrameGoldenActual{{Geometry: g, Cells: frame0}, {Geometry: g, Cells: frame1bad}}

	err := VerifyGoldenFrameHashes("run-7", expected, actual)
	if err == nil {
		t.Fatal("expected a mismatch error")
	}
	mismatch, ok := err.(*FrameGoldenMismatch)
	if !ok {
		t.Fatalf("expected *FrameGoldenMismatch, got %T", err)
	}
	if mismatch.FrameIdx != 1 {
		t.Errorf("expected frame_idx=1, got %d", mismatch.FrameIdx)
	}
	if mismatch.ReproductionTraceID != "run-7#frame-1" {
		t.Errorf("expected reproduction_trace_id run-7#frame-1, got %s", mismatch.ReproductionTraceID)
	}
}

func TestFrameTimeCollectorReportPercentiles(t *testing.T) {
	c := NewFrameTimeCollector("bench", 120, 40)
	for i := 1; i <= 100; i++ {
		c.RecordFrame(FrameRecord{Elapsed: time.Duration(i) * time.Microsecond, DirtyCells: 1, PatchCount: 1, BytesUploaded: 16})
	}
	r := c.Report()
	if r.FrameTime.Count != 100 {
		t.Errorf("expected 100 samples, got %d", r.FrameTime.Count)
	}
	if r.FrameTime.MinUs != 1 || r.FrameTime.MaxUs != 100 {
		t.Errorf("expected min=1 max=100, got min=%d max=%d", r.FrameTime.MinUs, r.FrameTime.MaxUs)
	}
	// percentile(sorted, p) = sorted[min(int(100*p), 99)]: p50->sorted[50]=51.
	if r.FrameTime.P50Us != 51 {
		t.Errorf("expected p50=51, got %d", r.FrameTime.P50Us)
	}
	if r.FrameTime.P99Us != 100 {
		t.Errorf("expected p99=100, got %d", r.FrameTime.P99Us)
	}
}

func TestFrameTimeCollectorJSONLLineCount(t *testing.T) {
	c := NewFrameTimeCollector("trace", 80, 24)
	for i := 0; i < 5; i++ {
		c.RecordFrame(FrameRecord{Elapsed: 100 * time.Microsecond, DirtyCells: 1, PatchCount: 1, BytesUploaded: 16})
	}
	lines := strings.Split(strings.TrimRight(c.ToJSONL(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 JSONL lines, got %d", len(lines))
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &parsed); err != nil {
		t.Errorf("expected valid JSON line, got error: %v", err)
	}
}

func TestResizeStormFrameJSONLOmitsInteractionFieldsWhenAbsent(t *testing.T) {
	g := geom()
	cells := []cell.Cell{cell.Empty, cell.Empty}
	line := ResizeStormFrameJSONL("run-1", 42, "T000001", 3, g, cells)
	var parsed map[string]any
	if err := json.Unmarshal([]byte(line), &parsed); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	if _, present := parsed["interaction_hash"]; present {
		t.Error("expected interaction_hash to be absent when no interaction is given")
	}
	if parsed["schema_version"] != e2eJSONLSchemaVersion {
		t.Errorf("unexpected schema_version %v", parsed["schema_version"])
	}
	if parsed["type"] != "frame" {
		t.Errorf("unexpected type %v", parsed["type"])
	}
}

func TestResizeStormFrameJSONLWithInteractionIncludesOverlayFields(t *testing.T) {
	g := geom()
	cells := []cell.Cell{cell.Empty}
	interaction := InteractionSnapshot{HoveredLinkID: 3, CursorOffset: 1, SelectionActive: true}
	line := ResizeStormFrameJSONLWithInteraction("run-2", 7, "T000002", 4, g, cells, &interaction)
	var parsed map[string]any
	if err := json.Unmarshal([]byte(line), &parsed); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	hash, ok := parsed["interaction_hash"].(string)
	if !ok || !strings.HasPrefix(hash, "fnv1a64:") {
		t.Errorf("expected interaction_hash present with fnv1a64: prefix, got %v", parsed["interaction_hash"])
	}
	if parsed["frame_hash"] == parsed["interaction_hash"] {
		t.Error("expected frame_hash and interaction_hash to differ")
	}
}

func TestScrollbackVirtualizationFrameJSONLRangesAndOverscan(t *testing.T) {
	window := grid.Window{TotalLines: 100000, ViewportStart: 10000, ViewportEnd: 10040, RenderStart: 9992, RenderEnd: 10048}
	line := ScrollbackVirtualizationFrameJSONL("run-vscroll", "2026-02-09T04:30:00Z", 17, window, 2314*time.Microsecond)
	var parsed map[string]any
	if err := json.Unmarshal([]byte(line), &parsed); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	if parsed["viewport_lines"] != float64(40) || parsed["render_lines"] != float64(56) {
		t.Errorf("unexpected viewport/render lines: %v/%v", parsed["viewport_lines"], parsed["render_lines"])
	}
	if parsed["overscan_before"] != float64(8) || parsed["overscan_after"] != float64(8) {
		t.Errorf("unexpected overscan: %v/%v", parsed["overscan_before"], parsed["overscan_after"])
	}
	if parsed["render_cost_us"] != float64(2314) {
		t.Errorf("unexpected render_cost_us: %v", parsed["render_cost_us"])
	}
}

func TestLinkClickJSONLOmitsNilFields(t *testing.T) {
	click := LinkClickSnapshot{X: 1, Y: 0, LinkID: 77, OpenAllowed: false}
	line := LinkClickJSONL("run-a", 0, "T000010", 0, click)
	var parsed map[string]any
	if err := json.Unmarshal([]byte(line), &parsed); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	if _, present := parsed["button"]; present {
		t.Error("expected button to be omitted when nil")
	}
	if _, present := parsed["url"]; present {
		t.Error("expected url to be omitted when nil")
	}
}
