package diag

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/goterm/ftui/cell"
	"github.com/goterm/ftui/grid"
)

const e2eJSONLSchemaVersion = "e2e-jsonl-v1"

// NewRunID mints a fresh run identifier for a benchmark or trace session.
// Trace consumers that need a stable, reproducible id instead (e.g. replay
// of a captured session) should pass their own run id through explicitly.
func NewRunID() string { return uuid.NewString() }

// FrameRecord is one frame's timing and patch measurements, fed to a
// FrameTimeCollector.
type FrameRecord struct {
	Elapsed    time.Duration
	CPUSubmit  *time.Duration
	GPUTime    *time.Duration
	DirtyCells uint32
	PatchCount uint32
	BytesUploaded uint64
}

// FrameTimeCollector accumulates FrameRecords for a benchmark run and
// produces summary histograms or a JSONL trace.
type FrameTimeCollector struct {
	runID   string
	cols    uint16
	rows    uint16
	records []FrameRecord
}

// NewFrameTimeCollector starts a collector for runID (cols x rows is fixed
// for the run's geometry context).
func NewFrameTimeCollector(runID string, cols, rows uint16) *FrameTimeCollector {
	return &FrameTimeCollector{runID: runID, cols: cols, rows: rows}
}

func (c *FrameTimeCollector) RecordFrame(r FrameRecord) { c.records = append(c.records, r) }

func (c *FrameTimeCollector) FrameCount() int { return len(c.records) }

// FrameTimeHistogram is a percentile summary of a set of microsecond
// duration samples.
type FrameTimeHistogram struct {
	Count  uint64
	MinUs  uint64
	MaxUs  uint64
	P50Us  uint64
	P95Us  uint64
	P99Us  uint64
	MeanUs uint64
}

// PatchStats aggregates dirty-cell/patch/byte counts across a run.
type PatchStats struct {
	TotalDirtyCells     uint64
	TotalPatches        uint64
	TotalBytesUploaded  uint64
	AvgDirtyPerFrame    float64
	AvgPatchesPerFrame  float64
	AvgBytesPerFrame    float64
}

// SessionReport is the complete summary of a collector's recorded frames.
type SessionReport struct {
	RunID         string
	Cols          uint16
	Rows          uint16
	FrameTime     FrameTimeHistogram
	CPUSubmitTime *FrameTimeHistogram
	GPUTime       *FrameTimeHistogram
	PatchStats    PatchStats
}

// ToJSON serializes the report for CI artifact gating.
func (r SessionReport) ToJSON() string {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Report produces a SessionReport from every frame recorded so far.
func (c *FrameTimeCollector) Report() SessionReport {
	timesUs := make([]uint64, len(c.records))
	var cpuUs, gpuUs []uint64
	var totalDirty, totalPatches, totalBytes uint64
	for i, r := range c.records {
		timesUs[i] = uint64(r.Elapsed.Microseconds())
		if r.CPUSubmit != nil {
			cpuUs = append(cpuUs, uint64(r.CPUSubmit.Microseconds()))
		}
		if r.GPUTime != nil {
			gpuUs = append(gpuUs, uint64(r.GPUTime.Microseconds()))
		}
		totalDirty += uint64(r.DirtyCells)
		totalPatches += uint64(r.PatchCount)
		totalBytes += r.BytesUploaded
	}
	sort.Slice(timesUs, func(i, j int) bool { return timesUs[i] < timesUs[j] })
	sort.Slice(cpuUs, func(i, j int) bool { return cpuUs[i] < cpuUs[j] })
	sort.Slice(gpuUs, func(i, j int) bool { return gpuUs[i] < gpuUs[j] })

	n := len(c.records)
	var avgDirty, avgPatches, avgBytes float64
	if n > 0 {
		avgDirty = float64(totalDirty) / float64(n)
		avgPatches = float64(totalPatches) / float64(n)
		avgBytes = float64(totalBytes) / float64(n)
	}

	return SessionReport{
		RunID:         c.runID,
		Cols:          c.cols,
		Rows:          c.rows,
		FrameTime:     histogramOrDefault(timesUs),
		CPUSubmitTime: optionalHistogram(cpuUs),
		GPUTime:       optionalHistogram(gpuUs),
		PatchStats: PatchStats{
			TotalDirtyCells:    totalDirty,
			TotalPatches:       totalPatches,
			TotalBytesUploaded: totalBytes,
			AvgDirtyPerFrame:   avgDirty,
			AvgPatchesPerFrame: avgPatches,
			AvgBytesPerFrame:   avgBytes,
		},
	}
}

func percentile(sorted []uint64, p float64) uint64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func histogramOrDefault(samples []uint64) FrameTimeHistogram {
	if len(samples) == 0 {
		return FrameTimeHistogram{}
	}
	var sum uint64
	for _, s := range samples {
		sum += s
	}
	return FrameTimeHistogram{
		Count:  uint64(len(samples)),
		MinUs:  samples[0],
		MaxUs:  samples[len(samples)-1],
		P50Us:  percentile(samples, 0.50),
		P95Us:  percentile(samples, 0.95),
		P99Us:  percentile(samples, 0.99),
		MeanUs: sum / uint64(len(samples)),
	}
}

func optionalHistogram(samples []uint64) *FrameTimeHistogram {
	if len(samples) == 0 {
		return nil
	}
	h := histogramOrDefault(samples)
	return &h
}

type jsonlFrameRecord struct {
	RunID         string `json:"run_id"`
	Cols          uint16 `json:"cols"`
	Rows          uint16 `json:"rows"`
	FrameIdx      int    `json:"frame_idx"`
	ElapsedUs     uint64 `json:"elapsed_us"`
	CPUSubmitUs   *uint64 `json:"cpu_submit_us,omitempty"`
	GPUTimeUs     *uint64 `json:"gpu_time_us,omitempty"`
	DirtyCells    uint32 `json:"dirty_cells"`
	PatchCount    uint32 `json:"patch_count"`
	BytesUploaded uint64 `json:"bytes_uploaded"`
}

// ToJSONL emits one JSON object per recorded frame, newline-delimited.
func (c *FrameTimeCollector) ToJSONL() string {
	var out []byte
	for i, r := range c.records {
		row := jsonlFrameRecord{
			RunID:         c.runID,
			Cols:          c.cols,
			Rows:          c.rows,
			FrameIdx:      i,
			ElapsedUs:     uint64(r.Elapsed.Microseconds()),
			DirtyCells:    r.DirtyCells,
			PatchCount:    r.PatchCount,
			BytesUploaded: r.BytesUploaded,
		}
		if r.CPUSubmit != nil {
			us := uint64(r.CPUSubmit.Microseconds())
			row.CPUSubmitUs = &us
		}
		if r.GPUTime != nil {
			us := uint64(r.GPUTime.Microseconds())
			row.GPUTimeUs = &us
		}
		line, err := json.Marshal(row)
		if err != nil {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return string(out)
}

type resizeStormFrameRecord struct {
	SchemaVersion string           `json:"schema_version"`
	Type          string           `json:"type"`
	Timestamp     string           `json:"timestamp"`
	RunID         string           `json:"run_id"`
	Seed          uint64           `json:"seed"`
	FrameIdx      uint64           `json:"frame_idx"`
	HashAlgo      string           `json:"hash_algo"`
	FrameHash     string           `json:"frame_hash"`
	InteractionHash *string        `json:"interaction_hash,omitempty"`
	Cols          uint16           `json:"cols"`
	Rows          uint16           `json:"rows"`
	Geometry      GeometrySnapshot `json:"geometry"`
	HoveredLinkID *uint32          `json:"hovered_link_id,omitempty"`
	CursorOffset  *uint32          `json:"cursor_offset,omitempty"`
	CursorStyle   *uint32          `json:"cursor_style,omitempty"`
	SelectionActive *bool          `json:"selection_active,omitempty"`
	SelectionStart  *uint32        `json:"selection_start,omitempty"`
	SelectionEnd    *uint32        `json:"selection_end,omitempty"`
	TextShapingEnabled *bool       `json:"text_shaping_enabled,omitempty"`
	TextShapingEngine  *uint32     `json:"text_shaping_engine,omitempty"`
	ScreenReaderEnabled *bool      `json:"screen_reader_enabled,omitempty"`
	HighContrastEnabled *bool      `json:"high_contrast_enabled,omitempty"`
	ReducedMotionEnabled *bool     `json:"reduced_motion_enabled,omitempty"`
	Focused              *bool     `json:"focused,omitempty"`
}

// ResizeStormFrameJSONL builds one `frame` JSONL record with no interaction
// overlay fields.
func ResizeStormFrameJSONL(runID string, seed uint64, timestamp string, frameIdx uint64, geometry GeometrySnapshot, cells []cell.Cell) string {
	return ResizeStormFrameJSONLWithInteraction(runID, seed, timestamp, frameIdx, geometry, cells, nil)
}

// ResizeStormFrameJSONLWithInteraction builds one `frame` JSONL record and,
// when interaction is non-nil, additionally emits interaction_hash and the
// overlay/accessibility fields it covers.
func ResizeStormFrameJSONLWithInteraction(runID string, seed uint64, timestamp string, frameIdx uint64, geometry GeometrySnapshot, cells []cell.Cell, interaction *InteractionSnapshot) string {
	row := resizeStormFrameRecord{
		SchemaVersion: e2eJSONLSchemaVersion,
		Type:          "frame",
		Timestamp:     timestamp,
		RunID:         runID,
		Seed:          seed,
		FrameIdx:      frameIdx,
		HashAlgo:      frameHashAlgo,
		FrameHash:     FrameHash(cells, geometry),
		Cols:          geometry.Cols,
		Rows:          geometry.Rows,
		Geometry:      geometry,
	}
	if interaction != nil {
		h := FrameHashWithInteraction(cells, geometry, *interaction)
		row.InteractionHash = &h
		row.HoveredLinkID = &interaction.HoveredLinkID
		row.CursorOffset = &interaction.CursorOffset
		row.CursorStyle = &interaction.CursorStyle
		row.SelectionActive = &interaction.SelectionActive
		row.SelectionStart = &interaction.SelectionStart
		row.SelectionEnd = &interaction.SelectionEnd
		row.TextShapingEnabled = &interaction.TextShapingEnabled
		engine := interaction.effectiveTextShapingEngine()
		row.TextShapingEngine = &engine
		row.ScreenReaderEnabled = &interaction.ScreenReaderEnabled
		row.HighContrastEnabled = &interaction.HighContrastEnabled
		row.ReducedMotionEnabled = &interaction.ReducedMotionEnabled
		row.Focused = &interaction.Focused
	}
	line, err := json.Marshal(row)
	if err != nil {
		return "{}"
	}
	return string(line)
}

type scrollbackVirtualizationFrameRecord struct {
	SchemaVersion   string `json:"schema_version"`
	Type            string `json:"type"`
	Timestamp       string `json:"timestamp"`
	RunID           string `json:"run_id"`
	FrameIdx        uint64 `json:"frame_idx"`
	ScrollbackLines int    `json:"scrollback_lines"`
	ViewportStart   int    `json:"viewport_start"`
	ViewportEnd     int    `json:"viewport_end"`
	RenderStart     int    `json:"render_start"`
	RenderEnd       int    `json:"render_end"`
	ViewportLines   int    `json:"viewport_lines"`
	RenderLines     int    `json:"render_lines"`
	OverscanBefore  int    `json:"overscan_before"`
	OverscanAfter   int    `json:"overscan_after"`
	RenderCostUs    uint64 `json:"render_cost_us"`
}

// ScrollbackVirtualizationFrameJSONL builds one `scrollback_frame` JSONL
// record describing a virtualized scrollback render's viewport/render
// ranges and overscan extents.
func ScrollbackVirtualizationFrameJSONL(runID, timestamp string, frameIdx uint64, window grid.Window, renderCost time.Duration) string {
	overscanBefore := window.ViewportStart - window.RenderStart
	if overscanBefore < 0 {
		overscanBefore = 0
	}
	overscanAfter := window.RenderEnd - window.ViewportEnd
	if overscanAfter < 0 {
		overscanAfter = 0
	}
	row := scrollbackVirtualizationFrameRecord{
		SchemaVersion:   e2eJSONLSchemaVersion,
		Type:            "scrollback_frame",
		Timestamp:       timestamp,
		RunID:           runID,
		FrameIdx:        frameIdx,
		ScrollbackLines: window.TotalLines,
		ViewportStart:   window.ViewportStart,
		ViewportEnd:     window.ViewportEnd,
		RenderStart:     window.RenderStart,
		RenderEnd:       window.RenderEnd,
		ViewportLines:   window.ViewportEnd - window.ViewportStart,
		RenderLines:     window.RenderEnd - window.RenderStart,
		OverscanBefore:  overscanBefore,
		OverscanAfter:   overscanAfter,
		RenderCostUs:    uint64(renderCost.Microseconds()),
	}
	line, err := json.Marshal(row)
	if err != nil {
		return "{}"
	}
	return string(line)
}

// LinkClickSnapshot is a deterministic record of a hyperlink click decision,
// for E2E JSONL traces of the host's open-policy handling.
type LinkClickSnapshot struct {
	X, Y        uint16
	Button      *uint8
	LinkID      uint32
	URL         *string
	OpenAllowed bool
	OpenReason  *string
}

type linkClickRecord struct {
	SchemaVersion string  `json:"schema_version"`
	Type          string  `json:"type"`
	Timestamp     string  `json:"timestamp"`
	RunID         string  `json:"run_id"`
	Seed          uint64  `json:"seed"`
	EventIdx      uint64  `json:"event_idx"`
	X             uint16  `json:"x"`
	Y             uint16  `json:"y"`
	Button        *uint8  `json:"button,omitempty"`
	LinkID        uint32  `json:"link_id"`
	URL           *string `json:"url,omitempty"`
	OpenAllowed   bool    `json:"open_allowed"`
	OpenReason    *string `json:"open_reason,omitempty"`
}

// LinkClickJSONL builds one `link_click` JSONL record.
func LinkClickJSONL(runID string, seed uint64, timestamp string, eventIdx uint64, click LinkClickSnapshot) string {
	row := linkClickRecord{
		SchemaVersion: e2eJSONLSchemaVersion,
		Type:          "link_click",
		Timestamp:     timestamp,
		RunID:         runID,
		Seed:          seed,
		EventIdx:      eventIdx,
		X:             click.X,
		Y:             click.Y,
		Button:        click.Button,
		LinkID:        click.LinkID,
		URL:           click.URL,
		OpenAllowed:   click.OpenAllowed,
		OpenReason:    click.OpenReason,
	}
	line, err := json.Marshal(row)
	if err != nil {
		return "{}"
	}
	return string(line)
}
