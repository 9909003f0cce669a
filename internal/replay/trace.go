// Package replay defines the JSONL trace schema cmd/ftuireplay consumes:
// one record per rendered frame, carrying enough of a frame.Buffer snapshot
// (geometry, cells, precomputed hash) plus the frame-timing fields diag
// already aggregates, so a captured session can be replayed, verified
// against golden hashes, or summarized entirely from the file on disk.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goterm/ftui/cell"
	"github.com/goterm/ftui/diag"
)

// Frame is one recorded frame: geometry + cell payload for replay/
// verification, plus the timing/patch fields diag.FrameRecord tracks for
// summary statistics. ElapsedUs/DirtyCells/PatchCount/BytesUploaded are
// zero when a trace was captured only for hash verification, not timing.
type Frame struct {
	RunID     string             `json:"run_id"`
	FrameIdx  int                `json:"frame_idx"`
	Timestamp string             `json:"timestamp,omitempty"`
	Geometry  diag.GeometrySnapshot `json:"geometry"`
	Cells     []cell.Cell        `json:"cells"`
	FrameHash string             `json:"frame_hash,omitempty"`

	ElapsedUs     uint64 `json:"elapsed_us,omitempty"`
	DirtyCells    uint32 `json:"dirty_cells,omitempty"`
	PatchCount    uint32 `json:"patch_count,omitempty"`
	BytesUploaded uint64 `json:"bytes_uploaded,omitempty"`
}

// Hash returns the frame's recorded hash, or recomputes it from Cells if
// the trace predates hash recording.
func (f Frame) Hash() string {
	if f.FrameHash != "" {
		return f.FrameHash
	}
	return diag.FrameHash(f.Cells, f.Geometry)
}

// ReadFile parses a JSONL trace, one Frame per line, in file order.
func ReadFile(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a JSONL trace from r, one Frame per line. Blank lines are
// skipped so trailing newlines don't produce a spurious empty record.
func Read(r io.Reader) ([]Frame, error) {
	var frames []Frame
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var fr Frame
		if err := json.Unmarshal(raw, &fr); err != nil {
			return nil, fmt.Errorf("trace line %d: %w", line, err)
		}
		frames = append(frames, fr)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return frames, nil
}

// Write appends one Frame as a JSONL record.
func Write(w io.Writer, f Frame) error {
	line, err := json.Marshal(f)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = w.Write(line)
	return err
}

// ToGoldenActuals adapts frames to diag.VerifyGoldenFrameHashes' input
// shape, dropping the timing/patch fields it doesn't use.
func ToGoldenActuals(frames []Frame) []diag.FrameGoldenActual {
	out := make([]diag.FrameGoldenActual, len(frames))
	for i, f := range frames {
		out[i] = diag.FrameGoldenActual{Geometry: f.Geometry, Cells: f.Cells}
	}
	return out
}

func microseconds(us uint64) time.Duration { return time.Duration(us) * time.Microsecond }

// ToFrameRecords adapts frames to diag.FrameTimeCollector's input shape for
// a timing/patch summary.
func ToFrameRecords(frames []Frame) []diag.FrameRecord {
	out := make([]diag.FrameRecord, len(frames))
	for i, f := range frames {
		out[i] = diag.FrameRecord{
			Elapsed:       microseconds(f.ElapsedUs),
			DirtyCells:    f.DirtyCells,
			PatchCount:    f.PatchCount,
			BytesUploaded: f.BytesUploaded,
		}
	}
	return out
}
