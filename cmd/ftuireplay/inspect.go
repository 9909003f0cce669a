package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goterm/ftui/diag"
	"github.com/goterm/ftui/internal/replay"
)

func inspectCmd() *cobra.Command {
	var (
		frameIdx int
		summary  bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print a region summary for one frame, or a timing/patch summary for the whole trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frames, err := replay.ReadFile(args[0])
			if err != nil {
				return err
			}
			if summary {
				return runInspectSummary(cmd, frames)
			}
			return runInspectFrame(cmd, frames, frameIdx)
		},
	}

	cmd.Flags().IntVar(&frameIdx, "frame", 0, "Frame index to summarize")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print a trace-wide timing/patch percentile summary instead of one frame")
	return cmd
}

func runInspectFrame(cmd *cobra.Command, frames []replay.Frame, idx int) error {
	if idx < 0 || idx >= len(frames) {
		return fmt.Errorf("frame %d out of range: trace has %d frames", idx, len(frames))
	}
	f := frames[idx]
	region := diag.SummarizeFrameRegion(f.Cells, f.Geometry)
	out := struct {
		FrameIdx int                     `json:"frame_idx"`
		Hash     string                  `json:"hash"`
		Region   diag.FrameRegionSummary `json:"region"`
	}{FrameIdx: f.FrameIdx, Hash: f.Hash(), Region: region}

	return printJSON(cmd, out)
}

func runInspectSummary(cmd *cobra.Command, frames []replay.Frame) error {
	runID := "inspect"
	if len(frames) > 0 {
		runID = frames[0].RunID
	}
	var cols, rows uint16
	if len(frames) > 0 {
		cols, rows = frames[0].Geometry.Cols, frames[0].Geometry.Rows
	}
	collector := diag.NewFrameTimeCollector(runID, cols, rows)
	for _, r := range replay.ToFrameRecords(frames) {
		collector.RecordFrame(r)
	}
	return printJSON(cmd, collector.Report())
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
