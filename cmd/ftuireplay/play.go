package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goterm/ftui/cell"
	"github.com/goterm/ftui/internal/replay"
)

func playCmd() *cobra.Command {
	var (
		render bool
		speed  float64
	)

	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Replay a captured JSONL frame trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frames, err := replay.ReadFile(args[0])
			if err != nil {
				return err
			}
			return runPlay(cmd.OutOrStdout(), frames, render, speed)
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Print each frame's glyph grid, not just its summary line")
	cmd.Flags().Float64Var(&speed, "speed", 1, "Playback speed multiplier (pacing derived from elapsed_us); 0 disables pacing")

	return cmd
}

func runPlay(out io.Writer, frames []replay.Frame, render bool, speed float64) error {
	for i, f := range frames {
		if i > 0 && speed > 0 && f.ElapsedUs > 0 {
			time.Sleep(time.Duration(float64(f.ElapsedUs)/speed) * time.Microsecond)
		}
		fmt.Fprintf(out, "frame %d  hash=%s  dirty=%d  patches=%d\n", f.FrameIdx, f.Hash(), f.DirtyCells, f.PatchCount)
		if render {
			fmt.Fprint(out, renderGrid(f))
		}
	}
	return nil
}

// renderGrid flattens a frame's cells to plain glyph text, row by row,
// dropping color/attrs: play is for inspecting replayed content, not for
// reproducing the original terminal's exact styling.
func renderGrid(f replay.Frame) string {
	cols := int(f.Geometry.Cols)
	if cols == 0 || len(f.Cells) == 0 {
		return ""
	}
	var b strings.Builder
	for i, c := range f.Cells {
		if i > 0 && i%cols == 0 {
			b.WriteByte('\n')
		}
		writeGlyph(&b, c)
	}
	b.WriteByte('\n')
	return b.String()
}

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
