package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goterm/ftui/diag"
	"github.com/goterm/ftui/internal/replay"
)

func verifyCmd() *cobra.Command {
	var goldenPath string

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify a trace's frames against a golden hash list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if goldenPath == "" {
				return fmt.Errorf("--golden is required")
			}
			frames, err := replay.ReadFile(args[0])
			if err != nil {
				return err
			}
			hashes, err := readGoldenHashes(goldenPath)
			if err != nil {
				return err
			}

			runID := "verify"
			if len(frames) > 0 {
				runID = frames[0].RunID
			}
			if err := diag.VerifyGoldenFrameHashes(runID, hashes, replay.ToGoldenActuals(frames)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d frames match golden hashes\n", len(frames))
			return nil
		},
	}

	cmd.Flags().StringVar(&goldenPath, "golden", "", "Path to a file with one expected frame hash per line")
	return cmd
}

func readGoldenHashes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open golden hashes %s: %w", path, err)
	}
	defer f.Close()

	var hashes []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		hashes = append(hashes, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading golden hashes: %w", err)
	}
	return hashes, nil
}
