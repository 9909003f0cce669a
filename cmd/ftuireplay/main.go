// Command ftuireplay is a CLI consumer of this repo's public API: it
// replays, verifies, and summarizes deterministic JSONL frame traces
// captured from a session.Session run, proof the engine is usable as a
// library from outside the module.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "ftuireplay",
		Short: "Replay, verify, and summarize ftui frame traces",
	}

	root.AddCommand(playCmd(), verifyCmd(), inspectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
