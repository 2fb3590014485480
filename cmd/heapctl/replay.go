package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/heapkit/heapkit/internal/trace"
)

func init() {
	rootCmd.AddCommand(newReplayCmd())
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <trace-file>",
		Short: "Replay a recorded allocation trace",
		Long: `The replay command parses an allocation trace (lines of the form
"a <id> <size>", "f <id>", "r <id> <size>") and drives the selected allocator
through it, then runs the consistency checker and prints statistics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ops, err := trace.Parse(f)
			if err != nil {
				return err
			}

			arena, a, err := newAllocator()
			if err != nil {
				return err
			}
			defer arena.Close()

			if err := trace.Run(a, ops); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "replayed %d operations from %s\n", len(ops), args[0])
			return finishRun(cmd.OutOrStdout(), arena, a)
		},
	}
}
