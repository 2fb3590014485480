package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/heapkit/heapkit/heap/alloc"
)

var (
	randomOps     int
	randomSeed    int64
	randomMaxSize int
)

func init() {
	cmd := newRandomCmd()
	cmd.Flags().IntVar(&randomOps, "ops", 10000, "Number of operations to run")
	cmd.Flags().Int64Var(&randomSeed, "seed", 1, "Seed for the workload generator")
	cmd.Flags().IntVar(&randomMaxSize, "max-size", 4096, "Maximum request size in bytes")
	rootCmd.AddCommand(cmd)
}

func newRandomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Run a seeded random allocation workload",
		Long: `The random command drives the selected allocator through a seeded mix
of allocations, frees, and reallocations, then runs the consistency checker
and prints statistics. The same seed always produces the same workload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			arena, a, err := newAllocator()
			if err != nil {
				return err
			}
			defer arena.Close()

			rng := rand.New(rand.NewSource(randomSeed))
			live := make([]alloc.Ref, 0, randomOps)

			for i := 0; i < randomOps; i++ {
				switch op := rng.Intn(4); {
				case op < 2 || len(live) == 0: // allocate
					ref, _, err := a.Alloc(1 + rng.Intn(randomMaxSize))
					if err != nil {
						return fmt.Errorf("op %d: %w", i, err)
					}
					live = append(live, ref)
				case op == 2: // free
					j := rng.Intn(len(live))
					if err := a.Free(live[j]); err != nil {
						return fmt.Errorf("op %d: %w", i, err)
					}
					live[j] = live[len(live)-1]
					live = live[:len(live)-1]
				default: // realloc
					j := rng.Intn(len(live))
					ref, _, err := a.Realloc(live[j], 1+rng.Intn(randomMaxSize))
					if err != nil {
						return fmt.Errorf("op %d: %w", i, err)
					}
					live[j] = ref
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ran %d operations, %d blocks live\n", randomOps, len(live))
			return finishRun(cmd.OutOrStdout(), arena, a)
		},
	}
}
