package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/alloc"
	"github.com/heapkit/heapkit/internal/membrk"
)

var (
	// Global flags
	useBump   bool
	extended  bool
	showStats bool
	dumpHeap  bool
	reserve   int
	chunkSize int
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Exercise and inspect the heapkit allocators",
	Long: `heapctl drives the heapkit allocators through recorded or synthetic
workloads, validates the heap invariants afterwards, and reports allocator
statistics. It exists for debugging and benchmarking the allocators, not as
a production tool.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().
		BoolVar(&useBump, "bump", false, "Use the no-reclaim bump allocator instead of the explicit-list allocator")
	rootCmd.PersistentFlags().
		BoolVar(&extended, "extended", true, "Cross-check free-list membership in the final consistency check")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", true, "Print allocator statistics")
	rootCmd.PersistentFlags().BoolVar(&dumpHeap, "dump", false, "Dump the block layout after the run")
	rootCmd.PersistentFlags().
		IntVar(&reserve, "reserve", membrk.DefaultReserve, "Heap reservation in bytes")
	rootCmd.PersistentFlags().
		IntVar(&chunkSize, "chunk", alloc.DefaultConfig.ChunkSize, "Heap extension step in bytes")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newAllocator builds the allocator selected by the global flags on a fresh
// arena.
func newAllocator() (*heap.Arena, alloc.Allocator, error) {
	arena, err := heap.NewArena(&heap.Options{Reserve: reserve})
	if err != nil {
		return nil, nil, err
	}
	if useBump {
		a, err := alloc.NewBump(arena)
		if err != nil {
			arena.Close()
			return nil, nil, err
		}
		return arena, a, nil
	}
	a, err := alloc.New(arena, &alloc.Config{ChunkSize: chunkSize})
	if err != nil {
		arena.Close()
		return nil, nil, err
	}
	return arena, a, nil
}

// finishRun applies the post-workload flags: consistency check, block dump,
// and statistics.
func finishRun(w io.Writer, arena *heap.Arena, a alloc.Allocator) error {
	if err := a.Check(extended); err != nil {
		return fmt.Errorf("consistency check failed: %w", err)
	}
	if dumpHeap {
		if ea, ok := a.(*alloc.ExplicitAllocator); ok {
			ea.DumpBlocks(w)
		}
	}
	if showStats {
		printStats(w, arena, a.Stats())
	}
	return nil
}

func printStats(w io.Writer, arena *heap.Arena, s alloc.Stats) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "heap size:          %d bytes (reserve %d)\n", arena.Size(), arena.Reserve())
	p.Fprintf(w, "alloc calls:        %d\n", s.AllocCalls)
	p.Fprintf(w, "free calls:         %d\n", s.FreeCalls)
	p.Fprintf(w, "realloc calls:      %d\n", s.ReallocCalls)
	p.Fprintf(w, "heap extensions:    %d (%d bytes)\n", s.GrowCalls, s.GrowBytes)
	p.Fprintf(w, "bytes allocated:    %d\n", s.BytesAllocated)
	p.Fprintf(w, "bytes freed:        %d\n", s.BytesFreed)
	p.Fprintf(w, "splits:             %d\n", s.SplitCount)
	p.Fprintf(w, "coalesces:          %d forward, %d backward, %d both\n",
		s.CoalesceForward, s.CoalesceBackward, s.CoalesceBoth)
	p.Fprintf(w, "realloc in place:   %d shrunk, %d absorbed, %d moved\n",
		s.ReallocShrunk, s.ReallocAbsorbed, s.ReallocMoved)
}
