// Package trace parses and replays allocation trace files.
//
// A trace is a line-oriented text format driving an allocator through a
// recorded workload:
//
//	a <id> <size>   allocate <size> bytes and bind the block to <id>
//	f <id>          free the block bound to <id>
//	r <id> <size>   reallocate the block bound to <id> to <size> bytes
//
// Blank lines, lines starting with '#', and bare-number header lines are
// ignored, so driver-style trace files replay unchanged.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/heapkit/heapkit/heap/alloc"
)

// Kind identifies a trace operation.
type Kind byte

const (
	KindAlloc   Kind = 'a'
	KindFree    Kind = 'f'
	KindRealloc Kind = 'r'
)

// Op is one parsed trace operation.
type Op struct {
	Kind  Kind
	Index int // block id the operation binds or refers to
	Size  int // requested size; unused for KindFree
}

// Parse reads a trace from r. It fails on the first malformed operation
// line, reporting its line number.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		// Driver traces carry a numeric preamble (heap size, id count,
		// op count, weight); skip anything that is not an operation.
		if len(fields) == 1 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				continue
			}
		}

		if len(fields[0]) != 1 {
			return nil, fmt.Errorf("trace: line %d: unknown operation %q", lineno, fields[0])
		}
		kind := Kind(fields[0][0])
		switch kind {
		case KindAlloc, KindRealloc:
			if len(fields) != 3 {
				return nil, fmt.Errorf("trace: line %d: %q takes an id and a size", lineno, kind)
			}
			idx, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("trace: line %d: bad id %q", lineno, fields[1])
			}
			size, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("trace: line %d: bad size %q", lineno, fields[2])
			}
			ops = append(ops, Op{Kind: kind, Index: idx, Size: size})
		case KindFree:
			if len(fields) != 2 {
				return nil, fmt.Errorf("trace: line %d: %q takes an id", lineno, kind)
			}
			idx, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("trace: line %d: bad id %q", lineno, fields[1])
			}
			ops = append(ops, Op{Kind: kind, Index: idx})
		default:
			return nil, fmt.Errorf("trace: line %d: unknown operation %q", lineno, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	return ops, nil
}

// Run replays ops against a, tracking the id-to-block bindings. It stops at
// the first failing operation.
func Run(a alloc.Allocator, ops []Op) error {
	refs := make(map[int]alloc.Ref)
	for i, op := range ops {
		switch op.Kind {
		case KindAlloc:
			ref, _, err := a.Alloc(op.Size)
			if err != nil {
				return fmt.Errorf("trace: op %d: alloc %d: %w", i, op.Size, err)
			}
			refs[op.Index] = ref
		case KindFree:
			ref, ok := refs[op.Index]
			if !ok {
				return fmt.Errorf("trace: op %d: free of unbound id %d", i, op.Index)
			}
			delete(refs, op.Index)
			// Zero-size alloc and realloc bind the id to NilRef; freeing
			// that is a no-op, like free(NULL).
			if ref == alloc.NilRef {
				continue
			}
			if err := a.Free(ref); err != nil {
				return fmt.Errorf("trace: op %d: free id %d: %w", i, op.Index, err)
			}
		case KindRealloc:
			ref, ok := refs[op.Index]
			if !ok {
				return fmt.Errorf("trace: op %d: realloc of unbound id %d", i, op.Index)
			}
			newRef, _, err := a.Realloc(ref, op.Size)
			if err != nil {
				return fmt.Errorf("trace: op %d: realloc id %d to %d: %w", i, op.Index, op.Size, err)
			}
			refs[op.Index] = newRef
		}
	}
	return nil
}
