package alloc

import (
	"fmt"
	"io"
	"os"

	"github.com/heapkit/heapkit/internal/word"
)

// Debug flag - set to true to enable verbose logging (compile-time toggle).
const debugAlloc = false

// Runtime flag for allocation logging - controlled by HEAPKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAPKIT_LOG_ALLOC") != ""

// debugLogf prints debug messages if either toggle is enabled.
func debugLogf(format string, args ...any) {
	if debugAlloc || logAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] "+format+"\n", args...)
	}
}

// DumpBlocks writes a table of every block in address order, plus the free
// list in list order, for debugging.
func (a *ExplicitAllocator) DumpBlocks(w io.Writer) {
	data := a.arena.Bytes()

	fmt.Fprintf(w, "heap: %d bytes, free-list head: %d\n", len(data), a.head)
	for bp := a.firstBlock(); ; bp = word.NextOff(data, bp) {
		hdr := word.Header(data, bp)
		size := word.Size(hdr)
		state := "free"
		if word.Allocated(hdr) {
			state = "allocated"
		}
		if size == 0 {
			fmt.Fprintf(w, "  %8d  epilogue (%s)\n", bp, state)
			break
		}
		fmt.Fprintf(w, "  %8d  size=%-8d %s\n", bp, size, state)
	}

	n := 0
	for bp := a.head; bp != 0; bp = a.freeNext(data, bp) {
		fmt.Fprintf(w, "  free[%d]: off=%d size=%d\n", n, bp, word.Size(word.Header(data, bp)))
		n++
	}
}
