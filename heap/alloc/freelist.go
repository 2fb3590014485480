package alloc

import "github.com/heapkit/heapkit/internal/word"

// The free list is intrusive: a free block's first two payload words hold
// the offsets of its list neighbors (prev at payload+0, next at payload+4).
// Offset 0 is the nil link. Insertion is LIFO at the head; both operations
// are O(1) pointer surgery and never touch a block's header or footer.

func (a *ExplicitAllocator) freePrev(data []byte, bp int) int {
	return int(word.ReadU32(data, word.PrevLinkOff(bp)))
}

func (a *ExplicitAllocator) freeNext(data []byte, bp int) int {
	return int(word.ReadU32(data, word.NextLinkOff(bp)))
}

func setFreePrev(data []byte, bp, target int) {
	word.PutU32(data, word.PrevLinkOff(bp), uint32(target))
}

func setFreeNext(data []byte, bp, target int) {
	word.PutU32(data, word.NextLinkOff(bp), uint32(target))
}

// addBlock pushes bp onto the head of the free list. The block's header and
// footer must already show it free.
func (a *ExplicitAllocator) addBlock(bp int) {
	data := a.arena.Bytes()
	setFreeNext(data, bp, a.head)
	setFreePrev(data, bp, 0)
	if a.head != 0 {
		setFreePrev(data, a.head, bp)
	}
	a.head = bp
}

// removeBlock unlinks bp from the free list. bp must currently be a member.
// The block's header and footer are left untouched; the caller flips the
// allocation state separately.
func (a *ExplicitAllocator) removeBlock(bp int) {
	data := a.arena.Bytes()
	prev := a.freePrev(data, bp)
	next := a.freeNext(data, bp)
	if prev != 0 {
		setFreeNext(data, prev, next)
	} else {
		a.head = next
	}
	if next != 0 {
		setFreePrev(data, next, prev)
	}
}
