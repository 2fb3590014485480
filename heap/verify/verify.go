package verify

import (
	"fmt"

	"github.com/heapkit/heapkit/internal/word"
)

// prologueOff is the payload offset of the prologue block: one padding word
// followed by the prologue header.
const prologueOff = 2 * word.WordSize

// ValidationError describes a structural violation found in a heap image.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Block is one decoded block in the heap walk. The epilogue appears as the
// final entry with Size 0.
type Block struct {
	Offset    int // payload offset
	Size      int // total block size including header and footer
	Allocated bool
}

// HeapImage validates the whole heap image: prologue, every block's boundary
// tags, and the epilogue. Returns the first violation found.
func HeapImage(data []byte) error {
	if err := Prologue(data); err != nil {
		return err
	}
	_, err := Blocks(data)
	return err
}

// Prologue validates the heap prefix: the image is large enough to hold the
// padding word, prologue, and epilogue, and the prologue is a fixed-size
// allocated block with matching tags.
func Prologue(data []byte) error {
	if len(data) < 4*word.WordSize {
		return &ValidationError{
			Type:    "Prologue",
			Message: fmt.Sprintf("heap too small: %d bytes (need %d)", len(data), 4*word.WordSize),
			Offset:  -1,
		}
	}
	hdr := word.Header(data, prologueOff)
	if word.Size(hdr) != word.DoubleWord || !word.Allocated(hdr) {
		return &ValidationError{
			Type:    "Prologue",
			Message: fmt.Sprintf("bad prologue header: size=%d allocated=%v", word.Size(hdr), word.Allocated(hdr)),
			Offset:  word.HeaderOff(prologueOff),
		}
	}
	ftr := word.ReadU32(data, prologueOff)
	if ftr != hdr {
		return &ValidationError{
			Type:    "Prologue",
			Message: fmt.Sprintf("prologue header %#x != footer %#x", hdr, ftr),
			Offset:  prologueOff,
		}
	}
	return nil
}

// Blocks decodes every block in address order, validating each one, and
// returns them prologue first, epilogue last. The walk stops with an error
// on the first violation, so a corrupt size cannot send it out of bounds.
func Blocks(data []byte) ([]Block, error) {
	if err := Prologue(data); err != nil {
		return nil, err
	}

	var out []Block
	out = append(out, Block{Offset: prologueOff, Size: word.DoubleWord, Allocated: true})

	bp := prologueOff + word.DoubleWord
	for {
		if bp%word.Alignment != 0 {
			return nil, &ValidationError{
				Type:    "Block",
				Message: fmt.Sprintf("payload offset %d not 8-byte aligned", bp),
				Offset:  bp,
			}
		}
		if word.HeaderOff(bp)+word.WordSize > len(data) {
			return nil, &ValidationError{
				Type:    "Block",
				Message: "walked past heap end without reaching the epilogue",
				Offset:  bp,
			}
		}

		hdr := word.Header(data, bp)
		size := word.Size(hdr)

		if size == 0 {
			if !word.Allocated(hdr) {
				return nil, &ValidationError{
					Type:    "Epilogue",
					Message: "epilogue not marked allocated",
					Offset:  word.HeaderOff(bp),
				}
			}
			if word.HeaderOff(bp) != len(data)-word.WordSize {
				return nil, &ValidationError{
					Type:    "Epilogue",
					Message: fmt.Sprintf("epilogue at %d, heap ends at %d", word.HeaderOff(bp), len(data)),
					Offset:  word.HeaderOff(bp),
				}
			}
			out = append(out, Block{Offset: bp, Size: 0, Allocated: true})
			return out, nil
		}

		if size%word.Alignment != 0 || size < word.MinBlockSize {
			return nil, &ValidationError{
				Type:    "Block",
				Message: fmt.Sprintf("illegal block size %d", size),
				Offset:  word.HeaderOff(bp),
			}
		}
		if bp+size > len(data) {
			return nil, &ValidationError{
				Type:    "Block",
				Message: fmt.Sprintf("block size %d extends beyond heap end %d", size, len(data)),
				Offset:  word.HeaderOff(bp),
			}
		}
		ftr := word.ReadU32(data, bp+size-word.DoubleWord)
		if ftr != hdr {
			return nil, &ValidationError{
				Type:    "Block",
				Message: fmt.Sprintf("header %#x != footer %#x", hdr, ftr),
				Offset:  word.HeaderOff(bp),
			}
		}

		out = append(out, Block{Offset: bp, Size: size, Allocated: word.Allocated(hdr)})
		bp += size
	}
}
