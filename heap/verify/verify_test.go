package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heapkit/heapkit/internal/word"
)

// testImage builds the smallest interesting heap image by hand:
//
//	[pad][prologue 8][block 24, allocated][epilogue]
//
// 40 bytes total, block payload at offset 16.
func testImage() []byte {
	img := make([]byte, 40)
	word.PutU32(img, 0, 0)
	word.PutU32(img, 4, word.Pack(8, true))   // prologue header
	word.PutU32(img, 8, word.Pack(8, true))   // prologue footer
	word.PutU32(img, 12, word.Pack(24, true)) // block header
	word.PutU32(img, 32, word.Pack(24, true)) // block footer
	word.PutU32(img, 36, word.Pack(0, true))  // epilogue
	return img
}

func TestHeapImageValid(t *testing.T) {
	require.NoError(t, HeapImage(testImage()))
}

func TestBlocksDecodesInAddressOrder(t *testing.T) {
	blocks, err := Blocks(testImage())
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.Equal(t, Block{Offset: 8, Size: 8, Allocated: true}, blocks[0])
	assert.Equal(t, Block{Offset: 16, Size: 24, Allocated: true}, blocks[1])
	assert.Equal(t, Block{Offset: 40, Size: 0, Allocated: true}, blocks[2])
}

func TestPrologueRejectsTinyImage(t *testing.T) {
	err := Prologue(make([]byte, 12))
	require.Error(t, err)
	verr := err.(*ValidationError)
	assert.Equal(t, "Prologue", verr.Type)
	assert.Equal(t, -1, verr.Offset)
}

func TestPrologueRejectsBadHeader(t *testing.T) {
	img := testImage()
	word.PutU32(img, 4, word.Pack(8, false)) // prologue must be allocated
	err := Prologue(img)
	require.Error(t, err)
	assert.Equal(t, "Prologue", err.(*ValidationError).Type)

	img = testImage()
	word.PutU32(img, 4, word.Pack(16, true)) // wrong size
	assert.Error(t, Prologue(img))
}

func TestPrologueRejectsTagMismatch(t *testing.T) {
	img := testImage()
	word.PutU32(img, 8, word.Pack(8, false))
	assert.Error(t, Prologue(img))
}

func TestBlocksRejectsTagMismatch(t *testing.T) {
	img := testImage()
	word.PutU32(img, 32, word.Pack(24, false))

	_, err := Blocks(img)
	require.Error(t, err)
	verr := err.(*ValidationError)
	assert.Equal(t, "Block", verr.Type)
	assert.Equal(t, 12, verr.Offset)
}

func TestBlocksRejectsIllegalSize(t *testing.T) {
	for _, size := range []int{4, 8, 20} { // below minimum or misaligned
		img := testImage()
		word.PutU32(img, 12, word.Pack(size, true))
		_, err := Blocks(img)
		assert.Error(t, err, "size %d", size)
	}
}

func TestBlocksRejectsOverrunningBlock(t *testing.T) {
	img := testImage()
	word.PutU32(img, 12, word.Pack(1024, true))
	_, err := Blocks(img)
	require.Error(t, err)
	assert.Equal(t, "Block", err.(*ValidationError).Type)
}

func TestBlocksRejectsMissingEpilogue(t *testing.T) {
	// Truncate right after the block footer; the walk runs out of heap.
	img := testImage()[:36]
	_, err := Blocks(img)
	require.Error(t, err)
	assert.Equal(t, "Block", err.(*ValidationError).Type)
}

func TestBlocksRejectsBadEpilogue(t *testing.T) {
	img := testImage()
	word.PutU32(img, 36, word.Pack(0, false))
	_, err := Blocks(img)
	require.Error(t, err)
	assert.Equal(t, "Epilogue", err.(*ValidationError).Type)
}

// TestBlocksRejectsMisplacedEpilogue plants a size-0 word before the real
// heap end.
func TestBlocksRejectsMisplacedEpilogue(t *testing.T) {
	img := testImage()
	word.PutU32(img, 12, word.Pack(0, true))
	_, err := Blocks(img)
	require.Error(t, err)
	assert.Equal(t, "Epilogue", err.(*ValidationError).Type)
}

func TestValidationErrorString(t *testing.T) {
	e := &ValidationError{Type: "Block", Message: "boom", Offset: 12}
	assert.Equal(t, "Block at offset 12: boom", e.Error())

	e = &ValidationError{Type: "Prologue", Message: "boom", Offset: -1}
	assert.Equal(t, "Prologue: boom", e.Error())
}
