package alloc

import (
	"github.com/weberc2/blockfs/pkg/math"
)

const bitsPerByte = 8

// Bitmap hands out the values `[0, size)` lowest-first.
type Bitmap struct {
	bytes []byte
	size  uint64
}

func New(size uint64) Bitmap {
	bm := Bitmap{
		bytes: make([]byte, math.DivRoundUp(size, bitsPerByte)),
		size:  size,
	}

	// the trailing bits of the last byte don't correspond to any value, so
	// mark them as taken to keep `Alloc()` from ever returning them
	for value := size; value < uint64(len(bm.bytes))*bitsPerByte; value++ {
		bm.reserve(value)
	}
	return bm
}

func (bm Bitmap) Alloc() (uint64, bool) {
	i, bit, ok := bytesFirstZero(bm.bytes)
	if !ok {
		return 0, false
	}
	bm.bytes[i] = byteSetHigh(bm.bytes[i], bit)
	return uint64(i*bitsPerByte) + uint64(bit), true
}

func (bm Bitmap) Free(value uint64) {
	b := &bm.bytes[value/bitsPerByte]
	*b = byteSetLow(*b, uint8(value%bitsPerByte))
}

func (bm Bitmap) reserve(value uint64) {
	b := &bm.bytes[value/bitsPerByte]
	*b = byteSetHigh(*b, uint8(value%bitsPerByte))
}

// Test reports whether `value` is currently allocated. Values outside of the
// bitmap are never allocated.
func (bm Bitmap) Test(value uint64) bool {
	if value >= bm.size {
		return false
	}
	return !byteIsZero(bm.bytes[value/bitsPerByte], uint8(value%bitsPerByte))
}

func bytesFirstZero(bytes []byte) (int, uint8, bool) {
	for i, byt := range bytes {
		if bit := byteFirstZero(byt); bit != 0xff {
			return i, bit, true
		}
	}
	return 0, 0, false
}

func byteIsZero(byt byte, bit uint8) bool {
	return byt&(0b1000_0000>>bit) == 0
}

func byteSetHigh(byt byte, bit uint8) byte {
	return byt | (0b1000_0000 >> bit)
}

func byteSetLow(byt byte, bit uint8) byte {
	return byt & ^(0b1000_0000 >> bit)
}

func byteFirstZero(byt byte) uint8 {
	for bit := uint8(0); bit < 8; bit++ {
		if byteIsZero(byt, bit) {
			return bit
		}
	}
	return 0xFF
}
