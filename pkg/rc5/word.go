package rc5

import (
	"encoding/binary"
	"math/bits"
)

// Word is the set of unsigned integer types RC5 can be instantiated over.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// wordBits returns w, the width of W in bits.
func wordBits[W Word]() uint {
	return uint(bits.Len64(uint64(^W(0))))
}

// rotl rotates x left by y mod w bits. A zero amount returns x as is, so the
// complementary shift is never by w.
func rotl[W Word](x, y W, w uint) W {
	n := uint(y) & (w - 1)
	if n == 0 {
		return x
	}
	return x<<n | x>>(w-n)
}

// rotr rotates x right by y mod w bits.
func rotr[W Word](x, y W, w uint) W {
	n := uint(y) & (w - 1)
	if n == 0 {
		return x
	}
	return x>>n | x<<(w-n)
}

// getWord decodes a little-endian word from the first u bytes of b.
func getWord[W Word](b []byte, u int) W {
	switch u {
	case 1:
		return W(b[0])
	case 2:
		return W(binary.LittleEndian.Uint16(b))
	case 4:
		return W(binary.LittleEndian.Uint32(b))
	default:
		return W(binary.LittleEndian.Uint64(b))
	}
}

// putWord encodes x little-endian into the first u bytes of b.
func putWord[W Word](b []byte, x W, u int) {
	switch u {
	case 1:
		b[0] = byte(x)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(x))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(x))
	default:
		binary.LittleEndian.PutUint64(b, uint64(x))
	}
}
