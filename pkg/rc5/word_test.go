package rc5

import (
	"bytes"
	"testing"
)

func TestWordBits(t *testing.T) {
	if got := wordBits[uint8](); got != 8 {
		t.Errorf("uint8: expected 8 bits, got %d", got)
	}
	if got := wordBits[uint16](); got != 16 {
		t.Errorf("uint16: expected 16 bits, got %d", got)
	}
	if got := wordBits[uint32](); got != 32 {
		t.Errorf("uint32: expected 32 bits, got %d", got)
	}
	if got := wordBits[uint64](); got != 64 {
		t.Errorf("uint64: expected 64 bits, got %d", got)
	}
}

func TestRotateAmountIsReducedModW(t *testing.T) {
	// Amounts 0 and w must be the identity; w+1 must equal a rotation by 1.
	if got := rotl[uint8](0x81, 0, 8); got != 0x81 {
		t.Errorf("rotl8 by 0: got %#x", got)
	}
	if got := rotl[uint8](0x81, 8, 8); got != 0x81 {
		t.Errorf("rotl8 by 8: got %#x", got)
	}
	if got := rotl[uint8](0x81, 9, 8); got != 0x03 {
		t.Errorf("rotl8 by 9: got %#x", got)
	}
	if got := rotr[uint16](0x0001, 1, 16); got != 0x8000 {
		t.Errorf("rotr16 by 1: got %#x", got)
	}
	if got := rotr[uint16](0x1234, 16, 16); got != 0x1234 {
		t.Errorf("rotr16 by 16: got %#x", got)
	}
	if got := rotl[uint32](0x80000001, 33, 32); got != 0x00000003 {
		t.Errorf("rotl32 by 33: got %#x", got)
	}
	if got := rotl[uint32](1, 0xFFFFFFFF, 32); got != 0x80000000 {
		t.Errorf("rotl32 by 2^32-1: got %#x", got)
	}
	if got := rotl[uint64](1, 64, 64); got != 1 {
		t.Errorf("rotl64 by 64: got %#x", got)
	}
	if got := rotl[uint64](1, 63, 64); got != 1<<63 {
		t.Errorf("rotl64 by 63: got %#x", got)
	}
	if got := rotr[uint64](1<<63, 127, 64); got != 1 {
		t.Errorf("rotr64 by 127: got %#x", got)
	}
}

func TestRotateInverse(t *testing.T) {
	for y := uint32(0); y < 100; y++ {
		x := uint32(0xDEADBEEF) ^ y*0x01010101
		if got := rotr(rotl(x, y, 32), y, 32); got != x {
			t.Fatalf("rotr(rotl(%#x, %d)) = %#x", x, y, got)
		}
	}
	for y := uint8(0); y < 255; y++ {
		x := y ^ 0x5A
		if got := rotl(rotr(x, y, 8), y, 8); got != x {
			t.Fatalf("rotl(rotr(%#x, %d)) = %#x", x, y, got)
		}
	}
}

func TestWordLittleEndian(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	if got := getWord[uint8](b, 1); got != 0x01 {
		t.Errorf("uint8: got %#x", got)
	}
	if got := getWord[uint16](b, 2); got != 0x0201 {
		t.Errorf("uint16: got %#x", got)
	}
	if got := getWord[uint32](b, 4); got != 0x04030201 {
		t.Errorf("uint32: got %#x", got)
	}
	if got := getWord[uint64](b, 8); got != 0x0807060504030201 {
		t.Errorf("uint64: got %#x", got)
	}

	out := make([]byte, 8)
	putWord(out, uint64(0x0807060504030201), 8)
	if !bytes.Equal(out, b) {
		t.Errorf("putWord uint64: got % x", out)
	}
	out = make([]byte, 4)
	putWord(out[2:], uint16(0xBBAA), 2)
	if !bytes.Equal(out, []byte{0, 0, 0xAA, 0xBB}) {
		t.Errorf("putWord uint16: got % x", out)
	}
}
