package rc5

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestRivestVectors(t *testing.T) {
	// RC5-32/12/16 vectors from Rivest's reference implementation; each
	// ciphertext is the next plaintext.
	tests := []struct {
		key, pt, ct string
	}{
		{"00000000000000000000000000000000", "0000000000000000", "21A5DBEE154B8F6D"},
		{"915F4619BE41B2516355A50110A9CE91", "21A5DBEE154B8F6D", "F7C013AC5B2B8952"},
		{"783348E75AEB0F2FD7B169BB8DC16787", "F7C013AC5B2B8952", "2F42B3B70369FC92"},
		{"DC49DB1375A5584F6485B413B5F12BAF", "2F42B3B70369FC92", "65C178B284D197CC"},
		{"5269F149D41BA0152497574D7F153125", "65C178B284D197CC", "EB44E415DA319824"},
	}

	for _, tt := range tests {
		c, err := New32_12_16(mustHex(t, tt.key))
		if err != nil {
			t.Fatalf("New32_12_16(%s) failed: %v", tt.key, err)
		}
		ct, err := c.Encrypt(mustHex(t, tt.pt))
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		if want := mustHex(t, tt.ct); !bytes.Equal(ct, want) {
			t.Errorf("key %s: expected ciphertext %X, got %X", tt.key, want, ct)
		}
		pt, err := c.Decrypt(ct)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if want := mustHex(t, tt.pt); !bytes.Equal(pt, want) {
			t.Errorf("key %s: expected plaintext %X, got %X", tt.key, want, pt)
		}
	}
}

func TestPresetVectors(t *testing.T) {
	tests := []struct {
		name        string
		key, pt, ct string
	}{
		{"RC5-8/12/4", "00010203", "0001", "212A"},
		{"RC5-16/16/8", "0001020304050607", "00010203", "23A8D72E"},
		{"RC5-32/20/16", "000102030405060708090A0B0C0D0E0F", "0001020304050607", "2A0EDC0E9431FF73"},
		{"RC5-64/24/24", "000102030405060708090A0B0C0D0E0F1011121314151617",
			"000102030405060708090A0B0C0D0E0F", "A46772820EDBCE0235ABEA32AE7178DA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}
			c, err := v.New(mustHex(t, tt.key))
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			ct, err := c.Encrypt(mustHex(t, tt.pt))
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}
			if want := mustHex(t, tt.ct); !bytes.Equal(ct, want) {
				t.Errorf("expected ciphertext %X, got %X", want, ct)
			}
			pt, err := c.Decrypt(ct)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if !bytes.Equal(pt, mustHex(t, tt.pt)) {
				t.Errorf("round trip mismatch: got %X", pt)
			}
		})
	}
}

func TestRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const iterations = 10000

	for _, v := range Variants() {
		key := make([]byte, v.KeySize)
		block := make([]byte, v.BlockSize)
		for i := 0; i < iterations; i++ {
			fill(rng, key)
			fill(rng, block)

			c, err := v.New(key)
			if err != nil {
				t.Fatalf("%s: New failed: %v", v.Name, err)
			}
			ct, err := c.Encrypt(block)
			if err != nil {
				t.Fatalf("%s: Encrypt failed: %v", v.Name, err)
			}
			if len(ct) != v.BlockSize {
				t.Fatalf("%s: ciphertext length %d, want %d", v.Name, len(ct), v.BlockSize)
			}
			pt, err := c.Decrypt(ct)
			if err != nil {
				t.Fatalf("%s: Decrypt failed: %v", v.Name, err)
			}
			if !bytes.Equal(pt, block) {
				t.Fatalf("%s: key %X block %X decrypted to %X", v.Name, key, block, pt)
			}
		}
	}
}

func fill(rng *rand.Rand, b []byte) {
	for i := range b {
		b[i] = byte(rng.Uint32())
	}
}

func TestInvalidKeyLength(t *testing.T) {
	for _, v := range Variants() {
		for _, n := range []int{0, v.KeySize - 1, v.KeySize + 1, 256} {
			_, err := v.New(make([]byte, n))
			if !errors.Is(err, ErrInvalidKeyLength) {
				t.Errorf("%s: key of %d bytes: expected ErrInvalidKeyLength, got %v", v.Name, n, err)
			}
		}
	}
}

func TestInvalidBlockLength(t *testing.T) {
	for _, v := range Variants() {
		c, err := v.New(make([]byte, v.KeySize))
		if err != nil {
			t.Fatalf("%s: New failed: %v", v.Name, err)
		}
		for _, n := range []int{0, v.BlockSize - 1, v.BlockSize + 1, 2 * v.BlockSize} {
			if _, err := c.Encrypt(make([]byte, n)); !errors.Is(err, ErrInvalidBlockLength) {
				t.Errorf("%s: Encrypt(%d bytes): expected ErrInvalidBlockLength, got %v", v.Name, n, err)
			}
			if _, err := c.Decrypt(make([]byte, n)); !errors.Is(err, ErrInvalidBlockLength) {
				t.Errorf("%s: Decrypt(%d bytes): expected ErrInvalidBlockLength, got %v", v.Name, n, err)
			}
		}
		if _, err := c.Encrypt(nil); !errors.Is(err, ErrInvalidBlockLength) {
			t.Errorf("%s: Encrypt(nil): expected ErrInvalidBlockLength, got %v", v.Name, err)
		}
	}
}

func TestScheduleSize(t *testing.T) {
	c8, _ := New8_12_4(make([]byte, 4))
	c16, _ := New16_16_8(make([]byte, 8))
	c32a, _ := New32_12_16(make([]byte, 16))
	c32b, _ := New32_20_16(make([]byte, 16))
	c64, _ := New64_24_24(make([]byte, 24))

	sizes := []struct {
		name      string
		got, want int
	}{
		{"RC5-8/12/4", len(c8.Schedule()), 26},
		{"RC5-16/16/8", len(c16.Schedule()), 34},
		{"RC5-32/12/16", len(c32a.Schedule()), 26},
		{"RC5-32/20/16", len(c32b.Schedule()), 42},
		{"RC5-64/24/24", len(c64.Schedule()), 50},
	}
	for _, s := range sizes {
		if s.got != s.want {
			t.Errorf("%s: schedule has %d words, want %d", s.name, s.got, s.want)
		}
	}
}

func TestScheduleIsACopy(t *testing.T) {
	c, err := New32_12_16(make([]byte, 16))
	if err != nil {
		t.Fatalf("New32_12_16 failed: %v", err)
	}
	before, _ := c.Encrypt(make([]byte, 8))

	s := c.Schedule()
	for i := range s {
		s[i] = 0
	}

	after, _ := c.Encrypt(make([]byte, 8))
	if !bytes.Equal(before, after) {
		t.Fatalf("mutating Schedule() changed the cipher: %X -> %X", before, after)
	}
}

func TestEncryptDoesNotModifyInput(t *testing.T) {
	c, _ := New16_16_8([]byte("8bytekey"))
	in := []byte{1, 2, 3, 4}
	if _, err := c.Encrypt(in); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if !bytes.Equal(in, []byte{1, 2, 3, 4}) {
		t.Errorf("input block modified: % x", in)
	}
}

func TestConcurrentSharedInstance(t *testing.T) {
	key := mustHex(t, "915F4619BE41B2516355A50110A9CE91")
	c, err := New32_12_16(key)
	if err != nil {
		t.Fatalf("New32_12_16 failed: %v", err)
	}
	pt := mustHex(t, "21A5DBEE154B8F6D")
	want := mustHex(t, "F7C013AC5B2B8952")

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				ct, err := c.Encrypt(pt)
				if err != nil {
					errs <- err
					return
				}
				if !bytes.Equal(ct, want) {
					errs <- errors.New("nondeterministic ciphertext")
					return
				}
				back, err := c.Decrypt(ct)
				if err != nil || !bytes.Equal(back, pt) {
					errs <- errors.New("concurrent round trip failed")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestCustomParams(t *testing.T) {
	// b = 0: L is a single zero word.
	c, err := New(Params[uint32]{Rounds: 12, KeyLen: 0, P: P32, Q: Q32}, nil)
	if err != nil {
		t.Fatalf("New with empty key failed: %v", err)
	}
	ct, _ := c.Encrypt(make([]byte, 8))
	if want := mustHex(t, "EBFD9C100543C625"); !bytes.Equal(ct, want) {
		t.Errorf("b=0: expected %X, got %X", want, ct)
	}
	if got := len(c.Schedule()); got != 26 {
		t.Errorf("b=0: schedule has %d words, want 26", got)
	}

	// b = 1 with u = 8: c = 1, where b-1 = 0 words would not fit the key.
	c64, err := New(Params[uint64]{Rounds: 4, KeyLen: 1, P: P64, Q: Q64}, []byte{0x01})
	if err != nil {
		t.Fatalf("New with 1-byte key failed: %v", err)
	}
	ct, _ = c64.Encrypt(make([]byte, 16))
	if want := mustHex(t, "16BB54D73AE384388C96111F6E13770C"); !bytes.Equal(ct, want) {
		t.Errorf("w=64 b=1: expected %X, got %X", want, ct)
	}
	if c64.Name() != "RC5-64/4/1" {
		t.Errorf("unexpected name %q", c64.Name())
	}

	// r = 0 still round-trips.
	c0, err := New(Params[uint16]{Rounds: 0, KeyLen: 3, P: P16, Q: Q16}, []byte{9, 8, 7})
	if err != nil {
		t.Fatalf("New with r=0 failed: %v", err)
	}
	ct, _ = c0.Encrypt([]byte{1, 2, 3, 4})
	pt, _ := c0.Decrypt(ct)
	if !bytes.Equal(pt, []byte{1, 2, 3, 4}) {
		t.Errorf("r=0 round trip: got % x", pt)
	}
}

func TestInvalidParams(t *testing.T) {
	bad := []Params[uint32]{
		{Rounds: -1, KeyLen: 16, P: P32, Q: Q32},
		{Rounds: 256, KeyLen: 16, P: P32, Q: Q32},
		{Rounds: 12, KeyLen: 256, P: P32, Q: Q32},
		{Rounds: 12, KeyLen: 16, P: P32 - 1, Q: Q32},
		{Rounds: 12, KeyLen: 16, P: P32, Q: 0},
	}
	for _, p := range bad {
		if _, err := New(p, make([]byte, max(p.KeyLen, 0))); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%+v: expected ErrInvalidParams, got %v", p, err)
		}
	}
}
