package rc5

import "fmt"

// Cipher is an RC5 instance with an expanded key schedule. It is immutable
// after New returns and safe for concurrent use.
type Cipher[W Word] struct {
	params Params[W]
	w      uint // word size in bits
	u      int  // word size in bytes
	s      []W
}

// New validates p, expands key and returns a ready cipher. It fails with
// ErrInvalidParams for an out-of-range parameter set and with
// ErrInvalidKeyLength when len(key) != p.KeyLen.
func New[W Word](p Params[W], key []byte) (*Cipher[W], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return newCipher(p, key)
}

func newCipher[W Word](p Params[W], key []byte) (*Cipher[W], error) {
	if len(key) != p.KeyLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(key), p.KeyLen)
	}
	w := wordBits[W]()
	return &Cipher[W]{
		params: p,
		w:      w,
		u:      int(w / 8),
		s:      expandKey(p, key),
	}, nil
}

func (c *Cipher[W]) Name() string      { return c.params.Name() }
func (c *Cipher[W]) BlockSize() int    { return 2 * c.u }
func (c *Cipher[W]) KeySize() int      { return c.params.KeyLen }
func (c *Cipher[W]) Rounds() int       { return c.params.Rounds }
func (c *Cipher[W]) WordSize() int     { return int(c.w) }
func (c *Cipher[W]) Params() Params[W] { return c.params }

// Schedule returns a copy of the expanded key table S.
func (c *Cipher[W]) Schedule() []W {
	s := make([]W, len(c.s))
	copy(s, c.s)
	return s
}

// Encrypt enciphers exactly one block and returns a new 2u-byte slice.
func (c *Cipher[W]) Encrypt(block []byte) ([]byte, error) {
	if err := c.checkBlock(block); err != nil {
		return nil, err
	}
	u, s := c.u, c.s

	a := getWord[W](block, u) + s[0]
	b := getWord[W](block[u:], u) + s[1]
	for i := 1; i <= c.params.Rounds; i++ {
		a = rotl(a^b, b, c.w) + s[2*i]
		b = rotl(b^a, a, c.w) + s[2*i+1]
	}

	return c.pack(a, b), nil
}

// Decrypt deciphers exactly one block and returns a new 2u-byte slice.
func (c *Cipher[W]) Decrypt(block []byte) ([]byte, error) {
	if err := c.checkBlock(block); err != nil {
		return nil, err
	}
	u, s := c.u, c.s

	a := getWord[W](block, u)
	b := getWord[W](block[u:], u)
	for i := c.params.Rounds; i >= 1; i-- {
		b = rotr(b-s[2*i+1], a, c.w) ^ a
		a = rotr(a-s[2*i], b, c.w) ^ b
	}
	b -= s[1]
	a -= s[0]

	return c.pack(a, b), nil
}

func (c *Cipher[W]) checkBlock(block []byte) error {
	if len(block) != 2*c.u {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidBlockLength, len(block), 2*c.u)
	}
	return nil
}

func (c *Cipher[W]) pack(a, b W) []byte {
	out := make([]byte, 2*c.u)
	putWord(out, a, c.u)
	putWord(out[c.u:], b, c.u)
	return out
}
