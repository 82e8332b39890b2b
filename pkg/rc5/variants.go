package rc5

import (
	"fmt"
	"strings"
)

// BlockCipher is the runtime view of a preset, used by tooling that selects a
// variant by name.
type BlockCipher interface {
	Name() string
	BlockSize() int
	KeySize() int
	Encrypt(block []byte) ([]byte, error)
	Decrypt(block []byte) ([]byte, error)
}

// Variant describes one preset and how to construct it.
type Variant struct {
	Name      string
	WordSize  int
	Rounds    int
	KeySize   int
	BlockSize int
	New       func(key []byte) (BlockCipher, error)
}

func describe[W Word](p Params[W], newFn func(key []byte) (BlockCipher, error)) Variant {
	return Variant{
		Name:      p.Name(),
		WordSize:  p.WordSize(),
		Rounds:    p.Rounds,
		KeySize:   p.KeyLen,
		BlockSize: p.BlockSize(),
		New:       newFn,
	}
}

var registry = []Variant{
	describe(params8_12_4, func(key []byte) (BlockCipher, error) {
		c, err := New8_12_4(key)
		if err != nil {
			return nil, err
		}
		return c, nil
	}),
	describe(params16_16_8, func(key []byte) (BlockCipher, error) {
		c, err := New16_16_8(key)
		if err != nil {
			return nil, err
		}
		return c, nil
	}),
	describe(params32_12_16, func(key []byte) (BlockCipher, error) {
		c, err := New32_12_16(key)
		if err != nil {
			return nil, err
		}
		return c, nil
	}),
	describe(params32_20_16, func(key []byte) (BlockCipher, error) {
		c, err := New32_20_16(key)
		if err != nil {
			return nil, err
		}
		return c, nil
	}),
	describe(params64_24_24, func(key []byte) (BlockCipher, error) {
		c, err := New64_24_24(key)
		if err != nil {
			return nil, err
		}
		return c, nil
	}),
}

// Variants returns every supported preset, smallest word size first.
func Variants() []Variant {
	out := make([]Variant, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a preset by name. "RC5-32/12/16", "rc5-32-12-16", "32/12/16"
// and "32_12_16" all name the same variant.
func Lookup(name string) (Variant, error) {
	want := canonicalName(name)
	for _, v := range registry {
		if v.Name == want {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

func canonicalName(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	for _, prefix := range []string{"RC5-", "RC5_", "RC5"} {
		if strings.HasPrefix(s, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.NewReplacer("-", "/", "_", "/").Replace(s)
	return "RC5-" + s
}
