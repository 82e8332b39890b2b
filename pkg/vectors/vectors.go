// Package vectors holds published RC5 known-answer vectors and a runner that
// checks them against the rc5 package.
package vectors

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"rc5-go/pkg/rc5"
)

// Vector is one known-answer test. Byte fields are hex strings in block order.
type Vector struct {
	Variant    string `json:"variant"`
	Key        string `json:"key"`
	Plaintext  string `json:"plaintext"`
	Ciphertext string `json:"ciphertext"`
	Source     string `json:"source"`
}

const (
	sourceRivest  = "Rivest, The RC5 Encryption Algorithm (1994)"
	sourceKrovetz = "Krovetz, Test Vectors for RC6 and RC5 (draft)"
)

var builtin = []Vector{
	{"RC5-32/12/16", "00000000000000000000000000000000", "0000000000000000", "21A5DBEE154B8F6D", sourceRivest},
	{"RC5-32/12/16", "915F4619BE41B2516355A50110A9CE91", "21A5DBEE154B8F6D", "F7C013AC5B2B8952", sourceRivest},
	{"RC5-32/12/16", "783348E75AEB0F2FD7B169BB8DC16787", "F7C013AC5B2B8952", "2F42B3B70369FC92", sourceRivest},
	{"RC5-32/12/16", "DC49DB1375A5584F6485B413B5F12BAF", "2F42B3B70369FC92", "65C178B284D197CC", sourceRivest},
	{"RC5-32/12/16", "5269F149D41BA0152497574D7F153125", "65C178B284D197CC", "EB44E415DA319824", sourceRivest},
	{"RC5-8/12/4", "00010203", "0001", "212A", sourceKrovetz},
	{"RC5-16/16/8", "0001020304050607", "00010203", "23A8D72E", sourceKrovetz},
	{"RC5-32/20/16", "000102030405060708090A0B0C0D0E0F", "0001020304050607", "2A0EDC0E9431FF73", sourceKrovetz},
	{"RC5-64/24/24", "000102030405060708090A0B0C0D0E0F1011121314151617",
		"000102030405060708090A0B0C0D0E0F", "A46772820EDBCE0235ABEA32AE7178DA", sourceKrovetz},
}

// All returns a copy of the built-in vectors.
func All() []Vector {
	out := make([]Vector, len(builtin))
	copy(out, builtin)
	return out
}

// ForVariant returns the built-in vectors for one variant name.
func ForVariant(name string) ([]Vector, error) {
	v, err := rc5.Lookup(name)
	if err != nil {
		return nil, err
	}
	var out []Vector
	for _, vec := range builtin {
		if vec.Variant == v.Name {
			out = append(out, vec)
		}
	}
	return out, nil
}

// Result is the outcome of checking one vector.
type Result struct {
	Vector
	Passed bool   `json:"passed"`
	Got    string `json:"got,omitempty"`
	Err    string `json:"error,omitempty"`
}

// Run checks every vector in both directions and returns one Result each.
func Run(vs []Vector) []Result {
	results := make([]Result, len(vs))
	for i, v := range vs {
		results[i] = check(v)
	}
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}

func check(v Vector) Result {
	res := Result{Vector: v}
	fail := func(err error) Result {
		res.Err = err.Error()
		return res
	}

	variant, err := rc5.Lookup(v.Variant)
	if err != nil {
		return fail(err)
	}
	key, err := hex.DecodeString(v.Key)
	if err != nil {
		return fail(fmt.Errorf("key: %w", err))
	}
	pt, err := hex.DecodeString(v.Plaintext)
	if err != nil {
		return fail(fmt.Errorf("plaintext: %w", err))
	}
	want, err := hex.DecodeString(v.Ciphertext)
	if err != nil {
		return fail(fmt.Errorf("ciphertext: %w", err))
	}

	c, err := variant.New(key)
	if err != nil {
		return fail(err)
	}
	ct, err := c.Encrypt(pt)
	if err != nil {
		return fail(err)
	}
	res.Got = fmt.Sprintf("%X", ct)
	if !bytes.Equal(ct, want) {
		return fail(fmt.Errorf("encrypt: expected %s, got %s", v.Ciphertext, res.Got))
	}
	back, err := c.Decrypt(ct)
	if err != nil {
		return fail(err)
	}
	if !bytes.Equal(back, pt) {
		return fail(fmt.Errorf("decrypt: expected %s, got %X", v.Plaintext, back))
	}

	res.Passed = true
	return res
}
