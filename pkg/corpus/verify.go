package corpus

import (
	"bytes"
	"fmt"

	"rc5-go/pkg/rc5"
)

// Mismatch describes a record the current implementation disagrees with.
type Mismatch struct {
	Index  int    `json:"index"`
	Record Record `json:"record"`
	Reason string `json:"reason"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("record %d (%s key %X): %s", m.Index, m.Record.Variant, []byte(m.Record.Key), m.Reason)
}

// Verify re-encrypts and re-decrypts every record and reports disagreements.
func Verify(recs []Record) []Mismatch {
	var out []Mismatch
	for i, rec := range recs {
		if reason := verifyOne(rec); reason != "" {
			out = append(out, Mismatch{Index: i, Record: rec, Reason: reason})
		}
	}
	return out
}

func verifyOne(rec Record) string {
	v, err := rc5.Lookup(rec.Variant)
	if err != nil {
		return err.Error()
	}
	c, err := v.New(rec.Key)
	if err != nil {
		return err.Error()
	}
	ct, err := c.Encrypt(rec.Plaintext)
	if err != nil {
		return err.Error()
	}
	if !bytes.Equal(ct, rec.Ciphertext) {
		return fmt.Sprintf("encrypt: expected %X, got %X", []byte(rec.Ciphertext), ct)
	}
	pt, err := c.Decrypt(rec.Ciphertext)
	if err != nil {
		return err.Error()
	}
	if !bytes.Equal(pt, rec.Plaintext) {
		return fmt.Sprintf("decrypt: expected %X, got %X", []byte(rec.Plaintext), pt)
	}
	return ""
}
