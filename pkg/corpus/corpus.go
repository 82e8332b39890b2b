// Package corpus stores RC5 regression records: (variant, key, plaintext,
// ciphertext) tuples written as JSON lines and optionally compressed. A corpus
// generated by one build can be verified against another.
package corpus

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"rc5-go/pkg/rc5"
	"rc5-go/pkg/transform"
)

var ErrMalformedRecord = errors.New("corpus: malformed record")

// HexBytes marshals as an upper-case hex string.
type HexBytes []byte

func (h HexBytes) MarshalText() ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(h)))
	hex.Encode(out, h)
	return bytes.ToUpper(out), nil
}

func (h *HexBytes) UnmarshalText(text []byte) error {
	b := make([]byte, hex.DecodedLen(len(text)))
	if _, err := hex.Decode(b, text); err != nil {
		return err
	}
	*h = b
	return nil
}

type Record struct {
	Variant    string   `json:"variant"`
	Key        HexBytes `json:"key"`
	Plaintext  HexBytes `json:"plaintext"`
	Ciphertext HexBytes `json:"ciphertext"`
}

// Generate draws n random keys and blocks from rnd and records the ciphertext
// v produces for each.
func Generate(v rc5.Variant, n int, rnd io.Reader) ([]Record, error) {
	recs := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		key := make([]byte, v.KeySize)
		pt := make([]byte, v.BlockSize)
		if _, err := io.ReadFull(rnd, key); err != nil {
			return nil, fmt.Errorf("corpus: read key: %w", err)
		}
		if _, err := io.ReadFull(rnd, pt); err != nil {
			return nil, fmt.Errorf("corpus: read plaintext: %w", err)
		}
		c, err := v.New(key)
		if err != nil {
			return nil, err
		}
		ct, err := c.Encrypt(pt)
		if err != nil {
			return nil, err
		}
		recs = append(recs, Record{Variant: v.Name, Key: key, Plaintext: pt, Ciphertext: ct})
	}
	return recs, nil
}

// Encode writes recs as JSON lines through p.
func Encode(w io.Writer, recs []Record, p *transform.Pipeline) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range recs {
		if err := enc.Encode(&recs[i]); err != nil {
			return fmt.Errorf("corpus: encode record %d: %w", i, err)
		}
	}
	out, err := p.Apply(buf.Bytes())
	if err != nil {
		return fmt.Errorf("corpus: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("corpus: write: %w", err)
	}
	return nil
}

// Decode reads everything from r, reverses p and parses one record per
// non-empty line.
func Decode(r io.Reader, p *transform.Pipeline) ([]Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("corpus: read: %w", err)
	}
	data, err := p.Reverse(raw)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}

	var recs []Record
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(text, &rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpus: scan: %w", err)
	}
	return recs, nil
}

// Save writes recs to path, compressing according to its extension.
func Save(path string, recs []Record) error {
	p, err := transform.ForPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, recs, p); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("corpus: write %s: %w", path, err)
	}
	return nil
}

// Load reads a corpus written by Save.
func Load(path string) ([]Record, error) {
	p, err := transform.ForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, p)
}
