package transform

import (
	"bytes"
	"errors"
	"testing"

	"github.com/klauspost/compress/zstd"
)

// suffixTransform appends a marker byte so tests can observe ordering.
type suffixTransform struct{ b byte }

func (s suffixTransform) Apply(data []byte) ([]byte, error) {
	return append(append([]byte{}, data...), s.b), nil
}

func (s suffixTransform) Reverse(data []byte) ([]byte, error) {
	if len(data) == 0 || data[len(data)-1] != s.b {
		return nil, errors.New("missing marker")
	}
	return data[:len(data)-1], nil
}

func TestPipelineOrder(t *testing.T) {
	p, err := NewPipeline(suffixTransform{'a'}, suffixTransform{'b'})
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	out, err := p.Apply([]byte("x"))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if string(out) != "xab" {
		t.Fatalf("expected %q, got %q", "xab", out)
	}
	back, err := p.Reverse(out)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if string(back) != "x" {
		t.Fatalf("expected %q, got %q", "x", back)
	}
	if _, err := p.Reverse([]byte("xba")); err == nil {
		t.Fatal("expected error reversing out-of-order data")
	}
}

func TestEmptyPipelineRejected(t *testing.T) {
	if _, err := NewPipeline(); err == nil {
		t.Fatal("expected error for empty pipeline")
	}
}

func TestCodecsRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte(`{"variant":"RC5-32/12/16","key":"00000000000000000000000000000000"}`+"\n"), 64)

	z, err := NewZstdTransform(zstd.SpeedFastest)
	if err != nil {
		t.Fatalf("NewZstdTransform failed: %v", err)
	}
	codecs := map[string]Transform{
		"noop": NewNoOpTransform(),
		"gzip": NewGzipTransform(),
		"zstd": z,
	}
	for name, tr := range codecs {
		enc, err := tr.Apply(data)
		if err != nil {
			t.Fatalf("%s: Apply failed: %v", name, err)
		}
		if name != "noop" && len(enc) >= len(data) {
			t.Errorf("%s: expected compression, %d >= %d bytes", name, len(enc), len(data))
		}
		dec, err := tr.Reverse(enc)
		if err != nil {
			t.Fatalf("%s: Reverse failed: %v", name, err)
		}
		if !bytes.Equal(dec, data) {
			t.Errorf("%s: round trip mismatch", name)
		}
	}
}

func TestCorruptInput(t *testing.T) {
	z, _ := NewZstdTransform(zstd.SpeedDefault)
	if _, err := z.Reverse([]byte("not zstd")); err == nil {
		t.Error("zstd: expected error on corrupt input")
	}
	if _, err := NewGzipTransform().Reverse([]byte("not gzip")); err == nil {
		t.Error("gzip: expected error on corrupt input")
	}
}

func TestForPath(t *testing.T) {
	data := []byte("corpus line\n")
	for _, path := range []string{"corpus.jsonl", "corpus.jsonl.gz", "corpus.jsonl.zst", "CORPUS.ZST"} {
		p, err := ForPath(path)
		if err != nil {
			t.Fatalf("ForPath(%s) failed: %v", path, err)
		}
		if p.Len() != 1 {
			t.Errorf("ForPath(%s): expected 1 stage, got %d", path, p.Len())
		}
		enc, err := p.Apply(data)
		if err != nil {
			t.Fatalf("%s: Apply failed: %v", path, err)
		}
		dec, err := p.Reverse(enc)
		if err != nil {
			t.Fatalf("%s: Reverse failed: %v", path, err)
		}
		if !bytes.Equal(dec, data) {
			t.Errorf("%s: round trip mismatch", path)
		}
	}

	gz, _ := ForPath("x.gz")
	enc, _ := gz.Apply(data)
	if len(enc) < 2 || enc[0] != 0x1f || enc[1] != 0x8b {
		t.Errorf("x.gz did not produce a gzip stream: % x", enc)
	}
}
