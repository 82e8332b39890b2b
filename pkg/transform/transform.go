// Package transform provides reversible byte transforms and an ordered
// pipeline over them. Corpus files use it to pick a compression codec from the
// file extension.
package transform

import (
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

type Transform interface {
	Apply(data []byte) ([]byte, error)
	Reverse(data []byte) ([]byte, error)
}

type noOpTransform struct{}

func NewNoOpTransform() Transform                            { return &noOpTransform{} }
func (n *noOpTransform) Apply(data []byte) ([]byte, error)   { return data, nil }
func (n *noOpTransform) Reverse(data []byte) ([]byte, error) { return data, nil }

// ForPath returns the pipeline matching a file extension: ".zst" selects
// zstd, ".gz" gzip, anything else a no-op.
func ForPath(path string) (*Pipeline, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		z, err := NewZstdTransform(zstd.SpeedDefault)
		if err != nil {
			return nil, err
		}
		return NewPipeline(z)
	case ".gz":
		return NewPipeline(NewGzipTransform())
	default:
		return NewPipeline(NewNoOpTransform())
	}
}
