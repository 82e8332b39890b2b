package transform

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

type zstdTransform struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	level   zstd.EncoderLevel
}

// NewZstdTransform creates a Zstandard transform at the given level, e.g.
// zstd.SpeedFastest or zstd.SpeedBetterCompression.
func NewZstdTransform(level zstd.EncoderLevel) (Transform, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("zstd: init encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: init decoder: %w", err)
	}
	return &zstdTransform{encoder: enc, decoder: dec, level: level}, nil
}

// Apply compresses data into a single zstd frame. EncodeAll and DecodeAll
// are safe for concurrent use, so one transform can be shared.
func (z *zstdTransform) Apply(data []byte) ([]byte, error) {
	return z.encoder.EncodeAll(data, nil), nil
}

// Reverse decompresses a stream produced by Apply.
func (z *zstdTransform) Reverse(data []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress (level %s): %w", z.level, err)
	}
	return out, nil
}
