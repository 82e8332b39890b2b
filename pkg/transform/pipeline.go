package transform

import (
	"errors"
	"fmt"
)

// Pipeline applies transforms 0..N on the way out and reverses them N..0 on
// the way in.
type Pipeline struct {
	transforms []Transform
}

// NewPipeline requires at least one transform. Use NewNoOpTransform() for an
// explicitly empty pipeline.
func NewPipeline(ts ...Transform) (*Pipeline, error) {
	if len(ts) == 0 {
		return nil, errors.New("transform: pipeline requires at least one transform; use NewNoOpTransform() for an empty pipeline")
	}

	s := make([]Transform, len(ts))
	copy(s, ts)

	return &Pipeline{transforms: s}, nil
}

// Apply runs every transform in forward order.
func (p *Pipeline) Apply(data []byte) ([]byte, error) {
	var err error
	current := data
	for i, t := range p.transforms {
		current, err = t.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform: apply %d (%T): %w", i, t, err)
		}
	}
	return current, nil
}

// Reverse undoes Apply by running every transform's inverse in reverse order.
func (p *Pipeline) Reverse(data []byte) ([]byte, error) {
	var err error
	current := data
	for i := len(p.transforms) - 1; i >= 0; i-- {
		t := p.transforms[i]
		current, err = t.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("transform: reverse %d (%T): %w", i, t, err)
		}
	}
	return current, nil
}

// Len reports the number of stages.
func (p *Pipeline) Len() int { return len(p.transforms) }
