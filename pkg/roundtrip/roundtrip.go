// Package roundtrip stress-tests an RC5 variant: random keys and blocks are
// encrypted and decrypted across several goroutines and every disagreement is
// reported. A seed reproduces a run exactly.
package roundtrip

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"rc5-go/pkg/log"
	"rc5-go/pkg/rc5"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultIterations  = 10000
	DefaultMaxFailures = 10
)

var ErrNoVariant = errors.New("roundtrip: no variant selected")

// errEnough stops the workers once MaxFailures is reached.
var errEnough = errors.New("roundtrip: failure limit reached")

type Options struct {
	Variant     rc5.Variant
	Iterations  int
	Workers     int
	Seed        uint64
	Shared      bool // one cipher instance for every worker
	MaxFailures int
}

type Failure struct {
	Worker    int    `json:"worker"`
	Iteration int    `json:"iteration"`
	Key       []byte `json:"key"`
	Plaintext []byte `json:"plaintext"`
	Reason    string `json:"reason"`
}

func (f Failure) String() string {
	return fmt.Sprintf("worker %d iteration %d key %X block %X: %s", f.Worker, f.Iteration, f.Key, f.Plaintext, f.Reason)
}

type Report struct {
	Variant    string        `json:"variant"`
	Iterations int           `json:"iterations"`
	Workers    int           `json:"workers"`
	Seed       uint64        `json:"seed"`
	Shared     bool          `json:"shared"`
	Failures   []Failure     `json:"failures,omitempty"`
	Elapsed    time.Duration `json:"elapsed"`
}

func (r *Report) OK() bool { return len(r.Failures) == 0 }

// Rate is completed iterations per second.
func (r *Report) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Iterations) / r.Elapsed.Seconds()
}

func (o Options) withDefaults() (Options, error) {
	if o.Variant.New == nil {
		return o, ErrNoVariant
	}
	if o.Iterations < 0 || o.Workers < 0 || o.MaxFailures < 0 {
		return o, fmt.Errorf("roundtrip: negative option in %+v", o)
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Workers > o.Iterations {
		o.Workers = o.Iterations
	}
	if o.MaxFailures == 0 {
		o.MaxFailures = DefaultMaxFailures
	}
	if o.Seed == 0 {
		var b [8]byte
		if _, err := crand.Read(b[:]); err != nil {
			return o, fmt.Errorf("roundtrip: seed: %w", err)
		}
		o.Seed = binary.LittleEndian.Uint64(b[:]) | 1
	}
	return o, nil
}

type collector struct {
	mu       sync.Mutex
	max      int
	failures []Failure
}

// add records f and reports whether the limit has been reached.
func (c *collector) add(f Failure) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.failures) < c.max {
		c.failures = append(c.failures, f)
	}
	return len(c.failures) >= c.max
}

// Run executes the checker. On cancellation it returns the partial report
// together with ctx.Err().
func Run(ctx context.Context, opts Options) (*Report, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	var shared rc5.BlockCipher
	var sharedKey []byte
	if opts.Shared {
		sharedKey = make([]byte, opts.Variant.KeySize)
		fill(rand.New(rand.NewPCG(opts.Seed, 0)), sharedKey)
		if shared, err = opts.Variant.New(sharedKey); err != nil {
			return nil, fmt.Errorf("roundtrip: shared cipher: %w", err)
		}
	}

	log.Debug().
		Str("variant", opts.Variant.Name).
		Int("iterations", opts.Iterations).
		Int("workers", opts.Workers).
		Uint64("seed", opts.Seed).
		Bool("shared", opts.Shared).
		Msg("round trip started")

	start := time.Now()
	var done atomic.Int64
	col := &collector{max: opts.MaxFailures}
	g, gctx := errgroup.WithContext(ctx)

	per, extra := opts.Iterations/opts.Workers, opts.Iterations%opts.Workers
	for w := 0; w < opts.Workers; w++ {
		n := per
		if w < extra {
			n++
		}
		wk := worker{
			id:        w,
			variant:   opts.Variant,
			rng:       rand.New(rand.NewPCG(opts.Seed, uint64(w)+1)),
			shared:    shared,
			sharedKey: sharedKey,
		}
		g.Go(func() error {
			for i := 0; i < n; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if f, bad := wk.step(i); bad {
					if col.add(f) {
						return errEnough
					}
				}
				done.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()
	report := &Report{
		Variant:    opts.Variant.Name,
		Iterations: int(done.Load()),
		Workers:    opts.Workers,
		Seed:       opts.Seed,
		Shared:     opts.Shared,
		Failures:   col.failures,
		Elapsed:    time.Since(start),
	}

	if ctx.Err() != nil {
		return report, ctx.Err()
	}
	if err != nil && !errors.Is(err, errEnough) {
		return report, err
	}

	ev := log.Info()
	if !report.OK() {
		ev = log.Warn()
	}
	ev.Str("variant", report.Variant).
		Int("iterations", report.Iterations).
		Int("failures", len(report.Failures)).
		Dur("elapsed", report.Elapsed).
		Msg("round trip finished")
	return report, nil
}

type worker struct {
	id        int
	variant   rc5.Variant
	rng       *rand.Rand
	shared    rc5.BlockCipher
	sharedKey []byte
}

// step runs one iteration and returns a Failure when any check fails.
func (w *worker) step(i int) (Failure, bool) {
	key := w.sharedKey
	c := w.shared
	if c == nil {
		key = make([]byte, w.variant.KeySize)
		fill(w.rng, key)
	}
	pt := make([]byte, w.variant.BlockSize)
	fill(w.rng, pt)

	fail := func(format string, args ...any) (Failure, bool) {
		return Failure{
			Worker:    w.id,
			Iteration: i,
			Key:       key,
			Plaintext: pt,
			Reason:    fmt.Sprintf(format, args...),
		}, true
	}

	if c == nil {
		var err error
		if c, err = w.variant.New(key); err != nil {
			return fail("new: %v", err)
		}
	}

	ct, err := c.Encrypt(pt)
	if err != nil {
		return fail("encrypt: %v", err)
	}
	if len(ct) != w.variant.BlockSize {
		return fail("ciphertext is %d bytes, want %d", len(ct), w.variant.BlockSize)
	}
	again, err := c.Encrypt(pt)
	if err != nil {
		return fail("encrypt: %v", err)
	}
	if !bytes.Equal(ct, again) {
		return fail("encryption not deterministic: %X then %X", ct, again)
	}
	back, err := c.Decrypt(ct)
	if err != nil {
		return fail("decrypt: %v", err)
	}
	if !bytes.Equal(back, pt) {
		return fail("decrypt(encrypt(p)) = %X", back)
	}
	return Failure{}, false
}

func fill(rng *rand.Rand, b []byte) {
	for i := 0; i < len(b); i += 8 {
		v := rng.Uint64()
		for j := i; j < len(b) && j < i+8; j++ {
			b[j] = byte(v)
			v >>= 8
		}
	}
}
