// Package benchmark measures per-call latency of RC5 key setup, encryption and
// decryption and reports percentiles.
package benchmark

import (
	"crypto/rand"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"rc5-go/pkg/log"
	"rc5-go/pkg/rc5"
)

// Operation selects what is timed.
type Operation int

const (
	OpKeySetup Operation = iota // construct a cipher from a key
	OpEncrypt                   // encrypt one block
	OpDecrypt                   // decrypt one block
)

func (o Operation) String() string {
	switch o {
	case OpKeySetup:
		return "key-setup"
	case OpEncrypt:
		return "encrypt"
	case OpDecrypt:
		return "decrypt"
	default:
		return "unknown"
	}
}

func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "key-setup", "keysetup", "setup":
		return OpKeySetup, nil
	case "encrypt", "enc":
		return OpEncrypt, nil
	case "decrypt", "dec":
		return OpDecrypt, nil
	default:
		return 0, fmt.Errorf("benchmark: unknown operation %q", s)
	}
}

var allOperations = []Operation{OpKeySetup, OpEncrypt, OpDecrypt}

type LatencyResults struct {
	Variant       string
	Operation     Operation
	BlockSize     int
	Ops           int
	MinLatency    time.Duration
	MaxLatency    time.Duration
	AvgLatency    time.Duration
	MedianLatency time.Duration
	P95Latency    time.Duration
	P99Latency    time.Duration
	TotalTime     time.Duration
}

// OpsPerSecond is derived from the summed per-call latencies.
func (r *LatencyResults) OpsPerSecond() float64 {
	if r.AvgLatency <= 0 {
		return 0
	}
	return float64(time.Second) / float64(r.AvgLatency)
}

type Options struct {
	Variant    rc5.Variant
	Operation  Operation
	Iterations int
}

func DefaultOptions() *Options {
	v, _ := rc5.Lookup("RC5-32/12/16")
	return &Options{
		Variant:    v,
		Operation:  OpEncrypt,
		Iterations: 1000,
	}
}

// BenchmarkLatency times opts.Iterations calls of one operation. The key and
// block are random and fixed for the whole run.
func BenchmarkLatency(opts *Options) (*LatencyResults, error) {
	if opts.Variant.New == nil {
		return nil, fmt.Errorf("benchmark: no variant selected")
	}
	if opts.Iterations <= 0 {
		return nil, fmt.Errorf("benchmark: iterations must be > 0, got %d", opts.Iterations)
	}

	key := make([]byte, opts.Variant.KeySize)
	block := make([]byte, opts.Variant.BlockSize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if _, err := rand.Read(block); err != nil {
		return nil, err
	}
	c, err := opts.Variant.New(key)
	if err != nil {
		return nil, err
	}

	var call func() error
	switch opts.Operation {
	case OpKeySetup:
		call = func() error { _, err := opts.Variant.New(key); return err }
	case OpEncrypt:
		call = func() error { _, err := c.Encrypt(block); return err }
	case OpDecrypt:
		call = func() error { _, err := c.Decrypt(block); return err }
	default:
		return nil, fmt.Errorf("benchmark: unknown operation %d", opts.Operation)
	}

	latencies := make([]time.Duration, 0, opts.Iterations)
	start := time.Now()
	for i := 0; i < opts.Iterations; i++ {
		t0 := time.Now()
		if err := call(); err != nil {
			return nil, fmt.Errorf("benchmark: %s: %w", opts.Operation, err)
		}
		latencies = append(latencies, time.Since(t0))
	}

	res := calculateStats(latencies, time.Since(start))
	res.Variant = opts.Variant.Name
	res.Operation = opts.Operation
	res.BlockSize = opts.Variant.BlockSize
	return res, nil
}

func calculateStats(latencies []time.Duration, totalTime time.Duration) *LatencyResults {
	if len(latencies) == 0 {
		return &LatencyResults{TotalTime: totalTime}
	}

	slices.Sort(latencies)
	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	n := len(latencies)

	return &LatencyResults{
		Ops:           n,
		MinLatency:    latencies[0],
		MaxLatency:    latencies[n-1],
		AvgLatency:    sum / time.Duration(n),
		MedianLatency: latencies[n/2],
		P95Latency:    latencies[n*95/100],
		P99Latency:    latencies[n*99/100],
		TotalTime:     totalTime,
	}
}

// RunAll benchmarks every operation of every variant.
func RunAll(iterations int) ([]*LatencyResults, error) {
	var results []*LatencyResults
	for _, v := range rc5.Variants() {
		for _, op := range allOperations {
			log.Debug().Str("variant", v.Name).Stringer("op", op).Msg("benchmark")
			r, err := BenchmarkLatency(&Options{Variant: v, Operation: op, Iterations: iterations})
			if err != nil {
				return results, err
			}
			results = append(results, r)
		}
	}
	return results, nil
}

func PrintResults(w io.Writer, r *LatencyResults) {
	fmt.Fprintf(w, "=== %s %s (%d-byte block) ===\n", r.Variant, r.Operation, r.BlockSize)
	fmt.Fprintf(w, "Calls:           %d\n", r.Ops)
	fmt.Fprintf(w, "Total Time:      %v\n", r.TotalTime)
	fmt.Fprintf(w, "Min Latency:     %v\n", r.MinLatency)
	fmt.Fprintf(w, "Avg Latency:     %v\n", r.AvgLatency)
	fmt.Fprintf(w, "Median Latency:  %v\n", r.MedianLatency)
	fmt.Fprintf(w, "95th Percentile: %v\n", r.P95Latency)
	fmt.Fprintf(w, "99th Percentile: %v\n", r.P99Latency)
	fmt.Fprintf(w, "Max Latency:     %v\n", r.MaxLatency)
}

var csvHeader = []string{"Variant", "Operation", "BlockSize", "Calls", "MinNs", "AvgNs", "MedianNs", "P95Ns", "P99Ns", "MaxNs", "TotalNs"}

// SaveResultsToFile writes results as CSV with latencies in nanoseconds.
func SaveResultsToFile(results []*LatencyResults, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("benchmark: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	ns := func(d time.Duration) string { return strconv.FormatInt(d.Nanoseconds(), 10) }
	for _, r := range results {
		rec := []string{
			r.Variant,
			r.Operation.String(),
			strconv.Itoa(r.BlockSize),
			strconv.Itoa(r.Ops),
			ns(r.MinLatency),
			ns(r.AvgLatency),
			ns(r.MedianLatency),
			ns(r.P95Latency),
			ns(r.P99Latency),
			ns(r.MaxLatency),
			ns(r.TotalTime),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("benchmark: write %s: %w", filename, err)
	}
	return f.Close()
}
