package main

import (
	"fmt"

	"rc5-go/pkg/benchmark"
	"rc5-go/pkg/log"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Measure per-call latency of key setup, encryption or decryption",
		Flags: []cli.Flag{
			variantFlag(),
			&cli.StringFlag{
				Name:  "op",
				Usage: "Operation to time: key-setup, encrypt or decrypt",
				Value: benchmark.OpEncrypt.String(),
			},
			&cli.IntFlag{
				Name:    "iterations",
				Aliases: []string{"n"},
				Usage:   "Calls to time",
				Value:   1000,
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Benchmark every operation of every variant",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Also write results to a CSV `FILE`",
			},
		},
		Action: benchCmd,
	}
}

func benchCmd(c *cli.Context) error {
	var results []*benchmark.LatencyResults
	if c.Bool("all") {
		var err error
		if results, err = benchmark.RunAll(c.Int("iterations")); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	} else {
		v, err := selectedVariant(c)
		if err != nil {
			return err
		}
		op, err := benchmark.ParseOperation(c.String("op"))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		r, err := benchmark.BenchmarkLatency(&benchmark.Options{Variant: v, Operation: op, Iterations: c.Int("iterations")})
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		results = append(results, r)
	}

	for _, r := range results {
		benchmark.PrintResults(c.App.Writer, r)
		fmt.Fprintf(c.App.Writer, "Throughput:      %s calls/s\n\n", humanize.CommafWithDigits(r.OpsPerSecond(), 0))
	}

	if out := c.String("output"); out != "" {
		if err := benchmark.SaveResultsToFile(results, out); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		log.Info().Str("file", out).Int("results", len(results)).Msg("benchmark results saved")
	}
	return nil
}
