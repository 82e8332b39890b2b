package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rc5-go/pkg/roundtrip"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

func roundtripCommand() *cli.Command {
	return &cli.Command{
		Name:  "roundtrip",
		Usage: "Encrypt and decrypt random blocks in parallel and report disagreements",
		Flags: []cli.Flag{
			variantFlag(),
			&cli.IntFlag{
				Name:    "iterations",
				Aliases: []string{"n"},
				Usage:   "Total `NUMBER` of blocks (default from config)",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Worker goroutines, 0 for one per CPU (default from config)",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "PRNG `SEED`; 0 picks a random one, which is printed",
			},
			&cli.BoolFlag{
				Name:  "shared",
				Usage: "Use one cipher instance from every worker",
			},
			&cli.IntFlag{
				Name:  "max-failures",
				Usage: "Stop after this many failures",
				Value: roundtrip.DefaultMaxFailures,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the report as JSON",
			},
		},
		Action: roundtripCmd,
	}
}

func roundtripCmd(c *cli.Context) error {
	cfg := appConfig(c)
	v, err := selectedVariant(c)
	if err != nil {
		return err
	}

	opts := roundtrip.Options{
		Variant:     v,
		Iterations:  cfg.Iterations,
		Workers:     cfg.Workers,
		Seed:        c.Uint64("seed"),
		Shared:      c.Bool("shared"),
		MaxFailures: c.Int("max-failures"),
	}
	if c.IsSet("iterations") {
		opts.Iterations = c.Int("iterations")
	}
	if c.IsSet("workers") {
		opts.Workers = c.Int("workers")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := roundtrip.Run(ctx, opts)
	if err != nil && report == nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			return encErr
		}
	} else {
		printReport(c.App.Writer, report)
	}

	if err != nil {
		return cli.Exit(fmt.Sprintf("interrupted: %v", err), 130)
	}
	if !report.OK() {
		return cli.Exit(fmt.Sprintf("%d failures", len(report.Failures)), 1)
	}
	return nil
}

func printReport(w io.Writer, r *roundtrip.Report) {
	mode := "per-key"
	if r.Shared {
		mode = "shared"
	}
	fmt.Fprintf(w, "%s: %s blocks, %d workers (%s), seed %d\n",
		r.Variant, humanize.Comma(int64(r.Iterations)), r.Workers, mode, r.Seed)
	fmt.Fprintf(w, "elapsed %s, %s blocks/s\n",
		r.Elapsed.Round(time.Millisecond), humanize.CommafWithDigits(r.Rate(), 0))
	for _, f := range r.Failures {
		fmt.Fprintln(w, "  FAIL", f)
	}
	if r.OK() {
		fmt.Fprintln(w, "no failures")
	}
}
