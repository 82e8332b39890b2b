package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"rc5-go/pkg/corpus"
	"rc5-go/pkg/log"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

func corpusCommand() *cli.Command {
	return &cli.Command{
		Name:  "corpus",
		Usage: "Generate or verify a regression corpus (.jsonl, .jsonl.gz or .jsonl.zst)",
		Subcommands: []*cli.Command{
			{
				Name:      "gen",
				Usage:     "Write random records produced by this build",
				UsageText: "rc5 corpus gen [--variant NAME] [-n COUNT] -o FILE",
				Flags: []cli.Flag{
					variantFlag(),
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "`NUMBER` of records (default from config)",
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Destination `FILE`; the extension selects compression",
						Required: true,
					},
				},
				Action: corpusGenCmd,
			},
			{
				Name:      "verify",
				Usage:     "Check every record against this build",
				UsageText: "rc5 corpus verify FILE",
				Action:    corpusVerifyCmd,
			},
		},
	}
}

func corpusGenCmd(c *cli.Context) error {
	v, err := selectedVariant(c)
	if err != nil {
		return err
	}
	n := appConfig(c).CorpusSize
	if c.IsSet("count") {
		n = c.Int("count")
	}
	if n <= 0 {
		return cli.Exit("Error: --count (-n) must be a positive number.", 1)
	}

	recs, err := corpus.Generate(v, n, rand.Reader)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	path := c.String("output")
	if err := corpus.Save(path, recs); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	size := "?"
	if st, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(st.Size()))
	}
	log.Info().Str("variant", v.Name).Int("records", n).Str("file", path).Msg("corpus written")
	fmt.Fprintf(c.App.Writer, "wrote %s %s records to %s (%s)\n", humanize.Comma(int64(n)), v.Name, path, size)
	return nil
}

func corpusVerifyCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("Error: exactly one FILE argument is required.", 1)
	}
	path := c.Args().First()
	recs, err := corpus.Load(path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	mismatches := corpus.Verify(recs)
	for _, m := range mismatches {
		fmt.Fprintln(c.App.Writer, "  FAIL", m)
	}
	if len(mismatches) > 0 {
		log.Warn().Str("file", path).Int("mismatches", len(mismatches)).Msg("corpus verification failed")
		return cli.Exit(fmt.Sprintf("%d of %d records differ", len(mismatches), len(recs)), 1)
	}
	fmt.Fprintf(c.App.Writer, "verified %s records from %s\n", humanize.Comma(int64(len(recs))), path)
	return nil
}
