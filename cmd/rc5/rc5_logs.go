package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"rc5-go/pkg/log"

	"github.com/urfave/cli/v2"
)

// timeFormats are tried in order for absolute time specs.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeSpec accepts a duration before now ("90s", "1h30m", "2d", "1w")
// or an absolute timestamp. Timestamps without a zone are local time.
func parseTimeSpec(spec string, now time.Time) (time.Time, error) {
	spec = strings.TrimSpace(spec)
	if d, err := parseAgo(spec); err == nil {
		return now.Add(-d), nil
	}
	for _, layout := range timeFormats {
		if ts, err := time.ParseInLocation(layout, spec, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time specification %q: use a duration (e.g. '1h', '2d') or a timestamp (e.g. '2024-05-01T15:04:05Z')", spec)
}

// parseAgo extends time.ParseDuration with a single trailing d or w unit.
func parseAgo(spec string) (time.Duration, error) {
	if n := len(spec); n > 1 {
		unit := time.Duration(0)
		switch spec[n-1] {
		case 'd':
			unit = 24 * time.Hour
		case 'w':
			unit = 7 * 24 * time.Hour
		}
		if unit != 0 {
			k, err := strconv.Atoi(spec[:n-1])
			if err != nil || k < 0 {
				return 0, fmt.Errorf("bad duration %q", spec)
			}
			return time.Duration(k) * unit, nil
		}
	}
	return time.ParseDuration(spec)
}

const logsCommandHelpTemplate = `NAME:
   {{.HelpName}} - {{.Usage}}

USAGE:
   {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[command options]{{end}}

MODES (choose one; --last is the default):
     --last                 The most recent N entries.
     --since                Entries from a start time up to now.
     --between              Entries between a start and an end time.

OPTIONS:
{{range .VisibleFlags}}   {{.}}
{{end}}
TIME SPECIFICATION:
     A duration before now: "30m", "1h30m", "2d", "1w".
     Or a timestamp: "2024-05-01T15:04:05Z", "2024-05-01 10:00:00", "2024-05-01".
     Timestamps without a zone are read as local time.

EXAMPLES:
     rc5 logs -n 50
     rc5 logs --since -s 1h --pretty
     rc5 logs --between -s 2d -e 1d -l 2000
`

func logsCommand() *cli.Command {
	return &cli.Command{
		Name:               "logs",
		Usage:              "Read back entries from the SQLite log database",
		UsageText:          "rc5 logs [--dbfile FILE] [--last|--since|--between] [mode options]",
		CustomHelpTemplate: logsCommandHelpTemplate,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dbfile",
				Aliases: []string{"f"},
				Usage:   "SQLite log `FILE` (default: log_db from config, else rc5.db)",
			},
			&cli.BoolFlag{
				Name:    "pretty",
				Aliases: []string{"p"},
				Usage:   "One readable line per entry instead of raw JSON",
			},
			&cli.BoolFlag{Name: "last", Usage: "Mode: most recent N entries (default)"},
			&cli.BoolFlag{Name: "since", Usage: "Mode: entries since a start time"},
			&cli.BoolFlag{Name: "between", Usage: "Mode: entries between two times"},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Entries for --last `NUMBER`",
				Value:   100,
			},
			&cli.StringFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start `TIME_SPEC` for --since/--between",
			},
			&cli.StringFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End `TIME_SPEC` for --between",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Max entries for --since/--between `NUMBER`",
				Value:   1000,
			},
		},
		Action: logsCmd,
	}
}

func logsCmd(c *cli.Context) error {
	modes := 0
	for _, m := range []string{"last", "since", "between"} {
		if c.Bool(m) {
			modes++
		}
	}
	if modes > 1 {
		return cli.Exit("Error: only one of --last, --since, --between may be given.", 1)
	}

	dbFile := appConfig(c).LogDB
	if c.IsSet("dbfile") {
		dbFile = c.String("dbfile")
	}
	if dbFile == "" {
		dbFile = "rc5.db"
	}
	if err := log.Init(dbFile); err != nil {
		return cli.Exit(fmt.Sprintf("Error opening log database: %v", err), 1)
	}
	defer log.Close()

	now := time.Now()
	var results []log.LogEntry
	var err error
	switch {
	case c.Bool("since"):
		if !c.IsSet("start") {
			return cli.Exit("Error: --start (-s) is required for --since.", 1)
		}
		start, perr := parseTimeSpec(c.String("start"), now)
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		results, err = log.GetLogsSince(start, c.Int("limit"))

	case c.Bool("between"):
		if !c.IsSet("start") || !c.IsSet("end") {
			return cli.Exit("Error: --start (-s) and --end (-e) are required for --between.", 1)
		}
		start, perr := parseTimeSpec(c.String("start"), now)
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		end, perr := parseTimeSpec(c.String("end"), now)
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		if end.Before(start) {
			return cli.Exit("Error: --end is before --start.", 1)
		}
		results, err = log.GetLogsBetween(start, end, c.Int("limit"))

	default:
		if c.Int("count") <= 0 {
			return cli.Exit("Error: --count (-n) must be a positive number.", 1)
		}
		results, err = log.GetLastNLogs(c.Int("count"))
	}

	if err != nil {
		if errors.Is(err, log.ErrNotInitialized) {
			return cli.Exit("Internal error: log database handle unavailable.", 2)
		}
		return cli.Exit(fmt.Sprintf("Error retrieving logs: %v", err), 1)
	}
	if len(results) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "No log entries found.")
		return nil
	}

	for _, entry := range results {
		if c.Bool("pretty") {
			fmt.Fprintln(c.App.Writer, prettyEntry(entry))
		} else {
			fmt.Fprintln(c.App.Writer, strings.TrimSpace(entry.LogData))
		}
	}
	return nil
}

// prettyEntry renders "time LEVEL message key=value ..." with keys sorted.
func prettyEntry(e log.LogEntry) string {
	fields, err := e.Fields()
	if err != nil {
		return strings.TrimSpace(e.LogData)
	}

	var b strings.Builder
	level := "-"
	if l, ok := fields["level"].(string); ok {
		level = strings.ToUpper(l)
	}
	fmt.Fprintf(&b, "%v %-5s %v", fields["time"], level, fields["message"])
	delete(fields, "time")
	delete(fields, "level")
	delete(fields, "message")

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}
