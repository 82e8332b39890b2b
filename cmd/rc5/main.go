package main

import (
	"fmt"
	stdlog "log"
	"os"

	"rc5-go/pkg/config"
	"rc5-go/pkg/log"

	"github.com/urfave/cli/v2"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		stdlog.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "rc5",
		Usage:   "RC5 block cipher toolkit",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration `FILE` (default: rc5.yaml in ., ~/.rc5-go, /etc/rc5-go)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Console log `LEVEL` (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-db",
				Usage: "Also write logs to this SQLite `FILE` (relative paths live under ~/.rc5-go)",
			},
		},
		Before: setup,
		After: func(c *cli.Context) error {
			return log.Close()
		},
		Commands: []*cli.Command{
			variantsCommand(),
			encryptCommand(),
			decryptCommand(),
			selftestCommand(),
			roundtripCommand(),
			benchCommand(),
			corpusCommand(),
			serveCommand(),
			logsCommand(),
		},
	}
}

// setup loads the configuration, applies the global flags and opens the log
// sinks. The logs command reads the database itself, so the SQLite sink is not
// opened for it.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-db") {
		cfg.LogDB = c.String("log-db")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	log.SetStd(level)

	if cfg.LogDB != "" && c.Args().First() != "logs" {
		if err := log.Init(cfg.LogDB); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}
	if cfg.ConfigFile != "" {
		log.Debug().Str("file", cfg.ConfigFile).Msg("using config file")
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func appConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}
