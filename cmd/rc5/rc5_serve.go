package main

import (
	"os"
	"os/signal"
	"syscall"

	"rc5-go/pkg/api"

	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP encrypt/decrypt oracle",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Usage:   "Listen `ADDR` (default from config)",
			},
		},
		Action: serveCmd,
	}
}

func serveCmd(c *cli.Context) error {
	addr := appConfig(c).ListenAddress
	if c.IsSet("listen") {
		addr = c.String("listen")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.NewServer(addr).Run(ctx); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
