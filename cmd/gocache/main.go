package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/kushalsai-01/gocache/internal/config"
	"github.com/kushalsai-01/gocache/internal/logflags"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML or YAML configuration file",
	}
	logFlag = &cli.BoolFlag{
		Name:  "log",
		Usage: "Enable logging",
	}
	logOutputFlag = &cli.StringFlag{
		Name:  "log-output",
		Usage: "Comma separated list of layers to log: cache, bench, cli",
	}
	capacityFlag = &cli.IntFlag{
		Name:  "capacity",
		Usage: "Maximum number of cache entries",
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "gocache",
		Usage: "exercise a concurrent fixed-capacity LRU cache",
		Flags: []cli.Flag{configFileFlag, logFlag, logOutputFlag},
		Before: func(ctx *cli.Context) error {
			return logflags.Setup(ctx.Bool(logFlag.Name), ctx.String(logOutputFlag.Name))
		},
		Commands: []*cli.Command{
			demoCommand,
			benchCommand,
		},
	}
}

// loadConfig loads defaults, then the config file, then applies flags.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Defaults
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := config.Load(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet(capacityFlag.Name) {
		cfg.Cache.Capacity = ctx.Int(capacityFlag.Name)
	}
	return cfg, nil
}

func main() {
	// Signal-aware context is the root of ownership for long-running commands.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
