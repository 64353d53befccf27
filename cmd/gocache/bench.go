package main

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/kushalsai-01/gocache/internal/bench"
	"github.com/kushalsai-01/gocache/internal/cache"
	"github.com/kushalsai-01/gocache/internal/config"
	"github.com/kushalsai-01/gocache/internal/logflags"
)

var (
	opsFlag = &cli.IntFlag{
		Name:  "ops",
		Usage: "Operations per sequential phase, and per worker in the concurrent phase (total = ops x workers)",
	}
	warmupFlag = &cli.IntFlag{
		Name:  "warmup",
		Usage: "Untimed warm-up operations",
	}
	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Goroutines in the concurrent phase, each running --ops operations",
	}
	noReferenceFlag = &cli.BoolFlag{
		Name:  "no-reference",
		Usage: "Skip the hashicorp/golang-lru comparison",
	}
	reportFlag = &cli.DurationFlag{
		Name:  "report",
		Usage: "Log cache stats at this interval while running (0 disables)",
	}
)

var benchCommand = &cli.Command{
	Name:  "bench",
	Usage: "Measure single and multi goroutine throughput",
	Flags: []cli.Flag{capacityFlag, opsFlag, warmupFlag, workersFlag, noReferenceFlag, reportFlag},
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		applyBenchFlags(ctx, &cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		return runBench(ctx.Context, ctx.App.Writer, cfg, ctx.Duration(reportFlag.Name))
	},
}

func applyBenchFlags(ctx *cli.Context, cfg *config.Config) {
	if ctx.IsSet(opsFlag.Name) {
		cfg.Bench.Operations = ctx.Int(opsFlag.Name)
	}
	if ctx.IsSet(warmupFlag.Name) {
		cfg.Bench.Warmup = ctx.Int(warmupFlag.Name)
	}
	if ctx.IsSet(workersFlag.Name) {
		cfg.Bench.Workers = ctx.Int(workersFlag.Name)
	}
	if ctx.Bool(noReferenceFlag.Name) {
		cfg.Bench.Reference = false
	}
	if cfg.Log.Enabled && !ctx.IsSet(logFlag.Name) {
		// Config file asked for logging that the flags did not override.
		if err := logflags.Setup(true, cfg.Log.Layers); err != nil {
			logflags.CLILogger().WithError(err).Warn("ignoring log settings from config file")
		}
	}
}

type benchTarget struct {
	name string
	new  func(capacity int) (bench.Target, *cache.Cache, error)
}

var (
	gocacheTarget = benchTarget{"gocache", func(capacity int) (bench.Target, *cache.Cache, error) {
		c, err := cache.New(cache.Config{Capacity: capacity})
		return c, c, err
	}}
	hashicorpTarget = benchTarget{"hashicorp", func(capacity int) (bench.Target, *cache.Cache, error) {
		t, err := bench.NewHashicorp(capacity)
		return t, nil, err
	}}
)

func runBench(ctx context.Context, w io.Writer, cfg config.Config, report time.Duration) error {
	log := logflags.CLILogger()
	bcfg := bench.Config{
		Capacity:   cfg.Cache.Capacity,
		Operations: cfg.Bench.Operations,
		Warmup:     cfg.Bench.Warmup,
		Workers:    cfg.Bench.Workers,
	}

	targets := []benchTarget{gocacheTarget}
	if cfg.Bench.Reference {
		targets = append(targets, hashicorpTarget)
	}

	var results []bench.Result
	for _, tg := range targets {
		t, c, err := tg.new(bcfg.Capacity)
		if err != nil {
			return err
		}
		stopReport := startReport(ctx, c, report, log.WithField("target", tg.name))

		results = append(results, bench.RunSequential(tg.name, t, bcfg)...)
		res, err := bench.RunConcurrent(ctx, tg.name, t, bcfg)
		stopReport()
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	return bench.WriteResults(w, results)
}

// startReport logs stats for c until the returned func is called. It is a
// no-op for targets that are not a *cache.Cache or when the cli layer is
// not logging.
func startReport(ctx context.Context, c *cache.Cache, every time.Duration, log *logrus.Entry) func() {
	if c == nil || every <= 0 || !logflags.CLI() {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Report(ctx, every, func(s cache.Stats) {
			log.WithFields(logrus.Fields{
				"len":       s.Len,
				"hits":      s.Hits,
				"misses":    s.Misses,
				"evictions": s.Evictions,
			}).Info("cache stats")
		})
	}()
	return func() {
		cancel()
		<-done
	}
}
