// Package logflags configures the per-layer loggers used by gocache.
//
// Each layer gets a logrus logger that stays silent unless the layer was
// enabled through Setup.
package logflags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	cache = false
	bench = false
	cli   = false
)

var out io.Writer = colorable.NewColorableStderr()

func makeLogger(flag bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New()
	logger.Out = out
	logger.Formatter = &logrus.TextFormatter{
		ForceColors:   colorTerminal(),
		FullTimestamp: true,
	}
	logger.Level = logrus.DebugLevel
	if !flag {
		logger.Level = logrus.PanicLevel
	}
	return logger.WithFields(fields)
}

func colorTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Cache returns true if the cache package should log.
func Cache() bool {
	return cache
}

// CacheLogger returns the logger for the cache package.
func CacheLogger() *logrus.Entry {
	return makeLogger(cache, logrus.Fields{"layer": "cache"})
}

// Bench returns true if benchmark progress should be logged.
func Bench() bool {
	return bench
}

// BenchLogger returns the logger for the benchmark harness.
func BenchLogger() *logrus.Entry {
	return makeLogger(bench, logrus.Fields{"layer": "bench"})
}

// CLI returns true if the command line tool should log.
func CLI() bool {
	return cli
}

func CLILogger() *logrus.Entry {
	return makeLogger(cli, logrus.Fields{"layer": "cli"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup enables layers from logstr, a comma separated list of layer names.
// With logFlag set and an empty logstr only the cli layer is enabled.
func Setup(logFlag bool, logstr string) error {
	cache, bench, cli = false, false, false
	if !logFlag {
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "cli"
	}
	for _, layer := range strings.Split(logstr, ",") {
		switch strings.TrimSpace(layer) {
		case "cache":
			cache = true
		case "bench":
			bench = true
		case "cli":
			cli = true
		default:
			return fmt.Errorf("unknown log layer %q", layer)
		}
	}
	return nil
}

// SetOutput redirects every logger created afterwards to w.
func SetOutput(w io.Writer) {
	out = w
}
