// Package config loads gocache tool settings from TOML or YAML files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/naoina/toml"
	"gopkg.in/yaml.v2"
)

// CacheConfig sizes the cache under test.
type CacheConfig struct {
	Capacity int `yaml:"capacity"`
}

// BenchConfig describes the benchmark workload.
type BenchConfig struct {
	// Operations is the number of operations per sequential phase and per
	// worker in the concurrent phase.
	Operations int `yaml:"operations"`
	// Warmup operations run before timing starts.
	Warmup  int `yaml:"warmup"`
	Workers int `yaml:"workers"`
	// Reference also benchmarks hashicorp/golang-lru for comparison.
	Reference bool `yaml:"reference"`
}

// LogConfig mirrors the --log and --log-output flags.
type LogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Layers  string `yaml:"layers"`
}

// Config is the whole tool configuration.
type Config struct {
	Cache CacheConfig `yaml:"cache"`
	Bench BenchConfig `yaml:"bench"`
	Log   LogConfig   `yaml:"log"`
}

// Defaults are 10k entries, 10M operations per phase and per worker,
// 1M warm-up operations and two workers.
var Defaults = Config{
	Cache: CacheConfig{Capacity: 10000},
	Bench: BenchConfig{
		Operations: 10_000_000,
		Warmup:     1_000_000,
		Workers:    2,
		Reference:  true,
	},
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Load decodes file into cfg. The format is chosen by extension: .toml,
// .yml or .yaml. Fields absent from the file keep their current values.
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".toml":
		err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
		// Add file name to errors that have a line number.
		if _, ok := err.(*toml.LineError); ok {
			err = errors.New(file + ", " + err.Error())
		}
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(f)
		dec.SetStrict(true)
		err = dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if err != nil {
			err = fmt.Errorf("%s: %w", file, err)
		}
	default:
		return fmt.Errorf("%s: unsupported config format %q", file, ext)
	}
	return err
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Cache.Capacity <= 0:
		return fmt.Errorf("cache capacity must be positive, got %d", c.Cache.Capacity)
	case c.Bench.Operations <= 0:
		return fmt.Errorf("bench operations must be positive, got %d", c.Bench.Operations)
	case c.Bench.Warmup < 0:
		return fmt.Errorf("bench warmup must not be negative, got %d", c.Bench.Warmup)
	case c.Bench.Workers <= 0:
		return fmt.Errorf("bench workers must be positive, got %d", c.Bench.Workers)
	}
	return nil
}
