// Package bench measures cache throughput with a fixed key workload:
// operation i touches key i % capacity.
package bench

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kushalsai-01/gocache/internal/logflags"
)

// Target is the cache surface the workload drives. Implementations must be
// safe for concurrent use.
type Target interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Config sizes a run.
type Config struct {
	Capacity   int
	Operations int
	Warmup     int
	Workers    int
}

// Result is the timing of one phase against one target.
type Result struct {
	Target  string
	Phase   string
	Ops     int
	Elapsed time.Duration
}

// OpsPerSec returns the throughput of the phase.
func (r Result) OpsPerSec() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Elapsed.Seconds()
}

// workload precomputes keys and values so the timed loops do not allocate.
type workload struct {
	keys   []string
	values []string
}

func newWorkload(capacity int) *workload {
	w := &workload{
		keys:   make([]string, capacity),
		values: make([]string, capacity),
	}
	for i := range w.keys {
		w.keys[i] = strconv.Itoa(i)
		w.values[i] = strconv.Itoa(i * 10)
	}
	return w
}

func (w *workload) set(t Target, i int) {
	j := i % len(w.keys)
	t.Set(w.keys[j], w.values[j])
}

func (w *workload) get(t Target, i int) {
	t.Get(w.keys[i%len(w.keys)])
}

// RunSequential warms the target up, then times a put phase and a get
// phase of cfg.Operations each on the calling goroutine.
func RunSequential(name string, t Target, cfg Config) []Result {
	log := logflags.BenchLogger().WithField("target", name)
	w := newWorkload(cfg.Capacity)

	for i := 0; i < cfg.Warmup; i++ {
		w.set(t, i)
	}
	for i := 0; i < cfg.Warmup; i++ {
		w.get(t, i)
	}
	if logflags.Bench() {
		log.WithField("ops", cfg.Warmup).Debug("warm-up done")
	}

	start := time.Now()
	for i := 0; i < cfg.Operations; i++ {
		w.set(t, i)
	}
	put := Result{Target: name, Phase: "put", Ops: cfg.Operations, Elapsed: time.Since(start)}

	start = time.Now()
	for i := 0; i < cfg.Operations; i++ {
		w.get(t, i)
	}
	get := Result{Target: name, Phase: "get", Ops: cfg.Operations, Elapsed: time.Since(start)}

	if logflags.Bench() {
		log.WithFields(logrus.Fields{
			"put": put.Elapsed,
			"get": get.Elapsed,
		}).Debug("sequential phases done")
	}
	return []Result{put, get}
}

// RunConcurrent times cfg.Workers goroutines each issuing cfg.Operations
// operations, alternating Set (even i) and Get (odd i). It stops early
// when ctx is cancelled.
func RunConcurrent(ctx context.Context, name string, t Target, cfg Config) (Result, error) {
	log := logflags.BenchLogger().WithField("target", name)
	w := newWorkload(cfg.Capacity)

	g, ctx := errgroup.WithContext(ctx)
	start := time.Now()
	for n := 0; n < cfg.Workers; n++ {
		g.Go(func() error {
			for i := 0; i < cfg.Operations; i++ {
				if i%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if i&1 == 0 {
					w.set(t, i)
				} else {
					w.get(t, i)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	res := Result{
		Target:  name,
		Phase:   fmt.Sprintf("mixed x%d", cfg.Workers),
		Ops:     cfg.Workers * cfg.Operations,
		Elapsed: time.Since(start),
	}
	if logflags.Bench() {
		log.WithField("elapsed", res.Elapsed).Debug("concurrent phase done")
	}
	return res, nil
}

// WriteResults prints one line per result.
func WriteResults(w io.Writer, results []Result) error {
	for _, r := range results {
		_, err := fmt.Fprintf(w, "%-10s %-10s %12s ops in %-12s %14s ops/sec\n",
			r.Target, r.Phase,
			humanize.Comma(int64(r.Ops)),
			r.Elapsed.Round(time.Microsecond),
			humanize.Comma(int64(r.OpsPerSec())))
		if err != nil {
			return err
		}
	}
	return nil
}

// hashicorpTarget adapts hashicorp/golang-lru as a reference implementation.
type hashicorpTarget struct {
	c *lru.Cache
}

// NewHashicorp returns a Target backed by hashicorp/golang-lru.
func NewHashicorp(capacity int) (Target, error) {
	c, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return hashicorpTarget{c: c}, nil
}

func (h hashicorpTarget) Get(key string) (string, bool) {
	v, ok := h.c.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (h hashicorpTarget) Set(key, value string) {
	h.c.Add(key, value)
}
