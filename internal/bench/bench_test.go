package bench

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushalsai-01/gocache/internal/cache"
)

var small = Config{Capacity: 16, Operations: 1000, Warmup: 100, Workers: 3}

func newTargets(t *testing.T) map[string]Target {
	t.Helper()
	c, err := cache.New(cache.Config{Capacity: small.Capacity})
	require.NoError(t, err)
	h, err := NewHashicorp(small.Capacity)
	require.NoError(t, err)
	return map[string]Target{"gocache": c, "hashicorp": h}
}

func TestRunSequential(t *testing.T) {
	for name, target := range newTargets(t) {
		res := RunSequential(name, target, small)
		require.Len(t, res, 2, name)
		assert.Equal(t, "put", res[0].Phase)
		assert.Equal(t, "get", res[1].Phase)
		for _, r := range res {
			assert.Equal(t, name, r.Target)
			assert.Equal(t, small.Operations, r.Ops)
		}

		// Every workload key fits, so the last put pass left them all behind.
		v, ok := target.Get("15")
		assert.True(t, ok, name)
		assert.Equal(t, "150", v)
	}
}

func TestRunConcurrent(t *testing.T) {
	for name, target := range newTargets(t) {
		res, err := RunConcurrent(context.Background(), name, target, small)
		require.NoError(t, err)
		assert.Equal(t, small.Workers*small.Operations, res.Ops)
		assert.Equal(t, "mixed x3", res.Phase)
	}
}

func TestRunConcurrentCancelled(t *testing.T) {
	c, err := cache.New(cache.Config{Capacity: 4})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = RunConcurrent(ctx, "gocache", c, Config{Capacity: 4, Operations: 1 << 20, Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpsPerSec(t *testing.T) {
	assert.Equal(t, 2000.0, Result{Ops: 1000, Elapsed: 500 * time.Millisecond}.OpsPerSec())
	assert.Zero(t, Result{Ops: 1000}.OpsPerSec())
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	err := WriteResults(&buf, []Result{
		{Target: "gocache", Phase: "put", Ops: 10_000_000, Elapsed: 2 * time.Second},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "10,000,000")
	assert.Contains(t, out, "5,000,000 ops/sec")
	assert.True(t, strings.HasPrefix(out, "gocache"))
}
