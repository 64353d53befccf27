package logflags

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLayers(t *testing.T) {
	require.NoError(t, Setup(true, "cache,bench"))
	assert.True(t, Cache())
	assert.True(t, Bench())
	assert.False(t, CLI())

	require.NoError(t, Setup(true, ""))
	assert.False(t, Cache())
	assert.True(t, CLI(), "cli is the default layer")

	require.NoError(t, Setup(false, ""))
	assert.False(t, Cache() || Bench() || CLI())
}

func TestSetupErrors(t *testing.T) {
	assert.Equal(t, errLogstrWithoutLog, Setup(false, "cache"))
	assert.Error(t, Setup(true, "cache,nope"))
}

func TestDisabledLayerIsSilent(t *testing.T) {
	var buf bytes.Buffer
	old := out
	SetOutput(&buf)
	defer SetOutput(old)

	require.NoError(t, Setup(true, "bench"))
	CacheLogger().Error("should not appear")
	assert.Empty(t, buf.String())

	BenchLogger().Debug("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "bench")
	assert.True(t, BenchLogger().Logger.IsLevelEnabled(logrus.DebugLevel))
}
