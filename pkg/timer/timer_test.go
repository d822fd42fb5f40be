package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTrack_LogsDuration(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	done := Track(zap.New(core), "list-users")
	done()

	entries := logs.FilterMessage("operation finished").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "list-users", entries[0].ContextMap()["op"])
	assert.Contains(t, entries[0].ContextMap(), "took")
}

func TestStopwatch_Lap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sw := NewStopwatch(zap.New(core))

	first := sw.Lap("connect")
	second := sw.Lap("query")

	assert.GreaterOrEqual(t, int64(first), int64(0))
	assert.GreaterOrEqual(t, int64(second), int64(0))
	assert.Equal(t, 2, logs.FilterMessage("step finished").Len())
}
