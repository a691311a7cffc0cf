package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInfoWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	Info("analysis.status", map[string]any{
		"status": "completed",
		"err":    errors.New("boom"),
	})

	entries := logs.FilterMessage("analysis.status").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "completed", ctx["status"])
	assert.Equal(t, "boom", ctx["err"])
}

func TestSetLoggerNilFallsBackToNop(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	SetLogger(nil)
	require.NotNil(t, Logger())
	Error("ignored", nil)
}
