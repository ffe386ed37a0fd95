package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		" INFO ": zapcore.InfoLevel,
		"warn":   zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
		"panic":  zapcore.PanicLevel,
		"fatal":  zapcore.FatalLevel,
		"dpanic": zapcore.DPanicLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestFromContext_FallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, global, FromContext(context.Background()))
}

// TestWithKV_ScopesFields checks that fields attached to a context reach the log entry.
func TestWithKV_ScopesFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "sweep")
	ctx = WithKV(ctx, "alarm_id", int64(7))
	InfoKV(ctx, "Reminder dispatched", "account_id", int64(42))

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "sweep", entries[0].LoggerName)

	fields := entries[0].ContextMap()
	require.Equal(t, int64(7), fields["alarm_id"])
	require.Equal(t, int64(42), fields["account_id"])
}

// TestNew_JSONFormat makes sure both encoders build a usable logger.
func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	require.NotNil(t, New(zapcore.InfoLevel, FormatJSON))
	require.NotNil(t, New(nil, "something-else"))
}

// TestConfigure swaps the global logger and applies the textual level.
// Not parallel: it replaces the global logger.
func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure("info", FormatConsole) })

	Configure("debug", FormatJSON)
	require.True(t, FromContext(context.Background()).Desugar().Core().Enabled(zapcore.DebugLevel))

	Configure("nonsense", FormatConsole)
	require.True(t, global.Desugar().Core().Enabled(zapcore.DebugLevel))

	Configure("error", FormatConsole)
	require.False(t, global.Desugar().Core().Enabled(zapcore.WarnLevel))
}
