package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/grouplib/library-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	// Not parallel: Setup mutates the process-wide default logger.
	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "bogus", ""} {
		log, err := Setup(config.ServerConfig{LogLevel: level})
		require.NoError(t, err, "Setup should not fail for level %q", level)
		require.NotNil(t, log, "Setup should return a logger for level %q", level)
		assert.Same(t, slog.Default(), log, "Setup should install the logger as default")
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Without a stored logger the default is returned.
	assert.Same(t, slog.Default(), FromContext(ctx))

	scoped := slog.Default().With("trace_id", "abc123")
	ctx = WithLogger(ctx, scoped)
	assert.Same(t, scoped, FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fallback := slog.Default().With("component", "test")

	assert.Same(t, fallback, FromContextOrDefault(ctx, fallback))
	assert.Same(t, slog.Default(), FromContextOrDefault(ctx, nil))

	scoped := slog.Default().With("trace_id", "abc123")
	ctx = WithLogger(ctx, scoped)
	assert.Same(t, scoped, FromContextOrDefault(ctx, fallback))
}
