package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"shelfkeeper/internal/app/server/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		env           string
		expectedLevel slog.Level
	}{
		{
			name:          "local environment",
			env:           config.EnvLocal,
			expectedLevel: slog.LevelDebug,
		},
		{
			name:          "dev environment",
			env:           config.EnvDev,
			expectedLevel: slog.LevelDebug,
		},
		{
			name:          "prod environment",
			env:           config.EnvProd,
			expectedLevel: slog.LevelInfo,
		},
		{
			name:          "unknown environment falls back to prod",
			env:           "staging",
			expectedLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.env)
			require.NotNil(t, logger)
			ctx := context.Background()
			assert.Equal(t, tt.expectedLevel <= slog.LevelDebug, logger.Enabled(ctx, slog.LevelDebug))
			assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
		})
	}
}

func TestSetupPrettySlog(t *testing.T) {
	logger := setupPrettySlog()
	require.NotNil(t, logger)

	ctx := context.Background()
	assert.True(t, logger.Enabled(ctx, slog.LevelDebug))
}

func TestWithLevel(t *testing.T) {
	ctx := context.Background()

	assert.False(t, WithLevel(config.EnvDev, "warn").Enabled(ctx, slog.LevelInfo))
	assert.True(t, WithLevel(config.EnvProd, "debug").Enabled(ctx, slog.LevelDebug))
	assert.False(t, WithLevel(config.EnvProd, "").Enabled(ctx, slog.LevelDebug))
	assert.True(t, WithLevel(config.EnvLocal, "bogus").Enabled(ctx, slog.LevelDebug))
}

func TestNewTo(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	log := NewTo(&buf, config.EnvProd, "warn")
	assert.False(t, log.Enabled(ctx, slog.LevelInfo))

	log.Warn("queue stalled", "pending", 2)
	assert.Contains(t, buf.String(), `"msg":"queue stalled"`)
	assert.Contains(t, buf.String(), `"pending":2`)

	assert.True(t, NewTo(&buf, config.EnvDev, "").Enabled(ctx, slog.LevelDebug))
}

func TestPrettyHandler_Output(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	h := NewPrettyHandler(&buf, PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug}})
	log := slog.New(h).With("component", "queue")
	log.Info("drain finished", "committed", 2, "error", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "drain finished")
	assert.Contains(t, out, `"component": "queue"`)
	assert.Contains(t, out, `"committed": 2`)
	assert.Contains(t, out, `"error": "boom"`)
}
