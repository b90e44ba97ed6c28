package logs

import (
	"context"
	"log/slog"
	"testing"

	"passport/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("builds a logger at the configured level", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{}
		cfg.Env.ServiceName = "passport"
		cfg.Env.Env = "test"
		cfg.Env.Log.Level = "debug"

		logger, err := New(Params{Config: cfg})

		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("rejects an unknown level", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{}
		cfg.Env.Log.Level = "verbose"

		_, err := New(Params{Config: cfg})

		require.Error(t, err)
	})
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		level, err := parseLogLevel(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, level)
	}
}
