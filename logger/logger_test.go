package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		l, err := New(Config{Level: tt.level})
		require.NoError(t, err)
		assert.Equal(t, tt.want, l.GetLevel(), "level %q", tt.level)
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "site.log")
	l, err := New(Config{Level: "info", Output: path})
	require.NoError(t, err)
	l.Info().Str("k", "v").Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestSetGet(t *testing.T) {
	prev := Get()
	t.Cleanup(func() { Set(prev) })

	Set(zerolog.Nop())
	assert.Equal(t, zerolog.Disabled, Get().GetLevel())
}
