package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_LevelAndFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	path := filepath.Join(t.TempDir(), "app.log")
	Setup(Config{Level: "warn", File: path})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	log.Warn().Msg("written to file")
	engineLogger := Component("engine")
	engineLogger.Error().Msg("component line")
	log.Info().Msg("filtered out")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), `"component":"engine"`)
	assert.NotContains(t, string(data), "filtered out")
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Setup(Config{Level: "loud", Console: true})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.InfoLevel, true},
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"trace", zerolog.TraceLevel, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := parseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestWithFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.log")
	Setup(Config{Level: "info", File: path})

	l := WithFields(map[string]interface{}{"chat_id": 42})
	l.Info().Msg("with fields")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"chat_id":42`)
}

func TestSetup_UnopenableFileFallsBackToStderr(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	path := filepath.Join(t.TempDir(), "missing", "app.log")
	Setup(Config{Level: "debug", File: path})

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.NoFileExists(t, path)
	assert.NotPanics(t, func() { log.Info().Msg("still logging") })
}
