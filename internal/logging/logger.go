package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration.
type Config struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	Console    bool   `mapstructure:"console"`
	TimeFormat string `mapstructure:"time_format"`
}

// Setup initializes the global logger. Console output is human readable and
// goes to stderr; the log file, when set, receives JSON lines. With neither
// configured, JSON lines go to stderr.
func Setup(cfg Config) {
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(outputs(cfg)...)).With().Timestamp().Logger()

	level, ok := parseLevel(cfg.Level)
	if !ok {
		log.Warn().Str("configured_level", cfg.Level).Msg("Invalid log level, defaulting to info")
	}
	zerolog.SetGlobalLevel(level)

	log.Debug().Str("level", level.String()).Msg("Logger initialized")
}

func outputs(cfg Config) []io.Writer {
	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: cfg.TimeFormat})
	}
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			// The global logger is not set up yet; report on stderr directly.
			l := zerolog.New(os.Stderr)
			l.Error().Err(err).Str("file", cfg.File).Msg("Failed to open log file")
		} else {
			writers = append(writers, file)
		}
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}
	return writers
}

// parseLevel maps a configured level name to a zerolog level. Empty means
// info; unknown names also yield info with ok=false.
func parseLevel(s string) (zerolog.Level, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return zerolog.InfoLevel, true
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}
	return level, true
}

// Component returns a child of the global logger tagged with the component
// name. Call it after Setup so the child inherits the configured outputs.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// WithFields returns a child of the global logger carrying fields.
func WithFields(fields map[string]interface{}) zerolog.Logger {
	return log.With().Fields(fields).Logger()
}
