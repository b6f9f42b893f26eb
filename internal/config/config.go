package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/haytac/emoji-translator/internal/logging"
	"github.com/spf13/viper"
)

// Table sources.
const (
	SourceFiles    = "files"
	SourceDatabase = "database"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address             string `mapstructure:"address"`
	MaxBodyBytes        int64  `mapstructure:"max_body_bytes"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

// TelegramConfig configures the Telegram bot.
type TelegramConfig struct {
	Token              string `mapstructure:"token"`
	PollTimeoutSeconds int    `mapstructure:"poll_timeout_seconds"`
	FallbackReply      string `mapstructure:"fallback_reply"`
}

// ProxyConfig describes an optional outbound proxy.
type ProxyConfig struct {
	Type     string `mapstructure:"type"` // http, https, socks5
	Address  string `mapstructure:"address"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// FeedConfig configures feed translation output.
type FeedConfig struct {
	MaxItems int    `mapstructure:"max_items"`
	Template string `mapstructure:"template"`
}

// AppConfig holds the application configuration.
type AppConfig struct {
	EmbeddingsPath      string         `mapstructure:"embeddings_path"`
	KeywordsPath        string         `mapstructure:"keywords_path"`
	Source              string         `mapstructure:"source"`
	DatabasePath        string         `mapstructure:"database_path"`
	SimilarityThreshold float64        `mapstructure:"similarity_threshold"`
	Log                 logging.Config `mapstructure:"log"`
	MetricsPort         string         `mapstructure:"metrics_port"`
	Server              ServerConfig   `mapstructure:"server"`
	Telegram            TelegramConfig `mapstructure:"telegram"`
	Proxy               ProxyConfig    `mapstructure:"proxy"`
	Feed                FeedConfig     `mapstructure:"feed"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.emoji-translator")
		v.AddConfigPath("/etc/emoji-translator/")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("EMOJI_TRANSLATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("embeddings_path", "./data/glove.6B.50d.txt")
	v.SetDefault("keywords_path", "./data/emoji_keywords.json")
	v.SetDefault("source", SourceFiles)
	v.SetDefault("database_path", "./emoji_translator.db")
	v.SetDefault("similarity_threshold", 0.5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.time_format", time.RFC3339)
	v.SetDefault("metrics_port", ":9090")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.max_body_bytes", 64*1024)
	v.SetDefault("server.read_timeout_seconds", 10)
	v.SetDefault("server.write_timeout_seconds", 10)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.poll_timeout_seconds", 60)
	v.SetDefault("telegram.fallback_reply", "🤷")
	v.SetDefault("proxy.type", "")
	v.SetDefault("proxy.address", "")
	v.SetDefault("proxy.username", "")
	v.SetDefault("proxy.password", "")
	v.SetDefault("feed.max_items", 20)
	v.SetDefault("feed.template", "{{.Title}} {{.Emoji}}")
}

// Validate rejects settings the rest of the application cannot work with.
func (c *AppConfig) Validate() error {
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be within [-1, 1], got %v", c.SimilarityThreshold)
	}
	switch c.Source {
	case SourceFiles:
		if c.EmbeddingsPath == "" || c.KeywordsPath == "" {
			return fmt.Errorf("embeddings_path and keywords_path are required when source is %q", SourceFiles)
		}
	case SourceDatabase:
		if c.DatabasePath == "" {
			return fmt.Errorf("database_path is required when source is %q", SourceDatabase)
		}
	default:
		return fmt.Errorf("invalid source %q: must be %q or %q", c.Source, SourceFiles, SourceDatabase)
	}
	switch c.Proxy.Type {
	case "", "http", "https", "socks5":
	default:
		return fmt.Errorf("invalid proxy type %q: must be http, https, or socks5", c.Proxy.Type)
	}
	return nil
}

// ReadTimeout returns the server read timeout as a duration.
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout as a duration.
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}
