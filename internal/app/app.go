package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/haytac/emoji-translator/internal/config"
	"github.com/haytac/emoji-translator/internal/database"
	"github.com/haytac/emoji-translator/internal/embedding"
	"github.com/haytac/emoji-translator/internal/keywords"
	"github.com/haytac/emoji-translator/internal/metrics"
	"github.com/haytac/emoji-translator/internal/proxy"
	"github.com/haytac/emoji-translator/internal/server"
	"github.com/haytac/emoji-translator/internal/telegram"
	"github.com/haytac/emoji-translator/internal/translator"
)

// ErrEmptyCorpusCache is returned when source is "database" but nothing has
// been imported yet.
var ErrEmptyCorpusCache = errors.New("corpus cache is empty; run 'emoji-translator db import' first")

// Application holds all dependencies for the app.
type Application struct {
	Config        *config.AppConfig
	Engine        *translator.Engine
	ClientFactory *proxy.DefaultHTTPClientFactory
}

// NewApplication loads both tables according to cfg and initializes the
// translation engine.
func NewApplication(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	start := time.Now()
	emb, kw, err := LoadTables(ctx, cfg)
	if err != nil {
		return nil, err
	}

	engine := translator.NewEngine(translator.WithThreshold(cfg.SimilarityThreshold))
	engine.Initialize(emb, kw)
	stats := engine.Stats()
	log.Info().
		Str("source", cfg.Source).
		Int("words", stats.Words).
		Int("emoji", stats.Emoji).
		Int("resolved_keywords", stats.ResolvedKeywords).
		Dur("elapsed", time.Since(start)).
		Msg("Translation engine ready")
	if stats.ResolvedKeywords == 0 {
		log.Warn().Msg("No emoji keyword has an embedding; every translation will be empty")
	}

	return &Application{
		Config:        cfg,
		Engine:        engine,
		ClientFactory: proxy.NewHTTPClientFactory(cfg.Proxy, 0),
	}, nil
}

// LoadTables reads the embedding and keyword tables from the configured
// source.
func LoadTables(ctx context.Context, cfg *config.AppConfig) (embedding.Table, keywords.Table, error) {
	switch cfg.Source {
	case config.SourceDatabase:
		db, err := database.Connect(cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		store := database.NewCorpusStore(db)

		imp, err := store.LatestImport(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("reading corpus cache: %w", err)
		}
		if imp == nil {
			return nil, nil, ErrEmptyCorpusCache
		}
		emb, err := store.LoadEmbeddings(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("loading cached embeddings: %w", err)
		}
		kw, err := store.LoadKeywords(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("loading cached keywords: %w", err)
		}
		log.Info().Int64("import_id", imp.ID).Time("imported_at", imp.ImportedAt).Msg("Loaded tables from corpus cache")
		return emb, kw, nil
	default:
		emb, _, err := embedding.LoadFile(cfg.EmbeddingsPath)
		if err != nil {
			return nil, nil, err
		}
		kw, err := keywords.LoadFile(cfg.KeywordsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialization failed: %w", err)
		}
		return emb, kw, nil
	}
}

// WithShutdownSignals returns a context cancelled on SIGINT or SIGTERM.
func WithShutdownSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case s := <-sigCh:
			log.Info().Str("signal", s.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Serve runs the HTTP API, the metrics endpoint and, when withBot is set,
// the Telegram bot until ctx is cancelled.
func (app *Application) Serve(ctx context.Context, withBot bool) error {
	log.Info().Msg("Starting application...")
	metrics.StartServer(app.Config.MetricsPort)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	running := 1
	if withBot {
		running++
		go func() { errCh <- app.RunBot(ctx) }()
	}

	srv := server.New(server.Config{
		Address:      app.Config.Server.Address,
		MaxBodyBytes: app.Config.Server.MaxBodyBytes,
		ReadTimeout:  app.Config.Server.ReadTimeout(),
		WriteTimeout: app.Config.Server.WriteTimeout(),
	}, app.Engine)
	go func() { errCh <- srv.ListenAndServe(ctx) }()

	var firstErr error
	for i := 0; i < running; i++ {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	log.Info().Msg("Application shut down gracefully.")
	return firstErr
}

// RunBot runs the Telegram bot until ctx is cancelled.
func (app *Application) RunBot(ctx context.Context) error {
	if app.Config.Telegram.Token == "" {
		return errors.New("telegram.token (or EMOJI_TRANSLATOR_TELEGRAM_TOKEN) is not configured")
	}
	client, err := telegram.NewClient(app.Config.Telegram.Token, app.ClientFactory)
	if err != nil {
		return err
	}
	bot := telegram.NewBot(client, app.Engine, app.Config.Telegram.FallbackReply, app.Config.Telegram.PollTimeoutSeconds)
	return bot.Run(ctx)
}
