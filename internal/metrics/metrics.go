package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	// Translations counts completed Translate calls.
	Translations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emoji_translator_translations_total",
			Help: "Total number of texts translated to emoji.",
		},
	)

	// Tokens counts filtered input tokens by what became of them.
	Tokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emoji_translator_tokens_total",
			Help: "Total number of input tokens processed.",
		},
		[]string{"outcome"}, // matched, unknown, no_match
	)

	// TranslateDuration observes how long a single Translate call takes.
	TranslateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "emoji_translator_translate_duration_seconds",
			Help:    "Time spent translating one text.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	// TableEntries reports the size of the loaded tables.
	TableEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "emoji_translator_table_entries",
			Help: "Number of entries in the loaded lookup tables.",
		},
		[]string{"table"}, // embeddings, emoji, keywords
	)

	// HTTPRequests counts API requests.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emoji_translator_http_requests_total",
			Help: "Total number of HTTP API requests.",
		},
		[]string{"route", "status"},
	)

	// TelegramMessages counts replies sent by the Telegram bot.
	TelegramMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emoji_translator_telegram_messages_total",
			Help: "Total number of Telegram messages handled.",
		},
		[]string{"status"}, // sent, empty, error
	)

	// FeedItems counts feed items run through the translator.
	FeedItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emoji_translator_feed_items_total",
			Help: "Total number of feed items translated.",
		},
		[]string{"status"}, // translated, empty, forwarded, error
	)
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartServer starts the Prometheus metrics HTTP server.
func StartServer(addr string) {
	if addr == "" {
		log.Info().Msg("Metrics server address not configured, Prometheus endpoint will not be available.")
		return
	}

	mux := chi.NewRouter()
	mux.Handle("/metrics", Handler())

	log.Info().Str("address", addr).Msg("Starting Prometheus metrics server")
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Prometheus metrics server failed")
		}
	}()
}
