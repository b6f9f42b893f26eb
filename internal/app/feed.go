package app

import (
	"context"
	"fmt"
	"io"

	"github.com/haytac/emoji-translator/internal/formatter"
	"github.com/haytac/emoji-translator/internal/logging"
	"github.com/haytac/emoji-translator/internal/metrics"
	"github.com/haytac/emoji-translator/internal/rss"
	"github.com/haytac/emoji-translator/pkg/interfaces"
)

// FeedTranslator fetches a feed and translates the titles of its newest
// items.
type FeedTranslator struct {
	fetcher    interfaces.FeedFetcher
	formatter  *formatter.FeedFormatter
	translator interfaces.Translator
	notifier   interfaces.Notifier
}

// NewFeedTranslator creates a FeedTranslator. notifier may be nil.
func NewFeedTranslator(fetcher interfaces.FeedFetcher, f *formatter.FeedFormatter, t interfaces.Translator, notifier interfaces.Notifier) *FeedTranslator {
	return &FeedTranslator{fetcher: fetcher, formatter: f, translator: t, notifier: notifier}
}

// Run writes one rendered line per item to w and, when chatID is set,
// forwards each line through the notifier. Items whose title yields no
// emoji are still printed but not forwarded.
func (ft *FeedTranslator) Run(ctx context.Context, url string, maxItems int, chatID string, w io.Writer) error {
	l := logging.Component("feed").With().Str("feed_url", url).Logger()

	feed, err := ft.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("fetching feed: %w", err)
	}

	items := rss.LatestItems(feed, maxItems)
	l.Info().Int("items", len(items)).Msg("Translating feed items")

	for _, item := range items {
		view := ft.formatter.View(item, "")
		view.Emoji = ft.translator.Translate(view.Title)

		line, err := ft.formatter.Render(view)
		if err != nil {
			metrics.FeedItems.WithLabelValues("error").Inc()
			return err
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing feed output: %w", err)
		}

		if view.Emoji == "" {
			metrics.FeedItems.WithLabelValues("empty").Inc()
			continue
		}
		metrics.FeedItems.WithLabelValues("translated").Inc()

		if chatID == "" || ft.notifier == nil {
			continue
		}
		parts := []interfaces.FormattedMessagePart{{Text: line}}
		if err := ft.notifier.Send(ctx, chatID, parts); err != nil {
			metrics.FeedItems.WithLabelValues("error").Inc()
			l.Error().Err(err).Str("item_title", view.Title).Msg("Failed to forward feed item")
			return fmt.Errorf("forwarding to %s via %s: %w", chatID, ft.notifier.Name(), err)
		}
		metrics.FeedItems.WithLabelValues("forwarded").Inc()
	}
	return nil
}
