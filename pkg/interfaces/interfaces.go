package interfaces

import (
	"context"
	"net/http"

	"github.com/mmcdole/gofeed"

	"github.com/haytac/emoji-translator/internal/translator"
)

// Translator turns free text into emoji.
type Translator interface {
	Translate(text string) string
	TranslateExplained(text string) (string, []translator.TokenResult)
	Explain(text string) []translator.TokenResult
	Ready() bool
	Stats() translator.EngineStats
}

// FeedFetcher fetches and parses a feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*gofeed.Feed, error)
}

// FormattedMessagePart represents a piece of a message to be sent.
type FormattedMessagePart struct {
	Text      string
	ParseMode string
}

// Notifier delivers messages to a chat.
type Notifier interface {
	Send(ctx context.Context, chatID string, parts []FormattedMessagePart) error
	Name() string
}

// HTTPClientFactory creates HTTP clients.
type HTTPClientFactory interface {
	GetClient() (*http.Client, error)
}
