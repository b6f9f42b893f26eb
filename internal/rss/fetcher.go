package rss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog/log"

	"github.com/haytac/emoji-translator/pkg/interfaces"
)

const (
	maxFetchRetries   = 3
	initialRetryDelay = 2 * time.Second
	maxRetryDelay     = 30 * time.Second
)

// GoFeedFetcher implements FeedFetcher using gofeed.
type GoFeedFetcher struct {
	clientFactory interfaces.HTTPClientFactory
	retryDelay    time.Duration
}

// NewGoFeedFetcher creates a new GoFeedFetcher.
func NewGoFeedFetcher(clientFactory interfaces.HTTPClientFactory) *GoFeedFetcher {
	return &GoFeedFetcher{clientFactory: clientFactory, retryDelay: initialRetryDelay}
}

// Fetch retrieves and parses a feed. Network errors, 5xx responses and parse
// failures are retried with exponential backoff; 4xx responses are not.
func (f *GoFeedFetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	var lastErr error
	currentDelay := f.retryDelay

	for attempt := 0; attempt <= maxFetchRetries; attempt++ {
		if attempt > 0 {
			log.Warn().Str("feed_url", url).Int("attempt", attempt).Dur("delay", currentDelay).Msg("Retrying fetch after error")
			select {
			case <-time.After(currentDelay):
				currentDelay *= 2
				if currentDelay > maxRetryDelay {
					currentDelay = maxRetryDelay
				}
			case <-ctx.Done():
				return nil, fmt.Errorf("fetch context cancelled during retry backoff for %s: %w", url, ctx.Err())
			}
		}

		httpClient, errClient := f.clientFactory.GetClient()
		if errClient != nil {
			return nil, fmt.Errorf("failed to get HTTP client for %s: %w", url, errClient)
		}

		req, errReq := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if errReq != nil {
			return nil, fmt.Errorf("failed to create request for %s: %w", url, errReq)
		}
		req.Header.Set("User-Agent", "emoji-translator/1.0")

		resp, errDo := httpClient.Do(req)
		if errDo != nil {
			lastErr = fmt.Errorf("attempt %d: failed to fetch feed %s: %w", attempt, url, errDo)
			if errors.Is(errDo, context.Canceled) || errors.Is(errDo, context.DeadlineExceeded) {
				return nil, lastErr
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			lastErr = fmt.Errorf("attempt %d: failed to fetch feed %s: status %d, body: %s", attempt, url, resp.StatusCode, string(bodyBytes))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, lastErr
			}
			continue
		}

		feed, errParse := gofeed.NewParser().Parse(resp.Body)
		resp.Body.Close()
		if errParse != nil {
			lastErr = fmt.Errorf("attempt %d: failed to parse feed %s: %w", attempt, url, errParse)
			continue
		}
		return feed, nil
	}
	return nil, fmt.Errorf("all %d fetch attempts failed for %s: last error: %w", maxFetchRetries+1, url, lastErr)
}

// LatestItems returns up to limit items, newest first. Items without a date
// keep their feed order after the dated ones. limit <= 0 means no limit.
func LatestItems(feed *gofeed.Feed, limit int) []*gofeed.Item {
	if feed == nil || len(feed.Items) == 0 {
		return nil
	}
	items := make([]*gofeed.Item, len(feed.Items))
	copy(items, feed.Items)

	sort.SliceStable(items, func(i, j int) bool {
		dateI := itemDate(items[i])
		dateJ := itemDate(items[j])
		if dateI == nil || dateJ == nil {
			return dateI != nil && dateJ == nil
		}
		return dateI.After(*dateJ)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func itemDate(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}
