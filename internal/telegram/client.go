package telegram

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/haytac/emoji-translator/pkg/interfaces"
)

const (
	telegramMaxMessageLength = 4096
	globalMessagesPerSecond  = 25
	chatMessagesPerSecond    = 1
)

// botAPI is the subset of *tgbotapi.BotAPI the client uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Client wraps the Telegram Bot API with global and per-chat rate limits.
type Client struct {
	api            botAPI
	username       string
	globalLimiter  *rate.Limiter
	chatLimiters   map[string]*rate.Limiter
	chatLimitersMu sync.Mutex
}

// NewClient authorizes token using an HTTP client from clientFactory.
func NewClient(token string, clientFactory interfaces.HTTPClientFactory) (*Client, error) {
	httpClient, err := clientFactory.GetClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get HTTP client for Telegram bot: %w", err)
	}
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API instance: %w", err)
	}
	log.Info().Str("bot_username", api.Self.UserName).Msg("Telegram bot authorized")

	c := newClient(api)
	c.username = api.Self.UserName
	return c, nil
}

func newClient(api botAPI) *Client {
	return &Client{
		api:           api,
		globalLimiter: rate.NewLimiter(rate.Limit(globalMessagesPerSecond), globalMessagesPerSecond*2),
		chatLimiters:  make(map[string]*rate.Limiter),
	}
}

func (c *Client) getChatLimiter(chatKey string) *rate.Limiter {
	c.chatLimitersMu.Lock()
	defer c.chatLimitersMu.Unlock()
	limiter, exists := c.chatLimiters[chatKey]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(chatMessagesPerSecond), chatMessagesPerSecond*2)
		c.chatLimiters[chatKey] = limiter
	}
	return limiter
}

// send waits on both limiters and delivers msg.
func (c *Client) send(ctx context.Context, chatKey string, msg tgbotapi.Chattable) error {
	if err := c.globalLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("global rate limiter wait: %w", err)
	}
	if err := c.getChatLimiter(chatKey).Wait(ctx); err != nil {
		return fmt.Errorf("chat rate limiter wait for %s: %w", chatKey, err)
	}
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("sending message to chat '%s': %w", chatKey, err)
	}
	return nil
}

// Send delivers parts to chatIDStr, which is either a numeric chat ID or a
// channel username such as "@news".
func (c *Client) Send(ctx context.Context, chatIDStr string, parts []interfaces.FormattedMessagePart) error {
	numericChatID, errParse := strconv.ParseInt(chatIDStr, 10, 64)
	isChannelUsername := errParse != nil

	for i, part := range parts {
		if part.Text == "" {
			log.Warn().Int("part_index", i).Msg("Skipping empty message part")
			continue
		}
		cfg := tgbotapi.MessageConfig{Text: part.Text, ParseMode: part.ParseMode}
		if isChannelUsername {
			cfg.BaseChat.ChannelUsername = chatIDStr
		} else {
			cfg.BaseChat.ChatID = numericChatID
		}
		if err := c.send(ctx, chatIDStr, cfg); err != nil {
			return err
		}
		log.Debug().Str("chat_id", chatIDStr).Int("part_index", i).Msg("Message part sent successfully")
	}
	return nil
}

// Name identifies the notifier.
func (c *Client) Name() string {
	return "telegram"
}

// SplitMessage cuts text into parts no longer than Telegram allows.
func SplitMessage(text, parseMode string) []interfaces.FormattedMessagePart {
	runes := []rune(text)
	if len(runes) <= telegramMaxMessageLength {
		return []interfaces.FormattedMessagePart{{Text: text, ParseMode: parseMode}}
	}
	var parts []interfaces.FormattedMessagePart
	for start := 0; start < len(runes); start += telegramMaxMessageLength {
		end := start + telegramMaxMessageLength
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, interfaces.FormattedMessagePart{Text: string(runes[start:end]), ParseMode: parseMode})
	}
	log.Warn().Int("original_len_runes", len(runes)).Int("num_parts", len(parts)).Msg("Message split due to length")
	return parts
}
