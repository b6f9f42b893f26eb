package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/haytac/emoji-translator/internal/logging"
	"github.com/haytac/emoji-translator/internal/metrics"
	"github.com/haytac/emoji-translator/pkg/interfaces"
)

// Bot replies to every text message with its emoji translation.
type Bot struct {
	client        *Client
	translator    interfaces.Translator
	fallbackReply string
	pollTimeout   int
}

// NewBot creates a bot. An empty fallbackReply means messages without any
// emoji get no reply.
func NewBot(client *Client, translator interfaces.Translator, fallbackReply string, pollTimeoutSeconds int) *Bot {
	return &Bot{
		client:        client,
		translator:    translator,
		fallbackReply: fallbackReply,
		pollTimeout:   pollTimeoutSeconds,
	}
}

// Run long-polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.client.api.GetUpdatesChan(u)
	l := logging.Component("telegram")
	l.Info().Str("bot_username", b.client.username).Int("poll_timeout", b.pollTimeout).Msg("Telegram bot listening for messages")

	for {
		select {
		case <-ctx.Done():
			b.client.api.StopReceivingUpdates()
			l.Info().Msg("Telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.HandleUpdate(ctx, update); err != nil {
				l.Error().Err(err).Int("update_id", update.UpdateID).Msg("Failed to handle Telegram update")
			}
		}
	}
}

// HandleUpdate translates a single incoming message and replies to it.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return nil
	}

	reply := b.translator.Translate(msg.Text)
	if reply == "" {
		if b.fallbackReply == "" {
			metrics.TelegramMessages.WithLabelValues("empty").Inc()
			return nil
		}
		reply = b.fallbackReply
	}

	chatKey := strconv.FormatInt(msg.Chat.ID, 10)
	for _, part := range SplitMessage(reply, "") {
		cfg := tgbotapi.NewMessage(msg.Chat.ID, part.Text)
		cfg.ReplyToMessageID = msg.MessageID
		if err := b.client.send(ctx, chatKey, cfg); err != nil {
			metrics.TelegramMessages.WithLabelValues("error").Inc()
			return err
		}
	}
	metrics.TelegramMessages.WithLabelValues("sent").Inc()
	logger := logging.Component("telegram")
	logger.Debug().Int64("chat_id", msg.Chat.ID).Int("message_id", msg.MessageID).Msg("Replied with translation")
	return nil
}
