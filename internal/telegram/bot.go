// Package telegram is the chat transport collaborator. It maps Telegram
// updates onto the closed inbound event set and delivers rendered
// notifications, including the pin/unpin actions of the daily cycle.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yeldir/leetbot/internal/events"
	"github.com/yeldir/leetbot/internal/i18n"
)

// Bot wraps the Telegram API client together with the renderer. All outbound
// traffic of the core goes through it.
type Bot struct {
	api    *tgbotapi.BotAPI
	render *i18n.Renderer
}

// NewBot authenticates against the Telegram API.
func NewBot(token string, render *i18n.Renderer) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Bot{api: api, render: render}, nil
}

// Username returns the bot account name, useful for startup logging.
func (b *Bot) Username() string { return b.api.Self.UserName }

// Send renders the notification in lang and delivers it, threading to the
// referenced message when the notification asks for it.
func (b *Bot) Send(ctx context.Context, lang string, n events.Notification) error {
	text := b.render.Render(lang, n)
	if text == "" {
		return nil
	}
	msg := tgbotapi.NewMessage(n.ChatID, text)
	if n.ReplyTo != 0 {
		msg.ReplyToMessageID = n.ReplyTo
	}
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", n.ChatID, err)
	}
	return nil
}

// PinReminder sends the daily reminder to the chat and pins it, returning
// the pinned message id so the unpin step can undo it later.
func (b *Bot) PinReminder(ctx context.Context, chatID int64, lang string) (int, error) {
	text := b.render.Render(lang, events.NewNotification(events.KindReminder, chatID))
	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, fmt.Errorf("failed to send reminder to chat %d: %w", chatID, err)
	}
	_, err = b.api.Request(tgbotapi.PinChatMessageConfig{
		ChatID:              chatID,
		MessageID:           sent.MessageID,
		DisableNotification: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to pin reminder in chat %d: %w", chatID, err)
	}
	return sent.MessageID, nil
}

// Unpin removes the previously pinned reminder.
func (b *Bot) Unpin(ctx context.Context, chatID int64, messageID int) error {
	_, err := b.api.Request(tgbotapi.UnpinChatMessageConfig{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return fmt.Errorf("failed to unpin message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}
