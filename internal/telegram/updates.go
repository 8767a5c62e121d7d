package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yeldir/leetbot/internal/events"
)

// Handler receives validated inbound events. The daemon implements it; both
// methods enqueue onto its serialized loop and return immediately.
type Handler interface {
	OnMessage(msg events.Message)
	OnCommand(cmd events.Command)
}

var commandKinds = map[string]events.CommandKind{
	"start":       events.CommandStart,
	"enable":      events.CommandEnable,
	"disable":     events.CommandDisable,
	"setlanguage": events.CommandSetLanguage,
	"info":        events.CommandInfo,
	"debug":       events.CommandDebug,
	"reset":       events.CommandReset,
}

// Listen long-polls for updates and forwards them to the handler until the
// context is cancelled. Raw updates are validated here: anything that is not
// a text message from an identifiable sender is dropped at the boundary.
func (b *Bot) Listen(ctx context.Context, handler Handler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(update, handler)
		}
	}
}

func (b *Bot) dispatch(update tgbotapi.Update, handler Handler) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}

	if msg.IsCommand() {
		kind, ok := commandKinds[strings.ToLower(msg.Command())]
		if !ok {
			return
		}
		handler.OnCommand(events.Command{
			Kind:      kind,
			ChatID:    msg.Chat.ID,
			Arg:       lastArgument(msg.CommandArguments()),
			MessageID: msg.MessageID,
		})
		return
	}

	handler.OnMessage(events.Message{
		ChatID:      msg.Chat.ID,
		Participant: displayName(msg.From),
		Text:        msg.Text,
		MessageID:   msg.MessageID,
	})
}

// lastArgument returns the final whitespace-separated token of the command
// arguments, or "" when there are none.
func lastArgument(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// displayName picks a legible participant identifier: the username when set,
// otherwise the full name.
func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return "@" + user.UserName
	}
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	return name
}
