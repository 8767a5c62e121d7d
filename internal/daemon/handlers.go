package daemon

import (
	"context"
	"log/slog"

	"github.com/yeldir/leetbot/internal/events"
	"github.com/yeldir/leetbot/internal/leet"
	"github.com/yeldir/leetbot/internal/logfields"
)

// OnMessage implements telegram.Handler. It enqueues onto the serialized
// loop and returns immediately; messages for a chat are processed in arrival
// order.
func (d *Daemon) OnMessage(msg events.Message) {
	d.enqueue(func() { d.handleMessage(context.Background(), msg) })
}

// OnCommand implements telegram.Handler.
func (d *Daemon) OnCommand(cmd events.Command) {
	d.enqueue(func() { d.handleCommand(context.Background(), cmd) })
}

func (d *Daemon) handleMessage(ctx context.Context, msg events.Message) {
	err := protect(msg.ChatID, "message", func() error {
		res := d.classifier.Classify(msg.ChatID, msg.Participant, msg.Text)
		d.metrics.messagesTotal.WithLabelValues(string(res.Outcome)).Inc()

		switch res.Outcome {
		case leet.OutcomeAborted:
			slog.Info("Day aborted",
				logfields.ChatID(msg.ChatID), logfields.Participant(res.Participant))
			d.notify(ctx, events.NewNotification(events.KindViolationOffender, msg.ChatID).
				With("offender", res.Participant).
				InReplyTo(msg.MessageID))
		case leet.OutcomeOffWindow:
			d.notify(ctx, events.NewNotification(events.KindViolationTiming, msg.ChatID).
				InReplyTo(msg.MessageID))
		case leet.OutcomeRecorded:
			slog.Debug("Participant recorded",
				logfields.ChatID(msg.ChatID), logfields.Participant(res.Participant))
		}
		return nil
	})
	if err != nil {
		slog.Error("Message handling failed", logfields.ChatID(msg.ChatID), logfields.Error(err))
	}
}

// commandHandlers is the explicit dispatch table from command kind to
// handler; all handlers run on the serialized loop.
var commandHandlers = map[events.CommandKind]func(*Daemon, context.Context, events.Command){
	events.CommandStart:       (*Daemon).handleStart,
	events.CommandEnable:      (*Daemon).handleEnable,
	events.CommandDisable:     (*Daemon).handleDisable,
	events.CommandSetLanguage: (*Daemon).handleSetLanguage,
	events.CommandInfo:        (*Daemon).handleInfo,
	events.CommandDebug:       (*Daemon).handleDebug,
	events.CommandReset:       (*Daemon).handleReset,
}

func (d *Daemon) handleCommand(ctx context.Context, cmd events.Command) {
	handler, ok := commandHandlers[cmd.Kind]
	if !ok {
		return
	}
	err := protect(cmd.ChatID, "command", func() error {
		handler(d, ctx, cmd)
		return nil
	})
	if err != nil {
		slog.Error("Command handling failed",
			logfields.ChatID(cmd.ChatID), logfields.Kind(string(cmd.Kind)), logfields.Error(err))
	}
}

func (d *Daemon) handleStart(ctx context.Context, cmd events.Command) {
	d.notify(ctx, events.NewNotification(events.KindStart, cmd.ChatID))
}

func (d *Daemon) handleEnable(ctx context.Context, cmd events.Command) {
	kind := events.KindAlreadyEnabled
	if d.store.Enable(cmd.ChatID) {
		kind = events.KindEnabled
		slog.Info("Chat enabled", logfields.ChatID(cmd.ChatID))
	}
	d.notify(ctx, events.NewNotification(kind, cmd.ChatID))
}

func (d *Daemon) handleDisable(ctx context.Context, cmd events.Command) {
	kind := events.KindAlreadyDisabled
	if d.store.Disable(cmd.ChatID) {
		kind = events.KindDisabled
		slog.Info("Chat disabled", logfields.ChatID(cmd.ChatID))
	}
	d.notify(ctx, events.NewNotification(kind, cmd.ChatID))
}

func (d *Daemon) handleSetLanguage(ctx context.Context, cmd events.Command) {
	if err := d.store.SetLanguage(cmd.ChatID, cmd.Arg); err != nil {
		d.notify(ctx, events.NewNotification(events.KindLanguageUnknown, cmd.ChatID).
			With("language", cmd.Arg))
		return
	}
	slog.Info("Language changed", logfields.ChatID(cmd.ChatID), logfields.Language(cmd.Arg))
	d.notify(ctx, events.NewNotification(events.KindLanguageChanged, cmd.ChatID))
}

func (d *Daemon) handleInfo(ctx context.Context, cmd events.Command) {
	d.notify(ctx, events.NewNotification(events.KindInfoSummary, cmd.ChatID).
		With("language", d.store.Language(cmd.ChatID)).
		With("active", d.store.IsActive(cmd.ChatID)).
		With("record", d.store.Record(cmd.ChatID)).
		With("hour", d.cfg.Window.Hour).
		With("minute", d.cfg.Window.Minute).
		With("timezone", d.cfg.Window.Timezone).
		With("version", d.version))
}

func (d *Daemon) handleDebug(ctx context.Context, cmd events.Command) {
	dump, err := d.store.MarshalSnapshot()
	if err != nil {
		slog.Error("Debug dump failed", logfields.ChatID(cmd.ChatID), logfields.Error(err))
		return
	}
	d.notify(ctx, events.NewNotification(events.KindDebugDump, cmd.ChatID).
		With("dump", string(dump)))
}

func (d *Daemon) handleReset(ctx context.Context, cmd events.Command) {
	d.store.ResetDay(cmd.ChatID)
	slog.Info("Day state reset", logfields.ChatID(cmd.ChatID))
	d.notify(ctx, events.NewNotification(events.KindStateReset, cmd.ChatID))
}

// notify delivers one notification, resolving the chat's language. Transport
// failures are logged and counted, never propagated: at-least-once,
// chat-isolated delivery is the contract.
func (d *Daemon) notify(ctx context.Context, n events.Notification) {
	lang := d.store.Language(n.ChatID)
	if err := d.transport.Send(ctx, lang, n); err != nil {
		d.metrics.notifyFailures.Inc()
		slog.Error("Notification delivery failed",
			logfields.ChatID(n.ChatID), logfields.Kind(string(n.Kind)), logfields.Error(err))
	}
}
