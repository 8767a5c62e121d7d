package daemon

import (
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/yeldir/leetbot/internal/events"
	"github.com/yeldir/leetbot/internal/leet"
	"github.com/yeldir/leetbot/internal/logfields"
)

// noWinner is the sentinel carried in report notifications when nobody
// participated.
const noWinner = ""

// runReminder pins the daily reminder in every active chat and records which
// chats were newly pinned so the unpin step can undo exactly those.
func (d *Daemon) runReminder(ctx context.Context) {
	cycleID := uuid.NewString()
	var failed int
	for _, chatID := range d.store.ActiveChats() {
		err := protect(chatID, "reminder", func() error {
			messageID, err := d.transport.PinReminder(ctx, chatID, d.store.Language(chatID))
			if err != nil {
				return err
			}
			d.pinned[chatID] = messageID
			return nil
		})
		if err != nil {
			failed++
			slog.Error("Reminder failed", logfields.Step("reminder"),
				logfields.CycleID(cycleID), logfields.ChatID(chatID), logfields.Error(err))
		}
	}
	slog.Info("Reminder step done", logfields.Step("reminder"),
		logfields.CycleID(cycleID), logfields.Count(len(d.pinned)), slog.Int("failed", failed))
}

// runCountdown warns every active chat that the window is about to open.
func (d *Daemon) runCountdown(ctx context.Context) {
	cycleID := uuid.NewString()
	for _, chatID := range d.store.ActiveChats() {
		err := protect(chatID, "countdown", func() error {
			return d.transport.Send(ctx, d.store.Language(chatID),
				events.NewNotification(events.KindCountdown, chatID))
		})
		if err != nil {
			slog.Error("Countdown failed", logfields.Step("countdown"),
				logfields.CycleID(cycleID), logfields.ChatID(chatID), logfields.Error(err))
		}
	}
}

// runReport computes and emits each active chat's daily report, then applies
// the record update and daily reset. The summary is taken and the report
// emitted strictly before FinishDay so the report never reads post-reset
// state. Chats are processed in isolation; one failure never stops the rest.
func (d *Daemon) runReport(ctx context.Context) {
	cycleID := uuid.NewString()
	for _, chatID := range d.store.ActiveChats() {
		err := protect(chatID, "report", func() error {
			summary := d.store.Summarize(chatID)
			winner, ok := leet.PickWinner(d.rnd, summary.Participants)
			if !ok {
				winner = noWinner
			}

			n := events.NewNotification(events.KindReportSummary, chatID).
				With("count", summary.Count).
				With("new_record", summary.Count > summary.Record).
				With("delta", summary.Count-summary.Record).
				With("winner", winner).
				With("participants", summary.Participants).
				With("aborted", summary.Aborted)

			sendErr := d.transport.Send(ctx, d.store.Language(chatID), n)

			// The reset happens even when delivery failed; skipping it would
			// leak today's participants into tomorrow.
			d.store.FinishDay(chatID, summary.Count)
			d.metrics.reportsTotal.Inc()

			slog.Info("Daily report", logfields.Step("report"), logfields.CycleID(cycleID),
				logfields.ChatID(chatID), logfields.Count(summary.Count),
				slog.Bool("new_record", summary.Count > summary.Record))
			return sendErr
		})
		if err != nil {
			slog.Error("Report failed", logfields.Step("report"),
				logfields.CycleID(cycleID), logfields.ChatID(chatID), logfields.Error(err))
		}
	}
}

// runUnpin removes whatever the reminder step pinned today.
func (d *Daemon) runUnpin(ctx context.Context) {
	cycleID := uuid.NewString()
	pinned := make([]int64, 0, len(d.pinned))
	for chatID := range d.pinned {
		pinned = append(pinned, chatID)
	}
	slices.Sort(pinned)
	for _, chatID := range pinned {
		messageID := d.pinned[chatID]
		err := protect(chatID, "unpin", func() error {
			return d.transport.Unpin(ctx, chatID, messageID)
		})
		if err != nil {
			slog.Error("Unpin failed", logfields.Step("unpin"),
				logfields.CycleID(cycleID), logfields.ChatID(chatID), logfields.Error(err))
		}
		delete(d.pinned, chatID)
	}
}
