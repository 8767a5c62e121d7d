package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyChatID      = "chat_id"
	KeyParticipant = "participant"
	KeyStep        = "step"
	KeyCycleID     = "cycle_id"
	KeyOutcome     = "outcome"
	KeyKind        = "kind"
	KeyLanguage    = "language"
	KeyPath        = "path"
	KeyCount       = "count"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ChatID(id int64) slog.Attr       { return slog.Int64(KeyChatID, id) }
func Participant(p string) slog.Attr  { return slog.String(KeyParticipant, p) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func CycleID(id string) slog.Attr     { return slog.String(KeyCycleID, id) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Language(lang string) slog.Attr  { return slog.String(KeyLanguage, lang) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
