// Package events defines the closed set of event variants crossing the
// transport boundary: inbound messages and commands arriving from the chat
// transport, and outbound notifications handed back to it for rendering and
// delivery. Validation of raw transport payloads happens before any of these
// values are constructed; the core only ever sees well-formed events.
package events

// Message is a plain chat message from a participant.
type Message struct {
	ChatID      int64
	Participant string
	Text        string
	MessageID   int
}

// CommandKind enumerates the bot commands understood by the core.
type CommandKind string

const (
	CommandStart       CommandKind = "start"
	CommandEnable      CommandKind = "enable"
	CommandDisable     CommandKind = "disable"
	CommandSetLanguage CommandKind = "setLanguage"
	CommandInfo        CommandKind = "info"
	CommandDebug       CommandKind = "debug"
	CommandReset       CommandKind = "reset"
)

// Command is a bot command issued in a chat. Arg carries the single optional
// argument (currently only used by setLanguage).
type Command struct {
	Kind      CommandKind
	ChatID    int64
	Arg       string
	MessageID int
}

// Kind identifies an outbound notification variant. The transport collaborator
// renders Kind plus Params into chat-native text.
type Kind string

const (
	KindViolationOffender Kind = "violation.offender"
	KindViolationTiming   Kind = "violation.off-window"
	KindReportSummary     Kind = "report.summary"
	KindLanguageChanged   Kind = "language.changed"
	KindLanguageUnknown   Kind = "language.unknown"
	KindInfoSummary       Kind = "info.summary"
	KindDebugDump         Kind = "debug.dump"
	KindStart             Kind = "lifecycle.start"
	KindReminder          Kind = "lifecycle.reminder"
	KindCountdown         Kind = "lifecycle.countdown"
	KindEnabled           Kind = "chat.enabled"
	KindAlreadyEnabled    Kind = "chat.already-enabled"
	KindDisabled          Kind = "chat.disabled"
	KindAlreadyDisabled   Kind = "chat.already-disabled"
	KindStateReset        Kind = "debug.state-reset"
)

// Notification is an outbound notification event. ReplyTo, when non-zero,
// asks the transport to thread the message to the referenced inbound message.
type Notification struct {
	Kind    Kind
	ChatID  int64
	ReplyTo int
	Params  map[string]any
}

// NewNotification builds a notification with an initialized parameter map.
func NewNotification(kind Kind, chatID int64) Notification {
	return Notification{Kind: kind, ChatID: chatID, Params: make(map[string]any)}
}

// With adds a parameter and returns the notification for chaining.
func (n Notification) With(key string, value any) Notification {
	n.Params[key] = value
	return n
}

// InReplyTo sets the message reference for threading.
func (n Notification) InReplyTo(messageID int) Notification {
	n.ReplyTo = messageID
	return n
}
