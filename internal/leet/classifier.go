package leet

import (
	"github.com/yeldir/leetbot/internal/state"
)

// Outcome is the classifier's verdict for one inbound message.
type Outcome string

const (
	// OutcomeNoOp means the message changed nothing and warrants no reply.
	OutcomeNoOp Outcome = "noop"
	// OutcomeRecorded means the participant validly posted inside the window.
	OutcomeRecorded Outcome = "recorded"
	// OutcomeAborted means this message spoiled the chat's day.
	OutcomeAborted Outcome = "aborted"
	// OutcomeOffWindow means the token was posted outside the window.
	OutcomeOffWindow Outcome = "off-window"
)

// Result carries everything the caller needs to build a notification without
// re-querying state.
type Result struct {
	Outcome     Outcome
	ChatID      int64
	Participant string
}

// Classifier applies the per-message decision table against the store and
// the window oracle. Token is the exact text a valid post must consist of.
type Classifier struct {
	Store  *state.Store
	Oracle *Oracle
	Token  string
}

// NewClassifier creates a classifier over the given store and oracle.
func NewClassifier(store *state.Store, oracle *Oracle, token string) *Classifier {
	return &Classifier{Store: store, Oracle: oracle, Token: token}
}

// Classify evaluates one inbound message. Rules, in order:
//
//  1. inactive chat: no-op
//  2. inside window, day already aborted: no-op
//  3. inside window, wrong text or double post: abort, naming the offender
//  4. inside window, exact token, first post: recorded
//  5. outside window, exact token: off-window violation (no state change)
//  6. anything else: no-op
//
// The abort in rule 3 is one-way for the day; rule 2 guarantees it fires for
// the first qualifying message only.
func (c *Classifier) Classify(chatID int64, participant, text string) Result {
	res := Result{Outcome: OutcomeNoOp, ChatID: chatID, Participant: participant}

	if !c.Store.IsActive(chatID) {
		return res
	}

	if c.Oracle.Within() {
		if c.Store.IsAborted(chatID) {
			return res
		}
		if text != c.Token || c.Store.HasParticipant(chatID, participant) {
			c.Store.Abort(chatID)
			res.Outcome = OutcomeAborted
			return res
		}
		c.Store.RecordParticipant(chatID, participant)
		res.Outcome = OutcomeRecorded
		return res
	}

	if text == c.Token {
		res.Outcome = OutcomeOffWindow
	}
	return res
}
