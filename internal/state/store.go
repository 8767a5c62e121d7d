// Package state owns the per-chat game state and its persistence. All
// mutation goes through named transition operations on Store; callers never
// reach into ChatState directly. Entries are created lazily on first
// reference and never deleted, so disabling a chat leaves its day state
// inert rather than wiped.
package state

import (
	"errors"
	"slices"
	"sync"

	"github.com/yeldir/leetbot/internal/util/sets"
)

// ErrUnsupportedLanguage is returned by SetLanguage for codes outside the
// configured supported set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ChatState is the per-chat slice of the global state.
type ChatState struct {
	Active       bool
	Language     string // empty means "use the process default"
	Record       int
	Participants sets.Set[string]
	Aborted      bool
}

func newChatState() *ChatState {
	return &ChatState{Participants: sets.New[string]()}
}

// DaySummary is a read-only view of one chat's day, taken by the report step
// before the daily reset.
type DaySummary struct {
	Count        int
	Participants []string
	Record       int
	Aborted      bool
}

// Store holds the chat → state mapping plus the language policy. It is safe
// for concurrent use, though the daemon funnels all writes through one loop.
type Store struct {
	mu          sync.RWMutex
	chats       map[int64]*ChatState
	defaultLang string
	supported   sets.Set[string]
}

// NewStore creates an empty store with the given language policy.
func NewStore(defaultLanguage string, supported []string) *Store {
	return &Store{
		chats:       make(map[int64]*ChatState),
		defaultLang: defaultLanguage,
		supported:   sets.New(supported...),
	}
}

// SetLanguagePolicy replaces the default language and supported set. Used by
// config hot-reload; per-chat language choices are left untouched.
func (s *Store) SetLanguagePolicy(defaultLanguage string, supported []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultLang = defaultLanguage
	s.supported = sets.New(supported...)
}

// chat returns the state for id, creating it with defaults on first sight.
// Callers must hold s.mu.
func (s *Store) chat(id int64) *ChatState {
	cs, ok := s.chats[id]
	if !ok {
		cs = newChatState()
		s.chats[id] = cs
	}
	return cs
}

// Enable marks the chat active. Returns false if it already was.
func (s *Store) Enable(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.chat(id)
	if cs.Active {
		return false
	}
	cs.Active = true
	return true
}

// Disable marks the chat inactive. Returns false if it already was.
// Day state is deliberately left alone so re-enabling resumes mid-day.
func (s *Store) Disable(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.chat(id)
	if !cs.Active {
		return false
	}
	cs.Active = false
	return true
}

// SetLanguage sets the chat's language after validating it against the
// supported set.
func (s *Store) SetLanguage(id int64, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.supported.Has(lang) {
		return ErrUnsupportedLanguage
	}
	s.chat(id).Language = lang
	return nil
}

// Language resolves the chat's language, falling back to the default for
// unset or no-longer-supported codes.
func (s *Store) Language(id int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cs, ok := s.chats[id]; ok && cs.Language != "" && s.supported.Has(cs.Language) {
		return cs.Language
	}
	return s.defaultLang
}

// RecordParticipant adds a participant to today's set. Once the day is
// aborted the set must not grow, so this is a no-op then.
func (s *Store) RecordParticipant(id int64, participant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.chat(id)
	if cs.Aborted {
		return
	}
	cs.Participants.Add(participant)
}

// Abort spoils the chat's day. One-way until the next daily reset.
func (s *Store) Abort(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat(id).Aborted = true
}

// ResetDay clears today's participants and the aborted flag.
func (s *Store) ResetDay(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.chat(id)
	cs.Participants = sets.New[string]()
	cs.Aborted = false
}

// IsActive reports whether the chat participates in the daily cycle.
func (s *Store) IsActive(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.chats[id]
	return ok && cs.Active
}

// IsAborted reports whether the chat's current day is spoiled.
func (s *Store) IsAborted(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.chats[id]
	return ok && cs.Aborted
}

// HasParticipant reports whether the participant already posted validly today.
func (s *Store) HasParticipant(id int64, participant string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.chats[id]
	return ok && cs.Participants.Has(participant)
}

// Record returns the chat's all-time daily record.
func (s *Store) Record(id int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cs, ok := s.chats[id]; ok {
		return cs.Record
	}
	return 0
}

// ActiveChats returns the ids of all active chats in ascending order.
func (s *Store) ActiveChats() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []int64
	for id, cs := range s.chats {
		if cs.Active {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Summarize takes the read-only day summary used by the report step. It does
// not mutate anything: the report must be computed and emitted before
// FinishDay applies the record update and reset.
func (s *Store) Summarize(id int64) DaySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.chats[id]
	if !ok {
		return DaySummary{}
	}
	return DaySummary{
		Count:        cs.Participants.Len(),
		Participants: sets.Sorted(cs.Participants),
		Record:       cs.Record,
		Aborted:      cs.Aborted,
	}
}

// FinishDay raises the record to count if it beats it, then performs the
// daily reset. Record only ever moves upward.
func (s *Store) FinishDay(id int64, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.chat(id)
	if count > cs.Record {
		cs.Record = count
	}
	cs.Participants = sets.New[string]()
	cs.Aborted = false
}
