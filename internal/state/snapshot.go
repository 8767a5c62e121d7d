package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yeldir/leetbot/internal/util/sets"
)

// snapshotVersion guards the on-disk format. Bump on incompatible changes.
const snapshotVersion = 1

// chatSnapshot is the durable form of ChatState. Participants are stored as
// a sorted list so snapshots of equal states are byte-identical.
type chatSnapshot struct {
	Active       bool     `json:"active"`
	Language     string   `json:"language,omitempty"`
	Record       int      `json:"record"`
	Participants []string `json:"participants"`
	Aborted      bool     `json:"aborted"`
}

type snapshot struct {
	Version int                    `json:"version"`
	SavedAt time.Time              `json:"saved_at"`
	Chats   map[int64]chatSnapshot `json:"chats"`
}

// Save serializes the full state to path, creating missing parent
// directories. The write goes to a temporary file first and is renamed into
// place, so a crash mid-write never leaves a truncated snapshot behind.
func (s *Store) Save(path string) error {
	data, err := s.MarshalSnapshot()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary snapshot: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load hydrates the store from the snapshot at path. A missing file is not
// an error: the store just stays empty. A file that exists but fails to
// parse leaves the store empty and returns the parse error so the caller can
// log it; startup must not fail over a bad snapshot.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	return s.UnmarshalSnapshot(data)
}

// MarshalSnapshot renders the durable JSON form of the full state.
func (s *Store) MarshalSnapshot() ([]byte, error) {
	s.mu.RLock()
	snap := snapshot{
		Version: snapshotVersion,
		SavedAt: time.Now().UTC(),
		Chats:   make(map[int64]chatSnapshot, len(s.chats)),
	}
	for id, cs := range s.chats {
		snap.Chats[id] = chatSnapshot{
			Active:       cs.Active,
			Language:     cs.Language,
			Record:       cs.Record,
			Participants: sets.Sorted(cs.Participants),
			Aborted:      cs.Aborted,
		}
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot replaces the store contents with the parsed snapshot.
func (s *Store) UnmarshalSnapshot(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	chats := make(map[int64]*ChatState, len(snap.Chats))
	for id, cs := range snap.Chats {
		chats[id] = &ChatState{
			Active:       cs.Active,
			Language:     cs.Language,
			Record:       cs.Record,
			Participants: sets.New(cs.Participants...),
			Aborted:      cs.Aborted,
		}
	}

	s.mu.Lock()
	s.chats = chats
	s.mu.Unlock()
	return nil
}
