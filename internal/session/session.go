package session

import (
	"sync"
	"time"
)

// Tag identifies which multi-step interaction a user is in the middle of.
type Tag string

const (
	// TagAwaitingCoverPhoto means the next photo from the user is the new
	// cover for a previously chosen video.
	TagAwaitingCoverPhoto Tag = "awaiting_cover_photo"
	// TagAwaitingCoverName means the next text from the user is the name
	// for a photo about to be saved as a cover.
	TagAwaitingCoverName Tag = "awaiting_cover_name"
)

// Entry holds everything needed to complete one pending interaction.
type Entry struct {
	Tag             Tag
	VideoFileID     string // video being re-covered (TagAwaitingCoverPhoto)
	PhotoFileID     string // photo being named (TagAwaitingCoverName)
	Caption         string // original caption to carry onto the re-sent video
	PromptMessageID int    // message to edit or delete when the flow resolves
	CreatedAt       time.Time
}

// Store keeps per-user flow state for the lifetime of the process. State is
// deliberately not durable; see the package doc.
type Store struct {
	mu      sync.Mutex
	entries map[int64]Entry
}

func NewStore() *Store {
	return &Store{
		entries: make(map[int64]Entry),
	}
}

// Set installs or replaces the pending interaction for a user. A newer
// interaction supersedes whatever was pending before.
func (s *Store) Set(uid int64, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.CreatedAt = time.Now()
	s.entries[uid] = entry
}

// Peek reports the pending interaction without consuming it.
func (s *Store) Peek(uid int64) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[uid]
	return entry, ok
}

// TakeIfTag atomically removes and returns the user's pending interaction,
// but only when its tag matches. Consuming under the lock guarantees a
// single inbound message completes at most one pending interaction even when
// events for the same user are handled concurrently.
func (s *Store) TakeIfTag(uid int64, tag Tag) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[uid]
	if !ok || entry.Tag != tag {
		return Entry{}, false
	}

	delete(s.entries, uid)
	return entry, true
}

// Clear drops any pending interaction for the user.
func (s *Store) Clear(uid int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, uid)
}

// Len reports the number of users with a pending interaction.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
