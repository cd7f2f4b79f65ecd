package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore correlates a user's events under a session ID. A session
// expires after ttl of inactivity; expired entries are swept periodically so
// the map does not grow for the lifetime of the process.
type SessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*sessionEntry
	stop    chan struct{}
	now     func() time.Time
}

type sessionEntry struct {
	sessionID string
	lastSeen  time.Time
}

// NewSessionStore creates a store and starts its sweep loop.
func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		ttl:     ttl,
		entries: make(map[string]*sessionEntry),
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	go s.sweepLoop()
	return s
}

// Touch returns the user's current session ID, starting a new session when
// the previous one has expired or none exists.
func (s *SessionStore) Touch(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[userID]
	if !ok || now.Sub(entry.lastSeen) > s.ttl {
		entry = &sessionEntry{sessionID: uuid.NewString()}
		s.entries[userID] = entry
	}
	entry.lastSeen = now
	return entry.sessionID
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the sweep loop.
func (s *SessionStore) Close() {
	close(s.stop)
}

func (s *SessionStore) sweepLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *SessionStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	for userID, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(s.entries, userID)
		}
	}
}
