package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(ttl time.Duration) (*SessionStore, *time.Time) {
	current := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	s := NewSessionStore(ttl)
	s.now = func() time.Time { return current }
	return s, &current
}

func TestTouchReusesLiveSession(t *testing.T) {
	s, current := newTestStore(30 * time.Minute)
	defer s.Close()

	first := s.Touch("user-1")
	require.NotEmpty(t, first)

	*current = current.Add(10 * time.Minute)
	assert.Equal(t, first, s.Touch("user-1"))
	assert.Equal(t, 1, s.Len())
}

func TestTouchStartsNewSessionAfterTTL(t *testing.T) {
	s, current := newTestStore(30 * time.Minute)
	defer s.Close()

	first := s.Touch("user-1")
	*current = current.Add(31 * time.Minute)
	second := s.Touch("user-1")
	assert.NotEqual(t, first, second)
}

func TestTouchActivityExtendsSession(t *testing.T) {
	s, current := newTestStore(30 * time.Minute)
	defer s.Close()

	first := s.Touch("user-1")
	// Keep touching just inside the window; the session must survive well
	// past a single ttl from its start.
	for i := 0; i < 4; i++ {
		*current = current.Add(20 * time.Minute)
		assert.Equal(t, first, s.Touch("user-1"))
	}
}

func TestSessionsArePerUser(t *testing.T) {
	s, _ := newTestStore(30 * time.Minute)
	defer s.Close()

	a := s.Touch("user-a")
	b := s.Touch("user-b")
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Len())
}

func TestSweepDropsExpiredSessions(t *testing.T) {
	s, current := newTestStore(30 * time.Minute)
	defer s.Close()

	s.Touch("stale")
	*current = current.Add(20 * time.Minute)
	s.Touch("fresh")
	*current = current.Add(15 * time.Minute)

	s.sweep()
	assert.Equal(t, 1, s.Len())
	// The surviving session is still addressable.
	assert.NotEmpty(t, s.Touch("fresh"))
}
