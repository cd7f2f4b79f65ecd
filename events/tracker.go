package events

import (
	"time"

	log "github.com/sirupsen/logrus"

	"go-shopmart/models"
)

// Publisher is the queue side of the tracker.
type Publisher interface {
	Publish(key string, event interface{}) error
}

// Tracker assigns session IDs to inbound behavioral events and forwards them
// to the message queue.
type Tracker struct {
	sessions  *SessionStore
	publisher Publisher
	now       func() time.Time
	logger    *log.Entry
}

// NewTracker wires a Tracker. publisher may be nil, in which case events are
// only session-stamped and dropped (useful when Kafka is not configured).
func NewTracker(sessions *SessionStore, publisher Publisher) *Tracker {
	return &Tracker{
		sessions:  sessions,
		publisher: publisher,
		now:       time.Now,
		logger:    log.WithField("component", "event-tracker"),
	}
}

// Track stamps the event with a session ID and timestamp and forwards it.
// Forwarding is best-effort and never fails the caller.
func (t *Tracker) Track(event models.BehaviorEvent) models.BehaviorEvent {
	event.SessionID = t.sessions.Touch(event.UserID)
	event.OccurredAt = t.now()

	if t.publisher == nil {
		return event
	}
	if err := t.publisher.Publish(event.UserID, event); err != nil {
		t.logger.WithError(err).WithField("event_type", event.EventType).
			Warn("failed to forward behavioral event")
	}
	return event
}
