package models

import "time"

// BehaviorEvent is a single behavioral tracking event (view, click,
// add-to-cart and so on) forwarded to the message queue for downstream
// analytics and recommendations.
type BehaviorEvent struct {
	UserID     string            `json:"user_id"`
	SessionID  string            `json:"session_id"`
	EventType  string            `json:"event_type"`
	ProductID  string            `json:"product_id,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
