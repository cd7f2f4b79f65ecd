package controllers

import (
	"encoding/json"
	"net/http"

	"go-shopmart/events"
	"go-shopmart/models"
	"go-shopmart/repository"
)

// EventController ingests behavioral tracking events
type EventController struct {
	Tracker *events.Tracker
	Users   repository.UserRepository
}

// NewEventController creates a new EventController
func NewEventController(tracker *events.Tracker, users repository.UserRepository) *EventController {
	return &EventController{Tracker: tracker, Users: users}
}

// TrackEvent accepts a behavioral event, stamps it with a session ID and
// forwards it to the message queue. Always succeeds for well-formed input.
func (ec *EventController) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventType string            `json:"event_type"`
		ProductID string            `json:"product_id"`
		Metadata  map[string]string `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.EventType == "" {
		http.Error(w, "event_type is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := currentUser(ctx, r, ec.Users)
	if err != nil {
		writeError(w, err)
		return
	}

	event := ec.Tracker.Track(models.BehaviorEvent{
		UserID:    user.ID.Hex(),
		EventType: req.EventType,
		ProductID: req.ProductID,
		Metadata:  req.Metadata,
	})

	writeJSON(w, http.StatusAccepted, map[string]string{"session_id": event.SessionID})
}
