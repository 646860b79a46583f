package event

import (
	"time"

	"github.com/google/uuid"
)

// Payload keys used by application events
const (
	KeyTitle      = "title"
	KeyFromStatus = "from_status"
	KeyToStatus   = "to_status"
)

// Event is something that happened to an application or report.
// SubjectID is the ID of that record, UserID the applicant and ActorID the user who
// caused the event.
type Event struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	SubjectID int64                  `json:"subject_id"`
	UserID    int64                  `json:"user_id"`
	ActorID   int64                  `json:"actor_id"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewEvent creates an event with a fresh ID and the current time
func NewEvent(eventType Type, subjectID, userID, actorID int64, payload map[string]interface{}) *Event {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		UserID:    userID,
		ActorID:   actorID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// WithPayload returns a copy of the event with key set; the receiver is not modified
func (e *Event) WithPayload(key string, value interface{}) *Event {
	payload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		payload[k] = v
	}
	payload[key] = value

	cp := *e
	cp.Payload = payload
	return &cp
}

// GetPayloadString returns the string stored under key, or "" when absent or not a string
func (e *Event) GetPayloadString(key string) string {
	if s, ok := e.Payload[key].(string); ok {
		return s
	}
	return ""
}
