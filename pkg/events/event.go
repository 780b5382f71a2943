package events

import (
	"context"
	"time"
)

const (
	TypeQuestionAnswered = "QUESTION_ANSWERED"
	TypeContactSubmitted = "CONTACT_SUBMITTED"
	TypeUserRegistered   = "USER_REGISTERED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "QUESTION_ANSWERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher is implemented by the NATS publisher. Services depend on this
// rather than the concrete bus so a missing broker is just a nil Publisher.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

// QuestionAnswered carries no question or answer text, only shape.
func QuestionAnswered(mode string, userId string, success bool) BaseEvent {
	return New(TypeQuestionAnswered, map[string]interface{}{
		"mode":    mode,
		"user_id": userId,
		"success": success,
	})
}

func ContactSubmitted(contactId string, email string) BaseEvent {
	return New(TypeContactSubmitted, map[string]interface{}{
		"contact_id": contactId,
		"email":      email,
	})
}

func UserRegistered(userId string) BaseEvent {
	return New(TypeUserRegistered, map[string]interface{}{
		"user_id": userId,
	})
}
