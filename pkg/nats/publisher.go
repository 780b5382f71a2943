package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"intituas-ai-be/pkg/events"

	"github.com/nats-io/nats.go"
)

// Publisher handles sending events to the NATS bus.
type Publisher struct {
	connection
}

var _ events.Publisher = (*Publisher)(nil)

// NewPublisher connects and makes sure the EVENTS stream exists. A stream
// error is logged only; publishing reports its own failures.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.ensureStream(ctx); err != nil {
		log.Printf("Warn: %v", err)
	}

	return &Publisher{connection: conn}, nil
}

// Publish sends an event to NATS. The occurrence time travels in the
// Event-Occurred-At header so subscribers don't have to guess it.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := nats.NewMsg(Subject(event.EventType()))
	msg.Data = data
	msg.Header.Set(HeaderEventType, event.EventType())
	msg.Header.Set(HeaderOccurredAt, event.Timestamp().Format(time.RFC3339Nano))

	if _, err := p.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", msg.Subject, err)
	}
	return nil
}
