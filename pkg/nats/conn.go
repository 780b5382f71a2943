package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName    = "EVENTS"
	SubjectPrefix = "events."

	HeaderEventType  = "Event-Type"
	HeaderOccurredAt = "Event-Occurred-At"

	streamMaxAge = 7 * 24 * time.Hour
)

// connection is shared by Publisher and Subscriber.
type connection struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func connect(url string) (connection, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return connection{}, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return connection{}, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return connection{nc: nc, js: js}, nil
}

// ensureStream creates or updates the EVENTS stream that holds every
// domain event for a week.
func (c connection) ensureStream(ctx context.Context) error {
	_, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectPrefix + ">"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    streamMaxAge,
	})
	if err != nil {
		return fmt.Errorf("ensure stream %s: %w", StreamName, err)
	}
	return nil
}

func (c connection) Close() {
	if c.nc != nil {
		c.nc.Close()
	}
}

// Subject maps an event type onto the EVENTS stream.
func Subject(eventType string) string {
	return SubjectPrefix + eventType
}
