package nats

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		subject  string
		header   nats.Header
		data     string
		wantType string
		wantAt   *time.Time
		wantErr  bool
	}{
		{
			name:     "headers win",
			subject:  "events.SOMETHING_ELSE",
			header:   nats.Header{HeaderEventType: []string{"QUESTION_ANSWERED"}, HeaderOccurredAt: []string{at.Format(time.RFC3339Nano)}},
			data:     `{"mode":"document"}`,
			wantType: "QUESTION_ANSWERED",
			wantAt:   &at,
		},
		{
			name:     "subject fallback",
			subject:  "events.CONTACT_SUBMITTED",
			header:   nats.Header{},
			data:     `{}`,
			wantType: "CONTACT_SUBMITTED",
		},
		{
			name:    "bad payload",
			subject: "events.X",
			header:  nats.Header{},
			data:    `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := DecodeEvent(tt.subject, tt.header, []byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, event.EventType())
			if tt.wantAt != nil {
				assert.True(t, tt.wantAt.Equal(event.Timestamp()))
			}
		})
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.USER_REGISTERED", Subject("USER_REGISTERED"))
}
