package service

import (
	"context"
	"encoding/json"
	"fmt"

	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/repository/contract"
	"intituas-ai-be/pkg/metrics"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IHistoryRecorder records a successful answer for a user.
type IHistoryRecorder interface {
	Record(ctx context.Context, msg dto.RecordHistoryMessage) error
}

// NopHistoryRecorder discards entries. The CLI uses it for anonymous questions.
type NopHistoryRecorder struct{}

func (NopHistoryRecorder) Record(context.Context, dto.RecordHistoryMessage) error { return nil }

type syncHistoryRecorder struct {
	store   contract.HistoryStore
	metrics *metrics.Metrics
}

func NewSyncHistoryRecorder(store contract.HistoryStore, m *metrics.Metrics) IHistoryRecorder {
	return &syncHistoryRecorder{store: store, metrics: m}
}

func (r *syncHistoryRecorder) Record(ctx context.Context, msg dto.RecordHistoryMessage) error {
	_, err := r.store.Append(ctx, msg.UserId, msg.Question, msg.Answer, msg.Citations)
	if r.metrics != nil {
		r.metrics.HistoryWritesTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	}
	return err
}

type asyncHistoryRecorder struct {
	publisher message.Publisher
	topicName string
}

// NewAsyncHistoryRecorder hands entries to the history consumer through
// an in-process topic. Record returns once the message is queued.
func NewAsyncHistoryRecorder(publisher message.Publisher, topicName string) IHistoryRecorder {
	return &asyncHistoryRecorder{publisher: publisher, topicName: topicName}
}

func (r *asyncHistoryRecorder) Record(ctx context.Context, msg dto.RecordHistoryMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal history message: %w", err)
	}

	m := message.NewMessage(watermill.NewUUID(), payload)
	m.SetContext(ctx)
	if err := r.publisher.Publish(r.topicName, m); err != nil {
		return fmt.Errorf("publish history message: %w: %w", contract.ErrHistoryUnavailable, err)
	}
	return nil
}
