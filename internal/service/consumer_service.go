package service

import (
	"context"
	"encoding/json"
	"time"

	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/pkg/logger"
	"intituas-ai-be/internal/repository/contract"
	"intituas-ai-be/pkg/metrics"

	"github.com/ThreeDotsLabs/watermill/message"
)

const appendTimeout = 10 * time.Second

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	store      contract.HistoryStore
	metrics    *metrics.Metrics
	logger     logger.ILogger
}

// NewConsumerService drains the history topic into the store.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	store contract.HistoryStore,
	m *metrics.Metrics,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		store:      store,
		metrics:    m,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks. A malformed payload will never succeed, and a
// failed write is non-fatal for history, so neither is redelivered.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.RecordHistoryMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("HISTORY", "Dropping malformed history message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	if payload.UserId == "" {
		cs.logger.Warn("HISTORY", "Dropping history message without user", map[string]interface{}{"message_id": msg.UUID})
		return
	}

	// A message already taken off the topic is written even during shutdown.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), appendTimeout)
	defer cancel()
	_, err := cs.store.Append(storeCtx, payload.UserId, payload.Question, payload.Answer, payload.Citations)
	if cs.metrics != nil {
		cs.metrics.HistoryWritesTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	}
	if err != nil {
		cs.logger.Error("HISTORY", "Failed to append history entry", map[string]interface{}{
			"message_id": msg.UUID,
			"user_id":    payload.UserId,
			"error":      err.Error(),
		})
		return
	}

	cs.logger.Debug("HISTORY", "History entry recorded", map[string]interface{}{"user_id": payload.UserId})
}
