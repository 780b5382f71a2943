package service

import (
	"context"
	"testing"
	"time"

	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/entity"
	"intituas-ai-be/pkg/metrics"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "RECORD_SEARCH_HISTORY"

func TestAsyncRecorder_ConsumerAppends(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory, _ := newTestFactory(t)
	store := NewHistoryService(factory, stepClock())
	m := metrics.New()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	consumer := NewConsumerService(pubSub, testTopic, store, m, nopLog)
	require.NoError(t, consumer.Consume(ctx))

	recorder := NewAsyncHistoryRecorder(pubSub, testTopic)

	// Malformed payloads are dropped without blocking later ones.
	require.NoError(t, pubSub.Publish(testTopic, message.NewMessage(watermill.NewUUID(), []byte("{not json"))))

	for _, q := range []string{"first", "second"} {
		require.NoError(t, recorder.Record(ctx, dto.RecordHistoryMessage{UserId: "u1", Question: q, Answer: "a"}))
	}

	assert.Eventually(t, func() bool {
		entries, err := store.ListRecent(ctx, "u1", 5)
		return err == nil && len(entries) == 2
	}, 5*time.Second, 20*time.Millisecond)

	entries, err := store.ListRecent(ctx, "u1", 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"first", "second"}, questions(entries))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HistoryWritesTotal.WithLabelValues("success")))
}

func TestAsyncRecorder_ClosedPubSub(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	require.NoError(t, pubSub.Close())

	recorder := NewAsyncHistoryRecorder(pubSub, testTopic)
	err := recorder.Record(context.Background(), dto.RecordHistoryMessage{UserId: "u", Question: "q", Answer: "a"})
	assert.Error(t, err)
}

// ctxStore fails appends whose context is already done.
type ctxStore struct {
	appended []string
}

func (s *ctxStore) Append(ctx context.Context, userId, question, _ string, _ []string) (*entity.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.appended = append(s.appended, question)
	return &entity.HistoryEntry{UserId: userId, Question: question}, nil
}

func (s *ctxStore) ListRecent(context.Context, string, int) ([]*entity.HistoryEntry, error) {
	return nil, nil
}

func TestConsumer_DrainsAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &ctxStore{}
	m := metrics.New()
	consumer := NewConsumerService(nil, testTopic, store, m, nopLog).(*consumerService)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"userId":"u1","question":"queued","answer":"a"}`))
	consumer.processMessage(ctx, msg)

	assert.Equal(t, []string{"queued"}, store.appended)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HistoryWritesTotal.WithLabelValues("success")))
}
