package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoAnswerer struct {
	got []dto.AnswerRequest
}

func (e *echoAnswerer) Answer(_ context.Context, req dto.AnswerRequest) dto.AnswerResponse {
	e.got = append(e.got, req)
	return dto.AnswerSuccess("echo: "+req.Question, nil, nil)
}

func runHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)
	return hub
}

func TestHub_NotifyReachesOnlyThatUser(t *testing.T) {
	hub := runHub(t)

	alice := NewClient(hub, nil, "alice", nil, nil)
	aliceTablet := NewClient(hub, nil, "alice", nil, nil)
	bob := NewClient(hub, nil, "bob", nil, nil)
	for _, c := range []*Client{alice, aliceTablet, bob} {
		require.True(t, hub.Register(c))
	}
	require.Eventually(t, func() bool { return hub.Connections() == 3 }, time.Second, 5*time.Millisecond)

	hub.Notify("alice", FrameHistoryUpdated, map[string]int{"count": 1})

	for _, c := range []*Client{alice, aliceTablet} {
		select {
		case raw := <-c.Send:
			var f Frame
			require.NoError(t, json.Unmarshal(raw, &f))
			assert.Equal(t, FrameHistoryUpdated, f.Type)
		case <-time.After(time.Second):
			t.Fatal("no notification delivered")
		}
	}
	assert.Len(t, bob.Send, 0)

	hub.Unregister(bob)
	require.Eventually(t, func() bool { return hub.Connections() == 2 }, time.Second, 5*time.Millisecond)
	_, open := <-bob.Send
	assert.False(t, open, "unregister closes the send channel")
}

func TestHub_NotifyAnonymousIsNoop(t *testing.T) {
	hub := runHub(t)
	anon := NewClient(hub, nil, "", nil, nil)
	require.True(t, hub.Register(anon))
	require.Eventually(t, func() bool { return hub.Connections() == 1 }, time.Second, 5*time.Millisecond)

	hub.Notify("", FrameHistoryUpdated, nil)
	assert.Len(t, anon.Send, 0)
}

func TestHub_StopReleasesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, logger.NewNopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	alice := NewClient(hub, nil, "alice", nil, nil)
	require.True(t, hub.Register(alice))
	require.Eventually(t, func() bool { return hub.Connections() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	select {
	case <-hub.Done():
	default:
		t.Fatal("done not closed after stop")
	}
	assert.Zero(t, hub.Connections())
	alice.queue(Frame{Type: FrameAnswer})
	assert.Len(t, alice.Send, 1, "a late reply is still queued safely")

	unregistered := make(chan struct{})
	go func() {
		hub.Unregister(alice)
		close(unregistered)
	}()
	select {
	case <-unregistered:
	case <-time.After(time.Second):
		t.Fatal("unregister blocked after stop")
	}

	assert.False(t, hub.Register(NewClient(hub, nil, "bob", nil, nil)))
}

func TestClient_HandleFrame(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	answerer := &echoAnswerer{}
	allowed := true
	c := NewClient(hub, nil, "u1", answerer, func(context.Context) bool { return allowed })
	ctx := context.Background()

	f := c.handleFrame(ctx, []byte(`{"id":"1","question":"Why?","documentContent":"Because.","userId":"spoofed"}`))
	assert.Equal(t, FrameAnswer, f.Type)
	assert.Equal(t, "1", f.Id)
	assert.Equal(t, dto.AnswerSuccess("echo: Why?", nil, nil), f.Data)
	require.Len(t, answerer.got, 1)
	assert.Equal(t, "u1", answerer.got[0].UserId)

	f = c.handleFrame(ctx, []byte(`not json`))
	assert.Equal(t, FrameError, f.Type)

	f = c.handleFrame(ctx, []byte(`{"id":"2","question":"   "}`))
	assert.Equal(t, FrameError, f.Type)
	assert.Equal(t, "2", f.Id)
	assert.Equal(t, map[string]string{"question": "cannot be empty"}, f.Data)

	allowed = false
	f = c.handleFrame(ctx, []byte(`{"question":"again"}`))
	assert.Equal(t, constant.UsageLimitMessage, f.Error)
	assert.Len(t, answerer.got, 1)
}
