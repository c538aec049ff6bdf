package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/LupryM/Birthday-reminder-app/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(nil, rdb), mr
}

func publish(t *testing.T, s *Store, message models.Message) {
	t.Helper()
	payload, err := json.Marshal(message)
	require.NoError(t, err)
	require.NoError(t, s.rdb.Publish(context.Background(), messageChannel(message.ConversationID), payload).Err())
}

func TestSubscribeMessagesDeliversPublished(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	updates, release, err := s.SubscribeMessages(ctx, "conv-1")
	require.NoError(t, err)
	defer release()

	publish(t, s, models.Message{
		ID:             "msg-1",
		ConversationID: "conv-1",
		SenderID:       "user-1",
		Content:        "hello",
	})

	select {
	case message := <-updates:
		assert.Equal(t, "msg-1", message.ID)
		assert.Equal(t, "hello", message.Content)
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}
}

func TestSubscribeMessagesScopedToConversation(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	updates, release, err := s.SubscribeMessages(ctx, "conv-1")
	require.NoError(t, err)
	defer release()

	publish(t, s, models.Message{ID: "other", ConversationID: "conv-2", Content: "wrong room"})
	publish(t, s, models.Message{ID: "mine", ConversationID: "conv-1", Content: "right room"})

	select {
	case message := <-updates:
		assert.Equal(t, "mine", message.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}
}

func TestSubscribeMessagesDropsMalformedPayload(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	updates, release, err := s.SubscribeMessages(ctx, "conv-1")
	require.NoError(t, err)
	defer release()

	require.NoError(t, s.rdb.Publish(ctx, messageChannel("conv-1"), "{not json").Err())
	publish(t, s, models.Message{ID: "msg-1", ConversationID: "conv-1", Content: "still fine"})

	select {
	case message := <-updates:
		assert.Equal(t, "msg-1", message.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}
}

func TestReleaseClosesChannel(t *testing.T) {
	s, _ := newRedisStore(t)

	updates, release, err := s.SubscribeMessages(context.Background(), "conv-1")
	require.NoError(t, err)

	release()

	select {
	case _, open := <-updates:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after release")
	}
}

func TestTypingExpires(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetTyping(ctx, "conv-1", "user-1"))
	assert.True(t, s.IsTyping(ctx, "conv-1", "user-1"))
	assert.False(t, s.IsTyping(ctx, "conv-1", "user-2"))

	mr.FastForward(6 * time.Second)
	assert.False(t, s.IsTyping(ctx, "conv-1", "user-1"))
}
