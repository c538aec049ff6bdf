package store

import (
	"context"
	"encoding/json"
	"log"

	"github.com/LupryM/Birthday-reminder-app/models"
)

func messageChannel(conversationID string) string {
	return "chat:conv:" + conversationID
}

// SubscribeMessages opens a live feed of messages inserted into the
// conversation. The returned release func must be called on every exit path
// of the screen that owns the subscription; after release the channel is
// closed and no more messages are delivered.
func (s *Store) SubscribeMessages(ctx context.Context, conversationID string) (<-chan models.Message, func(), error) {
	sub := s.rdb.Subscribe(ctx, messageChannel(conversationID))

	// Force the subscription onto the wire before any message can be missed.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, err
	}

	out := make(chan models.Message, 16)
	go func() {
		defer close(out)
		for raw := range sub.Channel() {
			var message models.Message
			if err := json.Unmarshal([]byte(raw.Payload), &message); err != nil {
				log.Printf("chat subscription: dropping malformed payload: %v", err)
				continue
			}
			select {
			case out <- message:
			case <-ctx.Done():
				return
			}
		}
	}()

	release := func() {
		sub.Close()
	}
	return out, release, nil
}
