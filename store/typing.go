package store

import (
	"context"
	"fmt"
	"time"
)

func typingKey(conversationID, userID string) string {
	return fmt.Sprintf("typing:conv:%s:user:%s", conversationID, userID)
}

// SetTyping marks the user as typing in the conversation for 5 seconds.
func (s *Store) SetTyping(ctx context.Context, conversationID, userID string) error {
	return s.rdb.Set(ctx, typingKey(conversationID, userID), "1", 5*time.Second).Err()
}

func (s *Store) IsTyping(ctx context.Context, conversationID, userID string) bool {
	val, err := s.rdb.Get(ctx, typingKey(conversationID, userID)).Result()
	return err == nil && val == "1"
}
