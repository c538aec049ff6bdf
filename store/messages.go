package store

import (
	"context"
	"encoding/json"

	"github.com/LupryM/Birthday-reminder-app/models"
)

// messageHistoryCap bounds an initial load; older history is not paged.
const messageHistoryCap = 500

// MessagesFor lists the newest messages of a conversation in chronological
// order, id as tiebreaker.
func (s *Store) MessagesFor(ctx context.Context, conversationID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(messageHistoryCap).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// CreateMessage persists the message and publishes the created row to the
// conversation's live channel. A failed publish does not undo the write;
// subscribers catch up on their next full load.
func (s *Store) CreateMessage(ctx context.Context, message *models.Message) error {
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return err
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return nil
	}
	s.rdb.Publish(ctx, messageChannel(message.ConversationID), payload)
	return nil
}
