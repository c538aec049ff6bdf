package store

import (
	"context"
	"errors"

	"github.com/LupryM/Birthday-reminder-app/models"

	"gorm.io/gorm"
)

func (s *Store) ConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := s.db.WithContext(ctx).First(&conversation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ConversationBetween resolves the symmetric pair {a, b} regardless of which
// participant was stored first. Returns (nil, nil) when none exists.
func (s *Store) ConversationBetween(ctx context.Context, a, b string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.WithContext(ctx).
		Where("(participant1 = ? AND participant2 = ?) OR (participant1 = ? AND participant2 = ?)",
			a, b, b, a).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// FindOrCreateConversation returns the one conversation for the pair,
// creating it lazily on first chat access. Two participants opening the
// chat at the same time race on the unique pair index; the loser re-reads
// the winner's row.
func (s *Store) FindOrCreateConversation(ctx context.Context, a, b string) (*models.Conversation, error) {
	existing, err := s.ConversationBetween(ctx, a, b)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	conversation := models.Conversation{Participant1: a, Participant2: b}
	if err := s.db.WithContext(ctx).Create(&conversation).Error; err != nil {
		if winner, readErr := s.ConversationBetween(ctx, a, b); readErr == nil && winner != nil {
			return winner, nil
		}
		return nil, err
	}
	return &conversation, nil
}
