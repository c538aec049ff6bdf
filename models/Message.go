package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message belongs to one conversation and is immutable once created.
// CreatedAt is assigned by the server and drives display ordering.
type Message struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID string    `json:"conversationID" gorm:"type:uuid;index;not null"`
	SenderID       string    `json:"senderID" gorm:"type:uuid;not null"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
