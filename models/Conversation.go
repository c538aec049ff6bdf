package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is the unique symmetric pairing of two distinct profiles.
// A conversation between A and B is the same row no matter who opened it
// first; a unique index on (least, greatest) of the pair enforces at most
// one per pair (see storage migrations).
type Conversation struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Participant1 string    `json:"participant1" gorm:"type:uuid;index;not null"`
	Participant2 string    `json:"participant2" gorm:"type:uuid;index;not null"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Includes reports whether the given profile is one of the two participants.
func (c *Conversation) Includes(profileID string) bool {
	return c.Participant1 == profileID || c.Participant2 == profileID
}

// Other returns the participant that is not the given profile.
func (c *Conversation) Other(profileID string) string {
	if c.Participant1 == profileID {
		return c.Participant2
	}
	return c.Participant1
}
