package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is the authentication identity. Profile data lives in models.Profile,
// keyed by the same ID.
type User struct {
	ID                  string         `json:"id" gorm:"type:uuid;primaryKey"`
	Email               string         `json:"email" gorm:"uniqueIndex;size:255"`
	Password            string         `json:"-"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PushTokenList decodes the stored JSON token array. Empty or malformed
// columns decode to no tokens.
func (u *User) PushTokenList() []string {
	if u.PushTokens == nil {
		return nil
	}
	var tokens []string
	if err := json.Unmarshal(u.PushTokens, &tokens); err != nil {
		return nil
	}
	return tokens
}
