package models

import (
	"time"
)

// Profile is one member of the squad. Its ID equals the owning user's ID and
// never changes after creation. Deleting a profile cascades to the owner's
// wishlist items, conversations and messages (see storage migrations).
type Profile struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"size:120"`
	Birthday  string    `json:"birthday" gorm:"size:10"` // YYYY-MM-DD, no time component
	Role      string    `json:"role" gorm:"size:120"`
	AvatarURL *string   `json:"avatarURL" gorm:"size:512"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BirthdayDate parses the stored calendar date. A zero time means the stored
// value is malformed.
func (p *Profile) BirthdayDate() time.Time {
	t, err := time.Parse("2006-01-02", p.Birthday)
	if err != nil {
		return time.Time{}
	}
	return t
}
