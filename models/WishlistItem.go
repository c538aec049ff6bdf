package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WishlistItem is a desired gift owned by one profile and purchasable by any
// other. PurchasedBy is nil whenever Purchased is false.
type WishlistItem struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      string    `json:"userID" gorm:"type:uuid;index;not null"`
	Title       string    `json:"title" gorm:"size:256;not null"`
	Price       float64   `json:"price"`
	URL         *string   `json:"url" gorm:"size:512"`
	Purchased   bool      `json:"purchased"`
	PurchasedBy *string   `json:"purchasedBy" gorm:"type:uuid"`
	Purchaser   *Profile  `json:"purchaserProfile,omitempty" gorm:"foreignKey:PurchasedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// PurchaserName is the joined display name shown on a friend's wishlist.
func (w *WishlistItem) PurchaserName() string {
	if w.Purchaser == nil {
		return ""
	}
	return w.Purchaser.Name
}
