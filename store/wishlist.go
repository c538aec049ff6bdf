package store

import (
	"context"

	"github.com/LupryM/Birthday-reminder-app/models"
)

// WishlistFor lists the owner's items with the purchaser profile joined in,
// so a friend's view can show who bought what.
func (s *Store) WishlistFor(ctx context.Context, ownerID string) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Preload("Purchaser").
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (s *Store) InsertWishlistItem(ctx context.Context, item *models.WishlistItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

// SetPurchase writes purchased and purchased_by together so the pair can
// never diverge; purchaser must be nil exactly when purchased is false.
func (s *Store) SetPurchase(ctx context.Context, itemID string, purchased bool, purchaser *string) error {
	return s.db.WithContext(ctx).Model(&models.WishlistItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"purchased":    purchased,
			"purchased_by": purchaser,
		}).Error
}

// DeleteWishlistItem is owner-scoped; deleting an id that is gone already
// is a no-op.
func (s *Store) DeleteWishlistItem(ctx context.Context, itemID, ownerID string) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, ownerID).
		Delete(&models.WishlistItem{}).Error
}

func (s *Store) WishlistItemByID(ctx context.Context, itemID string) (*models.WishlistItem, error) {
	var item models.WishlistItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
