package store

import (
	"context"
	"errors"
	"strings"

	"github.com/LupryM/Birthday-reminder-app/models"

	"gorm.io/gorm"
)

const defaultBirthday = "2000-01-01"

func (s *Store) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ProfilesExcept lists every profile but the caller's, for the friends views.
func (s *Store) ProfilesExcept(ctx context.Context, id string) ([]models.Profile, error) {
	var profiles []models.Profile
	err := s.db.WithContext(ctx).Where("id <> ?", id).Find(&profiles).Error
	return profiles, err
}

// EnsureProfile returns the user's profile, creating it on first
// authenticated access. Name falls back to the email local part, then
// "User"; birthday falls back to 2000-01-01.
func (s *Store) EnsureProfile(ctx context.Context, user *models.User, name, birthday string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).First(&profile, "id = ?", user.ID).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if name == "" {
		if at := strings.Index(user.Email, "@"); at > 0 {
			name = user.Email[:at]
		} else {
			name = "User"
		}
	}
	if birthday == "" {
		birthday = defaultBirthday
	}

	profile = models.Profile{
		ID:       user.ID,
		Name:     name,
		Birthday: birthday,
		Role:     "",
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfileFields applies a partial update; omitted columns keep their
// remote value (the avatar is only written when a new one was produced).
func (s *Store) UpdateProfileFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// DeleteProfile removes the profile and its auth identity. The FK cascades
// in the migrations take the wishlist, conversations and messages with it.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Profile{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}
