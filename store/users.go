package store

import (
	"context"
	"errors"
	"strings"

	"github.com/LupryM/Birthday-reminder-app/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UserByEmail returns (nil, nil) when no user carries the email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *Store) SetPushTokens(ctx context.Context, userID string, tokens datatypes.JSON) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("push_tokens", tokens).Error
}

func (s *Store) SetAllowsNotifications(ctx context.Context, userID string, allows bool) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("allows_notifications", allows).Error
}

// UsersAllowingNotifications feeds the birthday reminder job.
func (s *Store) UsersAllowingNotifications(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("allows_notifications = ? AND push_tokens IS NOT NULL", true).
		Find(&users).Error
	return users, err
}
