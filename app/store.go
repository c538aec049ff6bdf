package app

import (
	"context"

	"github.com/LupryM/Birthday-reminder-app/models"
)

// Store is the entity access capability the engine consumes. *store.Store
// implements it; tests substitute fakes.
type Store interface {
	WishlistFor(ctx context.Context, ownerID string) ([]models.WishlistItem, error)
	InsertWishlistItem(ctx context.Context, item *models.WishlistItem) error
	SetPurchase(ctx context.Context, itemID string, purchased bool, purchaser *string) error
	DeleteWishlistItem(ctx context.Context, itemID, ownerID string) error

	UpdateProfileFields(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteProfile(ctx context.Context, id string) error

	FindOrCreateConversation(ctx context.Context, a, b string) (*models.Conversation, error)
	MessagesFor(ctx context.Context, conversationID string) ([]models.Message, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	SubscribeMessages(ctx context.Context, conversationID string) (<-chan models.Message, func(), error)
}

// Auth is the session capability: the engine only ever ends sessions, it
// never manages credentials.
type Auth interface {
	SignOut(ctx context.Context) error
}
