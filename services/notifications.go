package services

import (
	"context"
	"fmt"
	"log"

	"github.com/LupryM/Birthday-reminder-app/models"
	"github.com/LupryM/Birthday-reminder-app/store"
	"github.com/LupryM/Birthday-reminder-app/utils"
)

// NotificationService handles all push notification logic.
type NotificationService struct {
	store *store.Store
}

func NewNotificationService(s *store.Store) *NotificationService {
	return &NotificationService{store: s}
}

// NotificationData is the data payload used for deep linking on tap.
type NotificationData struct {
	Type           string `json:"type"`
	Screen         string `json:"screen"`
	ConversationID string `json:"conversationId,omitempty"`
	FriendID       string `json:"friendId,omitempty"`
}

func (ns *NotificationService) tokensFor(ctx context.Context, userID string) ([]string, error) {
	user, err := ns.store.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if user.AllowsNotifications == nil || !*user.AllowsNotifications {
		return nil, fmt.Errorf("user %s has notifications disabled", userID)
	}
	tokens := user.PushTokenList()
	if len(tokens) == 0 {
		return nil, fmt.Errorf("user %s has no push tokens", userID)
	}
	return tokens, nil
}

// SendToUser pushes title/body to every registered device of the user.
func (ns *NotificationService) SendToUser(ctx context.Context, userID, title, body string, data NotificationData) error {
	tokens, err := ns.tokensFor(ctx, userID)
	if err != nil {
		return err
	}

	dataMap := map[string]string{
		"type":           data.Type,
		"screen":         data.Screen,
		"conversationId": data.ConversationID,
		"friendId":       data.FriendID,
	}

	var lastError error
	for _, token := range tokens {
		if err := utils.SendNotification(token, title, body, dataMap); err != nil {
			log.Printf("Failed to send notification to token %s: %v", token, err)
			lastError = err
		}
	}
	return lastError
}

// previewBody shortens long message content for the push preview without
// splitting a multi-byte rune.
func previewBody(content string) string {
	runes := []rune(content)
	if len(runes) <= 120 {
		return content
	}
	return string(runes[:117]) + "..."
}

// SendMessageNotification tells the other participant about a new chat
// message, deep-linking into the conversation.
func (ns *NotificationService) SendMessageNotification(ctx context.Context, receiverID string, sender *models.Profile, message *models.Message) error {
	body := previewBody(message.Content)

	data := NotificationData{
		Type:           "chat_message",
		Screen:         "Chat",
		ConversationID: message.ConversationID,
		FriendID:       sender.ID,
	}
	return ns.SendToUser(ctx, receiverID, sender.Name, body, data)
}

// SendBirthdayReminder pushes an upcoming-birthday reminder.
func (ns *NotificationService) SendBirthdayReminder(ctx context.Context, userID string, friend *models.Profile, daysUntil int) error {
	var title, body string
	switch daysUntil {
	case 0:
		title = "Birthday today!"
		body = fmt.Sprintf("It's %s's birthday today. Send them a message!", friend.Name)
	default:
		title = "Birthday coming up"
		body = fmt.Sprintf("%s's birthday is in %d days.", friend.Name, daysUntil)
	}

	data := NotificationData{
		Type:     "birthday_reminder",
		Screen:   "FriendProfile",
		FriendID: friend.ID,
	}
	return ns.SendToUser(ctx, userID, title, body, data)
}
