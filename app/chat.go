package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/LupryM/Birthday-reminder-app/models"
)

var ErrEmptyMessage = errors.New("message content is empty")

// ChatSession is the open chat thread with one friend: the resolved
// conversation, its chronologically ordered messages, and a live
// subscription appending newly inserted ones. The subscription lives
// exactly as long as the chat screen; Close releases it and is safe to call
// more than once.
//
// A confirmed own send is appended directly and the subscription echo of it
// is dropped by id, so the list never shows duplicates regardless of
// whether the bus echoes the sender's inserts.
type ChatSession struct {
	store  Store
	userID string
	friend models.Profile

	conversation *models.Conversation

	mu       sync.Mutex
	messages []models.Message
	seen     map[string]struct{}

	release   func()
	closeOnce sync.Once
	cancel    context.CancelFunc
}

func openChat(ctx context.Context, store Store, userID string, friend models.Profile) (*ChatSession, error) {
	conversation, err := store.FindOrCreateConversation(ctx, userID, friend.ID)
	if err != nil {
		return nil, fmt.Errorf("resolving conversation with %s: %w", friend.Name, err)
	}

	messages, err := store.MessagesFor(ctx, conversation.ID)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}

	subCtx, cancel := context.WithCancel(context.Background())
	updates, release, err := store.SubscribeMessages(subCtx, conversation.ID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribing to conversation: %w", err)
	}

	chat := &ChatSession{
		store:        store,
		userID:       userID,
		friend:       friend,
		conversation: conversation,
		messages:     messages,
		seen:         make(map[string]struct{}, len(messages)),
		release:      release,
		cancel:       cancel,
	}
	for _, message := range messages {
		chat.seen[message.ID] = struct{}{}
	}

	go func() {
		for message := range updates {
			chat.append(message)
		}
	}()

	return chat, nil
}

func (c *ChatSession) ConversationID() string { return c.conversation.ID }
func (c *ChatSession) Friend() models.Profile { return c.friend }

// Messages returns a snapshot of the thread in display order.
func (c *ChatSession) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]models.Message, len(c.messages))
	copy(snapshot, c.messages)
	return snapshot
}

func (c *ChatSession) append(message models.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.seen[message.ID]; dup {
		return
	}
	c.seen[message.ID] = struct{}{}
	c.messages = append(c.messages, message)
}

// Send writes a message from the current user. Whitespace-only content is
// rejected before any remote call; on success the confirmed row is appended
// locally without waiting for the subscription echo.
func (c *ChatSession) Send(ctx context.Context, content string) (*models.Message, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	message := models.Message{
		ConversationID: c.conversation.ID,
		SenderID:       c.userID,
		Content:        trimmed,
	}
	if err := c.store.CreateMessage(ctx, &message); err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}

	c.append(message)
	return &message, nil
}

// Close releases the live subscription. Idempotent.
func (c *ChatSession) Close() {
	c.closeOnce.Do(func() {
		c.release()
		c.cancel()
	})
}
