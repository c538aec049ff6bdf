package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/LupryM/Birthday-reminder-app/models"
	"github.com/LupryM/Birthday-reminder-app/services"
	"github.com/LupryM/Birthday-reminder-app/store"
	"github.com/LupryM/Birthday-reminder-app/utils"

	"github.com/kataras/iris/v12"
)

type ChatRoutes struct {
	store    *store.Store
	notifier *services.NotificationService
}

func NewChatRoutes(s *store.Store, notifier *services.NotificationService) *ChatRoutes {
	return &ChatRoutes{store: s, notifier: notifier}
}

type StartConversationInput struct {
	FriendID string `json:"friendID" validate:"required,uuid"`
}

// StartConversation resolves or lazily creates the one conversation between
// the caller and the friend.
func (r *ChatRoutes) StartConversation(ctx iris.Context) {
	userID := utils.GetUserID(ctx)

	var input StartConversationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.FriendID == userID {
		utils.CreateError(iris.StatusBadRequest, "Validation error", "Cannot open a conversation with yourself.", ctx)
		return
	}
	if _, err := r.store.ProfileByID(ctx.Request().Context(), input.FriendID); err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	conversation, err := r.store.FindOrCreateConversation(ctx.Request().Context(), userID, input.FriendID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"conversation": conversation})
}

// participantConversation loads the conversation and enforces membership.
func (r *ChatRoutes) participantConversation(ctx iris.Context) *models.Conversation {
	userID := utils.GetUserID(ctx)
	conversationID := ctx.Params().Get("id")

	conversation, err := r.store.ConversationByID(ctx.Request().Context(), conversationID)
	if err != nil {
		utils.CreateNotFound(ctx)
		return nil
	}
	if !conversation.Includes(userID) {
		utils.CreateForbidden(ctx)
		return nil
	}
	return conversation
}

// ListMessages returns the conversation chronologically.
func (r *ChatRoutes) ListMessages(ctx iris.Context) {
	conversation := r.participantConversation(ctx)
	if conversation == nil {
		return
	}

	messages, err := r.store.MessagesFor(ctx.Request().Context(), conversation.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"messages": messages})
}

type CreateChatMessageInput struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// CreateMessage writes a message from the caller and notifies the other
// participant. Whitespace-only content is rejected before any write.
func (r *ChatRoutes) CreateMessage(ctx iris.Context) {
	userID := utils.GetUserID(ctx)

	conversation := r.participantConversation(ctx)
	if conversation == nil {
		return
	}

	var input CreateChatMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation error", "Message content cannot be empty.", ctx)
		return
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       userID,
		Content:        content,
	}
	if err := r.store.CreateMessage(ctx.Request().Context(), message); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if sender, profileErr := r.store.ProfileByID(ctx.Request().Context(), userID); profileErr == nil {
		receiverID := conversation.Other(userID)
		logger := ctx.Application().Logger()
		go func() {
			if err := r.notifier.SendMessageNotification(context.Background(), receiverID, sender, message); err != nil {
				logger.Debugf("message push to %s skipped: %v", receiverID, err)
			}
		}()
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"message": message})
}

// StreamMessages bridges the conversation's live feed onto an SSE response.
// The subscription is released when the client disconnects.
func (r *ChatRoutes) StreamMessages(ctx iris.Context) {
	conversation := r.participantConversation(ctx)
	if conversation == nil {
		return
	}

	reqCtx := ctx.Request().Context()
	updates, release, err := r.store.SubscribeMessages(reqCtx, conversation.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	defer release()

	ctx.ContentType("text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	w := ctx.ResponseWriter()
	for {
		select {
		case <-reqCtx.Done():
			return
		case message, ok := <-updates:
			if !ok {
				return
			}
			payload, err := json.Marshal(message)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			w.Flush()
		}
	}
}

// Typing marks the caller as typing for 5 seconds.
func (r *ChatRoutes) Typing(ctx iris.Context) {
	userID := utils.GetUserID(ctx)

	conversation := r.participantConversation(ctx)
	if conversation == nil {
		return
	}

	if err := r.store.SetTyping(ctx.Request().Context(), conversation.ID, userID); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

// ListTyping reports whether the other participant is typing.
func (r *ChatRoutes) ListTyping(ctx iris.Context) {
	userID := utils.GetUserID(ctx)

	conversation := r.participantConversation(ctx)
	if conversation == nil {
		return
	}

	other := conversation.Other(userID)
	ctx.JSON(iris.Map{
		"typing": r.store.IsTyping(ctx.Request().Context(), conversation.ID, other),
	})
}
