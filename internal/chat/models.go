package chat

import (
	"time"

	"github.com/slimreset/slimcoach/internal/notifications"
	"github.com/slimreset/slimcoach/internal/storage"
)

// WelcomeMessageID marks the synthetic greeting returned by the session
// bootstrap. It is never persisted.
const WelcomeMessageID = "welcome"

// WelcomeMessage is Ava's greeting for a fresh session.
const WelcomeMessage = "Your SlimCoach Ava! A weight loss advisor and motivating AI coach for the SlimReset program — a gut-personalized fat loss system that combines the HCG 800-calorie protocol with support for food intolerances, nutrient deficiencies, and preferences."

// apologyMessage is the fixed reply when response generation fails.
const apologyMessage = "Sorry, I encountered an error while processing your request. Please try again."

type ChatMessageDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type SendMessageResponse struct {
	AssistantMessage ChatMessageDTO `json:"assistant_message"`
	AwaitingQuantity bool           `json:"awaiting_quantity"`
}

type ListMessagesResponse struct {
	Messages   []ChatMessageDTO `json:"messages"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

type StartSessionRequest struct {
	Resume bool `json:"resume"`
}

type StartSessionResponse struct {
	Messages     []ChatMessageDTO             `json:"messages"`
	Notification *notifications.Notification `json:"notification"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func messageToDTO(msg storage.ChatMessage) ChatMessageDTO {
	return ChatMessageDTO{
		ID:        msg.ID.String(),
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}
