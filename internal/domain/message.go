package domain

import (
	"context"
	"time"
)

type Message struct {
	ID         string    `json:"id"`
	CollabID   string    `json:"collab_id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Text       string    `json:"text" validate:"required,max=2000"`
	CreatedAt  time.Time `json:"created_at"`
}

type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	FetchByCollab(ctx context.Context, collabID string) ([]Message, error)
	// FetchInvolving returns every message where the user is sender or
	// receiver, oldest first. The reliability scorer depends on this
	// ordering to pair incoming messages with their replies.
	FetchInvolving(ctx context.Context, userID string) ([]Message, error)
}

type MessageUsecase interface {
	SendMessage(ctx context.Context, collabID, senderID, text string) (*Message, error)
	ListMessages(ctx context.Context, collabID, userID string) ([]Message, error)
}
