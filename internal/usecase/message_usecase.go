package usecase

import (
	"context"
	"strings"
	"time"

	"go-collab-backend/internal/domain"
	"go-collab-backend/pkg/apperror"
)

type messageUsecase struct {
	messageRepo domain.MessageRepository
	collabRepo  domain.CollabRepository
}

func NewMessageUsecase(messageRepo domain.MessageRepository, collabRepo domain.CollabRepository) domain.MessageUsecase {
	return &messageUsecase{
		messageRepo: messageRepo,
		collabRepo:  collabRepo,
	}
}

func (u *messageUsecase) SendMessage(ctx context.Context, collabID, senderID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.BadRequest("Message text is required")
	}
	if len(text) > 2000 {
		return nil, apperror.BadRequest("Message text too long")
	}

	collab, err := u.collabRepo.GetByID(ctx, collabID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, apperror.NotFound("Collab not found")
		}
		return nil, err
	}
	if !collab.Involves(senderID) {
		return nil, apperror.Forbidden("Only participants can message in a collab")
	}
	if collab.Creator2 == nil {
		return nil, apperror.BadRequest("Collab has no collaborator to message yet")
	}

	// The receiver is always the other participant.
	receiverID := collab.Creator1
	if senderID == collab.Creator1 {
		receiverID = *collab.Creator2
	}

	message := &domain.Message{
		CollabID:   collabID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	if err := u.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (u *messageUsecase) ListMessages(ctx context.Context, collabID, userID string) ([]domain.Message, error) {
	collab, err := u.collabRepo.GetByID(ctx, collabID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, apperror.NotFound("Collab not found")
		}
		return nil, err
	}
	if !collab.Involves(userID) {
		return nil, apperror.Forbidden("Only participants can read a collab chat")
	}
	return u.messageRepo.FetchByCollab(ctx, collabID)
}
