package usecase

import (
	"context"
	"strings"

	"go-collab-backend/internal/domain"
	"go-collab-backend/pkg/apperror"
	"go-collab-backend/pkg/email"
)

type contactUsecase struct {
	emailService *email.EmailService
}

func NewContactUsecase(emailService *email.EmailService) domain.ContactUsecase {
	return &contactUsecase{emailService: emailService}
}

// SendContactMessage forwards an in-app support submission to the team
// inbox.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	if !uc.emailService.IsConfigured() {
		return apperror.New(503, "Support contact is temporarily unavailable", nil)
	}

	data := email.ContactEmailData{
		SenderName:  strings.TrimSpace(req.Name),
		SenderEmail: strings.TrimSpace(req.Email),
		Subject:     strings.TrimSpace(req.Subject),
		Message:     strings.TrimSpace(req.Message),
	}
	if data.SenderName == "" || data.SenderEmail == "" || data.Subject == "" || data.Message == "" {
		return apperror.BadRequest("All contact fields are required")
	}

	if err := uc.emailService.SendContactEmail(data); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
