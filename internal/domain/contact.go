package domain

import "context"

// ContactRequest is an in-app support/feedback submission.
type ContactRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=80"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,min=3,max=120"`
	Message string `json:"message" binding:"required,min=10,max=4000"`
}

type ContactUsecase interface {
	SendContactMessage(ctx context.Context, req *ContactRequest) error
}
