package usecase

import (
	"context"
	"strings"
	"time"

	"go-collab-backend/internal/domain"
	"go-collab-backend/pkg/apperror"
	"go-collab-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	repo     domain.UserRepository
	validate *validator.Validate
}

func NewProfileUsecase(repo domain.UserRepository, validate *validator.Validate) domain.UserUsecase {
	return &profileUsecase{
		repo:     repo,
		validate: validate,
	}
}

// GetProfile is intentionally public within the app: profiles back both the
// discovery cards and the profile-view screen.
func (u *profileUsecase) GetProfile(ctx context.Context, id string) (*domain.UserProfile, error) {
	profile, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, apperror.NotFound("Profile not found")
		}
		return nil, err
	}
	return profile, nil
}

func (u *profileUsecase) CreateProfile(ctx context.Context, profile *domain.UserProfile) error {
	ctxUserID := userIDFromContext(ctx)
	if ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	// Profile rows share their ID with the Supabase auth user.
	profile.ID = ctxUserID

	if err := u.validate.Struct(profile); err != nil {
		return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}

	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	return u.repo.Create(ctx, profile)
}

func (u *profileUsecase) UpdateProfile(ctx context.Context, profile *domain.UserProfile) error {
	// Ownership check: the context user can only update their own profile.
	ctxUserID := userIDFromContext(ctx)
	if ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	profile.ID = ctxUserID

	if err := u.validate.Struct(profile); err != nil {
		return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}

	profile.UpdatedAt = time.Now()
	// The repository only writes the editable columns; reputation fields
	// stay owned by the reliability job.
	return u.repo.Update(ctx, profile)
}
