package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go-collab-backend/internal/domain"
	"go-collab-backend/pkg/apperror"
	"go-collab-backend/pkg/logger"
	"go-collab-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// legalTransitions defines the collab lifecycle. A pending posting becomes
// in_progress when a collaborator joins (JoinCollab, not UpdateStatus).
var legalTransitions = map[domain.CollabStatus][]domain.CollabStatus{
	domain.CollabStatusPending:    {domain.CollabStatusCancelled},
	domain.CollabStatusInProgress: {domain.CollabStatusCompleted, domain.CollabStatusCancelled},
}

type collabUsecase struct {
	collabRepo    domain.CollabRepository
	userRepo      domain.UserRepository
	reliabilityUC domain.ReliabilityUsecase
	validate      *validator.Validate
}

func NewCollabUsecase(
	collabRepo domain.CollabRepository,
	userRepo domain.UserRepository,
	reliabilityUC domain.ReliabilityUsecase,
	validate *validator.Validate,
) domain.CollabUsecase {
	return &collabUsecase{
		collabRepo:    collabRepo,
		userRepo:      userRepo,
		reliabilityUC: reliabilityUC,
		validate:      validate,
	}
}

func (u *collabUsecase) CreateCollab(ctx context.Context, collab *domain.Collab) error {
	ctxUserID := userIDFromContext(ctx)
	if ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	// Force the creator to be the authenticated user.
	collab.Creator1 = ctxUserID
	collab.Creator2 = nil
	collab.Status = domain.CollabStatusPending
	collab.ProofLink = nil

	if err := u.validate.Struct(&collab.CardData); err != nil {
		return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}

	collab.CreatedAt = time.Now()
	collab.UpdatedAt = time.Now()

	return u.collabRepo.Create(ctx, collab)
}

func (u *collabUsecase) GetCollab(ctx context.Context, id string) (*domain.Collab, error) {
	collab, err := u.collabRepo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, apperror.NotFound("Collab not found")
		}
		return nil, err
	}
	return collab, nil
}

func (u *collabUsecase) ListMyCollabs(ctx context.Context, userID string) ([]domain.Collab, error) {
	return u.collabRepo.FetchByUser(ctx, userID)
}

func (u *collabUsecase) JoinCollab(ctx context.Context, collabID, userID string) (*domain.Collab, error) {
	collab, err := u.GetCollab(ctx, collabID)
	if err != nil {
		return nil, err
	}

	if collab.Status != domain.CollabStatusPending {
		return nil, apperror.BadRequest("Only pending collabs can be joined")
	}
	if collab.Creator1 == userID {
		return nil, apperror.BadRequest("You cannot join your own collab")
	}
	if collab.Creator2 != nil {
		return nil, apperror.BadRequest("Collab already has a collaborator")
	}

	collab.Creator2 = &userID
	collab.Status = domain.CollabStatusInProgress
	collab.UpdatedAt = time.Now()

	if err := u.collabRepo.ClaimPending(ctx, collab); err != nil {
		if err == domain.ErrConflict {
			return nil, apperror.New(http.StatusConflict, "Collab was just taken by another creator", nil)
		}
		return nil, err
	}
	return collab, nil
}

func (u *collabUsecase) UpdateStatus(ctx context.Context, collabID, userID string, status domain.CollabStatus) (*domain.Collab, error) {
	if !status.Valid() {
		return nil, apperror.BadRequest("Unknown collab status")
	}

	collab, err := u.GetCollab(ctx, collabID)
	if err != nil {
		return nil, err
	}
	if !collab.Involves(userID) {
		return nil, apperror.Forbidden("Only participants can update a collab")
	}

	if !transitionAllowed(collab.Status, status) {
		return nil, apperror.BadRequest("Cannot move collab from " + string(collab.Status) + " to " + string(status))
	}

	collab.Status = status
	collab.UpdatedAt = time.Now()
	if err := u.collabRepo.Update(ctx, collab); err != nil {
		return nil, err
	}

	if status == domain.CollabStatusCompleted {
		u.onCompleted(ctx, collab)
	}
	return collab, nil
}

// onCompleted bumps both participants' completed counters and kicks off an
// async reliability refresh for each. All of it is best-effort: a failed
// counter bump or refresh never rolls back the status change.
func (u *collabUsecase) onCompleted(ctx context.Context, collab *domain.Collab) {
	participants := []string{collab.Creator1}
	if collab.Creator2 != nil {
		participants = append(participants, *collab.Creator2)
	}

	for _, id := range participants {
		if err := u.userRepo.IncrementCompletedCollabs(ctx, id); err != nil {
			logger.Log.Error("collab: failed to bump completed count",
				"user_id", id, "collab_id", collab.ID, "error", err)
		}
	}

	for _, id := range participants {
		go func(userID string) {
			refreshCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			u.reliabilityUC.Refresh(refreshCtx, userID)
		}(id)
	}
}

func (u *collabUsecase) AttachProof(ctx context.Context, collabID, userID, proofLink string) (*domain.Collab, error) {
	collab, err := u.GetCollab(ctx, collabID)
	if err != nil {
		return nil, err
	}
	if !collab.Involves(userID) {
		return nil, apperror.Forbidden("Only participants can attach proof")
	}
	if collab.Status != domain.CollabStatusInProgress && collab.Status != domain.CollabStatusCompleted {
		return nil, apperror.BadRequest("Proof can only be attached to active or completed collabs")
	}
	if err := u.validate.Var(proofLink, "required,url"); err != nil {
		return nil, apperror.BadRequest("Proof link must be a valid URL")
	}

	collab.ProofLink = &proofLink
	collab.UpdatedAt = time.Now()
	if err := u.collabRepo.Update(ctx, collab); err != nil {
		return nil, err
	}
	return collab, nil
}

func transitionAllowed(from, to domain.CollabStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
