package usecase

import (
	"context"
	"time"

	"go-collab-backend/internal/domain"
	"go-collab-backend/internal/ranking"
	"go-collab-backend/pkg/apperror"
)

// candidateFetchLimit bounds how many open postings a single discovery
// request pulls in for ranking.
const candidateFetchLimit = 100

type discoveryUsecase struct {
	userRepo   domain.UserRepository
	collabRepo domain.CollabRepository
	now        func() time.Time
}

func NewDiscoveryUsecase(userRepo domain.UserRepository, collabRepo domain.CollabRepository) domain.DiscoveryUsecase {
	return &discoveryUsecase{
		userRepo:   userRepo,
		collabRepo: collabRepo,
		now:        time.Now,
	}
}

func (u *discoveryUsecase) Recommended(ctx context.Context, viewerID string, limit int) ([]domain.RankedCollab, error) {
	if limit < 1 || limit > candidateFetchLimit {
		limit = 50
	}

	viewer, err := u.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, apperror.NotFound("Profile not found. Complete onboarding first.")
	}

	candidates, err := u.collabRepo.FetchPending(ctx, viewerID, candidateFetchLimit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []domain.RankedCollab{}, nil
	}

	creators, err := u.fetchCreators(ctx, candidates)
	if err != nil {
		return nil, err
	}

	ranked := ranking.RankCollabs(viewer, candidates, creators, u.now())
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Latest is the non-personalized feed: open postings newest first, no
// scoring. The repository already orders by creation time.
func (u *discoveryUsecase) Latest(ctx context.Context, viewerID string, limit int) ([]domain.RankedCollab, error) {
	if limit < 1 || limit > candidateFetchLimit {
		limit = 50
	}

	candidates, err := u.collabRepo.FetchPending(ctx, viewerID, limit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []domain.RankedCollab{}, nil
	}

	creators, err := u.fetchCreators(ctx, candidates)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RankedCollab, 0, len(candidates))
	for _, c := range candidates {
		item := domain.RankedCollab{Collab: c}
		if creator, ok := creators[c.Creator1]; ok {
			item.CreatorName = creator.Name
		}
		out = append(out, item)
	}
	return out, nil
}

func (u *discoveryUsecase) fetchCreators(ctx context.Context, candidates []domain.Collab) (map[string]*domain.UserProfile, error) {
	seen := make(map[string]bool, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !seen[c.Creator1] {
			seen[c.Creator1] = true
			ids = append(ids, c.Creator1)
		}
	}
	return u.userRepo.GetByIDs(ctx, ids)
}
