package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go-collab-backend/internal/domain"
	"go-collab-backend/internal/usecase"
	"go-collab-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, profile *domain.UserProfile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
func (m *MockUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.UserProfile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.UserProfile), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, profile *domain.UserProfile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *MockUserRepo) IncrementCompletedCollabs(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) UpdateReliabilityMetrics(ctx context.Context, id string, metrics domain.ReliabilityMetrics) error {
	return m.Called(ctx, id, metrics).Error(0)
}

type MockCollabRepo struct {
	mock.Mock
}

func (m *MockCollabRepo) Create(ctx context.Context, collab *domain.Collab) error {
	return m.Called(ctx, collab).Error(0)
}
func (m *MockCollabRepo) GetByID(ctx context.Context, id string) (*domain.Collab, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collab), args.Error(1)
}
func (m *MockCollabRepo) FetchByUser(ctx context.Context, userID string) ([]domain.Collab, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Collab), args.Error(1)
}
func (m *MockCollabRepo) FetchPending(ctx context.Context, excludeCreatorID string, limit int) ([]domain.Collab, error) {
	args := m.Called(ctx, excludeCreatorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Collab), args.Error(1)
}
func (m *MockCollabRepo) FetchStatusesInvolving(ctx context.Context, userID string) ([]domain.CollabStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CollabStatus), args.Error(1)
}
func (m *MockCollabRepo) Update(ctx context.Context, collab *domain.Collab) error {
	return m.Called(ctx, collab).Error(0)
}
func (m *MockCollabRepo) ClaimPending(ctx context.Context, collab *domain.Collab) error {
	return m.Called(ctx, collab).Error(0)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, message *domain.Message) error {
	return m.Called(ctx, message).Error(0)
}
func (m *MockMessageRepo) FetchByCollab(ctx context.Context, collabID string) ([]domain.Message, error) {
	args := m.Called(ctx, collabID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockMessageRepo) FetchInvolving(ctx context.Context, userID string) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

// stubReliability avoids racing mock assertions from the async refresh
// goroutines fired on collab completion.
type stubReliability struct{}

func (stubReliability) Compute(context.Context, string) domain.ReliabilityMetrics {
	return domain.ReliabilityMetrics{TotalScore: 50}
}
func (stubReliability) Refresh(context.Context, string) {}

func authedCtx(userID string) context.Context {
	return context.WithValue(context.Background(), domain.KeyUserID, userID)
}

func strPtr(s string) *string { return &s }

func TestProfileOwnership(t *testing.T) {
	mockRepo := new(MockUserRepo)
	validate := validator.New()
	uc := usecase.NewProfileUsecase(mockRepo, validate)

	t.Run("Should force profile ID from context on update", func(t *testing.T) {
		ctx := authedCtx("user1")
		profile := &domain.UserProfile{
			ID:   "hacker_try",
			Name: "Alex Rivera",
		}

		mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.UserProfile")).Return(nil).Run(func(args mock.Arguments) {
			p := args.Get(1).(*domain.UserProfile)
			assert.Equal(t, "user1", p.ID)
		})

		err := uc.UpdateProfile(ctx, profile)
		assert.NoError(t, err)
	})

	t.Run("Should fail safely when context has no user", func(t *testing.T) {
		err := uc.UpdateProfile(context.Background(), &domain.UserProfile{Name: "Alex Rivera"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "User not authenticated")
	})

	t.Run("Should reject invalid follower bucket", func(t *testing.T) {
		ctx := authedCtx("user1")
		profile := &domain.UserProfile{
			Name:           "Alex Rivera",
			FollowerBucket: strPtr("1m+"),
		}
		err := uc.CreateProfile(ctx, profile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Follower range: Must be one of")
	})

	t.Run("Should reject missing name with a friendly message", func(t *testing.T) {
		ctx := authedCtx("user1")
		err := uc.CreateProfile(ctx, &domain.UserProfile{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Display name: This field is required")
		assert.NotContains(t, err.Error(), "Field validation for")
	})
}

func TestCollabLifecycle(t *testing.T) {
	t.Run("Should force creator from context on create", func(t *testing.T) {
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewCollabUsecase(mockCollabRepo, new(MockUserRepo), stubReliability{}, validator.New())

		ctx := authedCtx("user1")
		collab := &domain.Collab{
			Creator1: "hacker_try",
			Creator2: strPtr("accomplice"),
			Status:   domain.CollabStatusCompleted,
			CardData: domain.CardData{Title: "IG Reel swap"},
		}

		mockCollabRepo.On("Create", ctx, mock.AnythingOfType("*domain.Collab")).Return(nil).Run(func(args mock.Arguments) {
			c := args.Get(1).(*domain.Collab)
			assert.Equal(t, "user1", c.Creator1)
			assert.Nil(t, c.Creator2)
			assert.Equal(t, domain.CollabStatusPending, c.Status)
		})

		err := uc.CreateCollab(ctx, collab)
		assert.NoError(t, err)
	})

	t.Run("Should let another creator join a pending collab", func(t *testing.T) {
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewCollabUsecase(mockCollabRepo, new(MockUserRepo), stubReliability{}, validator.New())

		mockCollabRepo.On("GetByID", mock.Anything, "c1").Return(&domain.Collab{
			ID: "c1", Creator1: "owner", Status: domain.CollabStatusPending,
		}, nil)
		mockCollabRepo.On("ClaimPending", mock.Anything, mock.AnythingOfType("*domain.Collab")).Return(nil)

		collab, err := uc.JoinCollab(context.Background(), "c1", "joiner")
		assert.NoError(t, err)
		assert.Equal(t, domain.CollabStatusInProgress, collab.Status)
		assert.Equal(t, "joiner", *collab.Creator2)
	})

	t.Run("Should return 409 when a concurrent joiner claims the collab first", func(t *testing.T) {
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewCollabUsecase(mockCollabRepo, new(MockUserRepo), stubReliability{}, validator.New())

		// The read still sees a pending row; the guarded claim loses the race.
		mockCollabRepo.On("GetByID", mock.Anything, "c1").Return(&domain.Collab{
			ID: "c1", Creator1: "owner", Status: domain.CollabStatusPending,
		}, nil)
		mockCollabRepo.On("ClaimPending", mock.Anything, mock.AnythingOfType("*domain.Collab")).Return(domain.ErrConflict)

		_, err := uc.JoinCollab(context.Background(), "c1", "joiner")
		assert.Error(t, err)

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusConflict, appErr.Code)
	})

	t.Run("Should refuse joining own collab", func(t *testing.T) {
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewCollabUsecase(mockCollabRepo, new(MockUserRepo), stubReliability{}, validator.New())

		mockCollabRepo.On("GetByID", mock.Anything, "c1").Return(&domain.Collab{
			ID: "c1", Creator1: "owner", Status: domain.CollabStatusPending,
		}, nil)

		_, err := uc.JoinCollab(context.Background(), "c1", "owner")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "own collab")
	})

	t.Run("Should refuse joining a non-pending collab", func(t *testing.T) {
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewCollabUsecase(mockCollabRepo, new(MockUserRepo), stubReliability{}, validator.New())

		mockCollabRepo.On("GetByID", mock.Anything, "c1").Return(&domain.Collab{
			ID: "c1", Creator1: "owner", Creator2: strPtr("joiner"), Status: domain.CollabStatusInProgress,
		}, nil)

		_, err := uc.JoinCollab(context.Background(), "c1", "third")
		assert.Error(t, err)
	})

	t.Run("Should block non-participants from status updates", func(t *testing.T) {
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewCollabUsecase(mockCollabRepo, new(MockUserRepo), stubReliability{}, validator.New())

		mockCollabRepo.On("GetByID", mock.Anything, "c1").Return(&domain.Collab{
			ID: "c1", Creator1: "owner", Creator2: strPtr("joiner"), Status: domain.CollabStatusInProgress,
		}, nil)

		_, err := uc.UpdateStatus(context.Background(), "c1", "stranger", domain.CollabStatusCompleted)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "participants")
	})

	t.Run("Should reject illegal transitions", func(t *testing.T) {
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewCollabUsecase(mockCollabRepo, new(MockUserRepo), stubReliability{}, validator.New())

		mockCollabRepo.On("GetByID", mock.Anything, "c1").Return(&domain.Collab{
			ID: "c1", Creator1: "owner", Status: domain.CollabStatusPending,
		}, nil)

		// pending can only be cancelled; completion requires going through
		// in_progress via a join
		_, err := uc.UpdateStatus(context.Background(), "c1", "owner", domain.CollabStatusCompleted)
		assert.Error(t, err)

		_, err = uc.UpdateStatus(context.Background(), "c1", "owner", domain.CollabStatus("bogus"))
		assert.Error(t, err)
	})

	t.Run("Should bump completed counters for both participants", func(t *testing.T) {
		mockCollabRepo := new(MockCollabRepo)
		mockUserRepo := new(MockUserRepo)
		uc := usecase.NewCollabUsecase(mockCollabRepo, mockUserRepo, stubReliability{}, validator.New())

		mockCollabRepo.On("GetByID", mock.Anything, "c1").Return(&domain.Collab{
			ID: "c1", Creator1: "owner", Creator2: strPtr("joiner"), Status: domain.CollabStatusInProgress,
		}, nil)
		mockCollabRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Collab")).Return(nil)
		mockUserRepo.On("IncrementCompletedCollabs", mock.Anything, "owner").Return(nil)
		mockUserRepo.On("IncrementCompletedCollabs", mock.Anything, "joiner").Return(nil)

		collab, err := uc.UpdateStatus(context.Background(), "c1", "owner", domain.CollabStatusCompleted)
		assert.NoError(t, err)
		assert.Equal(t, domain.CollabStatusCompleted, collab.Status)
		mockUserRepo.AssertCalled(t, "IncrementCompletedCollabs", mock.Anything, "owner")
		mockUserRepo.AssertCalled(t, "IncrementCompletedCollabs", mock.Anything, "joiner")
	})

	t.Run("Should validate proof links", func(t *testing.T) {
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewCollabUsecase(mockCollabRepo, new(MockUserRepo), stubReliability{}, validator.New())

		mockCollabRepo.On("GetByID", mock.Anything, "c1").Return(&domain.Collab{
			ID: "c1", Creator1: "owner", Creator2: strPtr("joiner"), Status: domain.CollabStatusInProgress,
		}, nil)

		_, err := uc.AttachProof(context.Background(), "c1", "owner", "not a url")
		assert.Error(t, err)

		mockCollabRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Collab")).Return(nil)
		collab, err := uc.AttachProof(context.Background(), "c1", "owner", "https://instagram.com/p/abc123")
		assert.NoError(t, err)
		assert.Equal(t, "https://instagram.com/p/abc123", *collab.ProofLink)
	})
}

func TestMessagingAccess(t *testing.T) {
	activeCollab := &domain.Collab{
		ID: "c1", Creator1: "owner", Creator2: strPtr("joiner"), Status: domain.CollabStatusInProgress,
	}

	t.Run("Should route the message to the other participant", func(t *testing.T) {
		mockMessageRepo := new(MockMessageRepo)
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewMessageUsecase(mockMessageRepo, mockCollabRepo)

		mockCollabRepo.On("GetByID", mock.Anything, "c1").Return(activeCollab, nil)
		mockMessageRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil)

		msg, err := uc.SendMessage(context.Background(), "c1", "owner", "  hey, draft is ready  ")
		assert.NoError(t, err)
		assert.Equal(t, "joiner", msg.ReceiverID)
		assert.Equal(t, "hey, draft is ready", msg.Text)
	})

	t.Run("Should block non-participants from sending", func(t *testing.T) {
		mockMessageRepo := new(MockMessageRepo)
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewMessageUsecase(mockMessageRepo, mockCollabRepo)

		mockCollabRepo.On("GetByID", mock.Anything, "c1").Return(activeCollab, nil)

		_, err := uc.SendMessage(context.Background(), "c1", "stranger", "hi")
		assert.Error(t, err)
	})

	t.Run("Should reject messaging before anyone joins", func(t *testing.T) {
		mockMessageRepo := new(MockMessageRepo)
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewMessageUsecase(mockMessageRepo, mockCollabRepo)

		mockCollabRepo.On("GetByID", mock.Anything, "c2").Return(&domain.Collab{
			ID: "c2", Creator1: "owner", Status: domain.CollabStatusPending,
		}, nil)

		_, err := uc.SendMessage(context.Background(), "c2", "owner", "hello?")
		assert.Error(t, err)
	})

	t.Run("Should reject empty messages", func(t *testing.T) {
		uc := usecase.NewMessageUsecase(new(MockMessageRepo), new(MockCollabRepo))
		_, err := uc.SendMessage(context.Background(), "c1", "owner", "   ")
		assert.Error(t, err)
	})

	t.Run("Should block non-participants from reading the chat", func(t *testing.T) {
		mockMessageRepo := new(MockMessageRepo)
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewMessageUsecase(mockMessageRepo, mockCollabRepo)

		mockCollabRepo.On("GetByID", mock.Anything, "c1").Return(activeCollab, nil)

		_, err := uc.ListMessages(context.Background(), "c1", "stranger")
		assert.Error(t, err)
	})
}

func TestDiscovery(t *testing.T) {
	t.Run("Should require an onboarded profile for recommendations", func(t *testing.T) {
		mockUserRepo := new(MockUserRepo)
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewDiscoveryUsecase(mockUserRepo, mockCollabRepo)

		mockUserRepo.On("GetByID", mock.Anything, "newbie").Return(nil, domain.ErrNotFound)

		_, err := uc.Recommended(context.Background(), "newbie", 10)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "onboarding")
	})

	t.Run("Should rank postings best match first", func(t *testing.T) {
		mockUserRepo := new(MockUserRepo)
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewDiscoveryUsecase(mockUserRepo, mockCollabRepo)

		bucket := domain.Bucket1kTo10k
		viewer := &domain.UserProfile{
			ID: "viewer", Name: "Viewer",
			NicheTags:      []string{"fitness", "nutrition"},
			FollowerBucket: &bucket,
		}
		matchBucket := domain.Bucket1kTo10k
		mismatchBucket := domain.Bucket100kPlus

		mockUserRepo.On("GetByID", mock.Anything, "viewer").Return(viewer, nil)
		mockCollabRepo.On("FetchPending", mock.Anything, "viewer", mock.Anything).Return([]domain.Collab{
			{ID: "weak", Creator1: "far"},
			{ID: "strong", Creator1: "near"},
		}, nil)
		mockUserRepo.On("GetByIDs", mock.Anything, []string{"far", "near"}).Return(map[string]*domain.UserProfile{
			"far":  {ID: "far", Name: "Far", NicheTags: []string{"gaming"}, FollowerBucket: &mismatchBucket},
			"near": {ID: "near", Name: "Near", NicheTags: []string{"fitness", "nutrition"}, FollowerBucket: &matchBucket, ReliabilityScore: 90},
		}, nil)

		ranked, err := uc.Recommended(context.Background(), "viewer", 10)
		assert.NoError(t, err)
		assert.Len(t, ranked, 2)
		assert.Equal(t, "strong", ranked[0].ID)
		assert.Equal(t, "Near", ranked[0].CreatorName)
		assert.Greater(t, ranked[0].MatchScore, ranked[1].MatchScore)
	})

	t.Run("Should return empty slice when nothing is open", func(t *testing.T) {
		mockUserRepo := new(MockUserRepo)
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewDiscoveryUsecase(mockUserRepo, mockCollabRepo)

		mockUserRepo.On("GetByID", mock.Anything, "viewer").Return(&domain.UserProfile{ID: "viewer", Name: "V"}, nil)
		mockCollabRepo.On("FetchPending", mock.Anything, "viewer", mock.Anything).Return([]domain.Collab{}, nil)

		ranked, err := uc.Recommended(context.Background(), "viewer", 10)
		assert.NoError(t, err)
		assert.Empty(t, ranked)
	})

	t.Run("Latest should keep repository order and skip ranking", func(t *testing.T) {
		mockUserRepo := new(MockUserRepo)
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewDiscoveryUsecase(mockUserRepo, mockCollabRepo)

		mockCollabRepo.On("FetchPending", mock.Anything, "viewer", 10).Return([]domain.Collab{
			{ID: "newest", Creator1: "a"},
			{ID: "older", Creator1: "b"},
		}, nil)
		mockUserRepo.On("GetByIDs", mock.Anything, []string{"a", "b"}).Return(map[string]*domain.UserProfile{
			"a": {ID: "a", Name: "A"},
			"b": {ID: "b", Name: "B"},
		}, nil)

		latest, err := uc.Latest(context.Background(), "viewer", 10)
		assert.NoError(t, err)
		assert.Equal(t, "newest", latest[0].ID)
		assert.Equal(t, "older", latest[1].ID)
		assert.Zero(t, latest[0].MatchScore)
	})

	t.Run("Should surface repository failures", func(t *testing.T) {
		mockUserRepo := new(MockUserRepo)
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewDiscoveryUsecase(mockUserRepo, mockCollabRepo)

		mockUserRepo.On("GetByID", mock.Anything, "viewer").Return(&domain.UserProfile{ID: "viewer", Name: "V"}, nil)
		mockCollabRepo.On("FetchPending", mock.Anything, "viewer", mock.Anything).Return(nil, errors.New("db down"))

		_, err := uc.Recommended(context.Background(), "viewer", 10)
		assert.Error(t, err)
	})
}
