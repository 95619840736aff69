package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-collab-backend/internal/domain"
	"go-collab-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func statuses(completed, cancelled, other int) []domain.CollabStatus {
	out := make([]domain.CollabStatus, 0, completed+cancelled+other)
	for i := 0; i < completed; i++ {
		out = append(out, domain.CollabStatusCompleted)
	}
	for i := 0; i < cancelled; i++ {
		out = append(out, domain.CollabStatusCancelled)
	}
	for i := 0; i < other; i++ {
		out = append(out, domain.CollabStatusInProgress)
	}
	return out
}

// conversation builds an alternating exchange where the user replies to
// each incoming message after the given delay.
func conversation(userID, otherID string, replies int, delay time.Duration) []domain.Message {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var msgs []domain.Message
	for i := 0; i < replies; i++ {
		incoming := base.Add(time.Duration(i) * 200 * time.Hour)
		msgs = append(msgs,
			domain.Message{SenderID: otherID, ReceiverID: userID, CreatedAt: incoming},
			domain.Message{SenderID: userID, ReceiverID: otherID, CreatedAt: incoming.Add(delay)},
		)
	}
	return msgs
}

func TestScoreHistory(t *testing.T) {
	t.Run("Brand-new user scores exactly the neutral base", func(t *testing.T) {
		m := usecase.ScoreHistory("u1", nil, nil)
		assert.Equal(t, 50, m.TotalScore)
		assert.Zero(t, m.AvgResponseTimeHours)
		assert.Zero(t, m.CompletionRate)
		assert.Zero(t, m.AbandonedCount)
	})

	t.Run("Fast responder with strong completion gets top marks", func(t *testing.T) {
		msgs := conversation("u1", "u2", 3, 2*time.Hour)
		m := usecase.ScoreHistory("u1", msgs, statuses(9, 0, 1))

		// 50 + 20 (avg 2h < 24h) + 20 (90% completion)
		assert.Equal(t, 90, m.TotalScore)
		assert.InDelta(t, 2.0, m.AvgResponseTimeHours, 0.001)
		assert.InDelta(t, 90.0, m.CompletionRate, 0.001)
	})

	t.Run("Slow responder loses points", func(t *testing.T) {
		msgs := conversation("u1", "u2", 2, 80*time.Hour)
		m := usecase.ScoreHistory("u1", msgs, nil)

		// 50 - 10 (avg 80h > 72h), no collab history
		assert.Equal(t, 40, m.TotalScore)
	})

	t.Run("Moderate responder gets the middle tier", func(t *testing.T) {
		msgs := conversation("u1", "u2", 2, 30*time.Hour)
		m := usecase.ScoreHistory("u1", msgs, nil)

		// 50 + 10 (24h <= avg 30h < 48h)
		assert.Equal(t, 60, m.TotalScore)
	})

	t.Run("Each abandoned collab costs five points", func(t *testing.T) {
		// 7 completed, 3 cancelled of 10: 70% completion (+10), -15 for
		// abandonment, 30% does not trip the heavy penalty.
		m := usecase.ScoreHistory("u1", nil, statuses(7, 3, 0))
		assert.Equal(t, 45, m.TotalScore)
		assert.Equal(t, 3, m.AbandonedCount)
	})

	t.Run("Heavy abandonment trips the extra penalty", func(t *testing.T) {
		// 2 completed, 3 cancelled of 5: 40% completion (no adjustment),
		// -15 for cancels, -20 because 3 > 30% of 5.
		m := usecase.ScoreHistory("u1", nil, statuses(2, 3, 0))
		assert.Equal(t, 15, m.TotalScore)
	})

	t.Run("Score clamps at zero", func(t *testing.T) {
		m := usecase.ScoreHistory("u1", nil, statuses(0, 20, 0))
		assert.Equal(t, 0, m.TotalScore)
	})

	t.Run("Score never exceeds one hundred", func(t *testing.T) {
		msgs := conversation("u1", "u2", 5, time.Hour)
		m := usecase.ScoreHistory("u1", msgs, statuses(50, 0, 0))
		assert.LessOrEqual(t, m.TotalScore, 100)
	})

	t.Run("Only replies by the user count toward latency", func(t *testing.T) {
		base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		msgs := []domain.Message{
			// u1 messages first; u2's reply is not u1's latency
			{SenderID: "u1", ReceiverID: "u2", CreatedAt: base},
			{SenderID: "u2", ReceiverID: "u1", CreatedAt: base.Add(90 * time.Hour)},
			// u1 replies 1h later; only this pairing counts
			{SenderID: "u1", ReceiverID: "u2", CreatedAt: base.Add(91 * time.Hour)},
		}
		m := usecase.ScoreHistory("u1", msgs, nil)
		assert.InDelta(t, 1.0, m.AvgResponseTimeHours, 0.001)
		assert.Equal(t, 70, m.TotalScore)
	})
}

func TestReliabilityFallback(t *testing.T) {
	t.Run("Compute falls back to neutral when message history is unreadable", func(t *testing.T) {
		mockMessageRepo := new(MockMessageRepo)
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewReliabilityUsecase(mockMessageRepo, mockCollabRepo, new(MockUserRepo))

		mockMessageRepo.On("FetchInvolving", mock.Anything, "u1").Return(nil, errors.New("db down"))

		m := uc.Compute(context.Background(), "u1")
		assert.Equal(t, 50, m.TotalScore)
		mockCollabRepo.AssertNotCalled(t, "FetchStatusesInvolving")
	})

	t.Run("Compute falls back to neutral when collab history is unreadable", func(t *testing.T) {
		mockMessageRepo := new(MockMessageRepo)
		mockCollabRepo := new(MockCollabRepo)
		uc := usecase.NewReliabilityUsecase(mockMessageRepo, mockCollabRepo, new(MockUserRepo))

		mockMessageRepo.On("FetchInvolving", mock.Anything, "u1").Return([]domain.Message{}, nil)
		mockCollabRepo.On("FetchStatusesInvolving", mock.Anything, "u1").Return(nil, errors.New("db down"))

		m := uc.Compute(context.Background(), "u1")
		assert.Equal(t, 50, m.TotalScore)
	})

	t.Run("Refresh persists the computed metrics", func(t *testing.T) {
		mockMessageRepo := new(MockMessageRepo)
		mockCollabRepo := new(MockCollabRepo)
		mockUserRepo := new(MockUserRepo)
		uc := usecase.NewReliabilityUsecase(mockMessageRepo, mockCollabRepo, mockUserRepo)

		mockMessageRepo.On("FetchInvolving", mock.Anything, "u1").Return([]domain.Message{}, nil)
		mockCollabRepo.On("FetchStatusesInvolving", mock.Anything, "u1").Return(statuses(9, 0, 1), nil)
		mockUserRepo.On("UpdateReliabilityMetrics", mock.Anything, "u1", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			m := args.Get(2).(domain.ReliabilityMetrics)
			assert.Equal(t, 70, m.TotalScore)
		})

		uc.Refresh(context.Background(), "u1")
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("Refresh swallows persistence failures", func(t *testing.T) {
		mockMessageRepo := new(MockMessageRepo)
		mockCollabRepo := new(MockCollabRepo)
		mockUserRepo := new(MockUserRepo)
		uc := usecase.NewReliabilityUsecase(mockMessageRepo, mockCollabRepo, mockUserRepo)

		mockMessageRepo.On("FetchInvolving", mock.Anything, "u1").Return([]domain.Message{}, nil)
		mockCollabRepo.On("FetchStatusesInvolving", mock.Anything, "u1").Return([]domain.CollabStatus{}, nil)
		mockUserRepo.On("UpdateReliabilityMetrics", mock.Anything, "u1", mock.Anything).Return(errors.New("db down"))

		assert.NotPanics(t, func() {
			uc.Refresh(context.Background(), "u1")
		})
	})
}
