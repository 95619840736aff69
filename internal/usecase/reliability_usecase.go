package usecase

import (
	"context"

	"go-collab-backend/internal/domain"
	"go-collab-backend/pkg/logger"
)

type reliabilityUsecase struct {
	messageRepo domain.MessageRepository
	collabRepo  domain.CollabRepository
	userRepo    domain.UserRepository
}

func NewReliabilityUsecase(
	messageRepo domain.MessageRepository,
	collabRepo domain.CollabRepository,
	userRepo domain.UserRepository,
) domain.ReliabilityUsecase {
	return &reliabilityUsecase{
		messageRepo: messageRepo,
		collabRepo:  collabRepo,
		userRepo:    userRepo,
	}
}

// neutralMetrics is the fallback when history cannot be read: a best-effort
// metric must never block an unrelated profile update on a flaky fetch.
func neutralMetrics() domain.ReliabilityMetrics {
	return domain.ReliabilityMetrics{TotalScore: 50}
}

func (u *reliabilityUsecase) Compute(ctx context.Context, userID string) domain.ReliabilityMetrics {
	messages, err := u.messageRepo.FetchInvolving(ctx, userID)
	if err != nil {
		logger.Log.Warn("reliability: message history fetch failed, using neutral metrics",
			"user_id", userID, "error", err)
		return neutralMetrics()
	}

	statuses, err := u.collabRepo.FetchStatusesInvolving(ctx, userID)
	if err != nil {
		logger.Log.Warn("reliability: collab history fetch failed, using neutral metrics",
			"user_id", userID, "error", err)
		return neutralMetrics()
	}

	return ScoreHistory(userID, messages, statuses)
}

func (u *reliabilityUsecase) Refresh(ctx context.Context, userID string) {
	metrics := u.Compute(ctx, userID)

	// Fire-and-forget persistence: failures are logged, never retried.
	if err := u.userRepo.UpdateReliabilityMetrics(ctx, userID, metrics); err != nil {
		logger.Log.Error("reliability: failed to persist metrics",
			"user_id", userID, "error", err)
		return
	}
	logger.Log.Debug("reliability: metrics refreshed",
		"user_id", userID, "total_score", metrics.TotalScore)
}

// ScoreHistory derives reliability metrics from an already-fetched history.
// messages must be ordered oldest first; statuses covers every collab the
// user participated in, any state.
//
// The composite score starts from a base of 50 and adjusts for response
// latency, completion rate and abandonment. Adjustments apply only where
// the underlying history exists, so a brand-new user scores exactly 50.
func ScoreHistory(userID string, messages []domain.Message, statuses []domain.CollabStatus) domain.ReliabilityMetrics {
	var totalResponseHours float64
	responseCount := 0
	for i := 1; i < len(messages); i++ {
		prev, curr := messages[i-1], messages[i]
		// A reply: the previous message was addressed to this user and the
		// next one in the timeline was sent by them.
		if prev.ReceiverID == userID && curr.SenderID == userID {
			totalResponseHours += curr.CreatedAt.Sub(prev.CreatedAt).Hours()
			responseCount++
		}
	}
	avgResponseTime := 0.0
	if responseCount > 0 {
		avgResponseTime = totalResponseHours / float64(responseCount)
	}

	totalCollabs := len(statuses)
	completed, abandoned := 0, 0
	for _, s := range statuses {
		switch s {
		case domain.CollabStatusCompleted:
			completed++
		case domain.CollabStatusCancelled:
			abandoned++
		}
	}
	completionRate := 0.0
	if totalCollabs > 0 {
		completionRate = float64(completed) / float64(totalCollabs) * 100
	}

	score := 50

	if responseCount > 0 {
		switch {
		case avgResponseTime < 24:
			score += 20
		case avgResponseTime < 48:
			score += 10
		case avgResponseTime > 72:
			score -= 10
		}
	}

	if totalCollabs > 0 {
		switch {
		case completionRate >= 80:
			score += 20
		case completionRate >= 60:
			score += 10
		case completionRate < 40:
			score -= 15
		}
	}

	score -= abandoned * 5
	if float64(abandoned) > float64(totalCollabs)*0.3 {
		score -= 20
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return domain.ReliabilityMetrics{
		AvgResponseTimeHours: avgResponseTime,
		CompletionRate:       completionRate,
		AbandonedCount:       abandoned,
		TotalScore:           score,
	}
}
