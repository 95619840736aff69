package domain

import "context"

// ReliabilityMetrics is the 0-100 reputation summary derived from a user's
// message-response latency and collab completion history.
type ReliabilityMetrics struct {
	AvgResponseTimeHours float64 `json:"avg_response_time"` // mean hours to reply
	CompletionRate       float64 `json:"completion_rate"`   // percent of collabs completed
	AbandonedCount       int     `json:"abandoned_count"`   // collabs cancelled
	TotalScore           int     `json:"total_score"`       // composite, 0-100
}

type ReliabilityUsecase interface {
	// Compute derives the metrics from history. Data-access failures are
	// absorbed into a neutral fallback result, never returned as errors.
	Compute(ctx context.Context, userID string) ReliabilityMetrics
	// Refresh recomputes the metrics and persists them onto the profile.
	// Persistence failures are logged only.
	Refresh(ctx context.Context, userID string)
}
