package domain

import "context"

// RankingBreakdown holds the per-factor component scores behind a match
// score. Each component is bounded by its weight maximum and the four
// always sum to MatchScore. Kept for explainability, never persisted.
type RankingBreakdown struct {
	TagOverlap     int `json:"tag_overlap"`
	FollowerTier   int `json:"follower_tier"`
	RecentActivity int `json:"recent_activity"`
	Reliability    int `json:"reliability"`
}

// RankedCollab is a Collab augmented with its transient match score for a
// specific viewer. Instances are recomputed on every ranking pass.
type RankedCollab struct {
	Collab
	CreatorName      string           `json:"creator_name,omitempty"`
	MatchScore       int              `json:"match_score"`
	RankingBreakdown RankingBreakdown `json:"ranking_breakdown"`
}

type DiscoveryUsecase interface {
	// Recommended returns open postings ranked for the viewer, best match
	// first.
	Recommended(ctx context.Context, viewerID string, limit int) ([]RankedCollab, error)
	// Latest returns open postings newest first, without personalization.
	Latest(ctx context.Context, viewerID string, limit int) ([]RankedCollab, error)
}
