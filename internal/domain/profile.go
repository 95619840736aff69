package domain

import (
	"context"
	"time"
)

// Follower buckets: a coarse, ordered proxy for audience size used instead
// of exact follower counts. The top bucket is open-ended.
const (
	Bucket0To1k     = "0-1k"
	Bucket1kTo10k   = "1k-10k"
	Bucket10kTo50k  = "10k-50k"
	Bucket50kTo100k = "50k-100k"
	Bucket100kPlus  = "100k+"
)

// FollowerBuckets lists the valid buckets in ascending order.
var FollowerBuckets = []string{
	Bucket0To1k,
	Bucket1kTo10k,
	Bucket10kTo50k,
	Bucket50kTo100k,
	Bucket100kPlus,
}

type UserProfile struct {
	ID             string   `json:"id"` // Supabase UUID
	Name           string   `json:"name" validate:"required,min=2,max=80"`
	NicheTags      []string `json:"niche_tags" validate:"max=10,dive,min=1,max=40"`
	StyleTags      []string `json:"style_tags" validate:"max=10,dive,min=1,max=40"`
	FollowerBucket *string  `json:"follower_bucket" validate:"omitempty,oneof=0-1k 1k-10k 10k-50k 50k-100k 100k+"`

	// Reputation fields. Written only by the reliability refresh job,
	// read-only everywhere else (including the ranker).
	ReliabilityScore     int     `json:"reliability_score"`
	AvgResponseTimeHours float64 `json:"avg_response_time"`
	CompletionRate       float64 `json:"completion_rate"`
	AbandonedCollabs     int     `json:"abandoned_collabs"`

	CompletedCollabs int       `json:"completed_collabs"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AllTags returns niche and style tags as a single slice, the form the
// ranker consumes.
func (u *UserProfile) AllTags() []string {
	tags := make([]string, 0, len(u.NicheTags)+len(u.StyleTags))
	tags = append(tags, u.NicheTags...)
	tags = append(tags, u.StyleTags...)
	return tags
}

type UserRepository interface {
	Create(ctx context.Context, profile *UserProfile) error
	GetByID(ctx context.Context, id string) (*UserProfile, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*UserProfile, error)
	Update(ctx context.Context, profile *UserProfile) error
	IncrementCompletedCollabs(ctx context.Context, id string) error
	UpdateReliabilityMetrics(ctx context.Context, id string, metrics ReliabilityMetrics) error
}

type UserUsecase interface {
	GetProfile(ctx context.Context, id string) (*UserProfile, error)
	CreateProfile(ctx context.Context, profile *UserProfile) error
	UpdateProfile(ctx context.Context, profile *UserProfile) error
}
