// Package ranking implements the rule-based match scoring used by the
// discovery feed. Rankers are pure functions over already-fetched profiles
// and postings: no I/O, no mutation of inputs, deterministic for a fixed
// reference time.
//
// Weights (100-point scale):
//   - Tag overlap:       40 (HIGH)
//   - Follower tier:     30 (MEDIUM)
//   - Recent activity:   20 (LOW-MEDIUM)
//   - Reliability:       10 (LOW)
package ranking

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go-collab-backend/internal/domain"
)

// Weights holds the per-factor score ceilings.
type Weights struct {
	TagOverlap     int
	FollowerTier   int
	RecentActivity int
	Reliability    int
}

// DefaultWeights is the production weighting. The four ceilings sum to 100
// so a match score is always directly readable as a percentage.
var DefaultWeights = Weights{
	TagOverlap:     40,
	FollowerTier:   30,
	RecentActivity: 20,
	Reliability:    10,
}

type bucketRange struct {
	min, max float64
}

// followerBucketRanges maps each bucket to its numeric [min, max) range.
// The top bucket is open-ended.
var followerBucketRanges = map[string]bucketRange{
	domain.Bucket0To1k:     {0, 1_000},
	domain.Bucket1kTo10k:   {1_000, 10_000},
	domain.Bucket10kTo50k:  {10_000, 50_000},
	domain.Bucket50kTo100k: {50_000, 100_000},
	domain.Bucket100kPlus:  {100_000, math.Inf(1)},
}

// RankCollabs scores every candidate posting for the viewer and returns them
// best match first. Every candidate is kept: a posting whose creator is
// missing from creatorsByID ranks with a zero score rather than being
// dropped. Equal scores preserve the candidates' input order.
//
// now is the reference time for recency scoring; passing it explicitly keeps
// the function deterministic.
func RankCollabs(
	viewer *domain.UserProfile,
	candidates []domain.Collab,
	creatorsByID map[string]*domain.UserProfile,
	now time.Time,
) []domain.RankedCollab {
	ranked := make([]domain.RankedCollab, 0, len(candidates))

	for _, collab := range candidates {
		creator, ok := creatorsByID[collab.Creator1]
		if !ok || creator == nil {
			ranked = append(ranked, domain.RankedCollab{Collab: collab})
			continue
		}

		breakdown := domain.RankingBreakdown{
			TagOverlap:     TagOverlapScore(viewer.AllTags(), creator.AllTags(), collab.CardData.Tags),
			FollowerTier:   FollowerTierScore(viewer.FollowerBucket, creator.FollowerBucket),
			RecentActivity: RecentActivityScore(collab.CreatedAt, creator.CompletedCollabs, now),
			Reliability:    ReliabilityScore(creator.ReliabilityScore),
		}

		ranked = append(ranked, domain.RankedCollab{
			Collab:      collab,
			CreatorName: creator.Name,
			MatchScore: breakdown.TagOverlap + breakdown.FollowerTier +
				breakdown.RecentActivity + breakdown.Reliability,
			RankingBreakdown: breakdown,
		})
	}

	// Stable: ties keep their input order so repeat invocations are
	// bitwise-identical.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})

	return ranked
}

// TagOverlapScore compares the viewer's tags against the creator's tags
// plus any tags on the posting card. Matching is case-insensitive substring
// containment in either direction, deliberately lenient so "fitness" pairs
// with "fitness coaching". Exact matches earn a small bonus on top, capped
// at 20% of the weight.
func TagOverlapScore(viewerTags, creatorTags, cardTags []string) int {
	maxScore := DefaultWeights.TagOverlap

	candidateTags := make([]string, 0, len(creatorTags)+len(cardTags))
	candidateTags = append(candidateTags, creatorTags...)
	candidateTags = append(candidateTags, cardTags...)

	if len(viewerTags) == 0 || len(candidateTags) == 0 {
		return 0
	}

	viewerLower := lowerAll(viewerTags)
	candidateLower := lowerAll(candidateTags)

	overlaps := 0
	for _, vt := range viewerLower {
		for _, ct := range candidateLower {
			if strings.Contains(ct, vt) || strings.Contains(vt, ct) {
				overlaps++
				break
			}
		}
	}

	denom := len(viewerLower)
	if len(candidateLower) > denom {
		denom = len(candidateLower)
	}
	score := int(math.Round(float64(overlaps) / float64(denom) * float64(maxScore)))

	exact := 0
	for _, vt := range viewerLower {
		for _, ct := range candidateLower {
			if vt == ct {
				exact++
				break
			}
		}
	}
	bonus := exact * 2
	if bonusCap := maxScore / 5; bonus > bonusCap {
		bonus = bonusCap
	}
	score += bonus

	if score > maxScore {
		score = maxScore
	}
	return score
}

// FollowerTierScore rates audience-size compatibility between the viewer
// and the posting creator. An absent bucket on either side earns partial
// credit; identical buckets earn full credit; otherwise score degrades with
// numeric distance between the bucket ranges.
func FollowerTierScore(viewerBucket, creatorBucket *string) int {
	maxScore := float64(DefaultWeights.FollowerTier)

	if viewerBucket == nil || creatorBucket == nil {
		return int(math.Round(maxScore * 0.3))
	}
	if *viewerBucket == *creatorBucket {
		return int(maxScore)
	}

	viewerRange, okV := followerBucketRanges[*viewerBucket]
	creatorRange, okC := followerBucketRanges[*creatorBucket]
	if !okV || !okC {
		// Unrecognized bucket label: middling compatibility.
		return int(math.Round(maxScore * 0.5))
	}

	larger := math.Max(viewerRange.max, creatorRange.max)
	overlapping := (viewerRange.min <= creatorRange.max && viewerRange.max >= creatorRange.min) ||
		math.Abs(viewerRange.min-creatorRange.min) < larger*0.5
	if overlapping {
		return int(math.Round(maxScore * 0.8))
	}

	distance := math.Min(
		math.Abs(viewerRange.min-creatorRange.max),
		math.Abs(creatorRange.min-viewerRange.max),
	)
	proximity := 1 - distance/larger
	// Distant bucket pairs can push the raw subtraction negative.
	if proximity < 0 {
		proximity = 0
	}
	return int(math.Round(proximity * maxScore * 0.6))
}

// RecentActivityScore combines how fresh the posting is with how active its
// creator has been over their lifetime. Both sub-components have fixed
// ceilings (60% and 40% of the weight) so the sum cannot exceed the weight.
func RecentActivityScore(createdAt time.Time, creatorCompletedCollabs int, now time.Time) int {
	maxScore := float64(DefaultWeights.RecentActivity)
	var score float64

	days := now.Sub(createdAt).Hours() / 24
	switch {
	case days < 1:
		score += maxScore * 0.6
	case days < 7:
		score += maxScore * 0.4
	case days < 30:
		score += maxScore * 0.2
	default:
		score += maxScore * 0.1
	}

	switch {
	case creatorCompletedCollabs > 10:
		score += maxScore * 0.4
	case creatorCompletedCollabs > 5:
		score += maxScore * 0.3
	case creatorCompletedCollabs > 0:
		score += maxScore * 0.2
	default:
		score += maxScore * 0.1
	}

	result := int(math.Round(score))
	if result > int(maxScore) {
		result = int(maxScore)
	}
	return result
}

// ReliabilityScore rescales the creator's stored 0-100 reliability score
// onto the factor's 0-10 range.
func ReliabilityScore(creatorReliability int) int {
	return int(math.Round(float64(creatorReliability) / 100 * float64(DefaultWeights.Reliability)))
}

// Explain renders a breakdown as a short human-readable summary for
// debugging and client display.
func Explain(b domain.RankingBreakdown) string {
	var parts []string
	if b.TagOverlap > 0 {
		parts = append(parts, "Tags: "+strconv.Itoa(b.TagOverlap)+"pts")
	}
	if b.FollowerTier > 0 {
		parts = append(parts, "Follower tier: "+strconv.Itoa(b.FollowerTier)+"pts")
	}
	if b.RecentActivity > 0 {
		parts = append(parts, "Activity: "+strconv.Itoa(b.RecentActivity)+"pts")
	}
	if b.Reliability > 0 {
		parts = append(parts, "Reliability: "+strconv.Itoa(b.Reliability)+"pts")
	}
	if len(parts) == 0 {
		return "No match"
	}
	return strings.Join(parts, " • ")
}

func lowerAll(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = strings.ToLower(t)
	}
	return out
}
