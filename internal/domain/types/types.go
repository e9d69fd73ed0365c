// Package types contains the read models and request shapes shared by the
// service and its transports.
package types

import "github.com/okian/picarena/internal/domain/model"

// Entry represents a leaderboard row.
type Entry struct {
	Rank    int    `json:"rank"`
	Image   string `json:"image"`
	Rating  int    `json:"rating"`
	Present bool   `json:"present"`
}

// Round is a pair offered for comparison.
type Round struct {
	RoundID string `json:"round_id"`
	Image1  string `json:"image1"`
	Image2  string `json:"image2"`
}

// Vote is one submitted comparison. RoundID is optional; when set, a second
// submission of the same round is not applied again.
type Vote struct {
	RoundID string        `json:"round_id,omitempty"`
	Image1  string        `json:"image1"`
	Image2  string        `json:"image2"`
	Outcome model.Outcome `json:"outcome"`
}

// Result reports the ratings after a vote.
type Result struct {
	RoundID   string        `json:"round_id,omitempty"`
	Image1    string        `json:"image1"`
	Image2    string        `json:"image2"`
	Rating1   int           `json:"rating1"`
	Rating2   int           `json:"rating2"`
	Outcome   model.Outcome `json:"outcome"`
	Duplicate bool          `json:"duplicate"`
	Message   string        `json:"message"`
}

// DistributionBucket is one outcome's share of all committed comparisons.
type DistributionBucket struct {
	Outcome model.Outcome `json:"outcome"`
	Label   string        `json:"label"`
	Count   int           `json:"count"`
	Percent float64       `json:"percent"`
}

// Summary aggregates usage statistics.
type Summary struct {
	TotalRatings        int                  `json:"total_ratings"`
	ImagesRated         int                  `json:"images_rated"`
	TotalImages         int                  `json:"total_images"`
	ComparisonsMade     int                  `json:"comparisons_made"`
	PossibleComparisons int                  `json:"possible_comparisons"`
	Distribution        []DistributionBucket `json:"distribution"`
	MinRating           int                  `json:"min_rating"`
	MaxRating           int                  `json:"max_rating"`
}

// PossiblePairs returns n(n-1)/2, the number of unordered pairs of n images.
func PossiblePairs(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// Coverage returns the share of possible pairs compared at least once, in percent.
func (s Summary) Coverage() float64 {
	if s.PossibleComparisons == 0 {
		return 0
	}
	return float64(s.ComparisonsMade) / float64(s.PossibleComparisons) * 100
}
