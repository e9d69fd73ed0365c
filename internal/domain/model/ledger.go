package model

import (
	"fmt"
	"maps"
	"slices"
)

// Ratings maps an image identifier to its rounded Elo rating.
type Ratings map[string]int

// Clone returns an independent copy.
func (r Ratings) Clone() Ratings {
	if r == nil {
		return Ratings{}
	}
	return maps.Clone(r)
}

// Ensure seeds id at initial when it has no rating yet and reports whether it did.
func (r Ratings) Ensure(id string, initial int) bool {
	if _, ok := r[id]; ok {
		return false
	}
	r[id] = initial
	return true
}

// Bounds returns the lowest and highest rating; fallback for both when empty.
func (r Ratings) Bounds(fallback int) (lo, hi int) {
	if len(r) == 0 {
		return fallback, fallback
	}
	first := true
	for _, v := range r {
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// PairKey returns the unordered key "i-j" with i <= j for two listing positions.
func PairKey(i, j int) string {
	if i > j {
		i, j = j, i
	}
	return fmt.Sprintf("%d-%d", i, j)
}

// Ledger aggregates usage counters across all committed comparisons.
type Ledger struct {
	TotalRatings    int          `json:"total_ratings"`
	ImagesRated     []string     `json:"images_rated"`
	Distribution    Distribution `json:"rating_distribution"`
	ComparisonsMade int          `json:"comparisons_made"`
	PairsRated      []string     `json:"pairs_rated"`
}

// NewLedger returns an empty ledger with non-nil lists.
func NewLedger() *Ledger {
	return &Ledger{
		ImagesRated: []string{},
		PairsRated:  []string{},
	}
}

// Normalize fills lists missing from older documents.
// It reports whether anything changed.
func (l *Ledger) Normalize() bool {
	changed := false
	if l.ImagesRated == nil {
		l.ImagesRated = []string{}
		changed = true
	}
	if l.PairsRated == nil {
		l.PairsRated = []string{}
		changed = true
	}
	return changed
}

// Record applies one committed comparison. pairKey is empty when either image
// is missing from the current listing; no pair is recorded in that case.
func (l *Ledger) Record(a, b string, outcome Outcome, pairKey string) {
	l.Normalize()
	l.TotalRatings++
	if pairKey != "" && !slices.Contains(l.PairsRated, pairKey) {
		l.PairsRated = append(l.PairsRated, pairKey)
	}
	l.ComparisonsMade = len(l.PairsRated)
	for _, id := range []string{a, b} {
		if !slices.Contains(l.ImagesRated, id) {
			l.ImagesRated = append(l.ImagesRated, id)
		}
	}
	l.Distribution.Inc(outcome)
}
