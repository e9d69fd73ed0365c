// Package rating implements the Elo update applied to a compared pair.
package rating

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/picarena/internal/domain/model"
)

// Default engine configuration constants.
const (
	DefaultKFactor       = 32
	DefaultInitialRating = 1000

	slightlyBetterShare = 0.6
	tieShare            = 0.2
	eloScale            = 400
)

// TieScoring selects how an "equal" outcome moves the two ratings.
type TieScoring uint8

const (
	// TieSymmetric scores both sides 0.5.
	TieSymmetric TieScoring = iota
	// TieFirstFavored treats picture 1 as the winner at the tie K share.
	TieFirstFavored
)

// ParseTieScoring maps "symmetric" or "first_favored" to a TieScoring.
func ParseTieScoring(s string) (TieScoring, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "symmetric":
		return TieSymmetric, nil
	case "first_favored":
		return TieFirstFavored, nil
	default:
		return 0, fmt.Errorf("unknown tie scoring %q", s)
	}
}

func (t TieScoring) String() string {
	if t == TieFirstFavored {
		return "first_favored"
	}
	return "symmetric"
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithKFactor sets the full K factor used for "much better" outcomes.
func WithKFactor(k float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.k = k
		}
	}
}

// WithInitialRating sets the rating given to identifiers seen for the first time.
func WithInitialRating(r int) Option {
	return func(e *Engine) {
		e.initial = r
	}
}

// WithTieScoring sets the tie rule.
func WithTieScoring(t TieScoring) Option {
	return func(e *Engine) {
		e.tie = t
	}
}

// Engine computes new ratings for a compared pair. It holds no state beyond
// its configuration and is safe for concurrent use.
type Engine struct {
	k       float64
	initial int
	tie     TieScoring
}

// NewEngine creates an engine with K=32, initial rating 1000 and symmetric ties.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		k:       DefaultKFactor,
		initial: DefaultInitialRating,
		tie:     TieSymmetric,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// KFactor returns the configured full K factor.
func (e *Engine) KFactor() float64 { return e.k }

// InitialRating returns the rating for unseen identifiers.
func (e *Engine) InitialRating() int { return e.initial }

// TieScoring returns the configured tie rule.
func (e *Engine) TieScoring() TieScoring { return e.tie }

// Expected returns the probability that a player rated a beats one rated b.
func Expected(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/eloScale))
}

// share returns the K factor applied for the outcome's decisiveness.
func (e *Engine) share(o model.Outcome) float64 {
	switch o.Decisiveness() {
	case model.MuchBetter:
		return e.k
	case model.SlightlyBetter:
		return e.k * slightlyBetterShare
	default:
		return e.k * tieShare
	}
}

// Update returns the new ratings of picture 1 and picture 2 after outcome.
// Each side is rounded on its own, half to even, so the pool total may drift
// by a point.
func (e *Engine) Update(a, b int, outcome model.Outcome) (int, int, error) {
	if !outcome.Valid() {
		return a, b, fmt.Errorf("%w: %d", model.ErrUnknownOutcome, uint8(outcome))
	}
	k := e.share(outcome)
	switch outcome.Favoured() {
	case model.First:
		na, nb := winLose(float64(a), float64(b), k)
		return round(na), round(nb), nil
	case model.Second:
		nb, na := winLose(float64(b), float64(a), k)
		return round(na), round(nb), nil
	default:
		if e.tie == TieFirstFavored {
			na, nb := winLose(float64(a), float64(b), k)
			return round(na), round(nb), nil
		}
		fa, fb := float64(a), float64(b)
		na := fa + k*(0.5-Expected(fa, fb))
		nb := fb + k*(0.5-Expected(fb, fa))
		return round(na), round(nb), nil
	}
}

func winLose(winner, loser, k float64) (float64, float64) {
	nw := winner + k*(1-Expected(winner, loser))
	nl := loser + k*(0-Expected(loser, winner))
	return nw, nl
}

func round(v float64) int {
	return int(math.RoundToEven(v))
}
