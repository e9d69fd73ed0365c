// Package pairing picks the two pictures shown in a comparison round.
package pairing

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// ErrInsufficientImages is returned when fewer than two eligible images exist.
var ErrInsufficientImages = errors.New("fewer than two eligible images")

// Lister returns the current eligible image identifiers.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithSeed makes the selection sequence deterministic.
func WithSeed(seed uint64) Option {
	return func(s *Selector) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // selection is not security sensitive
	}
}

// Selector samples two distinct images uniformly at random. It keeps no
// memory of previous rounds.
type Selector struct {
	lister Lister

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a selector reading the pool from lister.
func NewSelector(lister Lister, opts ...Option) *Selector {
	now := uint64(time.Now().UnixNano()) //nolint:gosec // clock value used only as a seed
	s := &Selector{
		lister: lister,
		rng:    rand.New(rand.NewPCG(now, now>>1)), //nolint:gosec // selection is not security sensitive
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns two distinct identifiers drawn without replacement.
func (s *Selector) Select(ctx context.Context) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", fmt.Errorf("select pair: %w", err)
	}
	images, err := s.lister.List(ctx)
	if err != nil {
		return "", "", fmt.Errorf("select pair: %w", err)
	}
	if len(images) < 2 {
		return "", "", ErrInsufficientImages
	}

	s.mu.Lock()
	i := s.rng.IntN(len(images))
	j := s.rng.IntN(len(images) - 1)
	s.mu.Unlock()

	if j >= i {
		j++
	}
	return images[i], images[j], nil
}
