package service

import (
	"github.com/okian/picarena/internal/adapters/repository"
	"github.com/okian/picarena/internal/domain/rating"
	"github.com/okian/picarena/internal/domain/rounds"
	"github.com/okian/picarena/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngine sets the Elo engine.
func WithEngine(e *rating.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithSelector replaces the pair selector.
func WithSelector(sel Selector) Option {
	return func(s *Service) {
		if sel != nil {
			s.selector = sel
		}
	}
}

// WithTracker replaces the committed-round tracker.
func WithTracker(t rounds.Tracker) Option {
	return func(s *Service) {
		if t != nil {
			s.tracker = t
		}
	}
}

// WithRoundStore persists committed round IDs so a repeated round is
// rejected across restarts. Without it rounds are only remembered in memory.
func WithRoundStore(rs repository.RoundStore) Option {
	return func(s *Service) {
		s.roundStore = rs
	}
}

// WithRoundCacheSize sets how many committed round IDs are remembered by the
// default tracker.
func WithRoundCacheSize(size int) Option {
	return func(s *Service) {
		s.roundCacheSize = size
	}
}

// WithResetSecret sets the shared secret accepted by Reset. Empty disables reset.
func WithResetSecret(secret string) Option {
	return func(s *Service) {
		s.resetSecret = secret
	}
}

// WithRoundIDGenerator replaces the round ID source.
func WithRoundIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newRoundID = gen
		}
	}
}
