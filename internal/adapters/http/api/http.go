// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/okian/picarena/internal/domain/types"
	"github.com/okian/picarena/pkg/logger"
)

const defaultMaxLeaderboardLimit = 500

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PairDependencies
	RatingDependencies
	LeaderboardDependencies
	RankDependencies
	StatsDependencies
	ResetDependencies
	ImageDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLeaderboardLimit caps GET /leaderboard?limit.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	maxLimit int
	logger   logger.Logger

	healthHandler      *HealthHandler
	metricsHandler     http.Handler
	pairHandler        *PairHandler
	ratingHandler      *RatingHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	statsHandler       *StatsHandler
	resetHandler       *ResetHandler
	imageHandler       *ImageHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{maxLimit: defaultMaxLeaderboardLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}
	s.healthHandler = NewHealthHandler()
	s.metricsHandler = NewMetricsHandler()
	s.pairHandler = NewPairHandler(deps, s.logger)
	s.ratingHandler = NewRatingHandler(deps, s.logger)
	s.leaderboardHandler = NewLeaderboardHandler(deps, s.maxLimit)
	s.rankHandler = NewRankHandler(deps)
	s.statsHandler = NewStatsHandler(deps)
	s.resetHandler = NewResetHandler(deps, s.logger)
	s.imageHandler = NewImageHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.metricsHandler)
	mux.HandleFunc("/pair", MetricsMiddleware(s.pairHandler.HandleGetPair, "pair"))
	mux.HandleFunc("/ratings", MetricsMiddleware(s.ratingHandler.HandlePostRating, "ratings"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/reset", MetricsMiddleware(s.resetHandler.HandlePostReset, "reset"))
	mux.HandleFunc("/images/", MetricsMiddleware(s.imageHandler.HandleGetImage, "images"))
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// ImageDependencies opens image files for GET /images/{name}.
type ImageDependencies interface {
	OpenImage(ctx context.Context, name string) (fs.File, string, error)
}
