package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/picarena/internal/domain/model"
	"github.com/okian/picarena/internal/domain/types"
	"github.com/okian/picarena/pkg/logger"
)

const maxRatingBody = 1 << 16

// RatingDependencies defines the interface for submitting votes.
type RatingDependencies interface {
	Rate(ctx context.Context, v types.Vote) (types.Result, error)
}

// RatingHandler handles vote submissions.
type RatingHandler struct {
	deps   RatingDependencies
	logger logger.Logger
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(deps RatingDependencies, l logger.Logger) *RatingHandler {
	return &RatingHandler{deps: deps, logger: l}
}

// ratingRequest mirrors the OpenAPI schema for POST /ratings.
type ratingRequest struct {
	RoundID string `json:"round_id"`
	Image1  string `json:"image1"`
	Image2  string `json:"image2"`
	Outcome string `json:"outcome"`
}

func (q ratingRequest) vote() (types.Vote, error) {
	switch {
	case strings.TrimSpace(q.Image1) == "":
		return types.Vote{}, errors.New("missing image1")
	case strings.TrimSpace(q.Image2) == "":
		return types.Vote{}, errors.New("missing image2")
	case strings.TrimSpace(q.Outcome) == "":
		return types.Vote{}, errors.New("missing outcome")
	}
	o, err := model.ParseOutcome(q.Outcome)
	if err != nil {
		return types.Vote{}, err
	}
	return types.Vote{RoundID: q.RoundID, Image1: q.Image1, Image2: q.Image2, Outcome: o}, nil
}

// HandlePostRating handles POST /ratings requests.
func (h *RatingHandler) HandlePostRating(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_rating"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req ratingRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRatingBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	vote, err := req.vote()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Rate(r.Context(), vote)
	if err != nil {
		if errors.Is(err, types.ErrInvalidVote) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		h.logger.Error(r.Context(), "rating failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
