package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/picarena/internal/domain/pairing"
	"github.com/okian/picarena/internal/domain/types"
	"github.com/okian/picarena/pkg/logger"
)

// PairDependencies defines the interface for drawing a round.
type PairDependencies interface {
	NextPair(ctx context.Context) (types.Round, error)
}

// PairHandler handles pair requests.
type PairHandler struct {
	deps   PairDependencies
	logger logger.Logger
}

// NewPairHandler creates a new pair handler.
func NewPairHandler(deps PairDependencies, l logger.Logger) *PairHandler {
	return &PairHandler{deps: deps, logger: l}
}

// HandleGetPair handles GET /pair requests.
func (h *PairHandler) HandleGetPair(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pair"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	round, err := h.deps.NextPair(r.Context())
	if err != nil {
		if errors.Is(err, pairing.ErrInsufficientImages) {
			writeError(w, http.StatusConflict, "insufficient_images", WrapKind(op, ErrConflict, err))
			return
		}
		h.logger.Error(r.Context(), "pair selection failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, round)
}
