package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/picarena/pkg/logger"
)

const maxResetBody = 1 << 12

// ResetDependencies defines the interface for the reset operation.
type ResetDependencies interface {
	Reset(ctx context.Context, secret string) (bool, error)
}

// ResetHandler handles reset requests.
type ResetHandler struct {
	deps   ResetDependencies
	logger logger.Logger
}

// NewResetHandler creates a new reset handler.
func NewResetHandler(deps ResetDependencies, l logger.Logger) *ResetHandler {
	return &ResetHandler{deps: deps, logger: l}
}

type resetRequest struct {
	Secret string `json:"secret"`
}

// HandlePostReset handles POST /reset requests.
func (h *ResetHandler) HandlePostReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_reset"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req resetRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxResetBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ok, err := h.deps.Reset(r.Context(), req.Secret)
	if err != nil {
		h.logger.Error(r.Context(), "reset failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if !ok {
		writeError(w, http.StatusForbidden, "rejected", NewKind(op, ErrForbidden))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "reset"})
}
