package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/okian/picarena/internal/domain/types"
)

// ImageHandler serves picture bytes.
type ImageHandler struct {
	deps ImageDependencies
}

// NewImageHandler creates a new image handler.
func NewImageHandler(deps ImageDependencies) *ImageHandler {
	return &ImageHandler{deps: deps}
}

// HandleGetImage handles GET /images/{name}. The name is reconciled the same
// way votes are, so a stale extension still finds the file.
func (h *ImageHandler) HandleGetImage(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_image"
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	name, ok := pathParam(r, "/images/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	f, resolved, err := h.deps.OpenImage(r.Context(), name)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	defer f.Close()

	if ct := mime.TypeByExtension(filepath.Ext(resolved)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if rs, ok := f.(io.ReadSeeker); ok {
		if fi, err := f.Stat(); err == nil {
			http.ServeContent(w, r, resolved, fi.ModTime(), rs)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = io.Copy(w, f)
	}
}
