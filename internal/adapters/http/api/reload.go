package api

import (
	"context"
	"net/http"

	"github.com/dionchettiar/pitchboard/internal/domain/types"
)

// ReloadDependencies defines the interface for forced dataset reloads.
type ReloadDependencies interface {
	Reload(ctx context.Context) (types.ReloadInfo, error)
}

// ReloadHandler handles reload requests.
type ReloadHandler struct {
	deps ReloadDependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps ReloadDependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

type reloadResponse struct {
	Status   string           `json:"status"`
	Snapshot types.ReloadInfo `json:"snapshot"`
}

// HandlePostReload handles POST /api/reload requests: evict the cached
// snapshot and fetch both sources again. On failure the cache stays evicted
// and reads surface the load error until a reload succeeds.
func (h *ReloadHandler) HandlePostReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_reload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	info, err := h.deps.Reload(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "load_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Status: "reloaded", Snapshot: info})
}
