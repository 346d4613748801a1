package api

import (
	"context"
	"net/http"

	"github.com/dionchettiar/pitchboard/internal/domain/types"
)

// FiltersDependencies defines the interface for filter option queries.
type FiltersDependencies interface {
	FilterOptions(ctx context.Context) (types.FilterOptions, error)
}

// FiltersHandler handles filter option requests.
type FiltersHandler struct {
	deps FiltersDependencies
}

// NewFiltersHandler creates a new filters handler.
func NewFiltersHandler(deps FiltersDependencies) *FiltersHandler {
	return &FiltersHandler{deps: deps}
}

// HandleGetFilters handles GET /api/filters requests. The choices derive
// from the loaded data, so the controls always match what can be selected.
func (h *FiltersHandler) HandleGetFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_filters"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	opts, err := h.deps.FilterOptions(r.Context())
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
