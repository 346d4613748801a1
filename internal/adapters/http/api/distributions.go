package api

import (
	"context"
	"net/http"

	"github.com/dionchettiar/pitchboard/internal/domain/filter"
	"github.com/dionchettiar/pitchboard/internal/domain/insights"
)

// DistributionsDependencies defines the interface for distribution queries.
type DistributionsDependencies interface {
	Distributions(ctx context.Context, spec filter.Spec) (insights.Distributions, error)
}

// DistributionsHandler handles distribution chart requests.
type DistributionsHandler struct {
	deps DistributionsDependencies
}

// NewDistributionsHandler creates a new distributions handler.
func NewDistributionsHandler(deps DistributionsDependencies) *DistributionsHandler {
	return &DistributionsHandler{deps: deps}
}

// HandleGetDistributions handles GET /api/distributions requests: the
// recommendation breakdown and the fatigue histogram over the filtered set.
func (h *DistributionsHandler) HandleGetDistributions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_distributions"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	spec, err := parseSpec(op, r.URL.Query())
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	dist, err := h.deps.Distributions(r.Context(), spec)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, dist)
}
