package api

import (
	"context"
	"net/http"

	"github.com/dionchettiar/pitchboard/internal/domain/insights"
)

// SummaryDependencies defines the interface for summary tile queries.
type SummaryDependencies interface {
	Summary(ctx context.Context) (insights.Summary, error)
}

// SummaryHandler handles summary tile requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleGetSummary handles GET /api/summary requests. The tiles always cover
// the full base set regardless of any active filter.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sum, err := h.deps.Summary(r.Context())
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
