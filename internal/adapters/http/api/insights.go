package api

import (
	"context"
	"net/http"

	"github.com/dionchettiar/pitchboard/internal/domain/insights"
)

// InsightsDependencies defines the interface for key insight queries.
type InsightsDependencies interface {
	KeyInsights(ctx context.Context) (insights.Key, error)
}

// InsightsHandler handles key insight requests.
type InsightsHandler struct {
	deps InsightsDependencies
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(deps InsightsDependencies) *InsightsHandler {
	return &InsightsHandler{deps: deps}
}

// HandleGetInsights handles GET /api/insights requests. Like the summary
// tiles, the insight blocks cover the full base set.
func (h *InsightsHandler) HandleGetInsights(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_insights"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	key, err := h.deps.KeyInsights(r.Context())
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, key)
}
