package api

import (
	"context"
	"net/http"

	"github.com/dionchettiar/pitchboard/internal/domain/filter"
	"github.com/dionchettiar/pitchboard/internal/domain/model"
)

// TopDependencies defines the interface for top-overperformer queries.
type TopDependencies interface {
	TopOverperformers(ctx context.Context, spec filter.Spec, n int) ([]model.PlayerRecord, error)
}

// TopHandler handles top-overperformer requests.
type TopHandler struct {
	deps TopDependencies
}

// NewTopHandler creates a new top handler.
func NewTopHandler(deps TopDependencies) *TopHandler {
	return &TopHandler{deps: deps}
}

// HandleGetTop handles GET /api/top?limit=N requests. The limit is clamped
// into the configured bounds downstream; absent means the default.
func (h *TopHandler) HandleGetTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	spec, err := parseSpec(op, q)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	n, err := parseLimit(op, q)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	records, err := h.deps.TopOverperformers(r.Context(), spec, n)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}

	resp := playersResponse{Count: len(records), Players: records}
	if len(records) == 0 {
		resp.Warning = warningEmptyFilter
		resp.Players = []model.PlayerRecord{}
	}
	writeJSON(w, http.StatusOK, resp)
}
