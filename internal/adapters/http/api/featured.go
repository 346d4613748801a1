package api

import (
	"context"
	"net/http"

	"github.com/dionchettiar/pitchboard/internal/domain/filter"
	"github.com/dionchettiar/pitchboard/internal/domain/model"
)

// FeaturedDependencies defines the interface for the featured player query.
type FeaturedDependencies interface {
	Featured(ctx context.Context, spec filter.Spec) (model.PlayerRecord, bool, error)
}

// FeaturedHandler handles featured player requests.
type FeaturedHandler struct {
	deps FeaturedDependencies
}

// NewFeaturedHandler creates a new featured handler.
func NewFeaturedHandler(deps FeaturedDependencies) *FeaturedHandler {
	return &FeaturedHandler{deps: deps}
}

type featuredResponse struct {
	Found   bool                `json:"found"`
	Warning string              `json:"warning,omitempty"`
	Player  *model.PlayerRecord `json:"player,omitempty"`
}

// HandleGetFeatured handles GET /api/featured requests. It returns the most
// fatigued player of the filtered set.
func (h *FeaturedHandler) HandleGetFeatured(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_featured"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	spec, err := parseSpec(op, r.URL.Query())
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	rec, ok, err := h.deps.Featured(r.Context(), spec)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, featuredResponse{Found: false, Warning: warningEmptyFilter})
		return
	}
	writeJSON(w, http.StatusOK, featuredResponse{Found: true, Player: &rec})
}
