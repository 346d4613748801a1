package api

import (
	"context"
	"net/http"

	"github.com/dionchettiar/pitchboard/internal/domain/filter"
	"github.com/dionchettiar/pitchboard/internal/domain/model"
)

// PlayersDependencies defines the interface for player table queries.
type PlayersDependencies interface {
	Players(ctx context.Context, spec filter.Spec, key filter.SortKey, asc bool) ([]model.PlayerRecord, error)
}

// PlayersHandler handles player table requests.
type PlayersHandler struct {
	deps PlayersDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayersDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

type playersResponse struct {
	Count   int                  `json:"count"`
	Warning string               `json:"warning,omitempty"`
	Players []model.PlayerRecord `json:"players"`
}

// HandleGetPlayers handles GET /api/players requests. Filter, sort and order
// come from query parameters; an empty match is a 200 with a warning, not an
// error.
func (h *PlayersHandler) HandleGetPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_players"
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
	key, asc, err := parseSort(op, q)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	records, err := h.deps.Players(r.Context(), spec, key, asc)
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
