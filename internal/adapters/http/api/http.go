// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dionchettiar/pitchboard/internal/app"
	"github.com/dionchettiar/pitchboard/internal/dataset"
	"github.com/dionchettiar/pitchboard/internal/domain/filter"
	"github.com/dionchettiar/pitchboard/internal/domain/insights"
	"github.com/dionchettiar/pitchboard/internal/domain/model"
	"github.com/dionchettiar/pitchboard/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Players(ctx context.Context, spec filter.Spec, key filter.SortKey, asc bool) ([]model.PlayerRecord, error)
	TopOverperformers(ctx context.Context, spec filter.Spec, n int) ([]model.PlayerRecord, error)
	Summary(ctx context.Context) (insights.Summary, error)
	Featured(ctx context.Context, spec filter.Spec) (model.PlayerRecord, bool, error)
	Distributions(ctx context.Context, spec filter.Spec) (insights.Distributions, error)
	KeyInsights(ctx context.Context) (insights.Key, error)
	FilterOptions(ctx context.Context) (types.FilterOptions, error)
	ExportFiltered(ctx context.Context, spec filter.Spec, key filter.SortKey, asc bool, w io.Writer) (int, error)
	ExportFull(ctx context.Context, w io.Writer) (int, error)
	Reload(ctx context.Context) (types.ReloadInfo, error)
}

// warningEmptyFilter marks a valid filter that matched no records. Clients
// render it as a hint, not an error.
const warningEmptyFilter = "empty_filter_result"

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	playersHandler       *PlayersHandler
	topHandler           *TopHandler
	summaryHandler       *SummaryHandler
	featuredHandler      *FeaturedHandler
	distributionsHandler *DistributionsHandler
	insightsHandler      *InsightsHandler
	filtersHandler       *FiltersHandler
	reloadHandler        *ReloadHandler
	exportHandler        *ExportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		playersHandler:       NewPlayersHandler(deps),
		topHandler:           NewTopHandler(deps),
		summaryHandler:       NewSummaryHandler(deps),
		featuredHandler:      NewFeaturedHandler(deps),
		distributionsHandler: NewDistributionsHandler(deps),
		insightsHandler:      NewInsightsHandler(deps),
		filtersHandler:       NewFiltersHandler(deps),
		reloadHandler:        NewReloadHandler(deps),
		exportHandler:        NewExportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/players", MetricsMiddleware(s.playersHandler.HandleGetPlayers, "players"))
	mux.HandleFunc("/api/top", MetricsMiddleware(s.topHandler.HandleGetTop, "top"))
	mux.HandleFunc("/api/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("/api/featured", MetricsMiddleware(s.featuredHandler.HandleGetFeatured, "featured"))
	mux.HandleFunc("/api/distributions", MetricsMiddleware(s.distributionsHandler.HandleGetDistributions, "distributions"))
	mux.HandleFunc("/api/insights", MetricsMiddleware(s.insightsHandler.HandleGetInsights, "insights"))
	mux.HandleFunc("/api/filters", MetricsMiddleware(s.filtersHandler.HandleGetFilters, "filters"))
	mux.HandleFunc("/api/reload", MetricsMiddleware(s.reloadHandler.HandlePostReload, "reload"))
	mux.HandleFunc("/api/export/filtered.csv", MetricsMiddleware(s.exportHandler.HandleGetFiltered, "export_filtered"))
	mux.HandleFunc("/api/export/full.csv", MetricsMiddleware(s.exportHandler.HandleGetFull, "export_full"))
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Hints   []string `json:"hints,omitempty"`
}

// loadErrorHints tell operators where to look when the dataset cannot be
// fetched or merged.
var loadErrorHints = []string{
	"verify that both CSV files exist at the configured source URLs",
	"check that the repository hosting them is public",
	"ensure the file names match exactly, including spaces",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	resp := errorResponse{Code: code, Message: msg}
	if code == "load_error" {
		resp.Hints = loadErrorHints
	}
	writeJSON(w, status, resp)
}

// writeQueryError maps a service error onto the API's error envelope: bad
// input to 400, everything else to 503, since any non-input failure on a
// read path means the dataset is unavailable and the dashboard should show
// its load-error state.
func writeQueryError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, filter.ErrInvalidSpec),
		errors.Is(err, filter.ErrUnknownSortKey),
		errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	default:
		writeError(w, http.StatusServiceUnavailable, "load_error", Wrap(op, err))
	}
}

// isLoadFailure reports whether err comes from the fetch-and-merge pipeline.
func isLoadFailure(err error) bool {
	return errors.Is(err, dataset.ErrLoad) ||
		errors.Is(err, dataset.ErrSchema) ||
		errors.Is(err, app.ErrNotStarted)
}
