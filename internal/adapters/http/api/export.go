package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dionchettiar/pitchboard/internal/domain/filter"
)

// ExportDependencies defines the interface for CSV export operations.
type ExportDependencies interface {
	ExportFiltered(ctx context.Context, spec filter.Spec, key filter.SortKey, asc bool, w io.Writer) (int, error)
	ExportFull(ctx context.Context, w io.Writer) (int, error)
}

// ExportHandler handles CSV download requests.
type ExportHandler struct {
	deps ExportDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleGetFiltered handles GET /api/export/filtered.csv requests: the
// display-formatted table under the request's filter and sort parameters.
func (h *ExportHandler) HandleGetFiltered(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_filtered"
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

	// Buffer before writing headers so a failed export still gets a proper
	// error response instead of a truncated download.
	var buf bytes.Buffer
	n, err := h.deps.ExportFiltered(r.Context(), spec, key, asc, &buf)
	if err != nil {
		h.writeExportError(w, op, err)
		return
	}
	serveCSV(w, fmt.Sprintf("soccer_analytics_filtered_%d_players.csv", n), buf.Bytes())
}

// HandleGetFull handles GET /api/export/full.csv requests: the entire merged
// dataset at full precision, ignoring filters.
func (h *ExportHandler) HandleGetFull(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_full"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	if _, err := h.deps.ExportFull(r.Context(), &buf); err != nil {
		h.writeExportError(w, op, err)
		return
	}
	serveCSV(w, "soccer_analytics_full_dataset.csv", buf.Bytes())
}

func (h *ExportHandler) writeExportError(w http.ResponseWriter, op string, err error) {
	if isLoadFailure(err) {
		writeError(w, http.StatusServiceUnavailable, "load_error", Wrap(op, err))
		return
	}
	writeQueryError(w, op, err)
}

func serveCSV(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
