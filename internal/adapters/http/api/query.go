package api

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/dionchettiar/pitchboard/internal/domain/filter"
)

// parseSpec builds a filter spec from query parameters. Absent categorical
// params mean "All"; absent fatigue bounds mean unbounded.
func parseSpec(op string, q url.Values) (filter.Spec, error) {
	spec := filter.Default()
	if v := strings.TrimSpace(q.Get("recommendation")); v != "" {
		spec.Recommendation = v
	}
	if v := q.Get("position"); v != "" {
		spec.Position = v
	}

	var err error
	if spec.FatigueMin, err = parseBound(q.Get("fatigue_min"), math.Inf(-1)); err != nil {
		return filter.Spec{}, WrapKind(op, ErrBadRequest, err)
	}
	if spec.FatigueMax, err = parseBound(q.Get("fatigue_max"), math.Inf(1)); err != nil {
		return filter.Spec{}, WrapKind(op, ErrBadRequest, err)
	}
	if err := spec.Validate(); err != nil {
		return filter.Spec{}, Wrap(op, err)
	}
	return spec, nil
}

func parseBound(raw string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err //nolint:wrapcheck // wrapped by the caller with op and kind
	}
	return v, nil
}

// parseSort reads sort and order parameters. Empty sort defaults to
// overperformance descending.
func parseSort(op string, q url.Values) (filter.SortKey, bool, error) {
	key, err := filter.ParseSortKey(q.Get("sort"))
	if err != nil {
		return "", false, Wrap(op, err)
	}
	switch strings.ToLower(strings.TrimSpace(q.Get("order"))) {
	case "", "desc":
		return key, false, nil
	case "asc":
		return key, true, nil
	default:
		return "", false, NewKind(op, ErrBadRequest)
	}
}

// parseLimit reads an optional positive integer limit; 0 means unset.
func parseLimit(op string, q url.Values) (int, error) {
	raw := strings.TrimSpace(q.Get("limit"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, NewKind(op, ErrBadRequest)
	}
	return n, nil
}
