// Package export writes the dashboard's two CSV artifacts: the filtered,
// display-formatted table and the full merged dataset at full precision.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dionchettiar/pitchboard/internal/domain/model"
)

// Display column names, matching the merged table the dashboard renders.
var filteredHeader = []string{
	"Player", "Position", "Minutes", "Actual Impact",
	"Predicted Impact", "Overperformance", "Fatigue Score",
	"Sub Recommendation", "Sub Early Probability",
}

// fullHeader adds the joined-but-unused source-B column so the full export
// reproduces the merged table exactly.
var fullHeader = []string{
	"Player", "Position", "Minutes", "Actual Impact",
	"Predicted Impact", "Fatigue Score", "Sub Recommendation",
	"Sub Early Probability", "Actual_Impact_Perf", "Overperformance",
}

// WriteFiltered writes the display-formatted export: impact columns at four
// decimals, fatigue at two, probability at three, minutes as a
// thousands-separated integer.
func WriteFiltered(w io.Writer, records []model.PlayerRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(filteredHeader); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, r := range records {
		row := []string{
			r.Player,
			r.Position,
			FormatMinutes(r.Minutes),
			FormatImpact(r.ActualImpact),
			FormatImpact(r.PredictedImpact),
			FormatImpact(r.Overperformance),
			FormatFatigue(r.FatigueScore),
			string(r.SubRecommendation),
			FormatProbability(r.SubEarlyProbability),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// WriteFull writes every record field at full float precision so the export
// round-trips through ReadFull without loss.
func WriteFull(w io.Writer, records []model.PlayerRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fullHeader); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, r := range records {
		row := []string{
			r.Player,
			r.Position,
			formatFull(r.Minutes),
			formatFull(r.ActualImpact),
			formatFull(r.PredictedImpact),
			formatFull(r.FatigueScore),
			string(r.SubRecommendation),
			formatFull(r.SubEarlyProbability),
			formatFull(r.ActualImpactPerf),
			formatFull(r.Overperformance),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// ReadFull parses a full export back into records. It exists for the
// round-trip property and the fixture verifier, not for the load pipeline.
func ReadFull(r io.Reader) ([]model.PlayerRecord, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrRead)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range fullHeader {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrRead, col)
		}
	}

	records := make([]model.PlayerRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, err := parseFullRow(idx, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseFullRow(idx map[string]int, row []string) (model.PlayerRecord, error) {
	cell := func(col string) string { return row[idx[col]] }
	num := func(col string) (float64, error) {
		v, err := strconv.ParseFloat(cell(col), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: column %q: %w", ErrRead, col, err)
		}
		return v, nil
	}

	recommendation, err := model.ParseRecommendation(cell("Sub Recommendation"))
	if err != nil {
		return model.PlayerRecord{}, fmt.Errorf("%w: %w", ErrRead, err)
	}

	rec := model.PlayerRecord{
		Player:            cell("Player"),
		Position:          cell("Position"),
		SubRecommendation: recommendation,
	}
	if rec.Minutes, err = num("Minutes"); err != nil {
		return model.PlayerRecord{}, err
	}
	if rec.ActualImpact, err = num("Actual Impact"); err != nil {
		return model.PlayerRecord{}, err
	}
	if rec.PredictedImpact, err = num("Predicted Impact"); err != nil {
		return model.PlayerRecord{}, err
	}
	if rec.FatigueScore, err = num("Fatigue Score"); err != nil {
		return model.PlayerRecord{}, err
	}
	if rec.SubEarlyProbability, err = num("Sub Early Probability"); err != nil {
		return model.PlayerRecord{}, err
	}
	if rec.ActualImpactPerf, err = num("Actual_Impact_Perf"); err != nil {
		return model.PlayerRecord{}, err
	}
	if rec.Overperformance, err = num("Overperformance"); err != nil {
		return model.PlayerRecord{}, err
	}
	return rec, nil
}

// FormatImpact renders impact and overperformance values at four decimals.
func FormatImpact(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// FormatFatigue renders fatigue scores at two decimals.
func FormatFatigue(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// FormatProbability renders probabilities at three decimals.
func FormatProbability(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

// FormatMinutes renders minutes as a thousands-separated integer, e.g. "1,234".
func FormatMinutes(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return sign + digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

func formatFull(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
