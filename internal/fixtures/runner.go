package fixtures

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/dionchettiar/pitchboard/internal/dataset"
	"github.com/dionchettiar/pitchboard/internal/domain/model"
	"github.com/dionchettiar/pitchboard/internal/export"
	"github.com/dionchettiar/pitchboard/pkg/logger"
)

// File permission constants.
const (
	filePermission      = 0600
	directoryPermission = 0750
)

const overperformanceTolerance = 1e-9

// Run generates a fixture, serves it, pushes it through the real load
// pipeline, and verifies the merge and the export round-trip. With
// cfg.ServeOnly it just serves the sources until the context ends, for
// pointing a locally running service at known data.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	lg := logger.Get()
	lg.Info(ctx, "generating fixture",
		logger.Int("players", cfg.NumPlayers),
		logger.Int("dirtyRows", cfg.DirtyRows),
		logger.Any("seed", seed))

	fixture, err := Generate(cfg.NumPlayers, cfg.DirtyRows, seed)
	if err != nil {
		return err
	}
	stats.PlayersGenerated = len(fixture.Expected)
	stats.DirtyRowsPlanted = cfg.DirtyRows * 2

	if cfg.OutputDir != "" {
		if err := writeSources(ctx, cfg.OutputDir, fixture); err != nil {
			lg.Warn(ctx, "failed to write fixture sources", logger.Error(err))
		}
	}

	server := NewServer(fixture, lg)
	if err := server.Start(ctx, cfg.Addr); err != nil {
		return err
	}
	defer func() { _ = server.Stop(context.Background()) }()

	if cfg.ServeOnly {
		lg.Info(ctx, "serving fixture sources until interrupted")
		<-ctx.Done()
		return nil
	}

	loader := dataset.New(
		dataset.WithFetcher(dataset.NewHTTPFetcher(dataset.WithTimeout(cfg.Timeout))),
		dataset.WithSources(server.SourceAURL(), server.SourceBURL()),
		dataset.WithLogger(lg),
	)
	snap, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}
	stats.RecordsLoaded = snap.Count()
	stats.RowsDropped = cfg.DirtyRows // source-B phantoms never reach the A-side row count

	if err := verifyMerge(snap.Records, fixture.Expected); err != nil {
		return err
	}
	exportRows, err := verifyExportRoundTrip(snap.Records)
	if err != nil {
		return err
	}
	stats.ExportRows = exportRows

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	lg.Info(ctx, "fixture verification completed successfully")
	return nil
}

// verifyMerge checks the loaded records against what the generator expected:
// same players in the same order, every dirty row dropped, and the
// overperformance identity holding on every record.
func verifyMerge(got, want []model.PlayerRecord) error {
	if len(got) != len(want) {
		return fmt.Errorf("%w: loaded %d records, expected %d", ErrVerify, len(got), len(want))
	}
	for i := range got {
		if got[i].Player != want[i].Player {
			return fmt.Errorf("%w: record %d is %q, expected %q", ErrVerify, i, got[i].Player, want[i].Player)
		}
		if !reflect.DeepEqual(got[i], want[i]) {
			return fmt.Errorf("%w: record %q differs from generated values", ErrVerify, got[i].Player)
		}
		identity := got[i].ActualImpact - got[i].PredictedImpact
		if math.Abs(got[i].Overperformance-identity) > overperformanceTolerance {
			return fmt.Errorf("%w: record %q overperformance %v, expected %v",
				ErrVerify, got[i].Player, got[i].Overperformance, identity)
		}
	}
	return nil
}

// verifyExportRoundTrip writes the records through the full-precision export
// and reads them back, requiring exact equality.
func verifyExportRoundTrip(records []model.PlayerRecord) (int, error) {
	var buf bytes.Buffer
	if err := export.WriteFull(&buf, records); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrVerify, err)
	}
	back, err := export.ReadFull(&buf)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrVerify, err)
	}
	if !reflect.DeepEqual(back, records) {
		return 0, fmt.Errorf("%w: export round-trip altered the records", ErrVerify)
	}
	return len(back), nil
}

func writeSources(ctx context.Context, dir string, fixture *Fixture) error {
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	pairs := map[string][]byte{
		"sub_optimizer.csv": fixture.SourceA,
		"performance.csv":   fixture.SourceB,
	}
	for name, body := range pairs {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, body, filePermission); err != nil {
			return fmt.Errorf("%w: %w", ErrGenerate, err)
		}
		logger.Get().Info(ctx, "fixture source written", logger.String("path", path))
	}
	return nil
}

// displayFinalStats prints the final fixture statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("playersGenerated", stats.PlayersGenerated),
		logger.Int("dirtyRowsPlanted", stats.DirtyRowsPlanted),
		logger.Int("recordsLoaded", stats.RecordsLoaded),
		logger.Int("rowsDropped", stats.RowsDropped),
		logger.Int("exportRows", stats.ExportRows),
		logger.String("duration", stats.Duration.String()))
}
