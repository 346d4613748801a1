package app_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dionchettiar/pitchboard/internal/app"
	"github.com/dionchettiar/pitchboard/internal/domain/filter"
	"github.com/dionchettiar/pitchboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeStore serves a fixed snapshot and can be switched into failure mode.
type fakeStore struct {
	snap     *model.Snapshot
	fail     bool
	refreshs int
}

func (f *fakeStore) Snapshot(_ context.Context) (*model.Snapshot, error) {
	if f.fail {
		return nil, errors.New("source unreachable")
	}
	return f.snap, nil
}

func (f *fakeStore) Refresh(ctx context.Context) (*model.Snapshot, error) {
	f.refreshs++
	if f.fail {
		return nil, errors.New("source unreachable")
	}
	f.snap = model.NewSnapshot(f.snap.Records)
	return f.snap, nil
}

func (f *fakeStore) Invalidate(_ context.Context) { f.snap = nil }

func (f *fakeStore) Count(_ context.Context) int { return f.snap.Count() }

func (f *fakeStore) Loaded() bool { return f.snap != nil && !f.fail }

func testRecords() []model.PlayerRecord {
	return []model.PlayerRecord{
		{
			Player: "P1", Position: "FW", Minutes: 900,
			ActualImpact: 5.0, PredictedImpact: 4.0, Overperformance: 1.0,
			FatigueScore: 0.5, SubRecommendation: model.RecommendKeepInGame,
			SubEarlyProbability: 0.10,
		},
		{
			Player: "P2", Position: "MF", Minutes: 1200,
			ActualImpact: 3.0, PredictedImpact: 3.5, Overperformance: -0.5,
			FatigueScore: 2.5, SubRecommendation: model.RecommendSubEarly,
			SubEarlyProbability: 0.80,
		},
		{
			Player: "P3", Position: "FW,MF", Minutes: 600,
			ActualImpact: 6.0, PredictedImpact: 3.0, Overperformance: 3.0,
			FatigueScore: 1.5, SubRecommendation: model.RecommendMonitor,
			SubEarlyProbability: 0.40,
		},
	}
}

func startedService(store *fakeStore) *app.Service {
	svc := app.New(
		app.WithStore(store),
		app.WithTopNBounds(5, 15, 50),
		app.WithHistogramBins(20),
		app.WithPreload(false),
	)
	_ = svc.Start(context.Background())
	return svc
}

func TestServiceStart(t *testing.T) {
	Convey("Given a service with no logger injected", t, func() {
		store := &fakeStore{snap: model.NewSnapshot(testRecords())}
		svc := app.New(app.WithStore(store), app.WithPreload(false))

		Convey("When starting without the global logger initialized", func() {
			var err error
			So(func() { err = svc.Start(context.Background()) }, ShouldNotPanic)

			Convey("Then the service should come up on the no-op fallback", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats()["started"], ShouldEqual, true)
			})
		})

		Convey("When starting without a store", func() {
			bare := app.New()

			Convey("Then startup should be refused", func() {
				So(bare.Start(context.Background()), ShouldNotBeNil)
			})
		})
	})
}

func TestServiceQueries(t *testing.T) {
	Convey("Given a started service over three players", t, func() {
		store := &fakeStore{snap: model.NewSnapshot(testRecords())}
		svc := startedService(store)
		ctx := context.Background()

		Convey("When listing players with the default spec", func() {
			records, err := svc.Players(ctx, filter.Default(), filter.SortOverperformance, false)

			Convey("Then all players should come back ordered by overperformance", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 3)
				So(records[0].Player, ShouldEqual, "P3")
				So(records[1].Player, ShouldEqual, "P1")
				So(records[2].Player, ShouldEqual, "P2")
			})
		})

		Convey("When filtering by position substring", func() {
			spec := filter.Default()
			spec.Position = "MF"
			records, err := svc.Players(ctx, spec, filter.SortPlayer, true)

			Convey("Then only positions containing the token should match", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 2)
				So(records[0].Player, ShouldEqual, "P2")
				So(records[1].Player, ShouldEqual, "P3")
			})
		})

		Convey("When the filter matches nothing", func() {
			spec := filter.Default()
			spec.Recommendation = string(model.RecommendSubEarly)
			spec.FatigueMax = 1.0
			records, err := svc.Players(ctx, spec, filter.SortOverperformance, false)

			Convey("Then an empty set should be returned without error", func() {
				So(err, ShouldBeNil)
				So(records, ShouldBeEmpty)
			})
		})

		Convey("When the spec is invalid", func() {
			spec := filter.Default()
			spec.FatigueMin = 3
			spec.FatigueMax = 1
			_, err := svc.Players(ctx, spec, filter.SortOverperformance, false)

			Convey("Then validation should reject it", func() {
				So(errors.Is(err, filter.ErrInvalidSpec), ShouldBeTrue)
			})
		})

		Convey("When asking for top overperformers", func() {
			records, err := svc.TopOverperformers(ctx, filter.Default(), 0)

			Convey("Then n=0 should clamp to the default and rank descending", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 3)
				So(records[0].Player, ShouldEqual, "P3")
			})

			Convey("And an oversized n should clamp to the maximum", func() {
				clamped, err := svc.TopOverperformers(ctx, filter.Default(), 500)
				So(err, ShouldBeNil)
				So(len(clamped), ShouldEqual, 3)
			})
		})

		Convey("When computing the summary", func() {
			sum, err := svc.Summary(ctx)

			Convey("Then the tiles should cover the whole base set", func() {
				So(err, ShouldBeNil)
				So(sum.TotalPlayers, ShouldEqual, 3)
				So(sum.AvgFatigue, ShouldAlmostEqual, 1.5, 1e-9)
				So(sum.HighFatigueCount, ShouldEqual, 1)
				So(sum.SubEarlyCount, ShouldEqual, 1)
			})
		})

		Convey("When asking for the featured player", func() {
			rec, ok, err := svc.Featured(ctx, filter.Default())

			Convey("Then the most fatigued player should be featured", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(rec.Player, ShouldEqual, "P2")
			})

			Convey("And an empty filter should report no feature", func() {
				spec := filter.Default()
				spec.Position = "GK"
				_, none, err := svc.Featured(ctx, spec)
				So(err, ShouldBeNil)
				So(none, ShouldBeFalse)
			})
		})

		Convey("When computing distributions", func() {
			dist, err := svc.Distributions(ctx, filter.Default())

			Convey("Then both charts and the threshold lines should be present", func() {
				So(err, ShouldBeNil)
				So(len(dist.Recommendations), ShouldEqual, 3)
				So(len(dist.Histogram), ShouldEqual, 20)
				So(dist.ModerateLine, ShouldEqual, 1.0)
				So(dist.HighLine, ShouldEqual, 2.0)
			})
		})

		Convey("When computing key insights", func() {
			key, err := svc.KeyInsights(ctx)

			Convey("Then the blocks should reflect the base set", func() {
				So(err, ShouldBeNil)
				So(key.HighRisk.Count, ShouldEqual, 1)
				So(key.TopPerformers.BestPlayer, ShouldEqual, "P3")
				So(key.SubStrategy.Count, ShouldEqual, 1)
				So(key.SubStrategy.AvgFatigue, ShouldAlmostEqual, 2.5, 1e-9)
			})
		})

		Convey("When asking for filter options", func() {
			opts, err := svc.FilterOptions(ctx)

			Convey("Then choices and bounds should derive from the data", func() {
				So(err, ShouldBeNil)
				So(opts.Recommendations[0], ShouldEqual, filter.All)
				So(opts.Positions, ShouldResemble, []string{filter.All, "FW", "MF"})
				So(opts.FatigueMin, ShouldEqual, 0.5)
				So(opts.FatigueMax, ShouldEqual, 2.5)
				So(opts.DefaultTopN, ShouldEqual, 15)
			})
		})
	})
}

func TestServiceExportAndReload(t *testing.T) {
	Convey("Given a started service over three players", t, func() {
		store := &fakeStore{snap: model.NewSnapshot(testRecords())}
		svc := startedService(store)
		ctx := context.Background()

		Convey("When exporting the filtered view", func() {
			var buf bytes.Buffer
			n, err := svc.ExportFiltered(ctx, filter.Default(), filter.SortOverperformance, false, &buf)

			Convey("Then the CSV should carry display formatting", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
				lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
				So(len(lines), ShouldEqual, 4)
				So(lines[0], ShouldStartWith, "Player,Position,Minutes")
				So(lines[1], ShouldContainSubstring, "P3")
				So(lines[1], ShouldContainSubstring, "3.0000")
			})
		})

		Convey("When exporting the full dataset", func() {
			var buf bytes.Buffer
			n, err := svc.ExportFull(ctx, &buf)

			Convey("Then every record should be written", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
				So(buf.String(), ShouldContainSubstring, "Actual_Impact_Perf")
			})
		})

		Convey("When reloading", func() {
			before, ok := svc.CurrentInfo(ctx)
			So(ok, ShouldBeTrue)
			info, err := svc.Reload(ctx)

			Convey("Then a fresh snapshot identity should come back", func() {
				So(err, ShouldBeNil)
				So(store.refreshs, ShouldEqual, 1)
				So(info.SnapshotID, ShouldNotEqual, before.SnapshotID)
				So(info.RecordCount, ShouldEqual, 3)
			})
		})

		Convey("When the store fails", func() {
			store.fail = true

			Convey("Then reads should surface the load error", func() {
				_, err := svc.Players(ctx, filter.Default(), filter.SortOverperformance, false)
				So(err, ShouldNotBeNil)

				_, err = svc.Summary(ctx)
				So(err, ShouldNotBeNil)

				_, ok := svc.CurrentInfo(ctx)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When asking for stats", func() {
			stats := svc.GetStats()

			Convey("Then runtime figures should be present", func() {
				So(stats["started"], ShouldEqual, true)
				So(stats["records"], ShouldEqual, 3)
				So(stats["loaded"], ShouldEqual, true)
				So(stats["default_top_n"], ShouldEqual, 15)
			})
		})
	})
}
