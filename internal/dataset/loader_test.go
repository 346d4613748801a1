package dataset_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dionchettiar/pitchboard/internal/dataset"
	. "github.com/smartystreets/goconvey/convey"
)

// stubFetcher serves canned CSV bodies by URL.
type stubFetcher struct {
	bodies map[string]string
	errs   map[string]error
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (io.ReadCloser, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, fmt.Errorf("%w: GET %s: status 404", dataset.ErrLoad, url)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

const (
	urlA = "http://fixtures/sub_optimizer.csv"
	urlB = "http://fixtures/performance.csv"
)

// Headers carry stray whitespace on purpose; the loader must trim them.
const sourceA = `Player , Position ,Minutes,Impact,Predicted Impact,Fatigue_Score,Sub_Recommendation,Sub Early Probability
 P1 , CM ,900,0.8,0.3,2.5,Sub Early,0.91
P2,CB,1200,0.2,0.25,0.9,Keep in Game,0.12
P3," CM, CAM ",600,0.5,0.1,1.5,Monitor,0.55
Ghost,ST,300,0.4,0.2,1.0,Monitor,0.4
Broken,LB,abc,0.1,0.1,1.0,Monitor,0.2
`

const sourceB = `Player, Actual Impact
P1,0.79
P2,0.21
P3,0.52
Extra,0.99
`

func newLoader(f dataset.Fetcher) *dataset.Loader {
	return dataset.New(
		dataset.WithFetcher(f),
		dataset.WithSources(urlA, urlB),
	)
}

func TestLoad(t *testing.T) {
	Convey("Given both sources are reachable and well-formed", t, func() {
		fetcher := &stubFetcher{bodies: map[string]string{urlA: sourceA, urlB: sourceB}}
		loader := newLoader(fetcher)

		snap, err := loader.Load(context.Background())

		Convey("Then a snapshot should come back", func() {
			So(err, ShouldBeNil)
			So(snap, ShouldNotBeNil)
			So(snap.ID, ShouldNotBeEmpty)
		})

		Convey("And only the three complete rows should survive", func() {
			// Ghost has no source-B match; Broken has unparseable minutes.
			So(snap.Count(), ShouldEqual, 3)
		})

		Convey("And string fields should be trimmed", func() {
			So(snap.Records[0].Player, ShouldEqual, "P1")
			So(snap.Records[0].Position, ShouldEqual, "CM")
			So(snap.Records[2].Position, ShouldEqual, "CM, CAM")
		})

		Convey("And overperformance should be recomputed from source A", func() {
			So(snap.Records[0].Overperformance, ShouldAlmostEqual, 0.5, 1e-9)
			So(snap.Records[1].Overperformance, ShouldAlmostEqual, -0.05, 1e-9)
			So(snap.Records[2].Overperformance, ShouldAlmostEqual, 0.4, 1e-9)
		})

		Convey("And source B's value should be joined but left out of the derivation", func() {
			So(snap.Records[0].ActualImpactPerf, ShouldAlmostEqual, 0.79, 1e-9)
			So(snap.Records[0].ActualImpact, ShouldAlmostEqual, 0.8, 1e-9)
			// 0.79 - 0.3 would be 0.49; the derivation must use A's Impact.
			So(snap.Records[0].Overperformance, ShouldNotAlmostEqual, 0.49, 1e-9)
		})
	})

	Convey("Given a source carrying its own Overperformance column", t, func() {
		withDerived := strings.Replace(sourceA,
			"Sub Early Probability\n", "Sub Early Probability,Overperformance\n", 1)
		withDerived = strings.Replace(withDerived, "Sub Early,0.91\n", "Sub Early,0.91,9.99\n", 1)
		fetcher := &stubFetcher{bodies: map[string]string{urlA: withDerived, urlB: sourceB}}

		snap, err := newLoader(fetcher).Load(context.Background())

		Convey("Then the column should be ignored and the metric recomputed", func() {
			So(err, ShouldBeNil)
			So(snap.Records[0].Overperformance, ShouldAlmostEqual, 0.5, 1e-9)
		})
	})

	Convey("Given source A is unreachable", t, func() {
		fetcher := &stubFetcher{
			bodies: map[string]string{urlB: sourceB},
			errs:   map[string]error{urlA: fmt.Errorf("%w: connection refused", dataset.ErrLoad)},
		}

		_, err := newLoader(fetcher).Load(context.Background())

		Convey("Then the load should fail with ErrLoad", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, dataset.ErrLoad), ShouldBeTrue)
		})
	})

	Convey("Given source B is unreachable", t, func() {
		fetcher := &stubFetcher{bodies: map[string]string{urlA: sourceA}}

		_, err := newLoader(fetcher).Load(context.Background())

		Convey("Then the load should fail with ErrLoad", func() {
			So(errors.Is(err, dataset.ErrLoad), ShouldBeTrue)
		})
	})

	Convey("Given source A is missing a required column", t, func() {
		headless := strings.Replace(sourceA, "Fatigue_Score", "Tiredness", 1)
		fetcher := &stubFetcher{bodies: map[string]string{urlA: headless, urlB: sourceB}}

		_, err := newLoader(fetcher).Load(context.Background())

		Convey("Then the load should fail fast with ErrSchema", func() {
			So(errors.Is(err, dataset.ErrSchema), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Fatigue_Score")
		})
	})

	Convey("Given source B is missing its impact column", t, func() {
		broken := strings.Replace(sourceB, "Actual Impact", "Impact Actual", 1)
		fetcher := &stubFetcher{bodies: map[string]string{urlA: sourceA, urlB: broken}}

		_, err := newLoader(fetcher).Load(context.Background())

		Convey("Then the load should fail fast with ErrSchema", func() {
			So(errors.Is(err, dataset.ErrSchema), ShouldBeTrue)
		})
	})

	Convey("Given the merge produces zero usable rows", t, func() {
		// Source B shares no players with source A.
		disjoint := "Player,Actual Impact\nNobody,0.1\n"
		fetcher := &stubFetcher{bodies: map[string]string{urlA: sourceA, urlB: disjoint}}

		_, err := newLoader(fetcher).Load(context.Background())

		Convey("Then the load should fail with ErrLoad, not return empty", func() {
			So(errors.Is(err, dataset.ErrLoad), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "zero usable rows")
		})
	})

	Convey("Given rows with out-of-range values", t, func() {
		dirty := `Player,Position,Minutes,Impact,Predicted Impact,Fatigue_Score,Sub_Recommendation,Sub Early Probability
P1,CM,900,0.8,0.3,2.5,Sub Early,0.91
Neg,CM,-10,0.8,0.3,2.5,Sub Early,0.91
Prob,CM,900,0.8,0.3,2.5,Sub Early,1.5
Fat,CM,900,0.8,0.3,-1,Sub Early,0.9
Rec,CM,900,0.8,0.3,2.5,Sell Player,0.9
`
		perf := "Player,Actual Impact\nP1,0.8\nNeg,0.8\nProb,0.8\nFat,0.8\nRec,0.8\n"
		fetcher := &stubFetcher{bodies: map[string]string{urlA: dirty, urlB: perf}}

		snap, err := newLoader(fetcher).Load(context.Background())

		Convey("Then only the valid row should survive", func() {
			So(err, ShouldBeNil)
			So(snap.Count(), ShouldEqual, 1)
			So(snap.Records[0].Player, ShouldEqual, "P1")
		})
	})

	Convey("Given an empty source body", t, func() {
		fetcher := &stubFetcher{bodies: map[string]string{urlA: "", urlB: sourceB}}

		_, err := newLoader(fetcher).Load(context.Background())

		Convey("Then the load should fail with ErrLoad", func() {
			So(errors.Is(err, dataset.ErrLoad), ShouldBeTrue)
		})
	})
}
