package fixtures

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"testing"
	"time"

	"github.com/dionchettiar/pitchboard/internal/dataset"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		fixture, err := Generate(20, 5, 42)
		So(err, ShouldBeNil)

		Convey("Then the expected set should carry the overperformance identity", func() {
			So(len(fixture.Expected), ShouldEqual, 20)
			for _, r := range fixture.Expected {
				So(math.Abs(r.Overperformance-(r.ActualImpact-r.PredictedImpact)), ShouldBeLessThan, 1e-12)
				So(r.SubEarlyProbability, ShouldBeBetweenOrEqual, 0, 1)
				So(r.FatigueScore, ShouldBeGreaterThanOrEqualTo, 0)
			}
		})

		Convey("And source A should carry clean plus dirty rows", func() {
			rows, err := csv.NewReader(bytes.NewReader(fixture.SourceA)).ReadAll()
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1+20+5)
		})

		Convey("And the same seed should reproduce the same players", func() {
			again, err := Generate(20, 5, 42)
			So(err, ShouldBeNil)
			for i := range again.Expected {
				So(again.Expected[i].FatigueScore, ShouldEqual, fixture.Expected[i].FatigueScore)
				So(again.Expected[i].Minutes, ShouldEqual, fixture.Expected[i].Minutes)
			}
		})

		Convey("And a zero player count should be rejected", func() {
			_, err := Generate(0, 5, 42)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestServerAndLoad(t *testing.T) {
	Convey("Given a fixture served over HTTP", t, func() {
		fixture, err := Generate(30, 8, 7)
		So(err, ShouldBeNil)

		server := NewServer(fixture, nil)
		ctx := context.Background()
		So(server.Start(ctx, ""), ShouldBeNil)
		defer func() { _ = server.Stop(ctx) }()

		Convey("When the real loader consumes it", func() {
			loader := dataset.New(
				dataset.WithFetcher(dataset.NewHTTPFetcher(dataset.WithTimeout(5*time.Second))),
				dataset.WithSources(server.SourceAURL(), server.SourceBURL()),
			)
			snap, err := loader.Load(ctx)

			Convey("Then exactly the clean players should survive the merge", func() {
				So(err, ShouldBeNil)
				So(snap.Count(), ShouldEqual, 30)
				So(verifyMerge(snap.Records, fixture.Expected), ShouldBeNil)
			})

			Convey("And the export round-trip should preserve them", func() {
				So(err, ShouldBeNil)
				n, err := verifyExportRoundTrip(snap.Records)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 30)
			})
		})
	})
}
