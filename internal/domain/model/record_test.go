package model_test

import (
	"testing"

	"github.com/dionchettiar/pitchboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseRecommendation(t *testing.T) {
	Convey("Given raw recommendation values", t, func() {
		Convey("Then known values should parse, with whitespace tolerated", func() {
			rec, err := model.ParseRecommendation("Sub Early")
			So(err, ShouldBeNil)
			So(rec, ShouldEqual, model.RecommendSubEarly)

			rec, err = model.ParseRecommendation("  Monitor ")
			So(err, ShouldBeNil)
			So(rec, ShouldEqual, model.RecommendMonitor)

			rec, err = model.ParseRecommendation("Keep in Game")
			So(err, ShouldBeNil)
			So(rec, ShouldEqual, model.RecommendKeepInGame)
		})

		Convey("And unknown values should fail with the sentinel", func() {
			_, err := model.ParseRecommendation("Bench Forever")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown sub recommendation")
		})
	})
}

func TestPlayerRecordPositions(t *testing.T) {
	Convey("Given records with delimited position fields", t, func() {
		Convey("Then a single position should come back as-is", func() {
			r := model.PlayerRecord{Position: "CM"}
			So(r.Positions(), ShouldResemble, []string{"CM"})
		})

		Convey("And a comma-joined list should split and trim", func() {
			r := model.PlayerRecord{Position: "CM, CAM ,ST"}
			So(r.Positions(), ShouldResemble, []string{"CM", "CAM", "ST"})
		})

		Convey("And empty parts should be dropped", func() {
			r := model.PlayerRecord{Position: "CB,, , RB"}
			So(r.Positions(), ShouldResemble, []string{"CB", "RB"})
		})
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given a snapshot over three records", t, func() {
		records := []model.PlayerRecord{
			{Player: "P1", FatigueScore: 2.5},
			{Player: "P2", FatigueScore: 0.9},
			{Player: "P3", FatigueScore: 1.5},
		}
		snap := model.NewSnapshot(records)

		Convey("Then it should carry a fresh identity", func() {
			So(snap.ID, ShouldNotBeEmpty)
			So(snap.LoadedAt.IsZero(), ShouldBeFalse)
			So(snap.Count(), ShouldEqual, 3)
		})

		Convey("And fatigue bounds should span the records", func() {
			lo, hi, ok := snap.FatigueBounds()
			So(ok, ShouldBeTrue)
			So(lo, ShouldEqual, 0.9)
			So(hi, ShouldEqual, 2.5)
		})

		Convey("And two snapshots should never share an ID", func() {
			other := model.NewSnapshot(records)
			So(other.ID, ShouldNotEqual, snap.ID)
		})
	})

	Convey("Given an empty snapshot", t, func() {
		snap := model.NewSnapshot(nil)

		Convey("Then bounds should report not-ok", func() {
			_, _, ok := snap.FatigueBounds()
			So(ok, ShouldBeFalse)
			So(snap.Count(), ShouldEqual, 0)
		})
	})
}
