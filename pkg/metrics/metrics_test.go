package metrics_test

import (
	"testing"

	"github.com/dionchettiar/pitchboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithPrometheusRegistry(reg),
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("dashboard"),
		)

		Convey("Then the manager should be created", func() {
			So(m, ShouldNotBeNil)
		})

		Convey("And the registry should contain the registered metrics", func() {
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			// Counters and histograms are lazy until observed; gauges register eagerly.
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording domain metrics", func() {
			So(func() {
				metrics.RecordDatasetLoad(12.5)
				metrics.RecordDatasetLoadError()
				metrics.UpdateDatasetRecords(42)
				metrics.RecordDatasetRowsDropped(3)
				metrics.RecordFilterQuery()
				metrics.RecordEmptyFilterResult()
				metrics.RecordExport("filtered")
				metrics.RecordExport("full")
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				metrics.RecordHTTPRequest("players", "GET", "200")
				metrics.RecordHTTPRequestDuration("players", "GET", "200", 4.2)
				metrics.RecordErrorByComponent("dataset", "load_error")
				metrics.RecordErrorByType("load_error", "high")
				metrics.RecordErrorByEndpoint("players", "GET", "server_error")
				metrics.RecordErrorLatency("http", "server_error", 9.0)
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				metrics.UpdateSystemMemoryUsage(1 << 20)
				metrics.UpdateSystemGoroutineCount(10)
				metrics.RecordSystemGCPauseTime(0.25)
				metrics.UpdateWSClients(2)
			}, ShouldNotPanic)
		})

		Convey("Then the shared registry should be exposed", func() {
			So(metrics.GetRegistry(), ShouldNotBeNil)
		})
	})
}
