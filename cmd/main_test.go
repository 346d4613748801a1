package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/dionchettiar/pitchboard/internal/adapters/http/api"
	"github.com/dionchettiar/pitchboard/internal/adapters/http/site"
	"github.com/dionchettiar/pitchboard/internal/adapters/http/swagger"
	app "github.com/dionchettiar/pitchboard/internal/app"
	"github.com/dionchettiar/pitchboard/internal/config"
	"github.com/dionchettiar/pitchboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("PITCH_ADDR", ":8080")
			_ = os.Setenv("PITCH_DEFAULT_TOP_N", "20")
			defer func() {
				_ = os.Unsetenv("PITCH_ADDR")
				_ = os.Unsetenv("PITCH_DEFAULT_TOP_N")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DefaultTopN, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithTopNBounds(5, 10, 40),
					app.WithHistogramBins(25),
					app.WithPreload(false),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, svc)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				registry := prometheus.NewRegistry()
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(registry))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		convey.Convey("When testing full application setup", func() {
			convey.Convey("Then all components should register together", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)

				// Create service without starting it; no store means no fetch.
				svc := app.New(
					app.WithTopNBounds(cfg.MinTopN, cfg.DefaultTopN, cfg.MaxTopN),
					app.WithHistogramBins(cfg.HistogramBins),
					app.WithPreload(false),
				)
				convey.So(svc, convey.ShouldNotBeNil)

				mux := http.NewServeMux()
				site.Register(ctx, mux)
				swagger.Register(ctx, mux)
				api.NewServer(svc, svc).Register(ctx, mux)

				stats := svc.GetStats()
				convey.So(stats, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("PITCH_ADDR", "")
			defer func() { _ = os.Unsetenv("PITCH_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing service creation with invalid options", func() {
			convey.Convey("Then service should handle invalid options gracefully", func() {
				svc := app.New(
					app.WithTopNBounds(0, 0, 0),
					app.WithHistogramBins(0),
				)
				convey.So(svc, convey.ShouldNotBeNil)
				convey.So(svc.GetStats()["default_top_n"], convey.ShouldEqual, 15)
			})
		})
	})
}
