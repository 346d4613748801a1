package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dionchettiar/pitchboard/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		for _, key := range []string{
			"PITCH_CONFIG", "PITCH_ADDR", "PITCH_LOG_LEVEL",
			"PITCH_SOURCE_A_URL", "PITCH_SOURCE_B_URL",
			"PITCH_DEFAULT_TOP_N", "PITCH_FETCH_TIMEOUT_MS",
		} {
			_ = os.Unsetenv(key)
		}

		Convey("When loading with no overrides", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then defaults should come back", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8090")
				So(cfg.DefaultTopN, ShouldEqual, 15)
			})
		})

		Convey("When overriding via environment variables", func() {
			_ = os.Setenv("PITCH_ADDR", ":7070")
			_ = os.Setenv("PITCH_SOURCE_A_URL", "http://localhost:9999/a.csv")
			_ = os.Setenv("PITCH_DEFAULT_TOP_N", "10")
			defer func() {
				_ = os.Unsetenv("PITCH_ADDR")
				_ = os.Unsetenv("PITCH_SOURCE_A_URL")
				_ = os.Unsetenv("PITCH_DEFAULT_TOP_N")
			}()

			cfg, err := config.Load(context.Background())

			Convey("Then the env values should win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.SourceAURL, ShouldEqual, "http://localhost:9999/a.csv")
				So(cfg.DefaultTopN, ShouldEqual, 10)
			})
		})

		Convey("When loading from a YAML file", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "pitchboard.yaml")
			yaml := "addr: \":6060\"\nhistogram_bins: 10\n"
			So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
			_ = os.Setenv("PITCH_CONFIG", path)
			defer func() { _ = os.Unsetenv("PITCH_CONFIG") }()

			cfg, err := config.Load(context.Background())

			Convey("Then the file values should apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.HistogramBins, ShouldEqual, 10)
			})

			Convey("And env should still override the file", func() {
				_ = os.Setenv("PITCH_ADDR", ":5050")
				defer func() { _ = os.Unsetenv("PITCH_ADDR") }()

				cfg, err := config.Load(context.Background())
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
				So(cfg.HistogramBins, ShouldEqual, 10)
			})
		})

		Convey("When the config is invalid", func() {
			Convey("Then an empty addr should fail", func() {
				_ = os.Setenv("PITCH_ADDR", "")
				defer func() { _ = os.Unsetenv("PITCH_ADDR") }()

				// An empty env value still overrides the default.
				_, err := config.Load(context.Background())
				So(err, ShouldNotBeNil)
			})

			Convey("And a bad fetch timeout should fail", func() {
				_ = os.Setenv("PITCH_FETCH_TIMEOUT_MS", "-5")
				defer func() { _ = os.Unsetenv("PITCH_FETCH_TIMEOUT_MS") }()

				_, err := config.Load(context.Background())
				So(err, ShouldNotBeNil)
			})

			Convey("And an out-of-bounds default top-n should fail", func() {
				_ = os.Setenv("PITCH_DEFAULT_TOP_N", "200")
				defer func() { _ = os.Unsetenv("PITCH_DEFAULT_TOP_N") }()

				_, err := config.Load(context.Background())
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the config file does not exist", func() {
			_ = os.Setenv("PITCH_CONFIG", "/nonexistent/pitchboard.yaml")
			defer func() { _ = os.Unsetenv("PITCH_CONFIG") }()

			_, err := config.Load(context.Background())

			Convey("Then loading should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
