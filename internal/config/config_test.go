package config_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/okian/sitebench/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewDefaults(t *testing.T) {
	Convey("Given default construction", t, func() {
		cfg := config.New(context.Background())

		Convey("Then every field should carry a sane default", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.BasePath, ShouldEqual, "data/splits")
			So(cfg.OutputPath, ShouldEqual, "artifacts")
			So(cfg.QueueSize, ShouldEqual, 10_000)
			So(cfg.WorkerCount, ShouldEqual, runtime.NumCPU())
			So(cfg.DedupeSize, ShouldEqual, 50_000)
			So(cfg.MaxIteration, ShouldEqual, 100)
			So(cfg.JitterFactor, ShouldAlmostEqual, 0.08)
			So(cfg.SampleSizes, ShouldNotBeEmpty)
		})

		Convey("Then optional input paths should default to empty", func() {
			So(cfg.ResultsPath, ShouldBeBlank)
			So(cfg.RegistryPath, ShouldBeBlank)
			So(cfg.TuningPath, ShouldBeBlank)
		})
	})
}
