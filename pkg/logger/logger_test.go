package logger_test

import (
	"context"
	"testing"

	"github.com/okian/sitebench/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		err := logger.Init()
		So(err, ShouldBeNil)

		Convey("When getting the global logger", func() {
			l := logger.Get()

			Convey("Then it should not be nil", func() {
				So(l, ShouldNotBeNil)
			})

			Convey("And logging should not panic", func() {
				So(func() {
					l.Info(context.Background(), "hello", logger.String("k", "v"))
					l.Debug(context.Background(), "debug", logger.Int("n", 1))
					l.Warn(context.Background(), "warn", logger.Float64("f", 0.5))
				}, ShouldNotPanic)
			})
		})

		Convey("When creating a named logger", func() {
			l := logger.Named("views")

			Convey("Then it should produce a distinct logger", func() {
				So(l, ShouldNotBeNil)
				So(l, ShouldNotEqual, logger.Get())
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given the level parser", t, func() {
		Convey("When setting known levels", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", ""} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("When setting an unknown level", func() {
			err := logger.SetLevelString("verbose")

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
