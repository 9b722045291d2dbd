package registry_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/sitebench/internal/domain/eval"
	"github.com/okian/sitebench/internal/domain/registry"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given configuration definitions", t, func() {
		valid := registry.Config{
			Name:            "logistic_baseline",
			DatasetTemplate: "train_%d_rev1.csv",
			BuilderName:     registry.BuilderLogistic,
			Params:          map[string]float64{"w0": 0.8, "bias": -0.4},
		}

		Convey("When building a registry from a valid configuration", func() {
			reg, err := registry.New(valid)

			Convey("Then it should validate and index it", func() {
				So(err, ShouldBeNil)
				So(reg.Len(), ShouldEqual, 1)
				So(reg.Has("logistic_baseline"), ShouldBeTrue)
				So(reg.Names(), ShouldResemble, []string{"logistic_baseline"})
			})
		})

		Convey("When a configuration has no dataset template", func() {
			bad := valid
			bad.DatasetTemplate = ""
			_, err := registry.New(bad)

			Convey("Then it should fail eagerly", func() {
				So(errors.Is(err, registry.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When a template lacks the sample-size verb", func() {
			bad := valid
			bad.DatasetTemplate = "train_rev1.csv"
			_, err := registry.New(bad)

			Convey("Then it should fail eagerly", func() {
				So(errors.Is(err, registry.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When a configuration references an unknown builder", func() {
			bad := valid
			bad.BuilderName = "gradient_boosting"
			_, err := registry.New(bad)

			Convey("Then it should report the unknown builder", func() {
				So(errors.Is(err, registry.ErrUnknownBuilder), ShouldBeTrue)
			})
		})

		Convey("When two configurations share a name", func() {
			_, err := registry.New(valid, valid)

			Convey("Then it should reject the duplicate", func() {
				So(errors.Is(err, registry.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestLookupAndBuild(t *testing.T) {
	Convey("Given a registry with both builder kinds", t, func() {
		reg, err := registry.New(
			registry.Config{
				Name:            "logistic_baseline",
				DatasetTemplate: "train_%d_rev1.csv",
				BuilderName:     registry.BuilderLogistic,
				Params:          map[string]float64{"w0": 1.0, "bias": 0.0},
			},
			registry.Config{
				Name:            "perceptron_margin",
				DatasetTemplate: "train_%d_margin.csv",
				BuilderName:     registry.BuilderPerceptron,
				Params:          map[string]float64{"w0": 2.0, "w1": -1.0, "bias": 0.5},
			},
		)
		So(err, ShouldBeNil)

		Convey("When looking up an unknown configuration", func() {
			_, err := reg.Get("missing")

			Convey("Then it should return ErrConfigNotFound", func() {
				So(errors.Is(err, registry.ErrConfigNotFound), ShouldBeTrue)
			})
		})

		Convey("When building a logistic model", func() {
			m, err := reg.Build(context.Background(), "logistic_baseline")

			Convey("Then it should be a probability-emitting classifier", func() {
				So(err, ShouldBeNil)
				_, ok := m.(eval.ProbabilityEstimator)
				So(ok, ShouldBeTrue)
			})

			Convey("And each build should allocate a fresh instance", func() {
				m2, err := reg.Build(context.Background(), "logistic_baseline")
				So(err, ShouldBeNil)
				So(m2, ShouldNotPointTo, m)
			})
		})

		Convey("When building a perceptron model", func() {
			m, err := reg.Build(context.Background(), "perceptron_margin")

			Convey("Then it should be a margin-emitting classifier", func() {
				So(err, ShouldBeNil)
				_, ok := m.(eval.MarginScorer)
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When building an unknown configuration", func() {
			_, err := reg.Build(context.Background(), "missing")

			Convey("Then the lookup error should surface", func() {
				So(errors.Is(err, registry.ErrConfigNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a configuration whose builder rejects its params", t, func() {
		reg, err := registry.New(registry.Config{
			Name:            "weightless",
			DatasetTemplate: "train_%d.csv",
			BuilderName:     registry.BuilderLogistic,
			Params:          map[string]float64{"bias": 0.1},
		})
		So(err, ShouldBeNil)

		Convey("When building it", func() {
			_, err := reg.Build(context.Background(), "weightless")

			Convey("Then the builder error should propagate unchanged", func() {
				So(errors.Is(err, registry.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a YAML registry file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "registry.yaml")
		content := []byte(`configurations:
  - name: logistic_baseline
    dataset_template: "train_%d_rev1.csv"
    builder: logistic
    params:
      w0: 0.8
      bias: -0.4
  - name: perceptron_margin
    dataset_template: "train_%d_margin.csv"
    builder: perceptron
    params:
      w0: 2.0
      bias: 0.5
`)
		So(os.WriteFile(path, content, 0o600), ShouldBeNil)

		Convey("When loading it", func() {
			reg, err := registry.LoadFile(context.Background(), path)

			Convey("Then both configurations should be available", func() {
				So(err, ShouldBeNil)
				So(reg.Names(), ShouldResemble, []string{"logistic_baseline", "perceptron_margin"})

				cfg, err := reg.Get("logistic_baseline")
				So(err, ShouldBeNil)
				So(cfg.DatasetTemplate, ShouldEqual, "train_%d_rev1.csv")
				So(cfg.Params["w0"], ShouldEqual, 0.8)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := registry.LoadFile(context.Background(), filepath.Join(dir, "nope.yaml"))

			Convey("Then loading should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the file defines no configurations", func() {
			empty := filepath.Join(dir, "empty.yaml")
			So(os.WriteFile(empty, []byte("configurations: []\n"), 0o600), ShouldBeNil)
			_, err := registry.LoadFile(context.Background(), empty)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, registry.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
