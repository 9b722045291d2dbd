package chart_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/sitebench/internal/adapters/chart"
	"github.com/okian/sitebench/internal/domain/model"
	"github.com/okian/sitebench/internal/domain/views"
	. "github.com/smartystreets/goconvey/convey"
)

func chartRecords() []model.EvaluationRecord {
	return []model.EvaluationRecord{
		{Configuration: "A", SiteLeftOut: "site_a", SampleSize: 100, Iteration: 1,
			Metrics: map[string]float64{"F1": 0.9, "OA": 0.95}},
		{Configuration: "A", SiteLeftOut: "site_b", SampleSize: 100, Iteration: 2,
			Metrics: map[string]float64{"F1": 0.85, "OA": 0.9}},
		{Configuration: "B", SiteLeftOut: "site_a", SampleSize: 100, Iteration: 1,
			Metrics: map[string]float64{"F1": 0.7, "OA": 0.75}},
		{Configuration: "B", SiteLeftOut: "site_a", SampleSize: 1000, Iteration: 1,
			Metrics: map[string]float64{"F1": 0.72, "OA": 0.78}},
	}
}

func TestViolinComparison(t *testing.T) {
	Convey("Given a filtered subset", t, func() {
		subset := views.FilterBySampleSize(chartRecords(), 100, 10)

		Convey("When building the violin payload", func() {
			p, err := chart.ViolinComparison(subset, "F1", "OA", "F1 vs OA", []string{"A", "B"}, chart.DefaultTheme())

			Convey("Then series should cover each configuration-metric pair", func() {
				So(err, ShouldBeNil)
				So(p.Kind, ShouldEqual, chart.KindViolin)
				So(p.Series, ShouldHaveLength, 4)
				So(p.Series[0].Name, ShouldEqual, "A")
				So(p.Series[0].Metric, ShouldEqual, "F1")
				So(p.Series[0].Values, ShouldResemble, []float64{0.9, 0.85})
				So(p.Series[3].Name, ShouldEqual, "B")
				So(p.Series[3].Metric, ShouldEqual, "OA")
			})
		})

		Convey("When a configuration is missing from the order", func() {
			_, err := chart.ViolinComparison(subset, "F1", "OA", "t", []string{"A"}, chart.DefaultTheme())

			Convey("Then the lookup error should surface", func() {
				So(errors.Is(err, views.ErrUnknownConfiguration), ShouldBeTrue)
			})
		})

		Convey("When a metric is absent", func() {
			_, err := chart.ViolinComparison(subset, "F1", "missing", "t", []string{"A", "B"}, chart.DefaultTheme())

			So(errors.Is(err, views.ErrSchema), ShouldBeTrue)
		})
	})
}

func TestBoxBySampleSize(t *testing.T) {
	Convey("Given records across two sample sizes", t, func() {
		records := chartRecords()

		Convey("When building the box payload", func() {
			p, err := chart.BoxBySampleSize(records, []int{100, 1000}, []string{"F1"}, 10, "F1 by size", chart.DefaultTheme())

			Convey("Then each size should contribute its configurations", func() {
				So(err, ShouldBeNil)
				So(p.Kind, ShouldEqual, chart.KindBox)
				So(p.Series, ShouldHaveLength, 3) // A@100, B@100, B@1000
				So(p.Series[0].SampleSize, ShouldEqual, 100)
				So(p.Series[2].SampleSize, ShouldEqual, 1000)
				So(p.Series[2].Name, ShouldEqual, "B")
				So(p.Series[2].Values, ShouldResemble, []float64{0.72})
			})
		})

		Convey("When the iteration cap excludes records", func() {
			p, err := chart.BoxBySampleSize(records, []int{100}, []string{"F1"}, 1, "t", chart.DefaultTheme())

			Convey("Then the payload should only hold the surviving values", func() {
				So(err, ShouldBeNil)
				So(p.Series, ShouldHaveLength, 2)
				So(p.Series[0].Values, ShouldResemble, []float64{0.9}) // iteration 2 dropped
			})
		})
	})
}

func TestScatterAndWriteJSON(t *testing.T) {
	Convey("Given a jittered layout", t, func() {
		subset := views.FilterBySampleSize(chartRecords(), 100, 10)
		long, err := views.MeltPair(subset, "F1", "OA")
		So(err, ShouldBeNil)

		layout := views.NewLayout(views.WithJitterFactor(0))
		points, err := layout.JitteredScatter(long, []string{"A", "B"}, map[string]views.Style{
			"F1": {Offset: -0.1, Marker: "circle"},
			"OA": {Offset: 0.1, Marker: "diamond"},
		})
		So(err, ShouldBeNil)

		Convey("When wrapping into a scatter payload and writing it", func() {
			p := chart.Scatter(points, "runs", chart.DefaultTheme())
			path := filepath.Join(t.TempDir(), "artifacts", "scatter.json")
			So(chart.WriteJSON(path, p), ShouldBeNil)

			Convey("Then the artifact should decode back to the payload", func() {
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)

				var got chart.Payload
				So(json.Unmarshal(data, &got), ShouldBeNil)
				So(got.Kind, ShouldEqual, chart.KindScatter)
				So(got.Series, ShouldHaveLength, 1)
				So(got.Series[0].Points, ShouldHaveLength, len(points))
			})
		})
	})
}
