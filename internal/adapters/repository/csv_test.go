package repository_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/okian/sitebench/internal/adapters/repository"
	"github.com/okian/sitebench/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReadCSV(t *testing.T) {
	Convey("Given a well-formed results table", t, func() {
		table := strings.Join([]string{
			"configuration,site_left_out,sample_size,iteration,f1_score,overall_accuracy",
			"cfg_a,site_a,100,1,0.9,0.95",
			"cfg_a,site_a,1000,1,0.8,0.85",
			"cfg_b,site_b,100,2,0.7,",
		}, "\n") + "\n"

		Convey("When parsing it", func() {
			records, err := repository.ReadCSV(strings.NewReader(table))

			Convey("Then all rows should become records", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 3)
				So(records[0].Configuration, ShouldEqual, "cfg_a")
				So(records[0].SampleSize, ShouldEqual, 100)
				So(records[0].Metrics["f1_score"], ShouldEqual, 0.9)
				So(records[1].Metrics["overall_accuracy"], ShouldEqual, 0.85)
			})

			Convey("And empty metric cells should be absent, not zero", func() {
				_, ok := records[2].Metric("overall_accuracy")
				So(ok, ShouldBeFalse)
				So(records[2].Metrics["f1_score"], ShouldEqual, 0.7)
			})
		})
	})

	Convey("Given malformed tables", t, func() {
		Convey("When a fixed column is missing", func() {
			table := "configuration,sample_size,iteration,f1_score\ncfg_a,100,1,0.9\n"
			_, err := repository.ReadCSV(strings.NewReader(table))

			Convey("Then it should fail naming the column", func() {
				So(errors.Is(err, repository.ErrSchema), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "site_left_out")
			})
		})

		Convey("When a metric cell is not numeric", func() {
			table := "configuration,site_left_out,sample_size,iteration,f1_score\ncfg_a,site_a,100,1,high\n"
			_, err := repository.ReadCSV(strings.NewReader(table))

			So(errors.Is(err, repository.ErrSchema), ShouldBeTrue)
		})

		Convey("When sample_size is not an integer", func() {
			table := "configuration,site_left_out,sample_size,iteration,f1_score\ncfg_a,site_a,many,1,0.9\n"
			_, err := repository.ReadCSV(strings.NewReader(table))

			So(errors.Is(err, repository.ErrSchema), ShouldBeTrue)
		})
	})
}

func TestWriteCSVRoundTrip(t *testing.T) {
	Convey("Given records with partially overlapping metric sets", t, func() {
		records := []model.EvaluationRecord{
			{
				Configuration: "cfg_a", SiteLeftOut: "site_a", SampleSize: 100, Iteration: 1,
				Metrics: map[string]float64{"f1_score": 0.9, "overall_accuracy": 0.95},
			},
			{
				Configuration: "cfg_b", SiteLeftOut: "site_b", SampleSize: 1000, Iteration: 2,
				Metrics: map[string]float64{"f1_score": 0.8, "tuned_f1": 0.82},
			},
		}

		Convey("When writing and re-reading", func() {
			var buf bytes.Buffer
			So(repository.WriteCSV(&buf, records), ShouldBeNil)

			got, err := repository.ReadCSV(&buf)

			Convey("Then the records should survive the round trip", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].Metrics, ShouldResemble, records[0].Metrics)
				So(got[1].Metrics, ShouldResemble, records[1].Metrics)
				So(got[1].Key(), ShouldEqual, records[1].Key())
			})

			Convey("And the header should list fixed columns before sorted metrics", func() {
				var out bytes.Buffer
				So(repository.WriteCSV(&out, records), ShouldBeNil)
				header := strings.SplitN(out.String(), "\n", 2)[0]
				So(header, ShouldEqual, "configuration,site_left_out,sample_size,iteration,f1_score,overall_accuracy,tuned_f1")
			})
		})
	})
}
