package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/sitebench/internal/app"
	"github.com/okian/sitebench/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func stubEval(ctx context.Context, req model.RunRequest) (model.EvaluationRecord, error) {
	return model.EvaluationRecord{
		Configuration: req.Configuration,
		SiteLeftOut:   req.Site,
		SampleSize:    req.SampleSize,
		Iteration:     req.Iteration,
		Metrics:       map[string]float64{"f1_score": 0.8, "overall_accuracy": 0.85},
	}, nil
}

func waitForCount(t *testing.T, s *service.Service, want int) {
	t.Helper()
	ctx := context.Background()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Count(ctx) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("store never reached %d records (got %d)", want, s.Count(ctx))
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()

		Convey("When started without an evaluation function", func() {
			s := service.New()

			Convey("Then start should fail", func() {
				So(errors.Is(s.Start(ctx), service.ErrNoEvaluator), ShouldBeTrue)
			})
		})

		Convey("When submitting before start", func() {
			s := service.New(service.WithEvalFunc(stubEval))
			err := s.SubmitRun(ctx, model.RunRequest{Configuration: "a", Site: "s", SampleSize: 100, Iteration: 1})

			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("When started with an evaluation function", func() {
			s := service.New(
				service.WithEvalFunc(stubEval),
				service.WithWorkerCount(2),
				service.WithQueueSize(16),
			)
			So(s.Start(ctx), ShouldBeNil)
			Reset(func() { s.Stop(ctx) })

			Convey("Then start should be idempotent", func() {
				So(s.Start(ctx), ShouldBeNil)
			})

			Convey("Then submitted runs should land in the store", func() {
				req := model.RunRequest{Configuration: "cfg_a", Site: "site_a", SampleSize: 100, Iteration: 1}
				So(s.SubmitRun(ctx, req), ShouldBeNil)

				waitForCount(t, s, 1)
				records := s.Records(ctx)
				So(records[0].Configuration, ShouldEqual, "cfg_a")
				f1, ok := records[0].Metric("f1_score")
				So(ok, ShouldBeTrue)
				So(f1, ShouldAlmostEqual, 0.8)
			})

			Convey("Then a duplicate submission should be rejected", func() {
				req := model.RunRequest{Configuration: "cfg_a", Site: "site_a", SampleSize: 100, Iteration: 1}
				So(s.SubmitRun(ctx, req), ShouldBeNil)

				err := s.SubmitRun(ctx, req)
				So(errors.Is(err, service.ErrDuplicateRun), ShouldBeTrue)

				waitForCount(t, s, 1)
			})

			Convey("Then an out-of-range iteration should be rejected", func() {
				req := model.RunRequest{Configuration: "cfg_a", Site: "site_a", SampleSize: 100, Iteration: 0}
				So(errors.Is(s.SubmitRun(ctx, req), service.ErrIterationRange), ShouldBeTrue)
			})
		})

		Convey("When the iteration cap is lowered", func() {
			s := service.New(
				service.WithEvalFunc(stubEval),
				service.WithMaxIteration(2),
			)
			So(s.Start(ctx), ShouldBeNil)
			Reset(func() { s.Stop(ctx) })

			req := model.RunRequest{Configuration: "cfg_a", Site: "site_a", SampleSize: 100, Iteration: 3}
			So(errors.Is(s.SubmitRun(ctx, req), service.ErrIterationRange), ShouldBeTrue)
		})
	})
}

func TestServiceDrainOnStop(t *testing.T) {
	Convey("Given a service with queued runs", t, func() {
		ctx := context.Background()
		s := service.New(
			service.WithEvalFunc(stubEval),
			service.WithWorkerCount(3),
		)
		So(s.Start(ctx), ShouldBeNil)

		for i := 1; i <= 10; i++ {
			req := model.RunRequest{Configuration: "cfg_a", Site: "site_a", SampleSize: 100, Iteration: i}
			So(s.SubmitRun(ctx, req), ShouldBeNil)
		}

		Convey("When stopping", func() {
			s.Stop(ctx)

			Convey("Then all runs should have been evaluated and stored", func() {
				So(s.Count(ctx), ShouldEqual, 10)
			})
		})
	})
}
