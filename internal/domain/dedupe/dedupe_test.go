package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/okian/sitebench/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When recording a new run key", func() {
			seen := d.SeenAndRecord(ctx, "cfg|site_a|100|1")

			Convey("Then it should not have been seen before", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again should report it as seen", func() {
				So(d.SeenAndRecord(ctx, "cfg|site_a|100|1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording a key", func() {
			d.SeenAndRecord(ctx, "cfg|site_a|100|1")
			d.Unrecord(ctx, "cfg|site_a|100|1")

			Convey("Then the key should be recordable again", func() {
				So(d.SeenAndRecord(ctx, "cfg|site_a|100|1"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown key", func() {
			So(func() { d.Unrecord(ctx, "never-seen") }, ShouldNotPanic)
			So(d.Size(), ShouldEqual, 0)
		})
	})
}

func TestBoundedEviction(t *testing.T) {
	Convey("Given a deduper bounded to 3 keys", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			So(d.SeenAndRecord(ctx, fmt.Sprintf("key-%d", i)), ShouldBeFalse)
		}

		Convey("When recording a fourth key", func() {
			So(d.SeenAndRecord(ctx, "key-3"), ShouldBeFalse)

			Convey("Then the size should stay at the bound", func() {
				So(d.Size(), ShouldEqual, 3)
			})

			Convey("And the most recent prior key should have been evicted", func() {
				So(d.SeenAndRecord(ctx, "key-2"), ShouldBeFalse)
			})

			Convey("And the oldest keys should remain", func() {
				So(d.SeenAndRecord(ctx, "key-0"), ShouldBeTrue)
			})
		})
	})
}
