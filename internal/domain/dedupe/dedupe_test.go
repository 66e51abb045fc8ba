package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/prosegauge/prosegauge/internal/domain/dedupe"
)

func TestDigest(t *testing.T) {
	Convey("Given the content digest", t, func() {
		Convey("When digesting the same text twice", func() {
			So(dedupe.Digest("same text"), ShouldEqual, dedupe.Digest("same text"))
		})

		Convey("When texts differ by one character", func() {
			So(dedupe.Digest("text a"), ShouldNotEqual, dedupe.Digest("text b"))
		})

		Convey("When digesting any text", func() {
			Convey("Then the digest is 64 hex characters", func() {
				So(dedupe.Digest(""), ShouldHaveLength, 64)
				So(dedupe.Digest("x"), ShouldHaveLength, 64)
			})
		})
	})
}

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When recording a new digest", func() {
			d := dedupe.NewInMemoryDeduper()
			seen := d.SeenAndRecord(ctx, "digest-1")

			Convey("Then it is reported unseen and tracked", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording the same digest again", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "digest-1")
			seen := d.SeenAndRecord(ctx, "digest-1")

			Convey("Then it is reported seen without growing", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording a digest", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "digest-1")
			d.Unrecord(ctx, "digest-1")

			Convey("Then the digest can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "digest-1"), ShouldBeFalse)
			})
		})

		Convey("When unrecording a digest that was never seen", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "digest-1")
			d.Unrecord(ctx, "missing")

			So(d.Size(), ShouldEqual, 1)
		})

		Convey("When exceeding the maximum size", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for i := 0; i < 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("digest-%d", i))
			}

			Convey("Then the oldest digest is evicted first", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "digest-0"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "digest-3"), ShouldBeTrue)
			})
		})

		Convey("When recording concurrently", func() {
			d := dedupe.NewInMemoryDeduper()
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					d.SeenAndRecord(ctx, fmt.Sprintf("digest-%d", n%5))
				}(i)
			}
			wg.Wait()

			Convey("Then only distinct digests are tracked", func() {
				So(d.Size(), ShouldEqual, 5)
			})
		})
	})
}
