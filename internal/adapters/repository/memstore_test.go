package repository_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/prosegauge/prosegauge/internal/adapters/repository"
	"github.com/prosegauge/prosegauge/internal/domain/types"
)

func record(id, label string, ensemble float64) repository.Record {
	return repository.Record{
		SampleID: id,
		Label:    label,
		Scores:   types.Scores{Ensemble: ensemble},
	}
}

func TestMemStore(t *testing.T) {
	Convey("Given an in-memory calibration store", t, func() {
		ctx := context.Background()

		Convey("When adding valid records", func() {
			s := repository.NewMemStore()
			So(s.Add(ctx, record("s1", types.LabelHuman, 0.2)), ShouldBeNil)
			So(s.Add(ctx, record("s2", types.LabelAI, 0.9)), ShouldBeNil)

			Convey("Then they are counted", func() {
				So(s.Count(ctx), ShouldEqual, 2)
			})
		})

		Convey("When adding a record without a sample id", func() {
			s := repository.NewMemStore()
			err := s.Add(ctx, record("  ", types.LabelHuman, 0.5))

			Convey("Then it is rejected", func() {
				So(err, ShouldWrap, repository.ErrInvalidRecord)
				So(s.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When a record carries an unknown label", func() {
			s := repository.NewMemStore()
			So(s.Add(ctx, record("s1", "robot", 0.5)), ShouldBeNil)

			Convey("Then it is stored as unlabeled", func() {
				stats := s.Stats(ctx)
				So(stats.Labels[types.LabelUnlabeled].Count, ShouldEqual, 1)
			})
		})

		Convey("When computing stats over mixed labels", func() {
			s := repository.NewMemStore()
			So(s.Add(ctx, record("s1", types.LabelAI, 0.8)), ShouldBeNil)
			So(s.Add(ctx, record("s2", types.LabelAI, 0.6)), ShouldBeNil)
			So(s.Add(ctx, record("s3", types.LabelHuman, 0.2)), ShouldBeNil)

			stats := s.Stats(ctx)

			Convey("Then counts and means are per label", func() {
				So(stats.Total, ShouldEqual, 3)
				So(stats.Labels[types.LabelAI].Count, ShouldEqual, 2)
				So(stats.Labels[types.LabelAI].MeanEnsemble, ShouldAlmostEqual, 0.7, 1e-9)
				So(stats.Labels[types.LabelHuman].Count, ShouldEqual, 1)
				So(stats.Labels[types.LabelHuman].MeanEnsemble, ShouldAlmostEqual, 0.2, 1e-9)
			})
		})

		Convey("When the store is full", func() {
			s := repository.NewMemStore(repository.WithMaxRecords(2))
			So(s.Add(ctx, record("s1", types.LabelHuman, 0.1)), ShouldBeNil)
			So(s.Add(ctx, record("s2", types.LabelAI, 0.8)), ShouldBeNil)
			So(s.Add(ctx, record("s3", types.LabelAI, 0.6)), ShouldBeNil)

			Convey("Then the oldest record is evicted and its aggregate removed", func() {
				So(s.Count(ctx), ShouldEqual, 2)

				stats := s.Stats(ctx)
				So(stats.Total, ShouldEqual, 2)
				_, hasHuman := stats.Labels[types.LabelHuman]
				So(hasHuman, ShouldBeFalse)
				So(stats.Labels[types.LabelAI].Count, ShouldEqual, 2)
				So(stats.Labels[types.LabelAI].MeanEnsemble, ShouldAlmostEqual, 0.7, 1e-9)
			})
		})

		Convey("When adding many records across evictions", func() {
			s := repository.NewMemStore(repository.WithMaxRecords(5))
			for i := 0; i < 23; i++ {
				So(s.Add(ctx, record(fmt.Sprintf("s%d", i), types.LabelAI, 0.5)), ShouldBeNil)
			}

			Convey("Then the store never exceeds its bound", func() {
				So(s.Count(ctx), ShouldEqual, 5)
				So(s.Stats(ctx).Labels[types.LabelAI].Count, ShouldEqual, 5)
			})
		})
	})
}
