package scoring_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/prosegauge/prosegauge/internal/domain/scoring"
)

func TestCombine(t *testing.T) {
	Convey("Given the ensemble combiner", t, func() {
		Convey("When all sub-scores are zero", func() {
			score, confidence := scoring.Combine(0, 0, 0)

			So(score, ShouldEqual, 0)
			So(confidence, ShouldEqual, scoring.ConfidenceLow)
		})

		Convey("When all sub-scores are one", func() {
			score, confidence := scoring.Combine(1, 1, 1)

			So(score, ShouldEqual, 1)
			So(confidence, ShouldEqual, scoring.ConfidenceHigh)
		})

		Convey("When applying the fixed weights", func() {
			score, _ := scoring.Combine(1, 0, 0)
			So(score, ShouldEqual, 0.4)

			score, _ = scoring.Combine(0, 1, 0)
			So(score, ShouldEqual, 0.3)

			score, _ = scoring.Combine(0, 0, 1)
			So(score, ShouldEqual, 0.3)
		})

		Convey("When the score sits exactly on a threshold", func() {
			Convey("Then 0.55 is already medium", func() {
				_, confidence := scoring.Combine(0.55, 0.55, 0.55)
				So(confidence, ShouldEqual, scoring.ConfidenceMedium)
			})

			Convey("And 0.80 is already high", func() {
				_, confidence := scoring.Combine(0.80, 0.80, 0.80)
				So(confidence, ShouldEqual, scoring.ConfidenceHigh)
			})
		})

		Convey("When the score climbs through the bands", func() {
			_, low := scoring.Combine(0.5, 0.5, 0.5)
			_, medium := scoring.Combine(0.7, 0.7, 0.7)
			_, high := scoring.Combine(0.9, 0.9, 0.9)

			Convey("Then confidence never decreases", func() {
				So(low, ShouldEqual, scoring.ConfidenceLow)
				So(medium, ShouldEqual, scoring.ConfidenceMedium)
				So(high, ShouldEqual, scoring.ConfidenceHigh)
			})
		})
	})
}
