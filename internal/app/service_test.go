package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/prosegauge/prosegauge/internal/app"
	"github.com/prosegauge/prosegauge/internal/domain/types"
)

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestEvaluate(t *testing.T) {
	Convey("Given the scoring service", t, func() {
		ctx := context.Background()
		svc := app.New()

		Convey("When the input is empty or blank", func() {
			_, err := svc.Evaluate(ctx, "")
			_, blankErr := svc.Evaluate(ctx, "   \n\t ")

			Convey("Then it rejects with the empty-text error", func() {
				So(err, ShouldWrap, app.ErrEmptyText)
				So(blankErr, ShouldWrap, app.ErrEmptyText)
			})
		})

		Convey("When scoring heavily repeated text", func() {
			input := strings.Repeat("the. ", 400)
			ev, err := svc.Evaluate(ctx, input)
			So(err, ShouldBeNil)

			Convey("Then the signals mark it as degenerate", func() {
				So(ev.Signals.Length, ShouldEqual, 400)
				So(ev.Signals.Repetition, ShouldBeGreaterThan, 0.99)
				So(ev.Signals.UniqueWordRatio, ShouldBeLessThan, 0.01)
				So(ev.Signals.Burstiness, ShouldEqual, 0)
			})

			Convey("And the heuristic lands in the high band", func() {
				So(ev.Scores.Heuristic, ShouldBeGreaterThanOrEqualTo, 0.80)
			})

			Convey("And the compression scorer engages above the token gate", func() {
				So(ev.Scores.Zippy, ShouldBeGreaterThan, 0.9)
				So(ev.Degraded, ShouldBeFalse)
			})

			Convey("And the ensemble reports high confidence", func() {
				So(ev.Scores.Ensemble, ShouldBeGreaterThanOrEqualTo, 0.80)
				So(ev.Confidence, ShouldEqual, "high")
			})
		})

		Convey("When scoring one short natural sentence", func() {
			ev, err := svc.Evaluate(ctx, "Cats sleep most of day")
			So(err, ShouldBeNil)

			Convey("Then the compression signal is gated off", func() {
				So(ev.Signals.Length, ShouldEqual, 5)
				So(ev.Scores.Zippy, ShouldEqual, 0)
			})

			Convey("And perturbation is a no-op so stability is 1", func() {
				So(ev.Scores.DetectGPT, ShouldEqual, 1)
			})

			Convey("And damping keeps the final score out of the high band", func() {
				So(ev.Scores.Heuristic, ShouldBeLessThan, 0.25)
				So(ev.Confidence, ShouldBeIn, "low", "medium")
			})
		})

		Convey("When scoring the same text twice", func() {
			input := strings.Repeat("a steady rhythm of words marching on and on without end. ", 12)
			a, errA := svc.Evaluate(ctx, input)
			b, errB := svc.Evaluate(ctx, input)

			Convey("Then the evaluations are bit-identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})
		})

		Convey("When the caller has already given up", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			input := strings.Repeat("enough words to clear the compression gate easily here ", 10)

			_, err := svc.Evaluate(cancelled, input)

			Convey("Then the pipeline aborts at the compression step", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, context.Canceled)
			})
		})

		Convey("When every score is checked for range", func() {
			inputs := []string{
				"Cats sleep most of day",
				strings.Repeat("the. ", 400),
				"A perfectly ordinary paragraph with several different words, a comma or two, and a closing thought.",
			}
			for _, in := range inputs {
				ev, err := svc.Evaluate(ctx, in)
				So(err, ShouldBeNil)
				So(ev.Scores.Heuristic, ShouldBeBetweenOrEqual, 0, 1)
				So(ev.Scores.Zippy, ShouldBeBetweenOrEqual, 0, 1)
				So(ev.Scores.DetectGPT, ShouldBeBetweenOrEqual, 0, 1)
				So(ev.Scores.Ensemble, ShouldBeBetweenOrEqual, 0, 1)
			}
		})
	})
}

func TestEvaluateBatch(t *testing.T) {
	Convey("Given the scoring service", t, func() {
		ctx := context.Background()
		svc := app.New()

		Convey("When scoring a batch", func() {
			texts := []string{
				"Cats sleep most of day",
				strings.Repeat("the. ", 400),
				"Another unremarkable sentence for the middle of the batch.",
			}
			got, err := svc.EvaluateBatch(ctx, texts)
			So(err, ShouldBeNil)

			Convey("Then results keep the input order", func() {
				So(got, ShouldHaveLength, 3)
				So(got[0].Signals.Length, ShouldEqual, 5)
				So(got[1].Signals.Length, ShouldEqual, 400)
			})

			Convey("And each result matches a single evaluation", func() {
				single, serr := svc.Evaluate(ctx, texts[1])
				So(serr, ShouldBeNil)
				So(got[1], ShouldResemble, single)
			})
		})

		Convey("When a batch contains an empty text", func() {
			_, err := svc.EvaluateBatch(ctx, []string{"fine text here", ""})

			Convey("Then the whole batch fails", func() {
				So(err, ShouldWrap, app.ErrEmptyText)
			})
		})

		Convey("When the batch is empty", func() {
			got, err := svc.EvaluateBatch(ctx, nil)
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})
	})
}

func TestCalibrationFlow(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithWorkerCount(2), app.WithQueueSize(16))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When submitting a fresh sample", func() {
			status, err := svc.SubmitSample(ctx, "a fresh calibration sample", types.LabelHuman)
			So(err, ShouldBeNil)
			So(status, ShouldEqual, types.SubmitAccepted)

			Convey("Then a worker scores and stores it", func() {
				ok := waitFor(func() bool {
					stats, serr := svc.CalibrationStats(ctx)
					return serr == nil && stats.Total == 1
				})
				So(ok, ShouldBeTrue)

				stats, serr := svc.CalibrationStats(ctx)
				So(serr, ShouldBeNil)
				So(stats.Labels[types.LabelHuman].Count, ShouldEqual, 1)
			})
		})

		Convey("When submitting the same text twice", func() {
			first, err := svc.SubmitSample(ctx, "submitted exactly once", types.LabelAI)
			So(err, ShouldBeNil)
			So(first, ShouldEqual, types.SubmitAccepted)

			second, err := svc.SubmitSample(ctx, "submitted exactly once", types.LabelAI)
			So(err, ShouldBeNil)

			Convey("Then the second submission is a duplicate", func() {
				So(second, ShouldEqual, types.SubmitDuplicate)
			})
		})

		Convey("When the label is unknown", func() {
			status, err := svc.SubmitSample(ctx, "oddly labeled sample", "robot")
			So(err, ShouldBeNil)
			So(status, ShouldEqual, types.SubmitAccepted)

			Convey("Then it is stored as unlabeled", func() {
				ok := waitFor(func() bool {
					stats, serr := svc.CalibrationStats(ctx)
					return serr == nil && stats.Labels[types.LabelUnlabeled].Count == 1
				})
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When submitting empty text", func() {
			_, err := svc.SubmitSample(ctx, "  ", types.LabelHuman)
			So(err, ShouldWrap, app.ErrEmptyText)
		})
	})
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given an unstarted service", t, func() {
		ctx := context.Background()
		svc := app.New()

		Convey("When submitting before Start", func() {
			_, err := svc.SubmitSample(ctx, "too early", types.LabelHuman)
			So(err, ShouldWrap, app.ErrNotStarted)
		})

		Convey("When requesting stats before Start", func() {
			_, err := svc.CalibrationStats(ctx)
			So(err, ShouldWrap, app.ErrNotStarted)
		})

		Convey("When starting twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
		})

		Convey("When stopping twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			svc.Stop()
		})

		Convey("When reading stats", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats, ShouldContainKey, "queue_length")
			So(stats, ShouldContainKey, "stored_samples")
		})
	})
}
