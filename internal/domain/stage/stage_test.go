package stage_test

import (
	"testing"

	"github.com/okian/hireflow/internal/domain/model"
	"github.com/okian/hireflow/internal/domain/stage"
	. "github.com/smartystreets/goconvey/convey"
)

func floatPtr(v float64) *float64 { return &v }

func TestThreshold(t *testing.T) {
	Convey("Given job settings", t, func() {
		Convey("When settings are nil", func() {
			So(stage.Threshold(nil), ShouldEqual, stage.DefaultThreshold)
		})

		Convey("When no threshold is configured", func() {
			So(stage.Threshold(&model.JobSettings{}), ShouldEqual, stage.DefaultThreshold)
		})

		Convey("When a valid threshold is configured", func() {
			settings := &model.JobSettings{ShortlistThreshold: floatPtr(82.5)}
			So(stage.Threshold(settings), ShouldEqual, 82.5)
		})

		Convey("When the configured threshold is out of range", func() {
			So(stage.Threshold(&model.JobSettings{ShortlistThreshold: floatPtr(-5)}), ShouldEqual, stage.DefaultThreshold)
			So(stage.Threshold(&model.JobSettings{ShortlistThreshold: floatPtr(140)}), ShouldEqual, stage.DefaultThreshold)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given an application awaiting review", t, func() {
		Convey("When the composite clears the threshold", func() {
			d := stage.Apply(model.StageAssessmentSubmitted, 80, 75)

			Convey("Then the candidate is shortlisted", func() {
				So(d.Next, ShouldEqual, model.StageShortlisted)
				So(d.Coarse, ShouldEqual, "shortlisted")
				So(d.Changed, ShouldBeTrue)
			})
		})

		Convey("When the composite equals the threshold exactly", func() {
			d := stage.Apply(model.StageAssessmentSubmitted, 75, 75)

			Convey("Then the tie favours the candidate", func() {
				So(d.Next, ShouldEqual, model.StageShortlisted)
			})
		})

		Convey("When the composite falls just below the threshold", func() {
			d := stage.Apply(model.StageAssessmentSubmitted, 74.999, 75)

			Convey("Then the application moves to ai_reviewed", func() {
				So(d.Next, ShouldEqual, model.StageAIReviewed)
				So(d.Coarse, ShouldEqual, "reviewed")
				So(d.Changed, ShouldBeTrue)
			})
		})

		Convey("When the application is already ai_reviewed", func() {
			d := stage.Apply(model.StageAIReviewed, 90, 75)

			Convey("Then a passing re-score can still shortlist it", func() {
				So(d.Next, ShouldEqual, model.StageShortlisted)
				So(d.Changed, ShouldBeTrue)
			})
		})

		Convey("When re-scoring keeps an ai_reviewed application below the bar", func() {
			d := stage.Apply(model.StageAIReviewed, 60, 75)

			Convey("Then the stage is unchanged", func() {
				So(d.Next, ShouldEqual, model.StageAIReviewed)
				So(d.Changed, ShouldBeFalse)
			})
		})
	})

	Convey("Given an application past automated review", t, func() {
		protected := []model.Stage{
			model.StageShortlisted,
			model.StageRejected,
			model.StageManualReview,
			model.StagePaidAssignment,
			model.StageHired,
			model.StageApplied,
		}

		Convey("When a new score arrives, the stage never regresses", func() {
			for _, current := range protected {
				d := stage.Apply(current, 100, 75)
				So(d.Next, ShouldEqual, current)
				So(d.Changed, ShouldBeFalse)
			}
		})
	})
}

func TestCoarseStatus(t *testing.T) {
	Convey("Given every pipeline stage", t, func() {
		cases := map[model.Stage]string{
			model.StageApplied:             "pending",
			model.StageAssessmentSubmitted: "pending",
			model.StageAIReviewed:          "reviewed",
			model.StageShortlisted:         "shortlisted",
			model.StageRejected:            "rejected",
			model.StageManualReview:        "in_progress",
			model.StagePaidAssignment:      "in_progress",
			model.StageHired:               "hired",
		}

		Convey("When mapping to a coarse status", func() {
			for s, want := range cases {
				So(model.CoarseStatus(s), ShouldEqual, want)
			}
		})
	})
}
