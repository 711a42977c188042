package scoring_test

import (
	"context"
	"strings"
	"testing"

	"github.com/okian/hireflow/internal/domain/model"
	"github.com/okian/hireflow/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleEssay = `Remote work has reshaped how engineering teams collaborate across time zones.
When a team writes decisions down, new members can catch up without meetings.
Documentation also makes disagreements visible early, before they become expensive.
Teams that invest in clear writing tend to ship more predictably than teams that rely on hallway conversations.
There are costs, of course! Writing takes time, and not everyone enjoys it.
But the alternative is tribal knowledge that walks out the door with every departure.
A good engineering culture treats prose as part of the product.
Reviews of design documents deserve the same care as reviews of code.
`

func dimensions(r model.AIScoreRecord) []model.DimensionFeedback {
	return []model.DimensionFeedback{
		r.Readability,
		r.WritingQuality,
		r.SEO,
		r.EnglishProficiency,
		r.AIDetection,
	}
}

func TestHeuristicScorer_Score(t *testing.T) {
	Convey("Given a heuristic scorer", t, func() {
		scorer := scoring.NewHeuristicScorer()
		ctx := context.Background()

		Convey("When scoring the same content twice", func() {
			first, err1 := scorer.Score(ctx, scoring.Input{Content: sampleEssay})
			second, err2 := scorer.Score(ctx, scoring.Input{Content: sampleEssay})

			Convey("Then the composite is identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first.CompositeScore, ShouldEqual, second.CompositeScore)
				So(first, ShouldResemble, second)
			})
		})

		Convey("When scoring normal content", func() {
			rec, err := scorer.Score(ctx, scoring.Input{Content: sampleEssay})
			So(err, ShouldBeNil)

			Convey("Then every score is within bounds", func() {
				for _, d := range dimensions(rec) {
					So(d.Score, ShouldBeGreaterThanOrEqualTo, 0)
					So(d.Score, ShouldBeLessThanOrEqualTo, 100)
				}
				So(rec.CompositeScore, ShouldBeGreaterThanOrEqualTo, 0)
				So(rec.CompositeScore, ShouldBeLessThanOrEqualTo, 100)
			})

			Convey("And every dimension carries feedback", func() {
				for _, d := range dimensions(rec) {
					So(len(d.Feedback), ShouldBeGreaterThan, 0)
				}
			})
		})

		Convey("When scoring empty content", func() {
			rec, err := scorer.Score(ctx, scoring.Input{Content: ""})

			Convey("Then it does not crash and scores stay bounded", func() {
				So(err, ShouldBeNil)
				for _, d := range dimensions(rec) {
					So(d.Score, ShouldBeGreaterThanOrEqualTo, 0)
					So(d.Score, ShouldBeLessThanOrEqualTo, 100)
				}
			})
		})

		Convey("When scoring very short content", func() {
			rec, err := scorer.Score(ctx, scoring.Input{Content: "Hello world."})
			So(err, ShouldBeNil)

			Convey("Then the degraded scores stay bounded and low", func() {
				So(rec.CompositeScore, ShouldBeGreaterThanOrEqualTo, 0)
				So(rec.CompositeScore, ShouldBeLessThan, 50)
			})

			Convey("And the short-content feedback is attached", func() {
				found := false
				for _, fb := range rec.Readability.Feedback {
					if strings.Contains(fb, "too short") {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When scoring very long content", func() {
			long := strings.Repeat(sampleEssay, 200)
			rec, err := scorer.Score(ctx, scoring.Input{Content: long})

			Convey("Then scores stay bounded", func() {
				So(err, ShouldBeNil)
				for _, d := range dimensions(rec) {
					So(d.Score, ShouldBeGreaterThanOrEqualTo, 0)
					So(d.Score, ShouldBeLessThanOrEqualTo, 100)
				}
			})
		})

		Convey("When scoring adversarial content", func() {
			adversarial := strings.Repeat("buy now best price deal ", 500)
			rec, err := scorer.Score(ctx, scoring.Input{Content: adversarial})

			Convey("Then scores stay bounded", func() {
				So(err, ShouldBeNil)
				for _, d := range dimensions(rec) {
					So(d.Score, ShouldBeGreaterThanOrEqualTo, 0)
					So(d.Score, ShouldBeLessThanOrEqualTo, 100)
				}
			})

			Convey("And the repetition drives AI detection up", func() {
				So(rec.AIDetection.Score, ShouldBeGreaterThan, 50)
			})
		})

		Convey("When job settings carry target keywords", func() {
			settings := &model.JobSettings{Keywords: "remote, documentation, kubernetes"}
			rec, err := scorer.Score(ctx, scoring.Input{Content: sampleEssay, Settings: settings})
			So(err, ShouldBeNil)

			Convey("Then missing keywords appear in the SEO feedback", func() {
				So(strings.Join(rec.SEO.Feedback, " "), ShouldContainSubstring, "kubernetes")
			})
		})

		Convey("When the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := scorer.Score(cancelled, scoring.Input{Content: sampleEssay})

			Convey("Then the cancellation surfaces", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestComposite(t *testing.T) {
	Convey("Given a score record with known sub-scores", t, func() {
		rec := model.AIScoreRecord{
			Readability:        model.DimensionFeedback{Score: 80},
			WritingQuality:     model.DimensionFeedback{Score: 90},
			SEO:                model.DimensionFeedback{Score: 60},
			EnglishProficiency: model.DimensionFeedback{Score: 70},
			AIDetection:        model.DimensionFeedback{Score: 20},
		}

		Convey("When computing the composite", func() {
			got := scoring.Composite(rec)

			Convey("Then it matches the documented weights", func() {
				// 0.25*80 + 0.30*90 + 0.15*60 + 0.20*70 + 0.10*(100-20)
				So(got, ShouldEqual, 78.0)
			})
		})

		Convey("When all sub-scores are maximal and detection minimal", func() {
			perfect := model.AIScoreRecord{
				Readability:        model.DimensionFeedback{Score: 100},
				WritingQuality:     model.DimensionFeedback{Score: 100},
				SEO:                model.DimensionFeedback{Score: 100},
				EnglishProficiency: model.DimensionFeedback{Score: 100},
				AIDetection:        model.DimensionFeedback{Score: 0},
			}

			Convey("Then the composite is exactly 100", func() {
				So(scoring.Composite(perfect), ShouldEqual, 100.0)
			})
		})
	})
}
