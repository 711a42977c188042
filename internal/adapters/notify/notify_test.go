package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/okian/hireflow/internal/adapters/notify"
	. "github.com/smartystreets/goconvey/convey"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

// fakePublisher records publishes and can simulate a broker outage.
type fakePublisher struct {
	msgs []published
	err  error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func TestAMQPTrigger(t *testing.T) {
	Convey("Given a trigger over a healthy channel", t, func() {
		pub := &fakePublisher{}
		fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
		trigger := notify.NewAMQPTrigger(pub,
			notify.WithExchange("test.notifications"),
			notify.WithClock(func() time.Time { return fixed }),
		)
		ctx := context.Background()

		Convey("When an assessment-scored trigger fires", func() {
			err := trigger.OnAssessmentScored(ctx, "assess-1")

			Convey("Then one envelope is published with the kind as routing key", func() {
				So(err, ShouldBeNil)
				So(pub.msgs, ShouldHaveLength, 1)
				So(pub.msgs[0].exchange, ShouldEqual, "test.notifications")
				So(pub.msgs[0].key, ShouldEqual, notify.KindAssessmentScored)
				So(pub.msgs[0].msg.ContentType, ShouldEqual, "application/json")
			})

			Convey("And the envelope carries the record id and timestamp", func() {
				var env notify.Envelope
				So(json.Unmarshal(pub.msgs[0].msg.Body, &env), ShouldBeNil)
				So(env.Kind, ShouldEqual, notify.KindAssessmentScored)
				So(env.RecordID, ShouldEqual, "assess-1")
				So(env.At.Equal(fixed), ShouldBeTrue)
				So(env.Score, ShouldBeNil)
			})
		})

		Convey("When a shortlist trigger fires", func() {
			err := trigger.OnCandidateShortlisted(ctx, "appl-1", 88.5)

			Convey("Then the envelope carries the crossing score", func() {
				So(err, ShouldBeNil)
				var env notify.Envelope
				So(json.Unmarshal(pub.msgs[0].msg.Body, &env), ShouldBeNil)
				So(env.Score, ShouldNotBeNil)
				So(*env.Score, ShouldEqual, 88.5)
			})
		})

		Convey("When a rejection trigger fires", func() {
			err := trigger.OnCandidateRejected(ctx, "appl-1", "below bar")

			Convey("Then the envelope carries the reason", func() {
				So(err, ShouldBeNil)
				var env notify.Envelope
				So(json.Unmarshal(pub.msgs[0].msg.Body, &env), ShouldBeNil)
				So(env.Reason, ShouldEqual, "below bar")
			})
		})

		Convey("When an application-submitted trigger fires", func() {
			err := trigger.OnApplicationSubmitted(ctx, "appl-1")

			So(err, ShouldBeNil)
			So(pub.msgs[0].key, ShouldEqual, notify.KindApplicationSubmitted)
		})
	})

	Convey("Given a trigger over a broken channel", t, func() {
		pub := &fakePublisher{err: errors.New("connection reset")}
		trigger := notify.NewAMQPTrigger(pub)

		Convey("When a trigger fires", func() {
			err := trigger.OnAssessmentScored(context.Background(), "assess-1")

			Convey("Then the failure is wrapped in ErrPublish", func() {
				So(errors.Is(err, notify.ErrPublish), ShouldBeTrue)
			})
		})
	})
}
