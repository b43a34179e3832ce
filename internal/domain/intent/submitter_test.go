package intent_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/janus/internal/adapters/presentation/memory"
	"github.com/okian/janus/internal/domain/intent"
	"github.com/okian/janus/internal/domain/model"
	"github.com/okian/janus/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fakeEmitter struct {
	events   []string
	payloads []any
	err      error
}

func (f *fakeEmitter) Emit(_ context.Context, event string, payload any) error {
	f.events = append(f.events, event)
	f.payloads = append(f.payloads, payload)
	return f.err
}

func TestSubmitter_Submit(t *testing.T) {
	Convey("Given a submitter on an open channel", t, func() {
		ctx := context.Background()
		em := &fakeEmitter{}
		sink := memory.New()
		s := intent.New(em, sink)

		Convey("When +1 and -1 are submitted", func() {
			So(s.Submit(ctx, 1), ShouldBeNil)
			So(s.Submit(ctx, -1), ShouldBeNil)

			Convey("Then each is emitted unmodified as an update", func() {
				So(em.events, ShouldResemble, []string{model.EventUpdate, model.EventUpdate})
				So(em.payloads, ShouldResemble, []any{int64(1), int64(-1)})
			})

			Convey("Then no local state is touched", func() {
				So(sink.Counts(), ShouldBeEmpty)
				So(sink.Elements(), ShouldBeEmpty)
				So(sink.Notices(), ShouldBeEmpty)
			})
		})

		Convey("When an illegal delta is submitted", func() {
			for _, d := range []int64{0, 2, -2, 100} {
				err := s.Submit(ctx, d)
				So(errors.Is(err, intent.ErrIllegalIntent), ShouldBeTrue)
			}

			Convey("Then nothing is sent and no notice is shown", func() {
				So(em.events, ShouldBeEmpty)
				So(sink.Notices(), ShouldBeEmpty)
			})
		})

		Convey("When the emit fails", func() {
			em.err = errors.New("write: broken pipe")
			err := s.Submit(ctx, 1)

			Convey("Then the error is wrapped and one notice is shown", func() {
				So(errors.Is(err, intent.ErrNotSent), ShouldBeTrue)
				So(errors.Is(err, em.err), ShouldBeTrue)
				So(sink.Notices(), ShouldResemble, []model.Notice{model.NewNotice(model.NoticeIntentFailed)})
			})
		})
	})

	Convey("Given an inert submitter", t, func() {
		sink := memory.New()
		s := intent.New(nil, sink)

		Convey("Then legal intents are dropped silently", func() {
			So(s.Inert(), ShouldBeTrue)
			So(s.Submit(context.Background(), 1), ShouldBeNil)
			So(sink.Notices(), ShouldBeEmpty)
		})

		Convey("Then illegal intents are still refused", func() {
			So(errors.Is(s.Submit(context.Background(), 3), intent.ErrIllegalIntent), ShouldBeTrue)
		})
	})
}
