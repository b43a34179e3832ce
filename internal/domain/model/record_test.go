package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInvalid(t *testing.T) {
	Convey("Given the validity classification", t, func() {
		Convey("When the value reaches the ceiling", func() {
			So(Invalid(5, 5), ShouldBeTrue)
			So(Invalid(6, 5), ShouldBeTrue)
		})

		Convey("When the value is below the ceiling", func() {
			So(Invalid(4, 5), ShouldBeFalse)
			So(Invalid(0, 5), ShouldBeFalse)
		})

		Convey("When the value is negative", func() {
			So(Invalid(-1, 5), ShouldBeTrue)
			So(Invalid(-1, 0), ShouldBeTrue)
			So(Invalid(-1, -1), ShouldBeTrue)
		})

		Convey("When there is no ceiling", func() {
			So(Invalid(1_000_000, 0), ShouldBeFalse)
			So(Invalid(1_000_000, -1), ShouldBeFalse)
		})

		Convey("When classifying through an identity", func() {
			id := Identity{EventMax: 5}
			So(id.Invalid(5), ShouldBeTrue)
			So(id.Invalid(4), ShouldBeFalse)
		})
	})
}

func TestUpdateRecord(t *testing.T) {
	Convey("Given an update record", t, func() {
		rec := UpdateRecord{
			Timestamp: time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC),
			User:      "ana",
			Value:     3,
			Change:    1,
		}

		Convey("Then direction follows the sign of the change", func() {
			So(UpdateRecord{Change: 3}.Positive(), ShouldBeTrue)
			So(UpdateRecord{Change: 0}.Positive(), ShouldBeFalse)
			So(UpdateRecord{Change: -2}.Positive(), ShouldBeFalse)
		})

		Convey("Then ownership compares the user with the identity", func() {
			So(rec.IsOwn(Identity{OwnUsername: "ana"}), ShouldBeTrue)
			So(rec.IsOwn(Identity{OwnUsername: "bo"}), ShouldBeFalse)
		})

		Convey("Then the time of day is rendered in the viewer's zone", func() {
			So(rec.TimeOfDay(time.UTC), ShouldEqual, "14:05:07")
			So(rec.TimeOfDay(time.FixedZone("UTC+2", 2*60*60)), ShouldEqual, "16:05:07")
		})
	})
}

func TestParseUpdate(t *testing.T) {
	Convey("Given update broadcast payloads", t, func() {
		Convey("When the payload is a well formed tuple", func() {
			rec, err := ParseUpdate(json.RawMessage(`[1700000000.5, "ana", 7, -1]`))

			Convey("Then every field is decoded", func() {
				So(err, ShouldBeNil)
				So(rec.User, ShouldEqual, "ana")
				So(rec.Value, ShouldEqual, 7)
				So(rec.Change, ShouldEqual, -1)
				So(rec.Timestamp.Unix(), ShouldEqual, 1700000000)
				So(rec.Timestamp.Nanosecond(), ShouldEqual, 500_000_000)
			})
		})

		Convey("When the payload is the failure sentinel", func() {
			_, err := ParseUpdate(json.RawMessage(` false `))

			Convey("Then ErrFailureSentinel is returned", func() {
				So(errors.Is(err, ErrFailureSentinel), ShouldBeTrue)
			})
		})

		Convey("When the payload has the wrong shape", func() {
			for _, raw := range []string{
				`[1700000000, "ana", 7]`,
				`[1700000000, "ana", 7, 1, 0]`,
				`{"user": "ana"}`,
				`true`,
				`["soon", "ana", 7, 1]`,
				`[1700000000, 42, 7, 1]`,
				`[1700000000, "ana", "7", 1]`,
				`[1700000000, "ana", 7.5, 1]`,
				`[1700000000, "ana", 7, null]`,
				`[null, "ana", 7, 1]`,
				`[1700000000, null, 7, 1]`,
			} {
				_, err := ParseUpdate(json.RawMessage(raw))
				So(errors.Is(err, ErrMalformed), ShouldBeTrue)
			}
		})

		Convey("When integral values arrive in float notation", func() {
			rec, err := ParseUpdate(json.RawMessage(`[1700000000, "ana", 7.0, 1e0]`))

			Convey("Then they are accepted", func() {
				So(err, ShouldBeNil)
				So(rec.Value, ShouldEqual, 7)
				So(rec.Change, ShouldEqual, 1)
			})
		})
	})
}

func TestParseJoin(t *testing.T) {
	Convey("Given join acknowledgments", t, func() {
		Convey("When the payload is a count", func() {
			v, err := ParseJoin(json.RawMessage(`12`))
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 12)
		})

		Convey("When the payload is the failure sentinel", func() {
			_, err := ParseJoin(json.RawMessage(`false`))
			So(errors.Is(err, ErrFailureSentinel), ShouldBeTrue)
		})

		Convey("When the payload is not an integer", func() {
			for _, raw := range []string{`"12"`, `[12]`, `1.5`, `null`, `true`} {
				_, err := ParseJoin(json.RawMessage(raw))
				So(errors.Is(err, ErrMalformed), ShouldBeTrue)
			}
		})
	})
}

func TestNotice(t *testing.T) {
	Convey("Given notice kinds", t, func() {
		Convey("Then every kind has a message", func() {
			for kind := range noticeMessages {
				So(NewNotice(kind).Message, ShouldNotBeEmpty)
			}
			So(NewNotice(NoticeMalformedBroadcast).Message, ShouldNotEqual, NewNotice(NoticeUpdateRejected).Message)
		})
	})
}
