package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/janus/internal/adapters/credential"
	"github.com/okian/janus/internal/adapters/presentation"
	"github.com/okian/janus/internal/config"
	"github.com/okian/janus/internal/domain/intent"
	"github.com/okian/janus/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type recordingSubmitter struct {
	mu     sync.Mutex
	deltas []int64
	err    error
}

func (r *recordingSubmitter) Submit(_ context.Context, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deltas = append(r.deltas, delta)
	return r.err
}

func (r *recordingSubmitter) get() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.deltas...)
}

func TestParseCommand(t *testing.T) {
	convey.Convey("Given input lines", t, func() {
		convey.So(parseCommand("+"), convey.ShouldEqual, cmdUp)
		convey.So(parseCommand(" up "), convey.ShouldEqual, cmdUp)
		convey.So(parseCommand("-"), convey.ShouldEqual, cmdDown)
		convey.So(parseCommand("DOWN"), convey.ShouldEqual, cmdDown)
		convey.So(parseCommand("m"), convey.ShouldEqual, cmdMute)
		convey.So(parseCommand("q"), convey.ShouldEqual, cmdQuit)
		convey.So(parseCommand(""), convey.ShouldEqual, cmdNone)
		convey.So(parseCommand("+2"), convey.ShouldEqual, cmdNone)
	})
}

func TestReadCommands(t *testing.T) {
	convey.Convey("Given a command stream", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		svc := &recordingSubmitter{}
		mute := presentation.NewToggle(false)

		convey.Convey("When buttons are pressed and quit is entered", func() {
			readCommands(ctx, strings.NewReader("+\n-\nm\nbogus\n+\nq\n+\n"), svc, mute)

			convey.Convey("Then each press becomes one intent and the rest is ignored", func() {
				convey.So(svc.get(), convey.ShouldResemble, []int64{1, -1, 1})
				convey.So(mute.Checked(), convey.ShouldBeTrue)
				convey.So(ctx.Err(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When input ends without quit", func() {
			done := make(chan struct{})
			go func() {
				readCommands(ctx, strings.NewReader("+\n"), svc, mute)
				close(done)
			}()

			convey.Convey("Then it keeps running until the context ends", func() {
				select {
				case <-done:
					convey.So("returned early", convey.ShouldBeEmpty)
				case <-time.After(50 * time.Millisecond):
				}
				cancel()
				<-done
				convey.So(svc.get(), convey.ShouldResemble, []int64{1})
			})
		})

		convey.Convey("When a send fails", func() {
			svc.err = errors.Join(intent.ErrNotSent, io.ErrClosedPipe)
			readCommands(ctx, strings.NewReader("+\nq\n"), svc, mute)

			convey.Convey("Then reading continues to quit", func() {
				convey.So(svc.get(), convey.ShouldResemble, []int64{1})
			})
		})
	})
}

func TestCredentials(t *testing.T) {
	convey.Convey("Given configuration", t, func() {
		cfg := config.New()

		convey.Convey("When inline cookie text is set", func() {
			cfg.Cookie = "session=inline"
			cfg.CookieFile = "/does/not/matter"
			creds, err := credentials(cfg)
			convey.So(err, convey.ShouldBeNil)
			v, ok := creds.Lookup(credential.SessionCookie)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, "inline")
		})

		convey.Convey("When only a cookie file is set", func() {
			path := filepath.Join(t.TempDir(), "cookie")
			convey.So(os.WriteFile(path, []byte("session=fromfile\n"), 0o600), convey.ShouldBeNil)
			cfg.CookieFile = path
			creds, err := credentials(cfg)
			convey.So(err, convey.ShouldBeNil)
			v, _ := creds.Lookup(credential.SessionCookie)
			convey.So(v, convey.ShouldEqual, "fromfile")
		})

		convey.Convey("When the cookie file is missing", func() {
			cfg.CookieFile = filepath.Join(t.TempDir(), "missing")
			_, err := credentials(cfg)
			convey.So(errors.Is(err, credential.ErrReadCookieFile), convey.ShouldBeTrue)
		})

		convey.Convey("When nothing is set", func() {
			creds, err := credentials(cfg)
			convey.So(err, convey.ShouldBeNil)
			_, ok := creds.Lookup(credential.SessionCookie)
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}
