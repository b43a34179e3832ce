package credential

import (
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestCookieString_Lookup(t *testing.T) {
	convey.Convey("Given a cookie string", t, func() {
		convey.Convey("When the session entry is present", func() {
			c := CookieString("theme=dark; session=abc123; lang=en")
			v, ok := c.Lookup(SessionCookie)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, "abc123")
		})

		convey.Convey("When the session entry is first", func() {
			v, ok := CookieString("session=first").Lookup(SessionCookie)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, "first")
		})

		convey.Convey("When the entry appears twice the first match wins", func() {
			v, ok := CookieString("session=one; session=two").Lookup(SessionCookie)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, "one")
		})

		convey.Convey("When the value contains an equals sign it is kept whole", func() {
			v, ok := CookieString("session=a=b==").Lookup(SessionCookie)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, "a=b==")
		})

		convey.Convey("When only a longer name shares the prefix", func() {
			_, ok := CookieString("sessionid=x; old_session=y").Lookup(SessionCookie)
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("When the string is empty", func() {
			_, ok := CookieString("").Lookup(SessionCookie)
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("When the value is empty it is still present", func() {
			v, ok := CookieString("session=").Lookup(SessionCookie)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldBeEmpty)
		})
	})
}

func TestNewFromFile(t *testing.T) {
	convey.Convey("Given a cookie file", t, func() {
		dir := t.TempDir()

		convey.Convey("When it holds an exported cookie string", func() {
			path := filepath.Join(dir, "cookie.txt")
			convey.So(os.WriteFile(path, []byte("session=xyz; a=1\n"), 0o600), convey.ShouldBeNil)

			c, err := NewFromFile(path)
			convey.So(err, convey.ShouldBeNil)
			v, ok := c.Lookup(SessionCookie)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, "xyz")
		})

		convey.Convey("When it does not exist", func() {
			_, err := NewFromFile(filepath.Join(dir, "missing"))
			convey.So(errors.Is(err, ErrReadCookieFile), convey.ShouldBeTrue)
		})
	})
}

func TestNewFromJar(t *testing.T) {
	convey.Convey("Given a cookie jar", t, func() {
		jar, err := cookiejar.New(nil)
		convey.So(err, convey.ShouldBeNil)
		u, _ := url.Parse("http://counter.example/")
		jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "jarred"}})

		convey.Convey("When the session cookie is set for the URL", func() {
			j, err := NewFromJar(jar, u)
			convey.So(err, convey.ShouldBeNil)
			v, ok := j.Lookup(SessionCookie)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, "jarred")
		})

		convey.Convey("When the URL belongs to another host", func() {
			other, _ := url.Parse("http://elsewhere.example/")
			j, _ := NewFromJar(jar, other)
			_, ok := j.Lookup(SessionCookie)
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("When arguments are missing", func() {
			_, err := NewFromJar(nil, u)
			convey.So(err, convey.ShouldEqual, ErrNilJar)
			_, err = NewFromJar(jar, nil)
			convey.So(err, convey.ShouldEqual, ErrNilURL)
		})
	})

	convey.Convey("None never finds a cookie", t, func() {
		_, ok := None{}.Lookup(SessionCookie)
		convey.So(ok, convey.ShouldBeFalse)
	})
}
