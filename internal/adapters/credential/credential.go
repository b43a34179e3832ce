// Package credential provides session cookie lookups for the gate.
package credential

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// SessionCookie is the cookie the gate looks up.
const SessionCookie = "session"

// CookieString is a semicolon-delimited cookie header, as exposed to page
// scripts ("a=1; session=abc").
type CookieString string

// Lookup returns the value of the first entry named name.
func (c CookieString) Lookup(name string) (string, bool) {
	prefix := name + "="
	for _, entry := range strings.Split(string(c), ";") {
		entry = strings.TrimLeft(entry, " \t")
		if value, ok := strings.CutPrefix(entry, prefix); ok {
			return value, true
		}
	}
	return "", false
}

// NewFromFile reads a cookie string from path. Surrounding whitespace,
// including a trailing newline, is dropped.
func NewFromFile(path string) (CookieString, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCookieFile, err)
	}
	return CookieString(strings.TrimSpace(string(data))), nil
}

// Jar looks cookies up in an http.CookieJar for a fixed URL.
type Jar struct {
	jar http.CookieJar
	url *url.URL
}

// NewFromJar returns a lookup over the cookies jar would send to u.
func NewFromJar(jar http.CookieJar, u *url.URL) (*Jar, error) {
	if jar == nil {
		return nil, ErrNilJar
	}
	if u == nil {
		return nil, ErrNilURL
	}
	return &Jar{jar: jar, url: u}, nil
}

// Lookup returns the value of the first cookie named name.
func (j *Jar) Lookup(name string) (string, bool) {
	for _, c := range j.jar.Cookies(j.url) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// None never finds a cookie.
type None struct{}

// Lookup always reports a missing cookie.
func (None) Lookup(string) (string, bool) { return "", false }
