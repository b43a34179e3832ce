package credential

import "errors"

var (
	ErrReadCookieFile = errors.New("credential: read cookie file")
	ErrNilJar         = errors.New("credential: nil cookie jar")
	ErrNilURL         = errors.New("credential: nil url")
)
