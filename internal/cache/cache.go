package cache

import "errors"

// ErrMiss is returned by providers when a key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// IsMiss reports whether err represents a cache miss.
func IsMiss(err error) bool {
	return errors.Is(err, ErrMiss)
}
