package feeds

import (
	"errors"
	"fmt"
)

var (
	ErrNoURL           = errors.New("feeds: no feed url configured")
	ErrUnknownCategory = errors.New("feeds: unknown category")
)

// FetchError reports a failed request, a non-2xx response or an unreadable
// body. The URL is kept for callers but left out of Error, since feed URLs
// often embed keys.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("feeds: fetch: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("feeds: fetch: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecodeError reports bytes that are not a well-formed FeedMessage.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("feeds: decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is, or wraps, a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsDecodeError reports whether err is, or wraps, a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
