package gpodder

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRemoteUnavailable    = errors.New("gpodder.net unavailable")
)

// StatusError is a non-2xx answer from gpodder.net. It matches
// ErrAuthenticationFailed for 401 and 403 and ErrRemoteUnavailable otherwise.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s for %s", e.Code, http.StatusText(e.Code), e.Path)
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden {
		return ErrAuthenticationFailed
	}
	return ErrRemoteUnavailable
}
