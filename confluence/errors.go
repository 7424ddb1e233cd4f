package confluence

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned whenever Confluence answers with a non-success status.  The body is kept
// for diagnostics; Confluence usually explains itself in there.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
	URL        string
}

func (e *StatusError) Error() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "confluence: authentication failed"
	case http.StatusServiceUnavailable:
		return fmt.Sprintf("confluence: service is not available: %s", e.Status)
	case http.StatusInternalServerError:
		return fmt.Sprintf("confluence: internal server error: %s", e.Status)
	case http.StatusConflict:
		return fmt.Sprintf("confluence: conflict: %s", e.Status)
	}
	return fmt.Sprintf("confluence: unexpected HTTP response status: %s: %s", e.Status, e.URL)
}

// StatusCode digs the HTTP status out of err, or returns 0 when the server never answered.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
