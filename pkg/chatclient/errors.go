package chatclient

import (
	"context"
	"fmt"
	"net"

	"github.com/pkg/errors"
)

// Operations reported in TransportError.Op
const (
	OpSend   = "send"
	OpFetch  = "fetch"
	OpHealth = "health"
)

// TransportError is returned for any failed exchange with the chat server:
// the request could not be made, the server answered with a non-2xx
// status, or the response body was not what was expected.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int    // 0 when no response was received
	Body       string // trimmed response body for non-2xx answers
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s %s: server returned %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: server returned %d", e.Op, e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: transport error", e.Op, e.URL)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Cause lets errors.Cause see through to the underlying failure
func (e *TransportError) Cause() error { return e.Err }

// Timeout reports whether the exchange failed because a deadline passed
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// IsTransportError reports whether err is, or wraps, a TransportError and
// returns it.
func IsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
