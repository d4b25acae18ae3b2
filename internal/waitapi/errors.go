package waitapi

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrInvalidEndpoint is returned without any network I/O when the
	// client has no usable endpoint.
	ErrInvalidEndpoint = errors.New("invalid endpoint configuration")

	// ErrMalformedResponse marks a read whose body lacks current_option_id.
	ErrMalformedResponse = errors.New("malformed response")
)

// TransportError wraps failures below HTTP: DNS, dial, TLS, timeouts.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "execute request: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Description returns the underlying failure without the URL prefix that
// net/http adds.
func (e *TransportError) Description() string {
	var uerr *url.Error
	if errors.As(e.Err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}
	return e.Err.Error()
}

// StatusError reports a response with a status other than 200.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned status %d", e.Code)
}
