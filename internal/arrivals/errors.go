package arrivals

import (
	"errors"
	"fmt"
)

// TransportError means the request never produced a usable response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError means the API answered with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Server responded with status %d", e.Code)
}

// DecodeError means the response body was not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Kind names the failure class of err for logging: "transport", "status",
// "decode", or "other".
func Kind(err error) string {
	var te *TransportError
	var se *StatusError
	var de *DecodeError
	switch {
	case errors.As(err, &se):
		return "status"
	case errors.As(err, &de):
		return "decode"
	case errors.As(err, &te):
		return "transport"
	default:
		return "other"
	}
}
