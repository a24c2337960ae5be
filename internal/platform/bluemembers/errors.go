package bluemembers

import (
	"errors"
	"fmt"
)

// Common errors returned by platform calls.
var (
	// ErrAuthExpired is returned when the platform answers HTTP 403,
	// which it uses exclusively for expired or revoked tokens. Callers
	// should surface it distinctly so the operator can replace the
	// credential.
	ErrAuthExpired = errors.New("platform token expired")

	// ErrTransport is returned when the request never produced an HTTP
	// response (dial failure, timeout, connection reset).
	ErrTransport = errors.New("platform transport failure")

	// ErrProtocol is returned when the response body is not the
	// expected {code,msg,data} envelope.
	ErrProtocol = errors.New("unexpected platform response shape")
)

// RemoteRejectedError is returned when the platform answered 2xx but
// the envelope code is non-zero. Msg is the server-provided message,
// verbatim.
type RemoteRejectedError struct {
	Code int
	Msg  string
}

func (e *RemoteRejectedError) Error() string {
	return fmt.Sprintf("platform rejected request (code %d): %s", e.Code, e.Msg)
}

// HTTPError is returned for non-2xx statuses other than 403.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("platform request failed with status %d", e.Status)
}
