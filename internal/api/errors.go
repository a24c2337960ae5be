package api

import (
	"errors"
	"net/http"

	"github.com/guyuexuan/hbmtaskd/internal/platform/bluemembers"
	"github.com/guyuexuan/hbmtaskd/internal/service/auth"
	"github.com/guyuexuan/hbmtaskd/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var (
		rejected *bluemembers.RemoteRejectedError
		httpErr  *bluemembers.HTTPError
	)

	switch {
	// Operator authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidSecret):
		return http.StatusUnauthorized

	// A dead platform credential surfaces like an auth failure so the
	// operator knows to replace the stored token
	case errors.Is(err, bluemembers.ErrAuthExpired):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Upstream platform failures
	case errors.As(err, &rejected),
		errors.As(err, &httpErr),
		errors.Is(err, bluemembers.ErrProtocol):
		return http.StatusBadGateway

	case errors.Is(err, bluemembers.ErrTransport):
		return http.StatusGatewayTimeout

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var rejected *bluemembers.RemoteRejectedError

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidSecret):
		return "Invalid bootstrap secret"

	case errors.Is(err, bluemembers.ErrAuthExpired):
		return "Platform credential expired"

	case errors.Is(err, store.ErrAccountNotFound):
		return "Account not found"

	case errors.Is(err, store.ErrOutcomeNotFound):
		return "No run recorded for this account"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrDuplicate):
		return "Already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// The platform's rejection text carries operator-relevant messages
	// like "already signed in today"; pass it through verbatim
	case errors.As(err, &rejected):
		return rejected.Msg

	case errors.Is(err, bluemembers.ErrProtocol):
		return "Unexpected platform response"

	case errors.Is(err, bluemembers.ErrTransport):
		return "Platform unreachable"

	default:
		return "An unexpected error occurred"
	}
}
