package api

import (
	"net/http"

	"github.com/guyuexuan/hbmtaskd/internal/api/shared"
)

// HandleAPIError writes the sanitized response for an internal error,
// using the classification in MapErrorToStatusCode and the safe message
// in GetSafeErrorMessage. fallbackMessage is used when no specific safe
// message exists for the error.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)

	message := GetSafeErrorMessage(err)
	if message == "An unexpected error occurred" && fallbackMessage != "" {
		message = fallbackMessage
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
