package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/guyuexuan/hbmtaskd/internal/domain"
)

// Common request/response structures

// TokenRequest defines the payload for the operator token endpoint.
type TokenRequest struct {
	Secret string `json:"secret" validate:"required"`
}

// TokenResponse defines the successful response for the token endpoint.
type TokenResponse struct {
	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// AddAccountRequest defines the payload for registering a platform account.
// The platform bearer token is the only input; nickname, phone and hid are
// fetched from the platform itself.
type AddAccountRequest struct {
	Token string `json:"token" validate:"required"`
}

// ReorderRequest defines the payload for moving an account in the list.
type ReorderRequest struct {
	From int `json:"from" validate:"gte=0"`
	To   int `json:"to"   validate:"gte=0"`
}

// RunRequest defines the payload for triggering a run. A nil Order runs
// every account in registry order.
type RunRequest struct {
	Order *int `json:"order,omitempty" validate:"omitempty,gte=0"`
}

// AccountResponse is the operator-facing view of one account. The phone
// is masked; the platform token is never echoed back.
type AccountResponse struct {
	Order     int    `json:"order"`
	Nickname  string `json:"nickname"`
	Phone     string `json:"phone"`
	AddedTime string `json:"added_time"`
}

// AddAccountResponse reports the result of an account registration.
type AddAccountResponse struct {
	Account  AccountResponse `json:"account"`
	Replaced bool            `json:"replaced"`
}

// OutcomeResponse is the operator-facing view of one run outcome.
type OutcomeResponse struct {
	RunID           uuid.UUID           `json:"run_id"`
	Phone           string              `json:"phone"`
	StartedAt       string              `json:"started_at"`
	FinishedAt      string              `json:"finished_at"`
	Results         []domain.TaskResult `json:"results"`
	StatusError     string              `json:"status_error,omitempty"`
	StatusErrorKind string              `json:"status_error_kind,omitempty"`
	AllCompleted    bool                `json:"all_completed"`
	FinalStatus     domain.TaskStatus   `json:"final_status"`
}

// newAccountResponse converts a domain account to its operator view.
func newAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Order:     a.Order,
		Nickname:  a.Nickname,
		Phone:     a.MaskedPhone(),
		AddedTime: a.AddedTime,
	}
}

// newOutcomeResponse converts a run outcome to its operator view.
func newOutcomeResponse(o *domain.TaskOutcome) OutcomeResponse {
	masked := o.AccountPhone
	if len(masked) == 11 {
		masked = masked[:3] + "******" + masked[9:]
	}
	return OutcomeResponse{
		RunID:           o.RunID,
		Phone:           masked,
		StartedAt:       o.StartedAt.Format(time.RFC3339),
		FinishedAt:      o.FinishedAt.Format(time.RFC3339),
		Results:         o.Results,
		StatusError:     o.StatusError,
		StatusErrorKind: string(o.StatusErrorKind),
		AllCompleted:    o.FinalStatus.IsAllCompleted(),
		FinalStatus:     o.FinalStatus,
	}
}
