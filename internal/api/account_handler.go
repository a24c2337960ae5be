package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/guyuexuan/hbmtaskd/internal/api/shared"
	"github.com/guyuexuan/hbmtaskd/internal/domain"
	"github.com/guyuexuan/hbmtaskd/internal/registry"
)

// AccountPlatformClient is the slice of the platform client the account
// handler needs: verifying a credential and querying the score.
type AccountPlatformClient interface {
	FetchAccountInfo(ctx context.Context, token string) (*domain.Account, error)
	FetchScore(ctx context.Context, token string) (json.RawMessage, error)
}

// AccountHandler handles account management requests.
type AccountHandler struct {
	registry *registry.Registry
	platform AccountPlatformClient
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler with the given dependencies.
func NewAccountHandler(
	reg *registry.Registry,
	platform AccountPlatformClient,
	logger *slog.Logger,
) *AccountHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountHandler{
		registry: reg,
		platform: platform,
		logger:   logger.With(slog.String("component", "account_handler")),
	}
}

// ListAccounts handles GET /accounts. Phones are masked in the response.
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := h.registry.List()

	out := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = newAccountResponse(a)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// AddAccount handles POST /accounts. The platform token from the request
// is verified against the platform; on success the fetched identity is
// upserted into the registry, deduplicated by phone.
func (h *AccountHandler) AddAccount(w http.ResponseWriter, r *http.Request) {
	var req AddAccountRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	account, err := h.platform.FetchAccountInfo(r.Context(), req.Token)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to verify platform credential")
		return
	}

	replaced, err := h.registry.UpsertByPhone(r.Context(), account)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to store account")
		return
	}

	stored, err := h.registry.GetByPhone(account.Phone)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read back account")
		return
	}

	h.logger.InfoContext(r.Context(), "account registered",
		slog.String("phone", stored.MaskedPhone()),
		slog.Bool("replaced", replaced))

	status := http.StatusCreated
	if replaced {
		status = http.StatusOK
	}
	shared.RespondWithJSON(w, r, status, AddAccountResponse{
		Account:  newAccountResponse(stored),
		Replaced: replaced,
	})
}

// DeleteAccount handles DELETE /accounts/{order}.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	order, ok := pathOrder(w, r)
	if !ok {
		return
	}

	if err := h.registry.Remove(r.Context(), order); err != nil {
		HandleAPIError(w, r, err, "Failed to remove account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderAccounts handles POST /accounts/reorder.
func (h *AccountHandler) ReorderAccounts(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.registry.Reorder(r.Context(), req.From, req.To); err != nil {
		HandleAPIError(w, r, err, "Failed to reorder accounts")
		return
	}

	h.ListAccounts(w, r)
}

// GetScore handles GET /accounts/{order}/score. The platform's score
// payload is passed through untouched.
func (h *AccountHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	order, ok := pathOrder(w, r)
	if !ok {
		return
	}

	account, err := h.registry.Get(order)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to find account")
		return
	}

	score, err := h.platform.FetchScore(r.Context(), account.Token)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch score")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(score); err != nil {
		h.logger.Error("failed to write score response", "error", err)
	}
}

// pathOrder extracts the {order} path parameter. On failure it writes an
// error response and returns false.
func pathOrder(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "order")
	order, err := strconv.Atoi(raw)
	if err != nil || order < 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid order parameter")
		return 0, false
	}
	return order, true
}
