package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/guyuexuan/hbmtaskd/internal/api/shared"
	"github.com/guyuexuan/hbmtaskd/internal/domain"
	"github.com/guyuexuan/hbmtaskd/internal/registry"
	"github.com/guyuexuan/hbmtaskd/internal/store"
)

// BatchRunner executes the daily tasks for a set of accounts and returns
// one outcome per account, in input order.
type BatchRunner interface {
	RunAll(ctx context.Context, accounts []*domain.Account) []*domain.TaskOutcome
}

// RunHandler handles run-trigger requests.
type RunHandler struct {
	registry *registry.Registry
	runner   BatchRunner
	outcomes store.OutcomeStore
	logger   *slog.Logger
}

// NewRunHandler creates a new RunHandler with the given dependencies.
func NewRunHandler(
	reg *registry.Registry,
	runner BatchRunner,
	outcomes store.OutcomeStore,
	logger *slog.Logger,
) *RunHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunHandler{
		registry: reg,
		runner:   runner,
		outcomes: outcomes,
		logger:   logger.With(slog.String("component", "run_handler")),
	}
}

// Run handles POST /runs. An empty body or a body without an order runs
// every account; a specific order runs just that account. Outcomes are
// persisted best-effort and returned in the response either way.
func (h *RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req RunRequest

	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	var accounts []*domain.Account
	if req.Order != nil {
		account, err := h.registry.Get(*req.Order)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to find account")
			return
		}
		accounts = []*domain.Account{account}
	} else {
		accounts = h.registry.List()
	}

	h.logger.InfoContext(r.Context(), "run started", slog.Int("accounts", len(accounts)))

	outcomes := h.runner.RunAll(r.Context(), accounts)

	// Persistence failures are logged, not fatal: the outcome is still
	// returned to the caller and the platform remains authoritative.
	for _, outcome := range outcomes {
		if err := h.outcomes.SaveOutcome(r.Context(), outcome); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to persist outcome",
				slog.String("run_id", outcome.RunID.String()),
				slog.String("error", err.Error()))
		}
	}

	out := make([]OutcomeResponse, len(outcomes))
	for i, o := range outcomes {
		out[i] = newOutcomeResponse(o)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// GetOutcome handles GET /accounts/{order}/outcome, returning the latest
// persisted outcome for the account.
func (h *RunHandler) GetOutcome(w http.ResponseWriter, r *http.Request) {
	order, ok := pathOrder(w, r)
	if !ok {
		return
	}

	account, err := h.registry.Get(order)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to find account")
		return
	}

	outcome, err := h.outcomes.GetLatestOutcome(r.Context(), account.Phone)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load outcome")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newOutcomeResponse(outcome))
}
