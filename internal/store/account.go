package store

import (
	"context"

	"github.com/guyuexuan/hbmtaskd/internal/domain"
)

// AccountStore defines the interface for account-list persistence.
// The registry owns the ordering; the store persists and restores the
// list as given. Concurrent saves are serialized by the caller;
// last-writer-wins is acceptable because accounts are operator-edited,
// never orchestrator-edited.
type AccountStore interface {
	// SaveAccounts replaces the persisted account list with the given
	// one, preserving its order.
	SaveAccounts(ctx context.Context, accounts []*domain.Account) error

	// LoadAccounts returns the persisted accounts in stored order.
	// An empty store yields an empty slice, not an error.
	LoadAccounts(ctx context.Context) ([]*domain.Account, error)
}

// OutcomeStore persists the most recent run outcome per account so the
// operator API can report it without re-running.
type OutcomeStore interface {
	// SaveOutcome records the outcome, replacing any previous one for
	// the same account phone.
	SaveOutcome(ctx context.Context, outcome *domain.TaskOutcome) error

	// GetLatestOutcome returns the most recent outcome for the phone.
	// Returns ErrNotFound if no run has been recorded.
	GetLatestOutcome(ctx context.Context, phone string) (*domain.TaskOutcome, error)
}
