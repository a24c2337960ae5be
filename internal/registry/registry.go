// Package registry maintains the ordered, phone-deduplicated collection of
// platform accounts. It exclusively owns the account list and its persisted
// form; orchestration only reads from it.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/guyuexuan/hbmtaskd/internal/domain"
	"github.com/guyuexuan/hbmtaskd/internal/store"
)

// Registry is the in-memory account collection backed by an AccountStore.
// All mutations are serialized by a mutex and written through to the store;
// last-writer-wins is acceptable because accounts are operator-edited, never
// orchestrator-edited.
type Registry struct {
	mu       sync.Mutex
	accounts []*domain.Account
	store    store.AccountStore
	logger   *slog.Logger
}

// New creates an empty registry persisting through the given store.
func New(accountStore store.AccountStore, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:  accountStore,
		logger: logger.With(slog.String("component", "registry")),
	}
}

// Load replaces the in-memory list with the persisted one. Orders are
// renumbered densely in stored order, so a store written by an older
// version with gaps still loads cleanly.
func (r *Registry) Load(ctx context.Context) error {
	accounts, err := r.store.LoadAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts = accounts
	r.renumber()

	r.logger.Info("accounts loaded", slog.Int("count", len(r.accounts)))
	return nil
}

// List returns the accounts in order. The returned slice and its elements
// are copies; callers may mutate them freely (e.g. setting a transient
// share_user_hid for a run) without affecting the registry.
func (r *Registry) List() []*domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Account, len(r.accounts))
	for i, a := range r.accounts {
		cp := *a
		out[i] = &cp
	}
	return out
}

// Get returns a copy of the account at the given order position.
// Returns store.ErrAccountNotFound if no account holds that order.
func (r *Registry) Get(order int) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order < 0 || order >= len(r.accounts) {
		return nil, store.ErrAccountNotFound
	}
	cp := *r.accounts[order]
	return &cp, nil
}

// GetByPhone returns a copy of the account with the given phone.
// Returns store.ErrAccountNotFound if the phone is unknown.
func (r *Registry) GetByPhone(phone string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Phone == phone {
			cp := *a
			return &cp, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

// UpsertByPhone inserts the account, deduplicating on phone: a matching
// phone replaces the existing entry's fields but preserves its order and
// added time; a new phone appends at the end. Returns whether an existing
// entry was replaced.
func (r *Registry) UpsertByPhone(ctx context.Context, account *domain.Account) (bool, error) {
	if err := account.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.accounts {
		if existing.Phone == account.Phone {
			cp := *account
			cp.Order = existing.Order
			cp.AddedTime = existing.AddedTime
			r.accounts[i] = &cp
			return true, r.persist(ctx)
		}
	}

	cp := *account
	cp.Order = len(r.accounts)
	r.accounts = append(r.accounts, &cp)
	return false, r.persist(ctx)
}

// Remove deletes the account at the given order position and renumbers the
// rest densely. Returns store.ErrAccountNotFound for an out-of-range order.
func (r *Registry) Remove(ctx context.Context, order int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order < 0 || order >= len(r.accounts) {
		return store.ErrAccountNotFound
	}

	r.accounts = append(r.accounts[:order], r.accounts[order+1:]...)
	r.renumber()
	return r.persist(ctx)
}

// Reorder moves the account at position from to position to, shifting the
// contiguous range between them and renumbering densely. Out-of-range
// positions return store.ErrAccountNotFound; from == to is a no-op.
func (r *Registry) Reorder(ctx context.Context, from, to int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.accounts)
	if from < 0 || from >= n || to < 0 || to >= n {
		return store.ErrAccountNotFound
	}
	if from == to {
		return nil
	}

	moved := r.accounts[from]
	r.accounts = append(r.accounts[:from], r.accounts[from+1:]...)
	r.accounts = append(r.accounts[:to], append([]*domain.Account{moved}, r.accounts[to:]...)...)
	r.renumber()
	return r.persist(ctx)
}

// renumber assigns dense 0..N-1 orders in list position. Callers must hold
// the mutex.
func (r *Registry) renumber() {
	for i, a := range r.accounts {
		a.Order = i
	}
}

// persist writes the current list through to the store. The in-memory
// mutation stays applied even when the write fails, so a transient database
// outage does not discard an operator edit; the caller sees the error and
// can retry. Callers must hold the mutex.
func (r *Registry) persist(ctx context.Context) error {
	if err := r.store.SaveAccounts(ctx, r.accounts); err != nil {
		r.logger.Error("failed to persist accounts",
			slog.Int("count", len(r.accounts)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to persist accounts: %w", err)
	}
	return nil
}
