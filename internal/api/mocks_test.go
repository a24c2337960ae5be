package api

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guyuexuan/hbmtaskd/internal/domain"
	"github.com/guyuexuan/hbmtaskd/internal/registry"
	"github.com/guyuexuan/hbmtaskd/internal/service/auth"
	"github.com/guyuexuan/hbmtaskd/internal/store"
)

// memAccountStore is an in-memory store.AccountStore for handler tests.
type memAccountStore struct {
	accounts []*domain.Account
}

func (m *memAccountStore) SaveAccounts(ctx context.Context, accounts []*domain.Account) error {
	m.accounts = accounts
	return nil
}

func (m *memAccountStore) LoadAccounts(ctx context.Context) ([]*domain.Account, error) {
	return m.accounts, nil
}

// memOutcomeStore is an in-memory store.OutcomeStore with overridable
// behavior for handler tests.
type memOutcomeStore struct {
	saveOutcomeFn func(ctx context.Context, outcome *domain.TaskOutcome) error
	outcomes      map[string]*domain.TaskOutcome
	saveCalls     int
}

func newMemOutcomeStore() *memOutcomeStore {
	return &memOutcomeStore{outcomes: make(map[string]*domain.TaskOutcome)}
}

func (m *memOutcomeStore) SaveOutcome(ctx context.Context, outcome *domain.TaskOutcome) error {
	m.saveCalls++
	if m.saveOutcomeFn != nil {
		return m.saveOutcomeFn(ctx, outcome)
	}
	m.outcomes[outcome.AccountPhone] = outcome
	return nil
}

func (m *memOutcomeStore) GetLatestOutcome(ctx context.Context, phone string) (*domain.TaskOutcome, error) {
	outcome, ok := m.outcomes[phone]
	if !ok {
		return nil, store.ErrOutcomeNotFound
	}
	return outcome, nil
}

// mockPlatformClient implements AccountPlatformClient with overridable
// behavior.
type mockPlatformClient struct {
	fetchAccountInfoFn func(ctx context.Context, token string) (*domain.Account, error)
	fetchScoreFn       func(ctx context.Context, token string) (json.RawMessage, error)

	fetchAccountInfoCalls int
	fetchScoreCalls       int
}

func (m *mockPlatformClient) FetchAccountInfo(ctx context.Context, token string) (*domain.Account, error) {
	m.fetchAccountInfoCalls++
	if m.fetchAccountInfoFn != nil {
		return m.fetchAccountInfoFn(ctx, token)
	}
	return &domain.Account{Token: token, Nickname: "nick", Phone: "13800000000", Hid: "hid-1"}, nil
}

func (m *mockPlatformClient) FetchScore(ctx context.Context, token string) (json.RawMessage, error) {
	m.fetchScoreCalls++
	if m.fetchScoreFn != nil {
		return m.fetchScoreFn(ctx, token)
	}
	return json.RawMessage(`{"total":120}`), nil
}

// mockJWTService implements auth.JWTService with canned results.
type mockJWTService struct {
	token       string
	generateErr error
	claims      *auth.Claims
	validateErr error
}

func (m *mockJWTService) GenerateToken(ctx context.Context, subject string) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.token, nil
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	if m.claims != nil {
		return m.claims, nil
	}
	return &auth.Claims{Subject: "operator"}, nil
}

// mockBatchRunner implements BatchRunner, recording its input.
type mockBatchRunner struct {
	runAllFn func(ctx context.Context, accounts []*domain.Account) []*domain.TaskOutcome
	received []*domain.Account
}

func (m *mockBatchRunner) RunAll(ctx context.Context, accounts []*domain.Account) []*domain.TaskOutcome {
	m.received = accounts
	if m.runAllFn != nil {
		return m.runAllFn(ctx, accounts)
	}
	outcomes := make([]*domain.TaskOutcome, len(accounts))
	for i, a := range accounts {
		outcomes[i] = &domain.TaskOutcome{AccountPhone: a.Phone}
	}
	return outcomes
}

// seedRegistry builds a registry preloaded with the given accounts.
func seedRegistry(t *testing.T, accounts ...*domain.Account) *registry.Registry {
	t.Helper()

	reg := registry.New(&memAccountStore{}, nil)
	for _, a := range accounts {
		_, err := reg.UpsertByPhone(context.Background(), a)
		require.NoError(t, err)
	}
	return reg
}
