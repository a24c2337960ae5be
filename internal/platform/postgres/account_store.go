package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/guyuexuan/hbmtaskd/internal/domain"
	"github.com/guyuexuan/hbmtaskd/internal/store"
)

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the
// AccountStore interface. It accepts a database connection that should be
// initialized and managed by the caller. If logger is nil, a default
// logger will be used.
func NewPostgresAccountStore(db *sql.DB, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

// SaveAccounts replaces the persisted account list with the given one.
// The delete and re-insert happen in a single transaction so a failure
// never leaves a half-written list.
func (s *PostgresAccountStore) SaveAccounts(ctx context.Context, accounts []*domain.Account) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.replaceAccounts(ctx, tx, accounts)
	})
	if err != nil {
		return store.NewStoreError("account", "save", "failed to replace account list", err)
	}

	s.logger.DebugContext(ctx, "accounts saved", slog.Int("count", len(accounts)))
	return nil
}

// replaceAccounts rewrites the account list through q, which may be a
// transaction or a plain connection.
func (s *PostgresAccountStore) replaceAccounts(ctx context.Context, q store.DBTX, accounts []*domain.Account) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM accounts"); err != nil {
		return MapError(err)
	}

	const insertQuery = `
		INSERT INTO accounts (phone, token, nickname, hid, display_order, added_time)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, account := range accounts {
		_, err := q.ExecContext(ctx, insertQuery,
			account.Phone,
			account.Token,
			account.Nickname,
			account.Hid,
			account.Order,
			account.AddedTime,
		)
		if err != nil {
			return MapError(err)
		}
	}
	return nil
}

// LoadAccounts returns the persisted accounts ordered by their display
// order. An empty table yields an empty slice, not an error.
func (s *PostgresAccountStore) LoadAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.queryAccounts(ctx, s.db)
}

func (s *PostgresAccountStore) queryAccounts(ctx context.Context, q store.DBTX) ([]*domain.Account, error) {
	const query = `
		SELECT phone, token, nickname, hid, display_order, added_time
		FROM accounts
		ORDER BY display_order`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, store.NewStoreError("account", "load", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.Phone, &a.Token, &a.Nickname, &a.Hid, &a.Order, &a.AddedTime); err != nil {
			return nil, store.NewStoreError("account", "load", "row scan failed", MapError(err))
		}
		accounts = append(accounts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("account", "load", "row iteration failed", MapError(err))
	}

	return accounts, nil
}
