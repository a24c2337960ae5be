package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/guyuexuan/hbmtaskd/internal/domain"
	"github.com/guyuexuan/hbmtaskd/internal/store"
)

// PostgresOutcomeStore implements the store.OutcomeStore interface
// using a PostgreSQL database as the storage backend. Only the latest
// outcome per account phone is kept; each save upserts over the
// previous row.
type PostgresOutcomeStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresOutcomeStore creates a new PostgreSQL implementation of the
// OutcomeStore interface. If logger is nil, a default logger will be used.
func NewPostgresOutcomeStore(db *sql.DB, logger *slog.Logger) *PostgresOutcomeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresOutcomeStore{
		db:     db,
		logger: logger.With(slog.String("component", "outcome_store")),
	}
}

// Ensure PostgresOutcomeStore implements store.OutcomeStore interface
var _ store.OutcomeStore = (*PostgresOutcomeStore)(nil)

// SaveOutcome records the outcome, replacing any previous one for the
// same account phone. Per-task results are stored as JSONB; the scalar
// columns exist so the latest state can be queried without unpacking.
func (s *PostgresOutcomeStore) SaveOutcome(ctx context.Context, outcome *domain.TaskOutcome) error {
	return s.upsertOutcome(ctx, s.db, outcome)
}

func (s *PostgresOutcomeStore) upsertOutcome(ctx context.Context, q store.DBTX, outcome *domain.TaskOutcome) error {
	results, err := json.Marshal(outcome.Results)
	if err != nil {
		return store.NewStoreError("outcome", "save", "failed to marshal results", err)
	}

	const query = `
		INSERT INTO task_outcomes (
			account_phone, run_id, started_at, finished_at, results,
			status_error, status_error_kind,
			sign_completed, view_completed, question_completed
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (account_phone) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at,
			results = EXCLUDED.results,
			status_error = EXCLUDED.status_error,
			status_error_kind = EXCLUDED.status_error_kind,
			sign_completed = EXCLUDED.sign_completed,
			view_completed = EXCLUDED.view_completed,
			question_completed = EXCLUDED.question_completed`

	_, err = q.ExecContext(ctx, query,
		outcome.AccountPhone,
		outcome.RunID,
		outcome.StartedAt,
		outcome.FinishedAt,
		results,
		outcome.StatusError,
		string(outcome.StatusErrorKind),
		outcome.FinalStatus.SignCompleted,
		outcome.FinalStatus.ViewCompleted,
		outcome.FinalStatus.QuestionCompleted,
	)
	if err != nil {
		return store.NewStoreError("outcome", "save", "upsert failed", MapError(err))
	}

	s.logger.DebugContext(ctx, "outcome saved",
		slog.String("run_id", outcome.RunID.String()),
		slog.String("phone", outcome.AccountPhone))
	return nil
}

// GetLatestOutcome returns the most recent outcome for the phone.
// Returns store.ErrOutcomeNotFound if no run has been recorded.
func (s *PostgresOutcomeStore) GetLatestOutcome(ctx context.Context, phone string) (*domain.TaskOutcome, error) {
	return s.queryOutcome(ctx, s.db, phone)
}

func (s *PostgresOutcomeStore) queryOutcome(ctx context.Context, q store.DBTX, phone string) (*domain.TaskOutcome, error) {
	const query = `
		SELECT account_phone, run_id, started_at, finished_at, results,
		       status_error, status_error_kind,
		       sign_completed, view_completed, question_completed
		FROM task_outcomes
		WHERE account_phone = $1`

	var (
		outcome    domain.TaskOutcome
		results    []byte
		statusKind string
	)
	err := q.QueryRowContext(ctx, query, phone).Scan(
		&outcome.AccountPhone,
		&outcome.RunID,
		&outcome.StartedAt,
		&outcome.FinishedAt,
		&results,
		&outcome.StatusError,
		&statusKind,
		&outcome.FinalStatus.SignCompleted,
		&outcome.FinalStatus.ViewCompleted,
		&outcome.FinalStatus.QuestionCompleted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrOutcomeNotFound
		}
		return nil, store.NewStoreError("outcome", "load", "query failed", MapError(err))
	}

	if err := json.Unmarshal(results, &outcome.Results); err != nil {
		return nil, store.NewStoreError("outcome", "load", "failed to unmarshal results", err)
	}
	outcome.StatusErrorKind = domain.ErrorKind(statusKind)

	return &outcome, nil
}
