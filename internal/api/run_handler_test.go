package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyuexuan/hbmtaskd/internal/domain"
)

func newRunRouter(handler *RunHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/runs", handler.Run)
	r.Get("/accounts/{order}/outcome", handler.GetOutcome)
	return r
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("empty body runs every account in order", func(t *testing.T) {
		t.Parallel()

		reg := seedRegistry(t,
			testAccount("t1", "alpha", "13800000001"),
			testAccount("t2", "beta", "13800000002"),
		)
		runner := &mockBatchRunner{}
		outcomes := newMemOutcomeStore()
		router := newRunRouter(NewRunHandler(reg, runner, outcomes, nil))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/runs", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, runner.received, 2)
		assert.Equal(t, "13800000001", runner.received[0].Phone)
		assert.Equal(t, "13800000002", runner.received[1].Phone)
		assert.Equal(t, 2, outcomes.saveCalls)

		var resp []OutcomeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "138******01", resp[0].Phone)
	})

	t.Run("specific order runs one account", func(t *testing.T) {
		t.Parallel()

		reg := seedRegistry(t,
			testAccount("t1", "alpha", "13800000001"),
			testAccount("t2", "beta", "13800000002"),
		)
		runner := &mockBatchRunner{}
		router := newRunRouter(NewRunHandler(reg, runner, newMemOutcomeStore(), nil))

		body := []byte(`{"order":1}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, runner.received, 1)
		assert.Equal(t, "13800000002", runner.received[0].Phone)
	})

	t.Run("unknown order", func(t *testing.T) {
		t.Parallel()

		router := newRunRouter(NewRunHandler(seedRegistry(t), &mockBatchRunner{}, newMemOutcomeStore(), nil))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader([]byte(`{"order":7}`))))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("persistence failure does not fail the run", func(t *testing.T) {
		t.Parallel()

		reg := seedRegistry(t, testAccount("t1", "alpha", "13800000001"))
		outcomes := newMemOutcomeStore()
		outcomes.saveOutcomeFn = func(ctx context.Context, outcome *domain.TaskOutcome) error {
			return errors.New("disk full")
		}
		router := newRunRouter(NewRunHandler(reg, &mockBatchRunner{}, outcomes, nil))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/runs", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp []OutcomeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
	})
}

func TestGetOutcome(t *testing.T) {
	t.Parallel()

	t.Run("returns the latest persisted outcome", func(t *testing.T) {
		t.Parallel()

		reg := seedRegistry(t, testAccount("t1", "alpha", "13800000001"))
		outcomes := newMemOutcomeStore()
		now := time.Now()
		require.NoError(t, outcomes.SaveOutcome(context.Background(), &domain.TaskOutcome{
			RunID:        uuid.New(),
			AccountPhone: "13800000001",
			StartedAt:    now,
			FinishedAt:   now.Add(3 * time.Second),
			Results: []domain.TaskResult{
				{Task: domain.TaskSign, Attempted: true, Succeeded: true},
			},
			FinalStatus: domain.TaskStatus{SignCompleted: true},
		}))
		router := newRunRouter(NewRunHandler(reg, &mockBatchRunner{}, outcomes, nil))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/0/outcome", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp OutcomeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "138******01", resp.Phone)
		assert.True(t, resp.FinalStatus.SignCompleted)
		assert.False(t, resp.AllCompleted)
	})

	t.Run("no recorded run", func(t *testing.T) {
		t.Parallel()

		reg := seedRegistry(t, testAccount("t1", "alpha", "13800000001"))
		router := newRunRouter(NewRunHandler(reg, &mockBatchRunner{}, newMemOutcomeStore(), nil))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/0/outcome", nil))

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "No run recorded")
	})
}
