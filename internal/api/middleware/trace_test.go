package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyuexuan/hbmtaskd/internal/api/shared"
	"github.com/guyuexuan/hbmtaskd/internal/platform/logger"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("assigns a trace ID", func(t *testing.T) {
		t.Parallel()

		var traceID string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID = shared.GetTraceID(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		TraceMiddleware(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))

		// TraceIDLength counts bytes; the ID itself is hex encoded.
		assert.Len(t, traceID, shared.TraceIDLength*2)
	})

	t.Run("context logger carries the trace ID", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		var traceID string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID = shared.GetTraceID(r.Context())
			logger.FromContext(r.Context()).Info("handled")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req = req.WithContext(logger.WithLogger(req.Context(), base))

		rec := httptest.NewRecorder()
		TraceMiddleware(inner).ServeHTTP(rec, req)

		require.NotEmpty(t, traceID)
		assert.Contains(t, buf.String(), "trace_id="+traceID)
		assert.Contains(t, buf.String(), "handled")
	})
}
