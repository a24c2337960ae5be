package middleware

import (
	"log/slog"
	"net/http"

	"github.com/guyuexuan/hbmtaskd/internal/api/shared"
	"github.com/guyuexuan/hbmtaskd/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and stores a
// trace-scoped logger alongside it, so downstream code reading the
// context logger via logger.FromContext tags its output with the
// request's trace ID. It should be applied early in the middleware
// chain so all subsequent handlers see both.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := logger.FromContext(ctx).With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
