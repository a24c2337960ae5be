package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/guyuexuan/hbmtaskd/internal/api"
	apiMiddleware "github.com/guyuexuan/hbmtaskd/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.config.Auth, app.jwtService, app.logger)
	accountHandler := api.NewAccountHandler(app.registry, app.platformClient, app.logger)
	runHandler := api.NewRunHandler(app.registry, app.batch, app.outcomeStore, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Token bootstrap (public)
		r.Post("/auth/token", authHandler.IssueToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/accounts", accountHandler.ListAccounts)
			r.Post("/accounts", accountHandler.AddAccount)
			r.Post("/accounts/reorder", accountHandler.ReorderAccounts)
			r.Delete("/accounts/{order}", accountHandler.DeleteAccount)
			r.Get("/accounts/{order}/score", accountHandler.GetScore)
			r.Get("/accounts/{order}/outcome", runHandler.GetOutcome)

			r.Post("/runs", runHandler.Run)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
