package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyuexuan/hbmtaskd/internal/service/auth"
)

// stubJWTService implements auth.JWTService with canned results.
type stubJWTService struct {
	claims *auth.Claims
	err    error
}

func (s *stubJWTService) GenerateToken(ctx context.Context, subject string) (string, error) {
	return "stub-token", nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	protected := func(svc auth.JWTService) (http.Handler, *string) {
		var seenOperator string
		mw := NewAuthMiddleware(svc)
		handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operator, ok := GetOperator(r)
			require.True(t, ok)
			seenOperator = operator
			w.WriteHeader(http.StatusOK)
		}))
		return handler, &seenOperator
	}

	t.Run("valid bearer token reaches the handler", func(t *testing.T) {
		t.Parallel()

		handler, operator := protected(&stubJWTService{claims: &auth.Claims{Subject: "operator"}})

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.Header.Set("Authorization", "Bearer some.jwt.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "operator", *operator)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()

		handler, _ := protected(&stubJWTService{claims: &auth.Claims{Subject: "operator"}})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		t.Parallel()

		handler, _ := protected(&stubJWTService{claims: &auth.Claims{Subject: "operator"}})

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		handler, _ := protected(&stubJWTService{err: auth.ErrExpiredToken})

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.Header.Set("Authorization", "Bearer some.jwt.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token expired")
	})

	t.Run("invalid token", func(t *testing.T) {
		t.Parallel()

		handler, _ := protected(&stubJWTService{err: auth.ErrInvalidToken})

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.Header.Set("Authorization", "Bearer bad.jwt.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
