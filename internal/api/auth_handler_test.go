package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyuexuan/hbmtaskd/internal/config"
)

func TestIssueToken(t *testing.T) {
	t.Parallel()

	authConfig := config.AuthConfig{
		JWTSecret:       "thisisasecretkeythatis32charslong!!",
		BootstrapSecret: "operator-bootstrap-secret",
		TokenTTLMinutes: 60,
	}

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
		wantToken  bool
	}{
		{
			name:       "valid secret",
			payload:    map[string]interface{}{"secret": "operator-bootstrap-secret"},
			wantStatus: http.StatusOK,
			wantToken:  true,
		},
		{
			name:       "wrong secret",
			payload:    map[string]interface{}{"secret": "guessing"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing secret",
			payload:    map[string]interface{}{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewAuthHandler(authConfig, &mockJWTService{token: "issued-token"}, nil)

			body, err := json.Marshal(tt.payload)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.IssueToken(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantToken {
				var resp TokenResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "issued-token", resp.AccessToken)
				assert.NotEmpty(t, resp.ExpiresAt)
			}
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(authConfig, &mockJWTService{token: "issued-token"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()

		handler.IssueToken(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
