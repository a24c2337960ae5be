package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/guyuexuan/hbmtaskd/internal/api/shared"
	"github.com/guyuexuan/hbmtaskd/internal/config"
	"github.com/guyuexuan/hbmtaskd/internal/service/auth"
)

// operatorSubject is the JWT subject for tokens issued at the bootstrap
// endpoint. The API has a single operator identity.
const operatorSubject = "operator"

// AuthHandler handles operator authentication requests.
type AuthHandler struct {
	authConfig config.AuthConfig
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	authConfig config.AuthConfig,
	jwtService auth.JWTService,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authConfig: authConfig,
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "auth_handler")),
	}
}

// IssueToken handles the /auth/token endpoint: it exchanges the configured
// bootstrap secret for a JWT.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.authConfig.BootstrapSecret)) != 1 {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusUnauthorized,
			GetSafeErrorMessage(auth.ErrInvalidSecret),
			auth.ErrInvalidSecret)
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), operatorSubject)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
			err)
		return
	}

	ttl := time.Duration(h.authConfig.TokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(ttl).Format(time.RFC3339),
	})
}
