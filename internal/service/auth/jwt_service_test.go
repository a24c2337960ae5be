package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyuexuan/hbmtaskd/internal/config"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

func newTestService(t *testing.T) *hmacJWTService {
	t.Helper()

	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:       testSecret,
		TokenTTLMinutes: 60,
	})
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := NewJWTService(config.AuthConfig{JWTSecret: "tooshort"})
		assert.Error(t, err)
	})

	t.Run("zero TTL falls back to an hour", func(t *testing.T) {
		t.Parallel()

		svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret})
		require.NoError(t, err)
		assert.Equal(t, time.Hour, svc.(*hmacJWTService).tokenLifetime)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "operator")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		_, err := svc.ValidateToken(context.Background(), "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		_, err := svc.ValidateToken(context.Background(), "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		other, err := NewJWTService(config.AuthConfig{
			JWTSecret:       "adifferentsecretthatisat32charslong",
			TokenTTLMinutes: 60,
		})
		require.NoError(t, err)

		token, err := other.GenerateToken(context.Background(), "operator")
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)

		issued := time.Now().Add(-3 * time.Hour)
		svc.timeFunc = func() time.Time { return issued }
		token, err := svc.GenerateToken(context.Background(), "operator")
		require.NoError(t, err)

		svc.timeFunc = time.Now
		_, err = svc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("expiry within clock skew is tolerated", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)

		issued := time.Now().Add(-61 * time.Minute)
		svc.timeFunc = func() time.Time { return issued }
		token, err := svc.GenerateToken(context.Background(), "operator")
		require.NoError(t, err)

		svc.timeFunc = time.Now
		_, err = svc.ValidateToken(context.Background(), token)
		assert.NoError(t, err)
	})
}
