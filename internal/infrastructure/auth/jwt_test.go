package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/silverledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: 365 * 24 * time.Hour,
		Issuer:          "silver-ledger-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "counter1", "Employee")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.WithinDuration(t, time.Now().Add(365*24*time.Hour), token.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "counter1", claims.Username)
	assert.Equal(t, "Employee", claims.Role)
	assert.Equal(t, "silver-ledger-test", claims.Issuer)

	got, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	svc := newTestJWTService()

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-chars!!", TokenExpiration: time.Hour})
		token, err := other.GenerateToken(uuid.New(), "x", "Admin")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		short := NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", TokenExpiration: -time.Minute})
		token, err := short.GenerateToken(uuid.New(), "x", "Admin")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token.Value)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("missing user id", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key-at-least-32-chars"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrMissingUserID)
	})

	t.Run("other signing method", func(t *testing.T) {
		claims := &Claims{UserID: uuid.New().String()}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
