package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-signing"

func TestTokenIssuerAndValidator(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, "eventbase")
	require.NoError(t, err)

	validator, err := NewJWTValidator(JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     testSecret,
		Issuer:        "eventbase",
	})
	require.NoError(t, err)

	t.Run("issued tokens validate round trip", func(t *testing.T) {
		token, err := issuer.Issue("u1", "admin", time.Hour)
		require.NoError(t, err)

		claims, err := validator.ValidateToken(token)
		require.NoError(t, err)
		require.Equal(t, "u1", claims.UserID)
		require.Equal(t, "admin", claims.Role)
		require.Equal(t, "eventbase", claims.Issuer)
	})

	t.Run("Bearer prefix is stripped", func(t *testing.T) {
		token, err := issuer.Issue("u1", "client", time.Hour)
		require.NoError(t, err)

		claims, err := validator.ValidateToken("Bearer " + token)
		require.NoError(t, err)
		require.Equal(t, "u1", claims.UserID)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := issuer.Issue("u1", "client", -time.Minute)
		require.NoError(t, err)

		_, err = validator.ValidateToken(token)
		require.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other, err := NewTokenIssuer("a-completely-different-secret", "eventbase")
		require.NoError(t, err)
		token, err := other.Issue("u1", "client", time.Hour)
		require.NoError(t, err)

		_, err = validator.ValidateToken(token)
		require.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("wrong issuer is rejected", func(t *testing.T) {
		other, err := NewTokenIssuer(testSecret, "someone-else")
		require.NoError(t, err)
		token, err := other.Issue("u1", "client", time.Hour)
		require.NoError(t, err)

		_, err = validator.ValidateToken(token)
		require.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("empty token is missing", func(t *testing.T) {
		_, err := validator.ValidateToken("")
		require.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("token without a subject is rejected", func(t *testing.T) {
		claims := &Claims{
			Role: "client",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "eventbase",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		token, err := raw.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = validator.ValidateToken(token)
		require.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("", "eventbase")
	require.Error(t, err)
}

func TestNewJWTValidatorConfig(t *testing.T) {
	t.Run("HS256 requires a secret", func(t *testing.T) {
		_, err := NewJWTValidator(JWTConfig{SigningMethod: "HS256"})
		require.Error(t, err)
	})

	t.Run("RS256 requires a public key", func(t *testing.T) {
		_, err := NewJWTValidator(JWTConfig{SigningMethod: "RS256"})
		require.Error(t, err)
	})

	t.Run("unknown method is rejected", func(t *testing.T) {
		_, err := NewJWTValidator(JWTConfig{SigningMethod: "none"})
		require.Error(t, err)
	})
}
