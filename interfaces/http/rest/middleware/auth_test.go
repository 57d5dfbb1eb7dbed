package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventbase/pkg/auth"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-for-middleware"

func newAuthStack(t *testing.T, perMinute int) (http.Handler, *auth.TokenIssuer) {
	t.Helper()

	issuer, err := auth.NewTokenIssuer(testSecret, "eventbase")
	require.NoError(t, err)

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     testSecret,
		Issuer:        "eventbase",
	})
	require.NoError(t, err)

	protected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromContext(r.Context())
		require.NoError(t, err)
		w.Header().Set("X-User-Id", user.UserID)
		w.Header().Set("X-User-Role", user.Role)
		w.WriteHeader(http.StatusOK)
	})

	stack := Authenticate(
		validator,
		auth.NewIPRateLimiter(perMinute),
		auth.NewUserRateLimiter(perMinute),
		zap.NewNop(),
	)(protected)

	return stack, issuer
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid bearer token passes with user context", func(t *testing.T) {
		stack, issuer := newAuthStack(t, 100)
		token, err := issuer.Issue("u1", "admin", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		stack.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "u1", rec.Header().Get("X-User-Id"))
		require.Equal(t, "admin", rec.Header().Get("X-User-Role"))
	})

	t.Run("cookie token is accepted", func(t *testing.T) {
		stack, issuer := newAuthStack(t, 100)
		token, err := issuer.Issue("u2", "client", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
		rec := httptest.NewRecorder()
		stack.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "u2", rec.Header().Get("X-User-Id"))
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		stack, _ := newAuthStack(t, 100)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		rec := httptest.NewRecorder()
		stack.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is unauthorized", func(t *testing.T) {
		stack, issuer := newAuthStack(t, 100)
		token, err := issuer.Issue("u1", "client", -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		stack.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ip rate limit turns into 429", func(t *testing.T) {
		stack, issuer := newAuthStack(t, 2)
		token, err := issuer.Issue("u1", "client", time.Hour)
		require.NoError(t, err)

		var last int
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			req.RemoteAddr = "10.0.0.1:1234"
			rec := httptest.NewRecorder()
			stack.ServeHTTP(rec, req)
			last = rec.Code
		}

		require.Equal(t, http.StatusTooManyRequests, last)
	})
}
