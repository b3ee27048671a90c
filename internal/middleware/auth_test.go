package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/paydown/backend/internal/config"
	"github.com/paydown/backend/internal/models"
	"github.com/paydown/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTProvider_Authenticate(t *testing.T) {
	provider := NewJWTProvider(testSecret)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("subject claim", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user-1", "exp": exp})
		userID, err := provider.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("user_id claim fallback", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": "user-2", "exp": exp})
		userID, err := provider.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-2", userID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "user-1"})
		_, err := provider.Authenticate(ctx, token)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(-time.Hour).Unix()})
		_, err := provider.Authenticate(ctx, token)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("other algorithm", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{"sub": "user-1"})
		_, err := provider.Authenticate(ctx, token)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("no identity claim", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"role": "authenticated"})
		_, err := provider.Authenticate(ctx, token)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("no secret configured", func(t *testing.T) {
		_, err := NewJWTProvider("").Authenticate(ctx, "anything")
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	w.Write([]byte(userID))
}

func TestAuthenticator_Middleware(t *testing.T) {
	provider := NewJWTProvider(testSecret)
	valid := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user-1"})

	tests := []struct {
		name       string
		cfg        config.AuthConfig
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid bearer", config.AuthConfig{}, "Bearer " + valid, http.StatusOK, "user-1"},
		{"lowercase scheme", config.AuthConfig{}, "bearer " + valid, http.StatusOK, "user-1"},
		{"missing header", config.AuthConfig{}, "", http.StatusUnauthorized, ""},
		{"malformed header", config.AuthConfig{}, "Token " + valid, http.StatusUnauthorized, ""},
		{"invalid token", config.AuthConfig{}, "Bearer nope", http.StatusUnauthorized, ""},
		{"dev mode without default user fails closed", config.AuthConfig{TrustedDevMode: true}, "Bearer nope", http.StatusUnauthorized, ""},
		{"default user without dev mode fails closed", config.AuthConfig{DefaultUserID: "dev"}, "", http.StatusUnauthorized, ""},
		{"dev mode fallback", config.AuthConfig{TrustedDevMode: true, DefaultUserID: "dev"}, "Bearer nope", http.StatusOK, "dev"},
		{"dev mode still honors valid tokens", config.AuthConfig{TrustedDevMode: true, DefaultUserID: "dev"}, "Bearer " + valid, http.StatusOK, "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthenticator(provider, tt.cfg).Middleware(http.HandlerFunc(echoUser))

			req := httptest.NewRequest(http.MethodGet, "/api/debts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, w.Body.String())
				return
			}
			var resp services.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Unauthorized", resp.Error)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestUserID(t *testing.T) {
	_, ok := UserID(context.Background())
	assert.False(t, ok)

	userID, ok := UserID(WithUserID(context.Background(), "user-9"))
	assert.True(t, ok)
	assert.Equal(t, "user-9", userID)
}
