package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/paydown/backend/internal/config"
	"github.com/paydown/backend/internal/models"
	"github.com/paydown/backend/internal/services"
)

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID returns a copy of ctx carrying the authenticated owner.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated owner stored by Authenticator.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// IdentityProvider resolves a bearer credential to a user id.
type IdentityProvider interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// JWTProvider verifies HS256 tokens issued by the identity provider.
type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

func (p *JWTProvider) Authenticate(ctx context.Context, tokenString string) (string, error) {
	if len(p.secret) == 0 {
		return "", fmt.Errorf("%w: no signing secret configured", models.ErrUnauthorized)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: unexpected claims", models.ErrUnauthorized)
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return userID, nil
	}
	return "", fmt.Errorf("%w: token carries no user id", models.ErrUnauthorized)
}

// Authenticator resolves the caller's identity for every request. When
// trusted dev mode is on, requests without a valid credential act as the
// configured default user instead of being rejected.
type Authenticator struct {
	provider       IdentityProvider
	fallbackUserID string
}

func NewAuthenticator(provider IdentityProvider, cfg config.AuthConfig) *Authenticator {
	a := &Authenticator{provider: provider}
	if cfg.TrustedDevMode && cfg.DefaultUserID != "" {
		log.Printf("[AUTH] Trusted dev mode enabled, unauthenticated requests act as %s", cfg.DefaultUserID)
		a.fallbackUserID = cfg.DefaultUserID
	}
	return a
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.authenticate(r)
		if err != nil {
			if a.fallbackUserID == "" {
				services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
				return
			}
			log.Printf("[AUTH] Falling back to default user: %v", err)
			userID = a.fallbackUserID
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func (a *Authenticator) authenticate(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("%w: authorization header required", models.ErrUnauthorized)
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("%w: invalid authorization header format", models.ErrUnauthorized)
	}

	return a.provider.Authenticate(r.Context(), token)
}

// SecurityHeaders sets conservative response headers for a JSON API.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
