package chi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/kailas-cloud/nearby/internal/auth"
	"github.com/kailas-cloud/nearby/internal/domain/identity"
	logpkg "github.com/kailas-cloud/nearby/internal/logger"
)

type identityKey struct{}

// IdentityFromContext returns the caller identity set by IdentityMiddleware.
func IdentityFromContext(ctx context.Context) identity.Identity {
	id, _ := ctx.Value(identityKey{}).(identity.Identity)
	return id
}

// WithIdentity stores the caller identity in ctx.
func WithIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityMiddleware requires a valid signed bearer token and stores the
// caller identity in the request context.
func IdentityMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r)
			if msg != "" {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, msg)
				return
			}
			id, err := auth.ValidateToken(secret, token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid token")
				return
			}
			ctx := logpkg.WithCaller(WithIdentity(r.Context(), id), id.OwnerID, string(id.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// APIKeyMiddleware guards operator routes with static bearer keys.
// With no keys configured every request is rejected.
func APIKeyMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	validKeys := make([]string, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			validKeys = append(validKeys, k)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r)
			if msg != "" {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, msg)
				return
			}
			if !keyAllowed(validKeys, token) {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func keyAllowed(keys []string, token string) bool {
	for _, k := range keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(token)) == 1 {
			return true
		}
	}
	return false
}

// bearerToken extracts the token; a non-empty message describes why it is missing.
func bearerToken(r *http.Request) (token, msg string) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", "missing authorization header"
	}
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(h, bearerPrefix) {
		return "", "authorization header must use Bearer scheme"
	}
	token = strings.TrimSpace(h[len(bearerPrefix):])
	if token == "" {
		return "", "empty bearer token"
	}
	return token, ""
}
