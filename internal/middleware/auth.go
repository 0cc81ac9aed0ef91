package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/config"
)

// ManagementTokenHeader carries the id of the Management capability being presented
const ManagementTokenHeader = "management_token"

type tokenKey struct{}

// APIKeyAuth middleware validates API key from the "api_key" header.
// It guards operator endpoints such as the faucet.
func APIKeyAuth(cfg config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("api_key")

			if apiKey == "" {
				http.Error(w, "Unauthorized: API key required", http.StatusUnauthorized)
				return
			}

			valid := false
			for _, validKey := range cfg.APIKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(validKey)) == 1 {
					valid = true
					break
				}
			}

			if !valid {
				http.Error(w, "Forbidden: Invalid API key", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ManagementToken extracts the presented capability token. Whether the token
// is bound to the addressed restaurant is decided by the service; this only
// rejects requests that present nothing usable.
func ManagementToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(ManagementTokenHeader)
		if raw == "" {
			http.Error(w, "Unauthorized: management token required", http.StatusUnauthorized)
			return
		}

		token, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Forbidden: malformed management token", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), tokenKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenFromContext returns the token stored by ManagementToken
func TokenFromContext(ctx context.Context) (uuid.UUID, bool) {
	token, ok := ctx.Value(tokenKey{}).(uuid.UUID)
	return token, ok
}
