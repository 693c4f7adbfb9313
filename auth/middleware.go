package auth

import (
	"context"
	"net/http"
	"strings"

	"daneth-messenger/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// Middleware guards REST routes with JWT validation and injects the
// verified identity into the request context.
type Middleware struct {
	issuer TokenIssuer
}

func NewMiddleware(issuer TokenIssuer) Middleware {
	return Middleware{issuer: issuer}
}

// Require rejects requests without a valid bearer token.
func (m Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.identityFromRequest(r)
		if !ok {
			http.Error(w, "invalid or missing token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// identityFromRequest reads and validates the Authorization header.
func (m Middleware) identityFromRequest(r *http.Request) (domain.Identity, bool) {
	token := BearerToken(r)
	if token == "" {
		return domain.Identity{}, false
	}
	identity, err := m.issuer.Validate(token)
	if err != nil {
		return domain.Identity{}, false
	}
	return identity, true
}

// BearerToken extracts the raw token from "Authorization: Bearer <t>",
// returning "" when the header is absent or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the verified identity a middleware stored,
// if any.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}
