package token

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/riadaman/sanctrum-rest-api/internal/token/entity"
	"github.com/riadaman/sanctrum-rest-api/pkg/response"
)

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id entity.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by Guard.
func IdentityFromContext(ctx context.Context) (entity.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(entity.Identity)
	return id, ok
}

// Resolver is the part of Service the guard needs.
type Resolver interface {
	Resolve(ctx context.Context, bearer string) (entity.Identity, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <t>" header.
func BearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if len(auth) < len("bearer ") || !strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return "", false
	}
	t := strings.TrimSpace(auth[len("bearer "):])
	return t, t != ""
}

// Guard rejects requests without a resolvable bearer token and attaches the
// caller's identity to the request context otherwise.
func Guard(res Resolver, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer, ok := BearerToken(r)
			if !ok {
				response.Write(w, response.Error("Unauthenticated", http.StatusUnauthorized))
				return
			}
			id, err := res.Resolve(r.Context(), bearer)
			if err != nil {
				if errors.Is(err, ErrInvalidToken) {
					logger.Debugw("bearer rejected", "path", r.URL.Path)
					response.Write(w, response.Error("Unauthenticated", http.StatusUnauthorized))
					return
				}
				logger.Errorw("token lookup failed", "err", err, "path", r.URL.Path)
				response.Write(w, response.Error("Internal server error", http.StatusInternalServerError))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
