package middleware

import (
	"context"

	pkgAuth "github.com/ardiansetya/kasirpoint-backend/pkg/auth"
	"github.com/google/uuid"
)

type contextKey string

const ctxClaims contextKey = "claims"

// ClaimsFromContext returns the verified token claims seeded by Auth.
func ClaimsFromContext(ctx context.Context) *pkgAuth.AccessTokenClaims {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxClaims).(*pkgAuth.AccessTokenClaims); ok {
		return v
	}
	return nil
}

// UserIDFromContext returns the authenticated user id, or uuid.Nil.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return uuid.Nil
}

// WithClaims injects token claims into the context. Exposed for tests.
func WithClaims(ctx context.Context, claims *pkgAuth.AccessTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClaims, claims)
}
