package api

import (
	"context"

	"github.com/obrastudio/site-backend/services"
)

type keyType string

const claimsKey keyType = "claims"

// ctxWithClaims stores the validated token claims on the request context.
func ctxWithClaims(ctx context.Context, claims *services.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxClaims returns the claims set by the auth middleware, or nil for an
// unauthenticated request.
func ctxClaims(ctx context.Context) *services.TokenClaims {
	claims, _ := ctx.Value(claimsKey).(*services.TokenClaims)
	return claims
}
