// Package http provides the authentication endpoints, the bearer token middleware
// and the request rate limiter.
package http

import (
	"context"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
	apperrors "github.com/allisson/legacyvault/internal/errors"
)

// principalKey is a context key type for storing the authenticated principal.
type principalKey struct{}

// WithPrincipal stores an authenticated principal in the context.
func WithPrincipal(ctx context.Context, principal *authDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (nil, false) when the request was not authenticated.
func GetPrincipal(ctx context.Context) (*authDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*authDomain.Principal)
	return principal, ok && principal != nil
}

// AuthorizeOwner returns ErrForbidden when the request carries a principal for a
// different user than ownerID. Requests without a principal pass, which only
// happens when authentication is disabled and the middleware is not mounted.
func AuthorizeOwner(c *gin.Context, ownerID int64) error {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		return nil
	}
	if principal.UserID != ownerID {
		return apperrors.ErrForbidden
	}
	return nil
}
