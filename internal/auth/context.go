package auth

import (
	"context"
	"time"

	"github.com/spec-kit/authcore/internal/domain"
)

// AuthContext is the request-scoped identity attached by the gate.
type AuthContext struct {
	Subject   domain.SubjectIdentity
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func newAuthContext(claims domain.TokenClaims) *AuthContext {
	return &AuthContext{
		Subject:   claims.Subject,
		TokenID:   claims.TokenID,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}
}

type authContextKey struct{}

// WithAuth returns a copy of ctx carrying the AuthContext.
func WithAuth(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, ac)
}

// FromContext returns the AuthContext attached to ctx, if any.
func FromContext(ctx context.Context) (*AuthContext, bool) {
	ac, ok := ctx.Value(authContextKey{}).(*AuthContext)
	return ac, ok && ac != nil
}
