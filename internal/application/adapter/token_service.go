package adapter

import (
	"context"
	"time"
)

// TokenClaims represents the validated claims of an admin token.
type TokenClaims struct {
	Subject string
	Role    string
}

// TokenService defines the interface for admin token operations. Tokens are
// issued out of band (deploy tooling) and presented as bearer tokens on the
// admin surface.
type TokenService interface {
	// GenerateAdminToken issues a signed admin token for the given subject.
	GenerateAdminToken(subject string, expiry time.Duration) (string, error)

	// ValidateToken validates a token and returns its claims.
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}
