package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// JWTService defines operations for managing session tokens.
type JWTService interface {
	// GenerateToken creates a signed session token carrying the user's id,
	// email and role. It returns the token and the instant it expires.
	GenerateToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken for expired tokens and ErrInvalidToken for any
	// other verification failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the decoded contents of a session token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   domain.Role

	// Standard registered JWT claims
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// Principal returns the authenticated identity described by the claims.
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
	}
}
