package domain

import "github.com/google/uuid"

// Principal is the identity decoded from a verified session token. It is
// passed explicitly into service calls that act on behalf of a caller.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// IsZero reports whether the principal carries no identity.
func (p Principal) IsZero() bool {
	return p.UserID == uuid.Nil
}
