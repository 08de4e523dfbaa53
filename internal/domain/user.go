package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Role is the coarse authorization level of a user.
type Role string

// The closed set of roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// MinPasswordLength is the shortest password accepted at registration and login.
const MinPasswordLength = 6

// passwordSpecialChars are the special characters a password must draw from.
const passwordSpecialChars = "!@#$%^&*"

// emailPattern requires one @ with non-blank text on both sides and a dot in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ParseRole converts a raw string into a Role. An empty string yields RoleUser.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin:
		return Role(raw), nil
	default:
		return "", NewValidationError("role", "Invalid role", ErrInvalidRole)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a User with a fresh ID and timestamps.
// The caller is responsible for setting HashedPassword before storing the user.
func NewUser(name, email string, role Role) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, NewValidationError("role", "Invalid role", ErrInvalidRole)
	}

	return user, nil
}

// Validate checks the fields required before a user is persisted.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "User ID cannot be empty", ErrInvalidID)
	}
	if strings.TrimSpace(u.Name) == "" {
		return NewValidationError("name", "Name is required", ErrValidation)
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "Password hash cannot be empty", ErrInvalidPassword)
	}
	if !u.Role.Valid() {
		return NewValidationError("role", "Invalid role", ErrInvalidRole)
	}
	return nil
}

// ValidateEmail checks the address against the simple local@domain.tld shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return NewValidationError("email", "Invalid email format", ErrInvalidEmail)
	}
	return nil
}

// ValidatePassword enforces the registration password policy: at least
// MinPasswordLength characters with a lowercase letter, an uppercase letter,
// a digit and one of !@#$%^&*.
func ValidatePassword(password string) error {
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecialChars, r):
			hasSpecial = true
		}
	}

	if utf8.RuneCountInString(password) < MinPasswordLength || !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		return NewValidationError("password",
			"Password must be at least 6 characters long and contain at least one lowercase letter, "+
				"one uppercase letter, one number, and one special character (!@#$%^&*)",
			ErrInvalidPassword)
	}
	return nil
}
