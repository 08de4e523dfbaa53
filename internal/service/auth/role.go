package auth

import (
	"fmt"

	"github.com/phrazzld/taskflow-api/internal/domain"
)

// RequireRole reports whether principal holds role. It returns an error
// wrapping domain.ErrForbidden when it does not.
func RequireRole(principal domain.Principal, role domain.Role) error {
	if principal.Role != role {
		return fmt.Errorf("%w: requires role %q", domain.ErrForbidden, role)
	}
	return nil
}
