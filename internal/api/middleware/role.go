package middleware

import (
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/metrics"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
)

// RequireRole admits only principals holding role. It must run after
// AuthMiddleware.Authenticate; without a principal it answers 401.
// m may be nil.
func RequireRole(role domain.Role, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := shared.PrincipalFromContext(r.Context())
			if !ok {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
					"Authentication required", domain.ErrUnauthorized)
				return
			}

			if err := auth.RequireRole(principal, role); err != nil {
				if m != nil {
					m.RecordAuthFailure(metrics.ReasonForbidden)
				}
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden,
					forbiddenMessage(role), err, shared.WithElevatedLogLevel())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func forbiddenMessage(role domain.Role) string {
	if role == domain.RoleAdmin {
		return "Access denied: Admins only"
	}
	return "Access denied: " + string(role) + " role required"
}
