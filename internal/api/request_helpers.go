package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// getPathUUID extracts and parses a UUID path parameter.
// A missing or malformed value is a validation error.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "Task id is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "Invalid task id", domain.ErrInvalidID)
	}
	return id, nil
}

// handlePathUUID is getPathUUID that writes the error response itself.
// The boolean is false when a response has been written.
func handlePathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// handlePrincipal returns the principal set by the auth middleware, or
// writes a 401 response.
func handlePrincipal(w http.ResponseWriter, r *http.Request, log *slog.Logger) (domain.Principal, bool) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		log.Warn("principal not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return domain.Principal{}, false
	}
	return principal, true
}
