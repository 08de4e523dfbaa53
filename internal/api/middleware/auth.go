package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/platform/metrics"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
)

// TokenCookieName is the cookie holding the session token.
const TokenCookieName = "token"

// maxTokenBodyBytes bounds how much of a JSON body is read looking for a token.
// Larger bodies still reach the handler whole.
const maxTokenBodyBytes = 1 << 20

// Authenticator resolves a session token into a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

// Ensure the auth service can back the middleware
var _ Authenticator = (service.AuthService)(nil)

// AuthMiddleware authenticates requests and stores the principal in the
// request context.
type AuthMiddleware struct {
	authenticator Authenticator
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. m may be nil.
func NewAuthMiddleware(authenticator Authenticator, m *metrics.Metrics, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		authenticator: authenticator,
		metrics:       m,
		logger:        logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate looks for a token in the "token" cookie, then in a "token"
// field of a JSON body, then in an "Authorization: Bearer" header. The body
// is restored for the next handler after it is read.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		token, err := extractToken(r)
		if err == nil {
			var principal domain.Principal
			principal, err = m.authenticator.Authenticate(r.Context(), token)
			if err == nil {
				ctx := shared.WithPrincipal(r.Context(), principal)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		status, message, reason := classifyAuthError(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to authenticate request", slog.String("error", err.Error()))
		}
		m.recordFailure(reason)
		shared.RespondWithErrorAndLog(w, r, status, message, err, shared.WithElevatedLogLevel())
	})
}

func (m *AuthMiddleware) recordFailure(reason string) {
	if m.metrics != nil && reason != "" {
		m.metrics.RecordAuthFailure(reason)
	}
}

// extractToken returns the first token found in priority order.
func extractToken(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	if token := tokenFromBody(r); token != "" {
		return token, nil
	}

	if header := r.Header.Get("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			return "", auth.ErrInvalidToken
		}
		return strings.TrimSpace(token), nil
	}

	return "", auth.ErrMissingToken
}

// tokenFromBody peeks at a JSON body for a string "token" field and puts
// the bytes back so the handler can decode the body itself.
func tokenFromBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxTokenBodyBytes))
	r.Body = replayBody{
		Reader: io.MultiReader(bytes.NewReader(body), r.Body),
		Closer: r.Body,
	}
	if err != nil || len(body) == 0 {
		return ""
	}

	var payload struct {
		Token json.RawMessage `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Token) == 0 {
		return ""
	}
	var token string
	if err := json.Unmarshal(payload.Token, &token); err != nil {
		return ""
	}
	return token
}

// replayBody serves the bytes already read followed by the unread rest of
// the original body. Closing it closes the original.
type replayBody struct {
	io.Reader
	io.Closer
}

// classifyAuthError picks the status, client message and metrics reason for
// a rejected request.
func classifyAuthError(err error) (int, string, string) {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized,
			"Authentication token is missing. Please log in and try again",
			metrics.ReasonMissingToken
	case errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized,
			"Your session has expired. Please log in again",
			metrics.ReasonExpiredToken
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized,
			"Invalid token. Please log in again",
			metrics.ReasonInvalidToken
	case errors.Is(err, service.ErrUserNoLongerExists):
		return http.StatusUnauthorized,
			"User associated with this token no longer exists. Please log in again",
			metrics.ReasonUnknownUser
	default:
		return http.StatusInternalServerError,
			"An unexpected error occurred during authentication. Please try again later",
			""
	}
}
