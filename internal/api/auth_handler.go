package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/api/middleware"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authService  service.AuthService
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the session
// cookie Secure and should be set in production.
func NewAuthHandler(authService service.AuthService, secureCookie bool, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}

	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
		logger:       logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid register payload", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
	})
	if err != nil {
		HandleAPIError(w, r, err, "User registration failed. Please try again later")
		return
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	shared.RespondWithSuccess(w, r, http.StatusCreated, shared.Envelope{
		"message": "User registered successfully",
	})
}

// Login handles POST /auth/login. The token is returned in the body and
// set as an HttpOnly cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid login payload", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Login failed. Please try again later")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})

	log.Info("user logged in", slog.String("user_id", result.User.ID.String()))
	shared.RespondWithSuccess(w, r, http.StatusOK, shared.Envelope{
		"message":   "Logged in successfully",
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"user":      userToSummary(result.User),
	})
}

// principalFields lists the principal in log attributes.
func principalFields(p domain.Principal) []any {
	return []any{
		slog.String("user_id", p.UserID.String()),
		slog.String("role", string(p.Role)),
	}
}
