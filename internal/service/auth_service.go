package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name            string `validate:"required"`
	Email           string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
	// Role is optional and defaults to domain.RoleUser.
	Role string
}

// LoginInput carries the fields of a login request.
type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// LoginResult is a freshly issued session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService registers users, issues session tokens and resolves tokens
// back into an authenticated principal.
type AuthService interface {
	// Register validates the input, hashes the password and stores a new user.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)

	// Authenticate validates a session token and confirms its user still exists.
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

type authServiceImpl struct {
	userStore  store.UserStore
	hasher     auth.PasswordHasher
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	jwtService auth.JWTService,
	logger *slog.Logger,
) AuthService {
	return &authServiceImpl{
		userStore:  userStore,
		hasher:     hasher,
		jwtService: jwtService,
		logger:     logger.With("component", "auth_service"),
	}
}

// Register implements AuthService.
func (s *authServiceImpl) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := validateInput(input, "All fields are required"); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if input.Password != input.ConfirmPassword {
		return nil, domain.NewValidationError("confirmPassword",
			"Password and confirm password do not match", domain.ErrInvalidPassword)
	}
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	// The unique index on email closes the race this check leaves open.
	_, err = s.userStore.GetByEmail(ctx, input.Email)
	switch {
	case err == nil:
		log.Debug("registration rejected: email already registered")
		return nil, fmt.Errorf("cannot register: %w", store.ErrEmailExists)
	case !errors.Is(err, store.ErrUserNotFound):
		return nil, NewServiceError("auth", "register", err)
	}

	user, err := domain.NewUser(input.Name, input.Email, role)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, NewServiceError("auth", "register", err)
	}
	user.HashedPassword = hashed

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration lost race on email uniqueness")
			return nil, fmt.Errorf("cannot register: %w", err)
		}
		return nil, NewServiceError("auth", "register", err)
	}

	log.Info("user registered",
		"user_id", user.ID,
		"role", user.Role)

	return user, nil
}

// Login implements AuthService.
func (s *authServiceImpl) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := validateInput(input, "Email and password are required"); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(input.Password) < domain.MinPasswordLength {
		return nil, domain.NewValidationError("password",
			fmt.Sprintf("Password must be at least %d characters long", domain.MinPasswordLength),
			domain.ErrInvalidPassword)
	}

	user, err := s.userStore.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login rejected: email not registered")
			return nil, ErrUserNotRegistered
		}
		return nil, NewServiceError("auth", "login", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, input.Password); err != nil {
		log.Debug("login rejected: password mismatch", "user_id", user.ID)
		return nil, ErrIncorrectPassword
	}

	token, expiresAt, err := s.jwtService.GenerateToken(ctx, user)
	if err != nil {
		return nil, NewServiceError("auth", "login", err)
	}

	log.Info("user logged in", "user_id", user.ID)

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Authenticate implements AuthService.
func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if token == "" {
		return domain.Principal{}, auth.ErrMissingToken
	}

	claims, err := s.jwtService.ValidateToken(ctx, token)
	if err != nil {
		return domain.Principal{}, err
	}

	if _, err := s.userStore.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("token rejected: user no longer exists", "user_id", claims.UserID)
			return domain.Principal{}, ErrUserNoLongerExists
		}
		return domain.Principal{}, NewServiceError("auth", "authenticate", err)
	}

	return claims.Principal(), nil
}
