package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrUserNotRegistered indicates a login for an email with no account.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrUserNotRegistered = errors.New("user is not registered")

	// ErrIncorrectPassword indicates a login with a wrong password.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrIncorrectPassword = errors.New("incorrect password")

	// ErrUserNoLongerExists indicates a valid token whose user has been removed.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrUserNoLongerExists = errors.New("user no longer exists")
)

// ServiceError wraps unexpected errors from a service with the operation
// that produced them. Expected conditions are returned as sentinels instead.
type ServiceError struct {
	// Service is the name of the service (e.g., "task", "auth")
	Service string
	// Op is the operation that failed (e.g., "create", "list")
	Op string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a new ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Err:     err,
	}
}

// validate checks the struct tags of service inputs.
var validate = validator.New()

// validateInput runs the struct validator over input and reports the first
// failing field as a domain.ValidationError carrying message.
func validateInput(input interface{}, message string) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return domain.NewValidationError(fieldErrs[0].Field(), message, nil)
	}
	return domain.NewValidationError("", message, err)
}
