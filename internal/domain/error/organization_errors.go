package error

import "errors"

// Organization domain errors.
var (
	// ErrOrganizationNotFound is returned when an organization is not found.
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrOrganizationSlugTaken is returned when the slug is already in use.
	ErrOrganizationSlugTaken = errors.New("organization slug already taken")

	// ErrInvalidOrganizationName is returned when the organization name is empty.
	ErrInvalidOrganizationName = errors.New("organization name is required")
)

// Auth errors shared by the admin middleware.
var (
	// ErrMissingToken is returned when no bearer token was supplied.
	ErrMissingToken = errors.New("authorization token is required")

	// ErrInvalidToken is returned when the bearer token is invalid or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// OrganizationErrorCode defines error codes for organization errors.
type OrganizationErrorCode string

const (
	ErrCodeOrganizationNotFound    OrganizationErrorCode = "ORG-010001"
	ErrCodeOrganizationSlugTaken   OrganizationErrorCode = "ORG-010002"
	ErrCodeInvalidOrganizationName OrganizationErrorCode = "ORG-010003"
)

// AuthErrorCode defines error codes for auth errors.
type AuthErrorCode string

const (
	ErrCodeMissingToken AuthErrorCode = "AUTH-010001"
	ErrCodeInvalidToken AuthErrorCode = "AUTH-010002"
	ErrCodeRateLimited  AuthErrorCode = "AUTH-010003"
)

// OrganizationError represents an organization error with code and message.
type OrganizationError struct {
	Code    OrganizationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *OrganizationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *OrganizationError) Unwrap() error {
	return e.Err
}

// NewOrganizationError creates a new OrganizationError with the given code and message.
func NewOrganizationError(code OrganizationErrorCode, message string, err error) *OrganizationError {
	return &OrganizationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
