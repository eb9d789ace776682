package apperrors

import "errors"

// Error kinds. Every error surfaced by the service layer wraps exactly one of
// these sentinels so callers can branch with errors.Is without string matching.
var (
	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Lifecycle errors
	ErrExpired = errors.New("expired")

	// Authentication errors (identity adapter only)
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")
)

// Entity errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrClubNotFound         = errors.New("club not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrTripNotFound         = errors.New("trip not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrCommentNotFound      = errors.New("comment not found")
)

// CustomError carries an error kind plus a human-readable message.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewValidationError creates an error for malformed or missing input
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// NewResourceNotFoundError creates an error for a missing referenced entity
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewForbiddenError creates an error for a caller lacking a required permission or role
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewConflictError creates an error for a violated uniqueness or exclusivity invariant
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewExpiredError creates an error for a closed poll/form or an elapsed edit window
func NewExpiredError(message string) error {
	return &CustomError{Err: ErrExpired, Message: message}
}

// NewCustomError creates a CustomError with an arbitrary underlying kind
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// Is reports whether err matches target or any of the extra errors.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
