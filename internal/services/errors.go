package services

import "errors"

var (
	ErrResourceNotFound   = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrSaveNotFound       = errors.New("resource not saved")
	ErrVersionConflict    = errors.New("resource was modified by another update, re-read and retry")
	ErrNoResourcesFound   = errors.New("no resources found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)

// ValidationError rejects malformed or missing input at the boundary,
// before anything touches the store. Field is the offending input field
// when one can be named.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func validationErr(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
