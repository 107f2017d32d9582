package application

import "errors"

// Error kinds returned by the service. Match them with errors.Is.
var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUnexpected         = errors.New("unexpected error")
	ErrUserNotFound       = errors.New("user not found")
)

// Error carries a localized message alongside its kind and, for unexpected failures, the cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && errors.Is(e.Kind, ErrUnexpected) {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
