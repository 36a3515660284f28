// Package errclass defines the stable, machine-readable error classes
// surfaced by pyboot.
package errclass

import "fmt"

// PybootError is a stable, machine-readable error class.
type PybootError struct {
	Code    string
	Message string
}

func (e *PybootError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PybootError) Is(target error) bool {
	t, ok := target.(*PybootError)
	return ok && e.Code == t.Code
}

// WithMessage returns a new PybootError with the same Code but a specific message.
func (e *PybootError) WithMessage(msg string) *PybootError {
	return &PybootError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new PybootError with a formatted message.
func (e *PybootError) WithMessagef(format string, args ...any) *PybootError {
	return &PybootError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// All stable error classes.
//
// ErrUserConfig covers user-correctable misconfiguration. It is fatal to
// the step it occurs in and is never retried internally.
var (
	ErrUserConfig    = &PybootError{Code: "E_USER_CONFIG"}
	ErrPMSpecInvalid = &PybootError{Code: "E_PM_SPEC_INVALID"}
	ErrNameInvalid   = &PybootError{Code: "E_NAME_INVALID"}
	ErrLockConflict  = &PybootError{Code: "E_LOCK_CONFLICT"}
	ErrLockExpired   = &PybootError{Code: "E_LOCK_EXPIRED"}
	ErrLockNotHeld   = &PybootError{Code: "E_LOCK_NOT_HELD"}
	ErrEnvTool       = &PybootError{Code: "E_ENV_TOOL"}
)
