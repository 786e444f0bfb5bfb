// Sentinel errors shared across services and handlers. Handlers match
// them with errors.Is/errors.As and translate them into the JSON error
// envelope; services wrap them with context but never swallow them.
package domain

import (
	"errors"
	"fmt"
)

var (
	ErrVisitNotFound      = errors.New("visit not found")
	ErrVisitorNotFound    = errors.New("visitor not found")
	ErrHostNotFound       = errors.New("host not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDepartmentNotFound = errors.New("department not found")

	ErrForbiddenTransition = errors.New("forbidden transition")
	ErrAlreadyCheckedIn    = errors.New("visitor already checked in")
	ErrNotCurrentlyInside  = errors.New("visitor not currently inside")

	ErrDuplicateDepartment   = errors.New("department already exists")
	ErrDuplicateEmailOrPhone = errors.New("email or phone already in use")
	ErrMissingRequiredField  = errors.New("missing required field")
	ErrInvalidEmail          = errors.New("invalid email format")
	ErrInvalidRole           = errors.New("invalid role")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrWeakPassword          = errors.New("password must be at least 8 characters")

	ErrAdminExists      = errors.New("admin account already exists")
	ErrAdminUndeletable = errors.New("admin account cannot be deleted")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ForbiddenTransitionError tells the caller exactly which role tried to
// set which status. It matches ErrForbiddenTransition under errors.Is.
type ForbiddenTransitionError struct {
	Role   Role
	Status VisitStatus
}

func (e *ForbiddenTransitionError) Error() string {
	return fmt.Sprintf("role %q cannot set status %q", e.Role, e.Status)
}

func (e *ForbiddenTransitionError) Is(target error) bool {
	return target == ErrForbiddenTransition
}
