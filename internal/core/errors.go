package core

import "fmt"

// ValidationError reports a field constraint violation. It is local and
// user-correctable: the failing value never reaches the remote store and
// the cache is left untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// GuardError reports that a precondition for an action is not met.
// No remote call is attempted.
type GuardError struct {
	Reason string
}

func (e *GuardError) Error() string {
	return e.Reason
}

// PermissionError reports that the remote store rejected an operation due
// to its access policy. It is not retryable without an allow-list change.
type PermissionError struct {
	Msg string
}

func (e *PermissionError) Error() string {
	return e.Msg
}

// NetworkError reports a transient transport failure. It is surfaced to the
// user without automatic retry.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that the target task no longer exists remotely.
// Callers should refresh the cache when they see one.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.ID)
}
