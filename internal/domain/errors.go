package domain

import "fmt"

// Sentinel errors for the domain layer.
var (
	ErrSessionNotFound = fmt.Errorf("session not found")
	ErrSessionClosed   = fmt.Errorf("session is closed")
	ErrAgentNotFound   = fmt.Errorf("agent not found")
	ErrInvalidPattern  = fmt.Errorf("invalid routing pattern")
	ErrConfigLoad      = fmt.Errorf("failed to load configuration")
	ErrRemoteAgent     = fmt.Errorf("remote agent call failed")
)

// DomainError wraps a sentinel error with operation context.
type DomainError struct {
	Op     string // operation name (e.g., "Registry.Get")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}
