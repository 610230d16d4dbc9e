package github

import (
	"fmt"
	"strings"
)

// AuthError indicates the gh CLI has no usable GitHub credentials.
type AuthError struct {
	Stderr string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("gh auth error: %s", e.Stderr)
	}
	return fmt.Sprintf("gh auth error: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NoRepositoryError indicates no repository could be resolved from the
// working directory and none was given explicitly.
type NoRepositoryError struct {
	Stderr string
	Err    error
}

func (e *NoRepositoryError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("no repository: %s", e.Stderr)
	}
	return fmt.Sprintf("no repository: %v", e.Err)
}

func (e *NoRepositoryError) Unwrap() error {
	return e.Err
}

// CapabilityError indicates an operation the store cannot perform, such
// as reading a secret value back.
type CapabilityError struct {
	Store string // "secrets" or "variables"
	Op    string // Operation: "get", "describe"
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s store does not support %s: values are write-only", e.Store, e.Op)
}

// NotFoundError indicates a named entry does not exist in the store.
type NotFoundError struct {
	Store string
	Name  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s entry %q not found", e.Store, e.Name)
}

// RemoteError wraps a failed gh invocation with the store and operation
// context plus the CLI's stderr, which carries the API failure detail.
type RemoteError struct {
	Store  string
	Op     string // Operation: "list", "get", "set", "delete"
	Name   string // Entry name, empty for list operations
	Stderr string
	Err    error
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Store, e.Op)
	if e.Name != "" {
		msg = fmt.Sprintf("%s %s failed for %q", e.Store, e.Op, e.Name)
	}
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error reports a missing entry, either
// as a typed NotFoundError or as an HTTP 404 from the API.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*NotFoundError); ok {
		return true
	}
	return stderrNotFound(err.Error())
}

// stderrNotFound classifies gh stderr output as a missing-entry failure.
func stderrNotFound(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "http 404") || strings.Contains(lower, "not found")
}
