// Package errors defines the user-facing error types rendered at the
// command boundary, with suggestions for fixing common gh CLI failures.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// CommandError represents a subprocess execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// SuggestionFor returns a fix-it hint for common gh failure modes,
// matched against the error text. Errors that already carry their own
// suggestion yield an empty string so hints are never doubled.
func SuggestionFor(err error) string {
	if err == nil {
		return ""
	}

	var userErr UserError
	if errors.As(err, &userErr) {
		return ""
	}
	var cfgErr ConfigError
	if errors.As(err, &cfgErr) {
		return ""
	}
	var cmdErr CommandError
	if errors.As(err, &cmdErr) {
		return ""
	}

	errStr := err.Error()

	if strings.Contains(errStr, "not logged in") || strings.Contains(errStr, "To get started with GitHub CLI") {
		return "Run 'gh auth login' to authenticate"
	}
	if strings.Contains(errStr, "not a git repository") || strings.Contains(errStr, "no git remotes") {
		return "Run from inside a repository checkout, or pass --repo OWNER/NAME"
	}
	if strings.Contains(errStr, "rate limit") {
		return "GitHub API rate limit exceeded. Wait a moment and try again"
	}
	if strings.Contains(errStr, "HTTP 403") {
		return "Check that your token has the 'repo' scope and you have admin access to the repository"
	}
	if strings.Contains(errStr, "HTTP 404") {
		return "Verify the repository and entry name exist and are spelled correctly"
	}
	if strings.Contains(errStr, "command not found") || strings.Contains(errStr, "executable file not found") {
		return "Install the GitHub CLI: https://cli.github.com/"
	}

	// Generic suggestions
	if strings.Contains(errStr, "timeout") {
		return "The operation timed out. Check your network connection and try again"
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Unable to connect. Check your network and proxy configuration"
	}

	return ""
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	// Already a user-friendly error
	if _, ok := err.(UserError); ok {
		return err
	}
	if _, ok := err.(ConfigError); ok {
		return err
	}
	if _, ok := err.(CommandError); ok {
		return err
	}

	// Simplify common technical errors
	errStr := rootErr.Error()

	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	// Return original error if we can't simplify it
	return err
}
