// Package exec abstracts subprocess execution so callers that shell out
// to the gh CLI can be tested without spawning real processes.
package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// CommandExecutor runs external commands. The production implementation
// spawns real processes; tests substitute a mock that replays canned
// stdout/stderr pairs.
type CommandExecutor interface {
	// Execute runs name with args under ctx and returns captured stdout,
	// stderr, and the process error, if any.
	Execute(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// RealCommandExecutor executes actual commands using os/exec.
type RealCommandExecutor struct{}

// Execute runs an actual command, capturing both output streams.
func (r *RealCommandExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// DefaultExecutor returns the standard production executor.
func DefaultExecutor() CommandExecutor {
	return &RealCommandExecutor{}
}

// ExitCode extracts the exit status from an Execute error. It returns -1
// when the command never ran to completion (missing binary, canceled
// context) and 0 when err is nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// IsNotInstalled reports whether err means the binary was not found in
// PATH, as opposed to the command running and failing.
func IsNotInstalled(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound)
}
