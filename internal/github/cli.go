package github

import (
	"context"
	"fmt"
	"strings"

	gherrors "github.com/systmms/ghenv/internal/errors"
	"github.com/systmms/ghenv/internal/logging"
	pkgexec "github.com/systmms/ghenv/pkg/exec"
)

// CLI runs gh commands through the shared executor seam. It carries no
// repository state; callers pass the target repository per operation.
type CLI struct {
	logger   *logging.Logger
	executor pkgexec.CommandExecutor
}

// NewCLI creates a gh runner using the real command executor.
func NewCLI(logger *logging.Logger) *CLI {
	return &CLI{
		logger:   logger,
		executor: pkgexec.DefaultExecutor(),
	}
}

// NewCLIWithExecutor creates a gh runner with a custom executor.
// This is primarily for testing, allowing command execution to be mocked.
func NewCLIWithExecutor(logger *logging.Logger, executor pkgexec.CommandExecutor) *CLI {
	return &CLI{
		logger:   logger,
		executor: executor,
	}
}

// run executes gh with the given arguments and logs the command line.
func (c *CLI) run(ctx context.Context, args ...string) (stdout []byte, stderr []byte, err error) {
	c.logger.Debug("Running: gh %s", strings.Join(args, " "))
	return c.executor.Execute(ctx, "gh", args...)
}

// runSensitive executes gh with arguments that contain secret values.
// The logged command line has those values redacted.
func (c *CLI) runSensitive(ctx context.Context, secrets []string, args ...string) (stdout []byte, stderr []byte, err error) {
	c.logger.Debug("Running: gh %s", logging.Redact(strings.Join(args, " "), secrets))
	return c.executor.Execute(ctx, "gh", args...)
}

// CheckAuth verifies that gh is installed and holds valid credentials.
func (c *CLI) CheckAuth(ctx context.Context) error {
	_, stderr, err := c.run(ctx, "auth", "status")
	if err != nil {
		if pkgexec.IsNotInstalled(err) {
			return gherrors.UserError{
				Message:    "GitHub CLI not found",
				Suggestion: "Install the GitHub CLI: https://cli.github.com/",
				Details:    "The gh command-line tool is required for all GitHub operations",
				Err:        err,
			}
		}
		return &AuthError{Stderr: strings.TrimSpace(string(stderr)), Err: err}
	}

	c.logger.Debug("gh authentication verified")
	return nil
}

// ResolveRepository determines the repository for the current working
// directory from its git remotes.
func (c *CLI) ResolveRepository(ctx context.Context) (Repository, error) {
	stdout, stderr, err := c.run(ctx, "repo", "view", "--json", "nameWithOwner", "-q", ".nameWithOwner")
	if err != nil {
		return Repository{}, &NoRepositoryError{Stderr: strings.TrimSpace(string(stderr)), Err: err}
	}

	repo, err := ParseRepository(string(stdout))
	if err != nil {
		return Repository{}, &NoRepositoryError{Err: err}
	}

	c.logger.Debug("Resolved repository %s", repo)
	return repo, nil
}

// Version returns the gh CLI version line, such as "gh version 2.40.0".
func (c *CLI) Version(ctx context.Context) (string, error) {
	stdout, stderr, err := c.run(ctx, "--version")
	if err != nil {
		return "", fmt.Errorf("gh --version failed: %s: %w", strings.TrimSpace(string(stderr)), err)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(stdout)), "\n")
	return strings.TrimSpace(line), nil
}
