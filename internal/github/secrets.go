package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gherrors "github.com/systmms/ghenv/internal/errors"
)

// SecretStore manages GitHub Actions repository secrets. Secret values
// are write-only: GitHub encrypts them on receipt and the API never
// returns them, so List yields names and timestamps only.
type SecretStore struct {
	cli *CLI
}

// NewSecretStore creates a secret store backed by the given gh runner.
func NewSecretStore(cli *CLI) *SecretStore {
	return &SecretStore{cli: cli}
}

// Name returns the store name.
func (s *SecretStore) Name() string {
	return "secrets"
}

// Capability reports that secret values cannot be read back.
func (s *SecretStore) Capability() Capability {
	return WriteOnly
}

// listedSecret matches one element of gh secret list --json output.
type listedSecret struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// List returns the names and update times of all repository secrets.
func (s *SecretStore) List(ctx context.Context, repo Repository) ([]Entry, error) {
	stdout, stderr, err := s.cli.run(ctx, "secret", "list", "--repo", repo.String(), "--json", "name,updatedAt")
	if err != nil {
		return nil, &RemoteError{Store: "secrets", Op: "list", Stderr: strings.TrimSpace(string(stderr)), Err: err}
	}

	var listed []listedSecret
	if err := json.Unmarshal(stdout, &listed); err != nil {
		return nil, &RemoteError{Store: "secrets", Op: "list", Err: fmt.Errorf("parsing gh output: %w", err)}
	}

	entries := make([]Entry, 0, len(listed))
	for _, item := range listed {
		entries = append(entries, Entry{Name: item.Name, UpdatedAt: item.UpdatedAt})
	}
	return entries, nil
}

// GetValue always fails: the GitHub API does not expose secret values.
// No subprocess is run.
func (s *SecretStore) GetValue(ctx context.Context, repo Repository, name string) (string, error) {
	return "", &CapabilityError{Store: "secrets", Op: "get"}
}

// Set creates or updates a repository secret.
func (s *SecretStore) Set(ctx context.Context, repo Repository, name, value string) error {
	if !ValidName(name) {
		return gherrors.UserError{
			Message:    fmt.Sprintf("invalid secret name %q", name),
			Suggestion: "Names must start with a letter or underscore and contain only letters, digits and underscores",
		}
	}

	_, stderr, err := s.cli.runSensitive(ctx, []string{value}, "secret", "set", name, "--body", value, "--repo", repo.String())
	if err != nil {
		return &RemoteError{Store: "secrets", Op: "set", Name: name, Stderr: strings.TrimSpace(string(stderr)), Err: err}
	}
	return nil
}

// Delete removes a repository secret. Missing secrets are not an error.
func (s *SecretStore) Delete(ctx context.Context, repo Repository, name string) error {
	_, stderr, err := s.cli.run(ctx, "secret", "delete", name, "--repo", repo.String())
	if err != nil {
		if stderrNotFound(string(stderr)) {
			return nil
		}
		return &RemoteError{Store: "secrets", Op: "delete", Name: name, Stderr: strings.TrimSpace(string(stderr)), Err: err}
	}
	return nil
}

// Exists reports whether a secret with the given name is present.
// GitHub stores secret names uppercased, so the match is
// case-insensitive.
func (s *SecretStore) Exists(ctx context.Context, repo Repository, name string) (bool, error) {
	entries, err := s.List(ctx, repo)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) {
			return true, nil
		}
	}
	return false, nil
}
