package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gherrors "github.com/systmms/ghenv/internal/errors"
)

// VariableStore manages GitHub Actions repository variables. Unlike
// secrets, variable values are plain text and can be read back.
type VariableStore struct {
	cli *CLI
}

// NewVariableStore creates a variable store backed by the given gh runner.
func NewVariableStore(cli *CLI) *VariableStore {
	return &VariableStore{cli: cli}
}

// Name returns the store name.
func (v *VariableStore) Name() string {
	return "variables"
}

// Capability reports that variable values can be read back.
func (v *VariableStore) Capability() Capability {
	return ReadWrite
}

// variablesPage matches one page of the actions variables API response.
type variablesPage struct {
	TotalCount int              `json:"total_count"`
	Variables  []listedVariable `json:"variables"`
}

type listedVariable struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (lv listedVariable) entry() Entry {
	return Entry{
		Name:      lv.Name,
		Value:     lv.Value,
		HasValue:  true,
		CreatedAt: lv.CreatedAt,
		UpdatedAt: lv.UpdatedAt,
	}
}

// List returns all repository variables with their values. The gh
// secret-style list command drops values, so this goes through the REST
// endpoint instead. With --paginate gh concatenates one JSON object per
// page, so the output is decoded in a stream until EOF.
func (v *VariableStore) List(ctx context.Context, repo Repository) ([]Entry, error) {
	endpoint := fmt.Sprintf("repos/%s/actions/variables", repo)
	stdout, stderr, err := v.cli.run(ctx, "api", endpoint, "--paginate")
	if err != nil {
		return nil, &RemoteError{Store: "variables", Op: "list", Stderr: strings.TrimSpace(string(stderr)), Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(stdout))
	var entries []Entry
	for {
		var page variablesPage
		if err := dec.Decode(&page); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &RemoteError{Store: "variables", Op: "list", Err: fmt.Errorf("parsing gh output: %w", err)}
		}
		for _, lv := range page.Variables {
			entries = append(entries, lv.entry())
		}
	}
	return entries, nil
}

// GetValue fetches the plain-text value of one variable.
func (v *VariableStore) GetValue(ctx context.Context, repo Repository, name string) (string, error) {
	entry, err := v.Describe(ctx, repo, name)
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// Describe fetches a single variable with its timestamps.
func (v *VariableStore) Describe(ctx context.Context, repo Repository, name string) (Entry, error) {
	endpoint := fmt.Sprintf("repos/%s/actions/variables/%s", repo, name)
	stdout, stderr, err := v.cli.run(ctx, "api", endpoint)
	if err != nil {
		if stderrNotFound(string(stderr)) {
			return Entry{}, &NotFoundError{Store: "variables", Name: name}
		}
		return Entry{}, &RemoteError{Store: "variables", Op: "get", Name: name, Stderr: strings.TrimSpace(string(stderr)), Err: err}
	}

	var lv listedVariable
	if err := json.Unmarshal(stdout, &lv); err != nil {
		return Entry{}, &RemoteError{Store: "variables", Op: "get", Name: name, Err: fmt.Errorf("parsing gh output: %w", err)}
	}
	return lv.entry(), nil
}

// Set creates or updates a repository variable.
func (v *VariableStore) Set(ctx context.Context, repo Repository, name, value string) error {
	if !ValidName(name) {
		return gherrors.UserError{
			Message:    fmt.Sprintf("invalid variable name %q", name),
			Suggestion: "Names must start with a letter or underscore and contain only letters, digits and underscores",
		}
	}

	_, stderr, err := v.cli.runSensitive(ctx, []string{value}, "variable", "set", name, "--body", value, "--repo", repo.String())
	if err != nil {
		return &RemoteError{Store: "variables", Op: "set", Name: name, Stderr: strings.TrimSpace(string(stderr)), Err: err}
	}
	return nil
}

// Delete removes a repository variable. Missing variables are not an
// error.
func (v *VariableStore) Delete(ctx context.Context, repo Repository, name string) error {
	_, stderr, err := v.cli.run(ctx, "variable", "delete", name, "--repo", repo.String())
	if err != nil {
		if stderrNotFound(string(stderr)) {
			return nil
		}
		return &RemoteError{Store: "variables", Op: "delete", Name: name, Stderr: strings.TrimSpace(string(stderr)), Err: err}
	}
	return nil
}

// Exists reports whether a variable with the given name is present. The
// single-variable endpoint matches names case-insensitively, so one API
// call suffices.
func (v *VariableStore) Exists(ctx context.Context, repo Repository, name string) (bool, error) {
	_, err := v.Describe(ctx, repo, name)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
