// Package testutil provides testing utilities for ghenv.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MockCommandExecutor provides a configurable mock for testing code that
// shells out to the gh CLI. It satisfies pkg/exec.CommandExecutor.
type MockCommandExecutor struct {
	mu sync.Mutex

	// Responses maps command patterns to their mock responses.
	// Key format: "command arg1 arg2" (space-separated command and args)
	Responses map[string]MockResponse

	// DefaultResponse is used when no matching pattern is found.
	DefaultResponse *MockResponse

	// RecordedCalls stores all calls made to Execute for verification.
	RecordedCalls []RecordedCall

	// StrictMode causes Execute to fail if no matching response is found.
	StrictMode bool
}

// MockResponse defines the expected output for a mocked command.
type MockResponse struct {
	Stdout   []byte
	Stderr   []byte
	Err      error
	ExitCode int // Used to simulate exit codes when Err is nil
}

// RecordedCall stores information about a command execution.
type RecordedCall struct {
	Command string
	Args    []string
	Context context.Context
}

// NewMockCommandExecutor creates a new mock executor with empty responses.
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		Responses:     make(map[string]MockResponse),
		RecordedCalls: make([]RecordedCall, 0),
	}
}

// Execute returns the mocked response for the given command.
func (m *MockCommandExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Record the call
	m.RecordedCalls = append(m.RecordedCalls, RecordedCall{
		Command: name,
		Args:    args,
		Context: ctx,
	})

	// Build the command key for lookup
	key := m.buildKey(name, args)

	// Try exact match first
	if resp, ok := m.Responses[key]; ok {
		return resp.Stdout, resp.Stderr, resp.Err
	}

	// Try partial/prefix matching for flexibility
	for pattern, resp := range m.Responses {
		if m.matchesPattern(key, pattern) {
			return resp.Stdout, resp.Stderr, resp.Err
		}
	}

	// Use default response if available
	if m.DefaultResponse != nil {
		return m.DefaultResponse.Stdout, m.DefaultResponse.Stderr, m.DefaultResponse.Err
	}

	// Strict mode fails on unknown commands
	if m.StrictMode {
		return nil, nil, fmt.Errorf("mock: no response configured for command: %s", key)
	}

	// Non-strict mode returns empty success
	return []byte{}, []byte{}, nil
}

// buildKey creates a lookup key from command and arguments.
func (m *MockCommandExecutor) buildKey(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// matchesPattern checks if the command key matches a pattern.
// Supports simple prefix matching for flexible response configuration.
func (m *MockCommandExecutor) matchesPattern(key, pattern string) bool {
	// Support wildcard patterns with "*"
	if strings.Contains(pattern, "*") {
		// Replace * with .* for prefix matching
		pattern = strings.ReplaceAll(pattern, "*", ".*")
		return strings.HasPrefix(key, strings.Split(pattern, ".*")[0])
	}

	// Check if key starts with pattern (allows additional args)
	return strings.HasPrefix(key, pattern)
}

// AddResponse registers a mock response for a specific command pattern.
func (m *MockCommandExecutor) AddResponse(commandPattern string, response MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[commandPattern] = response
}

// AddJSONResponse is a convenience method to add a JSON response.
func (m *MockCommandExecutor) AddJSONResponse(commandPattern string, jsonData string) {
	m.AddResponse(commandPattern, MockResponse{
		Stdout: []byte(jsonData),
		Stderr: []byte{},
		Err:    nil,
	})
}

// AddErrorResponse adds an error response for a command pattern.
func (m *MockCommandExecutor) AddErrorResponse(commandPattern string, errMsg string, exitCode int) {
	m.AddResponse(commandPattern, MockResponse{
		Stdout:   []byte{},
		Stderr:   []byte(errMsg),
		Err:      fmt.Errorf("exit status %d: %s", exitCode, errMsg),
		ExitCode: exitCode,
	})
}

// GetCalls returns all recorded calls matching the given command name.
func (m *MockCommandExecutor) GetCalls(commandName string) []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []RecordedCall
	for _, call := range m.RecordedCalls {
		if call.Command == commandName {
			matches = append(matches, call)
		}
	}
	return matches
}

// CallCount returns the number of times Execute was called.
func (m *MockCommandExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.RecordedCalls)
}

// CallKeys returns the lookup keys of all recorded calls in order, which
// makes it easy to assert the exact gh command lines a test produced.
func (m *MockCommandExecutor) CallKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.RecordedCalls))
	for _, call := range m.RecordedCalls {
		keys = append(keys, m.buildKey(call.Command, call.Args))
	}
	return keys
}

// Reset clears all recorded calls and responses.
func (m *MockCommandExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses = make(map[string]MockResponse)
	m.RecordedCalls = make([]RecordedCall, 0)
	m.DefaultResponse = nil
}

// AssertCalled verifies that a specific command was called at least once.
func (m *MockCommandExecutor) AssertCalled(t interface{ Error(args ...interface{}) }, commandName string) bool {
	calls := m.GetCalls(commandName)
	if len(calls) == 0 {
		t.Error("expected command", commandName, "to be called, but it was not")
		return false
	}
	return true
}

// AssertNotCalled verifies that a specific command was never called.
func (m *MockCommandExecutor) AssertNotCalled(t interface{ Error(args ...interface{}) }, commandName string) bool {
	calls := m.GetCalls(commandName)
	if len(calls) > 0 {
		t.Error("expected command", commandName, "to not be called, but it was called", len(calls), "times")
		return false
	}
	return true
}

// AssertCallCount verifies the exact number of times a command was called.
func (m *MockCommandExecutor) AssertCallCount(t interface{ Error(args ...interface{}) }, commandName string, expected int) bool {
	calls := m.GetCalls(commandName)
	if len(calls) != expected {
		t.Error("expected command", commandName, "to be called", expected, "times, but was called", len(calls), "times")
		return false
	}
	return true
}

// GHMockResponses provides pre-configured responses for the gh CLI.
type GHMockResponses struct{}

// AuthStatusOK returns a mock response for an authenticated gh.
func (GHMockResponses) AuthStatusOK() MockResponse {
	return MockResponse{
		Stdout: []byte("github.com\n  ✓ Logged in to github.com account octocat (keyring)\n  ✓ Git operations protocol: https\n  ✓ Token scopes: 'gist', 'read:org', 'repo'\n"),
		Err:    nil,
	}
}

// AuthStatusLoggedOut returns a mock response for an unauthenticated gh.
func (GHMockResponses) AuthStatusLoggedOut() MockResponse {
	return MockResponse{
		Stderr: []byte("You are not logged into any GitHub hosts. To get started with GitHub CLI, please run:  gh auth login\n"),
		Err:    fmt.Errorf("exit status 1"),
	}
}

// Version returns a mock gh --version response.
func (GHMockResponses) Version() MockResponse {
	return MockResponse{
		Stdout: []byte("gh version 2.40.0 (2023-12-13)\nhttps://github.com/cli/cli/releases/tag/v2.40.0\n"),
		Err:    nil,
	}
}

// RepoView returns a mock response resolving to the given owner/name.
func (GHMockResponses) RepoView(nameWithOwner string) MockResponse {
	return MockResponse{
		Stdout: []byte(nameWithOwner + "\n"),
		Err:    nil,
	}
}

// RepoViewNoRepository returns a mock response for a directory with no
// usable git remote.
func (GHMockResponses) RepoViewNoRepository() MockResponse {
	return MockResponse{
		Stderr: []byte("failed to run git: fatal: not a git repository (or any of the parent directories): .git\n"),
		Err:    fmt.Errorf("exit status 1"),
	}
}

// SecretList returns a mock gh secret list --json response containing
// the given secret names.
func (GHMockResponses) SecretList(names ...string) MockResponse {
	type item struct {
		Name      string `json:"name"`
		UpdatedAt string `json:"updatedAt"`
	}
	items := make([]item, 0, len(names))
	for _, n := range names {
		items = append(items, item{Name: n, UpdatedAt: "2024-06-01T12:00:00Z"})
	}
	data, _ := json.Marshal(items)
	return MockResponse{Stdout: data, Err: nil}
}

// VariablePage returns one page of the actions variables API. Items are
// given as "NAME=value" pairs.
func (GHMockResponses) VariablePage(items ...string) MockResponse {
	type variable struct {
		Name      string `json:"name"`
		Value     string `json:"value"`
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
	}
	page := struct {
		TotalCount int        `json:"total_count"`
		Variables  []variable `json:"variables"`
	}{TotalCount: len(items)}
	for _, item := range items {
		name, value, _ := strings.Cut(item, "=")
		page.Variables = append(page.Variables, variable{
			Name:      name,
			Value:     value,
			CreatedAt: "2024-06-01T12:00:00Z",
			UpdatedAt: "2024-06-01T12:00:00Z",
		})
	}
	data, _ := json.Marshal(page)
	return MockResponse{Stdout: data, Err: nil}
}

// Variable returns a single variable from the actions variables API.
func (GHMockResponses) Variable(name, value string) MockResponse {
	data, _ := json.Marshal(struct {
		Name      string `json:"name"`
		Value     string `json:"value"`
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
	}{name, value, "2024-06-01T12:00:00Z", "2024-06-02T09:30:00Z"})
	return MockResponse{Stdout: data, Err: nil}
}

// NotFound returns a gh api HTTP 404 failure.
func (GHMockResponses) NotFound() MockResponse {
	return MockResponse{
		Stderr: []byte("gh: Not Found (HTTP 404)\n"),
		Err:    fmt.Errorf("exit status 1"),
	}
}

// Forbidden returns a gh api HTTP 403 failure.
func (GHMockResponses) Forbidden() MockResponse {
	return MockResponse{
		Stderr: []byte("gh: Resource not accessible by integration (HTTP 403)\n"),
		Err:    fmt.Errorf("exit status 1"),
	}
}

// OK returns an empty successful response, as produced by gh secret set
// and gh variable set.
func (GHMockResponses) OK() MockResponse {
	return MockResponse{Stdout: []byte{}, Stderr: []byte{}, Err: nil}
}
