// Package sync implements the get, set and testconf operations that
// move entries between a local dotenv file and a repository's remote
// store of GitHub Actions secrets or variables.
package sync

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/systmms/ghenv/internal/envfile"
	gherrors "github.com/systmms/ghenv/internal/errors"
	"github.com/systmms/ghenv/internal/github"
	"github.com/systmms/ghenv/internal/logging"
	"github.com/systmms/ghenv/internal/metrics"
	"github.com/systmms/ghenv/internal/secure"
)

// Platform is the part of the gh wrapper the engine needs besides the
// stores themselves: session checking and repository discovery.
type Platform interface {
	CheckAuth(ctx context.Context) error
	ResolveRepository(ctx context.Context) (github.Repository, error)
}

var _ Platform = (*github.CLI)(nil)

// ErrAborted is returned when the user declines a confirmation prompt.
var ErrAborted = errors.New("operation cancelled")

// DefaultPropagationDelay is how long testconf waits between writing
// the probe entry and verifying it, covering the platform's eventual
// consistency window.
const DefaultPropagationDelay = 3 * time.Second

// Options carries per-invocation settings shared by the operations.
type Options struct {
	// Repo overrides checkout discovery when non-zero.
	Repo github.Repository
	// Yes skips confirmation prompts.
	Yes bool
	// NonInteractive refuses to prompt instead of reading Input.
	NonInteractive bool
}

// Engine orchestrates the sync operations. Collaborators are explicit
// fields so every seam can be faked in tests. An Engine holds no state
// across operations; the remote store may be mutated by other actors
// between calls.
type Engine struct {
	Platform Platform
	Logger   *logging.Logger
	Metrics  *metrics.Recorder

	// Input supplies confirmation answers, os.Stdin by default.
	Input io.Reader
	// Prompt receives confirmation questions, os.Stderr by default.
	Prompt io.Writer
	// Delay is the testconf propagation wait.
	Delay time.Duration
	// Sleep, when set, replaces the context-aware wait. Tests use a
	// no-op to keep testconf instant.
	Sleep func(time.Duration)
	// Random sources probe name suffixes, crypto/rand by default.
	Random io.Reader
}

// NewEngine creates an engine with production defaults.
func NewEngine(platform Platform, logger *logging.Logger) *Engine {
	return &Engine{
		Platform: platform,
		Logger:   logger,
		Input:    os.Stdin,
		Prompt:   os.Stderr,
		Delay:    DefaultPropagationDelay,
	}
}

// GetResult reports what Get pulled from the remote store.
type GetResult struct {
	Repo       github.Repository
	Store      string
	Capability github.Capability
	Entries    int
	File       string
	Wrote      bool
	Merged     bool
}

// SetResult reports which entries Set pushed before finishing or
// stopping at the first failure.
type SetResult struct {
	Repo      github.Repository
	Store     string
	Skipped   []string // keys with empty values, never sent
	Succeeded []string
	Failed    string   // key whose write failed, empty on success
	Remaining []string // keys never attempted after the failure
}

// ListResult carries a remote listing for rendering.
type ListResult struct {
	Repo       github.Repository
	Store      string
	Capability github.Capability
	Entries    []github.Entry
}

// DescribeResult carries a single remote entry with metadata.
type DescribeResult struct {
	Repo  github.Repository
	Store string
	Entry github.Entry
}

// TestConfResult reports the self-test verdict.
type TestConfResult struct {
	Repo          github.Repository
	Store         string
	Probe         string
	Passed        bool
	CleanupFailed bool
}

// VerificationError reports a testconf probe that did not behave as a
// healthy configuration requires.
type VerificationError struct {
	Store  string
	Probe  string
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s self-test failed for probe %s: %s", e.Store, e.Probe, e.Reason)
}

// Get pulls the remote entries into file. Read-write stores yield real
// values; write-only stores yield a fill-in template, merged over an
// existing file so locally filled-in values survive. An empty remote
// result never overwrites an existing file.
func (e *Engine) Get(ctx context.Context, store github.Store, file string, opts Options) (result *GetResult, err error) {
	start := time.Now()
	defer func() { e.finish("get", store.Name(), start, err) }()

	repo, err := e.preflight(ctx, opts)
	if err != nil {
		return nil, err
	}

	entries, err := store.List(ctx, repo)
	if err != nil {
		return nil, err
	}

	result = &GetResult{
		Repo:       repo,
		Store:      store.Name(),
		Capability: store.Capability(),
		File:       file,
	}

	fileExists := true
	if _, statErr := os.Stat(file); statErr != nil {
		if !os.IsNotExist(statErr) {
			return nil, statErr
		}
		fileExists = false
	}

	if len(entries) == 0 {
		if fileExists {
			e.Logger.Debug("Remote store is empty, leaving %s untouched", file)
			return result, nil
		}
		if err := envfile.New().WriteFile(file); err != nil {
			return nil, err
		}
		result.Wrote = true
		return result, nil
	}

	remote := toRemoteEntries(entries)

	var doc *envfile.Document
	if fileExists && !store.Capability().CanReadValues() {
		doc, err = envfile.ParseFile(file)
		if err != nil {
			return nil, err
		}
		doc.MergeRemote(remote)
		result.Merged = true
	} else {
		doc = envfile.FromRemote(remote)
	}

	if err := doc.WriteFile(file); err != nil {
		return nil, err
	}

	result.Entries = len(entries)
	result.Wrote = true
	e.Metrics.EntriesSynced("get", store.Name(), len(entries))
	return result, nil
}

// Set pushes the entries of file to the remote store in document order.
// Empty values are skipped with a warning. Writes to a read-write store
// require confirmation first, since those values stay readable. The
// first failed write stops the batch; the result reports exactly which
// keys succeeded, which failed and which were never attempted.
func (e *Engine) Set(ctx context.Context, store github.Store, file string, opts Options) (result *SetResult, err error) {
	start := time.Now()
	defer func() { e.finish("set", store.Name(), start, err) }()

	repo, err := e.preflight(ctx, opts)
	if err != nil {
		return nil, err
	}

	doc, err := envfile.ParseFile(file)
	if err != nil {
		return nil, err
	}

	result = &SetResult{Repo: repo, Store: store.Name()}

	var pending []envfile.Entry
	for _, entry := range doc.Entries() {
		if entry.Value == "" {
			e.Logger.Warn("Skipping %s: empty value", entry.Key)
			result.Skipped = append(result.Skipped, entry.Key)
			continue
		}
		pending = append(pending, entry)
	}

	if len(pending) == 0 {
		return result, nil
	}

	if store.Capability().CanReadValues() {
		if err := e.confirmReadWriteSet(len(pending), repo, opts); err != nil {
			return result, err
		}
	}

	kind := entryKind(store)
	for i, entry := range pending {
		if err := e.writeEntry(ctx, store, repo, entry); err != nil {
			result.Failed = entry.Key
			for _, rest := range pending[i+1:] {
				result.Remaining = append(result.Remaining, rest.Key)
			}
			e.Metrics.EntriesSynced("set", store.Name(), len(result.Succeeded))
			return result, err
		}
		result.Succeeded = append(result.Succeeded, entry.Key)
		e.Logger.Info("Set %s %s", kind, entry.Key)
	}

	e.Metrics.EntriesSynced("set", store.Name(), len(result.Succeeded))
	return result, nil
}

// TestConf round-trips a probe entry through the store to verify the
// whole configuration: authentication, repository access, write,
// visibility and, for read-write stores, value fidelity. The probe is
// deleted best-effort whether verification passes or fails.
func (e *Engine) TestConf(ctx context.Context, store github.Store, opts Options) (result *TestConfResult, err error) {
	start := time.Now()
	defer func() { e.finish("testconf", store.Name(), start, err) }()

	repo, err := e.preflight(ctx, opts)
	if err != nil {
		return nil, err
	}
	e.Logger.Info("Authentication OK")
	e.Logger.Info("Repository: %s", repo)

	probe, err := newProbeName(e.Random)
	if err != nil {
		return nil, err
	}

	result = &TestConfResult{Repo: repo, Store: store.Name(), Probe: probe}
	kind := entryKind(store)

	if err := store.Set(ctx, repo, probe, probeValue); err != nil {
		return result, err
	}
	e.Logger.Info("Created test %s %s", kind, probe)

	defer func() {
		if delErr := store.Delete(ctx, repo, probe); delErr != nil {
			result.CleanupFailed = true
			e.Logger.Warn("Failed to delete test %s %s: %v", kind, probe, delErr)
			return
		}
		e.Logger.Info("Deleted test %s", kind)
	}()

	e.Logger.Debug("Waiting %s for the change to propagate", e.Delay)
	if err := e.wait(ctx, e.Delay); err != nil {
		return result, err
	}

	exists, err := store.Exists(ctx, repo, probe)
	if err != nil {
		return result, err
	}
	if !exists {
		return result, &VerificationError{
			Store:  store.Name(),
			Probe:  probe,
			Reason: "created entry not visible after wait",
		}
	}
	e.Logger.Info("Verified test %s exists", kind)

	if store.Capability().CanReadValues() {
		value, err := store.GetValue(ctx, repo, probe)
		if err != nil {
			return result, err
		}
		if value != probeValue {
			return result, &VerificationError{
				Store:  store.Name(),
				Probe:  probe,
				Reason: fmt.Sprintf("value mismatch: got %q", value),
			}
		}
		e.Logger.Info("Verified test %s value matches", kind)
	}

	result.Passed = true
	return result, nil
}

// List fetches the remote entries without touching the filesystem.
func (e *Engine) List(ctx context.Context, store github.Store, opts Options) (result *ListResult, err error) {
	start := time.Now()
	defer func() { e.finish("list", store.Name(), start, err) }()

	repo, err := e.preflight(ctx, opts)
	if err != nil {
		return nil, err
	}

	entries, err := store.List(ctx, repo)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Repo:       repo,
		Store:      store.Name(),
		Capability: store.Capability(),
		Entries:    entries,
	}, nil
}

// Describe fetches one entry with value and timestamps. Only stores
// whose values are readable can serve it.
func (e *Engine) Describe(ctx context.Context, store github.Store, name string, opts Options) (result *DescribeResult, err error) {
	start := time.Now()
	defer func() { e.finish("show", store.Name(), start, err) }()

	describer, ok := store.(github.Describer)
	if !ok || !store.Capability().CanReadValues() {
		return nil, &github.CapabilityError{Store: store.Name(), Op: "show"}
	}

	repo, err := e.preflight(ctx, opts)
	if err != nil {
		return nil, err
	}

	entry, err := describer.Describe(ctx, repo, name)
	if err != nil {
		return nil, err
	}

	return &DescribeResult{Repo: repo, Store: store.Name(), Entry: entry}, nil
}

// preflight verifies authentication and determines the repository, in
// that order, so every operation fails the same way on a dead session.
func (e *Engine) preflight(ctx context.Context, opts Options) (github.Repository, error) {
	if err := e.Platform.CheckAuth(ctx); err != nil {
		return github.Repository{}, err
	}
	if !opts.Repo.IsZero() {
		e.Logger.Debug("Using repository override %s", opts.Repo)
		return opts.Repo, nil
	}
	return e.Platform.ResolveRepository(ctx)
}

// confirmReadWriteSet gates writes to a store whose values remain
// readable after the write. The prompt defaults to no.
func (e *Engine) confirmReadWriteSet(count int, repo github.Repository, opts Options) error {
	if opts.Yes {
		return nil
	}
	if opts.NonInteractive {
		return gherrors.UserError{
			Message:    "confirmation required to write readable variables",
			Suggestion: "Pass --yes to confirm writing values to the variables store",
			Details:    "Variable values are retrievable via the API and may be visible to repository collaborators",
		}
	}

	fmt.Fprintln(e.Prompt, "⚠️  WARNING: Variable values are retrievable via API and may be visible to repository collaborators!")
	fmt.Fprintf(e.Prompt, "Set %d variables in %s? [y/N]: ", count, repo)

	answer, _ := bufio.NewReader(e.Input).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "y" || answer == "yes" {
		return nil
	}
	return ErrAborted
}

// writeEntry stages the value in locked memory for the hand-off to gh.
func (e *Engine) writeEntry(ctx context.Context, store github.Store, repo github.Repository, entry envfile.Entry) error {
	buf, err := secure.NewSecureBufferFromString(entry.Value)
	if err != nil {
		return err
	}
	defer buf.Destroy()

	return buf.Reveal(func(value string) error {
		return store.Set(ctx, repo, entry.Key, value)
	})
}

// wait blocks for d honoring context cancellation.
func (e *Engine) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if e.Sleep != nil {
		e.Sleep(d)
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// finish records operation metrics with the final outcome.
func (e *Engine) finish(op, store string, start time.Time, err error) {
	e.Metrics.ObserveDuration(op, store, time.Since(start))
	if err != nil {
		e.Metrics.OperationFailed(op, store)
		return
	}
	e.Metrics.OperationSucceeded(op, store)
}

// entryKind returns the singular noun for log lines.
func entryKind(store github.Store) string {
	return strings.TrimSuffix(store.Name(), "s")
}

func toRemoteEntries(entries []github.Entry) []envfile.RemoteEntry {
	remote := make([]envfile.RemoteEntry, 0, len(entries))
	for _, entry := range entries {
		remote = append(remote, envfile.RemoteEntry{
			Name:     entry.Name,
			Value:    entry.Value,
			HasValue: entry.HasValue,
		})
	}
	return remote
}
