package fakes

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/systmms/ghenv/internal/github"
)

// FakeStore is a manual in-memory fake of the github.Store interface.
//
// It mimics the observable behavior of the gh-backed stores: names are
// upper-cased on write the way GitHub canonicalizes them, write-only
// stores never return values, deleting a missing entry succeeds, and
// invalid names are rejected without touching the store. Behavior can
// be overridden per operation to simulate failures.
//
// Example usage:
//
//	store := fakes.NewFakeStore("secrets", github.WriteOnly).
//	    WithEntry("API_KEY", "abc123").
//	    WithError("set:DB_URL", errors.New("HTTP 403"))
type FakeStore struct {
	name       string
	capability github.Capability

	mu      sync.RWMutex
	entries map[string]github.Entry // canonical (upper-cased) name -> entry
	order   []string                // canonical names in insertion order

	failOn    map[string]error // "op" or "op:NAME" -> error
	setCalls  []string         // "NAME=VALUE" in write order
	deleted   []string
	callCount map[string]int
}

// NewFakeStore creates an empty fake store with the given name and
// capability tag.
func NewFakeStore(name string, capability github.Capability) *FakeStore {
	return &FakeStore{
		name:       name,
		capability: capability,
		entries:    make(map[string]github.Entry),
		failOn:     make(map[string]error),
		callCount:  make(map[string]int),
	}
}

// WithEntry seeds an entry. Fluent, for test setup.
func (f *FakeStore) WithEntry(name, value string) *FakeStore {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.put(name, value)
	return f
}

// WithError configures an operation to fail. Keys are either an
// operation name ("list") or operation plus entry name ("set:API_KEY").
func (f *FakeStore) WithError(key string, err error) *FakeStore {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failOn[key] = err
	return f
}

// put stores an entry under its canonical name, preserving first
// insertion order like the env document does.
func (f *FakeStore) put(name, value string) {
	canonical := strings.ToUpper(name)
	if _, ok := f.entries[canonical]; !ok {
		f.order = append(f.order, canonical)
	}
	now := time.Now().UTC()
	f.entries[canonical] = github.Entry{
		Name:      canonical,
		Value:     value,
		HasValue:  f.capability.CanReadValues(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (f *FakeStore) fail(op, name string) error {
	if err, ok := f.failOn[op+":"+name]; ok {
		return err
	}
	if err, ok := f.failOn[op]; ok {
		return err
	}
	return nil
}

// Name returns the store name.
func (f *FakeStore) Name() string {
	return f.name
}

// Capability returns the configured capability tag.
func (f *FakeStore) Capability() github.Capability {
	return f.capability
}

// List returns the seeded and written entries in insertion order.
// Write-only stores return names and timestamps without values.
func (f *FakeStore) List(ctx context.Context, repo github.Repository) ([]github.Entry, error) {
	f.trackCall("List")
	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := f.fail("list", ""); err != nil {
		return nil, err
	}

	entries := make([]github.Entry, 0, len(f.order))
	for _, canonical := range f.order {
		entry := f.entries[canonical]
		if !f.capability.CanReadValues() {
			entry.Value = ""
			entry.HasValue = false
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetValue returns a seeded value, or CapabilityError for write-only
// stores, matching the real secret store's local refusal.
func (f *FakeStore) GetValue(ctx context.Context, repo github.Repository, name string) (string, error) {
	f.trackCall("GetValue")

	if !f.capability.CanReadValues() {
		return "", &github.CapabilityError{Store: f.name, Op: "get"}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := f.fail("get", name); err != nil {
		return "", err
	}

	entry, ok := f.entries[strings.ToUpper(name)]
	if !ok {
		return "", &github.NotFoundError{Store: f.name, Name: name}
	}
	return entry.Value, nil
}

// Describe returns the full entry for read-write stores.
func (f *FakeStore) Describe(ctx context.Context, repo github.Repository, name string) (github.Entry, error) {
	f.trackCall("Describe")

	if !f.capability.CanReadValues() {
		return github.Entry{}, &github.CapabilityError{Store: f.name, Op: "describe"}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := f.fail("get", name); err != nil {
		return github.Entry{}, err
	}

	entry, ok := f.entries[strings.ToUpper(name)]
	if !ok {
		return github.Entry{}, &github.NotFoundError{Store: f.name, Name: name}
	}
	return entry, nil
}

// Set stores an entry under its upper-cased name.
func (f *FakeStore) Set(ctx context.Context, repo github.Repository, name, value string) error {
	f.trackCall("Set")

	if !github.ValidName(name) {
		return fmt.Errorf("invalid %s name %q", f.name, name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("set", name); err != nil {
		return err
	}

	f.put(name, value)
	f.setCalls = append(f.setCalls, name+"="+value)
	return nil
}

// Delete removes an entry; deleting a missing entry succeeds.
func (f *FakeStore) Delete(ctx context.Context, repo github.Repository, name string) error {
	f.trackCall("Delete")

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("delete", name); err != nil {
		return err
	}

	canonical := strings.ToUpper(name)
	if _, ok := f.entries[canonical]; ok {
		delete(f.entries, canonical)
		for i, n := range f.order {
			if n == canonical {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
	}
	f.deleted = append(f.deleted, canonical)
	return nil
}

// Exists reports membership case-insensitively.
func (f *FakeStore) Exists(ctx context.Context, repo github.Repository, name string) (bool, error) {
	f.trackCall("Exists")

	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := f.fail("exists", name); err != nil {
		return false, err
	}

	_, ok := f.entries[strings.ToUpper(name)]
	return ok, nil
}

// Has reports whether an entry is currently stored, for test assertions
// outside the Store interface.
func (f *FakeStore) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, ok := f.entries[strings.ToUpper(name)]
	return ok
}

// Value returns the stored value for assertions, empty when absent.
func (f *FakeStore) Value(name string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.entries[strings.ToUpper(name)].Value
}

// SetCalls returns every successful write as "NAME=VALUE" in order.
func (f *FakeStore) SetCalls() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return append([]string(nil), f.setCalls...)
}

// Deleted returns the canonical names passed to Delete in order.
func (f *FakeStore) Deleted() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return append([]string(nil), f.deleted...)
}

// CallCount returns the number of times a method was called.
func (f *FakeStore) CallCount(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.callCount[method]
}

// trackCall increments the call counter for a method.
func (f *FakeStore) trackCall(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.callCount[method]++
}

// String returns a short description for test failure output.
func (f *FakeStore) String() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return fmt.Sprintf("FakeStore{name=%s, capability=%s, entries=%d}", f.name, f.capability, len(f.entries))
}
