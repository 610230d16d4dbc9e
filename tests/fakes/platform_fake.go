package fakes

import (
	"context"
	"strings"
	"sync"

	"github.com/systmms/ghenv/internal/github"
)

// FakePlatform is a test double for the engine's platform seam: gh
// authentication and repository discovery.
type FakePlatform struct {
	mu        sync.Mutex
	repo      github.Repository
	authErr   error
	repoErr   error
	authCalls int
	repoCalls int
}

// NewFakePlatform creates a platform resolving to the given "owner/name"
// repository with valid authentication.
func NewFakePlatform(repo string) *FakePlatform {
	owner, name, _ := strings.Cut(repo, "/")
	return &FakePlatform{repo: github.Repository{Owner: owner, Name: name}}
}

// WithAuthError makes CheckAuth fail.
func (f *FakePlatform) WithAuthError(err error) *FakePlatform {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authErr = err
	return f
}

// WithRepoError makes ResolveRepository fail.
func (f *FakePlatform) WithRepoError(err error) *FakePlatform {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.repoErr = err
	return f
}

// CheckAuth returns the configured authentication result.
func (f *FakePlatform) CheckAuth(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authCalls++
	return f.authErr
}

// ResolveRepository returns the configured repository.
func (f *FakePlatform) ResolveRepository(ctx context.Context) (github.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.repoCalls++
	if f.repoErr != nil {
		return github.Repository{}, f.repoErr
	}
	return f.repo, nil
}

// AuthCalls returns how many times CheckAuth ran.
func (f *FakePlatform) AuthCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.authCalls
}

// RepoCalls returns how many times ResolveRepository ran.
func (f *FakePlatform) RepoCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.repoCalls
}
