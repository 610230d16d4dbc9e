// Package github drives the gh CLI to manage GitHub Actions secrets and
// variables for a repository. All network access goes through gh; this
// package never talks to the GitHub API directly.
package github

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Capability describes how much of a stored entry the GitHub API exposes.
type Capability int

const (
	// WriteOnly entries accept new values but never reveal stored ones.
	// Repository secrets behave this way.
	WriteOnly Capability = iota
	// ReadWrite entries can be written and read back in plain text.
	// Repository variables behave this way.
	ReadWrite
)

func (c Capability) String() string {
	switch c {
	case WriteOnly:
		return "write-only"
	case ReadWrite:
		return "read-write"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// CanReadValues reports whether stored values can be fetched back.
func (c Capability) CanReadValues() bool {
	return c == ReadWrite
}

// Repository identifies a GitHub repository by owner and name.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses an "owner/name" string.
func ParseRepository(s string) (Repository, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repository{}, fmt.Errorf("invalid repository %q: expected owner/name", s)
	}
	return Repository{Owner: parts[0], Name: parts[1]}, nil
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// IsZero reports whether the repository has not been resolved yet.
func (r Repository) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}

// Entry is one named item in a remote store. Value is only meaningful
// when HasValue is true; write-only stores never populate it.
type Entry struct {
	Name      string
	Value     string
	HasValue  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the common surface of the repository-level stores. The
// repository is passed explicitly on every call; stores hold no
// repository state of their own.
type Store interface {
	// Name identifies the store in messages and errors ("secrets" or
	// "variables").
	Name() string

	// Capability reports whether stored values can be read back.
	Capability() Capability

	// List returns all entries in the store. For write-only stores the
	// entries carry names and timestamps but no values.
	List(ctx context.Context, repo Repository) ([]Entry, error)

	// GetValue fetches the plain-text value of one entry. Write-only
	// stores return a CapabilityError without contacting GitHub.
	GetValue(ctx context.Context, repo Repository, name string) (string, error)

	// Set creates or updates an entry.
	Set(ctx context.Context, repo Repository, name, value string) error

	// Delete removes an entry. Deleting an entry that does not exist is
	// not an error.
	Delete(ctx context.Context, repo Repository, name string) error

	// Exists reports whether an entry with the given name is present.
	// Matching is case-insensitive because GitHub uppercases names.
	Exists(ctx context.Context, repo Repository, name string) (bool, error)
}

// Describer is implemented by stores that can report full metadata for
// a single entry without listing everything.
type Describer interface {
	Describe(ctx context.Context, repo Repository, name string) (Entry, error)
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports whether name is acceptable to the GitHub API:
// letters, digits and underscores, not starting with a digit.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}
