// Package envfile parses and serializes dotenv files. Documents keep
// their entries in insertion order so a synced file diffs cleanly
// against the version it replaced.
package envfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// keyPattern is the allowed entry name syntax: letters, digits, and
// underscore, not starting with a digit. It matches what GitHub accepts
// for secret and variable names, so keys round-trip unchanged.
var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidKey reports whether key is a legal dotenv entry name.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Entry is a single KEY=VALUE pair.
type Entry struct {
	Key   string
	Value string
}

// RemoteEntry is the slice of a remote store entry the file format cares
// about: a name and an optional value. HasValue is false for stores that
// cannot read values back.
type RemoteEntry struct {
	Name     string
	Value    string
	HasValue bool
}

// Document is an ordered collection of entries parsed from or destined
// for a dotenv file. Keys are unique; setting an existing key updates it
// in place without changing its position.
type Document struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty document.
func New() *Document {
	return &Document{index: make(map[string]int)}
}

// Parse reads dotenv text into a document. Blank lines and lines whose
// first non-whitespace character is '#' are ignored. Every other line
// must contain '='; the first one splits key from value and the value
// may contain further '=' characters. Whitespace around key and value is
// trimmed, and a matched pair of quotes enclosing the whole value is
// stripped. Duplicate keys keep their first position with the last value
// winning.
func Parse(text string) (*Document, error) {
	doc := New()

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		eq := strings.Index(line, "=")
		if eq < 0 {
			return nil, &ParseError{Line: i + 1, Text: line, Reason: "missing '='"}
		}

		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])

		if key == "" {
			return nil, &ParseError{Line: i + 1, Text: line, Reason: "empty key"}
		}
		if !ValidKey(key) {
			return nil, &ParseError{Line: i + 1, Text: line, Reason: fmt.Sprintf("invalid key %q", key)}
		}

		doc.Set(key, unquote(value))
	}

	return doc, nil
}

// ParseFile reads and parses the dotenv file at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, err
	}

	doc, err := Parse(string(data))
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = path
		}
		return nil, err
	}
	return doc, nil
}

// FromRemote builds a document from remote store entries. Entries whose
// value is unavailable yield blank placeholders, producing a fill-in
// template rather than a live export.
func FromRemote(entries []RemoteEntry) *Document {
	doc := New()
	for _, e := range entries {
		if e.HasValue {
			doc.Set(e.Name, e.Value)
		} else {
			doc.Set(e.Name, "")
		}
	}
	return doc
}

// Entries returns the document's entries in insertion order.
func (d *Document) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of entries.
func (d *Document) Len() int {
	return len(d.entries)
}

// Get returns the value for key and whether the key is present.
func (d *Document) Get(key string) (string, bool) {
	i, ok := d.index[key]
	if !ok {
		return "", false
	}
	return d.entries[i].Value, true
}

// Set adds key with value, or updates it in place if already present.
func (d *Document) Set(key, value string) {
	if i, ok := d.index[key]; ok {
		d.entries[i].Value = value
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Key: key, Value: value})
}

// MergeRemote overlays remote entries onto the document. Entries with
// readable values overwrite local ones; valueless entries become blank
// placeholders only when the key is absent, preserving values the user
// already filled in locally.
func (d *Document) MergeRemote(entries []RemoteEntry) {
	for _, e := range entries {
		if e.HasValue {
			d.Set(e.Name, e.Value)
			continue
		}
		if _, ok := d.Get(e.Name); !ok {
			d.Set(e.Name, "")
		}
	}
}

// Serialize renders the document as dotenv text, one KEY=VALUE line per
// entry in insertion order, each line newline-terminated. Values
// containing whitespace or '#' are wrapped in double quotes.
func (d *Document) Serialize() string {
	var b strings.Builder
	for _, e := range d.entries {
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(quoteIfNeeded(e.Value))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteFile atomically writes the serialized document to path. The text
// lands in a temporary file in the same directory first and is renamed
// over the target, so an interrupted run never leaves a truncated file.
func (d *Document) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(d.Serialize()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if first == last && (first == '"' || first == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

func quoteIfNeeded(v string) string {
	if strings.ContainsAny(v, " \t#") {
		return `"` + v + `"`
	}
	return v
}

// ParseError reports a malformed line in a dotenv file.
type ParseError struct {
	File   string
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.File != "" {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	return fmt.Sprintf("invalid env entry at %s (%s): %q", loc, e.Reason, e.Text)
}

// FileNotFoundError reports a missing input file.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file %s not found", e.Path)
}
