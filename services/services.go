/*
Package services holds the table mapping service identifiers (e.g. "cosmos") to the display names used to label
CI pipeline configuration (e.g. "CosmosDB").

The table is generated from the upstream service definitions and embedded into the binary as services.kt. It is
parsed once on first use and never modified afterwards, so it can be shared freely between goroutines.
*/
package services

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/daedaleanai/svcnames/diagnostics"
	"github.com/pkg/errors"
)

//go:embed services.kt
var embeddedSource []byte

// The path reported in diagnostics about the embedded table
const EmbeddedPath = "services.kt"

// EmbeddedSource returns a copy of the table source embedded in the binary
func EmbeddedSource() []byte {
	return append([]byte(nil), embeddedSource...)
}

// Service identifiers are lowercase alphanumeric tokens, as used by the upstream service catalog
var reKey = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// Entry is a single service identifier together with its display name.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	DisplayName string `json:"displayName" yaml:"displayName"`
}

// Table is an immutable, ordered mapping from service identifiers to display names.
type Table struct {
	// entries in the order they were defined
	entries []Entry
	// index into entries by key
	byKey map[string]int
}

// NotFoundError is returned by Lookup when the requested key is not in the table.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no display name registered for service `%s`", e.Key)
}

// IsNotFound returns true if err, or any error it wraps, is a *NotFoundError
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table generated from the service definitions. It is parsed from the embedded source the first
// time it is requested. The embedded source is checked by the tests, so a failure here is a build defect and panics.
func Default() *Table {
	defaultOnce.Do(func() {
		table, issues, err := Parse(bytes.NewReader(embeddedSource), EmbeddedPath)
		if err != nil {
			panic(errors.Wrap(err, "embedded service table"))
		}
		if diagnostics.HasMajor(issues) {
			panic(fmt.Sprintf("embedded service table is invalid: %s", issues[0]))
		}
		defaultTable = table
	})
	return defaultTable
}

// New builds a table from the given entries, keeping their order. All invariant violations are reported as issues
// and, if any of them is major, no table is returned.
func New(entries []Entry) (*Table, []diagnostics.Issue) {
	issues := checkEntries(entries, "", nil)
	if diagnostics.HasMajor(issues) {
		return nil, issues
	}
	return newTable(entries), issues
}

// newTable builds the table without checking the entries.
func newTable(entries []Entry) *Table {
	t := &Table{
		entries: make([]Entry, len(entries)),
		byKey:   make(map[string]int, len(entries)),
	}
	copy(t.entries, entries)
	for i, e := range t.entries {
		t.byKey[e.Key] = i
	}
	return t
}

// checkEntries validates keys and display names. lines, when not nil, holds the source line of each entry.
func checkEntries(entries []Entry, path string, lines []int) []diagnostics.Issue {
	var issues []diagnostics.Issue
	lineOf := func(i int) int {
		if lines == nil {
			return 0
		}
		return lines[i]
	}

	seenKeys := make(map[string]int)
	seenNames := make(map[string]string)
	for i, e := range entries {
		if !reKey.MatchString(e.Key) {
			issues = append(issues, diagnostics.Issue{
				Path:        path,
				Line:        lineOf(i),
				Description: fmt.Sprintf("Invalid service key `%s`: must be a lowercase alphanumeric identifier.", e.Key),
				Severity:    diagnostics.IssueSeverityMajor,
				Type:        diagnostics.IssueTypeInvalidKey,
			})
		}
		if prev, ok := seenKeys[e.Key]; ok {
			description := fmt.Sprintf("Duplicate service key `%s`.", e.Key)
			if lines != nil {
				description = fmt.Sprintf("Duplicate service key `%s`, first defined on line %d.", e.Key, lines[prev])
			}
			issues = append(issues, diagnostics.Issue{
				Path:        path,
				Line:        lineOf(i),
				Description: description,
				Severity:    diagnostics.IssueSeverityMajor,
				Type:        diagnostics.IssueTypeDuplicateKey,
			})
		} else {
			seenKeys[e.Key] = i
		}
		if strings.TrimSpace(e.DisplayName) == "" {
			issues = append(issues, diagnostics.Issue{
				Path:        path,
				Line:        lineOf(i),
				Description: fmt.Sprintf("Service `%s` has an empty display name.", e.Key),
				Severity:    diagnostics.IssueSeverityMajor,
				Type:        diagnostics.IssueTypeEmptyDisplayName,
			})
			continue
		}
		// Display names may collide, but it is most likely a copy & paste mistake
		if other, ok := seenNames[e.DisplayName]; ok && other != e.Key {
			issues = append(issues, diagnostics.Issue{
				Path:        path,
				Line:        lineOf(i),
				Description: fmt.Sprintf("Services `%s` and `%s` share the display name `%s`.", other, e.Key, e.DisplayName),
				Severity:    diagnostics.IssueSeverityNote,
				Type:        diagnostics.IssueTypeDuplicateDisplayName,
			})
		} else if !ok {
			seenNames[e.DisplayName] = e.Key
		}
	}
	return issues
}

// Lookup returns the display name of the service identified by key, or a *NotFoundError.
func (t *Table) Lookup(key string) (string, error) {
	i, ok := t.byKey[key]
	if !ok {
		return "", &NotFoundError{Key: key}
	}
	return t.entries[i].DisplayName, nil
}

// DisplayNameOrKey returns the display name of the service, falling back to the key itself when none is registered.
func (t *Table) DisplayNameOrKey(key string) string {
	if name, err := t.Lookup(key); err == nil {
		return name
	}
	return key
}

func (t *Table) Has(key string) bool {
	_, ok := t.byKey[key]
	return ok
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of all entries in definition order.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// Keys returns all service keys in definition order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// Equal returns true if both tables hold the same entries in the same order.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.entries) != len(other.entries) {
		return false
	}
	for i := range t.entries {
		if t.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}

// The possible orders in which entries can be listed
type SortOrder string

const (
	SortNone SortOrder = "none"
	SortKey  SortOrder = "key"
	SortName SortOrder = "name"
)

// ParseSortOrder converts a command line value into a SortOrder
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(s)); order {
	case SortNone, SortKey, SortName:
		return order, nil
	case "":
		return SortNone, nil
	}
	return SortNone, fmt.Errorf("unknown sort order `%s`, expected one of none, key, name", s)
}

// Sorted returns a copy of the entries in the requested order. Ties on display name are broken by key.
func (t *Table) Sorted(order SortOrder) []Entry {
	entries := t.Entries()
	switch order {
	case SortKey:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Key < entries[j].Key
		})
	case SortName:
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := strings.ToLower(entries[i].DisplayName), strings.ToLower(entries[j].DisplayName)
			if a != b {
				return a < b
			}
			return entries[i].Key < entries[j].Key
		})
	}
	return entries
}

// Filter holds the regular expressions used to select a subset of the entries. A nil expression matches everything.
type Filter struct {
	KeyRegexp  *regexp.Regexp
	NameRegexp *regexp.Regexp
}

// CreateFilter compiles the given expressions into a filter. Empty expressions are ignored.
func CreateFilter(keyExpr, nameExpr string) (Filter, error) {
	var filter Filter
	var err error
	if keyExpr != "" {
		if filter.KeyRegexp, err = regexp.Compile(keyExpr); err != nil {
			return Filter{}, errors.Wrap(err, "key filter")
		}
	}
	if nameExpr != "" {
		if filter.NameRegexp, err = regexp.Compile(nameExpr); err != nil {
			return Filter{}, errors.Wrap(err, "display name filter")
		}
	}
	return filter, nil
}

func (f Filter) IsEmpty() bool {
	return f.KeyRegexp == nil && f.NameRegexp == nil
}

// Matches returns true if the entry matches all the expressions of the filter
func (f Filter) Matches(e Entry) bool {
	if f.KeyRegexp != nil && !f.KeyRegexp.MatchString(e.Key) {
		return false
	}
	if f.NameRegexp != nil && !f.NameRegexp.MatchString(e.DisplayName) {
		return false
	}
	return true
}

// Apply returns the entries which match the filter, keeping their order
func (f Filter) Apply(entries []Entry) []Entry {
	if f.IsEmpty() {
		return entries
	}
	matching := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Matches(e) {
			matching = append(matching, e)
		}
	}
	return matching
}
