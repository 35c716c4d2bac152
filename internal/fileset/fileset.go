// Package fileset provides the value type backing QNode identity: a
// deduplicated, order-independent set of file paths. Two function
// declarations that name the same paths resolve to the same node, which is
// why the set carries a stable hash-free string key instead of relying on
// object identity.
package fileset

import (
	"sort"
	"strings"
)

// Set is an immutable, sorted collection of file paths. The zero value is
// the empty set.
type Set struct {
	paths []string
	key   string
}

// New builds a Set from the given paths, deduplicating and sorting them so
// that two calls with the same paths in any order produce an equal Set.
func New(paths ...string) Set {
	if len(paths) == 0 {
		return Set{key: ""}
	}

	seen := make(map[string]struct{}, len(paths))
	uniq := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		uniq = append(uniq, p)
	}
	sort.Strings(uniq)

	return Set{
		paths: uniq,
		key:   strings.Join(uniq, "\x00"),
	}
}

// Key returns a string uniquely identifying the set's contents, suitable
// for use as a map key when interning nodes.
func (s Set) Key() string { return s.key }

// Paths returns the sorted, deduplicated paths in the set. The returned
// slice must not be mutated by callers.
func (s Set) Paths() []string { return s.paths }

// Len returns the number of distinct files in the set.
func (s Set) Len() int { return len(s.paths) }

// Empty reports whether the set has no files.
func (s Set) Empty() bool { return len(s.paths) == 0 }

// Contains reports whether path is a member of the set.
func (s Set) Contains(path string) bool {
	for _, p := range s.paths {
		if p == path {
			return true
		}
	}
	return false
}

// String renders the set for logging.
func (s Set) String() string {
	if s.Empty() {
		return "{}"
	}
	return "{" + strings.Join(s.paths, ",") + "}"
}
