// Package keepset tracks the artifact paths written during one run.
package keepset

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrDuplicatePath is returned when two artifacts target the same path.
var ErrDuplicatePath = errors.New("duplicate artifact path")

// Set is the keep-set: absolute, cleaned paths that stale collection must
// preserve. A map gives O(1) lookups, a sorted slice gives stable iteration.
type Set struct {
	paths       map[string]struct{}
	sortedPaths []string
}

// New creates an empty keep-set.
func New() *Set {
	return &Set{
		paths:       make(map[string]struct{}),
		sortedPaths: make([]string, 0),
	}
}

// Add records path. Adding the same path twice is an error, since an
// artifact path must be unique within a run.
func (s *Set) Add(path string) error {
	path = filepath.Clean(path)
	if _, exists := s.paths[path]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, path)
	}
	s.paths[path] = struct{}{}

	idx := sort.SearchStrings(s.sortedPaths, path)
	s.sortedPaths = append(s.sortedPaths, "")
	copy(s.sortedPaths[idx+1:], s.sortedPaths[idx:])
	s.sortedPaths[idx] = path
	return nil
}

// Contains reports whether path was kept.
func (s *Set) Contains(path string) bool {
	_, ok := s.paths[filepath.Clean(path)]
	return ok
}

// Len returns the number of kept paths.
func (s *Set) Len() int {
	return len(s.paths)
}

// Paths returns all kept paths in sorted order.
func (s *Set) Paths() []string {
	out := make([]string, len(s.sortedPaths))
	copy(out, s.sortedPaths)
	return out
}

// Under returns the kept paths below dir whose path relative to dir matches
// a doublestar pattern, e.g. "**/*.ts".
func (s *Set) Under(dir string, pattern string) ([]string, error) {
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	var matches []string
	for _, path := range s.sortedPaths {
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		matched, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			continue
		}
		if matched {
			matches = append(matches, path)
		}
	}
	return matches, nil
}
