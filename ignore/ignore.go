// Package ignore decides which folders of the host project stale collection
// must never enter.
package ignore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/denormal/go-gitignore"

	"github.com/lexandro/schemas-to-ts/layout"
)

// IgnoreFileName is an optional file at the project root holding extra
// exclusion patterns, one per line.
const IgnoreFileName = ".schemas-to-ts-ignore"

// Matcher combines the fixed exclusion set, dot-folders and custom patterns.
type Matcher struct {
	rootDir        string
	excludedPaths  map[string]struct{}
	customPatterns []string
	custom         gitignore.GitIgnore
}

// MatcherOptions configures the matcher.
type MatcherOptions struct {
	Layout layout.Directories
	// CustomPatterns use .gitignore syntax relative to the project root.
	CustomPatterns []string
}

// ExcludedPaths lists the absolute folders never scanned for stale artifacts.
func ExcludedPaths(dirs layout.Directories) []string {
	return []string{
		filepath.Join(dirs.App.Root, "node_modules"),
		filepath.Join(dirs.App.Root, "public"),
		filepath.Join(dirs.App.Root, "database"),
		filepath.Join(dirs.App.Root, "dist"),
		filepath.Join(dirs.App.Src, "plugins"),
		filepath.Join(dirs.App.Src, "admin"),
	}
}

// NewMatcher builds a matcher for the given layout.
func NewMatcher(options MatcherOptions) *Matcher {
	matcher := &Matcher{
		rootDir:        filepath.Clean(options.Layout.App.Root),
		excludedPaths:  make(map[string]struct{}),
		customPatterns: options.CustomPatterns,
	}
	for _, p := range ExcludedPaths(options.Layout) {
		matcher.excludedPaths[filepath.Clean(p)] = struct{}{}
	}

	if len(options.CustomPatterns) > 0 {
		reader := strings.NewReader(strings.Join(options.CustomPatterns, "\n") + "\n")
		matcher.custom = gitignore.New(reader, matcher.rootDir, nil)
	}
	return matcher
}

// ShouldSkipDir returns true if a folder must not be entered: it is in the
// exclusion set, its name starts with '.', or a custom pattern matches it.
func (m *Matcher) ShouldSkipDir(absolutePath string) bool {
	absolutePath = filepath.Clean(absolutePath)
	if _, excluded := m.excludedPaths[absolutePath]; excluded {
		return true
	}
	if strings.HasPrefix(filepath.Base(absolutePath), ".") {
		return true
	}
	return m.matchesCustom(absolutePath, true)
}

// Covers reports whether any folder between the project root and path is
// one ShouldSkipDir rejects.
func (m *Matcher) Covers(absolutePath string) bool {
	dir := filepath.Dir(filepath.Clean(absolutePath))
	for dir != m.rootDir && layout.IsInsideRoot(dir, m.rootDir) {
		if m.ShouldSkipDir(dir) {
			return true
		}
		dir = filepath.Dir(dir)
	}
	return false
}

// ShouldSkipFile returns true if a custom pattern protects the file.
func (m *Matcher) ShouldSkipFile(absolutePath string) bool {
	return m.matchesCustom(filepath.Clean(absolutePath), false)
}

// ExcludedPaths returns the fixed exclusion set in a stable order.
func (m *Matcher) ExcludedPaths() []string {
	out := make([]string, 0, len(m.excludedPaths))
	for p := range m.excludedPaths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// matchesCustom uses Relative() so the path need not exist on disk.
func (m *Matcher) matchesCustom(absolutePath string, isDir bool) bool {
	if m.custom == nil {
		return false
	}
	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil || relativePath == "." || strings.HasPrefix(relativePath, "..") {
		return false
	}
	match := m.custom.Relative(filepath.ToSlash(relativePath), isDir)
	return match != nil && match.Ignore()
}

// LoadPatternFile reads extra patterns from a gitignore-style file, skipping
// blank lines and comments. A missing file yields no patterns.
func LoadPatternFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}
