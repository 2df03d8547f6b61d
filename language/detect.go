// Package language classifies generated TypeScript files by name.
package language

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SourceExtension is the extension of every file the generator writes.
const SourceExtension = ".ts"

// IndexFileName is the barrel file synthesized in each generated folder.
const IndexFileName = "index" + SourceExtension

// Patterns are matched against a base name with doublestar.
const (
	modulePattern      = "*.{ts,tsx}"
	declarationPattern = "*.d.ts"
	generatedPattern   = "*.ts"
)

func matchName(pattern string, name string) bool {
	matched, err := doublestar.Match(pattern, filepath.Base(name))
	return err == nil && matched
}

// IsGeneratedSource reports whether a file may be a generator-owned artifact
// and is therefore a candidate for stale collection.
func IsGeneratedSource(name string) bool {
	return matchName(generatedPattern, name)
}

// IsDeclaration reports whether name is a type-declaration-only file.
func IsDeclaration(name string) bool {
	return matchName(declarationPattern, name)
}

// IsIndex reports whether name is the barrel file itself.
func IsIndex(name string) bool {
	return filepath.Base(name) == IndexFileName
}

// IsBarrelMember reports whether a file is re-exported from its folder's
// barrel: a .ts or .tsx module that is neither the barrel nor a declaration.
func IsBarrelMember(name string) bool {
	return matchName(modulePattern, name) && !IsIndex(name) && !IsDeclaration(name)
}

// ModuleName strips the directory and the last extension from a file name.
func ModuleName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
