package layout

import (
	"path/filepath"
	"strings"

	"github.com/lexandro/schemas-to-ts/failure"
)

// IsInsideRoot reports whether path equals root or is nested below it.
// Comparison is per path component, so /proj2 is not inside /proj.
func IsInsideRoot(path string, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// CheckReserved returns the reserved area path collides with, or
// failure.NoViolation. Root and src only collide on equality, every other
// reserved folder also rejects anything nested inside it.
func CheckReserved(path string, dirs Directories) failure.Violation {
	path = filepath.Clean(path)

	if path == filepath.Clean(dirs.App.Root) {
		return failure.SameAsRoot
	}
	if path == filepath.Clean(dirs.App.Src) {
		return failure.SameAsSrc
	}

	nested := []struct {
		dir       string
		violation failure.Violation
	}{
		{dirs.App.API, failure.InsideAPI},
		{dirs.App.Components, failure.InsideComponents},
		{dirs.App.Extensions, failure.InsideExtensions},
		{dirs.App.Policies, failure.InsidePolicies},
		{dirs.App.Middlewares, failure.InsideMiddlewares},
		{dirs.App.Config, failure.InsideConfig},
		{dirs.Dist.Root, failure.InsideDist},
		{dirs.Static.Public, failure.InsideStatic},
	}
	for _, area := range nested {
		if area.dir == "" {
			continue
		}
		if IsInsideRoot(path, area.dir) {
			return area.violation
		}
	}
	return failure.NoViolation
}

// ValidateDestination is the single gate a configured destination folder
// must pass before anything is created under it.
func ValidateDestination(path string, dirs Directories) error {
	if !IsInsideRoot(path, dirs.App.Root) {
		return failure.NewConfigError(failure.OutsideRoot, path)
	}
	return failure.NewConfigError(CheckReserved(path, dirs), path)
}
