// Package layout describes the host project's directory layout and guards
// destination folders against colliding with it.
package layout

import (
	"path/filepath"
	"strings"
)

// AppDirectories are the host application's own source folders.
type AppDirectories struct {
	Root        string
	Src         string
	API         string
	Components  string
	Extensions  string
	Policies    string
	Middlewares string
	Config      string
}

// DistDirectories holds the build output location.
type DistDirectories struct {
	Root string
}

// StaticDirectories holds the public assets location.
type StaticDirectories struct {
	Public string
}

// Directories is the host-supplied layout for one run. It is passed by value
// and never mutated.
type Directories struct {
	App    AppDirectories
	Dist   DistDirectories
	Static StaticDirectories
}

// FromRoot builds the conventional Strapi layout for a project root.
func FromRoot(root string) Directories {
	root = NormalizeWithoutTrailingSeparator(root)
	src := filepath.Join(root, "src")
	return Directories{
		App: AppDirectories{
			Root:        root,
			Src:         src,
			API:         filepath.Join(src, "api"),
			Components:  filepath.Join(src, "components"),
			Extensions:  filepath.Join(src, "extensions"),
			Policies:    filepath.Join(src, "policies"),
			Middlewares: filepath.Join(src, "middlewares"),
			Config:      filepath.Join(root, "config"),
		},
		Dist:   DistDirectories{Root: filepath.Join(root, "dist")},
		Static: StaticDirectories{Public: filepath.Join(root, "public")},
	}
}

// NormalizeWithoutTrailingSeparator cleans a path and drops any trailing
// separator, except for the filesystem root itself.
func NormalizeWithoutTrailingSeparator(path string) string {
	path = filepath.Clean(path)
	if len(path) > 1 && strings.HasSuffix(path, string(filepath.Separator)) {
		path = path[:len(path)-1]
	}
	return path
}
