// Package destination resolves where generated interfaces are written inside
// the host project and makes sure those folders exist.
package destination

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexandro/schemas-to-ts/artifact"
	"github.com/lexandro/schemas-to-ts/failure"
	"github.com/lexandro/schemas-to-ts/layout"
)

// ComponentInterfacesFolderName is the conventional folder for interfaces
// nested next to a component.
const ComponentInterfacesFolderName = "interfaces"

const (
	apisFolderName       = "api"
	commonFolderName     = "common"
	componentsFolderName = "components"
	extensionsFolderName = "extensions"
)

// Options carries the parts of the plugin configuration the resolver reads.
type Options struct {
	DestinationFolder          string
	CommonInterfacesFolderName string
}

// Kind names one of the destination roots.
type Kind string

const (
	KindCommons    Kind = "commons"
	KindAPIs       Kind = "apis"
	KindComponents Kind = "components"
	KindExtensions Kind = "extensions"
)

// Tree holds the resolved destination folders. Every non-empty entry exists
// on disk once Resolve returns.
type Tree struct {
	Commons    string
	APIs       string
	Components string
	Extensions string

	UseForAPIsAndComponents bool
}

// Roots returns the non-empty destination folders in a fixed order.
func (t Tree) Roots() []string {
	var roots []string
	for _, root := range []string{t.Commons, t.APIs, t.Components, t.Extensions} {
		if root != "" {
			roots = append(roots, root)
		}
	}
	return roots
}

// RootFor maps a destination kind to its folder. Without a custom destination
// folder, API and component interfaces live next to the host's own schemas.
func (t Tree) RootFor(kind Kind, dirs layout.Directories) (string, bool) {
	switch kind {
	case KindCommons:
		return t.Commons, t.Commons != ""
	case KindExtensions:
		return t.Extensions, t.Extensions != ""
	case KindAPIs:
		if t.APIs != "" {
			return t.APIs, true
		}
		return dirs.App.API, dirs.App.API != ""
	case KindComponents:
		if t.Components != "" {
			return t.Components, true
		}
		return dirs.App.Components, dirs.App.Components != ""
	}
	return "", false
}

// Resolve turns the configured destination folder into an existing Tree.
// A destination that collides with the host layout yields a
// *failure.ConfigError before any folder is created.
func Resolve(opts Options, dirs layout.Directories) (Tree, error) {
	if opts.DestinationFolder == "" {
		commons, err := EnsureFolderPath(dirs.App.Src, commonFolderName, opts.CommonInterfacesFolderName)
		if err != nil {
			return Tree{}, err
		}
		extensions, err := EnsureFolderPath(dirs.App.Src, extensionsFolderName)
		if err != nil {
			return Tree{}, err
		}
		return Tree{Commons: commons, Extensions: extensions}, nil
	}

	destinationFolder, err := finalDestinationFolder(opts.DestinationFolder, dirs)
	if err != nil {
		return Tree{}, err
	}

	var tree Tree
	targets := []struct {
		field  *string
		folder string
	}{
		{&tree.Commons, commonFolderName},
		{&tree.APIs, apisFolderName},
		{&tree.Components, componentsFolderName},
		{&tree.Extensions, extensionsFolderName},
	}
	for _, target := range targets {
		folder, err := EnsureFolderPath(destinationFolder, target.folder)
		if err != nil {
			return Tree{}, err
		}
		*target.field = folder
	}
	tree.UseForAPIsAndComponents = true
	return tree, nil
}

func finalDestinationFolder(destinationFolder string, dirs layout.Directories) (string, error) {
	root := dirs.App.Root
	if filepath.IsAbs(destinationFolder) && layout.IsInsideRoot(destinationFolder, root) {
		rel, err := filepath.Rel(root, destinationFolder)
		if err != nil {
			return "", failure.NewConfigError(failure.OutsideRoot, destinationFolder)
		}
		destinationFolder = rel
	}

	candidate := filepath.Join(root, destinationFolder)
	if err := layout.ValidateDestination(candidate, dirs); err != nil {
		return "", err
	}
	candidate = layout.NormalizeWithoutTrailingSeparator(candidate)

	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return "", failure.NewConfigError(failure.OutsideRoot, candidate)
	}
	var folders []string
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part != "" && part != "." {
			folders = append(folders, part)
		}
	}
	return EnsureFolderPath(root, folders...)
}

// EnsureFolderPath creates base/sub1/sub2/... one level at a time and returns
// the deepest folder. Levels that already exist as directories are kept.
func EnsureFolderPath(base string, subfolders ...string) (string, error) {
	folder := base
	for _, subfolder := range subfolders {
		folder = filepath.Join(folder, subfolder)
		err := os.Mkdir(folder, 0o755)
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", failure.IO("mkdir", folder, err)
		}
		if !artifact.FolderExists(folder) {
			return "", failure.IO("mkdir", folder, errors.New("exists and is not a directory"))
		}
	}
	return folder, nil
}
