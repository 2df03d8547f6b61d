package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lexandro/schemas-to-ts/artifact"
	"github.com/lexandro/schemas-to-ts/destination"
	"github.com/lexandro/schemas-to-ts/failure"
	"github.com/lexandro/schemas-to-ts/ignore"
	"github.com/lexandro/schemas-to-ts/layout"
)

// manifestEntry is one artifact emitted by the schema compiler. Path is
// relative to the destination root named by Destination, or to the project
// root when Destination is empty. Absolute paths are used as given.
type manifestEntry struct {
	Destination destination.Kind `yaml:"destination"`
	Path        string           `yaml:"path"`
	Content     string           `yaml:"content"`
}

type manifest struct {
	Artifacts []manifestEntry `yaml:"artifacts"`
}

// loadManifest reads a YAML (or JSON) manifest from path, or stdin for "-".
func loadManifest(path string) (*manifest, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return parseManifest(data)
}

func parseManifest(data []byte) (*manifest, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// resolve places every entry under its destination root. Artifacts must
// land inside the project root, outside folders stale collection never
// enters, and outside the host's config, dist and public folders.
func (m *manifest) resolve(tree destination.Tree, dirs layout.Directories, matcher *ignore.Matcher) ([]artifact.Artifact, error) {
	artifacts := make([]artifact.Artifact, 0, len(m.Artifacts))
	for i, entry := range m.Artifacts {
		if entry.Path == "" {
			return nil, fmt.Errorf("manifest entry %d: %w", i, failure.Artifact("", errors.New("empty path")))
		}

		path := entry.Path
		if !filepath.IsAbs(path) {
			base := dirs.App.Root
			if entry.Destination != "" {
				root, ok := tree.RootFor(entry.Destination, dirs)
				if !ok {
					err := fmt.Errorf("unknown or unresolved destination %q", entry.Destination)
					return nil, fmt.Errorf("manifest entry %d: %w", i, failure.Artifact(path, err))
				}
				base = root
			}
			path = filepath.Join(base, path)
		}
		path = filepath.Clean(path)

		if path == filepath.Clean(dirs.App.Root) || !layout.IsInsideRoot(path, dirs.App.Root) {
			return nil, fmt.Errorf("manifest entry %d: %w", i, failure.Artifact(path, failure.ErrOutsideRoot))
		}
		if isReservedPlacement(path, dirs, matcher) {
			return nil, fmt.Errorf("manifest entry %d: %w", i, failure.Artifact(path, failure.ErrReservedArea))
		}
		artifacts = append(artifacts, artifact.Artifact{Path: path, Content: entry.Content})
	}
	return artifacts, nil
}

func isReservedPlacement(path string, dirs layout.Directories, matcher *ignore.Matcher) bool {
	for _, reserved := range []string{dirs.App.Config, dirs.Dist.Root, dirs.Static.Public} {
		if layout.IsInsideRoot(path, reserved) {
			return true
		}
	}
	return matcher.Covers(path)
}
