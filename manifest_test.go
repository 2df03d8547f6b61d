package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexandro/schemas-to-ts/destination"
	"github.com/lexandro/schemas-to-ts/failure"
	"github.com/lexandro/schemas-to-ts/ignore"
	"github.com/lexandro/schemas-to-ts/layout"
)

func Test_parseManifest_YAMLAndJSON(t *testing.T) {
	yamlManifest := `
artifacts:
  - destination: commons
    path: Media.ts
    content: |
      // Interface automatically generated by schemas-to-ts

      export interface Media {}
`
	m, err := parseManifest([]byte(yamlManifest))
	require.NoError(t, err)
	require.Len(t, m.Artifacts, 1)
	assert.Equal(t, destination.KindCommons, m.Artifacts[0].Destination)
	assert.Equal(t, "// Interface automatically generated by schemas-to-ts\n\nexport interface Media {}\n", m.Artifacts[0].Content)

	jsonManifest := `{"artifacts": [{"destination": "apis", "path": "a/A.ts", "content": "x"}]}`
	m, err = parseManifest([]byte(jsonManifest))
	require.NoError(t, err)
	require.Len(t, m.Artifacts, 1)
	assert.Equal(t, destination.KindAPIs, m.Artifacts[0].Destination)

	_, err = parseManifest([]byte("artifacts: [unclosed"))
	assert.Error(t, err)
}

func Test_loadManifest_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("artifacts: []\n"), 0o644))

	m, err := loadManifest(path)
	require.NoError(t, err)
	assert.Empty(t, m.Artifacts)

	_, err = loadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading manifest")
}

func newMatcher(dirs layout.Directories, patterns ...string) *ignore.Matcher {
	return ignore.NewMatcher(ignore.MatcherOptions{Layout: dirs, CustomPatterns: patterns})
}

func Test_manifest_resolve(t *testing.T) {
	dirs := layout.FromRoot("/proj")
	tree := destination.Tree{
		Commons:                 "/proj/types/common",
		APIs:                    "/proj/types/api",
		Components:              "/proj/types/components",
		Extensions:              "/proj/types/extensions",
		UseForAPIsAndComponents: true,
	}
	m := &manifest{Artifacts: []manifestEntry{
		{Destination: destination.KindCommons, Path: "Media.ts"},
		{Destination: destination.KindExtensions, Path: "users-permissions/User.ts"},
		{Path: "src/custom/Other.ts"},
		{Destination: destination.KindAPIs, Path: "/proj/types/api/a/A.ts"},
	}}

	artifacts, err := m.resolve(tree, dirs, newMatcher(dirs))
	require.NoError(t, err)
	var paths []string
	for _, a := range artifacts {
		paths = append(paths, a.Path)
	}
	assert.Equal(t, []string{
		"/proj/types/common/Media.ts",
		"/proj/types/extensions/users-permissions/User.ts",
		"/proj/src/custom/Other.ts",
		"/proj/types/api/a/A.ts",
	}, paths)
}

func Test_manifest_resolveErrors(t *testing.T) {
	dirs := layout.FromRoot("/proj")
	tree := destination.Tree{Commons: "/proj/src/common/x"}

	tests := []struct {
		name  string
		entry manifestEntry
		want  string
	}{
		{"empty path", manifestEntry{Destination: destination.KindCommons}, "empty path"},
		{"unknown destination", manifestEntry{Destination: "plugins", Path: "a.ts"}, "unknown or unresolved destination"},
		{"escapes root", manifestEntry{Path: "../elsewhere/a.ts"}, "outside the project root"},
		{"absolute outside root", manifestEntry{Path: "/tmp/a.ts"}, "outside the project root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &manifest{Artifacts: []manifestEntry{tt.entry}}
			_, err := m.resolve(tree, dirs, newMatcher(dirs))
			assert.ErrorContains(t, err, tt.want)
			assert.True(t, errors.Is(err, failure.ErrConfiguration))
		})
	}
}

func Test_manifest_resolveDefaultModeHostFolders(t *testing.T) {
	dirs := layout.FromRoot("/proj")
	tree := destination.Tree{Commons: "/proj/src/common/schemas-to-ts", Extensions: "/proj/src/extensions"}
	m := &manifest{Artifacts: []manifestEntry{
		{Destination: destination.KindAPIs, Path: "article/content-types/article/article.ts"},
		{Destination: destination.KindComponents, Path: "shared/interfaces/Seo.ts"},
		{Destination: destination.KindExtensions, Path: "users-permissions/User.ts"},
	}}

	artifacts, err := m.resolve(tree, dirs, newMatcher(dirs))
	require.NoError(t, err)
	require.Len(t, artifacts, 3)
	assert.Equal(t, "/proj/src/api/article/content-types/article/article.ts", artifacts[0].Path)
	assert.Equal(t, "/proj/src/components/shared/interfaces/Seo.ts", artifacts[1].Path)
}

func Test_manifest_resolveRejectsReservedPlacement(t *testing.T) {
	dirs := layout.FromRoot("/proj")
	tree := destination.Tree{Commons: "/proj/src/common/x"}

	for _, path := range []string{
		"config/database.ts",
		"dist/x.ts",
		"public/uploads/x.ts",
		"node_modules/pkg/x.ts",
		"database/migrations/x.ts",
		"src/plugins/custom/x.ts",
		"src/admin/app.ts",
		"src/.cache/x.ts",
		"src/legacy/x.ts",
	} {
		t.Run(path, func(t *testing.T) {
			m := &manifest{Artifacts: []manifestEntry{{Path: path}}}
			_, err := m.resolve(tree, dirs, newMatcher(dirs, "legacy/"))
			assert.True(t, errors.Is(err, failure.ErrReservedArea), "%v", err)
			assert.True(t, errors.Is(err, failure.ErrConfiguration))
		})
	}
}
