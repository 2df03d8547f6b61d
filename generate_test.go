package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexandro/schemas-to-ts/artifact"
	"github.com/lexandro/schemas-to-ts/barrel"
	"github.com/lexandro/schemas-to-ts/destination"
	"github.com/lexandro/schemas-to-ts/failure"
	"github.com/lexandro/schemas-to-ts/keepset"
	"github.com/lexandro/schemas-to-ts/layout"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProject(t *testing.T) layout.Directories {
	t.Helper()
	dirs := layout.FromRoot(t.TempDir())
	require.NoError(t, os.MkdirAll(dirs.App.Src, 0o755))
	return dirs
}

func entry(kind destination.Kind, path string, body string) manifestEntry {
	return manifestEntry{Destination: kind, Path: path, Content: artifact.Header + body}
}

// snapshot maps every file under root to its content and modification time.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[path] = string(data) + "@" + info.ModTime().Format(time.RFC3339Nano)
		return nil
	})
	require.NoError(t, err)
	return files
}

func Test_generate_CustomDestinationScenario(t *testing.T) {
	dirs := newProject(t)
	opts := runOptions{Layout: dirs, Destination: destination.Options{DestinationFolder: "generated"}}
	m := &manifest{Artifacts: []manifestEntry{
		entry(destination.KindCommons, "Media.ts", "export interface Media {}\n"),
		entry(destination.KindAPIs, "article/Article.ts", "export interface Article {}\n"),
		entry(destination.KindComponents, "shared/Seo.ts", "export interface Seo {}\n"),
	}}

	report, err := generate(opts, m, testLogger())
	require.NoError(t, err)

	base := filepath.Join(dirs.App.Root, "generated")
	assert.True(t, report.Tree.UseForAPIsAndComponents)
	for _, sub := range []string{"common", "api", "components", "extensions"} {
		assert.DirExists(t, filepath.Join(base, sub))
	}
	assert.FileExists(t, filepath.Join(base, "api", "article", "Article.ts"))
	assert.Equal(t, 3, report.Written)
	assert.Equal(t, 1, report.PerRoot[filepath.Join(base, "api")])

	idx, err := os.ReadFile(filepath.Join(base, "api", "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, barrel.Content([]string{"export * from './article';"}), string(idx))
	idx, err = os.ReadFile(filepath.Join(base, "api", "article", "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, barrel.Content([]string{"export * from './Article';"}), string(idx))
	assert.NoFileExists(t, filepath.Join(base, "extensions", "index.ts"))
}

func Test_generate_DefaultDestinations(t *testing.T) {
	dirs := newProject(t)
	opts := runOptions{Layout: dirs, Destination: destination.Options{CommonInterfacesFolderName: "schemas-to-ts"}}
	m := &manifest{Artifacts: []manifestEntry{
		entry(destination.KindCommons, "Media.ts", "export interface Media {}\n"),
		entry(destination.KindAPIs, "article/content-types/article/article.ts", "export interface Article {}\n"),
	}}

	report, err := generate(opts, m, testLogger())
	require.NoError(t, err)

	assert.False(t, report.Tree.UseForAPIsAndComponents)
	assert.FileExists(t, filepath.Join(dirs.App.Src, "common", "schemas-to-ts", "Media.ts"))
	assert.FileExists(t, filepath.Join(dirs.App.API, "article", "content-types", "article", "article.ts"))
	assert.FileExists(t, filepath.Join(dirs.App.Src, "common", "schemas-to-ts", "index.ts"))
	assert.NoFileExists(t, filepath.Join(dirs.App.API, "index.ts"), "host api folder is not a destination root")
}

func Test_generate_SrcDestinationFailsWithoutCreatingFolders(t *testing.T) {
	dirs := newProject(t)
	opts := runOptions{Layout: dirs, Destination: destination.Options{DestinationFolder: dirs.App.Src}}

	_, err := generate(opts, &manifest{}, testLogger())

	var cfgErr *failure.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, failure.SameAsSrc, cfgErr.Violation)
	assert.Contains(t, err.Error(), "same as the Strapi src")
	entries, err := os.ReadDir(dirs.App.Src)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func Test_generate_SecondRunIsIdempotent(t *testing.T) {
	dirs := newProject(t)
	opts := runOptions{Layout: dirs, Destination: destination.Options{DestinationFolder: "types"}}
	m := &manifest{Artifacts: []manifestEntry{
		entry(destination.KindCommons, "Media.ts", "export interface Media {}\n"),
		entry(destination.KindAPIs, "article/Article.ts", "export interface Article {}\n"),
	}}

	_, err := generate(opts, m, testLogger())
	require.NoError(t, err)
	before := snapshot(t, dirs.App.Root)

	report, err := generate(opts, m, testLogger())
	require.NoError(t, err)

	assert.False(t, report.Changed())
	assert.Equal(t, 0, report.Written)
	assert.Equal(t, 2, report.Unchanged)
	assert.Empty(t, report.Deleted)
	assert.Equal(t, before, snapshot(t, dirs.App.Root))
}

func Test_generate_RemovesArtifactsNoLongerProduced(t *testing.T) {
	dirs := newProject(t)
	opts := runOptions{Layout: dirs, Destination: destination.Options{DestinationFolder: "types"}}
	first := &manifest{Artifacts: []manifestEntry{
		entry(destination.KindCommons, "Media.ts", "export interface Media {}\n"),
		entry(destination.KindCommons, "old/Legacy.ts", "export interface Legacy {}\n"),
	}}
	_, err := generate(opts, first, testLogger())
	require.NoError(t, err)

	handWritten := filepath.Join(dirs.App.Root, "types", "common", "Custom.ts")
	require.NoError(t, os.WriteFile(handWritten, []byte("export type Custom = string;\n"), 0o644))

	second := &manifest{Artifacts: []manifestEntry{
		entry(destination.KindCommons, "Media.ts", "export interface Media {}\n"),
	}}
	report, err := generate(opts, second, testLogger())
	require.NoError(t, err)

	common := filepath.Join(dirs.App.Root, "types", "common")
	legacy := filepath.Join(common, "old", "Legacy.ts")
	assert.Equal(t, []string{legacy}, report.Deleted)
	assert.NoFileExists(t, legacy)
	assert.NoFileExists(t, filepath.Join(common, "old", "index.ts"))
	assert.FileExists(t, handWritten)
	assert.Equal(t, 1, report.BarrelsRemoved)

	idx, err := os.ReadFile(filepath.Join(common, "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, barrel.Content([]string{"export * from './Custom';", "export * from './Media';"}), string(idx))
}

func Test_generate_RejectsDuplicatePaths(t *testing.T) {
	dirs := newProject(t)
	opts := runOptions{Layout: dirs, Destination: destination.Options{DestinationFolder: "types"}}
	m := &manifest{Artifacts: []manifestEntry{
		entry(destination.KindCommons, "Media.ts", "a\n"),
		entry("", "types/common/Media.ts", "b\n"),
	}}

	_, err := generate(opts, m, testLogger())
	assert.True(t, errors.Is(err, keepset.ErrDuplicatePath))
	assert.True(t, errors.Is(err, failure.ErrConfiguration))
	assert.NoFileExists(t, filepath.Join(dirs.App.Root, "types", "common", "Media.ts"))
}

func Test_generate_RejectsArtifactWithoutHeader(t *testing.T) {
	dirs := newProject(t)
	opts := runOptions{Layout: dirs, Destination: destination.Options{DestinationFolder: "types"}}
	m := &manifest{Artifacts: []manifestEntry{
		{Destination: destination.KindCommons, Path: "Media.ts", Content: "export interface Media {}\n"},
	}}

	_, err := generate(opts, m, testLogger())
	assert.ErrorContains(t, err, "does not start with the generator header")
	assert.True(t, errors.Is(err, failure.ErrMissingHeader))
	assert.True(t, errors.Is(err, failure.ErrConfiguration))
	assert.NoFileExists(t, filepath.Join(dirs.App.Root, "types", "common", "Media.ts"))
}

func Test_generate_RespectsExcludePatterns(t *testing.T) {
	dirs := newProject(t)
	pinned := filepath.Join(dirs.App.Src, "legacy", "Old.ts")
	require.NoError(t, os.MkdirAll(filepath.Dir(pinned), 0o755))
	require.NoError(t, os.WriteFile(pinned, []byte(artifact.Header), 0o644))

	opts := runOptions{
		Layout:      dirs,
		Destination: destination.Options{DestinationFolder: "types"},
		Exclude:     []string{"legacy/"},
	}
	report, err := generate(opts, &manifest{}, testLogger())
	require.NoError(t, err)

	assert.FileExists(t, pinned)
	assert.Empty(t, report.Deleted)
}

func Test_generate_KeepsHandWrittenReexportIndex(t *testing.T) {
	dirs := newProject(t)
	plugin := filepath.Join(dirs.App.Src, "extensions", "users-permissions")
	require.NoError(t, os.MkdirAll(plugin, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(plugin, "strapi-server.js"), []byte("module.exports = (plugin) => plugin;\n"), 0o644))
	index := filepath.Join(plugin, "index.ts")
	require.NoError(t, os.WriteFile(index, []byte("export * from './strapi-server';\n"), 0o644))

	opts := runOptions{Layout: dirs, Destination: destination.Options{CommonInterfacesFolderName: "schemas-to-ts"}}
	report, err := generate(opts, &manifest{}, testLogger())
	require.NoError(t, err)

	data, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Equal(t, "export * from './strapi-server';\n", string(data))
	assert.Equal(t, 0, report.BarrelsRemoved)
}

func Test_generate_RejectsArtifactInReservedFolder(t *testing.T) {
	dirs := newProject(t)
	opts := runOptions{Layout: dirs, Destination: destination.Options{DestinationFolder: "types"}}
	m := &manifest{Artifacts: []manifestEntry{
		entry(destination.KindCommons, "Media.ts", "export interface Media {}\n"),
		entry("", "config/database.ts", "export interface Database {}\n"),
	}}

	_, err := generate(opts, m, testLogger())
	assert.True(t, errors.Is(err, failure.ErrReservedArea))
	assert.True(t, errors.Is(err, failure.ErrConfiguration))
	assert.NoFileExists(t, filepath.Join(dirs.App.Config, "database.ts"))
	assert.NoFileExists(t, filepath.Join(dirs.App.Root, "types", "common", "Media.ts"))
}

func Test_RunReport_Summary(t *testing.T) {
	report := RunReport{Written: 2, Unchanged: 1, Deleted: []string{"/x.ts"}, BarrelsWritten: 3, Duration: 1500 * time.Millisecond}
	assert.Equal(t, "2 written, 1 up to date, 1 deleted, 3 index files updated (1.5s)", report.Summary())
	assert.True(t, report.Changed())
	assert.False(t, RunReport{Unchanged: 4}.Changed())
}

func Test_formatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{2 * time.Second, "2.0s"},
		{125 * time.Second, "2m5s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
