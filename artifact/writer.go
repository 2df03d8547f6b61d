package artifact

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lexandro/schemas-to-ts/failure"
)

// Artifact is one generated file: an absolute path and its full text.
type Artifact struct {
	Path    string
	Content string
}

// WriteStats counts the outcomes of Write calls on one Writer.
type WriteStats struct {
	Written   int
	Unchanged int
}

// Writer writes files only when their content changed, so unchanged output
// does not trigger host rebuilds.
type Writer struct {
	Logger *slog.Logger
	stats  WriteStats
}

// NewWriter creates a Writer logging to logger.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{Logger: logger}
}

// Stats returns the counts accumulated so far.
func (w *Writer) Stats() WriteStats {
	return w.stats
}

// Write stores content at directory/fileName unless the file already holds
// exactly those bytes. The absolute path is returned in both cases.
func (w *Writer) Write(directory string, fileName string, content string) (string, error) {
	destinationPath := filepath.Join(directory, fileName)

	existing, err := os.ReadFile(destinationPath)
	switch {
	case err == nil:
		if bytes.Equal(existing, []byte(content)) {
			w.Logger.Debug("file is up to date", "path", destinationPath)
			w.stats.Unchanged++
			return destinationPath, nil
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return destinationPath, failure.IO("read", destinationPath, err)
	}

	w.Logger.Debug("writing file", "path", destinationPath)
	if err := writeFileAtomic(destinationPath, []byte(content)); err != nil {
		return destinationPath, err
	}
	w.stats.Written++
	return destinationPath, nil
}

// WriteArtifact writes a to its own path.
func (w *Writer) WriteArtifact(a Artifact) (string, error) {
	return w.Write(filepath.Dir(a.Path), filepath.Base(a.Path), a.Content)
}

// writeFileAtomic writes to a temp file next to the real target, then renames,
// so a failed run never leaves a half-written artifact behind. A symlinked
// target is written through and an existing file keeps its mode.
func writeFileAtomic(path string, data []byte) error {
	target, mode, err := resolveTarget(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	tmpFile, err := os.CreateTemp(dir, ".schemas-to-ts-*.tmp")
	if err != nil {
		return failure.IO("create temp file in", dir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return failure.IO("write", tmpPath, err)
	}
	if err := tmpFile.Chmod(mode); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return failure.IO("chmod", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return failure.IO("close", tmpPath, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return failure.IO("rename", target, err)
	}
	return nil
}

// resolveTarget follows symlinks at path. A missing target (or a dangling
// link) is created at path itself with mode 0644.
func resolveTarget(path string) (string, fs.FileMode, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if errors.Is(err, fs.ErrNotExist) {
		return path, 0o644, nil
	}
	if err != nil {
		return "", 0, failure.IO("resolve", path, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", 0, failure.IO("stat", resolved, err)
	}
	return resolved, info.Mode().Perm(), nil
}
