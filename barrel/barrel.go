// Package barrel synthesizes index.ts files that re-export every module and
// every exporting subfolder of a generated folder.
package barrel

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexandro/schemas-to-ts/artifact"
	"github.com/lexandro/schemas-to-ts/destination"
	"github.com/lexandro/schemas-to-ts/failure"
	"github.com/lexandro/schemas-to-ts/language"
)

// Result lists what one aggregation pass did.
type Result struct {
	Written   []string
	Unchanged []string
	Removed   []string
}

// Aggregator builds barrels bottom-up. Barrels go through the same
// write-if-changed Writer as artifacts.
type Aggregator struct {
	Writer *artifact.Writer
	Logger *slog.Logger
	// KeepOrphans leaves a marked barrel in place when its folder no longer
	// has anything to export.
	KeepOrphans bool
}

// NewAggregator creates an aggregator writing through w.
func NewAggregator(w *artifact.Writer, logger *slog.Logger) *Aggregator {
	return &Aggregator{Writer: w, Logger: logger}
}

// Aggregate processes every root of tree.
func (a *Aggregator) Aggregate(tree destination.Tree) (Result, error) {
	var result Result
	for _, root := range tree.Roots() {
		if err := a.AggregateRoot(root, &result); err != nil {
			return result, err
		}
	}
	return result, nil
}

// AggregateRoot processes one folder tree, children before parents.
func (a *Aggregator) AggregateRoot(rootPath string, result *Result) error {
	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return failure.IO("read dir", rootPath, err)
	}
	for _, entry := range entries {
		fullPath := filepath.Join(rootPath, entry.Name())
		isDir, err := isDirectory(fullPath)
		if err != nil {
			return err
		}
		if isDir {
			if err := a.AggregateRoot(fullPath, result); err != nil {
				return err
			}
		}
	}
	return a.generateIndexFile(rootPath, result)
}

func (a *Aggregator) generateIndexFile(folderPath string, result *Result) error {
	exports, err := ExportLines(folderPath)
	if err != nil {
		return err
	}
	indexPath := filepath.Join(folderPath, language.IndexFileName)

	if len(exports) == 0 {
		return a.removeOrphan(indexPath, result)
	}

	before := a.Writer.Stats().Written
	path, err := a.Writer.Write(folderPath, language.IndexFileName, Content(exports))
	if err != nil {
		return err
	}
	if a.Writer.Stats().Written > before {
		a.Logger.Debug("generated index file", "path", path)
		result.Written = append(result.Written, path)
	} else {
		result.Unchanged = append(result.Unchanged, path)
	}
	return nil
}

// removeOrphan deletes a barrel left over from an earlier run once its folder
// has nothing to export. Only files starting with the index marker qualify.
func (a *Aggregator) removeOrphan(indexPath string, result *Result) error {
	if a.KeepOrphans || !artifact.FileExists(indexPath) {
		return nil
	}
	generated, err := artifact.IsGeneratedIndex(indexPath)
	if err != nil {
		return err
	}
	if !generated {
		return nil
	}
	if err := os.Remove(indexPath); err != nil {
		return failure.IO("delete", indexPath, err)
	}
	a.Logger.Debug("removed orphaned index file", "path", indexPath)
	result.Removed = append(result.Removed, indexPath)
	return nil
}

// ExportLines returns the re-export statements for folderPath in directory
// order: one per subfolder holding an index.ts and one per barrel member.
func ExportLines(folderPath string) ([]string, error) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, failure.IO("read dir", folderPath, err)
	}

	var exports []string
	for _, entry := range entries {
		name := entry.Name()
		fullPath := filepath.Join(folderPath, name)
		isDir, err := isDirectory(fullPath)
		if err != nil {
			return nil, err
		}
		if isDir {
			if artifact.FileExists(filepath.Join(fullPath, language.IndexFileName)) {
				exports = append(exports, fmt.Sprintf("export * from './%s';", name))
			}
			continue
		}
		if language.IsBarrelMember(name) {
			exports = append(exports, fmt.Sprintf("export * from './%s';", language.ModuleName(name)))
		}
	}
	return exports, nil
}

// Content renders a barrel: the index marker followed by one line per export.
func Content(exports []string) string {
	return artifact.IndexHeader + strings.Join(exports, "\n") + "\n"
}

func isDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, failure.IO("stat", path, err)
	}
	return info.IsDir(), nil
}
