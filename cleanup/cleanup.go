// Package cleanup deletes generator-owned files that the current run no
// longer produces.
package cleanup

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lexandro/schemas-to-ts/artifact"
	"github.com/lexandro/schemas-to-ts/failure"
	"github.com/lexandro/schemas-to-ts/keepset"
	"github.com/lexandro/schemas-to-ts/language"
)

// DirMatcher decides which folders and files the collector leaves alone.
type DirMatcher interface {
	ShouldSkipDir(absolutePath string) bool
	ShouldSkipFile(absolutePath string) bool
}

// Result summarises one collection pass.
type Result struct {
	Deleted  []string
	Examined int
}

// Collector walks the host project and removes stale artifacts. A file is
// removed only when its first line is the generator header and its path is
// not in the keep-set; hand-written files are never touched.
type Collector struct {
	Matcher DirMatcher
	Logger  *slog.Logger
}

// NewCollector creates a collector.
func NewCollector(matcher DirMatcher, logger *slog.Logger) *Collector {
	return &Collector{Matcher: matcher, Logger: logger}
}

// Collect walks root depth-first. Any read, stat or delete failure aborts
// the pass with a *failure.IOError.
func (c *Collector) Collect(root string, keep *keepset.Set) (Result, error) {
	var result Result
	if keep == nil {
		keep = keepset.New()
	}
	err := c.searchFiles(root, keep, &result)
	return result, err
}

func (c *Collector) searchFiles(dir string, keep *keepset.Set, result *Result) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return failure.IO("resolve", dir, err)
	}
	if c.Matcher.ShouldSkipDir(absDir) {
		c.Logger.Debug("skipping excluded directory", "path", absDir)
		return nil
	}
	c.Logger.Debug("looking for files to delete", "path", absDir)

	// The listing is taken before anything in this folder is deleted.
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return failure.IO("read dir", absDir, err)
	}

	for _, entry := range entries {
		filePath := filepath.Join(absDir, entry.Name())
		info, err := os.Stat(filePath)
		if err != nil {
			return failure.IO("stat", filePath, err)
		}

		if info.IsDir() {
			if err := c.searchFiles(filePath, keep, result); err != nil {
				return err
			}
			continue
		}
		if keep.Contains(filePath) {
			continue
		}
		if !language.IsGeneratedSource(entry.Name()) || c.Matcher.ShouldSkipFile(filePath) {
			continue
		}
		result.Examined++
		if err := c.checkAndDeleteFile(filePath, result); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) checkAndDeleteFile(filePath string, result *Result) error {
	generated, err := artifact.IsGenerated(filePath)
	if err != nil {
		return err
	}
	if !generated {
		return nil
	}
	if err := os.Remove(filePath); err != nil {
		return failure.IO("delete", filePath, err)
	}
	c.Logger.Debug("deleted stale artifact", "path", filePath)
	result.Deleted = append(result.Deleted, filePath)
	return nil
}
