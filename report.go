package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/schemas-to-ts/destination"
)

// RunReport holds the outcome of a single generation run.
type RunReport struct {
	Tree             destination.Tree
	Written          int            // artifacts created or changed
	Unchanged        int            // artifacts already up to date
	Deleted          []string       // stale artifacts removed
	BarrelsWritten   int            // index files created or changed
	BarrelsUnchanged int            // index files already up to date
	BarrelsRemoved   int            // orphaned index files removed
	PerRoot          map[string]int // kept artifacts per destination root
	Duration         time.Duration
}

// Changed reports whether the run touched the filesystem at all.
func (r RunReport) Changed() bool {
	return r.Written > 0 || len(r.Deleted) > 0 || r.BarrelsWritten > 0 || r.BarrelsRemoved > 0
}

func (r RunReport) log(logger *slog.Logger) {
	if !r.Changed() {
		logger.Info("generated types are up to date", "unchanged", r.Unchanged, "duration", r.Duration)
		return
	}
	logger.Info("generation complete",
		"written", r.Written,
		"unchanged", r.Unchanged,
		"deleted", len(r.Deleted),
		"barrelsWritten", r.BarrelsWritten,
		"barrelsRemoved", r.BarrelsRemoved,
		"duration", r.Duration,
	)
	for root, count := range r.PerRoot {
		logger.Debug("destination root", "path", root, "artifacts", count)
	}
}

// Summary is the one-line result printed on stdout.
func (r RunReport) Summary() string {
	return fmt.Sprintf("%d written, %d up to date, %d deleted, %d index files updated (%s)",
		r.Written, r.Unchanged, len(r.Deleted), r.BarrelsWritten+r.BarrelsRemoved, formatDuration(r.Duration))
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", totalSeconds/60, totalSeconds%60)
}
