package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lexandro/schemas-to-ts/artifact"
	"github.com/lexandro/schemas-to-ts/barrel"
	"github.com/lexandro/schemas-to-ts/cleanup"
	"github.com/lexandro/schemas-to-ts/destination"
	"github.com/lexandro/schemas-to-ts/failure"
	"github.com/lexandro/schemas-to-ts/ignore"
	"github.com/lexandro/schemas-to-ts/keepset"
	"github.com/lexandro/schemas-to-ts/layout"
)

// runOptions is everything one generation run needs besides the artifacts.
type runOptions struct {
	Layout            layout.Directories
	Destination       destination.Options
	Exclude           []string
	KeepOrphanBarrels bool
}

// generate performs one run: resolve destinations, write artifacts, delete
// stale artifacts, then rebuild barrels. Any error aborts the run; the tree
// may be left partially updated and a re-run converges.
func generate(opts runOptions, m *manifest, logger *slog.Logger) (RunReport, error) {
	start := time.Now()
	var report RunReport

	tree, err := destination.Resolve(opts.Destination, opts.Layout)
	if err != nil {
		return report, err
	}
	report.Tree = tree
	logger.Debug("resolved destinations",
		"commons", tree.Commons,
		"apis", tree.APIs,
		"components", tree.Components,
		"extensions", tree.Extensions,
		"useForApisAndComponents", tree.UseForAPIsAndComponents,
	)

	matcher := ignore.NewMatcher(ignore.MatcherOptions{
		Layout:         opts.Layout,
		CustomPatterns: opts.Exclude,
	})
	artifacts, err := m.resolve(tree, opts.Layout, matcher)
	if err != nil {
		return report, err
	}

	keep := keepset.New()
	for _, a := range artifacts {
		if !artifact.HasHeader(a.Content) {
			return report, failure.Artifact(a.Path, failure.ErrMissingHeader)
		}
		if err := keep.Add(a.Path); err != nil {
			return report, failure.Artifact(a.Path, err)
		}
	}

	writer := artifact.NewWriter(logger)
	for _, a := range artifacts {
		dir := filepath.Dir(a.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return report, failure.IO("mkdir", dir, err)
		}
		if _, err := writer.WriteArtifact(a); err != nil {
			return report, err
		}
	}
	stats := writer.Stats()
	report.Written = stats.Written
	report.Unchanged = stats.Unchanged

	logger.Debug("excluded paths", "paths", matcher.ExcludedPaths())
	collected, err := cleanup.NewCollector(matcher, logger).Collect(opts.Layout.App.Root, keep)
	if err != nil {
		return report, err
	}
	report.Deleted = collected.Deleted

	aggregator := barrel.NewAggregator(artifact.NewWriter(logger), logger)
	aggregator.KeepOrphans = opts.KeepOrphanBarrels
	barrels, err := aggregator.Aggregate(tree)
	if err != nil {
		return report, err
	}
	report.BarrelsWritten = len(barrels.Written)
	report.BarrelsUnchanged = len(barrels.Unchanged)
	report.BarrelsRemoved = len(barrels.Removed)

	report.PerRoot = make(map[string]int)
	for _, root := range tree.Roots() {
		kept, err := keep.Under(root, "**/*.ts")
		if err != nil {
			return report, err
		}
		report.PerRoot[root] = len(kept)
	}

	report.Duration = time.Since(start)
	return report, nil
}
