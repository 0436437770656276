// Package pipeline runs a recipe's rewrite rules against an imported build
// graph.
//
// This package is shared by every CLI command that touches a graph, so that
// apply and check see exactly the same rule ordering, error policy and
// logging.
//
// # Architecture
//
// A run has three stages:
//
//  1. Clone: the input graph is copied; the caller's graph is never mutated
//  2. Rewrite: each rule is applied in order. UNUSED_RULE outcomes are logged
//     at warn level and collected; any other error aborts the run
//  3. Validate: the rewritten graph is checked before it is returned
//
// A failed run returns no graph at all, so a partially rewritten graph can
// never reach the output.
//
// # Usage
//
//	rules, err := rcp.Rules()
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Run(ctx, g, pipeline.Options{Project: rcp.Project, Rules: rules})
//	if err != nil {
//	    return err
//	}
//	for _, p := range result.Report.Deletions.Sorted() { ... }
package pipeline

import (
	"time"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
	"github.com/matzehuels/buildport/pkg/rewrite"
)

// Options configures a single run.
type Options struct {
	// Project names the import for log lines and hooks.
	Project string

	// Rules are applied in slice order.
	Rules []rewrite.Rule

	// Strict turns unused rules into a failure once the run completes.
	// The rewritten graph is still returned alongside the error.
	Strict bool
}

// Validate checks the options.
func (o Options) Validate() error {
	for i, r := range o.Rules {
		if r == nil {
			return bperrors.New(bperrors.ErrCodeInvalidConfig, "rule %d is nil", i+1)
		}
	}
	return nil
}

// Result holds the outputs of a successful run.
type Result struct {
	// RunID identifies the run in logs and hooks.
	RunID string

	// Graph is the rewritten graph, independent of the input.
	Graph *buildgraph.Graph

	// Report holds protected paths, deletions, unused rules and counters.
	Report *rewrite.Report

	Stats Stats
}

// Stats summarizes a run.
type Stats struct {
	Rules         int
	Unused        int
	TargetsBefore int
	TargetsAfter  int
	Duration      time.Duration
}
