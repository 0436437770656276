package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/buildport/pkg/buildgraph"
	bperrors "github.com/matzehuels/buildport/pkg/errors"
	"github.com/matzehuels/buildport/pkg/observability"
	"github.com/matzehuels/buildport/pkg/rewrite"
)

// Runner applies rewrite rules to build graphs.
//
// The Runner is stateless except for the logger - it doesn't store run
// results. Multiple goroutines can safely use the same Runner on different
// graphs.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Run applies opts.Rules to a clone of g.
//
// On a fatal rule error the run stops, nothing is returned but the error,
// and g is unchanged. The context is checked between rules.
func (r *Runner) Run(ctx context.Context, g *buildgraph.Graph, opts Options) (result *Result, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := r.Logger.With("run", runID)
	hooks := observability.Pipeline()

	start := time.Now()
	hooks.OnRunStart(ctx, runID, opts.Project, len(opts.Rules))
	defer func() {
		hooks.OnRunComplete(ctx, runID, time.Since(start), err)
	}()

	logger.Debug("starting rewrite", "project", opts.Project, "rules", len(opts.Rules), "targets", g.Len())

	work := g.Clone()
	rep := rewrite.NewReport()
	for _, rule := range opts.Rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.apply(ctx, runID, logger, work, rep, rule); err != nil {
			return nil, err
		}
	}

	if err := work.Validate(); err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidGraph, err, "rewritten graph")
	}

	result = &Result{
		RunID:  runID,
		Graph:  work,
		Report: rep,
		Stats: Stats{
			Rules:         len(opts.Rules),
			Unused:        len(rep.Unused),
			TargetsBefore: g.Len(),
			TargetsAfter:  work.Len(),
			Duration:      time.Since(start),
		},
	}

	logger.Info("rewrote graph",
		"project", opts.Project,
		"rules", result.Stats.Rules,
		"unused", result.Stats.Unused,
		"targets", result.Stats.TargetsAfter,
		"duration", result.Stats.Duration)

	if opts.Strict && len(rep.Unused) > 0 {
		return result, bperrors.New(bperrors.ErrCodeUnusedRule, "%d rules matched nothing", len(rep.Unused))
	}
	return result, nil
}

func (r *Runner) apply(ctx context.Context, runID string, logger *log.Logger, g *buildgraph.Graph, rep *rewrite.Report, rule rewrite.Rule) error {
	name := rule.Name()
	hooks := observability.Pipeline()
	hooks.OnRuleStart(ctx, runID, name)

	seen := len(rep.Unused)
	start := time.Now()
	err := rule.Apply(g, rep)
	hooks.OnRuleComplete(ctx, runID, name, time.Since(start), err)

	if err != nil {
		code := bperrors.GetCode(err)
		if code == "" {
			code = bperrors.ErrCodeInternal
		}
		logger.Error("rule failed", "rule", name, "code", code)
		return bperrors.Wrap(code, err, "rule %q", name)
	}

	for _, u := range rep.Unused[seen:] {
		logger.Warn("unused rule", "rule", name, "reason", u.Message)
		hooks.OnUnusedRule(ctx, runID, name, u.Message)
	}
	logger.Debug("applied rule", "rule", name, "duration", time.Since(start))
	return nil
}
