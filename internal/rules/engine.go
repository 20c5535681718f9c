package rules

import (
	"context"
	"slices"

	"github.com/nao1215/bundle-advisor/internal/model"
	"golang.org/x/sync/errgroup"
)

// Engine holds an ordered set of rules and evaluates them against an analysis.
type Engine struct {
	rules []Rule

	// concurrency is the number of rules evaluated at once.
	// Values below 2 evaluate sequentially.
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency evaluates up to n rules concurrently.
// The issue order stays the registration order.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// New creates an Engine with no rules registered.
func New(opts ...Option) *Engine {
	e := &Engine{
		rules:       make([]Rule, 0),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewDefault creates an Engine with the built-in rules registered in the
// order of IDs, configured with thresholds. Rules named in disabled are
// skipped.
func NewDefault(thresholds Thresholds, disabled []string, opts ...Option) *Engine {
	t := thresholds.withDefaults()
	e := New(opts...)

	builtin := []Rule{
		NewDuplicatePackages(),
		NewLargeVendorChunks(t.MaxChunkSize),
		NewHugeModules(t.MaxModuleSize),
		NewLazyLoadCandidates(t.MinLazyLoadThreshold),
	}
	for _, rule := range builtin {
		if slices.Contains(disabled, rule.ID()) {
			continue
		}
		e.Register(rule)
	}
	return e
}

// Register appends a rule. Nil rules are ignored.
func (e *Engine) Register(rule Rule) {
	if rule == nil {
		return
	}
	e.rules = append(e.rules, rule)
}

// RuleIDs returns the IDs of the registered rules in registration order.
func (e *Engine) RuleIDs() []string {
	ids := make([]string, len(e.rules))
	for i, rule := range e.rules {
		ids[i] = rule.ID()
	}
	return ids
}

// Run evaluates every registered rule and concatenates the issues in
// registration order. An engine without rules returns an empty list.
func (e *Engine) Run(analysis *model.Analysis) []model.Issue {
	issues, _ := e.RunContext(context.Background(), analysis) //nolint:errcheck // background context is never cancelled
	return issues
}

// RunContext is Run with cancellation. It stops before the next rule once
// ctx is done and returns ctx.Err().
//
// Design decision: With concurrency enabled we use errgroup.SetLimit and give
// each rule a fixed slot in a results slice, rather than collecting issues
// over a channel. Rules finish in any order, but flattening the slots in
// index order keeps the output identical to a sequential run.
func (e *Engine) RunContext(ctx context.Context, analysis *model.Analysis) ([]model.Issue, error) {
	if analysis == nil {
		analysis = &model.Analysis{}
	}

	results := make([][]model.Issue, len(e.rules))
	if e.concurrency < 2 || len(e.rules) < 2 {
		for i, rule := range e.rules {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = rule.Check(analysis)
		}
		return flatten(results), nil
	}

	// Each goroutine owns one slot of results, so no locking is needed.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, rule := range e.rules {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = rule.Check(analysis)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return flatten(results), nil
}

func flatten(results [][]model.Issue) []model.Issue {
	n := 0
	for _, r := range results {
		n += len(r)
	}
	issues := make([]model.Issue, 0, n)
	for _, r := range results {
		issues = append(issues, r...)
	}
	return issues
}
