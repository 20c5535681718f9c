package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/nao1215/bundle-advisor/internal/adapter"
	"github.com/nao1215/bundle-advisor/internal/model"
	"github.com/nao1215/bundle-advisor/internal/rules"
)

// Run carries the state of one analysis through the pipeline.
// Each step reads what earlier steps produced and fills in its own part.
type Run struct {
	// StatsPath is the stats file to analyze. "-" reads standard input.
	StatsPath string

	// Data is the raw stats file content.
	Data []byte

	// Document is the decoded stats file.
	Document adapter.Document

	// Adapter is the adapter selected for Document.
	Adapter adapter.Adapter

	// Analysis is the normalized, aggregated bundle view.
	Analysis *model.Analysis

	// Issues are the rule engine findings.
	Issues []model.Issue

	// PerformedSteps lists the names of the steps that completed.
	PerformedSteps []string
}

// NewRun creates a Run for the stats file at statsPath.
func NewRun(statsPath string) *Run {
	return &Run{
		StatsPath:      statsPath,
		PerformedSteps: make([]string, 0),
	}
}

// Report returns the report value handed to writers.
func (r *Run) Report() *model.Report {
	return model.NewReport(r.Analysis, r.Issues)
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the Run that earlier
// steps populated.
type Step interface {
	// Do executes the step. A returned error aborts the pipeline.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// DefaultPipeline returns the load, detect, analyze and evaluate steps
// wired in order, evaluating rules with engine. stdin is read for the "-"
// stats path; nil means os.Stdin.
func DefaultPipeline(engine *rules.Engine, stdin io.Reader, opts ...Option) *Pipeline {
	p := New(opts...)

	loadOpts := []LoadStepOption{WithLoadLogger(p.logger)}
	if stdin != nil {
		loadOpts = append(loadOpts, WithStdin(stdin))
	}

	p.AddSteps(
		NewLoadStep(loadOpts...),
		NewDetectStep(WithDetectLogger(p.logger)),
		NewAnalyzeStep(),
		NewEvaluateStep(engine),
	)
	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// Cancellation is checked before each step; the first failing step stops
// the pipeline and its error is returned unchanged.
//
// Design decision: We check ctx between steps rather than inside them.
// Only the load step can block (on stdin), and the evaluate step passes ctx
// on to the rule engine, so a check at each step boundary is enough to stop
// a cancelled run before it does further work.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"stats", run.StatsPath,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Debug("step failed",
				"step", step.Name(),
				"stats", run.StatsPath,
				"error", err,
			)
			return err
		}

		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
