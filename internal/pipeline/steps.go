package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/bundle-advisor/internal/adapter"
	"github.com/nao1215/bundle-advisor/internal/analyzer"
	"github.com/nao1215/bundle-advisor/internal/rules"
)

// StdinPath is the StatsPath that makes LoadStep read standard input.
const StdinPath = "-"

// ErrMissingInput is returned when a step runs before the step producing its input.
var ErrMissingInput = errors.New("pipeline step input missing")

// LoadStep reads the stats file and decodes it into a document.
type LoadStep struct {
	// stdin is read when the stats path is StdinPath.
	stdin io.Reader

	// logger for structured logging.
	logger *slog.Logger
}

// LoadStepOption configures a LoadStep.
type LoadStepOption func(*LoadStep)

// WithStdin sets the reader used for the "-" stats path.
func WithStdin(r io.Reader) LoadStepOption {
	return func(s *LoadStep) {
		s.stdin = r
	}
}

// WithLoadLogger sets a custom logger for the load step.
func WithLoadLogger(logger *slog.Logger) LoadStepOption {
	return func(s *LoadStep) {
		s.logger = logger
	}
}

// NewLoadStep creates a new load step.
func NewLoadStep(opts ...LoadStepOption) *LoadStep {
	s := &LoadStep{
		stdin:  os.Stdin,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do reads run.StatsPath unless run.Data is already set, then decodes it.
func (s *LoadStep) Do(_ context.Context, run *Run) error {
	if run.Data == nil {
		data, err := s.read(run.StatsPath)
		if err != nil {
			return fmt.Errorf("failed to read stats file %s: %w", run.StatsPath, err)
		}
		run.Data = data
	}

	doc, err := adapter.Decode(run.Data)
	if err != nil {
		return fmt.Errorf("failed to parse stats file %s: %w", run.StatsPath, err)
	}
	run.Document = doc

	s.logger.Debug("stats file loaded",
		"stats", run.StatsPath,
		"bytes", len(run.Data),
		"keys", len(doc),
	)
	return nil
}

func (s *LoadStep) read(path string) ([]byte, error) {
	if path == StdinPath {
		return io.ReadAll(s.stdin)
	}
	return os.ReadFile(path) //nolint:gosec // reading the user-supplied stats file is the point
}

// DetectStep selects the adapter that understands the document.
type DetectStep struct {
	// adapters are probed in order; empty means adapter.Default().
	adapters []adapter.Adapter

	// logger for structured logging.
	logger *slog.Logger
}

// DetectStepOption configures a DetectStep.
type DetectStepOption func(*DetectStep)

// WithAdapters overrides the adapters probed by the detect step.
func WithAdapters(adapters ...adapter.Adapter) DetectStepOption {
	return func(s *DetectStep) {
		s.adapters = adapters
	}
}

// WithDetectLogger sets a custom logger for the detect step.
func WithDetectLogger(logger *slog.Logger) DetectStepOption {
	return func(s *DetectStep) {
		s.logger = logger
	}
}

// NewDetectStep creates a new detect step.
func NewDetectStep(opts ...DetectStepOption) *DetectStep {
	s := &DetectStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *DetectStep) Name() string {
	return "detect"
}

// Do sets run.Adapter, failing when no adapter recognizes the document.
func (s *DetectStep) Do(_ context.Context, run *Run) error {
	if run.Document == nil {
		return fmt.Errorf("%w: document not loaded", ErrMissingInput)
	}

	a, err := adapter.Detect(run.StatsPath, run.Document, s.adapters...)
	if err != nil {
		return err
	}
	run.Adapter = a

	s.logger.Info("detected stats format", "format", a.Name())
	return nil
}

// AnalyzeStep normalizes the document and builds the analysis.
type AnalyzeStep struct{}

// NewAnalyzeStep creates a new analyze step.
func NewAnalyzeStep() *AnalyzeStep {
	return &AnalyzeStep{}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do sets run.Analysis.
func (s *AnalyzeStep) Do(_ context.Context, run *Run) error {
	if run.Adapter == nil || run.Document == nil {
		return fmt.Errorf("%w: no adapter selected", ErrMissingInput)
	}
	run.Analysis = analyzer.New(run.Adapter).Analyze(run.Document)
	return nil
}

// EvaluateStep runs the rule engine against the analysis.
type EvaluateStep struct {
	engine *rules.Engine
}

// NewEvaluateStep creates a new evaluate step.
// A nil engine evaluates no rules.
func NewEvaluateStep(engine *rules.Engine) *EvaluateStep {
	if engine == nil {
		engine = rules.New()
	}
	return &EvaluateStep{engine: engine}
}

// Name returns the step name.
func (s *EvaluateStep) Name() string {
	return "evaluate"
}

// Do sets run.Issues.
func (s *EvaluateStep) Do(ctx context.Context, run *Run) error {
	if run.Analysis == nil {
		return fmt.Errorf("%w: analysis not built", ErrMissingInput)
	}

	issues, err := s.engine.RunContext(ctx, run.Analysis)
	if err != nil {
		return fmt.Errorf("rule evaluation failed: %w", err)
	}
	run.Issues = issues
	return nil
}
