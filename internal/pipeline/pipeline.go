package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/deepresearch/internal/model"
)

// Step enriches a research result after a successful deep scan.
// Steps run in sequence and each one sees the changes of the previous ones.
type Step interface {
	// Do runs the step against result. A returned error means the step
	// could not add its data; result must then be left as it was.
	Do(ctx context.Context, result *model.ResearchResult) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// StepError records a failed step.
type StepError struct {
	Step string
	Err  error
}

func (e StepError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e StepError) Unwrap() error {
	return e.Err
}

// Run is the outcome of one Execute call.
type Run struct {
	// Performed lists the steps that ran, successful or not, in order.
	Performed []string

	// Failures holds the errors of the steps that failed.
	Failures []StepError
}

// Failed reports whether any step failed.
func (r *Run) Failed() bool {
	return len(r.Failures) > 0
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	steps []Step

	logger *slog.Logger

	// continueOnError keeps running the remaining steps after a failure.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError makes a failed step non-fatal: it is logged and
// recorded in the Run, and the next step still executes.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
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

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in order against result.
//
// Cancellation is checked between steps. Without WithContinueOnError the
// first failing step stops the pipeline and its error is returned; with it,
// failures only show up in Run.Failures.
func (p *Pipeline) Execute(ctx context.Context, result *model.ResearchResult) (*Run, error) {
	run := &Run{Performed: make([]string, 0, len(p.steps))}

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return run, ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"target", result.TargetURL,
		)

		err := step.Do(ctx, result)
		run.Performed = append(run.Performed, step.Name())
		if err != nil {
			p.logger.Warn("step failed",
				"step", step.Name(),
				"target", result.TargetURL,
				"error", err,
			)
			run.Failures = append(run.Failures, StepError{Step: step.Name(), Err: err})
			if !p.continueOnError {
				return run, err
			}
			continue
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"target", result.TargetURL,
		)
	}

	return run, nil
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
