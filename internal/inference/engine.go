package inference

import (
	"context"
	"fmt"
)

// Loader fetches the knowledge base. Implementations own retries and
// referential integrity; the engine treats the result as read-only.
type Loader interface {
	Load(ctx context.Context) (KnowledgeBase, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (KnowledgeBase, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (KnowledgeBase, error) {
	return f(ctx)
}

// Options configures one inference run.
type Options struct {
	MissingEvidence MissingEvidencePolicy
	Selector        Selector
}

// DefaultOptions fails on missing evidence and uses the strict selector.
func DefaultOptions() Options {
	return Options{
		MissingEvidence: MissingEvidenceFail,
		Selector:        SelectorStrict,
	}
}

// Run executes the pipeline against an already loaded knowledge base:
// validate evidence, mix, evaluate single rules, combine, select.
// It performs no I/O and never returns a partial result.
func Run(kb KnowledgeBase, ev Evidence, opts Options) (*Result, error) {
	if err := ValidateEvidence(ev); err != nil {
		return nil, err
	}

	mixed, err := Mix(kb, ev, opts.MissingEvidence)
	if err != nil {
		return nil, err
	}

	conclusions, err := CombineRules(EvaluateSingleRules(mixed))
	if err != nil {
		return nil, err
	}

	return &Result{
		Conclusions: conclusions,
		Top:         opts.Selector.pick(conclusions),
	}, nil
}

// Engine binds a Loader to run options.
type Engine struct {
	loader Loader
	opts   Options
}

// NewEngine creates an Engine. Zero-valued option fields take their defaults.
func NewEngine(loader Loader, opts Options) *Engine {
	def := DefaultOptions()
	if opts.MissingEvidence == "" {
		opts.MissingEvidence = def.MissingEvidence
	}
	if opts.Selector == "" {
		opts.Selector = def.Selector
	}
	return &Engine{loader: loader, opts: opts}
}

// Options returns the options the engine runs with.
func (e *Engine) Options() Options {
	return e.opts
}

// Infer loads the knowledge base and runs the pipeline. Evidence is checked
// before loading; a load failure or cancelled context aborts the run before
// any combination work.
func (e *Engine) Infer(ctx context.Context, ev Evidence) (*Result, error) {
	if err := ValidateEvidence(ev); err != nil {
		return nil, err
	}

	kb, err := e.loader.Load(ctx)
	if err != nil {
		return nil, &ErrLoad{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("inference aborted: %w", err)
	}

	return Run(kb, ev, e.opts)
}
