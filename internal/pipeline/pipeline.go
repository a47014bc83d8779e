// Package pipeline runs a suite file through the load, lower and solve
// stages.
package pipeline

import (
	"context"

	"github.com/ChayimFriedman2/chalk/internal/config"
	"github.com/ChayimFriedman2/chalk/internal/loader"
	"github.com/ChayimFriedman2/chalk/internal/logger"
	"github.com/ChayimFriedman2/chalk/internal/rules"
	"github.com/ChayimFriedman2/chalk/internal/solve"
)

// Processor is one stage of a pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries a suite through the stages.
type PipelineContext struct {
	Ctx      context.Context
	Path     string
	Settings config.SolverSettings

	Suite   *loader.Suite
	DB      *rules.Database
	Solver  *solve.Solver
	Results []Result

	Errors []error
}

// Result is the outcome of one goal of a suite.
type Result struct {
	Case   loader.GoalCase
	Answer solve.Answer
	Err    error
}

// Passed reports whether the answer matches the expectation. A goal without
// an expectation only has to be solvable.
func (r Result) Passed() bool {
	if r.Err != nil {
		return false
	}
	return r.Case.Expect == "" || r.Answer.Matches(r.Case.Expect)
}

// NewPipelineContext starts a context for the suite at path.
func NewPipelineContext(ctx context.Context, path string, settings config.SolverSettings) *PipelineContext {
	return &PipelineContext{Ctx: ctx, Path: path, Settings: settings}
}

// Err returns the first error any stage reported.
func (c *PipelineContext) Err() error {
	if len(c.Errors) == 0 {
		return nil
	}
	return c.Errors[0]
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Check is the full pipeline: load the suite, lower it and solve every goal.
func Check() *Pipeline {
	return New(LoadProcessor{}, LowerProcessor{}, SolveProcessor{})
}

// Program loads and lowers a suite without solving its goals.
func Program() *Pipeline {
	return New(LoadProcessor{}, LowerProcessor{})
}

// Run executes the pipeline. Every stage runs; a stage whose input is missing
// because an earlier one failed does nothing.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}

// LoadProcessor reads the suite file.
type LoadProcessor struct{}

func (LoadProcessor) Process(ctx *PipelineContext) *PipelineContext {
	suite, err := loader.LoadFile(ctx.Path)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Suite = suite
	return ctx
}

// LowerProcessor turns the suite's program into clauses and builds a solver
// for them.
type LowerProcessor struct{}

func (LowerProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Suite == nil {
		return ctx
	}
	db, err := rules.Lower(ctx.Suite.Program)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.DB = db
	ctx.Solver = solve.New(db,
		solve.WithSettings(ctx.Settings),
		solve.WithLogger(logger.Logger.Named("solve")),
	)
	return ctx
}

// SolveProcessor solves every goal of the suite in order.
type SolveProcessor struct{}

func (SolveProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Solver == nil {
		return ctx
	}
	goCtx := ctx.Ctx
	if goCtx == nil {
		goCtx = context.Background()
	}
	ctx.Results = make([]Result, 0, len(ctx.Suite.Goals))
	for _, gc := range ctx.Suite.Goals {
		a, err := ctx.Solver.Solve(goCtx, gc.Goal)
		ctx.Results = append(ctx.Results, Result{Case: gc, Answer: a, Err: err})
	}
	return ctx
}
