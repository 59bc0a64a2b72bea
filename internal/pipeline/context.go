package pipeline

import (
	"io"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/diagnostics"
)

// PipelineContext carries the state shared by all processing stages.
type PipelineContext struct {
	FilePath   string
	SourceCode []byte // serialised AST; read from FilePath when empty
	Program    *ast.StatementBlock
	Options    *config.Options
	Output     io.Writer

	// Runtime holds the interpreter state between analysis and execution.
	// It is owned by the evaluator stages.
	Runtime any

	Errors   *diagnostics.ErrorList
	Err      error // failure outside the language: unreadable or malformed input
	ExitCode int
}

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Failed reports whether an earlier stage stopped the run.
func (ctx *PipelineContext) Failed() bool {
	return ctx.Err != nil || !ctx.Errors.IsEmpty()
}

// NewPipelineContext returns a context for the given serialised program with
// default options.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		SourceCode: []byte(source),
		Options:    config.DefaultOptions(),
		Errors:     diagnostics.Empty,
	}
}
