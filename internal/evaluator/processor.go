package evaluator

import (
	"io"

	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/pipeline"
)

// session is the interpreter state passed from analysis to execution.
type session struct {
	eval   *Evaluator
	global *ExecutionContext
}

// PreprocessProcessor loads the builtins and analyzes the program. Any
// error stops the run before execution.
type PreprocessProcessor struct {
	Host Host
	Out  io.Writer
}

func (pp *PreprocessProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil || ctx.Failed() {
		return ctx
	}
	out := pp.Out
	if out == nil {
		out = ctx.Output
	}
	eval := New(ctx.Options, pp.Host, out)
	global, errs := eval.NewGlobalContext()
	if !errs.IsEmpty() {
		ctx.Errors = diagnostics.Concatenate(ctx.Errors, errs)
		return ctx
	}
	res := eval.Preprocess(ctx.Program, global)
	ctx.Errors = diagnostics.Concatenate(ctx.Errors, res.Errors)
	ctx.Runtime = &session{eval: eval, global: global}
	return ctx
}

// ExecuteProcessor runs an analyzed program and records its exit code.
type ExecuteProcessor struct{}

func (ep *ExecuteProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	s, ok := ctx.Runtime.(*session)
	if !ok || ctx.Failed() {
		return ctx
	}
	if errs := s.eval.Execute(ctx.Program, s.global); !errs.IsEmpty() {
		ctx.Errors = diagnostics.Concatenate(ctx.Errors, errs)
		ctx.ExitCode = config.ExitFailure
		return ctx
	}
	if code, exited := s.global.ExitCode(); exited {
		ctx.ExitCode = code
	}
	return ctx
}
