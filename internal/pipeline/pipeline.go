package pipeline

import (
	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/diagnostics"
)

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Every stage runs; stages check Failed
// themselves and skip their work after an earlier failure.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	if ctx.Errors == nil {
		ctx.Errors = diagnostics.Empty
	}
	if ctx.Options == nil {
		ctx.Options = config.DefaultOptions()
	}
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	if ctx.Failed() && ctx.ExitCode == config.ExitSuccess {
		ctx.ExitCode = config.ExitFailure
	}
	return ctx
}
