package loader

import (
	"fmt"
	"os"

	"github.com/funvibe/sumlang/internal/pipeline"
)

// Processor decodes ctx.SourceCode, reading it from ctx.FilePath first when
// it is empty. A context that already carries a program is left alone.
type Processor struct{}

func (lp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program != nil || ctx.Err != nil {
		return ctx
	}
	if len(ctx.SourceCode) == 0 && ctx.FilePath != "" {
		data, err := os.ReadFile(ctx.FilePath)
		if err != nil {
			ctx.Err = fmt.Errorf("reading program %s: %w", ctx.FilePath, err)
			return ctx
		}
		ctx.SourceCode = data
	}
	program, err := Decode(ctx.SourceCode, ctx.FilePath)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Program = program
	return ctx
}
