package evaluator

import (
	"bytes"
	"testing"

	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/loader"
	"github.com/funvibe/sumlang/internal/pipeline"
)

func runPipeline(src string, out *bytes.Buffer) *pipeline.PipelineContext {
	p := pipeline.New(
		&loader.Processor{},
		&PreprocessProcessor{Host: newFakeHost(nil), Out: out},
		&ExecuteProcessor{},
	)
	return p.Run(pipeline.NewPipelineContext(src))
}

func TestPipeline(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantOut  string
		wantCode int
		wantErr  diagnostics.ErrorCode
	}{
		{
			name:    "runs",
			src:     "- print: {\"*\": [6, 7]}\n",
			wantOut: "42\n",
		},
		{
			name:     "exit code",
			src:      "- print: 'bye'\n- exit: 4\n",
			wantOut:  "bye\n",
			wantCode: 4,
		},
		{
			name:     "analysis error stops execution",
			src:      "- print: 'never'\n- print: missing\n",
			wantCode: 1,
			wantErr:  diagnostics.ErrUndeclaredVariable,
		},
		{
			name:     "runtime error",
			src:      "- declare: {name: a, init: [1]}\n- print: 'ok'\n- print: a[3]\n",
			wantOut:  "ok\n",
			wantCode: 1,
			wantErr:  diagnostics.ErrIndexOutOfBounds,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			ctx := runPipeline(tt.src, &out)
			if ctx.Err != nil {
				t.Fatalf("pipeline error = %v", ctx.Err)
			}
			if got := out.String(); got != tt.wantOut {
				t.Errorf("output = %q, want %q", got, tt.wantOut)
			}
			if ctx.ExitCode != tt.wantCode {
				t.Errorf("exit code = %d, want %d", ctx.ExitCode, tt.wantCode)
			}
			if tt.wantErr == "" {
				if !ctx.Errors.IsEmpty() {
					t.Errorf("unexpected errors:\n%v", ctx.Errors)
				}
				return
			}
			expectCodes(t, ctx.Errors, tt.wantErr)
		})
	}
}

func TestPipelineDecodeFailure(t *testing.T) {
	var out bytes.Buffer
	ctx := runPipeline("- jump: 1\n", &out)
	if ctx.Err == nil {
		t.Fatal("expected a decode error")
	}
	if ctx.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", ctx.ExitCode)
	}
	if _, ok := ctx.Runtime.(*session); ok {
		t.Error("analysis must not run after a decode error")
	}
}
