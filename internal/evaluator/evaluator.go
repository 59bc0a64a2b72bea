package evaluator

import (
	"io"
	"os"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/symbols"
	"github.com/funvibe/sumlang/internal/token"
)

// CallFrame represents a single frame in the call stack
type CallFrame struct {
	Name string
	Pos  token.Position
}

// Evaluator analyzes and runs programs. It is not safe for concurrent use.
type Evaluator struct {
	Options *config.Options
	Host    Host
	Out     io.Writer

	// CallStack bounds recursion and names the active calls in diagnostics.
	CallStack []CallFrame

	// scopes maps blocks, loop headers, match arms and function literals to
	// the static context built for them during Preprocess. Execute copies
	// these into fresh runtime instances.
	scopes map[ast.Node]*ExecutionContext
	// functions records function literals whose bodies have been preprocessed.
	functions map[*ast.FunctionExpression]bool
}

func New(opts *config.Options, host Host, out io.Writer) *Evaluator {
	if opts == nil {
		opts = config.DefaultOptions()
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = config.DefaultMaxCallDepth
	}
	if host == nil {
		host = NewOSHost()
	}
	if out == nil {
		out = os.Stdout
	}
	return &Evaluator{
		Options:   opts,
		Host:      host,
		Out:       out,
		scopes:    make(map[ast.Node]*ExecutionContext),
		functions: make(map[*ast.FunctionExpression]bool),
	}
}

// NewGlobalContext returns the context user programs run in. When builtins
// are enabled it is a child of the frozen builtin context. It starts a new
// run: contexts returned earlier must not be used afterwards.
func (e *Evaluator) NewGlobalContext() (*ExecutionContext, *diagnostics.ErrorList) {
	e.scopes = make(map[ast.Node]*ExecutionContext)
	e.functions = make(map[*ast.FunctionExpression]bool)
	e.CallStack = nil

	root := NewExecutionContext(nil)
	if !e.Options.BuiltinsEnabled() {
		return root, diagnostics.Empty
	}
	program := BuiltinProgram(e.pathSeparator())
	if res := e.Preprocess(program, root); !res.Errors.IsEmpty() {
		return nil, res.Errors
	}
	if errs := e.Execute(program, root); !errs.IsEmpty() {
		return nil, errs
	}
	root.Symbols.SetModifier(symbols.ReadOnly)
	return root.Child(), diagnostics.Empty
}

func (e *Evaluator) pathSeparator() string {
	if e.Options.PathSeparator != "" {
		return e.Options.PathSeparator
	}
	return e.Host.PathSeparator()
}

// Run analyzes and executes a program in a fresh global context. Analysis
// errors are returned in source order and nothing is executed.
func (e *Evaluator) Run(program *ast.StatementBlock) (int, *diagnostics.ErrorList) {
	ctx, errs := e.NewGlobalContext()
	if !errs.IsEmpty() {
		return config.ExitFailure, errs
	}
	if res := e.Preprocess(program, ctx); !res.Errors.IsEmpty() {
		return config.ExitFailure, res.Errors
	}
	if errs := e.Execute(program, ctx); !errs.IsEmpty() {
		return config.ExitFailure, errs
	}
	if code, ok := ctx.ExitCode(); ok {
		return code, diagnostics.Empty
	}
	return config.ExitSuccess, diagnostics.Empty
}

// Preprocess analyzes a whole program directly in ctx.
func (e *Evaluator) Preprocess(program *ast.StatementBlock, ctx *ExecutionContext) PreprocessResult {
	return e.preprocessStatements(program.Statements, ctx, nil)
}

// Execute runs an analyzed program directly in ctx.
func (e *Evaluator) Execute(program *ast.StatementBlock, ctx *ExecutionContext) *diagnostics.ErrorList {
	return e.executeStatements(program.Statements, ctx)
}
