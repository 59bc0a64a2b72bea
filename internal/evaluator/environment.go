package evaluator

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/symbols"
	"github.com/funvibe/sumlang/internal/typesystem"
)

// activation holds the return signal of one function call. Every context
// created inside the call shares it, so a return in a nested block is seen
// by all enclosing blocks and loops.
type activation struct {
	returned bool
	value    typesystem.Value
	spec     ast.TypeSpecifier
}

// run holds the exit signal of a whole program run.
type run struct {
	exited bool
	code   int
}

// ExecutionContext pairs a symbol scope with a type scope and carries the
// one-shot return and exit signals.
type ExecutionContext struct {
	Symbols *symbols.SymbolContext
	Types   *typesystem.TypeTable

	activation *activation
	run        *run
}

// NewExecutionContext creates a root context for a program run.
func NewExecutionContext(parent *ExecutionContext) *ExecutionContext {
	if parent == nil {
		return &ExecutionContext{
			Symbols:    symbols.New(symbols.Mutable),
			Types:      typesystem.NewTypeTable(nil),
			activation: &activation{},
			run:        &run{},
		}
	}
	return &ExecutionContext{
		Symbols:    symbols.New(symbols.Mutable, parent.Symbols),
		Types:      typesystem.NewTypeTable(parent.Types),
		activation: parent.activation,
		run:        parent.run,
	}
}

// Child opens a nested lexical scope sharing the signals of c.
func (c *ExecutionContext) Child() *ExecutionContext {
	return NewExecutionContext(c)
}

// instance builds the runtime copy of a statically analyzed scope: its
// bindings are copied, its lookups go through live, and it shares live's
// signals. Types are fixed after analysis and are shared.
func instance(static, live *ExecutionContext, extra ...*symbols.SymbolContext) *ExecutionContext {
	parents := append([]*symbols.SymbolContext{live.Symbols}, extra...)
	return &ExecutionContext{
		Symbols:    static.Symbols.Copy(parents...),
		Types:      static.Types,
		activation: live.activation,
		run:        live.run,
	}
}

// SetReturnValue records the value of the current function activation.
// It reports false if a value was already set.
func (c *ExecutionContext) SetReturnValue(value typesystem.Value, spec ast.TypeSpecifier) bool {
	if c.activation.returned {
		return false
	}
	c.activation.returned = true
	c.activation.value = value
	c.activation.spec = spec
	return true
}

func (c *ExecutionContext) ReturnValue() (typesystem.Value, ast.TypeSpecifier, bool) {
	return c.activation.value, c.activation.spec, c.activation.returned
}

// SetExitCode records the program exit code. It reports false if a code was
// already set.
func (c *ExecutionContext) SetExitCode(code int) bool {
	if c.run.exited {
		return false
	}
	c.run.exited = true
	c.run.code = code
	return true
}

func (c *ExecutionContext) ExitCode() (int, bool) {
	return c.run.code, c.run.exited
}

// Exited reports whether the program has set its exit code. Values computed
// after that point are placeholders and no statement may commit them.
func (c *ExecutionContext) Exited() bool {
	return c.run.exited
}

// Halted reports whether normal progression must stop.
func (c *ExecutionContext) Halted() bool {
	return c.activation.returned || c.run.exited
}

// Lookup is a deep symbol lookup.
func (c *ExecutionContext) Lookup(name string) *typesystem.Symbol {
	return c.Symbols.GetSymbol(name, symbols.Deep)
}
