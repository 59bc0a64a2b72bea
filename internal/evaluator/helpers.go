package evaluator

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/token"
	"github.com/funvibe/sumlang/internal/typesystem"
)

// ReturnCoverage approximates whether every path through a statement returns.
type ReturnCoverage int

const (
	CoverageNone ReturnCoverage = iota
	CoveragePartial
	CoverageFull
)

func (c ReturnCoverage) String() string {
	switch c {
	case CoverageFull:
		return "FULL"
	case CoveragePartial:
		return "PARTIAL"
	default:
		return "NONE"
	}
}

// sequence merges the coverage of consecutive statements.
func (c ReturnCoverage) sequence(next ReturnCoverage) ReturnCoverage {
	if next > c {
		return next
	}
	return c
}

// branch merges the coverage of alternative paths: full only if all are.
func branch(paths ...ReturnCoverage) ReturnCoverage {
	if len(paths) == 0 {
		return CoverageNone
	}
	all, some := true, false
	for _, p := range paths {
		all = all && p == CoverageFull
		some = some || p != CoverageNone
	}
	switch {
	case all:
		return CoverageFull
	case some:
		return CoveragePartial
	}
	return CoverageNone
}

// loopBody caps coverage of a body that may run zero times.
func loopBody(c ReturnCoverage) ReturnCoverage {
	if c == CoverageFull {
		return CoveragePartial
	}
	return c
}

// PreprocessResult is the outcome of analyzing one statement.
type PreprocessResult struct {
	Coverage ReturnCoverage
	Errors   *diagnostics.ErrorList
}

func preprocessed(c ReturnCoverage, errs *diagnostics.ErrorList) PreprocessResult {
	if errs == nil {
		errs = diagnostics.Empty
	}
	return PreprocessResult{Coverage: c, Errors: errs}
}

func newError(code diagnostics.ErrorCode, pos token.Position, format string, args ...interface{}) *diagnostics.ErrorList {
	return diagnostics.Single(code, pos, format, args...)
}

// assignmentError maps a failed widening analysis to a diagnostic.
// code is the error used for plain incompatibility.
func assignmentError(result typesystem.AnalysisResult, code diagnostics.ErrorCode, pos token.Position, source, target ast.TypeSpecifier) *diagnostics.ErrorList {
	switch result {
	case typesystem.Ambiguous:
		return newError(diagnostics.ErrAmbiguousWidening, pos,
			"widening '%s' into '%s' is ambiguous", source, target)
	case typesystem.Incompatible:
		return newError(code, pos, "cannot assign '%s' to '%s'", source, target)
	}
	return diagnostics.Empty
}

func typeResult(spec ast.TypeSpecifier) diagnostics.Result[ast.TypeSpecifier] {
	return diagnostics.Ok(spec)
}

func typeFailure(errs *diagnostics.ErrorList) diagnostics.Result[ast.TypeSpecifier] {
	return diagnostics.Fail[ast.TypeSpecifier](errs)
}

func valueResult(v typesystem.Value) diagnostics.Result[typesystem.Value] {
	return diagnostics.Ok(v)
}

func valueFailure(errs *diagnostics.ErrorList) diagnostics.Result[typesystem.Value] {
	return diagnostics.Fail[typesystem.Value](errs)
}

// resolve is GetType with alias resolution against ctx.
func resolve(spec ast.TypeSpecifier, ctx *ExecutionContext) diagnostics.Result[typesystem.TypeDefinition] {
	return typesystem.GetType(spec, ctx.Types, typesystem.Resolve)
}

func primitiveKind(spec ast.TypeSpecifier, ctx *ExecutionContext) (ast.PrimitiveKind, bool) {
	def := resolve(spec, ctx)
	if !def.IsOk() {
		return 0, false
	}
	p, ok := def.Value.(*typesystem.PrimitiveType)
	if !ok {
		return 0, false
	}
	return p.Kind, true
}

// placeholder is the value an expression of type spec yields when it could
// not run to completion: a call that exited or returned nothing.
func placeholder(spec ast.TypeSpecifier, ctx *ExecutionContext) typesystem.Value {
	if ast.IsUnit(spec) {
		return typesystem.UNIT
	}
	return defaultValue(spec, ctx)
}

// exitedResult stands in for expr once the program has exited. Statements
// discard it.
func (e *Evaluator) exitedResult(expr ast.Expression, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	spec := e.GetTypeSpecifier(expr, ctx)
	if !spec.IsOk() {
		return valueResult(typesystem.UNIT)
	}
	return valueResult(placeholder(spec.Value, ctx))
}

func defaultValue(spec ast.TypeSpecifier, ctx *ExecutionContext) typesystem.Value {
	def := resolve(spec, ctx)
	if !def.IsOk() {
		return typesystem.UNIT
	}
	return def.Value.DefaultValue()
}
