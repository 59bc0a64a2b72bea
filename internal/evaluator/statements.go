package evaluator

import (
	"fmt"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/diagnostics"
)

// preprocessStatements analyzes stmts in ctx. returnType is the declared
// return type of the enclosing function, nil at the top level. Analysis
// continues past failing statements so every error is reported.
func (e *Evaluator) preprocessStatements(stmts []ast.Statement, ctx *ExecutionContext, returnType ast.TypeSpecifier) PreprocessResult {
	coverage := CoverageNone
	errs := diagnostics.Empty
	for _, stmt := range stmts {
		res := e.preprocessStatement(stmt, ctx, returnType)
		coverage = coverage.sequence(res.Coverage)
		errs = diagnostics.Concatenate(errs, res.Errors)
	}
	return preprocessed(coverage, errs)
}

func (e *Evaluator) preprocessStatement(stmt ast.Statement, ctx *ExecutionContext, returnType ast.TypeSpecifier) PreprocessResult {
	switch n := stmt.(type) {
	case *ast.StatementBlock:
		return e.preprocessBlock(n, ctx, returnType)
	case *ast.DeclarationStatement:
		return preprocessed(CoverageNone, e.preprocessDeclaration(n, ctx))
	case *ast.RecordTypeDeclaration:
		return preprocessed(CoverageNone, e.preprocessRecord(n, ctx))
	case *ast.SumTypeDeclaration:
		return preprocessed(CoverageNone, e.preprocessSum(n, ctx))
	case *ast.AssignmentStatement:
		return preprocessed(CoverageNone, e.preprocessAssignment(n, ctx))
	case *ast.InvokeStatement:
		return preprocessed(CoverageNone, e.Validate(n.Call, ctx))
	case *ast.PrintStatement:
		return preprocessed(CoverageNone, e.Validate(n.Value, ctx))
	case *ast.IfStatement:
		return e.preprocessIf(n, ctx, returnType)
	case *ast.WhileStatement:
		return e.preprocessWhile(n, ctx, returnType)
	case *ast.ForStatement:
		return e.preprocessFor(n, ctx, returnType)
	case *ast.ForeachStatement:
		return e.preprocessForeach(n, ctx, returnType)
	case *ast.MatchStatement:
		return e.preprocessMatch(n, ctx, returnType)
	case *ast.ReturnStatement:
		return preprocessed(CoverageFull, e.preprocessReturn(n, ctx, returnType))
	case *ast.ExitStatement:
		return preprocessed(CoverageFull, e.preprocessExit(n, ctx))
	}
	return preprocessed(CoverageNone, newError(diagnostics.ErrInternal, stmt.Pos(), "unknown statement %T", stmt))
}

// preprocessBlock analyzes block in a scope of its own, kept as the static
// template its runtime instances are copied from.
func (e *Evaluator) preprocessBlock(block *ast.StatementBlock, parent *ExecutionContext, returnType ast.TypeSpecifier) PreprocessResult {
	scope := parent.Child()
	e.scopes[block] = scope
	return e.preprocessStatements(block.Statements, scope, returnType)
}

// executeStatements runs stmts in order and stops at the first error,
// return or exit.
func (e *Evaluator) executeStatements(stmts []ast.Statement, ctx *ExecutionContext) *diagnostics.ErrorList {
	for _, stmt := range stmts {
		if ctx.Halted() {
			break
		}
		errs := e.executeStatement(stmt, ctx)
		if ctx.Exited() {
			// Anything reported after exit comes from placeholder values.
			return diagnostics.Empty
		}
		if !errs.IsEmpty() {
			return errs
		}
	}
	return diagnostics.Empty
}

func (e *Evaluator) executeStatement(stmt ast.Statement, ctx *ExecutionContext) *diagnostics.ErrorList {
	switch n := stmt.(type) {
	case *ast.StatementBlock:
		return e.executeBlock(n, ctx)
	case *ast.DeclarationStatement:
		return e.executeDeclaration(n, ctx)
	case *ast.RecordTypeDeclaration, *ast.SumTypeDeclaration:
		// Types and constructors are fixed during analysis.
		return diagnostics.Empty
	case *ast.AssignmentStatement:
		return e.executeAssignment(n, ctx)
	case *ast.InvokeStatement:
		return e.Evaluate(n.Call, ctx).Errors
	case *ast.PrintStatement:
		return e.executePrint(n, ctx)
	case *ast.IfStatement:
		return e.executeIf(n, ctx)
	case *ast.WhileStatement:
		return e.executeWhile(n, ctx)
	case *ast.ForStatement:
		return e.executeFor(n, ctx)
	case *ast.ForeachStatement:
		return e.executeForeach(n, ctx)
	case *ast.MatchStatement:
		return e.executeMatch(n, ctx)
	case *ast.ReturnStatement:
		return e.executeReturn(n, ctx)
	case *ast.ExitStatement:
		return e.executeExit(n, ctx)
	}
	return newError(diagnostics.ErrInternal, stmt.Pos(), "unknown statement %T", stmt)
}

// executeBlock runs a fresh instance of the analyzed block inside live.
func (e *Evaluator) executeBlock(block *ast.StatementBlock, live *ExecutionContext) *diagnostics.ErrorList {
	static, ok := e.scopes[block]
	if !ok {
		return newError(diagnostics.ErrInternal, block.Pos(), "block was not analyzed")
	}
	return e.executeStatements(block.Statements, instance(static, live))
}

func (e *Evaluator) executePrint(n *ast.PrintStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	s := e.ToString(n.Value, ctx)
	if !s.IsOk() || ctx.Exited() {
		return s.Errors
	}
	if _, err := fmt.Fprintln(e.Out, s.Value); err != nil {
		return newError(diagnostics.ErrIOFailure, n.Pos(), "print: %v", err)
	}
	return diagnostics.Empty
}
