package evaluator

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/typesystem"
)

func (e *Evaluator) validateHostCall(expr ast.Expression, ctx *ExecutionContext) *diagnostics.ErrorList {
	type operand struct {
		expr ast.Expression
		kind ast.PrimitiveKind
	}
	var operands []operand
	switch n := expr.(type) {
	case *ast.OpenExpression:
		operands = []operand{{n.Path, ast.String}, {n.Mode, ast.Int}}
	case *ast.GetByteExpression:
		operands = []operand{{n.Handle, ast.Int}}
	case *ast.CloseExpression:
		operands = []operand{{n.Handle, ast.Int}}
	}

	errs := diagnostics.Empty
	for _, op := range operands {
		errs = diagnostics.Concatenate(errs, e.Validate(op.expr, ctx))
	}
	if !errs.IsEmpty() {
		return errs
	}
	for _, op := range operands {
		source := e.GetTypeSpecifier(op.expr, ctx).Value
		target := ast.Primitive(op.kind)
		result := typesystem.AnalyzeAssignment(source, target, ctx.Types)
		errs = diagnostics.Concatenate(errs, assignmentError(result, diagnostics.ErrArgumentType, op.expr.Pos(), source, target))
	}
	if !errs.IsEmpty() {
		return errs
	}
	return e.GetTypeSpecifier(expr, ctx).Errors
}

// scalarOperand evaluates expr and widens it to kind.
func (e *Evaluator) scalarOperand(expr ast.Expression, kind ast.PrimitiveKind, ctx *ExecutionContext) (typesystem.Value, *diagnostics.ErrorList) {
	r := e.Evaluate(expr, ctx)
	if !r.IsOk() {
		return nil, r.Errors
	}
	return typesystem.ConvertPrimitive(r.Value, kind), diagnostics.Empty
}

func (e *Evaluator) handleOperand(expr ast.Expression, ctx *ExecutionContext) (int, *diagnostics.ErrorList) {
	v, errs := e.scalarOperand(expr, ast.Int, ctx)
	if !errs.IsEmpty() {
		return 0, errs
	}
	i, ok := v.(*typesystem.Integer)
	if !ok {
		return 0, newError(diagnostics.ErrInternal, expr.Pos(), "file handle is not an int")
	}
	return int(i.Value), diagnostics.Empty
}

func (e *Evaluator) evalOpen(n *ast.OpenExpression, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	path, errs := e.scalarOperand(n.Path, ast.String, ctx)
	if !errs.IsEmpty() {
		return valueFailure(errs)
	}
	mode, errs := e.handleOperand(n.Mode, ctx)
	if !errs.IsEmpty() {
		return valueFailure(errs)
	}
	if ctx.Exited() {
		return e.exitedResult(n, ctx)
	}
	handle, err := e.Host.Open(path.(*typesystem.String).Value, mode)
	if err != nil {
		return errorVariant(hostError(err), n, ctx)
	}
	return valueResult(&typesystem.Sum{Tag: config.ResultDataVariant, Payload: &typesystem.Integer{Value: int64(handle)}})
}

func (e *Evaluator) evalGetByte(n *ast.GetByteExpression, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	handle, errs := e.handleOperand(n.Handle, ctx)
	if !errs.IsEmpty() {
		return valueFailure(errs)
	}
	if ctx.Exited() {
		return e.exitedResult(n, ctx)
	}
	b, eof, err := e.Host.GetByte(handle)
	switch {
	case err != nil:
		return errorVariant(hostError(err), n, ctx)
	case eof:
		return valueResult(&typesystem.Sum{Tag: config.ResultEndVariant, Payload: typesystem.TRUE})
	}
	return valueResult(&typesystem.Sum{Tag: config.ResultDataVariant, Payload: &typesystem.Byte{Value: b}})
}

func (e *Evaluator) evalClose(n *ast.CloseExpression, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	handle, errs := e.handleOperand(n.Handle, ctx)
	if !errs.IsEmpty() {
		return valueFailure(errs)
	}
	if ctx.Exited() {
		return e.exitedResult(n, ctx)
	}
	if err := e.Host.Close(handle); err != nil {
		return errorVariant(hostError(err), n, ctx)
	}
	return valueResult(&typesystem.Sum{Tag: config.ResultDataVariant, Payload: &typesystem.Integer{Value: 0}})
}

// errorVariant wraps a host failure as the errors variant holding a
// one-element error_list.
func errorVariant(he *HostError, n ast.Node, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	errType, ok := typesystem.GetTypeAs[*typesystem.RecordType](ctx.Types, config.ErrorTypeName, typesystem.Deep, typesystem.Resolve)
	listType, listOK := typesystem.GetTypeAs[*typesystem.RecordType](ctx.Types, config.ErrorListTypeName, typesystem.Deep, typesystem.Resolve)
	if !ok || !listOK {
		return valueFailure(newError(diagnostics.ErrIOFailure, n.Pos(), "%s", he.Error()))
	}
	item := errType.DefaultValue().(*typesystem.Record).
		With(config.ErrorCodeMember, &typesystem.Integer{Value: int64(he.Code)}).
		With(config.ErrorMessageMember, &typesystem.String{Value: he.Message})
	list := listType.DefaultValue().(*typesystem.Record).With(config.ListDataMember, item)
	return valueResult(&typesystem.Sum{Tag: config.ResultErrorVariant, Payload: list})
}
