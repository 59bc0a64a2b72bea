package evaluator

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/typesystem"
)

// GetTypeSpecifier computes the static type of expr in ctx. It fails only
// when the type cannot be determined; deeper checks belong to Validate.
func (e *Evaluator) GetTypeSpecifier(expr ast.Expression, ctx *ExecutionContext) diagnostics.Result[ast.TypeSpecifier] {
	switch n := expr.(type) {
	case *ast.BoolLiteral:
		return typeResult(ast.Primitive(ast.Boolean))
	case *ast.ByteLiteral:
		return typeResult(ast.Primitive(ast.Byte))
	case *ast.IntLiteral:
		return typeResult(ast.Primitive(ast.Int))
	case *ast.DoubleLiteral:
		return typeResult(ast.Primitive(ast.Double))
	case *ast.StringLiteral:
		return typeResult(ast.Primitive(ast.String))
	case *ast.NilLiteral:
		return typeResult(ast.Primitive(ast.Nil))
	case *ast.ArrayLiteral:
		return e.arrayLiteralType(n, ctx)
	case *ast.VariableExpression:
		return e.variableType(n.Variable, ctx)
	case *ast.UnaryExpression:
		return e.unaryType(n, ctx)
	case *ast.BinaryExpression:
		return e.binaryType(n, ctx)
	case *ast.FunctionExpression:
		return typeResult(n.Type)
	case *ast.VariantFunctionExpression:
		return typeResult(variantFunctionSpec(n))
	case *ast.InvokeExpression:
		return e.invokeType(n, ctx)
	case *ast.DefaultValueExpression:
		if def := resolve(n.Type, ctx); !def.IsOk() {
			return typeFailure(def.Errors)
		}
		return typeResult(n.Type)
	case *ast.OpenExpression, *ast.CloseExpression:
		return builtinResultType(config.IntResultTypeName, expr, ctx)
	case *ast.GetByteExpression:
		return builtinResultType(config.ByteResultTypeName, expr, ctx)
	}
	return typeFailure(newError(diagnostics.ErrInternal, expr.Pos(), "unknown expression %T", expr))
}

// Validate reports every semantic error in expr. Children are validated
// first; a node whose children failed reports nothing of its own, so each
// problem is reported once.
func (e *Evaluator) Validate(expr ast.Expression, ctx *ExecutionContext) *diagnostics.ErrorList {
	switch n := expr.(type) {
	case *ast.BoolLiteral, *ast.ByteLiteral, *ast.IntLiteral, *ast.DoubleLiteral, *ast.StringLiteral, *ast.NilLiteral:
		return diagnostics.Empty
	case *ast.ArrayLiteral:
		return e.validateArrayLiteral(n, ctx)
	case *ast.VariableExpression:
		return e.validateVariable(n.Variable, ctx)
	case *ast.UnaryExpression:
		if errs := e.Validate(n.Operand, ctx); !errs.IsEmpty() {
			return errs
		}
		return e.unaryType(n, ctx).Errors
	case *ast.BinaryExpression:
		return e.validateBinary(n, ctx)
	case *ast.FunctionExpression:
		return e.preprocessFunction(n, ctx)
	case *ast.VariantFunctionExpression:
		errs := diagnostics.Empty
		for _, variant := range n.Variants {
			errs = diagnostics.Concatenate(errs, e.preprocessFunction(variant, ctx))
		}
		return errs
	case *ast.InvokeExpression:
		return e.validateInvoke(n, ctx)
	case *ast.DefaultValueExpression:
		return e.GetTypeSpecifier(n, ctx).Errors
	case *ast.OpenExpression, *ast.GetByteExpression, *ast.CloseExpression:
		return e.validateHostCall(n, ctx)
	}
	return newError(diagnostics.ErrInternal, expr.Pos(), "unknown expression %T", expr)
}

// Evaluate computes the value of an analyzed expression.
func (e *Evaluator) Evaluate(expr ast.Expression, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	switch n := expr.(type) {
	case *ast.BoolLiteral:
		return valueResult(typesystem.NativeBool(n.Value))
	case *ast.ByteLiteral:
		return valueResult(&typesystem.Byte{Value: n.Value})
	case *ast.IntLiteral:
		return valueResult(&typesystem.Integer{Value: n.Value})
	case *ast.DoubleLiteral:
		return valueResult(&typesystem.Double{Value: n.Value})
	case *ast.StringLiteral:
		return valueResult(&typesystem.String{Value: n.Value})
	case *ast.NilLiteral:
		return valueResult(typesystem.NilValue)
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(n, ctx)
	case *ast.VariableExpression:
		return e.readVariable(n.Variable, ctx)
	case *ast.UnaryExpression:
		return e.evalUnary(n, ctx)
	case *ast.BinaryExpression:
		return e.evalBinary(n, ctx)
	case *ast.FunctionExpression:
		return valueResult(&Function{Literal: n, closure: capture(ctx)})
	case *ast.VariantFunctionExpression:
		fn := &VariantFunction{Spec: variantFunctionSpec(n)}
		for _, variant := range n.Variants {
			fn.Variants = append(fn.Variants, &Function{Literal: variant, closure: capture(ctx)})
		}
		return valueResult(fn)
	case *ast.InvokeExpression:
		return e.evalInvoke(n, ctx)
	case *ast.DefaultValueExpression:
		return valueResult(defaultValue(n.Type, ctx))
	case *ast.OpenExpression:
		return e.evalOpen(n, ctx)
	case *ast.GetByteExpression:
		return e.evalGetByte(n, ctx)
	case *ast.CloseExpression:
		return e.evalClose(n, ctx)
	}
	return valueFailure(newError(diagnostics.ErrInternal, expr.Pos(), "unknown expression %T", expr))
}

// IsConstant reports whether expr always yields the same value regardless of
// scope. Only constant expressions may appear as member or parameter defaults
// and only constant initializers are folded during analysis.
func IsConstant(expr ast.Expression) bool {
	switch n := expr.(type) {
	case *ast.BoolLiteral, *ast.ByteLiteral, *ast.IntLiteral, *ast.DoubleLiteral, *ast.StringLiteral, *ast.NilLiteral:
		return true
	case *ast.DefaultValueExpression:
		return true
	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			if !IsConstant(el) {
				return false
			}
		}
		return true
	case *ast.UnaryExpression:
		return IsConstant(n.Operand)
	case *ast.BinaryExpression:
		return IsConstant(n.Left) && IsConstant(n.Right)
	}
	return false
}

// ToString evaluates expr and renders it the way print does.
func (e *Evaluator) ToString(expr ast.Expression, ctx *ExecutionContext) diagnostics.Result[string] {
	r := e.Evaluate(expr, ctx)
	if !r.IsOk() {
		return diagnostics.Fail[string](r.Errors)
	}
	return diagnostics.Ok(r.Value.Inspect())
}

func variantFunctionSpec(n *ast.VariantFunctionExpression) *ast.VariantFunctionTypeSpecifier {
	spec := &ast.VariantFunctionTypeSpecifier{Location: n.Location}
	for _, variant := range n.Variants {
		spec.Variants = append(spec.Variants, variant.Type)
	}
	return spec
}

// typedValue is a value frozen together with its static type.
type typedValue struct {
	value typesystem.Value
	spec  ast.TypeSpecifier
}

// evalTyped evaluates expr and captures its static type.
func (e *Evaluator) evalTyped(expr ast.Expression, ctx *ExecutionContext) (typedValue, *diagnostics.ErrorList) {
	spec := e.GetTypeSpecifier(expr, ctx)
	if !spec.IsOk() {
		return typedValue{}, spec.Errors
	}
	r := e.Evaluate(expr, ctx)
	if !r.IsOk() {
		return typedValue{value: r.Value, spec: spec.Value}, r.Errors
	}
	return typedValue{value: r.Value, spec: spec.Value}, diagnostics.Empty
}

// convert widens v into target, reporting an internal error when analysis
// should have excluded the conversion.
func convert(v typedValue, target ast.TypeSpecifier, ctx *ExecutionContext, expr ast.Node) diagnostics.Result[typesystem.Value] {
	out, ok := typesystem.Convert(v.value, v.spec, target, ctx.Types)
	if !ok {
		return valueFailure(newError(diagnostics.ErrInternal, expr.Pos(),
			"cannot convert '%s' to '%s'", v.spec, target))
	}
	return valueResult(out)
}
