package evaluator

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/typesystem"
)

// arrayLiteralType is T[] where T is the declared element type or the type
// of the first element.
func (e *Evaluator) arrayLiteralType(n *ast.ArrayLiteral, ctx *ExecutionContext) diagnostics.Result[ast.TypeSpecifier] {
	element := n.ElementType
	if element == nil {
		if len(n.Elements) == 0 {
			return typeFailure(newError(diagnostics.ErrMissingType, n.Pos(),
				"cannot infer the element type of an empty array"))
		}
		first := e.GetTypeSpecifier(n.Elements[0], ctx)
		if !first.IsOk() {
			return first
		}
		element = first.Value
	} else if def := resolve(element, ctx); !def.IsOk() {
		return typeFailure(def.Errors)
	}
	return typeResult(&ast.ArrayTypeSpecifier{Location: n.Location, Element: element})
}

func (e *Evaluator) validateArrayLiteral(n *ast.ArrayLiteral, ctx *ExecutionContext) *diagnostics.ErrorList {
	errs := diagnostics.Empty
	for _, el := range n.Elements {
		errs = diagnostics.Concatenate(errs, e.Validate(el, ctx))
	}
	if !errs.IsEmpty() {
		return errs
	}
	spec := e.arrayLiteralType(n, ctx)
	if !spec.IsOk() {
		return spec.Errors
	}
	element := spec.Value.(*ast.ArrayTypeSpecifier).Element
	for _, el := range n.Elements {
		elSpec := e.GetTypeSpecifier(el, ctx).Value
		result := typesystem.AnalyzeAssignment(elSpec, element, ctx.Types)
		errs = diagnostics.Concatenate(errs, assignmentError(result, diagnostics.ErrAssignmentType, el.Pos(), elSpec, element))
	}
	return errs
}

func (e *Evaluator) evalArrayLiteral(n *ast.ArrayLiteral, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	spec := e.arrayLiteralType(n, ctx)
	if !spec.IsOk() {
		return valueFailure(spec.Errors)
	}
	element := spec.Value.(*ast.ArrayTypeSpecifier).Element
	arr := &typesystem.Array{Element: element, Elements: make([]typesystem.Value, 0, len(n.Elements))}
	for _, el := range n.Elements {
		v, errs := e.evalTyped(el, ctx)
		if !errs.IsEmpty() {
			return valueFailure(errs)
		}
		converted := convert(v, element, ctx, el)
		if !converted.IsOk() {
			return converted
		}
		arr.Elements = append(arr.Elements, converted.Value)
	}
	return valueResult(arr)
}

// builtinResultType names one of the result sums declared by the builtin
// program; it fails when builtins are not loaded.
func builtinResultType(name string, expr ast.Expression, ctx *ExecutionContext) diagnostics.Result[ast.TypeSpecifier] {
	spec := &ast.ComplexTypeSpecifier{Location: expr.Pos(), Name: name}
	if def := resolve(spec, ctx); !def.IsOk() {
		return typeFailure(def.Errors)
	}
	return typeResult(spec)
}
