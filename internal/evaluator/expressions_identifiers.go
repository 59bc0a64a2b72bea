package evaluator

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/symbols"
	"github.com/funvibe/sumlang/internal/typesystem"
)

// variableType is the declared type of the location v names.
func (e *Evaluator) variableType(v ast.Variable, ctx *ExecutionContext) diagnostics.Result[ast.TypeSpecifier] {
	switch n := v.(type) {
	case *ast.BasicVariable:
		sym := ctx.Lookup(n.Name)
		if sym.IsDefault() {
			return typeFailure(newError(diagnostics.ErrUndeclaredVariable, n.Pos(), "undeclared variable '%s'", n.Name))
		}
		return typeResult(sym.Spec)
	case *ast.MemberVariable:
		container := e.variableType(n.Container, ctx)
		if !container.IsOk() {
			return container
		}
		return memberType(container.Value, n.Member, n, ctx)
	case *ast.IndexVariable:
		container := e.variableType(n.Container, ctx)
		if !container.IsOk() {
			return container
		}
		index := e.GetTypeSpecifier(n.Index, ctx)
		if !index.IsOk() {
			return index
		}
		return elementType(container.Value, index.Value, n, ctx)
	}
	return typeFailure(newError(diagnostics.ErrInternal, v.Pos(), "unknown variable %T", v))
}

func (e *Evaluator) validateVariable(v ast.Variable, ctx *ExecutionContext) *diagnostics.ErrorList {
	errs := diagnostics.Empty
	for cur := v; cur != nil; {
		switch n := cur.(type) {
		case *ast.IndexVariable:
			errs = diagnostics.Concatenate(e.Validate(n.Index, ctx), errs)
			cur = n.Container
		case *ast.MemberVariable:
			cur = n.Container
		default:
			cur = nil
		}
	}
	if !errs.IsEmpty() {
		return errs
	}
	return e.variableType(v, ctx).Errors
}

// readVariable loads the current value at v. Functions read from a scope
// come out with strong closure links.
func (e *Evaluator) readVariable(v ast.Variable, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	switch n := v.(type) {
	case *ast.BasicVariable:
		sym := ctx.Lookup(n.Name)
		if sym.IsDefault() {
			return valueFailure(newError(diagnostics.ErrUndeclaredVariable, n.Pos(), "undeclared variable '%s'", n.Name))
		}
		value := strengthen(sym.Value)
		if expired(value) {
			return valueFailure(newError(diagnostics.ErrClosureExpired, n.Pos(),
				"the scope captured by '%s' no longer exists", n.Name))
		}
		return valueResult(value)
	case *ast.MemberVariable:
		return e.readMember(n, ctx)
	case *ast.IndexVariable:
		return e.readIndex(n, ctx)
	}
	return valueFailure(newError(diagnostics.ErrInternal, v.Pos(), "unknown variable %T", v))
}

func expired(value typesystem.Value) bool {
	switch fn := value.(type) {
	case *Function:
		return fn.IsWeak()
	case *VariantFunction:
		for _, v := range fn.Variants {
			if v.IsWeak() {
				return true
			}
		}
	}
	return false
}

// writeVariable stores value, already of v's declared type, at v. Member and
// index writes rebuild the enclosing values and store the new root.
func (e *Evaluator) writeVariable(v ast.Variable, value typesystem.Value, ctx *ExecutionContext) *diagnostics.ErrorList {
	switch n := v.(type) {
	case *ast.BasicVariable:
		owner := ctx.Symbols.Owner(n.Name)
		if owner == nil {
			return newError(diagnostics.ErrUndeclaredVariable, n.Pos(), "undeclared variable '%s'", n.Name)
		}
		sym := owner.GetSymbol(n.Name, symbols.Shallow)
		switch ctx.Symbols.SetSymbol(n.Name, sym.Spec, weakenFor(value, owner), ctx.Types) {
		case symbols.SetSuccess:
			return diagnostics.Empty
		case symbols.MutationDisallowed:
			return newError(diagnostics.ErrRuntimeSymbolMutation, n.Pos(), "'%s' is read-only", n.Name)
		default:
			return newError(diagnostics.ErrRuntimeSymbolMutation, n.Pos(), "cannot store '%s' into '%s'", value.Inspect(), n.Name)
		}
	case *ast.MemberVariable:
		return e.writeMember(n, value, ctx)
	case *ast.IndexVariable:
		return e.writeIndex(n, value, ctx)
	}
	return newError(diagnostics.ErrInternal, v.Pos(), "unknown variable %T", v)
}
