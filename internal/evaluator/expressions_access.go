package evaluator

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/typesystem"
)

func memberType(container ast.TypeSpecifier, member string, node ast.Node, ctx *ExecutionContext) diagnostics.Result[ast.TypeSpecifier] {
	def := resolve(container, ctx)
	if !def.IsOk() {
		return typeFailure(def.Errors)
	}
	rec, ok := def.Value.(*typesystem.RecordType)
	if !ok {
		return typeFailure(newError(diagnostics.ErrInvalidMemberAccess, node.Pos(),
			"type '%s' has no members", container))
	}
	alias, ok := rec.Member(member)
	if !ok {
		return typeFailure(newError(diagnostics.ErrUndeclaredMember, node.Pos(),
			"type '%s' has no member '%s'", container, member))
	}
	return typeResult(alias.Target)
}

func elementType(container, index ast.TypeSpecifier, node ast.Node, ctx *ExecutionContext) diagnostics.Result[ast.TypeSpecifier] {
	def := resolve(container, ctx)
	if !def.IsOk() {
		return typeFailure(def.Errors)
	}
	arr, ok := def.Value.(*typesystem.ArrayType)
	if !ok {
		return typeFailure(newError(diagnostics.ErrNotIndexable, node.Pos(), "type '%s' cannot be indexed", container))
	}
	if kind, ok := primitiveKind(index, ctx); !ok || (kind != ast.Int && kind != ast.Byte) {
		return typeFailure(newError(diagnostics.ErrInvalidIndexType, node.Pos(),
			"array index must be an int, got '%s'", index))
	}
	return typeResult(arr.Element)
}

func (e *Evaluator) readRecord(v ast.Variable, ctx *ExecutionContext) (*typesystem.Record, *diagnostics.ErrorList) {
	container := e.readVariable(v, ctx)
	if !container.IsOk() {
		return nil, container.Errors
	}
	rec, ok := container.Value.(*typesystem.Record)
	if !ok {
		return nil, newError(diagnostics.ErrInternal, v.Pos(), "'%s' does not hold a record", v)
	}
	return rec, diagnostics.Empty
}

func (e *Evaluator) readMember(n *ast.MemberVariable, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	rec, errs := e.readRecord(n.Container, ctx)
	if !errs.IsEmpty() {
		return valueFailure(errs)
	}
	value, ok := rec.Get(n.Member)
	if !ok {
		return valueFailure(newError(diagnostics.ErrInternal, n.Pos(), "record has no member '%s'", n.Member))
	}
	return valueResult(value)
}

func (e *Evaluator) writeMember(n *ast.MemberVariable, value typesystem.Value, ctx *ExecutionContext) *diagnostics.ErrorList {
	rec, errs := e.readRecord(n.Container, ctx)
	if !errs.IsEmpty() {
		return errs
	}
	return e.writeVariable(n.Container, rec.With(n.Member, value), ctx)
}

// readArray loads the array at v and evaluates the index.
func (e *Evaluator) readArray(n *ast.IndexVariable, ctx *ExecutionContext) (*typesystem.Array, int, *diagnostics.ErrorList) {
	container := e.readVariable(n.Container, ctx)
	if !container.IsOk() {
		return nil, 0, container.Errors
	}
	arr, ok := container.Value.(*typesystem.Array)
	if !ok {
		return nil, 0, newError(diagnostics.ErrInternal, n.Pos(), "'%s' does not hold an array", n.Container)
	}
	index := e.Evaluate(n.Index, ctx)
	if !index.IsOk() {
		return nil, 0, index.Errors
	}
	switch i := index.Value.(type) {
	case *typesystem.Integer:
		return arr, int(i.Value), diagnostics.Empty
	case *typesystem.Byte:
		return arr, int(i.Value), diagnostics.Empty
	}
	return nil, 0, newError(diagnostics.ErrInternal, n.Index.Pos(), "index is not an integer")
}

func (e *Evaluator) readIndex(n *ast.IndexVariable, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	arr, i, errs := e.readArray(n, ctx)
	if !errs.IsEmpty() {
		return valueFailure(errs)
	}
	if i < 0 || i >= arr.Len() {
		return valueFailure(newError(diagnostics.ErrIndexOutOfBounds, n.Pos(),
			"index %d out of bounds for length %d", i, arr.Len()))
	}
	return valueResult(arr.Elements[i])
}

// writeIndex replaces an element. A variable-size array grows by one when
// written at its length.
func (e *Evaluator) writeIndex(n *ast.IndexVariable, value typesystem.Value, ctx *ExecutionContext) *diagnostics.ErrorList {
	arr, i, errs := e.readArray(n, ctx)
	if !errs.IsEmpty() {
		return errs
	}
	limit := arr.Len()
	if !arr.FixedSize {
		limit++
	}
	if i < 0 || i >= limit {
		return newError(diagnostics.ErrIndexOutOfBounds, n.Pos(),
			"index %d out of bounds for length %d", i, arr.Len())
	}
	return e.writeVariable(n.Container, arr.With(i, value), ctx)
}
