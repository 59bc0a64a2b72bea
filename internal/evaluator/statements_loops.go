package evaluator

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/symbols"
	"github.com/funvibe/sumlang/internal/typesystem"
)

func (e *Evaluator) preprocessWhile(n *ast.WhileStatement, ctx *ExecutionContext, returnType ast.TypeSpecifier) PreprocessResult {
	errs := e.checkCondition(n.Condition, ctx)
	body := e.preprocessBlock(n.Body, ctx, returnType)
	return preprocessed(loopBody(body.Coverage), diagnostics.Concatenate(errs, body.Errors))
}

func (e *Evaluator) executeWhile(n *ast.WhileStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	for !ctx.Halted() {
		ok, errs := e.condition(n.Condition, ctx)
		if !errs.IsEmpty() {
			return errs
		}
		if !ok {
			break
		}
		if errs := e.executeBlock(n.Body, ctx); !errs.IsEmpty() {
			return errs
		}
	}
	return diagnostics.Empty
}

// preprocessFor analyzes the loop header in a scope of its own; the body
// is nested inside it.
func (e *Evaluator) preprocessFor(n *ast.ForStatement, ctx *ExecutionContext, returnType ast.TypeSpecifier) PreprocessResult {
	header := ctx.Child()
	e.scopes[n] = header

	coverage := CoverageNone
	errs := diagnostics.Empty
	if n.Init != nil {
		res := e.preprocessStatement(n.Init, header, returnType)
		coverage = res.Coverage
		errs = res.Errors
	}
	if n.Condition != nil {
		errs = diagnostics.Concatenate(errs, e.checkCondition(n.Condition, header))
	}
	if n.Update != nil {
		errs = diagnostics.Concatenate(errs, e.preprocessAssignment(n.Update, header))
	}
	body := e.preprocessBlock(n.Body, header, returnType)
	return preprocessed(coverage.sequence(loopBody(body.Coverage)), diagnostics.Concatenate(errs, body.Errors))
}

func (e *Evaluator) executeFor(n *ast.ForStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	static, ok := e.scopes[n]
	if !ok {
		return newError(diagnostics.ErrInternal, n.Pos(), "loop was not analyzed")
	}
	header := instance(static, ctx)
	if n.Init != nil {
		if errs := e.executeStatement(n.Init, header); !errs.IsEmpty() {
			return errs
		}
	}
	for !header.Halted() {
		if n.Condition != nil {
			ok, errs := e.condition(n.Condition, header)
			if !errs.IsEmpty() {
				return errs
			}
			if !ok {
				break
			}
		}
		if errs := e.executeBlock(n.Body, header); !errs.IsEmpty() {
			return errs
		}
		if header.Halted() {
			break
		}
		if n.Update != nil {
			if errs := e.executeAssignment(n.Update, header); !errs.IsEmpty() {
				return errs
			}
		}
	}
	return diagnostics.Empty
}

// iteration describes how foreach walks its iterable.
type iteration int

const (
	iterateArray iteration = iota
	iterateRecord
	iterateMaybeRecord
)

// foreachElement decides the loop variable type. Arrays yield elements;
// records, or Maybe records, yield themselves and then follow next.
func (e *Evaluator) foreachElement(n *ast.ForeachStatement, spec ast.TypeSpecifier, ctx *ExecutionContext) (ast.TypeSpecifier, iteration, *diagnostics.ErrorList) {
	notIterable := newError(diagnostics.ErrNotIterable, n.Iterable.Pos(), "cannot iterate over '%s'", spec)
	def := resolve(spec, ctx)
	if !def.IsOk() {
		return nil, 0, def.Errors
	}
	elem, mode := spec, iterateRecord
	switch d := def.Value.(type) {
	case *typesystem.ArrayType:
		return d.Element, iterateArray, diagnostics.Empty
	case *typesystem.MaybeType:
		elem, mode = d.Base, iterateMaybeRecord
	}
	rec, ok := resolve(elem, ctx).Value.(*typesystem.RecordType)
	if !ok {
		return nil, 0, notIterable
	}
	if !e.linksTo(rec, ctx) {
		return nil, 0, newError(diagnostics.ErrNotIterable, n.Iterable.Pos(),
			"'%s' needs a member %s:() -> %s? to be iterated", elem, config.NextMemberName, elem)
	}
	return elem, mode, diagnostics.Empty
}

// linksTo reports whether rec has a next member yielding rec? either stored
// or from a call without arguments.
func (e *Evaluator) linksTo(rec *typesystem.RecordType, ctx *ExecutionContext) bool {
	member, ok := rec.Member(config.NextMemberName)
	if !ok {
		return false
	}
	spec := member.Target
	if fn, ok := resolve(spec, ctx).Value.(*typesystem.FunctionType); ok {
		sig, ok := fn.Spec.(*ast.FunctionTypeSpecifier)
		if !ok {
			return false
		}
		for _, p := range sig.Parameters {
			if p.Default == nil {
				return false
			}
		}
		spec = sig.Return()
	}
	maybe, ok := resolve(spec, ctx).Value.(*typesystem.MaybeType)
	if !ok {
		return false
	}
	base := resolve(maybe.Base, ctx)
	return base.IsOk() && base.Value == typesystem.TypeDefinition(rec)
}

func (e *Evaluator) preprocessForeach(n *ast.ForeachStatement, ctx *ExecutionContext, returnType ast.TypeSpecifier) PreprocessResult {
	header := ctx.Child()
	e.scopes[n] = header

	errs := e.Validate(n.Iterable, ctx)
	if errs.IsEmpty() {
		spec := e.GetTypeSpecifier(n.Iterable, ctx).Value
		elem, _, elemErrs := e.foreachElement(n, spec, ctx)
		errs = elemErrs
		if elemErrs.IsEmpty() {
			header.Symbols.InsertSymbol(n.Name, typesystem.NewSymbol(elem, defaultValue(elem, ctx)))
		}
	}
	body := e.preprocessBlock(n.Body, header, returnType)
	return preprocessed(loopBody(body.Coverage), diagnostics.Concatenate(errs, body.Errors))
}

func (e *Evaluator) executeForeach(n *ast.ForeachStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	static, ok := e.scopes[n]
	if !ok {
		return newError(diagnostics.ErrInternal, n.Pos(), "loop was not analyzed")
	}
	v, errs := e.evalTyped(n.Iterable, ctx)
	if !errs.IsEmpty() {
		return errs
	}
	_, mode, errs := e.foreachElement(n, v.spec, ctx)
	if !errs.IsEmpty() {
		return errs
	}
	header := instance(static, ctx)
	sym := header.Symbols.GetSymbol(n.Name, symbols.Shallow)
	visit := func(value typesystem.Value) *diagnostics.ErrorList {
		header.Symbols.Bind(n.Name, sym.WithValue(value))
		return e.executeBlock(n.Body, header)
	}

	if mode == iterateArray {
		arr, ok := v.value.(*typesystem.Array)
		if !ok {
			return newError(diagnostics.ErrInternal, n.Iterable.Pos(), "'%s' does not hold an array", ast.ExpressionString(n.Iterable))
		}
		for _, el := range arr.Elements {
			if header.Halted() {
				break
			}
			if errs := visit(el); !errs.IsEmpty() {
				return errs
			}
		}
		return diagnostics.Empty
	}

	current := v.value
	if mode == iterateMaybeRecord {
		current = unwrapMaybe(current)
	}
	for current != nil && !header.Halted() {
		rec, ok := current.(*typesystem.Record)
		if !ok {
			return newError(diagnostics.ErrInternal, n.Iterable.Pos(), "foreach reached a non-record value")
		}
		if errs := visit(rec); !errs.IsEmpty() {
			return errs
		}
		if header.Halted() {
			break
		}
		next, errs := e.nextLink(rec, ctx, n)
		if !errs.IsEmpty() {
			return errs
		}
		current = unwrapMaybe(next)
	}
	return diagnostics.Empty
}

// nextLink reads the next member of rec, calling it when it is a function.
func (e *Evaluator) nextLink(rec *typesystem.Record, ctx *ExecutionContext, n *ast.ForeachStatement) (typesystem.Value, *diagnostics.ErrorList) {
	next, ok := rec.Get(config.NextMemberName)
	if !ok {
		return nil, newError(diagnostics.ErrInternal, n.Pos(), "record has no member '%s'", config.NextMemberName)
	}
	fn, ok := strengthen(next).(typesystem.Callable)
	if !ok {
		return next, diagnostics.Empty
	}
	r := e.call(fn, nil, ctx, n.Iterable.Pos(), config.NextMemberName)
	if !r.IsOk() {
		return nil, r.Errors
	}
	return r.Value, diagnostics.Empty
}

// unwrapMaybe yields the payload of a Value-tagged Maybe and nil for Nil.
func unwrapMaybe(v typesystem.Value) typesystem.Value {
	sum, ok := v.(*typesystem.Sum)
	if !ok {
		return v
	}
	if sum.IsNil() {
		return nil
	}
	return sum.Payload
}
