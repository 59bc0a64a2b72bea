package evaluator

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/symbols"
	"github.com/funvibe/sumlang/internal/token"
	"github.com/funvibe/sumlang/internal/typesystem"
)

// argument is a call argument frozen before the callee scope is built.
type argument struct {
	name string
	pos  token.Position
	typedValue
}

// calleeSignature resolves the static type of a callee to a function type.
func (e *Evaluator) calleeSignature(n *ast.InvokeExpression, ctx *ExecutionContext) (ast.TypeSpecifier, *diagnostics.ErrorList) {
	callee := e.GetTypeSpecifier(n.Callee, ctx)
	if !callee.IsOk() {
		return nil, callee.Errors
	}
	def := resolve(callee.Value, ctx)
	if !def.IsOk() {
		return nil, def.Errors
	}
	fn, ok := def.Value.(*typesystem.FunctionType)
	if !ok {
		return nil, newError(diagnostics.ErrNotAFunction, n.Callee.Pos(),
			"'%s' of type '%s' is not a function", ast.ExpressionString(n.Callee), callee.Value)
	}
	return fn.Spec, diagnostics.Empty
}

func (e *Evaluator) argumentTypes(n *ast.InvokeExpression, ctx *ExecutionContext) ([]argument, *diagnostics.ErrorList) {
	args := make([]argument, len(n.Arguments))
	for i, a := range n.Arguments {
		spec := e.GetTypeSpecifier(a.Value, ctx)
		if !spec.IsOk() {
			return nil, spec.Errors
		}
		args[i] = argument{name: a.Name, pos: a.Location, typedValue: typedValue{spec: spec.Value}}
	}
	return args, diagnostics.Empty
}

func (e *Evaluator) invokeType(n *ast.InvokeExpression, ctx *ExecutionContext) diagnostics.Result[ast.TypeSpecifier] {
	sig, errs := e.calleeSignature(n, ctx)
	if !errs.IsEmpty() {
		return typeFailure(errs)
	}
	switch s := sig.(type) {
	case *ast.FunctionTypeSpecifier:
		return typeResult(s.Return())
	case *ast.VariantFunctionTypeSpecifier:
		args, errs := e.argumentTypes(n, ctx)
		if !errs.IsEmpty() {
			return typeFailure(errs)
		}
		variant, errs := selectVariant(s, args, ctx.Types, n.Pos())
		if !errs.IsEmpty() {
			return typeFailure(errs)
		}
		return typeResult(s.Variants[variant].Return())
	}
	return typeFailure(newError(diagnostics.ErrNotAFunction, n.Pos(), "'%s' is not callable", sig))
}

func (e *Evaluator) validateInvoke(n *ast.InvokeExpression, ctx *ExecutionContext) *diagnostics.ErrorList {
	errs := e.Validate(n.Callee, ctx)
	for _, a := range n.Arguments {
		errs = diagnostics.Concatenate(errs, e.Validate(a.Value, ctx))
	}
	if !errs.IsEmpty() {
		return errs
	}
	sig, errs := e.calleeSignature(n, ctx)
	if !errs.IsEmpty() {
		return errs
	}
	args, errs := e.argumentTypes(n, ctx)
	if !errs.IsEmpty() {
		return errs
	}
	switch s := sig.(type) {
	case *ast.FunctionTypeSpecifier:
		_, errs = bindArguments(s, args, ctx.Types, n.Pos())
	case *ast.VariantFunctionTypeSpecifier:
		_, errs = selectVariant(s, args, ctx.Types, n.Pos())
	}
	return errs
}

// bindArguments maps arguments onto parameters: positional arguments in
// order, keyword arguments by name. slots[i] is the argument bound to
// parameter i, or -1 when the parameter's default applies.
func bindArguments(sig *ast.FunctionTypeSpecifier, args []argument, types *typesystem.TypeTable, pos token.Position) ([]int, *diagnostics.ErrorList) {
	slots := make([]int, len(sig.Parameters))
	for i := range slots {
		slots[i] = -1
	}
	errs := diagnostics.Empty
	next := 0
	for ai, a := range args {
		pi := -1
		if a.name == "" {
			if next >= len(sig.Parameters) {
				errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrTooManyArguments, a.pos,
					"too many arguments: '%s' takes %d", sig, len(sig.Parameters)))
				continue
			}
			pi = next
			next++
		} else {
			for i, p := range sig.Parameters {
				if p.Name == a.name {
					pi = i
					break
				}
			}
			if pi < 0 {
				errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrNoSuchParameter, a.pos,
					"no parameter named '%s'", a.name))
				continue
			}
		}
		param := sig.Parameters[pi]
		if slots[pi] >= 0 {
			errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrDuplicateArgument, a.pos,
				"parameter '%s' given more than once", param.Name))
			continue
		}
		slots[pi] = ai
		result := typesystem.AnalyzeAssignment(a.spec, param.Type, types)
		errs = diagnostics.Concatenate(errs, assignmentError(result, diagnostics.ErrArgumentType, a.pos, a.spec, param.Type))
	}
	for i, p := range sig.Parameters {
		if slots[i] < 0 && p.Default == nil {
			errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrMissingArgument, pos,
				"missing argument for parameter '%s'", p.Name))
		}
	}
	return slots, errs
}

// selectVariant picks the one signature of an overload set that accepts the
// arguments. When several accept them, a single exact match still wins.
func selectVariant(spec *ast.VariantFunctionTypeSpecifier, args []argument, types *typesystem.TypeTable, pos token.Position) (int, *diagnostics.ErrorList) {
	var matches []int
	for i, sig := range spec.Variants {
		if _, errs := bindArguments(sig, args, types, pos); errs.IsEmpty() {
			matches = append(matches, i)
		}
	}
	if len(matches) > 1 {
		var exact []int
		for _, i := range matches {
			if exactMatch(spec.Variants[i], args, types, pos) {
				exact = append(exact, i)
			}
		}
		if len(exact) == 1 {
			matches = exact
		}
	}
	switch len(matches) {
	case 0:
		return -1, newError(diagnostics.ErrNoMatchingVariant, pos, "no variant of '%s' accepts these arguments", spec)
	case 1:
		return matches[0], diagnostics.Empty
	}
	return -1, newError(diagnostics.ErrAmbiguousVariant, pos, "%d variants of '%s' accept these arguments", len(matches), spec)
}

func exactMatch(sig *ast.FunctionTypeSpecifier, args []argument, types *typesystem.TypeTable, pos token.Position) bool {
	slots, _ := bindArguments(sig, args, types, pos)
	for i, slot := range slots {
		if slot >= 0 && typesystem.AnalyzeAssignment(args[slot].spec, sig.Parameters[i].Type, types) != typesystem.Equivalent {
			return false
		}
	}
	return true
}

func (e *Evaluator) evalInvoke(n *ast.InvokeExpression, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	callee := e.Evaluate(n.Callee, ctx)
	if !callee.IsOk() {
		return callee
	}
	fn, ok := callee.Value.(typesystem.Callable)
	if !ok {
		return valueFailure(newError(diagnostics.ErrInternal, n.Pos(), "'%s' is not callable", callee.Value.Inspect()))
	}
	args := make([]argument, len(n.Arguments))
	for i, a := range n.Arguments {
		v, errs := e.evalTyped(a.Value, ctx)
		if !errs.IsEmpty() {
			return valueFailure(errs)
		}
		if ctx.Exited() {
			return e.exitedResult(n, ctx)
		}
		args[i] = argument{name: a.Name, pos: a.Location, typedValue: v}
	}
	return e.call(fn, args, ctx, n.Pos(), ast.ExpressionString(n.Callee))
}

// call invokes fn with frozen arguments from the call site ctx.
func (e *Evaluator) call(fn typesystem.Callable, args []argument, ctx *ExecutionContext, pos token.Position, name string) diagnostics.Result[typesystem.Value] {
	switch f := fn.(type) {
	case *Function:
		return e.callFunction(f, args, ctx, pos, name)
	case *VariantFunction:
		i, errs := selectVariant(f.Spec, args, ctx.Types, pos)
		if !errs.IsEmpty() {
			return valueFailure(errs)
		}
		return e.callFunction(f.Variants[i], args, ctx, pos, name)
	case *RecordConstructor:
		return e.construct(f, args, ctx, pos)
	case *VariantConstructor:
		slots, errs := bindArguments(f.Spec, args, ctx.Types, pos)
		if !errs.IsEmpty() {
			return valueFailure(errs)
		}
		return convert(args[slots[0]].typedValue, f.Spec.Parameters[0].Type, ctx, args[slots[0]])
	case *typesystem.DefaultFunction:
		return valueResult(defaultValue(f.Spec.Return(), ctx))
	}
	return valueFailure(newError(diagnostics.ErrInternal, pos, "cannot call %T", fn))
}

func (a argument) Pos() token.Position { return a.pos }

// callFunction runs one activation of a function literal. The frame looks
// names up in the closure first and then at the call site.
func (e *Evaluator) callFunction(fn *Function, args []argument, ctx *ExecutionContext, pos token.Position, name string) diagnostics.Result[typesystem.Value] {
	if len(e.CallStack) >= e.Options.MaxCallDepth {
		return valueFailure(newError(diagnostics.ErrCallDepthExceeded, pos,
			"call depth exceeded %d calling '%s'", e.Options.MaxCallDepth, name))
	}
	scope, types, ok := fn.Closure()
	if !ok {
		return valueFailure(newError(diagnostics.ErrClosureExpired, pos, "the scope captured by '%s' no longer exists", name))
	}
	static, ok := e.scopes[fn.Literal]
	body, bodyOK := e.scopes[fn.Literal.Body]
	if !ok || !bodyOK {
		return valueFailure(newError(diagnostics.ErrInternal, pos, "function '%s' was not analyzed", name))
	}

	sig := fn.Literal.Type
	slots, errs := bindArguments(sig, args, ctx.Types, pos)
	if !errs.IsEmpty() {
		return valueFailure(errs)
	}

	closure := &ExecutionContext{Symbols: scope, Types: types, activation: ctx.activation, run: ctx.run}
	frame := &ExecutionContext{
		Symbols:    static.Symbols.Copy(scope, ctx.Symbols),
		Types:      static.Types,
		activation: &activation{},
		run:        ctx.run,
	}
	for i, p := range sig.Parameters {
		var value diagnostics.Result[typesystem.Value]
		if slots[i] >= 0 {
			value = convertArgument(args[slots[i]], p.Type, ctx, closure)
		} else {
			d, errs := e.evalTyped(p.Default, closure)
			if !errs.IsEmpty() {
				return valueFailure(errs)
			}
			value = convert(d, p.Type, closure, p.Default)
		}
		if !value.IsOk() {
			return value
		}
		frame.Symbols.Bind(p.Name, typesystem.NewSymbol(p.Type, value.Value))
	}

	e.CallStack = append(e.CallStack, CallFrame{Name: name, Pos: pos})
	defer func() { e.CallStack = e.CallStack[:len(e.CallStack)-1] }()

	if errs := e.executeStatements(fn.Literal.Body.Statements, instance(body, frame)); !errs.IsEmpty() {
		return valueFailure(errs)
	}

	ret := sig.Return()
	value, spec, returned := frame.ReturnValue()
	if !returned || value == nil || frame.Exited() {
		return valueResult(placeholder(ret, frame))
	}
	return convert(typedValue{value: value, spec: spec}, ret, &ExecutionContext{Types: body.Types}, fn.Literal)
}

// convertArgument widens an argument into its parameter type. The argument
// type is known at the call site, the parameter type in the closure.
func convertArgument(a argument, target ast.TypeSpecifier, site, closure *ExecutionContext) diagnostics.Result[typesystem.Value] {
	if out, ok := typesystem.Convert(a.value, a.spec, target, site.Types); ok {
		return valueResult(out)
	}
	return convert(a.typedValue, target, closure, a)
}

func (e *Evaluator) construct(c *RecordConstructor, args []argument, ctx *ExecutionContext, pos token.Position) diagnostics.Result[typesystem.Value] {
	slots, errs := bindArguments(c.Spec, args, ctx.Types, pos)
	if !errs.IsEmpty() {
		return valueFailure(errs)
	}
	rec := c.Definition.DefaultValue().(*typesystem.Record)
	for i, p := range c.Spec.Parameters {
		if slots[i] < 0 {
			continue
		}
		value := convert(args[slots[i]].typedValue, p.Type, ctx, args[slots[i]])
		if !value.IsOk() {
			return value
		}
		rec = rec.With(p.Name, value.Value)
	}
	return valueResult(rec)
}

// preprocessFunction analyzes a function literal once: parameters are bound
// in a scope of their own and the body is checked against the return type.
func (e *Evaluator) preprocessFunction(fe *ast.FunctionExpression, ctx *ExecutionContext) *diagnostics.ErrorList {
	if e.functions[fe] {
		return diagnostics.Empty
	}
	e.functions[fe] = true

	errs := typesystem.GetType(fe.Type, ctx.Types, typesystem.Return).Errors
	params := ctx.Child()
	for _, p := range fe.Type.Parameters {
		if params.Symbols.InsertSymbol(p.Name, typesystem.NewSymbol(p.Type, defaultValue(p.Type, ctx))) != symbols.InsertSuccess {
			errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrPreviousDeclaration, p.Location,
				"parameter '%s' declared twice", p.Name))
			continue
		}
		if p.Default != nil {
			errs = diagnostics.Concatenate(errs, e.checkConstantDefault(p.Name, p.Type, p.Default, ctx))
		}
	}
	e.scopes[fe] = params

	body := e.preprocessBlock(fe.Body, params, fe.Type.Return())
	errs = diagnostics.Concatenate(errs, body.Errors)
	if !ast.IsUnit(fe.Type.Return()) && body.Coverage != CoverageFull {
		errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrMissingReturnCoverage, fe.Pos(),
			"function returning '%s' does not return on every path (%s)", fe.Type.Return(), body.Coverage))
	}
	return errs
}

// checkConstantDefault validates a default initializer of a parameter or
// record member: it must be constant and assignable to the declared type.
func (e *Evaluator) checkConstantDefault(name string, spec ast.TypeSpecifier, init ast.Expression, ctx *ExecutionContext) *diagnostics.ErrorList {
	if !IsConstant(init) {
		return newError(diagnostics.ErrNonConstantDefault, init.Pos(), "default of '%s' must be a constant expression", name)
	}
	if errs := e.Validate(init, ctx); !errs.IsEmpty() {
		return errs
	}
	source := e.GetTypeSpecifier(init, ctx).Value
	result := typesystem.AnalyzeAssignment(source, spec, ctx.Types)
	return assignmentError(result, diagnostics.ErrAssignmentType, init.Pos(), source, spec)
}
