package evaluator

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/symbols"
	"github.com/funvibe/sumlang/internal/token"
	"github.com/funvibe/sumlang/internal/typesystem"
)

func isFunctionLiteral(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.FunctionExpression, *ast.VariantFunctionExpression:
		return true
	}
	return false
}

// preprocessDeclaration binds a new name. Constant initializers are folded
// here; the rest are evaluated again by every execution.
func (e *Evaluator) preprocessDeclaration(n *ast.DeclarationStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	if !ctx.Symbols.GetSymbol(n.Name, symbols.Shallow).IsDefault() {
		return newError(diagnostics.ErrPreviousDeclaration, n.Pos(), "'%s' is already declared in this scope", n.Name)
	}
	if n.Type == nil && n.Initializer == nil {
		return newError(diagnostics.ErrMissingType, n.Pos(), "declaration of '%s' needs a type or an initializer", n.Name)
	}
	spec := n.Type
	if spec != nil {
		if def := typesystem.GetType(spec, ctx.Types, typesystem.Return); !def.IsOk() {
			return def.Errors
		}
	}
	if n.Initializer == nil {
		ctx.Symbols.InsertSymbol(n.Name, typesystem.NewSymbol(spec, defaultValue(spec, ctx)))
		return diagnostics.Empty
	}

	// A function is visible inside its own body.
	inserted := false
	if isFunctionLiteral(n.Initializer) {
		if spec == nil {
			spec = e.GetTypeSpecifier(n.Initializer, ctx).Value
		}
		ctx.Symbols.InsertSymbol(n.Name, typesystem.NewSymbol(spec, defaultValue(spec, ctx)))
		inserted = true
	}

	if errs := e.Validate(n.Initializer, ctx); !errs.IsEmpty() {
		if !inserted {
			e.bindFallback(n, spec, ctx)
		}
		return errs
	}

	source := e.GetTypeSpecifier(n.Initializer, ctx).Value
	if spec == nil {
		if p, ok := source.(*ast.PrimitiveTypeSpecifier); ok && (p.Kind == ast.Nil || p.Kind == ast.Unit) {
			return newError(diagnostics.ErrMissingType, n.Pos(), "type of '%s' cannot be inferred from '%s'", n.Name, source)
		}
		spec = source
	}
	result := typesystem.AnalyzeAssignment(source, spec, ctx.Types)
	if !result.IsAssignable() {
		if !inserted {
			ctx.Symbols.InsertSymbol(n.Name, typesystem.NewSymbol(spec, defaultValue(spec, ctx)))
		}
		return assignmentError(result, diagnostics.ErrAssignmentType, n.Initializer.Pos(), source, spec)
	}
	if inserted {
		return diagnostics.Empty
	}

	value := defaultValue(spec, ctx)
	errs := diagnostics.Empty
	if IsConstant(n.Initializer) {
		r := e.Evaluate(n.Initializer, ctx)
		errs = r.Errors
		if r.Value != nil {
			if out, ok := typesystem.Convert(r.Value, source, spec, ctx.Types); ok {
				value = out
			}
		}
	}
	ctx.Symbols.InsertSymbol(n.Name, typesystem.NewSymbol(spec, value))
	return errs
}

// bindFallback still binds a declaration whose initializer failed to
// validate so later statements do not report the name as undeclared. A
// constant initializer that produced a value despite its errors (4 / 0)
// contributes that value.
func (e *Evaluator) bindFallback(n *ast.DeclarationStatement, spec ast.TypeSpecifier, ctx *ExecutionContext) {
	source := e.GetTypeSpecifier(n.Initializer, ctx)
	if spec == nil {
		if !source.IsOk() {
			return
		}
		spec = source.Value
	}
	if !resolve(spec, ctx).IsOk() {
		return
	}
	value := defaultValue(spec, ctx)
	if source.IsOk() && IsConstant(n.Initializer) {
		if r := e.Evaluate(n.Initializer, ctx); r.Value != nil {
			if out, ok := typesystem.Convert(r.Value, source.Value, spec, ctx.Types); ok {
				value = out
			}
		}
	}
	ctx.Symbols.InsertSymbol(n.Name, typesystem.NewSymbol(spec, value))
}

func (e *Evaluator) executeDeclaration(n *ast.DeclarationStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	if n.Initializer == nil || IsConstant(n.Initializer) {
		return diagnostics.Empty
	}
	sym := ctx.Symbols.GetSymbol(n.Name, symbols.Shallow)
	if sym.IsDefault() {
		return newError(diagnostics.ErrInternal, n.Pos(), "'%s' was not bound during analysis", n.Name)
	}
	v, errs := e.evalTyped(n.Initializer, ctx)
	if !errs.IsEmpty() || ctx.Exited() {
		return errs
	}
	out := convert(v, sym.Spec, ctx, n.Initializer)
	if !out.IsOk() {
		return out.Errors
	}
	ctx.Symbols.Bind(n.Name, sym.WithValue(weakenFor(out.Value, ctx.Symbols)))
	return diagnostics.Empty
}

// rawRecursive reports a type that contains a type still under construction
// without an indirection. Maybe and function types defer the reference.
func rawRecursive(spec ast.TypeSpecifier, ctx *ExecutionContext) bool {
	switch s := spec.(type) {
	case *ast.ComplexTypeSpecifier, *ast.NestedTypeSpecifier:
		return typesystem.IsPlaceholder(s, ctx.Types)
	case *ast.ArrayTypeSpecifier:
		return rawRecursive(s.Element, ctx)
	}
	return false
}

// buildRecord creates the definition of a record or record variant. Member
// defaults are constant and folded now.
func (e *Evaluator) buildRecord(name string, spec ast.TypeSpecifier, members []*ast.DeclarationStatement, ctx *ExecutionContext) (*typesystem.RecordType, *diagnostics.ErrorList) {
	rec := &typesystem.RecordType{Name: name, Spec: spec, Members: typesystem.NewTypeTable(nil)}
	errs := diagnostics.Empty
	for _, m := range members {
		if rec.Members.ContainsLocal(m.Name) {
			errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrPreviousDeclaration, m.Pos(),
				"member '%s' of '%s' declared twice", m.Name, name))
			continue
		}
		alias, memberErrs := e.buildMember(name, m, ctx)
		if !memberErrs.IsEmpty() {
			errs = diagnostics.Concatenate(errs, memberErrs)
			continue
		}
		rec.Members.AddType(m.Name, alias)
	}
	return rec, errs
}

func (e *Evaluator) buildMember(record string, m *ast.DeclarationStatement, ctx *ExecutionContext) (*typesystem.AliasType, *diagnostics.ErrorList) {
	spec := m.Type
	if spec == nil {
		if m.Initializer == nil || !IsConstant(m.Initializer) {
			return nil, newError(diagnostics.ErrMissingType, m.Pos(), "member '%s' of '%s' needs a type", m.Name, record)
		}
		if errs := e.Validate(m.Initializer, ctx); !errs.IsEmpty() {
			return nil, errs
		}
		spec = e.GetTypeSpecifier(m.Initializer, ctx).Value
	}
	origin := typesystem.GetType(spec, ctx.Types, typesystem.Resolve)
	if !origin.IsOk() {
		return nil, origin.Errors
	}
	if rawRecursive(spec, ctx) {
		return nil, newError(diagnostics.ErrRawRecursiveDeclaration, m.Pos(),
			"member '%s' contains '%s' directly; use '%s?' instead", m.Name, spec, spec)
	}
	alias := &typesystem.AliasType{Name: m.Name, Target: spec, Origin: origin.Value}
	if m.Initializer == nil {
		return alias, diagnostics.Empty
	}
	scratch := ctx.Child()
	if errs := e.checkConstantDefault(m.Name, spec, m.Initializer, scratch); !errs.IsEmpty() {
		return nil, errs
	}
	v, errs := e.evalTyped(m.Initializer, scratch)
	if !errs.IsEmpty() {
		return nil, errs
	}
	out := convert(v, spec, scratch, m.Initializer)
	if !out.IsOk() {
		return nil, out.Errors
	}
	alias.Default = out.Value
	return alias, diagnostics.Empty
}

// recordConstructor takes every member as an optional keyword argument.
func recordConstructor(rec *typesystem.RecordType, pos token.Position) *RecordConstructor {
	sig := &ast.FunctionTypeSpecifier{Location: pos, ReturnType: rec.Spec}
	for _, name := range rec.MemberNames() {
		member, _ := rec.Member(name)
		sig.Parameters = append(sig.Parameters, &ast.Parameter{
			Location: pos,
			Name:     name,
			Type:     member.Target,
			Default:  &ast.DefaultValueExpression{Location: pos, Type: member.Target},
		})
	}
	return &RecordConstructor{Definition: rec, Spec: sig}
}

func (e *Evaluator) preprocessRecord(n *ast.RecordTypeDeclaration, ctx *ExecutionContext) *diagnostics.ErrorList {
	if ctx.Types.ContainsLocal(n.Name) || !ctx.Symbols.GetSymbol(n.Name, symbols.Shallow).IsDefault() {
		return newError(diagnostics.ErrPreviousDeclaration, n.Pos(), "'%s' is already declared in this scope", n.Name)
	}
	ctx.Types.AddType(n.Name, &typesystem.PlaceholderType{Name: n.Name})
	spec := &ast.ComplexTypeSpecifier{Location: n.Location, Name: n.Name}
	rec, errs := e.buildRecord(n.Name, spec, n.Members, ctx)
	if !errs.IsEmpty() {
		ctx.Types.RemovePlaceholder(n.Name)
		return errs
	}
	ctx.Types.AddType(n.Name, rec)
	ctor := recordConstructor(rec, n.Location)
	ctx.Symbols.InsertSymbol(n.Name, typesystem.NewSymbol(ctor.Spec, ctor))
	return diagnostics.Empty
}

func (e *Evaluator) preprocessSum(n *ast.SumTypeDeclaration, ctx *ExecutionContext) *diagnostics.ErrorList {
	if ctx.Types.ContainsLocal(n.Name) {
		return newError(diagnostics.ErrPreviousDeclaration, n.Pos(), "type '%s' is already declared in this scope", n.Name)
	}
	ctx.Types.AddType(n.Name, &typesystem.PlaceholderType{Name: n.Name})
	sum := &typesystem.SumType{
		Name:     n.Name,
		Spec:     &ast.ComplexTypeSpecifier{Location: n.Location, Name: n.Name},
		Variants: typesystem.NewTypeTable(nil),
	}

	errs := diagnostics.Empty
	for _, v := range n.Variants {
		if v.Name == config.NilTag || sum.Variants.ContainsLocal(v.Name) {
			errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrPreviousDeclaration, v.Location,
				"variant '%s' of '%s' declared twice", v.Name, n.Name))
			continue
		}
		def, variantErrs := e.buildVariant(sum, v, ctx)
		if !variantErrs.IsEmpty() {
			errs = diagnostics.Concatenate(errs, variantErrs)
			continue
		}
		sum.Variants.AddType(v.Name, def)
	}
	if !errs.IsEmpty() {
		ctx.Types.RemovePlaceholder(n.Name)
		return errs
	}
	ctx.Types.AddType(n.Name, sum)

	// A constructor is skipped when its name is already taken in this scope,
	// e.g. by an earlier sum with a variant of the same name.
	for _, v := range n.Variants {
		if !ctx.Symbols.GetSymbol(v.Name, symbols.Shallow).IsDefault() {
			continue
		}
		var ctor typesystem.Callable
		switch def, _ := sum.Variant(v.Name); d := def.(type) {
		case *typesystem.RecordType:
			ctor = recordConstructor(d, v.Location)
		case *typesystem.AliasType:
			ctor = &VariantConstructor{Name: v.Name, Spec: &ast.FunctionTypeSpecifier{
				Location:   v.Location,
				Parameters: []*ast.Parameter{{Location: v.Location, Name: "value", Type: d.Target}},
				ReturnType: sum.VariantSpec(v.Name),
			}}
		}
		ctx.Symbols.InsertSymbol(v.Name, typesystem.NewSymbol(ctor.Signature(), ctor))
	}
	return diagnostics.Empty
}

func (e *Evaluator) buildVariant(sum *typesystem.SumType, v *ast.VariantDeclaration, ctx *ExecutionContext) (typesystem.TypeDefinition, *diagnostics.ErrorList) {
	if v.IsRecord {
		return e.buildRecord(v.Name, sum.VariantSpec(v.Name), v.Members, ctx)
	}
	if v.Type == nil {
		return nil, newError(diagnostics.ErrMissingType, v.Location, "variant '%s' of '%s' needs a type", v.Name, sum.Name)
	}
	origin := typesystem.GetType(v.Type, ctx.Types, typesystem.Resolve)
	if !origin.IsOk() {
		return nil, origin.Errors
	}
	if rawRecursive(v.Type, ctx) {
		return nil, newError(diagnostics.ErrRawRecursiveDeclaration, v.Location,
			"variant '%s' contains '%s' directly; use '%s?' instead", v.Name, v.Type, v.Type)
	}
	return &typesystem.AliasType{Name: v.Name, Target: v.Type, Origin: origin.Value}, diagnostics.Empty
}
