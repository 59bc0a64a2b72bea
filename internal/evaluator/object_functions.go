package evaluator

import (
	"weak"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/symbols"
	"github.com/funvibe/sumlang/internal/typesystem"
)

// closureRef is the link from a function to the scope it was defined in.
// The symbol scope link is weak while the function is stored in that very
// scope; types hold no values and are always kept.
type closureRef struct {
	types  *typesystem.TypeTable
	strong *symbols.SymbolContext
	weak   weak.Pointer[symbols.SymbolContext]
	isWeak bool
}

func capture(ctx *ExecutionContext) closureRef {
	return closureRef{types: ctx.Types, strong: ctx.Symbols}
}

func (r closureRef) get() (*symbols.SymbolContext, bool) {
	if !r.isWeak {
		return r.strong, r.strong != nil
	}
	scope := r.weak.Value()
	return scope, scope != nil
}

func (r closureRef) refersTo(scope *symbols.SymbolContext) bool {
	got, ok := r.get()
	return ok && got == scope
}

func (r closureRef) weakened() closureRef {
	if r.isWeak {
		return r
	}
	return closureRef{types: r.types, weak: weak.Make(r.strong), isWeak: true}
}

func (r closureRef) strengthened() closureRef {
	if !r.isWeak {
		return r
	}
	if scope := r.weak.Value(); scope != nil {
		return closureRef{types: r.types, strong: scope}
	}
	return r
}

// Function is a function literal bound to its defining scope.
type Function struct {
	Literal *ast.FunctionExpression
	closure closureRef
}

func (f *Function) Type() typesystem.ValueType { return typesystem.FUNCTION_VAL }
func (f *Function) Inspect() string            { return "<function " + f.Literal.Type.String() + ">" }
func (f *Function) Signature() ast.TypeSpecifier {
	return f.Literal.Type
}
func (f *Function) Equal(other typesystem.Value) bool {
	o, ok := other.(*Function)
	if !ok || o.Literal != f.Literal {
		return false
	}
	a, _ := f.closure.get()
	b, _ := o.closure.get()
	return a == b
}

func (f *Function) IsWeak() bool { return f.closure.isWeak }

// Closure returns the defining scope; ok is false once a weak link expired.
func (f *Function) Closure() (*symbols.SymbolContext, *typesystem.TypeTable, bool) {
	scope, ok := f.closure.get()
	return scope, f.closure.types, ok
}

// VariantFunction is an overload set; invocation picks exactly one variant.
type VariantFunction struct {
	Spec     *ast.VariantFunctionTypeSpecifier
	Variants []*Function
}

func (v *VariantFunction) Type() typesystem.ValueType   { return typesystem.FUNCTION_VAL }
func (v *VariantFunction) Inspect() string              { return "<function " + v.Spec.String() + ">" }
func (v *VariantFunction) Signature() ast.TypeSpecifier { return v.Spec }
func (v *VariantFunction) Equal(other typesystem.Value) bool {
	o, ok := other.(*VariantFunction)
	if !ok || len(o.Variants) != len(v.Variants) {
		return false
	}
	for i, fn := range v.Variants {
		if !fn.Equal(o.Variants[i]) {
			return false
		}
	}
	return true
}

// RecordConstructor builds a record by overlaying keyword arguments onto a
// default instance. Plain records and record variants both use it.
type RecordConstructor struct {
	Definition *typesystem.RecordType
	Spec       *ast.FunctionTypeSpecifier
}

func (r *RecordConstructor) Type() typesystem.ValueType   { return typesystem.FUNCTION_VAL }
func (r *RecordConstructor) Inspect() string              { return "<constructor " + r.Definition.Name + ">" }
func (r *RecordConstructor) Signature() ast.TypeSpecifier { return r.Spec }
func (r *RecordConstructor) Equal(other typesystem.Value) bool {
	o, ok := other.(*RecordConstructor)
	return ok && o.Definition == r.Definition
}

// VariantConstructor is the identity function of a primitive variant. Its
// result is statically typed as the variant, which tags it on widening.
type VariantConstructor struct {
	Name string
	Spec *ast.FunctionTypeSpecifier
}

func (v *VariantConstructor) Type() typesystem.ValueType   { return typesystem.FUNCTION_VAL }
func (v *VariantConstructor) Inspect() string              { return "<constructor " + v.Name + ">" }
func (v *VariantConstructor) Signature() ast.TypeSpecifier { return v.Spec }
func (v *VariantConstructor) Equal(other typesystem.Value) bool {
	o, ok := other.(*VariantConstructor)
	return ok && o.Spec.Equal(v.Spec) && o.Name == v.Name
}

// weakenFor returns value with its closure links made weak when they point
// at scope, the scope value is about to be stored in.
func weakenFor(value typesystem.Value, scope *symbols.SymbolContext) typesystem.Value {
	switch fn := value.(type) {
	case *Function:
		if fn.closure.refersTo(scope) && !fn.closure.isWeak {
			return &Function{Literal: fn.Literal, closure: fn.closure.weakened()}
		}
	case *VariantFunction:
		changed := false
		variants := make([]*Function, len(fn.Variants))
		for i, v := range fn.Variants {
			w := weakenFor(v, scope).(*Function)
			changed = changed || w != v
			variants[i] = w
		}
		if changed {
			return &VariantFunction{Spec: fn.Spec, Variants: variants}
		}
	}
	return value
}

// strengthen upgrades weak closure links. Reading a function out of a scope
// yields a value that keeps the scope alive wherever it travels.
func strengthen(value typesystem.Value) typesystem.Value {
	switch fn := value.(type) {
	case *Function:
		if fn.closure.isWeak {
			return &Function{Literal: fn.Literal, closure: fn.closure.strengthened()}
		}
	case *VariantFunction:
		variants := make([]*Function, len(fn.Variants))
		changed := false
		for i, v := range fn.Variants {
			s := strengthen(v).(*Function)
			changed = changed || s != v
			variants[i] = s
		}
		if changed {
			return &VariantFunction{Spec: fn.Spec, Variants: variants}
		}
	}
	return value
}
