package typesystem

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/diagnostics"
)

// GetType resolves a specifier through table. It fails with UNDECLARED_TYPE
// or UNDECLARED_MEMBER located at the offending specifier.
func GetType(spec ast.TypeSpecifier, table *TypeTable, policy AliasResolution) diagnostics.Result[TypeDefinition] {
	switch s := spec.(type) {
	case *ast.PrimitiveTypeSpecifier:
		def := PrimitiveDefinition(s.Kind)
		if def == nil {
			return diagnostics.Fail[TypeDefinition](undeclaredType(spec))
		}
		return diagnostics.Ok[TypeDefinition](def)

	case *ast.ComplexTypeSpecifier:
		def := table.Lookup(s.Name, Deep, policy)
		if def == nil {
			return diagnostics.Fail[TypeDefinition](undeclaredType(spec))
		}
		return diagnostics.Ok(def)

	case *ast.MaybeTypeSpecifier:
		if base := GetType(s.Base, table, Return); !base.IsOk() {
			return base
		}
		return diagnostics.Ok[TypeDefinition](&MaybeType{Base: s.Base})

	case *ast.ArrayTypeSpecifier:
		elem := GetType(s.Element, table, Resolve)
		if !elem.IsOk() {
			return elem
		}
		return diagnostics.Ok[TypeDefinition](&ArrayType{
			Element:        s.Element,
			FixedSize:      s.FixedSize,
			Size:           s.Size,
			ElementDefault: elem.Value.DefaultValue(),
		})

	case *ast.FunctionTypeSpecifier:
		if errs := validateSignature(s, table); !errs.IsEmpty() {
			return diagnostics.Fail[TypeDefinition](errs)
		}
		return diagnostics.Ok[TypeDefinition](&FunctionType{Spec: s})

	case *ast.VariantFunctionTypeSpecifier:
		errs := diagnostics.Empty
		for _, variant := range s.Variants {
			errs = diagnostics.Concatenate(errs, validateSignature(variant, table))
		}
		if !errs.IsEmpty() {
			return diagnostics.Fail[TypeDefinition](errs)
		}
		return diagnostics.Ok[TypeDefinition](&FunctionType{Spec: s})

	case *ast.NestedTypeSpecifier:
		parent := GetType(s.Parent, table, Resolve)
		if !parent.IsOk() {
			return parent
		}
		member := lookupNested(parent.Value, s.Member)
		if member == nil {
			return diagnostics.Fail[TypeDefinition](undeclaredMember(spec, parent.Value, s.Member))
		}
		if policy == Resolve {
			member = resolveAlias(member)
		}
		return diagnostics.Ok(member)
	}
	return diagnostics.Fail[TypeDefinition](undeclaredType(spec))
}

func lookupNested(parent TypeDefinition, member string) TypeDefinition {
	switch p := parent.(type) {
	case *SumType:
		def, _ := p.Variant(member)
		return def
	case *RecordType:
		if alias, ok := p.Member(member); ok {
			return alias
		}
	case *MaybeType:
		if spec := p.VariantPayloadSpec(member); spec != nil {
			return &AliasType{Name: member, Target: spec}
		}
	}
	return nil
}

func validateSignature(spec *ast.FunctionTypeSpecifier, table *TypeTable) *diagnostics.ErrorList {
	errs := diagnostics.Empty
	for _, p := range spec.Parameters {
		if r := GetType(p.Type, table, Return); !r.IsOk() {
			errs = diagnostics.Concatenate(errs, r.Errors)
		}
	}
	if r := GetType(spec.Return(), table, Return); !r.IsOk() {
		errs = diagnostics.Concatenate(errs, r.Errors)
	}
	return errs
}

// IsPlaceholder reports whether spec currently resolves to a type whose
// definition is still being built.
func IsPlaceholder(spec ast.TypeSpecifier, table *TypeTable) bool {
	r := GetType(spec, table, Return)
	if !r.IsOk() {
		return false
	}
	_, ok := r.Value.(*PlaceholderType)
	return ok
}
