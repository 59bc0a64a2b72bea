package typesystem

import (
	"strconv"
	"strings"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
)

// TypeDefinition is the resolved semantic type behind a TypeSpecifier.
// Definitions are created once per declaration and stored in a TypeTable.
type TypeDefinition interface {
	String() string
	DefaultValue() Value
	typeDefinition()
}

// SumDefinition is implemented by SumType and MaybeType.
type SumDefinition interface {
	TypeDefinition
	VariantNames() []string
	HasVariant(name string) bool
	// VariantPayloadSpec is the type a match arm binds the payload with.
	VariantPayloadSpec(name string) ast.TypeSpecifier
}

// PrimitiveType is a builtin scalar type.
type PrimitiveType struct {
	Kind ast.PrimitiveKind
}

func (p *PrimitiveType) typeDefinition()     {}
func (p *PrimitiveType) String() string      { return p.Kind.String() }
func (p *PrimitiveType) DefaultValue() Value { return ZeroValue(p.Kind) }

var primitiveTypes = map[ast.PrimitiveKind]*PrimitiveType{
	ast.Boolean: {Kind: ast.Boolean},
	ast.Byte:    {Kind: ast.Byte},
	ast.Int:     {Kind: ast.Int},
	ast.Double:  {Kind: ast.Double},
	ast.String:  {Kind: ast.String},
	ast.Unit:    {Kind: ast.Unit},
	ast.Nil:     {Kind: ast.Nil},
}

// PrimitiveDefinition returns the shared definition of a scalar kind.
func PrimitiveDefinition(kind ast.PrimitiveKind) *PrimitiveType {
	return primitiveTypes[kind]
}

// AliasType names another type. Record members and primitive sum variants are
// stored as aliases so the declared name survives for diagnostics.
type AliasType struct {
	Name    string
	Target  ast.TypeSpecifier
	Origin  TypeDefinition
	Default Value
}

func (a *AliasType) typeDefinition() {}
func (a *AliasType) String() string  { return a.Name + ":" + a.Target.String() }
func (a *AliasType) DefaultValue() Value {
	if a.Default != nil {
		return a.Default
	}
	return a.Origin.DefaultValue()
}

// RecordType is a product of named members, each with its own default.
type RecordType struct {
	Name string
	// Spec is how values of this type are referred to: a ComplexTypeSpecifier
	// for top-level records, a NestedTypeSpecifier for sum variants.
	Spec    ast.TypeSpecifier
	Members *TypeTable
}

func (r *RecordType) typeDefinition() {}

func (r *RecordType) MemberNames() []string {
	return r.Members.Names()
}

func (r *RecordType) Member(name string) (*AliasType, bool) {
	def := r.Members.Lookup(name, Shallow, Return)
	alias, ok := def.(*AliasType)
	return alias, ok
}

func (r *RecordType) String() string {
	var sb strings.Builder
	sb.WriteString(r.Name)
	sb.WriteString(" {")
	for i, name := range r.MemberNames() {
		if i > 0 {
			sb.WriteString(", ")
		}
		member, _ := r.Member(name)
		sb.WriteString(member.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// DefaultValue builds a fresh instance from every member's own default.
func (r *RecordType) DefaultValue() Value {
	names := r.MemberNames()
	members := make(map[string]Value, len(names))
	for _, name := range names {
		member, _ := r.Member(name)
		members[name] = member.DefaultValue()
	}
	return NewRecord(r, members)
}

// SumType is a tagged union. Variants are aliases (Circle:double) or nested
// record types (Rect {w:double, h:double}).
type SumType struct {
	Name     string
	Spec     ast.TypeSpecifier
	Variants *TypeTable
}

func (s *SumType) typeDefinition() {}

func (s *SumType) VariantNames() []string {
	return s.Variants.Names()
}

func (s *SumType) HasVariant(name string) bool {
	return s.Variants.ContainsLocal(name)
}

func (s *SumType) Variant(name string) (TypeDefinition, bool) {
	def := s.Variants.Lookup(name, Shallow, Return)
	return def, def != nil
}

// VariantSpec is the specifier naming a variant's own type: Shape.Circle.
func (s *SumType) VariantSpec(name string) ast.TypeSpecifier {
	return &ast.NestedTypeSpecifier{Parent: s.Spec, Member: name}
}

func (s *SumType) VariantPayloadSpec(name string) ast.TypeSpecifier {
	def, ok := s.Variant(name)
	if !ok {
		return nil
	}
	if alias, ok := def.(*AliasType); ok {
		return alias.Target
	}
	return s.VariantSpec(name)
}

func (s *SumType) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteString(" {")
	for i, name := range s.VariantNames() {
		if i > 0 {
			sb.WriteString(" | ")
		}
		def, _ := s.Variant(name)
		if rec, ok := def.(*RecordType); ok {
			sb.WriteString(rec.String())
		} else {
			sb.WriteString(def.String())
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// DefaultValue is tagged with the first declared variant.
func (s *SumType) DefaultValue() Value {
	names := s.VariantNames()
	if len(names) == 0 {
		return NilValue
	}
	def, _ := s.Variant(names[0])
	return &Sum{Tag: names[0], Payload: def.DefaultValue()}
}

// CountVariantsOfType counts the variants whose declared type is exactly
// source. A variant matches when its own specifier (Shape.Circle) equals
// source, when its alias target equals source, or when it is the very
// record definition source resolves to. tag is the matching variant when
// the count is one.
func (s *SumType) CountVariantsOfType(source ast.TypeSpecifier, sourceDef TypeDefinition) (count int, tag string) {
	for _, name := range s.VariantNames() {
		def, _ := s.Variant(name)
		matched := s.VariantSpec(name).Equal(source)
		switch v := def.(type) {
		case *AliasType:
			matched = matched || v.Target.Equal(source)
		case *RecordType:
			matched = matched || (sourceDef != nil && TypeDefinition(v) == sourceDef)
		}
		if matched {
			count++
			tag = name
		}
	}
	if count != 1 {
		tag = ""
	}
	return count, tag
}

// MaybeType is the sum {Nil, Value:Base}.
type MaybeType struct {
	Base ast.TypeSpecifier
}

func (m *MaybeType) typeDefinition()     {}
func (m *MaybeType) String() string      { return m.Base.String() + "?" }
func (m *MaybeType) DefaultValue() Value { return NilValue }
func (m *MaybeType) VariantNames() []string {
	return []string{config.NilTag, config.ValueTag}
}
func (m *MaybeType) HasVariant(name string) bool {
	return name == config.NilTag || name == config.ValueTag
}
func (m *MaybeType) VariantPayloadSpec(name string) ast.TypeSpecifier {
	switch name {
	case config.NilTag:
		return ast.Primitive(ast.Nil)
	case config.ValueTag:
		return m.Base
	}
	return nil
}

// ArrayType is a homogeneous sequence.
type ArrayType struct {
	Element        ast.TypeSpecifier
	FixedSize      bool
	Size           int
	ElementDefault Value
}

func (a *ArrayType) typeDefinition() {}
func (a *ArrayType) String() string {
	if a.FixedSize {
		return a.Element.String() + "[" + strconv.Itoa(a.Size) + "]"
	}
	return a.Element.String() + "[]"
}

func (a *ArrayType) DefaultValue() Value {
	arr := &Array{Element: a.Element, FixedSize: a.FixedSize}
	if a.FixedSize {
		arr.Elements = make([]Value, a.Size)
		for i := range arr.Elements {
			arr.Elements[i] = a.ElementDefault
		}
	}
	return arr
}

// FunctionType wraps a function or variant-function signature.
type FunctionType struct {
	Spec ast.TypeSpecifier
}

func (f *FunctionType) typeDefinition() {}
func (f *FunctionType) String() string  { return f.Spec.String() }
func (f *FunctionType) DefaultValue() Value {
	switch spec := f.Spec.(type) {
	case *ast.FunctionTypeSpecifier:
		return &DefaultFunction{Spec: spec}
	case *ast.VariantFunctionTypeSpecifier:
		if len(spec.Variants) > 0 {
			return &DefaultFunction{Spec: spec.Variants[0]}
		}
	}
	return UNIT
}

// PlaceholderType stands in for a type whose definition is still being built.
type PlaceholderType struct {
	Name string
}

func (p *PlaceholderType) typeDefinition()     {}
func (p *PlaceholderType) String() string      { return p.Name + " (incomplete)" }
func (p *PlaceholderType) DefaultValue() Value { return UNIT }
