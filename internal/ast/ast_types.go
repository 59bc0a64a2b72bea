package ast

import (
	"strconv"
	"strings"

	"github.com/funvibe/sumlang/internal/token"
)

// --- Type specifiers ---

// TypeSpecifier is a syntactic reference to a type. It holds no storage and
// is resolved to a definition through a type table. The set of
// implementations is closed: Primitive, Complex, Maybe, Array, Function,
// VariantFunction and Nested.
type TypeSpecifier interface {
	Node
	typeSpecifierNode()
	String() string
	// Equal is structural equality; source positions are ignored.
	Equal(other TypeSpecifier) bool
}

// PrimitiveKind enumerates the builtin scalar kinds.
type PrimitiveKind int

const (
	Boolean PrimitiveKind = iota
	Byte
	Int
	Double
	String
	// Unit is the return type of functions without a value.
	Unit
	// Nil is the type of the nil literal; it only widens into Maybe types.
	Nil
)

func (k PrimitiveKind) String() string {
	switch k {
	case Boolean:
		return "bool"
	case Byte:
		return "byte"
	case Int:
		return "int"
	case Double:
		return "double"
	case String:
		return "string"
	case Unit:
		return "unit"
	case Nil:
		return "nil"
	default:
		return "primitive(" + strconv.Itoa(int(k)) + ")"
	}
}

// PrimitiveTypeSpecifier references a builtin scalar type, e.g. int
type PrimitiveTypeSpecifier struct {
	Location token.Position
	Kind     PrimitiveKind
}

func (ps *PrimitiveTypeSpecifier) typeSpecifierNode()  {}
func (ps *PrimitiveTypeSpecifier) Pos() token.Position { return ps.Location }
func (ps *PrimitiveTypeSpecifier) String() string      { return ps.Kind.String() }
func (ps *PrimitiveTypeSpecifier) Equal(other TypeSpecifier) bool {
	o, ok := other.(*PrimitiveTypeSpecifier)
	return ok && o.Kind == ps.Kind
}

// Primitive is a convenience constructor for position-less primitive specifiers.
func Primitive(kind PrimitiveKind) *PrimitiveTypeSpecifier {
	return &PrimitiveTypeSpecifier{Kind: kind}
}

// ComplexTypeSpecifier references a declared record or sum type by name, e.g. Shape.
// Whether it is a record or a sum is decided by the resolved definition.
type ComplexTypeSpecifier struct {
	Location token.Position
	Name     string
}

func (cs *ComplexTypeSpecifier) typeSpecifierNode()  {}
func (cs *ComplexTypeSpecifier) Pos() token.Position { return cs.Location }
func (cs *ComplexTypeSpecifier) String() string      { return cs.Name }
func (cs *ComplexTypeSpecifier) Equal(other TypeSpecifier) bool {
	o, ok := other.(*ComplexTypeSpecifier)
	return ok && o.Name == cs.Name
}

// MaybeTypeSpecifier is the sugar T? for a sum of Nil and Value:T.
type MaybeTypeSpecifier struct {
	Location token.Position
	Base     TypeSpecifier
}

func (ms *MaybeTypeSpecifier) typeSpecifierNode()  {}
func (ms *MaybeTypeSpecifier) Pos() token.Position { return ms.Location }
func (ms *MaybeTypeSpecifier) String() string      { return ms.Base.String() + "?" }
func (ms *MaybeTypeSpecifier) Equal(other TypeSpecifier) bool {
	o, ok := other.(*MaybeTypeSpecifier)
	return ok && o.Base.Equal(ms.Base)
}

// ArrayTypeSpecifier is int[] (variable size) or int[3] (fixed size).
type ArrayTypeSpecifier struct {
	Location  token.Position
	Element   TypeSpecifier
	FixedSize bool
	Size      int
}

func (as *ArrayTypeSpecifier) typeSpecifierNode()  {}
func (as *ArrayTypeSpecifier) Pos() token.Position { return as.Location }
func (as *ArrayTypeSpecifier) String() string {
	if as.FixedSize {
		return as.Element.String() + "[" + strconv.Itoa(as.Size) + "]"
	}
	return as.Element.String() + "[]"
}

// Equal compares element types and the fixed/variable flag; sizes are not compared.
func (as *ArrayTypeSpecifier) Equal(other TypeSpecifier) bool {
	o, ok := other.(*ArrayTypeSpecifier)
	return ok && o.FixedSize == as.FixedSize && o.Element.Equal(as.Element)
}

// Parameter is a formal parameter: name:type [= default]
type Parameter struct {
	Location token.Position
	Name     string
	Type     TypeSpecifier
	Default  Expression
}

// FunctionTypeSpecifier is (a:int, b:string = "x") -> double.
// Parameter names and defaults are carried for invocation checks but do not
// take part in equality.
type FunctionTypeSpecifier struct {
	Location   token.Position
	Parameters []*Parameter
	ReturnType TypeSpecifier
}

func (fs *FunctionTypeSpecifier) typeSpecifierNode()  {}
func (fs *FunctionTypeSpecifier) Pos() token.Position { return fs.Location }
func (fs *FunctionTypeSpecifier) String() string {
	parts := make([]string, len(fs.Parameters))
	for i, p := range fs.Parameters {
		parts[i] = p.Type.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + fs.Return().String()
}

// Return yields the declared return type, defaulting to unit.
func (fs *FunctionTypeSpecifier) Return() TypeSpecifier {
	if fs.ReturnType == nil {
		return Primitive(Unit)
	}
	return fs.ReturnType
}

func (fs *FunctionTypeSpecifier) Equal(other TypeSpecifier) bool {
	o, ok := other.(*FunctionTypeSpecifier)
	if !ok || len(o.Parameters) != len(fs.Parameters) {
		return false
	}
	for i, p := range fs.Parameters {
		if !p.Type.Equal(o.Parameters[i].Type) {
			return false
		}
	}
	return fs.Return().Equal(o.Return())
}

// VariantFunctionTypeSpecifier is an overload set: one signature per variant.
type VariantFunctionTypeSpecifier struct {
	Location token.Position
	Variants []*FunctionTypeSpecifier
}

func (vs *VariantFunctionTypeSpecifier) typeSpecifierNode()  {}
func (vs *VariantFunctionTypeSpecifier) Pos() token.Position { return vs.Location }
func (vs *VariantFunctionTypeSpecifier) String() string {
	parts := make([]string, len(vs.Variants))
	for i, v := range vs.Variants {
		parts[i] = v.String()
	}
	return strings.Join(parts, " | ")
}
func (vs *VariantFunctionTypeSpecifier) Equal(other TypeSpecifier) bool {
	o, ok := other.(*VariantFunctionTypeSpecifier)
	if !ok || len(o.Variants) != len(vs.Variants) {
		return false
	}
	for i, v := range vs.Variants {
		if !v.Equal(o.Variants[i]) {
			return false
		}
	}
	return true
}

// NestedTypeSpecifier is Parent.Member, used to name a sum variant's type
// without building a value.
type NestedTypeSpecifier struct {
	Location token.Position
	Parent   TypeSpecifier
	Member   string
}

func (ns *NestedTypeSpecifier) typeSpecifierNode()  {}
func (ns *NestedTypeSpecifier) Pos() token.Position { return ns.Location }
func (ns *NestedTypeSpecifier) String() string      { return ns.Parent.String() + "." + ns.Member }
func (ns *NestedTypeSpecifier) Equal(other TypeSpecifier) bool {
	o, ok := other.(*NestedTypeSpecifier)
	return ok && o.Member == ns.Member && o.Parent.Equal(ns.Parent)
}

// IsUnit reports whether spec is nil or the unit primitive.
func IsUnit(spec TypeSpecifier) bool {
	if spec == nil {
		return true
	}
	p, ok := spec.(*PrimitiveTypeSpecifier)
	return ok && p.Kind == Unit
}
