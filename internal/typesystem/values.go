package typesystem

import (
	"math"
	"strconv"
	"strings"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
)

type ValueType string

const (
	BOOLEAN_VAL  = "BOOLEAN"
	BYTE_VAL     = "BYTE"
	INTEGER_VAL  = "INTEGER"
	DOUBLE_VAL   = "DOUBLE"
	STRING_VAL   = "STRING"
	UNIT_VAL     = "UNIT"
	RECORD_VAL   = "RECORD"
	SUM_VAL      = "SUM"
	ARRAY_VAL    = "ARRAY"
	FUNCTION_VAL = "FUNCTION"
)

// Value is a runtime value. Values are immutable: updates build new values.
type Value interface {
	Type() ValueType
	Inspect() string
	Equal(other Value) bool
}

type Boolean struct{ Value bool }

func (b *Boolean) Type() ValueType { return BOOLEAN_VAL }
func (b *Boolean) Inspect() string { return strconv.FormatBool(b.Value) }
func (b *Boolean) Equal(other Value) bool {
	o, ok := other.(*Boolean)
	return ok && o.Value == b.Value
}

type Byte struct{ Value byte }

func (b *Byte) Type() ValueType { return BYTE_VAL }
func (b *Byte) Inspect() string { return strconv.Itoa(int(b.Value)) }
func (b *Byte) Equal(other Value) bool {
	o, ok := other.(*Byte)
	return ok && o.Value == b.Value
}

type Integer struct{ Value int64 }

func (i *Integer) Type() ValueType { return INTEGER_VAL }
func (i *Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Equal(other Value) bool {
	o, ok := other.(*Integer)
	return ok && o.Value == i.Value
}

type Double struct{ Value float64 }

func (d *Double) Type() ValueType { return DOUBLE_VAL }
func (d *Double) Inspect() string { return FormatDouble(d.Value) }
func (d *Double) Equal(other Value) bool {
	o, ok := other.(*Double)
	return ok && o.Value == d.Value
}

// FormatDouble renders doubles the way print shows them: shortest form, no
// trailing ".0" for integral values. Exponents are used only for very large
// or very small magnitudes.
func FormatDouble(v float64) string {
	if a := math.Abs(v); a == 0 || (a >= 1e-6 && a < 1e21) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type String struct{ Value string }

func (s *String) Type() ValueType { return STRING_VAL }
func (s *String) Inspect() string { return s.Value }
func (s *String) Equal(other Value) bool {
	o, ok := other.(*String)
	return ok && o.Value == s.Value
}

// Unit is the value of expressions that produce nothing.
type Unit struct{}

func (u *Unit) Type() ValueType { return UNIT_VAL }
func (u *Unit) Inspect() string { return "()" }
func (u *Unit) Equal(other Value) bool {
	_, ok := other.(*Unit)
	return ok
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	UNIT  = &Unit{}
)

func NativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// Record is an instance of a RecordType. Member order follows the declaration.
type Record struct {
	Definition *RecordType
	members    map[string]Value
}

func NewRecord(def *RecordType, members map[string]Value) *Record {
	return &Record{Definition: def, members: members}
}

func (r *Record) Type() ValueType { return RECORD_VAL }

func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.members[name]
	return v, ok
}

// With returns a copy of r with one member replaced.
func (r *Record) With(name string, v Value) *Record {
	members := make(map[string]Value, len(r.members))
	for k, old := range r.members {
		members[k] = old
	}
	members[name] = v
	return &Record{Definition: r.Definition, members: members}
}

func (r *Record) Inspect() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, name := range r.Definition.MemberNames() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		if v, ok := r.members[name]; ok {
			sb.WriteString(v.Inspect())
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// Equal is member-for-member structural equality on records of the same type.
func (r *Record) Equal(other Value) bool {
	o, ok := other.(*Record)
	if !ok || o.Definition != r.Definition || len(o.members) != len(r.members) {
		return false
	}
	for k, v := range r.members {
		ov, ok := o.members[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Sum is a tagged value. Tag is a declared variant name of the owning sum
// or the global Nil tag; Payload is nil for Nil.
type Sum struct {
	Tag     string
	Payload Value
}

func (s *Sum) Type() ValueType { return SUM_VAL }
func (s *Sum) IsNil() bool     { return s.Tag == config.NilTag }
func (s *Sum) Inspect() string {
	if s.Payload == nil {
		return s.Tag
	}
	return s.Tag + "(" + s.Payload.Inspect() + ")"
}
func (s *Sum) Equal(other Value) bool {
	o, ok := other.(*Sum)
	if !ok || o.Tag != s.Tag {
		return false
	}
	if s.Payload == nil || o.Payload == nil {
		return s.Payload == nil && o.Payload == nil
	}
	return s.Payload.Equal(o.Payload)
}

// NilValue is the Nil-tagged value shared by all Maybe types.
var NilValue = &Sum{Tag: config.NilTag}

// Array is a sequence of values of one element type.
type Array struct {
	Element   ast.TypeSpecifier
	FixedSize bool
	Elements  []Value
}

func (a *Array) Type() ValueType { return ARRAY_VAL }
func (a *Array) Len() int        { return len(a.Elements) }

// With returns a copy of a with element i replaced. When i == Len() on a
// variable-size array the element is appended.
func (a *Array) With(i int, v Value) *Array {
	n := len(a.Elements)
	if i == n {
		n++
	}
	elements := make([]Value, n)
	copy(elements, a.Elements)
	elements[i] = v
	return &Array{Element: a.Element, FixedSize: a.FixedSize, Elements: elements}
}

func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a *Array) Equal(other Value) bool {
	o, ok := other.(*Array)
	if !ok || len(o.Elements) != len(a.Elements) {
		return false
	}
	for i, el := range a.Elements {
		if !el.Equal(o.Elements[i]) {
			return false
		}
	}
	return true
}

// Callable is implemented by every function value.
type Callable interface {
	Value
	Signature() ast.TypeSpecifier
}

// DefaultFunction is the default value of a function type: calling it
// yields the default value of the return type.
type DefaultFunction struct {
	Spec *ast.FunctionTypeSpecifier
}

func (d *DefaultFunction) Type() ValueType              { return FUNCTION_VAL }
func (d *DefaultFunction) Inspect() string              { return "<default " + d.Spec.String() + ">" }
func (d *DefaultFunction) Signature() ast.TypeSpecifier { return d.Spec }
func (d *DefaultFunction) Equal(other Value) bool {
	o, ok := other.(*DefaultFunction)
	return ok && o.Spec.Equal(d.Spec)
}

// ZeroValue returns the canonical zero of a scalar kind.
func ZeroValue(kind ast.PrimitiveKind) Value {
	switch kind {
	case ast.Boolean:
		return FALSE
	case ast.Byte:
		return &Byte{Value: 0}
	case ast.Int:
		return &Integer{Value: 0}
	case ast.Double:
		return &Double{Value: 0}
	case ast.String:
		return &String{Value: ""}
	case ast.Nil:
		return NilValue
	default:
		return UNIT
	}
}
