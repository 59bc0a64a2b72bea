package typesystem

import (
	"github.com/funvibe/sumlang/internal/ast"
)

// Symbol is an immutable (type, value) pair. Tables replace symbols; they
// never change one in place.
type Symbol struct {
	Spec  ast.TypeSpecifier
	Value Value
}

func NewSymbol(spec ast.TypeSpecifier, value Value) *Symbol {
	return &Symbol{Spec: spec, Value: value}
}

// DefaultSymbol is returned by lookups that miss.
var DefaultSymbol = &Symbol{Spec: ast.Primitive(ast.Unit), Value: UNIT}

func (s *Symbol) IsDefault() bool {
	return s == DefaultSymbol
}

// WithValue returns a new symbol with the same type and a new value.
func (s *Symbol) WithValue(value Value) *Symbol {
	return &Symbol{Spec: s.Spec, Value: value}
}

func (s *Symbol) String() string {
	return s.Spec.String() + " = " + s.Value.Inspect()
}

// DefaultSymbolFor builds a symbol holding def's default value.
func DefaultSymbolFor(spec ast.TypeSpecifier, def TypeDefinition) *Symbol {
	return NewSymbol(spec, def.DefaultValue())
}
