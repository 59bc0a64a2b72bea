package typesystem

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
)

// Convert widens value, statically typed as source, into target.
// ok is false when AnalyzeAssignment does not permit the assignment.
func Convert(value Value, source, target ast.TypeSpecifier, table *TypeTable) (Value, bool) {
	result := AnalyzeAssignment(source, target, table)
	if !result.IsAssignable() {
		return nil, false
	}
	if result == Equivalent {
		return value, true
	}

	targetDef := GetType(target, table, Resolve).Value
	switch t := targetDef.(type) {
	case *PrimitiveType:
		return ConvertPrimitive(value, t.Kind), true

	case *MaybeType:
		if p, ok := GetType(source, table, Resolve).Value.(*PrimitiveType); ok && p.Kind == ast.Nil {
			return NilValue, true
		}
		// For UnambiguousNested this first tags the value into the inner sum.
		inner, ok := Convert(value, source, t.Base, table)
		if !ok {
			return nil, false
		}
		return &Sum{Tag: config.ValueTag, Payload: inner}, true

	case *SumType:
		sourceDef := GetType(source, table, Resolve).Value
		_, tag := t.CountVariantsOfType(source, sourceDef)
		if tag == "" {
			return nil, false
		}
		return &Sum{Tag: tag, Payload: value}, true
	}
	// Functions and single-signature variant functions share a representation.
	return value, true
}

// ConvertPrimitive converts a scalar value to a wider scalar kind.
// Values that are already of the requested kind are returned unchanged.
func ConvertPrimitive(value Value, kind ast.PrimitiveKind) Value {
	switch kind {
	case ast.Boolean:
		if _, ok := value.(*Boolean); ok {
			return value
		}
		return NativeBool(Truthy(value))
	case ast.Byte:
		switch v := value.(type) {
		case *Byte:
			return v
		case *Boolean:
			if v.Value {
				return &Byte{Value: 1}
			}
			return &Byte{Value: 0}
		}
	case ast.Int:
		switch v := value.(type) {
		case *Integer:
			return v
		case *Byte:
			return &Integer{Value: int64(v.Value)}
		case *Boolean:
			if v.Value {
				return &Integer{Value: 1}
			}
			return &Integer{Value: 0}
		}
	case ast.Double:
		switch v := value.(type) {
		case *Double:
			return v
		case *Integer:
			return &Double{Value: float64(v.Value)}
		case *Byte:
			return &Double{Value: float64(v.Value)}
		case *Boolean:
			if v.Value {
				return &Double{Value: 1}
			}
			return &Double{Value: 0}
		}
	case ast.String:
		if s, ok := value.(*String); ok {
			return s
		}
		return &String{Value: value.Inspect()}
	}
	return value
}

// Truthy is the boolean reading of a scalar used by conditions and logic operators.
func Truthy(value Value) bool {
	switch v := value.(type) {
	case *Boolean:
		return v.Value
	case *Byte:
		return v.Value != 0
	case *Integer:
		return v.Value != 0
	case *Double:
		return v.Value != 0
	case *String:
		return v.Value != ""
	}
	return false
}
