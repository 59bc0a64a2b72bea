package typesystem

import (
	"github.com/funvibe/sumlang/internal/ast"
)

// AnalysisResult classifies an assignment from one type to another.
type AnalysisResult int

const (
	Incompatible AnalysisResult = iota
	// Ambiguous means more than one sum variant could receive the value.
	Ambiguous
	// Unambiguous means a single widening step converts the value.
	Unambiguous
	// UnambiguousNested means the value must first be wrapped into the
	// inner sum of a Maybe and then wrapped as Value.
	UnambiguousNested
	Equivalent
)

func (r AnalysisResult) String() string {
	switch r {
	case Incompatible:
		return "INCOMPATIBLE"
	case Ambiguous:
		return "AMBIGUOUS"
	case Unambiguous:
		return "UNAMBIGUOUS"
	case UnambiguousNested:
		return "UNAMBIGUOUS_NESTED"
	case Equivalent:
		return "EQUIVALENT"
	default:
		return "UNKNOWN"
	}
}

// IsAssignable reports whether the result permits the assignment.
func (r AnalysisResult) IsAssignable() bool {
	return r == Equivalent || r == Unambiguous || r == UnambiguousNested
}

// AnalyzeAssignment decides whether a value of type source may be stored
// where target is expected.
func AnalyzeAssignment(source, target ast.TypeSpecifier, table *TypeTable) AnalysisResult {
	if source == nil || target == nil {
		return Incompatible
	}
	if source.Equal(target) {
		return Equivalent
	}
	targetResult := GetType(target, table, Resolve)
	sourceResult := GetType(source, table, Resolve)
	if !targetResult.IsOk() || !sourceResult.IsOk() {
		return Incompatible
	}
	sourceDef, targetDef := sourceResult.Value, targetResult.Value
	if isNamedDefinition(targetDef) && sourceDef == targetDef {
		return Equivalent
	}

	switch t := targetDef.(type) {
	case *PrimitiveType:
		s, ok := sourceDef.(*PrimitiveType)
		if !ok {
			return Incompatible
		}
		return WidenPrimitive(s.Kind, t.Kind)

	case *MaybeType:
		return analyzeMaybe(source, sourceDef, t, table)

	case *SumType:
		// The target decides how many of its variants accept the source.
		count, _ := t.CountVariantsOfType(source, sourceDef)
		switch {
		case count == 0:
			return Incompatible
		case count == 1:
			return Unambiguous
		default:
			return Ambiguous
		}

	case *RecordType:
		return Incompatible

	case *ArrayType:
		s, ok := sourceDef.(*ArrayType)
		if !ok || s.FixedSize != t.FixedSize {
			return Incompatible
		}
		if s.Element.Equal(t.Element) || AnalyzeAssignment(s.Element, t.Element, table) == Equivalent {
			return Equivalent
		}
		return Incompatible

	case *FunctionType:
		s, ok := sourceDef.(*FunctionType)
		if !ok {
			return Incompatible
		}
		return analyzeFunction(s.Spec, t.Spec)

	case *PlaceholderType:
		if s, ok := sourceDef.(*PlaceholderType); ok && s.Name == t.Name {
			return Equivalent
		}
		return Incompatible
	}
	return Incompatible
}

func isNamedDefinition(def TypeDefinition) bool {
	switch def.(type) {
	case *RecordType, *SumType, *PlaceholderType:
		return true
	}
	return false
}

func analyzeMaybe(source ast.TypeSpecifier, sourceDef TypeDefinition, target *MaybeType, table *TypeTable) AnalysisResult {
	if p, ok := sourceDef.(*PrimitiveType); ok && p.Kind == ast.Nil {
		return Unambiguous
	}
	if s, ok := sourceDef.(*MaybeType); ok {
		if s.Base.Equal(target.Base) || AnalyzeAssignment(s.Base, target.Base, table) == Equivalent {
			return Equivalent
		}
		return Incompatible
	}
	switch AnalyzeAssignment(source, target.Base, table) {
	case Equivalent:
		return Unambiguous
	case Unambiguous:
		base := GetType(target.Base, table, Resolve)
		if _, isSum := base.Value.(*SumType); base.IsOk() && isSum {
			return UnambiguousNested
		}
		return Unambiguous
	case Ambiguous:
		return Ambiguous
	}
	return Incompatible
}

// analyzeFunction compares signatures structurally. A variant function with
// a single signature is interchangeable with that plain signature.
func analyzeFunction(source, target ast.TypeSpecifier) AnalysisResult {
	if source.Equal(target) {
		return Equivalent
	}
	if sv, ok := source.(*ast.VariantFunctionTypeSpecifier); ok && len(sv.Variants) == 1 {
		if sv.Variants[0].Equal(target) {
			return Unambiguous
		}
	}
	if tv, ok := target.(*ast.VariantFunctionTypeSpecifier); ok && len(tv.Variants) == 1 {
		if tv.Variants[0].Equal(source) {
			return Unambiguous
		}
	}
	return Incompatible
}
