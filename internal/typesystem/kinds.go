package typesystem

import (
	"github.com/funvibe/sumlang/internal/ast"
)

// primitiveRank is the widening order of the scalar kinds:
// bool < byte < int < double < string. Kinds missing from the table
// (unit, nil) only ever match themselves.
var primitiveRank = map[ast.PrimitiveKind]int{
	ast.Boolean: 0,
	ast.Byte:    1,
	ast.Int:     2,
	ast.Double:  3,
	ast.String:  4,
}

// Rank returns the widening rank of kind and whether it takes part in widening.
func Rank(kind ast.PrimitiveKind) (int, bool) {
	r, ok := primitiveRank[kind]
	return r, ok
}

// WidenPrimitive analyzes a scalar-to-scalar assignment.
// Widening is only ever upward: a kind never narrows.
func WidenPrimitive(source, target ast.PrimitiveKind) AnalysisResult {
	if source == target {
		return Equivalent
	}
	sr, sok := Rank(source)
	tr, tok := Rank(target)
	if !sok || !tok {
		return Incompatible
	}
	if sr <= tr {
		return Unambiguous
	}
	return Incompatible
}

// WiderKind returns the wider of two ranked kinds.
func WiderKind(a, b ast.PrimitiveKind) ast.PrimitiveKind {
	ar, _ := Rank(a)
	br, _ := Rank(b)
	if br > ar {
		return b
	}
	return a
}

// IsNumeric reports whether kind supports arithmetic.
func IsNumeric(kind ast.PrimitiveKind) bool {
	switch kind {
	case ast.Byte, ast.Int, ast.Double:
		return true
	}
	return false
}
