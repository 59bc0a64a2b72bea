package typesystem

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/diagnostics"
)

func undeclaredType(spec ast.TypeSpecifier) *diagnostics.ErrorList {
	return diagnostics.Single(diagnostics.ErrUndeclaredType, spec.Pos(), "undeclared type '%s'", spec.String())
}

func undeclaredMember(spec ast.TypeSpecifier, parent TypeDefinition, member string) *diagnostics.ErrorList {
	return diagnostics.Single(diagnostics.ErrUndeclaredMember, spec.Pos(),
		"type '%s' has no member '%s'", parent.String(), member)
}
