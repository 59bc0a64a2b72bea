package evaluator

import (
	"strings"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/symbols"
	"github.com/funvibe/sumlang/internal/typesystem"
)

// armBinding is the type an arm binds: the payload type for a variant arm,
// the source type for the default arm.
func armBinding(arm *ast.MatchArm, source ast.TypeSpecifier, sum typesystem.SumDefinition) ast.TypeSpecifier {
	switch {
	case arm.Variant == config.DefaultArmName:
		return source
	case arm.Variant == config.NilTag:
		return ast.Primitive(ast.Nil)
	}
	return sum.VariantPayloadSpec(arm.Variant)
}

// preprocessMatch requires one arm per variant, or a single default arm
// together with a strict subset of the variants. Nil may be matched on any sum.
func (e *Evaluator) preprocessMatch(n *ast.MatchStatement, ctx *ExecutionContext, returnType ast.TypeSpecifier) PreprocessResult {
	if errs := e.Validate(n.Source, ctx); !errs.IsEmpty() {
		return preprocessed(CoverageNone, errs)
	}
	source := e.GetTypeSpecifier(n.Source, ctx).Value
	sum, ok := resolve(source, ctx).Value.(typesystem.SumDefinition)
	if !ok {
		return preprocessed(CoverageNone, newError(diagnostics.ErrMatchRequiresSum, n.Source.Pos(),
			"match needs a sum value, got '%s'", source))
	}

	errs := diagnostics.Empty
	seen := make(map[string]bool)
	defaults := 0
	coverages := make([]ReturnCoverage, 0, len(n.Arms))
	for _, arm := range n.Arms {
		valid := true
		switch {
		case arm.Variant == config.DefaultArmName:
			defaults++
			if defaults > 1 {
				errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrRedundantDefault, arm.Pos(),
					"match has more than one default arm"))
			}
		case seen[arm.Variant]:
			errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrDuplicateMatchArm, arm.Pos(),
				"variant '%s' is matched twice", arm.Variant))
		case arm.Variant != config.NilTag && !sum.HasVariant(arm.Variant):
			errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrInvalidVariant, arm.Pos(),
				"'%s' has no variant '%s'", source, arm.Variant))
			valid = false
		default:
			seen[arm.Variant] = true
		}

		scope := ctx.Child()
		if arm.Binding != "" && valid {
			spec := armBinding(arm, source, sum)
			scope.Symbols.InsertSymbol(arm.Binding, typesystem.NewSymbol(spec, defaultValue(spec, ctx)))
		}
		e.scopes[arm] = scope
		body := e.preprocessBlock(arm.Body, scope, returnType)
		errs = diagnostics.Concatenate(errs, body.Errors)
		coverages = append(coverages, body.Coverage)
	}

	var missing []string
	for _, name := range sum.VariantNames() {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	switch {
	case defaults == 0 && len(missing) > 0:
		errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrIncompleteMatch, n.Pos(),
			"match on '%s' does not handle %s", source, strings.Join(missing, ", ")))
	case defaults == 1 && len(missing) == 0:
		errs = diagnostics.Concatenate(errs, newError(diagnostics.ErrRedundantDefault, n.Pos(),
			"default arm is unreachable: every variant of '%s' is handled", source))
	}

	coverage := branch(coverages...)
	if defaults == 0 && len(missing) > 0 {
		coverage = loopBody(coverage)
	}
	return preprocessed(coverage, errs)
}

func (e *Evaluator) executeMatch(n *ast.MatchStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	r := e.Evaluate(n.Source, ctx)
	if !r.IsOk() {
		return r.Errors
	}
	value, ok := r.Value.(*typesystem.Sum)
	if !ok {
		return newError(diagnostics.ErrInternal, n.Source.Pos(), "match source is not a sum value")
	}

	var chosen, fallback *ast.MatchArm
	for _, arm := range n.Arms {
		if arm.Variant == value.Tag {
			chosen = arm
			break
		}
		if arm.Variant == config.DefaultArmName && fallback == nil {
			fallback = arm
		}
	}
	if chosen == nil {
		chosen = fallback
	}
	if chosen == nil {
		return newError(diagnostics.ErrUnmatchedTag, n.Pos(), "no arm matches variant '%s'", value.Tag)
	}

	static, ok := e.scopes[chosen]
	if !ok {
		return newError(diagnostics.ErrInternal, chosen.Pos(), "match arm was not analyzed")
	}
	scope := instance(static, ctx)
	if chosen.Binding != "" {
		var bound typesystem.Value = value
		switch {
		case chosen.Variant == config.NilTag:
			bound = typesystem.NilValue
		case chosen.Variant != config.DefaultArmName:
			bound = value.Payload
		}
		sym := scope.Symbols.GetSymbol(chosen.Binding, symbols.Shallow)
		scope.Symbols.Bind(chosen.Binding, sym.WithValue(bound))
	}
	return e.executeBlock(chosen.Body, scope)
}
