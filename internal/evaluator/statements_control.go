package evaluator

import (
	"strings"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/symbols"
	"github.com/funvibe/sumlang/internal/typesystem"
)

// assignedValue is the expression whose value an assignment stores:
// x += 1 stores x + 1.
func assignedValue(n *ast.AssignmentStatement) ast.Expression {
	if n.Operator == "" || n.Operator == "=" {
		return n.Value
	}
	return &ast.BinaryExpression{
		Location: n.Location,
		Operator: strings.TrimSuffix(n.Operator, "="),
		Left:     &ast.VariableExpression{Location: n.Target.Pos(), Variable: n.Target},
		Right:    n.Value,
	}
}

func (e *Evaluator) preprocessAssignment(n *ast.AssignmentStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	switch n.Operator {
	case "", "=", "+=", "-=", "*=", "/=", "%=":
	default:
		return newError(diagnostics.ErrInvalidOperandType, n.Pos(), "unknown assignment operator '%s'", n.Operator)
	}
	errs := diagnostics.Concatenate(e.validateVariable(n.Target, ctx), e.Validate(assignedValue(n), ctx))
	if !errs.IsEmpty() {
		return errs
	}
	if owner := ctx.Symbols.Owner(ast.RootName(n.Target)); owner != nil && owner.Modifier() == symbols.ReadOnly {
		return newError(diagnostics.ErrMutationDisallowed, n.Pos(), "'%s' is read-only", ast.RootName(n.Target))
	}
	target := e.variableType(n.Target, ctx).Value
	source := e.GetTypeSpecifier(assignedValue(n), ctx).Value
	result := typesystem.AnalyzeAssignment(source, target, ctx.Types)
	return assignmentError(result, diagnostics.ErrAssignmentType, n.Value.Pos(), source, target)
}

func (e *Evaluator) executeAssignment(n *ast.AssignmentStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	target := e.variableType(n.Target, ctx)
	if !target.IsOk() {
		return target.Errors
	}
	v, errs := e.evalTyped(assignedValue(n), ctx)
	if !errs.IsEmpty() || ctx.Exited() {
		return errs
	}
	out := convert(v, target.Value, ctx, n.Value)
	if !out.IsOk() {
		return out.Errors
	}
	return e.writeVariable(n.Target, out.Value, ctx)
}

// checkCondition requires a bool-typed condition.
func (e *Evaluator) checkCondition(cond ast.Expression, ctx *ExecutionContext) *diagnostics.ErrorList {
	if errs := e.Validate(cond, ctx); !errs.IsEmpty() {
		return errs
	}
	spec := e.GetTypeSpecifier(cond, ctx).Value
	if kind, ok := primitiveKind(spec, ctx); !ok || kind != ast.Boolean {
		return newError(diagnostics.ErrConditionType, cond.Pos(), "condition must be a bool, got '%s'", spec)
	}
	return diagnostics.Empty
}

func (e *Evaluator) condition(cond ast.Expression, ctx *ExecutionContext) (bool, *diagnostics.ErrorList) {
	r := e.Evaluate(cond, ctx)
	if !r.IsOk() {
		return false, r.Errors
	}
	return typesystem.Truthy(r.Value), diagnostics.Empty
}

func (e *Evaluator) preprocessIf(n *ast.IfStatement, ctx *ExecutionContext, returnType ast.TypeSpecifier) PreprocessResult {
	errs := e.checkCondition(n.Condition, ctx)
	then := e.preprocessBlock(n.Then, ctx, returnType)
	errs = diagnostics.Concatenate(errs, then.Errors)

	otherwise := CoverageNone
	if n.Else != nil {
		res := e.preprocessStatement(n.Else, ctx, returnType)
		otherwise = res.Coverage
		errs = diagnostics.Concatenate(errs, res.Errors)
	}
	return preprocessed(branch(then.Coverage, otherwise), errs)
}

func (e *Evaluator) executeIf(n *ast.IfStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	ok, errs := e.condition(n.Condition, ctx)
	if !errs.IsEmpty() {
		return errs
	}
	if ok {
		return e.executeBlock(n.Then, ctx)
	}
	if n.Else != nil {
		return e.executeStatement(n.Else, ctx)
	}
	return diagnostics.Empty
}

func (e *Evaluator) preprocessReturn(n *ast.ReturnStatement, ctx *ExecutionContext, returnType ast.TypeSpecifier) *diagnostics.ErrorList {
	if returnType == nil {
		return newError(diagnostics.ErrReturnOutsideFunction, n.Pos(), "return outside of a function")
	}
	if n.Value == nil {
		if !ast.IsUnit(returnType) {
			return newError(diagnostics.ErrReturnType, n.Pos(), "missing return value of type '%s'", returnType)
		}
		return diagnostics.Empty
	}
	if errs := e.Validate(n.Value, ctx); !errs.IsEmpty() {
		return errs
	}
	source := e.GetTypeSpecifier(n.Value, ctx).Value
	result := typesystem.AnalyzeAssignment(source, returnType, ctx.Types)
	return assignmentError(result, diagnostics.ErrReturnType, n.Value.Pos(), source, returnType)
}

// executeReturn records the value with its static type; the activation
// converts it to the declared return type.
func (e *Evaluator) executeReturn(n *ast.ReturnStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	if n.Value == nil {
		ctx.SetReturnValue(typesystem.UNIT, ast.Primitive(ast.Unit))
		return diagnostics.Empty
	}
	v, errs := e.evalTyped(n.Value, ctx)
	if !errs.IsEmpty() {
		return errs
	}
	ctx.SetReturnValue(v.value, v.spec)
	return diagnostics.Empty
}

func (e *Evaluator) preprocessExit(n *ast.ExitStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	if n.Code == nil {
		return diagnostics.Empty
	}
	if errs := e.Validate(n.Code, ctx); !errs.IsEmpty() {
		return errs
	}
	spec := e.GetTypeSpecifier(n.Code, ctx).Value
	if kind, ok := primitiveKind(spec, ctx); !ok || (kind != ast.Int && kind != ast.Byte) {
		return newError(diagnostics.ErrExitCodeType, n.Code.Pos(), "exit code must be an int, got '%s'", spec)
	}
	return diagnostics.Empty
}

func (e *Evaluator) executeExit(n *ast.ExitStatement, ctx *ExecutionContext) *diagnostics.ErrorList {
	code := 0
	if n.Code != nil {
		v, errs := e.scalarOperand(n.Code, ast.Int, ctx)
		if !errs.IsEmpty() {
			return errs
		}
		code = int(v.(*typesystem.Integer).Value)
	}
	ctx.SetExitCode(code)
	return diagnostics.Empty
}
