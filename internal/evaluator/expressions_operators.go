package evaluator

import (
	"math"
	"strings"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/typesystem"
)

func invalidOperand(n ast.Node, op string, specs ...ast.TypeSpecifier) diagnostics.Result[ast.TypeSpecifier] {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.String()
	}
	return typeFailure(newError(diagnostics.ErrInvalidOperandType, n.Pos(),
		"operator '%s' cannot be applied to '%s'", op, strings.Join(names, "', '")))
}

func (e *Evaluator) unaryType(n *ast.UnaryExpression, ctx *ExecutionContext) diagnostics.Result[ast.TypeSpecifier] {
	operand := e.GetTypeSpecifier(n.Operand, ctx)
	if !operand.IsOk() {
		return operand
	}
	kind, ok := primitiveKind(operand.Value, ctx)
	switch {
	case n.Operator == "-" && ok && typesystem.IsNumeric(kind):
		return typeResult(ast.Primitive(kind))
	case n.Operator == "!" && ok && kind == ast.Boolean:
		return typeResult(ast.Primitive(ast.Boolean))
	}
	return invalidOperand(n, n.Operator, operand.Value)
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpression, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	operand := e.Evaluate(n.Operand, ctx)
	if !operand.IsOk() {
		return operand
	}
	switch v := operand.Value.(type) {
	case *typesystem.Boolean:
		if n.Operator == "!" {
			return valueResult(typesystem.NativeBool(!v.Value))
		}
	case *typesystem.Byte:
		return valueResult(&typesystem.Byte{Value: -v.Value})
	case *typesystem.Integer:
		return valueResult(&typesystem.Integer{Value: -v.Value})
	case *typesystem.Double:
		return valueResult(&typesystem.Double{Value: -v.Value})
	}
	return valueFailure(newError(diagnostics.ErrInternal, n.Pos(),
		"operator '%s' applied to %s", n.Operator, operand.Value.Type()))
}

func isArithmetic(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%":
		return true
	}
	return false
}

func isOrdering(op string) bool {
	switch op {
	case "<", "<=", ">", ">=":
		return true
	}
	return false
}

func (e *Evaluator) binaryType(n *ast.BinaryExpression, ctx *ExecutionContext) diagnostics.Result[ast.TypeSpecifier] {
	left := e.GetTypeSpecifier(n.Left, ctx)
	if !left.IsOk() {
		return left
	}
	right := e.GetTypeSpecifier(n.Right, ctx)
	if !right.IsOk() {
		return right
	}
	kind, ok := operandKind(n.Operator, left.Value, right.Value, ctx)
	if !ok {
		return invalidOperand(n, n.Operator, left.Value, right.Value)
	}
	if isArithmetic(n.Operator) {
		return typeResult(ast.Primitive(kind))
	}
	return typeResult(ast.Primitive(ast.Boolean))
}

// operandKind is the kind both operands are widened to before the operator
// is applied. Equality on non-primitive operands reports ok with the Unit
// kind; those are compared after widening one side into the other.
func operandKind(op string, left, right ast.TypeSpecifier, ctx *ExecutionContext) (ast.PrimitiveKind, bool) {
	lk, lok := primitiveKind(left, ctx)
	rk, rok := primitiveKind(right, ctx)
	_, lranked := typesystem.Rank(lk)
	_, rranked := typesystem.Rank(rk)
	ranked := lok && rok && lranked && rranked

	switch {
	case isArithmetic(op):
		if !ranked {
			return 0, false
		}
		if op == "+" && (lk == ast.String || rk == ast.String) {
			return ast.String, true
		}
		if typesystem.IsNumeric(lk) && typesystem.IsNumeric(rk) {
			return typesystem.WiderKind(lk, rk), true
		}
	case isOrdering(op):
		if !ranked {
			return 0, false
		}
		if typesystem.IsNumeric(lk) && typesystem.IsNumeric(rk) {
			return typesystem.WiderKind(lk, rk), true
		}
		if lk == ast.String && rk == ast.String {
			return ast.String, true
		}
	case op == "==" || op == "!=":
		if ranked {
			return typesystem.WiderKind(lk, rk), true
		}
		if typesystem.AnalyzeAssignment(left, right, ctx.Types).IsAssignable() ||
			typesystem.AnalyzeAssignment(right, left, ctx.Types).IsAssignable() {
			return ast.Unit, true
		}
	case op == "&&" || op == "||":
		if lok && rok && lk == ast.Boolean && rk == ast.Boolean {
			return ast.Boolean, true
		}
	}
	return 0, false
}

func (e *Evaluator) validateBinary(n *ast.BinaryExpression, ctx *ExecutionContext) *diagnostics.ErrorList {
	errs := diagnostics.Concatenate(e.Validate(n.Left, ctx), e.Validate(n.Right, ctx))
	if !errs.IsEmpty() {
		return errs
	}
	if spec := e.binaryType(n, ctx); !spec.IsOk() {
		return spec.Errors
	}
	if (n.Operator == "/" || n.Operator == "%") && IsConstant(n.Right) {
		if divisor := e.Evaluate(n.Right, ctx); divisor.IsOk() && isZero(divisor.Value) {
			return newError(diagnostics.ErrDivideByZero, n.Pos(), "division by zero in '%s'", ast.ExpressionString(n))
		}
	}
	return diagnostics.Empty
}

func isZero(v typesystem.Value) bool {
	switch n := v.(type) {
	case *typesystem.Byte:
		return n.Value == 0
	case *typesystem.Integer:
		return n.Value == 0
	case *typesystem.Double:
		return n.Value == 0
	}
	return false
}

// evalBinary evaluates left then right. Errors from the left operand are
// returned as they are and the right operand is not evaluated.
func (e *Evaluator) evalBinary(n *ast.BinaryExpression, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	left, errs := e.evalTyped(n.Left, ctx)
	if !errs.IsEmpty() {
		return diagnostics.Result[typesystem.Value]{Value: left.value, Errors: errs}
	}
	if ctx.Exited() {
		return e.exitedResult(n, ctx)
	}
	switch n.Operator {
	case "&&":
		if !typesystem.Truthy(left.value) {
			return valueResult(typesystem.FALSE)
		}
	case "||":
		if typesystem.Truthy(left.value) {
			return valueResult(typesystem.TRUE)
		}
	}
	right, errs := e.evalTyped(n.Right, ctx)
	if !errs.IsEmpty() {
		return diagnostics.Result[typesystem.Value]{Value: right.value, Errors: errs}
	}
	if ctx.Exited() {
		return e.exitedResult(n, ctx)
	}

	kind, ok := operandKind(n.Operator, left.spec, right.spec, ctx)
	if !ok {
		return valueFailure(newError(diagnostics.ErrInternal, n.Pos(),
			"operator '%s' on '%s' and '%s'", n.Operator, left.spec, right.spec))
	}

	switch {
	case n.Operator == "&&" || n.Operator == "||":
		return valueResult(typesystem.NativeBool(typesystem.Truthy(right.value)))
	case kind == ast.Unit:
		return e.compareWidened(n, left, right, ctx)
	}

	a := typesystem.ConvertPrimitive(left.value, kind)
	b := typesystem.ConvertPrimitive(right.value, kind)
	if isArithmetic(n.Operator) {
		if (n.Operator == "/" || n.Operator == "%") && isZero(b) {
			code := diagnostics.ErrRuntimeDivideByZero
			if IsConstant(n.Right) {
				code = diagnostics.ErrDivideByZero
			}
			return diagnostics.Result[typesystem.Value]{
				Value:  typesystem.ZeroValue(kind),
				Errors: newError(code, n.Pos(), "division by zero in '%s'", ast.ExpressionString(n)),
			}
		}
		return arithmetic(n, kind, a, b)
	}
	return compare(n, a, b)
}

func arithmetic(n *ast.BinaryExpression, kind ast.PrimitiveKind, a, b typesystem.Value) diagnostics.Result[typesystem.Value] {
	switch kind {
	case ast.String:
		return valueResult(&typesystem.String{Value: a.(*typesystem.String).Value + b.(*typesystem.String).Value})
	case ast.Byte:
		x, y := a.(*typesystem.Byte).Value, b.(*typesystem.Byte).Value
		switch n.Operator {
		case "+":
			return valueResult(&typesystem.Byte{Value: x + y})
		case "-":
			return valueResult(&typesystem.Byte{Value: x - y})
		case "*":
			return valueResult(&typesystem.Byte{Value: x * y})
		case "/":
			return valueResult(&typesystem.Byte{Value: x / y})
		case "%":
			return valueResult(&typesystem.Byte{Value: x % y})
		}
	case ast.Int:
		x, y := a.(*typesystem.Integer).Value, b.(*typesystem.Integer).Value
		switch n.Operator {
		case "+":
			return valueResult(&typesystem.Integer{Value: x + y})
		case "-":
			return valueResult(&typesystem.Integer{Value: x - y})
		case "*":
			return valueResult(&typesystem.Integer{Value: x * y})
		case "/":
			return valueResult(&typesystem.Integer{Value: x / y})
		case "%":
			return valueResult(&typesystem.Integer{Value: x % y})
		}
	case ast.Double:
		x, y := a.(*typesystem.Double).Value, b.(*typesystem.Double).Value
		switch n.Operator {
		case "+":
			return valueResult(&typesystem.Double{Value: x + y})
		case "-":
			return valueResult(&typesystem.Double{Value: x - y})
		case "*":
			return valueResult(&typesystem.Double{Value: x * y})
		case "/":
			return valueResult(&typesystem.Double{Value: x / y})
		case "%":
			return valueResult(&typesystem.Double{Value: math.Mod(x, y)})
		}
	}
	return valueFailure(newError(diagnostics.ErrInternal, n.Pos(), "operator '%s' on %s", n.Operator, kind))
}

// compare applies a comparison to two values of the same scalar kind.
func compare(n *ast.BinaryExpression, a, b typesystem.Value) diagnostics.Result[typesystem.Value] {
	var c int
	switch x := a.(type) {
	case *typesystem.Boolean:
		y := b.(*typesystem.Boolean)
		c = boolCompare(x.Value, y.Value)
	case *typesystem.Byte:
		c = ordered(x.Value, b.(*typesystem.Byte).Value)
	case *typesystem.Integer:
		c = ordered(x.Value, b.(*typesystem.Integer).Value)
	case *typesystem.Double:
		c = ordered(x.Value, b.(*typesystem.Double).Value)
	case *typesystem.String:
		c = strings.Compare(x.Value, b.(*typesystem.String).Value)
	default:
		return valueFailure(newError(diagnostics.ErrInternal, n.Pos(), "cannot compare %s", a.Type()))
	}
	switch n.Operator {
	case "==":
		return valueResult(typesystem.NativeBool(c == 0))
	case "!=":
		return valueResult(typesystem.NativeBool(c != 0))
	case "<":
		return valueResult(typesystem.NativeBool(c < 0))
	case "<=":
		return valueResult(typesystem.NativeBool(c <= 0))
	case ">":
		return valueResult(typesystem.NativeBool(c > 0))
	case ">=":
		return valueResult(typesystem.NativeBool(c >= 0))
	}
	return valueFailure(newError(diagnostics.ErrInternal, n.Pos(), "unknown operator '%s'", n.Operator))
}

func ordered[T byte | int64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func boolCompare(x, y bool) int {
	switch {
	case x == y:
		return 0
	case !x:
		return -1
	}
	return 1
}

// compareWidened tests equality of non-scalar values by widening one side
// into the other's type, so that nil compares against any Maybe value.
func (e *Evaluator) compareWidened(n *ast.BinaryExpression, left, right typedValue, ctx *ExecutionContext) diagnostics.Result[typesystem.Value] {
	a, b := left.value, right.value
	if converted, ok := typesystem.Convert(left.value, left.spec, right.spec, ctx.Types); ok {
		a = converted
	} else if converted, ok := typesystem.Convert(right.value, right.spec, left.spec, ctx.Types); ok {
		b = converted
	}
	equal := a.Equal(b)
	if n.Operator == "!=" {
		equal = !equal
	}
	return valueResult(typesystem.NativeBool(equal))
}
