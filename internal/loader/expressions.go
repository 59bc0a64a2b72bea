package loader

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/token"
	"gopkg.in/yaml.v3"
)

var binaryOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"&&": true, "||": true,
}

func (d *decoder) expression(n *yaml.Node) (ast.Expression, error) {
	n = deref(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.SequenceNode:
		return d.arrayLiteral(n)
	case yaml.MappingNode:
	default:
		return nil, d.errorf(n, "expected an expression")
	}

	key, val, err := d.single(n)
	if err != nil {
		return nil, err
	}
	at := d.pos(key)
	if binaryOperators[key.Value] {
		return d.binary(key.Value, val, at)
	}
	switch key.Value {
	case "string":
		if val.Kind != yaml.ScalarNode {
			return nil, d.errorf(val, "expected a string")
		}
		return &ast.StringLiteral{Location: at, Value: val.Value}, nil
	case "byte":
		var b uint8
		if err := val.Decode(&b); err != nil {
			return nil, d.errorf(val, "invalid byte: %v", err)
		}
		return &ast.ByteLiteral{Location: at, Value: b}, nil
	case "int":
		var i int64
		if err := val.Decode(&i); err != nil {
			return nil, d.errorf(val, "invalid int: %v", err)
		}
		return &ast.IntLiteral{Location: at, Value: i}, nil
	case "double":
		var f float64
		if err := val.Decode(&f); err != nil {
			return nil, d.errorf(val, "invalid double: %v", err)
		}
		return &ast.DoubleLiteral{Location: at, Value: f}, nil
	case "bool":
		var b bool
		if err := val.Decode(&b); err != nil {
			return nil, d.errorf(val, "invalid bool: %v", err)
		}
		return &ast.BoolLiteral{Location: at, Value: b}, nil
	case "nil":
		return &ast.NilLiteral{Location: at}, nil
	case "var", "index":
		v, err := d.variable(n)
		if err != nil {
			return nil, err
		}
		return &ast.VariableExpression{Location: at, Variable: v}, nil
	case "array":
		return d.typedArray(val, at)
	case "neg", "not":
		operand, err := d.expression(val)
		if err != nil {
			return nil, err
		}
		op := "-"
		if key.Value == "not" {
			op = "!"
		}
		return &ast.UnaryExpression{Location: at, Operator: op, Operand: operand}, nil
	case "function":
		return d.function(val, at)
	case "variants":
		return d.variantFunction(val, at)
	case "call":
		return d.invoke(val)
	case "default":
		spec, err := d.typeSpec(val)
		if err != nil {
			return nil, err
		}
		return &ast.DefaultValueExpression{Location: at, Type: spec}, nil
	case "open":
		return d.open(val, at)
	case "get_byte":
		handle, err := d.expression(val)
		if err != nil {
			return nil, err
		}
		return &ast.GetByteExpression{Location: at, Handle: handle}, nil
	case "close":
		handle, err := d.expression(val)
		if err != nil {
			return nil, err
		}
		return &ast.CloseExpression{Location: at, Handle: handle}, nil
	default:
		return nil, d.errorf(key, "unknown expression %q", key.Value)
	}
}

// scalar decodes a literal by its resolved tag. Plain strings are
// variable paths; quoted strings are string literals.
func (d *decoder) scalar(n *yaml.Node) (ast.Expression, error) {
	at := d.pos(n)
	switch n.Tag {
	case "!!null":
		return &ast.NilLiteral{Location: at}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, d.errorf(n, "invalid bool: %v", err)
		}
		return &ast.BoolLiteral{Location: at, Value: b}, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, d.errorf(n, "invalid int: %v", err)
		}
		return &ast.IntLiteral{Location: at, Value: i}, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, d.errorf(n, "invalid double: %v", err)
		}
		return &ast.DoubleLiteral{Location: at, Value: f}, nil
	}
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return &ast.StringLiteral{Location: at, Value: n.Value}, nil
	}
	v, err := d.variable(n)
	if err != nil {
		return nil, err
	}
	return &ast.VariableExpression{Location: at, Variable: v}, nil
}

func (d *decoder) binary(op string, n *yaml.Node, at token.Position) (ast.Expression, error) {
	items, err := d.sequence(n)
	if err != nil {
		return nil, err
	}
	if len(items) != 2 {
		return nil, d.errorf(n, "operator %s takes two operands, got %d", op, len(items))
	}
	left, err := d.expression(items[0])
	if err != nil {
		return nil, err
	}
	right, err := d.expression(items[1])
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpression{Location: at, Operator: op, Left: left, Right: right}, nil
}

func (d *decoder) elements(items []*yaml.Node) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(items))
	for _, item := range items {
		el, err := d.expression(item)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func (d *decoder) arrayLiteral(n *yaml.Node) (ast.Expression, error) {
	elements, err := d.elements(n.Content)
	if err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Location: d.pos(n), Elements: elements}, nil
}

// typedArray decodes {array: [...]} or {array: {type: T, items: [...]}}.
func (d *decoder) typedArray(n *yaml.Node, at token.Position) (ast.Expression, error) {
	if n.Kind == yaml.SequenceNode || isNull(n) {
		elements, err := d.elements(n.Content)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLiteral{Location: at, Elements: elements}, nil
	}
	f, err := d.fields(n, "type", "items")
	if err != nil {
		return nil, err
	}
	lit := &ast.ArrayLiteral{Location: at}
	if t, ok := f["type"]; ok && !isNull(t) {
		if lit.ElementType, err = d.typeSpec(t); err != nil {
			return nil, err
		}
	}
	items, err := d.sequence(f["items"])
	if err != nil {
		return nil, err
	}
	if lit.Elements, err = d.elements(items); err != nil {
		return nil, err
	}
	return lit, nil
}

func (d *decoder) function(n *yaml.Node, at token.Position) (*ast.FunctionExpression, error) {
	f, err := d.fields(n, "params", "returns", "body")
	if err != nil {
		return nil, err
	}
	spec, err := d.signature(n, f)
	if err != nil {
		return nil, err
	}
	fn := &ast.FunctionExpression{Location: at, Type: spec}
	if fn.Body, err = d.block(f["body"], at); err != nil {
		return nil, err
	}
	return fn, nil
}

// variantFunction decodes an overload set: a sequence of function bodies.
func (d *decoder) variantFunction(n *yaml.Node, at token.Position) (ast.Expression, error) {
	items, err := d.sequence(n)
	if err != nil {
		return nil, err
	}
	vf := &ast.VariantFunctionExpression{Location: at}
	for _, item := range items {
		fn, err := d.function(item, d.pos(item))
		if err != nil {
			return nil, err
		}
		vf.Variants = append(vf.Variants, fn)
	}
	return vf, nil
}

// invoke decodes {callee, args}. An argument mapping with exactly the keys
// name and value is a keyword argument.
func (d *decoder) invoke(n *yaml.Node) (*ast.InvokeExpression, error) {
	f, err := d.fields(n, "callee", "args")
	if err != nil {
		return nil, err
	}
	calleeNode, err := d.require(n, f, "callee")
	if err != nil {
		return nil, err
	}
	call := &ast.InvokeExpression{Location: d.pos(n)}
	if call.Callee, err = d.expression(calleeNode); err != nil {
		return nil, err
	}
	items, err := d.sequence(f["args"])
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		arg, err := d.argument(item)
		if err != nil {
			return nil, err
		}
		call.Arguments = append(call.Arguments, arg)
	}
	return call, nil
}

func (d *decoder) argument(n *yaml.Node) (*ast.Argument, error) {
	n = deref(n)
	arg := &ast.Argument{Location: d.pos(n)}
	if isKeyword(n) {
		f, err := d.fields(n, "name", "value")
		if err != nil {
			return nil, err
		}
		if arg.Name, err = d.name(f["name"]); err != nil {
			return nil, err
		}
		n = f["value"]
	}
	value, err := d.expression(n)
	if err != nil {
		return nil, err
	}
	arg.Value = value
	return arg, nil
}

func isKeyword(n *yaml.Node) bool {
	if n.Kind != yaml.MappingNode || len(n.Content) != 4 {
		return false
	}
	a, b := n.Content[0].Value, n.Content[2].Value
	return (a == "name" && b == "value") || (a == "value" && b == "name")
}

func (d *decoder) open(n *yaml.Node, at token.Position) (ast.Expression, error) {
	f, err := d.fields(n, "path", "mode")
	if err != nil {
		return nil, err
	}
	pathNode, err := d.require(n, f, "path")
	if err != nil {
		return nil, err
	}
	modeNode, err := d.require(n, f, "mode")
	if err != nil {
		return nil, err
	}
	expr := &ast.OpenExpression{Location: at}
	if expr.Path, err = d.expression(pathNode); err != nil {
		return nil, err
	}
	if expr.Mode, err = d.expression(modeNode); err != nil {
		return nil, err
	}
	return expr, nil
}
