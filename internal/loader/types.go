package loader

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/token"
	"gopkg.in/yaml.v3"
)

var primitiveKinds = map[string]ast.PrimitiveKind{
	config.BoolTypeName:   ast.Boolean,
	config.ByteTypeName:   ast.Byte,
	config.IntTypeName:    ast.Int,
	config.DoubleTypeName: ast.Double,
	config.StringTypeName: ast.String,
	config.UnitTypeName:   ast.Unit,
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// typeSpec decodes a type written as text (int, Shape.Circle, int[]?, point[3])
// or as a {function} / {variants} mapping.
func (d *decoder) typeSpec(n *yaml.Node) (ast.TypeSpecifier, error) {
	n = deref(n)
	if n.Kind == yaml.ScalarNode {
		spec, msg := parseType(n.Value, d.pos(n))
		if spec == nil {
			return nil, d.errorf(n, "invalid type %q: %s", n.Value, msg)
		}
		return spec, nil
	}
	key, val, err := d.single(n)
	if err != nil {
		return nil, err
	}
	switch key.Value {
	case "function":
		f, err := d.fields(val, "params", "returns")
		if err != nil {
			return nil, err
		}
		return d.signature(val, f)
	case "variants":
		items, err := d.sequence(val)
		if err != nil {
			return nil, err
		}
		spec := &ast.VariantFunctionTypeSpecifier{Location: d.pos(key)}
		for _, item := range items {
			f, err := d.fields(item, "params", "returns")
			if err != nil {
				return nil, err
			}
			sig, err := d.signature(item, f)
			if err != nil {
				return nil, err
			}
			spec.Variants = append(spec.Variants, sig)
		}
		return spec, nil
	default:
		return nil, d.errorf(key, "unknown type form %q", key.Value)
	}
}

// parseType reads type text from the outside in: a trailing ? or [...]
// applies to everything before it, and the last dot separates a variant
// from its sum. On failure it returns nil and a reason.
func parseType(text string, at token.Position) (ast.TypeSpecifier, string) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return nil, "empty type"
	case strings.HasSuffix(text, "?"):
		base, msg := parseType(text[:len(text)-1], at)
		if base == nil {
			return nil, msg
		}
		return &ast.MaybeTypeSpecifier{Location: at, Base: base}, ""
	case strings.HasSuffix(text, "]"):
		open := strings.LastIndexByte(text, '[')
		if open < 0 {
			return nil, "unbalanced ]"
		}
		elem, msg := parseType(text[:open], at)
		if elem == nil {
			return nil, msg
		}
		spec := &ast.ArrayTypeSpecifier{Location: at, Element: elem}
		if size := strings.TrimSpace(text[open+1 : len(text)-1]); size != "" {
			n, err := strconv.Atoi(size)
			if err != nil || n < 0 {
				return nil, "array size must be a non-negative integer"
			}
			spec.FixedSize, spec.Size = true, n
		}
		return spec, ""
	}
	if dot := strings.LastIndexByte(text, '.'); dot >= 0 {
		parent, msg := parseType(text[:dot], at)
		if parent == nil {
			return nil, msg
		}
		member := text[dot+1:]
		if !isIdent(member) {
			return nil, "expected a variant name after ."
		}
		return &ast.NestedTypeSpecifier{Location: at, Parent: parent, Member: member}, ""
	}
	if kind, ok := primitiveKinds[text]; ok {
		return &ast.PrimitiveTypeSpecifier{Location: at, Kind: kind}, ""
	}
	if !isIdent(text) {
		return nil, "expected a type name"
	}
	return &ast.ComplexTypeSpecifier{Location: at, Name: text}, ""
}

// signature decodes the params and returns fields of a function literal or
// function type. A missing returns is unit.
func (d *decoder) signature(n *yaml.Node, f map[string]*yaml.Node) (*ast.FunctionTypeSpecifier, error) {
	spec := &ast.FunctionTypeSpecifier{Location: d.pos(n)}
	items, err := d.sequence(f["params"])
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		p, err := d.parameter(item)
		if err != nil {
			return nil, err
		}
		spec.Parameters = append(spec.Parameters, p)
	}
	if ret, ok := f["returns"]; ok && !isNull(ret) {
		if spec.ReturnType, err = d.typeSpec(ret); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

func (d *decoder) parameter(n *yaml.Node) (*ast.Parameter, error) {
	f, err := d.fields(n, "name", "type", "default")
	if err != nil {
		return nil, err
	}
	nameNode, err := d.require(n, f, "name")
	if err != nil {
		return nil, err
	}
	typeNode, err := d.require(n, f, "type")
	if err != nil {
		return nil, err
	}
	p := &ast.Parameter{Location: d.pos(n)}
	if p.Name, err = d.name(nameNode); err != nil {
		return nil, err
	}
	if p.Type, err = d.typeSpec(typeNode); err != nil {
		return nil, err
	}
	if p.Default, err = d.optional(f["default"]); err != nil {
		return nil, err
	}
	return p, nil
}

// variable decodes an assignable location: a path string (a.b[0].c[i]),
// {var: path} or {index: {of: variable, at: expression}}.
func (d *decoder) variable(n *yaml.Node) (ast.Variable, error) {
	n = deref(n)
	if n.Kind == yaml.ScalarNode {
		v, msg := parsePath(n.Value, d.pos(n))
		if v == nil {
			return nil, d.errorf(n, "invalid variable %q: %s", n.Value, msg)
		}
		return v, nil
	}
	key, val, err := d.single(n)
	if err != nil {
		return nil, err
	}
	switch key.Value {
	case "var":
		return d.variable(val)
	case "index":
		f, err := d.fields(val, "of", "at")
		if err != nil {
			return nil, err
		}
		of, err := d.require(val, f, "of")
		if err != nil {
			return nil, err
		}
		at, err := d.require(val, f, "at")
		if err != nil {
			return nil, err
		}
		container, err := d.variable(of)
		if err != nil {
			return nil, err
		}
		index, err := d.expression(at)
		if err != nil {
			return nil, err
		}
		return &ast.IndexVariable{Location: d.pos(key), Container: container, Index: index}, nil
	default:
		return nil, d.errorf(key, "expected a variable, got %q", key.Value)
	}
}

// parsePath parses name(.member | [index])*. An index is an integer or
// another path. On failure it returns nil and a reason.
func parsePath(text string, at token.Position) (ast.Variable, string) {
	name, rest := splitIdent(text)
	if name == "" {
		return nil, "expected a name"
	}
	var v ast.Variable = &ast.BasicVariable{Location: at, Name: name}
	for rest != "" {
		switch rest[0] {
		case '.':
			name, rest = splitIdent(rest[1:])
			if name == "" {
				return nil, "expected a member name after ."
			}
			v = &ast.MemberVariable{Location: at, Container: v, Member: name}
		case '[':
			end := closing(rest)
			if end < 0 {
				return nil, "unbalanced ["
			}
			inner := strings.TrimSpace(rest[1:end])
			rest = rest[end+1:]
			var index ast.Expression
			if i, err := strconv.ParseInt(inner, 10, 64); err == nil {
				index = &ast.IntLiteral{Location: at, Value: i}
			} else {
				iv, msg := parsePath(inner, at)
				if iv == nil {
					return nil, msg
				}
				index = &ast.VariableExpression{Location: at, Variable: iv}
			}
			v = &ast.IndexVariable{Location: at, Container: v, Index: index}
		default:
			return nil, "unexpected " + strconv.Quote(rest[:1])
		}
	}
	return v, ""
}

func splitIdent(s string) (string, string) {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return s[:i], s[i:]
	}
	return s, ""
}

// closing returns the index of the ] matching the [ at s[0], or -1.
func closing(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
