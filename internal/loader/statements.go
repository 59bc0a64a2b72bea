package loader

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
	"gopkg.in/yaml.v3"
)

func (d *decoder) statement(n *yaml.Node) (ast.Statement, error) {
	key, val, err := d.single(n)
	if err != nil {
		return nil, err
	}
	at := d.pos(key)
	switch key.Value {
	case "declare":
		return d.declaration(val)
	case "record":
		return d.record(val)
	case "sum":
		return d.sum(val)
	case "assign":
		return d.assignment(val)
	case "call":
		call, err := d.invoke(val)
		if err != nil {
			return nil, err
		}
		return &ast.InvokeStatement{Location: at, Call: call}, nil
	case "print":
		value, err := d.expression(val)
		if err != nil {
			return nil, err
		}
		return &ast.PrintStatement{Location: at, Value: value}, nil
	case "if":
		return d.ifStatement(val)
	case "while":
		return d.while(val)
	case "for":
		return d.forStatement(val)
	case "foreach":
		return d.foreach(val)
	case "match":
		return d.match(val)
	case "return":
		value, err := d.optional(val)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStatement{Location: at, Value: value}, nil
	case "exit":
		code, err := d.optional(val)
		if err != nil {
			return nil, err
		}
		return &ast.ExitStatement{Location: at, Code: code}, nil
	case "block":
		return d.block(val, at)
	default:
		return nil, d.errorf(key, "unknown statement %q", key.Value)
	}
}

// optional decodes an expression that may be absent.
func (d *decoder) optional(n *yaml.Node) (ast.Expression, error) {
	if isNull(n) {
		return nil, nil
	}
	return d.expression(n)
}

func (d *decoder) declaration(n *yaml.Node) (*ast.DeclarationStatement, error) {
	f, err := d.fields(n, "name", "type", "init")
	if err != nil {
		return nil, err
	}
	nameNode, err := d.require(n, f, "name")
	if err != nil {
		return nil, err
	}
	decl := &ast.DeclarationStatement{Location: d.pos(n)}
	if decl.Name, err = d.name(nameNode); err != nil {
		return nil, err
	}
	if t, ok := f["type"]; ok && !isNull(t) {
		if decl.Type, err = d.typeSpec(t); err != nil {
			return nil, err
		}
	}
	if decl.Initializer, err = d.optional(f["init"]); err != nil {
		return nil, err
	}
	return decl, nil
}

func (d *decoder) members(n *yaml.Node) ([]*ast.DeclarationStatement, error) {
	items, err := d.sequence(n)
	if err != nil {
		return nil, err
	}
	members := make([]*ast.DeclarationStatement, 0, len(items))
	for _, item := range items {
		m, err := d.declaration(item)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func (d *decoder) record(n *yaml.Node) (*ast.RecordTypeDeclaration, error) {
	f, err := d.fields(n, "name", "members")
	if err != nil {
		return nil, err
	}
	nameNode, err := d.require(n, f, "name")
	if err != nil {
		return nil, err
	}
	rec := &ast.RecordTypeDeclaration{Location: d.pos(n)}
	if rec.Name, err = d.name(nameNode); err != nil {
		return nil, err
	}
	if rec.Members, err = d.members(f["members"]); err != nil {
		return nil, err
	}
	return rec, nil
}

func (d *decoder) sum(n *yaml.Node) (*ast.SumTypeDeclaration, error) {
	f, err := d.fields(n, "name", "variants")
	if err != nil {
		return nil, err
	}
	nameNode, err := d.require(n, f, "name")
	if err != nil {
		return nil, err
	}
	sum := &ast.SumTypeDeclaration{Location: d.pos(n)}
	if sum.Name, err = d.name(nameNode); err != nil {
		return nil, err
	}
	items, err := d.sequence(f["variants"])
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		v, err := d.variant(item)
		if err != nil {
			return nil, err
		}
		sum.Variants = append(sum.Variants, v)
	}
	return sum, nil
}

// variant decodes an alias variant {name, type} or, when members is
// present, an inline record variant.
func (d *decoder) variant(n *yaml.Node) (*ast.VariantDeclaration, error) {
	f, err := d.fields(n, "name", "type", "members")
	if err != nil {
		return nil, err
	}
	nameNode, err := d.require(n, f, "name")
	if err != nil {
		return nil, err
	}
	v := &ast.VariantDeclaration{Location: d.pos(n)}
	if v.Name, err = d.name(nameNode); err != nil {
		return nil, err
	}
	if members, ok := f["members"]; ok {
		v.IsRecord = true
		if v.Members, err = d.members(members); err != nil {
			return nil, err
		}
		return v, nil
	}
	if t, ok := f["type"]; ok && !isNull(t) {
		if v.Type, err = d.typeSpec(t); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (d *decoder) assignment(n *yaml.Node) (*ast.AssignmentStatement, error) {
	f, err := d.fields(n, "target", "op", "value")
	if err != nil {
		return nil, err
	}
	target, err := d.require(n, f, "target")
	if err != nil {
		return nil, err
	}
	value, err := d.require(n, f, "value")
	if err != nil {
		return nil, err
	}
	stmt := &ast.AssignmentStatement{Location: d.pos(n), Operator: "="}
	if op, ok := f["op"]; ok && !isNull(op) {
		stmt.Operator = op.Value
	}
	if stmt.Target, err = d.variable(target); err != nil {
		return nil, err
	}
	if stmt.Value, err = d.expression(value); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (d *decoder) ifStatement(n *yaml.Node) (*ast.IfStatement, error) {
	f, err := d.fields(n, "cond", "then", "else")
	if err != nil {
		return nil, err
	}
	cond, err := d.require(n, f, "cond")
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Location: d.pos(n)}
	if stmt.Condition, err = d.expression(cond); err != nil {
		return nil, err
	}
	if stmt.Then, err = d.block(f["then"], d.pos(n)); err != nil {
		return nil, err
	}
	alt, ok := f["else"]
	switch {
	case !ok || isNull(alt):
	case alt.Kind == yaml.MappingNode:
		key, val, err := d.single(alt)
		if err != nil {
			return nil, err
		}
		if key.Value != "if" {
			return nil, d.errorf(key, "else takes a statement list or an if, got %q", key.Value)
		}
		if stmt.Else, err = d.ifStatement(val); err != nil {
			return nil, err
		}
	default:
		if stmt.Else, err = d.block(alt, d.pos(alt)); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (d *decoder) while(n *yaml.Node) (*ast.WhileStatement, error) {
	f, err := d.fields(n, "cond", "body")
	if err != nil {
		return nil, err
	}
	cond, err := d.require(n, f, "cond")
	if err != nil {
		return nil, err
	}
	stmt := &ast.WhileStatement{Location: d.pos(n)}
	if stmt.Condition, err = d.expression(cond); err != nil {
		return nil, err
	}
	if stmt.Body, err = d.block(f["body"], d.pos(n)); err != nil {
		return nil, err
	}
	return stmt, nil
}

// forStatement decodes a for loop. Every header part is optional; init is
// itself a statement and update an assignment.
func (d *decoder) forStatement(n *yaml.Node) (*ast.ForStatement, error) {
	f, err := d.fields(n, "init", "cond", "update", "body")
	if err != nil {
		return nil, err
	}
	stmt := &ast.ForStatement{Location: d.pos(n)}
	if init, ok := f["init"]; ok && !isNull(init) {
		if stmt.Init, err = d.statement(init); err != nil {
			return nil, err
		}
	}
	if stmt.Condition, err = d.optional(f["cond"]); err != nil {
		return nil, err
	}
	if update, ok := f["update"]; ok && !isNull(update) {
		if stmt.Update, err = d.assignment(update); err != nil {
			return nil, err
		}
	}
	if stmt.Body, err = d.block(f["body"], d.pos(n)); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (d *decoder) foreach(n *yaml.Node) (*ast.ForeachStatement, error) {
	f, err := d.fields(n, "var", "in", "body")
	if err != nil {
		return nil, err
	}
	nameNode, err := d.require(n, f, "var")
	if err != nil {
		return nil, err
	}
	iterable, err := d.require(n, f, "in")
	if err != nil {
		return nil, err
	}
	stmt := &ast.ForeachStatement{Location: d.pos(n)}
	if stmt.Name, err = d.name(nameNode); err != nil {
		return nil, err
	}
	if stmt.Iterable, err = d.expression(iterable); err != nil {
		return nil, err
	}
	if stmt.Body, err = d.block(f["body"], d.pos(n)); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (d *decoder) match(n *yaml.Node) (*ast.MatchStatement, error) {
	f, err := d.fields(n, "value", "arms")
	if err != nil {
		return nil, err
	}
	source, err := d.require(n, f, "value")
	if err != nil {
		return nil, err
	}
	stmt := &ast.MatchStatement{Location: d.pos(n)}
	if stmt.Source, err = d.expression(source); err != nil {
		return nil, err
	}
	items, err := d.sequence(f["arms"])
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		arm, err := d.arm(item)
		if err != nil {
			return nil, err
		}
		stmt.Arms = append(stmt.Arms, arm)
	}
	return stmt, nil
}

func (d *decoder) arm(n *yaml.Node) (*ast.MatchArm, error) {
	f, err := d.fields(n, "variant", "bind", "body")
	if err != nil {
		return nil, err
	}
	variant, err := d.require(n, f, "variant")
	if err != nil {
		return nil, err
	}
	arm := &ast.MatchArm{Location: d.pos(n), Variant: variant.Value}
	if arm.Variant != config.DefaultArmName && !isIdent(arm.Variant) {
		return nil, d.errorf(variant, "expected a variant name or _")
	}
	if bind, ok := f["bind"]; ok && !isNull(bind) {
		if arm.Binding, err = d.name(bind); err != nil {
			return nil, err
		}
	}
	if arm.Body, err = d.block(f["body"], d.pos(n)); err != nil {
		return nil, err
	}
	return arm, nil
}
