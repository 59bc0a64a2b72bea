// Package loader decodes programs serialised as YAML into the AST.
//
// A program is a sequence of statements. Every statement and every compound
// expression is a mapping with a single key naming its form:
//
//	- declare: {name: x, type: int, init: {"+": [1, 2]}}
//	- print: x
//
// Plain scalars are literals by their YAML tag, except strings: a plain
// string is a variable path (a.b[0].c) and a quoted string is a string
// literal.
package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/token"
	"gopkg.in/yaml.v3"
)

// DecodeError is a malformed program node.
type DecodeError struct {
	Pos token.Position
	Msg string
}

func (e *DecodeError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

type decoder struct {
	file string
}

// Load reads and decodes a program file.
func Load(path string) (*ast.StatementBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program %s: %w", path, err)
	}
	return Decode(data, path)
}

// Decode decodes the first YAML document in data. The file name is only
// used for positions. An empty document is an empty program.
func Decode(data []byte, file string) (*ast.StatementBlock, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing program %s: %w", file, err)
	}
	d := &decoder{file: file}
	start := token.Position{File: file, Line: 1, Column: 1}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return &ast.StatementBlock{Location: start}, nil
	}
	return d.block(doc.Content[0], start)
}

func (d *decoder) pos(n *yaml.Node) token.Position {
	return token.Position{File: d.file, Line: n.Line, Column: n.Column}
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	return &DecodeError{Pos: d.pos(n), Msg: fmt.Sprintf(format, args...)}
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	n = deref(n)
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// single splits a one-key mapping into its key and value.
func (d *decoder) single(n *yaml.Node) (*yaml.Node, *yaml.Node, error) {
	n = deref(n)
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, nil, d.errorf(n, "expected a mapping with a single key")
	}
	return n.Content[0], deref(n.Content[1]), nil
}

// fields indexes a mapping by key, rejecting keys outside allowed.
func (d *decoder) fields(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected a mapping with keys %s", strings.Join(allowed, ", "))
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		known := false
		for _, a := range allowed {
			if key.Value == a {
				known = true
				break
			}
		}
		if !known {
			return nil, d.errorf(key, "unexpected key %q", key.Value)
		}
		if _, dup := out[key.Value]; dup {
			return nil, d.errorf(key, "duplicate key %q", key.Value)
		}
		out[key.Value] = deref(n.Content[i+1])
	}
	return out, nil
}

func (d *decoder) require(parent *yaml.Node, f map[string]*yaml.Node, key string) (*yaml.Node, error) {
	n, ok := f[key]
	if !ok || isNull(n) {
		return nil, d.errorf(parent, "missing %q", key)
	}
	return n, nil
}

// name decodes a scalar identifier.
func (d *decoder) name(n *yaml.Node) (string, error) {
	n = deref(n)
	if n.Kind != yaml.ScalarNode || !isIdent(n.Value) {
		return "", d.errorf(n, "expected a name")
	}
	return n.Value, nil
}

func (d *decoder) sequence(n *yaml.Node) ([]*yaml.Node, error) {
	if isNull(n) {
		return nil, nil
	}
	n = deref(n)
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a sequence")
	}
	return n.Content, nil
}

// block decodes a statement sequence. A missing or null node is an empty
// block positioned at.
func (d *decoder) block(n *yaml.Node, at token.Position) (*ast.StatementBlock, error) {
	if isNull(n) {
		return &ast.StatementBlock{Location: at}, nil
	}
	items, err := d.sequence(n)
	if err != nil {
		return nil, err
	}
	block := &ast.StatementBlock{Location: d.pos(n)}
	for _, item := range items {
		stmt, err := d.statement(item)
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	return block, nil
}
