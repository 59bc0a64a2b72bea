package ast

import (
	"github.com/funvibe/sumlang/internal/token"
)

// Node is the base interface for all AST nodes.
// The tree is produced by an external front end; the core only reads it.
type Node interface {
	Pos() token.Position
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Variable is an assignable location: a name, a record member or an array slot.
type Variable interface {
	Node
	variableNode()
	String() string
}

// RootName returns the symbol name a variable path is rooted at.
// a.b[3].c -> "a"
func RootName(v Variable) string {
	for {
		switch t := v.(type) {
		case *BasicVariable:
			return t.Name
		case *MemberVariable:
			v = t.Container
		case *IndexVariable:
			v = t.Container
		default:
			return ""
		}
	}
}
