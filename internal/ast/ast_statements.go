package ast

import (
	"github.com/funvibe/sumlang/internal/token"
)

// StatementBlock is a braced list of statements with its own scope.
// A whole program is also a StatementBlock.
type StatementBlock struct {
	Location   token.Position
	Statements []Statement
}

func (sb *StatementBlock) statementNode()      {}
func (sb *StatementBlock) Pos() token.Position { return sb.Location }

// DeclarationStatement binds a new name.
// x:int = 5, x := 5 (Type nil), x:int (Initializer nil)
type DeclarationStatement struct {
	Location    token.Position
	Name        string
	Type        TypeSpecifier
	Initializer Expression
}

func (ds *DeclarationStatement) statementNode()      {}
func (ds *DeclarationStatement) Pos() token.Position { return ds.Location }

// RecordTypeDeclaration declares a record type.
// point { x:int = 0, y:int }
type RecordTypeDeclaration struct {
	Location token.Position
	Name     string
	Members  []*DeclarationStatement
}

func (rd *RecordTypeDeclaration) statementNode()      {}
func (rd *RecordTypeDeclaration) Pos() token.Position { return rd.Location }

// VariantDeclaration is one alternative of a sum type: either an alias
// (Circle:double) or an inline record (Rect { w:double, h:double }).
// IsRecord selects the inline record form, which may have no members.
type VariantDeclaration struct {
	Location token.Position
	Name     string
	Type     TypeSpecifier
	Members  []*DeclarationStatement
	IsRecord bool
}

// SumTypeDeclaration declares a tagged sum.
// shape { Circle:double | Rect { w:double, h:double } }
type SumTypeDeclaration struct {
	Location token.Position
	Name     string
	Variants []*VariantDeclaration
}

func (sd *SumTypeDeclaration) statementNode()      {}
func (sd *SumTypeDeclaration) Pos() token.Position { return sd.Location }

// AssignmentStatement is target op value where op is one of = += -= *= /=
type AssignmentStatement struct {
	Location token.Position
	Target   Variable
	Operator string
	Value    Expression
}

func (as *AssignmentStatement) statementNode()      {}
func (as *AssignmentStatement) Pos() token.Position { return as.Location }

// InvokeStatement evaluates a call for its effects and discards the result.
type InvokeStatement struct {
	Location token.Position
	Call     *InvokeExpression
}

func (is *InvokeStatement) statementNode()      {}
func (is *InvokeStatement) Pos() token.Position { return is.Location }

// PrintStatement is print expr
type PrintStatement struct {
	Location token.Position
	Value    Expression
}

func (ps *PrintStatement) statementNode()      {}
func (ps *PrintStatement) Pos() token.Position { return ps.Location }

// IfStatement is if cond { ... } else { ... }.
// Else is nil, a *StatementBlock or another *IfStatement.
type IfStatement struct {
	Location  token.Position
	Condition Expression
	Then      *StatementBlock
	Else      Statement
}

func (is *IfStatement) statementNode()      {}
func (is *IfStatement) Pos() token.Position { return is.Location }

// WhileStatement is while cond { ... }
type WhileStatement struct {
	Location  token.Position
	Condition Expression
	Body      *StatementBlock
}

func (ws *WhileStatement) statementNode()      {}
func (ws *WhileStatement) Pos() token.Position { return ws.Location }

// ForStatement is for init; cond; update { ... }. Every header part is optional.
type ForStatement struct {
	Location  token.Position
	Init      Statement
	Condition Expression
	Update    *AssignmentStatement
	Body      *StatementBlock
}

func (fs *ForStatement) statementNode()      {}
func (fs *ForStatement) Pos() token.Position { return fs.Location }

// ForeachStatement is foreach name in iterable { ... }.
// Arrays yield their elements; records are walked through their next member.
type ForeachStatement struct {
	Location token.Position
	Name     string
	Iterable Expression
	Body     *StatementBlock
}

func (fs *ForeachStatement) statementNode()      {}
func (fs *ForeachStatement) Pos() token.Position { return fs.Location }

// MatchArm is Variant binding -> { ... }; Variant "_" is the default arm.
type MatchArm struct {
	Location token.Position
	Variant  string
	Binding  string
	Body     *StatementBlock
}

func (ma *MatchArm) Pos() token.Position { return ma.Location }

// MatchStatement dispatches on the runtime tag of a sum value.
type MatchStatement struct {
	Location token.Position
	Source   Expression
	Arms     []*MatchArm
}

func (ms *MatchStatement) statementNode()      {}
func (ms *MatchStatement) Pos() token.Position { return ms.Location }

// ReturnStatement is return [expr]
type ReturnStatement struct {
	Location token.Position
	Value    Expression
}

func (rs *ReturnStatement) statementNode()      {}
func (rs *ReturnStatement) Pos() token.Position { return rs.Location }

// ExitStatement is exit [code]; it stops the whole program.
type ExitStatement struct {
	Location token.Position
	Code     Expression
}

func (es *ExitStatement) statementNode()      {}
func (es *ExitStatement) Pos() token.Position { return es.Location }
