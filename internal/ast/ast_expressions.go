package ast

import (
	"strconv"
	"strings"

	"github.com/funvibe/sumlang/internal/token"
)

// --- Literals ---

// BoolLiteral is true or false
type BoolLiteral struct {
	Location token.Position
	Value    bool
}

func (bl *BoolLiteral) expressionNode()     {}
func (bl *BoolLiteral) Pos() token.Position { return bl.Location }

// ByteLiteral is a single byte, e.g. 0x41
type ByteLiteral struct {
	Location token.Position
	Value    byte
}

func (bl *ByteLiteral) expressionNode()     {}
func (bl *ByteLiteral) Pos() token.Position { return bl.Location }

// IntLiteral is a 64-bit integer literal
type IntLiteral struct {
	Location token.Position
	Value    int64
}

func (il *IntLiteral) expressionNode()     {}
func (il *IntLiteral) Pos() token.Position { return il.Location }

// DoubleLiteral is a floating point literal
type DoubleLiteral struct {
	Location token.Position
	Value    float64
}

func (dl *DoubleLiteral) expressionNode()     {}
func (dl *DoubleLiteral) Pos() token.Position { return dl.Location }

// StringLiteral is a string literal
type StringLiteral struct {
	Location token.Position
	Value    string
}

func (sl *StringLiteral) expressionNode()     {}
func (sl *StringLiteral) Pos() token.Position { return sl.Location }

// NilLiteral is nil; it widens into any Maybe type as the Nil tag.
type NilLiteral struct {
	Location token.Position
}

func (nl *NilLiteral) expressionNode()     {}
func (nl *NilLiteral) Pos() token.Position { return nl.Location }

// ArrayLiteral is [1, 2, 3] or int[]{} when ElementType is given.
type ArrayLiteral struct {
	Location    token.Position
	ElementType TypeSpecifier // optional; inferred from the first element otherwise
	Elements    []Expression
}

func (al *ArrayLiteral) expressionNode()     {}
func (al *ArrayLiteral) Pos() token.Position { return al.Location }

// --- Variables ---

// BasicVariable is a plain name, e.g. x
type BasicVariable struct {
	Location token.Position
	Name     string
}

func (bv *BasicVariable) variableNode()       {}
func (bv *BasicVariable) Pos() token.Position { return bv.Location }
func (bv *BasicVariable) String() string      { return bv.Name }

// MemberVariable is record member access, e.g. p.x
type MemberVariable struct {
	Location  token.Position
	Container Variable
	Member    string
}

func (mv *MemberVariable) variableNode()       {}
func (mv *MemberVariable) Pos() token.Position { return mv.Location }
func (mv *MemberVariable) String() string      { return mv.Container.String() + "." + mv.Member }

// IndexVariable is array element access, e.g. a[i]
type IndexVariable struct {
	Location  token.Position
	Container Variable
	Index     Expression
}

func (iv *IndexVariable) variableNode()       {}
func (iv *IndexVariable) Pos() token.Position { return iv.Location }
func (iv *IndexVariable) String() string      { return iv.Container.String() + "[...]" }

// VariableExpression reads the current value of a variable.
type VariableExpression struct {
	Location token.Position
	Variable Variable
}

func (ve *VariableExpression) expressionNode()     {}
func (ve *VariableExpression) Pos() token.Position { return ve.Location }

// --- Operators ---

// UnaryExpression is -x or !x
type UnaryExpression struct {
	Location token.Position
	Operator string
	Operand  Expression
}

func (ue *UnaryExpression) expressionNode()     {}
func (ue *UnaryExpression) Pos() token.Position { return ue.Location }

// BinaryExpression is left <op> right for arithmetic (+ - * / %),
// comparison (== != < <= > >=) and logic (&& ||).
type BinaryExpression struct {
	Location token.Position
	Operator string
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) expressionNode()     {}
func (be *BinaryExpression) Pos() token.Position { return be.Location }

// --- Functions ---

// FunctionExpression is a function literal, e.g. (a:int) -> int { return a + 1; }
type FunctionExpression struct {
	Location token.Position
	Type     *FunctionTypeSpecifier
	Body     *StatementBlock
}

func (fe *FunctionExpression) expressionNode()     {}
func (fe *FunctionExpression) Pos() token.Position { return fe.Location }

// VariantFunctionExpression is an overload set of function literals.
type VariantFunctionExpression struct {
	Location token.Position
	Variants []*FunctionExpression
}

func (ve *VariantFunctionExpression) expressionNode()     {}
func (ve *VariantFunctionExpression) Pos() token.Position { return ve.Location }

// Argument is a call argument; Name is set for keyword arguments (name = value).
type Argument struct {
	Location token.Position
	Name     string
	Value    Expression
}

// InvokeExpression is callee(args...)
type InvokeExpression struct {
	Location  token.Position
	Callee    Expression
	Arguments []*Argument
}

func (ie *InvokeExpression) expressionNode()     {}
func (ie *InvokeExpression) Pos() token.Position { return ie.Location }

// DefaultValueExpression is @T: the default value of T.
type DefaultValueExpression struct {
	Location token.Position
	Type     TypeSpecifier
}

func (de *DefaultValueExpression) expressionNode()     {}
func (de *DefaultValueExpression) Pos() token.Position { return de.Location }

// --- Host I/O ---

// OpenExpression is open(path, mode) and yields an int_result handle.
type OpenExpression struct {
	Location token.Position
	Path     Expression
	Mode     Expression
}

func (oe *OpenExpression) expressionNode()     {}
func (oe *OpenExpression) Pos() token.Position { return oe.Location }

// GetByteExpression is get_byte(handle) and yields a byte_result.
type GetByteExpression struct {
	Location token.Position
	Handle   Expression
}

func (ge *GetByteExpression) expressionNode()     {}
func (ge *GetByteExpression) Pos() token.Position { return ge.Location }

// CloseExpression is close(handle) and yields an int_result.
type CloseExpression struct {
	Location token.Position
	Handle   Expression
}

func (ce *CloseExpression) expressionNode()     {}
func (ce *CloseExpression) Pos() token.Position { return ce.Location }

// ExpressionString renders an expression for diagnostics.
func ExpressionString(e Expression) string {
	switch n := e.(type) {
	case *BoolLiteral:
		return strconv.FormatBool(n.Value)
	case *ByteLiteral:
		return "0x" + strconv.FormatUint(uint64(n.Value), 16)
	case *IntLiteral:
		return strconv.FormatInt(n.Value, 10)
	case *DoubleLiteral:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *StringLiteral:
		return strconv.Quote(n.Value)
	case *NilLiteral:
		return "nil"
	case *ArrayLiteral:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = ExpressionString(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *VariableExpression:
		return n.Variable.String()
	case *UnaryExpression:
		return n.Operator + ExpressionString(n.Operand)
	case *BinaryExpression:
		return ExpressionString(n.Left) + " " + n.Operator + " " + ExpressionString(n.Right)
	case *FunctionExpression:
		return n.Type.String() + " {...}"
	case *VariantFunctionExpression:
		return "<variant function>"
	case *InvokeExpression:
		parts := make([]string, len(n.Arguments))
		for i, a := range n.Arguments {
			if a.Name != "" {
				parts[i] = a.Name + " = " + ExpressionString(a.Value)
			} else {
				parts[i] = ExpressionString(a.Value)
			}
		}
		return ExpressionString(n.Callee) + "(" + strings.Join(parts, ", ") + ")"
	case *DefaultValueExpression:
		return "@" + n.Type.String()
	case *OpenExpression:
		return "open(" + ExpressionString(n.Path) + ", " + ExpressionString(n.Mode) + ")"
	case *GetByteExpression:
		return "get_byte(" + ExpressionString(n.Handle) + ")"
	case *CloseExpression:
		return "close(" + ExpressionString(n.Handle) + ")"
	default:
		return "<expression>"
	}
}
