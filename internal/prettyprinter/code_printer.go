package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/sumlang/internal/ast"
)

// --- Code Printer (output reads like surface syntax) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3,
	"!=": 3,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"+":  5,
	"-":  5,
	"*":  6,
	"/":  6,
	"%":  6,
}

const unaryPrecedence = 100

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders a whole program, one top-level statement per line.
func Print(program *ast.StatementBlock) string {
	p := NewCodePrinter()
	p.PrintProgram(program)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteByte('\n')
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) PrintProgram(program *ast.StatementBlock) {
	for _, stmt := range program.Statements {
		p.writeIndent()
		p.printStatement(stmt)
		p.writeln()
	}
}

func (p *CodePrinter) printBlock(block *ast.StatementBlock) {
	if block == nil || len(block.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.writeln()
	p.indent++
	p.PrintProgram(block)
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printStatement(stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.StatementBlock:
		p.printBlock(n)
	case *ast.DeclarationStatement:
		p.printDeclaration(n)
	case *ast.RecordTypeDeclaration:
		p.write(n.Name + " ")
		p.printMembers(n.Members)
	case *ast.SumTypeDeclaration:
		p.write(n.Name + " { ")
		for i, v := range n.Variants {
			if i > 0 {
				p.write(" | ")
			}
			p.write(v.Name)
			if v.IsRecord {
				p.write(" ")
				p.printMembers(v.Members)
			} else if v.Type != nil {
				p.write(":" + v.Type.String())
			}
		}
		p.write(" }")
	case *ast.AssignmentStatement:
		op := n.Operator
		if op == "" {
			op = "="
		}
		p.printVariable(n.Target)
		p.write(" " + op + " ")
		p.printExpr(n.Value, 0, false)
	case *ast.InvokeStatement:
		p.printExpr(n.Call, 0, false)
	case *ast.PrintStatement:
		p.write("print ")
		p.printExpr(n.Value, 0, false)
	case *ast.IfStatement:
		p.printIf(n)
	case *ast.WhileStatement:
		p.write("while ")
		p.printExpr(n.Condition, 0, false)
		p.write(" ")
		p.printBlock(n.Body)
	case *ast.ForStatement:
		p.write("for ")
		if n.Init != nil {
			p.printStatement(n.Init)
		}
		p.write("; ")
		if n.Condition != nil {
			p.printExpr(n.Condition, 0, false)
		}
		p.write("; ")
		if n.Update != nil {
			p.printStatement(n.Update)
		}
		p.write(" ")
		p.printBlock(n.Body)
	case *ast.ForeachStatement:
		p.write("foreach " + n.Name + " in ")
		p.printExpr(n.Iterable, 0, false)
		p.write(" ")
		p.printBlock(n.Body)
	case *ast.MatchStatement:
		p.printMatch(n)
	case *ast.ReturnStatement:
		p.write("return")
		if n.Value != nil {
			p.write(" ")
			p.printExpr(n.Value, 0, false)
		}
	case *ast.ExitStatement:
		p.write("exit")
		if n.Code != nil {
			p.write(" ")
			p.printExpr(n.Code, 0, false)
		}
	default:
		p.write("<?>")
	}
}

// printDeclaration writes x:int = 5, x := 5 or x:int.
func (p *CodePrinter) printDeclaration(n *ast.DeclarationStatement) {
	p.write(n.Name)
	switch {
	case n.Type != nil && n.Initializer != nil:
		p.write(":" + n.Type.String() + " = ")
		p.printExpr(n.Initializer, 0, false)
	case n.Type != nil:
		p.write(":" + n.Type.String())
	case n.Initializer != nil:
		p.write(" := ")
		p.printExpr(n.Initializer, 0, false)
	}
}

func (p *CodePrinter) printMembers(members []*ast.DeclarationStatement) {
	if len(members) == 0 {
		p.write("{}")
		return
	}
	p.write("{ ")
	for i, m := range members {
		if i > 0 {
			p.write(", ")
		}
		p.printDeclaration(m)
	}
	p.write(" }")
}

func (p *CodePrinter) printIf(n *ast.IfStatement) {
	p.write("if ")
	p.printExpr(n.Condition, 0, false)
	p.write(" ")
	p.printBlock(n.Then)
	switch e := n.Else.(type) {
	case nil:
	case *ast.IfStatement:
		p.write(" else ")
		p.printIf(e)
	default:
		p.write(" else ")
		p.printStatement(e)
	}
}

func (p *CodePrinter) printMatch(n *ast.MatchStatement) {
	p.write("match ")
	p.printExpr(n.Source, 0, false)
	p.write(" {")
	p.writeln()
	p.indent++
	for _, arm := range n.Arms {
		p.writeIndent()
		p.write(arm.Variant)
		if arm.Binding != "" {
			p.write(" " + arm.Binding)
		}
		p.write(" -> ")
		p.printBlock(arm.Body)
		p.writeln()
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printVariable(v ast.Variable) {
	switch n := v.(type) {
	case *ast.BasicVariable:
		p.write(n.Name)
	case *ast.MemberVariable:
		p.printVariable(n.Container)
		p.write("." + n.Member)
	case *ast.IndexVariable:
		p.printVariable(n.Container)
		p.write("[")
		p.printExpr(n.Index, 0, false)
		p.write("]")
	default:
		p.write("<?>")
	}
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	switch e := expr.(type) {
	case nil:
		p.write("<?>")
	case *ast.BinaryExpression:
		prec := getPrecedence(e.Operator)
		// All binary operators are left-associative.
		needParens := prec < parentPrec || (prec == parentPrec && isRight)
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec, false)
		p.write(" " + e.Operator + " ")
		p.printExpr(e.Right, prec, true)
		if needParens {
			p.write(")")
		}
	case *ast.UnaryExpression:
		p.write(e.Operator)
		p.printExpr(e.Operand, unaryPrecedence, false)
	case *ast.BoolLiteral:
		p.write(strconv.FormatBool(e.Value))
	case *ast.ByteLiteral:
		p.write("0x" + strconv.FormatUint(uint64(e.Value), 16))
	case *ast.IntLiteral:
		p.write(strconv.FormatInt(e.Value, 10))
	case *ast.DoubleLiteral:
		s := strconv.FormatFloat(e.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		p.write(s)
	case *ast.StringLiteral:
		p.write(strconv.Quote(e.Value))
	case *ast.NilLiteral:
		p.write("nil")
	case *ast.ArrayLiteral:
		if e.ElementType != nil {
			p.write(e.ElementType.String() + "[]")
		}
		p.write("[")
		p.printList(e.Elements)
		p.write("]")
	case *ast.VariableExpression:
		p.printVariable(e.Variable)
	case *ast.FunctionExpression:
		p.printFunction(e)
	case *ast.VariantFunctionExpression:
		p.write("variants {")
		p.writeln()
		p.indent++
		for _, v := range e.Variants {
			p.writeIndent()
			p.printFunction(v)
			p.writeln()
		}
		p.indent--
		p.writeIndent()
		p.write("}")
	case *ast.InvokeExpression:
		p.printExpr(e.Callee, unaryPrecedence, false)
		p.write("(")
		for i, a := range e.Arguments {
			if i > 0 {
				p.write(", ")
			}
			if a.Name != "" {
				p.write(a.Name + " = ")
			}
			p.printExpr(a.Value, 0, false)
		}
		p.write(")")
	case *ast.DefaultValueExpression:
		p.write("@" + e.Type.String())
	case *ast.OpenExpression:
		p.write("open(")
		p.printList([]ast.Expression{e.Path, e.Mode})
		p.write(")")
	case *ast.GetByteExpression:
		p.write("get_byte(")
		p.printExpr(e.Handle, 0, false)
		p.write(")")
	case *ast.CloseExpression:
		p.write("close(")
		p.printExpr(e.Handle, 0, false)
		p.write(")")
	default:
		p.write("<?>")
	}
}

func (p *CodePrinter) printList(items []ast.Expression) {
	for i, item := range items {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(item, 0, false)
	}
}

// printFunction writes (a:int, b:int = 1) -> int { ... }.
func (p *CodePrinter) printFunction(fn *ast.FunctionExpression) {
	p.write("(")
	for i, param := range fn.Type.Parameters {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name + ":" + param.Type.String())
		if param.Default != nil {
			p.write(" = ")
			p.printExpr(param.Default, 0, false)
		}
	}
	p.write(") -> " + fn.Type.Return().String() + " ")
	p.printBlock(fn.Body)
}
