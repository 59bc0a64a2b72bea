package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/pipeline"
	"github.com/funvibe/sumlang/internal/token"
)

const shapesProgram = `
- sum:
    name: Shape
    variants:
      - {name: Circle, type: double}
      - name: Rect
        members:
          - {name: w, type: double}
          - {name: h, type: double, init: 1.0}
- declare:
    name: area
    init:
      function:
        params:
          - {name: s, type: Shape}
        returns: double
        body:
          - match:
              value: s
              arms:
                - variant: Circle
                  bind: r
                  body:
                    - return: {"*": [r, r]}
                - variant: _
                  body:
                    - return: 0.0
- print:
    call:
      callee: area
      args:
        - call: {callee: Circle, args: [2.0]}
- assign: {target: "p.items[i]", op: "+=", value: 1}
- if:
    cond: {"<": [1, 2]}
    then:
      - print: "yes"
    else:
      if:
        cond: true
        then: []
`

func TestDecodeProgram(t *testing.T) {
	program, err := Decode([]byte(shapesProgram), "shapes.sl.yaml")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(program.Statements) != 5 {
		t.Fatalf("got %d statements, want 5", len(program.Statements))
	}

	sum, ok := program.Statements[0].(*ast.SumTypeDeclaration)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.SumTypeDeclaration", program.Statements[0])
	}
	if sum.Name != "Shape" || len(sum.Variants) != 2 {
		t.Fatalf("sum = %s with %d variants", sum.Name, len(sum.Variants))
	}
	if sum.Variants[0].IsRecord || !sum.Variants[0].Type.Equal(ast.Primitive(ast.Double)) {
		t.Errorf("Circle variant decoded as %+v", sum.Variants[0])
	}
	rect := sum.Variants[1]
	if !rect.IsRecord || len(rect.Members) != 2 {
		t.Errorf("Rect variant decoded as %+v", rect)
	}
	if lit, ok := rect.Members[1].Initializer.(*ast.DoubleLiteral); !ok || lit.Value != 1 {
		t.Errorf("Rect.h default = %#v", rect.Members[1].Initializer)
	}

	decl := program.Statements[1].(*ast.DeclarationStatement)
	fn, ok := decl.Initializer.(*ast.FunctionExpression)
	if !ok {
		t.Fatalf("area initializer is %T", decl.Initializer)
	}
	if got := fn.Type.String(); got != "(Shape) -> double" {
		t.Errorf("area type = %q, want %q", got, "(Shape) -> double")
	}
	match := fn.Body.Statements[0].(*ast.MatchStatement)
	if len(match.Arms) != 2 || match.Arms[0].Binding != "r" || match.Arms[1].Variant != "_" {
		t.Errorf("match arms decoded as %+v", match.Arms)
	}

	shown := program.Statements[2].(*ast.PrintStatement)
	if got := ast.ExpressionString(shown.Value); got != "area(Circle(2))" {
		t.Errorf("print value = %q, want %q", got, "area(Circle(2))")
	}

	assign := program.Statements[3].(*ast.AssignmentStatement)
	if assign.Operator != "+=" {
		t.Errorf("assign operator = %q, want +=", assign.Operator)
	}
	if got := ast.RootName(assign.Target); got != "p" {
		t.Errorf("assign root = %q, want p", got)
	}

	ifStmt := program.Statements[4].(*ast.IfStatement)
	then := ifStmt.Then.Statements[0].(*ast.PrintStatement)
	if s, ok := then.Value.(*ast.StringLiteral); !ok || s.Value != "yes" {
		t.Errorf("quoted scalar decoded as %#v, want a string literal", then.Value)
	}
	if _, ok := ifStmt.Else.(*ast.IfStatement); !ok {
		t.Errorf("else decoded as %T, want *ast.IfStatement", ifStmt.Else)
	}
}

func TestDecodePositions(t *testing.T) {
	program, err := Decode([]byte("- print: 1\n- print: x\n"), "pos.yaml")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := token.Position{File: "pos.yaml", Line: 2, Column: 3}
	if got := program.Statements[1].Pos(); got != want {
		t.Errorf("Pos() = %v, want %v", got, want)
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, input := range []string{"", "[]"} {
		program, err := Decode([]byte(input), "empty.yaml")
		if err != nil {
			t.Errorf("Decode(%q) error = %v", input, err)
			continue
		}
		if len(program.Statements) != 0 {
			t.Errorf("Decode(%q) = %d statements, want 0", input, len(program.Statements))
		}
	}
}

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"- print: 42", "*ast.IntLiteral"},
		{"- print: 2.5", "*ast.DoubleLiteral"},
		{"- print: true", "*ast.BoolLiteral"},
		{"- print: null", "*ast.NilLiteral"},
		{"- print: 'text'", "*ast.StringLiteral"},
		{"- print: a.b[0]", "*ast.VariableExpression"},
		{"- print: {byte: 65}", "*ast.ByteLiteral"},
		{"- print: {string: plain}", "*ast.StringLiteral"},
		{"- print:\n    default: int[]", "*ast.DefaultValueExpression"},
		{"- print: [1, 2]", "*ast.ArrayLiteral"},
		{"- print: {neg: 1}", "*ast.UnaryExpression"},
		{"- print: {get_byte: h}", "*ast.GetByteExpression"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program, err := Decode([]byte(tt.input), "scalar.yaml")
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			value := program.Statements[0].(*ast.PrintStatement).Value
			if got := typeName(value); got != tt.want {
				t.Errorf("decoded %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(e ast.Expression) string {
	switch e.(type) {
	case *ast.IntLiteral:
		return "*ast.IntLiteral"
	case *ast.DoubleLiteral:
		return "*ast.DoubleLiteral"
	case *ast.BoolLiteral:
		return "*ast.BoolLiteral"
	case *ast.NilLiteral:
		return "*ast.NilLiteral"
	case *ast.StringLiteral:
		return "*ast.StringLiteral"
	case *ast.ByteLiteral:
		return "*ast.ByteLiteral"
	case *ast.VariableExpression:
		return "*ast.VariableExpression"
	case *ast.DefaultValueExpression:
		return "*ast.DefaultValueExpression"
	case *ast.ArrayLiteral:
		return "*ast.ArrayLiteral"
	case *ast.UnaryExpression:
		return "*ast.UnaryExpression"
	case *ast.GetByteExpression:
		return "*ast.GetByteExpression"
	default:
		return "other"
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"int", "int"},
		{"Shape", "Shape"},
		{"Shape.Circle", "Shape.Circle"},
		{"int?", "int?"},
		{"int[]", "int[]"},
		{"point[3]", "point[3]"},
		{"int[]?", "int[]?"},
		{"node?[]", "node?[]"},
	}
	for _, tt := range tests {
		spec, msg := parseType(tt.input, token.Position{})
		if spec == nil {
			t.Errorf("parseType(%q) failed: %s", tt.input, msg)
			continue
		}
		if got := spec.String(); got != tt.want {
			t.Errorf("parseType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	for _, bad := range []string{"", "int[x]", "a.", "int]", "1abc"} {
		if spec, _ := parseType(bad, token.Position{}); spec != nil {
			t.Errorf("parseType(%q) = %s, want failure", bad, spec)
		}
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x", "x"},
		{"p.x", "p.x"},
		{"a[0]", "a[...]"},
		{"a[b[1]].c", "a[...].c"},
	}
	for _, tt := range tests {
		v, msg := parsePath(tt.input, token.Position{})
		if v == nil {
			t.Errorf("parsePath(%q) failed: %s", tt.input, msg)
			continue
		}
		if got := v.String(); got != tt.want {
			t.Errorf("parsePath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	for _, bad := range []string{"", "a.", "a[0", "a-b", "1x"} {
		if v, _ := parsePath(bad, token.Position{}); v != nil {
			t.Errorf("parsePath(%q) = %s, want failure", bad, v)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		msg   string
	}{
		{"unknown statement", "- jump: 1", 1, "unknown statement"},
		{"missing name", "- print: 1\n- declare: {type: int}", 2, `missing "name"`},
		{"operand count", "- print: {\"+\": [1, 2, 3]}", 1, "takes two operands"},
		{"unexpected key", "- while: {cond: true, bdy: []}", 1, `unexpected key "bdy"`},
		{"bad type", "- declare: {name: x, type: \"int[\"}", 1, "invalid type"},
		{"bad else", "- if: {cond: true, else: {print: 1}}", 1, "else takes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input), "bad.yaml")
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Decode() error = %v, want a *DecodeError", err)
			}
			if de.Pos.Line != tt.line {
				t.Errorf("error line = %d, want %d", de.Pos.Line, tt.line)
			}
			if !strings.Contains(de.Msg, tt.msg) {
				t.Errorf("error = %q, want it to mention %q", de.Msg, tt.msg)
			}
		})
	}
}

func TestDecodeSyntaxError(t *testing.T) {
	if _, err := Decode([]byte("- print: [1, 2"), "broken.yaml"); err == nil {
		t.Fatal("Decode() of malformed YAML succeeded")
	}
}

func TestProcessor(t *testing.T) {
	ctx := pipeline.NewPipelineContext("- print: 1\n")
	ctx = (&Processor{}).Process(ctx)
	if ctx.Err != nil {
		t.Fatalf("Process() error = %v", ctx.Err)
	}
	if ctx.Program == nil || len(ctx.Program.Statements) != 1 {
		t.Fatalf("Process() program = %+v", ctx.Program)
	}

	ctx = pipeline.NewPipelineContext("")
	ctx.FilePath = "does-not-exist.sl.yaml"
	if ctx = (&Processor{}).Process(ctx); ctx.Err == nil {
		t.Error("Process() of a missing file succeeded")
	}
}
