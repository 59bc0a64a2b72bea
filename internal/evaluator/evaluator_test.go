package evaluator

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/diagnostics"
	"github.com/funvibe/sumlang/internal/loader"
	"github.com/funvibe/sumlang/internal/typesystem"
)

// fakeHost serves in-memory files.
type fakeHost struct {
	files   map[string]string
	handles map[int]*strings.Reader
	next    int
	closed  []int
}

func newFakeHost(files map[string]string) *fakeHost {
	return &fakeHost{files: files, handles: make(map[int]*strings.Reader)}
}

func (h *fakeHost) Open(path string, mode int) (int, error) {
	content, ok := h.files[path]
	if !ok {
		return 0, &HostError{Code: 2, Message: "no such file: " + path}
	}
	h.next++
	h.handles[h.next] = strings.NewReader(content)
	return h.next, nil
}

func (h *fakeHost) GetByte(handle int) (byte, bool, error) {
	r, ok := h.handles[handle]
	if !ok {
		return 0, false, &HostError{Code: 9, Message: "bad handle"}
	}
	b, err := r.ReadByte()
	if err == io.EOF {
		return 0, true, nil
	}
	return b, false, err
}

func (h *fakeHost) Close(handle int) error {
	if _, ok := h.handles[handle]; !ok {
		return &HostError{Code: 9, Message: "bad handle"}
	}
	delete(h.handles, handle)
	h.closed = append(h.closed, handle)
	return nil
}

func (h *fakeHost) PathSeparator() string { return "/" }

func decode(t *testing.T, src string) *ast.StatementBlock {
	t.Helper()
	program, err := loader.Decode([]byte(src), "test.sl.yaml")
	if err != nil {
		t.Fatalf("decoding program: %v", err)
	}
	return program
}

func runWith(t *testing.T, opts *config.Options, host Host, src string) (string, int, *diagnostics.ErrorList) {
	t.Helper()
	var out bytes.Buffer
	e := New(opts, host, &out)
	code, errs := e.Run(decode(t, src))
	return out.String(), code, errs
}

func runProgram(t *testing.T, src string) (string, int, *diagnostics.ErrorList) {
	t.Helper()
	return runWith(t, nil, newFakeHost(nil), src)
}

func expectCodes(t *testing.T, errs *diagnostics.ErrorList, codes ...diagnostics.ErrorCode) {
	t.Helper()
	if errs.IsEmpty() {
		t.Fatalf("expected %v, got no errors", codes)
	}
	for _, c := range codes {
		if !errs.HasCode(c) {
			t.Errorf("expected %s, got %v", c, errs.Codes())
		}
	}
}

const shapeDecl = `
- sum:
    name: Shape
    variants:
      - {name: Circle, type: double}
      - name: Rect
        members:
          - {name: w, type: double}
          - {name: h, type: double}
`

func TestPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "arithmetic",
			src: `
- declare: {name: x, type: int, init: 5}
- declare: {name: y, init: {"+": [x, 3]}}
- print: y
`,
			want: "8\n",
		},
		{
			name: "widening and division",
			src: `
- declare: {name: d, type: double, init: 2}
- print: d
- print: {"/": [7, 2]}
- print: {"/": [7, 2.0]}
- print: {"+": ['n = ', 4]}
`,
			want: "2\n3\n3.5\nn = 4\n",
		},
		{
			name: "sum match",
			src: shapeDecl + `
- declare:
    name: area
    init:
      function:
        params: [{name: s, type: Shape}]
        returns: double
        body:
          - match:
              value: s
              arms:
                - variant: Circle
                  bind: r
                  body:
                    - return: {"*": [{"*": [r, r]}, 3]}
                - variant: Rect
                  bind: q
                  body:
                    - return: {"*": [q.w, q.h]}
- print: {call: {callee: area, args: [{call: {callee: Circle, args: [2.0]}}]}}
- print:
    call:
      callee: area
      args:
        - call:
            callee: Rect
            args: [{name: w, value: 2.0}, {name: h, value: 5.0}]
`,
			want: "12\n10\n",
		},
		{
			name: "maybe",
			src: `
- declare: {name: m, type: "int?", init: 3}
- declare: {name: n, type: "int?"}
- print: m
- print: n
- match:
    value: m
    arms:
      - variant: Value
        bind: v
        body:
          - print: {"+": [v, 1]}
      - variant: Nil
        body:
          - print: 'none'
`,
			want: "Value(3)\nNil\n4\n",
		},
		{
			name: "if else chain",
			src: `
- declare: {name: x, init: 7}
- if:
    cond: {"<": [x, 5]}
    then:
      - print: 'small'
    else:
      if:
        cond: {"<": [x, 10]}
        then:
          - print: 'medium'
        else:
          - print: 'large'
`,
			want: "medium\n",
		},
		{
			name: "loops",
			src: `
- declare: {name: total, init: 0}
- for:
    init: {declare: {name: i, init: 1}}
    cond: {"<=": [i, 4]}
    update: {target: i, op: "+=", value: 1}
    body:
      - assign: {target: total, op: "+=", value: i}
- print: total
- declare: {name: k, init: 3}
- while:
    cond: {">": [k, 0]}
    body:
      - print: k
      - assign: {target: k, op: "-=", value: 1}
`,
			want: "10\n3\n2\n1\n",
		},
		{
			name: "array growth",
			src: `
- declare: {name: a, init: [1, 2]}
- assign: {target: "a[2]", value: 3}
- print: a
- assign: {target: "a[0]", op: "*=", value: 10}
- print: a
`,
			want: "[1, 2, 3]\n[10, 2, 3]\n",
		},
		{
			name: "foreach array",
			src: `
- foreach:
    var: v
    in: [10, 20]
    body:
      - print: v
`,
			want: "10\n20\n",
		},
		{
			name: "foreach linked records",
			src: `
- record:
    name: node
    members:
      - {name: value, type: int}
      - {name: next, type: "node?"}
- declare:
    name: list
    init:
      call:
        callee: node
        args:
          - {name: value, value: 1}
          - name: next
            value:
              call:
                callee: node
                args:
                  - {name: value, value: 2}
                  - name: next
                    value: {call: {callee: node, args: [{name: value, value: 3}]}}
- foreach:
    var: item
    in: list
    body:
      - print: item.value
`,
			want: "1\n2\n3\n",
		},
		{
			name: "foreach calls next",
			src: `
- record:
    name: node
    members:
      - {name: value, type: int}
      - name: next
        type: {function: {returns: "node?"}}
- declare: {name: calls, init: 0}
- declare: {name: last, init: {call: {callee: node, args: [{name: value, value: 3}]}}}
- declare:
    name: middle
    init:
      call:
        callee: node
        args:
          - {name: value, value: 2}
          - name: next
            value:
              function:
                returns: "node?"
                body:
                  - assign: {target: calls, op: "+=", value: 1}
                  - return: last
- declare:
    name: first
    init:
      call:
        callee: node
        args:
          - {name: value, value: 1}
          - name: next
            value:
              function:
                returns: "node?"
                body:
                  - assign: {target: calls, op: "+=", value: 1}
                  - return: middle
- foreach:
    var: item
    in: first
    body:
      - print: item.value
- print: calls
`,
			want: "1\n2\n3\n2\n",
		},
		{
			name: "record defaults and constructor",
			src: `
- record:
    name: point
    members:
      - {name: x, type: int}
      - {name: y, type: int, init: 7}
- print: {default: point}
- print: {call: {callee: point, args: [{name: y, value: 3}]}}
- print: {call: {callee: point, args: [1, 2]}}
- declare: {name: p, init: {call: {callee: point}}}
- assign: {target: p.x, value: 5}
- print: p
`,
			want: "{x: 0, y: 7}\n{x: 0, y: 3}\n{x: 1, y: 2}\n{x: 5, y: 7}\n",
		},
		{
			name: "nested block scope",
			src: `
- declare: {name: x, init: 1}
- block:
    - declare: {name: x, init: 2}
    - print: x
- print: x
`,
			want: "2\n1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code, errs := runProgram(t, tt.src)
			if !errs.IsEmpty() {
				t.Fatalf("Run() errors:\n%v", errs)
			}
			if code != config.ExitSuccess {
				t.Errorf("exit code = %d, want 0", code)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestSemanticErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want diagnostics.ErrorCode
	}{
		{"undeclared variable", "- print: missing", diagnostics.ErrUndeclaredVariable},
		{"undeclared type", "- declare: {name: x, type: widget}", diagnostics.ErrUndeclaredType},
		{"redeclaration", "- declare: {name: x, init: 1}\n- declare: {name: x, init: 2}", diagnostics.ErrPreviousDeclaration},
		{"narrowing", "- declare: {name: i, type: int, init: 2.5}", diagnostics.ErrAssignmentType},
		{"constant division", "- declare: {name: a, init: {\"/\": [4, 0]}}", diagnostics.ErrDivideByZero},
		{"operand type", "- print: {\"-\": ['a', 1]}", diagnostics.ErrInvalidOperandType},
		{"condition type", "- while: {cond: 1, body: []}", diagnostics.ErrConditionType},
		{"exit code type", "- exit: 'x'", diagnostics.ErrExitCodeType},
		{"return outside function", "- return: 1", diagnostics.ErrReturnOutsideFunction},
		{"read-only builtin", "- assign: {target: EXIT_SUCCESS, value: 3}", diagnostics.ErrMutationDisallowed},
		{"missing type", "- declare: {name: n, init: null}", diagnostics.ErrMissingType},
		{"not iterable", "- foreach: {var: v, in: 3, body: []}", diagnostics.ErrNotIterable},
		{"not a function", "- declare: {name: x, init: 1}\n- call: {callee: x}", diagnostics.ErrNotAFunction},
		{"member access", "- declare: {name: x, init: 1}\n- print: x.y", diagnostics.ErrInvalidMemberAccess},
		{
			name: "raw recursive record",
			src: `
- record:
    name: node
    members:
      - {name: inner, type: node}
`,
			want: diagnostics.ErrRawRecursiveDeclaration,
		},
		{
			name: "missing return",
			src: `
- declare:
    name: f
    init:
      function:
        params: [{name: n, type: int}]
        returns: int
        body:
          - if:
              cond: {">": [n, 0]}
              then:
                - return: n
`,
			want: diagnostics.ErrMissingReturnCoverage,
		},
		{
			name: "return type",
			src: `
- declare:
    name: f
    init:
      function:
        returns: int
        body:
          - return: 'text'
`,
			want: diagnostics.ErrReturnType,
		},
		{
			name: "non-constant default",
			src: `
- declare: {name: base, init: 1}
- declare:
    name: f
    init:
      function:
        params: [{name: n, type: int, default: base}]
        body: []
`,
			want: diagnostics.ErrNonConstantDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code, errs := runProgram(t, tt.src)
			expectCodes(t, errs, tt.want)
			if code != config.ExitFailure {
				t.Errorf("exit code = %d, want %d", code, config.ExitFailure)
			}
			if out != "" {
				t.Errorf("analysis errors must stop execution, got output %q", out)
			}
		})
	}
}

func TestMatchChecks(t *testing.T) {
	arms := func(variants ...string) string {
		var sb strings.Builder
		sb.WriteString(shapeDecl)
		sb.WriteString("- declare: {name: s, type: Shape}\n- match:\n    value: s\n    arms:\n")
		for _, v := range variants {
			sb.WriteString("      - {variant: " + v + ", body: []}\n")
		}
		return sb.String()
	}
	tests := []struct {
		name string
		src  string
		want diagnostics.ErrorCode
	}{
		{"duplicate arm", arms("Circle", "Circle", "Rect"), diagnostics.ErrDuplicateMatchArm},
		{"redundant default", arms("Circle", "Rect", "_"), diagnostics.ErrRedundantDefault},
		{"two defaults", arms("Circle", "_", "_"), diagnostics.ErrRedundantDefault},
		{"incomplete", arms("Circle"), diagnostics.ErrIncompleteMatch},
		{"unknown variant", arms("Circle", "Rect", "Triangle"), diagnostics.ErrInvalidVariant},
		{"not a sum", "- match: {value: 1, arms: []}", diagnostics.ErrMatchRequiresSum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, errs := runProgram(t, tt.src)
			expectCodes(t, errs, tt.want)
		})
	}

	for _, ok := range [][]string{{"Circle", "Rect"}, {"Circle", "_"}, {"Rect", "Circle", "Nil"}} {
		if _, _, errs := runProgram(t, arms(ok...)); !errs.IsEmpty() {
			t.Errorf("arms %v: unexpected errors:\n%v", ok, errs)
		}
	}
}

func TestDivideByZeroBindsFoldedValue(t *testing.T) {
	program := decode(t, `
- declare: {name: a, init: {"/": [4, 0]}}
- print: a
`)
	e := New(nil, newFakeHost(nil), io.Discard)
	global, errs := e.NewGlobalContext()
	if !errs.IsEmpty() {
		t.Fatalf("NewGlobalContext() errors:\n%v", errs)
	}
	res := e.Preprocess(program, global)
	if got := res.Errors.Codes(); len(got) != 1 || got[0] != diagnostics.ErrDivideByZero {
		t.Fatalf("Preprocess() codes = %v, want [S014]", got)
	}
	if got := global.Lookup("a").Value.Inspect(); got != "0" {
		t.Errorf("a = %s, want 0", got)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		out  string
		want diagnostics.ErrorCode
	}{
		{
			name: "division by a runtime zero",
			src: `
- declare: {name: z, init: {"-": [2, 2]}}
- declare: {name: y, init: {"+": [z, 0]}}
- print: 'before'
- print: {"/": [10, y]}
- print: 'after'
`,
			out:  "before\n",
			want: diagnostics.ErrRuntimeDivideByZero,
		},
		{
			name: "fixed array bounds",
			src: `
- declare: {name: f, type: "int[2]"}
- assign: {target: "f[1]", value: 1}
- print: f
- assign: {target: "f[2]", value: 1}
`,
			out:  "[0, 1]\n",
			want: diagnostics.ErrIndexOutOfBounds,
		},
		{
			name: "read past the end",
			src: `
- declare: {name: a, init: [1]}
- print: a[1]
`,
			want: diagnostics.ErrIndexOutOfBounds,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code, errs := runProgram(t, tt.src)
			expectCodes(t, errs, tt.want)
			if code != config.ExitFailure {
				t.Errorf("exit code = %d, want %d", code, config.ExitFailure)
			}
			if out != tt.out {
				t.Errorf("output = %q, want %q", out, tt.out)
			}
		})
	}
}

func TestExit(t *testing.T) {
	out, code, errs := runProgram(t, `
- print: 1
- block:
    - exit: 3
- print: 2
`)
	if !errs.IsEmpty() {
		t.Fatalf("Run() errors:\n%v", errs)
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if out != "1\n" {
		t.Errorf("output = %q, want %q", out, "1\n")
	}
}

const exitingCalls = `
- declare:
    name: f
    init:
      function:
        returns: int
        body:
          - exit: 4
- declare:
    name: g
    init:
      function:
        returns: int
        body:
          - print: 'g ran'
          - return: 1
- declare:
    name: h
    init:
      function:
        params: [{name: x, type: int}]
        body:
          - print: x
`

func TestExitInsideCallStopsTheStatement(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"print of a sum", `- print: {"+": [{call: {callee: f}}, {call: {callee: g}}]}`},
		{"argument", `- call: {callee: h, args: [{call: {callee: f}}]}`},
		{"divisor", `- print: {"/": [1, {call: {callee: f}}]}`},
		{"condition", `
- if:
    cond: {">": [{call: {callee: f}}, 0]}
    then:
      - print: 'then'
    else:
      - print: 'else'`},
		{"nested block", `
- block:
    - print: {call: {callee: f}}
    - print: 'inner'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := exitingCalls + tt.src + "\n- print: 'after'\n"
			out, code, errs := runProgram(t, src)
			if !errs.IsEmpty() {
				t.Fatalf("Run() errors:\n%v", errs)
			}
			if code != 4 {
				t.Errorf("exit code = %d, want 4", code)
			}
			if out != "" {
				t.Errorf("output = %q, want nothing after exit", out)
			}
		})
	}
}

func TestExitInsideCallCommitsNothing(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		variable string
		notWant  int64
	}{
		{"assignment", `
- declare: {name: y, init: {call: {callee: g}}}
- assign: {target: y, value: {"+": [{call: {callee: f}}, 7]}}`, "y", 7},
		{"declaration", `
- declare: {name: z, init: {"+": [{call: {callee: f}}, 7]}}`, "z", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			e := New(nil, newFakeHost(nil), &out)
			global, errs := e.NewGlobalContext()
			if !errs.IsEmpty() {
				t.Fatalf("NewGlobalContext() errors:\n%v", errs)
			}
			program := decode(t, exitingCalls+tt.src+"\n")
			if res := e.Preprocess(program, global); !res.Errors.IsEmpty() {
				t.Fatalf("Preprocess() errors:\n%v", res.Errors)
			}
			if errs := e.Execute(program, global); !errs.IsEmpty() {
				t.Fatalf("Execute() errors:\n%v", errs)
			}
			if code, exited := global.ExitCode(); !exited || code != 4 {
				t.Errorf("ExitCode() = %d, %v, want 4, true", code, exited)
			}
			v, ok := global.Lookup(tt.variable).Value.(*typesystem.Integer)
			if !ok {
				t.Fatalf("%s holds %T, want an int", tt.variable, global.Lookup(tt.variable).Value)
			}
			if v.Value == tt.notWant {
				t.Errorf("%s = %d, the value computed after exit was stored", tt.variable, v.Value)
			}
		})
	}
}

func TestRunIsRepeatable(t *testing.T) {
	program := decode(t, `
- declare: {name: n, init: 1}
- assign: {target: n, op: "+=", value: 1}
- print: n
`)
	var out bytes.Buffer
	e := New(nil, newFakeHost(nil), &out)
	for i := 0; i < 2; i++ {
		if _, errs := e.Run(program); !errs.IsEmpty() {
			t.Fatalf("run %d errors:\n%v", i, errs)
		}
	}
	if got := out.String(); got != "2\n2\n" {
		t.Errorf("output = %q, want %q", got, "2\n2\n")
	}
}
