package prettyprinter

import (
	"testing"

	"github.com/funvibe/sumlang/internal/loader"
)

func TestPrint(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "declarations",
			src: `
- declare: {name: x, type: int, init: 5}
- declare: {name: y, init: {"*": [{"+": [x, 1]}, 2]}}
- declare: {name: z, type: "double?"}
`,
			want: "x:int = 5\ny := (x + 1) * 2\nz:double?\n",
		},
		{
			name: "types",
			src: `
- record:
    name: point
    members:
      - {name: x, type: int, init: 0}
      - {name: y, type: int}
- sum:
    name: Shape
    variants:
      - {name: Circle, type: double}
      - name: Rect
        members:
          - {name: w, type: double}
`,
			want: "point { x:int = 0, y:int }\nShape { Circle:double | Rect { w:double } }\n",
		},
		{
			name: "control flow",
			src: `
- if:
    cond: {"<": [a, 1]}
    then:
      - print: 'low'
    else:
      - exit: 2
- while:
    cond: true
    body:
      - assign: {target: "a[i]", op: "-=", value: {"-": [1, {"-": [2, 3]}]}}
`,
			want: "if a < 1 {\n    print \"low\"\n} else {\n    exit 2\n}\nwhile true {\n    a[i] -= 1 - (2 - 3)\n}\n",
		},
		{
			name: "functions and match",
			src: `
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
                    - return: {"*": [r, 3.0]}
                - variant: _
                  body:
                    - return: 0
- print: {call: {callee: area, args: [{name: s, value: {default: Shape}}]}}
`,
			want: "area := (s:Shape) -> double {\n    match s {\n        Circle r -> {\n            return r * 3.0\n        }\n" +
				"        _ -> {\n            return 0\n        }\n    }\n}\nprint area(s = @Shape)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := loader.Decode([]byte(tt.src), "print.yaml")
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got := Print(program); got != tt.want {
				t.Errorf("Print() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}
