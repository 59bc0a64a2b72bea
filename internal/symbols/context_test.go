package symbols

import (
	"testing"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/typesystem"
)

func intSymbol(v int64) *typesystem.Symbol {
	return typesystem.NewSymbol(ast.Primitive(ast.Int), &typesystem.Integer{Value: v})
}

func TestGetSymbolMissReturnsSentinel(t *testing.T) {
	ctx := New(Mutable)
	if sym := ctx.GetSymbol("missing", Deep); !sym.IsDefault() {
		t.Errorf("expected the default symbol, got %s", sym)
	}
}

func TestInsertSymbol(t *testing.T) {
	ctx := New(Mutable)
	if r := ctx.InsertSymbol("x", intSymbol(1)); r != InsertSuccess {
		t.Fatalf("first insert = %v", r)
	}
	if r := ctx.InsertSymbol("x", intSymbol(2)); r != SymbolExists {
		t.Errorf("second insert = %v, want SymbolExists", r)
	}
	if got := ctx.GetSymbol("x", Shallow).Value.Inspect(); got != "1" {
		t.Errorf("x = %s, want 1", got)
	}
}

func TestLookupDepth(t *testing.T) {
	parent := New(Mutable)
	parent.InsertSymbol("x", intSymbol(1))
	child := New(Mutable, parent)

	if !child.GetSymbol("x", Shallow).IsDefault() {
		t.Errorf("shallow lookup must not see the parent")
	}
	if child.GetSymbol("x", Deep).IsDefault() {
		t.Errorf("deep lookup must see the parent")
	}

	// A local binding shadows the parent.
	child.InsertSymbol("x", intSymbol(5))
	if got := child.GetSymbol("x", Deep).Value.Inspect(); got != "5" {
		t.Errorf("x = %s, want 5", got)
	}
}

func TestParentOrder(t *testing.T) {
	first := New(Mutable)
	first.InsertSymbol("x", intSymbol(1))
	second := New(Mutable)
	second.InsertSymbol("x", intSymbol(2))
	second.InsertSymbol("y", intSymbol(3))

	ctx := New(Mutable, first, second)
	if got := ctx.GetSymbol("x", Deep).Value.Inspect(); got != "1" {
		t.Errorf("x = %s, want the first parent's 1", got)
	}
	if got := ctx.GetSymbol("y", Deep).Value.Inspect(); got != "3" {
		t.Errorf("y = %s, want 3", got)
	}
}

func TestSetSymbol(t *testing.T) {
	types := typesystem.NewTypeTable(nil)
	global := New(Mutable)
	global.InsertSymbol("d", typesystem.NewSymbol(ast.Primitive(ast.Double), &typesystem.Double{Value: 0}))
	local := New(Mutable, global)

	tests := []struct {
		name  string
		ctx   *SymbolContext
		sym   string
		spec  ast.TypeSpecifier
		value typesystem.Value
		want  SetResult
	}{
		{"widen int into double", local, "d", ast.Primitive(ast.Int), &typesystem.Integer{Value: 3}, SetSuccess},
		{"undefined", local, "nope", ast.Primitive(ast.Int), &typesystem.Integer{Value: 3}, UndefinedSymbol},
		{"narrowing refused", local, "d", ast.Primitive(ast.String), &typesystem.String{Value: "x"}, IncompatibleType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ctx.SetSymbol(tt.sym, tt.spec, tt.value, types); got != tt.want {
				t.Errorf("SetSymbol = %s, want %s", got, tt.want)
			}
		})
	}

	// The write lands in the owning context, converted to its declared type.
	sym := global.GetSymbol("d", Shallow)
	if d, ok := sym.Value.(*typesystem.Double); !ok || d.Value != 3 {
		t.Errorf("d = %s, want double 3", sym.Value.Inspect())
	}
	if !local.GetSymbol("d", Shallow).IsDefault() {
		t.Errorf("SetSymbol must not create a local binding")
	}
}

func TestSetSymbolReadOnly(t *testing.T) {
	types := typesystem.NewTypeTable(nil)
	builtins := New(Mutable)
	builtins.InsertSymbol("EXIT_SUCCESS", intSymbol(0))
	builtins.SetModifier(ReadOnly)
	user := New(Mutable, builtins)

	if got := user.SetSymbol("EXIT_SUCCESS", ast.Primitive(ast.Int), &typesystem.Integer{Value: 9}, types); got != MutationDisallowed {
		t.Errorf("SetSymbol = %s, want MUTATION_DISALLOWED", got)
	}
	if got := builtins.GetSymbol("EXIT_SUCCESS", Shallow).Value.Inspect(); got != "0" {
		t.Errorf("read-only symbol changed to %s", got)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	types := typesystem.NewTypeTable(nil)
	static := New(Mutable)
	static.InsertSymbol("i", intSymbol(0))

	live := New(Mutable)
	live.InsertSymbol("outer", intSymbol(42))
	instance := static.Copy(live)

	if r := instance.SetSymbol("i", ast.Primitive(ast.Int), &typesystem.Integer{Value: 7}, types); r != SetSuccess {
		t.Fatalf("SetSymbol = %s", r)
	}
	if got := static.GetSymbol("i", Shallow).Value.Inspect(); got != "0" {
		t.Errorf("static context leaked runtime state: i = %s", got)
	}
	if instance.GetSymbol("outer", Deep).IsDefault() {
		t.Errorf("copy must look up through its new parents")
	}
}
