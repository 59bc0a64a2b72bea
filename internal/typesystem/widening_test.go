package typesystem

import (
	"testing"

	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
)

func prim(kind ast.PrimitiveKind) ast.TypeSpecifier { return ast.Primitive(kind) }

func named(name string) ast.TypeSpecifier { return &ast.ComplexTypeSpecifier{Name: name} }

// declareSum adds a sum whose variants are all primitive aliases.
func declareSum(table *TypeTable, name string, variants ...struct {
	name string
	kind ast.PrimitiveKind
}) *SumType {
	sum := &SumType{Name: name, Spec: named(name), Variants: NewTypeTable(nil)}
	for _, v := range variants {
		sum.Variants.AddType(v.name, &AliasType{Name: v.name, Target: prim(v.kind), Origin: PrimitiveDefinition(v.kind)})
	}
	table.AddType(name, sum)
	return sum
}

type variant = struct {
	name string
	kind ast.PrimitiveKind
}

func declarePoint(table *TypeTable) *RecordType {
	rec := &RecordType{Name: "point", Spec: named("point"), Members: NewTypeTable(nil)}
	rec.Members.AddType("x", &AliasType{Name: "x", Target: prim(ast.Int), Origin: PrimitiveDefinition(ast.Int)})
	rec.Members.AddType("y", &AliasType{Name: "y", Target: prim(ast.Int), Origin: PrimitiveDefinition(ast.Int), Default: &Integer{Value: 7}})
	table.AddType("point", rec)
	return rec
}

func TestAnalyzeAssignmentReflexive(t *testing.T) {
	table := NewTypeTable(nil)
	declareSum(table, "shape", variant{"Circle", ast.Double}, variant{"Label", ast.String})
	declarePoint(table)

	specs := []ast.TypeSpecifier{
		prim(ast.Boolean), prim(ast.Byte), prim(ast.Int), prim(ast.Double), prim(ast.String), prim(ast.Unit),
		named("shape"),
		named("point"),
		&ast.MaybeTypeSpecifier{Base: prim(ast.Int)},
		&ast.MaybeTypeSpecifier{Base: named("shape")},
		&ast.ArrayTypeSpecifier{Element: prim(ast.Int)},
		&ast.ArrayTypeSpecifier{Element: named("point"), FixedSize: true, Size: 3},
		&ast.FunctionTypeSpecifier{Parameters: []*ast.Parameter{{Name: "a", Type: prim(ast.Int)}}, ReturnType: prim(ast.Double)},
		&ast.NestedTypeSpecifier{Parent: named("shape"), Member: "Circle"},
	}
	for _, spec := range specs {
		t.Run(spec.String(), func(t *testing.T) {
			if got := AnalyzeAssignment(spec, spec, table); got != Equivalent {
				t.Errorf("AnalyzeAssignment(%s, %s) = %s, want EQUIVALENT", spec, spec, got)
			}
		})
	}
}

func TestPrimitiveWidening(t *testing.T) {
	order := []ast.PrimitiveKind{ast.Boolean, ast.Byte, ast.Int, ast.Double, ast.String}
	table := NewTypeTable(nil)
	for i, source := range order {
		for j, target := range order {
			got := AnalyzeAssignment(prim(source), prim(target), table)
			var want AnalysisResult
			switch {
			case i == j:
				want = Equivalent
			case i < j:
				want = Unambiguous
			default:
				want = Incompatible
			}
			if got != want {
				t.Errorf("%s -> %s = %s, want %s", source, target, got, want)
			}
		}
	}

	if got := AnalyzeAssignment(prim(ast.Unit), prim(ast.Int), table); got != Incompatible {
		t.Errorf("unit -> int = %s, want INCOMPATIBLE", got)
	}
	if got := AnalyzeAssignment(prim(ast.Nil), prim(ast.String), table); got != Incompatible {
		t.Errorf("nil -> string = %s, want INCOMPATIBLE", got)
	}
}

func TestSumWidening(t *testing.T) {
	table := NewTypeTable(nil)
	declareSum(table, "pair", variant{"A", ast.Int}, variant{"B", ast.String})
	declareSum(table, "twin", variant{"A", ast.Int}, variant{"B", ast.Int})

	tests := []struct {
		name   string
		source ast.TypeSpecifier
		target string
		want   AnalysisResult
	}{
		{"int into pair", prim(ast.Int), "pair", Unambiguous},
		{"string into pair", prim(ast.String), "pair", Unambiguous},
		{"double into pair", prim(ast.Double), "pair", Incompatible},
		{"pair into pair", named("pair"), "pair", Equivalent},
		{"int into twin", prim(ast.Int), "twin", Ambiguous},
		{"variant into its sum", &ast.NestedTypeSpecifier{Parent: named("twin"), Member: "B"}, "twin", Unambiguous},
		{"pair into twin", named("pair"), "twin", Incompatible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnalyzeAssignment(tt.source, named(tt.target), table); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	value, ok := Convert(&Integer{Value: 4}, prim(ast.Int), named("pair"), table)
	if !ok {
		t.Fatalf("Convert int into pair failed")
	}
	sum, isSum := value.(*Sum)
	if !isSum || sum.Tag != "A" || !sum.Payload.Equal(&Integer{Value: 4}) {
		t.Errorf("Convert int into pair = %s, want A(4)", value.Inspect())
	}

	if _, ok := Convert(&Integer{Value: 4}, prim(ast.Int), named("twin"), table); ok {
		t.Errorf("Convert int into twin should be refused as ambiguous")
	}
}

func TestMaybeWidening(t *testing.T) {
	table := NewTypeTable(nil)
	declareSum(table, "pair", variant{"A", ast.Int}, variant{"B", ast.String})
	maybeInt := &ast.MaybeTypeSpecifier{Base: prim(ast.Int)}
	maybePair := &ast.MaybeTypeSpecifier{Base: named("pair")}

	tests := []struct {
		name   string
		source ast.TypeSpecifier
		target ast.TypeSpecifier
		want   AnalysisResult
	}{
		{"nil into int?", prim(ast.Nil), maybeInt, Unambiguous},
		{"int into int?", prim(ast.Int), maybeInt, Unambiguous},
		{"byte into int?", prim(ast.Byte), maybeInt, Unambiguous},
		{"string into int?", prim(ast.String), maybeInt, Incompatible},
		{"int into pair?", prim(ast.Int), maybePair, UnambiguousNested},
		{"pair into pair?", named("pair"), maybePair, Unambiguous},
		{"int? into int", maybeInt, prim(ast.Int), Incompatible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnalyzeAssignment(tt.source, tt.target, table); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMaybeRoundTrip(t *testing.T) {
	table := NewTypeTable(nil)
	maybeInt := &ast.MaybeTypeSpecifier{Base: prim(ast.Int)}

	def := GetType(maybeInt, table, Resolve)
	if !def.IsOk() {
		t.Fatalf("GetType(int?) failed: %s", def.Errors)
	}
	if d := def.Value.DefaultValue().(*Sum); d.Tag != config.NilTag {
		t.Errorf("default of int? has tag %s, want Nil", d.Tag)
	}

	wrapped, ok := Convert(&Integer{Value: 9}, prim(ast.Int), maybeInt, table)
	if !ok {
		t.Fatalf("Convert int into int? failed")
	}
	sum := wrapped.(*Sum)
	if sum.Tag != config.ValueTag {
		t.Fatalf("tag = %s, want Value", sum.Tag)
	}
	if !sum.Payload.Equal(&Integer{Value: 9}) {
		t.Errorf("payload = %s, want 9", sum.Payload.Inspect())
	}
}

func TestNestedMaybeConversion(t *testing.T) {
	table := NewTypeTable(nil)
	declareSum(table, "pair", variant{"A", ast.Int}, variant{"B", ast.String})

	value, ok := Convert(&String{Value: "x"}, prim(ast.String), &ast.MaybeTypeSpecifier{Base: named("pair")}, table)
	if !ok {
		t.Fatalf("Convert string into pair? failed")
	}
	if got := value.Inspect(); got != "Value(B(x))" {
		t.Errorf("got %s, want Value(B(x))", got)
	}
}

func TestRecordDefaultsAreStructurallyEqual(t *testing.T) {
	table := NewTypeTable(nil)
	rec := declarePoint(table)

	a := rec.DefaultValue()
	b := rec.DefaultValue()
	if a == b {
		t.Fatalf("default instances must be distinct values")
	}
	if !a.Equal(b) {
		t.Errorf("defaults differ: %s vs %s", a.Inspect(), b.Inspect())
	}
	if got := a.Inspect(); got != "{x: 0, y: 7}" {
		t.Errorf("default point = %s, want {x: 0, y: 7}", got)
	}
}

func TestArrayAndFunctionWidening(t *testing.T) {
	table := NewTypeTable(nil)
	ints := &ast.ArrayTypeSpecifier{Element: prim(ast.Int)}
	fixed := &ast.ArrayTypeSpecifier{Element: prim(ast.Int), FixedSize: true, Size: 4}
	doubles := &ast.ArrayTypeSpecifier{Element: prim(ast.Double)}

	if got := AnalyzeAssignment(ints, fixed, table); got != Incompatible {
		t.Errorf("int[] -> int[4] = %s, want INCOMPATIBLE", got)
	}
	if got := AnalyzeAssignment(ints, doubles, table); got != Incompatible {
		t.Errorf("int[] -> double[] = %s, want INCOMPATIBLE", got)
	}

	fn := &ast.FunctionTypeSpecifier{Parameters: []*ast.Parameter{{Name: "a", Type: prim(ast.Int)}}, ReturnType: prim(ast.Int)}
	renamed := &ast.FunctionTypeSpecifier{Parameters: []*ast.Parameter{{Name: "b", Type: prim(ast.Int)}}, ReturnType: prim(ast.Int)}
	single := &ast.VariantFunctionTypeSpecifier{Variants: []*ast.FunctionTypeSpecifier{fn}}

	if got := AnalyzeAssignment(fn, renamed, table); got != Equivalent {
		t.Errorf("parameter names must not matter, got %s", got)
	}
	if got := AnalyzeAssignment(single, fn, table); got != Unambiguous {
		t.Errorf("single variant -> function = %s, want UNAMBIGUOUS", got)
	}
	if got := AnalyzeAssignment(fn, single, table); got != Unambiguous {
		t.Errorf("function -> single variant = %s, want UNAMBIGUOUS", got)
	}
}

func TestGetTypeErrors(t *testing.T) {
	table := NewTypeTable(nil)
	declareSum(table, "pair", variant{"A", ast.Int}, variant{"B", ast.String})

	if r := GetType(named("missing"), table, Resolve); !r.Errors.HasCode("S002") {
		t.Errorf("expected UNDECLARED_TYPE, got %v", r.Errors.Codes())
	}
	nested := &ast.NestedTypeSpecifier{Parent: named("pair"), Member: "C"}
	if r := GetType(nested, table, Resolve); !r.Errors.HasCode("S003") {
		t.Errorf("expected UNDECLARED_MEMBER, got %v", r.Errors.Codes())
	}

	alias := GetType(&ast.NestedTypeSpecifier{Parent: named("pair"), Member: "A"}, table, Return)
	if _, ok := alias.Value.(*AliasType); !ok {
		t.Errorf("Return policy should keep the alias, got %T", alias.Value)
	}
	resolved := GetType(&ast.NestedTypeSpecifier{Parent: named("pair"), Member: "A"}, table, Resolve)
	if p, ok := resolved.Value.(*PrimitiveType); !ok || p.Kind != ast.Int {
		t.Errorf("Resolve policy should yield int, got %v", resolved.Value)
	}
}

func TestTypeTablePlaceholder(t *testing.T) {
	table := NewTypeTable(nil)
	table.AddType("node", &PlaceholderType{Name: "node"})
	if !IsPlaceholder(named("node"), table) {
		t.Fatalf("node should be a placeholder")
	}
	rec := &RecordType{Name: "node", Spec: named("node"), Members: NewTypeTable(nil)}
	table.AddType("node", rec)
	if IsPlaceholder(named("node"), table) {
		t.Errorf("placeholder should have been replaced")
	}
	if names := table.Names(); len(names) != 1 {
		t.Errorf("replacement must not duplicate the name, got %v", names)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("re-adding a complete type should panic")
		}
	}()
	table.AddType("node", rec)
}
