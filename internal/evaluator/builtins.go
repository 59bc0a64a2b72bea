package evaluator

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/config"
	"github.com/funvibe/sumlang/internal/token"
)

var builtinPos = token.Position{File: "<builtins>"}

func builtinType(name string) ast.TypeSpecifier {
	if kind, ok := primitiveNames[name]; ok {
		return &ast.PrimitiveTypeSpecifier{Location: builtinPos, Kind: kind}
	}
	return &ast.ComplexTypeSpecifier{Location: builtinPos, Name: name}
}

var primitiveNames = map[string]ast.PrimitiveKind{
	config.BoolTypeName:   ast.Boolean,
	config.ByteTypeName:   ast.Byte,
	config.IntTypeName:    ast.Int,
	config.DoubleTypeName: ast.Double,
	config.StringTypeName: ast.String,
}

func member(name, typeName string, init ast.Expression) *ast.DeclarationStatement {
	return &ast.DeclarationStatement{Location: builtinPos, Name: name, Type: builtinType(typeName), Initializer: init}
}

func intLit(v int64) ast.Expression {
	return &ast.IntLiteral{Location: builtinPos, Value: v}
}

func strLit(v string) ast.Expression {
	return &ast.StringLiteral{Location: builtinPos, Value: v}
}

func aliasVariant(name, typeName string) *ast.VariantDeclaration {
	return &ast.VariantDeclaration{Location: builtinPos, Name: name, Type: builtinType(typeName)}
}

// BuiltinProgram declares the types and constants every program can see:
// error records, the result sums of the file expressions, stream modes,
// the path separator, the language version and the exit codes.
func BuiltinProgram(pathSeparator string) *ast.StatementBlock {
	errorList := builtinType(config.ErrorListTypeName)
	return &ast.StatementBlock{Location: builtinPos, Statements: []ast.Statement{
		&ast.RecordTypeDeclaration{Location: builtinPos, Name: config.ErrorTypeName, Members: []*ast.DeclarationStatement{
			member(config.ErrorCodeMember, config.IntTypeName, nil),
			member(config.ErrorMessageMember, config.StringTypeName, nil),
		}},
		&ast.RecordTypeDeclaration{Location: builtinPos, Name: config.ErrorListTypeName, Members: []*ast.DeclarationStatement{
			member(config.ListDataMember, config.ErrorTypeName, nil),
			{Location: builtinPos, Name: config.ListNextMember, Type: &ast.MaybeTypeSpecifier{Location: builtinPos, Base: errorList}},
		}},
		&ast.SumTypeDeclaration{Location: builtinPos, Name: config.IntResultTypeName, Variants: []*ast.VariantDeclaration{
			aliasVariant(config.ResultDataVariant, config.IntTypeName),
			aliasVariant(config.ResultErrorVariant, config.ErrorListTypeName),
		}},
		&ast.SumTypeDeclaration{Location: builtinPos, Name: config.ByteResultTypeName, Variants: []*ast.VariantDeclaration{
			aliasVariant(config.ResultDataVariant, config.ByteTypeName),
			aliasVariant(config.ResultEndVariant, config.BoolTypeName),
			aliasVariant(config.ResultErrorVariant, config.ErrorListTypeName),
		}},
		&ast.RecordTypeDeclaration{Location: builtinPos, Name: config.StreamModeTypeName, Members: []*ast.DeclarationStatement{
			member("in", config.IntTypeName, intLit(config.StreamIn)),
			member("out", config.IntTypeName, intLit(config.StreamOut)),
			member("both", config.IntTypeName, intLit(config.StreamBoth)),
		}},
		member(config.StreamModeSymbol, config.StreamModeTypeName, nil),
		member(config.PathSeparatorSymbol, config.StringTypeName, strLit(pathSeparator)),
		member(config.LangVersionSymbol, config.StringTypeName, strLit(config.LanguageVersion)),
		member(config.ExitSuccessSymbol, config.IntTypeName, intLit(config.ExitSuccess)),
		member(config.ExitFailureSymbol, config.IntTypeName, intLit(config.ExitFailure)),
	}}
}
