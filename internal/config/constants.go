package config

// ProgramFileExt is the extension of serialised AST programs accepted by the driver.
const ProgramFileExt = ".sl.yaml"

// ProgramFileExtensions are all recognized program file extensions
var ProgramFileExtensions = []string{".sl.yaml", ".sl.yml", ".yaml", ".yml"}

// LanguageVersion is exported to programs as lang_version.
const LanguageVersion = "0.4.0"

// Primitive type names
const (
	BoolTypeName   = "bool"
	ByteTypeName   = "byte"
	IntTypeName    = "int"
	DoubleTypeName = "double"
	StringTypeName = "string"
	UnitTypeName   = "unit"
	NilTypeName    = "nil"
)

// Sum tags shared by every Maybe type. NilTag is also the global tag that
// any sum value may carry.
const (
	NilTag   = "Nil"
	ValueTag = "Value"
)

// DefaultArmName is the match arm that covers every remaining variant.
const DefaultArmName = "_"

// NextMemberName is the member a record must expose to be iterable with foreach.
const NextMemberName = "next"

// Builtin type names
const (
	ErrorTypeName      = "error"
	ErrorListTypeName  = "error_list"
	IntResultTypeName  = "int_result"
	ByteResultTypeName = "byte_result"
	StreamModeTypeName = "stream_mode_type"
)

// Builtin symbol names
const (
	StreamModeSymbol    = "stream_mode"
	PathSeparatorSymbol = "path_separator"
	LangVersionSymbol   = "lang_version"
	ExitSuccessSymbol   = "EXIT_SUCCESS"
	ExitFailureSymbol   = "EXIT_FAILURE"
)

// Member and variant names of the builtin types
const (
	ErrorCodeMember    = "code"
	ErrorMessageMember = "message"
	ListDataMember     = "data"
	ListNextMember     = "next"
	ResultDataVariant  = "data"
	ResultErrorVariant = "errors"
	ResultEndVariant   = "end"
)

// Stream modes accepted by open
const (
	StreamIn   = 1
	StreamOut  = 2
	StreamBoth = 3
)

// Process exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// DefaultMaxCallDepth bounds nested function activations.
const DefaultMaxCallDepth = 1000
