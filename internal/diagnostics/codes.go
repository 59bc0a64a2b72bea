package diagnostics

// ErrorCode identifies a diagnostic. The first letter encodes the kind:
// S = semantic (Preprocess), R = runtime (Execute), I = internal.
type ErrorCode string

type ErrorKind int

const (
	KindSemantic ErrorKind = iota
	KindRuntime
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindSemantic:
		return "semantic error"
	case KindRuntime:
		return "runtime error"
	default:
		return "internal error"
	}
}

// Semantic errors
const (
	ErrUndeclaredVariable      ErrorCode = "S001"
	ErrUndeclaredType          ErrorCode = "S002"
	ErrUndeclaredMember        ErrorCode = "S003"
	ErrPreviousDeclaration     ErrorCode = "S004"
	ErrAssignmentType          ErrorCode = "S005"
	ErrArgumentType            ErrorCode = "S006"
	ErrAmbiguousWidening       ErrorCode = "S007"
	ErrMissingReturnCoverage   ErrorCode = "S008"
	ErrIncompleteMatch         ErrorCode = "S009"
	ErrDuplicateMatchArm       ErrorCode = "S010"
	ErrRedundantDefault        ErrorCode = "S011"
	ErrInvalidIndexType        ErrorCode = "S012"
	ErrRawRecursiveDeclaration ErrorCode = "S013"
	ErrDivideByZero            ErrorCode = "S014"
	ErrInvalidOperandType      ErrorCode = "S015"
	ErrNotAFunction            ErrorCode = "S016"
	ErrTooManyArguments        ErrorCode = "S017"
	ErrMissingArgument         ErrorCode = "S018"
	ErrNoSuchParameter         ErrorCode = "S019"
	ErrNonConstantDefault      ErrorCode = "S020"
	ErrReturnType              ErrorCode = "S021"
	ErrMatchRequiresSum        ErrorCode = "S022"
	ErrInvalidVariant          ErrorCode = "S023"
	ErrNotIterable             ErrorCode = "S024"
	ErrInvalidMemberAccess     ErrorCode = "S025"
	ErrConditionType           ErrorCode = "S026"
	ErrNoMatchingVariant       ErrorCode = "S027"
	ErrAmbiguousVariant        ErrorCode = "S028"
	ErrExitCodeType            ErrorCode = "S029"
	ErrReturnOutsideFunction   ErrorCode = "S030"
	ErrMutationDisallowed      ErrorCode = "S031"
	ErrDuplicateArgument       ErrorCode = "S032"
	ErrMissingType             ErrorCode = "S033"
	ErrNotIndexable            ErrorCode = "S034"
)

// Runtime errors
const (
	ErrIndexOutOfBounds      ErrorCode = "R001"
	ErrRuntimeDivideByZero   ErrorCode = "R002"
	ErrUnmatchedTag          ErrorCode = "R003"
	ErrIOFailure             ErrorCode = "R004"
	ErrCallDepthExceeded     ErrorCode = "R005"
	ErrRuntimeSymbolMutation ErrorCode = "R006"
)

// Internal errors
const (
	ErrInternal       ErrorCode = "I001"
	ErrClosureExpired ErrorCode = "I002"
)

var codeNames = map[ErrorCode]string{
	ErrUndeclaredVariable:      "UNDECLARED_VARIABLE",
	ErrUndeclaredType:          "UNDECLARED_TYPE",
	ErrUndeclaredMember:        "UNDECLARED_MEMBER",
	ErrPreviousDeclaration:     "PREVIOUS_DECLARATION",
	ErrAssignmentType:          "ASSIGNMENT_TYPE_ERROR",
	ErrArgumentType:            "PARAMETER_TYPE_ERROR",
	ErrAmbiguousWidening:       "AMBIGUOUS_WIDENING",
	ErrMissingReturnCoverage:   "MISSING_RETURN_COVERAGE",
	ErrIncompleteMatch:         "INCOMPLETE_MATCH",
	ErrDuplicateMatchArm:       "DUPLICATE_MATCH_ARM",
	ErrRedundantDefault:        "REDUNDANT_DEFAULT",
	ErrInvalidIndexType:        "INVALID_INDEX_TYPE",
	ErrRawRecursiveDeclaration: "RAW_RECURSIVE_DECLARATION",
	ErrDivideByZero:            "DIVIDE_BY_ZERO",
	ErrInvalidOperandType:      "INVALID_OPERAND_TYPE",
	ErrNotAFunction:            "NOT_A_FUNCTION",
	ErrTooManyArguments:        "TOO_MANY_ARGUMENTS",
	ErrMissingArgument:         "MISSING_ARGUMENT",
	ErrNoSuchParameter:         "NO_SUCH_PARAMETER",
	ErrNonConstantDefault:      "NON_CONSTANT_DEFAULT",
	ErrReturnType:              "RETURN_TYPE_ERROR",
	ErrMatchRequiresSum:        "MATCH_REQUIRES_SUM",
	ErrInvalidVariant:          "INVALID_VARIANT",
	ErrNotIterable:             "NOT_ITERABLE",
	ErrInvalidMemberAccess:     "INVALID_MEMBER_ACCESS",
	ErrConditionType:           "CONDITION_TYPE_ERROR",
	ErrNoMatchingVariant:       "NO_MATCHING_VARIANT",
	ErrAmbiguousVariant:        "AMBIGUOUS_VARIANT",
	ErrExitCodeType:            "EXIT_CODE_TYPE_ERROR",
	ErrReturnOutsideFunction:   "RETURN_OUTSIDE_FUNCTION",
	ErrMutationDisallowed:      "MUTATION_DISALLOWED",
	ErrDuplicateArgument:       "DUPLICATE_ARGUMENT",
	ErrMissingType:             "MISSING_TYPE",
	ErrNotIndexable:            "NOT_INDEXABLE",

	ErrIndexOutOfBounds:      "INDEX_OUT_OF_BOUNDS",
	ErrRuntimeDivideByZero:   "DIVIDE_BY_ZERO",
	ErrUnmatchedTag:          "UNMATCHED_TAG",
	ErrIOFailure:             "IO_FAILURE",
	ErrCallDepthExceeded:     "CALL_DEPTH_EXCEEDED",
	ErrRuntimeSymbolMutation: "SYMBOL_MUTATION_FAILED",

	ErrInternal:       "INTERNAL",
	ErrClosureExpired: "CLOSURE_EXPIRED",
}

// Name returns the symbolic name of the code, e.g. "UNDECLARED_TYPE".
func (c ErrorCode) Name() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return string(c)
}

// Kind derives the error kind from the code prefix.
func (c ErrorCode) Kind() ErrorKind {
	if len(c) == 0 {
		return KindInternal
	}
	switch c[0] {
	case 'S':
		return KindSemantic
	case 'R':
		return KindRuntime
	default:
		return KindInternal
	}
}
