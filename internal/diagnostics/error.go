package diagnostics

import (
	"fmt"

	"github.com/funvibe/sumlang/internal/token"
)

// DiagnosticError is a single located diagnostic.
type DiagnosticError struct {
	Code    ErrorCode
	Pos     token.Position
	Message string
}

func NewError(code ErrorCode, pos token.Position, format string, args ...interface{}) *DiagnosticError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DiagnosticError{Code: code, Pos: pos, Message: msg}
}

func (e *DiagnosticError) Kind() ErrorKind {
	return e.Code.Kind()
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s at %s: [%s %s] %s", e.Kind(), e.Pos, e.Code, e.Code.Name(), e.Message)
}
