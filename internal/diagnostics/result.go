package diagnostics

// Result pairs a value with the errors produced while computing it.
// When Errors is non-empty Value must not be read; the one exception is
// divide/mod by zero, which substitutes a zero Value so that analysis of
// independent expressions can continue.
type Result[T any] struct {
	Value  T
	Errors *ErrorList
}

func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value, Errors: Empty}
}

func Fail[T any](errs *ErrorList) Result[T] {
	var zero T
	return Result[T]{Value: zero, Errors: errs}
}

func (r Result[T]) IsOk() bool {
	return r.Errors.IsEmpty()
}
