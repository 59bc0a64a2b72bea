package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/sumlang/internal/token"
)

// ErrorList is a persistent singly-linked list of diagnostics.
// Lists are never mutated; every operation returns a new list that may share
// structure with its inputs. The end of every list is the Empty terminator.
type ErrorList struct {
	head *DiagnosticError
	next *ErrorList
}

// Empty is the shared terminator. A nil *ErrorList is treated the same way.
var Empty = &ErrorList{}

// From returns a list with err in front of list.
func From(err *DiagnosticError, list *ErrorList) *ErrorList {
	if list == nil {
		list = Empty
	}
	return &ErrorList{head: err, next: list}
}

// Single builds a one-element list.
func Single(code ErrorCode, pos token.Position, format string, args ...interface{}) *ErrorList {
	return From(NewError(code, pos, format, args...), Empty)
}

func (l *ErrorList) IsEmpty() bool {
	return l == nil || l == Empty
}

// Head returns the first diagnostic, or nil for the terminator.
func (l *ErrorList) Head() *DiagnosticError {
	if l.IsEmpty() {
		return nil
	}
	return l.head
}

// Next returns the rest of the list.
func (l *ErrorList) Next() *ErrorList {
	if l.IsEmpty() {
		return Empty
	}
	return l.next
}

func (l *ErrorList) Len() int {
	n := 0
	for cur := l; !cur.IsEmpty(); cur = cur.next {
		n++
	}
	return n
}

// With returns a new list with err prepended.
func (l *ErrorList) With(err *DiagnosticError) *ErrorList {
	return From(err, l)
}

// Concatenate returns the elements of a followed by the elements of b.
// Neither input is modified; b is shared, a is copied.
func Concatenate(a, b *ErrorList) *ErrorList {
	if a.IsEmpty() {
		if b == nil {
			return Empty
		}
		return b
	}
	if b.IsEmpty() {
		return a
	}
	items := a.Errors()
	result := b
	for i := len(items) - 1; i >= 0; i-- {
		result = From(items[i], result)
	}
	return result
}

// Errors returns the diagnostics in list order.
func (l *ErrorList) Errors() []*DiagnosticError {
	var out []*DiagnosticError
	for cur := l; !cur.IsEmpty(); cur = cur.next {
		out = append(out, cur.head)
	}
	return out
}

// Sorted returns the diagnostics restored to source order.
func (l *ErrorList) Sorted() []*DiagnosticError {
	out := l.Errors()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pos.Before(out[j].Pos)
	})
	return out
}

// HasCode reports whether any diagnostic in the list carries code.
func (l *ErrorList) HasCode(code ErrorCode) bool {
	for cur := l; !cur.IsEmpty(); cur = cur.next {
		if cur.head.Code == code {
			return true
		}
	}
	return false
}

// Codes lists the codes in list order (handy in tests).
func (l *ErrorList) Codes() []ErrorCode {
	var out []ErrorCode
	for cur := l; !cur.IsEmpty(); cur = cur.next {
		out = append(out, cur.head.Code)
	}
	return out
}

func (l *ErrorList) Error() string {
	if l.IsEmpty() {
		return "no errors"
	}
	var sb strings.Builder
	for i, err := range l.Sorted() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (l *ErrorList) String() string {
	if l.IsEmpty() {
		return "[]"
	}
	return fmt.Sprintf("[%d errors]\n%s", l.Len(), l.Error())
}
