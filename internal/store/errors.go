package store

import (
	"fmt"

	"github.com/sandeepkv93/taskflow/internal/model"
	"github.com/sandeepkv93/taskflow/internal/quality"
)

type ErrorCode string

const (
	CodeValidationRejected ErrorCode = "validation_rejected"
	CodeNotFound           ErrorCode = "not_found"
	CodeInvalidInput       ErrorCode = "invalid_input"
)

// Error is returned inside a Result; store operations never panic or return bare errors.
type Error struct {
	Code   ErrorCode
	Reason string
	Rule   quality.RuleID
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// Result is the discriminated outcome of a mutation. Task holds the post-mutation
// copy when Err is nil.
type Result struct {
	Task model.Task
	Err  *Error
}

func (r Result) OK() bool {
	return r.Err == nil
}

func rejected(v quality.Result) Result {
	return Result{Err: &Error{Code: CodeValidationRejected, Reason: v.Reason, Rule: v.Rule}}
}

func notFound(kind, id string) Result {
	return Result{Err: &Error{Code: CodeNotFound, Reason: fmt.Sprintf("%s %q not found", kind, id)}}
}

func invalid(format string, args ...any) Result {
	return Result{Err: &Error{Code: CodeInvalidInput, Reason: fmt.Sprintf(format, args...)}}
}
