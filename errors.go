package taul

import (
	"errors"
	"fmt"
)

// usageError is a programmer-error: a precondition was violated by the
// caller (an out-of-range rule index, a missing rule looked up by name, a
// parser given no bound grammar). It carries both a stable sentinel (for
// errors.Is) and a human-readable detail message, in the same spirit as the
// teacher's tqerrors package pairs a technical message with a display one.
type usageError struct {
	kind error
	msg  string
	wrap error
}

func (e *usageError) Error() string {
	return e.msg
}

func (e *usageError) Unwrap() error {
	if e.wrap != nil {
		return e.wrap
	}
	return e.kind
}

func (e *usageError) Is(target error) bool {
	return target == e.kind
}

// Sentinel usage-error kinds, checked with errors.Is.
var (
	ErrNoGrammarBound = errors.New("no_grammar_bound")
	ErrLPRNotFound    = errors.New("lpr_not_found")
	ErrPPRNotFound    = errors.New("ppr_not_found")
	ErrOutOfRange     = errors.New("out_of_range")
)

func newUsageErrorf(kind error, format string, a ...interface{}) error {
	return &usageError{kind: kind, msg: fmt.Sprintf(format, a...)}
}

// syntaxError is a build-time diagnostic surfaced by the spec-event
// translator for an ill-formed event sequence (as opposed to a parse-table
// diagnostic, which is reported via BuildDetails).
type syntaxError struct {
	msg string
}

func (e *syntaxError) Error() string { return e.msg }

func newSyntaxErrorf(format string, a ...interface{}) error {
	return &syntaxError{msg: fmt.Sprintf(format, a...)}
}
