// Package parser turns Quil source text into the instruction and expression
// model of the root package: a lexer producing a typed token stream, an
// operator-precedence expression grammar, per-instruction sub-grammars, and
// the dispatcher routing each instruction to its grammar.
//
// Every parsing function takes a token slice and returns the unconsumed
// remainder alongside its result, so progress is always observable. Failures
// are typed Error values carrying a recoverable-or-committed severity: once a
// discriminating token (a command keyword, a newline plus indentation) has
// been consumed, subsequent failures propagate instead of being reinterpreted
// as a different grammar alternative.
package parser

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'quil.parser'.
func tracer() tracing.Trace {
	return tracing.Select("quil.parser")
}
