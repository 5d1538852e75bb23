// Package quil implements the data model of the Quil quantum instruction
// language: symbolic expressions over complex numbers, the instruction set,
// and programs aggregating instructions and definitions.
//
// Parsing lives in the parser subpackage; this package is purely the
// immutable value model plus expression evaluation.
package quil

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'quil'.
func tracer() tracing.Trace {
	return tracing.Select("quil")
}
