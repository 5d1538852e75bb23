// Package cli implements the quilc command line interface.
package cli

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'quil.cli'
func tracer() tracing.Trace {
	return tracing.Select("quil.cli")
}
