// Copyright 2021 Rigetti Computing
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a parse failure.
type ErrorKind int8

// The parse failure kinds.
const (
	// EndOfInput: content was expected but the token stream was exhausted.
	EndOfInput ErrorKind = iota
	// UnexpectedToken: the next token starts no valid continuation here.
	UnexpectedToken
	// UnsupportedInstruction: a reserved keyword with no implemented grammar.
	UnsupportedInstruction
	// NotACommandOrGate: the leading token starts no known construct.
	NotACommandOrGate
	// InvalidCommand: a sub-grammar failed; wraps the cause and the keyword.
	InvalidCommand
	// LeftoverInput: a top-level parse did not consume the entire input.
	LeftoverInput
)

// Error is a structured parse failure. A committed error must propagate to
// the caller; a recoverable one permits trying another grammar alternative
// (or, for blocks, treating the block as absent).
type Error struct {
	Kind      ErrorKind
	Command   Command // the originating keyword, for Unsupported/InvalidCommand
	Expected  string  // description of what was expected, may be empty
	Found     string  // rendering of the offending token, may be empty
	Cause     error   // underlying failure, for InvalidCommand
	committed bool
}

func (e *Error) Error() string {
	switch e.Kind {
	case EndOfInput:
		if e.Expected != "" {
			return "expected " + e.Expected + ", got end of input"
		}
		return "unexpected end of input"
	case UnexpectedToken:
		if e.Expected != "" {
			return fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
		}
		return "unexpected token " + e.Found
	case UnsupportedInstruction:
		return "unsupported instruction " + e.Command.String()
	case NotACommandOrGate:
		return "expected a command or a gate, found " + e.Found
	case InvalidCommand:
		return fmt.Sprintf("error parsing %s: %v", e.Command, e.Cause)
	case LeftoverInput:
		return "parsing did not consume entire input: " + e.Found
	}
	return "parse error"
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Committed reports whether the failure is unrecoverable: a discriminating
// token has already been consumed, so the caller must not fall back to a
// different grammar alternative.
func (e *Error) Committed() bool {
	return e.committed
}

func endOfInput(expected string) *Error {
	return &Error{Kind: EndOfInput, Expected: expected}
}

func unexpected(expected string, found Token) *Error {
	return &Error{Kind: UnexpectedToken, Expected: expected, Found: found.String()}
}

// commit marks a parse error unrecoverable, leaving other errors untouched.
func commit(err error) error {
	var perr *Error
	if errors.As(err, &perr) {
		perr.committed = true
	}
	return err
}

// isCommitted reports whether err carries a committed parse failure.
func isCommitted(err error) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.committed
}
