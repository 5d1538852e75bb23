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
	quil "github.com/jselig-rigetti/quil-rs"
)

// instructionParser consumes the token slice following an instruction's
// discriminating keyword and returns the unconsumed remainder with the
// parsed instruction.
type instructionParser func(input []Token) ([]Token, quil.Instruction, error)

// commandParsers maps every implemented keyword to its sub-grammar. A keyword
// lexed as a Command but absent here dispatches to UnsupportedInstruction.
// PULSE is special-cased in ParseInstruction since a pulse may also begin
// with the NONBLOCKING marker.
var commandParsers map[Command]instructionParser

func init() {
	commandParsers = map[Command]instructionParser{
		Add:         parseArithmetic(quil.Add),
		Sub:         parseArithmetic(quil.Subtract),
		Mul:         parseArithmetic(quil.Multiply),
		Div:         parseArithmetic(quil.Divide),
		Capture:     parseCapture,
		Declare:     parseDeclare,
		DefCal:      parseDefcal,
		DefCircuit:  parseDefcircuit,
		DefFrame:    parseDefframe,
		DefWaveform: parseDefwaveform,
		Delay:       parseDelay,
		Halt:        parseHalt,
		Jump:        parseJump,
		JumpUnless:  parseJumpUnless,
		JumpWhen:    parseJumpWhen,
		Label:       parseLabel,
		Load:        parseLoad,
		Measure:     parseMeasurement,
		Move:        parseMove,
		Exchange:    parseExchange,
		Pragma:      parsePragma,
		RawCapture:  parseRawCapture,
		Store:       parseStore,
	}
}

// ParseInstruction parses the next instruction from the input, skipping past
// leading newlines, comments and semicolons. Failures behind a recognized
// command keyword are committed: they identify the keyword and must not be
// reinterpreted as a different grammar alternative.
func ParseInstruction(input []Token) ([]Token, quil.Instruction, error) {
	input = skipNewlinesAndComments(input)
	if len(input) == 0 {
		return input, nil, endOfInput("an instruction")
	}
	head := input[0]
	switch head.Type {
	case TokCommand:
		if head.Command == Pulse {
			return dispatch(head.Command, input, parsePulse)
		}
		routine, ok := commandParsers[head.Command]
		if !ok {
			return input, nil, commit(&Error{Kind: UnsupportedInstruction, Command: head.Command})
		}
		return dispatch(head.Command, input[1:], routine)
	case TokNonBlocking:
		return dispatch(Pulse, input, parsePulse)
	case TokIdentifier, TokModifier:
		return parseGate(input)
	}
	return input, nil, commit(&Error{Kind: NotACommandOrGate, Found: head.String()})
}

// dispatch runs a sub-grammar and wraps any failure with the originating
// keyword as a committed InvalidCommand.
func dispatch(command Command, input []Token, routine instructionParser) ([]Token, quil.Instruction, error) {
	rest, instruction, err := routine(input)
	if err != nil {
		tracer().Debugf("%s grammar failed: %v", command, err)
		return rest, nil, commit(&Error{Kind: InvalidCommand, Command: command, Cause: err})
	}
	return rest, instruction, nil
}

// ParseInstructions parses all instructions from the input, trimming leading
// and trailing newlines and comments. The entire input must be consumed;
// leftover tokens invalidate the whole parse.
func ParseInstructions(input []Token) ([]quil.Instruction, error) {
	instructions := []quil.Instruction{}
	for {
		rest, instruction, err := ParseInstruction(input)
		if err != nil {
			if isCommitted(err) {
				return nil, err
			}
			break
		}
		input = rest
		instructions = append(instructions, instruction)
	}
	input = skipNewlinesAndComments(input)
	if len(input) != 0 {
		return nil, commit(&Error{Kind: LeftoverInput, Found: input[0].String()})
	}
	return instructions, nil
}

// ParseBlock parses one or more indented block instructions, as used for
// calibration and circuit bodies. "No block present" is a recoverable
// failure; a malformed line after newline plus indentation is committed.
func ParseBlock(input []Token) ([]Token, []quil.Instruction, error) {
	rest, first, err := parseBlockInstruction(input)
	if err != nil {
		return input, nil, err
	}
	input = rest
	instructions := []quil.Instruction{first}
	for {
		rest, next, err := parseBlockInstruction(input)
		if err != nil {
			if isCommitted(err) {
				return rest, nil, err
			}
			return input, instructions, nil
		}
		input = rest
		instructions = append(instructions, next)
	}
}

// parseBlockInstruction parses a single indented block instruction: a
// newline, the indentation marker, then the instruction.
func parseBlockInstruction(input []Token) ([]Token, quil.Instruction, error) {
	rest, _, err := expect(input, TokNewLine, "a newline")
	if err != nil {
		return input, nil, err
	}
	rest, _, err = expect(rest, TokIndentation, "indentation")
	if err != nil {
		return input, nil, err
	}
	// The newline plus indentation commits us to a block line.
	rest, instruction, err := ParseInstruction(rest)
	if err != nil {
		return rest, nil, commit(err)
	}
	return rest, instruction, nil
}

// ParseProgram parses source text into a complete program. Definitions are
// collected into the program's registries, all other instructions into its
// body.
func ParseProgram(text string) (*quil.Program, error) {
	tokens, err := Lex(text)
	if err != nil {
		return nil, err
	}
	instructions, err := ParseInstructions(tokens)
	if err != nil {
		return nil, err
	}
	program := quil.NewProgram()
	for _, instruction := range instructions {
		program.AddInstruction(instruction)
	}
	return program, nil
}
