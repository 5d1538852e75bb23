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
	"github.com/emirpasic/gods/maps/treemap"

	quil "github.com/jselig-rigetti/quil-rs"
)

// skipNewlinesAndComments advances past the run of newlines and statement
// separators at the head of the input. Comments never reach the parser; the
// lexer drops them.
func skipNewlinesAndComments(input []Token) []Token {
	for len(input) > 0 && (input[0].Type == TokNewLine || input[0].Type == TokSemicolon) {
		input = input[1:]
	}
	return input
}

// expect consumes one token of the given type or fails recoverably.
func expect(input []Token, t TokenType, description string) ([]Token, Token, error) {
	if len(input) == 0 {
		return input, Token{}, endOfInput(description)
	}
	if input[0].Type != t {
		return input, Token{}, unexpected(description, input[0])
	}
	return input[1:], input[0], nil
}

// parseMemoryReference parses 'name' or 'name[index]'; a missing index means
// index 0.
func parseMemoryReference(input []Token) ([]Token, quil.MemoryReference, error) {
	input, name, err := expect(input, TokIdentifier, "a memory reference")
	if err != nil {
		return input, quil.MemoryReference{}, err
	}
	reference := quil.MemoryReference{Name: name.Text}
	if len(input) > 0 && input[0].Type == TokLBracket {
		rest, index, err := expect(input[1:], TokInteger, "a memory index")
		if err != nil {
			return rest, quil.MemoryReference{}, err
		}
		rest, _, err = expect(rest, TokRBracket, "']'")
		if err != nil {
			return rest, quil.MemoryReference{}, err
		}
		reference.Index = index.Int
		input = rest
	}
	return input, reference, nil
}

// parseQubit parses a fixed qubit index or a formal qubit name ('%name').
func parseQubit(input []Token) ([]Token, quil.Qubit, error) {
	if len(input) == 0 {
		return input, nil, endOfInput("a qubit")
	}
	switch input[0].Type {
	case TokInteger:
		return input[1:], quil.FixedQubit(input[0].Int), nil
	case TokVariable:
		return input[1:], quil.VariableQubit(input[0].Text), nil
	}
	return input, nil, unexpected("a qubit", input[0])
}

// parseQubits parses one or more qubits.
func parseQubits(input []Token) ([]Token, []quil.Qubit, error) {
	rest, first, err := parseQubit(input)
	if err != nil {
		return input, nil, err
	}
	qubits := []quil.Qubit{first}
	for {
		next, qubit, err := parseQubit(rest)
		if err != nil {
			return rest, qubits, nil
		}
		rest = next
		qubits = append(qubits, qubit)
	}
}

// parseFrameIdentifier parses one or more qubits followed by the quoted
// frame name.
func parseFrameIdentifier(input []Token) ([]Token, quil.FrameIdentifier, error) {
	input, qubits, err := parseQubits(input)
	if err != nil {
		return input, quil.FrameIdentifier{}, err
	}
	input, name, err := expect(input, TokString, "a frame name")
	if err != nil {
		return input, quil.FrameIdentifier{}, err
	}
	return input, quil.FrameIdentifier{Name: name.Text, Qubits: qubits}, nil
}

// parseWaveformInvocation parses 'name' or 'name(key: expr, ...)'.
func parseWaveformInvocation(input []Token) ([]Token, quil.WaveformInvocation, error) {
	input, name, err := expect(input, TokIdentifier, "a waveform name")
	if err != nil {
		return input, quil.WaveformInvocation{}, err
	}
	waveform := quil.WaveformInvocation{Name: name.Text, Parameters: treemap.NewWithStringComparator()}
	if len(input) == 0 || input[0].Type != TokLParenthesis {
		return input, waveform, nil
	}
	input = input[1:]
	for {
		var key Token
		input, key, err = expect(input, TokIdentifier, "a waveform parameter name")
		if err != nil {
			return input, waveform, err
		}
		input, _, err = expect(input, TokColon, "':'")
		if err != nil {
			return input, waveform, err
		}
		var value quil.Expression
		input, value, err = ParseExpression(input)
		if err != nil {
			return input, waveform, err
		}
		waveform.Parameters.Put(key.Text, value)
		if len(input) > 0 && input[0].Type == TokComma {
			input = input[1:]
			continue
		}
		break
	}
	input, _, err = expect(input, TokRParenthesis, "')'")
	if err != nil {
		return input, waveform, err
	}
	return input, waveform, nil
}

// parseArithmeticOperand parses an integer literal, a real literal (either
// may carry a leading minus) or a memory reference.
func parseArithmeticOperand(input []Token) ([]Token, quil.ArithmeticOperand, error) {
	if len(input) == 0 {
		return input, nil, endOfInput("an operand")
	}
	negative := false
	rest := input
	if rest[0].Type == TokOperator && rest[0].Text == "-" {
		negative = true
		rest = rest[1:]
		if len(rest) == 0 {
			return input, nil, endOfInput("an operand")
		}
	}
	switch rest[0].Type {
	case TokInteger:
		value := int64(rest[0].Int)
		if negative {
			value = -value
		}
		return rest[1:], quil.LiteralInteger(value), nil
	case TokFloat:
		value := rest[0].Float
		if negative {
			value = -value
		}
		return rest[1:], quil.LiteralReal(value), nil
	case TokIdentifier:
		if negative {
			return input, nil, unexpected("a numeric literal", rest[0])
		}
		rest, reference, err := parseMemoryReference(rest)
		if err != nil {
			return input, nil, err
		}
		return rest, reference, nil
	}
	return input, nil, unexpected("an operand", rest[0])
}

// parseExpressionList parses a parenthesized, comma-separated expression
// list; absent parentheses yield an empty list.
func parseExpressionList(input []Token) ([]Token, []quil.Expression, error) {
	if len(input) == 0 || input[0].Type != TokLParenthesis {
		return input, nil, nil
	}
	input = input[1:]
	var expressions []quil.Expression
	for {
		rest, expression, err := ParseExpression(input)
		if err != nil {
			return rest, nil, err
		}
		input = rest
		expressions = append(expressions, expression)
		if len(input) > 0 && input[0].Type == TokComma {
			input = input[1:]
			continue
		}
		break
	}
	input, _, err := expect(input, TokRParenthesis, "')'")
	if err != nil {
		return input, nil, err
	}
	return input, expressions, nil
}

// parseVariableList parses a parenthesized, comma-separated list of formal
// parameter names ('%a, %b'); absent parentheses yield an empty list.
func parseVariableList(input []Token) ([]Token, []string, error) {
	if len(input) == 0 || input[0].Type != TokLParenthesis {
		return input, nil, nil
	}
	input = input[1:]
	var names []string
	for {
		rest, name, err := expect(input, TokVariable, "a parameter name")
		if err != nil {
			return rest, nil, err
		}
		input = rest
		names = append(names, name.Text)
		if len(input) > 0 && input[0].Type == TokComma {
			input = input[1:]
			continue
		}
		break
	}
	input, _, err := expect(input, TokRParenthesis, "')'")
	if err != nil {
		return input, nil, err
	}
	return input, names, nil
}
