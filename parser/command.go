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

// Each routine consumes the token slice following its discriminating keyword
// and returns the unconsumed remainder with the parsed instruction.
// parsePulse is the exception: it receives the full input, as a pulse may be
// introduced either by the PULSE keyword or by the NONBLOCKING marker.

func parseArithmetic(operator quil.ArithmeticOperator) instructionParser {
	return func(input []Token) ([]Token, quil.Instruction, error) {
		input, destination, err := parseArithmeticOperand(input)
		if err != nil {
			return input, nil, err
		}
		input, source, err := parseArithmeticOperand(input)
		if err != nil {
			return input, nil, err
		}
		return input, quil.Arithmetic{
			Operator:    operator,
			Destination: destination,
			Source:      source,
		}, nil
	}
}

func parseCapture(input []Token) ([]Token, quil.Instruction, error) {
	input, frame, err := parseFrameIdentifier(input)
	if err != nil {
		return input, nil, err
	}
	input, waveform, err := parseWaveformInvocation(input)
	if err != nil {
		return input, nil, err
	}
	input, reference, err := parseMemoryReference(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.Capture{Frame: frame, Waveform: waveform, MemoryReference: reference}, nil
}

func parseRawCapture(input []Token) ([]Token, quil.Instruction, error) {
	input, frame, err := parseFrameIdentifier(input)
	if err != nil {
		return input, nil, err
	}
	input, duration, err := ParseExpression(input)
	if err != nil {
		return input, nil, err
	}
	input, reference, err := parseMemoryReference(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.RawCapture{Frame: frame, Duration: duration, MemoryReference: reference}, nil
}

// parsePulse parses '[NONBLOCKING] PULSE <frame> <waveform>' from the full
// instruction input.
func parsePulse(input []Token) ([]Token, quil.Instruction, error) {
	blocking := true
	if len(input) > 0 && input[0].Type == TokNonBlocking {
		blocking = false
		input = input[1:]
	}
	if len(input) == 0 {
		return input, nil, endOfInput("PULSE")
	}
	if input[0].Type != TokCommand || input[0].Command != Pulse {
		return input, nil, unexpected("PULSE", input[0])
	}
	input, frame, err := parseFrameIdentifier(input[1:])
	if err != nil {
		return input, nil, err
	}
	input, waveform, err := parseWaveformInvocation(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.Pulse{Blocking: blocking, Frame: frame, Waveform: waveform}, nil
}

func parseDeclare(input []Token) ([]Token, quil.Instruction, error) {
	input, name, err := expect(input, TokIdentifier, "a region name")
	if err != nil {
		return input, nil, err
	}
	input, typeName, err := expect(input, TokIdentifier, "a data type")
	if err != nil {
		return input, nil, err
	}
	var dataType quil.ScalarType
	switch typeName.Text {
	case "BIT":
		dataType = quil.Bit
	case "INTEGER":
		dataType = quil.Integer
	case "OCTET":
		dataType = quil.Octet
	case "REAL":
		dataType = quil.RealType
	default:
		return input, nil, unexpected("a data type", typeName)
	}
	size := quil.Vector{DataType: dataType, Length: 1}
	if len(input) > 0 && input[0].Type == TokLBracket {
		rest, length, err := expect(input[1:], TokInteger, "a region length")
		if err != nil {
			return rest, nil, err
		}
		rest, _, err = expect(rest, TokRBracket, "']'")
		if err != nil {
			return rest, nil, err
		}
		size.Length = length.Int
		input = rest
	}
	declaration := quil.Declaration{Name: name.Text, Size: size}
	if len(input) > 0 && input[0].Type == TokIdentifier && input[0].Text == "SHARING" {
		rest, shared, err := expect(input[1:], TokIdentifier, "a shared region name")
		if err != nil {
			return rest, nil, err
		}
		declaration.Sharing = shared.Text
		input = rest
	}
	return input, declaration, nil
}

func parseDefcal(input []Token) ([]Token, quil.Instruction, error) {
	var modifiers []quil.GateModifier
	for len(input) > 0 && input[0].Type == TokModifier {
		modifiers = append(modifiers, input[0].Modifier)
		input = input[1:]
	}
	input, name, err := expect(input, TokIdentifier, "a calibration name")
	if err != nil {
		return input, nil, err
	}
	input, parameters, err := parseExpressionList(input)
	if err != nil {
		return input, nil, err
	}
	input, qubits, err := parseQubits(input)
	if err != nil {
		return input, nil, err
	}
	input, _, err = expect(input, TokColon, "':'")
	if err != nil {
		return input, nil, err
	}
	input, instructions, err := ParseBlock(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.Calibration{
		Name:         name.Text,
		Parameters:   parameters,
		Qubits:       qubits,
		Modifiers:    modifiers,
		Instructions: instructions,
	}, nil
}

func parseDefcircuit(input []Token) ([]Token, quil.Instruction, error) {
	input, name, err := expect(input, TokIdentifier, "a circuit name")
	if err != nil {
		return input, nil, err
	}
	input, parameters, err := parseVariableList(input)
	if err != nil {
		return input, nil, err
	}
	var qubits []quil.Qubit
	for len(input) > 0 && input[0].Type == TokIdentifier {
		qubits = append(qubits, quil.VariableQubit(input[0].Text))
		input = input[1:]
	}
	input, _, err = expect(input, TokColon, "':'")
	if err != nil {
		return input, nil, err
	}
	input, instructions, err := ParseBlock(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.CircuitDefinition{
		Name:         name.Text,
		Parameters:   parameters,
		Qubits:       qubits,
		Instructions: instructions,
	}, nil
}

func parseDefframe(input []Token) ([]Token, quil.Instruction, error) {
	input, identifier, err := parseFrameIdentifier(input)
	if err != nil {
		return input, nil, err
	}
	input, _, err = expect(input, TokColon, "':'")
	if err != nil {
		return input, nil, err
	}
	input, attributes, err := parseFrameAttributes(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.FrameDefinition{Identifier: identifier, Attributes: attributes}, nil
}

// parseFrameAttributes parses one or more indented 'NAME: value' lines.
// At least one attribute line is required; once a newline plus indentation
// has been consumed, a malformed line is a committed failure.
func parseFrameAttributes(input []Token) ([]Token, *treemap.Map, error) {
	attributes := treemap.NewWithStringComparator()
	rest, err := parseFrameAttributeLine(input, attributes)
	if err != nil {
		return input, nil, err
	}
	input = rest
	for {
		rest, err = parseFrameAttributeLine(input, attributes)
		if err != nil {
			if isCommitted(err) {
				return rest, nil, err
			}
			return input, attributes, nil
		}
		input = rest
	}
}

func parseFrameAttributeLine(input []Token, attributes *treemap.Map) ([]Token, error) {
	rest, _, err := expect(input, TokNewLine, "a newline")
	if err != nil {
		return input, err
	}
	rest, _, err = expect(rest, TokIndentation, "indentation")
	if err != nil {
		return input, err
	}
	// Committed to a block line from here on.
	rest, name, err := expect(rest, TokIdentifier, "an attribute name")
	if err != nil {
		return rest, commit(err)
	}
	rest, _, err = expect(rest, TokColon, "':'")
	if err != nil {
		return rest, commit(err)
	}
	if len(rest) > 0 && rest[0].Type == TokString {
		attributes.Put(name.Text, quil.AttributeString(rest[0].Text))
		return rest[1:], nil
	}
	rest, expression, err := ParseExpression(rest)
	if err != nil {
		return rest, commit(err)
	}
	attributes.Put(name.Text, quil.AttributeExpression{Expression: expression})
	return rest, nil
}

func parseDefwaveform(input []Token) ([]Token, quil.Instruction, error) {
	input, name, err := expect(input, TokIdentifier, "a waveform name")
	if err != nil {
		return input, nil, err
	}
	input, parameters, err := parseVariableList(input)
	if err != nil {
		return input, nil, err
	}
	input, _, err = expect(input, TokColon, "':'")
	if err != nil {
		return input, nil, err
	}
	input, _, err = expect(input, TokNewLine, "a newline")
	if err != nil {
		return input, nil, err
	}
	input, _, err = expect(input, TokIndentation, "indentation")
	if err != nil {
		return input, nil, err
	}
	var entries []quil.Expression
	for {
		rest, entry, err := ParseExpression(input)
		if err != nil {
			return rest, nil, commit(err)
		}
		input = rest
		entries = append(entries, entry)
		if len(input) > 0 && input[0].Type == TokComma {
			input = input[1:]
			continue
		}
		break
	}
	return input, quil.WaveformDefinition{Name: name.Text, Parameters: parameters, Entries: entries}, nil
}

func parseDelay(input []Token) ([]Token, quil.Instruction, error) {
	input, qubits, err := parseQubits(input)
	if err != nil {
		return input, nil, err
	}
	input, duration, err := ParseExpression(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.Delay{Qubits: qubits, Duration: duration}, nil
}

func parseHalt(input []Token) ([]Token, quil.Instruction, error) {
	return input, quil.Halt{}, nil
}

func parseJump(input []Token) ([]Token, quil.Instruction, error) {
	input, target, err := expect(input, TokLabel, "a jump target")
	if err != nil {
		return input, nil, err
	}
	return input, quil.Jump{Target: target.Text}, nil
}

func parseJumpWhen(input []Token) ([]Token, quil.Instruction, error) {
	input, target, err := expect(input, TokLabel, "a jump target")
	if err != nil {
		return input, nil, err
	}
	input, condition, err := parseMemoryReference(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.JumpWhen{Target: target.Text, Condition: condition}, nil
}

func parseJumpUnless(input []Token) ([]Token, quil.Instruction, error) {
	input, target, err := expect(input, TokLabel, "a jump target")
	if err != nil {
		return input, nil, err
	}
	input, condition, err := parseMemoryReference(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.JumpUnless{Target: target.Text, Condition: condition}, nil
}

func parseLabel(input []Token) ([]Token, quil.Instruction, error) {
	input, name, err := expect(input, TokLabel, "a label name")
	if err != nil {
		return input, nil, err
	}
	return input, quil.Label{Name: name.Text}, nil
}

func parseLoad(input []Token) ([]Token, quil.Instruction, error) {
	input, destination, err := parseMemoryReference(input)
	if err != nil {
		return input, nil, err
	}
	input, source, err := expect(input, TokIdentifier, "a source region")
	if err != nil {
		return input, nil, err
	}
	input, offset, err := parseMemoryReference(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.Load{Destination: destination, Source: source.Text, Offset: offset}, nil
}

func parseStore(input []Token) ([]Token, quil.Instruction, error) {
	input, destination, err := expect(input, TokIdentifier, "a destination region")
	if err != nil {
		return input, nil, err
	}
	input, offset, err := parseMemoryReference(input)
	if err != nil {
		return input, nil, err
	}
	input, source, err := parseArithmeticOperand(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.Store{Destination: destination.Text, Offset: offset, Source: source}, nil
}

func parseMeasurement(input []Token) ([]Token, quil.Instruction, error) {
	input, qubit, err := parseQubit(input)
	if err != nil {
		return input, nil, err
	}
	measurement := quil.Measurement{Qubit: qubit}
	if len(input) > 0 && input[0].Type == TokIdentifier {
		rest, target, err := parseMemoryReference(input)
		if err != nil {
			return rest, nil, err
		}
		measurement.Target = &target
		input = rest
	}
	return input, measurement, nil
}

func parseMove(input []Token) ([]Token, quil.Instruction, error) {
	input, destination, err := parseArithmeticOperand(input)
	if err != nil {
		return input, nil, err
	}
	input, source, err := parseArithmeticOperand(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.Move{Destination: destination, Source: source}, nil
}

func parseExchange(input []Token) ([]Token, quil.Instruction, error) {
	input, left, err := parseArithmeticOperand(input)
	if err != nil {
		return input, nil, err
	}
	input, right, err := parseArithmeticOperand(input)
	if err != nil {
		return input, nil, err
	}
	return input, quil.Exchange{Left: left, Right: right}, nil
}

func parsePragma(input []Token) ([]Token, quil.Instruction, error) {
	input, name, err := expect(input, TokIdentifier, "a pragma name")
	if err != nil {
		return input, nil, err
	}
	pragma := quil.Pragma{Name: name.Text}
	for len(input) > 0 {
		switch input[0].Type {
		case TokIdentifier:
			pragma.Arguments = append(pragma.Arguments, input[0].Text)
		case TokInteger:
			pragma.Arguments = append(pragma.Arguments, input[0].String())
		default:
			if input[0].Type == TokString {
				pragma.Data = input[0].Text
				input = input[1:]
			}
			return input, pragma, nil
		}
		input = input[1:]
	}
	return input, pragma, nil
}
