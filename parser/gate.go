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

// parseGate parses a gate invocation: zero or more modifiers, the gate name,
// an optional parenthesized parameter list, and one or more target qubits.
func parseGate(input []Token) ([]Token, quil.Instruction, error) {
	var modifiers []quil.GateModifier
	for len(input) > 0 && input[0].Type == TokModifier {
		modifiers = append(modifiers, input[0].Modifier)
		input = input[1:]
	}
	input, name, err := expect(input, TokIdentifier, "a gate name")
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
	gate := quil.Gate{
		Name:       name.Text,
		Parameters: parameters,
		Qubits:     qubits,
		Modifiers:  modifiers,
	}
	tracer().Debugf("parsed gate %s", gate)
	return input, gate, nil
}
