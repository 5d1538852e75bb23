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
	"strconv"

	quil "github.com/jselig-rigetti/quil-rs"
)

// TokenType classifies a lexed token.
type TokenType int8

// The token types produced by the lexer.
const (
	TokCommand TokenType = iota
	TokIdentifier
	TokModifier
	TokNonBlocking
	TokVariable
	TokLabel
	TokString
	TokInteger
	TokFloat
	TokOperator
	TokNewLine
	TokIndentation
	TokSemicolon
	TokColon
	TokComma
	TokLParenthesis
	TokRParenthesis
	TokLBracket
	TokRBracket
)

// Token is a single lexical unit of Quil source text.
type Token struct {
	Type     TokenType
	Text     string  // identifier, variable, label, string contents, or operator lexeme
	Int      uint64  // value of an integer literal
	Float    float64 // value of a float literal
	Command  Command
	Modifier quil.GateModifier
}

func (t Token) String() string {
	switch t.Type {
	case TokCommand:
		return t.Command.String()
	case TokIdentifier:
		return t.Text
	case TokModifier:
		return t.Modifier.String()
	case TokNonBlocking:
		return "NONBLOCKING"
	case TokVariable:
		return "%" + t.Text
	case TokLabel:
		return "@" + t.Text
	case TokString:
		return strconv.Quote(t.Text)
	case TokInteger:
		return strconv.FormatUint(t.Int, 10)
	case TokFloat:
		return strconv.FormatFloat(t.Float, 'g', -1, 64)
	case TokOperator:
		return t.Text
	case TokNewLine:
		return "<newline>"
	case TokIndentation:
		return "<indent>"
	case TokSemicolon:
		return ";"
	case TokColon:
		return ":"
	case TokComma:
		return ","
	case TokLParenthesis:
		return "("
	case TokRParenthesis:
		return ")"
	case TokLBracket:
		return "["
	case TokRBracket:
		return "]"
	}
	return "<unknown>"
}

// Command is a reserved Quil instruction keyword. The set is closed: adding
// an instruction means adding a Command and a dispatcher entry.
type Command int8

// The reserved instruction keywords.
const (
	Add Command = iota
	And
	Capture
	Convert
	Declare
	DefCal
	DefCircuit
	DefFrame
	DefGate
	DefWaveform
	Delay
	Div
	Eq
	Exchange
	Fence
	GE
	GT
	Halt
	Include
	Ior
	Jump
	JumpUnless
	JumpWhen
	Label
	LE
	Load
	LT
	Measure
	Move
	Mul
	Neg
	Nop
	Not
	Pragma
	Pulse
	RawCapture
	Reset
	SetFrequency
	SetPhase
	SetScale
	ShiftFrequency
	ShiftPhase
	Store
	Sub
	Wait
	Xor
)

var commandNames = map[Command]string{
	Add:            "ADD",
	And:            "AND",
	Capture:        "CAPTURE",
	Convert:        "CONVERT",
	Declare:        "DECLARE",
	DefCal:         "DEFCAL",
	DefCircuit:     "DEFCIRCUIT",
	DefFrame:       "DEFFRAME",
	DefGate:        "DEFGATE",
	DefWaveform:    "DEFWAVEFORM",
	Delay:          "DELAY",
	Div:            "DIV",
	Eq:             "EQ",
	Exchange:       "EXCHANGE",
	Fence:          "FENCE",
	GE:             "GE",
	GT:             "GT",
	Halt:           "HALT",
	Include:        "INCLUDE",
	Ior:            "IOR",
	Jump:           "JUMP",
	JumpUnless:     "JUMP-UNLESS",
	JumpWhen:       "JUMP-WHEN",
	Label:          "LABEL",
	LE:             "LE",
	Load:           "LOAD",
	LT:             "LT",
	Measure:        "MEASURE",
	Move:           "MOVE",
	Mul:            "MUL",
	Neg:            "NEG",
	Nop:            "NOP",
	Not:            "NOT",
	Pragma:         "PRAGMA",
	Pulse:          "PULSE",
	RawCapture:     "RAW-CAPTURE",
	Reset:          "RESET",
	SetFrequency:   "SET-FREQUENCY",
	SetPhase:       "SET-PHASE",
	SetScale:       "SET-SCALE",
	ShiftFrequency: "SHIFT-FREQUENCY",
	ShiftPhase:     "SHIFT-PHASE",
	Store:          "STORE",
	Sub:            "SUB",
	Wait:           "WAIT",
	Xor:            "XOR",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "<command>"
}
