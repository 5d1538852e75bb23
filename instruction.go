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

package quil

import (
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
)

// MemoryReference identifies a classical memory cell by region name and index.
// Source text without an explicit index refers to index 0.
type MemoryReference struct {
	Name  string
	Index uint64
}

func (m MemoryReference) String() string {
	return m.Name + "[" + strconv.FormatUint(m.Index, 10) + "]"
}

// Instruction is a single Quil instruction. It is a closed union: the only
// implementations are the variant types in this package.
type Instruction interface {
	String() string
	isInstruction()
}

// --- Qubits ----------------------------------------------------------------

// Qubit designates a gate target, either by fixed hardware index or by a
// formal name inside a calibration or circuit definition.
type Qubit interface {
	String() string
	isQubit()
}

// FixedQubit is a qubit designated by hardware index.
type FixedQubit uint64

// VariableQubit is a formal qubit name, written '%name' in source text.
type VariableQubit string

func (q FixedQubit) String() string    { return strconv.FormatUint(uint64(q), 10) }
func (q VariableQubit) String() string { return "%" + string(q) }

func (FixedQubit) isQubit()    {}
func (VariableQubit) isQubit() {}

func formatQubits(qubits []Qubit) string {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = q.String()
	}
	return strings.Join(parts, " ")
}

// --- Operand types ---------------------------------------------------------

// ArithmeticOperand is the source or destination of an arithmetic-style
// instruction: an integer literal, a real literal, or a memory reference.
type ArithmeticOperand interface {
	String() string
	isOperand()
}

// LiteralInteger is an integer operand.
type LiteralInteger int64

// LiteralReal is a real-valued operand.
type LiteralReal float64

func (o LiteralInteger) String() string { return strconv.FormatInt(int64(o), 10) }
func (o LiteralReal) String() string    { return formatFloat(float64(o)) }
func (m MemoryReference) isOperand()    {}
func (LiteralInteger) isOperand()       {}
func (LiteralReal) isOperand()          {}

// GateModifier modifies a gate invocation.
type GateModifier int8

// The gate modifiers.
const (
	Controlled GateModifier = iota
	Dagger
	Forked
)

func (m GateModifier) String() string {
	switch m {
	case Controlled:
		return "CONTROLLED"
	case Dagger:
		return "DAGGER"
	default:
		return "FORKED"
	}
}

// FrameIdentifier names a signal-routing frame together with the qubits it
// is associated with.
type FrameIdentifier struct {
	Name   string
	Qubits []Qubit
}

func (f FrameIdentifier) String() string {
	return formatQubits(f.Qubits) + " \"" + f.Name + "\""
}

// WaveformInvocation references a waveform by name with named parameters.
// Parameters are kept in a treemap so rendering is deterministic.
type WaveformInvocation struct {
	Name       string
	Parameters *treemap.Map // parameter name -> Expression
}

func (w WaveformInvocation) String() string {
	if w.Parameters == nil || w.Parameters.Size() == 0 {
		return w.Name
	}
	var b strings.Builder
	b.WriteString(w.Name)
	b.WriteString("(")
	first := true
	w.Parameters.Each(func(key interface{}, value interface{}) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(key.(string))
		b.WriteString(": ")
		b.WriteString(value.(Expression).String())
	})
	b.WriteString(")")
	return b.String()
}

// AttributeValue is the value of a frame attribute: a string or an expression.
type AttributeValue interface {
	String() string
	isAttributeValue()
}

// AttributeString is a quoted-string frame attribute value.
type AttributeString string

// AttributeExpression is an expression-valued frame attribute value.
type AttributeExpression struct {
	Expression Expression
}

func (a AttributeString) String() string      { return "\"" + string(a) + "\"" }
func (a AttributeExpression) String() string  { return a.Expression.String() }
func (AttributeString) isAttributeValue()     {}
func (AttributeExpression) isAttributeValue() {}

// ScalarType is the element type of a declared memory region.
type ScalarType int8

// The scalar types of declared memory.
const (
	Bit ScalarType = iota
	Integer
	Octet
	RealType
)

func (t ScalarType) String() string {
	switch t {
	case Bit:
		return "BIT"
	case Integer:
		return "INTEGER"
	case Octet:
		return "OCTET"
	default:
		return "REAL"
	}
}

// Vector is the shape of a declared memory region.
type Vector struct {
	DataType ScalarType
	Length   uint64
}

func (v Vector) String() string {
	return v.DataType.String() + "[" + strconv.FormatUint(v.Length, 10) + "]"
}

// --- Instruction variants --------------------------------------------------

// Gate invokes a (possibly modified, possibly parametrized) gate on qubits.
type Gate struct {
	Name       string
	Parameters []Expression
	Qubits     []Qubit
	Modifiers  []GateModifier
}

// ArithmeticOperator selects the operation of an Arithmetic instruction.
type ArithmeticOperator int8

// The arithmetic operations.
const (
	Add ArithmeticOperator = iota
	Subtract
	Multiply
	Divide
)

func (op ArithmeticOperator) String() string {
	switch op {
	case Add:
		return "ADD"
	case Subtract:
		return "SUB"
	case Multiply:
		return "MUL"
	default:
		return "DIV"
	}
}

// Arithmetic applies an in-place binary operation to a memory cell.
type Arithmetic struct {
	Operator    ArithmeticOperator
	Destination ArithmeticOperand
	Source      ArithmeticOperand
}

// Capture reads from a frame into memory, filtered by a waveform.
type Capture struct {
	Frame           FrameIdentifier
	Waveform        WaveformInvocation
	MemoryReference MemoryReference
}

// RawCapture reads raw IQ values from a frame into memory for a duration.
type RawCapture struct {
	Frame           FrameIdentifier
	Duration        Expression
	MemoryReference MemoryReference
}

// Pulse plays a waveform on a frame.
type Pulse struct {
	Blocking bool
	Frame    FrameIdentifier
	Waveform WaveformInvocation
}

// Move copies a value into a memory cell.
type Move struct {
	Destination ArithmeticOperand
	Source      ArithmeticOperand
}

// Exchange swaps the contents of two memory cells.
type Exchange struct {
	Left  ArithmeticOperand
	Right ArithmeticOperand
}

// Load reads from a memory region at a dynamic offset.
type Load struct {
	Destination MemoryReference
	Source      string
	Offset      MemoryReference
}

// Store writes into a memory region at a dynamic offset.
type Store struct {
	Destination string
	Offset      MemoryReference
	Source      ArithmeticOperand
}

// Jump transfers control to a label unconditionally.
type Jump struct {
	Target string
}

// JumpWhen transfers control to a label if the condition cell is non-zero.
type JumpWhen struct {
	Target    string
	Condition MemoryReference
}

// JumpUnless transfers control to a label if the condition cell is zero.
type JumpUnless struct {
	Target    string
	Condition MemoryReference
}

// Label marks a jump target.
type Label struct {
	Name string
}

// Halt stops execution.
type Halt struct{}

// Declaration declares a classical memory region.
type Declaration struct {
	Name    string
	Size    Vector
	Sharing string // empty when the region is not shared
}

// Measurement measures a qubit, optionally into a memory cell.
type Measurement struct {
	Qubit  Qubit
	Target *MemoryReference // nil to discard the result
}

// Delay idles the given qubits for a duration.
type Delay struct {
	Qubits   []Qubit
	Duration Expression
}

// Pragma passes free-form directives through to later toolchain stages.
type Pragma struct {
	Name      string
	Arguments []string
	Data      string // trailing quoted string, empty when absent
}

// Calibration defines a parametrized instruction template for a gate.
type Calibration struct {
	Name         string
	Parameters   []Expression
	Qubits       []Qubit
	Modifiers    []GateModifier
	Instructions []Instruction
}

// CircuitDefinition defines a named circuit over formal qubits.
type CircuitDefinition struct {
	Name         string
	Parameters   []string
	Qubits       []Qubit
	Instructions []Instruction
}

// FrameDefinition associates attributes with a frame. Attributes are kept in
// a treemap so rendering is deterministic.
type FrameDefinition struct {
	Identifier FrameIdentifier
	Attributes *treemap.Map // attribute name -> AttributeValue
}

// WaveformDefinition defines a named waveform as a vector of expressions.
type WaveformDefinition struct {
	Name       string
	Parameters []string
	Entries    []Expression
}

func (Gate) isInstruction()               {}
func (Arithmetic) isInstruction()         {}
func (Capture) isInstruction()            {}
func (RawCapture) isInstruction()         {}
func (Pulse) isInstruction()              {}
func (Move) isInstruction()               {}
func (Exchange) isInstruction()           {}
func (Load) isInstruction()               {}
func (Store) isInstruction()              {}
func (Jump) isInstruction()               {}
func (JumpWhen) isInstruction()           {}
func (JumpUnless) isInstruction()         {}
func (Label) isInstruction()              {}
func (Halt) isInstruction()               {}
func (Declaration) isInstruction()        {}
func (Measurement) isInstruction()        {}
func (Delay) isInstruction()              {}
func (Pragma) isInstruction()             {}
func (Calibration) isInstruction()        {}
func (CircuitDefinition) isInstruction()  {}
func (FrameDefinition) isInstruction()    {}
func (WaveformDefinition) isInstruction() {}

// --- Canonical rendering ---------------------------------------------------

func formatParameters(parameters []Expression) string {
	if len(parameters) == 0 {
		return ""
	}
	parts := make([]string, len(parameters))
	for i, p := range parameters {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatInstructions(instructions []Instruction) string {
	var b strings.Builder
	for _, inst := range instructions {
		b.WriteString("\n\t")
		b.WriteString(inst.String())
	}
	return b.String()
}

func (g Gate) String() string {
	var b strings.Builder
	for _, m := range g.Modifiers {
		b.WriteString(m.String())
		b.WriteString(" ")
	}
	b.WriteString(g.Name)
	b.WriteString(formatParameters(g.Parameters))
	b.WriteString(" ")
	b.WriteString(formatQubits(g.Qubits))
	return b.String()
}

func (a Arithmetic) String() string {
	return a.Operator.String() + " " + a.Destination.String() + " " + a.Source.String()
}

func (c Capture) String() string {
	return "CAPTURE " + c.Frame.String() + " " + c.Waveform.String() + " " + c.MemoryReference.String()
}

func (r RawCapture) String() string {
	return "RAW-CAPTURE " + r.Frame.String() + " " + r.Duration.String() + " " + r.MemoryReference.String()
}

func (p Pulse) String() string {
	prefix := ""
	if !p.Blocking {
		prefix = "NONBLOCKING "
	}
	return prefix + "PULSE " + p.Frame.String() + " " + p.Waveform.String()
}

func (m Move) String() string {
	return "MOVE " + m.Destination.String() + " " + m.Source.String()
}

func (e Exchange) String() string {
	return "EXCHANGE " + e.Left.String() + " " + e.Right.String()
}

func (l Load) String() string {
	return "LOAD " + l.Destination.String() + " " + l.Source + " " + l.Offset.String()
}

func (s Store) String() string {
	return "STORE " + s.Destination + " " + s.Offset.String() + " " + s.Source.String()
}

func (j Jump) String() string {
	return "JUMP @" + j.Target
}

func (j JumpWhen) String() string {
	return "JUMP-WHEN @" + j.Target + " " + j.Condition.String()
}

func (j JumpUnless) String() string {
	return "JUMP-UNLESS @" + j.Target + " " + j.Condition.String()
}

func (l Label) String() string {
	return "LABEL @" + l.Name
}

func (Halt) String() string {
	return "HALT"
}

func (d Declaration) String() string {
	s := "DECLARE " + d.Name + " " + d.Size.String()
	if d.Sharing != "" {
		s += " SHARING " + d.Sharing
	}
	return s
}

func (m Measurement) String() string {
	if m.Target == nil {
		return "MEASURE " + m.Qubit.String()
	}
	return "MEASURE " + m.Qubit.String() + " " + m.Target.String()
}

func (d Delay) String() string {
	return "DELAY " + formatQubits(d.Qubits) + " " + d.Duration.String()
}

func (p Pragma) String() string {
	var b strings.Builder
	b.WriteString("PRAGMA ")
	b.WriteString(p.Name)
	for _, a := range p.Arguments {
		b.WriteString(" ")
		b.WriteString(a)
	}
	if p.Data != "" {
		b.WriteString(" \"")
		b.WriteString(p.Data)
		b.WriteString("\"")
	}
	return b.String()
}

func (c Calibration) String() string {
	var b strings.Builder
	b.WriteString("DEFCAL ")
	for _, m := range c.Modifiers {
		b.WriteString(m.String())
		b.WriteString(" ")
	}
	b.WriteString(c.Name)
	b.WriteString(formatParameters(c.Parameters))
	b.WriteString(" ")
	b.WriteString(formatQubits(c.Qubits))
	b.WriteString(":")
	b.WriteString(formatInstructions(c.Instructions))
	return b.String()
}

func (c CircuitDefinition) String() string {
	var b strings.Builder
	b.WriteString("DEFCIRCUIT ")
	b.WriteString(c.Name)
	if len(c.Parameters) > 0 {
		b.WriteString("(")
		for i, p := range c.Parameters {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("%")
			b.WriteString(p)
		}
		b.WriteString(")")
	}
	// Placeholder qubits render bare in a circuit header.
	for _, q := range c.Qubits {
		b.WriteString(" ")
		if v, ok := q.(VariableQubit); ok {
			b.WriteString(string(v))
		} else {
			b.WriteString(q.String())
		}
	}
	b.WriteString(":")
	b.WriteString(formatInstructions(c.Instructions))
	return b.String()
}

func (f FrameDefinition) String() string {
	var b strings.Builder
	b.WriteString("DEFFRAME ")
	b.WriteString(f.Identifier.String())
	b.WriteString(":")
	if f.Attributes != nil {
		f.Attributes.Each(func(key interface{}, value interface{}) {
			b.WriteString("\n\t")
			b.WriteString(key.(string))
			b.WriteString(": ")
			b.WriteString(value.(AttributeValue).String())
		})
	}
	return b.String()
}

func (w WaveformDefinition) String() string {
	var b strings.Builder
	b.WriteString("DEFWAVEFORM ")
	b.WriteString(w.Name)
	if len(w.Parameters) > 0 {
		b.WriteString("(")
		for i, p := range w.Parameters {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("%")
			b.WriteString(p)
		}
		b.WriteString(")")
	}
	b.WriteString(":\n\t")
	for i, e := range w.Entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	return b.String()
}
