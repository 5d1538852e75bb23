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
	"encoding/binary"
	"hash"
	"hash/fnv"
	"io"
	"math"
	"strconv"
)

// Expression is a symbolic or numeric expression tree over complex numbers,
// classical memory references and free variables. It is a closed union: the
// only implementations are the variant types in this package. Expressions are
// immutable once built; evaluation produces new trees.
type Expression interface {
	String() string
	hashInto(h hash.Hash64)
}

// Address references a classical memory cell.
type Address struct {
	Reference MemoryReference
}

// FunctionCall applies one of the Quil-defined functions to an operand.
type FunctionCall struct {
	Function   ExpressionFunction
	Expression Expression
}

// Infix combines two operands with a binary operator.
type Infix struct {
	Left     Expression
	Operator InfixOperator
	Right    Expression
}

// Number is a complex double-precision literal.
type Number struct {
	Value complex128
}

// PiConstant is the named constant 'pi'.
type PiConstant struct{}

// Prefix applies a unary operator to an operand.
type Prefix struct {
	Operator   PrefixOperator
	Expression Expression
}

// Variable is a free variable reference, written '%name' in source text.
type Variable struct {
	Name string
}

// Real builds a Number with the given real part and no imaginary part.
func Real(value float64) Number {
	return Number{Value: complex(value, 0)}
}

// Imaginary builds a Number with the given imaginary part and no real part.
func Imaginary(value float64) Number {
	return Number{Value: complex(0, value)}
}

// --- Hashing ---------------------------------------------------------------

// Hash computes a 64-bit hash over an expression. Operand order of the
// commutative operators '+' and '*' does not influence the result: the two
// operands are folded in increasing order of their own hash values. A zero
// real or imaginary component of a Number contributes nothing, mirroring the
// zero-suppressed canonical rendering.
//
// Equal expressions always hash equally: Equal(a, b) implies Hash(a) == Hash(b).
func Hash(e Expression) uint64 {
	h := fnv.New64a()
	e.hashInto(h)
	return h.Sum64()
}

func hashString(h hash.Hash64, s string) {
	io.WriteString(h, s)
}

func hashFloatBits(h hash.Hash64, f float64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
	h.Write(buf[:])
}

func hashUint64(h hash.Hash64, u uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	h.Write(buf[:])
}

func (a Address) hashInto(h hash.Hash64) {
	hashString(h, "Address")
	hashString(h, a.Reference.Name)
	hashUint64(h, a.Reference.Index)
}

func (f FunctionCall) hashInto(h hash.Hash64) {
	hashString(h, "FunctionCall")
	hashString(h, f.Function.String())
	f.Expression.hashInto(h)
}

func (i Infix) hashInto(h hash.Hash64) {
	hashString(h, "Infix")
	hashString(h, i.Operator.String())
	if i.Operator.Commutative() {
		first, second := i.Left, i.Right
		if Hash(second) < Hash(first) {
			first, second = second, first
		}
		first.hashInto(h)
		second.hashInto(h)
		return
	}
	i.Left.hashInto(h)
	i.Right.hashInto(h)
}

func (n Number) hashInto(h hash.Hash64) {
	hashString(h, "Number")
	// Zero components are skipped, akin to formatComplex.
	if re := real(n.Value); math.Abs(re) > 0 {
		hashFloatBits(h, re)
	}
	if im := imag(n.Value); math.Abs(im) > 0 {
		hashFloatBits(h, im)
	}
}

func (PiConstant) hashInto(h hash.Hash64) {
	hashString(h, "PiConstant")
}

func (p Prefix) hashInto(h hash.Hash64) {
	hashString(h, "Prefix")
	hashString(h, p.Operator.String())
	p.Expression.hashInto(h)
}

func (v Variable) hashInto(h hash.Hash64) {
	hashString(h, "Variable")
	hashString(h, v.Name)
}

// --- Equality --------------------------------------------------------------

// Equal reports structural, commutativity-aware equality: swapping the
// operands of '+' or '*' does not change equality, while '-', '/' and '^'
// keep their operand order significant.
func Equal(a, b Expression) bool {
	switch x := a.(type) {
	case Address:
		y, ok := b.(Address)
		return ok && x.Reference == y.Reference
	case FunctionCall:
		y, ok := b.(FunctionCall)
		return ok && x.Function == y.Function && Equal(x.Expression, y.Expression)
	case Infix:
		y, ok := b.(Infix)
		if !ok || x.Operator != y.Operator {
			return false
		}
		if Equal(x.Left, y.Left) && Equal(x.Right, y.Right) {
			return true
		}
		if x.Operator.Commutative() {
			return Equal(x.Left, y.Right) && Equal(x.Right, y.Left)
		}
		return false
	case Number:
		y, ok := b.(Number)
		return ok && x.Value == y.Value
	case PiConstant:
		_, ok := b.(PiConstant)
		return ok
	case Prefix:
		y, ok := b.(Prefix)
		return ok && x.Operator == y.Operator && Equal(x.Expression, y.Expression)
	case Variable:
		y, ok := b.(Variable)
		return ok && x.Name == y.Name
	}
	return false
}

// --- Canonical rendering ---------------------------------------------------

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatComplex renders a complex value, omitting the real or imaginary part
// when zero. A pure real renders as its real part, a pure imaginary as
// '<im>i', and a mixed value as '<re>+<im>i' or '<re>-<im>i'.
func formatComplex(value complex128) string {
	re, im := real(value), imag(value)
	switch {
	case im == 0:
		return formatFloat(re)
	case re == 0:
		return formatFloat(im) + "i"
	case im > 0:
		return formatFloat(re) + "+" + formatFloat(im) + "i"
	default:
		return formatFloat(re) + formatFloat(im) + "i"
	}
}

func (a Address) String() string {
	return a.Reference.String()
}

func (f FunctionCall) String() string {
	return f.Function.String() + "(" + f.Expression.String() + ")"
}

func (i Infix) String() string {
	return "(" + i.Left.String() + i.Operator.String() + i.Right.String() + ")"
}

func (n Number) String() string {
	return formatComplex(n.Value)
}

func (PiConstant) String() string {
	return "pi"
}

func (p Prefix) String() string {
	return "(" + p.Operator.String() + p.Expression.String() + ")"
}

func (v Variable) String() string {
	return "%" + v.Name
}

// --- Functions and operators -----------------------------------------------

// ExpressionFunction is one of the functions defined within Quil syntax.
type ExpressionFunction int8

// The functions defined within Quil syntax.
const (
	Cis ExpressionFunction = iota
	Cosine
	Exponent
	Sine
	SquareRoot
)

func (f ExpressionFunction) String() string {
	switch f {
	case Cis:
		return "cis"
	case Cosine:
		return "cos"
	case Exponent:
		return "exp"
	case Sine:
		return "sin"
	case SquareRoot:
		return "sqrt"
	}
	return "?"
}

// PrefixOperator is a unary expression operator.
type PrefixOperator int8

// The unary expression operators.
const (
	PrefixPlus PrefixOperator = iota
	PrefixMinus
)

func (op PrefixOperator) String() string {
	if op == PrefixPlus {
		return "+"
	}
	return "-"
}

// InfixOperator is a binary expression operator.
type InfixOperator int8

// The binary expression operators.
const (
	Caret InfixOperator = iota
	Plus
	Minus
	Slash
	Star
)

// Commutative reports whether operand order is insignificant for the operator.
func (op InfixOperator) Commutative() bool {
	return op == Plus || op == Star
}

func (op InfixOperator) String() string {
	switch op {
	case Caret:
		return "^"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Slash:
		return "/"
	case Star:
		return "*"
	}
	return "?"
}
