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
	"errors"
	"math"
	"math/cmplx"
)

// ErrIncomplete reports that an expression could not be fully reduced to a
// number because free variables or unresolved memory addresses remain.
var ErrIncomplete = errors.New("expression evaluation incomplete")

// EvaluationEnvironment maps variable names to their complex values.
type EvaluationEnvironment map[string]complex128

// PatchValues maps a memory-region name to the ordered contents of its cells,
// used to resolve Address expressions during parametrized evaluation.
type PatchValues map[string][]float64

func calculateInfix(left complex128, operator InfixOperator, right complex128) complex128 {
	switch operator {
	case Caret:
		return cmplx.Pow(left, right)
	case Plus:
		return left + right
	case Minus:
		return left - right
	case Slash:
		return left / right
	default:
		return left * right
	}
}

func calculateFunction(function ExpressionFunction, argument complex128) complex128 {
	switch function {
	case Sine:
		return cmplx.Sin(argument)
	case Cis:
		return cmplx.Cos(argument) + 1i*cmplx.Sin(argument)
	case Cosine:
		return cmplx.Cos(argument)
	case Exponent:
		return cmplx.Exp(argument)
	default:
		return cmplx.Sqrt(argument)
	}
}

// Evaluate simplifies an expression as far as the values in environment and
// patch allow, returning a new expression. It never fails: sub-expressions
// which cannot be reduced to a number are rebuilt symbolically around their
// partially reduced operands. Either mapping may be nil.
func Evaluate(e Expression, environment EvaluationEnvironment, patch PatchValues) Expression {
	switch expr := e.(type) {
	case FunctionCall:
		evaluated := Evaluate(expr.Expression, environment, patch)
		switch operand := evaluated.(type) {
		case Number:
			return Number{Value: calculateFunction(expr.Function, operand.Value)}
		case PiConstant:
			return Number{Value: calculateFunction(expr.Function, complex(math.Pi, 0))}
		default:
			return FunctionCall{Function: expr.Function, Expression: evaluated}
		}
	case Infix:
		left := Evaluate(expr.Left, environment, patch)
		right := Evaluate(expr.Right, environment, patch)
		// The fold requires a literal Number on at least one side; pi combines
		// with a number but two bare pi operands stay symbolic.
		switch l := left.(type) {
		case Number:
			switch r := right.(type) {
			case Number:
				return Number{Value: calculateInfix(l.Value, expr.Operator, r.Value)}
			case PiConstant:
				return Number{Value: calculateInfix(l.Value, expr.Operator, complex(math.Pi, 0))}
			}
		case PiConstant:
			if r, ok := right.(Number); ok {
				return Number{Value: calculateInfix(complex(math.Pi, 0), expr.Operator, r.Value)}
			}
		}
		return Infix{Left: left, Operator: expr.Operator, Right: right}
	case Prefix:
		evaluated := Evaluate(expr.Expression, environment, patch)
		if expr.Operator == PrefixPlus {
			return evaluated
		}
		if v, ok := numericValue(evaluated); ok {
			return Number{Value: -v}
		}
		return Prefix{Operator: PrefixMinus, Expression: evaluated}
	case Variable:
		if value, ok := environment[expr.Name]; ok {
			return Number{Value: value}
		}
		return expr
	case Address:
		if values, ok := patch[expr.Reference.Name]; ok {
			if expr.Reference.Index < uint64(len(values)) {
				return Real(values[expr.Reference.Index])
			}
		}
		return expr
	default:
		// PiConstant and Number evaluate to themselves.
		return e
	}
}

// numericValue extracts the complex value of a fully reduced expression,
// substituting pi for PiConstant.
func numericValue(e Expression) (complex128, bool) {
	switch expr := e.(type) {
	case Number:
		return expr.Value, true
	case PiConstant:
		return complex(math.Pi, 0), true
	}
	return 0, false
}

// EvaluateToComplex evaluates an expression, expecting that it may be fully
// reduced to a single complex number. If free variables or addresses remain
// unresolved, it fails with ErrIncomplete.
func EvaluateToComplex(e Expression, environment EvaluationEnvironment, patch PatchValues) (complex128, error) {
	result := Evaluate(e, environment, patch)
	if value, ok := numericValue(result); ok {
		return value, nil
	}
	tracer().Debugf("expression %s not reducible to a number", result)
	return 0, ErrIncomplete
}
