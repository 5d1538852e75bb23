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
	"fmt"

	quil "github.com/jselig-rigetti/quil-rs"
)

// Operator binding powers. '^' binds tightest and is right-associative;
// '*' and '/' bind tighter than '+' and '-'; all others are left-associative.
const (
	precedenceLowest = iota
	precedenceSum
	precedenceProduct
	precedencePower
)

func infixOperator(text string) (quil.InfixOperator, int, bool) {
	switch text {
	case "+":
		return quil.Plus, precedenceSum, true
	case "-":
		return quil.Minus, precedenceSum, true
	case "*":
		return quil.Star, precedenceProduct, true
	case "/":
		return quil.Slash, precedenceProduct, true
	case "^":
		return quil.Caret, precedencePower, true
	}
	return 0, 0, false
}

var functionFromName = map[string]quil.ExpressionFunction{
	"cis":  quil.Cis,
	"cos":  quil.Cosine,
	"exp":  quil.Exponent,
	"sin":  quil.Sine,
	"sqrt": quil.SquareRoot,
}

// ParseExpression parses an expression from the head of the token slice and
// returns the unconsumed remainder alongside the tree.
func ParseExpression(input []Token) ([]Token, quil.Expression, error) {
	return parseExpression(input, precedenceLowest)
}

func parseExpression(input []Token, minPrecedence int) ([]Token, quil.Expression, error) {
	input, left, err := parseAtom(input)
	if err != nil {
		return input, nil, err
	}
	for len(input) > 0 && input[0].Type == TokOperator {
		operator, precedence, ok := infixOperator(input[0].Text)
		if !ok || precedence < minPrecedence {
			break
		}
		next := precedence + 1
		if operator == quil.Caret { // right-associative
			next = precedence
		}
		rest, right, err := parseExpression(input[1:], next)
		if err != nil {
			return rest, nil, err
		}
		input = rest
		left = quil.Infix{Left: left, Operator: operator, Right: right}
	}
	return input, left, nil
}

func parseAtom(input []Token) ([]Token, quil.Expression, error) {
	if len(input) == 0 {
		return input, nil, endOfInput("an expression")
	}
	head := input[0]
	switch head.Type {
	case TokOperator:
		var operator quil.PrefixOperator
		switch head.Text {
		case "+":
			operator = quil.PrefixPlus
		case "-":
			operator = quil.PrefixMinus
		default:
			return input, nil, unexpected("an expression", head)
		}
		// A prefix operand binds tighter than any infix except '^'.
		rest, operand, err := parseExpression(input[1:], precedencePower)
		if err != nil {
			return rest, nil, err
		}
		return rest, quil.Prefix{Operator: operator, Expression: operand}, nil
	case TokInteger:
		return parseNumber(input[1:], float64(head.Int))
	case TokFloat:
		return parseNumber(input[1:], head.Float)
	case TokVariable:
		return input[1:], quil.Variable{Name: head.Text}, nil
	case TokLParenthesis:
		rest, inner, err := parseExpression(input[1:], precedenceLowest)
		if err != nil {
			return rest, nil, err
		}
		rest, _, err = expect(rest, TokRParenthesis, "')'")
		if err != nil {
			return rest, nil, err
		}
		return rest, inner, nil
	case TokIdentifier:
		switch head.Text {
		case "pi":
			return input[1:], quil.PiConstant{}, nil
		case "i":
			return input[1:], quil.Imaginary(1), nil
		}
		if function, ok := functionFromName[head.Text]; ok &&
			len(input) > 1 && input[1].Type == TokLParenthesis {
			rest, operand, err := parseExpression(input[2:], precedenceLowest)
			if err != nil {
				return rest, nil, err
			}
			rest, _, err = expect(rest, TokRParenthesis, "')'")
			if err != nil {
				return rest, nil, err
			}
			return rest, quil.FunctionCall{Function: function, Expression: operand}, nil
		}
		rest, reference, err := parseMemoryReference(input)
		if err != nil {
			return rest, nil, err
		}
		return rest, quil.Address{Reference: reference}, nil
	}
	return input, nil, unexpected("an expression", head)
}

// parseNumber finishes a numeric literal, turning it imaginary when the
// literal is immediately followed by the imaginary-unit marker 'i'.
func parseNumber(input []Token, value float64) ([]Token, quil.Expression, error) {
	if len(input) > 0 && input[0].Type == TokIdentifier && input[0].Text == "i" {
		return input[1:], quil.Imaginary(value), nil
	}
	return input, quil.Real(value), nil
}

// ParseExpressionString parses source text into a single expression. Trailing
// tokens after a complete expression are an error.
func ParseExpressionString(text string) (quil.Expression, error) {
	tokens, err := Lex(text)
	if err != nil {
		return nil, err
	}
	remainder, expression, err := ParseExpression(tokens)
	if err != nil {
		return nil, err
	}
	if len(remainder) != 0 {
		return nil, fmt.Errorf("parsed valid expression %s but found %d extra tokens",
			expression, len(remainder))
	}
	return expression, nil
}
