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
	"strconv"
	"sync"

	lex "github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	quil "github.com/jselig-rigetti/quil-rs"
)

// commandFromName will be set in initLexer()
var commandFromName map[string]Command

// modifierFromName will be set in initLexer()
var modifierFromName map[string]quil.GateModifier

var quilLexer *lex.Lexer
var quilLexerErr error

var initOnce sync.Once // monitors one-time initialization

func initLexer() {
	initOnce.Do(func() {
		commandFromName = make(map[string]Command, len(commandNames))
		for command, name := range commandNames {
			commandFromName[name] = command
		}
		modifierFromName = map[string]quil.GateModifier{
			"CONTROLLED": quil.Controlled,
			"DAGGER":     quil.Dagger,
			"FORKED":     quil.Forked,
		}
		quilLexer, quilLexerErr = buildLexer()
	})
}

func buildLexer() (*lex.Lexer, error) {
	lexer := lex.NewLexer()
	lexer.Add([]byte(`#[^\n]*`), skip) // comments run to end of line
	lexer.Add([]byte(` `), skip)
	lexer.Add([]byte(`\r?\n`), emit(TokNewLine))
	lexer.Add([]byte(`\t`), emit(TokIndentation))
	lexer.Add([]byte(`    `), emit(TokIndentation))
	lexer.Add([]byte(`;`), emit(TokSemicolon))
	lexer.Add([]byte(`:`), emit(TokColon))
	lexer.Add([]byte(`,`), emit(TokComma))
	lexer.Add([]byte(`\(`), emit(TokLParenthesis))
	lexer.Add([]byte(`\)`), emit(TokRParenthesis))
	lexer.Add([]byte(`\[`), emit(TokLBracket))
	lexer.Add([]byte(`\]`), emit(TokRBracket))
	lexer.Add([]byte(`\+`), operator)
	lexer.Add([]byte(`-`), operator)
	lexer.Add([]byte(`\*`), operator)
	lexer.Add([]byte(`/`), operator)
	lexer.Add([]byte(`\^`), operator)
	lexer.Add([]byte(`"[^"]*"`), stringLiteral)
	lexer.Add([]byte(`[0-9]+`), integerLiteral)
	lexer.Add([]byte(`[0-9]+\.[0-9]*([eE][\+\-]?[0-9]+)?`), floatLiteral)
	lexer.Add([]byte(`\.[0-9]+([eE][\+\-]?[0-9]+)?`), floatLiteral)
	lexer.Add([]byte(`[0-9]+[eE][\+\-]?[0-9]+`), floatLiteral)
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9\-_]*`), identifier)
	lexer.Add([]byte(`%[a-zA-Z_][a-zA-Z0-9\-_]*`), prefixed(TokVariable))
	lexer.Add([]byte(`@[a-zA-Z_][a-zA-Z0-9\-_]*`), prefixed(TokLabel))
	if err := lexer.Compile(); err != nil {
		return nil, err
	}
	return lexer, nil
}

func skip(*lex.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func emit(t TokenType) lex.Action {
	return func(s *lex.Scanner, m *machines.Match) (interface{}, error) {
		return Token{Type: t}, nil
	}
}

func operator(s *lex.Scanner, m *machines.Match) (interface{}, error) {
	return Token{Type: TokOperator, Text: string(m.Bytes)}, nil
}

func stringLiteral(s *lex.Scanner, m *machines.Match) (interface{}, error) {
	text := string(m.Bytes)
	return Token{Type: TokString, Text: text[1 : len(text)-1]}, nil
}

func integerLiteral(s *lex.Scanner, m *machines.Match) (interface{}, error) {
	value, err := strconv.ParseUint(string(m.Bytes), 10, 64)
	if err != nil {
		return nil, err
	}
	return Token{Type: TokInteger, Int: value}, nil
}

func floatLiteral(s *lex.Scanner, m *machines.Match) (interface{}, error) {
	value, err := strconv.ParseFloat(string(m.Bytes), 64)
	if err != nil {
		return nil, err
	}
	return Token{Type: TokFloat, Float: value}, nil
}

// identifier resolves reserved keywords: commands, gate modifiers and the
// NONBLOCKING marker. Everything else is a plain identifier.
func identifier(s *lex.Scanner, m *machines.Match) (interface{}, error) {
	lexeme := string(m.Bytes)
	if command, ok := commandFromName[lexeme]; ok {
		return Token{Type: TokCommand, Command: command}, nil
	}
	if modifier, ok := modifierFromName[lexeme]; ok {
		return Token{Type: TokModifier, Modifier: modifier}, nil
	}
	if lexeme == "NONBLOCKING" {
		return Token{Type: TokNonBlocking}, nil
	}
	return Token{Type: TokIdentifier, Text: lexeme}, nil
}

// prefixed strips a one-character sigil ('%' or '@') from the lexeme.
func prefixed(t TokenType) lex.Action {
	return func(s *lex.Scanner, m *machines.Match) (interface{}, error) {
		return Token{Type: t, Text: string(m.Bytes[1:])}, nil
	}
}

// Lex turns Quil source text into a token sequence. Comments and
// insignificant whitespace are dropped; newlines, indentation and semicolons
// are kept, as the grammars are line-oriented.
func Lex(input string) ([]Token, error) {
	initLexer()
	if quilLexerErr != nil {
		return nil, quilLexerErr
	}
	scanner, err := quilLexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	var tokens []Token
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			return nil, fmt.Errorf("lexing failed: %w", err)
		}
		tokens = append(tokens, tok.(Token))
	}
	tracer().Debugf("lexed %d tokens", len(tokens))
	return tokens, nil
}
