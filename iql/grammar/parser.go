// Copyright 2015 Google Inc. All rights reserved.
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

package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/iris/iql/lexer"
	"github.com/google/iris/iql/semantic"
)

// Element are the main components that define a derivation rule.
type Element struct {
	isSymbol  bool
	symbol    semantic.Symbol
	tokenType lexer.TokenType
}

// NewSymbol creates a new element from a symbol.
func NewSymbol(s semantic.Symbol) Element {
	return Element{
		isSymbol: true,
		symbol:   s,
	}
}

// NewTokenType creates a new element from a token.
func NewTokenType(t lexer.TokenType) Element {
	return Element{
		isSymbol:  false,
		tokenType: t,
	}
}

// IsSymbol returns true if the element boxes a symbol.
func (e Element) IsSymbol() bool {
	return e.isSymbol
}

// Symbol returns the symbol box for the given element.
func (e Element) Symbol() semantic.Symbol {
	return e.symbol
}

// TokenType returns the value of the token box for the given element.
func (e Element) TokenType() lexer.TokenType {
	return e.tokenType
}

// Clause contains on clause of the derivation rule.
type Clause struct {
	Elements         []Element
	ProcessStart     semantic.ClauseHook
	ProcessEnd       semantic.ClauseHook
	ProcessedElement semantic.ElementHook
}

// Grammar contains the left factory LLk grammar to be parsed. All provided
// grammars *must* have the "START" symbol to initialte the parsing of input
// text.
type Grammar map[semantic.Symbol][]*Clause

// Parser implements a LLk recursive decend parser for left factorized grammars.
type Parser struct {
	grammar *Grammar
}

// NewParser creates a new recursive decend parser for a left factorized
// grammar.
func NewParser(grammar *Grammar) (*Parser, error) {
	if _, ok := (*grammar)["START"]; !ok {
		return nil, errors.New("grammar.NewParser: grammar has no START symbol")
	}
	// Check that the grammar is left factorized.
	for s, clauses := range *grammar {
		for i, cls := range clauses {
			if len(cls.Elements) == 0 {
				if i != len(clauses)-1 {
					return nil, fmt.Errorf("grammar.NewParser: empty clause derivation must be the last one for %s", s)
				}
				continue
			}
			if cls.Elements[0].isSymbol {
				return nil, fmt.Errorf("grammar.NewParser: not left factored grammar in %s", s)
			}
		}
	}
	return &Parser{
		grammar: grammar,
	}, nil
}

// Parse attempts to run the parser for the given input. The whole input must
// form a statement. Failures are reported as *SyntaxError unless a hook fails
// with a *semantic.InvariantError, which is returned untouched.
func (p *Parser) Parse(llk *LLk, st *semantic.Statement) error {
	b, err := p.consume(llk, st, "START")
	if err != nil {
		return err
	}
	if !b {
		return fmt.Errorf("Parser.Parse: inconsistent parser, no error found, and no tokens were consumed")
	}
	return nil
}

// consume attempts to consume all input tokens for the provided symbols given
// the parser grammar. Hooks are skipped if no statement is provided.
func (p *Parser) consume(llk *LLk, st *semantic.Statement, s semantic.Symbol) (bool, error) {
	// An error token can never be consumed, not even by an empty clause.
	if cur := llk.Current(); cur.Type == lexer.ItemError {
		return false, lexError(llk, cur)
	}
	for _, clause := range (*p.grammar)[s] {
		if len(clause.Elements) == 0 {
			return true, nil
		}
		elem := clause.Elements[0]
		if elem.isSymbol {
			return false, fmt.Errorf("Parser.consume: not left factored grammar in %v", clause)
		}
		if llk.CanAccept(elem.TokenType()) {
			return p.expect(llk, st, s, clause)
		}
	}
	return false, p.unexpected(llk, s)
}

// expect given the input, symbol, and clause attemps to satisfy all elements.
func (p *Parser) expect(llk *LLk, st *semantic.Statement, s semantic.Symbol, cls *Clause) (bool, error) {
	if st != nil && cls.ProcessStart != nil {
		hook, err := cls.ProcessStart(st, s)
		if err != nil {
			return false, p.hookError(llk, llk.Current().Pos, err)
		}
		cls.ProcessStart = hook
	}
	for _, elem := range cls.Elements {
		var ce semantic.ConsumedElement
		if elem.isSymbol {
			if b, err := p.consume(llk, st, elem.Symbol()); !b {
				return b, err
			}
			ce = semantic.NewConsumedSymbol(elem.Symbol())
		} else {
			tkn := *llk.Current()
			if !llk.Consume(elem.TokenType()) {
				return false, p.mismatch(llk, elem.TokenType())
			}
			ce = semantic.NewConsumedToken(&tkn)
		}
		if st != nil && cls.ProcessedElement != nil {
			hook, err := cls.ProcessedElement(st, ce)
			if err != nil {
				pos := llk.Current().Pos
				if !ce.IsSymbol() {
					pos = ce.Token().Pos
				}
				return false, p.hookError(llk, pos, err)
			}
			cls.ProcessedElement = hook
		}
	}
	if st != nil && cls.ProcessEnd != nil {
		hook, err := cls.ProcessEnd(st, s)
		if err != nil {
			return false, p.hookError(llk, llk.Current().Pos, err)
		}
		cls.ProcessEnd = hook
	}
	return true, nil
}

// Match runs the parser in relaxed mode. It walks the START clause selected by
// the first token, consuming its elements one at a time. Each element either
// matches completely or the walk stops and rewinds to the first token of the
// failed element. Hooks are never invoked.
func (p *Parser) Match(llk *LLk) *Prefix {
	pfx := &Prefix{Input: llk.Input()}
	var cls *Clause
	for _, c := range (*p.grammar)["START"] {
		if len(c.Elements) > 0 && !c.Elements[0].isSymbol && llk.CanAccept(c.Elements[0].TokenType()) {
			cls = c
			break
		}
	}
	if cls != nil {
		for _, elem := range cls.Elements {
			m := llk.Mark()
			ok := false
			if elem.isSymbol {
				ok, _ = p.consume(llk, nil, elem.Symbol())
			} else {
				ok = llk.Consume(elem.TokenType())
			}
			if !ok {
				llk.Reset(m)
				break
			}
			if tkns := llk.Since(m); len(tkns) > 0 {
				pfx.Parts = append(pfx.Parts, Part{
					Symbol: elem.symbol,
					Tokens: append([]lexer.Token{}, tkns...),
				})
			}
		}
	}
	pfx.Remainder = llk.Input()[llk.Current().Pos:]
	return pfx
}

// Prefix is the result of a relaxed match.
type Prefix struct {
	// Input is the text that was matched.
	Input string
	// Parts lists the matched top level elements that consumed input.
	Parts []Part
	// Remainder is the input left after the last matched part, starting at the
	// first unconsumed token.
	Remainder string
}

// Last returns the last matched part, or nil if nothing matched.
func (p *Prefix) Last() *Part {
	if len(p.Parts) == 0 {
		return nil
	}
	return &p.Parts[len(p.Parts)-1]
}

// Part is a top level element of a statement matched in relaxed mode. Symbol
// is empty when the element is a single token, like the statement keyword.
type Part struct {
	Symbol semantic.Symbol
	Tokens []lexer.Token
}

// unexpected builds the error for a token that no clause of the symbol can
// start with.
func (p *Parser) unexpected(llk *LLk, s semantic.Symbol) error {
	cur := llk.Current()
	if cur.Type == lexer.ItemError {
		return lexError(llk, cur)
	}
	var want []string
	for _, c := range (*p.grammar)[s] {
		if len(c.Elements) > 0 {
			want = append(want, c.Elements[0].TokenType().String())
		}
	}
	return &SyntaxError{
		Kind:    GrammarError,
		Offset:  cur.Pos,
		Context: llk.Input(),
		Msg:     fmt.Sprintf("unexpected %s; expected %s", describe(cur), strings.Join(want, " or ")),
	}
}

// mismatch builds the error for a token that does not match the one a clause
// requires.
func (p *Parser) mismatch(llk *LLk, want lexer.TokenType) error {
	cur := llk.Current()
	if cur.Type == lexer.ItemError {
		return lexError(llk, cur)
	}
	return &SyntaxError{
		Kind:    GrammarError,
		Offset:  cur.Pos,
		Context: llk.Input(),
		Msg:     fmt.Sprintf("unexpected %s; expected %s", describe(cur), want),
	}
}

// hookError reports hook failures as grammar errors at the provided offset.
// Invariant violations are returned untouched.
func (p *Parser) hookError(llk *LLk, pos int, err error) error {
	var ie *semantic.InvariantError
	if errors.As(err, &ie) {
		return err
	}
	return &SyntaxError{
		Kind:    GrammarError,
		Offset:  pos,
		Context: llk.Input(),
		Msg:     err.Error(),
	}
}

// lexError turns an ItemError token into a syntax error pointing at the
// offending character.
func lexError(llk *LLk, tkn *lexer.Token) error {
	msg := tkn.ErrorMessage
	if i := strings.Index(msg, "] "); i >= 0 {
		msg = msg[i+2:]
	}
	return &SyntaxError{
		Kind:    LexError,
		Offset:  tkn.End(),
		Context: llk.Input(),
		Msg:     msg,
	}
}

// describe returns a readable version of a token for error messages.
func describe(tkn *lexer.Token) string {
	if tkn.Type == lexer.ItemEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", tkn.Type, tkn.Text)
}
