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
	"fmt"

	"github.com/google/iris/iql/lexer"
)

// LLk provide the basic lookahead mechanisms required to implement a recursive
// descent LLk parser. It also allows marking a position and rewinding to it,
// which the relaxed matching mode relies on.
type LLk struct {
	k     int
	input string
	tkns  []lexer.Token
	idx   int
}

// NewLLk creates a LLk structure for the given string to parse and the
// indicated k lookahead.
func NewLLk(input string, k int) *LLk {
	return &LLk{
		k:     k,
		input: input,
		tkns:  lexer.Lex(input),
	}
}

// Input returns the text being parsed.
func (l *LLk) Input() string {
	return l.input
}

// at returns the token at the provided index. Indexes beyond the input
// return the last token, which is either ItemEOF or ItemError.
func (l *LLk) at(i int) *lexer.Token {
	if i >= len(l.tkns) {
		i = len(l.tkns) - 1
	}
	return &l.tkns[i]
}

// Current returns the current token being processed.
func (l *LLk) Current() *lexer.Token {
	return l.at(l.idx)
}

// Peek returns the token for the k look ahead. It will return nil and failed
// fail with an error if the provided k is bigger than the declared look ahead
// on creation.
func (l *LLk) Peek(k int) (*lexer.Token, error) {
	if k > l.k {
		return nil, fmt.Errorf("grammar.LLk: cannot look ahead %d beyond defined %d", k, l.k)
	}
	if k <= 0 {
		return nil, fmt.Errorf("grammar.LLk: invalid look ahead value %d", k)
	}
	return l.at(l.idx + k), nil
}

// CanAccept returns true if the provided token matches the current on being
// processed, false otherwise.
func (l *LLk) CanAccept(tt lexer.TokenType) bool {
	return l.Current().Type == tt
}

// Consume will consume the current token and move to the next one if it matches
// the provided token, false otherwise. The final token is never moved past.
func (l *LLk) Consume(tt lexer.TokenType) bool {
	if l.Current().Type != tt {
		return false
	}
	if l.idx < len(l.tkns)-1 {
		l.idx++
	}
	return true
}

// Mark returns the current position so it can be restored later.
func (l *LLk) Mark() int {
	return l.idx
}

// Reset rewinds to a position returned by Mark.
func (l *LLk) Reset(m int) {
	l.idx = m
}

// Since returns the tokens consumed after the provided mark.
func (l *LLk) Since(m int) []lexer.Token {
	return l.tkns[m:l.idx]
}
