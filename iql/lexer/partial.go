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

package lexer

import (
	"strings"

	"github.com/google/iris/iql/literal"
)

// LexFieldList scans a possibly incomplete field list such as "(iso, ta".
// Blanks are reported as ItemWhitespace tokens so callers can tell if the
// last token was followed by a space. It returns false if the text does not
// open with a left parenthesis or contains anything other than fields,
// commas, parenthesis and blanks. No ItemEOF token is appended.
func LexFieldList(text string) ([]Token, bool) {
	l := &lexer{input: text, blanks: true}
	if l.peek() != leftPar {
		return nil, false
	}
	l.next()
	l.emit(ItemLPar)
	for {
		l.skipSpace()
		switch r := l.peek(); {
		case r == eof:
			return l.tokens, true
		case isLetter(r):
			l.acceptIdentifier()
			l.emit(ItemField)
		case r == comma:
			l.next()
			l.emit(ItemComma)
		case r == rightPar:
			l.next()
			l.emit(ItemRPar)
		default:
			return nil, false
		}
	}
}

// LexWhereFragment scans a possibly incomplete where expression such as
// "iso > 3 an". The fragment must open with a field name; it may be
// followed by any mixture of fields, operators, literals, connectors and
// blanks. Text that cannot be scanned, including malformed literals, is
// reported as a single trailing ItemUnknown token. Blanks are reported as
// ItemWhitespace tokens. No ItemEOF token is appended.
func LexWhereFragment(text string) ([]Token, bool) {
	l := &lexer{input: text, blanks: true}
	if !isLetter(l.peek()) {
		return nil, false
	}
	l.acceptIdentifier()
	if _, ok := keywords[strings.ToLower(l.input[l.start:l.pos])]; ok {
		return nil, false
	}
	l.emit(ItemField)
	for {
		l.skipSpace()
		r := l.peek()
		switch {
		case r == eof:
			return l.tokens, true
		case isLetter(r):
			l.acceptIdentifier()
			if tt, ok := keywords[strings.ToLower(l.input[l.start:l.pos])]; ok {
				l.emit(tt)
			} else {
				l.emit(ItemField)
			}
			continue
		case r == quote || r == singleQuote:
			if s, msg := l.scanString(); msg == "" {
				l.emitValue(ItemString, literal.NewText(s))
				continue
			}
		case startsNumber(r):
			if v, msg := l.scanNumber(); msg == "" {
				l.emitValue(ItemNumber, v)
				continue
			}
		case r == leftPar:
			if v, msg := l.scanList(); msg == "" {
				l.emitValue(ItemList, v)
				continue
			}
		case r != rightPar && r != comma && lexSymbol(l):
			continue
		}
		l.pos = len(l.input)
		l.emit(ItemUnknown)
		return l.tokens, true
	}
}

// LastMeaningful returns the last token that is not whitespace, and whether
// the token slice ends with whitespace. It returns nil if there are no
// meaningful tokens.
func LastMeaningful(tkns []Token) (*Token, bool) {
	trailing := len(tkns) > 0 && tkns[len(tkns)-1].Type == ItemWhitespace
	for i := len(tkns) - 1; i >= 0; i-- {
		if tkns[i].Type != ItemWhitespace {
			return &tkns[i], trailing
		}
	}
	return nil, trailing
}
