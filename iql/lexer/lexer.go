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

// Package lexer implements the lexer used by the iris query language (IQL).
// The lexer is loosely written after the model described by Rob Pike in his
// presentation "Lexical Scanning in Go". Unlike the presentation, the lexer
// runs synchronously and returns the full token slice. IQL statements
// are single lines typed at a shell.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/iris/iql/literal"
)

// TokenType list all the possible tokens returned by a lexer.
type TokenType int

const (
	// ItemError contains information about an error triggered while scanning.
	ItemError TokenType = iota
	// ItemEOF indicates end of input to be scanned in IQL.
	ItemEOF

	// ItemFind represents the find keyword in IQL.
	ItemFind
	// ItemCount represents the count keyword in IQL.
	ItemCount
	// ItemTag represents the tag keyword in IQL.
	ItemTag
	// ItemWhere represents the where keyword in IQL.
	ItemWhere
	// ItemAnd represents the and keyword in IQL. The & symbol is a synonym.
	ItemAnd
	// ItemOr represents the or keyword in IQL. The | symbol is a synonym.
	ItemOr
	// ItemIn represents the in keyword and comparison operator in IQL.
	ItemIn

	// ItemField represents a record field name in IQL.
	ItemField
	// ItemString represents a quoted text literal in IQL.
	ItemString
	// ItemNumber represents an integer or float literal in IQL.
	ItemNumber
	// ItemList represents a parenthesized list of string and number literals.
	ItemList

	// ItemEqual represents the exact match operator =.
	ItemEqual
	// ItemDblEqual represents the substring match operator ==.
	ItemDblEqual
	// ItemLT represents the less than operator <.
	ItemLT
	// ItemLTE represents the less or equal than operator <=.
	ItemLTE
	// ItemGT represents the greater than operator >.
	ItemGT
	// ItemGTE represents the greater or equal than operator >=.
	ItemGTE

	// ItemLPar representes the left opening parentesis of a field list.
	ItemLPar
	// ItemRPar representes the right closing parentesis of a field list.
	ItemRPar
	// ItemComma represents the field separator , in a field list.
	ItemComma

	// ItemWhitespace represents a run of blanks. Only the partial lexers used
	// for completion emit it.
	ItemWhitespace
	// ItemUnknown represents trailing text the partial lexers cannot classify.
	ItemUnknown
)

func (tt TokenType) String() string {
	switch tt {
	case ItemError:
		return "ERROR"
	case ItemEOF:
		return "EOF"
	case ItemFind:
		return "FIND"
	case ItemCount:
		return "COUNT"
	case ItemTag:
		return "TAG"
	case ItemWhere:
		return "WHERE"
	case ItemAnd:
		return "AND"
	case ItemOr:
		return "OR"
	case ItemIn:
		return "IN"
	case ItemField:
		return "FIELD"
	case ItemString:
		return "STRING"
	case ItemNumber:
		return "NUMBER"
	case ItemList:
		return "LIST"
	case ItemEqual:
		return "EQUAL"
	case ItemDblEqual:
		return "DOUBLE_EQUAL"
	case ItemLT:
		return "LT"
	case ItemLTE:
		return "LTE"
	case ItemGT:
		return "GT"
	case ItemGTE:
		return "GTE"
	case ItemLPar:
		return "LEFT_PARENT"
	case ItemRPar:
		return "RIGHT_PARENT"
	case ItemComma:
		return "COMMA"
	case ItemWhitespace:
		return "WHITESPACE"
	default:
		return "UNKNOWN"
	}
}

// Text constants that represent primitive types.
const (
	eof         = rune(-1)
	leftPar     = rune('(')
	rightPar    = rune(')')
	comma       = rune(',')
	dot         = rune('.')
	minus       = rune('-')
	plus        = rune('+')
	underscore  = rune('_')
	backSlash   = rune('\\')
	quote       = rune('"')
	singleQuote = rune('\'')
	equal       = rune('=')
	lt          = rune('<')
	gt          = rune('>')
	ampersand   = rune('&')
	pipe        = rune('|')
	newLine     = rune('\n')
)

// keywords maps the lower case IQL keywords to their token type.
var keywords = map[string]TokenType{
	"find":  ItemFind,
	"count": ItemCount,
	"tag":   ItemTag,
	"where": ItemWhere,
	"and":   ItemAnd,
	"or":    ItemOr,
	"in":    ItemIn,
}

// Token contains the type and text collected around the captured token.
type Token struct {
	Type TokenType
	Text string
	// Pos is the byte offset of the first character of Text in the input.
	Pos int
	// Value holds the decoded value of ItemString, ItemNumber, and ItemList
	// tokens; it is nil for any other token.
	Value        literal.Literal
	ErrorMessage string
}

// End returns the byte offset right after the token text. For ItemError
// tokens it is the offset of the offending character.
func (t *Token) End() int {
	return t.Pos + len(t.Text)
}

// String returns a pretty printing version of the token.
func (t *Token) String() string {
	if t.Type == ItemError {
		return fmt.Sprintf("%s(%q)@%d %s", t.Type, t.Text, t.Pos, t.ErrorMessage)
	}
	return fmt.Sprintf("%s(%q)@%d", t.Type, t.Text, t.Pos)
}

// stateFn represents the state of the scanner  as a function that returns
// the next state.
type stateFn func(*lexer) stateFn

// lexer holds the state of the scanner.
type lexer struct {
	input  string  // the string being scanned.
	start  int     // start position of this item.
	pos    int     // current position in the input.
	width  int     // width of last rune read from input.
	blanks bool    // emit ItemWhitespace tokens instead of dropping blanks.
	tokens []Token // scanned items.
}

// Lex scans the provided input. The returned tokens always end with either an
// ItemEOF or an ItemError token; scanning stops at the first error.
func Lex(input string) []Token {
	l := &lexer{input: input}
	l.run(lexToken)
	return l.tokens
}

// lexToken represents the initial state for token identification.
func lexToken(l *lexer) stateFn {
	l.skipSpace()
	r := l.peek()
	switch {
	case r == eof:
		l.emit(ItemEOF) // Useful to make EOF a token.
		return nil      // Stop the run loop.
	case isLetter(r):
		return lexWord
	case r == quote || r == singleQuote:
		return lexString
	case startsNumber(r):
		return lexNumber
	case r == leftPar:
		return lexParenthesis
	}
	if lexSymbol(l) {
		return lexToken
	}
	l.emitError(fmt.Sprintf("unexpected character %q", r))
	return nil
}

// lexSymbol lexes single and double character symbols. It returns false if
// the next rune does not start any symbol.
func lexSymbol(l *lexer) bool {
	switch l.next() {
	case rightPar:
		l.emit(ItemRPar)
	case comma:
		l.emit(ItemComma)
	case ampersand:
		l.emit(ItemAnd)
	case pipe:
		l.emit(ItemOr)
	case equal:
		if l.accept(equal) {
			l.emit(ItemDblEqual)
		} else {
			l.emit(ItemEqual)
		}
	case lt:
		if l.accept(equal) {
			l.emit(ItemLTE)
		} else {
			l.emit(ItemLT)
		}
	case gt:
		if l.accept(equal) {
			l.emit(ItemGTE)
		} else {
			l.emit(ItemGT)
		}
	default:
		l.backup()
		return false
	}
	return true
}

// lexWord lexes keywords and field names.
func lexWord(l *lexer) stateFn {
	l.acceptIdentifier()
	if tt, ok := keywords[strings.ToLower(l.input[l.start:l.pos])]; ok {
		l.emit(tt)
	} else {
		l.emit(ItemField)
	}
	return lexToken
}

// lexString lexes a single or double quoted string.
func lexString(l *lexer) stateFn {
	s, msg := l.scanString()
	if msg != "" {
		l.emitError(msg)
		return nil
	}
	l.emitValue(ItemString, literal.NewText(s))
	return lexToken
}

// lexNumber lexes an integer or float.
func lexNumber(l *lexer) stateFn {
	v, msg := l.scanNumber()
	if msg != "" {
		l.emitError(msg)
		return nil
	}
	l.emitValue(ItemNumber, v)
	return lexToken
}

// lexParenthesis decides if the left parenthesis opens a list of literals or
// a field list.
func lexParenthesis(l *lexer) stateFn {
	if l.opensList() {
		return lexList
	}
	l.next()
	l.emit(ItemLPar)
	return lexToken
}

// lexList lexes a whole list of literals as a single token.
func lexList(l *lexer) stateFn {
	v, msg := l.scanList()
	if msg != "" {
		l.emitError(msg)
		return nil
	}
	l.emitValue(ItemList, v)
	return lexToken
}

// scanString consumes a quoted string and returns its unescaped content. On
// failure the returned message is not empty.
func (l *lexer) scanString() (string, string) {
	delim := l.next()
	var b strings.Builder
	for {
		switch r := l.next(); r {
		case eof, newLine:
			if r == newLine {
				l.backup()
			}
			return "", fmt.Sprintf("string is not properly terminated; missing closing %c delimiter", delim)
		case backSlash:
			switch nr := l.next(); nr {
			case delim, backSlash:
				b.WriteRune(nr)
			case eof:
				return "", fmt.Sprintf("string is not properly terminated; missing closing %c delimiter", delim)
			default:
				b.WriteRune(r)
				b.WriteRune(nr)
			}
		case delim:
			return b.String(), ""
		default:
			b.WriteRune(r)
		}
	}
}

// scanNumber consumes an integer or a float. Numbers without decimal point or
// exponent are integers. On failure the returned message is not empty and the
// offending rune has not been consumed.
func (l *lexer) scanNumber() (literal.Literal, string) {
	begin := l.pos
	l.accept(minus)
	digits, isFloat := l.acceptDigits(), false
	if l.accept(dot) {
		isFloat = true
		digits += l.acceptDigits()
	}
	if digits == 0 {
		return nil, "invalid number; missing digits"
	}
	if r := l.peek(); r == 'e' || r == 'E' {
		l.next()
		if !l.accept(plus) {
			l.accept(minus)
		}
		if l.acceptDigits() == 0 {
			return nil, "invalid number; missing exponent digits"
		}
		isFloat = true
	}
	if r := l.peek(); isLetter(r) || r == dot || r == underscore {
		return nil, fmt.Sprintf("invalid character %q in number", r)
	}
	text := l.input[begin:l.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Sprintf("invalid float %s", text)
		}
		return literal.NewFloat64(f), ""
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Sprintf("integer %s out of range", text)
	}
	return literal.NewInt64(i), ""
}

// scanList consumes a parenthesized, comma separated list of strings and
// numbers.
func (l *lexer) scanList() (literal.Literal, string) {
	l.next()
	var es []literal.Literal
	for {
		l.skipBlanks()
		switch r := l.peek(); {
		case r == quote || r == singleQuote:
			s, msg := l.scanString()
			if msg != "" {
				return nil, msg
			}
			es = append(es, literal.NewText(s))
		case startsNumber(r):
			n, msg := l.scanNumber()
			if msg != "" {
				return nil, msg
			}
			es = append(es, n)
		case r == rightPar:
			return nil, "lists cannot end with a trailing comma"
		case r == eof:
			return nil, "list is not properly terminated; missing closing ) delimiter"
		default:
			return nil, "lists may only contain string or number literals"
		}
		l.skipBlanks()
		switch r := l.next(); r {
		case comma:
			continue
		case rightPar:
			lst, err := literal.DefaultBuilder().Build(literal.List, es)
			if err != nil {
				return nil, err.Error()
			}
			return lst, ""
		case eof:
			return nil, "list is not properly terminated; missing closing ) delimiter"
		default:
			l.backup()
			return nil, "list elements must be separated by commas"
		}
	}
}

// opensList returns true if the left parenthesis at the current position is
// followed by a string or a number.
func (l *lexer) opensList() bool {
	rest := strings.TrimLeftFunc(l.input[l.pos+1:], unicode.IsSpace)
	if rest == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return r == quote || r == singleQuote || startsNumber(r)
}

// isLetter returns true for ASCII letters.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isDigit returns true for ASCII digits.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// startsNumber returns true if the rune can open a number.
func startsNumber(r rune) bool {
	return isDigit(r) || r == dot || r == minus
}

// run lexes the input by executing state functions until the state is nil.
func (l *lexer) run(state stateFn) {
	for state != nil {
		state = state(l)
	}
}

// emit appends an item to the scanned tokens.
func (l *lexer) emit(t TokenType) {
	l.emitValue(t, nil)
}

// emitValue appends an item carrying a decoded literal.
func (l *lexer) emitValue(t TokenType, v literal.Literal) {
	l.tokens = append(l.tokens, Token{
		Type:  t,
		Text:  l.input[l.start:l.pos],
		Pos:   l.start,
		Value: v,
	})
	l.start = l.pos
}

// emitError appends an error with proper error messaging.
func (l *lexer) emitError(msg string) {
	l.tokens = append(l.tokens, Token{
		Type:         ItemError,
		Text:         l.input[l.start:l.pos],
		Pos:          l.start,
		ErrorMessage: fmt.Sprintf("[lexer:%d] %s", l.pos, msg),
	})
	l.start = l.pos
}

// skipSpace consumes blanks. They are dropped unless the lexer reports them.
func (l *lexer) skipSpace() {
	l.skipBlanks()
	if l.blanks && l.pos > l.start {
		l.emit(ItemWhitespace)
	}
	l.ignore()
}

// skipBlanks consumes blanks without touching the start of the current item.
func (l *lexer) skipBlanks() {
	for unicode.IsSpace(l.peek()) {
		l.next()
	}
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
}

// backup steps back one rune. Can be called only once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
}

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	var r rune
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// accept consumes the next rune if it's equal to the one provided.
func (l *lexer) accept(r rune) bool {
	if l.next() == r {
		return true
	}
	l.backup()
	return false
}

// acceptDigits consumes a run of digits and returns how many were consumed.
func (l *lexer) acceptDigits() int {
	n := 0
	for isDigit(l.peek()) {
		l.next()
		n++
	}
	return n
}

// acceptIdentifier consumes a letter followed by letters, digits, - and _.
func (l *lexer) acceptIdentifier() {
	l.next()
	for r := l.peek(); isLetter(r) || isDigit(r) || r == minus || r == underscore; r = l.peek() {
		l.next()
	}
}
