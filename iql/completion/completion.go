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

// Package completion predicts what may follow a partially typed statement.
// It relies on the relaxed mode of the strict grammar to find how much of the
// line is a well formed statement prefix, and on the lenient lexers to
// classify the text left over.
package completion

import (
	"strings"

	"github.com/google/iris/iql/grammar"
	"github.com/google/iris/iql/lexer"
)

// DefaultFields are the fields suggested when no catalog is provided.
var DefaultFields = []string{"iso", "tags", "shutter", "resolution", "x", "y", "fstop", "aperture"}

var (
	statements  = []string{"find", "count", "tag"}
	whereWords  = []string{"where", "WHERE"}
	connectors  = []string{"and", "or"}
	operators   = []string{"=", "==", "<", "<=", ">", ">=", "in"}
	findNext    = []string{"<count>", "<field list>", "WHERE"}
	tagNext     = []string{"<tag>", "<tag list>"}
	valueMarker = []string{"<value>"}
)

// Completer produces completion candidates for a fixed field catalog.
type Completer struct {
	fields []string
	parser *grammar.Parser
}

// New returns a completer for the provided fields. DefaultFields are used if
// none are provided.
func New(fields []string) *Completer {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	p, err := grammar.NewParser(grammar.IQL())
	if err != nil {
		panic(err)
	}
	return &Completer{
		fields: append([]string{}, fields...),
		parser: p,
	}
}

// Complete returns the candidates for the provided line using the default
// field catalog.
func Complete(text, line string) []string {
	return New(nil).Complete(text, line)
}

// Complete returns the candidates that may follow line. text is the word
// being completed; candidates are driven by the whole line. The returned
// slice is nil when nothing can be suggested.
func (c *Completer) Complete(text, line string) []string {
	pfx := c.parser.Match(grammar.NewLLk(line, 1))
	if len(pfx.Parts) == 0 {
		word := strings.ToLower(strings.TrimSpace(line))
		var res []string
		for _, s := range statements {
			if strings.HasPrefix(s, word) {
				res = append(res, s+" ")
			}
		}
		return res
	}
	kw := pfx.Parts[0].Tokens[0]
	last := pfx.Last()
	rem := pfx.Remainder
	switch kw.Type {
	case lexer.ItemFind:
		return c.find(line, last, rem)
	case lexer.ItemCount:
		if len(pfx.Parts) == 1 {
			if rem == "" {
				return []string{"WHERE"}
			}
			return c.where(rem)
		}
		return c.afterWhere(line, last)
	case lexer.ItemTag:
		switch last.Symbol {
		case "":
			if rem == "" {
				return copyOf(tagNext)
			}
			return nil
		case "TAG_TARGET":
			return c.where(rem)
		default:
			return c.afterWhere(line, last)
		}
	}
	return nil
}

func (c *Completer) find(line string, last *grammar.Part, rem string) []string {
	switch last.Symbol {
	case "":
		if strings.TrimSpace(rem) == "" {
			return copyOf(findNext)
		}
		return orElse(c.fieldList(rem), c.where(rem))
	case "RECORD_COUNT":
		if rem == "" {
			if n := len(line); n > 0 && line[n-1] >= '0' && line[n-1] <= '9' {
				return []string{last.Tokens[0].Text + " "}
			}
			return copyOf(findNext[1:])
		}
		return orElse(c.fieldList(rem), c.where(rem))
	case "FIELD_LIST":
		return c.where(rem)
	default:
		return c.afterWhere(line, last)
	}
}

// afterWhere completes a complete where expression still being typed. The
// fragment is whatever follows the where keyword.
func (c *Completer) afterWhere(line string, last *grammar.Part) []string {
	for _, tkn := range last.Tokens {
		if tkn.Type == lexer.ItemWhere {
			return c.whereFragment(line[tkn.End():])
		}
	}
	return nil
}

// fieldList completes a field list in progress. It returns nil if rem is
// not a field list, and every field if the list cannot be extended.
func (c *Completer) fieldList(rem string) []string {
	tkns, ok := lexer.LexFieldList(rem)
	if !ok {
		return nil
	}
	final, ws := lexer.LastMeaningful(tkns)
	switch final.Type {
	case lexer.ItemLPar:
		return c.allFields()
	case lexer.ItemComma:
		if ws {
			return c.allFields()
		}
		return []string{" "}
	case lexer.ItemField:
		if c.known(final.Text) {
			if ws {
				return []string{")"}
			}
			return []string{final.Text + ", "}
		}
		return c.fieldsWithPrefix(final.Text)
	}
	return c.allFields()
}

// where completes the where keyword, or the expression that follows it.
func (c *Completer) where(rem string) []string {
	if rem == "" {
		return []string{"where"}
	}
	if len(rem) > len("where") && strings.EqualFold(rem[:len("where")], "where") && isBlank(rem[len("where")]) {
		return c.whereFragment(rem[len("where"):])
	}
	return withPrefix(whereWords, rem)
}

// whereFragment completes the text typed after the where keyword.
func (c *Completer) whereFragment(text string) []string {
	text = strings.TrimLeft(text, " \t\r\n")
	if text == "" {
		return c.allFields()
	}
	tkns, ok := lexer.LexWhereFragment(text)
	if !ok {
		return nil
	}
	final, ws := lexer.LastMeaningful(tkns)
	switch final.Type {
	case lexer.ItemField:
		if ws {
			return copyOf(operators)
		}
		if prev := previousMeaningful(tkns, final); prev != nil && isLiteral(prev.Type) {
			return withPrefix(connectors, final.Text)
		}
		if c.known(final.Text) {
			return []string{final.Text + " "}
		}
		return c.fieldsWithPrefix(final.Text)
	case lexer.ItemIn:
		if ws {
			return []string{"("}
		}
	case lexer.ItemEqual, lexer.ItemDblEqual, lexer.ItemLT, lexer.ItemLTE, lexer.ItemGT, lexer.ItemGTE:
		if ws {
			return copyOf(valueMarker)
		}
	case lexer.ItemString, lexer.ItemNumber, lexer.ItemList:
		if ws {
			return copyOf(connectors)
		}
	case lexer.ItemAnd, lexer.ItemOr:
		if ws {
			return c.allFields()
		}
	}
	return nil
}

// IsPlaceholder returns true for candidates such as <count> or <value> that
// describe what comes next instead of being text to insert.
func IsPlaceholder(cand string) bool {
	return len(cand) > 2 && strings.HasPrefix(cand, "<") && strings.HasSuffix(cand, ">")
}

// Word returns the trailing word of line the way readline splits it, that is
// the text after the last completion delimiter.
func Word(line string) string {
	i := strings.LastIndexAny(line, delimiters)
	return line[i+1:]
}

const delimiters = " \t\n`~!@#$%^&*()-=+[{]}\\|;:'\",<>/?"

func (c *Completer) known(f string) bool {
	for _, k := range c.fields {
		if k == f {
			return true
		}
	}
	return false
}

func (c *Completer) allFields() []string {
	return copyOf(c.fields)
}

func (c *Completer) fieldsWithPrefix(p string) []string {
	return withPrefix(c.fields, p)
}

func previousMeaningful(tkns []lexer.Token, final *lexer.Token) *lexer.Token {
	for i := len(tkns) - 1; i >= 0; i-- {
		if &tkns[i] != final {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if tkns[j].Type != lexer.ItemWhitespace {
				return &tkns[j]
			}
		}
		break
	}
	return nil
}

func isLiteral(tt lexer.TokenType) bool {
	return tt == lexer.ItemString || tt == lexer.ItemNumber || tt == lexer.ItemList
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func withPrefix(words []string, p string) []string {
	var res []string
	for _, w := range words {
		if strings.HasPrefix(w, p) {
			res = append(res, w)
		}
	}
	return res
}

func copyOf(ss []string) []string {
	return append([]string{}, ss...)
}

func orElse(a, b []string) []string {
	if len(a) > 0 {
		return a
	}
	return b
}
