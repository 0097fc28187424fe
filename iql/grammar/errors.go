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
	"strings"
	"unicode/utf8"
)

// ErrorKind tells apart the failures of the lexer from the ones of the parser.
type ErrorKind int8

const (
	// LexError indicates that the input could not be tokenized.
	LexError ErrorKind = iota
	// GrammarError indicates that the tokens do not form a valid statement.
	GrammarError
)

// String returns a readable version of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "lexer"
	case GrammarError:
		return "parser"
	default:
		return "UNKNOWN"
	}
}

// SyntaxError is returned when a statement cannot be parsed. Offset is the
// byte offset of the offending character in Context, the full input.
type SyntaxError struct {
	Kind    ErrorKind
	Offset  int
	Context string
	Msg     string
}

// Error returns the error message.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[%s:%d] %s", e.Kind, e.Offset, e.Msg)
}

// Column returns the offset in characters instead of bytes.
func (e *SyntaxError) Column() int {
	off := e.Offset
	if off > len(e.Context) {
		off = len(e.Context)
	}
	return utf8.RuneCountInString(e.Context[:off])
}

// Caret returns the input followed by a line with a caret under the offending
// character.
func (e *SyntaxError) Caret() string {
	return e.Context + "\n" + strings.Repeat(" ", e.Column()) + "^"
}
