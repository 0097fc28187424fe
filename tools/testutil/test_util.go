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

// Package testutil implements utility functions used in testing.
package testutil

import (
	"testing"

	"github.com/google/iris/iql"
	"github.com/google/iris/iql/lexer"
	"github.com/google/iris/iql/literal"
	"github.com/google/iris/iql/semantic"
	"github.com/google/iris/record"
)

// MustBuildLiteral builds a Literal out of textLiteral or makes the given test to fail.
func MustBuildLiteral(t *testing.T, textLiteral string) literal.Literal {
	t.Helper()
	tkns := lexer.Lex(textLiteral)
	if len(tkns) != 2 || tkns[0].Value == nil || tkns[1].Type != lexer.ItemEOF {
		t.Fatalf("could not parse text literal %q, got tokens: %v", textLiteral, tkns)
	}
	return tkns[0].Value
}

// MustParseRecord builds a Record out of a JSON line or makes the given test to fail.
func MustParseRecord(t *testing.T, line string) *record.Record {
	t.Helper()
	r, err := record.Parse(line)
	if err != nil {
		t.Fatalf("could not parse record %q, got error: %v", line, err)
	}
	return r
}

// MustParseStatement parses an IQL statement or makes the given test to fail.
func MustParseStatement(t *testing.T, stm string) *semantic.Statement {
	t.Helper()
	st, err := iql.Parse(stm)
	if err != nil {
		t.Fatalf("could not parse statement %q, got error: %v", stm, err)
	}
	return st
}
