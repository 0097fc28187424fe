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

// Package iql is the entry point to the iris query language. IQL has three
// statements:
//
//	find [count] [(field, ...)] [where comparison ...]
//	count [where comparison ...]
//	tag "tag" | ("tag", ...) where comparison ...
//
// where each comparison is a field, an operator (=, ==, <, <=, >, >=, in) and
// a literal, joined by and/or.
package iql

import (
	"github.com/google/iris/iql/grammar"
	"github.com/google/iris/iql/semantic"
)

// Parse parses a single statement. Malformed statements are reported as
// *grammar.SyntaxError; defects of the compiler as *semantic.InvariantError.
func Parse(line string) (*semantic.Statement, error) {
	p, err := grammar.NewParser(grammar.SemanticIQL())
	if err != nil {
		return nil, err
	}
	st := &semantic.Statement{}
	if err := p.Parse(grammar.NewLLk(line, 1), st); err != nil {
		return nil, err
	}
	return st, nil
}
