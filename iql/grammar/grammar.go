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

// Package grammar implements the grammar parser for the iris query language.
// The parser is implemented as a reusable recursive descent parser for a
// left factorized LL(k) grammar. IQL is an LL(1) grammar however the parser
// is designed to be reusable and help separate the grammar from the parsing
// mechanics.
//
// Besides the strict full match used to run statements, the parser offers a
// relaxed mode that reports the longest well formed prefix of a partially
// typed statement; the shell builds its completions on top of it.
package grammar

import (
	"github.com/google/iris/iql/lexer"
	"github.com/google/iris/iql/semantic"
)

// IQL returns a new copy of the IQL LL(1) grammar without semantic hooks.
func IQL() *Grammar {
	return &Grammar{
		"START": []*Clause{
			{
				Elements: []Element{
					NewTokenType(lexer.ItemFind),
					NewSymbol("RECORD_COUNT"),
					NewSymbol("FIELD_LIST"),
					NewSymbol("OPTIONAL_WHERE"),
					NewTokenType(lexer.ItemEOF),
				},
			},
			{
				Elements: []Element{
					NewTokenType(lexer.ItemCount),
					NewSymbol("OPTIONAL_WHERE"),
					NewTokenType(lexer.ItemEOF),
				},
			},
			{
				Elements: []Element{
					NewTokenType(lexer.ItemTag),
					NewSymbol("TAG_TARGET"),
					NewSymbol("WHERE"),
					NewTokenType(lexer.ItemEOF),
				},
			},
		},
		"RECORD_COUNT": []*Clause{
			{
				Elements: []Element{
					NewTokenType(lexer.ItemNumber),
				},
			},
			{},
		},
		"FIELD_LIST": []*Clause{
			{
				Elements: []Element{
					NewTokenType(lexer.ItemLPar),
					NewTokenType(lexer.ItemField),
					NewSymbol("MORE_FIELDS"),
					NewTokenType(lexer.ItemRPar),
				},
			},
			{},
		},
		"MORE_FIELDS": []*Clause{
			{
				Elements: []Element{
					NewTokenType(lexer.ItemComma),
					NewTokenType(lexer.ItemField),
					NewSymbol("MORE_FIELDS"),
				},
			},
			{},
		},
		"OPTIONAL_WHERE": []*Clause{
			{
				Elements: []Element{
					NewTokenType(lexer.ItemWhere),
					NewSymbol("COMPARISON"),
					NewSymbol("MORE_COMPARISONS"),
				},
			},
			{},
		},
		"WHERE": []*Clause{
			{
				Elements: []Element{
					NewTokenType(lexer.ItemWhere),
					NewSymbol("COMPARISON"),
					NewSymbol("MORE_COMPARISONS"),
				},
			},
		},
		"COMPARISON": []*Clause{
			{
				Elements: []Element{
					NewTokenType(lexer.ItemField),
					NewSymbol("COMPARATOR"),
				},
			},
		},
		"COMPARATOR": []*Clause{
			{
				Elements: []Element{
					NewTokenType(lexer.ItemEqual),
					NewSymbol("SCALAR"),
				},
			},
			{
				Elements: []Element{
					NewTokenType(lexer.ItemDblEqual),
					NewSymbol("SCALAR"),
				},
			},
			{
				Elements: []Element{
					NewTokenType(lexer.ItemLT),
					NewTokenType(lexer.ItemNumber),
				},
			},
			{
				Elements: []Element{
					NewTokenType(lexer.ItemLTE),
					NewTokenType(lexer.ItemNumber),
				},
			},
			{
				Elements: []Element{
					NewTokenType(lexer.ItemGT),
					NewTokenType(lexer.ItemNumber),
				},
			},
			{
				Elements: []Element{
					NewTokenType(lexer.ItemGTE),
					NewTokenType(lexer.ItemNumber),
				},
			},
			{
				Elements: []Element{
					NewTokenType(lexer.ItemIn),
					NewSymbol("IN_OPERAND"),
				},
			},
		},
		"SCALAR": []*Clause{
			{
				Elements: []Element{
					NewTokenType(lexer.ItemString),
				},
			},
			{
				Elements: []Element{
					NewTokenType(lexer.ItemNumber),
				},
			},
		},
		"IN_OPERAND": []*Clause{
			{
				Elements: []Element{
					NewTokenType(lexer.ItemString),
				},
			},
			{
				Elements: []Element{
					NewTokenType(lexer.ItemList),
				},
			},
		},
		"MORE_COMPARISONS": []*Clause{
			{
				Elements: []Element{
					NewTokenType(lexer.ItemAnd),
					NewSymbol("COMPARISON"),
					NewSymbol("MORE_COMPARISONS"),
				},
			},
			{
				Elements: []Element{
					NewTokenType(lexer.ItemOr),
					NewSymbol("COMPARISON"),
					NewSymbol("MORE_COMPARISONS"),
				},
			},
			{},
		},
		"TAG_TARGET": []*Clause{
			{
				Elements: []Element{
					NewTokenType(lexer.ItemString),
				},
			},
			{
				Elements: []Element{
					NewTokenType(lexer.ItemList),
				},
			},
		},
	}
}

// SemanticIQL returns a new copy of the IQL grammar with the hooks that build
// the semantic representation of a statement. Hooks are stored in the
// grammar clauses by the parser, so each parse should use its own copy.
func SemanticIQL() *Grammar {
	g := IQL()

	// Statement types.
	find, count, tag := lexer.ItemFind, lexer.ItemCount, lexer.ItemTag
	setClauseHook(g, []semantic.Symbol{"START"}, &find, semantic.TypeBindingClauseHook(semantic.Find), nil)
	setClauseHook(g, []semantic.Symbol{"START"}, &count, semantic.TypeBindingClauseHook(semantic.Count), nil)
	setClauseHook(g, []semantic.Symbol{"START"}, &tag, semantic.TypeBindingClauseHook(semantic.Tag), nil)

	// Find record count and projection.
	setElementHook(g, []semantic.Symbol{"RECORD_COUNT"}, semantic.RecordCountHook())
	setElementHook(g, []semantic.Symbol{"FIELD_LIST", "MORE_FIELDS"}, semantic.FieldAccumulatorHook())

	// Tag targets.
	setElementHook(g, []semantic.Symbol{"TAG_TARGET"}, semantic.TargetAccumulatorHook())

	// Where clause.
	whereSymbols := []semantic.Symbol{
		"OPTIONAL_WHERE", "WHERE", "COMPARISON", "COMPARATOR", "SCALAR",
		"IN_OPERAND", "MORE_COMPARISONS",
	}
	setElementHook(g, whereSymbols, semantic.WhereExpressionHook())
	setClauseHook(g, []semantic.Symbol{"OPTIONAL_WHERE", "WHERE"}, nil, nil, semantic.WhereExpressionBuilderHook())

	return g
}

// setClauseHook sets the start and end hooks of the non empty clauses of the
// provided symbols. If first is not nil, only clauses starting with that token
// type are modified.
func setClauseHook(g *Grammar, symbols []semantic.Symbol, first *lexer.TokenType, start, end semantic.ClauseHook) {
	for _, s := range symbols {
		for _, cls := range (*g)[s] {
			if len(cls.Elements) == 0 {
				continue
			}
			if first != nil && cls.Elements[0].TokenType() != *first {
				continue
			}
			if start != nil {
				cls.ProcessStart = start
			}
			if end != nil {
				cls.ProcessEnd = end
			}
		}
	}
}

// setElementHook sets the element hook of every clause of the provided
// symbols.
func setElementHook(g *Grammar, symbols []semantic.Symbol, hook semantic.ElementHook) {
	for _, s := range symbols {
		for _, cls := range (*g)[s] {
			cls.ProcessedElement = hook
		}
	}
}
