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

// Package semantic contains the semantic analysis required to have a
// semantically valid parser. It includes the statement model the parser
// hooks populate, and the compiler that turns a where clause into the query
// specification consumed by the record stores.
package semantic

import (
	"fmt"
	"strings"

	"github.com/google/iris/iql/lexer"
	"github.com/google/iris/iql/literal"
)

// Symbol of the LLk left factored grammar.
type Symbol string

// String returns a string representation of the symbol
func (s Symbol) String() string {
	return string(s)
}

// StatementType describes the type of statement being represented.
type StatementType int8

const (
	// Find statement.
	Find StatementType = iota
	// Count statement.
	Count
	// Tag statement.
	Tag
)

// String provides a readable version of the StatementType.
func (t StatementType) String() string {
	switch t {
	case Find:
		return "FIND"
	case Count:
		return "COUNT"
	case Tag:
		return "TAG"
	default:
		return "UNKNOWN"
	}
}

// OP represents the comparison operators of a where clause.
type OP int8

const (
	// EQ represents the exact match operator =.
	EQ OP = iota
	// DEQ represents the substring match operator ==.
	DEQ
	// LT represents the less than operator <.
	LT
	// LTE represents the less or equal operator <=.
	LTE
	// GT represents the greater than operator >.
	GT
	// GTE represents the greater or equal operator >=.
	GTE
	// IN represents the membership operator in.
	IN
)

// String returns a readable version of the operator.
func (o OP) String() string {
	switch o {
	case EQ:
		return "="
	case DEQ:
		return "=="
	case LT:
		return "<"
	case LTE:
		return "<="
	case GT:
		return ">"
	case GTE:
		return ">="
	case IN:
		return "in"
	default:
		return "UNKNOWN"
	}
}

// opByToken maps comparison tokens to their operator.
var opByToken = map[lexer.TokenType]OP{
	lexer.ItemEqual:    EQ,
	lexer.ItemDblEqual: DEQ,
	lexer.ItemLT:       LT,
	lexer.ItemLTE:      LTE,
	lexer.ItemGT:       GT,
	lexer.ItemGTE:      GTE,
	lexer.ItemIn:       IN,
}

// Connector represents the logical connector that follows a comparison.
type Connector int8

const (
	// None indicates that the comparison is the last one of the clause.
	None Connector = iota
	// And connects the comparison with the next one in the same group.
	And
	// Or starts a new group after the comparison.
	Or
)

// String returns a readable version of the connector.
func (c Connector) String() string {
	switch c {
	case None:
		return ""
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return "UNKNOWN"
	}
}

// Comparison represents a field, operator, value triple of a where clause.
type Comparison struct {
	Field string
	OP    OP
	Value literal.Literal
}

// String returns the IQL representation of the comparison.
func (c *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Field, c.OP, c.Value)
}

// Condition is a comparison together with the connector that follows it in
// the where clause.
type Condition struct {
	Comparison *Comparison
	Connector  Connector
}

// Statement contains all the semantic information extract from the parsing
type Statement struct {
	sType           StatementType
	limitSet        bool
	limit           int64
	fields          []string
	targets         []string
	whereExpression []ConsumedElement
	conditions      []*Condition
	spec            *Spec
}

// BindType sets the type of a statement.
func (s *Statement) BindType(st StatementType) {
	s.sType = st
}

// Type returns the type of the statement.
func (s *Statement) Type() StatementType {
	return s.sType
}

// IsLimitSet returns true if the find statement requested a record count.
func (s *Statement) IsLimitSet() bool {
	return s.limitSet
}

// Limit returns the record count requested by a find statement.
func (s *Statement) Limit() int64 {
	return s.limit
}

// AddField adds a field to the projection. Duplicates are kept.
func (s *Statement) AddField(f string) {
	s.fields = append(s.fields, f)
}

// Fields returns the projected fields in the order they were listed.
func (s *Statement) Fields() []string {
	return s.fields
}

// AddTarget adds a tag to apply by a tag statement.
func (s *Statement) AddTarget(t string) {
	s.targets = append(s.targets, t)
}

// Targets returns the tags to apply by a tag statement.
func (s *Statement) Targets() []string {
	return s.targets
}

// Conditions returns the compiled where clause conditions in source order.
func (s *Statement) Conditions() []*Condition {
	return s.conditions
}

// Spec returns the compiled query specification. Statements without a where
// clause return an empty specification matching every record.
func (s *Statement) Spec() *Spec {
	if s.spec == nil {
		return NewSpec()
	}
	return s.spec
}

// String returns a readable version of the statement.
func (s *Statement) String() string {
	b := []string{strings.ToLower(s.sType.String())}
	if s.limitSet {
		b = append(b, fmt.Sprint(s.limit))
	}
	if len(s.fields) > 0 {
		b = append(b, "("+strings.Join(s.fields, ", ")+")")
	}
	if len(s.targets) > 0 {
		var ts []string
		for _, t := range s.targets {
			ts = append(ts, fmt.Sprintf("%q", t))
		}
		if len(ts) == 1 {
			b = append(b, ts[0])
		} else {
			b = append(b, "("+strings.Join(ts, ", ")+")")
		}
	}
	if len(s.conditions) > 0 {
		b = append(b, "where")
		for _, c := range s.conditions {
			b = append(b, c.Comparison.String())
			if c.Connector != None {
				b = append(b, c.Connector.String())
			}
		}
	}
	return strings.Join(b, " ")
}

// ConsumedElement groups either a consumed symbol or a consumed token.
type ConsumedElement struct {
	isSymbol bool
	symbol   Symbol
	token    *lexer.Token
}

// NewConsumedSymbol creates a new consumed element from a symbol.
func NewConsumedSymbol(s Symbol) ConsumedElement {
	return ConsumedElement{
		isSymbol: true,
		symbol:   s,
	}
}

// NewConsumedToken creates a new consumed element from a token.
func NewConsumedToken(tkn *lexer.Token) ConsumedElement {
	return ConsumedElement{
		isSymbol: false,
		token:    tkn,
	}
}

// IsSymbol returns true if the consumed element is a symbol, false otherwise.
func (c ConsumedElement) IsSymbol() bool {
	return c.isSymbol
}

// Symbol returns the boxed symbol.
func (c ConsumedElement) Symbol() Symbol {
	return c.symbol
}

// Token returns the boxed token.
func (c ConsumedElement) Token() *lexer.Token {
	return c.token
}

// InvariantError reports a where clause token sequence the grammar should
// never have accepted. It signals a defect in the parser, not in the input.
type InvariantError struct {
	Msg string
}

// Error returns the message of the invariant violation.
func (e *InvariantError) Error() string {
	return "semantic: compiler invariant violated: " + e.Msg
}
