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

package semantic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/iris/iql/lexer"
	"github.com/google/iris/iql/literal"
)

// Query operator keys used inside an Operators object.
const (
	RegexKey = "$regex"
	LTKey    = "$lt"
	LTEKey   = "$lte"
	GTKey    = "$gt"
	GTEKey   = "$gte"
	InKey    = "$in"
	// OrKey holds the list of groups when a specification has more than one.
	OrKey = "$or"
)

var opKeys = map[OP]string{
	LT:  LTKey,
	LTE: LTEKey,
	GT:  GTKey,
	GTE: GTEKey,
	IN:  InKey,
}

// Operators maps operator keys to the values a field is compared against.
type Operators map[string]interface{}

// Group maps field names to either a raw value, for exact matches, or to an
// Operators object. All entries of a group must hold.
type Group map[string]interface{}

// Spec is the compiled query specification. A record matches if it matches
// any of its groups.
type Spec struct {
	groups []Group
}

// NewSpec returns a specification with a single empty group.
func NewSpec() *Spec {
	return &Spec{groups: []Group{{}}}
}

// Groups returns the groups of the specification in source order.
func (s *Spec) Groups() []Group {
	return s.groups
}

// Map returns the specification as plain nested maps. A single group is
// returned as is; several groups are wrapped under the $or key.
func (s *Spec) Map() map[string]interface{} {
	if len(s.groups) == 1 {
		return s.groups[0].toMap()
	}
	var gs []interface{}
	for _, g := range s.groups {
		gs = append(gs, g.toMap())
	}
	return map[string]interface{}{OrKey: gs}
}

// String returns a readable version of the specification.
func (s *Spec) String() string {
	return fmt.Sprint(s.Map())
}

func (g Group) toMap() map[string]interface{} {
	m := make(map[string]interface{}, len(g))
	for k, v := range g {
		if ops, ok := v.(Operators); ok {
			om := make(map[string]interface{}, len(ops))
			for opk, opv := range ops {
				om[opk] = opv
			}
			v = om
		}
		m[k] = v
	}
	return m
}

// CompileWhere turns the tokens collected from a where clause into the list of
// conditions and the query specification they describe. The elements must
// follow the sequence field, operator, literal, optionally followed by a
// connector and another such sequence; symbols are ignored. Any other
// sequence is reported as an *InvariantError.
//
// Comparisons are folded into the current group: = stores the raw value, ==
// stores a substring regular expression, and the remaining operators are
// merged into the field's Operators object. Storing a raw value replaces an
// Operators object and vice versa. An or connector closes the current group
// and starts a new one.
func CompileWhere(ces []ConsumedElement) ([]*Condition, *Spec, error) {
	var tkns []*lexer.Token
	for _, ce := range ces {
		if !ce.IsSymbol() {
			tkns = append(tkns, ce.Token())
		}
	}
	var (
		conds []*Condition
		spec  = NewSpec()
	)
	for i := 0; i < len(tkns); {
		if len(tkns)-i < 3 {
			return nil, nil, &InvariantError{Msg: fmt.Sprintf("incomplete comparison at %v", tkns[i])}
		}
		fTkn, opTkn, vTkn := tkns[i], tkns[i+1], tkns[i+2]
		if fTkn.Type != lexer.ItemField {
			return nil, nil, &InvariantError{Msg: fmt.Sprintf("comparison should start with a field; got %v", fTkn)}
		}
		op, ok := opByToken[opTkn.Type]
		if !ok {
			return nil, nil, &InvariantError{Msg: fmt.Sprintf("expected a comparison operator; got %v", opTkn)}
		}
		if vTkn.Value == nil {
			return nil, nil, &InvariantError{Msg: fmt.Sprintf("expected a literal; got %v", vTkn)}
		}
		cmp := &Comparison{Field: fTkn.Text, OP: op, Value: vTkn.Value}
		if err := spec.add(cmp); err != nil {
			return nil, nil, err
		}
		cond := &Condition{Comparison: cmp}
		conds = append(conds, cond)
		i += 3
		if i == len(tkns) {
			break
		}
		switch tkns[i].Type {
		case lexer.ItemAnd:
			cond.Connector = And
		case lexer.ItemOr:
			cond.Connector = Or
			spec.groups = append(spec.groups, Group{})
		default:
			return nil, nil, &InvariantError{Msg: fmt.Sprintf("expected a connector; got %v", tkns[i])}
		}
		i++
		if i == len(tkns) {
			return nil, nil, &InvariantError{Msg: fmt.Sprintf("dangling connector %v", tkns[i-1])}
		}
	}
	return conds, spec, nil
}

// add folds a comparison into the last group of the specification.
func (s *Spec) add(c *Comparison) error {
	g := s.groups[len(s.groups)-1]
	switch c.OP {
	case EQ:
		g[c.Field] = c.Value.Interface()
		return nil
	case DEQ:
		g[c.Field] = Operators{RegexKey: ".*" + regexText(c.Value.Interface()) + ".*"}
		return nil
	}
	key, ok := opKeys[c.OP]
	if !ok {
		return &InvariantError{Msg: fmt.Sprintf("unknown operator %v", c.OP)}
	}
	v := c.Value.Interface()
	switch c.OP {
	case LT, LTE, GT, GTE:
		if t := c.Value.Type(); t != literal.Int64 && t != literal.Float64 {
			return &InvariantError{Msg: fmt.Sprintf("operator %v requires a number; got %v", c.OP, c.Value)}
		}
	case IN:
		if c.Value.Type() != literal.List {
			v = []interface{}{v}
		}
	}
	ops, ok := g[c.Field].(Operators)
	if !ok {
		ops = Operators{}
		g[c.Field] = ops
	}
	ops[key] = v
	return nil
}

// regexText renders the value of a == comparison. Floats always keep a
// fractional digit, so 1.0 is matched as 1.0 and not as 1.
func regexText(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	txt := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(txt, ".") {
		txt += ".0"
	}
	return txt
}
