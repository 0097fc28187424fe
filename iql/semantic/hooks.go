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

	"github.com/google/iris/iql/lexer"
	"github.com/google/iris/iql/literal"
)

// ClauseHook is a function hook for the parser that gets called on clause wide
// events.
type ClauseHook func(*Statement, Symbol) (ClauseHook, error)

// ElementHook is a function hook for the parser that gets called after an
// Element is consumed.
type ElementHook func(*Statement, ConsumedElement) (ElementHook, error)

// Hooks keep no state of their own; everything they collect lives in the
// Statement being parsed.
var (
	recordCountC       ElementHook
	fieldAccumulatorC  ElementHook
	targetAccumulatorC ElementHook
	whereExpressionC   ElementHook
	whereBuilderC      ClauseHook
)

func init() {
	recordCountC = recordCount()
	fieldAccumulatorC = fieldAccumulator()
	targetAccumulatorC = tagTargetAccumulator()
	whereExpressionC = whereExpression()
	whereBuilderC = whereExpressionBuilder()
}

// TypeBindingClauseHook returns a ClauseHook that sets the binding type.
func TypeBindingClauseHook(t StatementType) ClauseHook {
	var hook ClauseHook
	hook = func(s *Statement, _ Symbol) (ClauseHook, error) {
		s.BindType(t)
		return hook, nil
	}
	return hook
}

// RecordCountHook returns the hook that collects the number of records a find
// statement should return.
func RecordCountHook() ElementHook {
	return recordCountC
}

// FieldAccumulatorHook returns the hook that collects the projected fields.
func FieldAccumulatorHook() ElementHook {
	return fieldAccumulatorC
}

// TargetAccumulatorHook returns the hook that collects the tags to apply.
func TargetAccumulatorHook() ElementHook {
	return targetAccumulatorC
}

// WhereExpressionHook returns the hook that collects the tokens that form the
// where clause.
func WhereExpressionHook() ElementHook {
	return whereExpressionC
}

// WhereExpressionBuilderHook returns the hook that compiles the collected
// where clause tokens.
func WhereExpressionBuilderHook() ClauseHook {
	return whereBuilderC
}

// recordCount collects the record count of a find statement.
func recordCount() ElementHook {
	var hook ElementHook
	hook = func(st *Statement, ce ConsumedElement) (ElementHook, error) {
		if ce.IsSymbol() {
			return hook, nil
		}
		if ce.token.Type != lexer.ItemNumber || ce.token.Value == nil {
			return nil, fmt.Errorf("record count requires a number; found %v instead", ce.token)
		}
		n, err := ce.token.Value.Int64()
		if err != nil {
			return nil, fmt.Errorf("record count must be an integer; found %s instead", ce.token.Text)
		}
		if n < 0 {
			return nil, fmt.Errorf("record count cannot be negative; found %d", n)
		}
		st.limitSet, st.limit = true, n
		return hook, nil
	}
	return hook
}

// fieldAccumulator collects the fields listed in a find projection.
func fieldAccumulator() ElementHook {
	var hook ElementHook
	hook = func(st *Statement, ce ConsumedElement) (ElementHook, error) {
		if ce.IsSymbol() || ce.token.Type != lexer.ItemField {
			return hook, nil
		}
		st.AddField(ce.token.Text)
		return hook, nil
	}
	return hook
}

// tagTargetAccumulator collects the tag, or list of tags, of a tag statement.
func tagTargetAccumulator() ElementHook {
	var hook ElementHook
	hook = func(st *Statement, ce ConsumedElement) (ElementHook, error) {
		if ce.IsSymbol() {
			return hook, nil
		}
		tkn := ce.token
		switch tkn.Type {
		case lexer.ItemString:
			t, err := tkn.Value.Text()
			if err != nil {
				return nil, err
			}
			st.AddTarget(t)
		case lexer.ItemList:
			es, err := tkn.Value.List()
			if err != nil {
				return nil, err
			}
			for _, e := range es {
				if e.Type() != literal.Text {
					return nil, fmt.Errorf("tag lists may only contain strings; found %s", e)
				}
				t, _ := e.Text()
				st.AddTarget(t)
			}
		default:
			return nil, fmt.Errorf("tag requires a string or a list of strings; found %v instead", tkn)
		}
		return hook, nil
	}
	return hook
}

// whereExpression collects the tokens that form the where clause.
func whereExpression() ElementHook {
	var hook ElementHook
	hook = func(st *Statement, ce ConsumedElement) (ElementHook, error) {
		if ce.IsSymbol() {
			return hook, nil
		}
		if ce.token.Type != lexer.ItemWhere {
			st.whereExpression = append(st.whereExpression, ce)
		}
		return hook, nil
	}
	return hook
}

// whereExpressionBuilder compiles the collected where clause tokens into the
// statement conditions and query specification.
func whereExpressionBuilder() ClauseHook {
	var hook ClauseHook
	hook = func(st *Statement, _ Symbol) (ClauseHook, error) {
		conds, spec, err := CompileWhere(st.whereExpression)
		if err != nil {
			return nil, err
		}
		st.conditions, st.spec = conds, spec
		return hook, nil
	}
	return hook
}
