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
	"reflect"
	"testing"

	"github.com/google/iris/iql/lexer"
)

func runElementHook(t *testing.T, hook ElementHook, st *Statement, input string) error {
	t.Helper()
	for _, tkn := range lexer.Lex(input) {
		tkn := tkn
		if tkn.Type == lexer.ItemEOF {
			break
		}
		var err error
		if hook, err = hook(st, NewConsumedToken(&tkn)); err != nil {
			return err
		}
		if hook, err = hook(st, NewConsumedSymbol("FOO")); err != nil {
			return err
		}
	}
	return nil
}

func TestTypeBindingClauseHook(t *testing.T) {
	st := &Statement{}
	for _, want := range []StatementType{Find, Count, Tag} {
		h := TypeBindingClauseHook(want)
		if _, err := h(st, "START"); err != nil {
			t.Errorf("semantic.TypeBindingClauseHook should never fail; got %v", err)
		}
		if got := st.Type(); got != want {
			t.Errorf("semantic.TypeBindingClauseHook should bind %v; got %v", want, got)
		}
	}
}

func TestRecordCountHook(t *testing.T) {
	table := []struct {
		input string
		want  int64
		fail  bool
	}{
		{"find 10", 10, false},
		{"find 0", 0, false},
		{"1.5", 0, true},
		{"-3", 0, true},
		{"iso", 0, true},
	}
	for _, entry := range table {
		st := &Statement{}
		input := entry.input
		if tkns := lexer.Lex(input); tkns[0].Type == lexer.ItemFind {
			input = input[tkns[1].Pos:]
		}
		err := runElementHook(t, RecordCountHook(), st, input)
		if entry.fail {
			if err == nil {
				t.Errorf("semantic.RecordCountHook should have failed for %q", entry.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("semantic.RecordCountHook failed for %q with error %v", entry.input, err)
			continue
		}
		if !st.IsLimitSet() || st.Limit() != entry.want {
			t.Errorf("semantic.RecordCountHook should have set the count to %d; got %v, %d", entry.want, st.IsLimitSet(), st.Limit())
		}
	}
}

func TestFieldAccumulatorHook(t *testing.T) {
	st := &Statement{}
	if err := runElementHook(t, FieldAccumulatorHook(), st, "(iso, tags, iso)"); err != nil {
		t.Fatalf("semantic.FieldAccumulatorHook should never fail; got %v", err)
	}
	if got, want := st.Fields(), []string{"iso", "tags", "iso"}; !reflect.DeepEqual(got, want) {
		t.Errorf("semantic.FieldAccumulatorHook should collect %v; got %v", want, got)
	}
}

func TestTargetAccumulatorHook(t *testing.T) {
	table := []struct {
		input string
		want  []string
		fail  bool
	}{
		{`"italy"`, []string{"italy"}, false},
		{`("italy", 'rome')`, []string{"italy", "rome"}, false},
		{`("italy", 1)`, nil, true},
		{`42`, nil, true},
	}
	for _, entry := range table {
		st := &Statement{}
		err := runElementHook(t, TargetAccumulatorHook(), st, entry.input)
		if entry.fail {
			if err == nil {
				t.Errorf("semantic.TargetAccumulatorHook should have failed for %q", entry.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("semantic.TargetAccumulatorHook failed for %q with error %v", entry.input, err)
		}
		if got := st.Targets(); !reflect.DeepEqual(got, entry.want) {
			t.Errorf("semantic.TargetAccumulatorHook should collect %v; got %v", entry.want, got)
		}
	}
}

func TestWhereExpressionHooks(t *testing.T) {
	st := &Statement{}
	if err := runElementHook(t, WhereExpressionHook(), st, "where iso < 3 or tags = 'a'"); err != nil {
		t.Fatalf("semantic.WhereExpressionHook should never fail; got %v", err)
	}
	if got, want := len(st.whereExpression), 7; got != want {
		t.Errorf("semantic.WhereExpressionHook should collect %d tokens; got %d", want, got)
	}
	if _, err := WhereExpressionBuilderHook()(st, "WHERE"); err != nil {
		t.Fatalf("semantic.WhereExpressionBuilderHook should never fail; got %v", err)
	}
	if got, want := len(st.Conditions()), 2; got != want {
		t.Errorf("semantic.WhereExpressionBuilderHook should build %d conditions; got %d", want, got)
	}
	if got, want := len(st.Spec().Groups()), 2; got != want {
		t.Errorf("semantic.WhereExpressionBuilderHook should build %d groups; got %d", want, got)
	}
}

func TestWhereExpressionBuilderHookInvariant(t *testing.T) {
	st := &Statement{}
	if err := runElementHook(t, WhereExpressionHook(), st, "iso < 3 and"); err != nil {
		t.Fatalf("semantic.WhereExpressionHook should never fail; got %v", err)
	}
	_, err := WhereExpressionBuilderHook()(st, "WHERE")
	if _, ok := err.(*InvariantError); !ok {
		t.Errorf("semantic.WhereExpressionBuilderHook should fail with an invariant error; got %v", err)
	}
}

func TestStatementString(t *testing.T) {
	st := &Statement{}
	st.BindType(Find)
	st.limitSet, st.limit = true, 10
	st.AddField("iso")
	st.AddField("tags")
	if err := runElementHook(t, WhereExpressionHook(), st, "iso < 3 or tags = 'a'"); err != nil {
		t.Fatal(err)
	}
	if _, err := WhereExpressionBuilderHook()(st, "WHERE"); err != nil {
		t.Fatal(err)
	}
	if got, want := st.String(), `find 10 (iso, tags) where iso < 3 or tags = "a"`; got != want {
		t.Errorf("Statement.String should return %q; got %q", want, got)
	}
}
