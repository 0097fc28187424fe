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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/iris/iql/lexer"
)

// whereElements lexes the provided where expression and returns its tokens as
// consumed elements interleaved with symbols, the way the parser reports them.
func whereElements(t *testing.T, expr string) []ConsumedElement {
	t.Helper()
	var ces []ConsumedElement
	for _, tkn := range lexer.Lex(expr) {
		tkn := tkn
		switch tkn.Type {
		case lexer.ItemEOF:
			return ces
		case lexer.ItemError:
			t.Fatalf("lexer.Lex(%q) failed with %s", expr, tkn.ErrorMessage)
		}
		ces = append(ces, NewConsumedToken(&tkn), NewConsumedSymbol("COMPARISON"))
	}
	return ces
}

func TestCompileWhere(t *testing.T) {
	table := []struct {
		expr string
		want map[string]interface{}
	}{
		{"", map[string]interface{}{}},
		{"iso = 400", map[string]interface{}{"iso": int64(400)}},
		{`tags = "italy"`, map[string]interface{}{"tags": "italy"}},
		{"iso == 40", map[string]interface{}{
			"iso": map[string]interface{}{"$regex": ".*40.*"}}},
		{"fstop == 2.8", map[string]interface{}{
			"fstop": map[string]interface{}{"$regex": ".*2.8.*"}}},
		{"fstop == 1.0", map[string]interface{}{
			"fstop": map[string]interface{}{"$regex": ".*1.0.*"}}},
		{"fstop == 4.50", map[string]interface{}{
			"fstop": map[string]interface{}{"$regex": ".*4.5.*"}}},
		{"x == -2.0", map[string]interface{}{
			"x": map[string]interface{}{"$regex": ".*-2.0.*"}}},
		{"iso < 400 and iso >= 100", map[string]interface{}{
			"iso": map[string]interface{}{"$lt": int64(400), "$gte": int64(100)}}},
		{"iso <= 400 and x > .5", map[string]interface{}{
			"iso": map[string]interface{}{"$lte": int64(400)},
			"x":   map[string]interface{}{"$gt": float64(.5)}}},
		{`iso < 400 or x = "a"`, map[string]interface{}{
			"$or": []interface{}{
				map[string]interface{}{"iso": map[string]interface{}{"$lt": int64(400)}},
				map[string]interface{}{"x": "a"},
			}}},
		{`iso = 1 or iso = 2 and x = 3 or y = 4`, map[string]interface{}{
			"$or": []interface{}{
				map[string]interface{}{"iso": int64(1)},
				map[string]interface{}{"iso": int64(2), "x": int64(3)},
				map[string]interface{}{"y": int64(4)},
			}}},
		{`tags in "italy"`, map[string]interface{}{
			"tags": map[string]interface{}{"$in": []interface{}{"italy"}}}},
		{`tags in ("a", 2)`, map[string]interface{}{
			"tags": map[string]interface{}{"$in": []interface{}{"a", int64(2)}}}},
		{"iso < 3 and iso = 5", map[string]interface{}{"iso": int64(5)}},
		{"iso = 5 and iso < 3", map[string]interface{}{
			"iso": map[string]interface{}{"$lt": int64(3)}}},
		{`name == "ali" and name < 3`, map[string]interface{}{
			"name": map[string]interface{}{"$regex": ".*ali.*", "$lt": int64(3)}}},
		{`name < 3 and name == "ali"`, map[string]interface{}{
			"name": map[string]interface{}{"$regex": ".*ali.*"}}},
	}
	for _, entry := range table {
		_, spec, err := CompileWhere(whereElements(t, entry.expr))
		if err != nil {
			t.Errorf("semantic.CompileWhere(%q) should have never failed; got %v", entry.expr, err)
			continue
		}
		if diff := cmp.Diff(entry.want, spec.Map()); diff != "" {
			t.Errorf("semantic.CompileWhere(%q) returned the wrong spec (-want +got):\n%s", entry.expr, diff)
		}
	}
}

func TestCompileWhereConditions(t *testing.T) {
	conds, spec, err := CompileWhere(whereElements(t, `iso < 400 or tags in ("a") and x == "b"`))
	if err != nil {
		t.Fatalf("semantic.CompileWhere should have never failed; got %v", err)
	}
	want := []struct {
		field string
		op    OP
		value string
		conn  Connector
	}{
		{"iso", LT, "400", Or},
		{"tags", IN, `("a")`, And},
		{"x", DEQ, `"b"`, None},
	}
	if len(conds) != len(want) {
		t.Fatalf("semantic.CompileWhere should return %d conditions; got %v", len(want), conds)
	}
	for i, w := range want {
		c := conds[i]
		if c.Comparison.Field != w.field || c.Comparison.OP != w.op || c.Comparison.Value.String() != w.value || c.Connector != w.conn {
			t.Errorf("semantic.CompileWhere returned condition %d as %v %v; want %+v", i, c.Comparison, c.Connector, w)
		}
	}
	if got := len(spec.Groups()); got != 2 {
		t.Errorf("semantic.CompileWhere should return 2 groups; got %d", got)
	}
}

func TestCompileWhereInvariants(t *testing.T) {
	table := []string{
		"iso <",
		"3 < iso",
		"iso iso 3",
		"iso < 3 and",
		"iso < 3 x = 1",
		"iso < 'a'",
		"iso < (1, 2)",
	}
	for _, expr := range table {
		_, _, err := CompileWhere(whereElements(t, expr))
		var ie *InvariantError
		if !errors.As(err, &ie) {
			t.Errorf("semantic.CompileWhere(%q) should have failed with an invariant error; got %v", expr, err)
		}
	}
}

func TestEmptySpec(t *testing.T) {
	st := &Statement{}
	if diff := cmp.Diff(map[string]interface{}{}, st.Spec().Map()); diff != "" {
		t.Errorf("Statement.Spec should match everything when there is no where clause (-want +got):\n%s", diff)
	}
}
