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

package iql

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/iris/iql/grammar"
	"github.com/google/iris/iql/semantic"
)

func TestParse(t *testing.T) {
	table := []struct {
		input    string
		sType    semantic.StatementType
		limitSet bool
		limit    int64
		fields   []string
		targets  []string
		spec     map[string]interface{}
	}{
		{
			input: "find",
			sType: semantic.Find,
			spec:  map[string]interface{}{},
		},
		{
			input:    "find 10 (iso, tags, iso) where iso >= 400 and iso < 800",
			sType:    semantic.Find,
			limitSet: true,
			limit:    10,
			fields:   []string{"iso", "tags", "iso"},
			spec: map[string]interface{}{
				"iso": map[string]interface{}{"$gte": int64(400), "$lt": int64(800)},
			},
		},
		{
			input:    "find 10 (iso, path) where iso <= 400",
			sType:    semantic.Find,
			limitSet: true,
			limit:    10,
			fields:   []string{"iso", "path"},
			spec: map[string]interface{}{
				"iso": map[string]interface{}{"$lte": int64(400)},
			},
		},
		{
			input: "find where iso < 200 and iso >= 100",
			sType: semantic.Find,
			spec: map[string]interface{}{
				"iso": map[string]interface{}{"$lt": int64(200), "$gte": int64(100)},
			},
		},
		{
			input:    `find 10 (iso) where iso > 200 or tags in ("italy")`,
			sType:    semantic.Find,
			limitSet: true,
			limit:    10,
			fields:   []string{"iso"},
			spec: map[string]interface{}{
				"$or": []interface{}{
					map[string]interface{}{"iso": map[string]interface{}{"$gt": int64(200)}},
					map[string]interface{}{"tags": map[string]interface{}{"$in": []interface{}{"italy"}}},
				},
			},
		},
		{
			input: `find where caption = "hello world"`,
			sType: semantic.Find,
			spec:  map[string]interface{}{"caption": "hello world"},
		},
		{
			input: `find where caption == "hello world"`,
			sType: semantic.Find,
			spec: map[string]interface{}{
				"caption": map[string]interface{}{"$regex": ".*hello world.*"},
			},
		},
		{
			input:    "find 0",
			sType:    semantic.Find,
			limitSet: true,
			spec:     map[string]interface{}{},
		},
		{
			input: `count where tags in "italy" or shutter == .5`,
			sType: semantic.Count,
			spec: map[string]interface{}{
				"$or": []interface{}{
					map[string]interface{}{"tags": map[string]interface{}{"$in": []interface{}{"italy"}}},
					map[string]interface{}{"shutter": map[string]interface{}{"$regex": ".*0.5.*"}},
				},
			},
		},
		{
			input:   `tag ("rome", 'italy') where resolution = "1024x768"`,
			sType:   semantic.Tag,
			targets: []string{"rome", "italy"},
			spec:    map[string]interface{}{"resolution": "1024x768"},
		},
		{
			input:   `TAG "best" WHERE x = 1 & y = 2`,
			sType:   semantic.Tag,
			targets: []string{"best"},
			spec:    map[string]interface{}{"x": int64(1), "y": int64(2)},
		},
	}
	for _, entry := range table {
		st, err := Parse(entry.input)
		if err != nil {
			t.Errorf("iql.Parse(%q) should have never failed; got %v", entry.input, err)
			continue
		}
		if got := st.Type(); got != entry.sType {
			t.Errorf("iql.Parse(%q) should return a %v statement; got %v", entry.input, entry.sType, got)
		}
		if st.IsLimitSet() != entry.limitSet || st.Limit() != entry.limit {
			t.Errorf("iql.Parse(%q) should set the record count to %v, %d; got %v, %d", entry.input, entry.limitSet, entry.limit, st.IsLimitSet(), st.Limit())
		}
		if diff := cmp.Diff(entry.fields, st.Fields()); diff != "" {
			t.Errorf("iql.Parse(%q) returned the wrong fields (-want +got):\n%s", entry.input, diff)
		}
		if diff := cmp.Diff(entry.targets, st.Targets()); diff != "" {
			t.Errorf("iql.Parse(%q) returned the wrong targets (-want +got):\n%s", entry.input, diff)
		}
		if diff := cmp.Diff(entry.spec, st.Spec().Map()); diff != "" {
			t.Errorf("iql.Parse(%q) returned the wrong spec (-want +got):\n%s", entry.input, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	table := []string{
		"",
		"find where",
		"find (foo, bar, 1)",
		"tag 'x'",
		"find 1.5",
		`find "unterminated`,
	}
	for _, input := range table {
		st, err := Parse(input)
		var se *grammar.SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("iql.Parse(%q) should fail with a syntax error; got %v, %v", input, st, err)
		}
	}
}

func TestParseIsReentrant(t *testing.T) {
	inputs := []string{
		"find 5 (iso) where iso < 100",
		"count where tags in ('a', 'b')",
		`tag "x" where y == "z"`,
	}
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(in string) {
			defer wg.Done()
			if _, err := Parse(in); err != nil {
				t.Errorf("iql.Parse(%q) should have never failed; got %v", in, err)
			}
		}(inputs[i%len(inputs)])
	}
	wg.Wait()
}
