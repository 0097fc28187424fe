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

package memory

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/iris/iql/semantic"
	"github.com/google/iris/record"
)

// matcher decides if a record satisfies a compiled query spec.
type matcher interface {
	matches(r *record.Record) bool
}

// allOf matches records satisfying every child.
type allOf []matcher

func (a allOf) matches(r *record.Record) bool {
	for _, m := range a {
		if !m.matches(r) {
			return false
		}
	}
	return true
}

// anyOf matches records satisfying at least one child.
type anyOf []matcher

func (a anyOf) matches(r *record.Record) bool {
	for _, m := range a {
		if m.matches(r) {
			return true
		}
	}
	return false
}

// fieldMatcher checks a single field value. List valued fields match if any
// of their elements does.
type fieldMatcher struct {
	field string
	test  func(v interface{}) bool
}

func (f *fieldMatcher) matches(r *record.Record) bool {
	v, ok := r.Value(f.field)
	if !ok {
		return false
	}
	if l, ok := v.([]interface{}); ok {
		for _, e := range l {
			if f.test(e) {
				return true
			}
		}
		return false
	}
	return f.test(v)
}

// compile builds the matcher for the provided spec.
func compile(spec map[string]interface{}) (matcher, error) {
	// Sorted keys keep the evaluation order stable.
	keys := make([]string, 0, len(spec))
	for k := range spec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var all allOf
	for _, k := range keys {
		v := spec[k]
		if k == semantic.OrKey {
			l, ok := v.([]interface{})
			if !ok {
				return nil, fmt.Errorf("value for %s must be a list; got %T", k, v)
			}
			var or anyOf
			for _, e := range l {
				sm, ok := e.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("elements of %s must be maps; got %T", k, e)
				}
				m, err := compile(sm)
				if err != nil {
					return nil, err
				}
				or = append(or, m)
			}
			all = append(all, or)
			continue
		}
		ops, ok := v.(map[string]interface{})
		if !ok {
			want := v
			all = append(all, &fieldMatcher{field: k, test: func(got interface{}) bool { return equal(got, want) }})
			continue
		}
		for _, op := range sortedKeys(ops) {
			test, err := operator(op, ops[op])
			if err != nil {
				return nil, fmt.Errorf("field %q: %v", k, err)
			}
			all = append(all, &fieldMatcher{field: k, test: test})
		}
	}
	return all, nil
}

// operator returns the test for a single operator entry.
func operator(op string, want interface{}) (func(interface{}) bool, error) {
	switch op {
	case semantic.RegexKey:
		s, ok := want.(string)
		if !ok {
			return nil, fmt.Errorf("%s requires a string pattern; got %v", op, want)
		}
		re, err := regexp.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %v", op, s, err)
		}
		return func(got interface{}) bool { return re.MatchString(fmt.Sprint(got)) }, nil
	case semantic.LTKey, semantic.LTEKey, semantic.GTKey, semantic.GTEKey:
		if _, ok := toFloat(want); !ok {
			if _, ok := want.(string); !ok {
				return nil, fmt.Errorf("%s requires a number or a string; got %v", op, want)
			}
		}
		return func(got interface{}) bool {
			c, ok := order(got, want)
			if !ok {
				return false
			}
			switch op {
			case semantic.LTKey:
				return c < 0
			case semantic.LTEKey:
				return c <= 0
			case semantic.GTKey:
				return c > 0
			default:
				return c >= 0
			}
		}, nil
	case semantic.InKey:
		l, ok := want.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s requires a list; got %v", op, want)
		}
		return func(got interface{}) bool {
			for _, w := range l {
				if equal(got, w) {
					return true
				}
			}
			return false
		}, nil
	}
	return nil, fmt.Errorf("unknown operator %s", op)
}

// equal compares numbers by value regardless of their type and everything
// else exactly.
func equal(a, b interface{}) bool {
	fa, oka := toFloat(a)
	fb, okb := toFloat(b)
	if oka && okb {
		return fa == fb
	}
	if oka != okb {
		return false
	}
	switch a.(type) {
	case string, bool:
		return a == b
	}
	return false
}

// order compares numbers numerically and strings lexicographically. It
// returns false if the values cannot be ordered.
func order(a, b interface{}) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	sa, oka := a.(string)
	sb, okb := b.(string)
	if !oka || !okb {
		return 0, false
	}
	return strings.Compare(sa, sb), true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func sortedKeys(m map[string]interface{}) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
