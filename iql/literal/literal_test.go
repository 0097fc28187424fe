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

package literal

import (
	"reflect"
	"testing"
)

func TestDefaultBuilder(t *testing.T) {
	table := []struct {
		t    Type
		v    interface{}
		want *literal
	}{
		// Successful cases.
		{Int64, int64(-1), &literal{Int64, interface{}(int64(-1))}},
		{Int64, int64(0), &literal{Int64, interface{}(int64(0))}},
		{Float64, float64(-1), &literal{Float64, interface{}(float64(-1))}},
		{Float64, float64(0.5), &literal{Float64, interface{}(float64(0.5))}},
		{Text, "", &literal{Text, interface{}("")}},
		{Text, "some random string", &literal{Text, interface{}("some random string")}},
		{List, []Literal{NewText("1.0"), NewFloat64(1), NewInt64(1)},
			&literal{List, interface{}([]Literal{NewText("1.0"), NewFloat64(1), NewInt64(1)})}},
		// Invalid cases.
		{Int64, 2, nil},
		{Float64, 3, nil},
		{Text, 4, nil},
		{Text, int64(4), nil},
		{List, []Literal{}, nil},
		{List, []Literal{NewText("a"), nil}, nil},
		{List, []Literal{&literal{List, []Literal{NewInt64(1)}}}, nil},
	}
	for _, tc := range table {
		got, err := DefaultBuilder().Build(tc.t, tc.v)
		if tc.want != nil && err != nil {
			t.Errorf("Failed to generate literal for case %v with error %v", tc, err)
		}
		if tc.want == nil && err == nil {
			t.Errorf("DefaultBuilder().Build(%v, %v) should have failed; got %v", tc.t, tc.v, got)
		}
		if tc.want != nil && !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Failed to generate the expected literal; got %v want %v", got, tc.want)
		}
	}
}

func TestTypedGetters(t *testing.T) {
	if v, err := NewInt64(10).Int64(); err != nil || v != 10 {
		t.Errorf("literal.Int64 should return 10; got %v, %v", v, err)
	}
	if _, err := NewInt64(10).Float64(); err == nil {
		t.Errorf("literal.Float64 should fail for an int64 literal")
	}
	if v, err := NewFloat64(.12).Float64(); err != nil || v != .12 {
		t.Errorf("literal.Float64 should return .12; got %v, %v", v, err)
	}
	if v, err := NewText("foo").Text(); err != nil || v != "foo" {
		t.Errorf("literal.Text should return foo; got %v, %v", v, err)
	}
	if _, err := NewText("foo").List(); err == nil {
		t.Errorf("literal.List should fail for a text literal")
	}
	l, err := DefaultBuilder().Build(List, []Literal{NewText("a"), NewInt64(2)})
	if err != nil {
		t.Fatal(err)
	}
	es, err := l.List()
	if err != nil || len(es) != 2 {
		t.Errorf("literal.List should return two elements; got %v, %v", es, err)
	}
}

func TestInterface(t *testing.T) {
	l, err := DefaultBuilder().Build(List, []Literal{NewText("a"), NewInt64(2), NewFloat64(1.5)})
	if err != nil {
		t.Fatal(err)
	}
	want := []interface{}{"a", int64(2), float64(1.5)}
	if got := l.Interface(); !reflect.DeepEqual(got, want) {
		t.Errorf("literal.Interface should return %v; got %v", want, got)
	}
	if got := NewText("a").Interface(); got != "a" {
		t.Errorf("literal.Interface should return the raw text; got %v", got)
	}
}

func TestString(t *testing.T) {
	l, err := DefaultBuilder().Build(List, []Literal{NewText("it\"aly"), NewInt64(2), NewFloat64(1)})
	if err != nil {
		t.Fatal(err)
	}
	table := []struct {
		l    Literal
		want string
	}{
		{NewInt64(-3), "-3"},
		{NewFloat64(.5), "0.5"},
		{NewFloat64(5), "5"},
		{NewText("foo"), `"foo"`},
		{l, `("it\"aly", 2, 1)`},
	}
	for _, entry := range table {
		if got := entry.l.String(); got != entry.want {
			t.Errorf("literal.String should return %q; got %q", entry.want, got)
		}
	}
}
