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

// Package literal provides the typed values carried by IQL tokens: integers,
// floats, text and flat lists of those.
package literal

import (
	"fmt"
	"strconv"
	"strings"
)

// Type represents the type contained in a literal.
type Type uint8

const (
	// Int64 indicates that the type contained in the literal is an int64.
	Int64 Type = iota
	// Float64 indicates that the type contained in the literal is a float64.
	Float64
	// Text indicates that the type contained in the literal is a string.
	Text
	// List indicates that the type contained in the literal is a []Literal
	// holding only Int64, Float64, or Text literals.
	List
)

// Strings returns the pretty printing version of the type
func (t Type) String() string {
	switch t {
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Text:
		return "text"
	case List:
		return "list"
	default:
		return "UNKNOWN"
	}
}

// Value represents the value contained in the literal.
type Value interface {
	Int64() (int64, error)
	Float64() (float64, error)
	Text() (string, error)
	List() ([]Literal, error)
	Interface() interface{}
}

// Literal is a data container for arbitrary immutable data.
type Literal interface {
	Value
	Type() Type
	String() string
}

// Builder interface provides a standar way to build literals given a type and
// a given value.
type Builder interface {
	Build(t Type, v interface{}) (Literal, error)
}

// A singleton used to build all literals.
var defaultBuilder Builder

func init() {
	defaultBuilder = &unboundBuilder{}
}

// The default builder is unbound. This allows to create a literal arbitrarily
// long.
type unboundBuilder struct{}

// The implementation of all literals.
type literal struct {
	t Type
	v interface{}
}

// Type returns the type of a literal.
func (l *literal) Type() Type {
	return l.t
}

// String returns the IQL representation of the literal.
func (l *literal) String() string {
	switch l.t {
	case Int64:
		return strconv.FormatInt(l.v.(int64), 10)
	case Float64:
		return strconv.FormatFloat(l.v.(float64), 'g', -1, 64)
	case Text:
		return strconv.Quote(l.v.(string))
	case List:
		var ss []string
		for _, e := range l.v.([]Literal) {
			ss = append(ss, e.String())
		}
		return "(" + strings.Join(ss, ", ") + ")"
	}
	return fmt.Sprintf("%v", l.v)
}

// Int64 returns the value of a literal as an int64.
func (l *literal) Int64() (int64, error) {
	if l.t != Int64 {
		return 0, fmt.Errorf("literal is of type %v; cannot be converted to a int64", l.t)
	}
	return l.v.(int64), nil
}

// Float64 returns the value of a literal as a float64.
func (l *literal) Float64() (float64, error) {
	if l.t != Float64 {
		return 0, fmt.Errorf("literal is of type %v; cannot be converted to a float64", l.t)
	}
	return l.v.(float64), nil
}

// Text returns the value of a literal as a string.
func (l *literal) Text() (string, error) {
	if l.t != Text {
		return "", fmt.Errorf("literal is of type %v; cannot be converted to a string", l.t)
	}
	return l.v.(string), nil
}

// List returns the elements of a list literal.
func (l *literal) List() ([]Literal, error) {
	if l.t != List {
		return nil, fmt.Errorf("literal is of type %v; cannot be converted to a list", l.t)
	}
	return l.v.([]Literal), nil
}

// Interface returns the value as a simple interface{}. Lists are returned as
// []interface{} holding the raw values of their elements.
func (l *literal) Interface() interface{} {
	if l.t == List {
		es := l.v.([]Literal)
		vs := make([]interface{}, 0, len(es))
		for _, e := range es {
			vs = append(vs, e.Interface())
		}
		return vs
	}
	return l.v
}

// Build creates a new unbound literal from a type and a value.
func (b *unboundBuilder) Build(t Type, v interface{}) (Literal, error) {
	switch tv := v.(type) {
	case int64:
		if t != Int64 {
			return nil, fmt.Errorf("type %s does not match type of value %v", t, v)
		}
	case float64:
		if t != Float64 {
			return nil, fmt.Errorf("type %s does not match type of value %v", t, v)
		}
	case string:
		if t != Text {
			return nil, fmt.Errorf("type %s does not match type of value %v", t, v)
		}
	case []Literal:
		if t != List {
			return nil, fmt.Errorf("type %s does not match type of value %v", t, v)
		}
		if len(tv) == 0 {
			return nil, fmt.Errorf("list literals cannot be empty")
		}
		for _, e := range tv {
			if e == nil || e.Type() == List {
				return nil, fmt.Errorf("list literals may only contain int64, float64, or text literals; got %v", e)
			}
		}
		tv = append([]Literal{}, tv...)
		v = tv
	default:
		return nil, fmt.Errorf("type %s is not supported when building literals", t)
	}
	return &literal{
		t: t,
		v: v,
	}, nil
}

// DefaultBuilder returns a builder with no constraints or checks.
func DefaultBuilder() Builder {
	return defaultBuilder
}

// NewInt64 returns an int64 literal.
func NewInt64(v int64) Literal {
	return &literal{t: Int64, v: v}
}

// NewFloat64 returns a float64 literal.
func NewFloat64(v float64) Literal {
	return &literal{t: Float64, v: v}
}

// NewText returns a text literal.
func NewText(v string) Literal {
	return &literal{t: Text, v: v}
}
