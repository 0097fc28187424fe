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

// Package record contains the photo records kept in the catalog. A record is a
// flat set of named fields. Values are strings, 64 bit integers, 64 bit
// floats, booleans or lists of them.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pborman/uuid"
)

const (
	// IDField is the name of the virtual field holding the record id.
	IDField = "id"
	// TagsField is the name of the field holding the record tags.
	TagsField = "tags"
)

// Record is a single catalog entry.
type Record struct {
	id     uuid.UUID
	fields map[string]interface{}
}

// New returns a new record with a fresh id for the provided fields.
func New(fields map[string]interface{}) (*Record, error) {
	return NewWithID(uuid.NewRandom(), fields)
}

// NewWithID returns a new record for the provided id and fields.
func NewWithID(id uuid.UUID, fields map[string]interface{}) (*Record, error) {
	if id == nil {
		return nil, fmt.Errorf("record.New: missing record id")
	}
	r := &Record{
		id:     id,
		fields: make(map[string]interface{}, len(fields)),
	}
	for k, v := range fields {
		if k == IDField {
			return nil, fmt.Errorf("record.New: %q is a reserved field name", IDField)
		}
		if strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("record.New: field names cannot be empty")
		}
		nv, err := normalize(v, true)
		if err != nil {
			return nil, fmt.Errorf("record.New: field %q: %v", k, err)
		}
		r.fields[k] = nv
	}
	return r, nil
}

// Parse returns the record for a JSON object. The object may provide the
// record id in the "id" field; otherwise a fresh one is created.
func Parse(line string) (*Record, error) {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()
	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("record.Parse: invalid record %q: %v", line, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("record.Parse: trailing data after record %q", line)
	}
	id := uuid.NewRandom()
	if v, ok := m[IDField]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("record.Parse: id should be a string; got %v", v)
		}
		if id = uuid.Parse(s); id == nil {
			return nil, fmt.Errorf("record.Parse: invalid id %q", s)
		}
		delete(m, IDField)
	}
	r, err := NewWithID(id, m)
	if err != nil {
		return nil, fmt.Errorf("record.Parse: %v", err)
	}
	return r, nil
}

// normalize turns JSON decoded values into the supported value types.
func normalize(v interface{}, allowList bool) (interface{}, error) {
	switch tv := v.(type) {
	case string, bool, int64, float64:
		return tv, nil
	case int:
		return int64(tv), nil
	case float32:
		return float64(tv), nil
	case json.Number:
		if i, err := tv.Int64(); err == nil {
			return i, nil
		}
		f, err := tv.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case []string:
		if !allowList {
			return nil, fmt.Errorf("nested lists are not supported")
		}
		res := make([]interface{}, 0, len(tv))
		for _, s := range tv {
			res = append(res, s)
		}
		return res, nil
	case []interface{}:
		if !allowList {
			return nil, fmt.Errorf("nested lists are not supported")
		}
		res := make([]interface{}, 0, len(tv))
		for _, e := range tv {
			ne, err := normalize(e, false)
			if err != nil {
				return nil, err
			}
			res = append(res, ne)
		}
		return res, nil
	}
	return nil, fmt.Errorf("unsupported value %v of type %T", v, v)
}

// ID returns the record id.
func (r *Record) ID() uuid.UUID {
	return r.id
}

// Value returns the value of the provided field. The record id is available
// as the "id" field.
func (r *Record) Value(field string) (interface{}, bool) {
	if field == IDField {
		return r.id.String(), true
	}
	v, ok := r.fields[field]
	return v, ok
}

// Fields returns the sorted names of the record fields, excluding the id.
func (r *Record) Fields() []string {
	res := make([]string, 0, len(r.fields))
	for k := range r.fields {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Tags returns the string tags attached to the record.
func (r *Record) Tags() []string {
	var res []string
	switch v := r.fields[TagsField].(type) {
	case string:
		res = append(res, v)
	case []interface{}:
		for _, e := range v {
			if s, ok := e.(string); ok {
				res = append(res, s)
			}
		}
	}
	return res
}

// AddTags attaches the provided tags to the record. Tags already present are
// ignored. It returns true if the record changed.
func (r *Record) AddTags(tags ...string) bool {
	var cur []interface{}
	switch v := r.fields[TagsField].(type) {
	case []interface{}:
		cur = append(cur, v...)
	case nil:
	default:
		cur = append(cur, v)
	}
	changed := false
	for _, t := range tags {
		found := false
		for _, c := range cur {
			if c == t {
				found = true
				break
			}
		}
		if !found {
			cur = append(cur, t)
			changed = true
		}
	}
	if changed {
		r.fields[TagsField] = cur
	}
	return changed
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{
		id:     r.id,
		fields: make(map[string]interface{}, len(r.fields)),
	}
	for k, v := range r.fields {
		if l, ok := v.([]interface{}); ok {
			v = append([]interface{}{}, l...)
		}
		c.fields[k] = v
	}
	return c
}

// Map returns the record as a map including the id field.
func (r *Record) Map() map[string]interface{} {
	m := r.Clone().fields
	m[IDField] = r.id.String()
	return m
}

// String returns the JSON representation of the record.
func (r *Record) String() string {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.Map()); err != nil {
		return fmt.Sprintf("record.String: %v", err)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
