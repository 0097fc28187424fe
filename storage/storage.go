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

// Package storage provides the abstraction to build catalog drivers for iris.
package storage

import (
	"context"

	"github.com/google/iris/record"
)

// LookupOptions allows to specify the behavior of the lookup operations.
type LookupOptions struct {
	// MaxElements list the maximum number of elements to return. If not
	// set it returns all the lookup results.
	MaxElements int
}

// DefaultLookup provides the default lookup behavior.
var DefaultLookup = &LookupOptions{}

// Store interface describes the low level API that catalog drivers need to
// implement.
//
// Query specs are the compiled form of a where clause: a map from field names
// to either a raw value, that must match exactly, or an operator map using
// the $regex, $lt, $lte, $gt, $gte and $in keys. A spec may instead contain
// a single $or key holding a list of such maps. An empty spec matches every
// record.
type Store interface {
	// Name returns the ID of the backend being used.
	Name(ctx context.Context) string

	// Version returns the version of the driver implementation.
	Version(ctx context.Context) string

	// Add adds the records to the store. Adding a record with an id already
	// present replaces it.
	Add(ctx context.Context, rs []*record.Record) error

	// Find pushes the records matching the spec into the provided channel. The
	// channel is closed once all records have been sent or an error occurs.
	// Records are sent in insertion order.
	Find(ctx context.Context, spec map[string]interface{}, lo *LookupOptions, rs chan<- *record.Record) error

	// Count returns the number of records matching the spec.
	Count(ctx context.Context, spec map[string]interface{}) (int, error)

	// Tag attaches the provided tags to the records matching the spec. It
	// returns the number of records that changed.
	Tag(ctx context.Context, spec map[string]interface{}, tags []string) (int, error)

	// Records pushes all the records in the store into the provided channel.
	// The channel is closed once all records have been sent.
	Records(ctx context.Context, rs chan<- *record.Record) error
}
