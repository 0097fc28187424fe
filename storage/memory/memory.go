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

// Package memory provides a volatile memory-based implementation of the
// storage.Store interface.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/iris/record"
	"github.com/google/iris/storage"
)

type memoryStore struct {
	rwmu sync.RWMutex
	recs []*record.Record
	idx  map[string]int
}

// NewStore creates a new memory store.
func NewStore() storage.Store {
	return &memoryStore{
		idx: make(map[string]int),
	}
}

// Name returns the ID of the backend being used.
func (s *memoryStore) Name(ctx context.Context) string {
	return "MEMORY_STORE"
}

// Version returns the version of the driver implementation.
func (s *memoryStore) Version(ctx context.Context) string {
	return "0.1.vcli"
}

// Add adds the records to the store. Records are copied.
func (s *memoryStore) Add(ctx context.Context, rs []*record.Record) error {
	s.rwmu.Lock()
	defer s.rwmu.Unlock()
	for _, r := range rs {
		if r == nil {
			return fmt.Errorf("memory.Add: cannot add a nil record")
		}
		id := r.ID().String()
		if i, ok := s.idx[id]; ok {
			s.recs[i] = r.Clone()
			continue
		}
		s.idx[id] = len(s.recs)
		s.recs = append(s.recs, r.Clone())
	}
	return nil
}

// matching returns copies of the records matching the spec, up to max if
// positive.
func (s *memoryStore) matching(spec map[string]interface{}, max int) ([]*record.Record, error) {
	m, err := compile(spec)
	if err != nil {
		return nil, err
	}
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	var res []*record.Record
	for _, r := range s.recs {
		if max > 0 && len(res) >= max {
			break
		}
		if m.matches(r) {
			res = append(res, r.Clone())
		}
	}
	return res, nil
}

// Find pushes the records matching the spec into the provided channel.
func (s *memoryStore) Find(ctx context.Context, spec map[string]interface{}, lo *storage.LookupOptions, rs chan<- *record.Record) error {
	defer close(rs)
	if lo == nil {
		lo = storage.DefaultLookup
	}
	res, err := s.matching(spec, lo.MaxElements)
	if err != nil {
		return fmt.Errorf("memory.Find: %v", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, r := range res {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rs <- r:
		}
	}
	return nil
}

// Count returns the number of records matching the spec.
func (s *memoryStore) Count(ctx context.Context, spec map[string]interface{}) (int, error) {
	m, err := compile(spec)
	if err != nil {
		return 0, fmt.Errorf("memory.Count: %v", err)
	}
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	cnt := 0
	for _, r := range s.recs {
		if m.matches(r) {
			cnt++
		}
	}
	return cnt, nil
}

// Tag attaches the tags to the records matching the spec.
func (s *memoryStore) Tag(ctx context.Context, spec map[string]interface{}, tags []string) (int, error) {
	m, err := compile(spec)
	if err != nil {
		return 0, fmt.Errorf("memory.Tag: %v", err)
	}
	s.rwmu.Lock()
	defer s.rwmu.Unlock()
	cnt := 0
	for _, r := range s.recs {
		if err := ctx.Err(); err != nil {
			return cnt, err
		}
		if m.matches(r) && r.AddTags(tags...) {
			cnt++
		}
	}
	return cnt, nil
}

// Records pushes all the records in the store into the provided channel.
func (s *memoryStore) Records(ctx context.Context, rs chan<- *record.Record) error {
	return s.Find(ctx, map[string]interface{}{}, storage.DefaultLookup, rs)
}
