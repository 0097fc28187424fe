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

// Package memoization implements a passthrough driver with memoization
// of the query results.
package memoization

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/pborman/uuid"

	"github.com/google/iris/record"
	"github.com/google/iris/storage"
)

// storeMemoizer implements the memoization.
type storeMemoizer struct {
	s storage.Store

	mu   sync.RWMutex
	gen  uint64
	memR map[string][]*record.Record
	memC map[string]int
}

// New returns a new memoized driver.
func New(s storage.Store) storage.Store {
	return &storeMemoizer{
		s:    s,
		memR: make(map[string][]*record.Record),
		memC: make(map[string]int),
	}
}

// Name returns the ID of the backend being used.
func (s *storeMemoizer) Name(ctx context.Context) string {
	return s.s.Name(ctx)
}

// Version returns the version of the driver implementation.
func (s *storeMemoizer) Version(ctx context.Context) string {
	return s.s.Version(ctx)
}

// reset drops all memoized results. Results of lookups started before a
// reset are not memoized.
func (s *storeMemoizer) reset() {
	s.mu.Lock()
	s.gen++
	s.memR = make(map[string][]*record.Record)
	s.memC = make(map[string]int)
	s.mu.Unlock()
}

// Add adds the records to the wrapped store.
func (s *storeMemoizer) Add(ctx context.Context, rs []*record.Record) error {
	// Update operations reset the memoization, both before and after the
	// update so lookups overlapping it are not memoized.
	s.reset()
	defer s.reset()
	return s.s.Add(ctx, rs)
}

// Tag attaches the tags using the wrapped store.
func (s *storeMemoizer) Tag(ctx context.Context, spec map[string]interface{}, tags []string) (int, error) {
	// Update operations reset the memoization, both before and after the
	// update so lookups overlapping it are not memoized.
	s.reset()
	defer s.reset()
	return s.s.Tag(ctx, spec, tags)
}

// combinedUUID returns the memoization key for an operation.
func combinedUUID(op string, lo *storage.LookupOptions, spec map[string]interface{}) (string, error) {
	if lo == nil {
		lo = storage.DefaultLookup
	}
	b, err := json.Marshal(spec)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", op, lo.MaxElements, uuid.NewSHA1(uuid.NIL, b)), nil
}

// Find pushes the records matching the spec into the provided channel,
// serving them from memory if the same query was already run.
func (s *storeMemoizer) Find(ctx context.Context, spec map[string]interface{}, lo *storage.LookupOptions, rs chan<- *record.Record) error {
	k, err := combinedUUID("Find", lo, spec)
	if err != nil {
		close(rs)
		return fmt.Errorf("memoization.Find: %v", err)
	}
	s.mu.RLock()
	v, ok := s.memR[k]
	gen := s.gen
	s.mu.RUnlock()
	if ok {
		// Return the memoized results.
		defer close(rs)
		for _, r := range v {
			select {
			case <-ctx.Done():
				return nil
			case rs <- r.Clone():
				// Nothing to do.
			}
		}
		return nil
	}

	// Query and memoize the results.
	c := make(chan *record.Record)
	defer close(rs)

	var (
		wg    sync.WaitGroup
		mrecs []*record.Record
	)
	wg.Add(1)
	go func() {
		err = s.s.Find(ctx, spec, lo, c)
		wg.Done()
	}()

	for r := range c {
		select {
		case <-ctx.Done():
			// Drain so the wrapped store can finish.
			for range c {
			}
			wg.Wait()
			return errors.New("context cancelled")
		case rs <- r:
			// memoize a copy of the record.
			mrecs = append(mrecs, r.Clone())
		}
	}
	wg.Wait()
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.gen == gen {
		s.memR[k] = mrecs
	}
	s.mu.Unlock()
	return nil
}

// Count returns the number of records matching the spec, memoizing it.
func (s *storeMemoizer) Count(ctx context.Context, spec map[string]interface{}) (int, error) {
	k, err := combinedUUID("Count", storage.DefaultLookup, spec)
	if err != nil {
		return 0, fmt.Errorf("memoization.Count: %v", err)
	}
	s.mu.RLock()
	v, ok := s.memC[k]
	gen := s.gen
	s.mu.RUnlock()
	if ok {
		return v, nil
	}
	n, err := s.s.Count(ctx, spec)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	if s.gen == gen {
		s.memC[k] = n
	}
	s.mu.Unlock()
	return n, nil
}

// Records is never memoized.
func (s *storeMemoizer) Records(ctx context.Context, rs chan<- *record.Record) error {
	return s.s.Records(ctx, rs)
}
