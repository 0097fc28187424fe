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

// Package planner contains all the machinery to transform the semantic output
// into an actionable plan against a catalog store.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/google/iris/iql/semantic"
	"github.com/google/iris/iql/table"
	"github.com/google/iris/record"
	"github.com/google/iris/storage"
)

const (
	// CountColumn is the column holding the result of count statements.
	CountColumn = "count"
	// TaggedColumn is the column holding the result of tag statements.
	TaggedColumn = "tagged"
)

// Executor interface unifies the execution of statements.
type Executor interface {
	// Execute runs the proposed plan for a given statement.
	Execute(ctx context.Context) (*table.Table, error)

	// String returns a readable description of the execution plan.
	String() string
}

// findPlan encapsulates the sequence of instructions that need to be
// executed in order to satisfy the execution of a valid find statement.
type findPlan struct {
	store     storage.Store
	stm       *semantic.Statement
	spec      map[string]interface{}
	chanSize  int
	projected []string
}

// projection returns the requested fields without repetitions.
func projection(fs []string) []string {
	var res []string
	seen := make(map[string]bool)
	for _, f := range fs {
		if !seen[f] {
			seen[f] = true
			res = append(res, f)
		}
	}
	return res
}

// Execute retrieves the matching records and lays them out as a table. When
// no fields are requested, the table has the record id followed by every
// field found on the matching records.
func (p *findPlan) Execute(ctx context.Context) (*table.Table, error) {
	var recs []*record.Record
	if !p.stm.IsLimitSet() || p.stm.Limit() > 0 {
		lo := &storage.LookupOptions{MaxElements: int(p.stm.Limit())}
		rs := make(chan *record.Record, p.chanSize)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return p.store.Find(gctx, p.spec, lo, rs)
		})
		for r := range rs {
			recs = append(recs, r)
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("planner: find failed: %w", err)
		}
	}
	slog.DebugContext(ctx, "find plan retrieved records", "spec", p.spec, "records", len(recs))

	cols := p.projected
	if len(cols) == 0 {
		seen := make(map[string]bool)
		var fs []string
		for _, r := range recs {
			for _, f := range r.Fields() {
				if !seen[f] {
					seen[f] = true
					fs = append(fs, f)
				}
			}
		}
		sort.Strings(fs)
		cols = append([]string{record.IDField}, fs...)
	}
	t, err := table.New(cols)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		row := make(table.Row, len(cols))
		for _, c := range cols {
			if v, ok := r.Value(c); ok {
				row[c] = &table.Cell{V: v}
			}
		}
		t.AddRow(row)
	}
	return t, nil
}

// String returns a readable description of the execution plan.
func (p *findPlan) String() string {
	return fmt.Sprintf("FIND records matching %v; limit=%d; projection=%v", p.spec, p.stm.Limit(), p.projected)
}

// countPlan encapsulates the execution of a valid count statement.
type countPlan struct {
	store storage.Store
	spec  map[string]interface{}
}

// Execute counts the matching records.
func (p *countPlan) Execute(ctx context.Context) (*table.Table, error) {
	n, err := p.store.Count(ctx, p.spec)
	if err != nil {
		return nil, fmt.Errorf("planner: count failed: %w", err)
	}
	slog.DebugContext(ctx, "count plan done", "spec", p.spec, "count", n)
	return singleValue(CountColumn, int64(n))
}

// String returns a readable description of the execution plan.
func (p *countPlan) String() string {
	return fmt.Sprintf("COUNT records matching %v", p.spec)
}

// tagPlan encapsulates the execution of a valid tag statement.
type tagPlan struct {
	store storage.Store
	spec  map[string]interface{}
	tags  []string
}

// Execute tags the matching records.
func (p *tagPlan) Execute(ctx context.Context) (*table.Table, error) {
	n, err := p.store.Tag(ctx, p.spec, p.tags)
	if err != nil {
		return nil, fmt.Errorf("planner: tag failed: %w", err)
	}
	slog.InfoContext(ctx, "tagged records", "spec", p.spec, "tags", p.tags, "changed", n)
	return singleValue(TaggedColumn, int64(n))
}

// String returns a readable description of the execution plan.
func (p *tagPlan) String() string {
	return fmt.Sprintf("TAG records matching %v with %v", p.spec, p.tags)
}

func singleValue(col string, v int64) (*table.Table, error) {
	t, err := table.New([]string{col})
	if err != nil {
		return nil, err
	}
	t.AddRow(table.Row{col: &table.Cell{V: v}})
	return t, nil
}

// New creates a new executable plan given a semantic IQL statement. chanSize
// is the buffer of the channel used to stream records out of the store.
func New(ctx context.Context, store storage.Store, stm *semantic.Statement, chanSize int) (Executor, error) {
	if store == nil || stm == nil {
		return nil, fmt.Errorf("planner.New: missing store or statement")
	}
	if chanSize < 0 {
		chanSize = 0
	}
	spec := stm.Spec().Map()
	slog.DebugContext(ctx, "planning statement", "type", stm.Type().String(), "statement", stm.String())
	switch stm.Type() {
	case semantic.Find:
		return &findPlan{
			store:     store,
			stm:       stm,
			spec:      spec,
			chanSize:  chanSize,
			projected: projection(stm.Fields()),
		}, nil
	case semantic.Count:
		return &countPlan{
			store: store,
			spec:  spec,
		}, nil
	case semantic.Tag:
		if len(stm.Targets()) == 0 {
			return nil, fmt.Errorf("planner.New: tag statements require at least one tag")
		}
		return &tagPlan{
			store: store,
			spec:  spec,
			tags:  stm.Targets(),
		}, nil
	}
	return nil, fmt.Errorf("planner.New: unknown statement type in statement %v", stm)
}
