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

// Package io provides basic tools to read and write catalogs from and to
// files.
package io

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/google/iris/record"
	"github.com/google/iris/storage"
)

// ReadIntoStore reads records out of the provided reader. Each line holds a
// record as a JSON object; blank lines and lines starting with # are ignored.
// Records are added to the store in batches of bulkSize. ReadIntoStore stops
// at the first record it fails to parse; the batches read till then would
// have been added to the store. The int value returns the number of records
// added.
func ReadIntoStore(ctx context.Context, r io.Reader, s storage.Store, bulkSize int) (int, error) {
	if bulkSize <= 0 {
		bulkSize = 1
	}
	cnt, ln, scanner := 0, 0, bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var batch []*record.Record
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.Add(ctx, batch); err != nil {
			return err
		}
		cnt += len(batch)
		slog.DebugContext(ctx, "added record batch", "records", len(batch), "total", cnt)
		batch = nil
		return nil
	}
	for scanner.Scan() {
		ln++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		rec, err := record.Parse(text)
		if err != nil {
			return cnt, fmt.Errorf("line %d: %w", ln, err)
		}
		batch = append(batch, rec)
		if len(batch) >= bulkSize {
			if err := flush(); err != nil {
				return cnt, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return cnt, err
	}
	return cnt, flush()
}

// WriteStore serializes the store into the writer where each record is
// marshalled into a separate line. If there is an error writing the
// serialization will stop. It returns the number of records serialized
// regardless if it succeeded or it failed partially.
func WriteStore(ctx context.Context, w io.Writer, s storage.Store) (int, error) {
	var (
		cnt  int
		werr error
	)
	rs := make(chan *record.Record)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Records(gctx, rs)
	})
	for r := range rs {
		if werr != nil {
			continue
		}
		if _, err := io.WriteString(w, r.String()+"\n"); err != nil {
			werr = err
			continue
		}
		cnt++
	}
	if err := g.Wait(); err != nil {
		return cnt, err
	}
	return cnt, werr
}
