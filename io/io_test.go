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

package io

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/iris/record"
	"github.com/google/iris/storage"
	"github.com/google/iris/storage/memory"
)

const testCatalog = `# test catalog
{"path": "a.jpg", "iso": 100}

{"path": "b.jpg", "iso": 400, "tags": ["rome"]}
  {"path": "c.jpg", "iso": 800}
`

// batchCounter counts the calls to Add.
type batchCounter struct {
	storage.Store
	adds int32
}

func (b *batchCounter) Add(ctx context.Context, rs []*record.Record) error {
	atomic.AddInt32(&b.adds, 1)
	return b.Store.Add(ctx, rs)
}

func TestReadIntoStore(t *testing.T) {
	table := []struct {
		bulk int
		adds int32
	}{
		{0, 3},
		{1, 3},
		{2, 2},
		{10, 1},
	}
	for _, entry := range table {
		s, ctx := &batchCounter{Store: memory.NewStore()}, context.Background()
		cnt, err := ReadIntoStore(ctx, strings.NewReader(testCatalog), s, entry.bulk)
		if err != nil || cnt != 3 {
			t.Errorf("io.ReadIntoStore(bulk=%d) should have read 3 records; got %d, %v", entry.bulk, cnt, err)
		}
		if got := atomic.LoadInt32(&s.adds); got != entry.adds {
			t.Errorf("io.ReadIntoStore(bulk=%d) should add %d batches; got %d", entry.bulk, entry.adds, got)
		}
		if n, _ := s.Count(ctx, map[string]interface{}{}); n != 3 {
			t.Errorf("io.ReadIntoStore(bulk=%d) should store 3 records; got %d", entry.bulk, n)
		}
	}
}

func TestReadIntoStoreStopsOnBadRecords(t *testing.T) {
	s, ctx := memory.NewStore(), context.Background()
	in := "{\"iso\": 1}\n{\"iso\": 2}\nnot json\n{\"iso\": 3}\n"
	cnt, err := ReadIntoStore(ctx, strings.NewReader(in), s, 1)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("io.ReadIntoStore should fail on line 3; got %v", err)
	}
	if cnt != 2 {
		t.Errorf("io.ReadIntoStore should have added the 2 valid leading records; got %d", cnt)
	}
}

func TestWriteStoreRoundTrip(t *testing.T) {
	s, ctx := memory.NewStore(), context.Background()
	if _, err := ReadIntoStore(ctx, strings.NewReader(testCatalog), s, 2); err != nil {
		t.Fatal(err)
	}
	var buffer bytes.Buffer
	cnt, err := WriteStore(ctx, &buffer, s)
	if err != nil || cnt != 3 {
		t.Fatalf("io.WriteStore should have written 3 records; got %d, %v", cnt, err)
	}
	s2 := memory.NewStore()
	if cnt, err := ReadIntoStore(ctx, &buffer, s2, 10); err != nil || cnt != 3 {
		t.Fatalf("io.ReadIntoStore should read back 3 records; got %d, %v", cnt, err)
	}
	var b1, b2 bytes.Buffer
	if _, err := WriteStore(ctx, &b1, s); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteStore(ctx, &b2, s2); err != nil {
		t.Fatal(err)
	}
	if b1.String() != b2.String() {
		t.Errorf("io.WriteStore should preserve records and ids; got\n%s\nwant\n%s", b2.String(), b1.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteStoreFails(t *testing.T) {
	s, ctx := memory.NewStore(), context.Background()
	if _, err := ReadIntoStore(ctx, strings.NewReader(testCatalog), s, 2); err != nil {
		t.Fatal(err)
	}
	if cnt, err := WriteStore(ctx, failingWriter{}, s); err == nil || cnt != 0 {
		t.Errorf("io.WriteStore should fail on a failing writer; got %d, %v", cnt, err)
	}
}
