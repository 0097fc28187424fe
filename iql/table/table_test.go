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

package table

import "testing"

func TestNew(t *testing.T) {
	testTable := []struct {
		bs  []string
		err bool
	}{
		{[]string{}, false},
		{[]string{"iso"}, false},
		{[]string{"iso", "tags"}, false},
		{[]string{"iso", "tags", "iso", "tags"}, true},
	}
	for _, entry := range testTable {
		if _, err := New(entry.bs); (err == nil) == entry.err {
			t.Errorf("table.New failed; want %v for %v ", entry.err, entry.bs)
		}
	}
}

func TestCellString(t *testing.T) {
	table := []struct {
		c    *Cell
		want string
	}{
		{nil, "<NULL>"},
		{&Cell{}, "<NULL>"},
		{&Cell{V: "a.jpg"}, "a.jpg"},
		{&Cell{V: int64(400)}, "400"},
		{&Cell{V: 2.8}, "2.8"},
		{&Cell{V: 1e21}, "1e+21"},
		{&Cell{V: true}, "true"},
		{&Cell{V: []interface{}{"rome", int64(3)}}, "[rome, 3]"},
	}
	for _, entry := range table {
		if got := entry.c.String(); got != entry.want {
			t.Errorf("Cell.String(%v) should return %q; got %q", entry.c, entry.want, got)
		}
	}
}

func TestToText(t *testing.T) {
	tbl, err := New([]string{"id", "iso"})
	if err != nil {
		t.Fatal(err)
	}
	tbl.AddColumns([]string{"iso", "tags"})
	if !tbl.HasColumn("tags") || len(tbl.Columns()) != 3 {
		t.Errorf("Table.AddColumns should only add new columns; got %v", tbl.Columns())
	}
	tbl.AddRow(Row{"id": &Cell{V: "1"}, "iso": &Cell{V: int64(100)}, "tags": &Cell{V: []interface{}{"a"}}})
	tbl.AddRow(Row{"id": &Cell{V: "2"}})
	if tbl.NumRows() != 2 {
		t.Errorf("Table.NumRows should return 2; got %d", tbl.NumRows())
	}
	if _, ok := tbl.Row(2); ok {
		t.Errorf("Table.Row(2) should not exist")
	}
	want := "id, iso, tags\n1, 100, [a]\n2, <NULL>, <NULL>\n"
	b, err := tbl.ToText(", ")
	if err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != want {
		t.Errorf("Table.ToText returned\n%s\nwant\n%s", got, want)
	}
	if got, want := tbl.String(), "id\tiso\ttags\n1\t100\t[a]\n2\t<NULL>\t<NULL>\n"; got != want {
		t.Errorf("Table.String returned\n%s\nwant\n%s", got, want)
	}
}
