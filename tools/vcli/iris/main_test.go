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

package main

import (
	"context"
	"testing"

	"github.com/google/iris/storage/memory"
	"github.com/google/iris/tools/vcli/iris/command"
	"github.com/google/iris/tools/vcli/iris/common"
)

func TestDispatch(t *testing.T) {
	var ran []string
	cmds := []*command.Command{
		{
			UsageLine: "alpha <file>",
			Short:     "runs alpha.",
			Run: func(ctx context.Context, args []string) int {
				ran = append(ran, args[1])
				return 3
			},
		},
		{UsageLine: "docs", Short: "documentation only."},
	}
	table := []struct {
		args []string
		want int
	}{
		{[]string{"iris", "alpha", "x"}, 3},
		{[]string{"iris"}, 1},
		{[]string{"iris", "beta"}, 1},
		{[]string{"iris", "docs"}, 1},
		{[]string{"iris", "help"}, 0},
		{[]string{"iris", "help", "alpha"}, 0},
		{[]string{"iris", "help", "beta"}, 2},
	}
	for _, entry := range table {
		if got := dispatch(context.Background(), cmds, entry.args); got != entry.want {
			t.Errorf("dispatch(%v) should return %d; got %d", entry.args, entry.want, got)
		}
	}
	if len(ran) != 1 || ran[0] != "alpha" {
		t.Errorf("dispatch should have run alpha once; got %v", ran)
	}
}

func TestRegisteredCommands(t *testing.T) {
	cfg := &common.Config{BulkSize: 10}
	seen := make(map[string]bool)
	for _, c := range registerCommands(memory.NewStore(), cfg) {
		if !c.Runnable() || c.Short == "" {
			t.Errorf("command %q should be runnable and documented", c.Name())
		}
		if seen[c.Name()] {
			t.Errorf("command %q registered twice", c.Name())
		}
		seen[c.Name()] = true
	}
	for _, want := range []string{"export", "load", "run", "shell", "version"} {
		if !seen[want] {
			t.Errorf("command %q should be registered", want)
		}
	}
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()
	if got := newStore(&common.Config{}).Name(ctx); got != "MEMORY_STORE" {
		t.Errorf("newStore should return a plain memory store; got %q", got)
	}
	if s := newStore(&common.Config{Memoize: true}); s == nil {
		t.Errorf("newStore should return a memoized store")
	}
}
