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

// Package load contains the command allowing to load catalog records stored
// in files into the store.
package load

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	catalogio "github.com/google/iris/io"
	"github.com/google/iris/storage"
	"github.com/google/iris/tools/vcli/iris/command"
)

// New creates the load command.
func New(store storage.Store, bulkSize int) *command.Command {
	cmd := &command.Command{
		UsageLine: "load <file_paths_separated_by_commas>",
		Short:     "load records in bulk stored in files.",
		Long: `Loads all the records stored in the provided files. Paths need to be
separated by commas with no whitespaces. Each record needs to be placed in a
single line as a JSON object. A line starting with # will be treated as a
commented line. Files are read concurrently. If the load fails you may end up
with partially loaded data.
`,
	}
	cmd.Run = func(ctx context.Context, args []string) int {
		return Eval(ctx, os.Stdout, cmd.UsageLine+"\n\n"+cmd.Long, args, store, bulkSize)
	}
	return cmd
}

// Eval loads the records in the files as indicated by the command arguments.
func Eval(ctx context.Context, w io.Writer, usage string, args []string, store storage.Store, bulkSize int) int {
	if len(args) < 3 {
		fmt.Fprintf(w, "[ERROR] Missing required file paths.\n\n%s", usage)
		return 2
	}
	var paths []string
	for _, p := range strings.Split(args[len(args)-1], ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		fmt.Fprintf(w, "[ERROR] Missing required file paths.\n\n%s", usage)
		return 2
	}
	cnt, err := Files(ctx, store, paths, bulkSize)
	if err != nil {
		fmt.Fprintf(w, "[ERROR] Failed to load records after %d were added. %v\n", cnt, err)
		return 2
	}
	fmt.Fprintf(w, "Successfully loaded %d records from files:\n\t- %s\n", cnt, strings.Join(paths, "\n\t- "))
	return 0
}

// Files reads the provided files concurrently into the store. It returns the
// number of records added, even when one of the files fails.
func Files(ctx context.Context, store storage.Store, paths []string, bulkSize int) (int, error) {
	var cnt int64
	g, gctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			n, err := catalogio.ReadIntoStore(gctx, f, store, bulkSize)
			atomic.AddInt64(&cnt, int64(n))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			slog.DebugContext(gctx, "loaded file", "path", path, "records", n)
			return nil
		})
	}
	err := g.Wait()
	return int(atomic.LoadInt64(&cnt)), err
}
