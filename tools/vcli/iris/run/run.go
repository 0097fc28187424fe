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

// Package run contains the command allowing to run a sequence of IQL
// statements from the provided file.
package run

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/iris/iql"
	"github.com/google/iris/iql/planner"
	"github.com/google/iris/iql/table"
	"github.com/google/iris/storage"
	"github.com/google/iris/tools/vcli/iris/command"
	"github.com/google/iris/tools/vcli/iris/common"
)

// New creates the run command.
func New(store storage.Store, chanSize int) *command.Command {
	cmd := &command.Command{
		UsageLine: "run file_path",
		Short:     "runs IQL statements.",
		Long: `Runs all the statements listed in the provided file, one per line.
Lines in the file starting with # will be ignored. All statements will be run
sequentially and a failing statement does not stop the ones after it.
`,
	}
	cmd.Run = func(ctx context.Context, args []string) int {
		return runCommand(ctx, cmd, args, store, chanSize)
	}
	return cmd
}

// runCommand runs all the IQL statements available in the file.
func runCommand(ctx context.Context, cmd *command.Command, args []string, store storage.Store, chanSize int) int {
	if len(args) < 3 {
		fmt.Fprintf(os.Stderr, "[ERROR] Missing required file path. ")
		cmd.Usage()
		return 2
	}
	file := strings.TrimSpace(args[len(args)-1])
	if _, failed, err := File(ctx, os.Stdout, file, store, chanSize); err != nil || failed > 0 {
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Failed to read file %s\n\n\t%v\n\n", file, err)
		}
		return 2
	}
	return 0
}

// File runs the statements stored in path against the store and prints their
// results into w. It returns how many statements succeeded and failed; the
// error is only set if the file could not be read.
func File(ctx context.Context, w io.Writer, path string, store storage.Store, chanSize int) (int, int, error) {
	lines, err := common.ReadStatements(path)
	if err != nil {
		return 0, 0, err
	}
	fmt.Fprintf(w, "Processing file %s\n\n", path)
	ok, failed := 0, 0
	for idx, stm := range lines {
		fmt.Fprintf(w, "Processing statement (%d/%d):\n%s\n\n", idx+1, len(lines), stm)
		tbl, err := IQL(ctx, stm, store, chanSize)
		if err != nil {
			fmt.Fprintf(w, "[FAIL] %v\n\n", err)
			failed++
			continue
		}
		fmt.Fprintln(w, "Result:")
		if tbl.NumRows() > 0 {
			fmt.Fprintln(w, tbl)
		}
		fmt.Fprintf(w, "OK\n\n")
		ok++
	}
	slog.InfoContext(ctx, "statement file processed", "path", path, "ok", ok, "failed", failed)
	return ok, failed, nil
}

// IQL attempts to execute the provided statement against the given store.
// Parsing failures are returned unwrapped so callers can inspect them.
func IQL(ctx context.Context, line string, s storage.Store, chanSize int) (*table.Table, error) {
	stm, err := iql.Parse(line)
	if err != nil {
		return nil, err
	}
	pln, err := planner.New(ctx, s, stm, chanSize)
	if err != nil {
		return nil, fmt.Errorf("failed to plan statement %q: %w", line, err)
	}
	slog.DebugContext(ctx, "executing plan", "plan", pln.String())
	res, err := pln.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute statement %q: %w", line, err)
	}
	return res, nil
}
