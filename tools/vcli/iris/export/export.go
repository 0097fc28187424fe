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

// Package export contains the command allowing to dump all the records of the
// store into a file.
package export

import (
	"context"
	"fmt"
	"io"
	"os"

	catalogio "github.com/google/iris/io"
	"github.com/google/iris/storage"
	"github.com/google/iris/tools/vcli/iris/command"
)

// New creates the export command.
func New(store storage.Store) *command.Command {
	cmd := &command.Command{
		UsageLine: "export <file_path>",
		Short:     "export all records in the store into a file.",
		Long: `Export all the records in the store into the provided text file, one
JSON object per line. The output can be loaded back with the load command.`,
	}
	cmd.Run = func(ctx context.Context, args []string) int {
		return Eval(ctx, os.Stdout, cmd.UsageLine+"\n\n"+cmd.Long, args, store)
	}
	return cmd
}

// Eval exports the records of the store as indicated by the command.
func Eval(ctx context.Context, w io.Writer, usage string, args []string, store storage.Store) int {
	if len(args) < 3 {
		fmt.Fprintf(w, "[ERROR] Missing required file path.\n\n%s", usage)
		return 2
	}
	path := args[len(args)-1]
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(w, "[ERROR] Failed to open target file %q with error %v.\n\n", path, err)
		return 2
	}
	cnt, err := catalogio.WriteStore(ctx, f, store)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(w, "[ERROR] Failed to export records to %q after %d were written, %v.\n\n", path, cnt, err)
		return 2
	}
	fmt.Fprintf(w, "Successfully written %d records to file %q.\n", cnt, path)
	return 0
}
