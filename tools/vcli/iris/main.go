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

// The iris command line tool allows you to query photo catalogs via IQL.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/iris/storage"
	"github.com/google/iris/storage/memoization"
	"github.com/google/iris/storage/memory"
	"github.com/google/iris/tools/vcli/iris/command"
	"github.com/google/iris/tools/vcli/iris/common"
	"github.com/google/iris/tools/vcli/iris/export"
	"github.com/google/iris/tools/vcli/iris/load"
	"github.com/google/iris/tools/vcli/iris/repl"
	"github.com/google/iris/tools/vcli/iris/run"
	"github.com/google/iris/tools/vcli/iris/version"
)

// registerCommands returns the available commands. Please keep sorted.
func registerCommands(store storage.Store, cfg *common.Config) []*command.Command {
	return []*command.Command{
		export.New(store),
		load.New(store, cfg.BulkSize),
		run.New(store, cfg.ChannelSize),
		repl.New(store, cfg),
		version.New(),
	}
}

func main() {
	ctx := context.Background()
	path, args := common.ExtractFlag(os.Args, "config")
	cfg, err := common.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(2)
	}
	if _, err := common.InitLogging(cfg.Log, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(2)
	}
	store := newStore(cfg)
	if len(cfg.DataFiles) > 0 {
		cnt, err := load.Files(ctx, store, cfg.DataFiles, cfg.BulkSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Failed to preload data files: %v\n", err)
			os.Exit(2)
		}
		slog.InfoContext(ctx, "preloaded data files", "files", cfg.DataFiles, "records", cnt)
	}
	os.Exit(dispatch(ctx, registerCommands(store, cfg), args))
}

// newStore returns the store backing the commands.
func newStore(cfg *common.Config) storage.Store {
	s := memory.NewStore()
	if cfg.Memoize {
		return memoization.New(s)
	}
	return s
}

// dispatch runs the command named in args and returns its exit code.
func dispatch(ctx context.Context, cmds []*command.Command, args []string) int {
	// Retrieve the provided command.
	cmd := ""
	if len(args) >= 2 {
		cmd = args[1]
	}
	// Check for help request.
	if cmd == "help" {
		return help(cmds, args)
	}
	// Run the requested command.
	for _, c := range cmds {
		if c.Name() == cmd && c.Runnable() {
			return c.Run(ctx, args)
		}
	}
	// The command was not found.
	if cmd == "" {
		fmt.Fprintf(os.Stderr, "missing command. Usage:\n\n\t$ iris [command]\n\nPlease run\n\n\t$ iris help\n\n")
	} else {
		fmt.Fprintf(os.Stderr, "command %q not recognized. Usage:\n\n\t$ iris [command]\n\nPlease run\n\n\t$ iris help\n\n", cmd)
	}
	return 1
}

// help prints the requested help.
func help(cmds []*command.Command, args []string) int {
	var cmd string
	if len(args) >= 3 {
		cmd = args[2]
	}
	// Prints the help if the command exist.
	for _, c := range cmds {
		if c.Name() == cmd {
			return c.Usage()
		}
	}
	if cmd == "" {
		fmt.Fprintf(os.Stderr, "missing help command. Usage:\n\n\t$ iris help [command]\n\nAvailable help commands\n\n")
		for _, c := range cmds {
			fmt.Fprintf(os.Stderr, "\t%s\t- %s\n", c.Name(), c.Short)
		}
		fmt.Fprintln(os.Stderr, "")
		return 0
	}
	fmt.Fprintf(os.Stderr, "help command %q not recognized. Usage:\n\n\t$ iris help\n\n", cmd)
	return 2
}
