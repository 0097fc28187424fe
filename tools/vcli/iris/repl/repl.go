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

// Package repl contains the implementation of the interactive shell that runs
// IQL statements.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/google/iris/iql/completion"
	"github.com/google/iris/iql/version"
	"github.com/google/iris/storage"
	"github.com/google/iris/tools/vcli/iris/command"
	"github.com/google/iris/tools/vcli/iris/common"
	"github.com/google/iris/tools/vcli/iris/export"
	"github.com/google/iris/tools/vcli/iris/load"
	"github.com/google/iris/tools/vcli/iris/run"
)

// shellCommands are the words the shell handles itself. Please keep sorted.
var shellCommands = []string{"export", "help", "load", "quit", "run", "version"}

// New creates the shell command.
func New(store storage.Store, cfg *common.Config) *command.Command {
	return &command.Command{
		Run: func(ctx context.Context, args []string) int {
			var rl LineReader
			if isTerminal(os.Stdin) {
				rl = NewInteractive(completion.New(cfg.Fields), cfg.HistoryFile)
			} else {
				rl = NewNonInteractive(os.Stdin)
			}
			defer rl.Close()
			return REPL(ctx, store, rl, os.Stdout, cfg)
		},
		UsageLine: "shell",
		Short:     "starts a REPL to run IQL statements.",
		Long: `Starts a REPL from the command line to accept IQL statements. Type
quit; to leave the REPL. When attached to a terminal, the REPL keeps a history
and completes statements with the tab key.`,
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// LineReader provides the lines typed into the shell. Prompt returns io.EOF
// when there is no more input.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// noninteractive blindly reads lines from the input. Useful when statements
// are piped from a file or another program.
type noninteractive struct {
	input *bufio.Reader
}

// NewNonInteractive returns a LineReader that reads lines from r without
// echoing any prompt.
func NewNonInteractive(r io.Reader) LineReader {
	return &noninteractive{bufio.NewReader(r)}
}

func (i *noninteractive) Prompt(string) (string, error) {
	l, err := i.input.ReadString('\n')
	if err == io.EOF && l != "" {
		return l, nil
	}
	return l, err
}

func (i *noninteractive) AppendHistory(string) {}

func (i *noninteractive) Close() error {
	return nil
}

// interactive provides line editing, history and completion on a terminal.
type interactive struct {
	line    *liner.State
	history string
}

// NewInteractive returns a LineReader that prompts the user on the terminal.
// The history is read from and saved to the history file when one is given.
func NewInteractive(c *completion.Completer, history string) LineReader {
	i := &interactive{
		line:    liner.NewLiner(),
		history: history,
	}
	i.line.SetCtrlCAborts(true)
	i.line.SetTabCompletionStyle(liner.TabPrints)
	i.line.SetWordCompleter(WordCompleter(c))
	if history != "" {
		if f, err := os.Open(history); err == nil {
			if _, err := i.line.ReadHistory(f); err != nil {
				slog.Warn("failed to read shell history", "path", history, "error", err)
			}
			f.Close()
		}
	}
	return i
}

func (i *interactive) Prompt(prompt string) (string, error) {
	l, err := i.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	return l, err
}

func (i *interactive) AppendHistory(line string) {
	i.line.AppendHistory(line)
}

func (i *interactive) Close() error {
	if i.history != "" {
		if f, err := os.Create(i.history); err != nil {
			slog.Warn("failed to save shell history", "path", i.history, "error", err)
		} else {
			if _, err := i.line.WriteHistory(f); err != nil {
				slog.Warn("failed to save shell history", "path", i.history, "error", err)
			}
			f.Close()
		}
	}
	return i.line.Close()
}

// WordCompleter returns a liner completer that replaces the word under the
// cursor with the candidates of c. Placeholders like <value> are dropped since
// liner inserts whatever it is given. Candidates that do not extend a complete
// word, like WHERE after count, are appended to it. While typing the first
// word the shell commands are offered too.
func WordCompleter(c *completion.Completer) liner.WordCompleter {
	return func(line string, pos int) (string, []string, string) {
		rs := []rune(line)
		if pos > len(rs) {
			pos = len(rs)
		}
		head, tail := string(rs[:pos]), string(rs[pos:])
		word := completion.Word(head)
		var cands []string
		for _, cand := range c.Complete(word, head) {
			if completion.IsPlaceholder(cand) {
				continue
			}
			if word != "" && !strings.HasPrefix(strings.ToLower(cand), strings.ToLower(word)) {
				cand = word + " " + cand
			}
			cands = append(cands, cand)
		}
		if !strings.ContainsAny(strings.TrimLeft(head, " \t"), " \t") {
			for _, cmd := range shellCommands {
				if strings.HasPrefix(cmd, word) {
					cands = append(cands, cmd+" ")
				}
			}
		}
		return head[:len(head)-len(word)], cands, tail
	}
}

// REPL starts a read-evaluation-print-loop to run IQL statements. It reads
// from rl until quit or the end of the input, and prints into w.
func REPL(ctx context.Context, store storage.Store, rl LineReader, w io.Writer, cfg *common.Config) int {
	fmt.Fprintf(w, "Welcome to iris vCli (%s)\n", version.String())
	fmt.Fprintf(w, "Using store %q. Type quit; to exit\n", store.Name(ctx))
	fmt.Fprintf(w, "Session started at %v\n\n", time.Now().Format(time.RFC1123))
	defer func() {
		fmt.Fprintf(w, "\n\nThanks for all those IQL queries!\n\n")
	}()
	for {
		line, err := rl.Prompt(cfg.Prompt)
		if err == io.EOF {
			return 0
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to read input", "error", err)
			return 2
		}
		l := strings.TrimSpace(line)
		if l == "" {
			continue
		}
		rl.AppendHistory(l)
		l = strings.TrimSpace(strings.TrimSuffix(l, ";"))
		args := strings.Fields(l)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "quit", "exit":
			return 0
		case "help":
			printHelp(w)
		case "version":
			fmt.Fprintf(w, "iris vCli (%s)\n\n", version.String())
		case "load":
			usage := "Wrong syntax\n\n\tload <file_paths_separated_by_commas>\n"
			load.Eval(ctx, w, usage, append([]string{"iris"}, args...), store, cfg.BulkSize)
			fmt.Fprintln(w)
		case "export":
			usage := "Wrong syntax\n\n\texport <file_path>\n"
			export.Eval(ctx, w, usage, append([]string{"iris"}, args...), store)
			fmt.Fprintln(w)
		case "run":
			if len(args) != 2 {
				fmt.Fprintf(w, "[ERROR] wrong syntax: run <file_with_iql_statements>\n\n")
				continue
			}
			ok, failed, err := run.File(ctx, w, args[1], store, cfg.ChannelSize)
			if err != nil {
				fmt.Fprintf(w, "[ERROR] failed to read file %q with error %v\n\n", args[1], err)
				continue
			}
			fmt.Fprintf(w, "Run %d IQL statements from %q; %d failed\n\n", ok+failed, args[1], failed)
		default:
			tbl, err := run.IQL(ctx, l, store, cfg.ChannelSize)
			if err != nil {
				common.ReportError(w, l, err)
				continue
			}
			if tbl.NumRows() > 0 {
				fmt.Fprintln(w, tbl.String())
			}
			fmt.Fprintln(w, "[OK]")
		}
	}
}

// printHelp prints help for the shell commands.
func printHelp(w io.Writer) {
	fmt.Fprintln(w, "help                              - prints help for the iris shell.")
	fmt.Fprintln(w, "load <files_separated_by_commas>  - loads JSON records into the store.")
	fmt.Fprintln(w, "export <file>                     - writes all the records into a file.")
	fmt.Fprintln(w, "run <file_with_iql_statements>    - runs the statements in the file.")
	fmt.Fprintln(w, "version                           - prints the shell version.")
	fmt.Fprintln(w, "quit                              - quits the shell.")
	fmt.Fprintln(w, "find | count | tag ...            - runs an IQL statement.")
	fmt.Fprintln(w)
}
