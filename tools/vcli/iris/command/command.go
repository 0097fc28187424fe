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

// Package command contains the definition of the iris command line tool
// commands.
package command

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Command is an implementation of an iris command. It is modeled after the
// go tool (https://github.com/golang/go/tree/master/src/cmd/go).
type Command struct {
	// Run runs the command. The args are the full command line arguments.
	// Run returns the exit code to be used.
	Run func(ctx context.Context, args []string) int

	// UsageLine is the one-line usage message.
	// The first word in the line is taken to be the command name.
	UsageLine string

	// Short is the short description shown in the 'iris help' output.
	Short string

	// Long is the long message shown in the 'iris help <this-command>' output.
	Long string
}

// Name returns the command's name: the first word in the usage line.
func (c *Command) Name() string {
	name := c.UsageLine
	i := strings.Index(name, " ")
	if i >= 0 {
		name = name[:i]
	}
	return name
}

// Usage prints the command usage.
func (c *Command) Usage() int {
	fmt.Fprintf(os.Stderr, "usage:\n\n\t$ iris %s\n\n", c.UsageLine)
	fmt.Fprintf(os.Stderr, "%s\n", strings.TrimSpace(c.Long))
	return 0
}

// Runnable reports whether the command can be run; otherwise
// it is a documentation pseudo-command.
func (c *Command) Runnable() bool {
	return c.Run != nil
}
