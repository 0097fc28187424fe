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

// Package common contains share functionality for the command line tool
// commands.
package common

import (
	"bufio"
	"os"
	"strings"
)

// ReadStatements reads the statements in a file, one per line. Blank lines
// and lines starting with # are skipped, and a trailing ; is dropped.
func ReadStatements(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		l := strings.TrimSpace(scanner.Text())
		if len(l) == 0 || strings.HasPrefix(l, "#") {
			continue
		}
		l = strings.TrimSpace(strings.TrimSuffix(l, ";"))
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines, scanner.Err()
}

// ExtractFlag removes every --name=value argument from args. It returns the
// value of the last one, if any, and the remaining arguments.
func ExtractFlag(args []string, name string) (string, []string) {
	var (
		val  string
		rest []string
	)
	prefix := "--" + name + "="
	for _, a := range args {
		if strings.HasPrefix(a, prefix) {
			val = strings.TrimPrefix(a, prefix)
			continue
		}
		rest = append(rest, a)
	}
	return val, rest
}
