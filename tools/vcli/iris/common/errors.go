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

package common

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/iris/iql/grammar"
	"github.com/google/iris/iql/semantic"
)

// ReportError prints err for the statement in line. Syntax errors are
// followed by a caret under the offending character of line.
func ReportError(w io.Writer, line string, err error) {
	var (
		se *grammar.SyntaxError
		ie *semantic.InvariantError
	)
	switch {
	case errors.As(err, &se):
		header := fmt.Sprintf("[ERROR] invalid syntax (chr %d): ", se.Column())
		caret := se.Caret()
		caret = caret[strings.LastIndex(caret, "\n")+1:]
		fmt.Fprintf(w, "%s%s\n%s%s\n\n", header, line, strings.Repeat(" ", len(header)), caret)
	case errors.As(err, &ie):
		slog.Error("internal compiler error", "statement", line, "error", ie)
		fmt.Fprintf(w, "[ERROR] internal error processing %q: %v\n\n", line, ie)
	default:
		fmt.Fprintf(w, "[ERROR] %v\n\n", err)
	}
}
