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
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/iris/iql/completion"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadStatements(t *testing.T) {
	path := writeFile(t, "stms.iql", "# comment\nfind 10\n\n  count where iso > 3;  \n;\ntag 'a' where x = 1\n")
	got, err := ReadStatements(path)
	if err != nil {
		t.Fatalf("common.ReadStatements should have never failed; got %v", err)
	}
	want := []string{"find 10", "count where iso > 3", "tag 'a' where x = 1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("common.ReadStatements returned the wrong statements (-want +got):\n%s", diff)
	}
	if _, err := ReadStatements(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("common.ReadStatements should fail for missing files")
	}
}

func TestExtractFlag(t *testing.T) {
	v, rest := ExtractFlag([]string{"iris", "--config=a.yaml", "shell", "--config=b.yaml"}, "config")
	if v != "b.yaml" {
		t.Errorf("common.ExtractFlag should return the last value; got %q", v)
	}
	if diff := cmp.Diff([]string{"iris", "shell"}, rest); diff != "" {
		t.Errorf("common.ExtractFlag returned the wrong arguments (-want +got):\n%s", diff)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("common.LoadConfig should have never failed; got %v", err)
	}
	if cfg.Prompt != "iris> " || cfg.BulkSize != 1000 || !cfg.Memoize || cfg.Log.Level != "info" {
		t.Errorf("common.LoadConfig returned the wrong defaults; got %+v", cfg)
	}
	if diff := cmp.Diff(completion.DefaultFields, cfg.Fields); diff != "" {
		t.Errorf("common.LoadConfig returned the wrong default fields (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := writeFile(t, "iris.yaml", `prompt: "photos> "
fields: [caption, iso]
bulk_size: 10
memoize: false
data_files:
  - a.json
log:
  level: debug
  format: json
`)
	t.Setenv("IRIS_BULK_SIZE", "20")
	t.Setenv("IRIS_LOG_FORMAT", "text")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("common.LoadConfig(%q) should have never failed; got %v", path, err)
	}
	want := &Config{
		Prompt:    "photos> ",
		Fields:    []string{"caption", "iso"},
		BulkSize:  20,
		DataFiles: []string{"a.json"},
		Log:       LogConfig{Level: "debug", Format: "text"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("common.LoadConfig(%q) returned the wrong config (-want +got):\n%s", path, diff)
	}
}

func TestLoadConfigFailures(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("common.LoadConfig should fail for missing explicit files")
	}
	path := writeFile(t, "bad.yaml", "bulk_size: 0\n")
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("common.LoadConfig should reject a zero bulk size")
	}
}

func TestInitLogging(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	var b bytes.Buffer
	l, err := InitLogging(LogConfig{Level: "warn", Format: "json"}, &b)
	if err != nil {
		t.Fatalf("common.InitLogging should have never failed; got %v", err)
	}
	l.Info("hidden")
	slog.Warn("shown", "k", "v")
	if got := b.String(); strings.Contains(got, "hidden") || !strings.Contains(got, `"msg":"shown"`) {
		t.Errorf("common.InitLogging should log warnings as JSON only; got %q", got)
	}
	for _, cfg := range []LogConfig{{Level: "loud"}, {Level: "info", Format: "xml"}} {
		if _, err := InitLogging(cfg, &b); err == nil {
			t.Errorf("common.InitLogging(%+v) should have failed", cfg)
		}
	}
}
