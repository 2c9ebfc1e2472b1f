// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/creachadair/hjtree"
	"github.com/google/go-cmp/cmp"
)

const testInput = `# service settings
name: demo
ports: [80, 443]
tls: {
  enabled: true
}
`

func runTest(t *testing.T, input string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	exit := func(code int) { t.Fatalf("unexpected exit(%d)", code) }
	err = run(context.Background(), exit, args, strings.NewReader(input), &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Hjson", nil, "{\n  name: demo\n  ports: [\n    80\n    443\n  ]\n  tls: {\n    enabled: true\n  }\n}\n"},
		{"Compact", []string{"-c"}, `{"name":"demo","ports":[80,443],"tls":{"enabled":true}}` + "\n"},
		{"Select", []string{"-c", "--select", "ports.1"}, "443\n"},
		{"SelectMember", []string{"--select", "tls.enabled"}, "true\n"},
		{"SelectJSONPath", []string{"-c", "--select", "$.ports[-1]"}, "443\n"},
		{"SelectJSONPathMember", []string{"--select", "$['tls'].enabled"}, "true\n"},
		{"OmitBraces", []string{"--select", "tls", "--omit-root-braces"}, "enabled: true\n"},
		{"Quoted", []string{"--select", "name", "--quote-always"}, "\"demo\"\n"},
		{"Indent", []string{"--select", "ports", "--indent", "\t"}, "[\n\t80\n\t443\n]\n"},
		{"YAML", []string{"-y", "--select", "tls"}, "enabled: true\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, stderr, err := runTest(t, testInput, tc.args...)
			if err != nil {
				t.Fatalf("run %q: unexpected error: %v\n%s", tc.args, err, stderr)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("run %q: (-want, +got)\n%s", tc.args, diff)
			}
		})
	}
}

func TestRunJSON(t *testing.T) {
	got, _, err := runTest(t, testInput, "-j")
	if err != nil {
		t.Fatalf("run -j: unexpected error: %v", err)
	}
	// Pretty JSON re-reads as the same compact form.
	compact, _, err := runTest(t, got, "-c", "--strict")
	if err != nil {
		t.Fatalf("run -c --strict: unexpected error: %v", err)
	}
	if want := `{"name":"demo","ports":[80,443],"tls":{"enabled":true}}` + "\n"; compact != want {
		t.Errorf("Round trip: got %q, want %q", compact, want)
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.hjson")
	if err := os.WriteFile(path, []byte("[\n  a, b\n  c\n]"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, _, err := runTest(t, "", "-c", path)
	if err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}
	if want := `["a, b","c"]` + "\n"; got != want {
		t.Errorf("run: got %q, want %q", got, want)
	}
}

func TestRunErrors(t *testing.T) {
	t.Run("Syntax", func(t *testing.T) {
		_, stderr, err := runTest(t, "{\n  a: 1\n  b 2\n}")
		var serr *hjtree.SyntaxError
		if !errors.As(err, &serr) {
			t.Fatalf("run: got %v, want syntax error", err)
		}
		for _, want := range []string{"run failed", "line=3", "column=5"} {
			if !strings.Contains(stderr, want) {
				t.Errorf("Log output missing %q:\n%s", want, stderr)
			}
		}
	})
	t.Run("JSONLog", func(t *testing.T) {
		_, stderr, err := runTest(t, "[1, 2", "--log-format", "json")
		if err == nil {
			t.Fatal("run: got nil error")
		}
		if !strings.Contains(stderr, `"msg":"run failed"`) {
			t.Errorf("Log output is not JSON:\n%s", stderr)
		}
	})
	t.Run("Duplicates", func(t *testing.T) {
		if _, _, err := runTest(t, "{a: 1, a: 2}", "--no-duplicates"); err == nil {
			t.Error("run: got nil error for duplicate key")
		}
	})
	t.Run("Braces", func(t *testing.T) {
		got, _, err := runTest(t, "a: 1", "--require-braces", "-c")
		if err != nil {
			t.Fatalf("run: unexpected error: %v", err)
		}
		if got != `"a: 1"`+"\n" {
			t.Errorf("run: got %q", got)
		}
	})
	t.Run("Select", func(t *testing.T) {
		if _, _, err := runTest(t, testInput, "--select", "ports.9"); err == nil {
			t.Error("run: got nil error for bad selection")
		}
		if _, _, err := runTest(t, testInput, "--select", "a..b"); err == nil {
			t.Error("run: got nil error for bad selector")
		}
		if _, _, err := runTest(t, testInput, "--select", "$..ports"); err == nil {
			t.Error("run: got nil error for unsupported JSONPath step")
		}
	})
	t.Run("MissingFile", func(t *testing.T) {
		_, _, err := runTest(t, "", filepath.Join(t.TempDir(), "nonesuch"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("run: got %v, want %v", err, os.ErrNotExist)
		}
	})
	t.Run("ConflictingFlags", func(t *testing.T) {
		if _, _, err := runTest(t, testInput, "-j", "-y"); err == nil {
			t.Error("run: got nil error for -j -y")
		}
	})
}
