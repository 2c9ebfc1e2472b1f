// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/creachadair/hjtree/ast"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ast.FormatJSON(&buf, testDoc); err != nil {
		t.Fatalf("FormatJSON: unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("FormatJSON: output lacks a trailing newline: %q", out)
	}
	if !strings.Contains(out, "\n\t") && !strings.Contains(out, "\n ") {
		t.Errorf("FormatJSON: output is not indented: %q", out)
	}

	p := ast.NewParser(strings.NewReader(out))
	p.StrictJSON(true)
	got, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse JSON: unexpected error: %v\n%s", err, out)
	}
	if diff := cmp.Diff(testDoc, got); diff != "" {
		t.Errorf("JSON round trip: (-want, +got)\n%s", diff)
	}
}

func TestFormatYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := ast.FormatYAML(&buf, testDoc); err != nil {
		t.Fatalf("FormatYAML: unexpected error: %v", err)
	}
	out := buf.String()

	var got struct {
		Name   string         `yaml:"name"`
		Count  int            `yaml:"count"`
		Tags   []string       `yaml:"tags"`
		Empty  map[string]any `yaml:"empty"`
		Note   string         `yaml:"note"`
		Quoted string         `yaml:"quoted"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal YAML: unexpected error: %v\n%s", err, out)
	}
	if got.Name != "hjson" || got.Count != 3 || got.Note != "two\nlines" || got.Quoted != "true" {
		t.Errorf("FormatYAML: wrong values %+v\n%s", got, out)
	}
	if diff := cmp.Diff([]string{"a", "b c"}, got.Tags); diff != "" {
		t.Errorf("FormatYAML tags: (-want, +got)\n%s", diff)
	}

	// Members keep their order.
	last := -1
	for _, key := range testDoc.Keys() {
		pos := strings.Index(out, "\n"+key+":")
		if strings.HasPrefix(out, key+":") {
			pos = 0
		}
		if pos < 0 || pos < last {
			t.Errorf("FormatYAML: key %q out of order (at %d, previous %d)\n%s", key, pos, last, out)
		}
		last = pos
	}
}

func TestFromJWCC(t *testing.T) {
	got, err := ast.FromJWCC(strings.NewReader(`// A configuration.
{
  "name": "demo", // inline
  /* block */ "list": [1, 2, 3,],
  "nested": {"ok": true,},
}
`))
	if err != nil {
		t.Fatalf("FromJWCC: unexpected error: %v", err)
	}
	want := ast.Object{
		ast.Field("name", "demo"),
		ast.Field("list", ast.ArrayOf(1, 2, 3)),
		ast.Field("nested", ast.Object{ast.Field("ok", true)}),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromJWCC: (-want, +got)\n%s", diff)
	}

	t.Run("Invalid", func(t *testing.T) {
		for _, input := range []string{`{name: "bare key"}`, `{"a": 1`, `'single'`} {
			if v, err := ast.FromJWCC(strings.NewReader(input)); err == nil {
				t.Errorf("FromJWCC %q: got %v, want error", input, v)
			}
		}
	})
}
