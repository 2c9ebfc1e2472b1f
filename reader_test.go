// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package hjtree_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/creachadair/hjtree"
	"github.com/google/go-cmp/cmp"
)

// rest consumes and returns all the remaining input from r.
func rest(t *testing.T, r *hjtree.Reader) string {
	t.Helper()
	var sb strings.Builder
	for {
		ch, ok, err := r.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		} else if !ok {
			return sb.String()
		}
		sb.WriteByte(ch)
	}
}

func TestReader(t *testing.T) {
	r := hjtree.NewReader(strings.NewReader("ab\nc"))

	mustPeek := func(n int, want byte) {
		t.Helper()
		got, ok, err := r.PeekAt(n)
		if err != nil || !ok {
			t.Fatalf("PeekAt(%d): got (%q, %v, %v), want %q", n, got, ok, err, want)
		} else if got != want {
			t.Errorf("PeekAt(%d): got %q, want %q", n, got, want)
		}
	}
	mustNext := func(want byte) {
		t.Helper()
		got, ok, err := r.Next()
		if err != nil || !ok {
			t.Fatalf("Next: got (%q, %v, %v), want %q", got, ok, err, want)
		} else if got != want {
			t.Errorf("Next: got %q, want %q", got, want)
		}
	}
	checkPos := func(line, col int) {
		t.Helper()
		want := hjtree.LineCol{Line: line, Column: col}
		if got := r.Pos(); got != want {
			t.Errorf("Pos: got %v, want %v", got, want)
		}
	}

	checkPos(1, 0)
	mustPeek(0, 'a')
	checkPos(1, 1)

	// Peeking further ahead advances the position as bytes are pulled.
	mustPeek(2, '\n')
	checkPos(2, 0)

	// Consuming buffered bytes does not move the position again.
	mustNext('a')
	checkPos(2, 0)

	// Pushback restores the byte to the front of the lookahead.
	r.Unread('a')
	mustPeek(0, 'a')
	mustNext('a')
	mustNext('b')
	mustNext('\n')
	checkPos(2, 0)
	mustNext('c')
	checkPos(2, 1)

	if ch, ok, err := r.Next(); err != nil || ok {
		t.Errorf("Next at EOF: got (%q, %v, %v), want (0, false, nil)", ch, ok, err)
	}
	if ch, ok, err := r.PeekAt(3); err != nil || ok {
		t.Errorf("PeekAt(3) at EOF: got (%q, %v, %v), want (0, false, nil)", ch, ok, err)
	}
	if ch, err := r.PeekOrZero(); err != nil || ch != 0 {
		t.Errorf("PeekOrZero at EOF: got (%q, %v), want (0, nil)", ch, err)
	}
	if ch, err := r.NextOrZero(); err != nil || ch != 0 {
		t.Errorf("NextOrZero at EOF: got (%q, %v), want (0, nil)", ch, err)
	}
}

func TestSkipInsignificant(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"x", "x"},
		{" \t\r\n x ", "x "},
		{"  # c\n// c\n/* c */123", "123"},
		{"# to EOF", ""},
		{"// to EOF", ""},
		{"#\n#\n\n", ""},
		{"/**/x", "x"},
		{"/***/x", "x"},
		{"/* a * b / c */ x", "x"},
		{"/*\n line\n*/\n\t{", "{"},
		{"// a\r\n/* b */ # c\n]", "]"},

		// A lone slash that does not start a comment is discarded.
		{"/ x", "x"},
		{"/x/y", "x/y"},
	}
	for _, tc := range tests {
		r := hjtree.NewReader(strings.NewReader(tc.input))
		if err := r.SkipInsignificant(); err != nil {
			t.Errorf("SkipInsignificant %q: unexpected error: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.want, rest(t, r)); diff != "" {
			t.Errorf("Input: %q\nRemainder: (-want, +got)\n%s", tc.input, diff)
		}
	}
}

func TestSkipInsignificant_strictSlash(t *testing.T) {
	r := hjtree.NewReader(strings.NewReader("  /usr/bin # path"))
	r.StrictSlash(true)
	if err := r.SkipInsignificant(); err != nil {
		t.Fatalf("SkipInsignificant: unexpected error: %v", err)
	}
	if got, want := rest(t, r), "/usr/bin # path"; got != want {
		t.Errorf("Remainder: got %q, want %q", got, want)
	}
}

func TestSkipInsignificant_errors(t *testing.T) {
	tests := []struct {
		input string
		want  hjtree.LineCol
	}{
		{"/* unterminated", hjtree.LineCol{Line: 1, Column: 15}},
		{"/*/", hjtree.LineCol{Line: 1, Column: 3}},
		{" /* one\ntwo *", hjtree.LineCol{Line: 2, Column: 5}},
		{"  /", hjtree.LineCol{Line: 1, Column: 3}},
	}
	for _, tc := range tests {
		r := hjtree.NewReader(strings.NewReader(tc.input))
		err := r.SkipInsignificant()
		var serr *hjtree.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("SkipInsignificant %q: got %v, want syntax error", tc.input, err)
			continue
		}
		if serr.Code != hjtree.TrailingCharacters {
			t.Errorf("SkipInsignificant %q: got code %v, want %v", tc.input, serr.Code, hjtree.TrailingCharacters)
		}
		if serr.Location != tc.want {
			t.Errorf("SkipInsignificant %q: got location %v, want %v", tc.input, serr.Location, tc.want)
		}
	}
}

func TestReaderIOError(t *testing.T) {
	errBoom := errors.New("boom")
	src := io.MultiReader(strings.NewReader("  # ok\n  "), iotest.ErrReader(errBoom))
	r := hjtree.NewReader(src)

	err := r.SkipInsignificant()
	if !errors.Is(err, errBoom) {
		t.Fatalf("SkipInsignificant: got %v, want %v", err, errBoom)
	}
	var ioerr *hjtree.IOError
	if !errors.As(err, &ioerr) {
		t.Fatalf("SkipInsignificant: got %T, want *IOError", err)
	}
	if want := (hjtree.LineCol{Line: 2, Column: 2}); ioerr.Location != want {
		t.Errorf("Location: got %v, want %v", ioerr.Location, want)
	}
}
