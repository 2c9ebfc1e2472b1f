// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the syntax tree of an Hjson value.
package cursor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/creachadair/hjtree/ast"
	"github.com/creachadair/hjtree/jpath"
)

// ParsePath converts a selector into path elements suitable for Cursor.Down.
//
// A selector beginning with "$" is a JSONPath expression, parsed by the jpath
// package, and may use member and single-index steps, as in
// "$.servers[0].name".
//
// Any other selector is a dotted shorthand such as "servers.0.name". Segments
// that parse as integers become indices; all others become object keys. A
// segment may be written in double quotes to use a key containing dots or
// digits, as in `labels."app.kubernetes.io".0`. An empty selector yields an
// empty path.
func ParsePath(sel string) ([]any, error) {
	if sel == "" {
		return nil, nil
	} else if strings.HasPrefix(sel, "$") {
		e, err := jpath.Parse(sel)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", sel, err)
		}
		return e.Path()
	}
	var path []any
	rest := sel
	for {
		if strings.HasPrefix(rest, `"`) {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quoted segment in %q", sel)
			}
			path = append(path, rest[1:end+1])
			rest = rest[end+2:]
		} else {
			end := strings.IndexByte(rest, '.')
			if end < 0 {
				end = len(rest)
			}
			seg := rest[:end]
			if seg == "" {
				return nil, fmt.Errorf("empty segment in %q", sel)
			} else if n, err := strconv.Atoi(seg); err == nil {
				path = append(path, n)
			} else {
				path = append(path, seg)
			}
			rest = rest[end:]
		}

		if rest == "" {
			return path, nil
		} else if rest[0] != '.' {
			return nil, fmt.Errorf("invalid selector %q", sel)
		}
		rest = rest[1:]
		if rest == "" {
			return nil, fmt.Errorf("empty segment in %q", sel)
		}
	}
}

// Path follows path from v, as Cursor.Down does, and returns the value it
// reaches. It reports an error if the path cannot be followed or the value
// reached is not of type T.
func Path[T ast.Value](v ast.Value, path ...any) (T, error) {
	var zero T
	c := New(v).Down(path...)
	if err := c.Err(); err != nil {
		return zero, err
	}
	out, ok := c.Value().(T)
	if !ok {
		return zero, fmt.Errorf("wrong value type %T", c.Value())
	}
	return out, nil
}

// A Cursor is a position within the structure of an ast.Value.
type Cursor struct {
	cur ast.Value
	err error
}

// New constructs a Cursor positioned at origin.
func New(origin ast.Value) *Cursor { return &Cursor{cur: origin} }

// Value reports the value under the cursor.
func (c *Cursor) Value() ast.Value { return c.cur }

// Err reports the error from the most recent call to Down, if any.
func (c *Cursor) Err() error { return c.err }

// Down follows path from the current value and returns c. If some element of
// the path cannot be followed, the cursor stops at the last value it reached
// and Err reports why.
//
// A string element selects the member of an object with that key. The cursor
// then rests on the *ast.Member, and a following element applies to the
// member's value. A final nil element steps from a member to its value.
//
// An int element selects an element of an array or a member of an object by
// offset. Negative offsets count back from the end, so -1 is the last.
//
// A function element of type
//
//	func(ast.Value) (ast.Value, error)
//
// is called with the current value, and its result becomes the next value.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil
	for _, elt := range path {
		if m, ok := c.cur.(*ast.Member); ok {
			c.cur = m.Value
		}
		next, err := step(c.cur, elt)
		if err != nil {
			c.err = err
			break
		}
		c.cur = next
	}
	return c
}

// step returns the value reached from v by a single path element.
func step(v ast.Value, elt any) (ast.Value, error) {
	switch t := elt.(type) {
	case nil:
		return v, nil

	case string:
		obj, ok := v.(ast.Object)
		if !ok {
			return nil, fmt.Errorf("cannot select key %q from %T", t, v)
		}
		if m := obj.Find(t); m != nil {
			return m, nil
		}
		return nil, fmt.Errorf("key %q not found", t)

	case int:
		switch e := v.(type) {
		case ast.Array:
			if i, ok := offset(len(e), t); ok {
				return e[i], nil
			}
			return nil, fmt.Errorf("array index %d out of bounds (n=%d)", t, len(e))
		case ast.Object:
			if i, ok := offset(len(e), t); ok {
				return e[i], nil
			}
			return nil, fmt.Errorf("object index %d out of bounds (n=%d)", t, len(e))
		}
		return nil, fmt.Errorf("cannot select index %d from %T", t, v)

	case func(ast.Value) (ast.Value, error):
		return t(v)
	}
	return nil, fmt.Errorf("invalid path element %T", elt)
}

// offset resolves i against a sequence of length n, counting negative values
// from the end.
func offset(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
