// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package jpath implements a minimal JSONPath expression parser.
//
// Expressions name values inside an Hjson tree. The member and index steps of
// an expression can be lowered to a cursor path with Expr.Path; the other
// operators are parsed and printed but not evaluated.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = ".." name
  step = "[" value "]"
  step = "[" slice "]"
  name = WORD
  name = "'" QTEXT "'"
  name = '"' DTEXT '"'
  name = "*"
 value = name
 value = INDEX
 value = script
 value = filter
 slice = INDEX ":" INDEX
script = "(" TEXT ")"
filter = "?(" TEXT ")"

  WORD = RE `[\pL\pN_$-]+`
 QTEXT = RE `[^']*`
 DTEXT = RE `[^"]*`
 INDEX = RE `-?\d+(,-?\d+)*`
  TEXT = { all text with nested parentheses }

Source:
  https://www.ietf.org/archive/id/draft-goessner-dispatch-jsonpath-00.html
*/

// An Expr is a parsed JSONPath expression.
type Expr []Step

// Parse parses s as a JSONPath expression.
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return Expr{}, errors.New("missing root marker")
	}
	var e Expr
	for t != "" {
		step, rest, err := parseStep(t)
		if err != nil {
			return Expr{}, fmt.Errorf("at %q: %w", t, err)
		}
		e = append(e, step)
		t = rest
	}
	return e, nil
}

// Path lowers e to a sequence of path elements for a cursor: a string for
// each member step and an int for each single-index step. It reports an
// error for wildcards, recursion, slices, index lists, filters and scripts.
func (e Expr) Path() ([]any, error) {
	path := make([]any, 0, len(e))
	for _, s := range e {
		switch s.Op {
		case Member:
			if s.Arg2 == Wildcard.String() {
				return nil, errors.New("wildcard members are not supported")
			}
			path = append(path, s.Arg1)
		case Name, QName:
			path = append(path, s.Arg1)
		case Index:
			n, err := strconv.Atoi(s.Arg1)
			if err != nil {
				return nil, fmt.Errorf("index %q is not a single offset", s.Arg1)
			}
			path = append(path, n)
		default:
			return nil, fmt.Errorf("%v steps are not supported", s.Op)
		}
	}
	return path, nil
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		switch s.Op {
		case Member, Recur:
			if s.Arg2 == QName.String() {
				fmt.Fprintf(&buf, "%s'%s'", s.Op, s.Arg1)
			} else {
				fmt.Fprint(&buf, s.Op, s.Arg1)
			}
		case Slice:
			fmt.Fprintf(&buf, "[%s:%s]", s.Arg1, s.Arg2)
		case Script:
			fmt.Fprintf(&buf, "[(%s)]", s.Arg1)
		case Filter:
			fmt.Fprintf(&buf, "[?(%s)]", s.Arg1)
		case QName:
			fmt.Fprintf(&buf, "['%s']", s.Arg1)
		default:
			fmt.Fprintf(&buf, "[%s]", s.Arg1)
		}
	}
	return buf.String()
}

func parseStep(s string) (_ Step, rest string, _ error) {
	for _, op := range []Op{Recur, Member} {
		if t, ok := strings.CutPrefix(s, op.String()); ok {
			kind, name, u, err := parseName(t)
			if err != nil {
				return Step{}, s, fmt.Errorf("invalid %sname: %w", op, err)
			}
			return Step{Op: op, Arg1: name, Arg2: kind.String()}, u, nil
		}
	}

	t, ok := strings.CutPrefix(s, "[")
	if !ok {
		return Step{}, s, errors.New("invalid path step")
	}
	kind, val, u, err := parseValue(t)
	if err != nil {
		return Step{}, t, err
	}
	out := Step{Op: kind, Arg1: val}
	if out.Op == Slice {
		if arg2, rest, ok := parseIndex(u); ok {
			out.Arg2, u = arg2, rest
		} else if out.Arg1 == "" {
			return Step{}, u, errors.New("invalid slice")
		}
	}
	u, ok = strings.CutPrefix(u, "]")
	if !ok {
		return Step{}, u, errors.New("missing close bracket")
	}
	return out, u, nil
}

func parseName(s string) (kind Op, name, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return Wildcard, "*", t, nil
	}
	if m := wordRE.FindStringSubmatch(s); m != nil {
		return Name, m[1], s[len(m[0]):], nil
	}
	for _, re := range []*regexp.Regexp{squoteRE, dquoteRE} {
		if m := re.FindStringSubmatch(s); m != nil {
			return QName, m[1], s[len(m[0]):], nil
		}
	}
	return Invalid, "", s, errors.New("invalid name")
}

func parseIndex(s string) (text, rest string, ok bool) {
	if m := indexRE.FindStringSubmatch(s); m != nil {
		return m[1], s[len(m[0]):], true
	}
	return "", s, false
}

func parseValue(s string) (kind Op, value, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "?("); ok {
		text, rest, err := parseScript(t)
		return Filter, text, rest, err
	}
	if t, ok := strings.CutPrefix(s, "("); ok {
		text, rest, err := parseScript(t)
		return Script, text, rest, err
	}
	if text, rest, ok := parseIndex(s); ok {
		if u, ok := strings.CutPrefix(rest, ":"); ok {
			return Slice, text, u, nil
		}
		return Index, text, rest, nil
	}
	if u, ok := strings.CutPrefix(s, ":"); ok {
		return Slice, "", u, nil
	}
	if kind, text, rest, err := parseName(s); err == nil {
		return kind, text, rest, nil
	}
	return Invalid, "", s, fmt.Errorf("invalid value: %q", s)
}

// parseScript returns the text up to the parenthesis that closes an already
// consumed open parenthesis, and the remainder after it.
func parseScript(s string) (text, rest string, _ error) {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth--; depth == 0 {
				return s[:i], s[i+1:], nil
			}
		}
	}
	return "", s, errors.New("unbalanced parentheses")
}

var (
	wordRE   = regexp.MustCompile(`^([\pL\pN_$-]+)`)
	indexRE  = regexp.MustCompile(`^(-?\d+(?:,-?\d+)*)`)
	squoteRE = regexp.MustCompile(`^'([^']*)'`)
	dquoteRE = regexp.MustCompile(`^"([^"]*)"`)
)

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // invalid operator
	Member             // member lookup (.)
	Index              // array index lookup
	Slice              // array slice
	Wildcard           // wildcard expansion (*)
	Name               // unquoted name expansion
	QName              // quoted name expansion
	Recur              // recur operator
	Filter             // filter operator
	Script             // script operator
)

var opText = [...]string{
	Invalid:  "invalid",
	Member:   ".",
	Index:    "index",
	Slice:    "slice",
	Wildcard: "*",
	Name:     "name",
	QName:    "qname",
	Recur:    "..",
	Filter:   "?(...)",
	Script:   "(...)",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return opText[Invalid]
}

// A Step is a single step of a JSONPath expression.
type Step struct {
	Op   Op
	Arg1 string
	Arg2 string // for Member and Recur, the kind of name; for Slice, the end
}
