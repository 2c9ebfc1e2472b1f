// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bytes"
	"errors"
	"io"

	"github.com/creachadair/hjtree"
	"github.com/creachadair/hjtree/internal/escape"
	"github.com/creachadair/mds/mapset"
	"go4.org/mem"
)

// Parse parses and returns a single Hjson value from r using default
// settings. See Parser for details.
func Parse(r io.Reader) (Value, error) { return NewParser(r).Parse() }

// A Parser parses a single Hjson value from an input stream.
//
// By default the parser accepts the full Hjson syntax: comments, quoteless
// keys and strings, single-quoted and multi-line strings, optional commas,
// and a root object without braces. A repeated object key replaces the value
// of the earlier member in place.
type Parser struct {
	r  *hjtree.Reader
	ns *hjtree.NumberScanner

	strict bool // accept only JSON syntax (plus comments)
	dupOK  bool // allow repeated object keys
	braces bool // require the root object to have braces

	buf []byte // scratch space for strings
}

// NewParser constructs a new Parser that consumes input from r.
func NewParser(r io.Reader) *Parser {
	hr := hjtree.NewReader(r)
	hr.StrictSlash(true) // a stray slash may begin a quoteless string
	return &Parser{r: hr, ns: hjtree.NewNumberScanner(hr), dupOK: true}
}

// StrictJSON configures the parser to accept (true) only JSON syntax, or
// (false) the full Hjson syntax. Comments are accepted in either mode.
// In strict mode keys and strings must be double-quoted, commas are
// required, and trailing commas are rejected.
func (p *Parser) StrictJSON(strict bool) { p.strict = strict }

// AllowDuplicateKeys configures the parser to allow (true) or reject (false)
// repeated keys in an object. If duplicates are rejected, a repeated key is
// reported as a DuplicateKey error.
func (p *Parser) AllowDuplicateKeys(ok bool) { p.dupOK = ok }

// RequireRootBraces configures the parser to require (true) that a root
// object be enclosed in braces. When false, a root object may omit them.
func (p *Parser) RequireRootBraces(ok bool) { p.braces = ok }

// Parse parses a single value from the input. Apart from whitespace and
// comments, the value must occupy the whole input. An empty input is parsed
// as an empty object, unless strict JSON or root braces are required.
//
// In case of a syntax error, the returned error has type *hjtree.SyntaxError.
// In case of a read error, it has type *hjtree.IOError.
func (p *Parser) Parse() (_ Value, err error) {
	defer p.recoverParseError(&err)

	v := p.parseRoot()
	p.skip()
	if _, ok := p.peek(); ok {
		p.fail(hjtree.TrailingCharacters)
	}
	return v, nil
}

type parseFault struct{ error }

func (p *Parser) recoverParseError(errp *error) {
	if x := recover(); x != nil {
		f, ok := x.(parseFault)
		if !ok {
			panic(x)
		}
		*errp = f.error
	}
}

func (p *Parser) fail(code hjtree.ErrorCode) { panic(parseFault{p.r.SyntaxError(code)}) }

func (p *Parser) check(err error) {
	if err != nil {
		panic(parseFault{err})
	}
}

func (p *Parser) skip() { p.check(p.r.SkipInsignificant()) }

func (p *Parser) peekAt(n int) (byte, bool) {
	ch, ok, err := p.r.PeekAt(n)
	p.check(err)
	return ch, ok
}

func (p *Parser) peek() (byte, bool) { return p.peekAt(0) }

func (p *Parser) next() (byte, bool) {
	ch, ok, err := p.r.Next()
	p.check(err)
	return ch, ok
}

// parseRoot parses the root value, which may be an object without braces.
func (p *Parser) parseRoot() Value {
	p.skip()
	ch, ok := p.peek()
	if !ok {
		if p.strict || p.braces {
			p.fail(hjtree.EOFWhileParsingValue)
		}
		return Object{}
	}
	if p.strict || p.braces || ch == '{' || ch == '[' {
		return p.parseValue()
	}

	switch ch {
	case '"', '\'':
		if p.isTriple() {
			return String(p.parseMultiline())
		}
		s := p.parseQuoted()
		p.skip()
		if next, ok := p.peek(); ok && next == ':' {
			return p.parseObject(false, &s)
		}
		return String(s)
	case '}', ']', ',', ':':
		p.fail(hjtree.FoundPunctuator)
	}

	// Read a candidate key. If a colon follows it, the root is an object
	// without braces; otherwise the text begins a quoteless value.
	p.buf = p.buf[:0]
	p.readName(true)
	n := len(p.buf)
	for {
		next, ok := p.peek()
		if ok && next == ':' && n != 0 {
			key := string(p.buf[:n])
			return p.parseObject(false, &key)
		} else if !ok || (next != ' ' && next != '\t') {
			break
		}
		p.next()
		p.buf = append(p.buf, next)
	}
	return p.parseQuoteless()
}

// parseValue parses a single value of any type.
func (p *Parser) parseValue() Value {
	p.skip()
	ch, ok := p.peek()
	if !ok {
		p.fail(hjtree.EOFWhileParsingValue)
	}
	switch ch {
	case '{':
		p.next()
		return p.parseObject(true, nil)
	case '[':
		p.next()
		return p.parseArray()
	case '"':
		return String(p.parseQuoted())
	case '\'':
		if p.strict {
			p.fail(hjtree.ExpectedSomeValue)
		} else if p.isTriple() {
			return String(p.parseMultiline())
		}
		return String(p.parseQuoted())
	}
	if p.strict {
		return p.parseLiteral(ch)
	} else if isPunctuator(ch) {
		p.fail(hjtree.FoundPunctuator)
	}
	p.buf = p.buf[:0]
	return p.parseQuoteless()
}

// parseObject parses the members of an object. If braces is true, the open
// brace has been consumed and the object ends at the matching close brace;
// otherwise the object ends at the end of input. If first != nil, the key of
// the first member has already been consumed.
func (p *Parser) parseObject(braces bool, first *string) Object {
	obj := Object{}
	seen := mapset.New[string]()
	needMember := false
	for {
		var key string
		if first != nil {
			key, first = *first, nil
		} else {
			p.skip()
			ch, ok := p.peek()
			if !ok {
				if braces {
					p.fail(hjtree.EOFWhileParsingObject)
				}
				return obj
			} else if ch == '}' {
				if !braces {
					p.fail(hjtree.TrailingCharacters)
				} else if needMember && p.strict {
					p.fail(hjtree.KeyMustBeAString)
				}
				p.next()
				return obj
			}
			key = p.parseKey(ch)
		}
		if !p.dupOK && seen.Has(key) {
			p.fail(hjtree.DuplicateKey)
		}

		p.skip()
		if ch, ok := p.peek(); !ok {
			p.fail(hjtree.EOFWhileParsingObject)
		} else if ch != ':' {
			p.fail(hjtree.ExpectedColon)
		}
		p.next()

		v := p.parseValue()
		if seen.Has(key) {
			obj.Find(key).Value = v
		} else {
			seen.Add(key)
			obj = append(obj, &Member{Key: key, Value: v})
		}

		// Members are separated by commas or newlines. A quoteless value runs
		// to the end of its line, so only a comma needs to be consumed here.
		p.skip()
		ch, ok := p.peek()
		needMember = ok && ch == ','
		if needMember {
			p.next()
		} else if p.strict && !ok {
			p.fail(hjtree.EOFWhileParsingObject)
		} else if p.strict && ch != '}' {
			p.fail(hjtree.ExpectedObjectCommaOrEnd)
		}
	}
}

// parseKey parses an object key beginning with ch.
func (p *Parser) parseKey(ch byte) string {
	switch {
	case ch == '"':
		return p.parseQuoted()
	case p.strict:
		p.fail(hjtree.KeyMustBeAString)
	case ch == '\'':
		if p.isTriple() {
			p.fail(hjtree.KeyMustBeAString)
		}
		return p.parseQuoted()
	case isPunctuator(ch):
		p.fail(hjtree.FoundPunctuator)
	}
	p.buf = p.buf[:0]
	p.readName(false)
	return string(p.buf)
}

// parseArray parses the elements of an array.
// Precondition: The open bracket has been consumed.
func (p *Parser) parseArray() Array {
	arr := Array{}
	needValue := false
	for {
		p.skip()
		ch, ok := p.peek()
		if !ok {
			p.fail(hjtree.EOFWhileParsingArray)
		} else if ch == ']' {
			if needValue && p.strict {
				p.fail(hjtree.ExpectedSomeValue)
			}
			p.next()
			return arr
		}
		arr = append(arr, p.parseValue())

		p.skip()
		ch, ok = p.peek()
		needValue = ok && ch == ','
		if needValue {
			p.next()
		} else if p.strict && !ok {
			p.fail(hjtree.EOFWhileParsingArray)
		} else if p.strict && ch != ']' {
			p.fail(hjtree.ExpectedArrayCommaOrEnd)
		}
	}
}

// parseLiteral parses a number or a keyword in strict JSON mode.
func (p *Parser) parseLiteral(ch byte) Value {
	if ch == '-' || isDigit(ch) {
		n, err := p.ns.Parse(true)
		p.check(err)
		return Number{n}
	}
	p.buf = p.buf[:0]
	for {
		ch, ok := p.peek()
		if !ok || ch < 'a' || ch > 'z' {
			break
		}
		p.next()
		p.buf = append(p.buf, ch)
	}
	v := keyword(p.buf)
	if v == nil {
		p.fail(hjtree.ExpectedSomeValue)
	}
	return v
}

// parseQuoted parses a string enclosed in double or single quotation marks.
func (p *Parser) parseQuoted() string {
	quote, _ := p.next()
	p.buf = p.buf[:0]
	for {
		ch, ok := p.next()
		if !ok {
			p.fail(hjtree.EOFWhileParsingString)
		}
		switch {
		case ch == quote:
			dec, err := escape.Unquote(mem.B(p.buf))
			if errors.Is(err, escape.ErrInvalidCodePoint) {
				p.fail(hjtree.InvalidUnicodeCodePoint)
			} else if err != nil {
				p.fail(hjtree.InvalidEscape)
			}
			return string(dec)
		case ch == '\\':
			esc, ok := p.next()
			if !ok {
				p.fail(hjtree.EOFWhileParsingString)
			}
			p.buf = append(p.buf, ch, esc)
		case ch == '\n' || ch == '\r' || (p.strict && ch < ' '):
			p.fail(hjtree.ControlCharacterInString)
		default:
			p.buf = append(p.buf, ch)
		}
	}
}

// isTriple reports whether the next three bytes of input are "'''".
func (p *Parser) isTriple() bool {
	for i := range 3 {
		if ch, ok := p.peekAt(i); !ok || ch != '\'' {
			return false
		}
	}
	return true
}

// parseMultiline parses a multi-line string. Leading whitespace on each line
// is removed up to the column of the opening quotes, carriage returns are
// dropped, and the final line break before the closing quotes is removed.
// Precondition: isTriple has reported true.
func (p *Parser) parseMultiline() string {
	indent := p.r.Pos().Column - p.r.Buffered()
	p.next()
	p.next()
	p.next()

	// Whitespace after the opening quotes up to the end of the line is not
	// part of the string.
	for {
		ch, ok := p.peek()
		if !ok || ch > ' ' || ch == '\n' {
			break
		}
		p.next()
	}
	if ch, ok := p.peek(); ok && ch == '\n' {
		p.next()
		p.skipIndent(indent)
	}

	p.buf = p.buf[:0]
	var quotes int
	for {
		ch, ok := p.next()
		if !ok {
			p.fail(hjtree.EOFWhileParsingString)
		}
		if ch == '\'' {
			quotes++
			if quotes == 3 {
				return string(bytes.TrimSuffix(p.buf, []byte("\n")))
			}
			continue
		}
		for ; quotes > 0; quotes-- {
			p.buf = append(p.buf, '\'')
		}
		switch ch {
		case '\n':
			p.buf = append(p.buf, ch)
			p.skipIndent(indent)
		case '\r':
			// drop
		default:
			p.buf = append(p.buf, ch)
		}
	}
}

// skipIndent discards up to n bytes of whitespace other than newlines.
func (p *Parser) skipIndent(n int) {
	for ; n > 0; n-- {
		ch, ok := p.peek()
		if !ok || ch > ' ' || ch == '\n' {
			return
		}
		p.next()
	}
}

// readName appends to p.buf the bytes of a quoteless key, up to whitespace,
// a punctuator, or the end of input. If comments is true, it also stops at
// the start of a comment.
func (p *Parser) readName(comments bool) {
	for {
		ch, ok := p.peek()
		if !ok || ch <= ' ' || isPunctuator(ch) {
			return
		} else if comments && p.commentAhead(ch) {
			return
		}
		p.next()
		p.buf = append(p.buf, ch)
	}
}

// commentAhead reports whether ch, the next byte of input, begins a comment.
func (p *Parser) commentAhead(ch byte) bool {
	if ch == '#' {
		return true
	} else if ch != '/' {
		return false
	}
	next, ok := p.peekAt(1)
	return ok && (next == '/' || next == '*')
}

// parseQuoteless parses a quoteless value, continuing the text already in
// p.buf. The value runs to the end of the line, and trailing whitespace is
// removed. If the text before a comma, close bracket, comment, or the end of
// the line is a number, Boolean, or null, the value has that type and ends
// there; otherwise it is a string.
func (p *Parser) parseQuoteless() Value {
	for {
		ch, ok := p.peek()
		eol := !ok || ch == '\n' || ch == '\r'
		if eol || ch == ',' || ch == '}' || ch == ']' || p.commentAhead(ch) {
			text := bytes.TrimSpace(p.buf)
			if v := typedValue(text); v != nil {
				return v
			} else if eol {
				return String(text)
			}
		}
		p.next()
		p.buf = append(p.buf, ch)
	}
}

// typedValue returns the number, Boolean, or null denoted by text, or nil if
// text denotes none of these.
func typedValue(text []byte) Value {
	if v := keyword(text); v != nil {
		return v
	} else if len(text) == 0 || (text[0] != '-' && !isDigit(text[0])) {
		return nil
	}
	n, err := hjtree.ParseNumber(bytes.NewReader(text), false)
	if err != nil {
		return nil
	}
	return Number{n}
}

func keyword(text []byte) Value {
	switch string(text) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "null":
		return Null
	}
	return nil
}

func isPunctuator(ch byte) bool {
	switch ch {
	case '{', '}', '[', ']', ',', ':':
		return true
	}
	return false
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }
