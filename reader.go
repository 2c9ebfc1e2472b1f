// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package hjtree

import (
	"bufio"
	"io"
)

// A Reader presents a byte stream as a cursor with lookahead, one-byte
// pushback, and line/column tracking. It also knows how to skip whitespace
// and the three Hjson comment styles (#, //, and /* ... */), but nothing else
// about the grammar.
//
// The position of a Reader advances when a byte is pulled from the underlying
// source, not when it is consumed from the lookahead buffer. Peeking ahead
// therefore moves the position forward.
type Reader struct {
	r   io.ByteReader
	buf []byte // bytes pulled from r but not yet consumed

	strictSlash bool // stop skipping at a stray '/'

	// Position of the most recently pulled byte.
	line, col int
}

// NewReader constructs a Reader that consumes input from r. The Reader does
// not close r.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br, line: 1}
}

// StrictSlash configures how SkipInsignificant treats a "/" that does not
// begin a comment. By default (false) the stray slash is consumed and
// skipping continues, for compatibility with existing Hjson readers. If
// strict is true, skipping stops and the slash is left for the caller.
func (r *Reader) StrictSlash(strict bool) { r.strictSlash = strict }

// Pos returns the line and column of the most recently pulled input byte.
func (r *Reader) Pos() LineCol { return LineCol{Line: r.line, Column: r.col} }

// SyntaxError returns a syntax error with the given code at the current
// position of r.
func (r *Reader) SyntaxError(code ErrorCode) *SyntaxError {
	return &SyntaxError{Code: code, Location: r.Pos()}
}

// Buffered reports the number of bytes that have been pulled from the source
// but not yet consumed.
func (r *Reader) Buffered() int { return len(r.buf) }

// PeekAt returns the byte at offset n in the lookahead without consuming it.
// It reports false if the input ends before offset n.
func (r *Reader) PeekAt(n int) (byte, bool, error) {
	for len(r.buf) <= n {
		ch, ok, err := r.pull()
		if err != nil || !ok {
			return 0, false, err
		}
		r.buf = append(r.buf, ch)
	}
	return r.buf[n], true, nil
}

// Peek returns the next byte of input without consuming it.
// It reports false at the end of the input.
func (r *Reader) Peek() (byte, bool, error) { return r.PeekAt(0) }

// PeekOrZero returns the next byte of input without consuming it, or 0 at
// the end of the input.
func (r *Reader) PeekOrZero() (byte, error) {
	ch, _, err := r.PeekAt(0)
	return ch, err
}

// Next consumes and returns the next byte of input.
// It reports false at the end of the input.
func (r *Reader) Next() (byte, bool, error) {
	if len(r.buf) != 0 {
		ch := r.buf[0]
		r.buf = r.buf[:copy(r.buf, r.buf[1:])]
		return ch, true, nil
	}
	return r.pull()
}

// NextOrZero consumes and returns the next byte of input, or 0 at the end of
// the input.
func (r *Reader) NextOrZero() (byte, error) {
	ch, _, err := r.Next()
	return ch, err
}

// Unread pushes ch back onto the front of the input, so that it will be the
// next byte returned by Peek or Next. Each call must correspond to a byte
// previously consumed from r. Pushback does not change the position.
func (r *Reader) Unread(ch byte) {
	r.buf = append(r.buf, 0)
	copy(r.buf[1:], r.buf)
	r.buf[0] = ch
}

// SkipInsignificant consumes whitespace and comments until it reaches a byte
// that begins neither. Whitespace is space, tab, CR, and LF. A comment is
// "#" or "//" through the end of the line, or "/*" through the next "*/".
//
// It reports a TrailingCharacters error if a block comment is not closed
// before the end of input, or if the input ends with a lone "/".
func (r *Reader) SkipInsignificant() error {
	for {
		ch, ok, err := r.Peek()
		if err != nil || !ok {
			return err
		}
		switch ch {
		case ' ', '\t', '\r', '\n':
			r.Next()

		case '#':
			if err := r.skipLine(); err != nil {
				return err
			}

		case '/':
			next, ok, err := r.PeekAt(1)
			if err != nil {
				return err
			} else if !ok {
				return r.SyntaxError(TrailingCharacters)
			}
			switch next {
			case '/':
				err = r.skipLine()
			case '*':
				err = r.skipBlock()
			default:
				if r.strictSlash {
					return nil
				}
				r.Next() // N.B. a stray slash is discarded
			}
			if err != nil {
				return err
			}

		default:
			return nil
		}
	}
}

// skipLine consumes input up to, but not including, the next LF.
func (r *Reader) skipLine() error {
	for {
		ch, ok, err := r.Peek()
		if err != nil || !ok || ch == '\n' {
			return err
		}
		r.Next()
	}
}

// skipBlock consumes a block comment including its "/*" and "*/" markers.
// Precondition: the next two bytes of input are "/*".
func (r *Reader) skipBlock() error {
	r.Next()
	r.Next()
	for {
		ch, ok, err := r.Peek()
		if err != nil {
			return err
		} else if !ok {
			return r.SyntaxError(TrailingCharacters)
		}
		if ch == '*' {
			next, ok, err := r.PeekAt(1)
			if err != nil {
				return err
			} else if ok && next == '/' {
				r.Next()
				r.Next()
				return nil
			}
		}
		r.Next()
	}
}

// pull reads a single byte from the underlying source and updates the
// position. It reports false at the end of the input.
func (r *Reader) pull() (byte, bool, error) {
	ch, err := r.r.ReadByte()
	if err == io.EOF {
		return 0, false, nil
	} else if err != nil {
		return 0, false, &IOError{Location: r.Pos(), Err: err}
	}
	if ch == '\n' {
		r.line++
		r.col = 0
	} else {
		r.col++
	}
	return ch, true, nil
}
