// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON and Hjson strings.
package escape

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

var (
	// ErrInvalidEscape is reported for an unknown or incomplete escape.
	ErrInvalidEscape = errors.New("invalid escape sequence")

	// ErrInvalidCodePoint is reported for a \u escape that does not denote a
	// valid code point, such as an unpaired surrogate.
	ErrInvalidCodePoint = errors.New("invalid Unicode code point")
)

// Unquote decodes a byte slice containing the encoding of a quoted string.
// The input must have the enclosing quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. In addition
// to the JSON escapes, \' denotes a single quotation mark. A surrogate pair
// written as two \u escapes decodes to a single rune.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		dec = mem.Append(dec, src)
		return dec, nil
	}

	putByte := func(bs ...byte) { dec = append(dec, bs...) }
	putRune := func(r rune) { dec = utf8.AppendRune(dec, r) }
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))

		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, ErrInvalidEscape
		}
		c := src.At(0)
		src = src.SliceFrom(1)
		switch c {
		case '"', '\'', '\\', '/':
			putByte(c)
		case 'b':
			putByte('\b')
		case 'f':
			putByte('\f')
		case 'n':
			putByte('\n')
		case 'r':
			putByte('\r')
		case 't':
			putByte('\t')
		case 'u':
			r, n, err := decodeHexRune(src)
			if err != nil {
				return nil, err
			}
			putRune(r)
			src = src.SliceFrom(n)
		default:
			return nil, ErrInvalidEscape
		}

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// decodeHexRune decodes the hex digits of a \u escape at the front of src,
// and if it is the first half of a surrogate pair, the \u escape for the
// second half that must follow it. It returns the rune and the number of
// bytes of src consumed.
func decodeHexRune(src mem.RO) (rune, int, error) {
	if src.Len() < 4 {
		return 0, 0, ErrInvalidEscape
	}
	v, err := parseHex(src.SliceTo(4))
	if err != nil {
		return 0, 0, err
	}
	r := rune(v)
	if !utf16.IsSurrogate(r) {
		return r, 4, nil
	}
	if src.Len() < 10 || src.At(4) != '\\' || src.At(5) != 'u' {
		return 0, 0, ErrInvalidCodePoint
	}
	w, err := parseHex(src.Slice(6, 10))
	if err != nil {
		return 0, 0, err
	}
	if p := utf16.DecodeRune(r, rune(w)); p != utf8.RuneError {
		return p, 10, nil
	}
	return 0, 0, ErrInvalidCodePoint
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, ErrInvalidEscape
		}
	}
	return v, nil
}
