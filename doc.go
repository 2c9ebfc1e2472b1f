// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package hjtree implements the lexical core of an Hjson parser.
//
// # Reading
//
// The Reader type wraps an io.Reader and presents its bytes as a cursor with
// arbitrary lookahead and pushback. It tracks the line and column of the most
// recently pulled byte, and can skip the whitespace and comments that Hjson
// treats as insignificant:
//
//	r := hjtree.NewReader(input)
//	if err := r.SkipInsignificant(); err != nil {
//	   log.Fatalf("Skip failed: %v", err)
//	}
//	ch, ok, err := r.Peek()
//
// Comments begin with "#" or "//" and run to the end of the line, or begin
// with "/*" and run to the next "*/". A block comment that is not closed is
// reported as a *SyntaxError with code TrailingCharacters.
//
// # Numbers
//
// ParseNumber and the NumberScanner type read a single Hjson number from a
// Reader. Integers that fit in 64 bits are kept exactly, as an unsigned value
// or as a signed value if negative; anything else becomes a float64:
//
//	n, err := hjtree.ParseNumber(strings.NewReader("-12"), false)
//	if err != nil {
//	   log.Fatalf("Invalid number: %v", err)
//	}
//	z, _ := n.Int64() // z == -12
//
// # Errors
//
// Malformed input is reported as a *SyntaxError carrying an ErrorCode and the
// LineCol at which the fault was detected. Errors from the underlying reader
// are reported as an *IOError that wraps the original error.
//
// The ast package builds value trees on top of this core. It provides an
// Hjson parser, formatters for Hjson, JSON and YAML, and conversion to
// native Go values.
package hjtree
