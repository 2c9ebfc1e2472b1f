// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package hjtree

import "fmt"

// ErrorCode classifies a syntax error.
type ErrorCode byte

// Constants defining the valid ErrorCode values.
const (
	InvalidNumber            ErrorCode = iota + 1 // malformed or out-of-range number
	TrailingCharacters                            // unexpected content after a value
	EOFWhileParsingValue                          // input ended where a value was expected
	EOFWhileParsingObject                         // input ended inside an object
	EOFWhileParsingArray                          // input ended inside an array
	EOFWhileParsingString                         // input ended inside a string
	ExpectedColon                                 // missing ":" after an object key
	ExpectedObjectCommaOrEnd                      // missing "," or "}" in an object
	ExpectedArrayCommaOrEnd                       // missing "," or "]" in an array
	ExpectedSomeValue                             // the input does not begin a value
	ControlCharacterInString                      // unescaped control byte in a quoted string
	InvalidEscape                                 // unknown or incomplete escape sequence
	InvalidUnicodeCodePoint                       // \u escape that is not a valid code point
	KeyMustBeAString                              // object key is not a string
	FoundPunctuator                               // punctuator where a key or value was expected
	DuplicateKey                                  // repeated object key, when disallowed
)

var codeStr = [...]string{
	0:                        "unknown error",
	InvalidNumber:            "invalid number",
	TrailingCharacters:       "trailing characters",
	EOFWhileParsingValue:     "EOF while parsing a value",
	EOFWhileParsingObject:    "EOF while parsing an object",
	EOFWhileParsingArray:     "EOF while parsing an array",
	EOFWhileParsingString:    "EOF while parsing a string",
	ExpectedColon:            "expected ':'",
	ExpectedObjectCommaOrEnd: "expected ',' or '}'",
	ExpectedArrayCommaOrEnd:  "expected ',' or ']'",
	ExpectedSomeValue:        "expected value",
	ControlCharacterInString: "control character in string",
	InvalidEscape:            "invalid escape",
	InvalidUnicodeCodePoint:  "invalid Unicode code point",
	KeyMustBeAString:         "key must be a string",
	FoundPunctuator:          "found a punctuator where a key or value was expected",
	DuplicateKey:             "duplicate object key",
}

func (c ErrorCode) String() string {
	if int(c) >= len(codeStr) {
		return codeStr[0]
	}
	return codeStr[c]
}

// SyntaxError is the concrete type of errors reported for malformed input.
// The location is the position of the most recently read input byte at the
// time the fault was detected.
type SyntaxError struct {
	Code     ErrorCode
	Location LineCol

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	msg := fmt.Sprintf("line %d, column %d: %v", s.Location.Line, s.Location.Column, s.Code)
	if s.err != nil {
		msg += ": " + s.err.Error()
	}
	return msg
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// IOError reports a failure of the underlying byte source. It unwraps to the
// error returned by the source.
type IOError struct {
	Location LineCol
	Err      error
}

// Error satisfies the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("line %d, column %d: read failed: %v", e.Location.Line, e.Location.Column, e.Err)
}

// Unwrap supports error wrapping.
func (e *IOError) Unwrap() error { return e.Err }
