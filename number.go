// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package hjtree

import (
	"io"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// NumberKind identifies the representation carried by a Number.
type NumberKind byte

// Constants defining the valid NumberKind values.
const (
	Uint  NumberKind = iota // unsigned 64-bit integer
	Int                     // signed 64-bit integer
	Float                   // 64-bit IEEE 754 floating point
)

var kindStr = [...]string{Uint: "uint", Int: "int", Float: "float"}

func (k NumberKind) String() string {
	if int(k) >= len(kindStr) {
		return "invalid"
	}
	return kindStr[k]
}

// A Number is a numeric value in exactly one of three representations.
// The zero value is the unsigned integer 0.
type Number struct {
	kind NumberKind
	bits uint64
}

// NewUint returns a Number holding the unsigned integer v.
func NewUint(v uint64) Number { return Number{kind: Uint, bits: v} }

// NewInt returns a Number holding the signed integer v.
func NewInt(v int64) Number { return Number{kind: Int, bits: uint64(v)} }

// NewFloat returns a Number holding the floating-point value v.
func NewFloat(v float64) Number { return Number{kind: Float, bits: math.Float64bits(v)} }

// Kind reports which representation n carries.
func (n Number) Kind() NumberKind { return n.kind }

// Equal reports whether n and m have the same kind and the same value.
// Floating-point values are compared by their bits, so 0 and -0 differ.
func (n Number) Equal(m Number) bool { return n == m }

// Uint64 returns the value of n as an unsigned integer, and reports whether
// that conversion is exact.
func (n Number) Uint64() (uint64, bool) {
	switch n.kind {
	case Uint:
		return n.bits, true
	case Int:
		v := int64(n.bits)
		return uint64(v), v >= 0
	default:
		f := n.Float64()
		if f >= 0 && f < 1<<64 && f == math.Trunc(f) {
			return uint64(f), true
		}
		return 0, false
	}
}

// Int64 returns the value of n as a signed integer, and reports whether that
// conversion is exact.
func (n Number) Int64() (int64, bool) {
	switch n.kind {
	case Uint:
		return int64(n.bits), n.bits <= math.MaxInt64
	case Int:
		return int64(n.bits), true
	default:
		f := n.Float64()
		if f >= math.MinInt64 && f < math.MaxInt64 && f == math.Trunc(f) {
			return int64(f), true
		}
		return 0, false
	}
}

// Float64 returns the value of n as a floating-point number. Integers beyond
// 2^53 in magnitude may lose precision.
func (n Number) Float64() float64 {
	switch n.kind {
	case Uint:
		return float64(n.bits)
	case Int:
		return float64(int64(n.bits))
	default:
		return math.Float64frombits(n.bits)
	}
}

// String renders n as decimal text that scans back to an equal Number.
// Floating-point values always include a decimal point or an exponent.
func (n Number) String() string {
	switch n.kind {
	case Uint:
		return strconv.FormatUint(n.bits, 10)
	case Int:
		return strconv.FormatInt(int64(n.bits), 10)
	}
	s := strconv.FormatFloat(n.Float64(), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") { // also excludes NaN and Inf
		s += ".0"
	}
	return s
}

// ParseNumber parses a single number from r. If stopAtNext is false, the
// number must be followed only by whitespace and comments. If stopAtNext is
// true, the number may also be followed by one of the punctuators ",", "}",
// or "]"; that byte is not consumed.
func ParseNumber(r io.Reader, stopAtNext bool) (Number, error) {
	return NewNumberScanner(NewReader(r)).Parse(stopAtNext)
}

// A NumberScanner consumes a single JSON number from a Reader:
//
//	number = [ "-" ] int [ frac ] [ exp ]
//	   int = "0" | nonzero { digit }
//	  frac = "." digit { digit }
//	   exp = ( "e" | "E" ) [ "+" | "-" ] digit { digit }
//
// Integers without a fraction or exponent are reported as Uint if they are
// non-negative and fit in 64 bits, or as Int if they are negative and fit in
// 64 bits. All other numbers are reported as Float.
type NumberScanner struct {
	r    *Reader
	text []byte // the bytes of the current number
}

// NewNumberScanner constructs a NumberScanner that consumes input from r.
func NewNumberScanner(r *Reader) *NumberScanner { return &NumberScanner{r: r} }

// Parse scans one number and then checks what follows it, as described for
// ParseNumber. Any content after the number other than what is permitted
// is reported as an InvalidNumber error.
func (s *NumberScanner) Parse(stopAtNext bool) (Number, error) {
	n, err := s.Scan()
	if err != nil {
		return Number{}, err
	}
	if err := s.r.SkipInsignificant(); err != nil {
		return Number{}, err
	}
	ch, ok, err := s.r.Peek()
	if err != nil {
		return Number{}, err
	} else if !ok {
		return n, nil
	} else if stopAtNext && (ch == ',' || ch == '}' || ch == ']') {
		return n, nil
	}
	return Number{}, s.r.SyntaxError(InvalidNumber)
}

// Scan consumes one number from the front of the input and returns its value.
// It does not examine the input following the number.
func (s *NumberScanner) Scan() (Number, error) {
	s.text = s.text[:0]

	nonneg := true
	if ch, err := s.r.PeekOrZero(); err != nil {
		return Number{}, err
	} else if ch == '-' {
		s.take(ch)
		nonneg = false
	}

	ch, err := s.r.NextOrZero()
	if err != nil {
		return Number{}, err
	}
	var mag uint64
	switch {
	case ch == '0':
		s.text = append(s.text, ch)

		// There can be only one leading zero.
		next, err := s.r.PeekOrZero()
		if err != nil {
			return Number{}, err
		} else if isDigit(next) {
			return Number{}, s.r.SyntaxError(InvalidNumber)
		}

	case '1' <= ch && ch <= '9':
		s.text = append(s.text, ch)
		mag = uint64(ch - '0')
		for {
			next, err := s.r.PeekOrZero()
			if err != nil {
				return Number{}, err
			} else if !isDigit(next) {
				break
			}
			s.take(next)

			// Keep the magnitude as a uint64 as long as it fits; once it
			// overflows, the rest of the number is floating-point.
			hi, lo := bits.Mul64(mag, 10)
			sum, carry := bits.Add64(lo, uint64(next-'0'), 0)
			if hi != 0 || carry != 0 {
				return s.scanOverflow()
			}
			mag = sum
		}

	default:
		return Number{}, s.r.SyntaxError(InvalidNumber)
	}
	return s.scanNext(nonneg, mag)
}

// scanOverflow consumes the remaining digits of an integer part that does
// not fit in 64 bits.
func (s *NumberScanner) scanOverflow() (Number, error) {
	if err := s.scanDigits(); err != nil {
		return Number{}, err
	}
	ch, err := s.r.PeekOrZero()
	if err != nil {
		return Number{}, err
	}
	switch ch {
	case '.':
		return s.scanFraction()
	case 'e', 'E':
		return s.scanExponent()
	default:
		return s.finishFloat()
	}
}

// scanNext inspects the byte following the integer part to decide whether
// the number continues.
func (s *NumberScanner) scanNext(nonneg bool, mag uint64) (Number, error) {
	ch, err := s.r.PeekOrZero()
	if err != nil {
		return Number{}, err
	}
	switch ch {
	case '.':
		return s.scanFraction()
	case 'e', 'E':
		return s.scanExponent()
	}
	if nonneg {
		return NewUint(mag), nil
	}

	// A magnitude up to 2^63 negates into an int64. Anything larger wraps
	// around to a non-negative value and becomes a float instead.
	v := -int64(mag)
	if v > 0 {
		return NewFloat(-float64(mag)), nil
	}
	return NewInt(v), nil
}

// scanFraction consumes a decimal point and at least one digit.
// Precondition: the next byte is ".".
func (s *NumberScanner) scanFraction() (Number, error) {
	s.r.Next()
	s.text = append(s.text, '.')
	if err := s.requireDigit(); err != nil {
		return Number{}, err
	} else if err := s.scanDigits(); err != nil {
		return Number{}, err
	}

	ch, err := s.r.PeekOrZero()
	if err != nil {
		return Number{}, err
	} else if ch == 'e' || ch == 'E' {
		return s.scanExponent()
	}
	return s.finishFloat()
}

// scanExponent consumes an exponent marker, an optional sign, and at least
// one digit. Precondition: the next byte is "e" or "E".
func (s *NumberScanner) scanExponent() (Number, error) {
	ch, _, _ := s.r.Next()
	s.text = append(s.text, ch)

	if ch, err := s.r.PeekOrZero(); err != nil {
		return Number{}, err
	} else if ch == '+' || ch == '-' {
		s.take(ch)
	}

	start := len(s.text)
	if err := s.requireDigit(); err != nil {
		return Number{}, err
	} else if err := s.scanDigits(); err != nil {
		return Number{}, err
	}

	// The exponent must fit in 32 bits even though the result would be out
	// of range long before that.
	var exp uint64
	for _, d := range s.text[start:] {
		hi, lo := bits.Mul64(exp, 10)
		sum, carry := bits.Add64(lo, uint64(d-'0'), 0)
		if hi != 0 || carry != 0 || sum > math.MaxInt32 {
			return Number{}, s.r.SyntaxError(InvalidNumber)
		}
		exp = sum
	}
	return s.finishFloat()
}

// finishFloat converts the text of the current number to a float. A value
// too large in magnitude to represent is an InvalidNumber error.
func (s *NumberScanner) finishFloat() (Number, error) {
	f, err := strconv.ParseFloat(string(s.text), 64)
	if err != nil || math.IsInf(f, 0) {
		return Number{}, s.r.SyntaxError(InvalidNumber)
	}
	return NewFloat(f), nil
}

// requireDigit consumes a single decimal digit, or reports InvalidNumber.
func (s *NumberScanner) requireDigit() error {
	ch, err := s.r.NextOrZero()
	if err != nil {
		return err
	} else if !isDigit(ch) {
		return s.r.SyntaxError(InvalidNumber)
	}
	s.text = append(s.text, ch)
	return nil
}

// scanDigits consumes decimal digits until a non-digit or end of input.
func (s *NumberScanner) scanDigits() error {
	for {
		ch, err := s.r.PeekOrZero()
		if err != nil {
			return err
		} else if !isDigit(ch) {
			return nil
		}
		s.take(ch)
	}
}

// take consumes the next byte of input, which the caller has already peeked
// as ch, and records it in the text of the number.
func (s *NumberScanner) take(ch byte) {
	s.r.Next()
	s.text = append(s.text, ch)
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }
