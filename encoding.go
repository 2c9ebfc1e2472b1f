// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package hjtree

import (
	"errors"

	"github.com/creachadair/hjtree/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.AppendQuote(nil, mem.S(src))) }

// Unquote decodes a quoted JSON or Hjson string value. The enclosing double
// or single quotation marks are removed, and escape sequences are replaced
// with their unescaped equivalents.
func Unquote(src string) (string, error) {
	if len(src) < 2 || (src[0] != '"' && src[0] != '\'') || src[len(src)-1] != src[0] {
		return "", errors.New("missing quotations")
	}
	dec, err := escape.Unquote(mem.S(src[1 : len(src)-1]))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
