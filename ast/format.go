// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/hjtree"
)

// A Formatter carries the settings for rendering values as Hjson text.
// A zero value is ready for use with default settings.
type Formatter struct {
	// Indent is the indentation added for each level of nesting.
	// If empty, two spaces are used.
	Indent string

	// OmitRootBraces, if true, renders the members of a root object without
	// enclosing braces.
	OmitRootBraces bool

	// QuoteAlways, if true, renders every string and key with quotation
	// marks, even where a quoteless form would parse to the same value.
	QuoteAlways bool
}

func (f Formatter) indent() string {
	if f.Indent == "" {
		return "  "
	}
	return f.Indent
}

// Format renders v as Hjson text to w with default settings.
func Format(w io.Writer, v Value) error {
	var f Formatter
	return f.Format(w, v)
}

// FormatToString formats v to a string with default settings.
// In case of error in formatting, it returns an empty string.
func FormatToString(v Value) string {
	var buf bytes.Buffer
	if Format(&buf, v) != nil {
		return ""
	}
	return buf.String()
}

// hjsonText renders v with default settings, without the final newline.
func hjsonText(v Value) string { return strings.TrimSuffix(FormatToString(v), "\n") }

// Format renders v as Hjson text to w using the settings from f. The output
// ends with a newline.
func (f Formatter) Format(w io.Writer, v Value) error {
	var buf bytes.Buffer
	if obj, ok := v.(Object); ok && f.OmitRootBraces {
		for _, m := range obj {
			f.formatMember(&buf, m, "")
			buf.WriteByte('\n')
		}
	} else {
		f.formatValue(&buf, v, "", true)
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// formatValue writes v to buf. The caller has written any indentation for
// the first line; indent applies to subsequent lines.
func (f Formatter) formatValue(buf *bytes.Buffer, v Value, indent string, root bool) {
	switch t := v.(type) {
	case nullValue, Bool, Number:
		buf.WriteString(t.JSON())
	case String:
		f.formatString(buf, string(t), indent, root)
	case Array:
		if len(t) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteString("[\n")
		adent := indent + f.indent()
		for _, elt := range t {
			buf.WriteString(adent)
			f.formatValue(buf, elt, adent, false)
			buf.WriteByte('\n')
		}
		buf.WriteString(indent + "]")
	case Object:
		if len(t) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{\n")
		mdent := indent + f.indent()
		for _, m := range t {
			buf.WriteString(mdent)
			f.formatMember(buf, m, mdent)
			buf.WriteByte('\n')
		}
		buf.WriteString(indent + "}")
	case *Member:
		f.formatValue(buf, Object{t}, indent, root)
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

// formatMember writes the key and value of m. The caller has written the
// indentation for the key.
func (f Formatter) formatMember(buf *bytes.Buffer, m *Member, indent string) {
	if f.QuoteAlways || !isQuotelessKey(m.Key) {
		buf.WriteString(hjtree.Quote(m.Key))
	} else {
		buf.WriteString(m.Key)
	}
	buf.WriteByte(':')

	// A multi-line string begins on its own line, one level deeper.
	if s, ok := m.Value.(String); ok && !f.QuoteAlways && isMultiline(string(s)) {
		sdent := indent + f.indent()
		buf.WriteString("\n" + sdent)
		f.formatString(buf, string(s), sdent, false)
		return
	}
	buf.WriteByte(' ')
	f.formatValue(buf, m.Value, indent, false)
}

// formatString writes s as a quoteless, multi-line, or quoted string.
func (f Formatter) formatString(buf *bytes.Buffer, s, indent string, root bool) {
	switch {
	case f.QuoteAlways:
		buf.WriteString(hjtree.Quote(s))
	case isMultiline(s):
		buf.WriteString("'''\n")
		for _, line := range strings.Split(s, "\n") {
			if line != "" {
				buf.WriteString(indent + line)
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent + "'''")
	case isQuotelessString(s, root):
		buf.WriteString(s)
	default:
		buf.WriteString(hjtree.Quote(s))
	}
}

// isQuotelessKey reports whether key can be written without quotes.
func isQuotelessKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if ch := key[i]; ch <= ' ' || isPunctuator(ch) || ch == '"' || ch == '\'' {
			return false
		} else if startsComment(key[i:]) {
			return false // a braceless root key stops at a comment
		}
	}
	return true
}

// isMultiline reports whether s should be written as a multi-line string.
// It must span lines, and must not contain characters that the multi-line
// syntax cannot represent.
func isMultiline(s string) bool {
	if !strings.Contains(s, "\n") || strings.Contains(s, "'''") {
		return false
	}
	for i := 0; i < len(s); i++ {
		if ch := s[i]; ch < ' ' && ch != '\n' && ch != '\t' {
			return false
		}
	}
	return true
}

// isQuotelessString reports whether s parses back to the same string when
// written without quotes. At the root, a colon could make the text parse as
// an object key.
func isQuotelessString(s string, root bool) bool {
	if s == "" || strings.TrimSpace(s) != s || startsComment(s) {
		return false
	} else if isPunctuator(s[0]) || s[0] == '"' || s[0] == '\'' {
		return false
	} else if root && strings.Contains(s, ":") {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < ' ' {
			return false
		}

		// A quoteless value ends early at these bytes if the text before them
		// is a number, Boolean, or null.
		if ch == ',' || ch == '}' || ch == ']' || startsComment(s[i:]) {
			if typedValue(bytes.TrimSpace([]byte(s[:i]))) != nil {
				return false
			}
		}
	}
	return typedValue([]byte(s)) == nil
}

func startsComment(s string) bool {
	return strings.HasPrefix(s, "#") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/*")
}
