// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/tailscale/hujson"
)

// FormatJSON renders v to w as indented JSON, ending with a newline.
// Non-finite numbers are rendered as null.
func FormatJSON(w io.Writer, v Value) error {
	hv, err := hujson.Parse([]byte(v.JSON()))
	if err != nil {
		return fmt.Errorf("format JSON: %w", err)
	}
	hv.Format()
	out := hv.Pack()
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	_, err = w.Write(out)
	return err
}

// FormatYAML renders v to w as a YAML document. Object members keep their
// order.
func FormatYAML(w io.Writer, v Value) error {
	out, err := yaml.Marshal(yamlValue(v))
	if err != nil {
		return fmt.Errorf("format YAML: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// yamlValue converts v into values the YAML encoder accepts, using ordered
// map slices for objects.
func yamlValue(v Value) any {
	switch t := v.(type) {
	case Array:
		out := make([]any, len(t))
		for i, elt := range t {
			out[i] = yamlValue(elt)
		}
		return out
	case Object:
		out := make(yaml.MapSlice, len(t))
		for i, m := range t {
			out[i] = yaml.MapItem{Key: m.Key, Value: yamlValue(m.Value)}
		}
		return out
	case *Member:
		return yamlValue(Object{t})
	default:
		return Native(v)
	}
}

// FromJWCC parses a single value from r, which must contain JSON that may
// include comments and trailing commas. Positions in errors refer to the
// original input.
func FromJWCC(r io.Reader) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("standardize: %w", err)
	}
	p := NewParser(bytes.NewReader(std))
	p.StrictJSON(true)
	return p.Parse()
}
