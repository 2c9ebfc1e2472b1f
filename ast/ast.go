// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a syntax tree for Hjson values, a parser that
// constructs trees from Hjson source, and formatters that render trees as
// Hjson, JSON, or YAML.
package ast

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/creachadair/hjtree"
)

// A Value is an arbitrary Hjson value. The concrete type is one of Bool,
// String, Number, Array, Object, *Member, or the type of Null.
type Value interface {
	// JSON returns the compact JSON encoding of the value.
	JSON() string

	// String returns the Hjson encoding of the value with default settings.
	String() string
}

type nullValue struct{}

// Null is the null value.
var Null Value = nullValue{}

func (nullValue) JSON() string   { return "null" }
func (nullValue) String() string { return "null" }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

// String satisfies the Value interface.
func (b Bool) String() string { return b.JSON() }

// A String is a string value.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return hjtree.Quote(string(s)) }

// String satisfies the Value interface.
func (s String) String() string { return hjsonText(s) }

// A Number is a numeric value. It has the same representation as the number
// scanner produces: an unsigned integer, a signed integer, or a float.
type Number struct{ hjtree.Number }

// Int constructs a signed integer Number with value z.
func Int(z int64) Number { return Number{hjtree.NewInt(z)} }

// Uint constructs an unsigned integer Number with value z.
func Uint(z uint64) Number { return Number{hjtree.NewUint(z)} }

// Float constructs a floating-point Number with value f.
func Float(f float64) Number { return Number{hjtree.NewFloat(f)} }

// JSON satisfies the Value interface. Non-finite values render as null.
func (n Number) JSON() string {
	if n.Kind() == hjtree.Float {
		if f := n.Float64(); math.IsInf(f, 0) || math.IsNaN(f) {
			return "null"
		}
	}
	return n.Number.String()
}

// IsInt reports whether n holds one of the integer representations.
func (n Number) IsInt() bool { return n.Kind() != hjtree.Float }

// An Array is a sequence of values.
type Array []Value

// Len returns the number of elements in a.
func (a Array) Len() int { return len(a) }

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, v := range a {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteString("]")
	return sb.String()
}

// String satisfies the Value interface.
func (a Array) String() string { return hjsonText(a) }

// An Object is a collection of key-value members. Keys are unique and keep
// the order in which they were first inserted.
type Object []*Member

// Len returns the number of members in o.
func (o Object) Len() int { return len(o) }

// Find returns the member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Keys returns the keys of o in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// Set sets the value of key in o to v. If key is already present, its value
// is replaced in place; otherwise a new member is appended. It returns the
// possibly-updated object.
func (o Object) Set(key string, v Value) Object {
	if m := o.Find(key); m != nil {
		m.Value = v
		return o
	}
	return append(o, &Member{Key: key, Value: v})
}

// JSON satisfies the Value interface.
func (o Object) JSON() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, m := range o {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteString("}")
	return sb.String()
}

// String satisfies the Value interface.
func (o Object) String() string { return hjsonText(o) }

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
// The value must be a string, number, bool, nil, or Value, as for ToValue.
func Field(key string, value any) *Member {
	return &Member{Key: key, Value: ToValue(value)}
}

// JSON satisfies the Value interface.
func (m *Member) JSON() string { return hjtree.Quote(m.Key) + ":" + m.Value.JSON() }

// String satisfies the Value interface.
func (m *Member) String() string { return hjsonText(Object{m}) }

// ArrayOf constructs an array of values from vs, each converted by ToValue.
func ArrayOf[T any](vs ...T) Array {
	out := make(Array, len(vs))
	for i, v := range vs {
		out[i] = ToValue(v)
	}
	return out
}

// ToValue converts a string, number, bool, nil, []any, map[string]any, or
// Value to a Value. Signed integers that are non-negative become unsigned, as
// they would when parsed. Map keys are ordered lexicographically. It panics
// if v does not have one of these types.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int:
		return signed(int64(t))
	case int8:
		return signed(int64(t))
	case int16:
		return signed(int64(t))
	case int32:
		return signed(int64(t))
	case int64:
		return signed(t)
	case uint:
		return Uint(uint64(t))
	case uint8:
		return Uint(uint64(t))
	case uint16:
		return Uint(uint64(t))
	case uint32:
		return Uint(uint64(t))
	case uint64:
		return Uint(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case hjtree.Number:
		return Number{t}
	case []any:
		return ArrayOf(t...)
	case map[string]any:
		obj := make(Object, 0, len(t))
		for _, key := range slices.Sorted(maps.Keys(t)) {
			obj = append(obj, Field(key, t[key]))
		}
		return obj
	default:
		panic(fmt.Sprintf("unsupported value type %T", v))
	}
}

func signed(z int64) Number {
	if z < 0 {
		return Int(z)
	}
	return Uint(uint64(z))
}

// Native converts v into plain Go values: nil, bool, string, uint64, int64,
// float64, []any, or map[string]any. A *Member converts to its value.
func Native(v Value) any {
	switch t := v.(type) {
	case nullValue:
		return nil
	case Bool:
		return bool(t)
	case String:
		return string(t)
	case Number:
		switch t.Kind() {
		case hjtree.Uint:
			u, _ := t.Uint64()
			return u
		case hjtree.Int:
			z, _ := t.Int64()
			return z
		default:
			return t.Float64()
		}
	case Array:
		out := make([]any, len(t))
		for i, elt := range t {
			out[i] = Native(elt)
		}
		return out
	case Object:
		out := make(map[string]any, len(t))
		for _, m := range t {
			out[m.Key] = Native(m.Value)
		}
		return out
	case *Member:
		return Native(t.Value)
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}
