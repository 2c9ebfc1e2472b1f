// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

// An ObjectBuilder constructs an Object one member at a time.
// The zero value is ready for use.
//
// Example:
//
//	v := ast.NewObjectBuilder().
//	   Insert("name", "point").
//	   InsertArray("points", func(b *ast.ArrayBuilder) {
//	      b.PushObject(func(b *ast.ObjectBuilder) { b.Insert("x", 1).Insert("y", 2) })
//	   }).
//	   Build()
type ObjectBuilder struct {
	obj Object
}

// NewObjectBuilder returns a new empty ObjectBuilder.
func NewObjectBuilder() *ObjectBuilder { return &ObjectBuilder{obj: Object{}} }

// Insert adds a member with the given key and value, converted by ToValue.
// If key is already present, its value is replaced in place.
func (b *ObjectBuilder) Insert(key string, value any) *ObjectBuilder {
	b.obj = b.obj.Set(key, ToValue(value))
	return b
}

// InsertArray calls f with a new ArrayBuilder and inserts the resulting
// array under key.
func (b *ObjectBuilder) InsertArray(key string, f func(*ArrayBuilder)) *ObjectBuilder {
	ab := NewArrayBuilder()
	f(ab)
	return b.Insert(key, ab.Build())
}

// InsertObject calls f with a new ObjectBuilder and inserts the resulting
// object under key.
func (b *ObjectBuilder) InsertObject(key string, f func(*ObjectBuilder)) *ObjectBuilder {
	ob := NewObjectBuilder()
	f(ob)
	return b.Insert(key, ob.Build())
}

// Build returns the constructed object. It is never nil.
func (b *ObjectBuilder) Build() Object {
	if b.obj == nil {
		return Object{}
	}
	return b.obj
}

// An ArrayBuilder constructs an Array one element at a time.
// The zero value is ready for use.
type ArrayBuilder struct {
	arr Array
}

// NewArrayBuilder returns a new empty ArrayBuilder.
func NewArrayBuilder() *ArrayBuilder { return &ArrayBuilder{arr: Array{}} }

// Push appends value, converted by ToValue.
func (b *ArrayBuilder) Push(value any) *ArrayBuilder {
	b.arr = append(b.arr, ToValue(value))
	return b
}

// PushArray calls f with a new ArrayBuilder and appends the resulting array.
func (b *ArrayBuilder) PushArray(f func(*ArrayBuilder)) *ArrayBuilder {
	ab := NewArrayBuilder()
	f(ab)
	return b.Push(ab.Build())
}

// PushObject calls f with a new ObjectBuilder and appends the resulting
// object.
func (b *ArrayBuilder) PushObject(f func(*ObjectBuilder)) *ArrayBuilder {
	ob := NewObjectBuilder()
	f(ob)
	return b.Push(ob.Build())
}

// Build returns the constructed array. It is never nil.
func (b *ArrayBuilder) Build() Array {
	if b.arr == nil {
		return Array{}
	}
	return b.arr
}
