// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bitfield

import (
	"errors"
	"fmt"

	"github.com/na7q/benlink/internal/debug"
)

// Field is one named entry of a record schema.
type Field struct {
	Name string
	Desc *Descriptor
}

// Type is a compiled record schema: an ordered list of named field
// descriptors plus an optional bit-reorder permutation.
//
// Building a Type is a one-time cost; it should be cached in a package-level
// variable, like regexp.Compile. A Type is immutable and safe for concurrent
// use by any number of goroutines.
type Type struct {
	name    string
	fields  []Field
	index   map[string]int
	reorder []int

	length int
	static bool
}

// TypeOption is a configuration setting for [NewType].
type TypeOption struct{ apply func(*Type) }

// WithReorder declares a post-assembly bit permutation for the record.
//
// On the wire, the first len(perm) bits land at the positions perm names
// (in declaration-order bit numbering) and the remaining declaration-order
// bits fill the unnamed positions in ascending order. Decoding applies the
// inverse before reading fields, so schemas see fields in declaration order
// regardless of wire layout.
func WithReorder(perm []int) TypeOption {
	return TypeOption{func(t *Type) { t.reorder = perm }}
}

// NewType compiles a record schema from an ordered field list.
//
// All definition-time validation happens here: field names must be nonempty
// and unique, inner descriptors must not carry defaults (literals excepted),
// defaults must match their declared widths, a record [Type] given in place
// of a descriptor must have static length, and reorder entries must be
// distinct and nonnegative. [Nested] takes an explicit width and does not
// check the nested type's length. Any defect is reported as a [SchemaError].
func NewType(name string, fields []Field, options ...TypeOption) (*Type, error) {
	t := &Type{
		name:   name,
		fields: fields,
		index:  make(map[string]int, len(fields)),
		static: true,
	}
	for _, opt := range options {
		opt.apply(t)
	}

	for i, f := range fields {
		if f.Name == "" {
			return nil, &SchemaError{Type: name, Err: errors.New("empty field name")}
		}
		if _, ok := t.index[f.Name]; ok {
			return nil, &SchemaError{Type: name, Field: f.Name, Err: errors.New("duplicate field name")}
		}
		if f.Desc == nil {
			return nil, &SchemaError{Type: name, Field: f.Name, Err: errors.New("missing field descriptor")}
		}
		if err := f.Desc.validate(); err != nil {
			return nil, &SchemaError{Type: name, Field: f.Name, Err: err}
		}
		if f.Desc.hasInnerDefault() {
			return nil, &SchemaError{Type: name, Field: f.Name, Err: errors.New("inner field definitions cannot have defaults set (except literal fields)")}
		}
		t.index[f.Name] = i

		if n, ok := f.Desc.Length(); ok {
			t.length += n
		} else {
			t.static = false
		}
	}

	seen := make(map[int]bool, len(t.reorder))
	for _, p := range t.reorder {
		if p < 0 {
			return nil, &SchemaError{Type: name, Err: fmt.Errorf("negative reorder index %d", p)}
		}
		if seen[p] {
			return nil, &SchemaError{Type: name, Err: fmt.Errorf("duplicate reorder index %d", p)}
		}
		seen[p] = true
	}

	return t, nil
}

// MustType is like [NewType] but panics on an invalid schema. For use in
// package-level schema variables.
func MustType(name string, fields []Field, options ...TypeOption) *Type {
	t, err := NewType(name, fields, options...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the schema's name.
func (t *Type) Name() string { return t.name }

// NumFields returns the number of declared fields.
func (t *Type) NumFields() int { return len(t.fields) }

// Fields returns the declared fields in order. The caller must not modify
// the result.
func (t *Type) Fields() []Field { return t.fields }

// Length returns the record's total bit width, if it is static.
//
// A record containing any dynamic field has no static width and returns
// (0, false).
func (t *Type) Length() (int, bool) {
	if !t.static {
		return 0, false
	}
	return t.length, true
}

// FromBytes decodes a record from a byte string. ctx is an opaque value
// threaded through the whole decode; dynamic field dispatchers and nested
// records see it unmodified. It may be nil.
func (t *Type) FromBytes(data []byte, ctx any) (*Message, error) {
	return t.FromBits(BitsFromBytes(data), ctx)
}

// FromBits decodes a record from a bit buffer. The buffer must be consumed
// exactly; unread bits fail with [ErrLeftoverBits].
func (t *Type) FromBits(b Bits, ctx any) (*Message, error) {
	msg, rest, err := t.FromStream(NewStream(b), ctx)
	if err != nil {
		return nil, err
	}
	if n := rest.Remaining(); n != 0 {
		return nil, fmt.Errorf("%w %s (%d)", ErrLeftoverBits, t.name, n)
	}
	return msg, nil
}

// FromStream decodes a record from a stream, returning the advanced cursor.
// Unlike [Type.FromBits] it tolerates leftover bits; the caller decides what
// the remainder means.
func (t *Type) FromStream(s Stream, ctx any) (*Message, Stream, error) {
	debug.Log(nil, "decode", "%s: %d bits remaining", t.name, s.Remaining())

	s, err := s.Reorder(t.reorder)
	if err != nil {
		return nil, s, fmt.Errorf("reordering %s: %w", t.name, err)
	}

	values := make([]any, 0, len(t.fields))
	for _, f := range t.fields {
		view := View{ty: t, values: values, ctx: ctx}
		v, rest, err := decodeDescriptor(f.Desc, s, view, ctx)
		if err != nil {
			return nil, s, &FieldError{Type: t.name, Field: f.Name, Err: err}
		}
		values = append(values, v)
		s = rest
	}
	return &Message{ty: t, values: values}, s, nil
}

// Fields supplies per-field values to [Type.New], keyed by declared name.
type Fields map[string]any

// New constructs a record explicitly. Fields absent from values take their
// descriptor's default; a field with neither is an error, as is a name the
// schema does not declare.
func (t *Type) New(values Fields) (*Message, error) {
	out := make([]any, len(t.fields))
	for i, f := range t.fields {
		v, ok := values[f.Name]
		if !ok {
			if !f.Desc.hasDef {
				return nil, &FieldError{Type: t.name, Field: f.Name, Err: errors.New("missing value")}
			}
			v = f.Desc.def
		}
		out[i] = v
	}
	for name := range values {
		if _, ok := t.index[name]; !ok {
			return nil, &FieldError{Type: t.name, Field: name, Err: errors.New("no such field")}
		}
	}
	return &Message{ty: t, values: out}, nil
}

// MustNew is like [Type.New] but panics on error. For fixed records in
// declarations and tests.
func (t *Type) MustNew(values Fields) *Message {
	m, err := t.New(values)
	if err != nil {
		panic(err)
	}
	return m
}

// View is a read-only snapshot of the fields decoded so far in the current
// record, addressable by name. Dynamic field dispatchers receive one to pick
// a descriptor from earlier fields; on encode it exposes the whole record.
type View struct {
	ty     *Type
	values []any
	ctx    any
}

// Context returns the opaque caller-supplied context threaded through the
// current decode or encode.
func (v View) Context() any { return v.ctx }

// Lookup returns the named field's value, or false if it has not been
// decoded yet (or does not exist).
func (v View) Lookup(name string) (any, bool) {
	i, ok := v.ty.index[name]
	if !ok || i >= len(v.values) {
		return nil, false
	}
	return v.values[i], true
}

// Get returns the named field's value. It panics if the field does not exist
// or has not been decoded yet; dispatchers may only consult fields declared
// before their own.
func (v View) Get(name string) any {
	x, ok := v.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("bitfield: no decoded field %q in %s", name, v.ty.name))
	}
	return x
}

// Uint returns a uint-typed field by name.
func (v View) Uint(name string) uint64 { return v.Get(name).(uint64) }

// Bool returns a bool-typed field by name.
func (v View) Bool(name string) bool { return v.Get(name).(bool) }

// Str returns a string-typed field by name.
func (v View) Str(name string) string { return v.Get(name).(string) }

// Bytes returns a bytes-typed field by name.
func (v View) Bytes(name string) []byte { return v.Get(name).([]byte) }

// Record returns a nested-record field by name.
func (v View) Record(name string) *Message { return v.Get(name).(*Message) }
