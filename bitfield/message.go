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
	"bytes"
	"reflect"

	"github.com/na7q/benlink/internal/debug"
)

// Message is a decoded (or explicitly constructed) record of some [Type].
//
// Messages are immutable: once built, field values never change. Field
// values are dynamically typed; see the package documentation for the value
// each descriptor kind produces.
type Message struct {
	ty     *Type
	values []any
}

// Type returns the schema this message belongs to.
func (m *Message) Type() *Type { return m.ty }

// Lookup returns the named field's value, or false if the schema does not
// declare it.
func (m *Message) Lookup(name string) (any, bool) {
	i, ok := m.ty.index[name]
	if !ok {
		return nil, false
	}
	return m.values[i], true
}

// Get returns the named field's value. It panics if the schema does not
// declare the field; asking for an undeclared field is a programming error,
// not a data error.
func (m *Message) Get(name string) any {
	return m.view().Get(name)
}

// Uint returns a uint-typed field by name.
func (m *Message) Uint(name string) uint64 { return m.Get(name).(uint64) }

// Bool returns a bool-typed field by name.
func (m *Message) Bool(name string) bool { return m.Get(name).(bool) }

// Str returns a string-typed field by name.
func (m *Message) Str(name string) string { return m.Get(name).(string) }

// Bytes returns a bytes-typed field by name.
func (m *Message) Bytes(name string) []byte { return m.Get(name).([]byte) }

// List returns a list-typed field by name.
func (m *Message) List(name string) []any { return m.Get(name).([]any) }

// Record returns a nested-record field by name.
func (m *Message) Record(name string) *Message { return m.Get(name).(*Message) }

// view exposes the complete message as a [View], for encode-side dynamic
// dispatch.
func (m *Message) view() View {
	return View{ty: m.ty, values: m.values}
}

// ToBits serializes the record: each field is encoded in declaration order,
// the results are concatenated, and the schema's reorder permutation (if
// any) is applied to produce the wire layout.
func (m *Message) ToBits(ctx any) (Bits, error) {
	debug.Log(nil, "encode", "%s", m.ty.name)

	parent := View{ty: m.ty, values: m.values, ctx: ctx}

	var w bitWriter
	for i, f := range m.ty.fields {
		b, err := encodeDescriptor(f.Desc, m.values[i], parent, ctx)
		if err != nil {
			return Bits{}, &FieldError{Type: m.ty.name, Field: f.Name, Err: err}
		}
		w.writeBits(b)
	}

	out := w.bits()
	if len(m.ty.reorder) == 0 {
		return out, nil
	}
	return out.Unreorder(m.ty.reorder)
}

// ToBytes serializes the record to bytes. Fails with [ErrAlignment] if the
// total width is not a multiple of 8.
func (m *Message) ToBytes(ctx any) ([]byte, error) {
	b, err := m.ToBits(ctx)
	if err != nil {
		return nil, err
	}
	return b.Bytes()
}

// Equal reports structural equality: same schema, equal values field by
// field. Messages of different schemas are never equal.
func (m *Message) Equal(other *Message) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.ty != other.ty {
		return false
	}
	for i := range m.values {
		if !equalValues(m.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

// equalValues compares two field values structurally.
func equalValues(a, b any) bool {
	switch x := a.(type) {
	case Bits:
		y, ok := b.(Bits)
		return ok && x.Equal(y)
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equalValues(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Message:
		y, ok := b.(*Message)
		return ok && x.Equal(y)
	case nil:
		return b == nil
	default:
		// Scalars compare with ==; mapper-produced aggregates fall back to
		// deep equality.
		return reflect.DeepEqual(a, b)
	}
}
