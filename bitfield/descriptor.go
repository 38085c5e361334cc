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

// kind discriminates the descriptor variants.
type kind uint8

const (
	kindBits kind = iota
	kindList
	kindMap
	kindLit
	kindNone
	kindRecord
	kindDynSelf
	kindDynSelfN
)

// Descriptor describes how one logical field is laid out on the wire.
//
// Descriptors are built with the package-level constructors ([Uint], [List],
// [Dyn], and so on) and assembled into a [Type] with [NewType]. A descriptor
// is immutable once handed to NewType; [Descriptor.Default] returns a
// modified copy.
type Descriptor struct {
	kind  kind
	n     int         // kindBits: width; kindList: count; kindRecord: width.
	inner *Descriptor // kindList, kindMap, kindLit.
	vm    ValueMapper // kindMap.
	ty    *Type       // kindRecord.
	dyn   func(View) any
	dynN  func(View, int) any

	def    any
	hasDef bool

	// checkDef validates a user-supplied default against the descriptor.
	// Set by builders that know their value shape (list, bytes, str).
	checkDef func(v any) error

	// err is a deferred construction error, surfaced by [NewType]. Builders
	// have no error return so that schemas read as declarations.
	err error
}

// Length returns the static bit width of the descriptor, if it has one.
//
// Dynamic descriptors, and lists of dynamic descriptors, have no static
// width.
func (d *Descriptor) Length() (int, bool) {
	switch d.kind {
	case kindBits, kindRecord:
		return d.n, true
	case kindNone:
		return 0, true
	case kindList:
		n, ok := d.inner.Length()
		return d.n * n, ok
	case kindMap, kindLit:
		return d.inner.Length()
	default: // kindDynSelf, kindDynSelfN.
		return 0, false
	}
}

// Default returns a copy of d with a default value attached.
//
// When a record is constructed with [Type.New], fields without an explicit
// value take their descriptor's default. Only top-level field descriptors may
// carry one; [NewType] rejects defaults on inner descriptors.
func (d *Descriptor) Default(v any) *Descriptor {
	out := *d
	out.def = v
	out.hasDef = true
	return &out
}

// hasInnerDefault reports whether any descriptor nested inside d carries a
// default. Literal descriptors are exempt: their required value doubles as
// a default by construction.
func (d *Descriptor) hasInnerDefault() bool {
	switch d.kind {
	case kindList, kindMap, kindLit:
		if d.inner.hasDef && d.inner.kind != kindLit {
			return true
		}
		return d.inner.hasInnerDefault()
	default:
		return false
	}
}

// validate surfaces deferred builder errors and checks the default, walking
// nested descriptors.
func (d *Descriptor) validate() error {
	if d.err != nil {
		return d.err
	}
	if d.hasDef && d.checkDef != nil {
		if err := d.checkDef(d.def); err != nil {
			return err
		}
	}
	if d.inner != nil {
		return d.inner.validate()
	}
	return nil
}
