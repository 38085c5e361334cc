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
)

// encodeDescriptor serializes one field's value. parent exposes the whole
// record, so encode-side dynamic dispatchers see every sibling.
func encodeDescriptor(d *Descriptor, value any, parent View, ctx any) (Bits, error) {
	switch d.kind {
	case kindBits:
		b, ok := value.(Bits)
		if !ok {
			return Bits{}, fmt.Errorf("expected Bits value, got %T", value)
		}
		if b.Len() != d.n {
			return Bits{}, fmt.Errorf("%w: expected %d bits, got %d", ErrWidthMismatch, d.n, b.Len())
		}
		return b, nil

	case kindList:
		items, ok := value.([]any)
		if !ok {
			return Bits{}, fmt.Errorf("expected list value, got %T", value)
		}
		if len(items) != d.n {
			return Bits{}, fmt.Errorf("%w: expected %d items, got %d", ErrWidthMismatch, d.n, len(items))
		}
		var w bitWriter
		for _, item := range items {
			b, err := encodeDescriptor(d.inner, item, parent, ctx)
			if err != nil {
				return Bits{}, err
			}
			w.writeBits(b)
		}
		return w.bits(), nil

	case kindMap:
		raw, err := d.vm.Back(value)
		if err != nil {
			if !errors.Is(err, ErrOutOfRange) {
				err = fmt.Errorf("%w: %v", ErrOutOfRange, err)
			}
			return Bits{}, err
		}
		return encodeDescriptor(d.inner, raw, parent, ctx)

	case kindLit:
		if !equalValues(value, d.def) {
			return Bits{}, fmt.Errorf("%w: expected %v, got %v", ErrLiteralMismatch, d.def, value)
		}
		return encodeDescriptor(d.inner, value, parent, ctx)

	case kindNone:
		if value != nil {
			return Bits{}, fmt.Errorf("expected nil value, got %v", value)
		}
		return Bits{}, nil

	case kindRecord:
		msg, ok := value.(*Message)
		if !ok {
			return Bits{}, fmt.Errorf("expected record value, got %T", value)
		}
		if msg.ty != d.ty {
			return Bits{}, fmt.Errorf("expected record of type %s, got %s", d.ty.name, msg.ty.name)
		}
		out, err := msg.ToBits(ctx)
		if err != nil {
			return Bits{}, err
		}
		if out.Len() != d.n {
			return Bits{}, fmt.Errorf("%w: expected %d bits, got %d", ErrWidthMismatch, d.n, out.Len())
		}
		return out, nil

	case kindDynSelf:
		resolved, err := undisguise(d.dyn(parent))
		if err != nil {
			return Bits{}, err
		}
		return encodeDescriptor(resolved, value, parent, ctx)

	case kindDynSelfN:
		// The number of unread bits does not exist at encode time, so the
		// dispatcher cannot run. Infer the descriptor from the value itself
		// instead; this is the only place encode and decode dispatch
		// asymmetrically.
		var target any
		switch v := value.(type) {
		case *Message:
			target = v.ty
		case []byte, string, nil:
			target = v
		default:
			return Bits{}, fmt.Errorf(
				"%w: remaining-bits dispatch only supports record, string, bytes, or nil values; %T is not supported",
				ErrDynDispatch, value)
		}
		resolved, err := undisguise(target)
		if err != nil {
			return Bits{}, err
		}
		return encodeDescriptor(resolved, value, parent, ctx)

	default:
		panic(fmt.Sprintf("bitfield: unknown descriptor kind %d", d.kind))
	}
}
