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

// decodeDescriptor reads one field's value from the stream. view exposes the
// sibling fields decoded so far; ctx is the caller's context, threaded
// unmodified into dispatchers and nested records.
func decodeDescriptor(d *Descriptor, s Stream, view View, ctx any) (any, Stream, error) {
	switch d.kind {
	case kindBits:
		b, rest, err := s.Take(d.n)
		if err != nil {
			return nil, s, err
		}
		return b, rest, nil

	case kindList:
		out := make([]any, 0, d.n)
		for i := 0; i < d.n; i++ {
			item, rest, err := decodeDescriptor(d.inner, s, view, ctx)
			if err != nil {
				return nil, s, err
			}
			out = append(out, item)
			s = rest
		}
		return out, s, nil

	case kindMap:
		raw, rest, err := decodeDescriptor(d.inner, s, view, ctx)
		if err != nil {
			return nil, s, err
		}
		v, err := d.vm.Forward(raw)
		if err != nil {
			return nil, s, err
		}
		return v, rest, nil

	case kindLit:
		v, rest, err := decodeDescriptor(d.inner, s, view, ctx)
		if err != nil {
			return nil, s, err
		}
		if !equalValues(v, d.def) {
			return nil, s, fmt.Errorf("%w: expected %v, got %v", ErrLiteralMismatch, d.def, v)
		}
		return v, rest, nil

	case kindNone:
		return nil, s, nil

	case kindRecord:
		sub, rest, err := s.Take(d.n)
		if err != nil {
			return nil, s, err
		}
		msg, err := d.ty.FromBits(sub, ctx)
		if err != nil {
			// The nested record must fill exactly its declared width.
			if errors.Is(err, ErrLeftoverBits) || errors.Is(err, ErrShortBuffer) {
				err = fmt.Errorf("%w: %w", ErrWidthMismatch, err)
			}
			return nil, s, err
		}
		return msg, rest, nil

	case kindDynSelf:
		resolved, err := undisguise(d.dyn(view))
		if err != nil {
			return nil, s, err
		}
		return decodeDescriptor(resolved, s, view, ctx)

	case kindDynSelfN:
		resolved, err := undisguise(d.dynN(view, s.Remaining()))
		if err != nil {
			return nil, s, err
		}
		return decodeDescriptor(resolved, s, view, ctx)

	default:
		panic(fmt.Sprintf("bitfield: unknown descriptor kind %d", d.kind))
	}
}
