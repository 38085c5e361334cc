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

import "fmt"

// undisguise normalizes a value a dispatcher (or builder argument) may
// supply into a canonical descriptor:
//
//   - a *Descriptor is itself;
//   - a *Type becomes a nested-record descriptor of the type's static width;
//   - a []byte or string literal becomes a literal field of its own length;
//   - nil becomes the zero-width none descriptor;
//   - an error value aborts the current operation with that error.
func undisguise(x any) (*Descriptor, error) {
	switch v := x.(type) {
	case *Descriptor:
		if v == nil {
			return nil, fmt.Errorf("%w: nil descriptor", ErrDynDispatch)
		}
		return v, nil

	case *Type:
		n, ok := v.Length()
		if !ok {
			return nil, fmt.Errorf("%w: cannot infer length for dynamic record %s", ErrDynDispatch, v.name)
		}
		return Nested(v, n), nil

	case []byte:
		return Lit(Bytes(len(v)), v), nil

	case string:
		return Lit(Str(len(v)), v), nil

	case nil:
		return None(), nil

	case error:
		return nil, v

	default:
		return nil, fmt.Errorf("%w: expected a field type, got %T", ErrDynDispatch, x)
	}
}
