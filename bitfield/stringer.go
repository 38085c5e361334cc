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
	"fmt"
	"strings"
)

// Stringer implementations for the public types. These are only relevant for
// rendering and debugging and are thus placed off to the side here.

func (k kind) String() string {
	switch k {
	case kindBits:
		return "bits"
	case kindList:
		return "list"
	case kindMap:
		return "map"
	case kindLit:
		return "lit"
	case kindNone:
		return "none"
	case kindRecord:
		return "record"
	case kindDynSelf:
		return "dyn"
	case kindDynSelfN:
		return "dyn-n"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// String renders the descriptor's shape, e.g. "list(bits(8), 3)".
func (d *Descriptor) String() string {
	switch d.kind {
	case kindBits:
		return fmt.Sprintf("bits(%d)", d.n)
	case kindList:
		return fmt.Sprintf("list(%v, %d)", d.inner, d.n)
	case kindMap:
		return fmt.Sprintf("map(%v)", d.inner)
	case kindLit:
		return fmt.Sprintf("lit(%v, %v)", d.inner, d.def)
	case kindNone:
		return "none"
	case kindRecord:
		return fmt.Sprintf("record(%s, %d)", d.ty.name, d.n)
	default:
		return d.kind.String()
	}
}

// Format implements [fmt.Formatter].
func (t *Type) Format(f fmt.State, verb rune) {
	if f.Flag('#') {
		out := new(strings.Builder)
		fmt.Fprintf(out, "%s{", t.name)
		for i, fd := range t.fields {
			if i > 0 {
				out.WriteString(", ")
			}
			fmt.Fprintf(out, "%s: %v", fd.Name, fd.Desc)
		}
		out.WriteString("}")
		fmt.Fprint(f, out.String())
		return
	}
	fmt.Fprint(f, t.name)
}

// String renders the record with each field by name, in declaration order.
func (m *Message) String() string {
	out := new(strings.Builder)
	out.WriteString(m.ty.name)
	out.WriteString("(")
	for i, f := range m.ty.fields {
		if i > 0 {
			out.WriteString(", ")
		}
		fmt.Fprintf(out, "%s=%s", f.Name, formatValue(m.values[i]))
	}
	out.WriteString(")")
	return out.String()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", x)
	case []byte:
		return fmt.Sprintf("%#x", x)
	case Bits:
		return "0b" + x.String()
	case []any:
		items := make([]string, len(x))
		for i, item := range x {
			items[i] = formatValue(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprintf("%v", x)
	}
}
