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

package bitfield_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/na7q/benlink/bitfield"
)

var packed = bitfield.MustType("Packed", []bitfield.Field{
	{Name: "a", Desc: bitfield.Uint(3)},
	{Name: "b", Desc: bitfield.Uint(5)},
})

func TestPackedRoundTrip(t *testing.T) {
	t.Parallel()

	n, ok := packed.Length()
	require.True(t, ok)
	assert.Equal(t, 8, n)

	msg, err := packed.New(bitfield.Fields{"a": uint64(5), "b": uint64(9)})
	require.NoError(t, err)

	out, err := msg.ToBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA9}, out)

	back, err := packed.FromBytes([]byte{0xA9}, nil)
	require.NoError(t, err)
	assert.True(t, back.Equal(msg))
	assert.Equal(t, uint64(5), back.Uint("a"))
	assert.Equal(t, uint64(9), back.Uint("b"))
}

func TestPackedOutOfRange(t *testing.T) {
	t.Parallel()

	msg, err := packed.New(bitfield.Fields{"a": uint64(8), "b": uint64(0)})
	require.NoError(t, err)

	_, err = msg.ToBits(nil)
	assert.ErrorIs(t, err, bitfield.ErrOutOfRange)

	var fieldErr *bitfield.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "a", fieldErr.Field)
	assert.Equal(t, "Packed", fieldErr.Type)
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	ty := bitfield.MustType("Tagged", []bitfield.Field{
		{Name: "tag", Desc: bitfield.LitUint(4, 0xA)},
		{Name: "payload", Desc: bitfield.Uint(4)},
	})

	msg, err := ty.FromBytes([]byte{0xA7}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xA), msg.Uint("tag"))
	assert.Equal(t, uint64(7), msg.Uint("payload"))

	_, err = ty.FromBytes([]byte{0xB7}, nil)
	assert.ErrorIs(t, err, bitfield.ErrLiteralMismatch)

	var fieldErr *bitfield.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "tag", fieldErr.Field)

	// The literal doubles as the field's default.
	msg, err = ty.New(bitfield.Fields{"payload": uint64(1)})
	require.NoError(t, err)
	assert.Equal(t, uint64(0xA), msg.Uint("tag"))

	// Encoding a non-default literal value fails.
	msg, err = ty.New(bitfield.Fields{"tag": uint64(0xB), "payload": uint64(1)})
	require.NoError(t, err)
	_, err = msg.ToBits(nil)
	assert.ErrorIs(t, err, bitfield.ErrLiteralMismatch)
}

func TestList(t *testing.T) {
	t.Parallel()

	ty := bitfield.MustType("Listed", []bitfield.Field{
		{Name: "xs", Desc: bitfield.List(bitfield.Uint(8), 3)},
	})

	msg, err := ty.FromBytes([]byte{0x01, 0x02, 0x03}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{uint64(1), uint64(2), uint64(3)}, msg.List("xs"))

	out, err := msg.ToBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, out)

	short, err := ty.New(bitfield.Fields{"xs": []any{uint64(1)}})
	require.NoError(t, err)
	_, err = short.ToBits(nil)
	assert.ErrorIs(t, err, bitfield.ErrWidthMismatch)
}

func TestDynByField(t *testing.T) {
	t.Parallel()

	ty := bitfield.MustType("Var", []bitfield.Field{
		{Name: "kind", Desc: bitfield.Uint(8)},
		{Name: "body", Desc: bitfield.Dyn(func(v bitfield.View) any {
			if v.Uint("kind") == 1 {
				return bitfield.Uint(16)
			}
			return bitfield.Uint(8)
		})},
	})

	_, ok := ty.Length()
	assert.False(t, ok)

	msg, err := ty.FromBytes([]byte{0x01, 0x12, 0x34}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1234), msg.Uint("body"))

	msg, err = ty.FromBytes([]byte{0x02, 0x12}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x12), msg.Uint("body"))

	out, err := msg.ToBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x12}, out)
}

var (
	short8 = bitfield.MustType("Short8", []bitfield.Field{
		{Name: "v", Desc: bitfield.Uint(8)},
	})
	wide16 = bitfield.MustType("Wide16", []bitfield.Field{
		{Name: "v", Desc: bitfield.Uint(16)},
	})
)

func TestDynByRemaining(t *testing.T) {
	t.Parallel()

	ty := bitfield.MustType("Sized", []bitfield.Field{
		{Name: "body", Desc: bitfield.Dyn(func(_ bitfield.View, n int) any {
			switch n {
			case 8:
				return short8
			case 16:
				return wide16
			default:
				return fmt.Errorf("unknown body size (%d)", n)
			}
		})},
	})

	msg, err := ty.FromBytes([]byte{0x42}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Short8", msg.Record("body").Type().Name())

	msg, err = ty.FromBytes([]byte{0x12, 0x34}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Wide16", msg.Record("body").Type().Name())
	assert.Equal(t, uint64(0x1234), msg.Record("body").Uint("v"))

	// Encode dispatches on the value's own type.
	out, err := msg.ToBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34}, out)

	_, err = ty.FromBytes([]byte{0x01, 0x02, 0x03}, nil)
	require.ErrorContains(t, err, "unknown body size (24)")
}

func TestDynEncodeDispatchError(t *testing.T) {
	t.Parallel()

	ty := bitfield.MustType("Sized", []bitfield.Field{
		{Name: "body", Desc: bitfield.Dyn(func(_ bitfield.View, n int) any {
			return short8
		})},
	})

	msg, err := ty.New(bitfield.Fields{"body": uint64(7)})
	require.NoError(t, err)
	_, err = msg.ToBits(nil)
	assert.ErrorIs(t, err, bitfield.ErrDynDispatch)
}

func TestDynLiteralResults(t *testing.T) {
	t.Parallel()

	ty := bitfield.MustType("Magic", []bitfield.Field{
		{Name: "magic", Desc: bitfield.Dyn(func(_ bitfield.View) any { return "AB" })},
	})

	msg, err := ty.FromBytes([]byte("AB"), nil)
	require.NoError(t, err)
	assert.Equal(t, "AB", msg.Str("magic"))

	_, err = ty.FromBytes([]byte("AC"), nil)
	assert.ErrorIs(t, err, bitfield.ErrLiteralMismatch)

	out, err := msg.ToBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("AB"), out)
}

func TestReorderedRecord(t *testing.T) {
	t.Parallel()

	// Declared as (a, b) but laid out on the wire as (b, a).
	ty := bitfield.MustType("Swapped", []bitfield.Field{
		{Name: "a", Desc: bitfield.Uint(4)},
		{Name: "b", Desc: bitfield.Uint(4)},
	}, bitfield.WithReorder([]int{4, 5, 6, 7, 0, 1, 2, 3}))

	msg, err := ty.FromBytes([]byte{0x21}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), msg.Uint("a"))
	assert.Equal(t, uint64(2), msg.Uint("b"))

	out, err := msg.ToBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x21}, out)
}

func TestNestedRecord(t *testing.T) {
	t.Parallel()

	inner := bitfield.MustType("Inner", []bitfield.Field{
		{Name: "tag", Desc: bitfield.LitUint(4, 0x5)},
		{Name: "x", Desc: bitfield.Uint(4)},
	})
	outer := bitfield.MustType("Outer", []bitfield.Field{
		{Name: "hdr", Desc: bitfield.Uint(8)},
		{Name: "inner", Desc: bitfield.Nested(inner, 8)},
	})

	msg, err := outer.FromBytes([]byte{0x01, 0x53}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), msg.Record("inner").Uint("x"))

	out, err := msg.ToBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x53}, out)

	// Errors inside the nested record trace through both levels.
	_, err = outer.FromBytes([]byte{0x01, 0x63}, nil)
	assert.ErrorIs(t, err, bitfield.ErrLiteralMismatch)
	assert.ErrorContains(t, err, `error in field "inner" of Outer`)
	assert.ErrorContains(t, err, `error in field "tag" of Inner`)
}

func TestShortBuffer(t *testing.T) {
	t.Parallel()

	_, err := packed.FromBytes(nil, nil)
	assert.ErrorIs(t, err, bitfield.ErrShortBuffer)
}

func TestLeftoverBits(t *testing.T) {
	t.Parallel()

	_, err := packed.FromBytes([]byte{0xA9, 0x00}, nil)
	assert.ErrorIs(t, err, bitfield.ErrLeftoverBits)

	// The stream entry point is lenient and reports the remainder instead.
	msg, rest, err := packed.FromStream(
		bitfield.NewStream(bitfield.BitsFromBytes([]byte{0xA9, 0x00})), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), msg.Uint("a"))
	assert.Equal(t, 8, rest.Remaining())
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	ty := bitfield.MustType("Defaulted", []bitfield.Field{
		{Name: "a", Desc: bitfield.Uint(8).Default(uint64(7))},
		{Name: "b", Desc: bitfield.Uint(8)},
	})

	msg, err := ty.New(bitfield.Fields{"b": uint64(1)})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), msg.Uint("a"))

	_, err = ty.New(bitfield.Fields{"a": uint64(1)})
	require.ErrorContains(t, err, "missing value")

	_, err = ty.New(bitfield.Fields{"a": uint64(1), "b": uint64(2), "c": uint64(3)})
	require.ErrorContains(t, err, "no such field")
}

func TestSchemaRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields []bitfield.Field
		want   string
	}{
		{
			name: "inner default",
			fields: []bitfield.Field{
				{Name: "xs", Desc: bitfield.List(bitfield.Uint(8).Default(uint64(1)), 2)},
			},
			want: "inner field definitions cannot have defaults",
		},
		{
			name: "list default length",
			fields: []bitfield.Field{
				{Name: "xs", Desc: bitfield.List(bitfield.Uint(8), 3).Default([]any{uint64(1), uint64(2)})},
			},
			want: "default list of length 3",
		},
		{
			name: "bytes default width",
			fields: []bitfield.Field{
				{Name: "b", Desc: bitfield.Bytes(4).Default([]byte{1, 2})},
			},
			want: "default bytes of length 4",
		},
		{
			name: "str default width",
			fields: []bitfield.Field{
				{Name: "s", Desc: bitfield.Str(4).Default("ab")},
			},
			want: "default string of length 4",
		},
		{
			name: "missing descriptor",
			fields: []bitfield.Field{
				{Name: "a"},
			},
			want: "missing field descriptor",
		},
		{
			name: "duplicate name",
			fields: []bitfield.Field{
				{Name: "a", Desc: bitfield.Uint(8)},
				{Name: "a", Desc: bitfield.Uint(8)},
			},
			want: "duplicate field name",
		},
		{
			name: "bad dispatcher signature",
			fields: []bitfield.Field{
				{Name: "d", Desc: bitfield.Dyn(func(a, b, c int) any { return nil })},
			},
			want: "unsupported dispatcher signature",
		},
		{
			name: "wide integer",
			fields: []bitfield.Field{
				{Name: "v", Desc: bitfield.Uint(65)},
			},
			want: "exceeds 64 bits",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := bitfield.NewType("Bad", tt.fields)
			require.Error(t, err)
			var schemaErr *bitfield.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSchemaRejectsReorder(t *testing.T) {
	t.Parallel()

	fields := []bitfield.Field{{Name: "a", Desc: bitfield.Uint(8)}}

	_, err := bitfield.NewType("Bad", fields, bitfield.WithReorder([]int{-1}))
	assert.ErrorContains(t, err, "negative reorder index")

	_, err = bitfield.NewType("Bad", fields, bitfield.WithReorder([]int{1, 1}))
	assert.ErrorContains(t, err, "duplicate reorder index")
}

func TestSchemaAllowsLiteralInner(t *testing.T) {
	t.Parallel()

	_, err := bitfield.NewType("PaddedList", []bitfield.Field{
		{Name: "xs", Desc: bitfield.List(bitfield.LitUint(4, 0), 2)},
	})
	assert.NoError(t, err)
}

func TestNestedDynamicLengthRejected(t *testing.T) {
	t.Parallel()

	dynTy := bitfield.MustType("DynLen", []bitfield.Field{
		{Name: "body", Desc: bitfield.Dyn(func(v bitfield.View) any { return bitfield.Uint(8) })},
	})

	_, err := bitfield.NewType("Bad", []bitfield.Field{
		{Name: "xs", Desc: bitfield.List(dynTy, 2)},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "cannot infer length")
}

func TestContextThreading(t *testing.T) {
	t.Parallel()

	type codecContext struct{ wide bool }

	inner := bitfield.MustType("CtxInner", []bitfield.Field{
		{Name: "v", Desc: bitfield.Dyn(func(v bitfield.View) any {
			if v.Context().(*codecContext).wide {
				return bitfield.Uint(16)
			}
			return bitfield.Uint(8)
		})},
	})

	// The nested record sees the caller's context, not its own.
	outer := bitfield.MustType("CtxOuter", []bitfield.Field{
		{Name: "inner", Desc: bitfield.Nested(inner, 16)},
	})

	msg, err := outer.FromBytes([]byte{0x12, 0x34}, &codecContext{wide: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1234), msg.Record("inner").Uint("v"))

	_, err = outer.FromBytes([]byte{0x12, 0x34}, &codecContext{wide: false})
	assert.ErrorIs(t, err, bitfield.ErrLeftoverBits)
}

func TestEquality(t *testing.T) {
	t.Parallel()

	other := bitfield.MustType("Packed2", []bitfield.Field{
		{Name: "a", Desc: bitfield.Uint(3)},
		{Name: "b", Desc: bitfield.Uint(5)},
	})

	m1 := packed.MustNew(bitfield.Fields{"a": uint64(5), "b": uint64(9)})
	m2 := packed.MustNew(bitfield.Fields{"a": uint64(5), "b": uint64(9)})
	m3 := packed.MustNew(bitfield.Fields{"a": uint64(5), "b": uint64(8)})
	m4 := other.MustNew(bitfield.Fields{"a": uint64(5), "b": uint64(9)})

	assert.True(t, m1.Equal(m2))
	assert.False(t, m1.Equal(m3))

	// Same shape, different schema: never equal.
	assert.False(t, m1.Equal(m4))
}

func TestMessageString(t *testing.T) {
	t.Parallel()

	ty := bitfield.MustType("Shown", []bitfield.Field{
		{Name: "id", Desc: bitfield.Uint(8)},
		{Name: "name", Desc: bitfield.Str(2)},
		{Name: "blob", Desc: bitfield.Bytes(2)},
	})
	msg := ty.MustNew(bitfield.Fields{
		"id":   uint64(7),
		"name": "hi",
		"blob": []byte{0xAB, 0xCD},
	})

	assert.Equal(t, `Shown(id=7, name="hi", blob=0xabcd)`, msg.String())
}

func TestConcurrentCodec(t *testing.T) {
	t.Parallel()

	data := []byte{0xA9}
	var group errgroup.Group
	for i := 0; i < 8; i++ {
		group.Go(func() error {
			for j := 0; j < 500; j++ {
				msg, err := packed.FromBytes(data, nil)
				if err != nil {
					return err
				}
				out, err := msg.ToBytes(nil)
				if err != nil {
					return err
				}
				if out[0] != data[0] {
					return fmt.Errorf("round trip mismatch: %#x", out)
				}
			}
			return nil
		})
	}
	require.NoError(t, group.Wait())
}
