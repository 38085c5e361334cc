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
	"io"
)

// Sentinel errors for the failure kinds the codec can hit. Decode and encode
// failures of these kinds unwrap, via [errors.Is], to the matching sentinel.
// Errors that dispatchers return and errors from a value mapper's Forward are
// passed through unchanged; a value of the wrong Go type for a bits, list,
// none or record descriptor fails with an error that matches none of these.
var (
	// ErrShortBuffer reports a decode that requested more bits than remain.
	ErrShortBuffer = io.ErrUnexpectedEOF

	// ErrLiteralMismatch reports a literal field whose decoded or encoded
	// value differed from its required value.
	ErrLiteralMismatch = errors.New("literal value mismatch")

	// ErrWidthMismatch reports a value whose bit or element count does not
	// match its descriptor, or a nested record that did not consume exactly
	// its declared width.
	ErrWidthMismatch = errors.New("width mismatch")

	// ErrOutOfRange reports an integer that does not fit its declared width,
	// or a value mapper that rejected its input.
	ErrOutOfRange = errors.New("value out of range")

	// ErrLeftoverBits reports a [Type.FromBits] decode that returned with
	// unread bits remaining. For a nested record the error also matches
	// [ErrWidthMismatch].
	ErrLeftoverBits = errors.New("bits left over after parsing")

	// ErrDynDispatch reports a dynamic field whose encoding could not be
	// inferred from the value being serialized.
	ErrDynDispatch = errors.New("cannot infer encoding for value")

	// ErrAlignment reports a byte conversion of a buffer whose length is not
	// a multiple of 8.
	ErrAlignment = errors.New("buffer is not byte aligned")
)

// SchemaError is an error raised at schema definition time by [NewType].
type SchemaError struct {
	// Type is the name of the schema being defined.
	Type string

	// Field is the name of the offending field, if any.
	Field string

	// Err describes the defect.
	Err error
}

// Error implements [error].
func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("bitfield: invalid schema %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("bitfield: invalid schema %s: field %q: %v", e.Type, e.Field, e.Err)
}

// Unwrap implements error unwrapping viz [errors.Unwrap].
func (e *SchemaError) Unwrap() error { return e.Err }

// FieldError annotates a decode or encode failure with the field and record
// it occurred in. Failures inside nested records wrap recursively, forming a
// dotted trace from the outermost record down to the offending field.
type FieldError struct {
	// Type is the name of the record the field belongs to.
	Type string

	// Field is the declared field name.
	Field string

	// Err is the underlying failure.
	Err error
}

// Error implements [error].
func (e *FieldError) Error() string {
	return fmt.Sprintf("error in field %q of %s: %v", e.Field, e.Type, e.Err)
}

// Unwrap implements error unwrapping viz [errors.Unwrap].
func (e *FieldError) Unwrap() error { return e.Err }
