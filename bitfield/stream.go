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

// Stream is a read cursor over a [Bits] buffer.
//
// Stream is a value type: taking from a stream returns the advanced cursor
// rather than mutating in place, so a position can be retried or discarded
// freely.
type Stream struct {
	bits Bits
	off  int
}

// NewStream returns a cursor positioned at the start of b.
func NewStream(b Bits) Stream {
	return Stream{bits: b}
}

// Take reads the next n bits.
//
// Fails with [ErrShortBuffer] if fewer than n bits remain.
func (s Stream) Take(n int) (Bits, Stream, error) {
	if n < 0 {
		return Bits{}, s, fmt.Errorf("%w: cannot take %d bits", ErrOutOfRange, n)
	}
	if s.off+n > s.bits.Len() {
		return Bits{}, s, fmt.Errorf("%d bits requested, %d remain: %w", n, s.Remaining(), ErrShortBuffer)
	}
	out := s.bits.Slice(s.off, s.off+n)
	return out, Stream{bits: s.bits, off: s.off + n}, nil
}

// Remaining returns the number of unread bits.
func (s Stream) Remaining() int {
	return s.bits.Len() - s.off
}

// Reorder permutes the remaining bits per [Bits.Reorder] and resets the
// cursor to the start of the result.
func (s Stream) Reorder(perm []int) (Stream, error) {
	if len(perm) == 0 {
		return s, nil
	}
	rest, err := s.bits.Slice(s.off, s.bits.Len()).Reorder(perm)
	if err != nil {
		return s, err
	}
	return Stream{bits: rest}, nil
}
