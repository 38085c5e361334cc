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

// Package bitfield derives bidirectional bit-level codecs from declarative
// record schemas.
//
// A schema is an ordered list of named fields, each measured in bits rather
// than bytes: integers of arbitrary width up to 64, booleans, enumerations,
// fixed strings and byte blocks, fixed-length lists, raw bit runs, nested
// records, literal assertions, and fields whose concrete shape is picked at
// codec time from previously decoded siblings or from the number of unread
// bits. A record may also declare a bit-reorder permutation so logically
// adjacent fields can sit apart on the wire.
//
// Compile a schema once with [NewType] (or [MustType] for package-level
// declarations) and cache the resulting [Type], like regexp.Compile. A Type
// decodes with [Type.FromBytes] or [Type.FromBits] and records serialize
// with [Message.ToBytes]; both directions thread an opaque caller context
// through nested records and dynamic dispatchers.
//
// Within every field the most significant bit is first on the wire. Each
// descriptor kind produces a fixed Go value type: bit runs are [Bits],
// integers are uint64, byte blocks are []byte, strings are string, lists are
// []any, nested records are *[Message], and absent alternatives are nil.
//
// Types, descriptors, and messages are immutable; any number of goroutines
// may decode and encode through a shared [Type] concurrently, provided the
// context values and mappers they supply are themselves safe to share.
package bitfield
