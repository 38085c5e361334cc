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

// Package protocol declares the packed-record shapes the radio speaks, built
// on the bitfield codec. Each schema is compiled once into a package-level
// [bitfield.Type].
package protocol

import "fmt"

// ReplyStatus is the status code leading every reply body.
type ReplyStatus uint8

const (
	ReplyStatusSuccess ReplyStatus = iota
	ReplyStatusNotSupported
	ReplyStatusNotAuthenticated
	ReplyStatusInsufficientResources
	ReplyStatusAuthenticating
	ReplyStatusInvalidParameter
	ReplyStatusIncorrectState
	ReplyStatusInProgress
)

// String implements [fmt.Stringer].
func (s ReplyStatus) String() string {
	switch s {
	case ReplyStatusSuccess:
		return "SUCCESS"
	case ReplyStatusNotSupported:
		return "NOT_SUPPORTED"
	case ReplyStatusNotAuthenticated:
		return "NOT_AUTHENTICATED"
	case ReplyStatusInsufficientResources:
		return "INSUFFICIENT_RESOURCES"
	case ReplyStatusAuthenticating:
		return "AUTHENTICATING"
	case ReplyStatusInvalidParameter:
		return "INVALID_PARAMETER"
	case ReplyStatusIncorrectState:
		return "INCORRECT_STATE"
	case ReplyStatusInProgress:
		return "IN_PROGRESS"
	default:
		return fmt.Sprintf("ReplyStatus(%d)", uint8(s))
	}
}

// DCS is a digital coded squelch code, as opposed to a CTCSS sub-audio
// frequency in Hz.
type DCS struct {
	N int
}

// String implements [fmt.Stringer].
func (d DCS) String() string { return fmt.Sprintf("DCS(%d)", d.N) }
