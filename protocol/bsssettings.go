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

package protocol

import (
	"fmt"

	"github.com/na7q/benlink/bitfield"
)

// PacketFormat selects the over-the-air packet framing.
type PacketFormat uint8

const (
	PacketFormatBSS PacketFormat = iota
	PacketFormatAPRS
)

// bssSettingsHead is everything that precedes the user id in the wire
// layout; bssSettingsTail is everything that follows it.
func bssSettingsHead() []bitfield.Field {
	return []bitfield.Field{
		{Name: "max_fwd_times", Desc: bitfield.Uint(4)},
		{Name: "time_to_live", Desc: bitfield.Uint(4)},
		{Name: "ptt_release_send_location", Desc: bitfield.Bool()},
		{Name: "ptt_release_send_id_info", Desc: bitfield.Bool()},
		{Name: "ptt_release_send_bss_user_id", Desc: bitfield.Bool()},
		{Name: "should_share_location", Desc: bitfield.Bool()},
		{Name: "send_pwr_voltage", Desc: bitfield.Bool()},
		{Name: "packet_format", Desc: bitfield.Enum[PacketFormat](1)},
		{Name: "allow_position_check", Desc: bitfield.Bool()},
		{Name: "_pad", Desc: bitfield.LitUint(1, 0)},
		{Name: "aprs_ssid", Desc: bitfield.Uint(4)},
		{Name: "_pad2", Desc: bitfield.LitUint(4, 0)},
		{Name: "location_share_interval", Desc: bitfield.Uint(8)},
	}
}

func bssSettingsTail() []bitfield.Field {
	return []bitfield.Field{
		{Name: "ptt_release_id_info", Desc: bitfield.Bytes(12)},
		{Name: "beacon_message", Desc: bitfield.Str(18)},
		{Name: "aprs_symbol", Desc: bitfield.Str(2)},
		{Name: "aprs_callsign", Desc: bitfield.Str(6)},
	}
}

// BSSSettings is the packet settings record with a 32-bit user id.
var BSSSettings = bitfield.MustType("BSSSettings", append(append(
	bssSettingsHead(),
	bitfield.Field{Name: "bss_user_id", Desc: bitfield.Uint(32)}),
	bssSettingsTail()...,
))

// BSSSettingsExt widens the user id to 64 bits. On the wire the lower half
// stays where the 32-bit id sits in [BSSSettings] and the upper half is
// appended at the end; the reorder permutation stitches the two halves back
// into one declared field.
var BSSSettingsExt = bitfield.MustType("BSSSettingsExt", append(append(
	[]bitfield.Field{{Name: "bss_user_id", Desc: bitfield.Uint(64)}},
	bssSettingsHead()...),
	bssSettingsTail()...,
), bitfield.WithReorder(bssExtReorder()))

func bssExtReorder() []int {
	out := make([]int, 0, 64)
	for i := 368; i < 368+32; i++ {
		out = append(out, i)
	}
	for i := 32; i < 32+32; i++ {
		out = append(out, i)
	}
	return out
}

// BSSSettingsDisc picks the settings variant by size.
func BSSSettingsDisc(_ bitfield.View, n int) any {
	if l, _ := BSSSettings.Length(); n == l {
		return BSSSettings
	}
	if l, _ := BSSSettingsExt.Length(); n == l {
		return BSSSettingsExt
	}
	return fmt.Errorf("unknown size for BSSSettings (%d)", n)
}

// ReadBSSSettings requests the packet settings.
var ReadBSSSettings = bitfield.MustType("ReadBSSSettings", []bitfield.Field{
	{Name: "unknown", Desc: bitfield.Uint(8)},
})

// ReadBSSSettingsReply carries the current packet settings.
var ReadBSSSettingsReply = bitfield.MustType("ReadBSSSettingsReply", []bitfield.Field{
	{Name: "reply_status", Desc: bitfield.Enum[ReplyStatus](8)},
	{Name: "bss_settings", Desc: bitfield.Dyn(BSSSettingsDisc)},
})

// WriteBSSSettings replaces the packet settings.
var WriteBSSSettings = bitfield.MustType("WriteBSSSettings", []bitfield.Field{
	{Name: "bss_settings", Desc: bitfield.Dyn(BSSSettingsDisc)},
})

// WriteBSSSettingsReply acknowledges a settings write.
var WriteBSSSettingsReply = bitfield.MustType("WriteBSSSettingsReply", []bitfield.Field{
	{Name: "reply_status", Desc: bitfield.Enum[ReplyStatus](8)},
})
