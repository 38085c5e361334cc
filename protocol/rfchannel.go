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
	"math"

	"github.com/na7q/benlink/bitfield"
)

// ModulationType selects the channel modulation.
type ModulationType uint8

const (
	ModulationFM ModulationType = iota
	ModulationAM
	ModulationDMR
)

// BandwidthType selects the channel bandwidth.
type BandwidthType uint8

const (
	BandwidthNarrow BandwidthType = iota
	BandwidthWide
)

// SubAudio maps the 16-bit sub-audio word: 0 is none (nil), values below
// 6700 are [DCS] codes, and anything else is a CTCSS frequency in Hz stored
// in centihertz.
type SubAudio struct{}

// Forward implements [bitfield.ValueMapper].
func (SubAudio) Forward(x any) (any, error) {
	v, ok := x.(uint64)
	if !ok {
		return nil, fmt.Errorf("expected uint64, got %T", x)
	}
	switch {
	case v == 0:
		return nil, nil
	case v < 6700:
		return DCS{N: int(v)}, nil
	default:
		return float64(v) / 100, nil
	}
}

// Back implements [bitfield.ValueMapper].
func (SubAudio) Back(y any) (any, error) {
	switch v := y.(type) {
	case nil:
		return uint64(0), nil
	case DCS:
		if v.N <= 0 || v.N >= 6700 {
			return nil, fmt.Errorf("invalid DCS value: %d", v.N)
		}
		return uint64(v.N), nil
	case float64:
		if v < 67 || v > 254.1 {
			return nil, fmt.Errorf("invalid sub-audio value: %v", v)
		}
		return uint64(math.Round(v * 100)), nil
	default:
		return nil, fmt.Errorf("expected nil, DCS, or float64, got %T", y)
	}
}

// channelSettingsFields is the base field list shared by the analog and DMR
// channel settings records.
func channelSettingsFields() []bitfield.Field {
	freq := bitfield.Scale{By: 1e-6, Digits: 6}
	return []bitfield.Field{
		{Name: "channel_id", Desc: bitfield.Uint(8)},
		{Name: "tx_mod", Desc: bitfield.Enum[ModulationType](2)},
		{Name: "tx_freq", Desc: bitfield.Map(bitfield.Uint(30), freq)},
		{Name: "rx_mod", Desc: bitfield.Enum[ModulationType](2)},
		{Name: "rx_freq", Desc: bitfield.Map(bitfield.Uint(30), freq)},
		{Name: "tx_sub_audio", Desc: bitfield.Map(bitfield.Uint(16), SubAudio{})},
		{Name: "rx_sub_audio", Desc: bitfield.Map(bitfield.Uint(16), SubAudio{})},
		{Name: "scan", Desc: bitfield.Bool()},
		{Name: "tx_at_max_power", Desc: bitfield.Bool()},
		{Name: "talk_around", Desc: bitfield.Bool()},
		{Name: "bandwidth", Desc: bitfield.Enum[BandwidthType](1)},
		{Name: "pre_de_emph_bypass", Desc: bitfield.Bool()},
		{Name: "sign", Desc: bitfield.Bool()},
		{Name: "tx_at_med_power", Desc: bitfield.Bool()},
		{Name: "tx_disable", Desc: bitfield.Bool()},
		{Name: "fixed_freq", Desc: bitfield.Bool()},
		{Name: "fixed_bandwidth", Desc: bitfield.Bool()},
		{Name: "fixed_tx_power", Desc: bitfield.Bool()},
		{Name: "mute", Desc: bitfield.Bool()},
		{Name: "_pad", Desc: bitfield.LitUint(4, 0)},
		{Name: "name_str", Desc: bitfield.Str(10)},
	}
}

// ChannelSettings is one analog RF channel.
var ChannelSettings = bitfield.MustType("ChannelSettings", channelSettingsFields())

// ChannelSettingsDMR extends [ChannelSettings] with the DMR color codes and
// time slot.
var ChannelSettingsDMR = bitfield.MustType("ChannelSettingsDMR", append(
	channelSettingsFields(),
	bitfield.Field{Name: "tx_color", Desc: bitfield.Uint(4)},
	bitfield.Field{Name: "rx_color", Desc: bitfield.Uint(4)},
	bitfield.Field{Name: "slot", Desc: bitfield.Uint(1)},
	bitfield.Field{Name: "_pad2", Desc: bitfield.LitUint(7, 0)},
))

// ChannelSettingsDisc picks the channel settings variant by size.
//
// The app detects DMR support via the device settings; going by the record
// size keeps the schema self-contained.
func ChannelSettingsDisc(_ bitfield.View, n int) any {
	if l, _ := ChannelSettings.Length(); n == l {
		return ChannelSettings
	}
	if l, _ := ChannelSettingsDMR.Length(); n == l {
		return ChannelSettingsDMR
	}
	return fmt.Errorf("unknown channel settings type (size %d)", n)
}

// channelSettingsReplyDisc is [ChannelSettingsDisc], except that a failed
// reply carries no settings at all.
func channelSettingsReplyDisc(v bitfield.View, n int) any {
	if v.Get("reply_status").(ReplyStatus) != ReplyStatusSuccess {
		return nil
	}
	return ChannelSettingsDisc(v, n)
}

// ReadRFCh requests one channel's settings.
var ReadRFCh = bitfield.MustType("ReadRFCh", []bitfield.Field{
	{Name: "channel_id", Desc: bitfield.Uint(8)},
})

// ReadRFChReply carries the requested settings, absent on failure.
var ReadRFChReply = bitfield.MustType("ReadRFChReply", []bitfield.Field{
	{Name: "reply_status", Desc: bitfield.Enum[ReplyStatus](8)},
	{Name: "channel_settings", Desc: bitfield.Dyn(channelSettingsReplyDisc)},
})

// WriteRFCh replaces one channel's settings.
var WriteRFCh = bitfield.MustType("WriteRFCh", []bitfield.Field{
	{Name: "channel_settings", Desc: bitfield.Dyn(ChannelSettingsDisc)},
})

// WriteRFChReply acknowledges a channel write.
var WriteRFChReply = bitfield.MustType("WriteRFChReply", []bitfield.Field{
	{Name: "reply_status", Desc: bitfield.Enum[ReplyStatus](8)},
	{Name: "channel_id", Desc: bitfield.Uint(8)},
})
