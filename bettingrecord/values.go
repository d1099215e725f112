// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bettingrecord

import (
	"github.com/bettingd/bettingd/fault"
)

// Height - a block height value
type Height uint32

// MarshalBinary - varint height
func (h Height) MarshalBinary() ([]byte, error) {
	return Packed{}.appendUint(uint64(h)), nil
}

// UnmarshalBinary - inverse of MarshalBinary
func (h *Height) UnmarshalBinary(data []byte) error {
	u := unpacker{record: data}
	value := u.uint32()
	if err := u.finish(); nil != err {
		return err
	}
	*h = Height(value)
	return nil
}

// Marker - presence only value
type Marker struct{}

// MarshalBinary - single zero byte
func (Marker) MarshalBinary() ([]byte, error) {
	return []byte{0}, nil
}

// UnmarshalBinary - inverse of MarshalBinary
func (*Marker) UnmarshalBinary(data []byte) error {
	if 1 != len(data) || 0 != data[0] {
		return fault.ErrWrongRecordType
	}
	return nil
}

// MarshalBinary - the five odds values
func (c ContenderInfo) MarshalBinary() ([]byte, error) {
	return c.pack(nil), nil
}

func (c ContenderInfo) pack(p Packed) Packed {
	p = p.appendUint(uint64(c.InputOdds))
	p = p.appendUint(uint64(c.OutrightOdds))
	p = p.appendUint(uint64(c.PlaceOdds))
	p = p.appendUint(uint64(c.ShowOdds))
	return p.appendUint(uint64(c.Modifier))
}

// UnmarshalBinary - inverse of MarshalBinary
func (c *ContenderInfo) UnmarshalBinary(data []byte) error {
	u := unpacker{record: data}
	c.unpack(&u)
	return u.finish()
}

func (c *ContenderInfo) unpack(u *unpacker) {
	c.InputOdds = u.uint32()
	c.OutrightOdds = u.uint32()
	c.PlaceOdds = u.uint32()
	c.ShowOdds = u.uint32()
	c.Modifier = u.uint32()
}

// MarshalBinary - see package documentation for the layout
func (event *FieldEvent) MarshalBinary() ([]byte, error) {
	p := Packed{}
	p = p.appendUint(uint64(event.EventID))
	p = p.appendUint(event.StartTime)
	p = p.appendUint(uint64(event.Sport))
	p = p.appendUint(uint64(event.Tournament))
	p = p.appendUint(uint64(event.Stage))
	p = p.appendUint(uint64(event.GroupType))
	p = p.appendUint(uint64(event.MarginPercent))

	ids := event.ContenderIDs()
	p = p.appendUint(uint64(len(ids)))
	for _, id := range ids {
		p = p.appendUint(uint64(id))
		p = event.Contenders[id].pack(p)
	}
	return p, nil
}

// UnmarshalBinary - inverse of MarshalBinary
func (event *FieldEvent) UnmarshalBinary(data []byte) error {
	u := unpacker{record: data}
	event.unpack(&u)
	return u.finish()
}

func (event *FieldEvent) unpack(u *unpacker) {
	event.EventID = u.uint32()
	event.StartTime = u.uint64()
	event.Sport = u.uint32()
	event.Tournament = u.uint32()
	event.Stage = u.uint32()
	event.GroupType = FieldEventGroupType(u.uint32())
	event.MarginPercent = u.uint32()

	count := u.uint32()
	if nil != u.err {
		return
	}
	// each contender needs at least six bytes
	if uint64(count)*6 > uint64(len(u.record)-u.n) {
		u.err = fault.ErrTruncatedRecord
		return
	}
	event.Contenders = make(map[uint32]ContenderInfo, count)
	previous := uint32(0)
	for i := uint32(0); i < count; i += 1 {
		id := u.uint32()
		info := ContenderInfo{}
		info.unpack(u)
		if nil != u.err {
			return
		}
		// ids are packed strictly ascending
		if i > 0 && id <= previous {
			u.err = fault.ErrWrongRecordType
			return
		}
		previous = id
		event.Contenders[id] = info
	}
}
