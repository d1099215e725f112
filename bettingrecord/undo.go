// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bettingrecord

import (
	"github.com/bettingd/bettingd/fault"
)

// UndoKind - what an undo fragment restores
type UndoKind uint32

// possible undo kinds
const (
	// FieldEventUndo - restore Previous into the field events
	// table, or erase the event if Previous is nil
	FieldEventUndo UndoKind = iota + 1
)

func (k UndoKind) String() string {
	switch k {
	case FieldEventUndo:
		return "fieldEvent"
	default:
		return "unknown"
	}
}

// UndoFragment - state before one mutation, tagged with the height
// of the block that made the mutation
type UndoFragment struct {
	Kind     UndoKind
	Height   uint32
	EventID  uint32
	Previous *FieldEvent
}

// UndoRecord - fragments of one transaction in the order they were made
type UndoRecord []UndoFragment

// NewFieldEventUndo - fragment to restore an event to its state
// before a mutation, previous is nil when the event did not exist
func NewFieldEventUndo(height uint32, eventID uint32, previous *FieldEvent) UndoFragment {
	return UndoFragment{
		Kind:     FieldEventUndo,
		Height:   height,
		EventID:  eventID,
		Previous: previous.Clone(),
	}
}

func (f UndoFragment) pack(p Packed) (Packed, error) {
	p = p.appendUint(uint64(f.Kind))
	p = p.appendUint(uint64(f.Height))
	p = p.appendUint(uint64(f.EventID))
	if nil == f.Previous {
		return append(p, 0), nil
	}
	packedEvent, err := f.Previous.MarshalBinary()
	if nil != err {
		return nil, err
	}
	p = append(p, 1)
	return p.appendBytes(packedEvent), nil
}

func (f *UndoFragment) unpack(u *unpacker) {
	f.Kind = UndoKind(u.uint32())
	f.Height = u.uint32()
	f.EventID = u.uint32()
	if nil != u.err {
		return
	}
	if FieldEventUndo != f.Kind {
		u.err = fault.ErrUnknownUndoKind
		return
	}
	if u.n >= len(u.record) {
		u.err = fault.ErrTruncatedRecord
		return
	}
	present := u.record[u.n]
	u.n += 1

	switch present {
	case 0:
		f.Previous = nil
	case 1:
		packedEvent := u.bytes()
		if nil != u.err {
			return
		}
		event := &FieldEvent{}
		if err := event.UnmarshalBinary(packedEvent); nil != err {
			u.err = err
			return
		}
		f.Previous = event
	default:
		u.err = fault.ErrCorruptUndoRecord
	}
}

// MarshalBinary - count ++ fragments
func (r UndoRecord) MarshalBinary() ([]byte, error) {
	p := Packed{}.appendUint(uint64(len(r)))
	var err error
	for _, f := range r {
		p, err = f.pack(p)
		if nil != err {
			return nil, err
		}
	}
	return p, nil
}

// UnmarshalBinary - inverse of MarshalBinary
func (r *UndoRecord) UnmarshalBinary(data []byte) error {
	u := unpacker{record: data}
	count := u.uint32()
	if nil != u.err {
		return u.err
	}
	// each fragment needs at least four bytes
	if uint64(count)*4 > uint64(len(data)-u.n) {
		return fault.ErrTruncatedRecord
	}
	record := make(UndoRecord, count)
	for i := range record {
		record[i].unpack(&u)
		if nil != u.err {
			return u.err
		}
	}
	if err := u.finish(); nil != err {
		return err
	}
	*r = record
	return nil
}

// FirstHeight - height of the first fragment
func (r UndoRecord) FirstHeight() (uint32, error) {
	if 0 == len(r) {
		return 0, fault.ErrEmptyUndoRecord
	}
	return r[0].Height, nil
}
