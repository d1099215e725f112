// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bettingrecord

import (
	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/util"
)

// Packed - packed record
type Packed []byte

func (p Packed) appendUint(value uint64) Packed {
	return util.AppendVarint64(p, value)
}

func (p Packed) appendBytes(data []byte) Packed {
	p = util.AppendVarint64(p, uint64(len(data)))
	return append(p, data...)
}

// reads varints from a packed record, the first failure sticks so
// callers can check err once at the end
type unpacker struct {
	record []byte
	n      int
	err    error
}

func (u *unpacker) uint64() uint64 {
	if nil != u.err {
		return 0
	}
	value, count := util.FromVarint64(u.record[u.n:])
	if 0 == count {
		u.err = fault.ErrTruncatedRecord
		return 0
	}
	u.n += count
	return value
}

func (u *unpacker) uint32() uint32 {
	if nil != u.err {
		return 0
	}
	value, count := util.FromVarint32(u.record[u.n:])
	if 0 == count {
		u.err = fault.ErrTruncatedRecord
		return 0
	}
	u.n += count
	return value
}

func (u *unpacker) bytes() []byte {
	length := u.uint64()
	if nil != u.err {
		return nil
	}
	if uint64(len(u.record)-u.n) < length {
		u.err = fault.ErrTruncatedRecord
		return nil
	}
	data := make([]byte, length)
	copy(data, u.record[u.n:u.n+int(length)])
	u.n += int(length)
	return data
}

// finish - whole record must have been consumed
func (u *unpacker) finish() error {
	if nil != u.err {
		return u.err
	}
	if u.n != len(u.record) {
		return fault.ErrTrailingData
	}
	return nil
}
