// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package betting

import (
	"github.com/bettingd/bettingd/bettingrecord"
	"github.com/bettingd/bettingd/fault"
)

// the last height is kept in the undo table under a fixed string key
// that cannot collide with a 36 byte undo key

// SetLastHeight - record the height of the last connected block
//
// the height must not decrease
func (view *View) SetLastHeight(height uint32) error {
	current, err := view.GetLastHeight()
	if nil != err {
		return err
	}
	if height < current {
		view.log.Errorf("set last height: %d below current: %d", height, current)
		return fault.ErrHeightDecrease
	}
	return view.Undos.Upsert(bettingrecord.LastHeightKey, bettingrecord.Height(height))
}

// GetLastHeight - height of the last connected block, zero if none
func (view *View) GetLastHeight() (uint32, error) {
	var height bettingrecord.Height
	_, err := view.Undos.Read(bettingrecord.LastHeightKey, &height)
	if nil != err {
		return 0, err
	}
	return uint32(height), nil
}

// RewindLastHeight - set the last height after disconnecting a block
func (view *View) RewindLastHeight(height uint32) error {
	current, err := view.GetLastHeight()
	if nil != err {
		return err
	}
	if height > current {
		return fault.ErrBlockOutOfSequence
	}
	return view.Undos.Upsert(bettingrecord.LastHeightKey, bettingrecord.Height(height))
}
