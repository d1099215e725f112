// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package betting

import (
	"bytes"

	"github.com/bettingd/bettingd/bettingrecord"
)

// raw key of the last height entry sharing the undo table
var lastHeightKey = []byte(bettingrecord.LastHeightKey)

// SaveBettingUndo - store the undo record of a transaction
//
// undo keys are write once, an existing key is fault.ErrKeyExists
func (view *View) SaveBettingUndo(key bettingrecord.BettingUndoKey, record bettingrecord.UndoRecord) error {
	return view.Undos.Write(key, record)
}

// EraseBettingUndo - remove an undo record, false if it was absent
func (view *View) EraseBettingUndo(key bettingrecord.BettingUndoKey) (bool, error) {
	return view.Undos.Erase(key)
}

// GetBettingUndo - the undo record of a transaction
//
// an absent key gives an empty record, not an error
func (view *View) GetBettingUndo(key bettingrecord.BettingUndoKey) (bettingrecord.UndoRecord, error) {
	record := bettingrecord.UndoRecord{}
	_, err := view.Undos.Read(key, &record)
	if nil != err {
		return bettingrecord.UndoRecord{}, err
	}
	return record, nil
}

// ExistsBettingUndo - check for an undo record
func (view *View) ExistsBettingUndo(key bettingrecord.BettingUndoKey) (bool, error) {
	return view.Undos.Exists(key)
}

// PruneOlderUndos - erase every undo record made below height
//
// keys are collected by a full scan first and erased afterwards, so
// the table is never modified under the cursor
func (view *View) PruneOlderUndos(height uint32) (int, error) {
	expired := []bettingrecord.BettingUndoKey{}

	cursor := view.Undos.NewIterator()
	for cursor.First(); cursor.Valid(); cursor.Next() {
		if bytes.Equal(lastHeightKey, cursor.Key()) {
			continue
		}

		var key bettingrecord.BettingUndoKey
		err := key.UnmarshalBinary(cursor.Key())
		if nil != err {
			cursor.Release()
			return 0, err
		}

		var record bettingrecord.UndoRecord
		err = record.UnmarshalBinary(cursor.Value())
		if nil != err {
			cursor.Release()
			view.log.Errorf("prune: undo: %x  error: %s", cursor.Key(), err)
			return 0, err
		}

		first, err := record.FirstHeight()
		if nil != err {
			cursor.Release()
			return 0, err
		}
		if first < height {
			expired = append(expired, key)
		}
	}
	err := cursor.Error()
	cursor.Release()
	if nil != err {
		return 0, err
	}

	for _, key := range expired {
		_, err = view.Undos.Erase(key)
		if nil != err {
			return 0, err
		}
	}

	if 0 != len(expired) {
		view.log.Debugf("prune: %d undo records below: %d", len(expired), height)
		view.stats.pruned += len(expired)
	}
	return len(expired), nil
}
