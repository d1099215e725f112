// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package betting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bettingd/bettingd/bettingrecord"
	"github.com/bettingd/bettingd/fault"
)

func TestProcessFieldEventTx(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	key := undoKey("create-1")
	err := view.ProcessFieldEventTx(key, createTx(1, bettingrecord.Other, 100, sixContenders...), 10)
	assert.Nil(t, err, "create")

	event, found, err := view.ReadFieldEvent(1)
	assert.Nil(t, err, "read error")
	assert.True(t, found, "found")
	assert.Equal(t, uint32(1), event.EventID, "event id")
	assert.Equal(t, uint32(100), event.MarginPercent, "margin")
	assert.Equal(t, len(sixContenders), len(event.Contenders), "contenders")
	for id, info := range event.Contenders {
		assert.Equal(t, sixContenders[id-1], info.InputOdds, "%d: input odds", id)
		assert.NotEqual(t, uint32(0), info.PlaceOdds, "%d: place odds", id)
		assert.Equal(t, uint32(0), info.ShowOdds, "%d: show odds", id)
	}

	record, err := view.GetBettingUndo(key)
	assert.Nil(t, err, "undo error")
	assert.Equal(t, 1, len(record), "undo fragments")
	assert.Equal(t, bettingrecord.FieldEventUndo, record[0].Kind, "undo kind")
	assert.Equal(t, uint32(10), record[0].Height, "undo height")
	assert.Nil(t, record[0].Previous, "no previous event")

	err = view.ProcessFieldEventTx(undoKey("create-2"), createTx(1, bettingrecord.Other, 50, sixContenders...), 11)
	assert.Equal(t, fault.ErrFieldEventExists, err, "duplicate event")
}

func TestProcessFieldEventTxInvalid(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	tests := []struct {
		tx  *bettingrecord.FieldEventTx
		err error
	}{
		{createTx(1, 0, 10, sixContenders...), fault.ErrInvalidGroupType},
		{createTx(1, 3, 10, sixContenders...), fault.ErrInvalidGroupType},
		{createTx(1, bettingrecord.Other, 101, sixContenders...), fault.ErrInvalidMargin},
		{createTx(1, bettingrecord.AnimalRacing, 10), fault.ErrNoContenders},
	}

	for i, item := range tests {
		err := view.ProcessFieldEventTx(undoKey("bad"), item.tx, 10)
		assert.Equal(t, item.err, err, "%d: error", i)
		assert.True(t, fault.IsErrInvalid(err), "%d: invalid", i)
	}

	_, found, _ := view.ReadFieldEvent(1)
	assert.False(t, found, "nothing created")
	assert.Equal(t, 0, view.CacheSize(), "nothing written")
}

func TestProcessFieldUpdateOddsTx(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	assert.Nil(t, view.ProcessFieldEventTx(undoKey("create"), createTx(3, bettingrecord.Other, 100, sixContenders...), 1), "create")
	before, _, _ := view.ReadFieldEvent(3)

	update := &bettingrecord.FieldUpdateOddsTx{
		EventID: 3,
		ContendersInputOdds: map[uint32]uint32{
			6: 0,
			7: 300000,
		},
	}
	key := undoKey("update")
	assert.Nil(t, view.ProcessFieldUpdateOddsTx(key, update, 2), "update")

	after, _, _ := view.ReadFieldEvent(3)
	assert.Equal(t, 7, len(after.Contenders), "contender added")
	assert.Equal(t, uint32(0), after.Contenders[6].InputOdds, "withdrawn")
	assert.Equal(t, uint32(0), after.Contenders[6].PlaceOdds, "withdrawn place")
	assert.Equal(t, uint32(300000), after.Contenders[7].InputOdds, "new contender")
	assert.NotEqual(t, before.Contenders[1].PlaceOdds, after.Contenders[1].PlaceOdds, "repriced")

	record, _ := view.GetBettingUndo(key)
	assert.Equal(t, 1, len(record), "undo fragments")
	assert.Equal(t, before, record[0].Previous, "previous state")

	err := view.ProcessFieldUpdateOddsTx(undoKey("missing"), &bettingrecord.FieldUpdateOddsTx{
		EventID:             99,
		ContendersInputOdds: map[uint32]uint32{1: 20000},
	}, 2)
	assert.Equal(t, fault.ErrFieldEventNotFound, err, "missing event")

	err = view.ProcessFieldUpdateOddsTx(undoKey("empty"), &bettingrecord.FieldUpdateOddsTx{EventID: 3}, 2)
	assert.Equal(t, fault.ErrNoContenders, err, "no contenders")
}

func TestProcessFieldUpdateMarginTx(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	assert.Nil(t, view.ProcessFieldEventTx(undoKey("create"), createTx(4, bettingrecord.Other, 100, sixContenders...), 1), "create")

	err := view.ProcessFieldUpdateMarginTx(undoKey("too-big"), &bettingrecord.FieldUpdateMarginTx{EventID: 4, MarginPercent: 101}, 2)
	assert.Equal(t, fault.ErrInvalidMargin, err, "margin too big")

	err = view.ProcessFieldUpdateMarginTx(undoKey("missing"), &bettingrecord.FieldUpdateMarginTx{EventID: 5, MarginPercent: 10}, 2)
	assert.Equal(t, fault.ErrFieldEventNotFound, err, "missing event")

	assert.Nil(t, view.ProcessFieldUpdateMarginTx(undoKey("margin"), &bettingrecord.FieldUpdateMarginTx{EventID: 4, MarginPercent: 90}, 2), "update")
	event, _, _ := view.ReadFieldEvent(4)
	assert.Equal(t, uint32(90), event.MarginPercent, "margin")
	assert.Equal(t, len(sixContenders), len(event.Contenders), "contenders kept")
}

func TestUndoBettingTx(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	createKey := undoKey("create")
	assert.Nil(t, view.ProcessFieldEventTx(createKey, createTx(5, bettingrecord.Other, 100, sixContenders...), 1), "create")
	created, _, _ := view.ReadFieldEvent(5)

	marginKey := undoKey("margin")
	assert.Nil(t, view.ProcessFieldUpdateMarginTx(marginKey, &bettingrecord.FieldUpdateMarginTx{EventID: 5, MarginPercent: 90}, 2), "update")

	// reverse the update: the created state returns
	assert.Nil(t, view.UndoBettingTx(marginKey), "undo update")
	restored, found, _ := view.ReadFieldEvent(5)
	assert.True(t, found, "still present")
	assert.Equal(t, created, restored, "restored")
	exists, _ := view.ExistsBettingUndo(marginKey)
	assert.False(t, exists, "update undo erased")

	// reverse the creation: the event is gone
	assert.Nil(t, view.UndoBettingTx(createKey), "undo create")
	_, found, _ = view.ReadFieldEvent(5)
	assert.False(t, found, "erased")
	exists, _ = view.ExistsBettingUndo(createKey)
	assert.False(t, exists, "create undo erased")

	// nothing left to reverse
	assert.Nil(t, view.UndoBettingTx(createKey), "undo absent record")
}

func TestUndoCreationOfAbsentEvent(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	key := undoKey("orphan")
	record := bettingrecord.UndoRecord{
		bettingrecord.NewFieldEventUndo(1, 1, nil),
	}
	assert.Nil(t, view.SaveBettingUndo(key, record), "save")
	assert.Nil(t, view.UndoBettingTx(key), "erase absent event")

	exists, _ := view.ExistsBettingUndo(key)
	assert.False(t, exists, "record erased")
}
