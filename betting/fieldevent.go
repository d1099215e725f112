// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package betting

import (
	"github.com/bettingd/bettingd/bettingrecord"
	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/odds"
)

// ReadFieldEvent - fetch a field event by id
func (view *View) ReadFieldEvent(eventID uint32) (*bettingrecord.FieldEvent, bool, error) {
	event := &bettingrecord.FieldEvent{}
	found, err := view.FieldEvents.Read(bettingrecord.EventKey(eventID), event)
	if nil != err || !found {
		return nil, false, err
	}
	return event, true, nil
}

func validateMargin(marginPercent uint32) error {
	if marginPercent > bettingrecord.MaximumMarginPercent {
		return fault.ErrInvalidMargin
	}
	return nil
}

// price the event and record the calibration
func (view *View) calcOdds(event *bettingrecord.FieldEvent) {
	c := odds.CalcOdds(event)
	view.stats.addPriced(event.GroupType.String())
	view.log.Debugf("event: %d  contenders: %d  place: %t m: %f X: %f  show: %t m: %f X: %f",
		event.EventID, c.Contenders,
		c.PlaceOpen, c.PlaceM, c.PlaceX,
		c.ShowOpen, c.ShowM, c.ShowX)
}

// ProcessFieldEventTx - create and price a new field event
func (view *View) ProcessFieldEventTx(key bettingrecord.BettingUndoKey, tx *bettingrecord.FieldEventTx, height uint32) error {
	if !tx.GroupType.Valid() {
		return fault.ErrInvalidGroupType
	}
	if err := validateMargin(tx.MarginPercent); nil != err {
		return err
	}
	if 0 == len(tx.ContendersInputOdds) {
		return fault.ErrNoContenders
	}

	eventKey := bettingrecord.EventKey(tx.EventID)
	exists, err := view.FieldEvents.Exists(eventKey)
	if nil != err {
		return err
	}
	if exists {
		return fault.ErrFieldEventExists
	}

	event := bettingrecord.NewFieldEvent(tx)
	view.calcOdds(event)

	err = view.FieldEvents.Write(eventKey, event)
	if nil != err {
		return err
	}

	undo := bettingrecord.UndoRecord{
		bettingrecord.NewFieldEventUndo(height, tx.EventID, nil),
	}
	return view.SaveBettingUndo(key, undo)
}

// ProcessFieldUpdateOddsTx - change contender input odds and reprice
func (view *View) ProcessFieldUpdateOddsTx(key bettingrecord.BettingUndoKey, tx *bettingrecord.FieldUpdateOddsTx, height uint32) error {
	if 0 == len(tx.ContendersInputOdds) {
		return fault.ErrNoContenders
	}
	return view.updateFieldEvent(key, tx.EventID, height, func(event *bettingrecord.FieldEvent) {
		event.ExtractUpdateOdds(tx)
	})
}

// ProcessFieldUpdateMarginTx - change the margin and reprice
func (view *View) ProcessFieldUpdateMarginTx(key bettingrecord.BettingUndoKey, tx *bettingrecord.FieldUpdateMarginTx, height uint32) error {
	if err := validateMargin(tx.MarginPercent); nil != err {
		return err
	}
	return view.updateFieldEvent(key, tx.EventID, height, func(event *bettingrecord.FieldEvent) {
		event.ExtractUpdateMargin(tx)
	})
}

// read, modify, reprice, write and record the previous state
func (view *View) updateFieldEvent(key bettingrecord.BettingUndoKey, eventID uint32, height uint32, extract func(*bettingrecord.FieldEvent)) error {
	event, found, err := view.ReadFieldEvent(eventID)
	if nil != err {
		return err
	}
	if !found {
		return fault.ErrFieldEventNotFound
	}

	previous := event.Clone()
	extract(event)
	view.calcOdds(event)

	err = view.FieldEvents.Update(bettingrecord.EventKey(eventID), event)
	if nil != err {
		return err
	}

	undo := bettingrecord.UndoRecord{
		bettingrecord.NewFieldEventUndo(height, eventID, previous),
	}
	return view.SaveBettingUndo(key, undo)
}

// UndoBettingTx - reverse the changes recorded under an undo key
//
// fragments are reversed last to first, then the record is erased.
// A key without a record is not an error: failed transactions and
// pruned records have nothing to reverse.
func (view *View) UndoBettingTx(key bettingrecord.BettingUndoKey) error {
	record, err := view.GetBettingUndo(key)
	if nil != err {
		return err
	}
	if 0 == len(record) {
		view.log.Warnf("undo: %s  no record", key.TxID)
		return nil
	}

	for i := len(record) - 1; i >= 0; i -= 1 {
		fragment := record[i]
		switch fragment.Kind {
		case bettingrecord.FieldEventUndo:
			eventKey := bettingrecord.EventKey(fragment.EventID)
			if nil == fragment.Previous {
				_, err = view.FieldEvents.Erase(eventKey)
			} else {
				err = view.FieldEvents.Upsert(eventKey, fragment.Previous)
			}
		default:
			err = fault.ErrUnknownUndoKind
		}
		if nil != err {
			view.log.Errorf("undo: %s  fragment: %d  kind: %s  error: %s", key.TxID, i, fragment.Kind, err)
			return err
		}
	}

	_, err = view.EraseBettingUndo(key)
	return err
}
