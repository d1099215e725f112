// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package betting

import (
	"encoding/json"

	"github.com/bettingd/bettingd/bettingrecord"
	"github.com/bettingd/bettingd/fault"
)

// transaction type names
const (
	FieldEventType   = "field-event"
	UpdateOddsType   = "update-odds"
	UpdateMarginType = "update-margin"
)

// Transaction - one betting transaction output of a block
//
// Packed is the canonical encoding, its digest is the transaction id.
// Payload is one of *bettingrecord.FieldEventTx,
// *bettingrecord.FieldUpdateOddsTx or *bettingrecord.FieldUpdateMarginTx.
type Transaction struct {
	Type    string
	Packed  []byte
	Output  uint32
	Payload interface{}
}

// Block - transactions of one block, in block order
//
// Disconnect marks a block to be reversed instead of applied
type Block struct {
	Height       uint32        `json:"height"`
	Disconnect   bool          `json:"disconnect"`
	Transactions []Transaction `json:"transactions"`
}

// UndoKey - undo key of the transaction output
func (tx Transaction) UndoKey() bettingrecord.BettingUndoKey {
	return bettingrecord.NewBettingUndoKey(tx.Packed, tx.Output)
}

// FailedTxKey - failed transaction key
func (tx Transaction) FailedTxKey() bettingrecord.FailedTxKey {
	return bettingrecord.NewFailedTxKey(tx.Packed)
}

// the type and output are common to every transaction
type transactionHeader struct {
	Type   string `json:"type"`
	Output uint32 `json:"output"`
}

// UnmarshalJSON - decode {"type": ..., "output": n, <payload fields>}
//
// the raw JSON bytes are kept as the packed transaction.  An unknown
// type leaves Payload nil so the transaction fails when processed
// instead of the whole block failing to decode.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	header := transactionHeader{}
	err := json.Unmarshal(data, &header)
	if nil != err {
		return err
	}

	var payload interface{}
	switch header.Type {
	case FieldEventType:
		payload = &bettingrecord.FieldEventTx{}
	case UpdateOddsType:
		payload = &bettingrecord.FieldUpdateOddsTx{}
	case UpdateMarginType:
		payload = &bettingrecord.FieldUpdateMarginTx{}
	}

	if nil != payload {
		err = json.Unmarshal(data, payload)
		if nil != err {
			return err
		}
	}

	tx.Type = header.Type
	tx.Packed = append([]byte{}, data...)
	tx.Output = header.Output
	tx.Payload = payload
	return nil
}

// ParseBlock - decode a JSON block
func ParseBlock(data []byte) (*Block, error) {
	block := &Block{}
	err := json.Unmarshal(data, block)
	if nil != err {
		return nil, err
	}
	return block, nil
}

// ProcessTransaction - apply one transaction to the view
//
// validation failures are fault.InvalidError, a transaction that was
// already applied is fault.ErrKeyExists
func (view *View) ProcessTransaction(tx Transaction, height uint32) error {
	key := tx.UndoKey()
	applied, err := view.ExistsBettingUndo(key)
	if nil != err {
		return err
	}
	if applied {
		return fault.ErrKeyExists
	}

	switch payload := tx.Payload.(type) {
	case *bettingrecord.FieldEventTx:
		return view.ProcessFieldEventTx(key, payload, height)
	case *bettingrecord.FieldUpdateOddsTx:
		return view.ProcessFieldUpdateOddsTx(key, payload, height)
	case *bettingrecord.FieldUpdateMarginTx:
		return view.ProcessFieldUpdateMarginTx(key, payload, height)
	default:
		return fault.ErrUnknownTransactionType
	}
}

// UndoTransaction - reverse an applied transaction
func (view *View) UndoTransaction(tx Transaction) error {
	return view.UndoBettingTx(tx.UndoKey())
}
