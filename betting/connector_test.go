// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package betting

import (
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bettingd/bettingd/bettingrecord"
	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/metrics"
)

func createTransaction(output uint32, tx *bettingrecord.FieldEventTx) Transaction {
	return Transaction{
		Type:    FieldEventType,
		Packed:  packed(fmt.Sprintf("create-%d-%d", tx.EventID, tx.MarginPercent)),
		Output:  output,
		Payload: tx,
	}
}

func marginTransaction(eventID uint32, margin uint32) Transaction {
	return Transaction{
		Type:    UpdateMarginType,
		Packed:  packed(fmt.Sprintf("margin-%d-%d", eventID, margin)),
		Payload: &bettingrecord.FieldUpdateMarginTx{EventID: eventID, MarginPercent: margin},
	}
}

func TestConnectDisconnect(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	c := NewConnector(view, 0, 0)

	block1 := &Block{
		Height: 1,
		Transactions: []Transaction{
			createTransaction(0, createTx(1, bettingrecord.Other, 100, sixContenders...)),
			createTransaction(0, createTx(2, bettingrecord.AnimalRacing, 100, sixContenders...)),
		},
	}
	assert.Nil(t, c.ConnectBlock(block1), "connect 1")
	created, _, _ := view.ReadFieldEvent(1)

	block2 := &Block{
		Height: 2,
		Transactions: []Transaction{
			marginTransaction(1, 90),
			marginTransaction(1, 80),
		},
	}
	assert.Nil(t, c.ConnectBlock(block2), "connect 2")

	height, err := c.LastHeight()
	assert.Nil(t, err, "height error")
	assert.Equal(t, uint32(2), height, "height")
	event, _, _ := view.ReadFieldEvent(1)
	assert.Equal(t, uint32(80), event.MarginPercent, "margin after block 2")

	assert.Nil(t, c.DisconnectBlock(block2), "disconnect 2")
	height, _ = c.LastHeight()
	assert.Equal(t, uint32(1), height, "height after disconnect 2")
	event, _, _ = view.ReadFieldEvent(1)
	assert.Equal(t, created, event, "restored")

	assert.Nil(t, c.DisconnectBlock(block1), "disconnect 1")
	height, _ = c.LastHeight()
	assert.Equal(t, uint32(0), height, "height after disconnect 1")
	for _, id := range []uint32{1, 2} {
		_, found, _ := view.ReadFieldEvent(id)
		assert.False(t, found, "event %d removed", id)
	}

	// undo records are all consumed
	for _, tx := range append(block1.Transactions, block2.Transactions...) {
		exists, _ := view.ExistsBettingUndo(tx.UndoKey())
		assert.False(t, exists, "undo %s", tx.Type)
	}

	// the same blocks can be connected again
	assert.Nil(t, c.ConnectBlock(block1), "reconnect 1")
	assert.Nil(t, c.Flush(), "flush")
	assert.Equal(t, 0, view.CacheSize(), "flushed")
}

func TestConnectOutOfSequence(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	c := NewConnector(view, 0, 0)
	assert.Nil(t, c.ConnectBlock(&Block{Height: 5}), "connect 5")

	assert.Equal(t, fault.ErrBlockOutOfSequence, c.ConnectBlock(&Block{Height: 5}), "repeat")
	assert.Equal(t, fault.ErrBlockOutOfSequence, c.ConnectBlock(&Block{Height: 4}), "below")
	assert.Equal(t, fault.ErrBlockOutOfSequence, c.DisconnectBlock(&Block{Height: 4}), "disconnect not last")

	height, _ := c.LastHeight()
	assert.Equal(t, uint32(5), height, "height")

	assert.Nil(t, c.DisconnectBlock(&Block{Height: 5}), "disconnect 5")
	assert.Equal(t, fault.ErrBlockOutOfSequence, c.DisconnectBlock(&Block{Height: 0}), "disconnect genesis")
}

func TestConnectFailedTransaction(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	c := NewConnector(view, 0, 0)

	bad := createTransaction(0, createTx(9, bettingrecord.Other, 150, sixContenders...))
	missing := marginTransaction(77, 10)
	good := createTransaction(0, createTx(1, bettingrecord.Other, 100, sixContenders...))

	block1 := &Block{Height: 1, Transactions: []Transaction{bad, missing, good}}
	assert.Nil(t, c.ConnectBlock(block1), "connect with failures")

	for _, tx := range []Transaction{bad, missing} {
		failed, _ := view.ExistFailedTx(tx.FailedTxKey())
		assert.True(t, failed, "%s: registered", tx.Type)
		exists, _ := view.ExistsBettingUndo(tx.UndoKey())
		assert.False(t, exists, "%s: no undo", tx.Type)
	}
	_, found, _ := view.ReadFieldEvent(1)
	assert.True(t, found, "good tx applied")
	_, found, _ = view.ReadFieldEvent(9)
	assert.False(t, found, "bad tx not applied")

	// a known failure is skipped, not registered again
	block2 := &Block{Height: 2, Transactions: []Transaction{bad}}
	assert.Nil(t, c.ConnectBlock(block2), "connect repeated failure")

	// disconnecting clears the registration instead of undoing
	assert.Nil(t, c.DisconnectBlock(block2), "disconnect 2")
	failed, _ := view.ExistFailedTx(bad.FailedTxKey())
	assert.False(t, failed, "registration cleared")

	assert.Nil(t, c.DisconnectBlock(block1), "disconnect 1")
	failed, _ = view.ExistFailedTx(missing.FailedTxKey())
	assert.False(t, failed, "missing cleared")
	_, found, _ = view.ReadFieldEvent(1)
	assert.False(t, found, "good tx undone")
}

func TestConnectErrorLeavesViewUntouched(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	c := NewConnector(view, 0, 0)
	assert.Nil(t, c.ConnectBlock(&Block{Height: 1}), "connect 1")

	// a corrupt undo record makes pruning fail after the transactions
	// have been applied to the fork
	assert.Nil(t, view.Undos.Write(undoKey("corrupt"), bettingrecord.Height(1)), "corrupt")

	c.undoRetention = 1
	block := &Block{
		Height: 3,
		Transactions: []Transaction{
			createTransaction(0, createTx(1, bettingrecord.Other, 100, sixContenders...)),
		},
	}
	assert.NotNil(t, c.ConnectBlock(block), "connect fails")

	_, found, _ := view.ReadFieldEvent(1)
	assert.False(t, found, "no event")
	height, _ := c.LastHeight()
	assert.Equal(t, uint32(1), height, "height unchanged")
}

func TestConnectPrunesUndos(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	c := NewConnector(view, 3, 0)

	txs := []Transaction{}
	for h := uint32(1); h <= 6; h += 1 {
		tx := createTransaction(0, createTx(h, bettingrecord.Other, 100, sixContenders...))
		txs = append(txs, tx)
		assert.Nil(t, c.ConnectBlock(&Block{Height: h, Transactions: []Transaction{tx}}), "connect %d", h)
	}

	// at height 6 everything below height 3 is pruned
	for i, tx := range txs {
		exists, _ := view.ExistsBettingUndo(tx.UndoKey())
		assert.Equal(t, i+1 >= 3, exists, "undo of block %d", i+1)
	}

	// events themselves are kept
	for h := uint32(1); h <= 6; h += 1 {
		_, found, _ := view.ReadFieldEvent(h)
		assert.True(t, found, "event %d", h)
	}
}

func TestConnectFlushThreshold(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	// any pending write exceeds a one byte threshold
	c := NewConnector(view, 0, 1)
	assert.Nil(t, c.ConnectBlock(&Block{
		Height: 1,
		Transactions: []Transaction{
			createTransaction(0, createTx(1, bettingrecord.Other, 100, sixContenders...)),
		},
	}), "connect")
	assert.Equal(t, 0, view.CacheSize(), "written to disk")

	// the default threshold keeps a small block in memory
	c = NewConnector(view, 0, 0)
	assert.Nil(t, c.ConnectBlock(&Block{Height: 2}), "connect")
	assert.NotEqual(t, 0, view.CacheSize(), "still pending")
}

func TestConnectFlushFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	view, backends := mockView(t, ctl)

	failing := true
	failure := fmt.Errorf("disk full")
	for _, backend := range backends {
		backend.EXPECT().Commit(gomock.Any()).DoAndReturn(func(batch *leveldb.Batch) error {
			if failing {
				return failure
			}
			return nil
		}).AnyTimes()
	}

	c := NewConnector(view, 0, 1)

	// the block is merged before the disk write, so it is applied and
	// its writes stay pending
	block1 := &Block{
		Height: 1,
		Transactions: []Transaction{
			createTransaction(0, createTx(1, bettingrecord.Other, 100, sixContenders...)),
		},
	}
	assert.Nil(t, c.ConnectBlock(block1), "connect 1")
	height, err := c.LastHeight()
	assert.Nil(t, err, "height error")
	assert.Equal(t, uint32(1), height, "height after 1")
	_, found, _ := view.ReadFieldEvent(1)
	assert.True(t, found, "event 1 present")
	assert.NotEqual(t, 0, view.CacheSize(), "block 1 pending")

	// the earlier writes must reach the disk before another block is
	// merged
	block2 := &Block{
		Height: 2,
		Transactions: []Transaction{
			createTransaction(0, createTx(2, bettingrecord.Other, 100, sixContenders...)),
		},
	}
	err = c.ConnectBlock(block2)
	assert.ErrorIs(t, err, fault.ErrFlushFailed, "rejected")
	assert.ErrorIs(t, err, failure, "cause")

	height, _ = c.LastHeight()
	assert.Equal(t, uint32(1), height, "height after rejected 2")
	_, found, _ = view.ReadFieldEvent(2)
	assert.False(t, found, "event 2 absent")

	// the same block is accepted once the disk recovers
	failing = false
	assert.Nil(t, c.ConnectBlock(block2), "retry 2")
	assert.Equal(t, 0, view.CacheSize(), "all written")
}

func TestConnectDuplicateTransaction(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	c := NewConnector(view, 0, 0)

	block1 := &Block{
		Height: 1,
		Transactions: []Transaction{
			createTransaction(0, createTx(1, bettingrecord.Other, 100, sixContenders...)),
		},
	}
	assert.Nil(t, c.ConnectBlock(block1), "connect 1")

	block2 := &Block{
		Height: 2,
		Transactions: []Transaction{
			marginTransaction(1, 90),
			marginTransaction(1, 90),
		},
	}
	err := c.ConnectBlock(block2)
	assert.Equal(t, fault.ErrDuplicateTransaction, err, "duplicate in block")
	assert.True(t, fault.IsErrInvalid(err), "block is invalid")

	height, _ := c.LastHeight()
	assert.Equal(t, uint32(1), height, "height unchanged")
	event, _, _ := view.ReadFieldEvent(1)
	assert.Equal(t, uint32(100), event.MarginPercent, "margin unchanged")

	// a transaction from an earlier block is a duplicate too
	block2.Transactions = block2.Transactions[:1]
	assert.Nil(t, c.ConnectBlock(block2), "connect 2")
	block3 := &Block{Height: 3, Transactions: block2.Transactions}
	assert.Equal(t, fault.ErrDuplicateTransaction, c.ConnectBlock(block3), "duplicate of earlier block")
}

func TestConnectCountsCommittedWork(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	c := NewConnector(view, 0, 0)

	group := bettingrecord.Other.String()
	failed := testutil.ToFloat64(metrics.FailedTransactions)
	priced := testutil.ToFloat64(metrics.OddsCalculations.WithLabelValues(group))

	bad := createTransaction(0, createTx(9, bettingrecord.Other, 150, sixContenders...))
	good := createTransaction(0, createTx(1, bettingrecord.Other, 100, sixContenders...))

	rejected := &Block{
		Height:       1,
		Transactions: []Transaction{bad, good, marginTransaction(1, 90), marginTransaction(1, 90)},
	}
	assert.NotNil(t, c.ConnectBlock(rejected), "rejected")
	assert.Equal(t, failed, testutil.ToFloat64(metrics.FailedTransactions), "failed after rejected block")
	assert.Equal(t, priced, testutil.ToFloat64(metrics.OddsCalculations.WithLabelValues(group)), "priced after rejected block")

	accepted := &Block{
		Height:       1,
		Transactions: []Transaction{bad, good},
	}
	assert.Nil(t, c.ConnectBlock(accepted), "accepted")
	assert.Equal(t, failed+1, testutil.ToFloat64(metrics.FailedTransactions), "failed after accepted block")
	assert.Equal(t, priced+1, testutil.ToFloat64(metrics.OddsCalculations.WithLabelValues(group)), "priced after accepted block")
}
