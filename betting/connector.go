// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package betting

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/metrics"
)

// defaults for the connector limits
const (
	DefaultUndoRetention  = 1440
	DefaultFlushThreshold = 64 << 20
)

// Connector - applies blocks to a view
//
// the mutex is the exclusive lock covering one block, the view itself
// has no locking
type Connector struct {
	sync.Mutex

	log            *logger.L
	view           *View
	undoRetention  uint32
	flushThreshold int
}

// NewConnector - create a connector for a view
//
// undo records older than undoRetention blocks are pruned, and the
// view is written to disk once its pending writes exceed
// flushThreshold bytes
func NewConnector(view *View, undoRetention uint32, flushThreshold int) *Connector {
	if 0 == undoRetention {
		undoRetention = DefaultUndoRetention
	}
	if flushThreshold <= 0 {
		flushThreshold = DefaultFlushThreshold
	}
	return &Connector{
		log:            logger.New("connector"),
		view:           view,
		undoRetention:  undoRetention,
		flushThreshold: flushThreshold,
	}
}

// LastHeight - height of the last connected block
func (c *Connector) LastHeight() (uint32, error) {
	c.Lock()
	defer c.Unlock()
	return c.view.GetLastHeight()
}

// ConnectBlock - apply every transaction of a block
//
// the block is applied to a fork of the view, so an error leaves the
// view untouched.  Transactions that fail validation are registered as
// failed and skipped when seen again.  A transaction already applied,
// in this block or an earlier one, rejects the block with
// fault.ErrDuplicateTransaction.
func (c *Connector) ConnectBlock(block *Block) error {
	c.Lock()
	defer c.Unlock()

	last, err := c.view.GetLastHeight()
	if nil != err {
		return err
	}
	if block.Height <= last {
		c.log.Warnf("connect: block: %d  not above last: %d", block.Height, last)
		return fault.ErrBlockOutOfSequence
	}

	fork := c.view.Fork()

	for i, tx := range block.Transactions {
		err := c.connectTransaction(fork, block.Height, tx)
		if nil != err {
			c.log.Errorf("connect: block: %d  tx[%d]: %s  error: %s", block.Height, i, tx.Type, err)
			return err
		}
	}

	err = fork.SetLastHeight(block.Height)
	if nil != err {
		return err
	}

	if block.Height > c.undoRetention {
		_, err = fork.PruneOlderUndos(block.Height - c.undoRetention)
		if nil != err {
			return err
		}
	}

	err = c.commit(fork)
	if nil != err {
		return err
	}

	metrics.Blocks.WithLabelValues(metrics.DirectionConnect).Inc()
	metrics.LastHeight.Set(float64(block.Height))
	c.log.Infof("connected block: %d  transactions: %d", block.Height, len(block.Transactions))
	return nil
}

func (c *Connector) connectTransaction(fork *View, height uint32, tx Transaction) error {
	failedKey := tx.FailedTxKey()
	failed, err := fork.ExistFailedTx(failedKey)
	if nil != err {
		return err
	}
	if failed {
		c.log.Debugf("skip failed tx: %s", failedKey.TxID)
		return nil
	}

	err = fork.ProcessTransaction(tx, height)
	switch {
	case nil == err:
		return nil

	case fault.IsErrInvalid(err):
		c.log.Warnf("tx: %s  type: %s  failed: %s", failedKey.TxID, tx.Type, err)
		return fork.SaveFailedTx(failedKey)

	case fault.ErrKeyExists == err:
		c.log.Errorf("connect: height: %d  tx: %s  already applied", height, failedKey.TxID)
		return fault.ErrDuplicateTransaction
	}
	return err
}

// DisconnectBlock - reverse the last connected block
func (c *Connector) DisconnectBlock(block *Block) error {
	c.Lock()
	defer c.Unlock()

	last, err := c.view.GetLastHeight()
	if nil != err {
		return err
	}
	if block.Height != last || 0 == last {
		c.log.Warnf("disconnect: block: %d  is not last: %d", block.Height, last)
		return fault.ErrBlockOutOfSequence
	}

	fork := c.view.Fork()

	for i := len(block.Transactions) - 1; i >= 0; i -= 1 {
		tx := block.Transactions[i]

		erased, err := fork.EraseFailedTx(tx.FailedTxKey())
		if nil != err {
			return err
		}
		if erased {
			continue
		}

		err = fork.UndoTransaction(tx)
		if nil != err {
			c.log.Errorf("disconnect: block: %d  tx[%d]: %s  error: %s", block.Height, i, tx.Type, err)
			return err
		}
	}

	err = fork.RewindLastHeight(block.Height - 1)
	if nil != err {
		return err
	}

	err = c.commit(fork)
	if nil != err {
		return err
	}

	metrics.Blocks.WithLabelValues(metrics.DirectionDisconnect).Inc()
	metrics.LastHeight.Set(float64(block.Height - 1))
	c.log.Infof("disconnected block: %d", block.Height)
	return nil
}

// move a completed fork into the view
//
// pending writes of earlier blocks above the threshold go to disk
// before the fork is merged, so a failed disk write rejects the block
// with the view unchanged.  Once merged the block is applied, a later
// failed disk write leaves the writes pending for the next flush.
func (c *Connector) commit(fork *View) error {
	if c.view.CacheSizeBytesToWrite() > c.flushThreshold {
		err := c.flush()
		if nil != err {
			c.view.UpdateMetrics()
			return err
		}
	}

	err := fork.Flush()
	if nil != err {
		return err
	}
	fork.stats.publish()

	if c.view.CacheSizeBytesToWrite() > c.flushThreshold {
		_ = c.flush()
	}
	c.view.UpdateMetrics()
	return nil
}

// Flush - write all pending state to disk
func (c *Connector) Flush() error {
	c.Lock()
	defer c.Unlock()

	err := c.flush()
	c.view.UpdateMetrics()
	return err
}

func (c *Connector) flush() error {
	bytes := c.view.CacheSizeBytesToWrite()
	err := c.view.Flush()
	metrics.FlushResult(err)
	if nil != err {
		c.log.Criticalf("flush: %d bytes  error: %s", bytes, err)
		return err
	}
	c.log.Infof("flushed: %d bytes", bytes)
	return nil
}
