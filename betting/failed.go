// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package betting

import (
	"github.com/bettingd/bettingd/bettingrecord"
)

// SaveFailedTx - register a transaction that failed validation
//
// registration is write once, an existing key is fault.ErrKeyExists
func (view *View) SaveFailedTx(key bettingrecord.FailedTxKey) error {
	err := view.FailedTxs.Write(key, bettingrecord.Marker{})
	if nil != err {
		return err
	}
	view.stats.failed += 1
	return nil
}

// ExistFailedTx - check whether a transaction is known to fail
func (view *View) ExistFailedTx(key bettingrecord.FailedTxKey) (bool, error) {
	return view.FailedTxs.Exists(key)
}

// EraseFailedTx - forget a failed transaction, false if it was absent
func (view *View) EraseFailedTx(key bettingrecord.FailedTxKey) (bool, error) {
	return view.FailedTxs.Erase(key)
}
