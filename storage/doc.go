// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// maintain the on-disk betting tables
//
// Each table is a separate LevelDB database stored as:
//
//   <data directory>/betting/<table name>
//
// Writes are buffered per table in an in-memory overlay:
//
//   key -> 0x01 ++ value        - pending put
//   key -> 0x00                 - pending delete
//
// Flush turns the overlay into a single leveldb.Batch.  A fork is a
// table whose backend is another table, so flushing a fork only moves
// its overlay into the parent's overlay.
//
// Notes:
// 1. ++     = concatenation of byte data
// 2. keys and values are produced by encoding.BinaryMarshaler
// 3. no locking is done here, one writer at a time
package storage
