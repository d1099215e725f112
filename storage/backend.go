// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bettingd/bettingd/fault"
)

// Iterator - ordered iteration over raw keys
//
// leveldb iterators and Cursor both satisfy this
type Iterator interface {
	First() bool
	Seek(key []byte) bool
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Backend - committed data underneath a table
type Backend interface {
	Get(key []byte) ([]byte, bool, error)
	NewIterator() Iterator
	Commit(batch *leveldb.Batch) error
	Close() error
}

// levelBackend - a leveldb database with a read cache
type levelBackend struct {
	db       *leveldb.DB
	cache    Cache
	readOnly bool
}

func newLevelBackend(db *leveldb.DB, cache Cache, readOnly bool) Backend {
	return &levelBackend{
		db:       db,
		cache:    cache,
		readOnly: readOnly,
	}
}

func (d *levelBackend) Get(key []byte) ([]byte, bool, error) {
	if nil == d.db {
		return nil, false, fault.ErrNilDatabase
	}

	value, present, cached := d.cache.Get(key)
	if cached {
		return value, present, nil
	}

	value, err := d.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, false, nil
	}
	if nil != err {
		return nil, false, err
	}
	return value, true, nil
}

func (d *levelBackend) NewIterator() Iterator {
	return d.db.NewIterator(nil, nil)
}

func (d *levelBackend) Commit(batch *leveldb.Batch) error {
	if nil == d.db {
		return fault.ErrNilDatabase
	}
	if d.readOnly {
		return fault.ErrDatabaseIsReadOnly
	}

	err := d.db.Write(batch, nil)
	if nil != err {
		return err
	}
	return batch.Replay(batchCache{cache: d.cache})
}

func (d *levelBackend) Close() error {
	if nil == d.db {
		return nil
	}
	d.cache.Clear()
	err := d.db.Close()
	d.db = nil
	return err
}

// forkBackend - the parent table of a fork
//
// commits land in the parent's pending writes, never on disk
type forkBackend struct {
	parent *Table
}

func (f *forkBackend) Get(key []byte) ([]byte, bool, error) {
	return f.parent.get(key)
}

func (f *forkBackend) NewIterator() Iterator {
	return f.parent.NewIterator()
}

func (f *forkBackend) Commit(batch *leveldb.Batch) error {
	return batch.Replay(pendingWrites{table: f.parent})
}

func (f *forkBackend) Close() error {
	return nil
}
