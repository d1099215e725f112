// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"

	"github.com/bettingd/bettingd/fault"
)

// pending write tags, first byte of every overlay value
const (
	opDelete = byte(0)
	opPut    = byte(1)
)

// initial overlay arena
const overlayCapacity = 4096

// Table - a named key/value table with buffered writes
//
// writes are held in memory until Flush moves them to the backend as
// one batch.  Reads see the pending writes first.  A Table has no
// locking, the caller must hold exclusive access for one logical
// transaction.
type Table struct {
	name    string
	log     *logger.L
	backend Backend
	overlay *memdb.DB
}

// NewTable - create a table over an existing backend
func NewTable(name string, backend Backend) *Table {
	return &Table{
		name:    name,
		log:     logger.New(name),
		backend: backend,
		overlay: memdb.New(comparer.DefaultComparer, overlayCapacity),
	}
}

// Name - the immutable table name
func (t *Table) Name() string {
	return t.name
}

// Fork - a new table whose committed data is this table
//
// writes to the fork are invisible here until the fork is flushed
func (t *Table) Fork() *Table {
	return &Table{
		name:    t.name,
		log:     t.log,
		backend: &forkBackend{parent: t},
		overlay: memdb.New(comparer.DefaultComparer, overlayCapacity),
	}
}

// raw read: pending writes, then backend
func (t *Table) get(key []byte) ([]byte, bool, error) {
	v, err := t.overlay.Get(key)
	if nil == err {
		if opDelete == v[0] {
			return nil, false, nil
		}
		value := make([]byte, len(v)-1)
		copy(value, v[1:])
		return value, true, nil
	}
	if memdb.ErrNotFound != err {
		return nil, false, err
	}
	return t.backend.Get(key)
}

func (t *Table) put(key []byte, value []byte) error {
	v := make([]byte, 1, len(value)+1)
	v[0] = opPut
	return t.overlay.Put(key, append(v, value...))
}

func (t *Table) remove(key []byte) error {
	return t.overlay.Put(key, []byte{opDelete})
}

func marshalKey(key encoding.BinaryMarshaler) ([]byte, error) {
	k, err := key.MarshalBinary()
	if nil != err {
		return nil, err
	}
	if 0 == len(k) {
		return nil, fault.ErrWrongKeyLength
	}
	return k, nil
}

// Exists - check if a key is present
func (t *Table) Exists(key encoding.BinaryMarshaler) (bool, error) {
	k, err := marshalKey(key)
	if nil != err {
		return false, err
	}
	_, found, err := t.get(k)
	return found, err
}

// Read - fetch and decode the value of a key
//
// found is false and value is untouched if the key is absent
func (t *Table) Read(key encoding.BinaryMarshaler, value encoding.BinaryUnmarshaler) (bool, error) {
	k, err := marshalKey(key)
	if nil != err {
		return false, err
	}
	v, found, err := t.get(k)
	if nil != err || !found {
		return false, err
	}
	err = value.UnmarshalBinary(v)
	if nil != err {
		return false, err
	}
	return true, nil
}

// Write - insert a key that must not already exist
func (t *Table) Write(key encoding.BinaryMarshaler, value encoding.BinaryMarshaler) error {
	return t.store(key, value, func(found bool) error {
		if found {
			return fault.ErrKeyExists
		}
		return nil
	})
}

// Update - replace the value of a key that must already exist
func (t *Table) Update(key encoding.BinaryMarshaler, value encoding.BinaryMarshaler) error {
	return t.store(key, value, func(found bool) error {
		if !found {
			return fault.ErrKeyNotFound
		}
		return nil
	})
}

// Upsert - store a value whether or not the key exists
func (t *Table) Upsert(key encoding.BinaryMarshaler, value encoding.BinaryMarshaler) error {
	return t.store(key, value, nil)
}

func (t *Table) store(key encoding.BinaryMarshaler, value encoding.BinaryMarshaler, check func(bool) error) error {
	k, err := marshalKey(key)
	if nil != err {
		return err
	}
	v, err := value.MarshalBinary()
	if nil != err {
		return err
	}

	if nil != check {
		_, found, err := t.get(k)
		if nil != err {
			return err
		}
		err = check(found)
		if nil != err {
			return err
		}
	}
	return t.put(k, v)
}

// Erase - remove a key, false if it was not present
func (t *Table) Erase(key encoding.BinaryMarshaler) (bool, error) {
	k, err := marshalKey(key)
	if nil != err {
		return false, err
	}
	_, found, err := t.get(k)
	if nil != err || !found {
		return false, err
	}
	return true, t.remove(k)
}

// NewIterator - cursor over pending writes merged with the backend
//
// the table must not be modified while the cursor is in use
func (t *Table) NewIterator() *Cursor {
	return newCursor(t.overlay.NewIterator(nil), t.backend.NewIterator())
}

// Flush - move pending writes to the backend as a single batch
//
// on failure the pending writes are kept
func (t *Table) Flush() error {
	if 0 == t.overlay.Len() {
		return nil
	}

	batch := new(leveldb.Batch)
	iter := t.overlay.NewIterator(nil)
	for iter.Next() {
		v := iter.Value()
		if opDelete == v[0] {
			batch.Delete(iter.Key())
		} else {
			batch.Put(iter.Key(), v[1:])
		}
	}
	iter.Release()
	err := iter.Error()
	if nil != err {
		return err
	}

	err = t.backend.Commit(batch)
	if nil != err {
		t.log.Errorf("flush: %d records error: %s", batch.Len(), err)
		return err
	}
	t.log.Debugf("flush: %d records", batch.Len())

	t.overlay.Reset()
	return nil
}

// Discard - drop all pending writes
func (t *Table) Discard() {
	t.overlay.Reset()
}

// CacheSize - number of pending writes
func (t *Table) CacheSize() int {
	return t.overlay.Len()
}

// CacheSizeBytesToWrite - bytes of pending keys and values
func (t *Table) CacheSizeBytesToWrite() int {
	return t.overlay.Size()
}

// Close - release the backend, pending writes are lost
func (t *Table) Close() error {
	t.overlay.Reset()
	return t.backend.Close()
}

// pendingWrites - replays a batch into a table's pending writes
type pendingWrites struct {
	table *Table
}

func (p pendingWrites) Put(key []byte, value []byte) {
	err := p.table.put(key, value)
	logger.PanicIfError("pending put", err)
}

func (p pendingWrites) Delete(key []byte) {
	err := p.table.remove(key)
	logger.PanicIfError("pending delete", err)
}
