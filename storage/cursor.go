// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"

	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// Cursor - ordered iteration over a table
//
// pending writes shadow committed values of the same key and pending
// deletes hide them.  Key and Value return copies that remain valid
// after Next.
type Cursor struct {
	overlay      iterator.Iterator
	backend      Iterator
	overlayValid bool
	backendValid bool
	valid        bool
	key          []byte
	value        []byte
}

func newCursor(overlay iterator.Iterator, backend Iterator) *Cursor {
	return &Cursor{
		overlay: overlay,
		backend: backend,
	}
}

// First - move to the smallest key
func (cursor *Cursor) First() bool {
	cursor.overlayValid = cursor.overlay.First()
	cursor.backendValid = cursor.backend.First()
	return cursor.settle()
}

// Seek - move to the first key greater than or equal to key
func (cursor *Cursor) Seek(key []byte) bool {
	cursor.overlayValid = cursor.overlay.Seek(key)
	cursor.backendValid = cursor.backend.Seek(key)
	return cursor.settle()
}

// Next - move to the next key, an unpositioned cursor moves to First
func (cursor *Cursor) Next() bool {
	if !cursor.valid {
		if nil == cursor.key {
			return cursor.First()
		}
		return false
	}

	if cursor.overlayValid && bytes.Equal(cursor.overlay.Key(), cursor.key) {
		cursor.overlayValid = cursor.overlay.Next()
	}
	if cursor.backendValid && bytes.Equal(cursor.backend.Key(), cursor.key) {
		cursor.backendValid = cursor.backend.Next()
	}
	return cursor.settle()
}

// pick the smaller of the two current keys, skipping deletions
func (cursor *Cursor) settle() bool {
	for {
		if !cursor.overlayValid && !cursor.backendValid {
			cursor.valid = false
			cursor.key = []byte{}
			cursor.value = nil
			return false
		}

		useOverlay := cursor.overlayValid
		if cursor.overlayValid && cursor.backendValid {
			c := bytes.Compare(cursor.overlay.Key(), cursor.backend.Key())
			if c > 0 {
				useOverlay = false
			} else if 0 == c {
				// shadowed
				cursor.backendValid = cursor.backend.Next()
			}
		}

		if useOverlay {
			v := cursor.overlay.Value()
			if opDelete == v[0] {
				cursor.overlayValid = cursor.overlay.Next()
				continue
			}
			cursor.set(cursor.overlay.Key(), v[1:])
		} else {
			cursor.set(cursor.backend.Key(), cursor.backend.Value())
		}
		return true
	}
}

func (cursor *Cursor) set(key []byte, value []byte) {
	cursor.valid = true
	cursor.key = append([]byte{}, key...)
	cursor.value = append([]byte{}, value...)
}

// Valid - true if positioned on a key
func (cursor *Cursor) Valid() bool {
	return cursor.valid
}

// Key - current key
func (cursor *Cursor) Key() []byte {
	if !cursor.valid {
		return nil
	}
	return cursor.key
}

// Value - current value
func (cursor *Cursor) Value() []byte {
	if !cursor.valid {
		return nil
	}
	return cursor.value
}

// Release - free both underlying iterators
func (cursor *Cursor) Release() {
	cursor.overlay.Release()
	cursor.backend.Release()
	cursor.valid = false
}

// Error - the first error of either underlying iterator
func (cursor *Cursor) Error() error {
	err := cursor.overlay.Error()
	if nil != err {
		return err
	}
	return cursor.backend.Error()
}
