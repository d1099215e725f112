// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/util"
)

// DefaultCacheSize - per table memory budget
const DefaultCacheSize = 10 << 20

// Subdirectory - all tables live below this in the data directory
const Subdirectory = "betting"

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// TablePath - on-disk location of a table
func TablePath(dataDirectory string, name string) string {
	return filepath.Join(dataDirectory, Subdirectory, name)
}

// Open - open or create the leveldb database of a table
//
// the database is <dataDirectory>/betting/<name>, half of cacheSize
// is used for the block cache and a quarter for the write buffer
func Open(dataDirectory string, name string, cacheSize int, readOnly bool) (*Table, error) {
	if "" == name {
		return nil, fault.ErrInvalidTable
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	if !readOnly {
		err := util.EnsureDirectory(filepath.Join(dataDirectory, Subdirectory))
		if nil != err {
			logger.Criticalf("table: %s  directory error: %s", name, err)
			return nil, err
		}
	}

	opt := &ldb_opt.Options{
		BlockCacheCapacity: cacheSize / 2,
		WriteBuffer:        cacheSize / 4,
		ErrorIfExist:       false,
		ErrorIfMissing:     readOnly,
		ReadOnly:           readOnly,
	}

	path := TablePath(dataDirectory, name)
	db, err := leveldb.OpenFile(path, opt)
	if nil != err {
		logger.Criticalf("table: %s  open: %q  error: %s", name, path, err)
		return nil, err
	}

	return NewTable(name, newLevelBackend(db, newCache(), readOnly)), nil
}
