// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Cache - read cache of committed values
//
// Get reports cached=false when the key is unknown to the cache; a
// cached deletion is reported as cached=true, present=false
type Cache interface {
	Get(key []byte) (value []byte, present bool, cached bool)
	Set(op int, key []byte, value []byte)
	Clear()
}

// cache operations
const (
	dbPut = iota
	dbDelete
)

const (
	defaultTimeout    = 1 * time.Minute
	defaultExpiration = 2 * time.Minute
)

type dbCache struct {
	cache *cache.Cache
}

type cacheData struct {
	op    int
	value []byte
}

func newCache() Cache {
	return &dbCache{
		cache: cache.New(defaultExpiration, defaultTimeout),
	}
}

func (c *dbCache) Get(key []byte) ([]byte, bool, bool) {
	obj, found := c.cache.Get(string(key))
	if !found {
		return nil, false, false
	}

	data := obj.(cacheData)
	if dbDelete == data.op {
		return nil, false, true
	}
	return data.value, true, true
}

func (c *dbCache) Set(op int, key []byte, value []byte) {
	cached := cacheData{
		op:    op,
		value: value,
	}
	c.cache.Set(string(key), cached, cache.DefaultExpiration)
}

func (c *dbCache) Clear() {
	c.cache.Flush()
}

// batchCache - replays a committed batch into a cache
type batchCache struct {
	cache Cache
}

func (b batchCache) Put(key []byte, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	b.cache.Set(dbPut, key, v)
}

func (b batchCache) Delete(key []byte) {
	b.cache.Set(dbDelete, key, nil)
}
