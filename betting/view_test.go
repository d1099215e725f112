// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package betting

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bettingd/bettingd/bettingrecord"
	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/storage"
	"github.com/bettingd/bettingd/storage/mocks"
)

var tableNames = []string{
	"mappings", "results", "events", "bets",
	"fieldevents", "fieldresults", "fieldbets", "undos",
	"payoutsinfo", "quickgamesbets", "cglottoevents", "cglottobets",
	"cglottoresults", "failedtxs",
}

func TestOpenCreatesEveryTable(t *testing.T) {
	view, dir := setupTestView(t)
	defer view.Close()

	assert.Equal(t, len(tableNames), len(view.tables()), "table count")
	for i, table := range view.tables() {
		assert.Equal(t, tableNames[i], table.Name(), "%d: name", i)

		info, err := os.Stat(storage.TablePath(dir, tableNames[i]))
		assert.Nil(t, err, "%s: stat", tableNames[i])
		if nil == err {
			assert.True(t, info.IsDir(), "%s: is directory", tableNames[i])
		}
	}
}

func TestOpenReadOnlyMissing(t *testing.T) {
	dir, err := os.MkdirTemp(testingDirName, "missing-")
	assert.Nil(t, err, "temp dir")

	_, err = Open(dir, storage.DefaultCacheSize, storage.ReadOnly)
	assert.NotNil(t, err, "read only open of missing tables")
}

func TestCacheSizeSumsTables(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	assert.Equal(t, 0, view.CacheSize(), "initial")
	assert.Equal(t, 0, view.CacheSizeBytesToWrite(), "initial bytes")

	assert.Nil(t, view.SaveFailedTx(failedKey("a")), "failed a")
	assert.Nil(t, view.SaveFailedTx(failedKey("b")), "failed b")
	assert.Nil(t, view.SetLastHeight(5), "height")

	assert.Equal(t, 3, view.CacheSize(), "pending")
	expectedBytes := view.FailedTxs.CacheSizeBytesToWrite() + view.Undos.CacheSizeBytesToWrite()
	assert.Equal(t, expectedBytes, view.CacheSizeBytesToWrite(), "pending bytes")

	assert.Nil(t, view.Flush(), "flush")
	assert.Equal(t, 0, view.CacheSize(), "after flush")
}

func TestFlushPersistsAcrossReopen(t *testing.T) {
	view, dir := setupTestView(t)

	assert.Nil(t, view.SetLastHeight(42), "height")
	assert.Nil(t, view.SaveFailedTx(failedKey("a")), "failed")
	assert.Nil(t, view.Flush(), "flush")
	view.Close()

	view, err := Open(dir, storage.DefaultCacheSize, storage.ReadOnly)
	assert.Nil(t, err, "reopen")
	defer view.Close()

	height, err := view.GetLastHeight()
	assert.Nil(t, err, "height error")
	assert.Equal(t, uint32(42), height, "height")

	exists, _ := view.ExistFailedTx(failedKey("a"))
	assert.True(t, exists, "failed tx")

	// read only view cannot be written to disk
	assert.Nil(t, view.SetLastHeight(43), "pending height")
	err = view.Flush()
	assert.True(t, errors.Is(err, fault.ErrFlushFailed), "read only flush")
}

func TestForkIsIndependent(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	assert.Nil(t, view.SetLastHeight(10), "height")

	fork := view.Fork()
	assert.Nil(t, fork.SetLastHeight(11), "fork height")
	assert.Nil(t, fork.SaveFailedTx(failedKey("x")), "fork failed tx")

	height, _ := view.GetLastHeight()
	assert.Equal(t, uint32(10), height, "view height before fork flush")
	exists, _ := view.ExistFailedTx(failedKey("x"))
	assert.False(t, exists, "view failed tx before fork flush")

	height, _ = fork.GetLastHeight()
	assert.Equal(t, uint32(11), height, "fork height")

	assert.Nil(t, fork.Flush(), "fork flush")

	height, _ = view.GetLastHeight()
	assert.Equal(t, uint32(11), height, "view height after fork flush")
	exists, _ = view.ExistFailedTx(failedKey("x"))
	assert.True(t, exists, "view failed tx after fork flush")
}

func TestForkDiscard(t *testing.T) {
	view, _ := setupTestView(t)
	defer view.Close()

	fork := view.Fork()
	assert.Nil(t, fork.SaveFailedTx(failedKey("x")), "fork failed tx")
	fork.Discard()
	assert.Nil(t, fork.Flush(), "flush discarded fork")

	exists, _ := view.ExistFailedTx(failedKey("x"))
	assert.False(t, exists, "discarded")
}

// a view over mock backends, one per table
func mockView(t *testing.T, ctl *gomock.Controller) (*View, []*mocks.MockBackend) {
	view := &View{
		log: logger.New("betting"),
	}
	backends := []*mocks.MockBackend{}
	tables := []**storage.Table{
		&view.Mappings, &view.Results, &view.Events, &view.Bets,
		&view.FieldEvents, &view.FieldResults, &view.FieldBets, &view.Undos,
		&view.PayoutsInfo, &view.QuickGamesBets, &view.ChainGamesLottoEvents, &view.ChainGamesLottoBets,
		&view.ChainGamesLottoResults, &view.FailedTxs,
	}
	for i, p := range tables {
		backend := mocks.NewMockBackend(ctl)
		backend.EXPECT().Get(gomock.Any()).Return(nil, false, nil).AnyTimes()
		*p = storage.NewTable(tableNames[i], backend)
		backends = append(backends, backend)
	}
	return view, backends
}

func TestFlushContinuesAfterFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	view, backends := mockView(t, ctl)

	// every table has one pending write
	for _, table := range view.tables() {
		assert.Nil(t, table.Upsert(bettingrecord.EventKey(1), bettingrecord.Marker{}), "%s: upsert", table.Name())
	}

	failure := fmt.Errorf("disk full")
	for i, backend := range backends {
		if 0 == i || len(backends)-1 == i {
			backend.EXPECT().Commit(gomock.Any()).Return(failure).Times(1)
		} else {
			backend.EXPECT().Commit(gomock.Any()).DoAndReturn(func(batch *leveldb.Batch) error {
				assert.Equal(t, 1, batch.Len(), "batch")
				return nil
			}).Times(1)
		}
	}

	err := view.Flush()
	assert.True(t, errors.Is(err, fault.ErrFlushFailed), "flush failed")
	assert.True(t, errors.Is(err, failure), "first cause")

	for i, table := range view.tables() {
		expected := 0
		if 0 == i || len(backends)-1 == i {
			expected = 1
		}
		assert.Equal(t, expected, table.CacheSize(), "%s: pending", table.Name())
	}
}
