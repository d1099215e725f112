// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package betting

import (
	"fmt"
	"reflect"

	"github.com/bitmark-inc/logger"

	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/metrics"
	"github.com/bettingd/bettingd/storage"
)

// View - the betting state tables
//
// note all tables must be exported (i.e. initial capital) and carry a
// table tag or initialisation will fail
type View struct {
	Mappings               *storage.Table `table:"mappings"`
	Results                *storage.Table `table:"results"`
	Events                 *storage.Table `table:"events"`
	Bets                   *storage.Table `table:"bets"`
	FieldEvents            *storage.Table `table:"fieldevents"`
	FieldResults           *storage.Table `table:"fieldresults"`
	FieldBets              *storage.Table `table:"fieldbets"`
	Undos                  *storage.Table `table:"undos"`
	PayoutsInfo            *storage.Table `table:"payoutsinfo"`
	QuickGamesBets         *storage.Table `table:"quickgamesbets"`
	ChainGamesLottoEvents  *storage.Table `table:"cglottoevents"`
	ChainGamesLottoBets    *storage.Table `table:"cglottobets"`
	ChainGamesLottoResults *storage.Table `table:"cglottoresults"`
	FailedTxs              *storage.Table `table:"failedtxs"`

	log   *logger.L
	stats tally
}

// tally - work done through a view, published to metrics only once
// the work is committed
type tally struct {
	failed int
	pruned int
	priced map[string]int
}

func (t *tally) addPriced(group string) {
	if nil == t.priced {
		t.priced = make(map[string]int)
	}
	t.priced[group] += 1
}

func (t *tally) publish() {
	if 0 != t.failed {
		metrics.FailedTransactions.Add(float64(t.failed))
	}
	if 0 != t.pruned {
		metrics.UndosPruned.Add(float64(t.pruned))
	}
	for group, n := range t.priced {
		metrics.OddsCalculations.WithLabelValues(group).Add(float64(n))
	}
	*t = tally{}
}

var tablePointerType = reflect.TypeOf((*storage.Table)(nil))

// Open - open every table of the view below the data directory
func Open(dataDirectory string, cacheSize int, readOnly bool) (*View, error) {
	log := logger.New("betting")

	view := &View{
		log: log,
	}

	ok := false
	defer func() {
		if !ok {
			view.Close()
		}
	}()

	viewType := reflect.TypeOf(*view)
	viewValue := reflect.ValueOf(view).Elem()

	// scan each field
	for i := 0; i < viewType.NumField(); i += 1 {

		fieldInfo := viewType.Field(i)
		if fieldInfo.Type != tablePointerType {
			continue
		}

		name := fieldInfo.Tag.Get("table")
		if "" == name {
			return nil, fmt.Errorf("view: %s has no table tag: %w", fieldInfo.Name, fault.ErrInvalidTable)
		}

		table, err := storage.Open(dataDirectory, name, cacheSize, readOnly)
		if nil != err {
			log.Criticalf("open table: %s  error: %s", name, err)
			return nil, err
		}
		viewValue.Field(i).Set(reflect.ValueOf(table))
	}

	log.Infof("opened %d tables in: %q", len(view.tables()), dataDirectory)

	ok = true // prevent close
	return view, nil
}

// every opened table in declaration order
func (view *View) tables() []*storage.Table {
	viewValue := reflect.ValueOf(view).Elem()
	tables := make([]*storage.Table, 0, viewValue.NumField())
	for i := 0; i < viewValue.NumField(); i += 1 {
		field := viewValue.Field(i)
		if field.Type() != tablePointerType || field.IsNil() {
			continue
		}
		tables = append(tables, field.Interface().(*storage.Table))
	}
	return tables
}

// Close - close all tables, pending writes are lost
func (view *View) Close() {
	for _, table := range view.tables() {
		err := table.Close()
		if nil != err {
			view.log.Errorf("close table: %s  error: %s", table.Name(), err)
		}
	}
}

// Fork - independent speculative copy of the view
//
// nothing written to the fork is visible here until the fork is
// flushed, and flushing the fork only reaches this view's pending
// writes
func (view *View) Fork() *View {
	fork := &View{
		log: view.log,
	}

	viewValue := reflect.ValueOf(view).Elem()
	forkValue := reflect.ValueOf(fork).Elem()
	for i := 0; i < viewValue.NumField(); i += 1 {
		field := viewValue.Field(i)
		if field.Type() != tablePointerType || field.IsNil() {
			continue
		}
		table := field.Interface().(*storage.Table)
		forkValue.Field(i).Set(reflect.ValueOf(table.Fork()))
	}
	return fork
}

// Discard - drop the pending writes of every table
func (view *View) Discard() {
	for _, table := range view.tables() {
		table.Discard()
	}
}

// Flush - flush every table
//
// all tables are flushed even if one fails, the result is an error if
// any flush failed
func (view *View) Flush() error {
	var firstErr error
	failed := 0
	for _, table := range view.tables() {
		err := table.Flush()
		if nil != err {
			view.log.Errorf("flush table: %s  error: %s", table.Name(), err)
			failed += 1
			if nil == firstErr {
				firstErr = err
			}
		}
	}

	if 0 != failed {
		view.log.Criticalf("flush: %d tables failed", failed)
		return fmt.Errorf("%w: %d tables: %w", fault.ErrFlushFailed, failed, firstErr)
	}
	return nil
}

// CacheSize - pending writes of all tables
func (view *View) CacheSize() int {
	n := 0
	for _, table := range view.tables() {
		n += table.CacheSize()
	}
	return n
}

// CacheSizeBytesToWrite - pending bytes of all tables
func (view *View) CacheSizeBytesToWrite() int {
	n := 0
	for _, table := range view.tables() {
		n += table.CacheSizeBytesToWrite()
	}
	return n
}

// UpdateMetrics - publish the pending write gauges
func (view *View) UpdateMetrics() {
	metrics.CacheEntries.Set(float64(view.CacheSize()))
	metrics.CacheBytesToWrite.Set(float64(view.CacheSizeBytesToWrite()))
}
