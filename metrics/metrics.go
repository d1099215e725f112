// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics - prometheus instruments of the betting state
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bettingd"

// label values
const (
	ResultOK    = "ok"
	ResultError = "error"

	DirectionConnect    = "connect"
	DirectionDisconnect = "disconnect"
)

// instruments
var (
	CacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_entries",
		Help:      "pending writes held in memory across all betting tables",
	})
	CacheBytesToWrite = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_bytes_to_write",
		Help:      "bytes of pending writes across all betting tables",
	})
	LastHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_height",
		Help:      "height of the last connected block",
	})
	Flushes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flushes_total",
		Help:      "betting state flushes to disk",
	}, []string{"result"})
	Blocks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blocks_total",
		Help:      "blocks applied to the betting state",
	}, []string{"direction"})
	FailedTransactions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failed_transactions_total",
		Help:      "transactions registered as failed",
	})
	UndosPruned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "undos_pruned_total",
		Help:      "undo records removed below the retention height",
	})
	OddsCalculations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_calculations_total",
		Help:      "field event odds recalculations",
	}, []string{"group"})
)

func init() {
	prometheus.MustRegister(
		CacheEntries,
		CacheBytesToWrite,
		LastHeight,
		Flushes,
		Blocks,
		FailedTransactions,
		UndosPruned,
		OddsCalculations,
	)
}

// FlushResult - count one flush
func FlushResult(err error) {
	if nil == err {
		Flushes.WithLabelValues(ResultOK).Inc()
	} else {
		Flushes.WithLabelValues(ResultError).Inc()
	}
}
