// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthFunc - returns nil while the service is healthy
type HealthFunc func(ctx context.Context) error

// time allowed for a health check
const healthTimeout = 500 * time.Millisecond

// NewHandler - /metrics and /healthz
func NewHandler(healthFn HealthFunc) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := healthFn(ctx); nil != err {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = fmt.Fprintf(w, "unhealthy: %s", err)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

// Serve - start the metrics listener in the background
//
// an empty listen address disables the server and returns nil
func Serve(listen string, healthFn HealthFunc) *http.Server {
	if "" == listen {
		return nil
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           NewHandler(healthFn),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log := logger.New("metrics")
	log.Infof("listen on: %s", listen)

	go func() {
		err := srv.ListenAndServe()
		if nil != err && http.ErrServerClosed != err {
			log.Errorf("listen on: %s  error: %s", listen, err)
		}
	}()

	return srv
}
