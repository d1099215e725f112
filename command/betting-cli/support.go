// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli"

	"github.com/bettingd/bettingd/betting"
	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/storage"
)

func checkMetadata(c *cli.Context) (*metadata, error) {
	m, ok := c.App.Metadata["config"].(*metadata)
	if !ok {
		return nil, fault.ErrNotInitialised
	}
	return m, nil
}

func openView(m *metadata, readOnly bool) (*betting.View, error) {
	view, err := betting.Open(m.stateDirectory, storage.DefaultCacheSize, readOnly)
	if nil != err {
		return nil, fmt.Errorf("open: %q  error: %w", m.stateDirectory, err)
	}
	return view, nil
}

// print out json
func printJson(handle io.Writer, message interface{}) {
	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		fmt.Fprintf(handle, "error: %s\n", err)
		return
	}
	fmt.Fprintf(handle, "%s\n", b)
}
