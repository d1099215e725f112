// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/storage"
)

func runPrune(c *cli.Context) error {

	m, err := checkMetadata(c)
	if nil != err {
		return err
	}

	if !c.IsSet("below") {
		return fault.ErrMissingParameters
	}
	height := uint32(c.Uint("below"))

	view, err := openView(m, storage.ReadWrite)
	if nil != err {
		return err
	}
	defer view.Close()

	count, err := view.PruneOlderUndos(height)
	if nil != err {
		return err
	}
	err = view.Flush()
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "pruned undo records below height: %d\n", height)
	}
	fmt.Fprintf(m.w, "%d\n", count)
	return nil
}
