// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bettingd/bettingd/storage"
)

func runHeight(c *cli.Context) error {

	m, err := checkMetadata(c)
	if nil != err {
		return err
	}

	view, err := openView(m, storage.ReadOnly)
	if nil != err {
		return err
	}
	defer view.Close()

	height, err := view.GetLastHeight()
	if nil != err {
		return err
	}

	fmt.Fprintf(m.w, "%d\n", height)
	return nil
}
