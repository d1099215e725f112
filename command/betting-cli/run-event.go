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

func runEvent(c *cli.Context) error {

	m, err := checkMetadata(c)
	if nil != err {
		return err
	}

	if !c.IsSet("id") {
		return fault.ErrMissingParameters
	}
	eventID := uint32(c.Uint("id"))

	view, err := openView(m, storage.ReadOnly)
	if nil != err {
		return err
	}
	defer view.Close()

	event, found, err := view.ReadFieldEvent(eventID)
	if nil != err {
		return err
	}
	if !found {
		return fmt.Errorf("event: %d  error: %w", eventID, fault.ErrFieldEventNotFound)
	}

	if c.Bool("json") {
		printJson(m.w, event)
		return nil
	}

	fmt.Fprintf(m.w, "event: %d  group: %s  margin: %d%%\n", event.EventID, event.GroupType, event.MarginPercent)
	fmt.Fprintf(m.w, "sport: %d  tournament: %d  stage: %d  start: %d\n", event.Sport, event.Tournament, event.Stage, event.StartTime)
	writeContenderTable(m.w, event)
	return nil
}
