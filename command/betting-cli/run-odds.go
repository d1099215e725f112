// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/bettingd/bettingd/bettingrecord"
	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/odds"
)

type oddsResult struct {
	Event       *bettingrecord.FieldEvent `json:"event"`
	Calibration odds.Calibration          `json:"calibration"`
}

func runOdds(c *cli.Context) error {

	m, err := checkMetadata(c)
	if nil != err {
		return err
	}

	groupType, err := parseGroupType(c.String("group"))
	if nil != err {
		return err
	}

	margin := c.Uint("margin")
	if margin > bettingrecord.MaximumMarginPercent {
		return fault.ErrInvalidMargin
	}

	inputOdds, err := parseInputOdds(c.Args())
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "group: %s\n", groupType)
		fmt.Fprintf(m.e, "margin: %d%%\n", margin)
		fmt.Fprintf(m.e, "contenders: %d\n", len(inputOdds))
	}

	event := bettingrecord.NewFieldEvent(&bettingrecord.FieldEventTx{
		GroupType:           groupType,
		MarginPercent:       uint32(margin),
		ContendersInputOdds: inputOdds,
	})
	calibration := odds.CalcOdds(event)

	if c.Bool("json") {
		printJson(m.w, oddsResult{
			Event:       event,
			Calibration: calibration,
		})
		return nil
	}

	writeContenderTable(m.w, event)
	writeCalibration(m.w, calibration)
	return nil
}

func parseGroupType(s string) (bettingrecord.FieldEventGroupType, error) {
	switch s {
	case "animal", "animal-racing":
		return bettingrecord.AnimalRacing, nil
	case "other":
		return bettingrecord.Other, nil
	default:
		return 0, fmt.Errorf("group: %q can only be animal/other", s)
	}
}

// contenders are numbered from one in argument order, a zero odds
// argument is a withdrawn contender
func parseInputOdds(args []string) (map[uint32]uint32, error) {
	if 0 == len(args) {
		return nil, fault.ErrMissingParameters
	}
	result := make(map[uint32]uint32, len(args))
	for i, a := range args {
		n, err := strconv.ParseUint(a, 10, 32)
		if nil != err {
			return nil, fmt.Errorf("odds: %q is not a valid value", a)
		}
		result[uint32(i+1)] = uint32(n)
	}
	return result, nil
}

func writeContenderTable(w io.Writer, event *bettingrecord.FieldEvent) {
	table := tablewriter.NewWriter(w)
	table.Header("Contender", "Input", "Outright", "Place", "Show", "Modifier")
	for _, id := range event.ContenderIDs() {
		info := event.Contenders[id]
		table.Append(
			strconv.FormatUint(uint64(id), 10),
			formatOdds(info.InputOdds),
			formatOdds(info.OutrightOdds),
			formatOdds(info.PlaceOdds),
			formatOdds(info.ShowOdds),
			strconv.FormatUint(uint64(info.Modifier), 10),
		)
	}
	table.Render()
}

func writeCalibration(w io.Writer, c odds.Calibration) {
	if c.PlaceOpen {
		fmt.Fprintf(w, "place: m=%.6f X=%.6f\n", c.PlaceM, c.PlaceX)
	} else {
		fmt.Fprintf(w, "place: closed\n")
	}
	if c.ShowOpen {
		fmt.Fprintf(w, "show:  m=%.6f X=%.6f\n", c.ShowM, c.ShowX)
	} else {
		fmt.Fprintf(w, "show:  closed\n")
	}
}

// odds are fixed point with OddsDivisor as one
func formatOdds(value uint32) string {
	if 0 == value {
		return "-"
	}
	return fmt.Sprintf("%d.%04d", value/bettingrecord.OddsDivisor, value%bettingrecord.OddsDivisor)
}
