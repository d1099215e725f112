// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bettingd/bettingd/bettingrecord"
	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/odds"
)

func TestParseGroupType(t *testing.T) {
	g, err := parseGroupType("animal")
	assert.Nil(t, err, "animal error")
	assert.Equal(t, bettingrecord.AnimalRacing, g, "animal")

	g, err = parseGroupType("other")
	assert.Nil(t, err, "other error")
	assert.Equal(t, bettingrecord.Other, g, "other")

	_, err = parseGroupType("football")
	assert.NotNil(t, err, "unknown group accepted")
}

func TestParseInputOdds(t *testing.T) {
	result, err := parseInputOdds([]string{"20000", "0", "45000"})
	assert.Nil(t, err, "error")
	assert.Equal(t, map[uint32]uint32{1: 20000, 2: 0, 3: 45000}, result, "odds")

	_, err = parseInputOdds(nil)
	assert.Equal(t, fault.ErrMissingParameters, err, "empty")

	_, err = parseInputOdds([]string{"20000", "x"})
	assert.NotNil(t, err, "non-numeric accepted")

	_, err = parseInputOdds([]string{"4294967296"})
	assert.NotNil(t, err, "overflow accepted")
}

func TestFormatOdds(t *testing.T) {
	assert.Equal(t, "-", formatOdds(0), "zero")
	assert.Equal(t, "2.0000", formatOdds(20000), "even")
	assert.Equal(t, "2.1146", formatOdds(21146), "fraction")
	assert.Equal(t, "0.0005", formatOdds(5), "small")
}

func TestWriteContenderTable(t *testing.T) {
	inputOdds := map[uint32]uint32{1: 20000, 2: 30000, 3: 0}
	event := bettingrecord.NewFieldEvent(&bettingrecord.FieldEventTx{
		EventID:             4,
		GroupType:           bettingrecord.Other,
		MarginPercent:       100,
		ContendersInputOdds: inputOdds,
	})

	var buffer bytes.Buffer
	writeContenderTable(&buffer, event)
	out := buffer.String()

	assert.Contains(t, strings.ToLower(out), "contender", "header")
	assert.Contains(t, out, "2.0000", "first input")
	assert.Contains(t, out, "3.0000", "second input")
	assert.Less(t, strings.Index(out, "2.0000"), strings.Index(out, "3.0000"), "ascending contenders")
}

func TestWriteCalibration(t *testing.T) {
	var buffer bytes.Buffer
	writeCalibration(&buffer, odds.Calibration{
		Contenders: 6,
		PlaceOpen:  true,
		PlaceM:     1.5,
		PlaceX:     0.25,
	})
	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	require.Len(t, lines, 2, "lines")
	assert.Equal(t, "place: m=1.500000 X=0.250000", lines[0], "place")
	assert.Equal(t, "show:  closed", lines[1], "show")
}
