// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/bettingd/bettingd/bettingrecord"
	"github.com/bettingd/bettingd/fault"
	"github.com/bettingd/bettingd/storage"
)

// value decoders of the tables with a known layout, anything else
// is shown as hex
var decoders = map[string]func(key []byte, value []byte) string{
	"fieldevents": decodeFieldEvent,
	"undos":       decodeUndo,
	"mappings":    decodeMapping,
	"failedtxs":   decodeMarker,
}

func runDump(c *cli.Context) error {

	m, err := checkMetadata(c)
	if nil != err {
		return err
	}

	name := c.String("table")
	if "" == name {
		return fault.ErrMissingParameters
	}

	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("count: %d must be positive", count)
	}

	table, err := storage.Open(m.stateDirectory, name, storage.DefaultCacheSize, storage.ReadOnly)
	if nil != err {
		return fmt.Errorf("table: %q  error: %w", name, err)
	}
	defer table.Close()

	if m.verbose {
		fmt.Fprintf(m.e, "table: %s\n", storage.TablePath(m.stateDirectory, name))
	}

	return dumpTable(m.w, table, count)
}

func dumpTable(w io.Writer, table *storage.Table, count int) error {

	decode, ok := decoders[table.Name()]
	if !ok {
		decode = decodeHex
	}

	output := tablewriter.NewWriter(w)
	output.Header("Key", "Value")

	n := 0
	cursor := table.NewIterator()
	for cursor.First(); cursor.Valid() && n < count; cursor.Next() {
		output.Append(hex.EncodeToString(cursor.Key()), decode(cursor.Key(), cursor.Value()))
		n += 1
	}
	err := cursor.Error()
	cursor.Release()
	if nil != err {
		return err
	}

	output.Render()
	fmt.Fprintf(w, "records: %d\n", n)
	return nil
}

func decodeHex(key []byte, value []byte) string {
	return hex.EncodeToString(value)
}

func decodeFieldEvent(key []byte, value []byte) string {
	var event bettingrecord.FieldEvent
	err := event.UnmarshalBinary(value)
	if nil != err {
		return "error: " + err.Error()
	}
	b, err := json.Marshal(event)
	if nil != err {
		return "error: " + err.Error()
	}
	return string(b)
}

// the undo table also holds the last connected height
func decodeUndo(key []byte, value []byte) string {
	if bytes.Equal([]byte(bettingrecord.LastHeightKey), key) {
		var height bettingrecord.Height
		err := height.UnmarshalBinary(value)
		if nil != err {
			return "error: " + err.Error()
		}
		return "last height: " + strconv.FormatUint(uint64(height), 10)
	}

	var record bettingrecord.UndoRecord
	err := record.UnmarshalBinary(value)
	if nil != err {
		return "error: " + err.Error()
	}
	s := ""
	for i, f := range record {
		if 0 != i {
			s += " "
		}
		s += fmt.Sprintf("%s@%d:%d", f.Kind, f.Height, f.EventID)
		if nil == f.Previous {
			s += "(new)"
		}
	}
	return s
}

func decodeMapping(key []byte, value []byte) string {
	var k bettingrecord.MappingKey
	err := k.UnmarshalBinary(key)
	if nil != err {
		return "error: " + err.Error()
	}
	var name bettingrecord.MappingName
	err = name.UnmarshalBinary(value)
	if nil != err {
		return "error: " + err.Error()
	}
	return fmt.Sprintf("%s: %s", k.Type.ToTypeName(), name)
}

func decodeMarker(key []byte, value []byte) string {
	var marker bettingrecord.Marker
	err := marker.UnmarshalBinary(value)
	if nil != err {
		return "error: " + err.Error()
	}
	return "failed"
}
