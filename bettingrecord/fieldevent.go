// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bettingrecord

import (
	"sort"
)

// fixed point scales
const (
	OddsDivisor     = 10000
	ModifierDivisor = 10000

	MaximumMarginPercent = 100
)

// FieldEventGroupType - selects the pricing model of a field event
type FieldEventGroupType uint32

// possible group types
const (
	AnimalRacing FieldEventGroupType = iota + 1
	Other
)

// Valid - check group type is one of the known values
func (g FieldEventGroupType) Valid() bool {
	return AnimalRacing == g || Other == g
}

func (g FieldEventGroupType) String() string {
	switch g {
	case AnimalRacing:
		return "animalRacing"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// ContenderInfo - odds of one contender, all scaled by OddsDivisor
// except Modifier which is scaled by ModifierDivisor
//
// zero InputOdds marks a withdrawn contender
type ContenderInfo struct {
	InputOdds    uint32 `json:"inputOdds"`
	OutrightOdds uint32 `json:"outrightOdds"`
	PlaceOdds    uint32 `json:"placeOdds"`
	ShowOdds     uint32 `json:"showOdds"`
	Modifier     uint32 `json:"modifier"`
}

// FieldEvent - a multi-contender event
type FieldEvent struct {
	EventID       uint32                   `json:"eventId"`
	StartTime     uint64                   `json:"startTime"`
	Sport         uint32                   `json:"sport"`
	Tournament    uint32                   `json:"tournament"`
	Stage         uint32                   `json:"stage"`
	GroupType     FieldEventGroupType      `json:"groupType"`
	MarginPercent uint32                   `json:"marginPercent"`
	Contenders    map[uint32]ContenderInfo `json:"contenders"`
}

// FieldEventTx - create a field event
type FieldEventTx struct {
	EventID             uint32              `json:"eventId"`
	StartTime           uint64              `json:"startTime"`
	Sport               uint32              `json:"sport"`
	Tournament          uint32              `json:"tournament"`
	Stage               uint32              `json:"stage"`
	GroupType           FieldEventGroupType `json:"groupType"`
	MarginPercent       uint32              `json:"marginPercent"`
	ContendersInputOdds map[uint32]uint32   `json:"contenders"`
}

// FieldUpdateOddsTx - add contenders or replace their input odds
type FieldUpdateOddsTx struct {
	EventID             uint32            `json:"eventId"`
	ContendersInputOdds map[uint32]uint32 `json:"contenders"`
}

// FieldUpdateMarginTx - change the margin of an event
type FieldUpdateMarginTx struct {
	EventID       uint32 `json:"eventId"`
	MarginPercent uint32 `json:"marginPercent"`
}

// NewFieldEvent - build an event from its creation transaction
func NewFieldEvent(tx *FieldEventTx) *FieldEvent {
	event := &FieldEvent{
		Contenders: make(map[uint32]ContenderInfo, len(tx.ContendersInputOdds)),
	}
	event.ExtractCreate(tx)
	return event
}

// ExtractCreate - copy the creation data into the event
func (event *FieldEvent) ExtractCreate(tx *FieldEventTx) {
	event.EventID = tx.EventID
	event.StartTime = tx.StartTime
	event.Sport = tx.Sport
	event.Tournament = tx.Tournament
	event.Stage = tx.Stage
	event.GroupType = tx.GroupType
	event.MarginPercent = tx.MarginPercent

	if nil == event.Contenders {
		event.Contenders = make(map[uint32]ContenderInfo, len(tx.ContendersInputOdds))
	}
	for id, inputOdds := range tx.ContendersInputOdds {
		event.Contenders[id] = ContenderInfo{InputOdds: inputOdds}
	}
}

// ExtractUpdateOdds - new contenders are added, existing ones get the
// new input odds and all their derived odds are cleared
func (event *FieldEvent) ExtractUpdateOdds(tx *FieldUpdateOddsTx) {
	if nil == event.Contenders {
		event.Contenders = make(map[uint32]ContenderInfo, len(tx.ContendersInputOdds))
	}
	for id, inputOdds := range tx.ContendersInputOdds {
		event.Contenders[id] = ContenderInfo{InputOdds: inputOdds}
	}
}

// ExtractUpdateMargin - replace the margin
func (event *FieldEvent) ExtractUpdateMargin(tx *FieldUpdateMarginTx) {
	event.MarginPercent = tx.MarginPercent
}

// ContenderIDs - contender ids in ascending order
//
// every computation over the contenders must use this order
func (event *FieldEvent) ContenderIDs() []uint32 {
	ids := make([]uint32, 0, len(event.Contenders))
	for id := range event.Contenders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone - deep copy, so an undo fragment does not share the
// contender map with the live event
func (event *FieldEvent) Clone() *FieldEvent {
	if nil == event {
		return nil
	}
	c := *event
	c.Contenders = make(map[uint32]ContenderInfo, len(event.Contenders))
	for id, info := range event.Contenders {
		c.Contenders[id] = info
	}
	return &c
}
