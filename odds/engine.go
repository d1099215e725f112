// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package odds

import (
	"math"

	"github.com/bettingd/bettingd/bettingrecord"
)

// Calibration - which markets were priced and the calibration
// scalars that produced the prices
type Calibration struct {
	Contenders int
	PlaceOpen  bool
	ShowOpen   bool
	PlaceM     float64
	PlaceX     float64
	ShowM      float64
	ShowX      float64
}

// CalcOdds - recompute the place and show odds of every contender
// of the event from the input odds, margin and group type
//
// contenders in closed markets get zero odds, an unknown group type
// prices nothing so every contender gets zero odds
func CalcOdds(event *bettingrecord.FieldEvent) Calibration {

	ids := event.ContenderIDs()
	field := make([]contender, len(ids))
	nonZeroCount := 0
	for i, id := range ids {
		inputOdds := event.Contenders[id].InputOdds
		if 0 != inputOdds {
			nonZeroCount += 1
		}
		field[i] = contender{id: id, odds: inputOdds}
	}

	c := Calibration{
		Contenders: nonZeroCount,
		PlaceOpen:  IsMarketOpen(Place, nonZeroCount),
		ShowOpen:   IsMarketOpen(Show, nonZeroCount),
	}

	var placeList []OddsModifier
	if c.PlaceOpen {
		placeList = placeOddsModifiers(event, field, nonZeroCount)

		realMarginIn := (float64(event.MarginPercent) / 100.0) * 2.0
		c.PlaceM = CalculateM(placeList, realMarginIn)
		c.PlaceX = CalculateX(placeList, realMarginIn)
	}

	var showList []OddsModifier
	if c.ShowOpen {
		showList = showOddsModifiers(event, field, nonZeroCount)

		realMarginIn := (float64(event.MarginPercent) / 100.0) * 3.0
		c.ShowM = CalculateM(showList, realMarginIn)
		c.ShowX = CalculateX(showList, realMarginIn)
	}

	for i, id := range ids {
		info := event.Contenders[id]
		modifier := uint16(info.Modifier)

		info.PlaceOdds = 0
		if c.PlaceOpen {
			info.PlaceOdds = CalculateMarketOdds(c.PlaceX, c.PlaceM, placeList[i].Odds, modifier)
		}
		info.ShowOdds = 0
		if c.ShowOpen {
			info.ShowOdds = CalculateMarketOdds(c.ShowX, c.ShowM, showList[i].Odds, modifier)
		}
		event.Contenders[id] = info
	}

	return c
}

// the top two odds and modifier of every contender in field order
func placeOddsModifiers(event *bettingrecord.FieldEvent, field []contender, nonZeroCount int) []OddsModifier {
	list := make([]OddsModifier, len(field))

	switch event.GroupType {
	case bettingrecord.AnimalRacing:
		lambda := GetLambda(nonZeroCount)
		for i, c := range field {
			if 0 == c.odds {
				continue
			}
			list[i] = OddsModifier{
				Odds:     animalPlaceOdds(c, lambda, field),
				Modifier: event.Contenders[c.id].Modifier,
			}
		}

	case bettingrecord.Other:
		perms := permutations2(field)
		for i, c := range field {
			if 0 == c.odds {
				continue
			}
			list[i] = OddsModifier{
				Odds:     oddsInFirstN(c, perms),
				Modifier: event.Contenders[c.id].Modifier,
			}
		}

	}
	return list
}

// the top three odds and modifier of every contender in field order
func showOddsModifiers(event *bettingrecord.FieldEvent, field []contender, nonZeroCount int) []OddsModifier {
	list := make([]OddsModifier, len(field))

	switch event.GroupType {
	case bettingrecord.AnimalRacing:
		lambda := GetLambda(nonZeroCount)
		rho := GetRHO(nonZeroCount)
		for i, c := range field {
			if 0 == c.odds {
				continue
			}
			list[i] = OddsModifier{
				Odds:     animalShowOdds(c, lambda, rho, field),
				Modifier: event.Contenders[c.id].Modifier,
			}
		}

	case bettingrecord.Other:
		perms := permutations3(field)
		for i, c := range field {
			if 0 == c.odds {
				continue
			}
			list[i] = OddsModifier{
				Odds:     oddsInFirstN(c, perms),
				Modifier: event.Contenders[c.id].Modifier,
			}
		}

	}
	return list
}

// CalculateMarketOdds - average of the linear and power model odds
// for a contender whose top N odds are outrightOdds
//
// the modifier is used as the raw integer, not scaled by
// ModifierDivisor, so existing prices are reproduced exactly
func CalculateMarketOdds(X float64, m float64, outrightOdds uint32, modifier uint16) uint32 {
	if 0 == outrightOdds {
		return 0
	}

	o := float64(outrightOdds) / bettingrecord.OddsDivisor
	oddsX := 1.0 + float64((X+float64(modifier))*(o-1.0))

	p := 1.0 / o
	oddsM := pow(p, -m-float64(modifier))

	return truncateOdds((oddsM + oddsX) / 2.0 * bettingrecord.OddsDivisor)
}

// truncateOdds - convert to fixed point odds by truncation
//
// NaN and values that do not fit a uint32 have no defined conversion
// so they are pinned to zero and MaxUint32 to keep every node in step
func truncateOdds(v float64) uint32 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}
