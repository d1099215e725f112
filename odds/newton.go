// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package odds

import (
	"github.com/bettingd/bettingd/bettingrecord"
)

// step for the central difference
const newtonH = 0.000001

// one Newton-Raphson step from x
//
// the derivative is (f(x+h) - f(x-h)) / h, not divided by 2h
func newtonStep(f func(float64) float64, x float64) float64 {
	fx := f(x)
	fd := f(x + newtonH)
	fs := f(x - newtonH)
	der := (fd - fs) / newtonH
	return x - (fx / der)
}

// OddsModifier - market odds and modifier of one contender
//
// lists of these are in the ascending contender id order of the
// event, withdrawn contenders are present with zero odds
type OddsModifier struct {
	Odds     uint32
	Modifier uint32
}

// calibrate - starting from 1 take exactly one Newton step per
// contender with non-zero odds, each step starting where the last one
// finished
func calibrate(list []OddsModifier, f func(float64) float64) float64 {
	x := 1.0
	for _, c := range list {
		if 0 == c.Odds {
			continue
		}
		x = newtonStep(f, x)
	}
	return x
}

// CalculateM - exponent m of the power model so that the implied
// probabilities sum to the target
func CalculateM(list []OddsModifier, realMarginIn float64) float64 {
	f := func(m float64) float64 {
		sum := 0.0
		for _, c := range list {
			outrightOdds := float64(c.Odds) / bettingrecord.OddsDivisor
			modifier := float64(c.Modifier) / bettingrecord.ModifierDivisor

			if 0.0 == outrightOdds {
				continue
			}

			outrightP := 1.0 / outrightOdds
			sum += pow(outrightP, m+modifier)
		}
		return sum - realMarginIn
	}
	return calibrate(list, f)
}

// CalculateX - slope X of the linear model so that the implied
// probabilities sum to the target
func CalculateX(list []OddsModifier, realMarginIn float64) float64 {
	f := func(x float64) float64 {
		sum := 0.0
		for _, c := range list {
			outrightOdds := float64(c.Odds) / bettingrecord.OddsDivisor
			modifier := float64(c.Modifier) / bettingrecord.ModifierDivisor

			if 0.0 == outrightOdds {
				continue
			}

			sum += 1.0 / (1.0 + float64((x+modifier)*(outrightOdds-1.0)))
		}
		return sum - realMarginIn
	}
	return calibrate(list, f)
}
