// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package odds

import (
	"github.com/bettingd/bettingd/bettingrecord"
)

// permutations2 - all ordered pairs of distinct priced contenders
func permutations2(field []contender) [][]contender {
	perms := [][]contender{}
	for _, i := range field {
		if 0 == i.odds {
			continue
		}
		for _, j := range field {
			if 0 == j.odds || i.id == j.id {
				continue
			}
			perms = append(perms, []contender{i, j})
		}
	}
	return perms
}

// permutations3 - all ordered triples of distinct priced contenders
//
// O(N^3) by construction, the enumeration order is part of the
// floating point sum order so it must not be reorganised
func permutations3(field []contender) [][]contender {
	perms := [][]contender{}
	for _, i := range field {
		if 0 == i.odds {
			continue
		}
		for _, j := range field {
			if 0 == j.odds || i.id == j.id {
				continue
			}
			for _, k := range field {
				if 0 == k.odds || k.id == i.id || k.id == j.id {
					continue
				}
				perms = append(perms, []contender{i, j, k})
			}
		}
	}
	return perms
}

// oddsInFirstN - odds of target finishing anywhere in the first N
// places, N being the permutation length
//
// each permutation holding target contributes its exact order
// probability p1 * p2 * ... / ((1) * (1 - p1) * (1 - p1 - p2) * ...)
func oddsInFirstN(target contender, permutations [][]contender) uint32 {
	resultProb := 0.0
	for _, perm := range permutations {
		isInArr := false
		for _, c := range perm {
			if c.id == target.id {
				isInArr = true
				break
			}
		}
		if !isInArr {
			continue
		}

		currentProbs := make([]float64, len(perm))
		for i, c := range perm {
			currentProbs[i] = probability(c.odds)
		}

		evalExactOrder := 1.0
		for _, prob := range currentProbs {
			evalExactOrder *= prob
		}

		den := 1.0
		for i := range currentProbs {
			q := 1.0
			for j := 0; j < i; j += 1 {
				q = q - currentProbs[j]
			}
			den = den * q
		}

		resultProb = resultProb + (evalExactOrder / den)
	}

	return truncateOdds((1.0 / resultProb) * bettingrecord.OddsDivisor)
}
