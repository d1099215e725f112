// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package odds

import (
	"github.com/bettingd/bettingd/bettingrecord"
)

// contender - id and input odds, a field is a list of these in
// ascending id order including withdrawn (zero odds) contenders
type contender struct {
	id   uint32
	odds uint32
}

// win probability implied by fixed point odds
func probability(odds uint32) float64 {
	return 1.0 / (float64(odds) / bettingrecord.OddsDivisor)
}

// sum of probability^exponent over the priced contenders not in
// the excluded ids
func weightSum(field []contender, exponent float64, exclude ...uint32) float64 {
	den := 0.0
next:
	for _, c := range field {
		if 0 == c.odds {
			continue
		}
		for _, id := range exclude {
			if c.id == id {
				continue next
			}
		}
		den += pow(probability(c.odds), exponent)
	}
	return den
}

// animalPlaceOdds - odds of target finishing first or second
//
// first place is the win probability, second place sums over every
// other priced contender i winning and target beating the rest:
//   p(i) * p(target)^lambda / sum_{k != i} p(k)^lambda
func animalPlaceOdds(target contender, lambda float64, field []contender) uint32 {
	resultProb := probability(target.odds)

	for _, c := range field {
		if 0 == c.odds || c.id == target.id {
			continue
		}

		den := weightSum(field, lambda, c.id)

		probIdx1 := probability(c.odds)
		probIdx2 := probability(target.odds)
		resultProb += probIdx1 * pow(probIdx2, lambda) / den
	}

	return truncateOdds((1.0 / resultProb) * bettingrecord.OddsDivisor)
}

// animalShowOdds - odds of target finishing in the first three
//
// starts from the truncated place odds and adds the third place term
// over ordered pairs (i, j) of other priced contenders:
//   p(i) * p(j)^lambda * p(target)^rho / (sum_{k != i} p(k)^lambda * sum_{k != i,j} p(k)^rho)
func animalShowOdds(target contender, lambda float64, rho float64, field []contender) uint32 {
	resultProb := probability(animalPlaceOdds(target, lambda, field))

	for _, first := range field {
		if 0 == first.odds || first.id == target.id {
			continue
		}
		for _, second := range field {
			if 0 == second.odds || second.id == target.id || second.id == first.id {
				continue
			}

			den1 := weightSum(field, lambda, first.id)
			den2 := weightSum(field, rho, first.id, second.id)

			probIdx1 := probability(first.odds)
			probIdx2 := probability(second.odds)
			probIdx3 := probability(target.odds)
			resultProb += probIdx1 * pow(probIdx2, lambda) * pow(probIdx3, rho) / (den1 * den2)
		}
	}

	return truncateOdds((1.0 / resultProb) * bettingrecord.OddsDivisor)
}
