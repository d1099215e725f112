// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package odds

// MarketType - the bet markets of a field event
type MarketType int

// possible markets
const (
	Outright MarketType = iota + 1
	Place
	Show
)

func (m MarketType) String() string {
	switch m {
	case Outright:
		return "outright"
	case Place:
		return "place"
	case Show:
		return "show"
	default:
		return "unknown"
	}
}

// minimum number of priced contenders for a market to open
const (
	minimumPlaceContenders = 5
	minimumShowContenders  = 8
)

// IsMarketOpen - whether a market can be bet on with the given
// number of contenders that have non-zero input odds
func IsMarketOpen(market MarketType, contendersCount int) bool {
	switch market {
	case Outright:
		return true
	case Show:
		return contendersCount >= minimumShowContenders
	case Place:
		return contendersCount >= minimumPlaceContenders
	default:
		return false
	}
}

// GetLambda - empirical second place exponent for a field size
func GetLambda(contendersCount int) float64 {
	switch contendersCount {
	case 3:
		return 0.6667
	case 4:
		return 0.6996
	case 5:
		return 0.7207
	case 6:
		return 0.7359
	case 7:
		return 0.7475
	case 8:
		return 0.7569
	case 9:
		return 0.7648
	case 10:
		return 0.7714
	case 11:
		return 0.7771
	case 12:
		return 0.7822
	case 13:
		return 0.7867
	case 14:
		return 0.7907
	default:
		return 0.76
	}
}

// GetRHO - empirical third place exponent for a field size
func GetRHO(contendersCount int) float64 {
	switch contendersCount {
	case 4:
		return 0.5336
	case 5:
		return 0.5703
	case 6:
		return 0.5952
	case 7:
		return 0.6138
	case 8:
		return 0.6285
	case 9:
		return 0.6406
	case 10:
		return 0.6508
	case 11:
		return 0.6596
	case 12:
		return 0.6672
	case 13:
		return 0.6741
	case 14:
		return 0.6802
	default:
		return 0.62
	}
}
