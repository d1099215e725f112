// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package odds - place and show odds of field events
//
// The results are consensus data: every node must produce identical
// integers from identical events.  The formulas, their evaluation
// order and the truncation to the fixed point odds scale must not be
// changed.  Contenders are always visited in ascending id order.
//
// Products that are added to something are explicitly converted with
// float64() so the compiler cannot fuse them into a single
// multiply-add instruction on architectures that have one.
package odds
