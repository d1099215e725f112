// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package odds

import (
	"math"
)

// pow - x**y rounded to nearest
//
// prices are shared state so every node must produce the same bits.
// math.Pow is off by an ulp or more on some inputs and the error is
// amplified by the calibration, so the power is computed in
// double-double arithmetic and rounded once.  Only IEEE add, multiply,
// divide and math.FMA are used and every product is converted before
// it is added, so the result does not depend on the platform.
//
// outside the domain of the odds engine (x not positive and finite,
// y not finite) it defers to math.Pow
func pow(x float64, y float64) float64 {
	if 0 == y || 1 == x {
		return 1
	}
	if !(x > 0) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return math.Pow(x, y)
	}
	return ddExp(ddLog(x).mulFloat(y))
}

// dd - unevaluated sum hi + lo with |lo| <= ulp(hi)/2
type dd struct {
	hi float64
	lo float64
}

// ln(2) to double-double precision
var ddLn2 = dd{6.93147180559945286e-01, 2.31904681384629956e-17}

const (
	logTerms     = 23
	expTerms     = 10
	expSquarings = 10

	expOverflow  = 709.79
	expUnderflow = -745.2
)

// 1/(2k+1) for the atanh series of log and 1/k! for the exp series
var (
	invOdd  [logTerms]dd
	invFact [expTerms + 1]dd
)

func init() {
	one := dd{1, 0}
	for k := range invOdd {
		invOdd[k] = one.div(dd{float64(2*k + 1), 0})
	}
	f := one
	invFact[0] = f
	invFact[1] = f
	for k := 2; k <= expTerms; k += 1 {
		f = f.div(dd{float64(k), 0})
		invFact[k] = f
	}
}

func twoSum(a float64, b float64) dd {
	s := a + b
	bb := s - a
	e := (a - (s - bb)) + (b - bb)
	return dd{s, e}
}

// requires |a| >= |b|
func quickTwoSum(a float64, b float64) dd {
	s := a + b
	e := b - (s - a)
	return dd{s, e}
}

func twoProd(a float64, b float64) dd {
	p := a * b
	e := math.FMA(a, b, -p)
	return dd{p, e}
}

func (a dd) add(b dd) dd {
	s := twoSum(a.hi, b.hi)
	t := twoSum(a.lo, b.lo)
	e := s.lo + t.hi
	u := quickTwoSum(s.hi, e)
	e = u.lo + t.lo
	return quickTwoSum(u.hi, e)
}

func (a dd) sub(b dd) dd {
	return a.add(dd{-b.hi, -b.lo})
}

func (a dd) mul(b dd) dd {
	p := twoProd(a.hi, b.hi)
	x := float64(a.hi * b.lo)
	y := float64(a.lo * b.hi)
	e := p.lo + (x + y)
	return quickTwoSum(p.hi, e)
}

func (a dd) mulFloat(b float64) dd {
	p := twoProd(a.hi, b)
	x := float64(a.lo * b)
	e := p.lo + x
	return quickTwoSum(p.hi, e)
}

func (a dd) div(b dd) dd {
	q1 := a.hi / b.hi
	r := a.sub(b.mulFloat(q1))
	q2 := r.hi / b.hi
	r = r.sub(b.mulFloat(q2))
	q3 := r.hi / b.hi
	q := quickTwoSum(q1, q2)
	return q.add(dd{q3, 0})
}

// natural log of a positive finite x
//
// x = m * 2^e with m in [sqrt(1/2), sqrt(2)), then
// log(m) = 2 * atanh(s) with s = (m-1)/(m+1), |s| <= 0.172
func ddLog(x float64) dd {
	m, e := math.Frexp(x)
	if m < math.Sqrt2/2 {
		m *= 2
		e -= 1
	}

	s := dd{m - 1.0, 0}.div(twoSum(m, 1.0))
	s2 := s.mul(s)
	sum := invOdd[logTerms-1]
	for k := logTerms - 2; k >= 0; k -= 1 {
		sum = sum.mul(s2).add(invOdd[k])
	}
	logM := s.mul(sum).mulFloat(2.0)

	fe := float64(e)
	logE := twoProd(fe, ddLn2.hi).add(dd{float64(fe * ddLn2.lo), 0})
	return logE.add(logM)
}

// e^a rounded to float64
//
// a = k*ln2 + r, the Taylor series of expm1 is taken at r/2^10 and
// squared back up with (1+s)^2 - 1 = 2s + s^2
func ddExp(a dd) float64 {
	if a.hi > expOverflow {
		return math.Inf(1)
	}
	if a.hi < expUnderflow {
		return 0
	}

	k := math.RoundToEven(a.hi / ddLn2.hi)
	r := a.sub(twoProd(k, ddLn2.hi).add(dd{float64(k * ddLn2.lo), 0}))
	r = dd{math.Ldexp(r.hi, -expSquarings), math.Ldexp(r.lo, -expSquarings)}

	s := invFact[expTerms]
	for i := expTerms - 1; i >= 1; i -= 1 {
		s = s.mul(r).add(invFact[i])
	}
	s = s.mul(r)

	for i := 0; i < expSquarings; i += 1 {
		s = s.mulFloat(2.0).add(s.mul(s))
	}

	v := dd{1, 0}.add(s)
	return math.Ldexp(v.hi+v.lo, int(k))
}
