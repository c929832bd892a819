// Package numeric provides the root finding used to invert pricing
// functions. It is independent of any cash-flow semantics: callers supply an
// evaluator closure and its derivative.
package numeric

import (
	"math"

	"benritz/bondcalc/internal/types"
)

const derivativeFloor = 1e-12

// Params bound a root search.
type Params struct {
	// Guess seeds the Newton-Raphson iteration.
	Guess float64
	// Lo, Hi bracket the root. f(Lo) and f(Hi) must straddle zero.
	Lo, Hi float64
	// Tol is the absolute tolerance on |f(x)| for convergence.
	Tol float64
	// MaxIter bounds the number of iterations.
	MaxIter int
}

// SolveRoot finds x with |f(x)| < Tol using Newton-Raphson with an analytic
// derivative, falling back to bisection whenever the derivative is too small
// or a Newton step leaves the bracketing interval. The bracket shrinks around
// the root on every iteration, so the bisection fallback always converges for
// a continuous f with a sign change over [Lo, Hi].
//
// Returns ErrNoBracket when f(Lo) and f(Hi) do not straddle zero, and
// ErrNoConvergence when MaxIter iterations pass without meeting Tol.
func SolveRoot(f, df func(float64) float64, p Params) (float64, error) {
	lo, hi := p.Lo, p.Hi
	fLo, fHi := f(lo), f(hi)

	if math.Abs(fLo) < p.Tol {
		return lo, nil
	}
	if math.Abs(fHi) < p.Tol {
		return hi, nil
	}
	if (fLo < 0) == (fHi < 0) {
		return 0, types.ErrNoBracket
	}

	x := p.Guess
	if x <= lo || x >= hi {
		x = (lo + hi) / 2
	}

	for range p.MaxIter {
		fx := f(x)
		if math.Abs(fx) < p.Tol {
			return x, nil
		}

		if (fx < 0) == (fLo < 0) {
			lo, fLo = x, fx
		} else {
			hi, fHi = x, fx
		}

		d := df(x)
		next := x - fx/d
		if math.Abs(d) < derivativeFloor || next <= lo || next >= hi {
			next = (lo + hi) / 2
		}
		x = next
	}

	return 0, types.ErrNoConvergence
}
