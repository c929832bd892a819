package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benritz/bondcalc/internal/types"
)

func params(guess float64) Params {
	return Params{Guess: guess, Lo: -10, Hi: 10, Tol: 1e-9, MaxIter: 100}
}

func TestSolveRoot_Linear(t *testing.T) {
	f := func(x float64) float64 { return 3*x - 6 }
	df := func(x float64) float64 { return 3 }

	x, err := SolveRoot(f, df, params(0))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, x, 1e-9)
}

func TestSolveRoot_Exponential(t *testing.T) {
	// monotone decreasing, like a price-yield function
	f := func(x float64) float64 { return math.Exp(-x) - 0.5 }
	df := func(x float64) float64 { return -math.Exp(-x) }

	x, err := SolveRoot(f, df, params(0))
	require.NoError(t, err)
	assert.InDelta(t, math.Ln2, x, 1e-8)
}

func TestSolveRoot_BisectionFallback(t *testing.T) {
	// derivative reported as zero everywhere: Newton can never step, so the
	// solver must bisect its way to the root
	f := func(x float64) float64 { return x - 1.25 }
	df := func(x float64) float64 { return 0 }

	x, err := SolveRoot(f, df, params(0))
	require.NoError(t, err)
	assert.InDelta(t, 1.25, x, 1e-8)
}

func TestSolveRoot_NewtonEscapeFallsBack(t *testing.T) {
	// atan diverges under plain Newton from a far guess; the bracketed
	// fallback must recover
	f := math.Atan
	df := func(x float64) float64 { return 1 / (1 + x*x) }

	x, err := SolveRoot(f, df, params(9))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, x, 1e-8)
}

func TestSolveRoot_NoBracket(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	df := func(x float64) float64 { return 2 * x }

	_, err := SolveRoot(f, df, params(0))
	assert.ErrorIs(t, err, types.ErrNoBracket)
}

func TestSolveRoot_NoConvergence(t *testing.T) {
	f := func(x float64) float64 { return x }
	df := func(x float64) float64 { return 1 }

	_, err := SolveRoot(f, df, Params{Guess: 5, Lo: -10, Hi: 10, Tol: 1e-15, MaxIter: 1})
	assert.ErrorIs(t, err, types.ErrNoConvergence)
}

func TestSolveRoot_EndpointRoot(t *testing.T) {
	f := func(x float64) float64 { return x + 10 }
	df := func(x float64) float64 { return 1 }

	x, err := SolveRoot(f, df, params(0))
	require.NoError(t, err)
	assert.Equal(t, -10.0, x)
}
