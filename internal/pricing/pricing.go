// Package pricing values a cash-flow schedule at a yield and computes the
// analytic sensitivities of that value.
//
// Throughout the package a yield y is the decimal annual nominal yield
// compounded Frequency times per year (0.045 means 4.5%). The per-period
// discount rate is y/Frequency and the discount factor for a flow at period
// t is (1 + y/Frequency)^(-t).
package pricing

import (
	"math"

	"benritz/bondcalc/internal/numeric"
	"benritz/bondcalc/internal/types"
)

const (
	// SolveTolerance is the absolute price tolerance for yield inversion.
	SolveTolerance = 1e-6
	// SolveMaxIterations bounds the Newton/bisection hybrid.
	SolveMaxIterations = 100

	// Default yield bracket for inversion, in decimal annual terms.
	yieldBracketLo = -0.99
	yieldBracketHi = 1.0
)

// Price is the present value of the schedule discounted at yield y. This is
// the dirty (invoice) price: it includes the coupon accrued since the
// previous coupon date.
func Price(s *types.CashFlowSchedule, y float64) (float64, error) {
	if err := validYield(s, y); err != nil {
		return 0, err
	}
	return price(s, y), nil
}

// PriceDerivative is the analytic dPrice/dy at yield y.
func PriceDerivative(s *types.CashFlowSchedule, y float64) (float64, error) {
	if err := validYield(s, y); err != nil {
		return 0, err
	}
	return priceDerivative(s, y), nil
}

func validYield(s *types.CashFlowSchedule, y float64) error {
	if y/float64(s.Frequency) <= -1 {
		return types.ErrInvalidYield
	}
	return nil
}

func price(s *types.CashFlowSchedule, y float64) float64 {
	per := y / float64(s.Frequency)
	total := 0.0
	for _, cf := range s.Flows {
		total += cf.Amount * math.Pow(1+per, -cf.Periods)
	}
	return total
}

func priceDerivative(s *types.CashFlowSchedule, y float64) float64 {
	f := float64(s.Frequency)
	per := y / f
	deriv := 0.0
	for _, cf := range s.Flows {
		deriv += -cf.Periods / f * cf.Amount * math.Pow(1+per, -cf.Periods-1)
	}
	return deriv
}

// SolveYield inverts Price: it finds y such that Price(s, y) = target within
// SolveTolerance. Newton-Raphson seeded from guess, with bisection fallback
// over the default bracket.
//
// The guess is typically the coupon rate as a decimal; pass 0 to derive it
// from the schedule.
func SolveYield(s *types.CashFlowSchedule, target, guess float64) (float64, error) {
	if guess == 0 && s.ParValue > 0 {
		guess = s.Coupon * float64(s.Frequency) / s.ParValue
	}

	return numeric.SolveRoot(
		func(y float64) float64 { return price(s, y) - target },
		func(y float64) float64 { return priceDerivative(s, y) },
		numeric.Params{
			Guess:   guess,
			Lo:      yieldBracketLo,
			Hi:      yieldBracketHi,
			Tol:     SolveTolerance,
			MaxIter: SolveMaxIterations,
		},
	)
}

// Sensitivity holds the price and its analytic rate sensitivities at a yield.
// Durations are in years, convexity in years squared.
type Sensitivity struct {
	Price            float64
	MacaulayDuration float64
	ModifiedDuration float64
	Convexity        float64
}

// Sensitivities computes price, Macaulay and modified duration, and convexity
// in a single pass over the schedule.
//
//	Macaulay  = Σ(t·PV_t) / Price                      (t in years)
//	Modified  = Macaulay / (1 + y/f)
//	Convexity = Σ(t·(t + 1/f)·PV_t) / (Price·(1+y/f)²)
func Sensitivities(s *types.CashFlowSchedule, y float64) (Sensitivity, error) {
	if err := validYield(s, y); err != nil {
		return Sensitivity{}, err
	}

	f := float64(s.Frequency)
	per := y / f

	var total, weighted, convexSum float64
	for _, cf := range s.Flows {
		pv := cf.Amount * math.Pow(1+per, -cf.Periods)
		tYears := cf.Periods / f
		total += pv
		weighted += tYears * pv
		convexSum += tYears * (tYears + 1/f) * pv
	}

	if total == 0 {
		return Sensitivity{}, types.ErrInvalidPrice
	}

	macaulay := weighted / total
	return Sensitivity{
		Price:            total,
		MacaulayDuration: macaulay,
		ModifiedDuration: macaulay / (1 + per),
		Convexity:        convexSum / (total * (1 + per) * (1 + per)),
	}, nil
}
