// Package analyze orchestrates the valuation engine for one request: build
// the schedule, fill in whichever of price and yield is missing, and attach
// sensitivities and an optional price-yield curve.
//
// Yields at this boundary are decimal annual nominal rates compounded
// Frequency times per year. Durations are reported in years, convexity in
// years squared. Adapters (CLI, HTTP, collectors) convert to and from
// percent.
package analyze

import (
	"time"

	"benritz/bondcalc/internal/pricing"
	"benritz/bondcalc/internal/schedule"
	"benritz/bondcalc/internal/types"
)

// CurveRange requests a price-yield curve alongside the scalar analytics.
type CurveRange struct {
	MinYield  float64
	MaxYield  float64
	NumPoints int
}

// Request is one self-contained analytics request. Exactly one of CleanPrice
// and Yield must be set; the other is computed.
type Request struct {
	Terms        types.BondTerms
	PurchaseDate time.Time
	// CleanPrice is the quoted market price, excluding accrued interest.
	CleanPrice *float64
	// Yield is the decimal annual nominal yield.
	Yield *float64
	Curve *CurveRange
}

// Result is the flat analytics output for a request.
type Result struct {
	DirtyPrice       float64
	CleanPrice       float64
	AccruedInterest  float64
	Yield            float64
	MacaulayDuration float64
	ModifiedDuration float64
	Convexity        float64
	Curve            *types.CurveResult
}

// Run computes the analytics for req. It fails fast: the first invalid
// precondition aborts the request and no partial result is returned.
func Run(req Request) (*Result, error) {
	if req.CleanPrice == nil && req.Yield == nil {
		return nil, types.ErrMissingPriceAndYield
	}

	sched, err := schedule.Build(types.ValuationContext{
		Terms:        req.Terms,
		PurchaseDate: req.PurchaseDate,
	})
	if err != nil {
		return nil, err
	}

	accrued := sched.AccruedInterest()

	var y float64
	if req.Yield != nil {
		y = *req.Yield
	} else {
		// The quoted price is clean; the discounting identity holds for
		// the dirty (invoice) price, so solve against price + accrued.
		target := *req.CleanPrice + accrued
		y, err = pricing.SolveYield(sched, target, 0)
		if err != nil {
			return nil, err
		}
	}

	sens, err := pricing.Sensitivities(sched, y)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DirtyPrice:       sens.Price,
		CleanPrice:       sens.Price - accrued,
		AccruedInterest:  accrued,
		Yield:            y,
		MacaulayDuration: sens.MacaulayDuration,
		ModifiedDuration: sens.ModifiedDuration,
		Convexity:        sens.Convexity,
	}

	if req.Curve != nil {
		curve, err := pricing.Curve(sched, req.Curve.MinYield, req.Curve.MaxYield, req.Curve.NumPoints)
		if err != nil {
			return nil, err
		}
		result.Curve = curve
	}

	return result, nil
}
