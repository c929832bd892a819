package types

import (
	"fmt"
	"time"
)

var (
	ErrInvalidDateRange     = fmt.Errorf("purchase date is outside [issue date, maturity date)")
	ErrInvalidFrequency     = fmt.Errorf("coupon frequency must be positive")
	ErrInvalidParValue      = fmt.Errorf("par value must be positive")
	ErrInvalidYield         = fmt.Errorf("yield is below the valid floor for the compounding convention")
	ErrInvalidRange         = fmt.Errorf("invalid curve range")
	ErrNoConvergence        = fmt.Errorf("yield solver failed to converge within max iterations")
	ErrNoBracket            = fmt.Errorf("target price is not bracketed in the search interval")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrMissingPriceAndYield = fmt.Errorf("missing price and yield")
	ErrUnknownBond          = fmt.Errorf("unknown bond")
)

// BondTerms are the contractual terms of a fixed-coupon bond.
//
// CouponRate is the annual coupon in percent (e.g. 4.5 for 4.5%).
// Frequency is the number of coupon payments per year (1, 2, 4 or 12).
type BondTerms struct {
	Name         string
	ParValue     float64
	CouponRate   float64
	Frequency    int
	IssueDate    time.Time
	MaturityDate time.Time
}

func (t *BondTerms) Validate() error {
	if t.Frequency <= 0 {
		return ErrInvalidFrequency
	}
	if t.ParValue <= 0 {
		return ErrInvalidParValue
	}
	if !t.MaturityDate.After(t.IssueDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// ValuationContext pins a bond to the date it is being valued on.
type ValuationContext struct {
	Terms        BondTerms
	PurchaseDate time.Time
}

func (c *ValuationContext) Validate() error {
	if err := c.Terms.Validate(); err != nil {
		return err
	}
	if c.PurchaseDate.Before(c.Terms.IssueDate) || !c.PurchaseDate.Before(c.Terms.MaturityDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// CashFlow is a single future payment of the bond.
//
// Periods is the count of coupon periods from the purchase date to the
// payment date. The first entry is fractional when the purchase date falls
// mid-period (actual-day fraction of the enclosing coupon period).
type CashFlow struct {
	Date    time.Time
	Amount  float64
	Periods float64
}

// CashFlowSchedule is the ordered sequence of future cash flows of a bond,
// strictly increasing by date. The final entry includes the par repayment.
// It is immutable once built and scoped to a single valuation.
type CashFlowSchedule struct {
	Flows     []CashFlow
	Frequency int
	ParValue  float64
	// Coupon is the per-period coupon amount.
	Coupon float64
	// AccruedFraction is days since the previous coupon over days in the
	// coupon period, used for accrued interest.
	AccruedFraction float64
}

// AccruedInterest is the coupon earned but not yet paid at the purchase date.
func (s *CashFlowSchedule) AccruedInterest() float64 {
	return s.Coupon * s.AccruedFraction
}

// PriceYieldPoint is one sample of the price-yield curve. Yield is the
// decimal annual nominal yield compounded Frequency times per year.
type PriceYieldPoint struct {
	Yield float64
	Price float64
}

// CurveResult is an ordered price-yield curve with a finite-difference
// first-derivative estimate aligned by index to each point.
type CurveResult struct {
	Points      []PriceYieldPoint
	Derivatives []float64
}
