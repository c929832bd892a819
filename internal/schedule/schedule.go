// Package schedule builds coupon cash-flow schedules from bond terms.
//
// Coupon dates are generated by stepping back from the maturity date in
// increments of 12/frequency months, so the maturity date anchors the coupon
// grid. Day counts are actual days within the enclosing coupon period.
package schedule

import (
	"time"

	"benritz/bondcalc/internal/types"
)

// Build produces the cash-flow schedule for a bond as of its purchase date:
// all coupon dates strictly after the purchase date up to and including
// maturity, with the par repayment folded into the final flow.
//
// The period count of the first flow is fractional when the purchase date
// falls mid-period: t1 = days(purchase, next coupon) / days(prev coupon, next
// coupon). Subsequent flows are t1 + 1, t1 + 2, ...
func Build(ctx types.ValuationContext) (*types.CashFlowSchedule, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}

	f := ctx.Terms.Frequency
	if 12%f != 0 {
		return nil, types.ErrInvalidFrequency
	}
	months := 12 / f

	// Walk back from maturity collecting coupon dates after the purchase
	// date. The walk ends on the coupon date on or before purchase, which
	// bounds the fractional first period.
	var dates []time.Time
	d := ctx.Terms.MaturityDate
	for d.After(ctx.PurchaseDate) {
		dates = append(dates, d)
		d = AddMonths(d, -months)
	}
	prevCoupon := d

	// Ascending by date.
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}

	periodDays := daysBetween(prevCoupon, dates[0])
	remainingDays := daysBetween(ctx.PurchaseDate, dates[0])
	t1 := float64(remainingDays) / float64(periodDays)

	coupon := ctx.Terms.ParValue * (ctx.Terms.CouponRate / 100) / float64(f)

	flows := make([]types.CashFlow, len(dates))
	for i, date := range dates {
		amount := coupon
		if i == len(dates)-1 {
			amount += ctx.Terms.ParValue
		}
		flows[i] = types.CashFlow{
			Date:    date,
			Amount:  amount,
			Periods: t1 + float64(i),
		}
	}

	return &types.CashFlowSchedule{
		Flows:           flows,
		Frequency:       f,
		ParValue:        ctx.Terms.ParValue,
		Coupon:          coupon,
		AccruedFraction: 1 - t1,
	}, nil
}

// AddMonths behaves like Excel's EDATE, avoiding Go's month normalization
// surprises (e.g. Jan 31 + 1 month is Feb 28/29, not Mar 2/3).
func AddMonths(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	d := t.AddDate(0, months, 0)
	if d.Month() == target.Month() {
		return d
	}
	origMonth := d.Month()
	for d.Month() == origMonth {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// daysBetween returns the number of calendar days from start to end (ACT).
func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
