package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benritz/bondcalc/internal/schedule"
	"benritz/bondcalc/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func euroBond() types.BondTerms {
	return types.BondTerms{
		Name:         "EuroBondExample",
		ParValue:     1000,
		CouponRate:   4.5,
		Frequency:    2,
		IssueDate:    date(2020, time.March, 15),
		MaturityDate: date(2030, time.March, 15),
	}
}

func buildSchedule(t *testing.T, terms types.BondTerms, purchase time.Time) *types.CashFlowSchedule {
	t.Helper()
	s, err := schedule.Build(types.ValuationContext{Terms: terms, PurchaseDate: purchase})
	require.NoError(t, err)
	return s
}

func TestPrice_ParAtIssue(t *testing.T) {
	// priced at its own coupon rate on the issue date, a bond is worth par
	s := buildSchedule(t, euroBond(), date(2020, time.March, 15))

	p, err := Price(s, 0.045)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, p, 1e-6)
}

func TestPrice_ZeroCouponBelowPar(t *testing.T) {
	terms := euroBond()
	terms.CouponRate = 0

	s := buildSchedule(t, terms, date(2025, time.March, 15))

	p, err := Price(s, 0.05)
	require.NoError(t, err)

	// 1000 / 1.025^10
	assert.InDelta(t, 1000/math.Pow(1.025, 10), p, 1e-9)
}

func TestPrice_MonotonicallyDecreasingInYield(t *testing.T) {
	s := buildSchedule(t, euroBond(), date(2025, time.March, 15))

	prev := math.Inf(1)
	for y := -0.5; y <= 1.0; y += 0.01 {
		p, err := Price(s, y)
		require.NoError(t, err)
		require.Less(t, p, prev, "price must strictly decrease, yield %v", y)
		prev = p
	}
}

func TestPrice_InvalidYield(t *testing.T) {
	s := buildSchedule(t, euroBond(), date(2025, time.March, 15))

	// y/frequency <= -1 is outside the compounding convention
	_, err := Price(s, -2.0)
	assert.ErrorIs(t, err, types.ErrInvalidYield)

	_, err = PriceDerivative(s, -2.5)
	assert.ErrorIs(t, err, types.ErrInvalidYield)
}

func TestPriceDerivative_MatchesFiniteDifference(t *testing.T) {
	s := buildSchedule(t, euroBond(), date(2025, time.June, 15))

	const h = 1e-7
	for _, y := range []float64{-0.02, 0.0, 0.03, 0.045, 0.12} {
		analytic, err := PriceDerivative(s, y)
		require.NoError(t, err)

		up, err := Price(s, y+h)
		require.NoError(t, err)
		down, err := Price(s, y-h)
		require.NoError(t, err)

		numeric := (up - down) / (2 * h)
		assert.InDelta(t, numeric, analytic, math.Abs(analytic)*1e-5)
	}
}

func TestSolveYield_RoundTrip(t *testing.T) {
	for _, purchase := range []time.Time{
		date(2025, time.March, 15),
		date(2025, time.June, 15),
		date(2021, time.January, 7),
	} {
		s := buildSchedule(t, euroBond(), purchase)

		for _, y := range []float64{-0.01, 0.0, 0.02, 0.045, 0.07, 0.25} {
			p, err := Price(s, y)
			require.NoError(t, err)

			solved, err := SolveYield(s, p, 0)
			require.NoError(t, err)
			assert.InDelta(t, y, solved, 1e-6, "purchase %v yield %v", purchase, y)
		}
	}
}

func TestSolveYield_NoBracket(t *testing.T) {
	s := buildSchedule(t, euroBond(), date(2025, time.March, 15))

	_, err := SolveYield(s, 0, 0)
	assert.ErrorIs(t, err, types.ErrNoBracket)

	_, err = SolveYield(s, -50, 0)
	assert.ErrorIs(t, err, types.ErrNoBracket)

	// unreachably large: above the price at the bracket's lower bound
	_, err = SolveYield(s, 1e9, 0)
	assert.ErrorIs(t, err, types.ErrNoBracket)
}

func TestSensitivities_ZeroCouponDuration(t *testing.T) {
	terms := euroBond()
	terms.CouponRate = 0

	// 5 years to maturity, purchased on the coupon grid
	s := buildSchedule(t, terms, date(2025, time.March, 15))

	sens, err := Sensitivities(s, 0.04)
	require.NoError(t, err)

	// a zero-coupon bond's Macaulay duration is its time to maturity
	assert.InDelta(t, 5.0, sens.MacaulayDuration, 1e-12)
	assert.InDelta(t, 5.0/1.02, sens.ModifiedDuration, 1e-12)
}

func TestSensitivities_Relations(t *testing.T) {
	s := buildSchedule(t, euroBond(), date(2025, time.June, 15))

	const y = 0.05
	sens, err := Sensitivities(s, y)
	require.NoError(t, err)

	p, err := Price(s, y)
	require.NoError(t, err)
	assert.InDelta(t, p, sens.Price, 1e-9)

	assert.InDelta(t, sens.MacaulayDuration/(1+y/2), sens.ModifiedDuration, 1e-12)
	assert.Greater(t, sens.MacaulayDuration, 0.0)
	assert.Less(t, sens.MacaulayDuration, 5.0)
	assert.Greater(t, sens.Convexity, 0.0)

	// modified duration is the relative price sensitivity: dP/dy = -D_mod * P
	deriv, err := PriceDerivative(s, y)
	require.NoError(t, err)
	assert.InDelta(t, -sens.ModifiedDuration*sens.Price, deriv, 1e-6)
}

func TestSensitivities_InvalidYield(t *testing.T) {
	s := buildSchedule(t, euroBond(), date(2025, time.March, 15))

	_, err := Sensitivities(s, -2.0)
	assert.ErrorIs(t, err, types.ErrInvalidYield)
}
