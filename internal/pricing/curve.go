package pricing

import (
	"benritz/bondcalc/internal/types"
)

// Curve samples the price-yield relationship over [minYield, maxYield] at
// numPoints equally spaced yields, ascending, and estimates the first
// derivative at every sample. The derivative sequence has the same length as
// the point sequence, aligned by index.
func Curve(s *types.CashFlowSchedule, minYield, maxYield float64, numPoints int) (*types.CurveResult, error) {
	if numPoints < 2 || maxYield <= minYield {
		return nil, types.ErrInvalidRange
	}

	step := (maxYield - minYield) / float64(numPoints-1)

	points := make([]types.PriceYieldPoint, numPoints)
	for i := range numPoints {
		y := minYield + float64(i)*step
		if i == numPoints-1 {
			y = maxYield
		}
		p, err := Price(s, y)
		if err != nil {
			return nil, err
		}
		points[i] = types.PriceYieldPoint{Yield: y, Price: p}
	}

	return &types.CurveResult{
		Points:      points,
		Derivatives: firstDerivative(points),
	}, nil
}

// firstDerivative estimates dPrice/dYield at each point: central differences
// at interior points, one-sided differences at the two boundaries.
func firstDerivative(points []types.PriceYieldPoint) []float64 {
	n := len(points)
	derivatives := make([]float64, n)
	for i := range n {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		derivatives[i] = (points[hi].Price - points[lo].Price) / (points[hi].Yield - points[lo].Yield)
	}
	return derivatives
}
