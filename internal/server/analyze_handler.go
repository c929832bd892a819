package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"benritz/bondcalc/internal/analyze"
	"benritz/bondcalc/internal/bondfile"
	"benritz/bondcalc/internal/types"
)

// AnalyzeRequest is the JSON payload of POST /api/analyze. Dates are
// DD/MM/YYYY; yields are in percent. Either bond_name (resolved against the
// loaded bond file) or the full set of term fields must be supplied, plus
// exactly one of price and yield.
type AnalyzeRequest struct {
	BondName        string   `json:"bond_name"`
	ParValue        float64  `json:"par_value"`
	CouponRate      float64  `json:"coupon_rate"`
	CouponFrequency int      `json:"coupon_frequency"`
	IssueDate       string   `json:"issue_date"`
	MaturityDate    string   `json:"maturity_date"`
	PurchaseDate    string   `json:"purchase_date"`
	Price           *float64 `json:"price"`
	Yield           *float64 `json:"yield"`
	MinYield        *float64 `json:"min_yield"`
	MaxYield        *float64 `json:"max_yield"`
	NumPoints       int      `json:"num_points"`
}

// Summary is the scalar part of an analytics response. Yields and rates are
// in percent, durations in years, convexity in years squared.
type Summary struct {
	BondName         string  `json:"bond_name,omitempty"`
	ParValue         float64 `json:"par_value"`
	CouponRate       float64 `json:"coupon_rate"`
	CouponFrequency  int     `json:"coupon_frequency"`
	MaturityDate     string  `json:"maturity_date"`
	PurchaseDate     string  `json:"purchase_date"`
	CleanPrice       float64 `json:"clean_price"`
	DirtyPrice       float64 `json:"dirty_price"`
	AccruedInterest  float64 `json:"accrued_interest"`
	YTM              float64 `json:"ytm"`
	MacaulayDuration float64 `json:"macaulay_duration"`
	ModifiedDuration float64 `json:"modified_duration"`
	Convexity        float64 `json:"convexity"`
}

// CurveDTO mirrors the curve as parallel ordered lists for plotting.
type CurveDTO struct {
	YTM   []float64 `json:"ytm"`
	Price []float64 `json:"price"`
}

// DerivativeDTO holds dPrice/dYTM per percentage point of yield, aligned to
// the same ytm axis as the curve.
type DerivativeDTO struct {
	YTM             []float64 `json:"ytm"`
	PriceDerivative []float64 `json:"price_derivative"`
}

type AnalyzeResponse struct {
	Summary    Summary        `json:"summary"`
	Curve      *CurveDTO      `json:"curve,omitempty"`
	Derivative *DerivativeDTO `json:"derivative,omitempty"`
}

type AnalyzeHandler struct {
	bonds map[string]types.BondTerms
	cache *ResponseCache
}

func NewAnalyzeHandler(bonds map[string]types.BondTerms, cache *ResponseCache) *AnalyzeHandler {
	return &AnalyzeHandler{bonds: bonds, cache: cache}
}

// Index lists the loaded bond definitions.
func (h *AnalyzeHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"bonds": h.bonds})
}

// Analyze runs one analytics request. Validation and numerical-method
// failures are reported as 400 with the engine's classification.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	key := h.cache.Key(body)
	if cached := h.cache.Get(c.Request.Context(), key); cached != nil {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	var req AnalyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	resp, err := h.run(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := json.Marshal(resp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode response"})
		return
	}

	h.cache.Set(c.Request.Context(), key, out)
	c.Data(http.StatusOK, "application/json", out)
}

func (h *AnalyzeHandler) run(req AnalyzeRequest) (*AnalyzeResponse, error) {
	terms, err := h.resolveTerms(req)
	if err != nil {
		return nil, err
	}

	purchase, err := bondfile.ParseDate(req.PurchaseDate)
	if err != nil {
		return nil, types.ErrInvalidDateRange
	}

	engineReq := analyze.Request{
		Terms:        terms,
		PurchaseDate: purchase,
		CleanPrice:   req.Price,
	}
	if req.Yield != nil {
		y := *req.Yield / 100
		engineReq.Yield = &y
	}
	if req.MinYield != nil && req.MaxYield != nil {
		numPoints := req.NumPoints
		if numPoints == 0 {
			numPoints = 100
		}
		engineReq.Curve = &analyze.CurveRange{
			MinYield:  *req.MinYield / 100,
			MaxYield:  *req.MaxYield / 100,
			NumPoints: numPoints,
		}
	}

	result, err := analyze.Run(engineReq)
	if err != nil {
		return nil, err
	}

	resp := &AnalyzeResponse{
		Summary: Summary{
			BondName:         terms.Name,
			ParValue:         terms.ParValue,
			CouponRate:       terms.CouponRate,
			CouponFrequency:  terms.Frequency,
			MaturityDate:     terms.MaturityDate.Format(bondfile.DateFormat),
			PurchaseDate:     purchase.Format(bondfile.DateFormat),
			CleanPrice:       result.CleanPrice,
			DirtyPrice:       result.DirtyPrice,
			AccruedInterest:  result.AccruedInterest,
			YTM:              result.Yield * 100,
			MacaulayDuration: result.MacaulayDuration,
			ModifiedDuration: result.ModifiedDuration,
			Convexity:        result.Convexity,
		},
	}

	if result.Curve != nil {
		n := len(result.Curve.Points)
		curve := &CurveDTO{YTM: make([]float64, n), Price: make([]float64, n)}
		deriv := &DerivativeDTO{YTM: make([]float64, n), PriceDerivative: make([]float64, n)}
		for i, p := range result.Curve.Points {
			curve.YTM[i] = p.Yield * 100
			curve.Price[i] = p.Price
			deriv.YTM[i] = p.Yield * 100
			// engine derivatives are per unit of decimal yield
			deriv.PriceDerivative[i] = result.Curve.Derivatives[i] / 100
		}
		resp.Curve = curve
		resp.Derivative = deriv
	}

	return resp, nil
}

func (h *AnalyzeHandler) resolveTerms(req AnalyzeRequest) (types.BondTerms, error) {
	if req.BondName != "" {
		terms, ok := h.bonds[req.BondName]
		if !ok {
			return types.BondTerms{}, types.ErrUnknownBond
		}
		return terms, nil
	}

	issue, err := bondfile.ParseDate(req.IssueDate)
	if err != nil {
		return types.BondTerms{}, types.ErrInvalidDateRange
	}
	maturity, err := bondfile.ParseDate(req.MaturityDate)
	if err != nil {
		return types.BondTerms{}, types.ErrInvalidDateRange
	}

	terms := types.BondTerms{
		ParValue:     req.ParValue,
		CouponRate:   req.CouponRate,
		Frequency:    req.CouponFrequency,
		IssueDate:    issue,
		MaturityDate: maturity,
	}

	if err := terms.Validate(); err != nil {
		return types.BondTerms{}, err
	}

	return terms, nil
}
