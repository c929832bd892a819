package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"benritz/bondcalc/internal/analyze"
	"benritz/bondcalc/internal/bondfile"
	"benritz/bondcalc/internal/types"
)

// CurvePoint is one parquet row of an exported price-yield curve.
// YTM is in percent; PriceDerivative is per percentage point of yield.
type CurvePoint struct {
	YTM             float64
	Price           float64
	PriceDerivative float64
}

func exportCurve(curve *types.CurveResult, path string) error {
	rows := make([]CurvePoint, len(curve.Points))
	for i, p := range curve.Points {
		rows[i] = CurvePoint{
			YTM:             p.Yield * 100,
			Price:           p.Price,
			PriceDerivative: curve.Derivatives[i] / 100,
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[CurvePoint](file)
	defer writer.Close()

	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write curve rows: %w", err)
	}

	return nil
}

func main() {
	bondsPath := flag.String("bonds", "bonds.yaml", "Path to the YAML/JSON bond definitions file")
	bondName := flag.String("bond", "", "Name of the bond to analyze from the bond file")
	parValue := flag.Float64("parvalue", 100, "Par value of the bond")
	coupon := flag.Float64("coupon", 0.0, "Coupon rate (%) of the bond")
	frequency := flag.Int("frequency", 2, "Coupon payments per year")
	issueDateStr := flag.String("issuedate", "", "Issue date of the bond (DD/MM/YYYY)")
	maturityDateStr := flag.String("maturitydate", "", "Maturity date of the bond (DD/MM/YYYY)")
	purchaseDateStr := flag.String("purchasedate", "", "Purchase date (DD/MM/YYYY)")
	price := flag.Float64("price", 0.0, "Clean price of the bond")
	yield := flag.Float64("yield", 0.0, "Yield to maturity (%) of the bond")
	minYield := flag.Float64("minyield", 0.0, "Minimum yield (%) for the price-yield curve")
	maxYield := flag.Float64("maxyield", 0.0, "Maximum yield (%) for the price-yield curve")
	numPoints := flag.Int("numpoints", 100, "Number of points on the price-yield curve")
	curveOut := flag.String("curveout", "", "Write the price-yield curve to this parquet file")

	flag.Parse()

	flagsSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		flagsSet[f.Name] = true
	})

	if !flagsSet["price"] && !flagsSet["yield"] {
		fmt.Println("Error: -price or -yield flag is required")
		return
	}

	if !flagsSet["purchasedate"] || *purchaseDateStr == "" {
		fmt.Println("Error: -purchasedate flag is required")
		return
	}

	purchaseDate, err := bondfile.ParseDate(*purchaseDateStr)
	if err != nil {
		fmt.Printf("Error: invalid purchase date: %v\n", err)
		return
	}

	var terms types.BondTerms

	if *bondName != "" {
		bonds, err := bondfile.Load(*bondsPath)
		if err != nil {
			fmt.Printf("Error: failed to load bond definitions: %v\n", err)
			return
		}
		var ok bool
		if terms, ok = bonds[*bondName]; !ok {
			fmt.Printf("Error: bond %q not found in %s\n", *bondName, *bondsPath)
			return
		}
	} else {
		if !flagsSet["coupon"] {
			fmt.Println("Error: -coupon flag is required when no -bond is given")
			return
		}
		if !flagsSet["maturitydate"] || *maturityDateStr == "" {
			fmt.Println("Error: -maturitydate flag is required when no -bond is given")
			return
		}

		maturityDate, err := bondfile.ParseDate(*maturityDateStr)
		if err != nil {
			fmt.Printf("Error: invalid maturity date: %v\n", err)
			return
		}

		var issueDate time.Time
		if *issueDateStr != "" {
			if issueDate, err = bondfile.ParseDate(*issueDateStr); err != nil {
				fmt.Printf("Error: invalid issue date: %v\n", err)
				return
			}
		}

		terms = types.BondTerms{
			ParValue:     *parValue,
			CouponRate:   *coupon,
			Frequency:    *frequency,
			IssueDate:    issueDate,
			MaturityDate: maturityDate,
		}
	}

	req := analyze.Request{
		Terms:        terms,
		PurchaseDate: purchaseDate,
	}

	if flagsSet["price"] {
		req.CleanPrice = price
	} else {
		y := *yield / 100
		req.Yield = &y
	}

	if flagsSet["minyield"] || flagsSet["maxyield"] {
		req.Curve = &analyze.CurveRange{
			MinYield:  *minYield / 100,
			MaxYield:  *maxYield / 100,
			NumPoints: *numPoints,
		}
	}

	result, err := analyze.Run(req)
	if err != nil {
		fmt.Printf("Error analyzing bond: %v\n", err)
		return
	}

	fmt.Printf("Bond Details:\n")
	if terms.Name != "" {
		fmt.Printf("\tName: %s\n", terms.Name)
	}
	fmt.Printf("\tPar Value: %.3f\n", terms.ParValue)
	fmt.Printf("\tCoupon Rate: %.3f%%\n", terms.CouponRate)
	fmt.Printf("\tCoupon Frequency: %d\n", terms.Frequency)
	if !terms.IssueDate.IsZero() {
		fmt.Printf("\tIssue Date: %s\n", terms.IssueDate.Format(bondfile.DateFormat))
	}
	fmt.Printf("\tMaturity Date: %s\n", terms.MaturityDate.Format(bondfile.DateFormat))
	fmt.Printf("\tPurchase Date: %s\n", purchaseDate.Format(bondfile.DateFormat))
	fmt.Printf("\tClean Price: %.4f\n", result.CleanPrice)
	fmt.Printf("\tDirty Price: %.4f\n", result.DirtyPrice)
	fmt.Printf("\tAccrued Interest: %.4f\n", result.AccruedInterest)
	fmt.Printf("\tYield to Maturity: %.6f%%\n", result.Yield*100)
	fmt.Printf("\tMacaulay Duration: %.4f years\n", result.MacaulayDuration)
	fmt.Printf("\tModified Duration: %.4f years\n", result.ModifiedDuration)
	fmt.Printf("\tConvexity: %.4f\n", result.Convexity)

	if result.Curve != nil {
		fmt.Printf("\tCurve Points: %d\n", len(result.Curve.Points))
		if *curveOut != "" {
			if err := exportCurve(result.Curve, *curveOut); err != nil {
				fmt.Printf("Error: failed to export curve: %v\n", err)
				return
			}
			fmt.Printf("Curve written to %s\n", *curveOut)
		}
	}
}
