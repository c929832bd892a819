package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pbnjay/grate"
)

var SourceDMO = "DMO"

type DMOCollector struct {
}

func NewDMOCollector() *DMOCollector {
	return &DMOCollector{}
}

func (c *DMOCollector) Collect(ctx context.Context, date time.Time) (*CollectedRecords, error) {
	// The DMO website has a number of reports that can be used to collect gilt data.
	// https://www.dmo.gov.uk/data/pdfdatareport?reportCode=D1A
	// https://www.dmo.gov.uk/data/pdfdatareport?reportCode=D9D
	// https://www.dmo.gov.uk/data/pdfdatareport?reportCode=D10B

	params := fmt.Sprintf("&Trade Date=%02d-%02d-%04d", date.Day(), date.Month(), date.Year())
	url := "https://www.dmo.gov.uk/umbraco/surface/DataExport/GetDataExport?reportCode=D10B&exportFormatValue=xls&parameters=" + url.QueryEscape(params)

	client := &http.Client{}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get data: http %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "bond-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	wb, err := grate.Open(tmp.Name())
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	collected := NewCollectedRecords(SourceDMO, date)
	parsed := 0

	sheets, err := wb.List()
	if err != nil {
		return nil, err
	}
	for _, sheetName := range sheets {
		sheet, err := wb.Get(sheetName)

		if err != nil {
			return nil, err
		}

		for sheet.Next() {
			row := sheet.Strings()
			cr, err := c.parseRow(date, row)
			if err == nil {
				collected.Add(cr)
				parsed++
			}
		}
	}

	if parsed == 0 {
		return nil, ErrDataUnavailable
	}

	return collected, nil
}

func (d *DMOCollector) Source() string {
	return SourceDMO
}

func (c *DMOCollector) parseRow(date time.Time, row []string) (*CollectedRecord, error) {
	if len(row) < 8 {
		return nil, ErrInvalidRow
	}

	isin := row[0]

	if !strings.HasPrefix(isin, "GB") {
		return nil, ErrInvalidRow
	}

	r := &Record{
		Source:         SourceDMO,
		ISIN:           strings.TrimSpace(isin),
		Desc:           strings.TrimSpace(row[1]),
		ParValue:       100.0,
		Frequency:      giltFrequency,
		SettlementDate: date,
	}

	// index-linked gilts have inflation-adjusted cash flows the engine
	// does not model
	if strings.Contains(strings.ToLower(r.Desc), "index-linked") {
		return nil, ErrUnsupportedBond
	}

	cr := &CollectedRecord{Record: r}

	if coupon, err := parseCouponPercentage(r.Desc); err == nil {
		r.CouponRate = coupon
	} else {
		cr.SetError(ErrInvalidRow)
	}

	if cleanPrice, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64); err == nil {
		r.CleanPrice = cleanPrice
	} else {
		cr.SetError(ErrInvalidRow)
	}

	if ts, err := time.Parse("02-Jan-2006", strings.TrimSpace(row[7])); err == nil {
		r.MaturityDate = ts
	} else {
		cr.SetError(ErrInvalidRow)
	}

	if cr.Err == nil {
		cr.Err = complete(r)
	}

	return cr, nil
}

// parseCouponPercentage parses a coupon percentage string in the following formats
// 0 5/8% Treasury Gilt 2025,
// 2% Treasury Gilt 2025,
// 3½% Treasury Gilt 2025
//
//	desc: bond description
//
// Returns:
//
//	Coupon percentage
func parseCouponPercentage(desc string) (float64, error) {
	re := regexp.MustCompile(`^(\d+(?:\s+\d+\/\d+)?|\d+\/\d+|\d+|\d[¼½¾])(%)`)
	match := re.FindStringSubmatch(desc)

	if len(match) < 3 {
		return 0, ErrInvalidRow
	}

	m := match[1]

	// convert ½, ¼, ¾ suffixes
	trimLast := func(s string) string {
		r := []rune(s)
		return string(r[0 : len(r)-1])
	}
	if strings.HasSuffix(m, "½") {
		m = trimLast(m) + " 1/2"
	} else if strings.HasSuffix(m, "¼") {
		m = trimLast(m) + " 1/4"
	} else if strings.HasSuffix(m, "¾") {
		m = trimLast(m) + " 3/4"
	}

	if strings.Contains(m, "/") {
		parts := strings.Split(m, " ")
		if len(parts) == 2 {
			// mixed number, e.g. "0 5/8"
			whole, err := strconv.Atoi(parts[0])
			if err != nil {
				return 0, ErrInvalidRow
			}
			num, den, err := parseFraction(parts[1])
			if err != nil {
				return 0, err
			}
			return float64(whole) + float64(num)/float64(den), nil
		} else if len(parts) == 1 {
			num, den, err := parseFraction(parts[0])
			if err != nil {
				return 0, err
			}
			return float64(num) / float64(den), nil
		}
		return 0, ErrInvalidRow
	}

	coupon, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, ErrInvalidRow
	}

	return coupon, nil
}

func parseFraction(s string) (int, int, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidRow
	}
	num, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, ErrInvalidRow
	}
	den, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, ErrInvalidRow
	}
	if den == 0 {
		return 0, 0, ErrInvalidRow
	}
	return num, den, nil
}
