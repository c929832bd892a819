package collect

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

var SourceDividendData = "DividendData"

// UK gilts pay semi-annual coupons.
const giltFrequency = 2

type DividendDataCollector struct {
}

func NewDividendDataCollector() *DividendDataCollector {
	return &DividendDataCollector{}
}

func (c *DividendDataCollector) Collect(ctx context.Context, date time.Time) (*CollectedRecords, error) {
	x := colly.NewCollector()

	// check page date matches requested date
	// the page is updated daily, but the data may not be available yet
	DATE_PREFIX := "Last updated: "
	var dataTs time.Time

	x.OnHTML("label", func(e *colly.HTMLElement) {
		if strings.HasPrefix(e.Text, DATE_PREFIX) {
			s := strings.TrimPrefix(e.Text, DATE_PREFIX)
			dataTs, _ = time.Parse("02 Jan 2006", s)
		}
	})

	collected := NewCollectedRecords(SourceDividendData, date)

	x.OnHTML("#mainbody tr", func(e *colly.HTMLElement) {
		cr := c.readRecord(date, e)
		if cr != nil {
			collected.Add(cr)
		}
	})

	x.Visit("https://www.dividenddata.co.uk/uk-gilts-prices-yields.py")

	if dataTs.IsZero() {
		return nil, ErrDataUnavailable
	}

	if !dataTs.Equal(date.Truncate(24 * time.Hour)) {
		return nil, ErrDataUnavailable
	}

	return collected, nil
}

func (c *DividendDataCollector) Source() string {
	return SourceDividendData
}

var (
	DD_COL_TICKER            = 0
	DD_COL_DESC              = 1
	DD_COL_COUPON            = 2
	DD_COL_MATURITY_DATE     = 3
	DD_COL_MATURITY_DURATION = 4
	DD_COL_PRICE             = 5
	DD_COL_MATURITY_YIELD    = 6
)

func (c *DividendDataCollector) readRecord(date time.Time, e *colly.HTMLElement) *CollectedRecord {
	r := &Record{
		Source:         SourceDividendData,
		ParValue:       100.0,
		Frequency:      giltFrequency,
		SettlementDate: date,
	}

	cr := &CollectedRecord{Record: r}

	e.ForEach("td", func(col int, el *colly.HTMLElement) {
		switch col {
		case DD_COL_TICKER:
			r.Ticker = strings.TrimSpace(el.Text)
			if r.Ticker == "" {
				cr.SetError(ErrInvalidRow)
			}
		case DD_COL_DESC:
			r.Desc = strings.TrimSpace(el.Text)
			if r.Desc == "" {
				cr.SetError(ErrInvalidRow)
			}
		case DD_COL_COUPON:
			s := strings.TrimSuffix(el.Text, "%")
			if coupon, err := strconv.ParseFloat(s, 64); err == nil {
				r.CouponRate = coupon
			} else {
				cr.SetError(ErrInvalidRow)
			}
		case DD_COL_MATURITY_DATE:
			if ts, err := time.Parse("02-Jan-2006", el.Text); err == nil {
				r.MaturityDate = ts
			} else {
				cr.SetError(ErrInvalidRow)
			}
		case DD_COL_MATURITY_DURATION:
			// ignore, calculated from maturity date
		case DD_COL_PRICE:
			s := strings.TrimPrefix(el.Text, "Â£")
			if price, err := strconv.ParseFloat(s, 64); err == nil {
				r.CleanPrice = price
			} else {
				cr.SetError(ErrInvalidRow)
			}
		case DD_COL_MATURITY_YIELD:
			// the page's own yield column is ignored; the engine
			// recomputes it from the quoted price
		}
	})

	if cr.Err == nil {
		cr.Err = complete(r)
	}

	return cr
}
