package collect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCouponPercentage(t *testing.T) {
	tests := []struct {
		desc string
		want float64
	}{
		{"2% Treasury Gilt 2025", 2.0},
		{"0 5/8% Treasury Gilt 2025", 0.625},
		{"1 1/2% Treasury Gilt 2026", 1.5},
		{"3½% Treasury Gilt 2025", 3.5},
		{"4¼% Treasury Gilt 2034", 4.25},
		{"0¾% Treasury Gilt 2033", 0.75},
		{"5/8% Treasury Gilt 2031", 0.625},
	}

	for _, tt := range tests {
		got, err := parseCouponPercentage(tt.desc)
		require.NoError(t, err, tt.desc)
		assert.Equal(t, tt.want, got, tt.desc)
	}

	for _, desc := range []string{
		"Treasury Gilt 2025",
		"Gilt 2% 2025",
		"",
	} {
		_, err := parseCouponPercentage(desc)
		assert.ErrorIs(t, err, ErrInvalidRow, desc)
	}
}

func TestParseFraction(t *testing.T) {
	num, den, err := parseFraction("5/8")
	require.NoError(t, err)
	assert.Equal(t, 5, num)
	assert.Equal(t, 8, den)

	_, _, err = parseFraction("5/0")
	assert.ErrorIs(t, err, ErrInvalidRow)

	_, _, err = parseFraction("5")
	assert.ErrorIs(t, err, ErrInvalidRow)
}

func TestDMOParseRow(t *testing.T) {
	c := NewDMOCollector()
	settlement := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

	row := []string{
		"GB00BN65R313", "4¼% Treasury Gilt 2034", "98.50",
		"", "", "", "", "31-Jan-2034",
	}

	cr, err := c.parseRow(settlement, row)
	require.NoError(t, err)
	require.NoError(t, cr.Err)

	r := cr.Record
	assert.Equal(t, SourceDMO, r.Source)
	assert.Equal(t, "GB00BN65R313", r.ISIN)
	assert.Equal(t, 100.0, r.ParValue)
	assert.Equal(t, 4.25, r.CouponRate)
	assert.Equal(t, giltFrequency, r.Frequency)
	assert.Equal(t, time.Date(2034, time.January, 31, 0, 0, 0, 0, time.UTC), r.MaturityDate)
	assert.Equal(t, 98.50, r.CleanPrice)

	// quoted below par, so the solved yield exceeds the coupon
	assert.Greater(t, r.Yield, 4.25)
	assert.Greater(t, r.DirtyPrice, r.CleanPrice)
	assert.Greater(t, r.ModifiedDuration, 0.0)
	assert.Greater(t, r.Convexity, 0.0)
}

func TestDMOParseRow_Rejects(t *testing.T) {
	c := NewDMOCollector()
	settlement := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

	_, err := c.parseRow(settlement, []string{"GB00BN65R313", "too short"})
	assert.ErrorIs(t, err, ErrInvalidRow)

	// header and summary rows carry no ISIN
	_, err = c.parseRow(settlement, []string{
		"ISIN Code", "Gilt Name", "Clean Price", "", "", "", "", "Redemption Date",
	})
	assert.ErrorIs(t, err, ErrInvalidRow)

	_, err = c.parseRow(settlement, []string{
		"GB00BYY5F581", "0 1/8% Index-linked Treasury Gilt 2029", "88.20",
		"", "", "", "", "22-Mar-2029",
	})
	assert.ErrorIs(t, err, ErrUnsupportedBond)
}

func TestDMOParseRow_BadFieldsRecordedAsFailure(t *testing.T) {
	c := NewDMOCollector()
	settlement := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

	// unparseable price: the row is kept, but flagged
	cr, err := c.parseRow(settlement, []string{
		"GB00BN65R313", "4¼% Treasury Gilt 2034", "n/a",
		"", "", "", "", "31-Jan-2034",
	})
	require.NoError(t, err)
	assert.ErrorIs(t, cr.Err, ErrInvalidRow)

	collected := NewCollectedRecords(SourceDMO, settlement)
	collected.Add(cr)
	assert.Empty(t, collected.Records)
	assert.Len(t, collected.Failures, 1)
}
