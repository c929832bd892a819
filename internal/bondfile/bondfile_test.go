package bondfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benritz/bondcalc/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "bonds.yaml", `
EuroBondExample:
  par_value: 1000
  coupon_rate: 4.5
  coupon_frequency: 2
  issue_date: 15/03/2020
  maturity_date: 15/03/2030
AnnualNote:
  par_value: 100
  coupon_rate: 2.25
  issue_date: 01/01/2022
  maturity_date: 01/01/2032
`)

	bonds, err := Load(path)
	require.NoError(t, err)
	require.Len(t, bonds, 2)

	b := bonds["EuroBondExample"]
	assert.Equal(t, "EuroBondExample", b.Name)
	assert.Equal(t, 1000.0, b.ParValue)
	assert.Equal(t, 4.5, b.CouponRate)
	assert.Equal(t, 2, b.Frequency)
	assert.Equal(t, time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC), b.IssueDate)
	assert.Equal(t, time.Date(2030, time.March, 15, 0, 0, 0, 0, time.UTC), b.MaturityDate)

	// coupon_frequency defaults to annual
	assert.Equal(t, 1, bonds["AnnualNote"].Frequency)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "bonds.json", `{
  "EuroBondExample": {
    "par_value": 1000,
    "coupon_rate": 4.5,
    "coupon_frequency": 2,
    "issue_date": "15/03/2020",
    "maturity_date": "15/03/2030"
  }
}`)

	bonds, err := Load(path)
	require.NoError(t, err)
	require.Len(t, bonds, 1)
	assert.Equal(t, 2, bonds["EuroBondExample"].Frequency)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, "bonds.yaml", `
Bad:
  par_value: 100
  coupon_rate: 1
  issue_date: 2020-03-15
  maturity_date: 15/03/2030
`)
	_, err = Load(bad)
	assert.Error(t, err)

	inverted := writeFile(t, "bonds2.yaml", `
Inverted:
  par_value: 100
  coupon_rate: 1
  issue_date: 15/03/2030
  maturity_date: 15/03/2020
`)
	_, err = Load(inverted)
	assert.ErrorIs(t, err, types.ErrInvalidDateRange)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 15/03/2025 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2025-03-15")
	assert.Error(t, err)
}
