// Package bondfile loads named bond definitions from YAML or JSON files.
//
// The file maps a bond name to its terms:
//
//	EuroBondExample:
//	  par_value: 1000
//	  coupon_rate: 4.5
//	  coupon_frequency: 2
//	  issue_date: 15/03/2020
//	  maturity_date: 15/03/2030
//
// Dates use the fixed DD/MM/YYYY format.
package bondfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"benritz/bondcalc/internal/types"
)

// DateFormat is the textual date layout used in bond files and requests.
const DateFormat = "02/01/2006"

// ParseDate parses a DD/MM/YYYY date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, strings.TrimSpace(s))
}

type bondConfig struct {
	ParValue        float64 `yaml:"par_value" json:"par_value"`
	CouponRate      float64 `yaml:"coupon_rate" json:"coupon_rate"`
	CouponFrequency int     `yaml:"coupon_frequency" json:"coupon_frequency"`
	IssueDate       string  `yaml:"issue_date" json:"issue_date"`
	MaturityDate    string  `yaml:"maturity_date" json:"maturity_date"`
}

// Load reads the bond definitions at path. YAML is selected by the .yaml or
// .yml extension, anything else is parsed as JSON.
func Load(path string) (map[string]types.BondTerms, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bond file %s: %w", path, err)
	}

	configs := map[string]bondConfig{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &configs); err != nil {
			return nil, fmt.Errorf("failed to parse bond file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &configs); err != nil {
			return nil, fmt.Errorf("failed to parse bond file %s: %w", path, err)
		}
	}

	bonds := make(map[string]types.BondTerms, len(configs))
	for name, cfg := range configs {
		terms, err := toTerms(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("bond %s: %w", name, err)
		}
		bonds[name] = terms
	}

	return bonds, nil
}

func toTerms(name string, cfg bondConfig) (types.BondTerms, error) {
	issue, err := ParseDate(cfg.IssueDate)
	if err != nil {
		return types.BondTerms{}, fmt.Errorf("invalid issue_date: %w", err)
	}

	maturity, err := ParseDate(cfg.MaturityDate)
	if err != nil {
		return types.BondTerms{}, fmt.Errorf("invalid maturity_date: %w", err)
	}

	frequency := cfg.CouponFrequency
	if frequency == 0 {
		frequency = 1
	}

	terms := types.BondTerms{
		Name:         name,
		ParValue:     cfg.ParValue,
		CouponRate:   cfg.CouponRate,
		Frequency:    frequency,
		IssueDate:    issue,
		MaturityDate: maturity,
	}

	if err := terms.Validate(); err != nil {
		return types.BondTerms{}, err
	}

	return terms, nil
}
