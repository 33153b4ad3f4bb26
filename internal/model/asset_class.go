package model

import (
	"fmt"
	"strings"
)

// AssetClass identifies one dashboard row. The set is closed; see Roster.
type AssetClass string

const (
	ClassStock            AssetClass = "stock"
	ClassETF              AssetClass = "etf"
	ClassMutualFund       AssetClass = "mutual_fund"
	ClassRetirementScheme AssetClass = "retirement_scheme"
	ClassProvidentFund    AssetClass = "provident_fund"
	ClassPensionFund      AssetClass = "pension_fund"
	ClassBank             AssetClass = "bank"
	ClassFixedDeposit     AssetClass = "fixed_deposit"
)

// Roster is the fixed, ordered list of asset classes shown on the dashboard.
// Every dashboard carries exactly one row per entry, in this order.
var Roster = []AssetClass{
	ClassStock,
	ClassETF,
	ClassMutualFund,
	ClassRetirementScheme,
	ClassProvidentFund,
	ClassPensionFund,
	ClassBank,
	ClassFixedDeposit,
}

var classLabels = map[AssetClass]string{
	ClassStock:            "Stocks",
	ClassETF:              "ETFs",
	ClassMutualFund:       "Mutual Funds",
	ClassRetirementScheme: "NPS",
	ClassProvidentFund:    "Provident Fund",
	ClassPensionFund:      "Pension Fund",
	ClassBank:             "Bank",
	ClassFixedDeposit:     "Fixed Deposits",
}

// Label returns the human readable name of the class.
func (c AssetClass) Label() string {
	if label, ok := classLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseAssetClass accepts the canonical tag as well as the dashed and
// upper-case spellings used by older clients ("mutual-fund", "ETF").
func ParseAssetClass(s string) (AssetClass, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, c := range Roster {
		if string(c) == normalized {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown asset class %q", s)
}
