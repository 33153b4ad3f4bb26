package service

import "github.com/shopspring/decimal"

// RoundingPrecision is the number of decimal places kept for money values,
// percentages and rates in API responses.
const RoundingPrecision = 2

// round rounds value half away from zero to RoundingPrecision places.
//
//	round(123.456789)  // 123.46
//	round(0.005)       // 0.01
//	round(-1.005)      // -1.01
func round(value float64) float64 {
	return decimal.NewFromFloat(value).Round(RoundingPrecision).InexactFloat64()
}

// percentOf returns part/total*100, or 0 when total is 0.
func percentOf(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
