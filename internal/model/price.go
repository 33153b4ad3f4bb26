package model

// PriceMap maps an asset identifier (symbol or scheme name) to its current price.
type PriceMap map[string]float64

// Price returns the current price of asset, or 0 when none is known.
func (p PriceMap) Price(asset string) float64 {
	return p[asset]
}
