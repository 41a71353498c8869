// Package tariff implements the buy/sell price models that convert an EPEX
// day-ahead spot price (EUR/MWh) into retail buy and sell prices (EUR/kWh).
package tariff

// Model is a pure, deterministic buy/sell price function of the spot price.
type Model interface {
	Buy(epexMWh float64) float64
	Sell(epexMWh float64) float64
}

// Func adapts two plain functions to the Model interface.
type Func struct {
	BuyFn  func(epexMWh float64) float64
	SellFn func(epexMWh float64) float64
}

func (f Func) Buy(epexMWh float64) float64  { return f.BuyFn(epexMWh) }
func (f Func) Sell(epexMWh float64) float64 { return f.SellFn(epexMWh) }

// StandardSaldering implements the Dutch net-metering preset: buy == sell.
func StandardSaldering() Model {
	return Func{
		BuyFn:  standardBuy,
		SellFn: standardBuy,
	}
}

// StandardNoSaldering keeps the standard buy price but sells at a lower,
// unsubsidized rate.
func StandardNoSaldering() Model {
	return Func{
		BuyFn:  standardBuy,
		SellFn: func(epexMWh float64) float64 { return epexMWh/1000 + 0.0248/1.21 },
	}
}

// Bare is the plain wholesale pass-through: buy == sell == epex/1000.
func Bare() Model {
	return Func{
		BuyFn:  bare,
		SellFn: bare,
	}
}

func standardBuy(epexMWh float64) float64 {
	return (epexMWh/1000+0.10154)*1.21 + 0.0248
}

func bare(epexMWh float64) float64 {
	return epexMWh / 1000
}

// Preset looks up a built-in tariff model by name. Returns false for unknown
// names, including "custom" which must be built via NewCustom instead since
// it needs user-supplied formulas.
func Preset(name string) (Model, bool) {
	switch name {
	case "standard-saldering":
		return StandardSaldering(), true
	case "standard-no-saldering":
		return StandardNoSaldering(), true
	case "bare":
		return Bare(), true
	default:
		return nil, false
	}
}
