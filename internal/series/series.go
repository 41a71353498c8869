// Package series defines the price and forecast time series the planner and
// simulator operate over, plus the period-index keying scheme recommended by
// spec.md: a plan lookup keyed by an integer count of periods since an
// epoch, not a wall-clock structure.
package series

import (
	"time"

	"batterysim/internal/batteryerr"
)

// Period is the uniform spacing between successive points in a PriceSeries.
type Period int

const (
	Hourly        Period = 60
	QuarterHourly Period = 15
)

// Duration converts the period to a time.Duration.
func (p Period) Duration() time.Duration {
	return time.Duration(p) * time.Minute
}

// PricePoint is one (instant, spot price) sample, price in EUR/MWh.
type PricePoint struct {
	Instant time.Time
	PriceMWh float64
}

// PriceSeries is an ordered, strictly-increasing, uniformly-spaced sequence
// of spot prices.
type PriceSeries struct {
	Period Period
	Points []PricePoint
	index  map[int64]int
}

// NewPriceSeries validates ordering/spacing and builds the instant lookup.
// Points must already be sorted by Instant.
func NewPriceSeries(period Period, points []PricePoint) (*PriceSeries, error) {
	if len(points) == 0 {
		return nil, batteryerr.InvalidParameter("price series must have at least one point")
	}
	ps := &PriceSeries{Period: period, Points: points}
	ps.index = make(map[int64]int, len(points))
	for i, p := range points {
		if i > 0 {
			want := points[i-1].Instant.Add(period.Duration())
			if !p.Instant.Equal(want) {
				return nil, batteryerr.InvalidParameter("price series must be strictly increasing with no gaps")
			}
		}
		ps.index[PeriodIndex(p.Instant, period)] = i
	}
	return ps, nil
}

// PeriodIndex maps an instant to an integer count of periods since the Unix
// epoch, the fast associative key spec.md recommends for plan lookups.
func PeriodIndex(t time.Time, p Period) int64 {
	return t.Unix() / int64(p.Duration().Seconds())
}

// At returns the price point for instant, or (zero, false) if missing.
func (ps *PriceSeries) At(instant time.Time) (PricePoint, bool) {
	i, ok := ps.index[PeriodIndex(instant, ps.Period)]
	if !ok {
		return PricePoint{}, false
	}
	return ps.Points[i], true
}

// Slice returns the contiguous points in [from, to), clipped to the
// available series.
func (ps *PriceSeries) Slice(from, to time.Time) []PricePoint {
	var out []PricePoint
	for t := from; t.Before(to); t = t.Add(ps.Period.Duration()) {
		if pt, ok := ps.At(t); ok {
			out = append(out, pt)
		} else {
			break
		}
	}
	return out
}

// Start and End report the first and one-past-last instant in the series.
func (ps *PriceSeries) Start() time.Time { return ps.Points[0].Instant }
func (ps *PriceSeries) End() time.Time {
	return ps.Points[len(ps.Points)-1].Instant.Add(ps.Period.Duration())
}

// ForecastPoint is one (instant, consumption, solar) sample, both in kWh
// for the period.
type ForecastPoint struct {
	Instant        time.Time
	ConsumptionKwh float64
	SolarKwh       float64
}

// ForecastSeries is a consumption/solar series aligned 1:1 to a PriceSeries.
type ForecastSeries struct {
	Period Period
	index  map[int64]ForecastPoint
}

// NewForecastSeries builds the lookup; points need not be contiguous since
// gaps default to zero per spec.md.
func NewForecastSeries(period Period, points []ForecastPoint) (*ForecastSeries, error) {
	fs := &ForecastSeries{Period: period, index: make(map[int64]ForecastPoint, len(points))}
	for _, p := range points {
		if p.ConsumptionKwh < 0 || p.SolarKwh < 0 {
			return nil, batteryerr.InvalidParameter("forecast values must be non-negative")
		}
		fs.index[PeriodIndex(p.Instant, period)] = p
	}
	return fs, nil
}

// At returns the forecast for instant, defaulting missing periods to zero
// consumption and solar per spec.md's gap-handling rule.
func (fs *ForecastSeries) At(instant time.Time) ForecastPoint {
	if fs == nil {
		return ForecastPoint{Instant: instant}
	}
	if p, ok := fs.index[PeriodIndex(instant, fs.Period)]; ok {
		return p
	}
	return ForecastPoint{Instant: instant}
}
