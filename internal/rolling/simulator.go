// Package rolling drives a year-long (or arbitrary-length) simulation by
// invoking the DispatchPlanner at a fixed daily gate-closure point and
// executing only the near portion of each returned plan before re-planning,
// mirroring how a real day-ahead market actually publishes prices.
package rolling

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"batterysim/internal/battery"
	"batterysim/internal/batteryerr"
	"batterysim/internal/planner"
	"batterysim/internal/series"
	"batterysim/internal/tariff"
)

const (
	// gateHour is the local hour at which tomorrow's day-ahead prices are
	// published and a new plan must be computed.
	gateHour   = 13
	gateMinute = 0

	// yieldEvery is the recommended batch size between cooperative
	// suspension points, per spec.md §5.
	yieldEvery = 500
)

// Simulator drives one rolling-horizon run. It exclusively owns the
// Battery for the run's duration; Planner is stateless and reused across
// replanning calls.
type Simulator struct {
	Planner  *planner.Planner
	Battery  *battery.State
	Prices   *series.PriceSeries
	Forecast *series.ForecastSeries // nil for arbitrage-only mode
	Tariff   tariff.Model

	Log zerolog.Logger

	// OnYield, if set, is invoked at every cooperative suspension point
	// (before each replan, and every yieldEvery simulated periods) so a
	// hosting event loop can observe progress. It runs synchronously.
	OnYield func()
}

// Run simulates from start to the end of the available price series (or
// until ctx is cancelled), replanning at each gate closure. It returns the
// partial History recorded so far even when it returns an error, so a
// cancelled or solver-failed run still yields everything simulated up to
// the last fully recorded period.
func (s *Simulator) Run(ctx context.Context, start time.Time) (*History, error) {
	if s.Prices == nil || len(s.Prices.Points) == 0 {
		return &History{}, batteryerr.MissingData("no price series provided")
	}

	periodDuration := s.Prices.Period.Duration()
	periodHours := periodDuration.Hours()

	hist := &History{}
	plan := map[int64]planner.Action{}

	cur := start
	periodsSinceYield := 0
	cum := 0.0

	for {
		if err := ctx.Err(); err != nil {
			return hist, batteryerr.Cancelled("simulation cancelled")
		}

		price, ok := s.Prices.At(cur)
		if !ok {
			// End of available data terminates the run gracefully, per
			// spec.md §4.4/§7 (MissingData downgrades to termination).
			break
		}

		if cur.Equal(start) || isGateClosure(cur) {
			if s.OnYield != nil {
				s.OnYield()
			}
			if err := ctx.Err(); err != nil {
				return hist, batteryerr.Cancelled("simulation cancelled before replan")
			}

			windowEnd := endOfNextCalendarDay(cur)
			if end := s.Prices.End(); windowEnd.After(end) {
				windowEnd = end
			}
			window := s.Prices.Slice(cur, windowEnd)

			s.Log.Debug().
				Time("instant", cur).
				Int("window_periods", len(window)).
				Msg("replanning")

			actions, warn, err := s.Planner.Plan(window, s.Forecast, periodHours, s.Battery.Config, s.Battery.SocKwh, s.Tariff)
			if err != nil {
				return hist, err
			}
			if warn {
				hist.Warnings = append(hist.Warnings, "planner returned a non-optimal but feasible solution at "+cur.Format(time.RFC3339))
			}

			plan = make(map[int64]planner.Action, len(actions))
			for _, a := range actions {
				plan[series.PeriodIndex(a.Instant, s.Prices.Period)] = a
			}
		}

		buy := s.Tariff.Buy(price.PriceMWh)
		sell := s.Tariff.Sell(price.PriceMWh)

		kind := planner.Idle
		energyDc := 0.0
		if a, ok := plan[series.PeriodIndex(cur, s.Prices.Period)]; ok {
			kind = a.Kind
			energyDc = a.EnergyDcKwh
		}

		rec := TimestepRecord{
			Instant:   cur,
			BuyPrice:  buy,
			SellPrice: sell,
		}

		switch kind {
		case planner.Charge:
			res := s.Battery.Charge(energyDc, periodHours)
			rec.Action = planner.Charge
			rec.DcMovedKwh = res.DcMovedKwh
			rec.EnergyFromGridKwh = res.AcKwh
			rec.Cashflow = -res.AcKwh * buy
		case planner.Discharge:
			res := s.Battery.Discharge(energyDc, periodHours)
			rec.Action = planner.Discharge
			rec.DcMovedKwh = res.DcMovedKwh
			rec.EnergyToGridKwh = res.AcKwh
			rec.Cashflow = res.AcKwh * sell
		default:
			rec.Action = planner.Idle
		}

		rec.SocKwh = s.Battery.SocKwh
		cum += rec.Cashflow
		rec.CumCashflow = cum
		hist.Records = append(hist.Records, rec)

		cur = cur.Add(periodDuration)
		periodsSinceYield++
		if periodsSinceYield >= yieldEvery {
			periodsSinceYield = 0
			if s.OnYield != nil {
				s.OnYield()
			}
		}
	}

	return hist, nil
}

func isGateClosure(t time.Time) bool {
	return t.Hour() == gateHour && t.Minute() == gateMinute
}

// endOfNextCalendarDay returns the instant one past the end of the calendar
// day following t's calendar date, i.e. midnight two calendar days ahead —
// the ~35h (hourly) / ~140-period (quarter-hourly) window spec.md specifies
// for a 13:00 gate closure.
func endOfNextCalendarDay(t time.Time) time.Time {
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return dayStart.AddDate(0, 0, 2)
}
