package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog"

	"batterysim/internal/aggregate"
	"batterysim/internal/battery"
	"batterysim/internal/efficiency"
	"batterysim/internal/planner"
	"batterysim/internal/rolling"
	"batterysim/internal/series"
	"batterysim/internal/tariff"
)

// Demo builds a synthetic one-week hourly EPEX-style price series (a daily
// sinusoid plus a weekend dip, so cheap night hours and an afternoon peak are
// always present) and runs the full planner/simulator/aggregator pipeline
// against it, to show how the pieces fit together without any external
// data files.
func main() {
	days := flag.Int("days", 7, "Number of days of synthetic prices to simulate")
	flag.Parse()

	prices := syntheticPrices(*days)
	priceSeries, err := series.NewPriceSeries(series.Hourly, prices)
	if err != nil {
		panic(err)
	}

	coef := efficiency.ThreePhase11_15.Coefficients
	bundle, err := efficiency.Compute(11, 15, 10, coef)
	if err != nil {
		panic(err)
	}
	batCfg := battery.FromBundle(11, 15, 10, 0.10, 0.90, bundle)
	state, err := battery.New(batCfg, batCfg.MinSocKwh())
	if err != nil {
		panic(err)
	}

	tar := tariff.StandardNoSaldering()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	sim := &rolling.Simulator{
		Planner: planner.New(),
		Battery: state,
		Prices:  priceSeries,
		Tariff:  tar,
		Log:     log,
	}

	hist, err := sim.Run(context.Background(), priceSeries.Start())
	if err != nil {
		panic(err)
	}

	fmt.Printf("Simulated %d periods over %d days\n\n", len(hist.Records), *days)
	for i := 0; i < min(24, len(hist.Records)); i++ {
		r := hist.Records[i]
		fmt.Printf("%s action=%-9s dc=%6.2f soc=%6.2f cashflow=%7.3f cum=%8.3f\n",
			r.Instant.Format("2006-01-02 15:04"), r.Action, r.DcMovedKwh, r.SocKwh, r.Cashflow, r.CumCashflow)
	}

	monthly := aggregate.Monthlies(hist, batCfg.CapacityKwh)
	fmt.Println("\nMonthly summary:")
	for _, m := range monthly {
		fmt.Printf("  %04d-%02d cashflow=%.2f cycles=%.2f import=%.2fkWh export=%.2fkWh\n",
			m.Year, m.Month, m.Cashflow, m.Cycles, m.GridImportKwh, m.GridExportKwh)
	}

	fmt.Printf("\nTotal cashflow=%.2f final SoC=%.2fkWh cycles=%.2f\n",
		hist.TotalCashflow(), state.SocKwh, hist.Cycles(batCfg.CapacityKwh))
}

func syntheticPrices(days int) []series.PricePoint {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // a Monday
	n := days * 24
	points := make([]series.PricePoint, 0, n)
	for i := 0; i < n; i++ {
		t := start.Add(time.Duration(i) * time.Hour)
		hour := float64(t.Hour())

		// Night trough around 03:00, afternoon peak around 15:00.
		base := 60.0
		daily := 40 * math.Sin((hour-9)/24*2*math.Pi)
		weekendDip := 0.0
		if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
			weekendDip = -15
		}
		price := base + daily + weekendDip

		points = append(points, series.PricePoint{Instant: t, PriceMWh: price})
	}
	return points
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
