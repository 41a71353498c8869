package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"batterysim/internal/aggregate"
	"batterysim/internal/battery"
	"batterysim/internal/config"
	"batterysim/internal/efficiency"
	"batterysim/internal/export"
	"batterysim/internal/objective"
	"batterysim/internal/planner"
	"batterysim/internal/rolling"
	"batterysim/internal/search"
	"batterysim/internal/series"
	"batterysim/internal/sweep"
	"batterysim/internal/tariff"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	case "search":
		cmdSearch(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --prices prices.csv --forecast forecast.csv --config config.yaml --out results/ledger.csv")
	fmt.Println("  cli sweep --prices prices.csv --forecast forecast.csv --config config.yaml --out results/sweep.json")
	fmt.Println("  cli search --prices prices.csv --forecast forecast.csv --config config.yaml --out results/search.json")
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	pricesPath := fs.String("prices", "", "Path to price CSV")
	forecastPath := fs.String("forecast", "", "Path to consumption/solar forecast CSV (optional)")
	cfgPath := fs.String("config", "", "Path to YAML config")
	period := fs.String("period", "hourly", "hourly or quarter_hourly")
	outPath := fs.String("out", "results/ledger.csv", "Output CSV path")
	_ = fs.Parse(args)

	if *pricesPath == "" || *cfgPath == "" {
		fmt.Println("--prices and --config are required")
		os.Exit(2)
	}

	p := resolvePeriodFlag(*period)
	prices, err := series.LoadPriceCSV(*pricesPath, p)
	if err != nil {
		panic(err)
	}
	var forecast *series.ForecastSeries
	if *forecastPath != "" {
		forecast, err = series.LoadForecastCSV(*forecastPath, p)
		if err != nil {
			panic(err)
		}
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	batCfg, err := cfg.Battery.Resolve()
	if err != nil {
		panic(err)
	}
	tar, err := cfg.Tariff.Resolve()
	if err != nil {
		panic(err)
	}

	st, err := buildState(batCfg, cfg.Battery.InitialSocPct*batCfg.CapacityKwh)
	if err != nil {
		panic(err)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	sim := &rolling.Simulator{
		Planner:  planner.New(),
		Battery:  st,
		Prices:   prices,
		Forecast: forecast,
		Tariff:   tar,
		Log:      log,
	}

	hist, err := sim.Run(context.Background(), prices.Start())
	if err != nil {
		panic(err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := export.WriteHistoryCSV(*outPath, hist); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(hist.Records), *outPath)
	fmt.Printf("Total cashflow=%.2f cycles=%.2f\n", hist.TotalCashflow(), hist.Cycles(batCfg.CapacityKwh))
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	pricesPath := fs.String("prices", "", "Path to price CSV")
	forecastPath := fs.String("forecast", "", "Path to consumption/solar forecast CSV (optional)")
	cfgPath := fs.String("config", "", "Path to YAML config")
	period := fs.String("period", "hourly", "hourly or quarter_hourly")
	outPath := fs.String("out", "results/sweep.json", "Output JSON path")
	_ = fs.Parse(args)

	if *pricesPath == "" || *cfgPath == "" {
		fmt.Println("--prices and --config are required")
		os.Exit(2)
	}

	p := resolvePeriodFlag(*period)
	prices, err := series.LoadPriceCSV(*pricesPath, p)
	if err != nil {
		panic(err)
	}
	var forecast *series.ForecastSeries
	if *forecastPath != "" {
		forecast, err = series.LoadForecastCSV(*forecastPath, p)
		if err != nil {
			panic(err)
		}
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	if cfg.Sweep == nil {
		fmt.Println("config has no sweep section")
		os.Exit(2)
	}
	tar, err := cfg.Tariff.Resolve()
	if err != nil {
		panic(err)
	}

	chargeRange, dischargeRange := cfg.Sweep.ToSweepRanges()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	coef := efficiency.Coefficients{
		InverterChargeA:    cfg.Battery.InverterChargeA,
		InverterChargeB:    cfg.Battery.InverterChargeB,
		InverterDischargeA: cfg.Battery.InverterDischargeA,
		InverterDischargeB: cfg.Battery.InverterDischargeB,
		RTESlope:           cfg.Battery.RTESlope,
	}
	hwMaxCharge, hwMaxDischarge := 0.0, 0.0
	if cfg.Battery.Preset != "" {
		p, ok := efficiency.Lookup(cfg.Battery.Preset)
		if !ok {
			panic(fmt.Errorf("unknown battery preset %q", cfg.Battery.Preset))
		}
		if coef == (efficiency.Coefficients{}) {
			coef = p.Coefficients
		}
		hwMaxCharge, hwMaxDischarge = p.MaxChargePowerKw, p.MaxDischargePowerKw
	}

	sweepCfg := sweep.Config{
		ChargeRange:            chargeRange,
		DischargeRange:         dischargeRange,
		CapacityKwh:            cfg.Battery.CapacityKwh,
		MinSocPct:              cfg.Battery.MinSocPct,
		MaxSocPct:              cfg.Battery.MaxSocPct,
		InitialSocPct:          cfg.Battery.InitialSocPct,
		Coefficients:           coef,
		HardwareMaxChargeKw:    hwMaxCharge,
		HardwareMaxDischargeKw: hwMaxDischarge,
		Prices:                 prices,
		Forecast:               forecast,
		Tariff:                 tar,
		Log:                    log,
	}

	result, err := sweep.Run(context.Background(), sweepCfg, func(idx, total int, ch, dis float64) {
		if idx%25 == 0 || idx == total {
			fmt.Printf("sweep %d/%d (charge=%.2f discharge=%.2f)\n", idx, total, ch, dis)
		}
	})
	if err != nil {
		panic(err)
	}

	ranked := aggregate.RankByProfitPerCycle(toPointResults(result.Grid))
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := export.WriteJSON(*outPath, result); err != nil {
		panic(err)
	}

	fmt.Printf("Best: charge=%.2fkW discharge=%.2fkW profit=%.2f\n", result.Best.Point.ChargeKw, result.Best.Point.DischargeKw, result.Best.Profit)
	fmt.Println("Top by profit/cycle:")
	for i, r := range ranked {
		if i >= 5 {
			break
		}
		fmt.Printf("  %s profit=%.2f cycles=%.2f\n", r.Label, r.Profit, r.Cycles)
	}
}

func cmdSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	pricesPath := fs.String("prices", "", "Path to price CSV")
	forecastPath := fs.String("forecast", "", "Path to consumption/solar forecast CSV (optional)")
	cfgPath := fs.String("config", "", "Path to YAML config")
	period := fs.String("period", "hourly", "hourly or quarter_hourly")
	outPath := fs.String("out", "results/search.json", "Output JSON path")
	_ = fs.Parse(args)

	if *pricesPath == "" || *cfgPath == "" {
		fmt.Println("--prices and --config are required")
		os.Exit(2)
	}

	p := resolvePeriodFlag(*period)
	prices, err := series.LoadPriceCSV(*pricesPath, p)
	if err != nil {
		panic(err)
	}
	var forecast *series.ForecastSeries
	if *forecastPath != "" {
		forecast, err = series.LoadForecastCSV(*forecastPath, p)
		if err != nil {
			panic(err)
		}
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	if cfg.Search == nil {
		fmt.Println("config has no search section")
		os.Exit(2)
	}
	tar, err := cfg.Tariff.Resolve()
	if err != nil {
		panic(err)
	}

	chargeBounds, dischargeBounds, start := cfg.Search.ToSearchBounds()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	searchCfg := search.Config{
		ChargeBounds:    chargeBounds,
		DischargeBounds: dischargeBounds,
		Tolerance:       cfg.Search.Tolerance,
		Objective: buildObjectiveConfig(cfg, prices, forecast, tar, log),
		Log: log,
	}

	result, err := search.Run(searchCfg, start)
	if err != nil {
		panic(err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := export.WriteJSON(*outPath, result); err != nil {
		panic(err)
	}

	fmt.Printf("Best: charge=%.2fkW discharge=%.2fkW profit=%.2f (%d iterations, %d evaluations, converged=%v)\n",
		result.Best.ChargeKw, result.Best.DischargeKw, result.BestProfit, result.Iterations, result.Evaluations, result.Converged)
}

func buildState(cfg battery.Config, initialSocKwh float64) (*battery.State, error) {
	return battery.New(cfg, initialSocKwh)
}

// buildObjectiveConfig resolves the battery coefficients (preset or
// explicit, same precedence as config.BatteryConfig.Resolve) into the
// objective.Config the search command needs.
func buildObjectiveConfig(cfg *config.Config, prices *series.PriceSeries, forecast *series.ForecastSeries, tar tariff.Model, log zerolog.Logger) objective.Config {
	coef := efficiency.Coefficients{
		InverterChargeA:    cfg.Battery.InverterChargeA,
		InverterChargeB:    cfg.Battery.InverterChargeB,
		InverterDischargeA: cfg.Battery.InverterDischargeA,
		InverterDischargeB: cfg.Battery.InverterDischargeB,
		RTESlope:           cfg.Battery.RTESlope,
	}
	if cfg.Battery.Preset != "" {
		if p, ok := efficiency.Lookup(cfg.Battery.Preset); ok && coef == (efficiency.Coefficients{}) {
			coef = p.Coefficients
		}
	}
	return objective.Config{
		CapacityKwh:   cfg.Battery.CapacityKwh,
		MinSocPct:     cfg.Battery.MinSocPct,
		MaxSocPct:     cfg.Battery.MaxSocPct,
		InitialSocPct: cfg.Battery.InitialSocPct,
		Coefficients:  coef,
		Prices:        prices,
		Forecast:      forecast,
		Tariff:        tar,
		Log:           log,
	}
}

func resolvePeriodFlag(name string) series.Period {
	if name == "quarter_hourly" {
		return series.QuarterHourly
	}
	return series.Hourly
}

func toPointResults(grid []sweep.Evaluation) []aggregate.PointResult {
	out := make([]aggregate.PointResult, len(grid))
	for i, e := range grid {
		out[i] = aggregate.PointResult{
			Label:          fmt.Sprintf("charge=%.2f discharge=%.2f", e.Point.ChargeKw, e.Point.DischargeKw),
			Profit:         e.Profit,
			Cycles:         e.Cycles,
			ProfitPerCycle: e.ProfitPerCycle,
		}
	}
	return out
}
