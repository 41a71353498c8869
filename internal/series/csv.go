package series

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"
)

// LoadPriceCSV reads a two-column (instant, price_mwh) CSV into a
// PriceSeries. Price-data loading is an external collaborator spec.md
// leaves unspecified; this is the minimal host-side adapter the CLI and API
// use to get a series into the planner.
func LoadPriceCSV(path string, period Period) (*PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	if _, err := cr.Read(); err != nil { // header
		return nil, err
	}

	var points []PricePoint
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return nil, err
		}
		price, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, err
		}
		points = append(points, PricePoint{Instant: t, PriceMWh: price})
	}
	return NewPriceSeries(period, points)
}

// LoadForecastCSV reads a three-column (instant, consumption_kwh, solar_kwh)
// CSV into a ForecastSeries.
func LoadForecastCSV(path string, period Period) (*ForecastSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	if _, err := cr.Read(); err != nil { // header
		return nil, err
	}

	var points []ForecastPoint
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return nil, err
		}
		consumption, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, err
		}
		solar, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, err
		}
		points = append(points, ForecastPoint{Instant: t, ConsumptionKwh: consumption, SolarKwh: solar})
	}
	return NewForecastSeries(period, points)
}
