// Package meter ingests cumulative-register meter CSVs (spec.md §6) and
// turns them into the per-period import/export energy a ForecastSeries
// needs: auto-detecting the sample interval, differencing cumulative
// registers, and aggregating into the price series' period.
package meter

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"batterysim/internal/batteryerr"
	"batterysim/internal/series"
)

// Columns names the header columns to read from the CSV.
type Columns struct {
	Timestamp   string
	ImportCols  []string // summed per row
	ExportCols  []string
}

// Reading is one raw CSV row: a timestamp and the summed cumulative import
// and export registers.
type Reading struct {
	Instant    time.Time
	ImportKwh  float64
	ExportKwh  float64
}

// allowedIntervalsMinutes are the only interval lengths DetectInterval will
// round to, per spec.md §6.
var allowedIntervalsMinutes = []int{1, 5, 10, 15, 20, 30, 60}

// LoadCSV reads and parses the meter CSV at path using the given column
// mapping. Rows must already be in chronological order.
func LoadCSV(path string, cols Columns) ([]Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseCSV(f, cols)
}

func parseCSV(r io.Reader, cols Columns) ([]Reading, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	tsIdx, ok := idx[cols.Timestamp]
	if !ok {
		return nil, batteryerr.InvalidParameter("timestamp column " + cols.Timestamp + " not found")
	}
	importIdx := columnIndexes(idx, cols.ImportCols)
	exportIdx := columnIndexes(idx, cols.ExportCols)

	var readings []Reading
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, row[tsIdx])
		if err != nil {
			return nil, err
		}
		readings = append(readings, Reading{
			Instant:   t,
			ImportKwh: sumColumns(row, importIdx),
			ExportKwh: sumColumns(row, exportIdx),
		})
	}
	return readings, nil
}

func columnIndexes(idx map[string]int, names []string) []int {
	out := make([]int, 0, len(names))
	for _, n := range names {
		if i, ok := idx[n]; ok {
			out = append(out, i)
		}
	}
	return out
}

func sumColumns(row []string, indexes []int) float64 {
	var sum float64
	for _, i := range indexes {
		if i < len(row) {
			if v, err := strconv.ParseFloat(row[i], 64); err == nil {
				sum += v
			}
		}
	}
	return sum
}

// DetectIntervalMinutes computes the median of the first up to 100 deltas
// (from up to 101 readings), rounded to the nearest allowed interval.
func DetectIntervalMinutes(readings []Reading) int {
	n := len(readings)
	if n > 101 {
		n = 101
	}
	if n < 2 {
		return allowedIntervalsMinutes[0]
	}
	deltas := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		deltas = append(deltas, readings[i].Instant.Sub(readings[i-1].Instant).Minutes())
	}
	sort.Float64s(deltas)
	median := deltas[len(deltas)/2]
	if len(deltas)%2 == 0 {
		median = (deltas[len(deltas)/2-1] + deltas[len(deltas)/2]) / 2
	}
	return nearestAllowed(median)
}

func nearestAllowed(minutes float64) int {
	best := allowedIntervalsMinutes[0]
	bestDiff := absFloat(minutes - float64(best))
	for _, a := range allowedIntervalsMinutes[1:] {
		if d := absFloat(minutes - float64(a)); d < bestDiff {
			best = a
			bestDiff = d
		}
	}
	return best
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Delta is one per-sample energy increment, differenced from cumulative
// readings with negative deltas (e.g. register resets) clamped to zero.
type Delta struct {
	Instant   time.Time
	ImportKwh float64
	ExportKwh float64
}

// Difference converts cumulative readings to per-sample energy deltas.
func Difference(readings []Reading) []Delta {
	if len(readings) == 0 {
		return nil
	}
	deltas := make([]Delta, 0, len(readings)-1)
	for i := 1; i < len(readings); i++ {
		imp := readings[i].ImportKwh - readings[i-1].ImportKwh
		exp := readings[i].ExportKwh - readings[i-1].ExportKwh
		if imp < 0 {
			imp = 0
		}
		if exp < 0 {
			exp = 0
		}
		deltas = append(deltas, Delta{Instant: readings[i].Instant, ImportKwh: imp, ExportKwh: exp})
	}
	return deltas
}

// AggregateToPeriod sums per-sample deltas into bins rounded down to the
// given period, and maps them onto a ForecastSeries: import energy is
// treated as consumption and export energy as solar, the standard
// net-metering convention when self-consumption cannot be disaggregated
// from two cumulative registers alone.
func AggregateToPeriod(deltas []Delta, period series.Period) ([]series.ForecastPoint, error) {
	bins := map[int64]*series.ForecastPoint{}
	var order []int64
	for _, d := range deltas {
		key := series.PeriodIndex(d.Instant, period)
		p, ok := bins[key]
		if !ok {
			binStart := time.Unix(key*int64(period.Duration().Seconds()), 0).UTC().In(d.Instant.Location())
			p = &series.ForecastPoint{Instant: binStart}
			bins[key] = p
			order = append(order, key)
		}
		p.ConsumptionKwh += d.ImportKwh
		p.SolarKwh += d.ExportKwh
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]series.ForecastPoint, 0, len(order))
	for _, k := range order {
		out = append(out, *bins[k])
	}
	return out, nil
}
