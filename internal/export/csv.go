// Package export writes simulation results to CSV and JSON, generalizing
// the teacher's ledger-CSV writer to the rolling, sweep, and search result
// shapes spec.md §4.7 and §5 require for reporting.
package export

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"batterysim/internal/rolling"
)

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// WriteHistoryCSV writes one row per simulated period.
func WriteHistoryCSV(path string, h *rolling.History) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"instant", "action",
		"dc_moved_kwh", "energy_from_grid_kwh", "energy_to_grid_kwh",
		"soc_kwh", "buy_price", "sell_price", "cashflow", "cum_cashflow",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range h.Records {
		row := []string{
			fmtTime(r.Instant),
			r.Action.String(),
			fmtFloat(r.DcMovedKwh),
			fmtFloat(r.EnergyFromGridKwh),
			fmtFloat(r.EnergyToGridKwh),
			fmtFloat(r.SocKwh),
			fmtFloat(r.BuyPrice),
			fmtFloat(r.SellPrice),
			fmtFloat(r.Cashflow),
			fmtFloat(r.CumCashflow),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
