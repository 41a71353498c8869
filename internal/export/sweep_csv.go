package export

import (
	"encoding/csv"
	"os"

	"batterysim/internal/sweep"
)

// WriteSweepCSV writes one row per evaluated grid point.
func WriteSweepCSV(path string, rows []sweep.Evaluation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"charge_kw", "discharge_kw", "profit", "cycles", "profit_per_cycle"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, e := range rows {
		row := []string{
			fmtFloat(e.Point.ChargeKw),
			fmtFloat(e.Point.DischargeKw),
			fmtFloat(e.Profit),
			fmtFloat(e.Cycles),
			fmtFloat(e.ProfitPerCycle),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
