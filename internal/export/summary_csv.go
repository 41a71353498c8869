package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"batterysim/internal/aggregate"
)

// WriteMonthliesCSV writes one row per calendar month.
func WriteMonthliesCSV(path string, rows []aggregate.Monthly) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"year", "month",
		"energy_charged_kwh", "energy_discharged_kwh",
		"grid_import_kwh", "grid_export_kwh",
		"cashflow", "cycles",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, m := range rows {
		row := []string{
			strconv.Itoa(m.Year),
			strconv.Itoa(int(m.Month)),
			fmtFloat(m.EnergyChargedKwh),
			fmtFloat(m.EnergyDischargedKwh),
			fmtFloat(m.GridImportKwh),
			fmtFloat(m.GridExportKwh),
			fmtFloat(m.Cashflow),
			fmtFloat(m.Cycles),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteDailiesCSV writes one row per calendar day.
func WriteDailiesCSV(path string, rows []aggregate.Daily) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"date",
		"energy_charged_kwh", "energy_discharged_kwh",
		"cashflow", "cycles",
		"min_soc_pct", "max_soc_pct",
		"savings_vs_baseline",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, d := range rows {
		row := []string{
			fmtTime(d.Date),
			fmtFloat(d.EnergyChargedKwh),
			fmtFloat(d.EnergyDischargedKwh),
			fmtFloat(d.Cashflow),
			fmtFloat(d.Cycles),
			fmtFloat(d.MinSocPct),
			fmtFloat(d.MaxSocPct),
			fmtFloat(d.SavingsVsBaseline),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
