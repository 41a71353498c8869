package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"batterysim/internal/aggregate"
	"batterysim/internal/api/models"
	"batterysim/internal/battery"
	"batterysim/internal/planner"
	"batterysim/internal/rolling"
)

// RunSimulation handles POST /api/v1/simulate: one rolling-horizon run.
func (h *Handlers) RunSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	prices, forecast, err := loadSource(req.Source)
	if err != nil {
		badRequest(c, "DATA_LOAD_ERROR", err)
		return
	}

	batCfg, err := resolveBattery(req.Battery)
	if err != nil {
		badRequest(c, "INVALID_BATTERY", err)
		return
	}
	tar, err := resolveTariff(req.Tariff)
	if err != nil {
		badRequest(c, "INVALID_TARIFF", err)
		return
	}

	state, err := battery.New(batCfg, req.Battery.InitialSocPct*req.Battery.CapacityKwh)
	if err != nil {
		badRequest(c, "INVALID_BATTERY", err)
		return
	}

	sim := &rolling.Simulator{
		Planner:  planner.New(),
		Battery:  state,
		Prices:   prices,
		Forecast: forecast,
		Tariff:   tar,
		Log:      h.Log,
	}

	hist, err := sim.Run(context.Background(), prices.Start())
	if err != nil {
		internalError(c, "SIMULATION_ERROR", err)
		return
	}

	c.JSON(http.StatusOK, buildSimulationResponse(hist, req.Battery.CapacityKwh))
}

func buildSimulationResponse(hist *rolling.History, capacityKwh float64) models.SimulationResponse {
	monthly := aggregate.Monthlies(hist, capacityKwh)
	out := models.SimulationResponse{
		Status: "ok",
		Summary: models.SimulationSummary{
			TotalCashflow: hist.TotalCashflow(),
			TotalPeriods:  len(hist.Records),
			Cycles:        hist.Cycles(capacityKwh),
			Monthly:       toMonthlySummaries(monthly),
		},
		Warnings: hist.Warnings,
	}
	if n := len(hist.Records); n > 0 {
		out.Summary.FinalSocKwh = hist.Records[n-1].SocKwh
	}
	out.Ledger = make([]models.TimestepRow, len(hist.Records))
	for i, r := range hist.Records {
		out.Ledger[i] = models.TimestepRow{
			Instant:           r.Instant,
			Action:            r.Action.String(),
			DcMovedKwh:        r.DcMovedKwh,
			EnergyFromGridKwh: r.EnergyFromGridKwh,
			EnergyToGridKwh:   r.EnergyToGridKwh,
			SocKwh:            r.SocKwh,
			BuyPrice:          r.BuyPrice,
			SellPrice:         r.SellPrice,
			Cashflow:          r.Cashflow,
			CumCashflow:       r.CumCashflow,
		}
	}
	return out
}

func toMonthlySummaries(rows []aggregate.Monthly) []models.MonthlySummary {
	out := make([]models.MonthlySummary, len(rows))
	for i, m := range rows {
		out[i] = models.MonthlySummary{
			Year:                m.Year,
			Month:               int(m.Month),
			EnergyChargedKwh:    m.EnergyChargedKwh,
			EnergyDischargedKwh: m.EnergyDischargedKwh,
			GridImportKwh:       m.GridImportKwh,
			GridExportKwh:       m.GridExportKwh,
			Cashflow:            m.Cashflow,
			Cycles:              m.Cycles,
		}
	}
	return out
}
