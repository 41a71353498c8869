package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"batterysim/internal/api/models"
	"batterysim/internal/efficiency"
	"batterysim/internal/sweep"
)

// RunSweep handles POST /api/v1/sweep: the two-dimensional power-rating
// grid search.
func (h *Handlers) RunSweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	prices, forecast, err := loadSource(req.Source)
	if err != nil {
		badRequest(c, "DATA_LOAD_ERROR", err)
		return
	}
	tar, err := resolveTariff(req.Tariff)
	if err != nil {
		badRequest(c, "INVALID_TARIFF", err)
		return
	}

	coef := efficiency.Coefficients{}
	hwMaxCharge, hwMaxDischarge := 0.0, 0.0
	if req.Battery.Preset != "" {
		p, ok := efficiency.Lookup(req.Battery.Preset)
		if !ok {
			badRequest(c, "INVALID_BATTERY", unknownPreset("battery", req.Battery.Preset))
			return
		}
		coef = p.Coefficients
		hwMaxCharge, hwMaxDischarge = p.MaxChargePowerKw, p.MaxDischargePowerKw
	}

	cfg := sweep.Config{
		ChargeRange:            sweep.Range{Min: req.ChargeRange.Min, Max: req.ChargeRange.Max, Step: req.ChargeRange.Step},
		DischargeRange:         sweep.Range{Min: req.DischargeRange.Min, Max: req.DischargeRange.Max, Step: req.DischargeRange.Step},
		CapacityKwh:            req.Battery.CapacityKwh,
		MinSocPct:              req.Battery.MinSocPct,
		MaxSocPct:              req.Battery.MaxSocPct,
		InitialSocPct:          req.Battery.InitialSocPct,
		Coefficients:           coef,
		HardwareMaxChargeKw:    hwMaxCharge,
		HardwareMaxDischargeKw: hwMaxDischarge,
		Prices:                 prices,
		Forecast:               forecast,
		Tariff:                 tar,
		Log:                    h.Log,
	}

	result, err := sweep.Run(context.Background(), cfg, nil)
	if err != nil {
		internalError(c, "SWEEP_ERROR", err)
		return
	}

	c.JSON(http.StatusOK, models.SweepResponse{
		Grid:     toSweepPoints(result.Grid),
		Best:     toSweepPoint(result.Best),
		Diagonal: toSweepPoints(result.Diagonal),
	})
}

func toSweepPoint(e sweep.Evaluation) models.SweepPoint {
	return models.SweepPoint{
		ChargeKw:       e.Point.ChargeKw,
		DischargeKw:    e.Point.DischargeKw,
		Profit:         e.Profit,
		Cycles:         e.Cycles,
		ProfitPerCycle: e.ProfitPerCycle,
	}
}

func toSweepPoints(rows []sweep.Evaluation) []models.SweepPoint {
	out := make([]models.SweepPoint, len(rows))
	for i, e := range rows {
		out[i] = toSweepPoint(e)
	}
	return out
}
