package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"batterysim/internal/api/models"
	"batterysim/internal/efficiency"
	"batterysim/internal/objective"
	"batterysim/internal/search"
)

// RunSearch handles POST /api/v1/search: the Nelder-Mead direct search over
// power ratings.
func (h *Handlers) RunSearch(c *gin.Context) {
	var req models.SearchRequest
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
	if req.Battery.Preset != "" {
		p, ok := efficiency.Lookup(req.Battery.Preset)
		if !ok {
			badRequest(c, "INVALID_BATTERY", unknownPreset("battery", req.Battery.Preset))
			return
		}
		coef = p.Coefficients
	}

	cfg := search.Config{
		ChargeBounds:    search.Bounds{Low: req.ChargeBounds.Low, High: req.ChargeBounds.High},
		DischargeBounds: search.Bounds{Low: req.DischargeBounds.Low, High: req.DischargeBounds.High},
		Tolerance:       req.Tolerance,
		Objective: objective.Config{
			CapacityKwh:   req.Battery.CapacityKwh,
			MinSocPct:     req.Battery.MinSocPct,
			MaxSocPct:     req.Battery.MaxSocPct,
			InitialSocPct: req.Battery.InitialSocPct,
			Coefficients:  coef,
			Prices:        prices,
			Forecast:      forecast,
			Tariff:        tar,
			Log:           h.Log,
		},
		Log: h.Log,
	}

	start := search.Point{ChargeKw: req.Start.ChargeKw, DischargeKw: req.Start.DischargeKw}
	result, err := search.Run(cfg, start)
	if err != nil {
		internalError(c, "SEARCH_ERROR", err)
		return
	}

	c.JSON(http.StatusOK, models.SearchResponse{
		Best: models.SweepPoint{
			ChargeKw:    result.Best.ChargeKw,
			DischargeKw: result.Best.DischargeKw,
			Profit:      result.BestProfit,
		},
		Iterations:  result.Iterations,
		Evaluations: result.Evaluations,
		Converged:   result.Converged,
	})
}
