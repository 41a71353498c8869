package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"batterysim/internal/api/models"
	"batterysim/internal/scenario"
)

// RunCompare handles POST /api/v1/scenarios/compare: the four canonical
// scenarios (fixed/dynamic tariff x no-battery/with-battery), run side by
// side over the same load and price inputs.
func (h *Handlers) RunCompare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	prices, forecast, err := loadSource(req.Source)
	if err != nil {
		badRequest(c, "DATA_LOAD_ERROR", err)
		return
	}
	if forecast == nil {
		badRequest(c, "INVALID_REQUEST", errMissingForecast)
		return
	}

	batCfg, err := resolveBattery(req.Battery)
	if err != nil {
		badRequest(c, "INVALID_BATTERY", err)
		return
	}
	fixedTar, err := resolveTariff(req.FixedTariff)
	if err != nil {
		badRequest(c, "INVALID_TARIFF", err)
		return
	}
	dynamicTar, err := resolveTariff(req.DynamicTariff)
	if err != nil {
		badRequest(c, "INVALID_TARIFF", err)
		return
	}

	cfg := scenario.Config{
		Prices:        prices,
		Forecast:      forecast,
		FixedTariff:   fixedTar,
		DynamicTariff: dynamicTar,
		Battery:       batCfg,
		InitialSocKwh: req.Battery.InitialSocPct * req.Battery.CapacityKwh,
		Log:           h.Log,
	}

	results := scenario.RunAll(context.Background(), cfg)
	summaries := scenario.Summaries(results, req.Battery.CapacityKwh)

	resp := models.CompareResponse{Scenarios: make([]models.ScenarioResult, len(results))}
	for i, r := range results {
		out := models.ScenarioResult{Name: string(r.Name), Failed: r.Failed, Reason: r.Reason}
		if m, ok := summaries[r.Name]; ok {
			out.Monthly = toMonthlySummaries(m)
		}
		resp.Scenarios[i] = out
	}

	c.JSON(http.StatusOK, resp)
}

type compareError string

func (e compareError) Error() string { return string(e) }

const errMissingForecast = compareError("forecast_file is required to run the scenario comparison")
