// Package handlers implements the gin HTTP handlers for running
// simulations, sweeps, searches, and scenario comparisons, and for listing
// the built-in battery and tariff presets.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"batterysim/internal/api/models"
	"batterysim/internal/battery"
	"batterysim/internal/efficiency"
	"batterysim/internal/series"
	"batterysim/internal/tariff"
)

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: err.Error()},
	})
}

func internalError(c *gin.Context, code string, err error) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: err.Error()},
	})
}

func resolvePeriod(name string) series.Period {
	if name == "quarter_hourly" {
		return series.QuarterHourly
	}
	return series.Hourly
}

func loadSource(src models.PriceSource) (*series.PriceSeries, *series.ForecastSeries, error) {
	period := resolvePeriod(src.Period)
	prices, err := series.LoadPriceCSV(src.PricesFile, period)
	if err != nil {
		return nil, nil, err
	}
	var forecast *series.ForecastSeries
	if src.ForecastFile != "" {
		forecast, err = series.LoadForecastCSV(src.ForecastFile, period)
		if err != nil {
			return nil, nil, err
		}
	}
	return prices, forecast, nil
}

func resolveBattery(req models.BatteryConfig) (battery.Config, error) {
	coef := efficiency.Coefficients{}
	chargeKw, dischargeKw := req.MaxChargePowerKw, req.MaxDischargePowerKw

	if req.Preset != "" {
		p, ok := efficiency.Lookup(req.Preset)
		if !ok {
			return battery.Config{}, unknownPreset("battery", req.Preset)
		}
		if chargeKw == 0 {
			chargeKw = p.MaxChargePowerKw
		}
		if dischargeKw == 0 {
			dischargeKw = p.MaxDischargePowerKw
		}
		coef = p.Coefficients
	}

	bundle, err := efficiency.Compute(chargeKw, dischargeKw, req.CapacityKwh, coef)
	if err != nil {
		return battery.Config{}, err
	}
	cfg := battery.FromBundle(chargeKw, dischargeKw, req.CapacityKwh, req.MinSocPct, req.MaxSocPct, bundle)
	return cfg, cfg.Validate()
}

func resolveTariff(req models.TariffConfig) (tariff.Model, error) {
	if req.Preset == "custom" {
		return tariff.NewCustom(req.BuyFormula, req.SellFormula)
	}
	m, ok := tariff.Preset(req.Preset)
	if !ok {
		return nil, unknownPreset("tariff", req.Preset)
	}
	return m, nil
}

type presetError struct{ kind, name string }

func (e presetError) Error() string { return "unknown " + e.kind + " preset: " + e.name }

func unknownPreset(kind, name string) error { return presetError{kind: kind, name: name} }

// Handlers bundles the shared logger all endpoint groups use.
type Handlers struct {
	Log zerolog.Logger
}

// New returns a Handlers bundle logging through log.
func New(log zerolog.Logger) *Handlers {
	return &Handlers{Log: log}
}
