package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"batterysim/internal/api/models"
	"batterysim/internal/efficiency"
)

// ListBatteryPresets handles GET /api/v1/presets/batteries.
func (h *Handlers) ListBatteryPresets(c *gin.Context) {
	out := make([]models.BatteryPresetInfo, 0, len(efficiency.Registry))
	for _, p := range efficiency.Registry {
		out = append(out, models.BatteryPresetInfo{
			ID:                  p.ID,
			Name:                p.Name,
			MaxChargePowerKw:    p.MaxChargePowerKw,
			MaxDischargePowerKw: p.MaxDischargePowerKw,
		})
	}
	c.JSON(http.StatusOK, gin.H{"presets": out})
}

// ListTariffPresets handles GET /api/v1/presets/tariffs.
func (h *Handlers) ListTariffPresets(c *gin.Context) {
	out := []models.TariffPresetInfo{
		{ID: "standard-saldering", Description: "Dutch net-metering: buy price == sell price"},
		{ID: "standard-no-saldering", Description: "Standard buy price, unsubsidized sell rate"},
		{ID: "bare", Description: "Wholesale pass-through: buy == sell == epex/1000"},
		{ID: "custom", Description: "User-supplied buy/sell formulas, evaluated in a restricted sandbox"},
	}
	c.JSON(http.StatusOK, gin.H{"presets": out})
}
