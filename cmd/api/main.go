package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"batterysim/internal/api/handlers"
	"batterysim/internal/api/middleware"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logging(log))
	router.Use(middleware.ErrorHandler())

	h := handlers.New(log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", h.RunSimulation)
		api.POST("/sweep", h.RunSweep)
		api.POST("/search", h.RunSearch)
		api.POST("/scenarios/compare", h.RunCompare)

		api.GET("/presets/batteries", h.ListBatteryPresets)
		api.GET("/presets/tariffs", h.ListTariffPresets)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("addr", addr).Msg("starting api server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
