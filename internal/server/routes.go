// Package server exposes the planning pipeline over HTTP.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SetupRoutes registers the API under r.
func SetupRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/scenarios", h.ListScenarios)
	r.GET("/scenarios/:id", h.GetScenario)
	r.POST("/forecast", h.Forecast)
	r.POST("/actions", h.Actions)
	r.POST("/impact", h.Impact)
	r.POST("/plan", h.Plan)
	r.GET("/state", h.GetState)
	r.PUT("/state", h.PutState)
}

// NewRouter builds the engine with /health and the /api group.
func NewRouter(h *Handler, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", h.Health)
	SetupRoutes(r.Group("/api"), h)

	log.Debug().Int("routes", len(r.Routes())).Msg("routes initialized")
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
