package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/Job-Search-Agent/internal/config"
)

// HealthCheck reports service liveness plus build info.
func HealthCheck(cfg config.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"version":     cfg.AppVersion,
			"environment": cfg.Environment,
		})
	}
}
