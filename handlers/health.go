package handlers

import (
	"net/http"

	"hotelops/utils"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports the last dependency snapshot; 503 when any is down.
func HealthCheck(monitor *utils.HealthMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := monitor.Status()
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "healthy": status.Healthy()})
	}
}
