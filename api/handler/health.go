package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/recast/models"
)

// StatsProvider reports renderer page-slot utilisation.
// *renderer.Renderer satisfies this.
type StatsProvider interface {
	Stats() models.BrowserStats
}

// Welcome returns a handler for GET /.
func Welcome() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Recast website cloner API.",
		})
	}
}

// Health returns a handler for GET /health.
//
// Reports slot utilisation and degrades status when > 80% of pages are active.
func Health(stats StatsProvider, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := stats.Stats()

		status := "healthy"
		if s.MaxPages > 0 && s.ActivePages > int(float64(s.MaxPages)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Browser: s,
			Version: "0.1.0",
		})
	}
}
