package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/use-agent/recast/api/handler"
	"github.com/use-agent/recast/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain: Recovery → Logger → CORS. Recovery converts any
// unanticipated panic into a 500 instead of crashing the process. CORS is
// open to the configured frontend origins only.
func NewRouter(cloner handler.Cloner, stats handler.StatsProvider, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", handler.Welcome())
	r.GET("/health", handler.Health(stats, startTime))
	r.POST("/clone_website", handler.Clone(cloner))

	return r
}
