package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the read-only HTTP API with all routes configured.
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	m := newMetrics()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health", "/metrics"},
	}))

	r.Use(gin.Recovery())
	r.Use(m.middleware())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, m)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, m *metrics) {
	r.GET("/health", handler.GetHealth)
	r.GET("/items", handler.ListItems)
	r.GET("/items/:id", handler.GetItem)
	r.GET("/stats", handler.GetStats)
	r.GET("/feed.xml", handler.GetFeed)
	r.GET("/metrics", m.handler())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     "Agent Radar",
			"version":     handler.version,
			"description": "Read-only API over the agent platform change snapshot",
			"endpoints": gin.H{
				"health":  "/health",
				"items":   "/items?vendor=<name>&type=<launch|deprecation|pricing|upgrade>&limit=<n>",
				"item":    "/items/<id>",
				"stats":   "/stats",
				"feed":    "/feed.xml",
				"metrics": "/metrics",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}
