// Package http exposes the relay over HTTP: a liveness endpoint and the
// websocket route that bridges connections to the core hub.
package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avolkov/chatrelay-server/internal/config"
	"github.com/avolkov/chatrelay-server/internal/core"
)

// NewServer builds the HTTP server: request logging, CORS allowlist,
// GET /health, and GET /ws.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	limits := core.LimiterConfig{
		Capacity:     cfg.RateLimit.Capacity,
		RefillPerSec: cfg.RateLimit.RefillPerSec,
		CostMessage:  cfg.RateLimit.CostMessage,
		CostTyping:   cfg.RateLimit.CostTyping,
	}
	ws := NewWSHandler(hub, limits, cfg.AllowedOrigins, logger)
	router.GET("/ws", gin.WrapH(ws))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
