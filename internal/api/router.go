// Package api serves target detection over HTTP with gin.
//
// Frames are uploaded as multipart form files under the "image" field and
// run through the same detection pipeline as the CLI and the MCP server.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/target-vision/internal/config"
)

// NewRouter builds the gin engine with all routes registered. A nil cfg
// uses config.Default and a nil logger disables logging.
func NewRouter(cfg *config.Config, logger *zap.Logger, version string) *gin.Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(cfg.HTTP.Mode)

	r := gin.New()
	r.MaxMultipartMemory = cfg.HTTP.MaxUploadBytes
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))

	h := NewHandler(cfg, logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": version})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/detect", h.Detect)
		v1.POST("/mask", h.Mask)
		v1.POST("/score", h.ScorePair)
		v1.GET("/config", h.Config)
	}

	return r
}
